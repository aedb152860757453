package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "fshash [paths...]",
		Short: "Hash file trees in parallel, tuned to the storage underneath",
		Long: `fshash computes cryptographic digests over files and directory trees.

It detects the storage hardware behind each input path and sizes its
worker pool to match: NVMe volumes get deep parallelism, spinning disks
get a single sequential reader. Failed files are reported alongside the
successes so a batch never silently loses entries.

Examples:
  fshash /evidence/case-041          # SHA-256 every file under a directory
  fshash -a md5 image.dd             # Single file, legacy algorithm
  fshash -f json -o report.json .    # Machine-readable report to a file
  fshash -i ~/seized                 # Interactive progress screen
  fshash drives                      # Show per-volume detection verdicts
  fshash config show                 # Show configuration`,
		Args:              cobra.ArbitraryArgs,
		RunE:              runHash,
		PersistentPreRunE: initializeLogging,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/fshash/config.yaml)")
	rootCmd.PersistentFlags().StringP("algorithm", "a", "", "digest algorithm (sha256, sha1, md5)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override worker count (0=auto from storage detection)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().StringP("format", "f", "", "output format (pretty, plain, json, jsonl, yaml, sum, tsv, csv, markdown, template)")
	rootCmd.PersistentFlags().String("template", "", "Go template for -f template")
	rootCmd.PersistentFlags().StringP("output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().Bool("no-benchmark", false, "never write benchmark probe files to target volumes")
	rootCmd.PersistentFlags().BoolP("interactive", "i", false, "interactive progress screen")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output on stderr")

	// Bind flags to viper
	_ = viper.BindPFlag("algorithm", rootCmd.PersistentFlags().Lookup("algorithm"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("template", rootCmd.PersistentFlags().Lookup("template"))
	_ = viper.BindPFlag("storage.benchmark.disabled", rootCmd.PersistentFlags().Lookup("no-benchmark"))
	_ = viper.BindPFlag("interactive", rootCmd.PersistentFlags().Lookup("interactive"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Set config name and type
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "fshash"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "fshash"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("FSHASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	viper.SetDefault("algorithm", config.DefaultAlgorithm)
	viper.SetDefault("workers", 0)
	viper.SetDefault("output.format", config.DefaultOutputFormat)
	viper.SetDefault("shutdown_timeout", config.DefaultShutdownTimeout)
	viper.SetDefault("storage.benchmark.size", config.DefaultBenchmarkSize)
	viper.SetDefault("storage.benchmark.disabled", false)
	viper.SetDefault("storage.thresholds.hdd_write_max", config.DefaultHDDWriteMax)
	viper.SetDefault("storage.thresholds.nvme_write_min", config.DefaultNVMeWriteMin)
	viper.SetDefault("storage.thresholds.nvme_read_min", config.DefaultNVMeReadMin)
	viper.SetDefault("storage.thresholds.ssd_write_min", config.DefaultSSDWriteMin)

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message to stderr if quiet mode is not enabled.
// Status text goes to stderr so stdout stays clean for hash output.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
