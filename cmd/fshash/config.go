package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage fshash configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/fshash/config.yaml (if set)
  2. ~/.config/fshash/config.yaml

Environment variables can override config file settings using the FSHASH_ prefix:
  FSHASH_ALGORITHM=sha1
  FSHASH_WORKERS=8
  FSHASH_STORAGE_BENCHMARK_DISABLED=true`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		printError("Failed to load configuration: %v", err)
		// Show defaults anyway
		cfg = &config.Config{
			Algorithm:       config.DefaultAlgorithm,
			ShutdownTimeout: config.DefaultShutdownTimeout,
		}
		cfg.Output.Format = config.DefaultOutputFormat
		cfg.Storage.Benchmark.Size = config.DefaultBenchmarkSize
		cfg.Storage.Thresholds.HDDWriteMax = config.DefaultHDDWriteMax
		cfg.Storage.Thresholds.NVMeWriteMin = config.DefaultNVMeWriteMin
		cfg.Storage.Thresholds.NVMeReadMin = config.DefaultNVMeReadMin
		cfg.Storage.Thresholds.SSDWriteMin = config.DefaultSSDWriteMin
		cfg.Logging.Level = "info"
	}

	// Show config file being used
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	workers := "auto"
	if cfg.Workers > 0 {
		workers = fmt.Sprintf("%d", cfg.Workers)
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("algorithm:                   %s\n", cfg.Algorithm)
	fmt.Printf("workers:                     %s\n", workers)
	fmt.Printf("exclude:                     %v\n", cfg.Exclude)
	fmt.Printf("output.format:               %s\n", cfg.Output.Format)
	fmt.Printf("shutdown_timeout:            %s\n", cfg.ShutdownTimeout)
	fmt.Printf("storage.benchmark.size:      %s\n", cfg.Storage.Benchmark.Size)
	fmt.Printf("storage.benchmark.disabled:  %t\n", cfg.Storage.Benchmark.Disabled)
	fmt.Printf("storage.thresholds:          hdd<=%g nvme>=%g/%g ssd>=%g MB/s\n",
		cfg.Storage.Thresholds.HDDWriteMax,
		cfg.Storage.Thresholds.NVMeWriteMin,
		cfg.Storage.Thresholds.NVMeReadMin,
		cfg.Storage.Thresholds.SSDWriteMin)
	fmt.Printf("logging.level:               %s\n", cfg.Logging.Level)
	fmt.Printf("logging.path:                %s\n", cfg.Logging.Path)

	// Show any environment overrides
	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []string{
		"FSHASH_ALGORITHM",
		"FSHASH_WORKERS",
		"FSHASH_EXCLUDE",
		"FSHASH_OUTPUT_FORMAT",
		"FSHASH_TEMPLATE",
		"FSHASH_SHUTDOWN_TIMEOUT",
		"FSHASH_STORAGE_BENCHMARK_SIZE",
		"FSHASH_STORAGE_BENCHMARK_DISABLED",
		"FSHASH_LOGGING_LEVEL",
		"FSHASH_LOGGING_PATH",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	// Ensure config file exists
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'fshash config edit' to modify it.")
		return nil
	}

	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	fmt.Println(configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
