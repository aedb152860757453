package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/cmd/fshash/tui"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/config"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/engine"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/output"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/storage"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

var hashCmd = &cobra.Command{
	Use:   "hash [paths...]",
	Short: "Hash files and directories",
	Long: `Hash every file reachable from the given paths.

Inputs may mix files and directories. Directories are walked recursively;
missing paths become warnings, not failures. With no paths the current
directory is hashed.`,
	Args: cobra.ArbitraryArgs,
	RunE: runHash,
}

func init() {
	rootCmd.AddCommand(hashCmd)
}

// runHash is the hash command handler, and the root command's default.
func runHash(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths(args)
	if err != nil {
		return err
	}

	opts, err := buildEngineOptions()
	if err != nil {
		return err
	}

	if viper.GetBool("interactive") {
		return runInteractiveHash(cmd, paths, opts)
	}
	return runNonInteractiveHash(cmd, paths, opts)
}

// resolvePaths expands ~ in each input path. With no inputs it falls
// back to the current directory.
func resolvePaths(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{"."}, nil
	}

	paths := make([]string, len(args))
	for i, arg := range args {
		expanded, err := config.ExpandPath(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to expand path %q: %w", arg, err)
		}
		paths[i] = expanded
	}
	return paths, nil
}

// buildEngineOptions assembles engine options from viper (flags, config
// file, and environment, in that precedence).
func buildEngineOptions() (engine.Options, error) {
	algorithm, err := types.ParseAlgorithm(viper.GetString("algorithm"))
	if err != nil {
		return engine.Options{}, err
	}

	var timeout time.Duration
	if s := viper.GetString("shutdown_timeout"); s != "" {
		timeout, err = time.ParseDuration(s)
		if err != nil {
			return engine.Options{}, fmt.Errorf("invalid shutdown_timeout %q: %w", s, err)
		}
	}

	var benchSize int64
	if s := viper.GetString("storage.benchmark.size"); s != "" {
		benchSize, err = types.ParseSize(s)
		if err != nil {
			return engine.Options{}, fmt.Errorf("invalid benchmark size %q: %w", s, err)
		}
	}

	return engine.Options{
		Algorithm:       algorithm,
		Workers:         viper.GetInt("workers"),
		Exclude:         viper.GetStringSlice("exclude"),
		ShutdownTimeout: timeout,
		Storage: storage.Config{
			Thresholds: storage.Thresholds{
				HDDWriteMax:  viper.GetFloat64("storage.thresholds.hdd_write_max"),
				NVMeWriteMin: viper.GetFloat64("storage.thresholds.nvme_write_min"),
				NVMeReadMin:  viper.GetFloat64("storage.thresholds.nvme_read_min"),
				SSDWriteMin:  viper.GetFloat64("storage.thresholds.ssd_write_min"),
			},
			BenchmarkSize:    benchSize,
			DisableBenchmark: viper.GetBool("storage.benchmark.disabled"),
		},
	}, nil
}

// resolveFormatter picks the output formatter from the format flag.
func resolveFormatter() (output.Formatter, error) {
	format := viper.GetString("output.format")
	if format == "" {
		format = config.DefaultOutputFormat
	}

	if format == "template" {
		tmplStr := viper.GetString("template")
		if tmplStr == "" {
			return nil, fmt.Errorf("--template is required when using -f template")
		}
		return output.NewTemplateFormatter(tmplStr), nil
	}

	formatter, err := output.Get(format)
	if err != nil {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", format, output.Available())
	}
	return formatter, nil
}

// runNonInteractiveHash runs the engine with an optional stderr progress
// bar and renders the report once the run finishes.
func runNonInteractiveHash(cmd *cobra.Command, paths []string, opts engine.Options) error {
	formatter, err := resolveFormatter()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal cancels and lets in-flight files drain; a second
	// signal exits immediately.
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		printInfo("\nInterrupted, finishing in-flight files...")
		cancel()
		<-sigChan
		os.Exit(exitCancelled)
	}()

	var bar *hashProgressBar
	if !getQuiet() && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = newHashProgressBar()
		opts.OnProgress = bar.update
	}

	eng, err := engine.New(opts)
	if err != nil {
		return err
	}

	report, runErr := eng.Run(ctx, paths)

	if bar != nil {
		bar.close()
	}

	if report != nil {
		if err := writeReport(cmd, formatter, report, paths, runErr); err != nil {
			return err
		}
	}
	return runErr
}

// runInteractiveHash runs the engine under the TUI, then renders the
// report the same way the non-interactive path does so results survive
// the alternate screen.
func runInteractiveHash(cmd *cobra.Command, paths []string, opts engine.Options) error {
	formatter, err := resolveFormatter()
	if err != nil {
		return err
	}

	// Re-initialize logging for TUI mode (enables log buffer, disables console)
	if err := initTUILogging(); err != nil {
		return fmt.Errorf("failed to initialize TUI logging: %w", err)
	}

	report, runErr := tui.Run(tui.Options{
		Paths:  paths,
		Engine: opts,
	})

	if report != nil {
		if err := writeReport(cmd, formatter, report, paths, runErr); err != nil {
			return err
		}
	}
	return runErr
}

// writeReport formats the report and writes it to stdout or to the file
// named by -o.
func writeReport(cmd *cobra.Command, formatter output.Formatter, report *engine.Report, sources []string, runErr error) error {
	result := output.FromReport(report, sources, runErr)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		fmt.Print(buf.String())
		return nil
	}

	expanded, err := config.ExpandPath(outPath)
	if err != nil {
		return fmt.Errorf("invalid output path %q: %w", outPath, err)
	}
	if err := os.WriteFile(expanded, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	printVerbose("Wrote %s", expanded)
	return nil
}

// hashProgressBar renders byte-granular hashing progress on stderr.
// The engine calls update from worker goroutines, so all bar access is
// serialized behind one mutex.
type hashProgressBar struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
	max int64
}

func newHashProgressBar() *hashProgressBar {
	bar := progressbar.NewOptions64(
		-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("hashing"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &hashProgressBar{bar: bar}
}

func (p *hashProgressBar) update(u engine.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u.TotalBytes != p.max {
		p.max = u.TotalBytes
		p.bar.ChangeMax64(u.TotalBytes)
	}
	p.bar.Describe(fmt.Sprintf("hashing %d/%d files", u.ProcessedFiles, u.TotalFiles))
	_ = p.bar.Set64(u.ProcessedBytes)
}

func (p *hashProgressBar) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.bar.Finish()
	fmt.Fprint(os.Stderr, "\r")
}
