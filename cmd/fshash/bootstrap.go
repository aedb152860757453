package main

import (
	"fmt"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/config"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/logging"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
	"github.com/spf13/cobra"
)

// initializeLogging is the PersistentPreRunE hook. It ensures the config
// and state directories exist and starts the logging system from the
// loaded configuration, so every command runs with file logging active.
func initializeLogging(_ *cobra.Command, _ []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.EnsureStateDir(); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg, err := buildLogConfig(cfg)
	if err != nil {
		return err
	}
	if getVerbose() {
		logCfg.ConsoleLevel = "debug"
	}

	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// initTUILogging re-initializes logging for TUI mode: console output off,
// ring buffer on so the activity pane has entries to show.
func initTUILogging() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg, err := buildLogConfig(cfg)
	if err != nil {
		return err
	}
	logCfg.TUIMode = true

	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// buildLogConfig converts the file configuration into a logging.Config.
func buildLogConfig(cfg *config.Config) (logging.Config, error) {
	path := cfg.Logging.Path
	if path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return logging.Config{}, fmt.Errorf("invalid log path %q: %w", path, err)
		}
		path = expanded
	}

	return logging.Config{
		Level:      cfg.Logging.Level,
		Path:       path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}, nil
}

// parseRotationConfig converts the string-typed rotation settings into
// the logging package's byte-counted form. Unparseable sizes fall back
// to the 10MB default rather than failing startup.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	maxSize, err := types.ParseSize(rc.MaxSize)
	if err != nil || maxSize <= 0 {
		maxSize = 10 * types.MiB
	}
	return logging.RotationConfig{
		MaxSize:    maxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Daily:      rc.Daily,
	}
}
