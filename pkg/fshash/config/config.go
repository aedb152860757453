package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// BenchmarkConfig configures the storage benchmark tier.
type BenchmarkConfig struct {
	Size     string `mapstructure:"size"`
	Disabled bool   `mapstructure:"disabled"`
}

// ThresholdsConfig tunes the benchmark speed classification, in MB/s.
type ThresholdsConfig struct {
	HDDWriteMax  float64 `mapstructure:"hdd_write_max"`
	NVMeWriteMin float64 `mapstructure:"nvme_write_min"`
	NVMeReadMin  float64 `mapstructure:"nvme_read_min"`
	SSDWriteMin  float64 `mapstructure:"ssd_write_min"`
}

// StorageConfig configures storage detection.
type StorageConfig struct {
	Benchmark  BenchmarkConfig  `mapstructure:"benchmark"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
}

// Config represents the application configuration.
type Config struct {
	Algorithm string   `mapstructure:"algorithm"`
	Workers   int      `mapstructure:"workers"`
	Exclude   []string `mapstructure:"exclude"`
	Output    struct {
		Format string `mapstructure:"format"`
	} `mapstructure:"output"`
	ShutdownTimeout string        `mapstructure:"shutdown_timeout"`
	Storage         StorageConfig `mapstructure:"storage"`
	Logging         LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/fshash/config.yaml
//   - $HOME/.config/fshash/config.yaml
//
// Environment variables are prefixed with FSHASH_ (e.g., FSHASH_ALGORITHM,
// FSHASH_STORAGE_BENCHMARK_DISABLED).
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "fshash"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "fshash"))

	// Set environment variable prefix and enable auto env binding
	v.SetEnvPrefix("FSHASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("algorithm", DefaultAlgorithm)
	v.SetDefault("workers", 0)
	v.SetDefault("exclude", []string{})
	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("shutdown_timeout", DefaultShutdownTimeout)

	// Storage detection defaults
	v.SetDefault("storage.benchmark.size", DefaultBenchmarkSize)
	v.SetDefault("storage.benchmark.disabled", false)
	v.SetDefault("storage.thresholds.hdd_write_max", DefaultHDDWriteMax)
	v.SetDefault("storage.thresholds.nvme_write_min", DefaultNVMeWriteMin)
	v.SetDefault("storage.thresholds.nvme_read_min", DefaultNVMeReadMin)
	v.SetDefault("storage.thresholds.ssd_write_min", DefaultSSDWriteMin)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"engine":   "info",
		"storage":  "info",
		"discover": "info",
		"hasher":   "warn",
		"tui":      "info",
	})

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	// Check XDG_CONFIG_HOME first
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "fshash"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "fshash"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		// Config file exists, do nothing
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# fshash configuration

# Digest algorithm: sha256, sha1, md5
algorithm: %s

# Worker count override. 0 sizes the pool from the detected storage type.
workers: 0

# Glob patterns excluded from discovery
exclude: []

# Output configuration
output:
  # Format: pretty, plain, json, jsonl, yaml
  format: %s

# Bounded wait for in-flight files after cancellation
shutdown_timeout: %s

# Storage detection
storage:
  benchmark:
    # Probe file size written to the target volume
    size: %s
    # Skip the write/read probe; detection falls through to the
    # media inventory tier
    disabled: false
  # Speed classification thresholds in MB/s
  thresholds:
    hdd_write_max: %g
    nvme_write_min: %g
    nvme_read_min: %g
    ssd_write_min: %g

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/fshash/fshash.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  # Per-component log levels
  components:
    engine: info
    storage: info
    discover: info
    hasher: warn
    tui: info
`, DefaultAlgorithm, DefaultOutputFormat, DefaultShutdownTimeout, DefaultBenchmarkSize,
		DefaultHDDWriteMax, DefaultNVMeWriteMin, DefaultNVMeReadMin, DefaultSSDWriteMin)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// StateDir returns $XDG_STATE_HOME/fshash/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "fshash")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "fshash.log")
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
