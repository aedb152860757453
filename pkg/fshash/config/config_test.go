package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Use a temp directory that doesn't have a config file
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Algorithm != DefaultAlgorithm {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, DefaultAlgorithm)
	}

	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0 (storage-derived)", cfg.Workers)
	}

	if cfg.Output.Format != DefaultOutputFormat {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, DefaultOutputFormat)
	}

	if cfg.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %q, want %q", cfg.ShutdownTimeout, DefaultShutdownTimeout)
	}

	if cfg.Storage.Benchmark.Size != DefaultBenchmarkSize {
		t.Errorf("Storage.Benchmark.Size = %q, want %q", cfg.Storage.Benchmark.Size, DefaultBenchmarkSize)
	}

	if cfg.Storage.Benchmark.Disabled {
		t.Error("Storage.Benchmark.Disabled = true, want false")
	}

	if cfg.Storage.Thresholds.HDDWriteMax != DefaultHDDWriteMax {
		t.Errorf("Thresholds.HDDWriteMax = %g, want %g", cfg.Storage.Thresholds.HDDWriteMax, DefaultHDDWriteMax)
	}

	if cfg.Storage.Thresholds.NVMeWriteMin != DefaultNVMeWriteMin {
		t.Errorf("Thresholds.NVMeWriteMin = %g, want %g", cfg.Storage.Thresholds.NVMeWriteMin, DefaultNVMeWriteMin)
	}

	if len(cfg.Exclude) != 0 {
		t.Errorf("len(Exclude) = %d, want 0", len(cfg.Exclude))
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "fshash")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
algorithm: md5
workers: 8
exclude:
  - "*.tmp"
  - .git
output:
  format: json
shutdown_timeout: 10s
storage:
  benchmark:
    size: 1MB
    disabled: true
  thresholds:
    hdd_write_max: 40
    ssd_write_min: 250
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Algorithm != "md5" {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, "md5")
	}

	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want %d", cfg.Workers, 8)
	}

	if len(cfg.Exclude) != 2 {
		t.Errorf("len(Exclude) = %d, want %d", len(cfg.Exclude), 2)
	}

	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "json")
	}

	if cfg.ShutdownTimeout != "10s" {
		t.Errorf("ShutdownTimeout = %q, want %q", cfg.ShutdownTimeout, "10s")
	}

	if cfg.Storage.Benchmark.Size != "1MB" {
		t.Errorf("Storage.Benchmark.Size = %q, want %q", cfg.Storage.Benchmark.Size, "1MB")
	}

	if !cfg.Storage.Benchmark.Disabled {
		t.Error("Storage.Benchmark.Disabled = false, want true")
	}

	if cfg.Storage.Thresholds.HDDWriteMax != 40 {
		t.Errorf("Thresholds.HDDWriteMax = %g, want %g", cfg.Storage.Thresholds.HDDWriteMax, 40.0)
	}

	if cfg.Storage.Thresholds.SSDWriteMin != 250 {
		t.Errorf("Thresholds.SSDWriteMin = %g, want %g", cfg.Storage.Thresholds.SSDWriteMin, 250.0)
	}

	// Unset keys keep their defaults.
	if cfg.Storage.Thresholds.NVMeWriteMin != DefaultNVMeWriteMin {
		t.Errorf("Thresholds.NVMeWriteMin = %g, want default %g", cfg.Storage.Thresholds.NVMeWriteMin, DefaultNVMeWriteMin)
	}
}

func TestLoad_XDGConfigHome(t *testing.T) {
	tempDir := t.TempDir()
	xdgConfigDir := filepath.Join(tempDir, "xdg-config", "fshash")
	if err := os.MkdirAll(xdgConfigDir, 0o755); err != nil {
		t.Fatalf("failed to create XDG config dir: %v", err)
	}

	configContent := `algorithm: sha1`
	configPath := filepath.Join(xdgConfigDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg-config"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Algorithm != "sha1" {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, "sha1")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("FSHASH_ALGORITHM", "md5")
	t.Setenv("FSHASH_STORAGE_BENCHMARK_DISABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Algorithm != "md5" {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, "md5")
	}

	if !cfg.Storage.Benchmark.Disabled {
		t.Error("Storage.Benchmark.Disabled = false, want true from env")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "fshash")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("algorithm: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error, want parse failure")
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}

		expected := filepath.Join("/custom/config", "fshash")
		if dir != expected {
			t.Errorf("ConfigDir() = %q, want %q", dir, expected)
		}
	})

	t.Run("uses HOME/.config when XDG_CONFIG_HOME not set", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}

		expected := filepath.Join(tempDir, ".config", "fshash")
		if dir != expected {
			t.Errorf("ConfigDir() = %q, want %q", dir, expected)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	configPath := filepath.Join(tempDir, ".config", "fshash", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	content := string(data)
	for _, want := range []string{"algorithm: sha256", "format: pretty", "size: 10MB", "hdd_write_max: 50"} {
		if !strings.Contains(content, want) {
			t.Errorf("default config missing %q", want)
		}
	}

	// The written file must itself load cleanly.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() after WriteDefault error = %v", err)
	}
	if cfg.Algorithm != DefaultAlgorithm {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, DefaultAlgorithm)
	}

	// A second call leaves the existing file alone.
	if err := os.WriteFile(configPath, []byte("algorithm: md5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() second call error = %v", err)
	}
	data, err = os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "algorithm: md5") {
		t.Error("WriteDefault() overwrote an existing config file")
	}
}

func TestExpandPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tilde prefix", "~/logs/fshash.log", filepath.Join(tempDir, "logs", "fshash.log")},
		{"absolute path untouched", "/var/log/fshash.log", "/var/log/fshash.log"},
		{"relative path untouched", "logs/fshash.log", "logs/fshash.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
