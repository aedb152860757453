package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/config"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/output"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

// resetViperForTest resets viper to the defaults initConfig would set.
func resetViperForTest() {
	viper.Reset()
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
}

func TestBuildEngineOptions(t *testing.T) {
	tests := []struct {
		name          string
		setup         func()
		wantAlgorithm types.Algorithm
		wantWorkers   int
		wantTimeout   time.Duration
		wantBenchSize int64
		wantDisabled  bool
		wantErr       bool
	}{
		{
			name: "default values",
			setup: func() {
				resetViperForTest()
			},
			wantAlgorithm: types.SHA256,
			wantWorkers:   0,
			wantTimeout:   30 * time.Second,
			wantBenchSize: 10 * types.MiB,
			wantDisabled:  false,
			wantErr:       false,
		},
		{
			name: "custom algorithm",
			setup: func() {
				resetViperForTest()
				viper.Set("algorithm", "md5")
			},
			wantAlgorithm: types.MD5,
			wantWorkers:   0,
			wantTimeout:   30 * time.Second,
			wantBenchSize: 10 * types.MiB,
			wantErr:       false,
		},
		{
			name: "custom workers",
			setup: func() {
				resetViperForTest()
				viper.Set("workers", 8)
			},
			wantAlgorithm: types.SHA256,
			wantWorkers:   8,
			wantTimeout:   30 * time.Second,
			wantBenchSize: 10 * types.MiB,
			wantErr:       false,
		},
		{
			name: "benchmark disabled",
			setup: func() {
				resetViperForTest()
				viper.Set("storage.benchmark.disabled", true)
			},
			wantAlgorithm: types.SHA256,
			wantTimeout:   30 * time.Second,
			wantBenchSize: 10 * types.MiB,
			wantDisabled:  true,
			wantErr:       false,
		},
		{
			name: "invalid algorithm",
			setup: func() {
				resetViperForTest()
				viper.Set("algorithm", "crc32")
			},
			wantErr: true,
		},
		{
			name: "invalid shutdown timeout",
			setup: func() {
				resetViperForTest()
				viper.Set("shutdown_timeout", "soon")
			},
			wantErr: true,
		},
		{
			name: "invalid benchmark size",
			setup: func() {
				resetViperForTest()
				viper.Set("storage.benchmark.size", "huge")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			opts, err := buildEngineOptions()
			if (err != nil) != tt.wantErr {
				t.Errorf("buildEngineOptions() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if opts.Algorithm != tt.wantAlgorithm {
				t.Errorf("Algorithm = %v, want %v", opts.Algorithm, tt.wantAlgorithm)
			}
			if opts.Workers != tt.wantWorkers {
				t.Errorf("Workers = %d, want %d", opts.Workers, tt.wantWorkers)
			}
			if opts.ShutdownTimeout != tt.wantTimeout {
				t.Errorf("ShutdownTimeout = %v, want %v", opts.ShutdownTimeout, tt.wantTimeout)
			}
			if opts.Storage.BenchmarkSize != tt.wantBenchSize {
				t.Errorf("BenchmarkSize = %d, want %d", opts.Storage.BenchmarkSize, tt.wantBenchSize)
			}
			if opts.Storage.DisableBenchmark != tt.wantDisabled {
				t.Errorf("DisableBenchmark = %v, want %v", opts.Storage.DisableBenchmark, tt.wantDisabled)
			}
		})
	}
}

func TestBuildEngineOptionsCarriesThresholds(t *testing.T) {
	resetViperForTest()
	viper.Set("storage.thresholds.hdd_write_max", 75.0)
	viper.Set("storage.thresholds.nvme_write_min", 1500.0)

	opts, err := buildEngineOptions()
	if err != nil {
		t.Fatalf("buildEngineOptions() error = %v", err)
	}

	if opts.Storage.Thresholds.HDDWriteMax != 75.0 {
		t.Errorf("HDDWriteMax = %g, want 75", opts.Storage.Thresholds.HDDWriteMax)
	}
	if opts.Storage.Thresholds.NVMeWriteMin != 1500.0 {
		t.Errorf("NVMeWriteMin = %g, want 1500", opts.Storage.Thresholds.NVMeWriteMin)
	}
	if opts.Storage.Thresholds.NVMeReadMin != config.DefaultNVMeReadMin {
		t.Errorf("NVMeReadMin = %g, want default %g", opts.Storage.Thresholds.NVMeReadMin, config.DefaultNVMeReadMin)
	}
}

func TestBuildEngineOptionsExcludePatterns(t *testing.T) {
	resetViperForTest()
	viper.Set("exclude", []string{"*.tmp", ".git"})

	opts, err := buildEngineOptions()
	if err != nil {
		t.Fatalf("buildEngineOptions() error = %v", err)
	}

	if len(opts.Exclude) != 2 {
		t.Fatalf("Exclude count = %d, want 2", len(opts.Exclude))
	}
	if opts.Exclude[0] != "*.tmp" || opts.Exclude[1] != ".git" {
		t.Errorf("Exclude = %v, want [*.tmp .git]", opts.Exclude)
	}
}

func TestResolveFormatter(t *testing.T) {
	tests := []struct {
		name    string
		setup   func()
		wantErr bool
	}{
		{
			name: "default format",
			setup: func() {
				resetViperForTest()
			},
			wantErr: false,
		},
		{
			name: "json format",
			setup: func() {
				resetViperForTest()
				viper.Set("output.format", "json")
			},
			wantErr: false,
		},
		{
			name: "sum format",
			setup: func() {
				resetViperForTest()
				viper.Set("output.format", "sum")
			},
			wantErr: false,
		},
		{
			name: "template without template string",
			setup: func() {
				resetViperForTest()
				viper.Set("output.format", "template")
			},
			wantErr: true,
		},
		{
			name: "template with template string",
			setup: func() {
				resetViperForTest()
				viper.Set("output.format", "template")
				viper.Set("template", "{{range .Files}}{{.Hash}}\n{{end}}")
			},
			wantErr: false,
		},
		{
			name: "unknown format",
			setup: func() {
				resetViperForTest()
				viper.Set("output.format", "xml")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			f, err := resolveFormatter()
			if (err != nil) != tt.wantErr {
				t.Errorf("resolveFormatter() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && f == nil {
				t.Error("resolveFormatter() returned nil formatter")
			}
		})
	}
}

func TestResolveFormatterTemplateType(t *testing.T) {
	resetViperForTest()
	viper.Set("output.format", "template")
	viper.Set("template", "{{.Algorithm}}")

	f, err := resolveFormatter()
	if err != nil {
		t.Fatalf("resolveFormatter() error = %v", err)
	}
	if _, ok := f.(*output.TemplateFormatter); !ok {
		t.Errorf("resolveFormatter() = %T, want *output.TemplateFormatter", f)
	}
}

func TestResolvePaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get home dir: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "no args defaults to cwd",
			args: nil,
			want: []string{"."},
		},
		{
			name: "passthrough",
			args: []string{"/evidence/case-041", "notes.txt"},
			want: []string{"/evidence/case-041", "notes.txt"},
		},
		{
			name: "tilde expansion",
			args: []string{"~/evidence"},
			want: []string{filepath.Join(home, "evidence")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePaths(tt.args)
			if err != nil {
				t.Fatalf("resolvePaths() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("resolvePaths() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("resolvePaths()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
