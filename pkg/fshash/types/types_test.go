package types

import (
	"errors"
	"testing"
	"time"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Algorithm
		wantErr bool
	}{
		{name: "sha256", input: "sha256", want: SHA256, wantErr: false},
		{name: "sha1", input: "sha1", want: SHA1, wantErr: false},
		{name: "md5", input: "md5", want: MD5, wantErr: false},
		{name: "uppercase", input: "SHA256", want: SHA256, wantErr: false},
		{name: "mixed case", input: "Sha1", want: SHA1, wantErr: false},
		{name: "whitespace", input: "  md5  ", want: MD5, wantErr: false},

		// Error cases
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "sha512", wantErr: true},
		{name: "garbage", input: "crc32", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseAlgorithm(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAlgorithm) {
					t.Errorf("ParseAlgorithm(%q) error = %v, want ErrUnknownAlgorithm", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseAlgorithm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAlgorithmString(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		want string
	}{
		{SHA256, "sha256"},
		{SHA1, "sha1"},
		{MD5, "md5"},
	}

	for _, tt := range tests {
		if got := tt.alg.String(); got != tt.want {
			t.Errorf("Algorithm(%d).String() = %q, want %q", int(tt.alg), got, tt.want)
		}
	}
}

func TestAlgorithmDigestSizes(t *testing.T) {
	// Digest state sizes distinguish the three algorithms without
	// hashing anything.
	tests := []struct {
		alg      Algorithm
		wantSize int
	}{
		{SHA256, 32},
		{SHA1, 20},
		{MD5, 16},
	}

	for _, tt := range tests {
		h := tt.alg.New()
		if h == nil {
			t.Fatalf("Algorithm %v returned nil digest", tt.alg)
		}
		if got := h.Size(); got != tt.wantSize {
			t.Errorf("%v digest size = %d, want %d", tt.alg, got, tt.wantSize)
		}
	}
}

func TestHashResultSuccess(t *testing.T) {
	ok := &HashResult{Path: "/data/a.txt", Hash: "abc123", Size: 10}
	if !ok.Success() {
		t.Error("result with hash and no error should be a success")
	}

	failed := &HashResult{Path: "/data/b.txt", Error: "permission denied", Kind: KindPermission}
	if failed.Success() {
		t.Error("result with error should not be a success")
	}
	if failed.Hash != "" {
		t.Error("failed result must not carry a digest")
	}
}

func TestHashResultSpeedMBps(t *testing.T) {
	r := &HashResult{Size: 100 * MiB, Duration: 2 * time.Second}
	if got := r.SpeedMBps(); got < 49.9 || got > 50.1 {
		t.Errorf("SpeedMBps() = %.2f, want ~50", got)
	}

	zero := &HashResult{Size: 0, Duration: time.Second}
	if got := zero.SpeedMBps(); got != 0 {
		t.Errorf("zero-byte SpeedMBps() = %.2f, want 0", got)
	}
}

func TestMetricsProgressPercent(t *testing.T) {
	tests := []struct {
		name      string
		processed int64
		total     int64
		want      int
	}{
		{name: "empty operation", processed: 0, total: 0, want: 0},
		{name: "not started", processed: 0, total: 10, want: 0},
		{name: "halfway", processed: 5, total: 10, want: 50},
		{name: "complete", processed: 10, total: 10, want: 100},
		{name: "truncates", processed: 1, total: 3, want: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Metrics{ProcessedFiles: tt.processed, TotalFiles: tt.total}
			if got := m.ProgressPercent(); got != tt.want {
				t.Errorf("ProgressPercent() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMetricsAverageSpeedUsesWallClock(t *testing.T) {
	start := time.Now()
	m := &Metrics{
		StartTime:      start,
		EndTime:        start.Add(4 * time.Second),
		ProcessedBytes: 400 * MiB,
	}

	// 400 MiB over 4 wall-clock seconds is 100 MB/s regardless of how
	// many overlapping per-file durations contributed to it.
	if got := m.AverageSpeedMBps(); got < 99.9 || got > 100.1 {
		t.Errorf("AverageSpeedMBps() = %.2f, want ~100", got)
	}
}

func TestMetricsDuration(t *testing.T) {
	var m Metrics
	if got := m.Duration(); got != 0 {
		t.Errorf("unstarted Duration() = %v, want 0", got)
	}

	start := time.Now()
	m = Metrics{StartTime: start, EndTime: start.Add(90 * time.Second)}
	if got := m.Duration(); got != 90*time.Second {
		t.Errorf("Duration() = %v, want 90s", got)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain bytes", input: "1024", want: 1024, wantErr: false},
		{name: "zero bytes", input: "0", want: 0, wantErr: false},
		{name: "bytes with B suffix", input: "512B", want: 512, wantErr: false},
		{name: "kilobytes", input: "256K", want: 256 * 1024, wantErr: false},
		{name: "kibibytes", input: "256KiB", want: 256 * 1024, wantErr: false},
		{name: "megabytes", input: "10M", want: 10 * 1024 * 1024, wantErr: false},
		{name: "gigabytes", input: "2G", want: 2 * 1024 * 1024 * 1024, wantErr: false},
		{name: "decimal truncated", input: "1.5G", want: 1610612736, wantErr: false},
		{name: "whitespace", input: "  100M  ", want: 100 * 1024 * 1024, wantErr: false},

		// Error cases
		{name: "empty string", input: "", wantErr: true},
		{name: "invalid suffix", input: "100X", wantErr: true},
		{name: "negative value", input: "-100M", wantErr: true},
		{name: "suffix only", input: "M", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{name: "zero", bytes: 0, want: "0 B"},
		{name: "bytes", bytes: 500, want: "500 B"},
		{name: "kilobytes", bytes: 1024, want: "1.0 KiB"},
		{name: "megabytes", bytes: 1024 * 1024, want: "1.0 MiB"},
		{name: "mixed size", bytes: 1536 * 1024, want: "1.5 MiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSize(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
