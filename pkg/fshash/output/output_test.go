package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleResult returns a Result with two hashed files and one failure,
// shared across formatter tests.
func sampleResult() *Result {
	return &Result{
		Algorithm: "sha256",
		Files: []FileHash{
			{
				Path:      "/evidence/case-041/images/dsc0001.jpg",
				RelPath:   "images/dsc0001.jpg",
				Hash:      "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03",
				Size:      4194304,
				SizeHuman: "4.0 MiB",
				Duration:  120 * time.Millisecond,
				SpeedMBps: 33.3,
			},
			{
				Path:      "/evidence/case-041/locked.bin",
				RelPath:   "locked.bin",
				Size:      2048,
				SizeHuman: "2.0 KiB",
				Error:     "open /evidence/case-041/locked.bin: permission denied",
				Kind:      "permission",
			},
			{
				Path:      "/evidence/case-041/notes.txt",
				RelPath:   "notes.txt",
				Hash:      "4355a46b19d348dc2f57c046f8ef63d4538ebb936000f3c9ee954a27460dd865",
				Size:      2,
				SizeHuman: "2 B",
				Duration:  time.Millisecond,
				SpeedMBps: 0.002,
			},
		},
		Stats: RunStats{
			OperationID:      "0b5c39a1-2f04-4c34-9f7e-1df0a28f4a55",
			StartTime:        time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Duration:         2 * time.Second,
			TotalFiles:       3,
			ProcessedFiles:   3,
			FailedFiles:      1,
			TotalBytes:       4196354,
			ProcessedBytes:   4194306,
			AverageSpeedMBps: 2.0,
			Workers:          4,
		},
		Storage: []StorageInfo{
			{
				Volume:     "dev:259:0",
				Type:       "NVMe",
				Bus:        "NVMe",
				Threads:    16,
				Confidence: 0.9,
				Method:     "hardware_query",
			},
		},
		Sources: []string{"/evidence/case-041"},
	}
}

func TestResult_Failures(t *testing.T) {
	r := sampleResult()

	failures := r.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "locked.bin", failures[0].RelPath)
	assert.Equal(t, "permission", failures[0].Kind)
}

func TestResult_Sort(t *testing.T) {
	r := &Result{
		Files: []FileHash{
			{Path: "/b", RelPath: "zeta.txt"},
			{Path: "/a", RelPath: "alpha.txt"},
			{Path: "/c", RelPath: "alpha.txt"},
		},
	}

	r.Sort()

	assert.Equal(t, "alpha.txt", r.Files[0].RelPath)
	assert.Equal(t, "/a", r.Files[0].Path)
	assert.Equal(t, "/c", r.Files[1].Path)
	assert.Equal(t, "zeta.txt", r.Files[2].RelPath)
}

func TestFileHash_Failed(t *testing.T) {
	ok := FileHash{Hash: "abc"}
	assert.False(t, ok.Failed())

	bad := FileHash{Error: "permission denied"}
	assert.True(t, bad.Failed())
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	registry.Register("test", func() Formatter {
		return &PlainFormatter{}
	})

	formatter, err := registry.Get("test")
	require.NoError(t, err)
	assert.IsType(t, &PlainFormatter{}, formatter)
}

func TestRegistry_GetUnknown(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get("nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown formatter")
}

func TestRegistry_Available(t *testing.T) {
	registry := NewRegistry()
	registry.Register("zebra", func() Formatter { return &PlainFormatter{} })
	registry.Register("alpha", func() Formatter { return &PlainFormatter{} })

	names := registry.Available()
	assert.Equal(t, []string{"alpha", "zebra"}, names)
}

func TestGlobalRegistry(t *testing.T) {
	// All built-in formatters register themselves via init.
	for _, name := range []string{"pretty", "plain", "json", "jsonl", "yaml", "sum", "tsv", "csv", "markdown", "template"} {
		formatter, err := Get(name)
		require.NoError(t, err, "formatter %q not registered", name)
		assert.NotNil(t, formatter)
	}
}

func TestFormatterInterface(t *testing.T) {
	// Every registered formatter must handle an empty result.
	for _, name := range Available() {
		formatter, err := Get(name)
		require.NoError(t, err)

		var buf bytes.Buffer
		err = formatter.Format(&buf, &Result{Algorithm: "sha256"})
		assert.NoError(t, err, "formatter %q failed on empty result", name)
	}
}
