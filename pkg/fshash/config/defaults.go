// Package config provides configuration management for the fshash tool.
package config

// Default configuration values for fshash.
const (
	// DefaultAlgorithm is the digest applied when none is requested.
	DefaultAlgorithm = "sha256"

	// DefaultOutputFormat is the renderer used when none is requested.
	DefaultOutputFormat = "pretty"

	// DefaultShutdownTimeout bounds the wait for in-flight files after
	// cancellation.
	DefaultShutdownTimeout = "30s"

	// DefaultBenchmarkSize is the probe file size for the storage
	// benchmark tier.
	DefaultBenchmarkSize = "10MB"

	// Classification thresholds in MB/s, mirroring the storage
	// detector's built-ins.
	DefaultHDDWriteMax  = 50.0
	DefaultNVMeWriteMin = 1000.0
	DefaultNVMeReadMin  = 1000.0
	DefaultSSDWriteMin  = 200.0
)
