// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The pipeline only needs container durations and stream presence checks, so
// the wrapper stays deliberately small. Prober is the injectable form used by
// stages; Inspect is the raw entry point.
package ffprobe
