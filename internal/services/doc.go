// Package services defines shared utilities consumed by the pipeline stage
// handlers and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp queue job IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across synthesis, alignment, footage, and
//     render stages.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, fallbacks) stays uniform across the
// pipeline.
package services
