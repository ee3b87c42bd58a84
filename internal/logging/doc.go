// Package logging provides the structured logging surface shared by every
// pipeline component.
//
// It wraps log/slog with:
//   - Attr constructor aliases so call sites avoid importing slog directly.
//   - A console handler with per-line attribute listings and a JSON handler
//     for machine consumption.
//   - Context helpers that stamp job IDs and stage names onto loggers so
//     stage code never threads identifiers manually.
package logging
