// Package ffmpeg wraps the ffmpeg invocations the pipeline depends on:
// silent placeholder audio, lossless audio concatenation, clip normalization
// to the vertical target frame, procedural filler clip generation, the
// title-card fallback render, and the final mux.
//
// All entry points build argument lists through small pure functions so tests
// can assert command construction without spawning processes; Runner accepts
// an injected command runner for the same reason.
package ffmpeg
