// Package render drives the final production steps: serializing the render
// manifest, invoking the silent-video renderer with a title-card fallback,
// concatenating narration audio, and muxing the final asset with a
// copy-then-re-encode strategy. Mux exhaustion is the pipeline's only fatal
// failure.
package render
