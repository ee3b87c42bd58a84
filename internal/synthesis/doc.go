// Package synthesis turns a segmented script into per-segment narration
// audio. It prefers batched synthesis, retries failed segments with backoff,
// and substitutes length-matched silence when an engine gives up, so a single
// bad utterance never sinks the whole job.
package synthesis
