package tts

import "context"

// Request names one utterance to synthesize and where its audio should land.
type Request struct {
	Text       string
	Voice      string
	OutputPath string
}

// Engine converts text to speech. Engines may hold long-lived resources (a
// loaded model, a warm subprocess); Acquire is idempotent and lazy callers
// invoke it before first use, Release is called once on pipeline teardown.
type Engine interface {
	Acquire(ctx context.Context) error
	Synthesize(ctx context.Context, req Request) error
	Release() error
}

// BatchEngine is implemented by engines that can amortize session overhead
// across many utterances. The orchestrator prefers this path and falls back
// to per-request Synthesize calls when batch submission fails.
type BatchEngine interface {
	SynthesizeBatch(ctx context.Context, reqs []Request) error
}
