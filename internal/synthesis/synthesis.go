package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"shortform/internal/logging"
	"shortform/internal/services"
	"shortform/internal/services/tts"
	"shortform/internal/timeline"
)

// DurationProber measures the playable length of an audio file.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// SilenceWriter produces a silent audio file of the requested length.
type SilenceWriter interface {
	Silence(ctx context.Context, dest string, seconds float64) error
}

// Options control retry and placeholder behavior.
type Options struct {
	Voice                 string
	MaxAttempts           int
	RetryBackoff          time.Duration
	SpeakingRate          float64
	MinPlaceholderSeconds float64
	MaxPlaceholderSeconds float64
}

func (o *Options) normalize() {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = time.Second
	}
	if o.SpeakingRate <= 0 {
		o.SpeakingRate = 2.5
	}
	if o.MinPlaceholderSeconds <= 0 {
		o.MinPlaceholderSeconds = 1.0
	}
	if o.MaxPlaceholderSeconds <= o.MinPlaceholderSeconds {
		o.MaxPlaceholderSeconds = 10.0
	}
}

// Orchestrator drives per-segment speech synthesis and fills in segment
// durations and bounds on the timeline.
type Orchestrator struct {
	engine   tts.Engine
	prober   DurationProber
	silencer SilenceWriter
	logger   *slog.Logger
	opts     Options

	// sleep overrides retry backoff waits (for testing).
	sleep func(time.Duration)
}

// NewOrchestrator wires a synthesis orchestrator. Logger may be nil.
func NewOrchestrator(engine tts.Engine, prober DurationProber, silencer SilenceWriter, opts Options, logger *slog.Logger) *Orchestrator {
	opts.normalize()
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		engine:   engine,
		prober:   prober,
		silencer: silencer,
		logger:   logger,
		opts:     opts,
		sleep:    time.Sleep,
	}
}

// Run synthesizes narration for every segment of the timeline, writing one
// WAV file per segment into workDir. Segments whose synthesis fails after all
// retries receive a silent placeholder instead; Run only returns an error when
// the engine cannot be acquired or a probe/placeholder write fails.
func (o *Orchestrator) Run(ctx context.Context, tl *timeline.Timeline, workDir string) error {
	if tl == nil || len(tl.Segments) == 0 {
		return services.Wrap(services.ErrValidation, "synthesis", "run", "timeline has no segments", nil)
	}
	if err := o.engine.Acquire(ctx); err != nil {
		return services.Wrap(services.ErrExternalTool, "synthesis", "acquire", "speech engine unavailable", err)
	}
	defer o.engine.Release()

	requests := make([]tts.Request, len(tl.Segments))
	for i, segment := range tl.Segments {
		segment.AudioPath = filepath.Join(workDir, fmt.Sprintf("segment_%03d.wav", i))
		requests[i] = tts.Request{
			Text:       segment.Text,
			Voice:      o.opts.Voice,
			OutputPath: segment.AudioPath,
		}
	}

	if !o.runBatch(ctx, requests) {
		for i, segment := range tl.Segments {
			if err := o.synthesizeSegment(ctx, i, requests[i], segment); err != nil {
				return err
			}
		}
	}

	for i, segment := range tl.Segments {
		duration, err := o.prober.Duration(ctx, segment.AudioPath)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "synthesis", "probe",
				fmt.Sprintf("measure segment %d audio", i), err)
		}
		segment.Duration = duration
	}
	tl.RecomputeBounds()
	return nil
}

// runBatch attempts one batched synthesis call when the engine supports it.
// Any batch failure falls back to the per-segment path.
func (o *Orchestrator) runBatch(ctx context.Context, requests []tts.Request) bool {
	batch, ok := o.engine.(tts.BatchEngine)
	if !ok {
		return false
	}
	if err := batch.SynthesizeBatch(ctx, requests); err != nil {
		o.logger.Warn("batch synthesis failed, retrying per segment",
			logging.Error(err))
		return false
	}
	return true
}

func (o *Orchestrator) synthesizeSegment(ctx context.Context, index int, req tts.Request, segment *timeline.AudioSegment) error {
	var lastErr error
	for attempt := 1; attempt <= o.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = o.engine.Synthesize(ctx, req)
		if lastErr == nil {
			return nil
		}
		o.logger.Warn("segment synthesis attempt failed",
			logging.Int(logging.FieldSegmentIndex, index),
			logging.Int("attempt", attempt),
			logging.Error(lastErr))
		if attempt < o.opts.MaxAttempts {
			o.sleep(time.Duration(attempt) * o.opts.RetryBackoff)
		}
	}

	// All attempts exhausted. Keep the pipeline moving with silence sized to
	// the narration so downstream pacing stays plausible.
	seconds := o.placeholderSeconds(segment.Text)
	if err := o.silencer.Silence(ctx, req.OutputPath, seconds); err != nil {
		return services.Wrap(services.ErrExternalTool, "synthesis", "placeholder",
			fmt.Sprintf("segment %d failed and placeholder could not be written", index), err)
	}
	segment.Placeholder = true
	o.logger.Warn("segment replaced with silent placeholder",
		logging.Int(logging.FieldSegmentIndex, index),
		logging.Float64("seconds", seconds),
		logging.String(logging.FieldErrorHint, lastErr.Error()))
	return nil
}

// placeholderSeconds estimates how long the narration would have run, bounded
// to keep degenerate segments from stalling or vanishing.
func (o *Orchestrator) placeholderSeconds(text string) float64 {
	words := len(strings.Fields(text))
	seconds := float64(words) / o.opts.SpeakingRate
	if seconds < o.opts.MinPlaceholderSeconds {
		seconds = o.opts.MinPlaceholderSeconds
	}
	if seconds > o.opts.MaxPlaceholderSeconds {
		seconds = o.opts.MaxPlaceholderSeconds
	}
	return seconds
}
