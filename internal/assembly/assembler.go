package assembly

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"log/slog"

	"shortform/internal/alignment"
	"shortform/internal/concepts"
	"shortform/internal/config"
	"shortform/internal/footage"
	"shortform/internal/logging"
	"shortform/internal/media/ffmpeg"
	"shortform/internal/media/ffprobe"
	"shortform/internal/progress"
	"shortform/internal/queue"
	"shortform/internal/script"
	"shortform/internal/services"
	providers "shortform/internal/services/footage"
	"shortform/internal/services/transcribe"
	"shortform/internal/services/tts"
	"shortform/internal/stage"
	"shortform/internal/synthesis"
	"shortform/internal/timeline"
)

// TimingManifestName is the timeline manifest written into the job work
// directory once both assembly branches converge.
const TimingManifestName = "timing_manifest.json"

// FootageManifestName is the scheduled footage cover alongside it.
const FootageManifestName = "footage_manifest.json"

// Assembler voices the segmented script and matches footage against it. The
// two branches run concurrently: synthesis must finish before footage
// scheduling (clip count depends on measured duration), but alignment and
// footage download overlap.
type Assembler struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
	sink   progress.Sink

	engine      tts.Engine
	prober      synthesis.DurationProber
	ffmpeg      *ffmpeg.Runner
	transcriber transcribe.Service
	providers   []providers.Provider
}

// NewAssembler constructs the assembly stage handler with production
// dependencies derived from configuration.
func NewAssembler(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Assembler {
	asm := &Assembler{
		cfg:    cfg,
		store:  store,
		sink:   progress.LogSink{Logger: logger},
		engine: tts.NewPiper(tts.Config{Binary: cfg.TTS.PiperBinary, Model: cfg.TTS.PiperModel, Voice: cfg.TTS.Voice}),
		prober: ffprobe.Prober{Binary: cfg.Tools.FFprobeBinary},
		ffmpeg: ffmpeg.NewRunner(cfg.Tools.FFmpegBinary),
	}
	if cfg.Transcription.Enabled {
		asm.transcriber = transcribe.NewWhisperX(transcribe.Config{
			UVXBinary:   cfg.Tools.UVXBinary,
			Model:       cfg.Transcription.Model,
			CUDAEnabled: cfg.Transcription.CUDAEnabled,
		})
	}
	if key := strings.TrimSpace(cfg.Footage.PexelsAPIKey); key != "" {
		timeout := time.Duration(cfg.Footage.RequestTimeoutSeconds) * time.Second
		asm.providers = append(asm.providers, providers.NewPexels(key, cfg.Footage.PexelsBaseURL, timeout, nil))
	}
	asm.SetLogger(logger)
	return asm
}

// NewAssemblerWithDependencies allows injecting custom dependencies (used for
// tests).
func NewAssemblerWithDependencies(
	cfg *config.Config,
	store *queue.Store,
	logger *slog.Logger,
	engine tts.Engine,
	prober synthesis.DurationProber,
	runner *ffmpeg.Runner,
	transcriber transcribe.Service,
	footageProviders []providers.Provider,
) *Assembler {
	asm := &Assembler{
		cfg:         cfg,
		store:       store,
		sink:        progress.LogSink{Logger: logger},
		engine:      engine,
		prober:      prober,
		ffmpeg:      runner,
		transcriber: transcriber,
		providers:   footageProviders,
	}
	asm.SetLogger(logger)
	return asm
}

// WithProgressSink overrides where step events are published.
func (a *Assembler) WithProgressSink(sink progress.Sink) {
	if sink != nil {
		a.sink = sink
	}
}

// SetLogger updates the handler's logging destination while preserving
// component labeling.
func (a *Assembler) SetLogger(logger *slog.Logger) {
	a.logger = logging.NewComponentLogger(logger, "assembler")
}

func (a *Assembler) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, a.logger)
	job.InitProgress("Assembling", "Voicing script and matching footage")
	if strings.TrimSpace(job.WorkDir) == "" {
		return services.Wrap(
			services.ErrValidation,
			"assembly",
			"validate inputs",
			"Job has no working directory; rerun segmentation",
			nil,
		)
	}
	logger.Debug("starting assembly preparation")
	return nil
}

func (a *Assembler) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, a.logger)

	doc, err := script.FromJSON{Data: []byte(job.ScriptJSON)}.Script(ctx)
	if err != nil || len(doc.Segments) == 0 {
		return services.Wrap(
			services.ErrValidation,
			"assembly",
			"parse script",
			"Segmented script missing or invalid; rerun segmentation",
			err,
		)
	}
	tl := timeline.New(doc)

	var (
		wg          sync.WaitGroup
		audioErr    error
		footageErr  error
		assets      []footage.Asset
		durationCh  = make(chan float64, 1)
		analysis    = concepts.Analyze(scriptText(doc), doc.Tags)
		transcriber = a.transcriber
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		audioErr = a.runAudioBranch(ctx, job, tl, transcriber, durationCh)
	}()
	go func() {
		defer wg.Done()
		assets, footageErr = a.runFootageBranch(ctx, job, analysis, durationCh)
	}()
	wg.Wait()

	if audioErr != nil {
		return audioErr
	}
	if footageErr != nil {
		return footageErr
	}

	if err := tl.Validate(); err != nil {
		return services.Wrap(
			services.ErrValidation,
			"assembly",
			"validate timeline",
			"Assembled timeline failed validation",
			err,
		)
	}

	manifestPath := filepath.Join(job.WorkDir, TimingManifestName)
	if err := tl.SaveManifest(manifestPath); err != nil {
		return services.Wrap(services.ErrTransient, "assembly", "write timing manifest", "Failed to persist timing manifest", err)
	}
	if err := footage.SaveAssets(filepath.Join(job.WorkDir, FootageManifestName), assets); err != nil {
		return services.Wrap(services.ErrTransient, "assembly", "write footage manifest", "Failed to persist footage manifest", err)
	}
	job.ManifestPath = manifestPath

	placeholders := countPlaceholders(tl)
	generated := countGenerated(assets)
	if placeholders > 0 || generated > 0 {
		job.ReviewReason = degradationSummary(placeholders, generated)
	}

	logger.Info("assembly complete",
		logging.Int(logging.FieldSegmentCount, len(tl.Segments)),
		logging.Float64("total_duration", tl.TotalDuration),
		logging.Int("clips", len(assets)),
		logging.Int("generated_clips", generated),
		logging.Int("placeholder_segments", placeholders),
	)
	job.SetProgressComplete("Assembling", fmt.Sprintf("Assembled %.1fs across %d clips", tl.TotalDuration, len(assets)))
	return nil
}

func (a *Assembler) runAudioBranch(ctx context.Context, job *queue.Job, tl *timeline.Timeline, transcriber transcribe.Service, durationCh chan<- float64) error {
	defer close(durationCh)

	synthReporter := progress.NewReporter(a.sink, progress.StepSynthesizing)
	synthReporter.Report(0, "Synthesizing narration")
	orchestrator := synthesis.NewOrchestrator(a.engine, a.prober, a.ffmpeg, synthesis.Options{
		Voice:                 a.cfg.TTS.Voice,
		MaxAttempts:           a.cfg.TTS.MaxAttempts,
		RetryBackoff:          time.Duration(a.cfg.TTS.RetryBackoffSeconds) * time.Second,
		SpeakingRate:          a.cfg.TTS.SpeakingRate,
		MinPlaceholderSeconds: a.cfg.TTS.MinPlaceholderSeconds,
		MaxPlaceholderSeconds: a.cfg.TTS.MaxPlaceholderSeconds,
	}, a.logger)
	if err := orchestrator.Run(ctx, tl, job.WorkDir); err != nil {
		return err
	}
	synthReporter.Report(100, "Narration synthesized")
	durationCh <- tl.TotalDuration

	alignReporter := progress.NewReporter(a.sink, progress.StepAligning)
	alignReporter.Report(0, "Aligning word timings")
	aligner := alignment.New(alignment.Options{
		Transcriber: transcriber,
		FrameRate:   a.cfg.Render.FrameRate,
	}, a.logger)
	if err := aligner.AlignTimeline(ctx, tl); err != nil {
		return err
	}
	alignReporter.Report(100, "Word timings aligned")
	return nil
}

func (a *Assembler) runFootageBranch(ctx context.Context, job *queue.Job, analysis *concepts.Analysis, durationCh <-chan float64) ([]footage.Asset, error) {
	reporter := progress.NewReporter(a.sink, progress.StepMatching)
	reporter.Report(0, "Matching footage")

	var totalSeconds float64
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case seconds, ok := <-durationCh:
		if !ok {
			// Audio branch failed before measuring; its error wins.
			return nil, nil
		}
		totalSeconds = seconds
	}

	matcher := footage.NewMatcher(a.providers, a.ffmpeg, footage.Options{
		MaxCutSeconds:    a.cfg.Footage.MaxCutSeconds,
		Width:            a.cfg.Render.Width,
		Height:           a.cfg.Render.Height,
		FrameRate:        a.cfg.Render.FrameRate,
		QueryConcurrency: a.cfg.Footage.QueryConcurrency,
		PerQueryLimit:    a.cfg.Footage.PerQueryLimit,
	}, a.logger)
	assets, err := matcher.Match(ctx, analysis, totalSeconds, job.WorkDir)
	if err != nil {
		return nil, err
	}
	reporter.ReportDetails(100, "Footage matched", map[string]string{
		"clips": fmt.Sprintf("%d", len(assets)),
	})
	return assets, nil
}

func (a *Assembler) HealthCheck(ctx context.Context) stage.Health {
	const name = "assembler"
	if a.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if a.engine == nil {
		return stage.Unhealthy(name, "speech engine unavailable")
	}
	binary := strings.TrimSpace(a.cfg.TTS.PiperBinary)
	if binary == "" {
		binary = "piper"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("piper binary %q not found", binary))
	}
	return stage.Healthy(name)
}

func scriptText(doc timeline.Script) string {
	parts := make([]string, 0, len(doc.Segments))
	for _, spec := range doc.Segments {
		parts = append(parts, spec.Text)
	}
	return strings.Join(parts, " ")
}

func countPlaceholders(tl *timeline.Timeline) int {
	count := 0
	for _, segment := range tl.Segments {
		if segment.Placeholder {
			count++
		}
	}
	return count
}

func countGenerated(assets []footage.Asset) int {
	count := 0
	for _, asset := range assets {
		if asset.Generated {
			count++
		}
	}
	return count
}

func degradationSummary(placeholders, generated int) string {
	parts := make([]string, 0, 2)
	if placeholders > 0 {
		parts = append(parts, fmt.Sprintf("%d silent placeholder segment(s)", placeholders))
	}
	if generated > 0 {
		parts = append(parts, fmt.Sprintf("%d generated filler clip(s)", generated))
	}
	return strings.Join(parts, ", ")
}
