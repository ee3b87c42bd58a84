package rendering

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"shortform/internal/assembly"
	"shortform/internal/config"
	"shortform/internal/fileutil"
	"shortform/internal/footage"
	"shortform/internal/logging"
	"shortform/internal/media/ffmpeg"
	"shortform/internal/notifications"
	"shortform/internal/progress"
	"shortform/internal/queue"
	"shortform/internal/render"
	"shortform/internal/services"
	"shortform/internal/stage"
	"shortform/internal/textutil"
	"shortform/internal/timeline"
)

// Renderer drives the final video production for an assembled job: render
// manifest, silent video, narration concat, and the audio/video mux. The
// finished file is moved into the output directory and intermediates are
// cleaned up unless configured otherwise.
type Renderer struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	sink     progress.Sink
	notifier notifications.Service

	video *render.Renderer
	muxer *render.Muxer
}

// NewRenderer constructs the render stage handler.
func NewRenderer(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Renderer {
	return NewRendererWithDependencies(cfg, store, logger, ffmpeg.NewRunner(cfg.Tools.FFmpegBinary), notifications.NewService(cfg))
}

// NewRendererWithDependencies allows injecting custom dependencies (used for
// tests).
func NewRendererWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, runner *ffmpeg.Runner, notifier notifications.Service) *Renderer {
	r := &Renderer{
		cfg:      cfg,
		store:    store,
		sink:     progress.LogSink{Logger: logger},
		notifier: notifier,
		video:    render.NewRenderer(renderCommand(cfg), runner, logger),
		muxer:    render.NewMuxer(runner, logger),
	}
	r.SetLogger(logger)
	return r
}

// WithProgressSink overrides where step events are published.
func (r *Renderer) WithProgressSink(sink progress.Sink) {
	if sink != nil {
		r.sink = sink
	}
}

// SetLogger updates the handler's logging destination while preserving
// component labeling.
func (r *Renderer) SetLogger(logger *slog.Logger) {
	r.logger = logging.NewComponentLogger(logger, "renderer")
}

func (r *Renderer) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, r.logger)
	job.InitProgress("Rendering", "Producing final video")
	if strings.TrimSpace(job.ManifestPath) == "" {
		return services.Wrap(
			services.ErrValidation,
			"rendering",
			"validate inputs",
			"Job has no timing manifest; rerun assembly",
			nil,
		)
	}
	logger.Debug("starting render preparation")
	return nil
}

func (r *Renderer) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, r.logger)

	tl, err := timeline.LoadManifest(job.ManifestPath, r.cfg.Render.FrameRate)
	if err != nil {
		return services.Wrap(
			services.ErrValidation,
			"rendering",
			"load timing manifest",
			"Timing manifest missing or invalid; rerun assembly",
			err,
		)
	}
	assets, err := footage.LoadAssets(filepath.Join(job.WorkDir, assembly.FootageManifestName))
	if err != nil {
		return services.Wrap(
			services.ErrValidation,
			"rendering",
			"load footage manifest",
			"Footage manifest missing or invalid; rerun assembly",
			err,
		)
	}

	manifest := render.BuildManifest(tl, assets, r.cfg.Render.Style, render.FrameSpec{
		Width:     r.cfg.Render.Width,
		Height:    r.cfg.Render.Height,
		FrameRate: r.cfg.Render.FrameRate,
	})
	manifestPath := filepath.Join(job.WorkDir, "render_manifest.json")
	if err := manifest.Save(manifestPath); err != nil {
		return services.Wrap(services.ErrTransient, "rendering", "write render manifest", "Failed to persist render manifest", err)
	}

	videoPath := filepath.Join(job.WorkDir, "video.mp4")
	if err := r.renderVideo(ctx, job, manifest, manifestPath, videoPath); err != nil {
		return err
	}
	job.VideoPath = videoPath

	audioPath := filepath.Join(job.WorkDir, "narration.wav")
	muxReporter := progress.NewReporter(r.sink, progress.StepMuxing)
	muxReporter.Report(0, "Combining narration")
	if err := r.muxer.CombineAudio(ctx, audioPath, tl.AudioPaths()); err != nil {
		return services.Wrap(
			services.ErrExternalTool,
			"rendering",
			"combine narration",
			"Failed to concatenate narration audio; check ffmpeg availability",
			err,
		)
	}
	job.AudioPath = audioPath

	stagedFinal := filepath.Join(job.WorkDir, "final.mp4")
	if err := r.muxer.Mux(ctx, videoPath, audioPath, stagedFinal); err != nil {
		// Both mux attempts failed. The silent video and narration track
		// stay on disk for manual recovery; their paths persist on the job.
		var muxErr *render.MuxError
		if errors.As(err, &muxErr) {
			logger.Error("mux failed, artifacts preserved",
				logging.String("video_path", muxErr.VideoPath),
				logging.String("audio_path", muxErr.AudioPath),
			)
		}
		return services.Wrap(
			services.ErrExternalTool,
			"rendering",
			"mux",
			"Audio/video mux failed after copy and re-encode attempts",
			err,
		)
	}
	muxReporter.Report(100, "Final video muxed")

	finalPath, err := r.publish(job, stagedFinal)
	if err != nil {
		return err
	}
	job.FinalPath = finalPath

	r.cleanup(logger, job)
	r.notifyCompletion(ctx, logger, job)

	logger.Info("render complete",
		logging.String("final_path", finalPath),
		logging.Float64("duration", tl.TotalDuration),
	)
	job.SetProgressComplete("Rendering", fmt.Sprintf("Video ready at %s", finalPath))
	return nil
}

func (r *Renderer) renderVideo(ctx context.Context, job *queue.Job, manifest *render.Manifest, manifestPath, videoPath string) error {
	reporter := progress.NewReporter(r.sink, progress.StepRendering)
	reporter.Report(0, "Rendering video track")

	lastPersist := time.Time{}
	onProgress := func(fraction float64) {
		percent := fraction * 100
		reporter.Report(percent, "Rendering video track")
		if time.Since(lastPersist) < 2*time.Second && fraction < 1 {
			return
		}
		lastPersist = time.Now()
		job.SetProgress("Rendering", "Rendering video track", percent)
		if r.store != nil {
			if err := r.store.Update(ctx, job); err != nil {
				r.logger.Debug("failed to persist render progress", logging.Error(err))
			}
		}
	}

	if err := r.video.Render(ctx, manifest, manifestPath, videoPath, onProgress); err != nil {
		return services.Wrap(
			services.ErrExternalTool,
			"rendering",
			"render video",
			"Video rendering failed in both the external renderer and the fallback path",
			err,
		)
	}
	return nil
}

// publish moves the finished video into the output directory under a
// filesystem-safe name derived from the job title.
func (r *Renderer) publish(job *queue.Job, stagedFinal string) (string, error) {
	if err := os.MkdirAll(r.cfg.Paths.OutputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "rendering", "create output directory", "Could not create the output directory", err)
	}
	base := textutil.SanitizeFileName(textutil.DisplayTitle(job.Title))
	if base == "" {
		base = fmt.Sprintf("video-%03d", job.ID)
	}
	finalPath := filepath.Join(r.cfg.Paths.OutputDir, base+".mp4")
	if _, err := os.Stat(finalPath); err == nil {
		finalPath = filepath.Join(r.cfg.Paths.OutputDir, fmt.Sprintf("%s-%03d.mp4", base, job.ID))
	}
	if err := fileutil.CopyFileVerified(stagedFinal, finalPath); err != nil {
		return "", services.Wrap(services.ErrTransient, "rendering", "publish video", "Failed to move the finished video into the output directory", err)
	}
	os.Remove(stagedFinal)
	return finalPath, nil
}

func (r *Renderer) cleanup(logger *slog.Logger, job *queue.Job) {
	if r.cfg.Render.KeepIntermediates {
		return
	}
	if strings.TrimSpace(job.WorkDir) == "" {
		return
	}
	if err := os.RemoveAll(job.WorkDir); err != nil {
		logger.Warn("failed to remove job work directory", logging.Error(err))
		return
	}
	job.VideoPath = ""
	job.AudioPath = ""
	job.ManifestPath = ""
}

func (r *Renderer) notifyCompletion(ctx context.Context, logger *slog.Logger, job *queue.Job) {
	if r.notifier == nil {
		return
	}
	var err error
	if reason := strings.TrimSpace(job.ReviewReason); reason != "" && !job.NeedsReview {
		err = r.notifier.NotifyJobDegraded(ctx, job.Title, reason)
	} else {
		err = r.notifier.NotifyJobCompleted(ctx, job.Title, job.FinalPath)
	}
	if err != nil {
		logger.Debug("completion notification failed", logging.Error(err))
	}
}

func (r *Renderer) HealthCheck(ctx context.Context) stage.Health {
	const name = "renderer"
	if r.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	binary := strings.TrimSpace(r.cfg.Tools.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("ffmpeg binary %q not found", binary))
	}
	return stage.Healthy(name)
}

func renderCommand(cfg *config.Config) []string {
	command := strings.TrimSpace(cfg.Render.Command)
	if command == "" {
		return nil
	}
	return strings.Fields(command)
}
