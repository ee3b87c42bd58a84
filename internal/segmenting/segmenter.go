package segmenting

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"shortform/internal/config"
	"shortform/internal/logging"
	"shortform/internal/progress"
	"shortform/internal/queue"
	"shortform/internal/script"
	"shortform/internal/services"
	"shortform/internal/stage"
)

// Segmenter turns a job's raw script into role-tagged segment specs and
// stages the job's working directory.
type Segmenter struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
	sink   progress.Sink
}

// NewSegmenter constructs the segmentation stage handler.
func NewSegmenter(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Segmenter {
	seg := &Segmenter{cfg: cfg, store: store, sink: progress.LogSink{Logger: logger}}
	seg.SetLogger(logger)
	return seg
}

// WithProgressSink overrides where step events are published (used by the
// one-shot pipeline to stream progress to the terminal).
func (s *Segmenter) WithProgressSink(sink progress.Sink) {
	if sink != nil {
		s.sink = sink
	}
}

// SetLogger updates the handler's logging destination while preserving
// component labeling.
func (s *Segmenter) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, "segmenter")
}

func (s *Segmenter) Prepare(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, s.logger)
	job.InitProgress("Segmenting", "Splitting script into segments")

	if strings.TrimSpace(job.WorkDir) == "" {
		job.WorkDir = filepath.Join(s.cfg.Paths.StagingDir, fmt.Sprintf("job-%03d", job.ID))
	}
	if err := os.MkdirAll(job.WorkDir, 0o755); err != nil {
		return services.Wrap(
			services.ErrConfiguration,
			"segmenting",
			"create work directory",
			"Could not create the job working directory; check staging_dir permissions",
			err,
		)
	}
	logger.Debug("staged job work directory", logging.String("work_dir", job.WorkDir))
	return nil
}

func (s *Segmenter) Execute(ctx context.Context, job *queue.Job) error {
	logger := logging.WithContext(ctx, s.logger)
	reporter := progress.NewReporter(s.sink, progress.StepSegmenting)
	reporter.Report(0, "Segmenting script")

	if strings.TrimSpace(job.ScriptJSON) == "" {
		return services.Wrap(
			services.ErrValidation,
			"segmenting",
			"read script",
			"Job has no script text; resubmit with a script document",
			nil,
		)
	}

	source := script.FromJSON{
		Data:      []byte(job.ScriptJSON),
		Segmenter: script.NewSegmenter(s.cfg.Script.TargetChunkSeconds, s.cfg.Script.SpeakingRate),
	}
	doc, err := source.Script(ctx)
	if err != nil {
		return services.Wrap(
			services.ErrValidation,
			"segmenting",
			"parse script",
			"Script document could not be parsed; expected JSON with title and body or segments",
			err,
		)
	}
	if len(doc.Segments) == 0 {
		return services.Wrap(
			services.ErrValidation,
			"segmenting",
			"segment script",
			"Script produced no segments; the body text is empty",
			nil,
		)
	}
	if strings.TrimSpace(doc.Title) == "" {
		doc.Title = strings.TrimSpace(job.Title)
	}
	if strings.TrimSpace(job.Title) == "" {
		job.Title = doc.Title
	}

	normalized, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrTransient, "segmenting", "encode script", "Failed to encode segmented script", err)
	}
	scriptPath := filepath.Join(job.WorkDir, "script.json")
	if err := os.WriteFile(scriptPath, normalized, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "segmenting", "write script", "Failed to persist segmented script", err)
	}
	job.ScriptJSON = string(normalized)

	logger.Info("script segmented",
		logging.Int(logging.FieldSegmentCount, len(doc.Segments)),
		logging.String("script_path", scriptPath),
	)
	reporter.ReportDetails(100, "Script segmented", map[string]string{
		"segments": fmt.Sprintf("%d", len(doc.Segments)),
	})
	job.SetProgressComplete("Segmenting", fmt.Sprintf("Split into %d segments", len(doc.Segments)))
	return nil
}

func (s *Segmenter) HealthCheck(context.Context) stage.Health {
	const name = "segmenter"
	if s.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(s.cfg.Paths.StagingDir) == "" {
		return stage.Unhealthy(name, "staging directory not configured")
	}
	return stage.Healthy(name)
}
