package stageexec

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"shortform/internal/logging"
	"shortform/internal/notifications"
	"shortform/internal/queue"
	"shortform/internal/services"
	"shortform/internal/stage"
)

// Handler is the stage contract used by the execution helper.
type Handler interface {
	Prepare(context.Context, *queue.Job) error
	Execute(context.Context, *queue.Job) error
}

// Options controls stage execution and queue persistence behavior.
type Options struct {
	Logger     *slog.Logger
	Store      *queue.Store
	Notifier   notifications.Service
	Handler    Handler
	StageName  string
	Processing queue.Status
	Done       queue.Status
	Job        *queue.Job
}

// Run executes a stage and applies queue transition semantics used by one-shot workflows.
func Run(ctx context.Context, opts Options) error {
	if opts.Handler == nil {
		return fmt.Errorf("stage handler unavailable: %s", opts.StageName)
	}
	if opts.Store == nil {
		return fmt.Errorf("queue store is required")
	}
	if opts.Job == nil {
		return fmt.Errorf("queue job is required")
	}

	stageCtx := logging.WithStage(ctx, opts.StageName)
	stageLogger := logging.WithContext(stageCtx, opts.Logger)
	if aware, ok := opts.Handler.(stage.LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(opts.Processing)),
		logging.String("title", strings.TrimSpace(opts.Job.Title)),
	)

	setJobProcessingState(opts.Job, opts.Processing)
	if err := opts.Store.Update(stageCtx, opts.Job); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}

	if err := opts.Handler.Prepare(stageCtx, opts.Job); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.Store, opts.Notifier, opts.StageName, opts.Job, err)
	}
	if err := opts.Store.Update(stageCtx, opts.Job); err != nil {
		return fmt.Errorf("persist stage preparation: %w", err)
	}

	if err := opts.Handler.Execute(stageCtx, opts.Job); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.Store, opts.Notifier, opts.StageName, opts.Job, err)
	}

	if opts.Job.Status == opts.Processing || opts.Job.Status == "" {
		opts.Job.Status = opts.Done
	}
	opts.Job.LastHeartbeat = nil
	if err := opts.Store.Update(stageCtx, opts.Job); err != nil {
		return fmt.Errorf("persist stage result: %w", err)
	}

	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(opts.Job.Status)),
		logging.String("progress_stage", strings.TrimSpace(opts.Job.ProgressStage)),
		logging.String("progress_message", strings.TrimSpace(opts.Job.ProgressMessage)),
	)

	return nil
}

func handleFailure(ctx context.Context, logger *slog.Logger, store *queue.Store, notifier notifications.Service, stageName string, job *queue.Job, stageErr error) error {
	message := "stage failed"
	if stageErr != nil {
		details := services.Details(stageErr)
		message = strings.TrimSpace(details.Message)
		if message == "" {
			message = strings.TrimSpace(stageErr.Error())
		}
	}
	resolved := queue.FailureStatus(stageErr)
	job.SetFailed(message)
	if resolved == queue.StatusReview {
		job.Status = queue.StatusReview
		job.NeedsReview = true
		job.ReviewReason = message
	}

	logger.Error(
		"stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("resolved_status", string(resolved)),
		logging.String("error_message", strings.TrimSpace(message)),
		logging.Error(stageErr),
	)
	if err := store.Update(ctx, job); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}

	if notifier != nil && stageErr != nil {
		contextLabel := fmt.Sprintf("%s (job #%d)", stageName, job.ID)
		if err := notifier.NotifyError(ctx, stageErr, contextLabel); err != nil {
			logger.Debug("stage error notification failed", logging.Error(err))
		}
	}

	return stageErr
}

func setJobProcessingState(job *queue.Job, processing queue.Status) {
	now := time.Now().UTC()
	job.Status = processing
	if job.ProgressStage == "" {
		job.ProgressStage = deriveStageLabel(processing)
	}
	if job.ProgressMessage == "" {
		job.ProgressMessage = fmt.Sprintf("%s started", deriveStageLabel(processing))
	}
	job.ProgressPercent = 0
	job.ErrorMessage = ""
	job.LastHeartbeat = &now
}

func deriveStageLabel(status queue.Status) string {
	if status == "" {
		return ""
	}
	parts := strings.Fields(strings.ReplaceAll(string(status), "_", " "))
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(strings.ToLower(part))
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
