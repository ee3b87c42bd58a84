package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"shortform/internal/logging"
	"shortform/internal/queue"
	"shortform/internal/services"
	"shortform/internal/stage"
	"shortform/internal/stageexec"
)

func (m *Manager) processJob(ctx context.Context, logger *slog.Logger, job *queue.Job) error {
	stg, ok := m.stageForStatus(job.Status)
	if !ok {
		logger.Warn("no stage configured for status", logging.String("status", string(job.Status)))
		m.waitForJobOrShutdown(ctx)
		return nil
	}

	stageCtx := services.WithJobID(ctx, job.ID)
	stageCtx = services.WithRequestID(stageCtx, uuid.NewString())

	stageStart := time.Now()
	err := stageexec.Run(stageCtx, stageexec.Options{
		Logger:     logger,
		Store:      m.store,
		Notifier:   m.notifier,
		Handler:    &heartbeatHandler{inner: stg.handler, monitor: m.heartbeat},
		StageName:  stg.name,
		Processing: stg.processingStatus,
		Done:       stg.doneStatus,
		Job:        job,
	})
	m.setLastJob(job)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		m.setLastError(err)
		return err
	}

	logger.Info("stage finished",
		logging.String(logging.FieldStage, stg.name),
		logging.Int64(logging.FieldJobID, job.ID),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	return nil
}

// heartbeatHandler refreshes the job heartbeat while the wrapped stage runs,
// so long stages are not reclaimed as stale.
type heartbeatHandler struct {
	inner   stage.Handler
	monitor *HeartbeatMonitor
}

func (h *heartbeatHandler) Prepare(ctx context.Context, job *queue.Job) error {
	return h.inner.Prepare(ctx, job)
}

func (h *heartbeatHandler) Execute(ctx context.Context, job *queue.Job) error {
	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go h.monitor.StartLoop(hbCtx, &hbWG, job.ID)

	execErr := h.inner.Execute(ctx, job)
	hbCancel()
	hbWG.Wait()
	return execErr
}

func (h *heartbeatHandler) SetLogger(logger *slog.Logger) {
	if aware, ok := h.inner.(stage.LoggerAware); ok {
		aware.SetLogger(logger)
	}
}
