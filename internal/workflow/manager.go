package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"shortform/internal/config"
	"shortform/internal/notifications"
	"shortform/internal/queue"
	"shortform/internal/stage"
)

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	pollInterval time.Duration
	notifier     notifications.Service

	heartbeat *HeartbeatMonitor

	stages       []pipelineStage
	stageByStart map[queue.Status]pipelineStage

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
	lastJob *queue.Job
}

// StageSet bundles the concrete workflow handlers the manager orchestrates.
type StageSet struct {
	Segmenter stage.Handler
	Assembler stage.Handler
	Renderer  stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// NewManager constructs a new workflow manager.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a workflow manager with a custom notifier
// (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		notifier:     notifier,
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			time.Duration(cfg.Workflow.HeartbeatInterval)*time.Second,
			time.Duration(cfg.Workflow.HeartbeatTimeout)*time.Second,
		),
	}
}

// ConfigureStages registers the concrete stage handlers the workflow will run.
func (m *Manager) ConfigureStages(set StageSet) {
	var stages []pipelineStage
	if set.Segmenter != nil {
		stages = append(stages, pipelineStage{
			name:             "segmenter",
			handler:          set.Segmenter,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusSegmenting,
			doneStatus:       queue.StatusSegmented,
		})
	}
	if set.Assembler != nil {
		stages = append(stages, pipelineStage{
			name:             "assembler",
			handler:          set.Assembler,
			startStatus:      queue.StatusSegmented,
			processingStatus: queue.StatusAssembling,
			doneStatus:       queue.StatusAssembled,
		})
	}
	if set.Renderer != nil {
		stages = append(stages, pipelineStage{
			name:             "renderer",
			handler:          set.Renderer,
			startStatus:      queue.StatusAssembled,
			processingStatus: queue.StatusRendering,
			doneStatus:       queue.StatusCompleted,
		})
	}

	byStart := make(map[queue.Status]pipelineStage, len(stages))
	for _, stg := range stages {
		byStart[stg.startStatus] = stg
	}

	m.mu.Lock()
	m.stages = stages
	m.stageByStart = byStart
	m.mu.Unlock()
}

func (m *Manager) startStatuses() []queue.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	statuses := make([]queue.Status, 0, len(m.stages))
	for _, stg := range m.stages {
		statuses = append(statuses, stg.startStatus)
	}
	return statuses
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stg, ok := m.stageByStart[status]
	return stg, ok
}
