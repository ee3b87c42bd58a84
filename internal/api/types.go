package api

import (
	"time"

	"shortform/internal/queue"
	"shortform/internal/stage"
	"shortform/internal/workflow"
)

// QueueJob is the wire representation of a queue job.
type QueueJob struct {
	ID              int64   `json:"id"`
	RunID           string  `json:"run_id"`
	Title           string  `json:"title"`
	Status          string  `json:"status"`
	ErrorMessage    string  `json:"error_message,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	ProgressStage   string  `json:"progress_stage,omitempty"`
	ProgressPercent float64 `json:"progress_percent"`
	ProgressMessage string  `json:"progress_message,omitempty"`
	FinalPath       string  `json:"final_path,omitempty"`
	NeedsReview     bool    `json:"needs_review"`
	ReviewReason    string  `json:"review_reason,omitempty"`
}

// JobToResponse converts a queue job to its wire form.
func JobToResponse(job *queue.Job) QueueJob {
	return QueueJob{
		ID:              job.ID,
		RunID:           job.RunID,
		Title:           job.Title,
		Status:          string(job.Status),
		ErrorMessage:    job.ErrorMessage,
		CreatedAt:       job.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       job.UpdatedAt.UTC().Format(time.RFC3339),
		ProgressStage:   job.ProgressStage,
		ProgressPercent: job.ProgressPercent,
		ProgressMessage: job.ProgressMessage,
		FinalPath:       job.FinalPath,
		NeedsReview:     job.NeedsReview,
		ReviewReason:    job.ReviewReason,
	}
}

// StageHealth describes readiness of a workflow stage.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// StatusResponse represents combined daemon/workflow status information.
type StatusResponse struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queue_stats"`
	LastError   string         `json:"last_error,omitempty"`
	LastJob     *QueueJob      `json:"last_job,omitempty"`
	QueueDBPath string         `json:"queue_db_path"`
	StageHealth []StageHealth  `json:"stage_health"`
	PID         int            `json:"pid"`
}

// HealthResponse is the unauthenticated liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

// JobsResponse contains queue entries.
type JobsResponse struct {
	Jobs []QueueJob `json:"jobs"`
}

// SubmitRequest queues a new script for assembly.
type SubmitRequest struct {
	Title  string `json:"title"`
	Script string `json:"script"`
}

// SubmitResponse acknowledges a queued job.
type SubmitResponse struct {
	JobID int64 `json:"job_id"`
}

// RetryResponse reports how many jobs were reset to pending.
type RetryResponse struct {
	Retried int64 `json:"retried"`
}

// ClearResponse reports how many jobs were removed.
type ClearResponse struct {
	Removed int64 `json:"removed"`
}

// LogsResponse carries tailed daemon log lines plus the offset to resume
// polling from.
type LogsResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusToResponse(summary workflow.StatusSummary, dbPath string, pid int) StatusResponse {
	stats := make(map[string]int, len(summary.QueueStats))
	for status, count := range summary.QueueStats {
		stats[string(status)] = count
	}
	health := make([]StageHealth, 0, len(summary.StageHealth))
	for _, h := range orderedHealth(summary.StageHealth) {
		health = append(health, StageHealth{Name: h.Name, Ready: h.Ready, Detail: h.Detail})
	}
	resp := StatusResponse{
		Running:     summary.Running,
		QueueStats:  stats,
		LastError:   summary.LastError,
		QueueDBPath: dbPath,
		StageHealth: health,
		PID:         pid,
	}
	if summary.LastJob != nil {
		job := JobToResponse(summary.LastJob)
		resp.LastJob = &job
	}
	return resp
}

func orderedHealth(byName map[string]stage.Health) []stage.Health {
	order := []string{"segmenter", "assembler", "renderer"}
	out := make([]stage.Health, 0, len(byName))
	seen := make(map[string]bool, len(byName))
	for _, name := range order {
		if h, ok := byName[name]; ok {
			out = append(out, h)
			seen[name] = true
		}
	}
	for name, h := range byName {
		if !seen[name] {
			out = append(out, h)
		}
	}
	return out
}
