package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSegmenting Status = "segmenting"
	StatusSegmented  Status = "segmented"
	StatusAssembling Status = "assembling"
	StatusAssembled  Status = "assembled"
	StatusRendering  Status = "rendering"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusReview     Status = "review"
)

// DaemonStopReason is the error message set when jobs are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusSegmenting,
	StatusSegmented,
	StatusAssembling,
	StatusAssembled,
	StatusRendering,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusSegmenting: {},
	StatusAssembling: {},
	StatusRendering:  {},
}

// stageRollbackTransitions map an in-flight status back to the start of its
// stage, used when reclaiming stuck or stale jobs.
var stageRollbackTransitions = map[Status]Status{
	StatusSegmenting: StatusPending,
	StatusAssembling: StatusSegmented,
	StatusRendering:  StatusAssembled,
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Review     int
	Completed  int
}

// Job represents a video generation job persisted in SQLite.
type Job struct {
	ID              int64
	RunID           string
	Title           string
	Status          Status
	ScriptJSON      string
	WorkDir         string
	ManifestPath    string
	VideoPath       string
	AudioPath       string
	FinalPath       string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	LastHeartbeat   *time.Time
	NeedsReview     bool
	ReviewReason    string
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight stage.
func (j Job) IsProcessing() bool {
	_, ok := processingStatuses[j.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight stage.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// InitProgress resets progress fields for a new stage. ProgressStage is only
// set when empty, so resumed jobs keep their original stage label.
func (j *Job) InitProgress(stage, message string) {
	if j.ProgressStage == "" {
		j.ProgressStage = stage
	}
	j.ProgressMessage = message
	j.ProgressPercent = 0
	j.ErrorMessage = ""
}

// SetProgress updates all three progress fields together.
func (j *Job) SetProgress(stage, message string, percent float64) {
	j.ProgressStage = stage
	j.ProgressMessage = message
	j.ProgressPercent = percent
}

// SetProgressComplete sets progress to 100% with the given stage and message.
func (j *Job) SetProgressComplete(stage, message string) {
	j.SetProgress(stage, message, 100)
}

// SetFailed marks the job as failed with the given error message.
func (j *Job) SetFailed(message string) {
	j.Status = StatusFailed
	j.ErrorMessage = message
	j.ProgressPercent = 0
	j.ProgressMessage = message
	j.LastHeartbeat = nil
	j.ProgressStage = "Failed"
}
