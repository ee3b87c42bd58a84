package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"shortform/internal/queue"
	"shortform/internal/services"
	"shortform/internal/testsupport"
)

func TestNewJobAndGetByID(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	job, err := store.NewJob(context.Background(), "run-1", "Ocean Facts", `{"title":"Ocean Facts"}`)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if job.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if job.Status != queue.StatusPending {
		t.Fatalf("status %s, want pending", job.Status)
	}
	if job.RunID != "run-1" || job.Title != "Ocean Facts" {
		t.Fatalf("unexpected job: %+v", job)
	}

	fetched, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched == nil || fetched.ScriptJSON != `{"title":"Ocean Facts"}` {
		t.Fatalf("round trip lost script: %+v", fetched)
	}
}

func TestGetByIDMissing(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	job, err := store.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil for missing job, got %+v", job)
	}
}

func TestUpdatePersistsArtifactPaths(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	job := testsupport.NewJob(t, store, "Title", "{}")

	job.Status = queue.StatusAssembled
	job.WorkDir = "/tmp/work"
	job.ManifestPath = "/tmp/work/timing_manifest.json"
	job.VideoPath = "/tmp/work/silent.mp4"
	job.AudioPath = "/tmp/work/combined.wav"
	job.SetProgress("Assembling", "audio and footage ready", 66)
	if err := store.Update(context.Background(), job); err != nil {
		t.Fatalf("Update: %v", err)
	}

	fetched, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Status != queue.StatusAssembled {
		t.Fatalf("status %s", fetched.Status)
	}
	if fetched.ManifestPath != "/tmp/work/timing_manifest.json" || fetched.AudioPath != "/tmp/work/combined.wav" {
		t.Fatalf("paths lost: %+v", fetched)
	}
	if fetched.ProgressPercent != 66 || fetched.ProgressStage != "Assembling" {
		t.Fatalf("progress lost: %+v", fetched)
	}
}

func TestNextForStatusesOrdersByCreation(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	first := testsupport.NewJob(t, store, "First", "{}")
	testsupport.NewJob(t, store, "Second", "{}")

	next, err := store.NextForStatuses(context.Background(), queue.StatusPending)
	if err != nil {
		t.Fatalf("NextForStatuses: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("expected oldest pending job, got %+v", next)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	job := testsupport.NewJob(t, store, "One", "{}")
	testsupport.NewJob(t, store, "Two", "{}")

	job.Status = queue.StatusCompleted
	if err := store.Update(context.Background(), job); err != nil {
		t.Fatalf("Update: %v", err)
	}

	completed, err := store.List(context.Background(), queue.StatusCompleted)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != job.ID {
		t.Fatalf("unexpected filtered list: %+v", completed)
	}

	all, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(all))
	}
}

func TestHealthAggregatesStatuses(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	testsupport.NewJob(t, store, "Pending", "{}")
	inFlight := testsupport.NewJob(t, store, "InFlight", "{}")
	failed := testsupport.NewJob(t, store, "Failed", "{}")

	inFlight.Status = queue.StatusRendering
	if err := store.Update(context.Background(), inFlight); err != nil {
		t.Fatal(err)
	}
	failed.SetFailed("mux exploded")
	if err := store.Update(context.Background(), failed); err != nil {
		t.Fatal(err)
	}

	health, err := store.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Total != 3 || health.Pending != 1 || health.Processing != 1 || health.Failed != 1 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestResetStuckProcessingRollsBackToStageStart(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	assembling := testsupport.NewJob(t, store, "Assembling", "{}")
	assembling.Status = queue.StatusAssembling
	if err := store.Update(context.Background(), assembling); err != nil {
		t.Fatal(err)
	}
	rendering := testsupport.NewJob(t, store, "Rendering", "{}")
	rendering.Status = queue.StatusRendering
	if err := store.Update(context.Background(), rendering); err != nil {
		t.Fatal(err)
	}

	affected, err := store.ResetStuckProcessing(context.Background())
	if err != nil {
		t.Fatalf("ResetStuckProcessing: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 jobs reset, got %d", affected)
	}

	reloaded, _ := store.GetByID(context.Background(), assembling.ID)
	if reloaded.Status != queue.StatusSegmented {
		t.Fatalf("assembling should roll back to segmented, got %s", reloaded.Status)
	}
	reloaded, _ = store.GetByID(context.Background(), rendering.ID)
	if reloaded.Status != queue.StatusAssembled {
		t.Fatalf("rendering should roll back to assembled, got %s", reloaded.Status)
	}
}

func TestReclaimStaleProcessingHonorsHeartbeat(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	stale := testsupport.NewJob(t, store, "Stale", "{}")
	stale.Status = queue.StatusSegmenting
	past := time.Now().UTC().Add(-time.Hour)
	stale.LastHeartbeat = &past
	if err := store.Update(context.Background(), stale); err != nil {
		t.Fatal(err)
	}

	fresh := testsupport.NewJob(t, store, "Fresh", "{}")
	fresh.Status = queue.StatusSegmenting
	if err := store.Update(context.Background(), fresh); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateHeartbeat(context.Background(), fresh.ID); err != nil {
		t.Fatal(err)
	}

	affected, err := store.ReclaimStaleProcessing(context.Background(), time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("ReclaimStaleProcessing: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 reclaimed job, got %d", affected)
	}

	reloaded, _ := store.GetByID(context.Background(), stale.ID)
	if reloaded.Status != queue.StatusPending {
		t.Fatalf("stale job should return to pending, got %s", reloaded.Status)
	}
	reloaded, _ = store.GetByID(context.Background(), fresh.ID)
	if reloaded.Status != queue.StatusSegmenting {
		t.Fatalf("fresh job should stay in flight, got %s", reloaded.Status)
	}
}

func TestRetryFailed(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	job := testsupport.NewJob(t, store, "Broken", "{}")
	job.SetFailed("render exploded")
	if err := store.Update(context.Background(), job); err != nil {
		t.Fatal(err)
	}

	affected, err := store.RetryFailed(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("RetryFailed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 retried job, got %d", affected)
	}

	reloaded, _ := store.GetByID(context.Background(), job.ID)
	if reloaded.Status != queue.StatusPending || reloaded.ErrorMessage != "" {
		t.Fatalf("retry should clear failure state: %+v", reloaded)
	}
}

func TestClearHelpers(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	done := testsupport.NewJob(t, store, "Done", "{}")
	done.Status = queue.StatusCompleted
	if err := store.Update(context.Background(), done); err != nil {
		t.Fatal(err)
	}
	testsupport.NewJob(t, store, "Pending", "{}")

	removed, err := store.ClearCompleted(context.Background())
	if err != nil {
		t.Fatalf("ClearCompleted: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 cleared, got %d", removed)
	}

	all, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 remaining, got %d", len(all))
	}
}

func TestFailureStatusClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want queue.Status
	}{
		{"validation", services.Wrap(services.ErrValidation, "script", "segment", "empty body", nil), queue.StatusReview},
		{"configuration", services.Wrap(services.ErrConfiguration, "tts", "acquire", "model missing", nil), queue.StatusReview},
		{"external tool", services.Wrap(services.ErrExternalTool, "render", "mux", "boom", nil), queue.StatusFailed},
		{"plain", errors.New("anything"), queue.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := queue.FailureStatus(tt.err); got != tt.want {
				t.Fatalf("FailureStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := queue.ParseStatus(" Rendering "); !ok || status != queue.StatusRendering {
		t.Fatalf("ParseStatus: %s, %v", status, ok)
	}
	if _, ok := queue.ParseStatus("bogus"); ok {
		t.Fatal("unknown status should not parse")
	}
}
