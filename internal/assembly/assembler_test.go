package assembly_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"shortform/internal/assembly"
	"shortform/internal/footage"
	"shortform/internal/media/ffmpeg"
	"shortform/internal/queue"
	"shortform/internal/services"
	"shortform/internal/services/tts"
	"shortform/internal/testsupport"
	"shortform/internal/timeline"
)

type fakeEngine struct {
	mu       sync.Mutex
	synthErr error
	calls    int
}

func (e *fakeEngine) Acquire(context.Context) error { return nil }
func (e *fakeEngine) Release() error                { return nil }

func (e *fakeEngine) Synthesize(ctx context.Context, req tts.Request) error {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.synthErr != nil {
		return e.synthErr
	}
	return os.WriteFile(req.OutputPath, []byte("RIFF"), 0o644)
}

type fakeProber struct{}

func (fakeProber) Duration(context.Context, string) (float64, error) { return 2.0, nil }

func stubRunner() *ffmpeg.Runner {
	runner := ffmpeg.NewRunner("ffmpeg")
	runner.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return nil
	})
	return runner
}

const segmentedScript = `{"title": "Deep Sea", "segments": [
	{"role": "hook", "text": "The ocean hides giants."},
	{"role": "body", "text": "Colossal squid live in total darkness far below the surface."},
	{"role": "cta", "text": "Follow for more."}
]}`

func newAssemblyJob(t *testing.T, store *queue.Store) *queue.Job {
	t.Helper()
	job := testsupport.NewJob(t, store, "Deep Sea", segmentedScript)
	job.WorkDir = t.TempDir()
	return job
}

func TestExecuteProducesManifests(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.TTS.MaxAttempts = 1
	store := testsupport.MustOpenStore(t, cfg)
	job := newAssemblyJob(t, store)

	handler := assembly.NewAssemblerWithDependencies(cfg, store, nil, &fakeEngine{}, fakeProber{}, stubRunner(), nil, nil)
	ctx := context.Background()
	if err := handler.Prepare(ctx, job); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := handler.Execute(ctx, job); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if job.ManifestPath == "" {
		t.Fatal("expected manifest path on job")
	}
	tl, err := timeline.LoadManifest(job.ManifestPath, cfg.Render.FrameRate)
	if err != nil {
		t.Fatalf("load timing manifest: %v", err)
	}
	if len(tl.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(tl.Segments))
	}
	if tl.TotalDuration != 6.0 {
		t.Fatalf("expected 6s total duration, got %f", tl.TotalDuration)
	}
	for i, segment := range tl.Segments {
		if len(segment.Words) == 0 {
			t.Fatalf("segment %d has no word timings", i)
		}
	}

	assets, err := footage.LoadAssets(filepath.Join(job.WorkDir, assembly.FootageManifestName))
	if err != nil {
		t.Fatalf("load footage manifest: %v", err)
	}
	if len(assets) == 0 {
		t.Fatal("expected scheduled footage assets")
	}
	for _, asset := range assets {
		if !asset.Generated {
			t.Fatalf("expected generated filler without providers, got %+v", asset)
		}
	}
	if !strings.Contains(job.ReviewReason, "generated filler clip(s)") {
		t.Fatalf("expected degradation summary on job, got %q", job.ReviewReason)
	}
}

func TestExecuteFallsBackToPlaceholders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.TTS.MaxAttempts = 1
	store := testsupport.MustOpenStore(t, cfg)
	job := newAssemblyJob(t, store)

	engine := &fakeEngine{synthErr: errors.New("piper crashed")}
	handler := assembly.NewAssemblerWithDependencies(cfg, store, nil, engine, fakeProber{}, stubRunner(), nil, nil)
	ctx := context.Background()
	if err := handler.Prepare(ctx, job); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := handler.Execute(ctx, job); err != nil {
		t.Fatalf("Execute should degrade, not fail: %v", err)
	}

	if !strings.Contains(job.ReviewReason, "silent placeholder segment(s)") {
		t.Fatalf("expected placeholder summary, got %q", job.ReviewReason)
	}
}

func TestExecuteRejectsMissingScript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "Broken", "")
	job.WorkDir = t.TempDir()

	handler := assembly.NewAssemblerWithDependencies(cfg, store, nil, &fakeEngine{}, fakeProber{}, stubRunner(), nil, nil)
	err := handler.Execute(context.Background(), job)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPrepareRequiresWorkDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.NewJob(t, store, "No Workdir", segmentedScript)

	handler := assembly.NewAssemblerWithDependencies(cfg, store, nil, &fakeEngine{}, fakeProber{}, stubRunner(), nil, nil)
	err := handler.Prepare(context.Background(), job)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
