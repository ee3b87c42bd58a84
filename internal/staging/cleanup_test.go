package staging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shortform/internal/staging"
)

func TestCleanOrphanedKeepsActiveWorkDirs(t *testing.T) {
	root := t.TempDir()
	active := filepath.Join(root, "job-001")
	orphan := filepath.Join(root, "job-002")
	unrelated := filepath.Join(root, "other")
	for _, dir := range []string{active, orphan, unrelated} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	result := staging.CleanOrphaned(root, map[string]struct{}{active: {}}, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != orphan {
		t.Fatalf("expected only orphan removed, got %v", result.Removed)
	}
	if _, err := os.Stat(active); err != nil {
		t.Fatalf("active workdir removed: %v", err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("unrelated directory removed: %v", err)
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Fatal("orphan workdir still present")
	}
}

func TestCleanStaleRemovesOldWorkDirs(t *testing.T) {
	root := t.TempDir()
	old := filepath.Join(root, "job-001")
	fresh := filepath.Join(root, "job-002")
	for _, dir := range []string{old, fresh} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	past := time.Now().Add(-72 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	result := staging.CleanStale(root, 24*time.Hour, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != old {
		t.Fatalf("expected only old workdir removed, got %v", result.Removed)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh workdir removed: %v", err)
	}
}

func TestCleanupHandlesMissingRoot(t *testing.T) {
	result := staging.CleanStale(filepath.Join(t.TempDir(), "missing"), time.Hour, nil)
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected no-op for missing root, got %+v", result)
	}
}
