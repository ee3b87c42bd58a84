package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shortform/internal/logs"
)

func writeLog(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shortform.log")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTailReturnsLastLines(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\nfour\n")

	result, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(result.Lines) != 2 || result.Lines[0] != "three" || result.Lines[1] != "four" {
		t.Fatalf("unexpected lines %v", result.Lines)
	}
	if result.Offset == 0 {
		t.Fatal("expected non-zero resume offset")
	}
}

func TestTailResumesFromOffset(t *testing.T) {
	path := writeLog(t, "one\ntwo\n")

	first, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Limit: 10})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := file.WriteString("three\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	file.Close()

	second, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: first.Offset})
	if err != nil {
		t.Fatalf("Tail resume: %v", err)
	}
	if len(second.Lines) != 1 || second.Lines[0] != "three" {
		t.Fatalf("expected only appended line, got %v", second.Lines)
	}
}

func TestTailMissingFileIsNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.log")

	result, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Limit: 5})
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(result.Lines) != 0 || result.Offset != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestCurrentPath(t *testing.T) {
	if got := logs.CurrentPath("/var/log/shortform"); got != "/var/log/shortform/shortform.log" {
		t.Fatalf("unexpected path %q", got)
	}
}
