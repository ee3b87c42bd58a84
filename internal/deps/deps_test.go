package deps_test

import (
	"testing"

	"shortform/internal/config"
	"shortform/internal/deps"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "Missing", Command: "definitely-not-a-real-binary-49121"},
		{Name: "Shell", Command: "sh"},
	})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if statuses[0].Detail == "" {
		t.Fatal("expected detail for missing binary")
	}
	if !statuses[1].Available {
		t.Fatal("expected sh to be available")
	}
}

func TestCheckBinariesHandlesEmptyCommand(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{{Name: "Empty"}})
	if statuses[0].Available {
		t.Fatal("expected empty command to be unavailable")
	}
	if statuses[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail %q", statuses[0].Detail)
	}
}

func TestForReflectsTranscriptionConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Enabled = false

	for _, req := range deps.For(&cfg) {
		if req.Name == "WhisperX" {
			if !req.Optional {
				t.Fatal("expected WhisperX to be optional when transcription is disabled")
			}
			return
		}
	}
	t.Fatal("WhisperX requirement not listed")
}

func TestForIncludesRendererWhenConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Command = "shortform-render --style bold"

	found := false
	for _, req := range deps.For(&cfg) {
		if req.Name == "Renderer" {
			found = true
			if req.Command != "shortform-render" {
				t.Fatalf("expected renderer command to be first field, got %q", req.Command)
			}
		}
	}
	if !found {
		t.Fatal("renderer requirement not listed")
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []deps.Status{
		{Name: "A", Available: true},
		{Name: "B", Available: false, Optional: true},
		{Name: "C", Available: false},
	}
	missing := deps.MissingRequired(statuses)
	if len(missing) != 1 || missing[0].Name != "C" {
		t.Fatalf("expected only C to be missing, got %v", missing)
	}
}
