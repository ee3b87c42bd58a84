package timeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestManifestRoundTrip(t *testing.T) {
	tl := sampleTimeline()
	tl.Segments[0].AudioPath = "/staging/seg_000.wav"
	tl.Segments[0].Words = []WordTiming{
		{Word: "The", Start: 0, End: 1.2},
		{Word: "hook", Start: 1.2, End: 3},
	}

	path := filepath.Join(t.TempDir(), ManifestName)
	if err := tl.SaveManifest(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadManifest(path, 30)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Title != tl.Title || len(loaded.Segments) != 2 {
		t.Fatalf("unexpected manifest content: %+v", loaded)
	}
	if loaded.Segments[0].AudioPath != "/staging/seg_000.wav" {
		t.Fatalf("audio path lost: %q", loaded.Segments[0].AudioPath)
	}
	// Frames are recomputed on load.
	if loaded.Segments[0].Words[1].EndFrame != 90 {
		t.Fatalf("expected frame derivation on load, got %d", loaded.Segments[0].Words[1].EndFrame)
	}
	if err := loaded.Validate(); err != nil {
		t.Fatalf("loaded manifest invalid: %v", err)
	}
}

func TestManifestFieldNames(t *testing.T) {
	tl := sampleTimeline()
	path := filepath.Join(t.TempDir(), ManifestName)
	if err := tl.SaveManifest(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"title", "segments", "totalDuration"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("manifest missing %q: %v", key, doc)
		}
	}
	segments := doc["segments"].([]any)
	first := segments[0].(map[string]any)
	for _, key := range []string{"text", "audioFile", "duration", "startTime", "endTime", "wordTimings", "captions"} {
		if _, ok := first[key]; !ok {
			t.Fatalf("segment missing %q: %v", key, first)
		}
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "absent.json"), 30); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
