package concepts

import (
	"slices"
	"testing"
)

func TestAnalyzeDetectsCueCategories(t *testing.T) {
	text := "She stood alone in the hospital hallway at night, staring at the mirror, afraid of what was breathing behind the door."
	analysis := Analyze(text, nil)

	if !slices.Contains(analysis.Locations, "hospital") || !slices.Contains(analysis.Locations, "hallway") {
		t.Fatalf("locations: %v", analysis.Locations)
	}
	if !slices.Contains(analysis.Objects, "mirror") || !slices.Contains(analysis.Objects, "door") {
		t.Fatalf("objects: %v", analysis.Objects)
	}
	if !slices.Contains(analysis.Emotions, "alone") || !slices.Contains(analysis.Emotions, "afraid") {
		t.Fatalf("emotions: %v", analysis.Emotions)
	}
	if !slices.Contains(analysis.Scenes, "night") {
		t.Fatalf("scenes should include time-of-day cues: %v", analysis.Scenes)
	}
	if !slices.Contains(analysis.Actions, "breathing") {
		t.Fatalf("actions: %v", analysis.Actions)
	}
}

func TestAnalyzeExpandsQueries(t *testing.T) {
	analysis := Analyze("The brain processes fear in the dark.", nil)

	for _, want := range []string{"neural network", "brain scan", "dark scene", "dark corridor"} {
		if !slices.Contains(analysis.SearchQueries, want) {
			t.Fatalf("expected query %q in %v", want, analysis.SearchQueries)
		}
	}
}

func TestAnalyzeDeduplicatesQueries(t *testing.T) {
	// "fear", "afraid", and "scared" share an expansion; "dark scene" must
	// appear once.
	analysis := Analyze("fear afraid scared fear", []string{"horror"})

	count := 0
	for _, query := range analysis.SearchQueries {
		if query == "dark scene" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one 'dark scene' query, got %d in %v", count, analysis.SearchQueries)
	}
}

func TestAnalyzeAddsTagAndLocationQueries(t *testing.T) {
	analysis := Analyze("A quiet basement.", []string{"Horror", "space"})

	if !slices.Contains(analysis.SearchQueries, "basement") {
		t.Fatalf("locations should become direct queries: %v", analysis.SearchQueries)
	}
	if !slices.Contains(analysis.SearchQueries, "abandoned house") {
		t.Fatalf("tag queries missing: %v", analysis.SearchQueries)
	}
	if !slices.Contains(analysis.SearchQueries, "starfield") {
		t.Fatalf("space tag queries missing: %v", analysis.SearchQueries)
	}
}

func TestAnalyzeFoldsPlurals(t *testing.T) {
	analysis := Analyze("Mirrors and candles everywhere.", nil)
	if !slices.Contains(analysis.Objects, "mirror") || !slices.Contains(analysis.Objects, "candle") {
		t.Fatalf("plural forms should fold to singular cues: %v", analysis.Objects)
	}
}

func TestDominantEmotion(t *testing.T) {
	analysis := &Analysis{Emotions: []string{"fear", "lonely", "fear"}}
	if got := analysis.DominantEmotion(); got != "fear" {
		t.Fatalf("dominant emotion %q, want fear", got)
	}

	empty := &Analysis{}
	if got := empty.DominantEmotion(); got != "" {
		t.Fatalf("expected empty dominant emotion, got %q", got)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	analysis := Analyze("", nil)
	if len(analysis.SearchQueries) != 0 || len(analysis.Locations) != 0 {
		t.Fatalf("empty text should yield empty analysis: %+v", analysis)
	}
}
