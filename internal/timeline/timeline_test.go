package timeline

import (
	"math"
	"testing"
)

func sampleTimeline() *Timeline {
	t := New(Script{
		Title: "Sample",
		Segments: []SegmentSpec{
			{Text: "The hook", Role: RoleHook},
			{Text: "The body", Role: RoleBody},
		},
	})
	t.Segments[0].Duration = 3
	t.Segments[1].Duration = 4.5
	t.RecomputeBounds()
	return t
}

func TestRecomputeBoundsIsContiguous(t *testing.T) {
	tl := sampleTimeline()
	if tl.Segments[0].Start != 0 {
		t.Fatalf("segment 0 starts at %v", tl.Segments[0].Start)
	}
	if tl.Segments[1].Start != tl.Segments[0].End {
		t.Fatalf("segments not contiguous: %v vs %v", tl.Segments[1].Start, tl.Segments[0].End)
	}
	if math.Abs(tl.TotalDuration-7.5) > Epsilon {
		t.Fatalf("total duration %v, want 7.5", tl.TotalDuration)
	}
	if err := tl.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateDetectsGap(t *testing.T) {
	tl := sampleTimeline()
	tl.Segments[1].Start += 0.5
	if err := tl.Validate(); err == nil {
		t.Fatal("expected gap to fail validation")
	}
}

func TestValidateDetectsWordOutsideSegment(t *testing.T) {
	tl := sampleTimeline()
	tl.Segments[0].Words = []WordTiming{
		{Word: "The", Start: 0, End: 1.5},
		{Word: "hook", Start: 1.5, End: 3.5}, // spills past segment end
	}
	if err := tl.Validate(); err == nil {
		t.Fatal("expected out-of-segment word to fail validation")
	}
}

func TestValidateRequiresLastWordClamp(t *testing.T) {
	tl := sampleTimeline()
	tl.Segments[0].Words = []WordTiming{
		{Word: "The", Start: 0, End: 1},
		{Word: "hook", Start: 1, End: 2.9},
	}
	if err := tl.Validate(); err == nil {
		t.Fatal("expected unclamped final word to fail validation")
	}
	tl.Segments[0].Words[1].End = 3
	if err := tl.Validate(); err != nil {
		t.Fatalf("validate after clamp: %v", err)
	}
}

func TestDeriveFrames(t *testing.T) {
	w := WordTiming{Word: "fast", Start: 1.0, End: 1.5}
	w.DeriveFrames(30)
	if w.StartFrame != 30 || w.EndFrame != 45 {
		t.Fatalf("unexpected frames: %d-%d", w.StartFrame, w.EndFrame)
	}
}

func TestBuildCaptionsGroupsWords(t *testing.T) {
	words := []WordTiming{
		{Word: "somebody", Start: 0, End: 0.5},
		{Word: "once", Start: 0.5, End: 0.8},
		{Word: "told", Start: 0.8, End: 1.1},
		{Word: "me", Start: 1.1, End: 1.3},
	}
	captions := BuildCaptions(words, 13)
	if len(captions) != 2 {
		t.Fatalf("expected 2 captions, got %d: %v", len(captions), captions)
	}
	if captions[0].Text != "somebody once" {
		t.Fatalf("unexpected first caption: %q", captions[0].Text)
	}
	if captions[0].Start != 0 || captions[0].End != 0.8 {
		t.Fatalf("unexpected first caption window: %v-%v", captions[0].Start, captions[0].End)
	}
	if captions[1].Text != "told me" {
		t.Fatalf("unexpected second caption: %q", captions[1].Text)
	}
}

func TestBuildCaptionsEmpty(t *testing.T) {
	if got := BuildCaptions(nil, 20); got != nil {
		t.Fatalf("expected nil captions, got %v", got)
	}
}
