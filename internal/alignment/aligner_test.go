package alignment

import (
	"context"
	"errors"
	"math"
	"testing"

	"shortform/internal/services/transcribe"
	"shortform/internal/timeline"
)

type fakeTranscriber struct {
	words []transcribe.Word
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath, hint string) ([]transcribe.Word, error) {
	f.calls++
	return f.words, f.err
}

func segmentFixture(text string, start, duration float64) *timeline.AudioSegment {
	return &timeline.AudioSegment{
		Text:     text,
		Role:     timeline.RoleBody,
		Start:    start,
		End:      start + duration,
		Duration: duration,
	}
}

func TestAlignSegmentUsesTranscription(t *testing.T) {
	transcriber := &fakeTranscriber{words: []transcribe.Word{
		{Text: "hello", Start: 0.1, End: 0.6},
		{Text: "world", Start: 0.7, End: 1.4},
	}}
	aligner := New(Options{Transcriber: transcriber, FrameRate: 30}, nil)
	segment := segmentFixture("Hello, world!", 5.0, 1.5)

	aligner.AlignSegment(context.Background(), 0, segment)

	if len(segment.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(segment.Words))
	}
	// Script tokens survive when counts match.
	if segment.Words[0].Word != "Hello," {
		t.Fatalf("expected script token, got %q", segment.Words[0].Word)
	}
	// Timings shift from segment-local to timeline time.
	if math.Abs(segment.Words[0].Start-5.1) > 1e-9 {
		t.Fatalf("first word start %f, want 5.1", segment.Words[0].Start)
	}
	if segment.Words[0].StartFrame != 153 {
		t.Fatalf("frame derivation: got %d, want 153", segment.Words[0].StartFrame)
	}
	if len(segment.Captions) == 0 {
		t.Fatal("captions should be built")
	}
}

func TestAlignSegmentFallsBackOnTranscribeError(t *testing.T) {
	transcriber := &fakeTranscriber{err: errors.New("whisperx exploded")}
	aligner := New(Options{Transcriber: transcriber}, nil)
	segment := segmentFixture("some narration text here", 0, 2.0)

	aligner.AlignSegment(context.Background(), 0, segment)

	if len(segment.Words) != 4 {
		t.Fatalf("heuristic fallback should cover all words, got %d", len(segment.Words))
	}
	if segment.Words[3].End != 2.0 {
		t.Fatalf("last word should end at segment duration, got %f", segment.Words[3].End)
	}
}

func TestAlignSegmentRejectsMismatchedTranscript(t *testing.T) {
	// One transcribed word against five script words is below the accept
	// ratio, so the heuristic takes over.
	transcriber := &fakeTranscriber{words: []transcribe.Word{
		{Text: "mumble", Start: 0, End: 2.0},
	}}
	aligner := New(Options{Transcriber: transcriber}, nil)
	segment := segmentFixture("five words of real narration", 0, 2.0)

	aligner.AlignSegment(context.Background(), 0, segment)

	if len(segment.Words) != 5 {
		t.Fatalf("expected heuristic result with 5 words, got %d", len(segment.Words))
	}
}

func TestAlignSegmentSkipsTranscriptionForPlaceholders(t *testing.T) {
	transcriber := &fakeTranscriber{}
	aligner := New(Options{Transcriber: transcriber}, nil)
	segment := segmentFixture("silent placeholder text", 0, 1.5)
	segment.Placeholder = true

	aligner.AlignSegment(context.Background(), 0, segment)

	if transcriber.calls != 0 {
		t.Fatalf("placeholder segments must not be transcribed, got %d calls", transcriber.calls)
	}
	if len(segment.Words) != 3 {
		t.Fatalf("expected heuristic words, got %d", len(segment.Words))
	}
}

func TestAlignSegmentClampsOvershoot(t *testing.T) {
	transcriber := &fakeTranscriber{words: []transcribe.Word{
		{Text: "hello", Start: 0, End: 0.8},
		{Text: "there", Start: 0.8, End: 2.3},
	}}
	aligner := New(Options{Transcriber: transcriber}, nil)
	segment := segmentFixture("hello there", 0, 2.0)

	aligner.AlignSegment(context.Background(), 0, segment)

	last := segment.Words[len(segment.Words)-1]
	if math.Abs(last.End-2.0) > 1e-9 {
		t.Fatalf("overshooting transcript should clamp to duration, got %f", last.End)
	}
}

func TestAlignSegmentExtendsFinalWordOverTrailingSilence(t *testing.T) {
	// WhisperX routinely stops before the synthesized audio does; the last
	// word still has to reach the segment boundary.
	transcriber := &fakeTranscriber{words: []transcribe.Word{
		{Text: "hello", Start: 0, End: 0.8},
		{Text: "there", Start: 0.8, End: 1.4},
	}}
	aligner := New(Options{Transcriber: transcriber}, nil)
	tl := timeline.New(timeline.Script{Title: "T", Segments: []timeline.SegmentSpec{
		{Text: "hello there", Role: timeline.RoleBody},
	}})
	tl.Segments[0].Duration = 2.0
	tl.RecomputeBounds()

	if err := aligner.AlignTimeline(context.Background(), tl); err != nil {
		t.Fatalf("AlignTimeline failed: %v", err)
	}
	last := tl.Segments[0].Words[len(tl.Segments[0].Words)-1]
	if math.Abs(last.End-2.0) > 1e-9 {
		t.Fatalf("last word should be pinned to the segment end, got %f", last.End)
	}
	if err := tl.Validate(); err != nil {
		t.Fatalf("timeline with trailing silence should validate: %v", err)
	}
}

func TestAlignTimelineAlignsEverySegment(t *testing.T) {
	aligner := New(Options{}, nil)
	tl := timeline.New(timeline.Script{Title: "T", Segments: []timeline.SegmentSpec{
		{Text: "first segment words", Role: timeline.RoleHook},
		{Text: "second segment words", Role: timeline.RoleBody},
	}})
	tl.Segments[0].Duration = 1.5
	tl.Segments[1].Duration = 2.5
	tl.RecomputeBounds()

	if err := aligner.AlignTimeline(context.Background(), tl); err != nil {
		t.Fatalf("AlignTimeline failed: %v", err)
	}
	for i, segment := range tl.Segments {
		if len(segment.Words) == 0 {
			t.Fatalf("segment %d not aligned", i)
		}
		first := segment.Words[0]
		if math.Abs(first.Start-segment.Start) > 1e-9 {
			t.Fatalf("segment %d first word start %f, segment start %f", i, first.Start, segment.Start)
		}
	}
	if err := tl.Validate(); err != nil {
		t.Fatalf("aligned timeline should validate: %v", err)
	}
}
