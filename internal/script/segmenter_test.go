package script

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shortform/internal/timeline"
)

func TestSegmentIsolatesHookAndCTA(t *testing.T) {
	s := NewSegmenter(7, 2.5)
	script := s.Segment(Input{
		Title: "Test",
		Hook:  "You won't believe this.",
		Body:  strings.Repeat("word ", 35),
		CTA:   "Follow for more.",
	})

	if script.Segments[0].Role != timeline.RoleHook {
		t.Fatalf("expected hook first, got %s", script.Segments[0].Role)
	}
	last := script.Segments[len(script.Segments)-1]
	if last.Role != timeline.RoleCTA {
		t.Fatalf("expected cta last, got %s", last.Role)
	}
	for _, seg := range script.Segments[1 : len(script.Segments)-1] {
		if seg.Role != timeline.RoleBody {
			t.Fatalf("expected body in the middle, got %s", seg.Role)
		}
	}
}

func TestSegmentBodyChunksAreBalanced(t *testing.T) {
	s := NewSegmenter(7, 2.5)
	// 52 words at 17.5 words/chunk rounds to 3 chunks of 18/17/17.
	body := strings.TrimSpace(strings.Repeat("alpha ", 52))
	script := s.Segment(Input{Body: body})

	if len(script.Segments) != 3 {
		t.Fatalf("expected 3 body chunks, got %d", len(script.Segments))
	}
	counts := make([]int, 0, 3)
	total := 0
	for _, seg := range script.Segments {
		n := len(strings.Fields(seg.Text))
		counts = append(counts, n)
		total += n
	}
	if total != 52 {
		t.Fatalf("words lost in chunking: %d", total)
	}
	for _, n := range counts {
		if n < 17 || n > 18 {
			t.Fatalf("unbalanced chunk sizes: %v", counts)
		}
	}
}

func TestSegmentDeterministic(t *testing.T) {
	s := NewSegmenter(7, 2.5)
	input := Input{Hook: "Hey.", Body: strings.Repeat("beta ", 40), CTA: "Bye."}
	first := s.Segment(input)
	second := s.Segment(input)
	if len(first.Segments) != len(second.Segments) {
		t.Fatal("segment count not deterministic")
	}
	for i := range first.Segments {
		if first.Segments[i] != second.Segments[i] {
			t.Fatalf("segment %d differs across runs", i)
		}
	}
}

func TestSegmentShortBodyYieldsSingleChunk(t *testing.T) {
	s := NewSegmenter(7, 2.5)
	script := s.Segment(Input{Body: "just five words right here"})
	if len(script.Segments) != 1 {
		t.Fatalf("expected one segment, got %d", len(script.Segments))
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	s := NewSegmenter(7, 2.5)
	script := s.Segment(Input{Title: "Empty"})
	if len(script.Segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(script.Segments))
	}
}

func TestFromFilePreSegmented(t *testing.T) {
	doc := scriptDocument{
		Title: "Canned",
		Segments: []timeline.SegmentSpec{
			{Text: "hello", Role: timeline.RoleHook},
			{Text: "world", Role: timeline.RoleBody},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "script.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	script, err := FromFile{Path: path}.Script(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(script.Segments) != 2 || script.Segments[0].Role != timeline.RoleHook {
		t.Fatalf("unexpected script: %+v", script)
	}
}

func TestFromFileRawText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.json")
	content := `{"title":"Raw","hook":"Listen up.","body":"some body text goes here","cta":"Subscribe."}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	script, err := FromFile{Path: path}.Script(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if script.Segments[0].Role != timeline.RoleHook || script.Segments[len(script.Segments)-1].Role != timeline.RoleCTA {
		t.Fatalf("unexpected roles: %+v", script.Segments)
	}
}

func TestSegmentTargetDurationBiasesChunkCount(t *testing.T) {
	s := NewSegmenter(7, 2.5)
	// 52 words derive 3 chunks on their own; a 42s budget asks for 6.
	body := strings.TrimSpace(strings.Repeat("alpha ", 52))
	script := s.Segment(Input{Body: body, TargetDuration: 42})

	if len(script.Segments) != 6 {
		t.Fatalf("expected 6 body chunks for a 42s target, got %d", len(script.Segments))
	}
	total := 0
	for _, seg := range script.Segments {
		total += len(strings.Fields(seg.Text))
	}
	if total != 52 {
		t.Fatalf("words lost in chunking: %d", total)
	}
}

func TestSegmentTargetDurationDeductsHookAndCTA(t *testing.T) {
	s := NewSegmenter(7, 2.5)
	// Hook and CTA are 35 words, 14s of speech, leaving 14s => 2 body chunks.
	hook := strings.TrimSpace(strings.Repeat("hook ", 20))
	cta := strings.TrimSpace(strings.Repeat("bye ", 15))
	body := strings.TrimSpace(strings.Repeat("alpha ", 52))
	script := s.Segment(Input{Hook: hook, Body: body, CTA: cta, TargetDuration: 28})

	bodyChunks := 0
	for _, seg := range script.Segments {
		if seg.Role == timeline.RoleBody {
			bodyChunks++
		}
	}
	if bodyChunks != 2 {
		t.Fatalf("expected 2 body chunks after deducting hook and CTA, got %d", bodyChunks)
	}
}

func TestSegmentTinyTargetDurationStillChunksBody(t *testing.T) {
	s := NewSegmenter(7, 2.5)
	hook := strings.TrimSpace(strings.Repeat("hook ", 30))
	script := s.Segment(Input{Hook: hook, Body: "short body here", TargetDuration: 5})

	bodyChunks := 0
	for _, seg := range script.Segments {
		if seg.Role == timeline.RoleBody {
			bodyChunks++
		}
	}
	if bodyChunks != 1 {
		t.Fatalf("over-budget hook should leave one body chunk, got %d", bodyChunks)
	}
}
