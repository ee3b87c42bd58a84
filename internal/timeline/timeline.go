package timeline

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used when comparing floating-point timestamps.
const Epsilon = 1e-6

// Role tags a script segment with its narrative function.
type Role string

const (
	RoleHook Role = "hook"
	RoleBody Role = "body"
	RoleCTA  Role = "cta"
)

// SegmentSpec is a role-tagged span of script text, not yet voiced.
type SegmentSpec struct {
	Text string `json:"text"`
	Role Role   `json:"role"`
}

// Script is the immutable input document: a title plus ordered segment specs.
type Script struct {
	Title    string        `json:"title"`
	Segments []SegmentSpec `json:"segments"`
	Tags     []string      `json:"tags,omitempty"`
}

// WordTiming is a single word's absolute start/end within the final timeline.
// Frame indices are derived at a fixed frame rate and never serialized; they
// are recomputed when a manifest is reloaded.
type WordTiming struct {
	Word       string  `json:"word"`
	Start      float64 `json:"startTime"`
	End        float64 `json:"endTime"`
	StartFrame int     `json:"-"`
	EndFrame   int     `json:"-"`
}

// DeriveFrames populates frame indices from the timing window.
func (w *WordTiming) DeriveFrames(frameRate int) {
	if frameRate <= 0 {
		return
	}
	w.StartFrame = int(math.Round(w.Start * float64(frameRate)))
	w.EndFrame = int(math.Round(w.End * float64(frameRate)))
}

// Caption is a display line grouping one or more word timings.
type Caption struct {
	Text  string  `json:"text"`
	Start float64 `json:"startTime"`
	End   float64 `json:"endTime"`
}

// AudioSegment is a script segment progressively enriched by the pipeline:
// the synthesis stage fills AudioPath and Duration, bound assignment fills
// Start/End, and alignment fills Words and Captions. Each stage mutates only
// the fields it owns.
type AudioSegment struct {
	Text        string       `json:"text"`
	Role        Role         `json:"role"`
	AudioPath   string       `json:"audioFile"`
	Duration    float64      `json:"duration"`
	Start       float64      `json:"startTime"`
	End         float64      `json:"endTime"`
	Words       []WordTiming `json:"wordTimings"`
	Captions    []Caption    `json:"captions"`
	Placeholder bool         `json:"placeholder,omitempty"`
}

// Timeline is the canonical intermediate state of one job.
type Timeline struct {
	Title         string          `json:"title"`
	Segments      []*AudioSegment `json:"segments"`
	TotalDuration float64         `json:"totalDuration"`
}

// New creates a timeline with empty audio segments mirroring the script.
func New(script Script) *Timeline {
	segments := make([]*AudioSegment, 0, len(script.Segments))
	for _, spec := range script.Segments {
		segments = append(segments, &AudioSegment{Text: spec.Text, Role: spec.Role})
	}
	return &Timeline{Title: script.Title, Segments: segments}
}

// RecomputeBounds assigns contiguous start/end times as a running sum over
// measured segment durations and refreshes the total duration. Segment 0
// always starts at 0.
func (t *Timeline) RecomputeBounds() {
	cursor := 0.0
	for _, segment := range t.Segments {
		segment.Start = cursor
		segment.End = cursor + segment.Duration
		cursor = segment.End
	}
	t.TotalDuration = cursor
}

// Validate checks the contiguity and containment invariants: segments are
// non-overlapping and gapless, word timings are monotonic and clipped to
// their owning segment, and the last word of a segment ends exactly at the
// segment boundary.
func (t *Timeline) Validate() error {
	cursor := 0.0
	for i, segment := range t.Segments {
		if math.Abs(segment.Start-cursor) > Epsilon {
			return fmt.Errorf("segment %d: start %v, want %v", i, segment.Start, cursor)
		}
		if segment.End < segment.Start {
			return fmt.Errorf("segment %d: end %v before start %v", i, segment.End, segment.Start)
		}
		if err := validateWords(segment); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		cursor = segment.End
	}
	if math.Abs(t.TotalDuration-cursor) > Epsilon {
		return fmt.Errorf("total duration %v, segments sum to %v", t.TotalDuration, cursor)
	}
	return nil
}

func validateWords(segment *AudioSegment) error {
	if len(segment.Words) == 0 {
		return nil
	}
	prev := segment.Start
	for j, word := range segment.Words {
		if word.Start < prev-Epsilon {
			return fmt.Errorf("word %d (%q): start %v overlaps previous end %v", j, word.Word, word.Start, prev)
		}
		if word.End < word.Start {
			return fmt.Errorf("word %d (%q): end %v before start %v", j, word.Word, word.End, word.Start)
		}
		if word.Start < segment.Start-Epsilon || word.End > segment.End+Epsilon {
			return fmt.Errorf("word %d (%q): [%v,%v] outside segment [%v,%v]", j, word.Word, word.Start, word.End, segment.Start, segment.End)
		}
		prev = word.End
	}
	last := segment.Words[len(segment.Words)-1]
	if math.Abs(last.End-segment.End) > Epsilon {
		return fmt.Errorf("last word %q ends at %v, segment ends at %v", last.Word, last.End, segment.End)
	}
	return nil
}

// AudioPaths returns the per-segment audio assets in timeline order.
func (t *Timeline) AudioPaths() []string {
	paths := make([]string, 0, len(t.Segments))
	for _, segment := range t.Segments {
		paths = append(paths, segment.AudioPath)
	}
	return paths
}
