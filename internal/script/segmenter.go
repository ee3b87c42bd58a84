package script

import (
	"math"
	"strings"

	"shortform/internal/timeline"
)

// Input carries the raw script text with optional explicit part boundaries.
// When Hook/CTA are empty the whole text is treated as body.
type Input struct {
	Title string
	Hook  string
	Body  string
	CTA   string
	Tags  []string

	// TargetDuration is the desired spoken length of the whole video in
	// seconds. Zero means "derive from word count".
	TargetDuration float64
}

// Segmenter splits scripts into role-tagged segment specs. Deterministic:
// the same input always yields the same segments.
type Segmenter struct {
	// TargetChunkSeconds is the desired spoken length per body segment.
	TargetChunkSeconds float64
	// SpeakingRate is the assumed narration speed in words per second.
	SpeakingRate float64
}

// NewSegmenter builds a segmenter with the given tuning, falling back to
// sensible defaults for non-positive values.
func NewSegmenter(targetChunkSeconds, speakingRate float64) *Segmenter {
	if targetChunkSeconds <= 0 {
		targetChunkSeconds = 7
	}
	if speakingRate <= 0 {
		speakingRate = 2.5
	}
	return &Segmenter{TargetChunkSeconds: targetChunkSeconds, SpeakingRate: speakingRate}
}

// Segment produces the ordered segment list: hook first when present, body
// split into roughly equal word chunks, CTA last when present.
func (s *Segmenter) Segment(input Input) timeline.Script {
	script := timeline.Script{Title: strings.TrimSpace(input.Title), Tags: input.Tags}

	if hook := strings.TrimSpace(input.Hook); hook != "" {
		script.Segments = append(script.Segments, timeline.SegmentSpec{Text: hook, Role: timeline.RoleHook})
	}

	body := strings.TrimSpace(input.Body)
	if body != "" {
		for _, chunk := range s.chunkBody(body, s.bodySeconds(input)) {
			script.Segments = append(script.Segments, timeline.SegmentSpec{Text: chunk, Role: timeline.RoleBody})
		}
	}

	if cta := strings.TrimSpace(input.CTA); cta != "" {
		script.Segments = append(script.Segments, timeline.SegmentSpec{Text: cta, Role: timeline.RoleCTA})
	}

	return script
}

// bodySeconds apportions the requested total duration to the body by
// deducting the estimated hook and CTA speaking time. Zero disables the
// override and leaves chunking to the word-count estimate.
func (s *Segmenter) bodySeconds(input Input) float64 {
	if input.TargetDuration <= 0 {
		return 0
	}
	overhead := float64(len(strings.Fields(input.Hook))+len(strings.Fields(input.CTA))) / s.SpeakingRate
	remaining := input.TargetDuration - overhead
	if remaining <= 0 {
		// Hook and CTA already fill the budget; keep the body to one chunk.
		return s.TargetChunkSeconds
	}
	return remaining
}

// chunkBody splits text into N near-equal word chunks where each chunk maps
// to roughly TargetChunkSeconds of speech. A positive targetSeconds replaces
// the word-count estimate with the requested overall body length.
func (s *Segmenter) chunkBody(body string, targetSeconds float64) []string {
	words := strings.Fields(body)
	if len(words) == 0 {
		return nil
	}

	var chunkCount int
	if targetSeconds > 0 {
		chunkCount = int(math.Round(targetSeconds / s.TargetChunkSeconds))
	} else {
		wordsPerChunk := s.TargetChunkSeconds * s.SpeakingRate
		chunkCount = int(math.Round(float64(len(words)) / wordsPerChunk))
	}
	if chunkCount < 1 {
		chunkCount = 1
	}
	if chunkCount > len(words) {
		chunkCount = len(words)
	}

	chunks := make([]string, 0, chunkCount)
	base := len(words) / chunkCount
	remainder := len(words) % chunkCount
	cursor := 0
	for i := 0; i < chunkCount; i++ {
		size := base
		if i < remainder {
			size++
		}
		chunks = append(chunks, strings.Join(words[cursor:cursor+size], " "))
		cursor += size
	}
	return chunks
}
