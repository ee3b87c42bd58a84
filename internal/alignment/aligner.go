package alignment

import (
	"context"
	"log/slog"

	"shortform/internal/logging"
	"shortform/internal/services/transcribe"
	"shortform/internal/timeline"
)

// Aligner assigns word-level timings to synthesized segments. Transcription
// is the primary source; the weighted heuristic covers transcription
// failures, and a uniform split covers text the heuristic cannot score.
type Aligner struct {
	transcriber transcribe.Service
	logger      *slog.Logger
	captionLen  int
	frameRate   int
}

// Options configure an Aligner.
type Options struct {
	// Transcriber may be nil to disable transcription entirely.
	Transcriber transcribe.Service
	// CaptionLineLength bounds caption groups in characters.
	CaptionLineLength int
	// FrameRate drives frame-index derivation for rendering.
	FrameRate int
}

// New builds an Aligner. Logger may be nil.
func New(opts Options, logger *slog.Logger) *Aligner {
	if logger == nil {
		logger = logging.NewNop()
	}
	captionLen := opts.CaptionLineLength
	if captionLen <= 0 {
		captionLen = timeline.DefaultCaptionLineLength
	}
	frameRate := opts.FrameRate
	if frameRate <= 0 {
		frameRate = 30
	}
	return &Aligner{
		transcriber: opts.Transcriber,
		logger:      logger,
		captionLen:  captionLen,
		frameRate:   frameRate,
	}
}

// AlignTimeline aligns every segment in order. Failures never abort the
// pass; each segment independently degrades through the fallback chain.
func (a *Aligner) AlignTimeline(ctx context.Context, tl *timeline.Timeline) error {
	for i, segment := range tl.Segments {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.AlignSegment(ctx, i, segment)
	}
	return nil
}

// AlignSegment fills in Words, Captions, and frame indexes for one segment.
// Placeholder segments skip transcription; there is nothing to hear.
func (a *Aligner) AlignSegment(ctx context.Context, index int, segment *timeline.AudioSegment) {
	words := a.resolveTimings(ctx, index, segment)
	for i := range words {
		// Shift from segment-local to timeline time.
		words[i].Start += segment.Start
		words[i].End += segment.Start
	}
	segment.Words = words
	segment.Captions = timeline.BuildCaptions(words, a.captionLen)
	for i := range segment.Words {
		segment.Words[i].DeriveFrames(a.frameRate)
	}
}

// resolveTimings walks the fallback chain and returns segment-local timings.
func (a *Aligner) resolveTimings(ctx context.Context, index int, segment *timeline.AudioSegment) []timeline.WordTiming {
	if a.transcriber != nil && !segment.Placeholder {
		words, err := a.transcriber.Transcribe(ctx, segment.AudioPath, segment.Text)
		if err == nil {
			if timings, ok := a.adoptTranscription(segment, words); ok {
				return timings
			}
			a.logger.Warn("transcription rejected, using heuristic timing",
				logging.Int(logging.FieldSegmentIndex, index),
				logging.Int("transcribed_words", len(words)))
		} else {
			a.logger.Warn("transcription failed, using heuristic timing",
				logging.Int(logging.FieldSegmentIndex, index),
				logging.Error(err))
		}
	}

	if timings := Heuristic(segment.Text, segment.Duration); len(timings) > 0 {
		return timings
	}
	a.logger.Warn("heuristic timing unavailable, splitting uniformly",
		logging.Int(logging.FieldSegmentIndex, index))
	return UniformSplit(segment.Text, segment.Duration)
}

// adoptTranscription validates transcribed timings against the segment. When
// the transcript matches the script word for word, the script tokens are kept
// so punctuation and casing survive into captions.
func (a *Aligner) adoptTranscription(segment *timeline.AudioSegment, words []transcribe.Word) ([]timeline.WordTiming, bool) {
	if len(words) == 0 {
		return nil, false
	}
	scriptTokens := tokenize(segment.Text)
	if len(scriptTokens) == 0 {
		return nil, false
	}
	// A transcript wildly shorter or longer than the script means the model
	// heard something else; trust the heuristic instead.
	ratio := float64(len(words)) / float64(len(scriptTokens))
	if ratio < 0.5 || ratio > 2.0 {
		return nil, false
	}

	timings := make([]timeline.WordTiming, len(words))
	prevEnd := 0.0
	for i, word := range words {
		start := word.Start
		if start < prevEnd {
			start = prevEnd
		}
		end := word.End
		if end <= start {
			return nil, false
		}
		timings[i] = timeline.WordTiming{Word: word.Text, Start: start, End: end}
		prevEnd = end
	}
	if len(words) == len(scriptTokens) {
		for i := range timings {
			timings[i].Word = scriptTokens[i]
		}
	}
	// The model can overshoot the measured duration by a frame or two, or
	// stop short of trailing silence. Either way the final word is pinned
	// to the segment boundary so the timeline stays gapless.
	last := &timings[len(timings)-1]
	last.End = segment.Duration
	if last.End <= last.Start {
		return nil, false
	}
	return timings, true
}
