package alignment

import (
	"strings"
	"unicode"

	"shortform/internal/timeline"
)

// functionWords are spoken quickly regardless of spelling; their weight is
// pinned below the one-syllable baseline.
var functionWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"is": {}, "it": {}, "to": {}, "of": {}, "in": {}, "on": {}, "at": {},
	"for": {}, "and": {}, "or": {}, "but": {},
}

const functionWordWeight = 0.6

// tokenize splits narration text on whitespace and folds punctuation-only
// tokens into their neighboring word. A leading punctuation token attaches
// forward, everything else attaches backward.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if isPunctuationOnly(field) {
			if len(tokens) > 0 {
				tokens[len(tokens)-1] += field
			} else {
				// Hold it for the first real word.
				tokens = append(tokens, field)
				continue
			}
			continue
		}
		if len(tokens) == 1 && isPunctuationOnly(tokens[0]) {
			tokens[0] += field
			continue
		}
		tokens = append(tokens, field)
	}
	if len(tokens) == 1 && isPunctuationOnly(tokens[0]) {
		return nil
	}
	return tokens
}

func isPunctuationOnly(token string) bool {
	for _, r := range token {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return len(token) > 0
}

// stripPunctuation removes non-letter, non-digit runes for weight lookups.
func stripPunctuation(token string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, token)
}

// countSyllables estimates syllables by counting vowel groups. A raw
// vowel-group count overshoots English words like "make" or "phrase", so a
// trailing silent "e" is deliberately discounted (never after "le", where the
// "e" is voiced). Every word counts at least one.
func countSyllables(word string) int {
	word = strings.ToLower(stripPunctuation(word))
	if word == "" {
		return 1
	}
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

// wordWeight scores the relative speaking time of one token. Syllable count
// and a character-length proxy each vote, and the final weight is their
// average. Function words are pinned low so "the" never eats timeline.
func wordWeight(token string) float64 {
	bare := strings.ToLower(stripPunctuation(token))
	if _, ok := functionWords[bare]; ok {
		return functionWordWeight
	}

	var syllableWeight float64
	switch syllables := countSyllables(token); {
	case syllables <= 1:
		syllableWeight = 0.8
	case syllables == 2:
		syllableWeight = 1.0
	case syllables == 3:
		syllableWeight = 1.2
	default:
		syllableWeight = 1.4
	}

	lengthWeight := 0.5 + float64(len(bare))/10.0
	if lengthWeight > 1.5 {
		lengthWeight = 1.5
	}

	return (syllableWeight + lengthWeight) / 2.0
}

// Heuristic distributes a segment's audio duration across its words in
// proportion to per-word weights. Timings are local to the segment, start at
// zero, and the final word always ends exactly at the duration.
func Heuristic(text string, duration float64) []timeline.WordTiming {
	tokens := tokenize(text)
	if len(tokens) == 0 || duration <= 0 {
		return nil
	}

	weights := make([]float64, len(tokens))
	total := 0.0
	for i, token := range tokens {
		weights[i] = wordWeight(token)
		total += weights[i]
	}

	timings := make([]timeline.WordTiming, len(tokens))
	cursor := 0.0
	for i, token := range tokens {
		span := duration * weights[i] / total
		timings[i] = timeline.WordTiming{
			Word:  token,
			Start: cursor,
			End:   cursor + span,
		}
		cursor += span
	}
	// Absorb float drift at the tail.
	timings[len(timings)-1].End = duration
	return timings
}

// UniformSplit divides the duration evenly across whitespace tokens. It is
// the safety net when both transcription and the weighted heuristic fail.
func UniformSplit(text string, duration float64) []timeline.WordTiming {
	fields := strings.Fields(text)
	if len(fields) == 0 || duration <= 0 {
		return nil
	}
	span := duration / float64(len(fields))
	timings := make([]timeline.WordTiming, len(fields))
	for i, field := range fields {
		timings[i] = timeline.WordTiming{
			Word:  field,
			Start: float64(i) * span,
			End:   float64(i+1) * span,
		}
	}
	timings[len(timings)-1].End = duration
	return timings
}
