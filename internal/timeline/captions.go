package timeline

import "strings"

// DefaultCaptionLineLength is the character budget per caption line, tuned
// for vertical-frame readability.
const DefaultCaptionLineLength = 20

// BuildCaptions groups word timings into caption lines no longer than
// maxChars. A caption spans from its first word's start to its last word's
// end, so caption boundaries inherit the word-timing invariants.
func BuildCaptions(words []WordTiming, maxChars int) []Caption {
	if len(words) == 0 {
		return nil
	}
	if maxChars <= 0 {
		maxChars = DefaultCaptionLineLength
	}

	var captions []Caption
	var line []string
	lineLen := 0
	start := words[0].Start
	end := words[0].End

	flush := func() {
		if len(line) == 0 {
			return
		}
		captions = append(captions, Caption{
			Text:  strings.Join(line, " "),
			Start: start,
			End:   end,
		})
		line = line[:0]
		lineLen = 0
	}

	for _, word := range words {
		wordLen := len(word.Word)
		if len(line) > 0 && lineLen+1+wordLen > maxChars {
			flush()
		}
		if len(line) == 0 {
			start = word.Start
		}
		line = append(line, word.Word)
		if len(line) == 1 {
			lineLen = wordLen
		} else {
			lineLen += 1 + wordLen
		}
		end = word.End
	}
	flush()
	return captions
}
