package concepts

import (
	"strings"
	"unicode"
)

// Analysis is the concept profile of a script: the scenes, entities, and
// moods its text evokes, plus the stock-footage queries derived from them.
// It is computed once per job and discarded after footage selection.
type Analysis struct {
	Scenes    []string
	Locations []string
	Objects   []string
	Emotions  []string
	Actions   []string

	SearchQueries []string
}

// DominantEmotion returns the most frequently cued emotion, or "" when the
// text carries no emotional cues. Frequency ties break on first appearance.
func (a *Analysis) DominantEmotion() string {
	if len(a.Emotions) == 0 {
		return ""
	}
	counts := make(map[string]int, len(a.Emotions))
	best := a.Emotions[0]
	for _, emotion := range a.Emotions {
		counts[emotion]++
		if counts[emotion] > counts[best] {
			best = emotion
		}
	}
	return best
}

// Analyze scans the script text and tags for lexical cues and derives
// deduplicated search queries. Text matching is token-exact after lowering
// and punctuation stripping, with plural "s" forms folded in.
func Analyze(text string, tags []string) *Analysis {
	analysis := &Analysis{}
	seen := map[string]struct{}{}

	for _, token := range strings.Fields(strings.ToLower(text)) {
		word := bareWord(token)
		if word == "" {
			continue
		}
		for _, candidate := range []string{word, strings.TrimSuffix(word, "s")} {
			if candidate == "" {
				continue
			}
			if _, dup := seen[candidate]; dup {
				break
			}
			matched := false
			if _, ok := locationCues[candidate]; ok {
				analysis.Locations = append(analysis.Locations, candidate)
				analysis.Scenes = append(analysis.Scenes, candidate)
				matched = true
			}
			if _, ok := objectCues[candidate]; ok {
				analysis.Objects = append(analysis.Objects, candidate)
				matched = true
			}
			if _, ok := emotionCues[candidate]; ok {
				analysis.Emotions = append(analysis.Emotions, candidate)
				matched = true
			}
			if _, ok := timeOfDayCues[candidate]; ok {
				analysis.Scenes = append(analysis.Scenes, candidate)
				matched = true
			}
			if _, ok := actionCues[candidate]; ok {
				analysis.Actions = append(analysis.Actions, candidate)
				matched = true
			}
			if matched {
				seen[candidate] = struct{}{}
				analysis.addQueries(queryTable[candidate])
				break
			}
		}
	}

	// Detected locations double as direct queries; "hospital corridor" style
	// expansions come from the table, the raw word still helps recall.
	for _, location := range analysis.Locations {
		analysis.addQueries([]string{location})
	}

	for _, tag := range tags {
		analysis.addQueries(tagQueries[strings.ToLower(strings.TrimSpace(tag))])
	}

	return analysis
}

// addQueries appends phrases not already present, preserving order.
func (a *Analysis) addQueries(phrases []string) {
	for _, phrase := range phrases {
		exists := false
		for _, have := range a.SearchQueries {
			if have == phrase {
				exists = true
				break
			}
		}
		if !exists {
			a.SearchQueries = append(a.SearchQueries, phrase)
		}
	}
}

func bareWord(token string) string {
	return strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
