package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayTitle normalizes a video title for display and output naming:
// whitespace is collapsed and all-lowercase or all-uppercase titles are
// converted to title case. Mixed-case titles are left alone.
func DisplayTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return ""
	}
	lower := strings.ToLower(title)
	upper := strings.ToUpper(title)
	if title == lower || title == upper {
		return cases.Title(language.Und).String(lower)
	}
	return title
}
