package generate

import (
	"regexp"
	"strings"
)

var (
	fencedBlock    = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n(.*?)\\n?```$")
	noteLine       = regexp.MustCompile(`(?im)^[ \t]*\(?\[?(note|disclaimer)[ \t]*:[^\n]*(\n|$)`)
	inlineNote     = regexp.MustCompile(`(?i)[(\[](note|disclaimer)\s*:[^)\]]*[)\]]\s*`)
	excessBlankRun = regexp.MustCompile(`\n{3,}`)
)

// Sanitize strips wrappers models add around the requested text: a markdown
// code fence around the whole answer and "Note:" style disclaimer lines.
func Sanitize(text string) string {
	text = strings.TrimSpace(text)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = inlineNote.ReplaceAllString(text, "")
	text = noteLine.ReplaceAllString(text, "")
	text = excessBlankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
