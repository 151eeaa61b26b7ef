// Package scraper turns the HTML snippets found in feed entries into plain
// text that can be handed to a generation backend.
package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxSummaryRunes caps what is forwarded into a prompt.
const maxSummaryRunes = 1600

// PlainText strips markup from a feed summary and normalizes whitespace.
// Input that does not parse as HTML is returned trimmed.
func PlainText(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapse(html)
	}

	var parts []string
	doc.Find("li").Each(func(i int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	text := strings.Join(parts, "\n")
	if text == "" {
		text = collapse(doc.Text())
	}
	return limit(text, maxSummaryRunes)
}

// SourceName returns the publisher label that news aggregators append to an
// entry summary (the last <font> element), or "" when there is none.
func SourceName(html string) string {
	if !strings.Contains(html, "<") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return collapse(doc.Find("font").Last().Text())
}

func collapse(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// limit cuts s to at most n runes, preferring the last sentence end.
func limit(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	trimmed := string([]rune(s)[:n])
	if idx := strings.LastIndex(trimmed, ". "); idx > n/2 {
		return trimmed[:idx+1]
	}
	return trimmed + "..."
}
