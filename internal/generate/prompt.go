package generate

import (
	"fmt"

	"github.com/deusflow/analystbot/internal/news"
)

// Section headings the prompt asks for. The document assembler turns them
// into highlighted boxes.
const (
	FactsMarker   = "Key Facts"
	InsightMarker = "Analyst's Insight"
)

// BuildPrompt renders the analyst briefing prompt for one feed entry.
func BuildPrompt(item news.Item, language string) string {
	source := item.SourceName
	if source == "" {
		source = "the original outlet"
	}

	return fmt.Sprintf(`You are "Market Analyst Bear", a global macro and technology analyst with twenty years of experience.
Brief professional investors and office workers in their 30s and 40s on the news item below.

[NEWS]
Keyword: %s
Original title: %s
Link: %s
Published: %s
Original summary: %s

[RULES]
1. Language: write the entire briefing in natural, fluent %s. Never sound machine-translated; mix everyday wording with the industry terms readers already use.
2. Tone: professional, polite and decisive. Interpret what the news means for investors instead of translating or summarizing it.
3. Teaser: do not retell everything. Curate the essentials so the reader wants to open the original link.
4. No emoji anywhere, neither in the title nor in the body.

[OUTPUT FORMAT, Markdown]
- First line: a new, attention-grabbing insight-style title. Do not translate the original title. No heading marks, no label.
- Then a line with exactly "%s" followed by three short, dry bullet points of facts, each ending with a hint of the source (for example "(source: %s)").
- Then a line with exactly "%s" followed by your analysis. This section must be at least twice as long as the facts section. Use phrasing such as "This matters because ..." and "Expect changes in ...".
- Put a line break right after each section heading.
`, item.Keyword, item.Title, item.Link, item.PublishedAt, item.Summary, language, FactsMarker, source, InsightMarker)
}

// dryRunArticle is returned instead of calling any backend in dry-run mode.
const dryRunArticle = `**[Dry Run] Sample briefing generated in test mode.**

Key Facts
* This post was generated to verify design and layout. No generation backend was called.
* No generation quota was consumed by this run.
* The illustrative image is resolved normally so the page design can be checked.

Analyst's Insight
This section is where the analyst's interpretation lives. Check that font size, line spacing and the highlighted boxes render correctly.
Checking the efficiency of your tools is a prerequisite for successful investing. If you can read this post, the publishing pipeline works end to end.`
