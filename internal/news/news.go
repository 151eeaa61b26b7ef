package news

// UnknownPublished stands in for entries that carry no publish date.
const UnknownPublished = "unknown"

// Item is one feed entry being considered for publication. The ID is the
// dedup key (the entry link).
type Item struct {
	ID          string
	Title       string
	Link        string
	PublishedAt string
	Summary     string
	SourceName  string
	Keyword     string
}

// SampleItem is the canned entry used in dry-run mode.
func SampleItem(keyword string) Item {
	return Item{
		ID:          "dry-run",
		Title:       "[Test] Global Market Insight Visualization Sample",
		Link:        "https://rohbomb.github.io",
		PublishedAt: UnknownPublished,
		Summary:     "This is a test summary for design verification. It triggers the Dry Run logic.",
		Keyword:     keyword,
	}
}
