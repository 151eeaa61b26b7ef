package rss

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/analystbot/internal/logger"
	"github.com/deusflow/analystbot/internal/metrics"
	"github.com/deusflow/analystbot/internal/news"
	"github.com/deusflow/analystbot/internal/scraper"
)

// DefaultBaseURL is the news search feed endpoint.
const DefaultBaseURL = "https://news.google.com/rss/search"

// ErrEmptyFeed means the query returned no entries at all. Callers treat it
// as a harder failure than "nothing new".
var ErrEmptyFeed = errors.New("feed returned no entries")

// SeenSet is the dedup state the source consults and updates.
type SeenSet interface {
	IsSeen(id string) bool
	MarkSeen(id string) error
}

type Options struct {
	BaseURL  string
	Language string // hl, e.g. en-US
	Country  string // gl, e.g. US
	Timeout  time.Duration
}

// Source fetches the newest unseen entry for a keyword.
type Source struct {
	parser *gofeed.Parser
	seen   SeenSet
	opts   Options
	log    *slog.Logger
}

func NewSource(seen SeenSet, opts Options, log *slog.Logger) *Source {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = "en-US"
	}
	if opts.Country == "" {
		opts.Country = "US"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: opts.Timeout}
	parser.UserAgent = "analystbot/1.0"

	return &Source{
		parser: parser,
		seen:   seen,
		opts:   opts,
		log:    logger.OrDiscard(log),
	}
}

// BuildQueryURL builds a last-24-hours search feed URL for keyword.
func BuildQueryURL(baseURL, keyword, language, country string) string {
	lang, _, _ := strings.Cut(language, "-")
	q := url.QueryEscape(keyword) + "+when:1d"
	return fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s:%s",
		baseURL, q, url.QueryEscape(language), url.QueryEscape(country), url.QueryEscape(country), url.QueryEscape(lang))
}

// FetchNext returns the first entry (in feed order) that was not processed
// before, marking it seen before returning so a later failure in the run does
// not offer it again. It returns (nil, nil) when every entry was already
// seen, and ErrEmptyFeed when the feed has no entries.
func (s *Source) FetchNext(ctx context.Context, keyword string) (*news.Item, error) {
	feedURL := BuildQueryURL(s.opts.BaseURL, keyword, s.opts.Language, s.opts.Country)
	s.log.Info("fetching feed", "keyword", keyword)

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed for %q: %w", keyword, err)
	}
	if len(feed.Items) == 0 {
		s.log.Warn("feed has no entries", "keyword", keyword)
		return nil, fmt.Errorf("%w: %q", ErrEmptyFeed, keyword)
	}

	for _, entry := range feed.Items {
		item, ok := toItem(entry, keyword)
		if !ok {
			s.log.Debug("skipping entry without link", "title", entry.Title)
			continue
		}
		if s.seen.IsSeen(item.ID) {
			continue
		}

		if err := s.seen.MarkSeen(item.ID); err != nil {
			s.log.Warn("failed to persist seen state", "id", item.ID, "error", err)
		}
		metrics.ItemsFetched.Inc()
		s.log.Info("new entry found", "title", item.Title, "source", item.SourceName)
		return &item, nil
	}

	metrics.NothingNew.Inc()
	s.log.Info("no new entries, all already processed", "keyword", keyword, "entries", len(feed.Items))
	return nil, nil
}

func toItem(entry *gofeed.Item, keyword string) (news.Item, bool) {
	id := strings.TrimSpace(entry.Link)
	if id == "" {
		id = strings.TrimSpace(entry.GUID)
	}
	if id == "" {
		return news.Item{}, false
	}

	published := strings.TrimSpace(entry.Published)
	if published == "" && entry.PublishedParsed != nil {
		published = entry.PublishedParsed.Format(time.RFC1123Z)
	}
	if published == "" {
		published = news.UnknownPublished
	}

	return news.Item{
		ID:          id,
		Title:       strings.TrimSpace(entry.Title),
		Link:        id,
		PublishedAt: published,
		Summary:     scraper.PlainText(entry.Description),
		SourceName:  scraper.SourceName(entry.Description),
		Keyword:     keyword,
	}, true
}
