// Package app runs one pass of the publishing pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/deusflow/analystbot/internal/config"
	"github.com/deusflow/analystbot/internal/generate"
	"github.com/deusflow/analystbot/internal/logger"
	"github.com/deusflow/analystbot/internal/media"
	"github.com/deusflow/analystbot/internal/metrics"
	"github.com/deusflow/analystbot/internal/news"
	"github.com/deusflow/analystbot/internal/post"
	"github.com/deusflow/analystbot/internal/publish"
)

// Process exit codes.
const (
	ExitOK               = 0
	ExitNothingPublished = 1
	ExitFeedFailed       = 2
	ExitPublishFailed    = 3
)

var (
	// ErrFeedFailed marks a feed query that failed or returned no entries.
	ErrFeedFailed = errors.New("feed query failed")
	// ErrNothingPublished marks a run that ended without a published post.
	ErrNothingPublished = errors.New("nothing published")
)

type FeedSource interface {
	FetchNext(ctx context.Context, keyword string) (*news.Item, error)
}

type Generator interface {
	Generate(ctx context.Context, item news.Item) generate.Article
}

type ImageResolver interface {
	Resolve(ctx context.Context, keyword, stamp string) media.Asset
}

type Publisher interface {
	Publish(ctx context.Context, doc post.Document) (publish.Result, error)
}

type Notifier interface {
	Published(ctx context.Context, title, location, model string)
	Failed(ctx context.Context, stage string, err error)
}

// Deps are the pipeline stages. Notifier may be nil.
type Deps struct {
	Feed      FeedSource
	Generator Generator
	Images    ImageResolver
	Assembler *post.Assembler
	Publisher Publisher
	Notifier  Notifier
}

// Summary describes what a run did.
type Summary struct {
	Target    config.Target
	Item      *news.Item
	Model     string
	Result    publish.Result
	Published int
}

type Pipeline struct {
	deps    Deps
	targets []config.Target
	loc     *time.Location
	dryRun  bool
	now     func() time.Time
	log     *slog.Logger
}

func New(deps Deps, targets []config.Target, loc *time.Location, dryRun bool, log *slog.Logger) *Pipeline {
	if len(targets) == 0 {
		targets = config.DefaultTargets()
	}
	if loc == nil {
		loc = time.UTC
	}
	if deps.Assembler == nil {
		deps.Assembler = post.NewAssembler(config.FolderMap(targets))
	}
	return &Pipeline{
		deps:    deps,
		targets: targets,
		loc:     loc,
		dryRun:  dryRun,
		now:     time.Now,
		log:     logger.OrDiscard(log),
	}
}

// Run processes at most one new item. It returns nil only when a post was
// published to the destination repository.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var sum Summary

	stage, err := p.run(ctx, &sum)
	metrics.RunDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Runs.WithLabelValues(outcome(err)).Inc()
		metrics.Global.SetError(err.Error())
		p.log.Error("run failed", "stage", stage, "error", err, "duration", time.Since(start))
		p.notifyFailed(ctx, stage, err)
		return sum, err
	}

	metrics.Runs.WithLabelValues("published").Inc()
	metrics.Global.SetLastRun(sum.Result.Path)
	p.log.Info("run finished", "published", sum.Published, "path", sum.Result.Path, "duration", time.Since(start))
	if p.deps.Notifier != nil {
		p.deps.Notifier.Published(ctx, sum.Item.Title, sum.Result.Path, sum.Model)
	}
	return sum, nil
}

func (p *Pipeline) run(ctx context.Context, sum *Summary) (string, error) {
	now := p.now().In(p.loc)
	target := config.SelectTarget(p.targets, now.Hour())
	sum.Target = target
	p.log.Info("selected target", "name", target.Name, "hour", now.Hour(), "keyword", target.Keyword, "category", target.Category)

	item, err := p.nextItem(ctx, target.Keyword)
	if err != nil {
		return "feed", fmt.Errorf("%w: %w", ErrFeedFailed, err)
	}
	if item == nil {
		p.log.Info("no new items for keyword", "keyword", target.Keyword)
		return "feed", fmt.Errorf("%w: every entry for %q was already processed", ErrNothingPublished, target.Keyword)
	}
	sum.Item = item
	p.log.Info("processing item", "title", item.Title, "link", item.Link, "published", item.PublishedAt)

	article := p.deps.Generator.Generate(ctx, *item)
	if article.IsSentinel() {
		p.log.Error("generation exhausted, not publishing", "title", item.Title)
		return "generate", fmt.Errorf("%w: no backend produced content for %s", ErrNothingPublished, item.Link)
	}
	sum.Model = article.Model

	asset := p.deps.Images.Resolve(ctx, target.Keyword, post.Stamp(now))

	doc, err := p.deps.Assembler.Assemble(article, asset, *item, target.Category, now)
	if err != nil {
		return "assemble", err
	}

	res, err := p.deps.Publisher.Publish(ctx, doc)
	sum.Result = res
	if err != nil {
		return "publish", err
	}
	if res.Status != publish.StatusPublished {
		return "publish", fmt.Errorf("%w: post saved locally at %s", ErrNothingPublished, res.LocalPath)
	}
	sum.Published = 1
	return "", nil
}

func (p *Pipeline) nextItem(ctx context.Context, keyword string) (*news.Item, error) {
	if p.dryRun {
		p.log.Info("dry run: using sample item instead of the feed")
		item := news.SampleItem(keyword)
		return &item, nil
	}
	return p.deps.Feed.FetchNext(ctx, keyword)
}

func (p *Pipeline) notifyFailed(ctx context.Context, stage string, err error) {
	if p.deps.Notifier == nil {
		return
	}
	// No alert when the feed simply had nothing new.
	if stage == "feed" && errors.Is(err, ErrNothingPublished) {
		return
	}
	p.deps.Notifier.Failed(ctx, stage, err)
}

// ExitCode maps a Run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrFeedFailed):
		return ExitFeedFailed
	case errors.Is(err, publish.ErrPublish):
		return ExitPublishFailed
	default:
		return ExitNothingPublished
	}
}

func outcome(err error) string {
	switch ExitCode(err) {
	case ExitFeedFailed:
		return "feed_failed"
	case ExitPublishFailed:
		return "publish_failed"
	default:
		return "nothing_published"
	}
}
