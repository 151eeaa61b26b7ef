// Package generate turns one feed entry into article text by trying an
// ordered list of generation backends until one answers.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/deusflow/analystbot/internal/logger"
	"github.com/deusflow/analystbot/internal/metrics"
	"github.com/deusflow/analystbot/internal/news"
	"github.com/deusflow/analystbot/internal/ratelimit"
)

// SentinelPrefix starts the text returned when no backend produced content.
// Anything carrying it must never be published.
const SentinelPrefix = "[generation unavailable]"

// DryRunModel tags articles produced in dry-run mode.
const DryRunModel = "dry-run"

// Backend is one generative model.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Article is the raw generated text. Model is empty when every backend failed.
type Article struct {
	Text  string
	Model string
	Item  news.Item
}

// IsSentinel reports whether the article is the failure placeholder.
func (a Article) IsSentinel() bool {
	return IsSentinel(a.Text)
}

// IsSentinel reports whether text is the failure placeholder.
func IsSentinel(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), SentinelPrefix)
}

// SentinelText builds the failure placeholder for an entry link.
func SentinelText(link string) string {
	return fmt.Sprintf("%s No generation backend produced a briefing. Original: %s", SentinelPrefix, link)
}

type Options struct {
	Language string
	Timeout  time.Duration // per backend attempt
	DryRun   bool
	Budget   *ratelimit.Budget
}

type Engine struct {
	backends []Backend
	opts     Options
	log      *slog.Logger
}

// New creates an engine trying backends in the given order.
func New(backends []Backend, opts Options, log *slog.Logger) *Engine {
	if opts.Language == "" {
		opts.Language = "Korean"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}
	return &Engine{backends: backends, opts: opts, log: logger.OrDiscard(log)}
}

// Backends returns the backend names in fallback order.
func (e *Engine) Backends() []string {
	names := make([]string, 0, len(e.backends))
	for _, b := range e.backends {
		names = append(names, b.Name())
	}
	return names
}

// Generate returns the first backend answer, or the sentinel article when
// none is configured or all of them fail. It never returns an error.
func (e *Engine) Generate(ctx context.Context, item news.Item) Article {
	if e.opts.DryRun {
		e.log.Info("dry run: skipping generation backends")
		return Article{Text: dryRunArticle, Model: DryRunModel, Item: item}
	}

	if len(e.backends) == 0 {
		e.log.Warn("no generation backend configured")
		metrics.SentinelArticles.Inc()
		return Article{Text: SentinelText(item.Link), Item: item}
	}

	prompt := BuildPrompt(item, e.opts.Language)
	for _, backend := range e.backends {
		if err := ctx.Err(); err != nil {
			e.log.Warn("generation cancelled", "error", err)
			break
		}
		if e.opts.Budget != nil {
			if err := e.opts.Budget.Use(backend.Name()); err != nil {
				e.log.Warn("skipping backend", "backend", backend.Name(), "error", err)
				metrics.GenerationAttempts.WithLabelValues(backend.Name(), "skipped").Inc()
				continue
			}
		}

		e.log.Info("trying generation backend", "backend", backend.Name())
		text, err := e.attempt(ctx, backend, prompt)
		if err != nil {
			e.log.Warn("generation backend failed, trying next", "backend", backend.Name(), "error", err)
			metrics.GenerationAttempts.WithLabelValues(backend.Name(), "error").Inc()
			continue
		}

		metrics.GenerationAttempts.WithLabelValues(backend.Name(), "ok").Inc()
		return Article{Text: text, Model: backend.Name(), Item: item}
	}

	e.log.Error("all generation backends failed", "backends", e.Backends())
	metrics.SentinelArticles.Inc()
	return Article{Text: SentinelText(item.Link), Item: item}
}

func (e *Engine) attempt(ctx context.Context, backend Backend, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	text, err := backend.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = Sanitize(text)
	if text == "" {
		return "", fmt.Errorf("empty response")
	}
	// A backend echoing the placeholder is not content.
	if IsSentinel(text) {
		return "", fmt.Errorf("backend returned the failure placeholder")
	}
	return text, nil
}
