// Package publish commits rendered posts to the site repository.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/deusflow/analystbot/internal/logger"
	"github.com/deusflow/analystbot/internal/metrics"
	"github.com/deusflow/analystbot/internal/post"
)

const (
	StatusPublished = "published"
	StatusLocalOnly = "local-only"
	StatusFailed    = "failed"

	commitPrefix = "Analyst Bot: "
	localPrefix  = "local_"
	failedPrefix = "failed_push_"
)

// ErrPublish wraps every remote create failure.
var ErrPublish = errors.New("publish failed")

// RepoClient creates a new file in the site repository.
type RepoClient interface {
	CreateFile(ctx context.Context, path, message string, content []byte) error
}

// Result describes where a document ended up.
type Result struct {
	Status    string
	Path      string // remote path, empty for local-only
	LocalPath string // local copy, when one was written
}

type Publisher struct {
	repo        RepoClient
	contentRoot string
	outputDir   string
	log         *slog.Logger
}

// New creates a publisher. repo may be nil, in which case documents are only
// saved under outputDir.
func New(repo RepoClient, contentRoot, outputDir string, log *slog.Logger) *Publisher {
	if outputDir == "" {
		outputDir = "."
	}
	return &Publisher{
		repo:        repo,
		contentRoot: contentRoot,
		outputDir:   outputDir,
		log:         logger.OrDiscard(log),
	}
}

// Remote reports whether a destination repository is configured.
func (p *Publisher) Remote() bool {
	return p.repo != nil
}

// Publish creates doc at {contentRoot}/{folder}/{filename}. Without a remote
// the document is written locally and the result is StatusLocalOnly. When the
// remote rejects the file a failed_push_ copy is kept and an error wrapping
// ErrPublish is returned.
func (p *Publisher) Publish(ctx context.Context, doc post.Document) (Result, error) {
	if p.repo == nil {
		local, err := p.saveLocal(localPrefix, doc)
		if err != nil {
			metrics.Publishes.WithLabelValues(StatusFailed).Inc()
			return Result{Status: StatusFailed}, fmt.Errorf("save local copy: %w", err)
		}
		metrics.Publishes.WithLabelValues(StatusLocalOnly).Inc()
		p.log.Info("no destination configured, saved locally", "file", local)
		return Result{Status: StatusLocalOnly, LocalPath: local}, nil
	}

	target := doc.Path(p.contentRoot)
	if err := p.repo.CreateFile(ctx, target, CommitMessage(doc), []byte(doc.Content)); err != nil {
		metrics.Publishes.WithLabelValues(StatusFailed).Inc()
		res := Result{Status: StatusFailed, Path: target}

		local, saveErr := p.saveLocal(failedPrefix, doc)
		if saveErr != nil {
			p.log.Error("failed to keep copy of unpublished post", "error", saveErr)
		} else {
			res.LocalPath = local
			p.log.Warn("publish failed, kept local copy", "file", local)
		}
		return res, fmt.Errorf("%w: %s: %w", ErrPublish, target, err)
	}

	metrics.Publishes.WithLabelValues(StatusPublished).Inc()
	p.log.Info("post published", "path", target, "title", doc.Title)
	return Result{Status: StatusPublished, Path: target}, nil
}

// CommitMessage names the commit after the source headline.
func CommitMessage(doc post.Document) string {
	title := doc.SourceTitle
	if title == "" {
		title = doc.Title
	}
	return commitPrefix + title
}

func (p *Publisher) saveLocal(prefix string, doc post.Document) (string, error) {
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return "", err
	}
	name := prefix + strings.ReplaceAll(doc.Filename, "/", "_")
	full := filepath.Join(p.outputDir, name)
	if err := os.WriteFile(full, []byte(doc.Content), 0o644); err != nil {
		return "", err
	}
	return full, nil
}
