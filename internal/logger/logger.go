package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// New builds the process logger. Every record carries the run id so the
// lines of one scheduled run can be grepped together.
func New(debug bool, runID string) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	l := slog.New(slog.NewTextHandler(os.Stdout, opts))
	if runID != "" {
		l = l.With("run_id", runID)
	}
	return l
}

// NewRunID returns a short random id for one pipeline run.
func NewRunID() string {
	return uuid.NewString()[:8]
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
