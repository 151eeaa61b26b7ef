package ratelimit

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/deusflow/analystbot/internal/logger"
)

// Budget caps how many generation backend calls one run may make.
type Budget struct {
	mu     sync.Mutex
	max    int // 0 = unlimited
	total  int
	counts map[string]int
	log    *slog.Logger
}

// NewBudget creates a budget allowing max calls in total.
func NewBudget(max int, log *slog.Logger) *Budget {
	return &Budget{
		max:    max,
		counts: make(map[string]int),
		log:    logger.OrDiscard(log),
	}
}

// Use records one call to backend, or returns an error when the budget is spent.
func (b *Budget) Use(backend string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.total >= b.max {
		return fmt.Errorf("generation budget exhausted (%d/%d)", b.total, b.max)
	}

	b.total++
	b.counts[backend]++
	b.log.Debug("generation budget used", "backend", backend, "used", b.total, "limit", b.max)
	return nil
}

// Remaining returns calls left, or -1 when unlimited.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max <= 0 {
		return -1
	}
	return b.max - b.total
}

// Stats returns per-backend call counts.
func (b *Budget) Stats() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.counts)
}
