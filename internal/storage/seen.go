package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/deusflow/analystbot/internal/logger"
)

// DefaultSeenLimit is how many processed identifiers are remembered.
const DefaultSeenLimit = 100

// SeenStore is a bounded, insertion-ordered list of feed item identifiers
// that were already processed, persisted as a JSON array.
// Not safe for concurrent use; one run owns it.
type SeenStore struct {
	filePath string
	limit    int
	items    []string
	index    map[string]struct{}
	log      *slog.Logger
}

// NewSeenStore creates an empty store backed by filePath. Call Load to read
// previous runs.
func NewSeenStore(filePath string, limit int, log *slog.Logger) *SeenStore {
	if limit <= 0 {
		limit = DefaultSeenLimit
	}
	return &SeenStore{
		filePath: filePath,
		limit:    limit,
		index:    make(map[string]struct{}),
		log:      logger.OrDiscard(log),
	}
}

// Load replaces the in-memory list with the file contents. A missing or
// unreadable file leaves the store empty; it never fails the run.
func (s *SeenStore) Load() {
	s.reset(nil)

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		s.log.Warn("seen store unreadable, starting empty", "path", s.filePath, "error", err)
		return
	}
	if len(data) == 0 {
		return
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn("seen store corrupt, starting empty", "path", s.filePath, "error", err)
		return
	}

	s.reset(items)
	s.log.Debug("seen store loaded", "path", s.filePath, "items", len(s.items))
}

// IsSeen reports whether id was already processed.
func (s *SeenStore) IsSeen(id string) bool {
	_, ok := s.index[id]
	return ok
}

// MarkSeen appends id, drops the oldest entries beyond the limit and saves
// immediately so a crash later in the run keeps the dedup state. Marking a
// known id is a no-op.
func (s *SeenStore) MarkSeen(id string) error {
	if s.IsSeen(id) {
		return nil
	}
	s.items = append(s.items, id)
	s.index[id] = struct{}{}
	s.truncate()
	return s.Save()
}

// Save writes the current list to disk.
func (s *SeenStore) Save() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seen store: %w", err)
	}

	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create seen store dir: %w", err)
		}
	}

	// Readers see either the old or the new file.
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write seen store: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("failed to replace seen store: %w", err)
	}
	return nil
}

// Len returns the number of remembered identifiers.
func (s *SeenStore) Len() int {
	return len(s.items)
}

// Items returns the identifiers oldest first.
func (s *SeenStore) Items() []string {
	return slices.Clone(s.items)
}

func (s *SeenStore) reset(items []string) {
	s.items = s.items[:0]
	clear(s.index)
	for _, id := range items {
		if id == "" || s.IsSeen(id) {
			continue
		}
		s.items = append(s.items, id)
		s.index[id] = struct{}{}
	}
	s.truncate()
}

func (s *SeenStore) truncate() {
	if len(s.items) <= s.limit {
		return
	}
	drop := len(s.items) - s.limit
	for _, id := range s.items[:drop] {
		delete(s.index, id)
	}
	s.items = slices.Clone(s.items[drop:])
}
