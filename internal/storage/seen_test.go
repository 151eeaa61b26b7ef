package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SeenStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "processed_news.json")
	return NewSeenStore(path, DefaultSeenLimit, nil), path
}

func readFile(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var items []string
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func TestSeenStore_IsSeenIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	s.Load()

	assert.False(t, s.IsSeen("https://example.com/a"))
	assert.False(t, s.IsSeen("https://example.com/a"))

	require.NoError(t, s.MarkSeen("https://example.com/a"))
	assert.True(t, s.IsSeen("https://example.com/a"))
	assert.True(t, s.IsSeen("https://example.com/a"))
}

func TestSeenStore_MarkTwiceDoesNotGrow(t *testing.T) {
	s, path := newTestStore(t)
	s.Load()

	require.NoError(t, s.MarkSeen("x1"))
	require.NoError(t, s.MarkSeen("x2"))
	if !s.IsSeen("x1") {
		require.NoError(t, s.MarkSeen("x1"))
	}
	require.NoError(t, s.MarkSeen("x1"))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"x1", "x2"}, s.Items())
	assert.Equal(t, []string{"x1", "x2"}, readFile(t, path))
}

func TestSeenStore_BoundedKeepsMostRecent(t *testing.T) {
	s, path := newTestStore(t)
	s.Load()

	for i := 0; i < 130; i++ {
		require.NoError(t, s.MarkSeen(fmt.Sprintf("id-%03d", i)))
	}

	require.Equal(t, DefaultSeenLimit, s.Len())
	items := s.Items()
	assert.Equal(t, "id-030", items[0])
	assert.Equal(t, "id-129", items[len(items)-1])
	for i, id := range items {
		assert.Equal(t, fmt.Sprintf("id-%03d", i+30), id)
	}
	assert.False(t, s.IsSeen("id-029"))
	assert.True(t, s.IsSeen("id-030"))

	assert.Len(t, readFile(t, path), DefaultSeenLimit)
}

func TestSeenStore_SavedAfterEveryMark(t *testing.T) {
	s, path := newTestStore(t)
	s.Load()

	require.NoError(t, s.MarkSeen("first"))
	assert.Equal(t, []string{"first"}, readFile(t, path))

	require.NoError(t, s.MarkSeen("second"))
	assert.Equal(t, []string{"first", "second"}, readFile(t, path))
}

func TestSeenStore_LoadRoundTrip(t *testing.T) {
	s, path := newTestStore(t)
	s.Load()
	require.NoError(t, s.MarkSeen("a"))
	require.NoError(t, s.MarkSeen("b"))

	reloaded := NewSeenStore(path, DefaultSeenLimit, nil)
	reloaded.Load()
	assert.Equal(t, []string{"a", "b"}, reloaded.Items())
	assert.True(t, reloaded.IsSeen("b"))
}

func TestSeenStore_LoadMissingFileIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	s.Load()
	assert.Equal(t, 0, s.Len())
}

func TestSeenStore_LoadCorruptFileIsEmpty(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s.Load()
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.MarkSeen("fresh"))
	assert.Equal(t, []string{"fresh"}, readFile(t, path))
}

func TestSeenStore_LoadTruncatesOversizedFile(t *testing.T) {
	s, path := newTestStore(t)
	var items []string
	for i := 0; i < 150; i++ {
		items = append(items, fmt.Sprintf("old-%d", i))
	}
	items = append(items, "old-149")
	data, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s.Load()
	assert.Equal(t, DefaultSeenLimit, s.Len())
	assert.Equal(t, "old-50", s.Items()[0])
	assert.False(t, s.IsSeen("old-49"))
}

func TestSeenStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "nested", "seen.json")
	s := NewSeenStore(path, 0, nil)
	s.Load()

	require.NoError(t, s.MarkSeen("x"))
	assert.Equal(t, []string{"x"}, readFile(t, path))
}
