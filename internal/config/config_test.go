package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_MODELS", "")
	t.Setenv("GH_REPO", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-2.0-flash-exp", "gemini-exp-1206", "gemini-2.5-flash"}, cfg.LLMModels)
	assert.Equal(t, 0, cfg.MaxGenerationRequests)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.RemoteConfigured())
	assert.False(t, cfg.TelegramConfigured())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DRY_RUN", "TRUE")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("LLM_MODELS", " a , b ,,c ")
	t.Setenv("MAX_GENERATION_REQUESTS", "0")
	t.Setenv("GENERATION_TIMEOUT", "2m")
	t.Setenv("GH_PAT", "token")
	t.Setenv("GH_REPO", "owner/site")
	t.Setenv("TELEGRAM_TOKEN", "tg")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.DryRun)
	assert.Equal(t, "gem-key", cfg.LLMAPIKey)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.LLMModels)
	assert.Equal(t, 0, cfg.MaxGenerationRequests)
	assert.Equal(t, 2*time.Minute, cfg.GenerationTimeout)
	assert.True(t, cfg.RemoteConfigured())
	assert.True(t, cfg.TelegramConfigured())
	assert.Equal(t, int64(-100123), cfg.TelegramChatID)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{Timezone: "UTC", GenerationTimeout: time.Second, HTTPTimeout: time.Second}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Timezone = "Mars/Olympus"
	assert.Error(t, c.Validate())

	c = base()
	c.GitHubRepo = "no-slash"
	assert.Error(t, c.Validate())

	c = base()
	c.GitHubRepo = "/name"
	assert.Error(t, c.Validate())
}

func TestLoadTargetsMissingFileUsesDefaults(t *testing.T) {
	targets, err := LoadTargets(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTargets(), targets)
}

func TestLoadTargetsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`targets:
  - name: all-day
    until_hour: 24
    keyword: Semiconductors
    category: Chips
`), 0o644))

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "Semiconductors", targets[0].Keyword)
	assert.Empty(t, FolderMap(targets))
}

func TestLoadTargetsRejectsIncompleteEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets:\n  - name: x\n    until_hour: 5\n"), 0o644))

	_, err := LoadTargets(path)
	assert.Error(t, err)
}

func TestSelectTarget(t *testing.T) {
	targets := DefaultTargets()

	assert.Equal(t, "Money", SelectTarget(targets, 7).Category)
	assert.Equal(t, "Money", SelectTarget(targets, 13).Category)
	assert.Equal(t, "Tools", SelectTarget(targets, 14).Category)
	assert.Equal(t, "Tools", SelectTarget(targets, 18).Category)

	short := []Target{{UntilHour: 10, Category: "A"}, {UntilHour: 12, Category: "B"}}
	assert.Equal(t, "B", SelectTarget(short, 23).Category)
}

func TestFolderMap(t *testing.T) {
	assert.Equal(t, map[string]string{"Money": "money", "Tools": "tools"}, FolderMap(DefaultTargets()))
}
