// Package config loads run configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var defaultModels = []string{"gemini-2.0-flash-exp", "gemini-exp-1206", "gemini-2.5-flash"}

type Config struct {
	// Pipeline mode
	DryRun bool

	// Generation settings
	LLMAPIKey             string
	LLMModels             []string
	OpenAIAPIKey          string
	OpenAIModel           string
	MaxGenerationRequests int // backend calls per run (0 = one per configured backend)
	GenerationTimeout     time.Duration
	TargetLanguage        string

	// Image settings
	PexelsAPIKey  string
	ImageCacheTTL time.Duration

	// Publish settings
	GitHubToken  string
	GitHubRepo   string // owner/name
	GitHubBranch string
	ContentRoot  string
	OutputDir    string

	// Feed settings
	SeenFilePath string
	TargetsPath  string
	FeedLanguage string
	FeedCountry  string
	Timezone     string

	// Alerts
	TelegramToken  string
	TelegramChatID int64

	// Serve mode
	Schedule       string
	MonitoringPort string

	// App settings
	Debug       bool
	HTTPTimeout time.Duration
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		LLMModels:             defaultModels,
		OpenAIModel:           "gpt-4o-mini",
		MaxGenerationRequests: 0,
		GenerationTimeout:     90 * time.Second,
		TargetLanguage:        "Korean",
		ImageCacheTTL:         6 * time.Hour,
		GitHubBranch:          "main",
		ContentRoot:           "content/posts",
		OutputDir:             ".",
		SeenFilePath:          "processed_news.json",
		TargetsPath:           "configs/targets.yaml",
		FeedLanguage:          "en-US",
		FeedCountry:           "US",
		Timezone:              "Asia/Seoul",
		Schedule:              "50 7,18 * * *",
		MonitoringPort:        "8080",
		HTTPTimeout:           10 * time.Second,
	}

	cfg.DryRun = getEnvBool("DRY_RUN")
	cfg.Debug = getEnvBool("DEBUG")

	cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if models := splitList(os.Getenv("LLM_MODELS")); len(models) > 0 {
		cfg.LLMModels = models
	}
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = getEnvOrDefault("OPENAI_MODEL", cfg.OpenAIModel)
	if v := os.Getenv("MAX_GENERATION_REQUESTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.MaxGenerationRequests = val
		}
	}
	cfg.GenerationTimeout = getEnvDurationOrDefault("GENERATION_TIMEOUT", cfg.GenerationTimeout)
	cfg.TargetLanguage = getEnvOrDefault("TARGET_LANGUAGE", cfg.TargetLanguage)

	cfg.PexelsAPIKey = os.Getenv("PEXELS_API_KEY")
	cfg.ImageCacheTTL = getEnvDurationOrDefault("IMAGE_CACHE_TTL", cfg.ImageCacheTTL)

	cfg.GitHubToken = os.Getenv("GH_PAT")
	cfg.GitHubRepo = os.Getenv("GH_REPO")
	cfg.GitHubBranch = getEnvOrDefault("GH_BRANCH", cfg.GitHubBranch)
	cfg.ContentRoot = getEnvOrDefault("CONTENT_ROOT", cfg.ContentRoot)
	cfg.OutputDir = getEnvOrDefault("OUTPUT_DIR", cfg.OutputDir)

	cfg.SeenFilePath = getEnvOrDefault("SEEN_FILE", cfg.SeenFilePath)
	cfg.TargetsPath = getEnvOrDefault("TARGETS_FILE", cfg.TargetsPath)
	cfg.FeedLanguage = getEnvOrDefault("FEED_LANGUAGE", cfg.FeedLanguage)
	cfg.FeedCountry = getEnvOrDefault("FEED_COUNTRY", cfg.FeedCountry)
	cfg.Timezone = getEnvOrDefault("TIMEZONE", cfg.Timezone)

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID must be numeric: %w", err)
		}
		cfg.TelegramChatID = id
	}

	cfg.Schedule = getEnvOrDefault("SCHEDULE", cfg.Schedule)
	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", cfg.MonitoringPort)
	cfg.HTTPTimeout = getEnvDurationOrDefault("HTTP_TIMEOUT", cfg.HTTPTimeout)

	return cfg, cfg.Validate()
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// RemoteConfigured reports whether publishing can reach the site repository.
func (c *Config) RemoteConfigured() bool {
	return c.GitHubToken != "" && c.GitHubRepo != ""
}

// TelegramConfigured reports whether run alerts are enabled.
func (c *Config) TelegramConfigured() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Validate checks option shapes. Missing credentials are allowed: every
// component degrades on its own.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Timezone, err)
	}
	if c.GitHubRepo != "" {
		owner, name, ok := strings.Cut(c.GitHubRepo, "/")
		if !ok || owner == "" || name == "" {
			return fmt.Errorf("GH_REPO must look like owner/name, got %q", c.GitHubRepo)
		}
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
