package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deusflow/analystbot/internal/app"
	"github.com/deusflow/analystbot/internal/cache"
	"github.com/deusflow/analystbot/internal/config"
	"github.com/deusflow/analystbot/internal/gemini"
	"github.com/deusflow/analystbot/internal/generate"
	"github.com/deusflow/analystbot/internal/media"
	"github.com/deusflow/analystbot/internal/post"
	"github.com/deusflow/analystbot/internal/publish"
	"github.com/deusflow/analystbot/internal/ratelimit"
	"github.com/deusflow/analystbot/internal/rss"
	"github.com/deusflow/analystbot/internal/storage"
	"github.com/deusflow/analystbot/internal/telegram"
)

func buildPipeline(ctx context.Context, cfg *config.Config, imageCache *cache.Cache, log *slog.Logger) (*app.Pipeline, func(), error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	targets, err := config.LoadTargets(cfg.TargetsPath)
	if err != nil {
		return nil, nil, err
	}

	seen := storage.NewSeenStore(cfg.SeenFilePath, storage.DefaultSeenLimit, log)
	seen.Load()

	feed := rss.NewSource(seen, rss.Options{
		Language: cfg.FeedLanguage,
		Country:  cfg.FeedCountry,
		Timeout:  cfg.HTTPTimeout,
	}, log)

	backends, closeFn := buildBackends(ctx, cfg, log)
	engine := generate.New(backends, generate.Options{
		Language: cfg.TargetLanguage,
		Timeout:  cfg.GenerationTimeout,
		DryRun:   cfg.DryRun,
		Budget:   ratelimit.NewBudget(generationBudget(cfg.MaxGenerationRequests, len(backends)), log),
	}, log)

	var searcher media.Searcher
	if cfg.PexelsAPIKey != "" {
		searcher = media.NewPexelsClient(cfg.PexelsAPIKey, cfg.HTTPTimeout, log)
	} else {
		log.Info("PEXELS_API_KEY not set, using placeholder images")
	}
	images := media.NewResolver(searcher, imageCache, cfg.ImageCacheTTL, log)

	var repo publish.RepoClient
	if cfg.RemoteConfigured() {
		gh, err := publish.NewGitHubRepo(cfg.GitHubToken, cfg.GitHubRepo, cfg.GitHubBranch, cfg.HTTPTimeout)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		repo = gh
	} else {
		log.Warn("GH_PAT or GH_REPO not set, posts will only be saved locally")
	}

	deps := app.Deps{
		Feed:      feed,
		Generator: engine,
		Images:    images,
		Assembler: post.NewAssembler(config.FolderMap(targets)),
		Publisher: publish.New(repo, cfg.ContentRoot, cfg.OutputDir, log),
		Notifier:  buildNotifier(cfg, log),
	}
	return app.New(deps, targets, loc, cfg.DryRun, log), closeFn, nil
}

// buildBackends returns the configured models in fallback order: every
// LLM_MODELS entry, then OpenAI when a key is set.
// generationBudget returns the per-run call budget. Without an explicit
// limit every configured backend gets one attempt.
func generationBudget(configured, backends int) int {
	if configured > 0 {
		return configured
	}
	return backends
}

func buildBackends(ctx context.Context, cfg *config.Config, log *slog.Logger) ([]generate.Backend, func()) {
	var backends []generate.Backend
	closeFn := func() {}

	if cfg.LLMAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.LLMAPIKey)
		if err != nil {
			log.Error("gemini client unavailable", "error", err)
		} else {
			closeFn = client.Close
			for _, name := range cfg.LLMModels {
				backends = append(backends, client.Model(name))
			}
		}
	}
	if cfg.OpenAIAPIKey != "" {
		backends = append(backends, generate.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel))
	}
	if len(backends) == 0 && !cfg.DryRun {
		log.Warn("no generation credentials configured")
	}
	return backends, closeFn
}

func buildNotifier(cfg *config.Config, log *slog.Logger) app.Notifier {
	if !cfg.TelegramConfigured() {
		return nil
	}
	sender, err := telegram.NewBotSender(cfg.TelegramToken)
	if err != nil {
		log.Warn("telegram alerts disabled", "error", fmt.Errorf("connect: %w", err))
		return nil
	}
	return telegram.NewNotifier(sender, cfg.TelegramChatID, log)
}
