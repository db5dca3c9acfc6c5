package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wp-autopilot/internal/ai"
	"wp-autopilot/internal/classify"
	"wp-autopilot/internal/config"
	"wp-autopilot/internal/dedup"
	"wp-autopilot/internal/images"
	"wp-autopilot/internal/notify"
	"wp-autopilot/internal/pipeline"
	"wp-autopilot/internal/redisclient"
	"wp-autopilot/internal/resolver"
	"wp-autopilot/internal/rotation"
	"wp-autopilot/internal/state"
	"wp-autopilot/internal/trends"
	"wp-autopilot/internal/websearch"
	"wp-autopilot/internal/wordpress"
	"wp-autopilot/internal/youtube"
)

func newWordPress(cfg config.Config) (*wordpress.Client, error) {
	if strings.TrimSpace(cfg.WordPress.BaseURL) == "" {
		return nil, errors.New("wordpress.base_url is required")
	}
	timeout, err := time.ParseDuration(cfg.WordPress.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid wordpress.timeout: %w", err)
	}
	return wordpress.New(cfg.WordPress.BaseURL, cfg.WordPress.Token, timeout), nil
}

// newResolver assembles the tiered video source chain: structured API
// when a key is configured, the public feed, then web search when
// search credentials exist.
func newResolver(cfg config.Config) (*resolver.Resolver, error) {
	recency, err := time.ParseDuration(cfg.Pipeline.RecencyWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline.recency_window: %w", err)
	}
	api := youtube.NewAPIClient(cfg.YouTube.APIBaseURL, cfg.YouTube.APIKey, cfg.YouTube.MaxResults)
	feed := youtube.NewFeedClient(cfg.YouTube.FeedBaseURL)
	search := youtube.NewSearchClient(newWebSearch(cfg))
	return resolver.New(recency,
		resolver.NewProvider(resolver.TierAPI, api.Available, api.RecentVideos),
		resolver.NewProvider(resolver.TierFeed, func() bool { return true }, feed.RecentVideos),
		resolver.NewProvider(resolver.TierSearch, search.Available, search.RecentVideos),
	), nil
}

func newWebSearch(cfg config.Config) *websearch.Client {
	return websearch.New(cfg.WebSearch.BaseURL, cfg.WebSearch.APIKey, cfg.WebSearch.EngineID, 15*time.Second)
}

func newClassifier(cfg config.Config) (*classify.Classifier, error) {
	tables, err := classify.Default()
	if cfg.Classifier.TablesFile != "" {
		tables, err = classify.Load(cfg.Classifier.TablesFile)
	}
	if err != nil {
		return nil, err
	}
	return classify.New(tables)
}

// newWriter picks the configured article writer. A missing key is not
// fatal: the pipeline falls back to templated articles.
func newWriter(ctx context.Context, cfg config.Config) (ai.Writer, func(), error) {
	noop := func() {}
	switch strings.ToLower(cfg.AI.Provider) {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			slog.Warn("gemini.api_key not set, articles use the fallback template")
			return nil, noop, nil
		}
		g, err := ai.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, noop, err
		}
		return g, g.Close, nil
	default:
		if cfg.OpenAI.APIKey == "" {
			slog.Warn("openai.api_key not set, articles use the fallback template")
			return nil, noop, nil
		}
		return ai.NewOpenAI(ai.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		}), noop, nil
	}
}

// newStore selects the state backend. The CMS backend needs the
// rotation tag's term ID to query recent automated posts; the tag is
// created on first use.
func newStore(ctx context.Context, cfg config.Config, wp *wordpress.Client) (state.Store, func(), error) {
	noop := func() {}
	if strings.ToLower(cfg.State.Backend) == "redis" {
		rdb := redisclient.New(cfg.Redis)
		return state.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	}
	known := make([]string, 0, len(cfg.Sources.Channels))
	for _, s := range cfg.Sources.Channels {
		known = append(known, s.Name)
	}
	tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	tagID, err := wp.GetOrCreateTag(tctx, cfg.WordPress.RotationTag)
	if err != nil {
		return nil, noop, fmt.Errorf("resolve rotation tag %q: %w", cfg.WordPress.RotationTag, err)
	}
	return &state.CMSStore{CMS: wp, RotationTagID: tagID, KnownSources: known}, noop, nil
}

// buildOrchestrator wires the full pipeline from configuration. The
// returned cleanup releases writer and store resources.
func buildOrchestrator(ctx context.Context, cfg config.Config) (*pipeline.Orchestrator, func(), error) {
	noop := func() {}
	wp, err := newWordPress(cfg)
	if err != nil {
		return nil, noop, err
	}
	res, err := newResolver(cfg)
	if err != nil {
		return nil, noop, err
	}
	classifier, err := newClassifier(cfg)
	if err != nil {
		return nil, noop, err
	}
	writer, closeWriter, err := newWriter(ctx, cfg)
	if err != nil {
		return nil, noop, err
	}
	store, closeStore, err := newStore(ctx, cfg, wp)
	if err != nil {
		closeWriter()
		return nil, noop, err
	}
	cleanup := func() {
		closeStore()
		closeWriter()
	}

	var fetcher *images.Fetcher
	if ws := newWebSearch(cfg); ws.Available() {
		fetcher = images.NewFetcher(ws, ws, cfg.Pipeline.WebPQuality)
	} else {
		slog.Info("websearch credentials not set, posts go out without images")
	}

	return &pipeline.Orchestrator{
		CMS:             wp,
		Resolver:        res,
		Trends:          trends.New(cfg.Trends.FeedURL),
		Dedup:           &dedup.Checker{CMS: wp},
		Rotation:        &rotation.Selector{Store: store},
		Classifier:      classifier,
		Writer:          writer,
		Images:          fetcher,
		Notifier:        notify.New(cfg.Notify.SitemapURL, cfg.Notify.WebhookURL),
		Store:           store,
		Sources:         cfg.Sources.Channels,
		Language:        cfg.AI.Language,
		Status:          cfg.WordPress.Status,
		RotationTag:     cfg.WordPress.RotationTag,
		CategoryIDs:     cfg.WordPress.Categories,
		DefaultCategory: cfg.WordPress.DefaultCategory,
		JitterMax:       time.Duration(cfg.Pipeline.JitterMaxMS) * time.Millisecond,
	}, cleanup, nil
}
