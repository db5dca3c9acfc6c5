package config

import "wp-autopilot/internal/model"

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// WordPressConfig holds the CMS REST collaborator settings.
type WordPressConfig struct {
	BaseURL         string         `mapstructure:"base_url"` // e.g. https://blog.example.com/wp-json/wp/v2
	Token           string         `mapstructure:"token"`    // static bearer credential
	Timeout         string         `mapstructure:"timeout"`  // duration string
	Status          string         `mapstructure:"status"`   // publish | draft
	RotationTag     string         `mapstructure:"rotation_tag"`
	DefaultCategory int            `mapstructure:"default_category"`
	Categories      map[string]int `mapstructure:"categories"` // classifier category id -> WP category id
}

// YouTubeConfig controls the structured API and feed tiers.
type YouTubeConfig struct {
	APIKey      string `mapstructure:"api_key"`
	APIBaseURL  string `mapstructure:"api_base_url"`
	FeedBaseURL string `mapstructure:"feed_base_url"`
	MaxResults  int    `mapstructure:"max_results"`
}

// WebSearchConfig controls the generic web-search fallback tier and
// image search.
type WebSearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"engine_id"`
	BaseURL  string `mapstructure:"base_url"`
}

// TrendsConfig controls the trending-topics feed source.
type TrendsConfig struct {
	FeedURL string `mapstructure:"feed_url"`
	Geo     string `mapstructure:"geo"`
}

// OpenAIConfig holds OpenAI credentials for article generation.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// GeminiConfig holds Gemini credentials for article generation.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AIConfig selects and tunes the article writer.
type AIConfig struct {
	Provider string `mapstructure:"provider"` // openai | gemini
	Language string `mapstructure:"language"`
}

// ClassifierConfig points at an optional keyword-table override file.
type ClassifierConfig struct {
	TablesFile string `mapstructure:"tables_file"`
}

// PipelineConfig tunes the publication orchestrator.
type PipelineConfig struct {
	RecencyWindow  string `mapstructure:"recency_window"` // e.g. "168h"
	JitterMaxMS    int    `mapstructure:"jitter_max_ms"`
	VideoInterval  string `mapstructure:"video_interval"`  // serve mode
	TrendsInterval string `mapstructure:"trends_interval"` // serve mode
	WebPQuality    int    `mapstructure:"webp_quality"`
}

// NotifyConfig controls post-publish side effects.
type NotifyConfig struct {
	SitemapURL string `mapstructure:"sitemap_url"`
	WebhookURL string `mapstructure:"webhook_url"`
}

// StateConfig selects the state-store backend. The default "cms" backend
// keeps no store of its own and re-derives state from published posts;
// "redis" adds a non-authoritative cache on top.
type StateConfig struct {
	Backend string `mapstructure:"backend"` // cms | redis
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SourcesConfig lists the content sources polled in rotation.
type SourcesConfig struct {
	Channels []model.Source `mapstructure:"channels"`
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	WordPress  WordPressConfig  `mapstructure:"wordpress"`
	YouTube    YouTubeConfig    `mapstructure:"youtube"`
	WebSearch  WebSearchConfig  `mapstructure:"websearch"`
	Trends     TrendsConfig     `mapstructure:"trends"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	AI         AIConfig         `mapstructure:"ai"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	State      StateConfig      `mapstructure:"state"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Sources    SourcesConfig    `mapstructure:"sources"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.WordPress.Timeout == "" {
		c.WordPress.Timeout = "20s"
	}
	if c.WordPress.Status == "" {
		c.WordPress.Status = "publish"
	}
	if c.WordPress.RotationTag == "" {
		c.WordPress.RotationTag = "autopilot"
	}
	if c.YouTube.APIBaseURL == "" {
		c.YouTube.APIBaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if c.YouTube.FeedBaseURL == "" {
		c.YouTube.FeedBaseURL = "https://www.youtube.com/feeds/videos.xml"
	}
	if c.YouTube.MaxResults == 0 {
		c.YouTube.MaxResults = 10
	}
	if c.WebSearch.BaseURL == "" {
		c.WebSearch.BaseURL = "https://www.googleapis.com/customsearch/v1"
	}
	if c.Trends.Geo == "" {
		c.Trends.Geo = "US"
	}
	if c.Trends.FeedURL == "" {
		c.Trends.FeedURL = "https://trends.google.com/trending/rss?geo=" + c.Trends.Geo
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "openai"
	}
	if c.AI.Language == "" {
		c.AI.Language = "English"
	}
	if c.Pipeline.RecencyWindow == "" {
		c.Pipeline.RecencyWindow = "168h"
	}
	if c.Pipeline.JitterMaxMS == 0 {
		c.Pipeline.JitterMaxMS = 1500
	}
	if c.Pipeline.VideoInterval == "" {
		c.Pipeline.VideoInterval = "6h"
	}
	if c.Pipeline.TrendsInterval == "" {
		c.Pipeline.TrendsInterval = "12h"
	}
	if c.Pipeline.WebPQuality <= 0 || c.Pipeline.WebPQuality > 100 {
		c.Pipeline.WebPQuality = 85
	}
	if c.State.Backend == "" {
		c.State.Backend = "cms"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
}
