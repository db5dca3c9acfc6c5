package ai

import (
	"context"
	"log/slog"
	"time"

	"wp-autopilot/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIWriter implements Writer using the Chat Completions API.
type OpenAIWriter struct {
	client *openai.Client
	model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg OpenAIConfig) *OpenAIWriter {
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	m := cfg.Model
	if m == "" {
		panic("OpenAI model must be specified")
	}
	return &OpenAIWriter{client: c, model: m}
}

func (o *OpenAIWriter) WriteArticle(ctx context.Context, cand model.ContentCandidate, language string) (Article, error) {
	ctx, cancel := context.WithTimeout(ctx, 300*time.Second)
	defer cancel()
	system, user := articlePrompt(cand, language)
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.6,
	})
	if err != nil {
		slog.Error("openai: write article error", "err", err)
		return Article{}, err
	}
	if len(resp.Choices) == 0 {
		return Article{}, ErrEmptyCompletion
	}
	return ParseArticle(resp.Choices[0].Message.Content)
}
