package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wp-autopilot/internal/model"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrEmptyCompletion is returned when a provider answers with no text.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// GeminiWriter implements Writer using the Gemini API.
type GeminiWriter struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*GeminiWriter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiWriter{client: client, model: modelName}, nil
}

func (g *GeminiWriter) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func (g *GeminiWriter) WriteArticle(ctx context.Context, cand model.ContentCandidate, language string) (Article, error) {
	ctx, cancel := context.WithTimeout(ctx, 300*time.Second)
	defer cancel()
	system, user := articlePrompt(cand, language)
	m := g.client.GenerativeModel(g.model)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	resp, err := m.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		slog.Error("gemini: write article error", "err", err)
		return Article{}, err
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return Article{}, ErrEmptyCompletion
	}
	return ParseArticle(b.String())
}
