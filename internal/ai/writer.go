package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"wp-autopilot/internal/model"
)

// Article is the structured output the writers must produce.
type Article struct {
	Title   string   `json:"title"`
	HTML    string   `json:"content"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
}

// Writer drafts a full article for a candidate in the given language.
type Writer interface {
	WriteArticle(ctx context.Context, c model.ContentCandidate, language string) (Article, error)
}

// ExtractJSON defensively pulls a JSON object out of free text. Models
// wrap their output in prose and code fences; take everything from the
// first '{' to the last '}'.
func ExtractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", errors.New("no JSON object in model output")
	}
	return raw[start : end+1], nil
}

// ParseArticle extracts and decodes an Article from raw model output.
func ParseArticle(raw string) (Article, error) {
	blob, err := ExtractJSON(raw)
	if err != nil {
		return Article{}, err
	}
	var a Article
	if err := json.Unmarshal([]byte(blob), &a); err != nil {
		return Article{}, fmt.Errorf("decode article JSON: %w", err)
	}
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.HTML) == "" {
		return Article{}, errors.New("article JSON missing title or content")
	}
	return a, nil
}

// articlePrompt builds the shared instruction both providers send.
// [[image: ...]] placeholders are resolved by the image pipeline after
// generation.
func articlePrompt(c model.ContentCandidate, language string) (system, user string) {
	system = fmt.Sprintf(`You are a staff writer for a technology blog. Write in %s.
Respond with a single JSON object and nothing else, with keys:
  "title": a catchy but accurate headline,
  "content": the article body as clean HTML (<p>, <h2>, <ul> only),
  "excerpt": one or two sentences for the post excerpt,
  "tags": 3 to 6 short topic tags.
Where an illustration would help, insert a placeholder of the exact form
[[image: short search query]] on its own line inside the content.
Do not invent facts beyond the source material.`, langOrDefault(language))

	var b strings.Builder
	switch c.SourceKind {
	case model.SourceVideo:
		fmt.Fprintf(&b, "Write an article covering this new video by %s.\n", c.OriginChannel)
	case model.SourceTrendTopic:
		b.WriteString("Write an article about this currently trending topic.\n")
	}
	fmt.Fprintf(&b, "Title: %s\n", c.Title)
	if c.URL != "" {
		fmt.Fprintf(&b, "Link: %s\n", c.URL)
	}
	if desc := truncateRunes(strings.TrimSpace(c.BodyText), 2000); desc != "" {
		fmt.Fprintf(&b, "Source description:\n%s\n", desc)
	}
	return system, b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}
