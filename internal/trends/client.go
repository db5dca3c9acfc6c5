package trends

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"wp-autopilot/internal/model"

	"github.com/mmcdole/gofeed"
)

// Client fetches trending search topics from a public trends feed.
type Client struct {
	feedURL string
	parser  *gofeed.Parser
}

// New creates a trends client for the given feed URL.
func New(feedURL string) *Client {
	return &Client{feedURL: feedURL, parser: gofeed.NewParser()}
}

// RecentTopics parses the trends feed into trend-topic candidates. The
// external ID is a slug of the topic title; trends have no stable
// upstream identifier, and the slug keeps the dedup marker stable for
// the same topic across runs.
func (c *Client) RecentTopics(ctx context.Context) ([]model.ContentCandidate, error) {
	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse trends feed: %w", err)
	}
	items := make([]model.ContentCandidate, 0, len(feed.Items))
	for _, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		cand := model.ContentCandidate{
			SourceKind: model.SourceTrendTopic,
			ExternalID: Slug(title),
			Title:      title,
			BodyText:   strings.TrimSpace(it.Description),
			URL:        it.Link,
		}
		if it.PublishedParsed != nil {
			cand.PublishedAt = *it.PublishedParsed
		}
		items = append(items, cand)
	}
	return items, nil
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases a topic title into a stable dash-separated ID.
func Slug(title string) string {
	s := nonSlugRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}
