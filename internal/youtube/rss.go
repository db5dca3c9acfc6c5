package youtube

import (
	"context"
	"fmt"
	"strings"

	"wp-autopilot/internal/model"

	"github.com/mmcdole/gofeed"
)

// FeedClient fetches a channel's public upload feed. Tier B provider:
// no credential needed, parse or network failure means zero items.
type FeedClient struct {
	baseURL string
	parser  *gofeed.Parser
}

// NewFeedClient creates a feed client. baseURL should be like
// "https://www.youtube.com/feeds/videos.xml".
func NewFeedClient(baseURL string) *FeedClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://www.youtube.com/feeds/videos.xml"
	}
	return &FeedClient{
		baseURL: strings.TrimRight(baseURL, "?"),
		parser:  gofeed.NewParser(),
	}
}

// RecentVideos parses the channel feed into candidates.
func (c *FeedClient) RecentVideos(ctx context.Context, src model.Source) ([]model.ContentCandidate, error) {
	feedURL := fmt.Sprintf("%s?channel_id=%s", c.baseURL, src.ChannelID)
	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse channel feed: %w", err)
	}
	items := make([]model.ContentCandidate, 0, len(feed.Items))
	for _, it := range feed.Items {
		id := videoIDFromFeedItem(it)
		if id == "" {
			continue
		}
		cand := model.ContentCandidate{
			SourceKind:    model.SourceVideo,
			ExternalID:    id,
			Title:         it.Title,
			BodyText:      it.Description,
			OriginChannel: src.Name,
			URL:           it.Link,
		}
		if it.PublishedParsed != nil {
			cand.PublishedAt = *it.PublishedParsed
		}
		items = append(items, cand)
	}
	return items, nil
}

// videoIDFromFeedItem extracts the video ID from a feed entry. Upload
// feeds use GUIDs of the form "yt:video:<id>"; fall back to the link.
func videoIDFromFeedItem(it *gofeed.Item) string {
	if id, ok := strings.CutPrefix(it.GUID, "yt:video:"); ok && id != "" {
		return id
	}
	return ExtractVideoID(it.Link)
}
