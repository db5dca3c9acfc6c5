package youtube

import (
	"context"
	"fmt"
	"regexp"

	"wp-autopilot/internal/model"
	"wp-autopilot/internal/websearch"
)

// videoIDRe matches watch URLs in search results. The captured group is
// the stable external ID for dedup markers.
var videoIDRe = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/shorts/)([A-Za-z0-9_-]{6,})`)

// ExtractVideoID pulls a video ID out of a YouTube URL, or "" when the
// URL is not a recognizable watch link.
func ExtractVideoID(rawURL string) string {
	m := videoIDRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// SearchClient is the Tier C provider: a generic web search scoped to
// the channel's known identity. Last resort when both the API and the
// public feed are down.
type SearchClient struct {
	ws *websearch.Client
}

func NewSearchClient(ws *websearch.Client) *SearchClient {
	return &SearchClient{ws: ws}
}

// Available reports whether the search credential is configured.
func (c *SearchClient) Available() bool {
	return c.ws != nil && c.ws.Available()
}

// RecentVideos issues a time-scoped search for the channel and derives
// candidates from result URLs. Results without a usable timestamp keep
// a zero PublishedAt; the resolver treats those as current because the
// search itself was time-scoped.
func (c *SearchClient) RecentVideos(ctx context.Context, src model.Source) ([]model.ContentCandidate, error) {
	query := src.Query
	if query == "" {
		query = fmt.Sprintf(`site:youtube.com "%s"`, src.Name)
	}
	results, err := c.ws.Search(ctx, query, 7)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	items := make([]model.ContentCandidate, 0, len(results))
	for _, r := range results {
		id := ExtractVideoID(r.Link)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, model.ContentCandidate{
			SourceKind:    model.SourceVideo,
			ExternalID:    id,
			Title:         r.Title,
			BodyText:      r.Snippet,
			PublishedAt:   r.PublishedAt,
			OriginChannel: src.Name,
			URL:           r.Link,
		})
	}
	return items, nil
}
