package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wp-autopilot/internal/model"
)

// APIClient is a minimal client for the YouTube Data API v3 search
// endpoint. This is the structured Tier A provider; it needs a key.
type APIClient struct {
	baseURL    string
	key        string
	maxResults int
	client     *http.Client
}

// NewAPIClient creates a YouTube Data API client. baseURL should be
// like "https://www.googleapis.com/youtube/v3".
func NewAPIClient(baseURL, key string, maxResults int) *APIClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		key:        key,
		maxResults: maxResults,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Available reports whether the API credential is configured. A missing
// credential skips this tier; it is never fatal to the run.
func (c *APIClient) Available() bool {
	return strings.TrimSpace(c.key) != ""
}

// searchResponse mirrors the subset of the search.list payload we use.
type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			PublishedAt  time.Time `json:"publishedAt"`
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

// RecentVideos fetches the channel's latest uploads, newest first.
// API: GET /search?part=snippet&channelId={id}&order=date&type=video
func (c *APIClient) RecentVideos(ctx context.Context, src model.Source) ([]model.ContentCandidate, error) {
	q := url.Values{
		"part":       {"snippet"},
		"channelId":  {src.ChannelID},
		"order":      {"date"},
		"type":       {"video"},
		"maxResults": {fmt.Sprintf("%d", c.maxResults)},
		"key":        {c.key},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("youtube api: status %d", resp.StatusCode)
	}
	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	items := make([]model.ContentCandidate, 0, len(raw.Items))
	for _, it := range raw.Items {
		if it.ID.VideoID == "" {
			continue
		}
		channel := it.Snippet.ChannelTitle
		if channel == "" {
			channel = src.Name
		}
		items = append(items, model.ContentCandidate{
			SourceKind:    model.SourceVideo,
			ExternalID:    it.ID.VideoID,
			Title:         it.Snippet.Title,
			BodyText:      it.Snippet.Description,
			PublishedAt:   it.Snippet.PublishedAt,
			OriginChannel: channel,
			URL:           "https://www.youtube.com/watch?v=" + it.ID.VideoID,
		})
	}
	return items, nil
}
