package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal client for a Custom Search JSON API endpoint.
// It backs both the generic web-search fallback tier and image sourcing.
type Client struct {
	baseURL  string
	apiKey   string
	engineID string
	http     *http.Client
}

// New creates a search client. baseURL should be like
// "https://www.googleapis.com/customsearch/v1".
func New(baseURL, apiKey, engineID string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://www.googleapis.com/customsearch/v1"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		engineID: engineID,
		http:     &http.Client{Timeout: timeout},
	}
}

// Available reports whether the search credential is configured.
func (c *Client) Available() bool {
	return c != nil && strings.TrimSpace(c.apiKey) != "" && strings.TrimSpace(c.engineID) != ""
}

// Result is one web-search hit. PublishedAt is zero when the result
// metadata carried no usable timestamp.
type Result struct {
	Title       string
	Link        string
	Snippet     string
	PublishedAt time.Time
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Pagemap struct {
			Metatags []map[string]string `json:"metatags"`
			CSEImage []struct {
				Src string `json:"src"`
			} `json:"cse_image"`
		} `json:"pagemap"`
	} `json:"items"`
}

// Search runs a web search restricted to the last restrictDays days
// (0 = no restriction).
func (c *Client) Search(ctx context.Context, query string, restrictDays int) ([]Result, error) {
	q := url.Values{
		"key": {c.apiKey},
		"cx":  {c.engineID},
		"q":   {query},
	}
	if restrictDays > 0 {
		q.Set("dateRestrict", fmt.Sprintf("d%d", restrictDays))
	}
	raw, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(raw.Items))
	for _, it := range raw.Items {
		r := Result{Title: it.Title, Link: it.Link, Snippet: it.Snippet}
		for _, mt := range it.Pagemap.Metatags {
			if ts := firstNonEmpty(mt["article:published_time"], mt["og:updated_time"], mt["datepublished"]); ts != "" {
				if t, err := time.Parse(time.RFC3339, ts); err == nil {
					r.PublishedAt = t
					break
				}
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// SearchImages runs an image search and returns candidate image URLs in
// ranking order. Results without a URL are dropped; the caller picks
// the first one it can actually download.
func (c *Client) SearchImages(ctx context.Context, query string) ([]string, error) {
	q := url.Values{
		"key":        {c.apiKey},
		"cx":         {c.engineID},
		"q":          {query},
		"searchType": {"image"},
		"safe":       {"active"},
	}
	raw, err := c.query(ctx, q)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(raw.Items))
	for _, it := range raw.Items {
		if it.Link != "" {
			urls = append(urls, it.Link)
		}
		for _, img := range it.Pagemap.CSEImage {
			if img.Src != "" {
				urls = append(urls, img.Src)
			}
		}
	}
	return urls, nil
}

func (c *Client) query(ctx context.Context, q url.Values) (*searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("websearch: status %d", resp.StatusCode)
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
