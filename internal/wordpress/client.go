package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wp-autopilot/internal/model"
)

// Client is a minimal HTTP client for the WordPress REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a new WordPress client.
// baseURL should be like "https://blog.example.com/wp-json/wp/v2" (no
// trailing slash). Auth is a static bearer credential.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// PostRef identifies a created post.
type PostRef struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// MediaRef identifies an uploaded media item.
type MediaRef struct {
	ID  int    `json:"id"`
	URL string `json:"source_url"`
}

// CreatePostParams are the fields sent on post creation.
type CreatePostParams struct {
	Title         string
	Content       string
	Status        string
	Categories    []int
	Tags          []int
	FeaturedMedia int
	Meta          map[string]string
}

// wpPost mirrors the subset of WP post fields this service reads back.
type wpPost struct {
	ID     int    `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
	Title  struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Content struct {
		Rendered string `json:"rendered"`
	} `json:"content"`
	Categories []int          `json:"categories"`
	Tags       []int          `json:"tags"`
	Meta       map[string]any `json:"meta"`
	Embedded   struct {
		Terms [][]struct {
			Name     string `json:"name"`
			Taxonomy string `json:"taxonomy"`
		} `json:"wp:term"`
	} `json:"_embedded"`
}

func (p wpPost) toPublished() model.PublishedItem {
	meta := map[string]string{}
	for k, v := range p.Meta {
		if s, ok := v.(string); ok {
			meta[k] = s
		}
	}
	var tags []string
	for _, group := range p.Embedded.Terms {
		for _, term := range group {
			if term.Taxonomy == "post_tag" {
				tags = append(tags, term.Name)
			}
		}
	}
	return model.PublishedItem{
		Title:       p.Title.Rendered,
		RawBody:     p.Content.Rendered,
		Status:      p.Status,
		CategoryIDs: p.Categories,
		TagIDs:      p.Tags,
		Tags:        tags,
		Meta:        meta,
	}
}

// CreatePost creates a post and returns its reference.
func (c *Client) CreatePost(ctx context.Context, p CreatePostParams) (PostRef, error) {
	if c == nil {
		return PostRef{}, errors.New("nil wordpress client")
	}
	payload := map[string]any{
		"title":   p.Title,
		"content": p.Content,
		"status":  p.Status,
	}
	if len(p.Categories) > 0 {
		payload["categories"] = p.Categories
	}
	if len(p.Tags) > 0 {
		payload["tags"] = p.Tags
	}
	if p.FeaturedMedia > 0 {
		payload["featured_media"] = p.FeaturedMedia
	}
	if len(p.Meta) > 0 {
		payload["meta"] = p.Meta
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return PostRef{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts", bytes.NewReader(body))
	if err != nil {
		return PostRef{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return PostRef{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return PostRef{}, fmt.Errorf("create post failed: status=%d body=%s", resp.StatusCode, string(b))
	}
	var out PostRef
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return PostRef{}, err
	}
	if out.ID == 0 {
		return PostRef{}, errors.New("create post: missing id in response")
	}
	return out, nil
}

// SearchPosts runs the CMS free-text search and returns matching posts
// with rendered bodies. The search is heuristic; callers must verify
// matches client-side before trusting them.
func (c *Client) SearchPosts(ctx context.Context, query string) ([]model.PublishedItem, error) {
	q := url.Values{
		"search":   {query},
		"per_page": {"20"},
		"_embed":   {"wp:term"},
	}
	return c.listPosts(ctx, q)
}

// RecentPostsByTag returns the most recent posts carrying the tag,
// newest first.
func (c *Client) RecentPostsByTag(ctx context.Context, tagID, limit int) ([]model.PublishedItem, error) {
	if limit <= 0 {
		limit = 1
	}
	q := url.Values{
		"tags":     {fmt.Sprintf("%d", tagID)},
		"per_page": {fmt.Sprintf("%d", limit)},
		"orderby":  {"date"},
		"order":    {"desc"},
		"_embed":   {"wp:term"},
	}
	return c.listPosts(ctx, q)
}

func (c *Client) listPosts(ctx context.Context, q url.Values) ([]model.PublishedItem, error) {
	if c == nil {
		return nil, errors.New("nil wordpress client")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/posts?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list posts failed: status=%d body=%s", resp.StatusCode, string(b))
	}
	var raw []wpPost
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	items := make([]model.PublishedItem, 0, len(raw))
	for _, p := range raw {
		items = append(items, p.toPublished())
	}
	return items, nil
}

// UploadMedia uploads raw bytes to the media library.
func (c *Client) UploadMedia(ctx context.Context, data []byte, contentType, filename string) (MediaRef, error) {
	if c == nil {
		return MediaRef{}, errors.New("nil wordpress client")
	}
	if len(data) == 0 {
		return MediaRef{}, errors.New("empty media payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/media", bytes.NewReader(data))
	if err != nil {
		return MediaRef{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	resp, err := c.http.Do(req)
	if err != nil {
		return MediaRef{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return MediaRef{}, fmt.Errorf("upload media failed: status=%d body=%s", resp.StatusCode, string(b))
	}
	var out MediaRef
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return MediaRef{}, err
	}
	if out.ID == 0 {
		return MediaRef{}, errors.New("upload media: missing id in response")
	}
	return out, nil
}

// GetOrCreateTag resolves a tag name to its term ID, creating the tag
// when it does not exist yet.
func (c *Client) GetOrCreateTag(ctx context.Context, name string) (int, error) {
	if c == nil {
		return 0, errors.New("nil wordpress client")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("empty tag name")
	}
	q := url.Values{"search": {name}, "per_page": {"20"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tags?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var tags []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
			return 0, err
		}
		for _, t := range tags {
			if strings.EqualFold(t.Name, name) {
				return t.ID, nil
			}
		}
	} else {
		b, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("search tags failed: status=%d body=%s", resp.StatusCode, string(b))
	}

	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return 0, err
	}
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tags", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	resp2, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp2.Body.Close()
	raw, _ := io.ReadAll(resp2.Body)
	if resp2.StatusCode >= 200 && resp2.StatusCode < 300 {
		var out struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return 0, err
		}
		if out.ID == 0 {
			return 0, errors.New("create tag: missing id in response")
		}
		return out.ID, nil
	}
	// WP answers 400 term_exists with the existing term ID when the tag
	// was created concurrently.
	var werr struct {
		Code string `json:"code"`
		Data struct {
			TermID int `json:"term_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &werr); err == nil && werr.Code == "term_exists" && werr.Data.TermID > 0 {
		return werr.Data.TermID, nil
	}
	return 0, fmt.Errorf("create tag failed: status=%d body=%s", resp2.StatusCode, string(raw))
}
