package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Notifier fires post-publish side effects: search-engine pings for the
// sitemap and an optional subscriber webhook. Everything here is
// best-effort; failures are logged, never propagated.
type Notifier struct {
	SitemapURL string
	WebhookURL string
	PingURLs   []string // override for tests; defaults to the public ping endpoints
	http       *http.Client
}

func New(sitemapURL, webhookURL string) *Notifier {
	return &Notifier{
		SitemapURL: sitemapURL,
		WebhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

var defaultPingURLs = []string{
	"https://www.google.com/ping",
	"https://www.bing.com/ping",
}

// PublishedPost announces a new post: sitemap pings, then the webhook.
func (n *Notifier) PublishedPost(ctx context.Context, title, link string) {
	if n == nil {
		return
	}
	n.pingSitemaps(ctx)
	n.postWebhook(ctx, title, link)
}

func (n *Notifier) pingSitemaps(ctx context.Context) {
	if strings.TrimSpace(n.SitemapURL) == "" {
		return
	}
	pings := n.PingURLs
	if len(pings) == 0 {
		pings = defaultPingURLs
	}
	for _, base := range pings {
		u := base + "?sitemap=" + url.QueryEscape(n.SitemapURL)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			continue
		}
		resp, err := n.http.Do(req)
		if err != nil {
			slog.Warn("notify: sitemap ping failed", "endpoint", base, "err", err)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		slog.Info("notify: sitemap pinged", "endpoint", base, "status", resp.StatusCode)
	}
}

func (n *Notifier) postWebhook(ctx context.Context, title, link string) {
	if strings.TrimSpace(n.WebhookURL) == "" {
		return
	}
	payload, err := json.Marshal(map[string]string{"title": title, "link": link})
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.http.Do(req)
	if err != nil {
		slog.Warn("notify: webhook failed", "err", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		slog.Warn("notify: webhook rejected", "status", resp.StatusCode, "body", string(b))
		return
	}
	slog.Info("notify: webhook delivered", "link", link)
}

// String describes the configured targets, for the run summary.
func (n *Notifier) String() string {
	if n == nil {
		return "disabled"
	}
	var parts []string
	if n.SitemapURL != "" {
		parts = append(parts, "sitemap ping")
	}
	if n.WebhookURL != "" {
		parts = append(parts, "webhook")
	}
	if len(parts) == 0 {
		return "disabled"
	}
	return fmt.Sprintf("enabled (%s)", strings.Join(parts, ", "))
}
