package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var pageClient = &http.Client{Timeout: 15 * time.Second}

// ExtractPageImages fetches a result page and scrapes candidate image
// URLs from its markup: og:image and twitter:image metadata first, then
// plain <img> tags. Used as a fallback when the image search returned
// nothing usable; there is no schema guarantee on these pages.
func ExtractPageImages(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := pageClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var urls []string
	seen := map[string]bool{}
	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || seen[raw] {
			return
		}
		abs := absoluteURL(pageURL, raw)
		if abs == "" {
			return
		}
		seen[raw] = true
		urls = append(urls, abs)
	}

	doc.Find(`meta[property="og:image"], meta[name="twitter:image"]`).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("content"); ok {
			add(v)
		}
	})
	doc.Find("article img, img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("src"); ok {
			add(v)
		}
		return len(urls) < 8
	})
	return urls, nil
}

// ExtractPageImages satisfies images.PageScraper by delegating to the
// package-level function.
func (c *Client) ExtractPageImages(ctx context.Context, pageURL string) ([]string, error) {
	return ExtractPageImages(ctx, pageURL)
}

func absoluteURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	abs := b.ResolveReference(r)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}
