package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/chai2010/webp"
)

// Searcher finds candidate image URLs for a query.
type Searcher interface {
	SearchImages(ctx context.Context, query string) ([]string, error)
}

// PageScraper extracts candidate image URLs from an HTML page. Search
// results sometimes link the article page instead of the image file;
// the scraper recovers an image from such results.
type PageScraper interface {
	ExtractPageImages(ctx context.Context, pageURL string) ([]string, error)
}

// maxDownloadBytes caps image downloads; oversized files are skipped.
const maxDownloadBytes = 10 << 20

// Fetcher sources an image for a query: search, download, re-encode to
// WebP. Each result may carry zero or more usable URLs; the first one
// that downloads and decodes wins.
type Fetcher struct {
	Search  Searcher
	Scrape  PageScraper // optional; recovers images from page-URL results
	Quality int         // WebP quality, 1-100
	http    *http.Client
}

func NewFetcher(search Searcher, scrape PageScraper, quality int) *Fetcher {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Fetcher{
		Search:  search,
		Scrape:  scrape,
		Quality: quality,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

// FetchFirst returns the first image for the query as WebP bytes. An
// empty search result or all-failed downloads yield an error; callers
// treat that as "publish without an image", not a run failure.
func (f *Fetcher) FetchFirst(ctx context.Context, query string) ([]byte, error) {
	if f == nil || f.Search == nil {
		return nil, errors.New("no image searcher configured")
	}
	urls, err := f.Search.SearchImages(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("image search: %w", err)
	}
	var lastErr error
	for _, u := range urls {
		data, err := f.download(ctx, u)
		if err != nil {
			slog.Debug("images: download failed, trying next", "url", u, "err", err)
			lastErr = err
			continue
		}
		out, err := reencodeWebP(data, f.Quality)
		if err != nil {
			// Not an image; the result likely linked the hosting page.
			if out, pageErr := f.fromPage(ctx, u); pageErr == nil {
				return out, nil
			}
			slog.Debug("images: decode failed, trying next", "url", u, "err", err)
			lastErr = err
			continue
		}
		return out, nil
	}
	if lastErr == nil {
		lastErr = errors.New("image search returned no results")
	}
	return nil, lastErr
}

// fromPage treats a result URL as an HTML page and tries the images it
// advertises (og:image, twitter:image, inline img tags).
func (f *Fetcher) fromPage(ctx context.Context, pageURL string) ([]byte, error) {
	if f.Scrape == nil {
		return nil, errors.New("no page scraper configured")
	}
	urls, err := f.Scrape.ExtractPageImages(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	for _, u := range urls {
		data, err := f.download(ctx, u)
		if err != nil {
			continue
		}
		out, err := reencodeWebP(data, f.Quality)
		if err != nil {
			continue
		}
		slog.Debug("images: recovered image from page", "page", pageURL, "url", u)
		return out, nil
	}
	return nil, errors.New("no usable image on page")
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownloadBytes {
		return nil, errors.New("image too large")
	}
	return data, nil
}

// reencodeWebP normalizes any supported input format to WebP so the CMS
// media library stays uniform.
func reencodeWebP(raw []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
