package images

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"wp-autopilot/internal/wordpress"
)

// placeholderRe matches [[image: query]] markers the article writer
// leaves in generated HTML.
var placeholderRe = regexp.MustCompile(`\[\[image:\s*([^\]]+?)\s*\]\]`)

// Library is where resolved images are uploaded.
type Library interface {
	UploadMedia(ctx context.Context, data []byte, contentType, filename string) (wordpress.MediaRef, error)
}

// ResolvePlaceholders replaces every [[image: query]] marker in body
// with an uploaded <img> tag, or removes it when no image can be
// sourced. Each placeholder's search is independent, so they run
// concurrently; ordering is restored by substituting keyed on the
// original placeholder text, not on completion order.
func (f *Fetcher) ResolvePlaceholders(ctx context.Context, body string, lib Library) string {
	found := placeholderRe.FindAllStringSubmatch(body, -1)
	if len(found) == 0 {
		return body
	}
	queries := map[string]string{} // placeholder text -> query
	for _, m := range found {
		queries[m[0]] = m[1]
	}

	const maxWorkers = 4
	type result struct {
		placeholder string
		tag         string
	}
	sem := make(chan struct{}, maxWorkers)
	done := make(chan result, len(queries))
	for ph, q := range queries {
		ph, q := ph, q
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			done <- result{placeholder: ph, tag: f.resolveOne(ctx, q, lib)}
		}()
	}
	replacements := make(map[string]string, len(queries))
	for i := 0; i < len(queries); i++ {
		r := <-done
		replacements[r.placeholder] = r.tag
	}
	for ph, tag := range replacements {
		body = strings.ReplaceAll(body, ph, tag)
	}
	return body
}

func (f *Fetcher) resolveOne(ctx context.Context, query string, lib Library) string {
	data, err := f.FetchFirst(ctx, query)
	if err != nil {
		slog.Warn("images: placeholder unresolved, dropping it", "query", query, "err", err)
		return ""
	}
	ref, err := lib.UploadMedia(ctx, data, "image/webp", slugFilename(query))
	if err != nil {
		slog.Warn("images: upload failed, dropping placeholder", "query", query, "err", err)
		return ""
	}
	return fmt.Sprintf(`<img src="%s" alt="%s" />`, ref.URL, html.EscapeString(query))
}

var filenameRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugFilename(query string) string {
	s := filenameRe.ReplaceAllString(strings.ToLower(query), "-")
	s = strings.Trim(s, "-")
	if len(s) > 60 {
		s = s[:60]
	}
	if s == "" {
		s = "image"
	}
	return s + ".webp"
}
