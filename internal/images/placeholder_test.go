package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"wp-autopilot/internal/wordpress"
)

type fakeSearcher struct {
	urls map[string][]string
	err  error
}

func (f *fakeSearcher) SearchImages(_ context.Context, query string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.urls[query], nil
}

type fakeLibrary struct {
	uploads atomic.Int32
}

func (f *fakeLibrary) UploadMedia(_ context.Context, data []byte, contentType, filename string) (wordpress.MediaRef, error) {
	n := f.uploads.Add(1)
	return wordpress.MediaRef{ID: int(n), URL: fmt.Sprintf("https://blog/m/%s", filename)}, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResolvePlaceholders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t))
	}))
	defer srv.Close()

	f := NewFetcher(&fakeSearcher{urls: map[string][]string{
		"red car":  {srv.URL + "/a.png"},
		"blue sky": {srv.URL + "/b.png"},
	}}, nil, 85)
	lib := &fakeLibrary{}
	body := "<p>intro</p>\n[[image: red car]]\n<p>mid</p>\n[[image: blue sky]]\n<p>end</p>"
	out := f.ResolvePlaceholders(context.Background(), body, lib)

	if strings.Contains(out, "[[image:") {
		t.Errorf("placeholders left unresolved:\n%s", out)
	}
	// Substitution is keyed on placeholder text, so document order is
	// preserved no matter which download finished first.
	carIdx := strings.Index(out, "red-car.webp")
	skyIdx := strings.Index(out, "blue-sky.webp")
	if carIdx < 0 || skyIdx < 0 || carIdx > skyIdx {
		t.Errorf("image order not preserved (car=%d sky=%d):\n%s", carIdx, skyIdx, out)
	}
	if got := lib.uploads.Load(); got != 2 {
		t.Errorf("uploads = %d, want 2", got)
	}
}

func TestResolvePlaceholdersDropsUnresolvable(t *testing.T) {
	f := NewFetcher(&fakeSearcher{}, nil, 85)
	body := "<p>a</p>[[image: nothing found]]<p>b</p>"
	out := f.ResolvePlaceholders(context.Background(), body, &fakeLibrary{})
	if strings.Contains(out, "[[image:") {
		t.Errorf("failed placeholder must be removed:\n%s", out)
	}
	if !strings.Contains(out, "<p>a</p>") || !strings.Contains(out, "<p>b</p>") {
		t.Errorf("surrounding content damaged:\n%s", out)
	}
}

func TestResolvePlaceholdersNoOp(t *testing.T) {
	f := NewFetcher(&fakeSearcher{}, nil, 85)
	body := "<p>nothing to do</p>"
	if out := f.ResolvePlaceholders(context.Background(), body, &fakeLibrary{}); out != body {
		t.Errorf("body changed without placeholders: %q", out)
	}
}

func TestFetchFirstSkipsBadURLs(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Write(pngBytes(t))
	}))
	defer srv.Close()

	f := NewFetcher(&fakeSearcher{urls: map[string][]string{
		"q": {srv.URL + "/bad.png", srv.URL + "/good.png"},
	}}, nil, 85)
	data, err := f.FetchFirst(context.Background(), "q")
	if err != nil {
		t.Fatalf("FetchFirst: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected webp bytes")
	}
}

type fakeScraper struct {
	images map[string][]string
}

func (f *fakeScraper) ExtractPageImages(_ context.Context, pageURL string) ([]string, error) {
	return f.images[pageURL], nil
}

func TestFetchFirstRecoversImageFromPageResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/article" {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body>not an image</body></html>")
			return
		}
		w.Write(pngBytes(t))
	}))
	defer srv.Close()

	// The search result links the hosting page, not the image file; the
	// scraper supplies the real image URL.
	pageURL := srv.URL + "/article"
	f := NewFetcher(
		&fakeSearcher{urls: map[string][]string{"q": {pageURL}}},
		&fakeScraper{images: map[string][]string{pageURL: {srv.URL + "/cover.png"}}},
		85,
	)
	data, err := f.FetchFirst(context.Background(), "q")
	if err != nil {
		t.Fatalf("FetchFirst: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected webp bytes from scraped image")
	}
}

func TestFetchFirstPageResultWithoutScraperFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>not an image</body></html>")
	}))
	defer srv.Close()

	f := NewFetcher(&fakeSearcher{urls: map[string][]string{"q": {srv.URL + "/article"}}}, nil, 85)
	if _, err := f.FetchFirst(context.Background(), "q"); err == nil {
		t.Fatal("expected error when the only result is a page and no scraper is set")
	}
}

func TestSlugFilename(t *testing.T) {
	if got := slugFilename("Red Car!!"); got != "red-car.webp" {
		t.Errorf("got %q", got)
	}
	if got := slugFilename("???"); got != "image.webp" {
		t.Errorf("got %q", got)
	}
}
