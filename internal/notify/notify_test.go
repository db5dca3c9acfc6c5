package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPublishedPost(t *testing.T) {
	var pinged, hooked bool
	ping := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sitemap"); got != "https://blog/sitemap.xml" {
			t.Errorf("sitemap param = %q", got)
		}
		pinged = true
	}))
	defer ping.Close()
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode webhook payload: %v", err)
		}
		if payload["title"] != "T" || payload["link"] != "https://blog/p/1" {
			t.Errorf("payload = %v", payload)
		}
		hooked = true
	}))
	defer hook.Close()

	n := New("https://blog/sitemap.xml", hook.URL)
	n.PingURLs = []string{ping.URL}
	n.PublishedPost(context.Background(), "T", "https://blog/p/1")

	if !pinged {
		t.Error("sitemap ping not sent")
	}
	if !hooked {
		t.Error("webhook not sent")
	}
}

func TestPublishedPostToleratesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	n := New("https://blog/sitemap.xml", srv.URL)
	n.PingURLs = []string{srv.URL}
	// Must not panic or propagate anything.
	n.PublishedPost(context.Background(), "T", "L")
}
