package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"wp-autopilot/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
}

func newTestResolver(providers ...Provider) *Resolver {
	r := New(7*24*time.Hour, providers...)
	r.now = fixedNow
	return r
}

func cand(id string, age time.Duration) model.ContentCandidate {
	c := model.ContentCandidate{SourceKind: model.SourceVideo, ExternalID: id}
	if age >= 0 {
		c.PublishedAt = fixedNow().Add(-age)
	}
	return c
}

func fetchReturning(items ...model.ContentCandidate) FetchFunc {
	return func(context.Context, model.Source) ([]model.ContentCandidate, error) {
		return items, nil
	}
}

func fetchFailing(err error) FetchFunc {
	return func(context.Context, model.Source) ([]model.ContentCandidate, error) {
		return nil, err
	}
}

func TestTierFallbackPrecedence(t *testing.T) {
	// Tier A fails, Tier B returns 3 items of which 1 is fresh: exactly
	// that item comes back with usedTier = feed.
	r := newTestResolver(
		NewProvider(TierAPI, nil, fetchFailing(errors.New("quota exceeded"))),
		NewProvider(TierFeed, nil, fetchReturning(
			cand("stale1", 10*24*time.Hour),
			cand("fresh", 2*24*time.Hour),
			cand("stale2", 30*24*time.Hour),
		)),
		NewProvider(TierSearch, nil, fetchReturning(cand("never-reached", time.Hour))),
	)
	items, tier, diag := r.FetchRecentItems(context.Background(), model.Source{Name: "chan"})
	if tier != TierFeed {
		t.Fatalf("tier = %s, want feed", tier)
	}
	if len(items) != 1 || items[0].ExternalID != "fresh" {
		t.Fatalf("items = %+v, want just the fresh one", items)
	}
	if !strings.Contains(diag, "api: failed") || !strings.Contains(diag, "feed: 3 items, 1 fresh") {
		t.Errorf("diagnostic trail incomplete: %q", diag)
	}
}

func TestMissingCredentialSkipsTier(t *testing.T) {
	r := newTestResolver(
		NewProvider(TierAPI, func() bool { return false }, fetchReturning(cand("x", time.Hour))),
		NewProvider(TierFeed, nil, fetchReturning(cand("y", time.Hour))),
	)
	items, tier, diag := r.FetchRecentItems(context.Background(), model.Source{Name: "chan"})
	if tier != TierFeed || len(items) != 1 || items[0].ExternalID != "y" {
		t.Fatalf("tier=%s items=%+v", tier, items)
	}
	if !strings.Contains(diag, "api: skipped (not configured)") {
		t.Errorf("diag = %q, want skip note for api tier", diag)
	}
}

func TestFirstTierWins(t *testing.T) {
	r := newTestResolver(
		NewProvider(TierAPI, nil, fetchReturning(cand("a", time.Hour))),
		NewProvider(TierFeed, nil, fetchReturning(cand("b", time.Hour))),
	)
	items, tier, _ := r.FetchRecentItems(context.Background(), model.Source{})
	if tier != TierAPI || items[0].ExternalID != "a" {
		t.Fatalf("tier=%s items=%+v, want api tier", tier, items)
	}
}

func TestAllTiersExhausted(t *testing.T) {
	r := newTestResolver(
		NewProvider(TierAPI, nil, fetchFailing(errors.New("boom"))),
		NewProvider(TierFeed, nil, fetchReturning()),
		NewProvider(TierSearch, nil, fetchReturning(cand("old", 60*24*time.Hour))),
	)
	items, tier, diag := r.FetchRecentItems(context.Background(), model.Source{})
	if len(items) != 0 {
		t.Errorf("items = %+v, want none", items)
	}
	if tier != TierNone {
		t.Errorf("tier = %s, want none", tier)
	}
	for _, want := range []string{"api: failed", "feed: 0 items", "search: 1 items, 0 fresh"} {
		if !strings.Contains(diag, want) {
			t.Errorf("diag %q missing %q", diag, want)
		}
	}
}

func TestZeroTimestampAssumedCurrent(t *testing.T) {
	// Search-sourced items may lack a usable timestamp; they count as
	// fresh instead of being discarded.
	r := newTestResolver(
		NewProvider(TierSearch, nil, fetchReturning(cand("undated", -1))),
	)
	items, tier, _ := r.FetchRecentItems(context.Background(), model.Source{})
	if tier != TierSearch || len(items) != 1 {
		t.Fatalf("tier=%s items=%+v, want undated item accepted", tier, items)
	}
}
