package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wp-autopilot/internal/model"
)

// Tier identifies one fallback data-provider level.
type Tier string

const (
	TierAPI    Tier = "api"    // structured, authenticated API
	TierFeed   Tier = "feed"   // public syndication feed
	TierSearch Tier = "search" // generic web search
	TierNone   Tier = "none"
)

// FetchFunc fetches candidate items for a source.
type FetchFunc func(ctx context.Context, src model.Source) ([]model.ContentCandidate, error)

// Provider is one tier in the fallback chain.
type Provider struct {
	tier      Tier
	available func() bool
	fetch     FetchFunc
}

// NewProvider wires a tier into the chain. available reports whether the
// tier can run at all (e.g. a credential is configured); a nil func
// means always available.
func NewProvider(tier Tier, available func() bool, fetch FetchFunc) Provider {
	return Provider{tier: tier, available: available, fetch: fetch}
}

// Resolver tries an ordered chain of providers until one yields at
// least one sufficiently recent item.
type Resolver struct {
	providers []Provider
	recency   time.Duration
	now       func() time.Time
}

// New builds a resolver over the given providers in order. recency is
// the freshness window; items older than it do not count as a success.
func New(recency time.Duration, providers ...Provider) *Resolver {
	if recency <= 0 {
		recency = 7 * 24 * time.Hour
	}
	return &Resolver{providers: providers, recency: recency, now: time.Now}
}

// FetchRecentItems walks the tiers for a source. It returns the fresh
// items from the first tier that produced any, the tier that succeeded
// (TierNone if all were exhausted), and a diagnostic trail recording
// every tier attempted and why it was skipped. The trail is the only
// way to debug provider outages; there is no persistent error log
// downstream. An exhausted chain is not an error: it means "nothing to
// publish this run".
func (r *Resolver) FetchRecentItems(ctx context.Context, src model.Source) ([]model.ContentCandidate, Tier, string) {
	var trail []string
	cutoff := r.now().Add(-r.recency)
	for _, p := range r.providers {
		if p.available != nil && !p.available() {
			trail = append(trail, fmt.Sprintf("%s: skipped (not configured)", p.tier))
			continue
		}
		items, err := p.fetch(ctx, src)
		if err != nil {
			// Transient failures fall through to the next tier.
			trail = append(trail, fmt.Sprintf("%s: failed (%v)", p.tier, err))
			continue
		}
		fresh := filterFresh(items, cutoff)
		trail = append(trail, fmt.Sprintf("%s: %d items, %d fresh", p.tier, len(items), len(fresh)))
		if len(fresh) > 0 {
			diag := strings.Join(trail, "; ")
			slog.Info("resolver: tier succeeded", "source", src.Name, "tier", p.tier, "fresh", len(fresh), "trail", diag)
			return fresh, p.tier, diag
		}
	}
	diag := strings.Join(trail, "; ")
	slog.Info("resolver: all tiers exhausted", "source", src.Name, "trail", diag)
	return nil, TierNone, diag
}

// filterFresh keeps items published within the window. Items with a
// zero timestamp are assumed current: the search tier cannot always
// recover a date, and its query was already time-scoped. Explicit
// policy; occasionally treats stale content as fresh rather than
// starving the pipeline.
func filterFresh(items []model.ContentCandidate, cutoff time.Time) []model.ContentCandidate {
	out := make([]model.ContentCandidate, 0, len(items))
	for _, it := range items {
		if it.PublishedAt.IsZero() || !it.PublishedAt.Before(cutoff) {
			out = append(out, it)
		}
	}
	return out
}
