package dedup

import (
	"context"
	"log/slog"
	"strings"

	"wp-autopilot/internal/model"
)

// Reason explains why a candidate was flagged as a duplicate.
type Reason string

const (
	ReasonNone   Reason = ""
	ReasonMarker Reason = "marker match"
	ReasonTitle  Reason = "title match"
)

// IsDuplicate reports whether the candidate was already published, given
// a list of posts read back from the CMS. Rules per published item,
// first match wins:
//
//  1. marker match: the item's raw body contains the literal marker
//     substring, or its meta carries the marker value verbatim. This is
//     the authoritative check.
//  2. title equality, case-insensitive and trimmed. Guards against the
//     CMS search not indexing HTML comments reliably.
func IsDuplicate(c model.ContentCandidate, published []model.PublishedItem) (bool, Reason) {
	marker := c.Marker()
	title := strings.ToLower(strings.TrimSpace(c.Title))
	for _, p := range published {
		if strings.Contains(p.RawBody, model.MarkerComment(marker)) {
			return true, ReasonMarker
		}
		// Legacy posts may carry the marker in meta only.
		if p.Meta[model.MarkerMetaKey] == marker {
			return true, ReasonMarker
		}
	}
	if title == "" {
		return false, ReasonNone
	}
	for _, p := range published {
		if strings.ToLower(strings.TrimSpace(p.Title)) == title {
			return true, ReasonTitle
		}
	}
	return false, ReasonNone
}

// Searcher is the CMS free-text search this package queries for prior
// publications.
type Searcher interface {
	SearchPosts(ctx context.Context, query string) ([]model.PublishedItem, error)
}

// Checker looks up prior publications through the CMS search endpoint
// and applies IsDuplicate to the results.
//
// The CMS search is heuristic and may match fuzzily; IsDuplicate only
// accepts a marker match when the literal marker is present in the
// returned body or meta, so relevance-ranked near-misses are rejected.
type Checker struct {
	CMS Searcher
}

// Check performs the two-query lookup: first by marker, then by title.
// Search failures degrade the check rather than failing it; a CMS that
// cannot answer means dedup falls back to whatever evidence was found.
func (ch *Checker) Check(ctx context.Context, c model.ContentCandidate) (bool, Reason) {
	if ch == nil || ch.CMS == nil {
		return false, ReasonNone
	}
	posts, err := ch.CMS.SearchPosts(ctx, c.Marker())
	if err != nil {
		slog.Warn("dedup: marker search failed, degrading to title check", "marker", c.Marker(), "err", err)
	} else if dup, reason := IsDuplicate(c, posts); dup {
		return dup, reason
	}
	if strings.TrimSpace(c.Title) == "" {
		return false, ReasonNone
	}
	posts, err = ch.CMS.SearchPosts(ctx, c.Title)
	if err != nil {
		slog.Warn("dedup: title search failed", "title", c.Title, "err", err)
		return false, ReasonNone
	}
	return IsDuplicate(c, posts)
}
