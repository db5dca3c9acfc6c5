package model

import (
	"fmt"
	"time"
)

// SourceKind identifies where a candidate came from.
type SourceKind string

const (
	SourceVideo      SourceKind = "video"
	SourceTrendTopic SourceKind = "trend"
)

// MarkerPrefix returns the per-kind prefix used in dedup markers.
func (k SourceKind) MarkerPrefix() string {
	switch k {
	case SourceVideo:
		return "yt"
	case SourceTrendTopic:
		return "trend"
	default:
		return "item"
	}
}

// ContentCandidate is an item eligible to become a post.
type ContentCandidate struct {
	SourceKind    SourceKind `json:"source_kind"`
	ExternalID    string     `json:"external_id"`
	Title         string     `json:"title"`
	BodyText      string     `json:"body_text"`
	PublishedAt   time.Time  `json:"published_at"` // zero when the origin gave no timestamp
	OriginChannel string     `json:"origin_channel,omitempty"`
	URL           string     `json:"url,omitempty"`
}

// Marker derives the unique string embedded in published content to tie
// a post back to its candidate: "<prefix>_<externalID>".
func (c ContentCandidate) Marker() string {
	return c.SourceKind.MarkerPrefix() + "_" + c.ExternalID
}

// MarkerMetaKey is the post meta field carrying the marker.
const MarkerMetaKey = "automation_source_id"

// MarkerComment renders the HTML comment embedded in published bodies.
// The exact textual form matters: the duplicate detector searches for it.
func MarkerComment(marker string) string {
	return fmt.Sprintf("<!-- %s: %s -->", MarkerMetaKey, marker)
}

// PublishedItem is a post read back from the CMS. The system keeps no
// store of its own; published state is re-derived from these on every run.
type PublishedItem struct {
	Title       string            `json:"title"`
	RawBody     string            `json:"raw_body"`
	Status      string            `json:"status"`
	CategoryIDs []int             `json:"category_ids"`
	TagIDs      []int             `json:"tag_ids"`
	Tags        []string          `json:"tags"` // resolved tag names, when the CMS embeds terms
	Meta        map[string]string `json:"meta"`
}

// Source is one content source (a YouTube channel) in the rotation ring.
type Source struct {
	Name      string `mapstructure:"name" json:"name"`
	ChannelID string `mapstructure:"channel_id" json:"channel_id"`
	Query     string `mapstructure:"query" json:"query,omitempty"` // overrides the search-tier query
}

// CategoryAssignment pairs a candidate with its classified category.
type CategoryAssignment struct {
	CandidateID string `json:"candidate_id"`
	CategoryID  int    `json:"category_id"`
}
