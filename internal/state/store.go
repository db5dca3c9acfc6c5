package state

import (
	"context"
	"strings"

	"wp-autopilot/internal/model"
)

// Store abstracts where run state lives. The pipeline has no database
// of its own by default: the CMSStore re-derives everything from
// published posts on every run. A Redis backend can be swapped in, but
// it is a cache, never authoritative for dedup.
type Store interface {
	// LastSource returns the name of the most recently used content
	// source, or "" when none can be determined.
	LastSource(ctx context.Context) (string, error)
	// SetLastSource records the source used by a successful publish.
	SetLastSource(ctx context.Context, name string) error
	// SeenMarker is a fast-path pre-filter; false means "unknown", not
	// "definitely new".
	SeenMarker(ctx context.Context, marker string) (bool, error)
	// MarkSeen records a published marker.
	MarkSeen(ctx context.Context, marker string) error
}

// RecentLister is the CMS read the CMSStore derives state from.
type RecentLister interface {
	RecentPostsByTag(ctx context.Context, tagID, limit int) ([]model.PublishedItem, error)
}

// CMSStore reconstructs state from published content. Idempotent but
// weak: if the CMS cannot surface the rotation-tagged post, the cursor
// resets to the start of the ring.
type CMSStore struct {
	CMS           RecentLister
	RotationTagID int
	KnownSources  []string
}

// LastSource reads the newest rotation-tagged post and extracts the
// source name from its meta, falling back to scanning applied tag names
// for a known source. A meta value naming no known source is ignored
// rather than returned: posts written before the source was renamed in
// config (or carrying an upstream channel title) must not pin the
// rotation to index 0 forever.
func (s *CMSStore) LastSource(ctx context.Context) (string, error) {
	posts, err := s.CMS.RecentPostsByTag(ctx, s.RotationTagID, 1)
	if err != nil {
		return "", err
	}
	if len(posts) == 0 {
		return "", nil
	}
	p := posts[0]
	if ch := p.Meta["youtube_channel"]; ch != "" {
		if len(s.KnownSources) == 0 {
			return ch, nil
		}
		for _, known := range s.KnownSources {
			if strings.EqualFold(ch, known) {
				return known, nil
			}
		}
	}
	for _, tag := range p.Tags {
		for _, known := range s.KnownSources {
			if strings.EqualFold(tag, known) {
				return known, nil
			}
		}
	}
	return "", nil
}

// SetLastSource is a no-op: the publish call itself already attached
// the meta field and tags this store reads back.
func (s *CMSStore) SetLastSource(ctx context.Context, name string) error {
	return nil
}

// SeenMarker always answers unknown; the duplicate detector's CMS
// search is the authoritative path.
func (s *CMSStore) SeenMarker(ctx context.Context, marker string) (bool, error) {
	return false, nil
}

// MarkSeen is a no-op for the same reason as SetLastSource.
func (s *CMSStore) MarkSeen(ctx context.Context, marker string) error {
	return nil
}
