package dedup

import (
	"context"
	"errors"
	"testing"

	"wp-autopilot/internal/model"
)

func candidate(id, title string) model.ContentCandidate {
	return model.ContentCandidate{SourceKind: model.SourceVideo, ExternalID: id, Title: title}
}

func TestMarkerRoundTrip(t *testing.T) {
	// Including externalIDs with regex-special characters: embedding the
	// marker and re-checking must match literally.
	ids := []string{"abc123", "a+b(c)*", "x.y[z]", "w|v?$^"}
	for _, id := range ids {
		c := candidate(id, "Some Title")
		body := "<p>article</p>\n" + model.MarkerComment(c.Marker())
		published := []model.PublishedItem{{Title: "Different Title", RawBody: body}}
		dup, reason := IsDuplicate(c, published)
		if !dup || reason != ReasonMarker {
			t.Errorf("id %q: dup=%v reason=%q, want marker match", id, dup, reason)
		}
	}
}

func TestMetaMarkerMatch(t *testing.T) {
	c := candidate("abc123", "Foo")
	published := []model.PublishedItem{{
		Title:   "Other",
		RawBody: "<p>no comment here</p>",
		Meta:    map[string]string{"automation_source_id": "yt_abc123"},
	}}
	dup, reason := IsDuplicate(c, published)
	if !dup || reason != ReasonMarker {
		t.Errorf("dup=%v reason=%q, want marker match", dup, reason)
	}
}

func TestTitleFallback(t *testing.T) {
	// Identical titles, different externalIDs, no marker embedded.
	c := candidate("new-id", "  Breaking Story  ")
	published := []model.PublishedItem{{Title: "breaking story", RawBody: "<p>old</p>"}}
	dup, reason := IsDuplicate(c, published)
	if !dup || reason != ReasonTitle {
		t.Errorf("dup=%v reason=%q, want title match", dup, reason)
	}
}

func TestMarkerWinsOverTitle(t *testing.T) {
	c := candidate("abc", "Same Title")
	published := []model.PublishedItem{{
		Title:   "Same Title",
		RawBody: model.MarkerComment("yt_abc"),
	}}
	_, reason := IsDuplicate(c, published)
	if reason != ReasonMarker {
		t.Errorf("reason = %q, want marker match", reason)
	}
}

func TestNotDuplicate(t *testing.T) {
	c := candidate("abc123", "Foo")
	if dup, _ := IsDuplicate(c, nil); dup {
		t.Error("empty published list must not be a duplicate")
	}
	published := []model.PublishedItem{{Title: "Bar", RawBody: model.MarkerComment("yt_other")}}
	if dup, _ := IsDuplicate(c, published); dup {
		t.Error("non-matching items must not be a duplicate")
	}
}

func TestPublishThenDetect(t *testing.T) {
	// The §8 example scenario: unpublished candidate, empty list, then
	// the same candidate against the now-published body.
	c := candidate("abc123", "Foo")
	if dup, _ := IsDuplicate(c, nil); dup {
		t.Fatal("expected isDuplicate=false before publish")
	}
	body := "<p>Foo article</p>\n" + model.MarkerComment(c.Marker())
	dup, reason := IsDuplicate(c, []model.PublishedItem{{Title: "Foo", RawBody: body}})
	if !dup || reason != ReasonMarker {
		t.Fatalf("after publish: dup=%v reason=%q, want marker match", dup, reason)
	}
}

type fakeSearcher struct {
	results map[string][]model.PublishedItem
	err     error
	calls   []string
}

func (f *fakeSearcher) SearchPosts(_ context.Context, query string) ([]model.PublishedItem, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func TestCheckerStrictVerification(t *testing.T) {
	// The CMS search returns a fuzzily-matched post that does not carry
	// the literal marker: the checker must not declare a duplicate.
	c := candidate("abc123", "Unique Title")
	s := &fakeSearcher{results: map[string][]model.PublishedItem{
		c.Marker(): {{Title: "Loosely related", RawBody: "<p>mentions yt abc 123 in prose</p>"}},
	}}
	ch := &Checker{CMS: s}
	dup, _ := ch.Check(context.Background(), c)
	if dup {
		t.Error("fuzzy search hit without literal marker must not be a duplicate")
	}
	if len(s.calls) != 2 {
		t.Errorf("expected marker then title search, got calls %v", s.calls)
	}
}

func TestCheckerMarkerHit(t *testing.T) {
	c := candidate("abc123", "Foo")
	s := &fakeSearcher{results: map[string][]model.PublishedItem{
		c.Marker(): {{Title: "Old", RawBody: model.MarkerComment(c.Marker())}},
	}}
	ch := &Checker{CMS: s}
	dup, reason := ch.Check(context.Background(), c)
	if !dup || reason != ReasonMarker {
		t.Errorf("dup=%v reason=%q, want marker match", dup, reason)
	}
	if len(s.calls) != 1 {
		t.Errorf("marker hit should not trigger the title search, calls %v", s.calls)
	}
}

func TestCheckerDegradesOnSearchError(t *testing.T) {
	c := candidate("abc123", "Foo")
	ch := &Checker{CMS: &fakeSearcher{err: errors.New("upstream 503")}}
	dup, reason := ch.Check(context.Background(), c)
	if dup || reason != ReasonNone {
		t.Errorf("search failure must degrade, got dup=%v reason=%q", dup, reason)
	}
}
