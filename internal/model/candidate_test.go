package model

import "testing"

func TestMarker(t *testing.T) {
	cases := []struct {
		kind SourceKind
		id   string
		want string
	}{
		{SourceVideo, "abc123", "yt_abc123"},
		{SourceTrendTopic, "solar-eclipse", "trend_solar-eclipse"},
		{SourceKind("other"), "x", "item_x"},
	}
	for _, c := range cases {
		got := ContentCandidate{SourceKind: c.kind, ExternalID: c.id}.Marker()
		if got != c.want {
			t.Errorf("Marker(%s,%s) = %q, want %q", c.kind, c.id, got, c.want)
		}
	}
}

func TestMarkerComment(t *testing.T) {
	got := MarkerComment("yt_abc123")
	want := "<!-- automation_source_id: yt_abc123 -->"
	if got != want {
		t.Errorf("MarkerComment = %q, want %q", got, want)
	}
}
