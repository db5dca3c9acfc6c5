package article

import (
	"strings"
	"testing"

	"wp-autopilot/internal/model"
)

func TestFallbackRender(t *testing.T) {
	c := model.ContentCandidate{
		SourceKind:    model.SourceVideo,
		ExternalID:    "abc123",
		Title:         "A New Video",
		BodyText:      "First line.\n\nSecond line.",
		OriginChannel: "SomeChannel",
		URL:           "https://www.youtube.com/watch?v=abc123",
	}
	out, err := Render(Fallback(c))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		"<p>First line.</p>",
		"<p>Second line.</p>",
		"youtube.com/embed/abc123",
		"SomeChannel",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFallbackTrendTopic(t *testing.T) {
	c := model.ContentCandidate{
		SourceKind: model.SourceTrendTopic,
		ExternalID: "solar-eclipse",
		Title:      "Solar Eclipse",
		BodyText:   "A topic summary.",
	}
	out, err := Render(Fallback(c))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "iframe") {
		t.Error("trend topics must not embed a video player")
	}
	if !strings.Contains(out, "A topic summary.") {
		t.Errorf("output missing body text:\n%s", out)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	out, err := Render(Data{Lead: `<script>alert("x")</script>`})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Error("lead text must be HTML-escaped")
	}
}
