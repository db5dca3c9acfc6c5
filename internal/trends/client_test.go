package trends

import "testing"

func TestSlug(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Solar Eclipse 2026", "solar-eclipse-2026"},
		{"  iPhone 17  Pro!! ", "iphone-17-pro"},
		{"Ünïcode & symbols", "n-code-symbols"},
		{"already-slugged", "already-slugged"},
	}
	for _, c := range cases {
		if got := Slug(c.in); got != c.want {
			t.Errorf("Slug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	// Stability: slugging twice is a fixed point.
	if Slug(Slug("Some Topic")) != Slug("Some Topic") {
		t.Error("Slug must be idempotent")
	}
}
