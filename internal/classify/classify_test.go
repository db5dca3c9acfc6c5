package classify

import (
	"os"
	"path/filepath"
	"testing"
)

func testTables() Tables {
	return Tables{
		CatchAll: "news",
		Override: "ai",
		Excluded: []string{"election", "senate"},
		Categories: []Category{
			{ID: "ai", Strong: []string{"chatgpt", "openai"}, Weak: []string{" ai "}},
			{ID: "smartphones", Strong: []string{"iphone", "pixel"}, Weak: []string{"smartphone"}},
			{ID: "gaming", Strong: []string{"playstation"}, Weak: []string{"gaming"}},
		},
	}
}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(testTables())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier(t)
	title := "ChatGPT comes to the iPhone"
	body := "OpenAI ships a native app."
	first := c.Classify(title, body)
	for i := 0; i < 50; i++ {
		if got := c.Classify(title, body); got != first {
			t.Fatalf("run %d: got %q, want %q", i, got, first)
		}
	}
}

func TestClassifyStrongBeatsWeak(t *testing.T) {
	c := newTestClassifier(t)
	// "smartphone" is weak for smartphones but "playstation" is strong
	// for gaming; the strong pass runs first across all categories.
	if got := c.Classify("New smartphone app for PlayStation remote play", ""); got != "gaming" {
		t.Errorf("got %q, want gaming", got)
	}
}

func TestClassifyPriorityOrdering(t *testing.T) {
	c := newTestClassifier(t)
	// Strong hits for both ai and smartphones: the earlier category in
	// priority order must win, regardless of match counts.
	if got := c.Classify("ChatGPT on iPhone and Pixel", "iphone iphone iphone"); got != "ai" {
		t.Errorf("got %q, want ai", got)
	}
	// Same text with categories reordered resolves differently.
	tbl := testTables()
	tbl.Categories[0], tbl.Categories[1] = tbl.Categories[1], tbl.Categories[0]
	c2, err := New(tbl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c2.Classify("ChatGPT on iPhone and Pixel", ""); got != "smartphones" {
		t.Errorf("reordered: got %q, want smartphones", got)
	}
}

func TestClassifyExclusion(t *testing.T) {
	c := newTestClassifier(t)
	if got := c.Classify("Senate hearing on smartphone rules", ""); got != "news" {
		t.Errorf("excluded text: got %q, want news (catch-all)", got)
	}
}

func TestClassifyExclusionOverride(t *testing.T) {
	c := newTestClassifier(t)
	// Non-topical keyword plus a strong keyword for the override
	// category: must classify as the override category, not catch-all.
	if got := c.Classify("Senate grills OpenAI over ChatGPT", ""); got != "ai" {
		t.Errorf("override: got %q, want ai", got)
	}
}

func TestClassifyCatchAll(t *testing.T) {
	c := newTestClassifier(t)
	if got := c.Classify("Quarterly earnings beat expectations", "revenue up"); got != "news" {
		t.Errorf("got %q, want news", got)
	}
}

func TestClassifyWordBoundaryPadding(t *testing.T) {
	c := newTestClassifier(t)
	// " ai " must not match inside "air fryer" but must match the
	// standalone word, including at the ends of the text.
	if got := c.Classify("Best air fryer deals", ""); got != "news" {
		t.Errorf("got %q, want news", got)
	}
	if got := c.Classify("ai", ""); got != "ai" {
		t.Errorf("got %q, want ai", got)
	}
}

func TestDefaultTablesParse(t *testing.T) {
	tbl, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if _, err := New(tbl); err != nil {
		t.Fatalf("New(Default): %v", err)
	}
}

func TestLoadTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	content := "catch_all: misc\ncategories:\n  - id: a\n    strong: [alpha]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c, err := New(tbl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Classify("alpha release", ""); got != "a" {
		t.Errorf("got %q, want a", got)
	}
	if got := c.Classify("nothing", ""); got != "misc" {
		t.Errorf("got %q, want misc", got)
	}
}
