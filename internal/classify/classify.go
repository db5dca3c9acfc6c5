package classify

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one classification bucket with its keyword lists.
// Categories are evaluated in slice order; earlier wins.
type Category struct {
	ID     string   `yaml:"id"`
	Strong []string `yaml:"strong"`
	Weak   []string `yaml:"weak"`
}

// Tables holds the full rule set. The tables are data, not code, so a
// deployment can swap them without rebuilding.
type Tables struct {
	CatchAll   string     `yaml:"catch_all"`
	Override   string     `yaml:"override"` // category whose strong keywords defeat the exclusion pass
	Excluded   []string   `yaml:"excluded"`
	Categories []Category `yaml:"categories"`
}

//go:embed tables.yaml
var defaultTables []byte

// Default returns the built-in keyword tables.
func Default() (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(defaultTables, &t); err != nil {
		return Tables{}, fmt.Errorf("parse embedded tables: %w", err)
	}
	return t, nil
}

// Load reads keyword tables from a YAML file.
func Load(path string) (Tables, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, err
	}
	var t Tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Tables{}, fmt.Errorf("parse tables %s: %w", path, err)
	}
	return t, nil
}

// Classifier maps free text to a category by ordered keyword matching.
// It is a pure first-match-wins rule chain: no scoring, no learning.
type Classifier struct {
	tables Tables
}

// New validates tables and lowercases all keywords once up front.
func New(t Tables) (*Classifier, error) {
	if strings.TrimSpace(t.CatchAll) == "" {
		return nil, errors.New("classify: tables missing catch_all")
	}
	if len(t.Categories) == 0 {
		return nil, errors.New("classify: tables have no categories")
	}
	lower := func(ss []string) []string {
		out := make([]string, 0, len(ss))
		for _, s := range ss {
			s = strings.ToLower(s)
			if strings.TrimSpace(s) == "" {
				continue
			}
			out = append(out, s)
		}
		return out
	}
	t.Excluded = lower(t.Excluded)
	for i := range t.Categories {
		t.Categories[i].Strong = lower(t.Categories[i].Strong)
		t.Categories[i].Weak = lower(t.Categories[i].Weak)
	}
	return &Classifier{tables: t}, nil
}

// Classify returns the category ID for the given title and body.
//
// Order of evaluation:
//  1. exclusion pass: any excluded keyword routes to catch-all, unless a
//     strong keyword of the override category is also present
//  2. strong keywords, categories in priority order, first hit wins
//  3. weak keywords, same order
//  4. catch-all
//
// A text matching many keywords always resolves to the earliest category
// in priority order regardless of match count. Deliberate simplification;
// tests pin it.
func (c *Classifier) Classify(title, body string) string {
	// Pad with spaces so keywords like " ai " can anchor on word
	// boundaries without matching inside other words.
	text := " " + strings.ToLower(title) + " " + strings.ToLower(body) + " "

	if containsAny(text, c.tables.Excluded) {
		ov := c.category(c.tables.Override)
		if ov == nil || !containsAny(text, ov.Strong) {
			return c.tables.CatchAll
		}
	}
	for _, cat := range c.tables.Categories {
		if containsAny(text, cat.Strong) {
			return cat.ID
		}
	}
	for _, cat := range c.tables.Categories {
		if containsAny(text, cat.Weak) {
			return cat.ID
		}
	}
	return c.tables.CatchAll
}

// CatchAll exposes the configured default bucket.
func (c *Classifier) CatchAll() string {
	return c.tables.CatchAll
}

func (c *Classifier) category(id string) *Category {
	for i := range c.tables.Categories {
		if c.tables.Categories[i].ID == id {
			return &c.tables.Categories[i]
		}
	}
	return nil
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
