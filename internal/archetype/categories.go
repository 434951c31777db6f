// Package archetype ranks interest category scores and resolves a user's
// hybrid archetype from their top two categories.
package archetype

import "fmt"

// Category identifies one of the six interest categories.
type Category string

const (
	Realistic     Category = "realistic"
	Investigative Category = "investigative"
	Artistic      Category = "artistic"
	Social        Category = "social"
	Enterprising  Category = "enterprising"
	Conventional  Category = "conventional"
)

// Categories lists all categories in declaration order. Ranking ties are
// broken by this order, so it must stay stable.
var Categories = []Category{
	Realistic,
	Investigative,
	Artistic,
	Social,
	Enterprising,
	Conventional,
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Score holds the computed result for a single category.
type Score struct {
	Category    Category `json:"category"`
	Score       int      `json:"score"` // 0-100
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Profile maps each of the six categories to its score. A valid profile
// always carries all six keys exactly once.
type Profile map[Category]Score

// NewProfile builds a Profile from a list of category scores, rejecting
// unknown, duplicate, or missing categories.
func NewProfile(scores []Score) (Profile, error) {
	p := make(Profile, len(Categories))
	for _, s := range scores {
		if !s.Category.Valid() {
			return nil, fmt.Errorf("unknown category: %q", s.Category)
		}
		if _, dup := p[s.Category]; dup {
			return nil, fmt.Errorf("duplicate category: %q", s.Category)
		}
		if s.Score < 0 || s.Score > 100 {
			return nil, fmt.Errorf("category %s score out of range: %d", s.Category, s.Score)
		}
		p[s.Category] = s
	}
	if len(p) != len(Categories) {
		return nil, fmt.Errorf("incomplete profile: got %d of %d categories", len(p), len(Categories))
	}
	return p, nil
}
