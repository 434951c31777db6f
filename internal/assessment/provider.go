package assessment

import (
	"context"

	"github.com/jonathan/pathfinder/internal/archetype"
)

// Question is one item of an assessment instrument.
type Question struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Area  string `json:"area,omitempty"` // interest category key, interests only
}

// CategoryScore is one scored category in a provider report.
type CategoryScore struct {
	Key         string `json:"key"`
	Score       int    `json:"score"` // 0-100
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Report is the provider's scoring result for a completed answer buffer.
type Report struct {
	Kind       Kind            `json:"kind"`
	Categories []CategoryScore `json:"categories"`
}

// InterestProfile converts an interests report into a validated six-category
// profile.
func (r *Report) InterestProfile() (archetype.Profile, error) {
	scores := make([]archetype.Score, 0, len(r.Categories))
	for _, c := range r.Categories {
		scores = append(scores, archetype.Score{
			Category:    archetype.Category(c.Key),
			Score:       c.Score,
			Title:       c.Title,
			Description: c.Description,
		})
	}
	return archetype.NewProfile(scores)
}

// CareerMatch is one career suggested from an interest profile.
type CareerMatch struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	Fit   string `json:"fit"` // best, great, good
}

// CareerDetails describes a single career.
type CareerDetails struct {
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tasks       []string `json:"tasks,omitempty"`
	Outlook     string   `json:"outlook,omitempty"`
}

// Provider supplies question sets and computes scores and career matches.
// All methods may fail; callers treat failures as non-fatal and retryable.
type Provider interface {
	Questions(ctx context.Context, kind Kind, count int) ([]Question, error)
	Results(ctx context.Context, kind Kind, answers string) (*Report, error)
	CareerMatches(ctx context.Context, profile archetype.Profile) ([]CareerMatch, error)
	CareerDetails(ctx context.Context, code string) (*CareerDetails, error)
}
