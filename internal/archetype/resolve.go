package archetype

import "math"

// Archetype is the derived label for a user's top interest categories. It is
// recomputed from a profile on demand and never stored.
type Archetype struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Score       int         `json:"score"` // 0-100
	Types       [2]Category `json:"types"` // rank order, not alphabetical
}

// Resolve derives the hybrid archetype from a ranked score list. The lookup
// key is the top two category keys in alphabetical order; Types keeps rank
// order. A table miss or a ranking with fewer than two entries degrades to a
// single-category archetype built from the top category.
func Resolve(ranked []Score) (Archetype, bool) {
	if len(ranked) == 0 {
		return Archetype{}, false
	}

	top1 := ranked[0]
	if len(ranked) >= 2 {
		top2 := ranked[1]
		if entry, ok := hybrids[hybridKey(top1.Category, top2.Category)]; ok {
			return Archetype{
				Title:       entry.Title,
				Description: entry.Description,
				Score:       roundAverage(top1.Score, top2.Score),
				Types:       [2]Category{top1.Category, top2.Category},
			}, true
		}
	}

	entry, ok := fallbacks[top1.Category]
	if !ok {
		entry = hybridEntry{Title: top1.Title, Description: top1.Description}
	}
	return Archetype{
		Title:       entry.Title,
		Description: entry.Description,
		Score:       top1.Score,
		Types:       [2]Category{top1.Category, top1.Category},
	}, true
}

func roundAverage(a, b int) int {
	return int(math.Round(float64(a+b) / 2))
}
