package archetype

import "sort"

// Rank orders a profile's categories by descending score. Equal scores keep
// the category declaration order, so the result is deterministic for any
// input profile.
func Rank(p Profile) []Score {
	ranked := make([]Score, 0, len(Categories))
	for _, c := range Categories {
		if s, ok := p[c]; ok {
			ranked = append(ranked, s)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
