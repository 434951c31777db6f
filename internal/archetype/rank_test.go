package archetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProfile(t *testing.T, scores map[Category]int) Profile {
	t.Helper()
	list := make([]Score, 0, len(scores))
	for _, c := range Categories {
		list = append(list, Score{Category: c, Score: scores[c], Title: string(c)})
	}
	p, err := NewProfile(list)
	require.NoError(t, err)
	return p
}

func TestNewProfile_RequiresAllSixCategories(t *testing.T) {
	_, err := NewProfile([]Score{
		{Category: Realistic, Score: 50},
		{Category: Artistic, Score: 40},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete profile")
}

func TestNewProfile_RejectsDuplicates(t *testing.T) {
	scores := make([]Score, 0, 6)
	for _, c := range Categories {
		scores = append(scores, Score{Category: c, Score: 10})
	}
	scores[5] = Score{Category: Realistic, Score: 20}

	_, err := NewProfile(scores)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate category")
}

func TestNewProfile_RejectsOutOfRangeScore(t *testing.T) {
	scores := make([]Score, 0, 6)
	for _, c := range Categories {
		scores = append(scores, Score{Category: c, Score: 10})
	}
	scores[0].Score = 101

	_, err := NewProfile(scores)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestRank_DescendingByScore(t *testing.T) {
	p := buildProfile(t, map[Category]int{
		Realistic:     10,
		Investigative: 85,
		Artistic:      60,
		Social:        30,
		Enterprising:  95,
		Conventional:  5,
	})

	ranked := Rank(p)
	require.Len(t, ranked, 6)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
	assert.Equal(t, Enterprising, ranked[0].Category)
	assert.Equal(t, Investigative, ranked[1].Category)
	assert.Equal(t, Conventional, ranked[5].Category)
}

func TestRank_TiesKeepDeclarationOrder(t *testing.T) {
	p := buildProfile(t, map[Category]int{
		Realistic:     70,
		Investigative: 70,
		Artistic:      70,
		Social:        70,
		Enterprising:  70,
		Conventional:  70,
	})

	ranked := Rank(p)
	require.Len(t, ranked, 6)
	for i, c := range Categories {
		assert.Equal(t, c, ranked[i].Category)
	}
}

func TestRank_Deterministic(t *testing.T) {
	p := buildProfile(t, map[Category]int{
		Realistic:     50,
		Investigative: 50,
		Artistic:      80,
		Social:        80,
		Enterprising:  20,
		Conventional:  50,
	})

	first := Rank(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Rank(p))
	}
}
