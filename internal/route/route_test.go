package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pathfinder/internal/assessment"
	"github.com/jonathan/pathfinder/internal/completion"
)

func TestResolve_RootRedirectsToDefaultTab(t *testing.T) {
	res := Resolve("/app", Prospect, completion.Flags{})

	assert.Equal(t, Prospect, res.Tab)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, ActionRedirect, res.Actions[0].Type)
	assert.Equal(t, Replace, res.Actions[0].Mode)
	assert.Equal(t, "/app/prospect", res.Actions[0].Path)
}

func TestResolve_RootIsMatchesWhenDefault(t *testing.T) {
	res := Resolve("/app", Matches, completion.Flags{})

	assert.Equal(t, Matches, res.Tab)
	assert.Empty(t, res.Actions)
}

func TestResolve_DiscoverWithoutSubTabRedirectsToOverview(t *testing.T) {
	res := Resolve("/app/discover", Discover, completion.Flags{})

	assert.Equal(t, Discover, res.Tab)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, ActionRedirect, res.Actions[0].Type)
	assert.Equal(t, Replace, res.Actions[0].Mode)
	assert.Equal(t, "/app/discover/overview", res.Actions[0].Path)
}

func TestResolve_ValidTabs(t *testing.T) {
	tests := []struct {
		path string
		tab  Tab
	}{
		{"/app/prepare", Prepare},
		{"/app/prospect", Prospect},
		{"/app/prosper", Prosper},
		{"/app/prepare/", Prepare}, // trailing slash
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res := Resolve(tt.path, Discover, completion.Flags{})
			assert.Equal(t, tt.tab, res.Tab)
			assert.Empty(t, res.Actions)
		})
	}
}

func TestResolve_DiscoverSubTabs(t *testing.T) {
	res := Resolve("/app/discover/personality", Discover, completion.Flags{})
	assert.Equal(t, Discover, res.Tab)
	assert.Equal(t, PersonalityTab, res.SubTab)
	assert.Empty(t, res.Actions)
}

func TestResolve_CompletedAssessmentSubTabRestoresResults(t *testing.T) {
	res := Resolve("/app/discover/interests", Discover, completion.Flags{Interests: true})

	assert.Equal(t, InterestsTab, res.SubTab)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, ActionRestoreResults, res.Actions[0].Type)
	assert.Equal(t, assessment.Interests, res.Actions[0].Kind)
}

func TestResolve_IncompleteAssessmentSubTabHasNoActions(t *testing.T) {
	res := Resolve("/app/discover/interests", Discover, completion.Flags{Personality: true})
	assert.Empty(t, res.Actions)
}

func TestResolve_OverviewNeverRestores(t *testing.T) {
	all := completion.Flags{Interests: true, Personality: true, CognitiveStyle: true}
	res := Resolve("/app/discover/overview", Discover, all)
	assert.Equal(t, Overview, res.SubTab)
	assert.Empty(t, res.Actions)
}

func TestResolve_UnknownTabFallsBackToDefault(t *testing.T) {
	res := Resolve("/app/nonsense", Prepare, completion.Flags{})

	assert.Equal(t, Prepare, res.Tab)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, "/app/prepare", res.Actions[0].Path)
}

func TestResolve_UnknownSubTabCanonicalizesToOverview(t *testing.T) {
	res := Resolve("/app/discover/horoscope", Discover, completion.Flags{})

	assert.Equal(t, Discover, res.Tab)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, "/app/discover/overview", res.Actions[0].Path)
}

func TestResolve_NeverRedirectsToItself(t *testing.T) {
	// An unknown tab with a default that resolves to the same path must not
	// emit a self-redirect loop.
	res := Resolve("/app/prepare", Prepare, completion.Flags{})
	assert.Empty(t, res.Actions)

	res = Resolve("/app", Matches, completion.Flags{})
	assert.Empty(t, res.Actions)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "/app", PathFor(Matches, ""))
	assert.Equal(t, "/app/prepare", PathFor(Prepare, ""))
	assert.Equal(t, "/app/discover/overview", PathFor(Discover, ""))
	assert.Equal(t, "/app/discover/cognitive-style", PathFor(Discover, CognitiveStyleTab))
}

func TestSubTab_AssessmentKind(t *testing.T) {
	kind, ok := InterestsTab.AssessmentKind()
	require.True(t, ok)
	assert.Equal(t, assessment.Interests, kind)

	_, ok = Overview.AssessmentKind()
	assert.False(t, ok)
}
