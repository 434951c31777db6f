// Package route maps URL paths to navigation state and back. Resolve is a
// pure reducer from a path to the active tab, discover sub-tab, and a list
// of actions (redirects, results restoration) for the adapter layer to
// apply; it never touches navigation state itself.
package route

import (
	"strings"

	"github.com/jonathan/pathfinder/internal/assessment"
	"github.com/jonathan/pathfinder/internal/completion"
)

// BasePath is the application root all tab paths hang off.
const BasePath = "/app"

// Tab is a top-level navigation tab.
type Tab string

const (
	Discover Tab = "discover"
	Prepare  Tab = "prepare"
	Prospect Tab = "prospect"
	Prosper  Tab = "prosper"
	// Matches has no dedicated path segment; it maps to the bare root.
	Matches Tab = "matches"
)

// SubTab is a section within the discover tab.
type SubTab string

const (
	Overview          SubTab = "overview"
	InterestsTab      SubTab = "interests"
	PersonalityTab    SubTab = "personality"
	CognitiveStyleTab SubTab = "cognitive-style"
)

var tabSegments = map[string]Tab{
	"discover": Discover,
	"prepare":  Prepare,
	"prospect": Prospect,
	"prosper":  Prosper,
}

var subTabs = map[string]SubTab{
	"overview":        Overview,
	"interests":       InterestsTab,
	"personality":     PersonalityTab,
	"cognitive-style": CognitiveStyleTab,
}

// assessmentKinds maps assessment sub-tabs to their kind.
var assessmentKinds = map[SubTab]assessment.Kind{
	InterestsTab:      assessment.Interests,
	PersonalityTab:    assessment.Personality,
	CognitiveStyleTab: assessment.CognitiveStyle,
}

// ParseTab converts a path segment into a Tab.
func ParseTab(segment string) (Tab, bool) {
	t, ok := tabSegments[segment]
	return t, ok
}

// AssessmentKind returns the assessment kind behind a sub-tab, if any.
func (s SubTab) AssessmentKind() (assessment.Kind, bool) {
	k, ok := assessmentKinds[s]
	return k, ok
}

// ActionType discriminates reducer actions.
type ActionType string

const (
	// ActionRedirect tells the adapter to navigate to Path. Mode "replace"
	// does not grow history; "push" does.
	ActionRedirect ActionType = "redirect"
	// ActionRestoreResults tells the adapter to restore the named
	// assessment's view to results (its completion flag is set).
	ActionRestoreResults ActionType = "restore-results"
)

// RedirectMode is the history semantics of a redirect.
type RedirectMode string

const (
	Replace RedirectMode = "replace"
	Push    RedirectMode = "push"
)

// Action is one instruction for the adapter layer.
type Action struct {
	Type ActionType
	Mode RedirectMode
	Path string
	Kind assessment.Kind
}

// Resolution is the outcome of resolving a path.
type Resolution struct {
	Tab     Tab
	SubTab  SubTab // set only within discover
	Actions []Action
}

// Resolve parses path into navigation state and canonicalization actions.
// It never emits a redirect back to the path being resolved, which breaks
// any potential feedback loop at the source.
func Resolve(path string, defaultTab Tab, completed completion.Flags) Resolution {
	segments := splitAppPath(path)

	// Bare root: Matches lives here; any other default redirects away.
	if len(segments) == 0 {
		if defaultTab == Matches {
			return Resolution{Tab: Matches}
		}
		return redirectTo(path, defaultTab, Replace, PathFor(defaultTab, ""))
	}

	tab, ok := ParseTab(segments[0])
	if !ok {
		// Unrecognized segment: no match, fall back to the default tab.
		if defaultTab == Matches {
			return redirectTo(path, Matches, Replace, BasePath)
		}
		return redirectTo(path, defaultTab, Replace, PathFor(defaultTab, ""))
	}

	if tab != Discover {
		return Resolution{Tab: tab}
	}

	if len(segments) == 1 {
		return redirectTo(path, Discover, Replace, PathFor(Discover, Overview))
	}

	sub, ok := subTabs[segments[1]]
	if !ok {
		return redirectTo(path, Discover, Replace, PathFor(Discover, Overview))
	}

	res := Resolution{Tab: Discover, SubTab: sub}
	if kind, isAssessment := sub.AssessmentKind(); isAssessment && kindComplete(kind, completed) {
		res.Actions = append(res.Actions, Action{Type: ActionRestoreResults, Kind: kind})
	}
	return res
}

// PathFor is the outbound mapping from navigation state to a canonical path.
func PathFor(tab Tab, sub SubTab) string {
	switch tab {
	case Matches:
		return BasePath
	case Discover:
		if sub == "" {
			sub = Overview
		}
		return BasePath + "/discover/" + string(sub)
	default:
		return BasePath + "/" + string(tab)
	}
}

func redirectTo(from string, tab Tab, mode RedirectMode, to string) Resolution {
	res := Resolution{Tab: tab}
	if normalize(from) == to {
		// Redirecting to the path being processed would loop; resolve in
		// place instead.
		return res
	}
	res.Actions = append(res.Actions, Action{Type: ActionRedirect, Mode: mode, Path: to})
	return res
}

func kindComplete(kind assessment.Kind, flags completion.Flags) bool {
	switch kind {
	case assessment.Interests:
		return flags.Interests
	case assessment.Personality:
		return flags.Personality
	case assessment.CognitiveStyle:
		return flags.CognitiveStyle
	default:
		return false
	}
}

func splitAppPath(path string) []string {
	path = normalize(path)
	rest := strings.TrimPrefix(path, BasePath)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

func normalize(path string) string {
	if path == "" {
		return BasePath
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
