// Package assessment implements the three self-assessment engines: a
// parameterized state machine over intro/questions/results with a persisted
// answer buffer and externally provided questions and scoring.
package assessment

import (
	"fmt"

	"github.com/jonathan/pathfinder/internal/store"
)

// Kind identifies one of the three assessment instruments.
type Kind string

const (
	Interests      Kind = "interests"
	Personality    Kind = "personality"
	CognitiveStyle Kind = "cognitive-style"
)

// Kinds lists all assessment kinds.
var Kinds = []Kind{Interests, Personality, CognitiveStyle}

// Sentinel marks an unanswered question slot.
const Sentinel = "?"

// questionCounts fixes the buffer length per kind.
var questionCounts = map[Kind]int{
	Interests:      60,
	Personality:    40,
	CognitiveStyle: 24,
}

// progressKeys maps each kind to its persisted answer-buffer key.
var progressKeys = map[Kind]string{
	Interests:      store.KeyInterestsAnswers,
	Personality:    store.KeyPersonalityProgress,
	CognitiveStyle: store.KeyCognitiveStyleProgress,
}

// ParseKind converts a path segment into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := questionCounts[k]; !ok {
		return "", fmt.Errorf("unknown assessment kind: %q", s)
	}
	return k, nil
}

// QuestionCount returns the fixed question count for the kind.
func (k Kind) QuestionCount() int {
	return questionCounts[k]
}

// ProgressKey returns the persisted record key for the kind's answer buffer.
func (k Kind) ProgressKey() string {
	return progressKeys[k]
}

// SupportsCancel reports whether the kind exposes the cancel transition from
// questions/results back to intro. Interests intentionally does not: its
// only way back is a full retake.
func (k Kind) SupportsCancel() bool {
	return k == Personality || k == CognitiveStyle
}

// Stage is the engine's state machine position.
type Stage string

const (
	StageIntro     Stage = "intro"
	StageQuestions Stage = "questions"
	StageResults   Stage = "results"
)
