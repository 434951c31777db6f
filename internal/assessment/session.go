package assessment

import (
	"fmt"
	"strings"
)

// Session is the mutable state of one assessment: the stage, the ordered
// answer buffer (fixed length per kind, Sentinel for unanswered slots), and
// the current question pointer. Invariant: 0 <= CurrentIndex < len(Answers).
type Session struct {
	Kind         Kind     `json:"kind"`
	Stage        Stage    `json:"stage"`
	Answers      []string `json:"answers"`
	CurrentIndex int      `json:"current_index"`
}

// NewSession creates a fresh session in intro with an empty buffer.
func NewSession(kind Kind) Session {
	return Session{
		Kind:         kind,
		Stage:        StageIntro,
		Answers:      emptyAnswers(kind.QuestionCount()),
		CurrentIndex: 0,
	}
}

func emptyAnswers(count int) []string {
	answers := make([]string, count)
	for i := range answers {
		answers[i] = Sentinel
	}
	return answers
}

// FirstUnanswered returns the index of the first sentinel slot, or -1 when
// every slot is answered.
func (s *Session) FirstUnanswered() int {
	for i, a := range s.Answers {
		if a == Sentinel {
			return i
		}
	}
	return -1
}

// AnsweredCount returns the number of non-sentinel slots.
func (s *Session) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a != Sentinel {
			n++
		}
	}
	return n
}

// AllAnswered reports whether every slot is non-sentinel.
func (s *Session) AllAnswered() bool {
	return s.FirstUnanswered() == -1
}

// AnswerString is the concatenated buffer submitted to the scoring call.
func (s *Session) AnswerString() string {
	return strings.Join(s.Answers, "")
}

// setAnswer writes value at the current index and advances the pointer,
// holding the pointer at the last slot.
func (s *Session) setAnswer(value string) error {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Answers) {
		return fmt.Errorf("current index out of range: %d", s.CurrentIndex)
	}
	s.Answers[s.CurrentIndex] = value
	if s.CurrentIndex < len(s.Answers)-1 {
		s.CurrentIndex++
	}
	return nil
}

// clear resets every slot to the sentinel and the pointer to zero.
func (s *Session) clear() {
	s.Answers = emptyAnswers(len(s.Answers))
	s.CurrentIndex = 0
}

// progressRecord is the persisted form of the answer buffer.
type progressRecord struct {
	Answers []string `json:"answers"`
}
