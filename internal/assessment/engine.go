package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/pathfinder/internal/archetype"
	"github.com/jonathan/pathfinder/internal/store"
)

// ErrInvalidTransition is returned when an operation is not legal in the
// session's current stage.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrInvalidAnswer is returned when a submitted answer is blank or the
// unanswered sentinel.
var ErrInvalidAnswer = errors.New("invalid answer value")

// Engine drives one assessment's state machine. Each engine owns its session
// and persisted keys exclusively; callers serialize access (the coordinator
// holds a mutex across operations).
type Engine struct {
	kind     Kind
	userID   uuid.UUID
	gateway  *store.Gateway
	provider Provider

	session   Session
	questions []Question
	report    *Report
	profile   archetype.Profile // interests only, non-nil once scored
	matches   []CareerMatch     // interests only
	loading   bool

	// generation is bumped by retake and cancel; a scoring response started
	// under an older generation is discarded instead of overwriting newer
	// session state.
	generation int

	onChange func()
}

// NewEngine creates an engine for one user and kind. Call Restore before use.
func NewEngine(kind Kind, userID uuid.UUID, gateway *store.Gateway, provider Provider) *Engine {
	return &Engine{
		kind:     kind,
		userID:   userID,
		gateway:  gateway,
		provider: provider,
		session:  NewSession(kind),
	}
}

// SetOnChange registers a notification fired after every stage change.
func (e *Engine) SetOnChange(fn func()) {
	e.onChange = fn
}

func (e *Engine) notify() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Kind returns the engine's assessment kind.
func (e *Engine) Kind() Kind { return e.kind }

// Stage returns the current state machine stage.
func (e *Engine) Stage() Stage { return e.session.Stage }

// Complete reports whether the assessment has reached results.
func (e *Engine) Complete() bool { return e.session.Stage == StageResults }

// Loading reports whether a provider call is in flight.
func (e *Engine) Loading() bool { return e.loading }

// Profile returns the interests score profile, or nil before scoring.
func (e *Engine) Profile() archetype.Profile { return e.profile }

// Report returns the provider's score report, or nil before scoring.
func (e *Engine) Report() *Report { return e.report }

// Matches returns the fetched career matches (interests only).
func (e *Engine) Matches() []CareerMatch { return e.matches }

// Questions returns the fetched question set, nil until Start succeeds.
func (e *Engine) Questions() []Question { return e.questions }

// Session returns a copy of the current session.
func (e *Engine) Session() Session {
	copied := e.session
	copied.Answers = append([]string(nil), e.session.Answers...)
	return copied
}

// Restore reconstructs the engine's state from persisted answers: a full
// buffer re-enters results (reloading or recomputing the score), a partial
// buffer re-enters questions at the first unanswered slot, an empty or
// missing buffer stays in intro. Persistence failures fall back to a fresh
// session and are never fatal.
func (e *Engine) Restore(ctx context.Context) {
	result, err := e.gateway.Load(ctx, e.userID, e.kind.ProgressKey(), store.SchemaVersion)
	if err != nil {
		log.Printf("[assessment] %s: load progress failed, starting fresh: %v", e.kind, err)
		return
	}
	if !result.Found {
		return
	}
	if result.NeedsMigration {
		log.Printf("[assessment] %s: stored progress predates schema v%d (v%d), starting fresh",
			e.kind, store.SchemaVersion, result.ActualVersion)
		return
	}

	var rec progressRecord
	if err := json.Unmarshal(result.Data, &rec); err != nil || len(rec.Answers) != e.kind.QuestionCount() {
		log.Printf("[assessment] %s: corrupt progress record, starting fresh", e.kind)
		return
	}
	e.session.Answers = rec.Answers

	switch first := e.session.FirstUnanswered(); {
	case e.session.AnsweredCount() == 0:
		e.session.Stage = StageIntro
		e.session.CurrentIndex = 0
	case first >= 0:
		e.session.Stage = StageQuestions
		e.session.CurrentIndex = first
	default:
		e.restoreResults(ctx)
	}
}

// restoreResults re-enters results for a fully answered buffer without an
// explicit answer transition: the persisted profile is preferred, with a
// fresh scoring call as fallback.
func (e *Engine) restoreResults(ctx context.Context) {
	e.session.CurrentIndex = len(e.session.Answers) - 1

	if e.kind == Interests {
		if profile, ok := e.loadPersistedProfile(ctx); ok {
			e.profile = profile
			e.session.Stage = StageResults
			e.fetchMatches(ctx)
			return
		}
	}

	if err := e.score(ctx); err != nil {
		log.Printf("[assessment] %s: score recompute on restore failed: %v", e.kind, err)
		e.session.Stage = StageQuestions
	}
}

func (e *Engine) loadPersistedProfile(ctx context.Context) (archetype.Profile, bool) {
	result, err := e.gateway.Load(ctx, e.userID, store.KeyInterestsProfile, store.SchemaVersion)
	if err != nil || !result.Found || result.NeedsMigration {
		return nil, false
	}
	var profile archetype.Profile
	if err := json.Unmarshal(result.Data, &profile); err != nil {
		return nil, false
	}
	if _, err := archetype.NewProfile(profileScores(profile)); err != nil {
		return nil, false
	}
	return profile, true
}

func profileScores(p archetype.Profile) []archetype.Score {
	scores := make([]archetype.Score, 0, len(p))
	for _, c := range archetype.Categories {
		if s, ok := p[c]; ok {
			scores = append(scores, s)
		}
	}
	return scores
}

// Start moves intro to questions, fetching the question set. When persisted
// answers exist the pointer resumes at the first unanswered slot.
func (e *Engine) Start(ctx context.Context) error {
	if e.session.Stage != StageIntro {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, e.session.Stage)
	}

	e.loading = true
	questions, err := e.provider.Questions(ctx, e.kind, e.kind.QuestionCount())
	e.loading = false
	if err != nil {
		log.Printf("[assessment] %s: question fetch failed: %v", e.kind, err)
		return fmt.Errorf("failed to fetch questions: %w", err)
	}
	e.questions = questions

	if first := e.session.FirstUnanswered(); first >= 0 && e.session.AnsweredCount() > 0 {
		e.session.CurrentIndex = first
	} else {
		e.session.CurrentIndex = 0
	}
	e.session.Stage = StageQuestions
	e.notify()
	return nil
}

// Answer records value at the current slot, persists the buffer, and either
// advances the pointer or, when the buffer is complete, submits it for
// scoring. The persist happens before the scoring call so a failure between
// the two leaves the session resumable with no lost answer.
func (e *Engine) Answer(ctx context.Context, value string) error {
	if e.session.Stage != StageQuestions {
		return fmt.Errorf("%w: answer from %s", ErrInvalidTransition, e.session.Stage)
	}
	if value == "" || value == Sentinel {
		return fmt.Errorf("%w: %q", ErrInvalidAnswer, value)
	}

	if err := e.session.setAnswer(value); err != nil {
		return err
	}
	if err := e.persistAnswers(ctx); err != nil {
		return err
	}

	if !e.session.AllAnswered() {
		return nil
	}

	if err := e.score(ctx); err != nil {
		// Stay in questions; the caller may re-trigger scoring by retrying.
		return fmt.Errorf("scoring failed: %w", err)
	}
	return nil
}

// score submits the completed buffer, stores the returned report, and
// transitions to results. For interests it also persists the profile and
// fetches career matches.
func (e *Engine) score(ctx context.Context) error {
	gen := e.generation
	e.loading = true
	report, err := e.provider.Results(ctx, e.kind, e.session.AnswerString())
	e.loading = false
	if err != nil {
		return err
	}
	if gen != e.generation {
		log.Printf("[assessment] %s: discarding superseded score response", e.kind)
		return nil
	}
	if report == nil {
		return fmt.Errorf("provider returned no score report")
	}

	if e.kind == Interests {
		profile, err := report.InterestProfile()
		if err != nil {
			return fmt.Errorf("invalid score profile: %w", err)
		}
		e.profile = profile
		if err := e.gateway.Save(ctx, e.userID, store.KeyInterestsProfile, profile, store.SchemaVersion); err != nil {
			log.Printf("[assessment] interests: profile persist failed: %v", err)
		}
	}

	e.report = report
	e.session.Stage = StageResults
	e.notify()

	if e.kind == Interests {
		e.fetchMatches(ctx)
	}
	return nil
}

// fetchMatches loads career matches for the scored interests profile.
// Failures are non-fatal; the match list just stays empty.
func (e *Engine) fetchMatches(ctx context.Context) {
	if e.profile == nil {
		return
	}
	gen := e.generation
	e.loading = true
	matches, err := e.provider.CareerMatches(ctx, e.profile)
	e.loading = false
	if err != nil {
		log.Printf("[assessment] interests: career match fetch failed: %v", err)
		return
	}
	if gen != e.generation {
		log.Printf("[assessment] interests: discarding superseded career matches")
		return
	}
	e.matches = matches
}

// Retake clears the buffer and jumps straight to questions, skipping intro.
func (e *Engine) Retake(ctx context.Context) error {
	if e.session.Stage != StageResults {
		return fmt.Errorf("%w: retake from %s", ErrInvalidTransition, e.session.Stage)
	}

	e.generation++
	e.session.clear()
	e.report = nil
	e.profile = nil
	e.matches = nil
	if err := e.persistAnswers(ctx); err != nil {
		return err
	}
	e.session.Stage = StageQuestions
	e.notify()
	return nil
}

// Cancel returns to intro without clearing answers, so the session can be
// resumed later. Only personality and cognitive-style expose it.
func (e *Engine) Cancel() error {
	if !e.kind.SupportsCancel() {
		return fmt.Errorf("%w: %s does not support cancel", ErrInvalidTransition, e.kind)
	}
	if e.session.Stage == StageIntro {
		return nil
	}

	e.generation++
	e.loading = false
	e.session.Stage = StageIntro
	e.notify()
	return nil
}

// RestoreResultsView re-enters the results stage for an already-complete
// session, used when navigation lands on a completed assessment's URL.
func (e *Engine) RestoreResultsView() {
	if e.session.Stage == StageResults {
		return
	}
	if e.session.AllAnswered() && (e.report != nil || e.profile != nil) {
		e.session.Stage = StageResults
		e.notify()
	}
}

func (e *Engine) persistAnswers(ctx context.Context) error {
	rec := progressRecord{Answers: e.session.Answers}
	if err := e.gateway.Save(ctx, e.userID, e.kind.ProgressKey(), rec, store.SchemaVersion); err != nil {
		return fmt.Errorf("failed to persist answers: %w", err)
	}
	return nil
}
