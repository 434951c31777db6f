// Package discover coordinates the three assessment engines for one user:
// completion tracking, theme derivation, feature flags, and the one-shot
// all-complete event. It owns all assessment-facing state; presentation
// layers only read from it.
package discover

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/pathfinder/internal/archetype"
	"github.com/jonathan/pathfinder/internal/assessment"
	"github.com/jonathan/pathfinder/internal/completion"
	"github.com/jonathan/pathfinder/internal/store"
	"github.com/jonathan/pathfinder/internal/theme"
)

// Coordinator owns one user's assessment state. All operations are
// serialized by its mutex, preserving the single-threaded cooperative model
// the engines assume.
type Coordinator struct {
	mu      sync.Mutex
	userID  uuid.UUID
	gateway *store.Gateway

	engines map[assessment.Kind]*assessment.Engine
	tracker *completion.Tracker
	theme   theme.Theme
	flags   FeatureFlags

	subscribers map[int]chan struct{}
	nextSubID   int
}

// NewCoordinator builds and restores a coordinator for one user. The three
// engines restore concurrently (they own disjoint persisted keys). The
// completion tracker is seeded with the restored flags, so state that was
// already complete at load never fires the all-complete event.
func NewCoordinator(ctx context.Context, userID uuid.UUID, gateway *store.Gateway, provider assessment.Provider) (*Coordinator, error) {
	c := &Coordinator{
		userID:      userID,
		gateway:     gateway,
		engines:     make(map[assessment.Kind]*assessment.Engine, len(assessment.Kinds)),
		subscribers: make(map[int]chan struct{}),
	}

	for _, kind := range assessment.Kinds {
		c.engines[kind] = assessment.NewEngine(kind, userID, gateway, provider)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, engine := range c.engines {
		engine := engine
		g.Go(func() error {
			engine.Restore(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to restore assessments: %w", err)
	}

	c.flags = loadFlags(ctx, gateway, userID)
	c.tracker = completion.NewTracker(c.deriveFlags(), c.broadcast)
	c.refreshTheme()

	// Change notifications wire up only after restore so reloads never
	// re-fire the celebration.
	for _, engine := range c.engines {
		engine.SetOnChange(c.refresh)
	}

	return c, nil
}

// deriveFlags reads completion off the engine stages.
func (c *Coordinator) deriveFlags() completion.Flags {
	return completion.Flags{
		Interests:      c.engines[assessment.Interests].Complete(),
		Personality:    c.engines[assessment.Personality].Complete(),
		CognitiveStyle: c.engines[assessment.CognitiveStyle].Complete(),
	}
}

// refresh recomputes every derived value after an engine state change. It
// runs under the coordinator lock (engine operations are only reachable
// through locked methods).
func (c *Coordinator) refresh() {
	c.tracker.Update(c.deriveFlags())
	c.refreshTheme()
}

// refreshTheme replaces the theme wholesale from the interests profile.
func (c *Coordinator) refreshTheme() {
	profile := c.engines[assessment.Interests].Profile()
	if profile == nil {
		c.theme = theme.Neutral()
		return
	}
	c.theme = theme.Derive(archetype.Rank(profile))
}

// Engine op plumbing. Each returns the engine's error unchanged so the
// server layer can map transition and provider failures separately.

// Start begins (or resumes) the named assessment.
func (c *Coordinator) Start(ctx context.Context, kind assessment.Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engines[kind].Start(ctx)
}

// Answer submits one answer to the named assessment.
func (c *Coordinator) Answer(ctx context.Context, kind assessment.Kind, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engines[kind].Answer(ctx, value)
}

// Retake clears the named assessment and returns it to questions.
func (c *Coordinator) Retake(ctx context.Context, kind assessment.Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engines[kind].Retake(ctx)
}

// Cancel returns the named assessment to intro, preserving answers.
func (c *Coordinator) Cancel(kind assessment.Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engines[kind].Cancel()
}

// RestoreResultsView re-enters results for a completed assessment after
// navigation lands on its URL.
func (c *Coordinator) RestoreResultsView(kind assessment.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engines[kind].RestoreResultsView()
}

// View describes one assessment's UI-facing state.
type View struct {
	Kind          assessment.Kind       `json:"kind"`
	Stage         assessment.Stage      `json:"stage"`
	CurrentIndex  int                   `json:"current_index"`
	AnsweredCount int                   `json:"answered_count"`
	QuestionCount int                   `json:"question_count"`
	Loading       bool                  `json:"loading"`
	Questions     []assessment.Question `json:"questions,omitempty"`
	Report        *assessment.Report    `json:"report,omitempty"`
	Archetype     *archetype.Archetype  `json:"archetype,omitempty"`
}

// View returns the named assessment's current view state.
func (c *Coordinator) View(kind assessment.Kind) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	engine := c.engines[kind]
	session := engine.Session()
	v := View{
		Kind:          kind,
		Stage:         session.Stage,
		CurrentIndex:  session.CurrentIndex,
		AnsweredCount: session.AnsweredCount(),
		QuestionCount: kind.QuestionCount(),
		Loading:       engine.Loading(),
		Questions:     engine.Questions(),
		Report:        engine.Report(),
	}
	if kind == assessment.Interests {
		if profile := engine.Profile(); profile != nil {
			if a, ok := archetype.Resolve(archetype.Rank(profile)); ok {
				v.Archetype = &a
			}
		}
	}
	return v
}

// Theme returns the current theme tokens.
func (c *Coordinator) Theme() theme.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// Flags returns the feature flags.
func (c *Coordinator) Flags() FeatureFlags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags
}

// CompletionFlags returns the per-assessment completion flags.
func (c *Coordinator) CompletionFlags() completion.Flags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Flags()
}

// Matches returns the career matches fetched for the interests profile.
func (c *Coordinator) Matches() []assessment.CareerMatch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engines[assessment.Interests].Matches()
}

// Subscribe registers for the one-shot all-complete event. The returned
// cancel func must be called when the subscriber goes away.
func (c *Coordinator) Subscribe() (<-chan struct{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	ch := make(chan struct{}, 1)
	c.subscribers[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
	return ch, cancel
}

// broadcast delivers the all-complete event to every subscriber without
// blocking on slow consumers.
func (c *Coordinator) broadcast() {
	for _, ch := range c.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
