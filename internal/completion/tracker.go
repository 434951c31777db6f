// Package completion tracks assessment completion across the three
// instruments and fires a single edge-triggered notification when the last
// one finishes.
package completion

// Flags holds the per-assessment completion state.
type Flags struct {
	Interests      bool `json:"interests"`
	Personality    bool `json:"personality"`
	CognitiveStyle bool `json:"cognitive_style"`
}

// AllComplete reports whether every assessment is complete.
func (f Flags) AllComplete() bool {
	return f.Interests && f.Personality && f.CognitiveStyle
}

// Tracker observes completion flags and fires its notification exactly once
// per false-to-true transition of the combined flag. Seeding the tracker
// with the flags restored at load suppresses the notification for state that
// was already complete before this session.
type Tracker struct {
	flags    Flags
	prevAll  bool
	onChange func(Flags)
	notify   func()
}

// NewTracker creates a tracker seeded with the initial flags. The notify
// callback fires on the all-complete transition; onChange (optional) fires
// on every flag change.
func NewTracker(initial Flags, notify func()) *Tracker {
	return &Tracker{
		flags:   initial,
		prevAll: initial.AllComplete(),
		notify:  notify,
	}
}

// SetOnChange registers a callback fired whenever the flags change value.
func (t *Tracker) SetOnChange(fn func(Flags)) {
	t.onChange = fn
}

// Flags returns the current completion flags.
func (t *Tracker) Flags() Flags {
	return t.flags
}

// Update re-derives the combined flag from the given per-assessment flags.
// Re-evaluating with unchanged flags is idempotent: the notification fires
// only on the transition into the all-true state, never when already true.
func (t *Tracker) Update(flags Flags) {
	changed := flags != t.flags
	t.flags = flags

	all := flags.AllComplete()
	fire := all && !t.prevAll
	t.prevAll = all

	if changed && t.onChange != nil {
		t.onChange(flags)
	}
	if fire && t.notify != nil {
		t.notify()
	}
}
