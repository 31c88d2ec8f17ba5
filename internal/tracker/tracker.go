// Package tracker computes the single active feed item from viewability
// events reported by the feed list.
package tracker

import (
	"time"
)

const (
	// DefaultMinFraction is the visible fraction an entry needs before it
	// can become the active item.
	DefaultMinFraction = 0.5

	// DefaultDwell is how long an entry must remain the top visible entry
	// before activation. Rapid flicks through many items do not each
	// trigger a play/pause cycle; only the settled item does.
	DefaultDwell = 300 * time.Millisecond
)

// NoActive is the index reported before any item has been activated.
const NoActive = -1

// Entry is one visible list entry as reported by the UI layer.
type Entry struct {
	Index           int
	VisibleFraction float64
}

// Activation describes an active-index change.
type Activation struct {
	Previous int // NoActive before the first activation
	Active   int
}

// Tracker debounces viewability events into a single active index.
//
// The active item is the first entry whose visible fraction is at least
// the threshold and that has remained the top qualifying entry for the
// dwell duration. If no entry qualifies (mid-transition), the previous
// active index is held; the tracker never reports zero active items once
// something has been activated.
//
// Tracker is not safe for concurrent use; it belongs to the screen's
// event loop goroutine.
type Tracker struct {
	minFraction float64
	dwell       time.Duration

	active         int
	candidate      int
	candidateSince time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMinFraction overrides the visibility threshold.
func WithMinFraction(f float64) Option {
	return func(t *Tracker) { t.minFraction = f }
}

// WithDwell overrides the dwell duration.
func WithDwell(d time.Duration) Option {
	return func(t *Tracker) { t.dwell = d }
}

// New creates a tracker with no active item.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		minFraction: DefaultMinFraction,
		dwell:       DefaultDwell,
		active:      NoActive,
		candidate:   NoActive,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Active returns the current active index, or NoActive.
func (t *Tracker) Active() int {
	return t.active
}

// Observe records a viewability report. The first entry meeting the
// visibility threshold becomes the activation candidate; its dwell timer
// restarts whenever the candidate changes.
func (t *Tracker) Observe(entries []Entry, now time.Time) {
	candidate := NoActive
	for _, e := range entries {
		if e.VisibleFraction >= t.minFraction {
			candidate = e.Index
			break
		}
	}

	if candidate == NoActive {
		// Hold the previous active item rather than pausing everything.
		t.candidate = NoActive
		return
	}
	if candidate == t.candidate {
		return
	}
	t.candidate = candidate
	t.candidateSince = now
}

// Settle reports an activation change once the candidate has dwelled long
// enough. The dwell requirement is waived for the very first activation so
// the feed never renders with zero active items.
//
// Settle is idempotent: it emits a given activation exactly once.
func (t *Tracker) Settle(now time.Time) (Activation, bool) {
	if t.candidate == NoActive || t.candidate == t.active {
		return Activation{}, false
	}
	if t.active != NoActive && now.Sub(t.candidateSince) < t.dwell {
		return Activation{}, false
	}

	act := Activation{Previous: t.active, Active: t.candidate}
	t.active = t.candidate
	return act, true
}

// NextDeadline returns the time at which a pending candidate will satisfy
// the dwell rule, so the caller can schedule a settle tick. ok is false
// when nothing is pending.
func (t *Tracker) NextDeadline() (time.Time, bool) {
	if t.candidate == NoActive || t.candidate == t.active {
		return time.Time{}, false
	}
	return t.candidateSince.Add(t.dwell), true
}
