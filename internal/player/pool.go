package player

import (
	"fmt"
	"log/slog"
	"time"
)

// DefaultCapacity bounds the pool to roughly the virtualized list's render
// window.
const DefaultCapacity = 3

// PooledPlayer is the pool's record for one playback resource. The
// resource itself is owned exclusively by the pool.
type PooledPlayer struct {
	itemID     string
	mediaURL   string
	resource   Resource
	state      State
	lastActive time.Time
	loaded     bool
	lastErr    error
}

// ItemID returns the feed item this player belongs to.
func (p *PooledPlayer) ItemID() string { return p.itemID }

// State returns the player's lifecycle state.
func (p *PooledPlayer) State() State { return p.state }

// Loaded reports whether the resource has reached actual playback at
// least once.
func (p *PooledPlayer) Loaded() bool { return p.loaded }

// Err returns the playback error for a failed player, or nil.
func (p *PooledPlayer) Err() error { return p.lastErr }

// Pool owns a bounded set of playback resources keyed by item id.
//
// Invariants:
//   - At most one pooled player is in the playing state at any instant.
//     SetActive and Play (on the active item) are the only paths into
//     StatePlaying.
//   - Pool size stays at or below capacity, except when relieving the
//     pressure would require disposing the active item; then eviction is
//     skipped for the cycle (correctness over strict capacity).
//   - Eviction never targets the current active item.
//
// Pool is not safe for concurrent use; it belongs to the screen's event
// loop goroutine.
type Pool struct {
	factory  Factory
	capacity int
	now      func() time.Time

	players map[string]*PooledPlayer
	order   []string // acquisition order, for deterministic iteration
	active  string
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithCapacity overrides the pool capacity bound.
func WithCapacity(n int) PoolOption {
	return func(p *Pool) { p.capacity = n }
}

// WithNow overrides the wall clock, for deterministic tests.
func WithNow(now func() time.Time) PoolOption {
	return func(p *Pool) { p.now = now }
}

// NewPool creates an empty pool backed by the given resource factory.
func NewPool(factory Factory, opts ...PoolOption) *Pool {
	p := &Pool{
		factory:  factory,
		capacity: DefaultCapacity,
		now:      time.Now,
		players:  make(map[string]*PooledPlayer),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ActiveID returns the item id of the active player, or "".
func (p *Pool) ActiveID() string { return p.active }

// Size returns the number of pooled players.
func (p *Pool) Size() int { return len(p.players) }

// Player returns the pooled record for an item, if present.
func (p *Pool) Player(itemID string) (*PooledPlayer, bool) {
	pl, ok := p.players[itemID]
	return pl, ok
}

// Acquire returns the pooled player for an item, constructing the
// underlying resource lazily on first need. Acquire is idempotent per
// item id: an existing player is returned unchanged, with no reload.
//
// Acquiring beyond capacity triggers an eviction cycle.
func (p *Pool) Acquire(itemID, mediaURL string) (*PooledPlayer, error) {
	if pl, ok := p.players[itemID]; ok {
		return pl, nil
	}

	res, err := p.factory(itemID, mediaURL)
	if err != nil {
		return nil, &PlaybackError{ItemID: itemID, Err: fmt.Errorf("create resource: %w", err)}
	}

	pl := &PooledPlayer{
		itemID:     itemID,
		mediaURL:   mediaURL,
		resource:   res,
		state:      StateLoading,
		lastActive: p.now(),
	}
	p.players[itemID] = pl
	p.order = append(p.order, itemID)

	slog.Debug("player: acquired", "item", itemID, "pool_size", len(p.players))

	// The fresh acquisition is exempt from its own eviction cycle.
	p.evict(itemID)
	return pl, nil
}

// SetActive makes the named item the single playing player: every other
// pooled resource is paused first, then the named one is played. The
// pause-then-play sequence is issued in order and never interleaved.
//
// If the item has no pooled player yet, it is acquired first. A player in
// the failed state is left paused so the caller can offer a retry
// affordance instead of playing garbage.
func (p *Pool) SetActive(itemID, mediaURL string) error {
	pl, err := p.Acquire(itemID, mediaURL)
	if err != nil {
		return err
	}

	p.pauseOthers(itemID)
	p.active = itemID
	pl.lastActive = p.now()

	if pl.state == StateFailed {
		slog.Debug("player: active item is failed, awaiting retry", "item", itemID)
		return nil
	}

	if err := pl.resource.Play(); err != nil {
		return p.fail(pl, fmt.Errorf("play: %w", err))
	}
	pl.state = StatePlaying

	slog.Debug("player: active changed", "item", itemID)
	return nil
}

// Stage designates the item active without starting playback: every
// other playing resource is paused, the item is acquired if needed and
// recorded as active, and it stays paused. Play or SetActive starts it
// later. Used while autoplay is gated on the first user gesture.
func (p *Pool) Stage(itemID, mediaURL string) error {
	pl, err := p.Acquire(itemID, mediaURL)
	if err != nil {
		return err
	}

	p.pauseOthers(itemID)
	p.active = itemID
	pl.lastActive = p.now()

	slog.Debug("player: staged", "item", itemID)
	return nil
}

func (p *Pool) pauseOthers(itemID string) {
	for _, id := range p.order {
		if id == itemID {
			continue
		}
		other := p.players[id]
		if other == nil || other.state != StatePlaying {
			continue
		}
		if perr := other.resource.Pause(); perr != nil {
			slog.Warn("player: pause failed", "item", id, "error", perr)
		}
		other.state = StatePaused
	}
}

// Play resumes the active item. Playing any other item is rejected; the
// single-active invariant only ever admits the active player.
func (p *Pool) Play(itemID string) error {
	if itemID != p.active {
		return fmt.Errorf("play %s: not the active item", itemID)
	}
	pl, ok := p.players[itemID]
	if !ok {
		return fmt.Errorf("play %s: not pooled", itemID)
	}
	if pl.state == StateFailed {
		return &PlaybackError{ItemID: itemID, Err: pl.lastErr}
	}
	if err := pl.resource.Play(); err != nil {
		return p.fail(pl, fmt.Errorf("play: %w", err))
	}
	pl.state = StatePlaying
	return nil
}

// Pause pauses the named item if it is pooled.
func (p *Pool) Pause(itemID string) error {
	pl, ok := p.players[itemID]
	if !ok {
		return nil
	}
	if pl.state != StatePlaying {
		return nil
	}
	if err := pl.resource.Pause(); err != nil {
		return &PlaybackError{ItemID: itemID, Err: fmt.Errorf("pause: %w", err)}
	}
	pl.state = StatePaused
	return nil
}

// Retry re-attempts playback of a failed player. Only the active item may
// be retried into the playing state.
func (p *Pool) Retry(itemID string) error {
	pl, ok := p.players[itemID]
	if !ok {
		return fmt.Errorf("retry %s: not pooled", itemID)
	}
	if pl.state != StateFailed {
		return nil
	}
	if itemID != p.active {
		return fmt.Errorf("retry %s: not the active item", itemID)
	}
	pl.lastErr = nil
	if err := pl.resource.Play(); err != nil {
		return p.fail(pl, fmt.Errorf("retry play: %w", err))
	}
	pl.state = StatePlaying
	return nil
}

// HandleEvent applies a playback resource callback.
//
// A playing report for a non-active item is immediately paused back down;
// the single-active invariant holds even against late host callbacks. An
// ended report on the active item loops playback from the start. An error
// report marks the player failed and paused but keeps it pooled - the
// user may still want to see the failed state and retry.
//
// Returns a PlaybackError for error events so the caller can surface a
// per-item notice; all other events return nil.
func (p *Pool) HandleEvent(ev Event) error {
	pl, ok := p.players[ev.ItemID]
	if !ok {
		slog.Debug("player: event for unpooled item", "item", ev.ItemID, "kind", ev.Kind)
		return nil
	}

	switch ev.Kind {
	case EventPlaying:
		pl.loaded = true
		if ev.ItemID != p.active {
			if err := pl.resource.Pause(); err != nil {
				slog.Warn("player: pause of stray playback failed", "item", ev.ItemID, "error", err)
			}
			pl.state = StatePaused
			return nil
		}
		pl.state = StatePlaying

	case EventStalled:
		slog.Debug("player: stalled", "item", ev.ItemID)

	case EventEnded:
		if ev.ItemID != p.active {
			pl.state = StatePaused
			return nil
		}
		// Feed videos loop while active.
		if err := pl.resource.Seek(0); err != nil {
			return p.fail(pl, fmt.Errorf("seek to start: %w", err))
		}
		if err := pl.resource.Play(); err != nil {
			return p.fail(pl, fmt.Errorf("loop play: %w", err))
		}
		pl.state = StatePlaying

	case EventError:
		return p.fail(pl, ev.Err)
	}

	return nil
}

// EvictIdle disposes least-recently-active players until the pool is back
// within capacity. The active item is never disposed; if pressure cannot
// be relieved without it, the cycle is skipped.
func (p *Pool) EvictIdle() []string {
	return p.evict("")
}

func (p *Pool) evict(exempt string) []string {
	var evicted []string
	for len(p.players) > p.capacity {
		victim := p.oldestIdle(exempt)
		if victim == "" {
			slog.Debug("player: eviction skipped, no disposable players over capacity")
			break
		}
		p.dispose(victim)
		evicted = append(evicted, victim)
	}
	return evicted
}

// DisposeAll releases every pooled resource. Called when the feed screen
// leaves the lifecycle.
func (p *Pool) DisposeAll() {
	for _, id := range p.order {
		if _, ok := p.players[id]; ok {
			p.dispose(id)
		}
	}
	p.active = ""
}

// oldestIdle returns the least-recently-active non-active item, or "".
func (p *Pool) oldestIdle(exempt string) string {
	victim := ""
	var victimAt time.Time
	for _, id := range p.order {
		pl, ok := p.players[id]
		if !ok || id == p.active || id == exempt {
			continue
		}
		if victim == "" || pl.lastActive.Before(victimAt) {
			victim = id
			victimAt = pl.lastActive
		}
	}
	return victim
}

func (p *Pool) dispose(itemID string) {
	pl := p.players[itemID]
	if pl == nil {
		return
	}
	if err := pl.resource.Dispose(); err != nil {
		slog.Warn("player: dispose failed", "item", itemID, "error", err)
	}
	pl.state = StateDisposed
	delete(p.players, itemID)
	for i, id := range p.order {
		if id == itemID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	slog.Debug("player: disposed", "item", itemID, "pool_size", len(p.players))
}

// fail marks a player failed, pauses it, and returns the tagged error.
func (p *Pool) fail(pl *PooledPlayer, err error) error {
	if perr := pl.resource.Pause(); perr != nil {
		slog.Debug("player: pause after failure", "item", pl.itemID, "error", perr)
	}
	pl.state = StateFailed
	pl.lastErr = err
	slog.Warn("player: failed", "item", pl.itemID, "error", err)
	return &PlaybackError{ItemID: pl.itemID, Err: err}
}
