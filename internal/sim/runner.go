// Package sim runs scripted feed sessions deterministically. A scenario
// supplies backend fixtures and an ordered script of gestures, clock
// advances and completion flushes; the runner intercepts every async
// boundary (remote calls, timers, the clock) so the exact interleaving of
// completions is under script control. The resulting trace is stable
// across runs and suitable for golden comparison.
package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/mydigitalpro/toctoc-feed/internal/client"
	"github.com/mydigitalpro/toctoc-feed/internal/engage"
	"github.com/mydigitalpro/toctoc-feed/internal/player"
	"github.com/mydigitalpro/toctoc-feed/internal/screen"
	"github.com/mydigitalpro/toctoc-feed/internal/testutil"
	"github.com/mydigitalpro/toctoc-feed/internal/tracker"
)

// simStart anchors every scenario's clock so traces never depend on wall
// time.
var simStart = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// Runner executes scenarios.
type Runner struct {
	cfg Config
}

// NewRunner creates a runner with the given environment config.
func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg}
}

// Run executes one scenario and returns its trace.
func (r *Runner) Run(sc *Scenario) (*Result, error) {
	s := newSession(sc, r.cfg)
	if err := s.start(); err != nil {
		return nil, err
	}
	for i, step := range sc.Steps {
		if err := s.execute(step); err != nil {
			return nil, fmt.Errorf("sim: scenario %q step %d (%s): %w", sc.Name, i, step.Op, err)
		}
	}
	s.scr.Close()
	return &Result{ScenarioName: sc.Name, Trace: s.rec.events}, nil
}

// session is one scenario execution: the screen under test plus every
// intercepted async boundary.
type session struct {
	sc      *Scenario
	cfg     Config
	scr     *screen.Screen
	clock   *testutil.FakeClock
	rec     *recorder
	tokens  *mutableTokens
	auth    *authHub
	pending []func() // intercepted remote completions, FIFO
}

func newSession(sc *Scenario, cfg Config) *session {
	s := &session{
		sc:     sc,
		cfg:    cfg,
		clock:  testutil.NewFakeClock(simStart),
		rec:    &recorder{},
		tokens: &mutableTokens{token: sc.AuthToken},
		auth:   &authHub{},
	}
	return s
}

func (s *session) start() error {
	svc := newBackend(s.sc, s.cfgPageSize(), s.clock.Now, s.rec)

	scr, err := screen.New(screen.Config{
		Service:      svc,
		Tokens:       s.tokens,
		Auth:         s.auth,
		Factory:      s.newResource,
		PoolCapacity: s.cfgPoolCapacity(),
		Clock:        s.clock,
		IDs:          &engage.SequentialIDGenerator{},
		Launch:       func(fn func()) { s.pending = append(s.pending, fn) },
		Schedule:     func(time.Duration, func()) {}, // script advances deliver ticks
		Hooks: screen.Hooks{
			OnActiveChanged: func(prev, active int, videoID string) {
				p, a := prev, active
				s.rec.add(TraceEvent{Type: "active_changed", Previous: &p, Active: &a, VideoID: videoID})
			},
			OnNotice: func(n screen.Notice) {
				ev := TraceEvent{Type: "notice", Notice: string(n.Kind), VideoID: n.VideoID}
				if n.Err != nil {
					ev.Error = n.Err.Error()
				}
				s.rec.add(ev)
			},
		},
	})
	if err != nil {
		return err
	}
	s.scr = scr

	// The screen requests its first page on startup.
	scr.LoadMore()
	scr.Drain()
	return nil
}

func (s *session) cfgPageSize() int {
	if s.sc.PageSize > 0 {
		return s.sc.PageSize
	}
	return s.cfg.PageSize
}

func (s *session) cfgPoolCapacity() int {
	return s.cfg.PoolCapacity
}

func (s *session) execute(step Step) error {
	switch step.Op {
	case "scroll":
		entries := step.Entries
		if len(entries) == 0 {
			entries = []EntrySpec{{Index: step.Index, Fraction: 1.0}}
		}
		obs := make([]tracker.Entry, 0, len(entries))
		for _, e := range entries {
			obs = append(obs, tracker.Entry{Index: e.Index, VisibleFraction: e.Fraction})
		}
		s.scr.OnViewabilityChanged(obs)

	case "advance":
		s.clock.Advance(time.Duration(step.For))
		s.scr.Tick()

	case "flush":
		n := step.Count
		if n <= 0 || n > len(s.pending) {
			n = len(s.pending)
		}
		for i := 0; i < n; i++ {
			fn := s.pending[0]
			s.pending = s.pending[1:]
			fn()
			s.scr.Drain()
		}

	case "tap":
		s.scr.Tap()

	case "like":
		s.scr.ToggleLike(step.Video)

	case "share":
		s.scr.Share(step.Video, step.Platform)

	case "open_comments":
		s.scr.OpenComments(step.Video)

	case "close_comments":
		s.scr.CloseComments()

	case "add_comment":
		s.scr.AddComment(step.Video, step.Text)

	case "comment_like":
		s.scr.ToggleCommentLike(step.Comment)

	case "load_more":
		s.scr.LoadMore()

	case "retry":
		s.scr.Retry(step.Video)

	case "playback_ended":
		s.scr.HandlePlayback(player.Event{ItemID: step.Video, Kind: player.EventEnded})

	case "playback_error":
		s.scr.HandlePlayback(player.Event{
			ItemID: step.Video,
			Kind:   player.EventError,
			Err:    fmt.Errorf("scripted decode failure"),
		})

	case "auth":
		s.tokens.set(step.Token)
		s.auth.publish(client.AuthState{Authenticated: step.Token != "", UserID: "1"})

	case "snapshot":
		s.scr.Drain()
		s.rec.add(TraceEvent{Type: "snapshot", Snapshot: s.snapshot()})
		return nil

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	s.scr.Drain()
	return nil
}

func (s *session) snapshot() *Snapshot {
	st := s.scr.State()
	snap := &Snapshot{
		ActiveIndex: st.ActiveIndex,
		ActiveVideo: s.scr.ActiveVideoID(),
		Playing:     st.Playing,
		FeedLen:     len(s.scr.Items()),
		PoolSize:    s.scr.PoolSize(),
	}
	for _, item := range s.scr.Items() {
		snap.Items = append(snap.Items, ItemSnapshot{
			VideoID:  item.ID,
			Likes:    item.Counters.Likes,
			Comments: item.Counters.Comments,
			Shares:   item.Counters.Shares,
			Liked:    item.Liked,
		})
	}
	for _, c := range s.scr.Thread() {
		snap.Thread = append(snap.Thread, fmt.Sprintf("%s %s: %s", c.ID, c.Author.Handle, c.Content))
	}
	return snap
}

// newResource is the player.Factory: every resource action lands in the
// trace.
func (s *session) newResource(itemID, mediaURL string) (player.Resource, error) {
	s.rec.add(TraceEvent{Type: "resource", Op: "create", VideoID: itemID})
	return &simResource{itemID: itemID, rec: s.rec}, nil
}

type simResource struct {
	itemID string
	rec    *recorder
}

func (r *simResource) Play() error {
	r.rec.add(TraceEvent{Type: "resource", Op: "play", VideoID: r.itemID})
	return nil
}

func (r *simResource) Pause() error {
	r.rec.add(TraceEvent{Type: "resource", Op: "pause", VideoID: r.itemID})
	return nil
}

func (r *simResource) Seek(pos time.Duration) error {
	r.rec.add(TraceEvent{Type: "resource", Op: "seek", VideoID: r.itemID})
	return nil
}

func (r *simResource) Dispose() error {
	r.rec.add(TraceEvent{Type: "resource", Op: "dispose", VideoID: r.itemID})
	return nil
}

// mutableTokens is a TokenSource the auth step can swap at runtime.
type mutableTokens struct {
	mu    sync.Mutex
	token string
}

func (t *mutableTokens) CurrentAuthToken() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token, t.token != ""
}

func (t *mutableTokens) set(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
}

// authHub fans auth state changes out to subscribers.
type authHub struct {
	mu  sync.Mutex
	fns []func(client.AuthState)
}

func (h *authHub) WatchAuth(fn func(client.AuthState)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
	i := len(h.fns) - 1
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.fns[i] = nil
	}
}

func (h *authHub) publish(st client.AuthState) {
	h.mu.Lock()
	fns := make([]func(client.AuthState), len(h.fns))
	copy(fns, h.fns)
	h.mu.Unlock()
	for _, fn := range fns {
		if fn != nil {
			fn(st)
		}
	}
}
