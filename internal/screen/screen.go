// Package screen wires the feed components into the single-writer event
// loop owned by the feed screen's lifecycle. There are no ambient
// singletons: the Screen is the explicit context object every component
// hangs off.
package screen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mydigitalpro/toctoc-feed/internal/client"
	"github.com/mydigitalpro/toctoc-feed/internal/comments"
	"github.com/mydigitalpro/toctoc-feed/internal/engage"
	"github.com/mydigitalpro/toctoc-feed/internal/feed"
	"github.com/mydigitalpro/toctoc-feed/internal/player"
	"github.com/mydigitalpro/toctoc-feed/internal/tracker"
)

// ControlsAutoHide is how long the play-button overlay stays visible
// after a manual pause.
const ControlsAutoHide = 2 * time.Second

// prefetchThreshold triggers the next page load when the active index is
// this close to the end of the loaded feed.
const prefetchThreshold = 2

// ActiveState is the screen-wide playback state read by the UI.
type ActiveState struct {
	ActiveIndex          int
	Playing              bool
	ControlsVisibleUntil time.Time // zero when controls are hidden
}

// Config assembles a Screen. Service, Tokens and Factory are required.
type Config struct {
	Service client.Service
	Tokens  client.TokenSource
	Auth    client.AuthWatcher // optional; nil disables auth change events
	Factory player.Factory

	PoolCapacity int // 0 means player.DefaultCapacity
	Hooks        Hooks
	Clock        Clock               // nil means real time
	IDs          engage.IDGenerator  // nil means UUIDv7
	Launch       func(func())        // nil means `go fn()`
	Schedule     func(time.Duration, func()) // nil means time.AfterFunc
}

// Screen is the feed screen coordinator.
//
// All mutations happen in the single-writer Run loop goroutine. Gesture
// methods and host callbacks are safe from any goroutine: they only
// enqueue events. Remote calls are launched on worker goroutines that
// post their completions back onto the queue, so coordinator logic never
// runs in parallel - only interleaved.
//
// Read accessors (State, Items, Thread, ...) are for the loop goroutine
// and for tests that drive the queue synchronously via Drain.
type Screen struct {
	svc     client.Service
	tokens  client.TokenSource
	watcher client.AuthWatcher

	store    *feed.Store
	tracker  *tracker.Tracker
	pool     *player.Pool
	engage   *engage.Coordinator
	comments *comments.Cache

	queue    *eventQueue
	seq      Seq
	clock    Clock
	launch   func(func())
	schedule func(time.Duration, func())
	hooks    Hooks

	ctx context.Context

	state               ActiveState
	interacted          bool
	commentsOpen        bool
	resumeAfterComments bool
	authed              bool
	hydrated            map[string]bool
	cancelAuth          func()
}

// New assembles a screen from its collaborators.
func New(cfg Config) (*Screen, error) {
	if cfg.Service == nil {
		return nil, fmt.Errorf("screen: Service is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("screen: Tokens is required")
	}
	if cfg.Factory == nil {
		return nil, fmt.Errorf("screen: Factory is required")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}

	store := feed.NewStore()

	var poolOpts []player.PoolOption
	poolOpts = append(poolOpts, player.WithNow(clock.Now))
	if cfg.PoolCapacity > 0 {
		poolOpts = append(poolOpts, player.WithCapacity(cfg.PoolCapacity))
	}

	var engageOpts []engage.CoordinatorOption
	engageOpts = append(engageOpts, engage.WithNow(clock.Now))
	if cfg.IDs != nil {
		engageOpts = append(engageOpts, engage.WithIDGenerator(cfg.IDs))
	}

	s := &Screen{
		svc:      cfg.Service,
		tokens:   cfg.Tokens,
		watcher:  cfg.Auth,
		store:    store,
		tracker:  tracker.New(),
		pool:     player.NewPool(cfg.Factory, poolOpts...),
		engage:   engage.NewCoordinator(store, engageOpts...),
		comments: comments.NewCache(),
		queue:    newEventQueue(),
		clock:    clock,
		launch:   cfg.Launch,
		schedule: cfg.Schedule,
		hooks:    cfg.Hooks,
		ctx:      context.Background(),
		hydrated: make(map[string]bool),
	}
	s.state.ActiveIndex = tracker.NoActive
	if s.launch == nil {
		s.launch = func(fn func()) { go fn() }
	}
	if s.schedule == nil {
		s.schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}

	_, s.authed = s.tokens.CurrentAuthToken()

	if s.watcher != nil {
		s.cancelAuth = s.watcher.WatchAuth(func(st client.AuthState) {
			s.enqueue(event{Type: eventAuthChanged, auth: &st})
		})
	}

	return s, nil
}

// Run starts the single-writer event loop and immediately requests the
// first feed page. Blocks until the context is cancelled or Close is
// called.
//
// Must be called from exactly one goroutine.
func (s *Screen) Run(ctx context.Context) error {
	s.ctx = ctx
	slog.Info("screen: starting")

	s.beginLoad()

	for {
		ev, ok := s.queue.TryDequeue()
		if ok {
			s.process(ev)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("screen: stopping, context cancelled")
			s.shutdown()
			return ctx.Err()

		case <-s.queue.Wait():
			// The coalescing signal can go stale when an event is
			// enqueued while the loop is mid-process: TryDequeue drains
			// the event but the token survives. An empty wake only ends
			// the loop once the queue is closed.
			if s.queue.Len() == 0 && s.queue.Closed() {
				slog.Info("screen: stopping, queue closed")
				s.shutdown()
				return nil
			}
		}
	}
}

// Drain processes queued events until the queue is empty. It exists for
// deterministic drivers (tests, the simulator) that own the loop
// goroutine themselves instead of calling Run.
func (s *Screen) Drain() {
	for {
		ev, ok := s.queue.TryDequeue()
		if !ok {
			return
		}
		s.process(ev)
	}
}

// Close shuts the screen down: the queue stops accepting events and Run
// returns after the backlog is processed.
func (s *Screen) Close() {
	s.queue.Close()
}

func (s *Screen) shutdown() {
	if s.cancelAuth != nil {
		s.cancelAuth()
	}
	s.pool.DisposeAll()
}

// --- gesture and callback entry points (safe from any goroutine) ---

// OnViewabilityChanged reports the currently visible list entries.
func (s *Screen) OnViewabilityChanged(entries []tracker.Entry) {
	s.enqueue(event{Type: eventViewability, entries: entries})
}

// Tap toggles play/pause of the active item.
func (s *Screen) Tap() {
	s.enqueue(event{Type: eventGesture, gesture: &Gesture{Kind: GestureTap}})
}

// ToggleLike optimistically toggles the like state of a video.
func (s *Screen) ToggleLike(videoID string) {
	s.enqueue(event{Type: eventGesture, gesture: &Gesture{Kind: GestureLike, VideoID: videoID}})
}

// Share records a share of a video on the given platform.
func (s *Screen) Share(videoID, platform string) {
	s.enqueue(event{Type: eventGesture, gesture: &Gesture{Kind: GestureShare, VideoID: videoID, Platform: platform}})
}

// OpenComments opens the comment thread for a video, pausing playback.
func (s *Screen) OpenComments(videoID string) {
	s.enqueue(event{Type: eventGesture, gesture: &Gesture{Kind: GestureOpenComments, VideoID: videoID}})
}

// CloseComments closes the open comment thread, resuming playback if it
// was interrupted by OpenComments.
func (s *Screen) CloseComments() {
	s.enqueue(event{Type: eventGesture, gesture: &Gesture{Kind: GestureCloseComments}})
}

// AddComment submits a comment to the open thread.
func (s *Screen) AddComment(videoID, text string) {
	s.enqueue(event{Type: eventGesture, gesture: &Gesture{Kind: GestureAddComment, VideoID: videoID, Text: text}})
}

// ToggleCommentLike optimistically toggles the like on a comment.
func (s *Screen) ToggleCommentLike(commentID string) {
	s.enqueue(event{Type: eventGesture, gesture: &Gesture{Kind: GestureCommentLike, CommentID: commentID}})
}

// LoadMore requests the next feed page.
func (s *Screen) LoadMore() {
	s.enqueue(event{Type: eventGesture, gesture: &Gesture{Kind: GestureLoadMore}})
}

// Retry re-attempts playback of a failed item.
func (s *Screen) Retry(videoID string) {
	s.enqueue(event{Type: eventGesture, gesture: &Gesture{Kind: GestureRetry, VideoID: videoID}})
}

// HandlePlayback routes a playback resource callback into the loop.
func (s *Screen) HandlePlayback(ev player.Event) {
	s.enqueue(event{Type: eventPlayback, playback: &ev})
}

// Tick delivers a timer tick. Production timers call this via Schedule;
// deterministic drivers call it directly after advancing their clock.
func (s *Screen) Tick() {
	s.enqueue(event{Type: eventTick})
}

// --- read accessors (loop goroutine / synchronous drivers only) ---

// State returns the current screen playback state.
func (s *Screen) State() ActiveState { return s.state }

// Items returns the loaded feed sequence.
func (s *Screen) Items() []feed.VideoItem { return s.store.Items() }

// Item returns one feed item by id.
func (s *Screen) Item(videoID string) (feed.VideoItem, bool) { return s.store.Get(videoID) }

// Thread returns the open comment thread, newest first.
func (s *Screen) Thread() []comments.Comment { return s.comments.Comments() }

// ActiveVideoID returns the id of the active item, or "".
func (s *Screen) ActiveVideoID() string { return s.pool.ActiveID() }

// PoolSize returns the number of pooled players.
func (s *Screen) PoolSize() int { return s.pool.Size() }

// --- event loop ---

func (s *Screen) enqueue(ev event) {
	ev.Seq = s.seq.Next()
	if !s.queue.Enqueue(ev) {
		slog.Debug("screen: event dropped, queue closed", "type", ev.Type)
	}
}

func (s *Screen) process(ev event) {
	switch ev.Type {
	case eventGesture:
		s.handleGesture(ev.gesture)
	case eventViewability:
		s.handleViewability(ev.entries)
	case eventTick:
		s.handleTick()
	case eventPageLoaded:
		s.handlePageLoaded(ev.page)
	case eventLikeSettled:
		s.handleLikeSettled(ev.like)
	case eventShareSettled:
		s.handleShareSettled(ev.share)
	case eventCountLoaded:
		s.handleCountLoaded(ev.count)
	case eventThreadLoaded:
		s.handleThreadLoaded(ev.thread)
	case eventCommentAdded:
		s.handleCommentAdded(ev.added)
	case eventCommentLikeSettled:
		s.handleCommentLikeSettled(ev.commentLike)
	case eventPlayback:
		s.handlePlayback(*ev.playback)
	case eventAuthChanged:
		s.handleAuthChanged(*ev.auth)
	default:
		slog.Error("screen: unknown event type", "type", ev.Type, "seq", ev.Seq)
	}
}

func (s *Screen) handleGesture(g *Gesture) {
	if g == nil {
		return
	}

	// Any direct touch lifts the autoplay gate. Programmatic requests
	// (prefetch-driven load-more) do not count, and the comment gestures
	// lift the gate without starting playback they are about to pause.
	switch g.Kind {
	case GestureTap, GestureLoadMore:
	case GestureOpenComments, GestureCloseComments:
		s.interacted = true
	default:
		s.firstInteraction()
	}

	switch g.Kind {
	case GestureTap:
		s.handleTap()
	case GestureLike:
		s.handleLike(g.VideoID)
	case GestureShare:
		s.handleShare(g.VideoID, g.Platform)
	case GestureOpenComments:
		s.handleOpenComments(g.VideoID)
	case GestureCloseComments:
		s.handleCloseComments()
	case GestureAddComment:
		s.handleAddComment(g.VideoID, g.Text)
	case GestureCommentLike:
		s.handleCommentLike(g.CommentID)
	case GestureLoadMore:
		s.beginLoad()
	case GestureRetry:
		s.handleRetry(g.VideoID)
	}
}

// firstInteraction lifts the autoplay gate: nothing plays until the user
// has touched the screen once.
func (s *Screen) firstInteraction() {
	if s.interacted {
		return
	}
	s.interacted = true

	if s.commentsOpen {
		return
	}
	if active := s.pool.ActiveID(); active != "" && !s.state.Playing {
		if err := s.pool.Play(active); err != nil {
			s.noticePlayback(active, err)
			return
		}
		s.state.Playing = true
	}
}

func (s *Screen) handleTap() {
	if !s.interacted {
		s.interacted = true
	}
	active := s.pool.ActiveID()
	if active == "" {
		return
	}

	if s.state.Playing {
		if err := s.pool.Pause(active); err != nil {
			slog.Warn("screen: pause failed", "video", active, "error", err)
		}
		s.state.Playing = false
		s.state.ControlsVisibleUntil = s.clock.Now().Add(ControlsAutoHide)
		s.schedule(ControlsAutoHide, s.Tick)
		return
	}

	if err := s.pool.Play(active); err != nil {
		s.noticePlayback(active, err)
		return
	}
	s.state.Playing = true
	s.state.ControlsVisibleUntil = time.Time{}
}

func (s *Screen) handleLike(videoID string) {
	if !s.requireAuth(videoID) {
		return
	}
	call, err := s.engage.ToggleLike(videoID)
	if err != nil {
		slog.Warn("screen: toggle like rejected", "video", videoID, "error", err)
		return
	}
	if call != nil {
		s.launchLike(call)
	}
}

func (s *Screen) handleShare(videoID, platform string) {
	call, err := s.engage.RecordShare(videoID, platform)
	if err != nil {
		slog.Warn("screen: share rejected", "video", videoID, "error", err)
		return
	}
	s.launchShare(call)
}

func (s *Screen) handleOpenComments(videoID string) {
	if s.commentsOpen && s.comments.OpenVideoID() == videoID {
		return
	}

	if !s.commentsOpen {
		s.resumeAfterComments = s.state.Playing
		if active := s.pool.ActiveID(); active != "" && s.state.Playing {
			if err := s.pool.Pause(active); err != nil {
				slog.Warn("screen: pause for comments failed", "video", active, "error", err)
			}
			s.state.Playing = false
		}
	}
	s.commentsOpen = true

	req := s.comments.Open(videoID)
	s.launchThreadLoad(req)
}

func (s *Screen) handleCloseComments() {
	if !s.commentsOpen {
		return
	}
	s.commentsOpen = false
	s.comments.Close()

	if s.resumeAfterComments {
		if active := s.pool.ActiveID(); active != "" {
			if err := s.pool.Play(active); err != nil {
				s.noticePlayback(active, err)
				return
			}
			s.state.Playing = true
		}
	}
}

func (s *Screen) handleAddComment(videoID, text string) {
	if !s.requireAuth(videoID) {
		return
	}
	req, err := s.comments.AddComment(videoID, text)
	if err != nil {
		if err != comments.ErrBlankComment {
			s.notice(Notice{Kind: NoticeCommentAddFailed, VideoID: videoID, Err: err})
		}
		return
	}
	s.launchSubmitComment(req)
}

func (s *Screen) handleCommentLike(commentID string) {
	if !s.requireAuth("") {
		return
	}
	tg, err := s.comments.ToggleLike(commentID)
	if err != nil {
		slog.Debug("screen: comment like rejected", "comment", commentID, "error", err)
		return
	}
	s.launchCommentLike(tg)
}

func (s *Screen) handleRetry(videoID string) {
	if err := s.pool.Retry(videoID); err != nil {
		s.noticePlayback(videoID, err)
		return
	}
	if videoID == s.pool.ActiveID() {
		s.state.Playing = true
	}
}

func (s *Screen) handleViewability(entries []tracker.Entry) {
	now := s.clock.Now()
	s.tracker.Observe(entries, now)
	s.trySettle(now)

	if deadline, ok := s.tracker.NextDeadline(); ok {
		if wait := deadline.Sub(now); wait > 0 {
			s.schedule(wait, s.Tick)
		}
	}
}

func (s *Screen) handleTick() {
	now := s.clock.Now()
	s.trySettle(now)

	if until := s.state.ControlsVisibleUntil; !until.IsZero() && !now.Before(until) {
		s.state.ControlsVisibleUntil = time.Time{}
	}
}

func (s *Screen) trySettle(now time.Time) {
	act, changed := s.tracker.Settle(now)
	if !changed {
		return
	}
	s.activate(act)
}

// activate applies an active-index change: the pool pauses the previous
// player and plays the new one as one ordered sequence.
func (s *Screen) activate(act tracker.Activation) {
	item, ok := s.store.At(act.Active)
	if !ok {
		slog.Error("screen: activation for unknown index", "index", act.Active)
		return
	}

	s.state.ActiveIndex = act.Active
	s.state.ControlsVisibleUntil = time.Time{}

	if !s.interacted {
		// Autoplay is gated until the first user gesture; stage the item
		// as active so a tap can start it, but do not play.
		if err := s.pool.Stage(item.ID, item.MediaURL); err != nil {
			s.noticePlayback(item.ID, err)
		}
		s.state.Playing = false
	} else if err := s.pool.SetActive(item.ID, item.MediaURL); err != nil {
		s.noticePlayback(item.ID, err)
		s.state.Playing = false
	} else {
		pl, _ := s.pool.Player(item.ID)
		s.state.Playing = pl != nil && pl.State() == player.StatePlaying
	}

	if s.hooks.OnActiveChanged != nil {
		s.hooks.OnActiveChanged(act.Previous, act.Active, item.ID)
	}

	s.hydrate(item.ID)
	s.warmNeighbor(act.Active + 1)

	if act.Active >= s.store.Len()-prefetchThreshold && s.store.HasMore() {
		s.beginLoad()
	}
}

// warmNeighbor acquires the next item's resource ahead of the swipe, but
// only within the render window - never for the whole feed upfront.
func (s *Screen) warmNeighbor(index int) {
	item, ok := s.store.At(index)
	if !ok {
		return
	}
	if _, err := s.pool.Acquire(item.ID, item.MediaURL); err != nil {
		slog.Debug("screen: neighbor warmup failed", "video", item.ID, "error", err)
	}
}

// hydrate fetches authoritative like/share counts once per video.
func (s *Screen) hydrate(videoID string) {
	if s.hydrated[videoID] {
		return
	}
	s.hydrated[videoID] = true
	s.launchCountLoad(videoID, engage.KindLike)
	s.launchCountLoad(videoID, engage.KindShare)
}

func (s *Screen) beginLoad() {
	req, ok := s.store.BeginLoad()
	if !ok {
		return
	}
	s.launchPageLoad(req)
}

func (s *Screen) handlePageLoaded(p *pageLoaded) {
	appended, err := s.store.CompleteLoad(p.req, p.page, p.err)
	if err != nil {
		if feed.IsEmptyResult(err) {
			slog.Info("screen: end of feed reached")
			return
		}
		s.notice(Notice{Kind: NoticeFeedLoadFailed, Err: err})
		return
	}
	if appended {
		slog.Debug("screen: feed grew", "total", s.store.Len())
	}
}

func (s *Screen) handleLikeSettled(l *likeSettled) {
	follow, err := s.engage.CompleteLike(l.call, l.res, l.err)
	if err != nil {
		if engage.IsMutationConflict(err) {
			slog.Debug("screen: like confirmation superseded", "video", l.call.VideoID)
			return
		}
		s.notice(Notice{Kind: NoticeLikeFailed, VideoID: l.call.VideoID, Err: err})
		return
	}
	if follow != nil {
		s.launchLike(follow)
	}
}

func (s *Screen) handleShareSettled(sh *shareSettled) {
	if err := s.engage.CompleteShare(sh.call, sh.res, sh.err); err != nil {
		// Shares are fire-and-increment; the local count stands.
		slog.Warn("screen: share record failed", "video", sh.call.VideoID, "error", err)
	}
}

func (s *Screen) handleCountLoaded(c *countLoaded) {
	if c.err != nil {
		slog.Debug("screen: count hydration failed",
			"video", c.videoID,
			"kind", c.kind,
			"error", c.err,
		)
		return
	}
	switch c.kind {
	case engage.KindShare:
		s.engage.ApplyShareCount(c.videoID, c.count)
	default:
		s.engage.ApplyLikeCount(c.videoID, c.count)
	}
}

func (s *Screen) handleThreadLoaded(t *threadLoaded) {
	if _, err := s.comments.CompleteLoad(t.req, t.list, t.err); err != nil {
		s.notice(Notice{Kind: NoticeCommentsFailed, VideoID: t.req.VideoID, Err: err})
	}
}

func (s *Screen) handleCommentAdded(a *commentAdded) {
	reload, err := s.comments.CompleteAdd(a.req, a.err)
	if err != nil {
		s.notice(Notice{Kind: NoticeCommentAddFailed, VideoID: a.req.VideoID, Err: err})
		return
	}
	if reload != nil {
		s.launchThreadLoad(reload)
	}
}

func (s *Screen) handleCommentLikeSettled(cl *commentLikeSettled) {
	if err := s.comments.CompleteLikeToggle(cl.tg, cl.err); err != nil {
		s.notice(Notice{Kind: NoticeCommentLikeFailed, Err: err})
	}
}

func (s *Screen) handlePlayback(ev player.Event) {
	err := s.pool.HandleEvent(ev)
	if err != nil {
		s.noticePlayback(ev.ItemID, err)
	}
	if ev.ItemID == s.pool.ActiveID() {
		if pl, ok := s.pool.Player(ev.ItemID); ok {
			s.state.Playing = pl.State() == player.StatePlaying
		}
	}
}

func (s *Screen) handleAuthChanged(st client.AuthState) {
	s.authed = st.Authenticated
	slog.Info("screen: auth state changed", "authenticated", st.Authenticated, "user", st.UserID)
}

// requireAuth gates social actions behind a present credential.
func (s *Screen) requireAuth(videoID string) bool {
	if _, ok := s.tokens.CurrentAuthToken(); !ok || !s.authed {
		s.notice(Notice{Kind: NoticeAuthRequired, VideoID: videoID})
		return false
	}
	return true
}

func (s *Screen) notice(n Notice) {
	if s.hooks.OnNotice != nil {
		s.hooks.OnNotice(n)
	}
}

func (s *Screen) noticePlayback(videoID string, err error) {
	slog.Warn("screen: playback failure", "video", videoID, "error", err)
	s.notice(Notice{Kind: NoticePlaybackFailed, VideoID: videoID, Err: err})
}

// --- remote call launchers ---

func (s *Screen) launchPageLoad(req *feed.PageRequest) {
	s.launch(func() {
		page, err := s.svc.FetchFeedPage(s.ctx, req.Cursor)
		s.enqueue(event{Type: eventPageLoaded, page: &pageLoaded{req: req, page: page, err: err}})
	})
}

func (s *Screen) launchLike(call *engage.LikeCall) {
	s.launch(func() {
		var (
			res client.LikeResult
			err error
		)
		if call.Like {
			res, err = s.svc.SubmitLike(s.ctx, call.VideoID)
		} else {
			res, err = s.svc.SubmitUnlike(s.ctx, call.VideoID)
		}
		s.enqueue(event{Type: eventLikeSettled, like: &likeSettled{call: call, res: res, err: err}})
	})
}

func (s *Screen) launchShare(call *engage.ShareCall) {
	s.launch(func() {
		res, err := s.svc.SubmitShare(s.ctx, call.VideoID, call.Platform)
		s.enqueue(event{Type: eventShareSettled, share: &shareSettled{call: call, res: res, err: err}})
	})
}

func (s *Screen) launchCountLoad(videoID string, kind engage.Kind) {
	s.launch(func() {
		var (
			count int
			err   error
		)
		if kind == engage.KindShare {
			count, err = s.svc.FetchShareCount(s.ctx, videoID)
		} else {
			count, err = s.svc.FetchLikeCount(s.ctx, videoID)
		}
		s.enqueue(event{Type: eventCountLoaded, count: &countLoaded{videoID: videoID, kind: kind, count: count, err: err}})
	})
}

func (s *Screen) launchThreadLoad(req *comments.LoadRequest) {
	s.launch(func() {
		list, err := s.svc.FetchComments(s.ctx, req.VideoID)
		s.enqueue(event{Type: eventThreadLoaded, thread: &threadLoaded{req: req, list: list, err: err}})
	})
}

func (s *Screen) launchSubmitComment(req *comments.AddRequest) {
	s.launch(func() {
		err := s.svc.SubmitComment(s.ctx, req.VideoID, req.Content)
		s.enqueue(event{Type: eventCommentAdded, added: &commentAdded{req: req, err: err}})
	})
}

func (s *Screen) launchCommentLike(tg *comments.LikeToggle) {
	s.launch(func() {
		err := s.svc.SubmitCommentLike(s.ctx, tg.CommentID)
		s.enqueue(event{Type: eventCommentLikeSettled, commentLike: &commentLikeSettled{tg: tg, err: err}})
	})
}
