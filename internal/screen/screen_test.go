package screen

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mydigitalpro/toctoc-feed/internal/client"
	"github.com/mydigitalpro/toctoc-feed/internal/comments"
	"github.com/mydigitalpro/toctoc-feed/internal/engage"
	"github.com/mydigitalpro/toctoc-feed/internal/feed"
	"github.com/mydigitalpro/toctoc-feed/internal/player"
	"github.com/mydigitalpro/toctoc-feed/internal/testutil"
	"github.com/mydigitalpro/toctoc-feed/internal/tracker"
)

// fakeSvc is a scripted backend. Calls succeed against the configured
// fixtures unless an op is listed in failing.
type fakeSvc struct {
	pages    []feed.Page
	threads  map[string][]comments.Comment
	failing  map[string]bool
	requests []string
}

func (f *fakeSvc) err(op string) error {
	if f.failing[op] {
		return &client.TransportError{Op: op, StatusCode: 500, Err: fmt.Errorf("down")}
	}
	return nil
}

func (f *fakeSvc) FetchFeedPage(_ context.Context, cursor string) (feed.Page, error) {
	f.requests = append(f.requests, "feed:"+cursor)
	if err := f.err("feed"); err != nil {
		return feed.Page{}, err
	}
	idx := 0
	if cursor != "" {
		fmt.Sscanf(cursor, "%d", &idx)
	}
	if idx >= len(f.pages) {
		return feed.Page{}, nil
	}
	return f.pages[idx], nil
}

func (f *fakeSvc) SubmitLike(_ context.Context, videoID string) (client.LikeResult, error) {
	f.requests = append(f.requests, "like:"+videoID)
	if err := f.err("like"); err != nil {
		return client.LikeResult{}, err
	}
	return client.LikeResult{Liked: true, Count: 11}, nil
}

func (f *fakeSvc) SubmitUnlike(_ context.Context, videoID string) (client.LikeResult, error) {
	f.requests = append(f.requests, "unlike:"+videoID)
	if err := f.err("unlike"); err != nil {
		return client.LikeResult{}, err
	}
	return client.LikeResult{Liked: false, Count: 10}, nil
}

func (f *fakeSvc) SubmitShare(_ context.Context, videoID, platform string) (client.ShareResult, error) {
	f.requests = append(f.requests, "share:"+videoID)
	if err := f.err("share"); err != nil {
		return client.ShareResult{}, err
	}
	return client.ShareResult{Count: 5}, nil
}

func (f *fakeSvc) FetchLikeCount(_ context.Context, videoID string) (int, error) {
	f.requests = append(f.requests, "like_count:"+videoID)
	return 10, f.err("like_count")
}

func (f *fakeSvc) FetchShareCount(_ context.Context, videoID string) (int, error) {
	f.requests = append(f.requests, "share_count:"+videoID)
	return 4, f.err("share_count")
}

func (f *fakeSvc) FetchComments(_ context.Context, videoID string) ([]comments.Comment, error) {
	f.requests = append(f.requests, "comments:"+videoID)
	if err := f.err("comments"); err != nil {
		return nil, err
	}
	return f.threads[videoID], nil
}

func (f *fakeSvc) SubmitComment(_ context.Context, videoID, content string) error {
	f.requests = append(f.requests, "add_comment:"+videoID)
	return f.err("add_comment")
}

func (f *fakeSvc) SubmitCommentLike(_ context.Context, commentID string) error {
	f.requests = append(f.requests, "comment_like:"+commentID)
	return f.err("comment_like")
}

type fixture struct {
	scr     *Screen
	svc     *fakeSvc
	clock   *testutil.FakeClock
	pending []func()
	log     []string
	notices []Notice
}

func testItem(id string) feed.VideoItem {
	return feed.VideoItem{
		ID:       id,
		MediaURL: "https://cdn.example/" + id + ".m3u8",
		Status:   feed.StatusPublished,
		Counters: feed.Counters{Likes: 10, Shares: 4},
	}
}

type loggedResource struct {
	id  string
	log *[]string
}

func (r *loggedResource) Play() error  { *r.log = append(*r.log, "play "+r.id); return nil }
func (r *loggedResource) Pause() error { *r.log = append(*r.log, "pause "+r.id); return nil }
func (r *loggedResource) Seek(time.Duration) error {
	*r.log = append(*r.log, "seek "+r.id)
	return nil
}
func (r *loggedResource) Dispose() error { *r.log = append(*r.log, "dispose "+r.id); return nil }

func newFixture(t *testing.T, svc *fakeSvc, token string) *fixture {
	t.Helper()
	f := &fixture{
		svc:   svc,
		clock: testutil.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
	}

	scr, err := New(Config{
		Service: svc,
		Tokens:  client.StaticTokenSource(token),
		Factory: func(itemID, mediaURL string) (player.Resource, error) {
			return &loggedResource{id: itemID, log: &f.log}, nil
		},
		Clock:    f.clock,
		IDs:      &engage.SequentialIDGenerator{},
		Launch:   func(fn func()) { f.pending = append(f.pending, fn) },
		Schedule: func(time.Duration, func()) {},
		Hooks: Hooks{
			OnNotice: func(n Notice) { f.notices = append(f.notices, n) },
		},
	})
	require.NoError(t, err)
	f.scr = scr
	return f
}

// flush runs all pending remote completions and drains the loop.
func (f *fixture) flush() {
	for len(f.pending) > 0 {
		fn := f.pending[0]
		f.pending = f.pending[1:]
		fn()
	}
	f.scr.Drain()
}

// loadFirstPage boots the screen like Run does and settles the load.
func (f *fixture) loadFirstPage() {
	f.scr.LoadMore()
	f.scr.Drain()
	f.flush()
}

// scrollTo makes the item at index fully visible and settles it.
func (f *fixture) scrollTo(index int) {
	f.scr.OnViewabilityChanged([]tracker.Entry{{Index: index, VisibleFraction: 1.0}})
	f.scr.Drain()
	f.clock.Advance(tracker.DefaultDwell)
	f.scr.Tick()
	f.scr.Drain()
}

func twoPageSvc() *fakeSvc {
	return &fakeSvc{
		pages: []feed.Page{
			{
				Items:      []feed.VideoItem{testItem("v1"), testItem("v2"), testItem("v3")},
				NextCursor: "1",
				HasMore:    true,
			},
			{
				Items:      []feed.VideoItem{testItem("v4"), testItem("v5")},
				NextCursor: "2",
				HasMore:    false,
			},
		},
		threads: map[string][]comments.Comment{},
		failing: map[string]bool{},
	}
}

func TestScreen_InitialLoad(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()

	assert.Len(t, f.scr.Items(), 3)
	assert.Equal(t, tracker.NoActive, f.scr.State().ActiveIndex)
}

func TestScreen_ActivationWarmsWithoutAutoplay(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()

	f.scrollTo(0)

	st := f.scr.State()
	assert.Equal(t, 0, st.ActiveIndex)
	assert.False(t, st.Playing, "nothing plays before the first user gesture")
	assert.NotContains(t, f.log, "play v1")
	assert.Equal(t, "v1", f.scr.ActiveVideoID())
	assert.Equal(t, 2, f.scr.PoolSize(), "active item plus warmed neighbor")
}

func TestScreen_FirstTapStartsPlayback(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()
	f.scrollTo(0)

	f.scr.Tap()
	f.scr.Drain()

	assert.True(t, f.scr.State().Playing)
	assert.Contains(t, f.log, "play v1")
}

func TestScreen_FirstGestureLiftsGateAndPlays(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()
	f.scrollTo(0)

	// Any direct touch lifts the gate; the staged item starts playing.
	f.scr.ToggleLike("v1")
	f.scr.Drain()

	assert.True(t, f.scr.State().Playing)
	assert.Contains(t, f.log, "play v1")
}

func TestScreen_TapTogglesWithControlsTimeout(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()
	f.scrollTo(0)

	f.scr.Tap() // play
	f.scr.Drain()
	f.scr.Tap() // pause, controls show
	f.scr.Drain()

	st := f.scr.State()
	assert.False(t, st.Playing)
	assert.Equal(t, f.clock.Now().Add(ControlsAutoHide), st.ControlsVisibleUntil)

	f.clock.Advance(ControlsAutoHide)
	f.scr.Tick()
	f.scr.Drain()
	assert.True(t, f.scr.State().ControlsVisibleUntil.IsZero(), "controls auto-hide")
}

func TestScreen_SwipePausesOldPlaysNew(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()
	f.scrollTo(0)
	f.scr.Tap()
	f.scr.Drain()
	f.flush()
	f.log = nil

	f.scrollTo(1)

	require.GreaterOrEqual(t, len(f.log), 2)
	assert.Equal(t, []string{"pause v1", "play v2"}, f.log[:2])
	assert.Equal(t, "v2", f.scr.ActiveVideoID())
	assert.True(t, f.scr.State().Playing)
}

func TestScreen_PrefetchNearEnd(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()
	f.scrollTo(0)
	f.scr.Tap()
	f.scr.Drain()
	f.flush()

	// Index 1 of 3 is within the prefetch threshold of the end.
	f.scrollTo(1)
	f.flush()

	assert.Len(t, f.scr.Items(), 5, "second page prefetched")
}

func TestScreen_FeedLoadFailureNotice(t *testing.T) {
	svc := twoPageSvc()
	svc.failing["feed"] = true
	f := newFixture(t, svc, "tok")
	f.loadFirstPage()

	require.Len(t, f.notices, 1)
	assert.Equal(t, NoticeFeedLoadFailed, f.notices[0].Kind)
	assert.Empty(t, f.scr.Items())

	// Recovery: the next load succeeds.
	svc.failing["feed"] = false
	f.scr.LoadMore()
	f.scr.Drain()
	f.flush()
	assert.Len(t, f.scr.Items(), 3)
}

func TestScreen_LikeRequiresAuth(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "")
	f.loadFirstPage()
	f.scrollTo(0)

	f.scr.ToggleLike("v1")
	f.scr.Drain()

	require.NotEmpty(t, f.notices)
	assert.Equal(t, NoticeAuthRequired, f.notices[0].Kind)

	item, _ := f.scr.Item("v1")
	assert.False(t, item.Liked, "no optimistic flip while signed out")
}

func TestScreen_LikeRoundTrip(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()
	f.scrollTo(0)
	f.flush() // settle hydration

	f.scr.ToggleLike("v1")
	f.scr.Drain()

	item, _ := f.scr.Item("v1")
	assert.True(t, item.Liked)
	assert.Equal(t, 11, item.Counters.Likes)

	f.flush()
	item, _ = f.scr.Item("v1")
	assert.True(t, item.Liked)
	assert.Equal(t, 11, item.Counters.Likes, "server count confirmed")
}

func TestScreen_LikeFailureRollsBackAndNotifies(t *testing.T) {
	svc := twoPageSvc()
	svc.failing["like"] = true
	f := newFixture(t, svc, "tok")
	f.loadFirstPage()
	f.scrollTo(0)
	f.flush()

	f.scr.ToggleLike("v1")
	f.scr.Drain()
	f.flush()

	item, _ := f.scr.Item("v1")
	assert.False(t, item.Liked)
	assert.Equal(t, 10, item.Counters.Likes)

	var kinds []NoticeKind
	for _, n := range f.notices {
		kinds = append(kinds, n.Kind)
	}
	assert.Contains(t, kinds, NoticeLikeFailed)
}

func TestScreen_OpenCommentsPausesAndCloseResumes(t *testing.T) {
	svc := twoPageSvc()
	svc.threads["v1"] = []comments.Comment{
		{ID: "c1", Author: comments.Profile{Handle: "kai"}, Content: "première!", CreatedAt: time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC)},
	}
	f := newFixture(t, svc, "tok")
	f.loadFirstPage()
	f.scrollTo(0)
	f.scr.Tap()
	f.scr.Drain()
	f.flush()
	f.log = nil

	f.scr.OpenComments("v1")
	f.scr.Drain()
	assert.Contains(t, f.log, "pause v1")
	assert.False(t, f.scr.State().Playing)

	f.flush()
	require.Len(t, f.scr.Thread(), 1)
	assert.Equal(t, "c1", f.scr.Thread()[0].ID)

	f.scr.CloseComments()
	f.scr.Drain()
	assert.Contains(t, f.log, "play v1")
	assert.True(t, f.scr.State().Playing)
	assert.Empty(t, f.scr.Thread())
}

func TestScreen_CloseCommentsDoesNotResumeIfWasPaused(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()
	f.scrollTo(0)
	// Never tapped: not playing when comments open.

	f.scr.OpenComments("v1")
	f.scr.Drain()
	f.flush()
	f.scr.CloseComments()
	f.scr.Drain()

	assert.False(t, f.scr.State().Playing)
}

func TestScreen_AddCommentReloadsThread(t *testing.T) {
	svc := twoPageSvc()
	f := newFixture(t, svc, "tok")
	f.loadFirstPage()
	f.scrollTo(0)

	f.scr.OpenComments("v1")
	f.scr.Drain()
	f.flush()
	assert.Empty(t, f.scr.Thread())

	// The backend accepts the comment; the reload serves it.
	svc.threads["v1"] = []comments.Comment{
		{ID: "c9", Author: comments.Profile{Handle: "you"}, Content: "superbe", CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	f.scr.AddComment("v1", "  superbe  ")
	f.scr.Drain()
	f.flush() // submit, then the follow-up reload
	f.flush()

	require.Len(t, f.scr.Thread(), 1)
	assert.Equal(t, "c9", f.scr.Thread()[0].ID)
}

func TestScreen_PlaybackErrorNoticeAndRetry(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()
	f.scrollTo(0)
	f.scr.Tap()
	f.scr.Drain()

	f.scr.HandlePlayback(player.Event{ItemID: "v1", Kind: player.EventError, Err: fmt.Errorf("decode")})
	f.scr.Drain()

	assert.False(t, f.scr.State().Playing)
	var kinds []NoticeKind
	for _, n := range f.notices {
		kinds = append(kinds, n.Kind)
	}
	assert.Contains(t, kinds, NoticePlaybackFailed)

	f.scr.Retry("v1")
	f.scr.Drain()
	assert.True(t, f.scr.State().Playing)
}

func TestScreen_EndedLoops(t *testing.T) {
	f := newFixture(t, twoPageSvc(), "tok")
	f.loadFirstPage()
	f.scrollTo(0)
	f.scr.Tap()
	f.scr.Drain()
	f.log = nil

	f.scr.HandlePlayback(player.Event{ItemID: "v1", Kind: player.EventEnded})
	f.scr.Drain()

	assert.Equal(t, []string{"seek v1", "play v1"}, f.log)
	assert.True(t, f.scr.State().Playing)
}

// runFixture builds a screen whose remote calls complete synchronously
// inside the loop, the shape that leaves stale wake tokens behind.
func runFixture(t *testing.T, svc *fakeSvc, activated chan string) (*Screen, *[]string) {
	t.Helper()
	log := new([]string)

	scr, err := New(Config{
		Service: svc,
		Tokens:  client.StaticTokenSource("tok"),
		Factory: func(itemID, mediaURL string) (player.Resource, error) {
			return &loggedResource{id: itemID, log: log}, nil
		},
		IDs:      &engage.SequentialIDGenerator{},
		Launch:   func(fn func()) { fn() },
		Schedule: func(time.Duration, func()) {},
		Hooks: Hooks{
			OnActiveChanged: func(_, _ int, videoID string) { activated <- videoID },
		},
	})
	require.NoError(t, err)
	return scr, log
}

func TestScreen_RunServesGesturesAfterCompletionBurst(t *testing.T) {
	activated := make(chan string, 4)
	scr, log := runFixture(t, twoPageSvc(), activated)

	done := make(chan error, 1)
	go func() { done <- scr.Run(context.Background()) }()

	// The first page load completes inside the loop before it ever
	// blocks, so the loop's next empty wake is a stale one. It must keep
	// serving events.
	scr.OnViewabilityChanged([]tracker.Entry{{Index: 0, VisibleFraction: 1.0}})

	select {
	case id := <-activated:
		assert.Equal(t, "v1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("loop stopped serving events before the scroll settled")
	}

	scr.Tap()
	scr.ToggleLike("v1")
	scr.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}

	item, ok := scr.Item("v1")
	require.True(t, ok)
	assert.True(t, item.Liked, "gestures enqueued after the burst still land")
	assert.Contains(t, *log, "play v1")
}

func TestScreen_RunStopsOnContextCancel(t *testing.T) {
	activated := make(chan string, 4)
	scr, _ := runFixture(t, twoPageSvc(), activated)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scr.Run(ctx) }()

	scr.OnViewabilityChanged([]tracker.Entry{{Index: 0, VisibleFraction: 1.0}})
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("loop stopped serving events before the scroll settled")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestScreen_ShareFailureKeepsCount(t *testing.T) {
	svc := twoPageSvc()
	svc.failing["share"] = true
	f := newFixture(t, svc, "tok")
	f.loadFirstPage()
	f.scrollTo(0)
	f.flush()

	f.scr.Share("v1", "whatsapp")
	f.scr.Drain()
	f.flush()

	item, _ := f.scr.Item("v1")
	assert.Equal(t, 5, item.Counters.Shares, "share never rolls back")
	for _, n := range f.notices {
		assert.NotEqual(t, NoticeKind("share_failed"), n.Kind)
	}
}
