package player

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mydigitalpro/toctoc-feed/internal/testutil"
)

// fakeResource records the calls issued against it into a shared log so
// tests can assert on cross-resource ordering.
type fakeResource struct {
	id      string
	log     *[]string
	playErr error
	seekErr error
}

func (r *fakeResource) Play() error {
	*r.log = append(*r.log, "play "+r.id)
	return r.playErr
}

func (r *fakeResource) Pause() error {
	*r.log = append(*r.log, "pause "+r.id)
	return nil
}

func (r *fakeResource) Seek(time.Duration) error {
	*r.log = append(*r.log, "seek "+r.id)
	return r.seekErr
}

func (r *fakeResource) Dispose() error {
	*r.log = append(*r.log, "dispose "+r.id)
	return nil
}

type poolFixture struct {
	pool      *Pool
	clock     *testutil.FakeClock
	log       []string
	resources map[string]*fakeResource
}

func newPoolFixture(t *testing.T, opts ...PoolOption) *poolFixture {
	t.Helper()
	f := &poolFixture{
		clock:     testutil.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		resources: make(map[string]*fakeResource),
	}
	factory := func(itemID, mediaURL string) (Resource, error) {
		res := &fakeResource{id: itemID, log: &f.log}
		f.resources[itemID] = res
		return res, nil
	}
	opts = append([]PoolOption{WithNow(f.clock.Now)}, opts...)
	f.pool = NewPool(factory, opts...)
	return f
}

func TestPool_AcquireIdempotent(t *testing.T) {
	f := newPoolFixture(t)

	p1, err := f.pool.Acquire("v1", "url1")
	require.NoError(t, err)

	p2, err := f.pool.Acquire("v1", "url1")
	require.NoError(t, err)
	assert.Same(t, p1, p2, "re-acquire must return the existing player, no reload")
	assert.Equal(t, 1, f.pool.Size())
}

func TestPool_SetActive_PausesOthersBeforePlaying(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	f.log = nil

	require.NoError(t, f.pool.SetActive("v2", "url2"))

	assert.Equal(t, []string{"pause v1", "play v2"}, f.log,
		"the old player pauses before the new one plays")
	assert.Equal(t, "v2", f.pool.ActiveID())

	p1, _ := f.pool.Player("v1")
	p2, _ := f.pool.Player("v2")
	assert.Equal(t, StatePaused, p1.State())
	assert.Equal(t, StatePlaying, p2.State())
}

func TestPool_SinglePlayingInvariant(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	require.NoError(t, f.pool.SetActive("v2", "url2"))
	require.NoError(t, f.pool.SetActive("v3", "url3"))

	playing := 0
	for _, id := range []string{"v1", "v2", "v3"} {
		if pl, ok := f.pool.Player(id); ok && pl.State() == StatePlaying {
			playing++
		}
	}
	assert.Equal(t, 1, playing)
}

func TestPool_StageDesignatesActiveWithoutPlaying(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.Stage("v1", "url1"))

	assert.Equal(t, "v1", f.pool.ActiveID())
	assert.NotContains(t, f.log, "play v1")

	// A staged item is the active item, so Play may start it directly.
	require.NoError(t, f.pool.Play("v1"))
	pl, _ := f.pool.Player("v1")
	assert.Equal(t, StatePlaying, pl.State())
}

func TestPool_StagePausesCurrentPlayer(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	f.log = nil

	require.NoError(t, f.pool.Stage("v2", "url2"))

	assert.Equal(t, []string{"pause v1"}, f.log)
	assert.Equal(t, "v2", f.pool.ActiveID())
	p2, _ := f.pool.Player("v2")
	assert.NotEqual(t, StatePlaying, p2.State())
}

func TestPool_PlayRejectsNonActive(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	_, err := f.pool.Acquire("v2", "url2")
	require.NoError(t, err)

	err = f.pool.Play("v2")
	assert.Error(t, err, "only the active item may enter the playing state")
}

func TestPool_EvictsLeastRecentlyActive(t *testing.T) {
	f := newPoolFixture(t, WithCapacity(3))

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	f.clock.Advance(time.Second)
	require.NoError(t, f.pool.SetActive("v2", "url2"))
	f.clock.Advance(time.Second)
	require.NoError(t, f.pool.SetActive("v3", "url3"))
	f.clock.Advance(time.Second)

	// Fourth acquisition pushes the pool over capacity; v1 is the
	// least-recently-active non-active player.
	require.NoError(t, f.pool.SetActive("v4", "url4"))

	assert.Equal(t, 3, f.pool.Size())
	_, ok := f.pool.Player("v1")
	assert.False(t, ok, "v1 evicted")
	assert.Contains(t, f.log, "dispose v1")

	// Re-acquiring v1 constructs a fresh resource.
	_, err := f.pool.Acquire("v1", "url1")
	require.NoError(t, err)
}

func TestPool_EvictionNeverTargetsActive(t *testing.T) {
	f := newPoolFixture(t, WithCapacity(1))

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	f.clock.Advance(time.Second)
	require.NoError(t, f.pool.SetActive("v2", "url2"))

	_, ok := f.pool.Player("v2")
	assert.True(t, ok, "active player survives eviction pressure")
	assert.Equal(t, "v2", f.pool.ActiveID())
}

func TestPool_ErrorEventMarksFailedKeepsPooled(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.SetActive("v1", "url1"))

	err := f.pool.HandleEvent(Event{ItemID: "v1", Kind: EventError, Err: fmt.Errorf("decode")})
	require.Error(t, err)
	assert.True(t, IsPlayback(err))

	pl, ok := f.pool.Player("v1")
	require.True(t, ok, "failed player stays pooled for retry")
	assert.Equal(t, StateFailed, pl.State())
	assert.Error(t, pl.Err())
}

func TestPool_RetryAfterFailure(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	_ = f.pool.HandleEvent(Event{ItemID: "v1", Kind: EventError, Err: fmt.Errorf("decode")})

	require.NoError(t, f.pool.Retry("v1"))
	pl, _ := f.pool.Player("v1")
	assert.Equal(t, StatePlaying, pl.State())
	assert.NoError(t, pl.Err())
}

func TestPool_SetActiveOntoFailedAwaitsRetry(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	require.NoError(t, f.pool.SetActive("v2", "url2"))
	_ = f.pool.HandleEvent(Event{ItemID: "v1", Kind: EventError, Err: fmt.Errorf("decode")})

	// Swiping back onto the failed item does not blindly play it.
	require.NoError(t, f.pool.SetActive("v1", "url1"))
	pl, _ := f.pool.Player("v1")
	assert.Equal(t, StateFailed, pl.State())
}

func TestPool_EndedLoopsActiveItem(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	f.log = nil

	require.NoError(t, f.pool.HandleEvent(Event{ItemID: "v1", Kind: EventEnded}))
	assert.Equal(t, []string{"seek v1", "play v1"}, f.log)

	pl, _ := f.pool.Player("v1")
	assert.Equal(t, StatePlaying, pl.State())
}

func TestPool_StrayPlayingEventPausedBackDown(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	_, err := f.pool.Acquire("v2", "url2")
	require.NoError(t, err)
	f.log = nil

	// Host reports v2 playing even though v1 is active.
	require.NoError(t, f.pool.HandleEvent(Event{ItemID: "v2", Kind: EventPlaying}))
	assert.Equal(t, []string{"pause v2"}, f.log)

	pl, _ := f.pool.Player("v2")
	assert.Equal(t, StatePaused, pl.State())
	assert.True(t, pl.Loaded())
}

func TestPool_DisposeAll(t *testing.T) {
	f := newPoolFixture(t)

	require.NoError(t, f.pool.SetActive("v1", "url1"))
	require.NoError(t, f.pool.SetActive("v2", "url2"))

	f.pool.DisposeAll()
	assert.Equal(t, 0, f.pool.Size())
	assert.Equal(t, "", f.pool.ActiveID())
	assert.Contains(t, f.log, "dispose v1")
	assert.Contains(t, f.log, "dispose v2")
}
