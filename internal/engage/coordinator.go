// Package engage keeps locally-displayed engagement counters consistent
// with the remote source of truth under optimistic-update semantics.
package engage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mydigitalpro/toctoc-feed/internal/client"
	"github.com/mydigitalpro/toctoc-feed/internal/feed"
)

// likeMachine serializes like/unlike mutations for one video.
//
// The machine coalesces rapid re-toggles into the latest desired boolean
// state: at most one network call is in flight at a time, and a follow-up
// call is issued only when the confirmed state still differs from the
// desired one. Two rapid toggles therefore net to a no-op with a single
// round trip, regardless of completion order.
type likeMachine struct {
	videoID        string
	desired        bool
	confirmedLiked bool
	confirmedCount int
	inflight       *LikeCall
}

// Coordinator owns per-video engagement mutations. All counter writes go
// through the feed store's single Mutate path; nothing else in the system
// writes counters.
//
// The coordinator is purely local: it flips state synchronously and hands
// the caller the network calls to issue. Completions come back through
// CompleteLike/CompleteShare on the same event loop goroutine.
//
// Coordinator is not safe for concurrent use.
type Coordinator struct {
	store *feed.Store
	now   func() time.Time
	ids   IDGenerator

	likes map[string]*likeMachine
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithNow overrides the wall clock, for deterministic tests.
func WithNow(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

// WithIDGenerator overrides the mutation id generator.
func WithIDGenerator(ids IDGenerator) CoordinatorOption {
	return func(c *Coordinator) { c.ids = ids }
}

// NewCoordinator creates a coordinator writing through the given store.
func NewCoordinator(store *feed.Store, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store: store,
		now:   time.Now,
		ids:   UUIDv7Generator{},
		likes: make(map[string]*likeMachine),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ToggleLike flips the liked state of a video optimistically, before any
// network round trip, and returns the confirmation call to issue. A nil
// call with nil error means the toggle was coalesced into the in-flight
// mutation and no new network call is needed.
func (c *Coordinator) ToggleLike(videoID string) (*LikeCall, error) {
	item, ok := c.store.Get(videoID)
	if !ok {
		return nil, fmt.Errorf("toggle like: video %s not in feed", videoID)
	}

	m := c.likes[videoID]
	if m == nil {
		m = &likeMachine{
			videoID:        videoID,
			confirmedLiked: item.Liked,
			confirmedCount: item.Counters.Likes,
		}
		c.likes[videoID] = m
	}

	liked := !item.Liked
	c.store.Mutate(videoID, func(v *feed.VideoItem) {
		v.Liked = liked
		if liked {
			v.Counters.Likes++
		} else {
			v.Counters.Likes--
		}
	})
	m.desired = liked

	if m.inflight != nil {
		slog.Debug("engage: toggle coalesced", "video", videoID, "desired", liked)
		return nil, nil
	}
	if m.desired == m.confirmedLiked {
		delete(c.likes, videoID)
		return nil, nil
	}
	return c.issueLike(m), nil
}

// CompleteLike reconciles a like confirmation.
//
// On success the server's authoritative count wins; if the user has
// toggled again meanwhile, the pending optimistic delta is re-applied on
// top and the follow-up call needed to reach the desired state is
// returned. On failure the optimistic delta is rolled back to the last
// confirmed state and the error is returned for surfacing.
//
// A completion for a superseded mutation returns MutationConflictError;
// callers discard it without surfacing.
func (c *Coordinator) CompleteLike(call *LikeCall, res client.LikeResult, err error) (*LikeCall, error) {
	m := c.likes[call.VideoID]
	if m == nil || m.inflight == nil || m.inflight.MutationID != call.MutationID {
		return nil, &MutationConflictError{VideoID: call.VideoID, MutationID: call.MutationID}
	}
	m.inflight = nil

	if err != nil {
		liked, count := m.confirmedLiked, m.confirmedCount
		c.store.Mutate(m.videoID, func(v *feed.VideoItem) {
			v.Liked = liked
			v.Counters.Likes = count
		})
		delete(c.likes, m.videoID)
		slog.Warn("engage: like confirmation failed, rolled back",
			"video", m.videoID,
			"mutation", call.MutationID,
			"error", err,
		)
		return nil, fmt.Errorf("confirm like for video %s: %w", m.videoID, err)
	}

	m.confirmedLiked = res.Liked
	m.confirmedCount = res.Count

	if m.desired == m.confirmedLiked {
		liked, count := m.desired, res.Count
		c.store.Mutate(m.videoID, func(v *feed.VideoItem) {
			v.Liked = liked
			v.Counters.Likes = count
		})
		delete(c.likes, m.videoID)
		return nil, nil
	}

	// The user re-toggled while the call was in flight: show the server
	// count adjusted by the still-pending optimistic delta and issue the
	// call that reaches the desired state.
	delta := -1
	if m.desired {
		delta = 1
	}
	liked, count := m.desired, res.Count+delta
	c.store.Mutate(m.videoID, func(v *feed.VideoItem) {
		v.Liked = liked
		v.Counters.Likes = count
	})
	return c.issueLike(m), nil
}

// RecordShare increments the local share count immediately and returns
// the record call to issue. The local increment is the event of record:
// the share sheet already opened, so a failing analytics call is logged,
// never rolled back.
func (c *Coordinator) RecordShare(videoID, platform string) (*ShareCall, error) {
	if _, ok := c.store.Get(videoID); !ok {
		return nil, fmt.Errorf("record share: video %s not in feed", videoID)
	}
	c.store.Mutate(videoID, func(v *feed.VideoItem) {
		v.Counters.Shares++
	})
	return &ShareCall{
		MutationID:  c.ids.Generate(),
		VideoID:     videoID,
		Platform:    platform,
		SubmittedAt: c.now(),
	}, nil
}

// CompleteShare reconciles a share record. On success the authoritative
// count overwrites the local estimate; on failure the error is returned
// for logging only.
func (c *Coordinator) CompleteShare(call *ShareCall, res client.ShareResult, err error) error {
	if err != nil {
		return fmt.Errorf("record share for video %s: %w", call.VideoID, err)
	}
	c.store.Mutate(call.VideoID, func(v *feed.VideoItem) {
		v.Counters.Shares = res.Count
	})
	return nil
}

// ApplyLikeCount installs a hydrated server like-count. Skipped while a
// like mutation is outstanding so hydration cannot clobber an optimistic
// flip.
func (c *Coordinator) ApplyLikeCount(videoID string, count int) {
	if _, busy := c.likes[videoID]; busy {
		slog.Debug("engage: like hydration skipped, mutation outstanding", "video", videoID)
		return
	}
	c.store.Mutate(videoID, func(v *feed.VideoItem) {
		v.Counters.Likes = count
	})
}

// ApplyShareCount installs a hydrated server share-count.
func (c *Coordinator) ApplyShareCount(videoID string, count int) {
	c.store.Mutate(videoID, func(v *feed.VideoItem) {
		v.Counters.Shares = count
	})
}

// Count reads the displayed counter for a video. Before the first server
// fetch this is the last-known local value carried by the feed page.
func (c *Coordinator) Count(videoID string, kind Kind) (int, bool) {
	item, ok := c.store.Get(videoID)
	if !ok {
		return 0, false
	}
	switch kind {
	case KindShare:
		return item.Counters.Shares, true
	default:
		return item.Counters.Likes, true
	}
}

// Pending reports whether a like mutation is outstanding for a video.
func (c *Coordinator) Pending(videoID string) bool {
	m := c.likes[videoID]
	return m != nil && m.inflight != nil
}

func (c *Coordinator) issueLike(m *likeMachine) *LikeCall {
	m.inflight = &LikeCall{
		MutationID:  c.ids.Generate(),
		VideoID:     m.videoID,
		Like:        m.desired,
		SubmittedAt: c.now(),
	}
	return m.inflight
}
