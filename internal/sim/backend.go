package sim

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mydigitalpro/toctoc-feed/internal/client"
	"github.com/mydigitalpro/toctoc-feed/internal/comments"
	"github.com/mydigitalpro/toctoc-feed/internal/dto"
	"github.com/mydigitalpro/toctoc-feed/internal/feed"
)

// backend is an in-memory client.Service serving scenario fixtures. It is
// authoritative the way a real backend is: likes and shares mutate its
// state, added comments are only visible through a reload, and counts are
// whatever it says they are.
type backend struct {
	pages    []dto.FeedPage
	likes    map[string]*likeState
	shares   map[string]int
	comments map[string][]dto.Comment

	failures map[string]int
	now      func() time.Time
	rec      *recorder

	nextCommentID int64
}

type likeState struct {
	liked bool
	count int
}

func newBackend(sc *Scenario, pageSize int, now func() time.Time, rec *recorder) *backend {
	if sc.PageSize > 0 {
		pageSize = sc.PageSize
	}
	if pageSize <= 0 {
		pageSize = 3
	}

	b := &backend{
		likes:         make(map[string]*likeState),
		shares:        make(map[string]int),
		comments:      make(map[string][]dto.Comment),
		failures:      make(map[string]int),
		now:           now,
		rec:           rec,
		nextCommentID: 1000,
	}
	for op, n := range sc.Failures {
		b.failures[op] = n
	}

	videos := make([]dto.Video, 0, len(sc.Videos))
	for _, f := range sc.Videos {
		v := f.ToDTO()
		videos = append(videos, v)
		id := strconv.FormatInt(v.ID, 10)
		b.likes[id] = &likeState{liked: v.LikedByCurrentUser, count: v.LikeCount}
		b.shares[id] = v.ShareCount
	}
	for id, list := range sc.Comments {
		for _, f := range list {
			b.comments[id] = append(b.comments[id], f.ToDTO())
		}
	}

	for start := 0; start < len(videos); start += pageSize {
		end := start + pageSize
		if end > len(videos) {
			end = len(videos)
		}
		b.pages = append(b.pages, dto.FeedPage{
			Items:      videos[start:end],
			NextCursor: strconv.Itoa(len(b.pages) + 1),
			HasMore:    end < len(videos),
		})
	}

	return b
}

// fail consumes one injected failure for op, if any remain.
func (b *backend) fail(op string) error {
	if b.failures[op] <= 0 {
		return nil
	}
	b.failures[op]--
	return &client.TransportError{
		Op:         op,
		StatusCode: 500,
		Err:        fmt.Errorf("injected failure"),
	}
}

func (b *backend) record(op, videoID string) {
	b.rec.add(TraceEvent{Type: "request", Op: op, VideoID: videoID})
}

func (b *backend) FetchFeedPage(_ context.Context, cursor string) (feed.Page, error) {
	b.record("feed", "")
	if err := b.fail("feed"); err != nil {
		return feed.Page{}, err
	}

	idx := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return feed.Page{}, &client.TransportError{Op: "feed", StatusCode: 400, Err: err}
		}
		idx = n
	}
	if idx >= len(b.pages) {
		return feed.Page{}, nil
	}

	page := b.pages[idx]
	// Serve live like state so re-fetches reflect earlier mutations.
	items := make([]dto.Video, len(page.Items))
	copy(items, page.Items)
	for i := range items {
		id := strconv.FormatInt(items[i].ID, 10)
		if ls, ok := b.likes[id]; ok {
			items[i].LikedByCurrentUser = ls.liked
			items[i].LikeCount = ls.count
		}
		items[i].ShareCount = b.shares[id]
		items[i].CommentCount = len(b.comments[id])
	}
	page.Items = items
	return page.ToPage()
}

func (b *backend) SubmitLike(_ context.Context, videoID string) (client.LikeResult, error) {
	b.record("like", videoID)
	if err := b.fail("like"); err != nil {
		return client.LikeResult{}, err
	}
	ls, ok := b.likes[videoID]
	if !ok {
		return client.LikeResult{}, &client.TransportError{Op: "like", StatusCode: 404, Err: fmt.Errorf("video %s", videoID)}
	}
	if !ls.liked {
		ls.liked = true
		ls.count++
	}
	return client.LikeResult{Liked: ls.liked, Count: ls.count}, nil
}

func (b *backend) SubmitUnlike(_ context.Context, videoID string) (client.LikeResult, error) {
	b.record("unlike", videoID)
	if err := b.fail("unlike"); err != nil {
		return client.LikeResult{}, err
	}
	ls, ok := b.likes[videoID]
	if !ok {
		return client.LikeResult{}, &client.TransportError{Op: "unlike", StatusCode: 404, Err: fmt.Errorf("video %s", videoID)}
	}
	if ls.liked {
		ls.liked = false
		ls.count--
	}
	return client.LikeResult{Liked: ls.liked, Count: ls.count}, nil
}

func (b *backend) SubmitShare(_ context.Context, videoID, platform string) (client.ShareResult, error) {
	b.record("share", videoID)
	if err := b.fail("share"); err != nil {
		return client.ShareResult{}, err
	}
	b.shares[videoID]++
	_ = platform
	return client.ShareResult{Count: b.shares[videoID]}, nil
}

func (b *backend) FetchLikeCount(_ context.Context, videoID string) (int, error) {
	b.record("like_count", videoID)
	if err := b.fail("like_count"); err != nil {
		return 0, err
	}
	if ls, ok := b.likes[videoID]; ok {
		return ls.count, nil
	}
	return 0, nil
}

func (b *backend) FetchShareCount(_ context.Context, videoID string) (int, error) {
	b.record("share_count", videoID)
	if err := b.fail("share_count"); err != nil {
		return 0, err
	}
	return b.shares[videoID], nil
}

func (b *backend) FetchComments(_ context.Context, videoID string) ([]comments.Comment, error) {
	b.record("comments", videoID)
	if err := b.fail("comments"); err != nil {
		return nil, err
	}
	raw := b.comments[videoID]
	list := make([]comments.Comment, 0, len(raw))
	for i := range raw {
		c, err := raw[i].ToComment()
		if err != nil {
			return nil, &client.TransportError{Op: "comments", StatusCode: 502, Err: err}
		}
		list = append(list, c)
	}
	return list, nil
}

func (b *backend) SubmitComment(_ context.Context, videoID, content string) error {
	b.record("add_comment", videoID)
	if err := b.fail("add_comment"); err != nil {
		return err
	}
	b.nextCommentID++
	b.comments[videoID] = append(b.comments[videoID], dto.Comment{
		ID:        b.nextCommentID,
		Content:   content,
		CreatedAt: b.now().UTC().Format(time.RFC3339),
		UserProfile: &dto.UserProfile{
			ID:    1,
			Login: "you",
		},
	})
	return nil
}

func (b *backend) SubmitCommentLike(_ context.Context, commentID string) error {
	b.record("comment_like", commentID)
	if err := b.fail("comment_like"); err != nil {
		return err
	}
	return nil
}

var _ client.Service = (*backend)(nil)
