// Package client defines the narrow contracts the feed core consumes
// from the outside world: the backend API, the auth token supplier, and
// auth state change events. Concrete transport is out of scope for the
// core; implementations live with the host application (or the simulator).
package client

import (
	"context"

	"github.com/mydigitalpro/toctoc-feed/internal/comments"
	"github.com/mydigitalpro/toctoc-feed/internal/feed"
)

// LikeResult is the server's authoritative answer to a like or unlike.
type LikeResult struct {
	Liked bool
	Count int
}

// ShareResult is the server's authoritative share count after recording a
// share.
type ShareResult struct {
	Count int
}

// FeedService supplies pages of the video feed.
type FeedService interface {
	FetchFeedPage(ctx context.Context, cursor string) (feed.Page, error)
}

// EngagementService confirms engagement mutations and serves count
// hydration reads.
type EngagementService interface {
	SubmitLike(ctx context.Context, videoID string) (LikeResult, error)
	SubmitUnlike(ctx context.Context, videoID string) (LikeResult, error)
	SubmitShare(ctx context.Context, videoID, platform string) (ShareResult, error)
	FetchLikeCount(ctx context.Context, videoID string) (int, error)
	FetchShareCount(ctx context.Context, videoID string) (int, error)
}

// CommentService serves comment threads and comment mutations.
type CommentService interface {
	FetchComments(ctx context.Context, videoID string) ([]comments.Comment, error)
	SubmitComment(ctx context.Context, videoID, content string) error
	SubmitCommentLike(ctx context.Context, commentID string) error
}

// Service is the full backend surface the feed screen consumes.
type Service interface {
	FeedService
	EngagementService
	CommentService
}
