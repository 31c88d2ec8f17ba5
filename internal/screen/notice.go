package screen

// NoticeKind classifies a non-blocking user-facing notice. No notice is
// fatal; the feed stays interactive in a degraded state in every failure
// branch.
type NoticeKind string

const (
	NoticeFeedLoadFailed    NoticeKind = "feed_load_failed"
	NoticeLikeFailed        NoticeKind = "like_failed"
	NoticeCommentsFailed    NoticeKind = "comments_failed"
	NoticeCommentAddFailed  NoticeKind = "comment_add_failed"
	NoticeCommentLikeFailed NoticeKind = "comment_like_failed"
	NoticePlaybackFailed    NoticeKind = "playback_failed"
	NoticeAuthRequired      NoticeKind = "auth_required"
)

// Notice is a non-blocking failure surfaced to the UI layer.
type Notice struct {
	Kind    NoticeKind
	VideoID string
	Err     error
}

// Hooks are optional observer callbacks invoked from the loop goroutine.
type Hooks struct {
	// OnActiveChanged fires after an activation change has been applied
	// to the player pool.
	OnActiveChanged func(previous, active int, videoID string)

	// OnNotice fires for every surfaced non-blocking notice.
	OnNotice func(Notice)
}
