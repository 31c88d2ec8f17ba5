package screen

import (
	"github.com/mydigitalpro/toctoc-feed/internal/client"
	"github.com/mydigitalpro/toctoc-feed/internal/comments"
	"github.com/mydigitalpro/toctoc-feed/internal/engage"
	"github.com/mydigitalpro/toctoc-feed/internal/feed"
	"github.com/mydigitalpro/toctoc-feed/internal/player"
	"github.com/mydigitalpro/toctoc-feed/internal/tracker"
)

// eventType distinguishes the kinds of events the screen loop processes.
type eventType int

const (
	eventGesture eventType = iota + 1
	eventViewability
	eventTick
	eventPageLoaded
	eventLikeSettled
	eventShareSettled
	eventCountLoaded
	eventThreadLoaded
	eventCommentAdded
	eventCommentLikeSettled
	eventPlayback
	eventAuthChanged
)

// GestureKind identifies a user gesture routed into the screen.
type GestureKind int

const (
	GestureTap GestureKind = iota + 1
	GestureLike
	GestureShare
	GestureOpenComments
	GestureCloseComments
	GestureAddComment
	GestureCommentLike
	GestureLoadMore
	GestureRetry
)

// Gesture carries one user action. Only the fields relevant to the kind
// are set.
type Gesture struct {
	Kind      GestureKind
	VideoID   string
	CommentID string
	Text      string
	Platform  string
}

type pageLoaded struct {
	req  *feed.PageRequest
	page feed.Page
	err  error
}

type likeSettled struct {
	call *engage.LikeCall
	res  client.LikeResult
	err  error
}

type shareSettled struct {
	call *engage.ShareCall
	res  client.ShareResult
	err  error
}

type countLoaded struct {
	videoID string
	kind    engage.Kind
	count   int
	err     error
}

type threadLoaded struct {
	req  *comments.LoadRequest
	list []comments.Comment
	err  error
}

type commentAdded struct {
	req *comments.AddRequest
	err error
}

type commentLikeSettled struct {
	tg  *comments.LikeToggle
	err error
}

// event wraps everything the screen loop processes. Exactly one payload
// field is set, matching Type.
type event struct {
	Type eventType
	Seq  int64

	gesture     *Gesture
	entries     []tracker.Entry
	playback    *player.Event
	auth        *client.AuthState
	page        *pageLoaded
	like        *likeSettled
	share       *shareSettled
	count       *countLoaded
	thread      *threadLoaded
	added       *commentAdded
	commentLike *commentLikeSettled
}
