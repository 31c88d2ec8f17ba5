package comments

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrBlankComment is returned when a submitted comment is empty after
// trimming.
var ErrBlankComment = errors.New("comments: blank comment")

// Cache is the lazily-loaded comment thread for the currently open video.
//
// Opening a thread replaces whatever was cached for a different video.
// The list is replaced wholesale on every reload; the only in-place
// mutation is the optimistic like toggle, which is rolled back if the
// remote call fails.
//
// Loading is split into request/complete pairs so the owning event loop
// performs all I/O. Every load request carries a generation stamp; a
// completion whose generation no longer matches the open thread is
// discarded, so a stale response for a previously open video can never
// clobber the current one.
//
// Cache is not safe for concurrent use.
type Cache struct {
	videoID  string // "" when no thread is open
	gen      int64
	loading  bool
	comments []Comment
	index    map[string]int
}

// LoadRequest identifies one in-flight thread load.
type LoadRequest struct {
	VideoID string

	gen int64
}

// AddRequest identifies one in-flight comment submission.
type AddRequest struct {
	VideoID string
	Content string

	gen int64
}

// LikeToggle identifies one in-flight optimistic comment-like flip.
type LikeToggle struct {
	CommentID string
	Liked     bool // the optimistic state now shown locally

	gen int64
}

// NewCache creates a cache with no open thread.
func NewCache() *Cache {
	return &Cache{index: make(map[string]int)}
}

// OpenVideoID returns the id of the open thread, or "".
func (c *Cache) OpenVideoID() string { return c.videoID }

// Loading reports whether a thread load is in flight.
func (c *Cache) Loading() bool { return c.loading }

// Comments returns a copy of the open thread, newest first.
func (c *Cache) Comments() []Comment {
	out := make([]Comment, len(c.comments))
	copy(out, c.comments)
	return out
}

// Open switches the cache to the given video and returns the load request
// for its thread. Any previously cached thread is dropped immediately and
// in-flight results for it lose interest.
func (c *Cache) Open(videoID string) *LoadRequest {
	c.videoID = videoID
	c.comments = nil
	c.index = make(map[string]int)
	c.gen++
	c.loading = true
	return &LoadRequest{VideoID: videoID, gen: c.gen}
}

// Reload returns a fresh load request for the open thread. Used after a
// mutating call; the server read is the source of truth, never a locally
// synthesized comment.
func (c *Cache) Reload() (*LoadRequest, bool) {
	if c.videoID == "" {
		return nil, false
	}
	c.gen++
	c.loading = true
	return &LoadRequest{VideoID: c.videoID, gen: c.gen}, true
}

// Close drops the open thread. In-flight loads become stale.
func (c *Cache) Close() {
	c.videoID = ""
	c.comments = nil
	c.index = make(map[string]int)
	c.gen++
	c.loading = false
}

// CompleteLoad installs a fetched thread. Stale completions - the thread
// was closed, reopened, or switched to another video since the request -
// are discarded. The list replaces the cached one wholesale and is kept
// newest first.
func (c *Cache) CompleteLoad(req *LoadRequest, list []Comment, err error) (bool, error) {
	if req == nil || req.gen != c.gen || req.VideoID != c.videoID {
		slog.Debug("comments: discarding stale thread load", "video", reqVideoID(req))
		return false, nil
	}
	c.loading = false

	if err != nil {
		return false, fmt.Errorf("load comments for video %s: %w", req.VideoID, err)
	}

	sorted := make([]Comment, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	c.comments = sorted
	c.index = make(map[string]int, len(sorted))
	for i, cm := range sorted {
		c.index[cm.ID] = i
	}

	slog.Debug("comments: thread loaded", "video", c.videoID, "count", len(sorted))
	return true, nil
}

// AddComment validates and normalizes a new comment for the open thread.
// The text is trimmed and NFC-normalized; blank comments are rejected.
// The comment itself will only appear after the reload that follows a
// successful submission.
func (c *Cache) AddComment(videoID, text string) (*AddRequest, error) {
	if videoID != c.videoID || c.videoID == "" {
		return nil, fmt.Errorf("add comment: thread for video %s is not open", videoID)
	}
	content := norm.NFC.String(strings.TrimSpace(text))
	if content == "" {
		return nil, ErrBlankComment
	}
	return &AddRequest{VideoID: videoID, Content: content, gen: c.gen}, nil
}

// CompleteAdd finishes a comment submission. On success it returns the
// reload request that makes the new comment visible. A stale completion
// (thread switched meanwhile) is dropped.
func (c *Cache) CompleteAdd(req *AddRequest, err error) (*LoadRequest, error) {
	if req == nil || req.VideoID != c.videoID {
		slog.Debug("comments: discarding stale add result")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("submit comment for video %s: %w", req.VideoID, err)
	}
	reload, _ := c.Reload()
	return reload, nil
}

// ToggleLike optimistically flips the liked flag of a comment in the open
// thread and returns the toggle to confirm remotely.
func (c *Cache) ToggleLike(commentID string) (*LikeToggle, error) {
	i, ok := c.index[commentID]
	if !ok {
		return nil, fmt.Errorf("toggle comment like: comment %s not in open thread", commentID)
	}
	c.comments[i].Liked = !c.comments[i].Liked
	return &LikeToggle{CommentID: commentID, Liked: c.comments[i].Liked, gen: c.gen}, nil
}

// CompleteLikeToggle reconciles an optimistic comment-like flip. On
// failure the flag is rolled back, mirroring the video-like flow. A stale
// completion (thread replaced since the flip) is dropped silently.
func (c *Cache) CompleteLikeToggle(tg *LikeToggle, err error) error {
	if tg == nil || tg.gen != c.gen {
		return nil
	}
	if err == nil {
		return nil
	}
	if i, ok := c.index[tg.CommentID]; ok {
		c.comments[i].Liked = !tg.Liked
	}
	return fmt.Errorf("like comment %s: %w", tg.CommentID, err)
}

func reqVideoID(req *LoadRequest) string {
	if req == nil {
		return ""
	}
	return req.VideoID
}
