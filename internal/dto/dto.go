// Package dto holds the raw wire shapes of the backend API. Payloads are
// validated and converted into internal types exactly once, at the
// collaborator boundary; nothing past this package touches raw response
// shapes.
package dto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mydigitalpro/toctoc-feed/internal/comments"
	"github.com/mydigitalpro/toctoc-feed/internal/feed"
)

// Video is the backend's video payload.
type Video struct {
	ID                    int64   `json:"id"`
	Title                 string  `json:"title"`
	Description           string  `json:"description"`
	VideoURL              string  `json:"videoUrl"`
	HLSPlaylistURL        string  `json:"hlsPlaylistUrl"`
	ThumbnailURL          string  `json:"thumbnailUrl"`
	Duration              float64 `json:"duration"`
	CreatedAt             string  `json:"createdAt"`
	UserID                int64   `json:"userId"`
	Status                string  `json:"status"`
	LikedByCurrentUser    bool    `json:"likedByCurrentUser"`
	LikeCount             int     `json:"likeCount"`
	CommentCount          int     `json:"commentCount"`
	ShareCount            int     `json:"shareCount"`
	UserPseudo            string  `json:"userPseudo"`
	UserProfilePictureURL *string `json:"userProfilePictureUrl"`
	UserIsCertified       *bool   `json:"userIsCertified"`
}

// Validate checks the fields the core depends on.
func (v *Video) Validate() error {
	if v.ID == 0 {
		return fmt.Errorf("video: missing id")
	}
	if v.VideoURL == "" && v.HLSPlaylistURL == "" {
		return fmt.Errorf("video %d: no media url", v.ID)
	}
	switch feed.Status(v.Status) {
	case feed.StatusPublished, feed.StatusDraft, feed.StatusArchived:
	default:
		return fmt.Errorf("video %d: unknown status %q", v.ID, v.Status)
	}
	return nil
}

// ToItem converts the wire payload into the internal feed item. The HLS
// playlist is preferred when present.
func (v *Video) ToItem() (feed.VideoItem, error) {
	if err := v.Validate(); err != nil {
		return feed.VideoItem{}, err
	}
	mediaURL := v.HLSPlaylistURL
	if mediaURL == "" {
		mediaURL = v.VideoURL
	}
	return feed.VideoItem{
		ID:           strconv.FormatInt(v.ID, 10),
		MediaURL:     mediaURL,
		Description:  v.Description,
		AuthorID:     strconv.FormatInt(v.UserID, 10),
		AuthorHandle: v.UserPseudo,
		Counters: feed.Counters{
			Likes:    v.LikeCount,
			Comments: v.CommentCount,
			Shares:   v.ShareCount,
		},
		Liked:  v.LikedByCurrentUser,
		Status: feed.Status(v.Status),
	}, nil
}

// FeedPage is the backend's paginated feed payload.
type FeedPage struct {
	Items      []Video `json:"items"`
	NextCursor string  `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
}

// ToPage converts a wire page into the internal page, validating every
// item.
func (p *FeedPage) ToPage() (feed.Page, error) {
	items := make([]feed.VideoItem, 0, len(p.Items))
	for i := range p.Items {
		item, err := p.Items[i].ToItem()
		if err != nil {
			return feed.Page{}, fmt.Errorf("page item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return feed.Page{Items: items, NextCursor: p.NextCursor, HasMore: p.HasMore}, nil
}

// UserProfile is the backend's author payload embedded in comments.
type UserProfile struct {
	ID                int64   `json:"id"`
	Login             string  `json:"login"`
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	ProfilePictureURL *string `json:"profilePictureUrl"`
	IsCertified       bool    `json:"isCertified"`
}

// Comment is the backend's comment payload.
type Comment struct {
	ID                 int64        `json:"id"`
	UserID             int64        `json:"userId"`
	ParentID           int64        `json:"parentId"`
	Content            string       `json:"content"`
	CreatedAt          string       `json:"createdAt"`
	LikedByCurrentUser bool         `json:"likedByCurrentUser"`
	UserProfile        *UserProfile `json:"userProfile"`
}

// ToComment converts the wire payload into the internal comment. A
// missing author profile degrades to an anonymous handle rather than
// failing the whole thread.
func (c *Comment) ToComment() (comments.Comment, error) {
	if c.ID == 0 {
		return comments.Comment{}, fmt.Errorf("comment: missing id")
	}
	createdAt, err := time.Parse(time.RFC3339, c.CreatedAt)
	if err != nil {
		return comments.Comment{}, fmt.Errorf("comment %d: bad createdAt: %w", c.ID, err)
	}

	author := comments.Profile{Handle: "user"}
	if p := c.UserProfile; p != nil {
		author = comments.Profile{
			ID:        strconv.FormatInt(p.ID, 10),
			Handle:    p.Login,
			Certified: p.IsCertified,
		}
		if author.Handle == "" {
			author.Handle = p.FirstName
		}
		if p.ProfilePictureURL != nil {
			author.AvatarURL = *p.ProfilePictureURL
		}
	}

	return comments.Comment{
		ID:        strconv.FormatInt(c.ID, 10),
		Author:    author,
		Content:   c.Content,
		CreatedAt: createdAt,
		Liked:     c.LikedByCurrentUser,
	}, nil
}

// CommentRequest is the payload for submitting a comment.
type CommentRequest struct {
	VideoID int64  `json:"videoId"`
	Content string `json:"content"`
}

// Count is the payload of the per-video counter endpoints.
type Count struct {
	Count int `json:"count"`
}

// ShareRequest is the payload for recording a share.
type ShareRequest struct {
	VideoID  int64  `json:"videoId"`
	Platform string `json:"plateform"` // sic: the backend expects this spelling
}
