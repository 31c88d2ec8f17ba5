// Package comments holds the per-video comment thread cache. Only one
// thread is open at a time, matching the one-modal-at-a-time UI.
package comments

import (
	"fmt"
	"time"
)

// Profile identifies a comment author.
type Profile struct {
	ID        string
	Handle    string
	AvatarURL string
	Certified bool
}

// Comment is one entry of a video's comment thread.
type Comment struct {
	ID        string
	Author    Profile
	Content   string
	CreatedAt time.Time
	Liked     bool
}

// FormatAge renders a comment age the way the feed UI shows it:
// "now", "5m", "2h", "3d".
func FormatAge(createdAt, now time.Time) string {
	minutes := int(now.Sub(createdAt).Minutes())
	switch {
	case minutes < 1:
		return "now"
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%dh", minutes/60)
	default:
		return fmt.Sprintf("%dd", minutes/(24*60))
	}
}
