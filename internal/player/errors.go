package player

import (
	"errors"
	"fmt"
)

// PlaybackError reports a decode or stream failure scoped to a single
// feed item. It never affects sibling players: the failed resource is
// paused and kept pooled so the caller can offer a retry affordance.
type PlaybackError struct {
	ItemID string
	Err    error
}

// Error implements the error interface.
func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback failed for item %s: %v", e.ItemID, e.Err)
}

// Unwrap returns the underlying resource error.
func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// IsPlayback returns true if the error is a playback failure.
// Uses errors.As to handle wrapped errors.
func IsPlayback(err error) bool {
	var pe *PlaybackError
	return errors.As(err, &pe)
}
