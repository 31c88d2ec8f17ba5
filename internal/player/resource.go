// Package player manages the bounded pool of playback resources backing
// the feed. It owns the single-active-player invariant: at most one pooled
// resource is ever in the playing state.
package player

import "time"

// Resource is the capability surface the host UI layer provides for one
// underlying video player. The pool is the only component holding a live
// Resource; everything else sees opaque pooled handles.
type Resource interface {
	Play() error
	Pause() error
	Seek(position time.Duration) error
	Dispose() error
}

// Factory constructs a Resource for a media locator. Construction is
// deferred until the item is inside the render window, never upfront for
// the whole feed.
type Factory func(itemID, mediaURL string) (Resource, error)

// EventKind identifies a playback resource callback.
type EventKind int

const (
	// EventPlaying reports the resource transitioned into actual playback.
	EventPlaying EventKind = iota + 1
	// EventStalled reports playback stopped while waiting for data.
	EventStalled
	// EventEnded reports the resource reached the end of the media.
	EventEnded
	// EventError reports a decode or stream failure.
	EventError
)

// Event is a callback from a playback resource, tagged with the pooled
// item it belongs to.
type Event struct {
	ItemID string
	Kind   EventKind
	Err    error
}
