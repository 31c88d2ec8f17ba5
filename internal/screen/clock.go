package screen

import (
	"sync/atomic"
	"time"
)

// Clock supplies wall time to the screen. Injected so debounce and
// auto-hide behavior is deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Seq is a monotonic logical clock stamping every processed event.
//
// Stamps give the session trace a deterministic total order independent
// of wall-clock resolution.
//
// Thread-safety: safe for concurrent use (atomic operations), though the
// screen's single-writer loop means only one goroutine typically calls
// Next().
type Seq struct {
	n atomic.Int64
}

// Next returns the next sequence number and increments the clock.
func (s *Seq) Next() int64 {
	return s.n.Add(1)
}

// Current returns the current sequence number without incrementing.
func (s *Seq) Current() int64 {
	return s.n.Load()
}
