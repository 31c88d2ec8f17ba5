package player

// State is the lifecycle state of one pooled player.
//
// Transitions are driven only by the pool and by resource callbacks:
//
//	idle -> loading -> playing <-> paused -> disposed
//	             \-> failed (error callback; stays pooled, paused)
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateFailed
	StateDisposed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFailed:
		return "failed"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}
