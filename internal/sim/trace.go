package sim

// TraceEvent is one entry in the deterministic session trace. All fields
// use canonical JSON serialization so golden comparison is stable.
type TraceEvent struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq"`

	// Playback resource actions and request launches.
	VideoID string `json:"video_id,omitempty"`
	Op      string `json:"op,omitempty"`

	// Activation changes. Pointers so index 0 still serializes.
	Previous *int `json:"previous,omitempty"`
	Active   *int `json:"active,omitempty"`

	// Notices.
	Notice string `json:"notice,omitempty"`
	Error  string `json:"error,omitempty"`

	// Snapshots.
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Snapshot captures observable screen state at one point in the script.
type Snapshot struct {
	ActiveIndex int            `json:"active_index"`
	ActiveVideo string         `json:"active_video,omitempty"`
	Playing     bool           `json:"playing"`
	FeedLen     int            `json:"feed_len"`
	PoolSize    int            `json:"pool_size"`
	Items       []ItemSnapshot `json:"items,omitempty"`
	Thread      []string       `json:"thread,omitempty"`
}

// ItemSnapshot is the engagement-relevant view of one feed item.
type ItemSnapshot struct {
	VideoID  string `json:"video_id"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
	Shares   int    `json:"shares"`
	Liked    bool   `json:"liked"`
}

// Result is the outcome of a scenario run.
type Result struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// recorder accumulates trace events with a monotonically growing seq.
type recorder struct {
	events []TraceEvent
	seq    int64
}

func (r *recorder) add(ev TraceEvent) {
	r.seq++
	ev.Seq = r.seq
	r.events = append(r.events, ev)
}
