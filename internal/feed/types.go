package feed

// Status is the publication state of a video as reported by the backend.
type Status string

const (
	StatusPublished Status = "PUBLISHED"
	StatusDraft     Status = "DRAFT"
	StatusArchived  Status = "ARCHIVED"
)

// Counters holds the engagement counters displayed alongside a video.
type Counters struct {
	Likes    int
	Comments int
	Shares   int
}

// VideoItem is one entry of the feed sequence.
//
// Items are owned by the Store. Engagement state (Counters, Liked) is
// mutated only through Store.Mutate so optimistic and reconciled writes
// go through a single path.
type VideoItem struct {
	ID           string
	MediaURL     string
	Description  string
	AuthorID     string
	AuthorHandle string
	Counters     Counters
	Liked        bool
	Status       Status
}

// Page is one page of feed results as returned by the backend.
// Pages are merged into the Store and then discarded.
type Page struct {
	Items      []VideoItem
	NextCursor string
	HasMore    bool
}
