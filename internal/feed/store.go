package feed

import (
	"fmt"
	"log/slog"
)

// Store owns the ordered, paginated feed sequence.
//
// Invariants:
//   - Item IDs are unique within the sequence.
//   - Insertion order is display order; pages append, they never reorder
//     existing items.
//   - At most one page request is in flight at a time.
//   - Page cursors advance only on a successful merge.
//
// Page loading is split into BeginLoad/CompleteLoad so the caller's event
// loop owns all I/O. BeginLoad hands out a request descriptor, the caller
// performs the fetch, and CompleteLoad merges the result. A completion
// whose descriptor no longer matches the in-flight request is discarded.
//
// Store is not safe for concurrent use. All methods must be called from
// the owning event loop goroutine.
type Store struct {
	items   []VideoItem
	index   map[string]int // id -> position in items
	cursor  string
	hasMore bool

	inflight *PageRequest
	nextGen  int64
}

// PageRequest identifies one in-flight page fetch.
type PageRequest struct {
	Cursor string

	gen int64
}

// NewStore creates an empty feed store positioned before the first page.
func NewStore() *Store {
	return &Store{
		index:   make(map[string]int),
		hasMore: true,
	}
}

// Items returns a copy of the feed sequence in display order.
func (s *Store) Items() []VideoItem {
	out := make([]VideoItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items currently in the feed.
func (s *Store) Len() int {
	return len(s.items)
}

// At returns the item at the given display position.
func (s *Store) At(i int) (VideoItem, bool) {
	if i < 0 || i >= len(s.items) {
		return VideoItem{}, false
	}
	return s.items[i], true
}

// Get returns the item with the given id.
func (s *Store) Get(videoID string) (VideoItem, bool) {
	i, ok := s.index[videoID]
	if !ok {
		return VideoItem{}, false
	}
	return s.items[i], true
}

// HasMore reports whether another page may be available.
func (s *Store) HasMore() bool {
	return s.hasMore
}

// Loading reports whether a page request is in flight.
func (s *Store) Loading() bool {
	return s.inflight != nil
}

// BeginLoad starts a page load if none is in flight and the feed is not
// exhausted. Returns (nil, false) when the call is a no-op: either a
// request is already pending (the caller piggybacks on its result) or
// hasMore is false.
func (s *Store) BeginLoad() (*PageRequest, bool) {
	if s.inflight != nil {
		slog.Debug("feed: page load already in flight", "cursor", s.inflight.Cursor)
		return nil, false
	}
	if !s.hasMore {
		return nil, false
	}

	s.nextGen++
	s.inflight = &PageRequest{Cursor: s.cursor, gen: s.nextGen}
	return s.inflight, true
}

// CompleteLoad merges the result of a page fetch.
//
// Stale completions (descriptor does not match the in-flight request) are
// discarded without touching the sequence. On transport failure the feed
// does not grow but all previously loaded items stay usable and the cursor
// does not advance. An empty successful page marks the feed exhausted and
// returns an EmptyResultError.
func (s *Store) CompleteLoad(req *PageRequest, page Page, err error) (appended bool, retErr error) {
	if req == nil || s.inflight == nil || req.gen != s.inflight.gen {
		slog.Debug("feed: discarding stale page result")
		return false, nil
	}
	s.inflight = nil

	if err != nil {
		return false, fmt.Errorf("load page at cursor %q: %w", req.Cursor, err)
	}

	if len(page.Items) == 0 {
		s.hasMore = false
		return false, &EmptyResultError{Cursor: req.Cursor}
	}

	added := 0
	for _, item := range page.Items {
		if _, dup := s.index[item.ID]; dup {
			slog.Debug("feed: dropping duplicate item", "id", item.ID)
			continue
		}
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
		added++
	}

	s.cursor = page.NextCursor
	s.hasMore = page.HasMore

	slog.Info("feed: page merged",
		"added", added,
		"total", len(s.items),
		"has_more", s.hasMore,
	)
	return added > 0, nil
}

// Mutate applies fn to the item with the given id.
//
// This is the single write path for engagement state. Only the engagement
// coordinator and comment-count reconciliation may call it; nothing else
// writes counters directly.
func (s *Store) Mutate(videoID string, fn func(*VideoItem)) bool {
	i, ok := s.index[videoID]
	if !ok {
		return false
	}
	fn(&s.items[i])
	return true
}

// Upsert replaces the stored item with the same id, or appends the item
// if it is not yet part of the sequence. Used for reconciliation updates
// coming back from the engagement layer.
func (s *Store) Upsert(item VideoItem) {
	if i, ok := s.index[item.ID]; ok {
		s.items[i] = item
		return
	}
	s.index[item.ID] = len(s.items)
	s.items = append(s.items, item)
}
