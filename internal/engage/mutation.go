package engage

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an engagement mutation.
type Kind string

const (
	KindLike  Kind = "LIKE"
	KindShare Kind = "SHARE"
)

// LikeCall is one network confirmation the coordinator wants issued.
// Like=true maps to submitLike, Like=false to submitUnlike.
type LikeCall struct {
	MutationID  string
	VideoID     string
	Like        bool
	SubmittedAt time.Time
}

// ShareCall is one share record the coordinator wants issued. Shares are
// fire-and-increment: the call is never retried and never rolled back.
type ShareCall struct {
	MutationID  string
	VideoID     string
	Platform    string
	SubmittedAt time.Time
}

// IDGenerator mints mutation ids. Implemented by UUIDv7Generator
// (production) and FixedIDGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 mutation ids, so ids
// sort by creation time in logs and traces.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedIDGenerator returns predetermined ids for deterministic tests and
// golden trace comparison.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
// Generate panics once all ids are consumed; this fail-fast catches test
// misconfiguration.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined id.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// SequentialIDGenerator returns "m-1", "m-2", ... without a fixed bound.
// Handy for simulator runs of arbitrary length.
type SequentialIDGenerator struct {
	mu sync.Mutex
	n  int
}

// Generate returns the next sequential id.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return "m-" + strconv.Itoa(g.n)
}
