package session

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces session identifiers.
// Implemented by UUIDv7Generator and FixedGenerator.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session ids, so listing
// sessions by id also lists them by creation time.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
// It panics if the system random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids, for tests and golden output.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next id. It panics once every id has been used,
// which signals a test that created more sessions than it planned for.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids used")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
