package cell

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator produces RowIDs. Implemented by SequenceGenerator
// (production) and the fixed generator in internal/testutil (tests).
//
// Contract: every ID is unique for the generator's lifetime, and IDs
// compare lexicographically in generation order.
type Generator interface {
	NextID() RowID
}

// SequenceGenerator is the default RowID generator.
//
// Each ID is a zero-padded hexadecimal logical sequence number followed
// by a UUID:
//
//	"0000000000000007-550e8400-e29b-41d4-a716-446655440000"
//
// The sequence prefix makes ordering strictly monotonic and independent
// of wall time; the UUID suffix keeps IDs unique across store instances
// (two stores can exchange rows without identity collisions).
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu   sync.Mutex
	next uint64
}

// NewSequenceGenerator creates a generator starting at sequence 1.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{next: 1}
}

// NextID returns the next RowID.
func (g *SequenceGenerator) NextID() RowID {
	g.mu.Lock()
	seq := g.next
	g.next++
	g.mu.Unlock()
	return RowID(fmt.Sprintf("%016x-%s", seq, uuid.NewString()))
}
