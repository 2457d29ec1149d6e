package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/gridstore/internal/cell"
)

// SequentialIDGenerator produces predictable RowIDs for tests.
//
// IDs take the form "row-000001", "row-000002", ... so golden snapshots
// and assertions stay byte-identical across runs. The zero-padded
// counter keeps lexicographic order equal to generation order, matching
// the cell.Generator contract.
//
// Unlike cell.SequenceGenerator there is no UUID suffix: determinism is
// the point.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequentialIDGenerator creates a generator with the given prefix.
// An empty prefix defaults to "row".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "row"
	}
	return &SequentialIDGenerator{prefix: prefix, next: 1}
}

// NextID returns the next predictable RowID.
func (g *SequentialIDGenerator) NextID() cell.RowID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := cell.RowID(fmt.Sprintf("%s-%06d", g.prefix, g.next))
	g.next++
	return id
}

// Reset restarts the counter at 1 for test reuse.
func (g *SequentialIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next = 1
}
