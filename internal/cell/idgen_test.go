package cell

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceGenerator_Ordered(t *testing.T) {
	gen := NewSequenceGenerator()

	ids := make([]RowID, 10)
	for i := range ids {
		ids[i] = gen.NextID()
	}

	sorted := make([]RowID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	assert.Equal(t, ids, sorted, "lexicographic order must match generation order")
}

func TestSequenceGenerator_UniqueUnderConcurrency(t *testing.T) {
	gen := NewSequenceGenerator()

	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[RowID]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]RowID, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, gen.NextID())
			}
			mu.Lock()
			for _, id := range local {
				seen[id] = true
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker, "no duplicate IDs")
}
