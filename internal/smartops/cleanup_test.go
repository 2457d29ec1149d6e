package smartops

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gridstore/internal/cell"
)

func TestEngine_Cleanup_PurgesInteriorEmptyRows(t *testing.T) {
	eng := newTestEngine(t)
	cfg := Config{MinimumRows: 1, AlwaysKeepLastEmpty: true}

	// Empty rows at the front, middle and back.
	eng.Store().AppendRange([]*cell.Row{
		valueRow("x", nil),
		valueRow("x", "A"),
		valueRow("x", nil),
		valueRow("x", "B"),
		valueRow("x", nil),
	})

	result, err := eng.EnsureMinRowsAndLastEmpty(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.EmptyRowsRemoved, "front and middle empties removed, trailing retained")
	assert.Equal(t, 0, result.EmptyRowsCreated)
	assert.Equal(t, []string{"A", "B", ""}, cellsOf(t, eng.Store(), "x"))
}

func TestEngine_Cleanup_BackfillsToMinimum(t *testing.T) {
	eng := newTestEngine(t)
	cfg := Config{MinimumRows: 3}

	eng.Store().AppendRange([]*cell.Row{valueRow("x", "A")})

	result, err := eng.EnsureMinRowsAndLastEmpty(context.Background(), cfg, valueRow("x", "shape"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.EmptyRowsCreated)
	assert.Equal(t, 3, result.FinalCount)

	// Created rows carry the template's column shape.
	last, ok := eng.Store().GetAt(2)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, last.Columns())
	assert.True(t, last.IsEmpty())
}

func TestEngine_Cleanup_Idempotent(t *testing.T) {
	eng := newTestEngine(t)
	cfg := Config{MinimumRows: 2, AlwaysKeepLastEmpty: true}

	eng.Store().AppendRange([]*cell.Row{valueRow("x", "A")})

	first, err := eng.EnsureMinRowsAndLastEmpty(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Positive(t, first.EmptyRowsCreated)

	idsAfterFirst := rowIDs(eng)

	second, err := eng.EnsureMinRowsAndLastEmpty(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, second.EmptyRowsRemoved, "second run performs no work")
	assert.Equal(t, 0, second.EmptyRowsCreated)
	assert.Equal(t, idsAfterFirst, rowIDs(eng), "row identities are not churned")
}

func TestEngine_Cleanup_IdempotentWithMultiRowBackfill(t *testing.T) {
	// A minimum high enough to need several backfill rows: all of them
	// belong to the canonical end-state and must survive a re-run.
	eng := newTestEngine(t)
	cfg := Config{MinimumRows: 3, AlwaysKeepLastEmpty: true}

	eng.Store().AppendRange([]*cell.Row{valueRow("x", "A")})

	first, err := eng.EnsureMinRowsAndLastEmpty(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Equal(t, 2, first.EmptyRowsCreated)
	require.Equal(t, 3, first.FinalCount)

	idsAfterFirst := rowIDs(eng)

	second, err := eng.EnsureMinRowsAndLastEmpty(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, second.EmptyRowsRemoved)
	assert.Equal(t, 0, second.EmptyRowsCreated)
	assert.Equal(t, idsAfterFirst, rowIDs(eng), "backfill rows keep their identity")
}

func TestEngine_Cleanup_IdempotentWithoutTrailingPolicy(t *testing.T) {
	eng := newTestEngine(t)
	cfg := Config{MinimumRows: 2}

	eng.Store().AppendRange([]*cell.Row{valueRow("x", "A")})

	first, err := eng.EnsureMinRowsAndLastEmpty(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Equal(t, 1, first.EmptyRowsCreated)

	idsAfterFirst := rowIDs(eng)

	second, err := eng.EnsureMinRowsAndLastEmpty(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, second.EmptyRowsRemoved, "the backfill row is part of the canonical state")
	assert.Equal(t, 0, second.EmptyRowsCreated)
	assert.Equal(t, idsAfterFirst, rowIDs(eng))
}

func TestEngine_Cleanup_NoTrailingPolicyRemovesAllEmpties(t *testing.T) {
	eng := newTestEngine(t)
	cfg := Config{}

	eng.Store().AppendRange([]*cell.Row{valueRow("x", "A"), valueRow("x", nil)})

	result, err := eng.EnsureMinRowsAndLastEmpty(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.EmptyRowsRemoved)
	assert.Equal(t, 1, result.FinalCount)
}

func TestEngine_Cleanup_EmptyStoreWithPolicies(t *testing.T) {
	eng := newTestEngine(t)
	cfg := Config{MinimumRows: 2, AlwaysKeepLastEmpty: true}

	result, err := eng.EnsureMinRowsAndLastEmpty(context.Background(), cfg, valueRow("a", "t", "b", "t"))
	require.NoError(t, err)

	// Backfill reaches the minimum and the backfilled rows are empty,
	// so the trailing guarantee is already satisfied.
	assert.Equal(t, 2, result.EmptyRowsCreated)
	assert.Equal(t, 2, result.FinalCount)

	last, ok := eng.Store().GetAt(1)
	require.True(t, ok)
	assert.True(t, last.IsEmpty())
	assert.Equal(t, []string{"a", "b"}, last.Columns())
}

func TestEngine_Cleanup_Cancelled(t *testing.T) {
	eng := newTestEngine(t)
	eng.Store().AppendRange([]*cell.Row{valueRow("x", "A")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.EnsureMinRowsAndLastEmpty(ctx, Config{AlwaysKeepLastEmpty: true}, nil)
	assert.True(t, IsCancelled(err))
}

// TestEngine_ConcurrentSmartDeletes exercises the compound-operation
// section: N concurrent deletes of disjoint id sets must neither lose
// nor duplicate deletions, and the final count must be exact.
func TestEngine_ConcurrentSmartDeletes(t *testing.T) {
	eng := newTestEngine(t)
	cfg := Config{MinimumRows: 1, AlwaysKeepLastEmpty: true, EnableSmartDelete: true}

	const workers = 8
	const perWorker = 5
	const extra = 3 // rows no worker touches

	var rows []*cell.Row
	for i := 0; i < workers*perWorker+extra; i++ {
		rows = append(rows, valueRow("x", fmt.Sprintf("v%03d", i)))
	}
	ids := eng.Store().AppendRange(rows)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			batch := ids[w*perWorker : (w+1)*perWorker]
			result, err := eng.SmartDelete(context.Background(), batch, cfg)
			assert.NoError(t, err)
			assert.Equal(t, perWorker, result.RowsRemoved)
		}(w)
	}
	wg.Wait()

	// extra survivors plus exactly one trailing empty row.
	assert.Equal(t, extra+1, eng.Store().Count(false))

	all := eng.Store().All()
	assert.True(t, all[len(all)-1].IsEmpty(), "trailing row is empty after every sequence")

	// No survivor was lost.
	for _, id := range ids[workers*perWorker:] {
		_, ok := eng.Store().Get(id)
		assert.True(t, ok)
	}
}

// TestEngine_TrailingEmptyInvariant_OpSequences drives a mixed sequence
// of adds and deletes and checks the invariant after every step.
func TestEngine_TrailingEmptyInvariant_OpSequences(t *testing.T) {
	eng := newTestEngine(t)
	cfg := Config{MinimumRows: 1, AlwaysKeepLastEmpty: true, EnableSmartDelete: true}
	ctx := context.Background()

	checkInvariant := func(step string) {
		all := eng.Store().All()
		require.NotEmpty(t, all, step)
		assert.True(t, all[len(all)-1].IsEmpty(), "trailing row must be empty after %s", step)
	}

	_, err := eng.SmartAdd(ctx, []*cell.Row{valueRow("x", "A"), valueRow("x", "B")}, cfg)
	require.NoError(t, err)
	checkInvariant("initial add")

	ids := rowIDs(eng)
	_, err = eng.SmartDelete(ctx, ids[:1], cfg)
	require.NoError(t, err)
	checkInvariant("front delete")

	_, err = eng.SmartAdd(ctx, []*cell.Row{valueRow("x", "C")}, cfg)
	require.NoError(t, err)
	checkInvariant("second add")

	ids = rowIDs(eng)
	_, err = eng.SmartDelete(ctx, ids, cfg)
	require.NoError(t, err)
	checkInvariant("delete everything")
	assert.GreaterOrEqual(t, eng.Store().Count(false), cfg.MinimumRows)
}

func rowIDs(eng *Engine) []cell.RowID {
	var ids []cell.RowID
	for _, row := range eng.Store().All() {
		ids = append(ids, row.ID)
	}
	return ids
}
