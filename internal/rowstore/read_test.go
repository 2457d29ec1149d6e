package rowstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gridstore/internal/cell"
	"github.com/roach88/gridstore/internal/filter"
)

func TestStore_GetAt_IdentityOrder(t *testing.T) {
	s := newTestStore()
	ids := s.Upsert(textRow("x", "A"), textRow("x", "B"), textRow("x", "C"))

	for i, id := range ids {
		row, ok := s.GetAt(i)
		require.True(t, ok)
		assert.Equal(t, id, row.ID)
	}

	_, ok := s.GetAt(3)
	assert.False(t, ok)
	_, ok = s.GetAt(-1)
	assert.False(t, ok)
}

func TestStore_Count_FilteredIsO1FromIndex(t *testing.T) {
	s := newTestStore()
	s.Upsert(textRow("x", "A"), textRow("x", "B"), textRow("x", "A"))

	assert.Equal(t, 3, s.Count(true), "no filter: onlyFiltered falls back to total")

	require.NoError(t, s.SetFilterCriteria([]filter.Criterion{
		{Column: "x", Op: filter.OpEquals, Operand: cell.Text("a")},
	}))
	assert.Equal(t, 2, s.Count(true))
	assert.Equal(t, 3, s.Count(false))
}

func TestStore_MapFilteredIndexToOriginal(t *testing.T) {
	s := newTestStore()
	// Rows at original positions 1 and 4 match x=2.
	for _, v := range []string{"1", "2", "3", "4", "2"} {
		s.Upsert(textRow("x", v))
	}

	// No filter: index passes through unchanged.
	orig, ok := s.MapFilteredIndexToOriginal(3)
	require.True(t, ok)
	assert.Equal(t, 3, orig)

	require.NoError(t, s.SetFilterCriteria([]filter.Criterion{
		{Column: "x", Op: filter.OpEquals, Operand: cell.Number(2)},
	}))

	orig, ok = s.MapFilteredIndexToOriginal(0)
	require.True(t, ok)
	assert.Equal(t, 1, orig)

	orig, ok = s.MapFilteredIndexToOriginal(1)
	require.True(t, ok)
	assert.Equal(t, 4, orig)

	_, ok = s.MapFilteredIndexToOriginal(2)
	assert.False(t, ok, "outside the filtered view")
}

func TestStore_Stream_Batches(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 5; i++ {
		s.Upsert(textRow("x", "v"))
	}

	st := s.Stream(StreamOptions{BatchSize: 2})
	ctx := context.Background()

	var total int
	var batches int
	for {
		batch, err := st.Next(ctx)
		require.NoError(t, err)
		if batch == nil {
			break
		}
		batches++
		total += len(batch)
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 3, batches)
	assert.Equal(t, 0, st.Remaining())
}

func TestStore_Stream_SnapshotIsolation(t *testing.T) {
	s := newTestStore()
	s.Upsert(textRow("x", "A"), textRow("x", "B"))

	st := s.Stream(StreamOptions{BatchSize: 1})

	// Mutations after the snapshot must not appear in the stream.
	s.Upsert(textRow("x", "C"))
	s.RemoveByPredicate(func(r *cell.Row) bool { return true })

	ctx := context.Background()
	var seen []string
	for {
		batch, err := st.Next(ctx)
		require.NoError(t, err)
		if batch == nil {
			break
		}
		for _, row := range batch {
			seen = append(seen, cell.Format(row.Get("x")))
		}
	}
	assert.Equal(t, []string{"A", "B"}, seen)
}

func TestStore_Stream_OnlyFilteredAndChecked(t *testing.T) {
	s := newTestStore()
	ids := s.Upsert(textRow("x", "A"), textRow("x", "B"), textRow("x", "A"))
	s.SetChecked(true, ids[0], ids[1])

	require.NoError(t, s.SetFilterCriteria([]filter.Criterion{
		{Column: "x", Op: filter.OpEquals, Operand: cell.Text("A")},
	}))

	st := s.Stream(StreamOptions{OnlyFiltered: true, OnlyChecked: true})
	batch, err := st.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, batch, 1, "only row-000001 is both matching and checked")
	assert.Equal(t, ids[0], batch[0].ID)
}

func TestStore_Stream_Cancellation(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 10; i++ {
		s.Upsert(textRow("x", "v"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	st := s.Stream(StreamOptions{BatchSize: 3})

	batch, err := st.Next(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	cancel()
	_, err = st.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled, "cancellation observed between batches")
}

func TestStore_Stream_NotRestartable(t *testing.T) {
	s := newTestStore()
	s.Upsert(textRow("x", "A"))

	ctx := context.Background()
	st := s.Stream(StreamOptions{})
	_, err := st.Next(ctx)
	require.NoError(t, err)

	batch, err := st.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, batch, "exhausted stream stays exhausted")

	// A fresh call re-snapshots instead.
	st2 := s.Stream(StreamOptions{})
	batch, err = st2.Next(ctx)
	require.NoError(t, err)
	assert.Len(t, batch, 1)
}

func TestStore_All_ReturnsClones(t *testing.T) {
	s := newTestStore()
	ids := s.Upsert(textRow("x", "A"))

	rows := s.All()
	require.Len(t, rows, 1)
	rows[0].Set("x", cell.Text("mutated"))

	got, _ := s.Get(ids[0])
	assert.Equal(t, cell.Text("A"), got.Get("x"))
}
