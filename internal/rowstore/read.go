package rowstore

import (
	"context"
	"sort"

	"github.com/roach88/gridstore/internal/cell"
	"github.com/roach88/gridstore/internal/filter"
)

// DefaultBatchSize is the Stream batch size when none is configured.
const DefaultBatchSize = 1000

// Get returns a copy of the row with the given ID.
// ok=false when the ID is not live.
func (s *Store) Get(id cell.RowID) (*cell.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.rows[pos].Clone(), true
}

// GetAt returns a copy of the row at the given position in identity
// order. ok=false when the index is out of range.
//
// Deprecated: GetAt sorts the full ID set on every call (O(n log n)) to
// reproduce identity order from scratch; it exists only for legacy
// positional callers. Address rows by ID via Get instead.
func (s *Store) GetAt(index int) (*cell.Row, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.rows) {
		return nil, false
	}

	ids := make([]cell.RowID, 0, len(s.rows))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return s.rows[s.byID[ids[index]]].Clone(), true
}

// All returns copies of every row in identity order. This is the
// read-only entry point for sort/search consumers.
func (s *Store) All() []*cell.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(false, false)
}

// Count returns the number of rows. With onlyFiltered and an active
// filter it answers from the cached index in O(1); otherwise it is the
// total cardinality.
func (s *Store) Count(onlyFiltered bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if onlyFiltered && s.fidx != nil {
		return s.fidx.Len()
	}
	return len(s.rows)
}

// MapFilteredIndexToOriginal maps a position in the filtered view to
// the position in the unfiltered row set. With no active filter the
// index is returned unchanged. ok=false when a filter is active and i
// is outside the filtered view.
func (s *Store) MapFilteredIndexToOriginal(i int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fidx == nil {
		return i, true
	}
	return s.fidx.OriginalPosition(i)
}

// StreamOptions configure a Stream call.
type StreamOptions struct {
	// OnlyFiltered restricts the stream to rows matching the filter
	// criteria. The criteria are evaluated for this call, not served
	// from the cached index.
	OnlyFiltered bool

	// OnlyChecked restricts the stream to rows with the checkbox set.
	OnlyChecked bool

	// BatchSize is the number of rows per batch (DefaultBatchSize
	// when zero or negative).
	BatchSize int
}

// Stream is a finite, pull-based sequence of row batches in identity
// order over one coherent snapshot taken when the stream was created.
//
// A Stream is not restartable: a new Stream call re-snapshots current
// state rather than resuming a prior one. Safe for use by a single
// consumer goroutine.
type Stream struct {
	rows      []*cell.Row
	pos       int
	batchSize int
}

// Stream snapshots the matching rows and returns a batch iterator.
// Predicates (filter criteria, checked state) are evaluated here, per
// call; the store lock is released before the first batch is read.
func (s *Store) Stream(opts StreamOptions) *Stream {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	s.mu.RLock()
	rows := s.snapshotLocked(opts.OnlyFiltered, opts.OnlyChecked)
	s.mu.RUnlock()

	return &Stream{rows: rows, batchSize: batchSize}
}

// Next returns the next batch, or a nil batch when the stream is
// exhausted. Cancellation is observed between batches; work already
// returned is not rolled back.
func (st *Stream) Next(ctx context.Context) ([]*cell.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if st.pos >= len(st.rows) {
		return nil, nil
	}

	end := st.pos + st.batchSize
	if end > len(st.rows) {
		end = len(st.rows)
	}
	batch := st.rows[st.pos:end]
	st.pos = end
	return batch, nil
}

// Remaining returns the number of rows not yet returned.
func (st *Stream) Remaining() int {
	if st.pos >= len(st.rows) {
		return 0
	}
	return len(st.rows) - st.pos
}

// snapshotLocked builds a deep-copied row snapshot in identity order,
// applying the requested predicates. Caller must hold at least the
// read lock.
func (s *Store) snapshotLocked(onlyFiltered, onlyChecked bool) []*cell.Row {
	out := make([]*cell.Row, 0, len(s.rows))
	for _, row := range s.rows {
		if onlyFiltered && s.fidx != nil && !filter.MatchRow(row, s.criteria) {
			continue
		}
		if onlyChecked && !row.Checked {
			continue
		}
		out = append(out, row.Clone())
	}
	return out
}
