package rowstore

import (
	"sort"

	"github.com/roach88/gridstore/internal/cell"
)

// Upsert stores the given rows: a row without an ID gets a fresh one and
// is appended; a row whose ID is already live overwrites that row in
// place (same position, identity unchanged); a row carrying an unknown
// ID is spliced in at its identity-order position (rows can migrate
// between stores).
//
// Input rows are cloned - the store never aliases caller memory.
// Returns the IDs in input order.
func (s *Store) Upsert(rows ...*cell.Row) []cell.RowID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]cell.RowID, 0, len(rows))
	for _, in := range rows {
		row := in.Clone()
		if row.ID == "" {
			row.ID = s.gen.NextID()
		}
		if pos, ok := s.byID[row.ID]; ok {
			s.rows[pos] = row
		} else {
			s.insertOrderedLocked(row)
		}
		ids = append(ids, row.ID)
	}

	s.refreshIndexLocked()
	return ids
}

// insertOrderedLocked inserts a new row at its identity-order position,
// keeping rows sorted by ascending ID. Generated IDs are monotonic, so
// the common case appends; a foreign ID that sorts earlier is spliced
// in. Caller must hold the write lock.
func (s *Store) insertOrderedLocked(row *cell.Row) {
	pos := len(s.rows)
	if pos > 0 && row.ID < s.rows[pos-1].ID {
		pos = sort.Search(len(s.rows), func(i int) bool { return s.rows[i].ID > row.ID })
	}
	s.rows = append(s.rows, nil)
	copy(s.rows[pos+1:], s.rows[pos:])
	s.rows[pos] = row
	s.reindexLocked(pos)
}

// AppendRange stores a batch of rows with Upsert semantics.
// Kept as a separate entry point because bulk callers (import, paste)
// are contractually required to run the smart cleanup afterwards; see
// smartops.Engine.EnsureMinRowsAndLastEmpty.
func (s *Store) AppendRange(rows []*cell.Row) []cell.RowID {
	return s.Upsert(rows...)
}

// RemoveByIDs removes the rows with the given IDs and purges their
// cached validation errors. Unknown IDs are a silent no-op, not an
// error. Returns the number of rows actually removed.
func (s *Store) RemoveByIDs(ids ...cell.RowID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	doomed := make(map[cell.RowID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.byID[id]; ok {
			doomed[id] = struct{}{}
		}
	}
	if len(doomed) == 0 {
		return 0
	}
	s.removeSetLocked(doomed)
	return len(doomed)
}

// RemoveByPredicate removes every row the predicate matches and purges
// their cached validation errors. The predicate receives the store's
// internal row and must treat it as read-only. Returns the number of
// rows removed.
func (s *Store) RemoveByPredicate(pred func(*cell.Row) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	doomed := make(map[cell.RowID]struct{})
	for _, row := range s.rows {
		if pred(row) {
			doomed[row.ID] = struct{}{}
		}
	}
	if len(doomed) == 0 {
		return 0
	}
	s.removeSetLocked(doomed)
	return len(doomed)
}

// removeSetLocked removes all rows in the doomed set in one compaction
// pass. Caller must hold the write lock.
func (s *Store) removeSetLocked(doomed map[cell.RowID]struct{}) {
	kept := s.rows[:0]
	for _, row := range s.rows {
		if _, gone := doomed[row.ID]; gone {
			delete(s.byID, row.ID)
			s.vcache.purge(row.ID)
			continue
		}
		kept = append(kept, row)
	}
	// Zero the tail so removed rows are collectable.
	for i := len(kept); i < len(s.rows); i++ {
		s.rows[i] = nil
	}
	s.rows = kept
	s.reindexLocked(0)
	s.refreshIndexLocked()
}

// ReplaceAll atomically swaps the entire dataset. Readers observe
// either the old rows or the new rows, never a mix. Rows lacking an ID
// get a fresh one; the result is stored in identity order. Validation
// state for IDs no longer present is purged.
func (s *Store) ReplaceAll(rows []*cell.Row) []cell.RowID {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*cell.Row, 0, len(rows))
	for _, in := range rows {
		row := in.Clone()
		if row.ID == "" {
			row.ID = s.gen.NextID()
		}
		next = append(next, row)
	}
	sort.Slice(next, func(i, j int) bool { return next[i].ID < next[j].ID })

	s.rows = next
	s.byID = make(map[cell.RowID]int, len(next))
	s.reindexLocked(0)
	s.vcache.retainOnly(s.byID)
	s.refreshIndexLocked()

	ids := make([]cell.RowID, len(next))
	for i, row := range next {
		ids[i] = row.ID
	}
	return ids
}

// BlankContents clears the cell contents of the given rows in place,
// keeping identity, position, and checkbox state. Cached validation
// errors for those rows are purged (stale by construction). Unknown IDs
// are ignored. Returns the number of rows blanked.
func (s *Store) BlankContents(ids ...cell.RowID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	blanked := 0
	for _, id := range ids {
		pos, ok := s.byID[id]
		if !ok {
			continue
		}
		s.rows[pos].BlankContents()
		s.vcache.purge(id)
		blanked++
	}
	if blanked > 0 {
		s.refreshIndexLocked()
	}
	return blanked
}

// SetChecked sets the checkbox state for the given rows.
// Unknown IDs are ignored. Returns the number of rows updated.
func (s *Store) SetChecked(checked bool, ids ...cell.RowID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, id := range ids {
		if pos, ok := s.byID[id]; ok {
			s.rows[pos].Checked = checked
			updated++
		}
	}
	return updated
}
