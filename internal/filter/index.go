package filter

import "github.com/roach88/gridstore/internal/cell"

// Index is the cached result of applying a criteria list to a row set:
// the ordered matching RowIDs, the filtered-position to
// original-position map, and an ID set for O(1) membership checks.
//
// An Index is immutable once built. It reflects exactly the row set it
// was built from; the owner rebuilds it whenever criteria or rows
// change (no incremental maintenance).
type Index struct {
	ids      []cell.RowID
	toOrig   []int
	idSet    map[cell.RowID]struct{}
	criteria []Criterion
}

// Build constructs an Index in one pass over rows, which must be in
// original (identity) order. Cost is O(n * k) for n rows, k criteria.
func Build(rows []*cell.Row, criteria []Criterion) *Index {
	idx := &Index{
		idSet:    make(map[cell.RowID]struct{}),
		criteria: append([]Criterion(nil), criteria...),
	}
	for pos, row := range rows {
		if !MatchRow(row, criteria) {
			continue
		}
		idx.ids = append(idx.ids, row.ID)
		idx.toOrig = append(idx.toOrig, pos)
		idx.idSet[row.ID] = struct{}{}
	}
	return idx
}

// Len returns the number of matching rows.
func (x *Index) Len() int {
	return len(x.ids)
}

// IDs returns the matching RowIDs in original order. The slice is a copy.
func (x *Index) IDs() []cell.RowID {
	out := make([]cell.RowID, len(x.ids))
	copy(out, x.ids)
	return out
}

// Contains reports whether a row is part of the filtered view.
func (x *Index) Contains(id cell.RowID) bool {
	_, ok := x.idSet[id]
	return ok
}

// OriginalPosition maps a filtered position to the position in the
// unfiltered row set. ok=false when i is out of range.
//
// This mapping is what lets an edit made against a filtered view be
// applied to the correct underlying row.
func (x *Index) OriginalPosition(i int) (int, bool) {
	if i < 0 || i >= len(x.toOrig) {
		return 0, false
	}
	return x.toOrig[i], true
}

// Criteria returns a copy of the criteria the index was built from.
func (x *Index) Criteria() []Criterion {
	return append([]Criterion(nil), x.criteria...)
}
