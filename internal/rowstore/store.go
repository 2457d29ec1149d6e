package rowstore

import (
	"sync"

	"github.com/roach88/gridstore/internal/cell"
	"github.com/roach88/gridstore/internal/filter"
)

// Store is the canonical in-memory row store.
//
// The zero value is not usable; create instances with New. A Store is an
// explicitly owned object with no package-level state: collaborators
// receive the instance they should use.
type Store struct {
	mu  sync.RWMutex
	gen cell.Generator

	rows []*cell.Row        // identity order (ascending RowID)
	byID map[cell.RowID]int // id -> position in rows

	criteria []filter.Criterion
	fidx     *filter.Index // nil when no filter is active

	vcache validationCache
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithIDGenerator replaces the default RowID generator.
// Tests use this for deterministic identities.
func WithIDGenerator(gen cell.Generator) Option {
	return func(s *Store) {
		s.gen = gen
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		byID:   make(map[cell.RowID]int),
		vcache: newValidationCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = cell.NewSequenceGenerator()
	}
	return s
}

// Clear removes every row, the active filter criteria, and all cached
// validation state. This is the only way the store drops below an
// engine-enforced minimum row count.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = nil
	s.byID = make(map[cell.RowID]int)
	s.criteria = nil
	s.fidx = nil
	s.vcache = newValidationCache()
}

// SetFilterCriteria validates the criteria list, makes it the active
// filter, and rebuilds the filtered index synchronously (O(n*k)).
func (s *Store) SetFilterCriteria(criteria []filter.Criterion) error {
	if err := filter.ValidateAll(criteria); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.criteria = append([]filter.Criterion(nil), criteria...)
	s.fidx = filter.Build(s.rows, s.criteria)
	return nil
}

// ClearFilterCriteria removes the active filter and its index.
func (s *Store) ClearFilterCriteria() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.criteria = nil
	s.fidx = nil
}

// HasFilter reports whether a filter is active.
func (s *Store) HasFilter() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fidx != nil
}

// FilterCriteria returns a copy of the active criteria list.
func (s *Store) FilterCriteria() []filter.Criterion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]filter.Criterion(nil), s.criteria...)
}

// refreshIndexLocked rebuilds the filtered index after a structural
// mutation, keeping the cached view in step with the row set.
// Caller must hold the write lock.
func (s *Store) refreshIndexLocked() {
	if s.fidx != nil {
		s.fidx = filter.Build(s.rows, s.criteria)
	}
}

// reindexLocked rebuilds byID positions from position from onward.
// Caller must hold the write lock.
func (s *Store) reindexLocked(from int) {
	for i := from; i < len(s.rows); i++ {
		s.byID[s.rows[i].ID] = i
	}
}
