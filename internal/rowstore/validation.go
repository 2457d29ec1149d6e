package rowstore

import (
	"github.com/roach88/gridstore/internal/cell"
	"github.com/roach88/gridstore/internal/filter"
)

// Severity classifies a validation error.
type Severity string

const (
	// SeverityError marks a row invalid.
	SeverityError Severity = "error"
	// SeverityWarning is advisory; it does not make a row invalid.
	SeverityWarning Severity = "warning"
	// SeverityInfo is purely informational.
	SeverityInfo Severity = "info"
)

// ValidationError is one finding from an external validation pass.
// Always correlated by RowID, never by positional index - positions
// shift under sort/filter, identities do not.
type ValidationError struct {
	RowID    cell.RowID
	Column   string
	Message  string
	Severity Severity
}

// validationCache holds the findings of the most recent validation
// pass, keyed by RowID, plus the staleness flag.
//
// The cache is passive: the store performs no validation itself.
// After clear() it answers "unknown", never "all valid".
type validationCache struct {
	errors   map[cell.RowID][]ValidationError
	hasState bool
}

func newValidationCache() validationCache {
	return validationCache{errors: make(map[cell.RowID][]ValidationError)}
}

func (c *validationCache) purge(id cell.RowID) {
	delete(c.errors, id)
}

// retainOnly drops entries whose row is no longer live.
func (c *validationCache) retainOnly(live map[cell.RowID]int) {
	for id := range c.errors {
		if _, ok := live[id]; !ok {
			delete(c.errors, id)
		}
	}
}

// WriteValidationResults replaces the cached validation state with the
// findings of a completed external validation pass. An empty slice is a
// valid result: it means the pass ran and found nothing.
func (s *Store) WriteValidationResults(errs []ValidationError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vcache = newValidationCache()
	s.vcache.hasState = true
	for _, e := range errs {
		if _, live := s.byID[e.RowID]; !live {
			continue
		}
		s.vcache.errors[e.RowID] = append(s.vcache.errors[e.RowID], e)
	}
}

// ClearValidationState drops all cached findings and marks the cache
// stale: until the next validation pass the store answers "unknown",
// surfaced as false from AllNonEmptyRowsValid.
func (s *Store) ClearValidationState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vcache = newValidationCache()
}

// HasValidationState reports whether a validation pass has run since
// the cache was last cleared.
func (s *Store) HasValidationState() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vcache.hasState
}

// GetValidationErrors returns the cached findings for rows in scope, in
// identity order. Scope narrows to the filtered view and/or checked
// rows when requested.
func (s *Store) GetValidationErrors(onlyFiltered, onlyChecked bool) []ValidationError {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ValidationError
	for _, row := range s.rows {
		if !s.inScopeLocked(row, onlyFiltered, onlyChecked) {
			continue
		}
		out = append(out, s.vcache.errors[row.ID]...)
	}
	return out
}

// AllNonEmptyRowsValid reports whether every non-empty row in scope is
// free of error-severity findings. Short-circuits to false when no
// validation pass has run: unknown is never treated as valid.
func (s *Store) AllNonEmptyRowsValid(onlyFiltered, onlyChecked bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.vcache.hasState {
		return false
	}
	for _, row := range s.rows {
		if row.IsEmpty() {
			continue
		}
		if !s.inScopeLocked(row, onlyFiltered, onlyChecked) {
			continue
		}
		for _, e := range s.vcache.errors[row.ID] {
			if e.Severity == SeverityError {
				return false
			}
		}
	}
	return true
}

// inScopeLocked applies the filtered/checked scope predicates.
// Caller must hold at least the read lock.
func (s *Store) inScopeLocked(row *cell.Row, onlyFiltered, onlyChecked bool) bool {
	if onlyFiltered && s.fidx != nil && !filter.MatchRow(row, s.criteria) {
		return false
	}
	if onlyChecked && !row.Checked {
		return false
	}
	return true
}
