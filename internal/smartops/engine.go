// Package smartops implements the smart row-management engine: add and
// delete operations that preserve the grid's structural invariants
// (guaranteed trailing empty row, enforced minimum row count) even
// under concurrent callers.
//
// The engine owns a mutual-exclusion section distinct from the store's
// own lock. Compound operations span multiple store calls (read count,
// compute plan, mutate, clean up) that must appear atomic with respect
// to other compound operations: two interleaved deletes that each read
// a stale row count can otherwise jointly break the minimum-row
// invariant. The section is held for the full operation+cleanup
// sequence and released on every exit path.
package smartops

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/gridstore/internal/cell"
	"github.com/roach88/gridstore/internal/rowstore"
)

// Config carries the row-management toggles for one operation.
// Operations take the configuration per call; the engine itself holds
// no policy state.
type Config struct {
	// MinimumRows is the enforced minimum row count; zero or negative
	// disables the policy. Only an explicit Store.Clear may drop the
	// count below an active minimum.
	MinimumRows int

	// AlwaysKeepLastEmpty guarantees a fully empty trailing row
	// reserved for new-data entry.
	AlwaysKeepLastEmpty bool

	// EnableAutoExpand allows AutoExpandEmptyRow to append.
	EnableAutoExpand bool

	// EnableSmartDelete allows SmartDelete to remove rows physically.
	// When false, targeted rows are blanked in place instead.
	EnableSmartDelete bool
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.MinimumRows < 0 {
		return NewInvalidArgumentError("minimum rows must not be negative, got %d", c.MinimumRows)
	}
	return nil
}

// AddResult reports a completed SmartAdd or AutoExpandEmptyRow.
type AddResult struct {
	RowsAdded        int // caller rows appended
	EmptyRowsCreated int // empty rows created by cleanup/expansion
	EmptyRowsRemoved int // empty rows purged by cleanup
	FinalCount       int // total rows after the operation
}

// DeleteResult reports a completed SmartDelete.
type DeleteResult struct {
	RowsRemoved       int  // rows physically removed
	RowsBlanked       int  // rows blanked in place
	EmptyRowsCreated  int  // empty rows created by cleanup
	EmptyRowsRemoved  int  // empty rows purged by cleanup
	FinalCount        int  // total rows after the operation
	CleanupIncomplete bool // the delete committed but cleanup did not finish
}

// CleanupResult reports a completed EnsureMinRowsAndLastEmpty.
type CleanupResult struct {
	EmptyRowsRemoved int
	EmptyRowsCreated int
	FinalCount       int
}

// Engine orchestrates invariant-preserving add/delete sequences on top
// of a rowstore.Store.
//
// Thread-safety model:
//   - all methods are safe from any goroutine
//   - compound operations are serialized by the engine's own mutex,
//     independent of the store lock
type Engine struct {
	store *rowstore.Store
	opMu  sync.Mutex // compound-operation section
}

// New creates an engine bound to a store.
// A nil store is a construction error, the only hard failure in this
// package; everything else is returned as operation results.
func New(store *rowstore.Store) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("smartops: store must not be nil")
	}
	return &Engine{store: store}, nil
}

// Store returns the underlying store.
func (e *Engine) Store() *rowstore.Store {
	return e.store
}

// SmartAdd appends rows and restores the structural invariants.
//
// The rows are appended with store Upsert semantics, then the shared
// cleanup primitive runs. The whole sequence holds the compound section.
func (e *Engine) SmartAdd(ctx context.Context, rows []*cell.Row, cfg Config) (AddResult, error) {
	if err := cfg.Validate(); err != nil {
		return AddResult{}, err
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	if err := ctx.Err(); err != nil {
		return AddResult{}, NewCancelledError(err)
	}

	ids := e.store.AppendRange(rows)

	template := e.templateRow(rows)
	cleanup, err := e.ensureLocked(ctx, cfg, template)
	result := AddResult{
		RowsAdded:        len(ids),
		EmptyRowsCreated: cleanup.EmptyRowsCreated,
		EmptyRowsRemoved: cleanup.EmptyRowsRemoved,
		FinalCount:       e.store.Count(false),
	}
	if err != nil {
		return result, err
	}

	slog.Debug("smart add complete",
		"rows_added", result.RowsAdded,
		"empty_created", result.EmptyRowsCreated,
		"final_count", result.FinalCount)
	return result, nil
}

// SmartDelete deletes the given rows, choosing between physical removal
// (followed by cleanup) and blanking the rows' content in place.
//
// Blanking is used when physical removal would drop the count below the
// configured minimum, or when smart delete is disabled. IDs that do not
// exist are a no-op success reporting zero affected rows - never an
// error, so callers do not spuriously materialize extra empty rows.
//
// When cleanup fails after the delete has committed, the result carries
// the committed counts with CleanupIncomplete set; there is no
// rollback. EnsureMinRowsAndLastEmpty is idempotent and converges, so
// callers may simply re-run it.
func (e *Engine) SmartDelete(ctx context.Context, ids []cell.RowID, cfg Config) (DeleteResult, error) {
	if err := cfg.Validate(); err != nil {
		return DeleteResult{}, err
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	if err := ctx.Err(); err != nil {
		return DeleteResult{}, NewCancelledError(err)
	}

	// Plan: resolve the distinct IDs that actually exist.
	valid := e.existingDistinct(ids)
	if len(valid) == 0 {
		return DeleteResult{FinalCount: e.store.Count(false)}, nil
	}

	count := e.store.Count(false)
	physical := cfg.EnableSmartDelete &&
		(cfg.MinimumRows <= 0 || count-len(valid) >= cfg.MinimumRows)

	slog.Debug("smart delete planned",
		"requested", len(ids),
		"valid", len(valid),
		"count", count,
		"physical", physical)

	if !physical {
		blanked := e.store.BlankContents(valid...)
		result := DeleteResult{RowsBlanked: blanked, FinalCount: e.store.Count(false)}
		// Blanking does not change the count, so the three-step
		// cleanup is not owed; only the trailing-empty guarantee is.
		if cfg.AlwaysKeepLastEmpty {
			result.EmptyRowsCreated += e.appendTrailingEmptyIfNeeded(nil)
			result.FinalCount = e.store.Count(false)
		}
		return result, nil
	}

	// Commit: the physical removal.
	removed := e.store.RemoveByIDs(valid...)

	// Cleanup after the commit. A failure here leaves the store
	// delete-applied-but-not-cleaned; the window is reported, not
	// rolled back.
	cleanup, err := e.ensureLocked(ctx, cfg, nil)
	result := DeleteResult{
		RowsRemoved:      removed,
		EmptyRowsCreated: cleanup.EmptyRowsCreated,
		EmptyRowsRemoved: cleanup.EmptyRowsRemoved,
		FinalCount:       e.store.Count(false),
	}
	if err != nil {
		// The delete committed; the store is delete-applied but not
		// cleaned. Reported, not rolled back - EnsureMinRowsAndLastEmpty
		// is idempotent, so callers recover by re-running it.
		result.CleanupIncomplete = true
		return result, err
	}

	slog.Debug("smart delete complete",
		"removed", result.RowsRemoved,
		"empty_created", result.EmptyRowsCreated,
		"final_count", result.FinalCount)
	return result, nil
}

// AutoExpandEmptyRow appends one empty row when the current trailing
// row is not already empty. Idempotent: a second call with no
// intervening mutation appends nothing. A no-op when auto-expansion is
// disabled by configuration.
func (e *Engine) AutoExpandEmptyRow(ctx context.Context, cfg Config) (AddResult, error) {
	if err := cfg.Validate(); err != nil {
		return AddResult{}, err
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	if err := ctx.Err(); err != nil {
		return AddResult{}, NewCancelledError(err)
	}

	result := AddResult{FinalCount: e.store.Count(false)}
	if !cfg.EnableAutoExpand {
		return result, nil
	}

	result.EmptyRowsCreated = e.appendTrailingEmptyIfNeeded(nil)
	result.FinalCount = e.store.Count(false)
	return result, nil
}

// existingDistinct resolves the distinct IDs that are live in the
// store, preserving request order.
func (e *Engine) existingDistinct(ids []cell.RowID) []cell.RowID {
	seen := make(map[cell.RowID]struct{}, len(ids))
	var valid []cell.RowID
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := e.store.Get(id); ok {
			valid = append(valid, id)
		}
	}
	return valid
}

// templateRow picks a row whose columns shape newly created empty rows:
// the first added row if any, otherwise the store's first row.
func (e *Engine) templateRow(added []*cell.Row) *cell.Row {
	if len(added) > 0 {
		return added[0]
	}
	if row, ok := e.store.GetAt(0); ok {
		return row
	}
	return nil
}
