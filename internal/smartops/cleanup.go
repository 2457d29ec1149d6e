package smartops

import (
	"context"
	"log/slog"

	"github.com/roach88/gridstore/internal/cell"
	"github.com/roach88/gridstore/internal/rowstore"
)

// cleanupBatchSize is the stream batch size for the cleanup scan.
// Cleanup streams instead of materializing the whole dataset so large
// grids stay cheap to normalize.
const cleanupBatchSize = 512

// EnsureMinRowsAndLastEmpty is the shared cleanup primitive run after
// every count-changing operation. It normalizes the store to one
// canonical end-state: value rows first, then exactly the empty rows
// the configured policies require, all at the end of the grid.
//
// The pass is plan-based: scan the store, compute how many empty rows
// the canonical end-state carries (the backfill to MinimumRows plus the
// guaranteed trailing row), retain that many from the existing trailing
// empty run, remove every other empty row, and append whatever is still
// missing. Retained rows keep their identity, so re-running the cleanup
// with no intervening mutation removes nothing and creates nothing.
//
// Normalizing to one canonical end-state makes the invariants hold
// regardless of which rows were deleted - front, middle, or back.
//
// Import and copy/paste flows that mutate the store directly are
// contractually required to call this afterwards; it is not automatic
// for plain store mutations.
//
// template may be nil; the shape of created rows then falls back to
// the store's first row, or to zero columns on an empty store.
func (e *Engine) EnsureMinRowsAndLastEmpty(ctx context.Context, cfg Config, template *cell.Row) (CleanupResult, error) {
	if err := cfg.Validate(); err != nil {
		return CleanupResult{}, err
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	return e.ensureLocked(ctx, cfg, template)
}

// ensureLocked is the cleanup body. Caller must hold the compound
// section.
func (e *Engine) ensureLocked(ctx context.Context, cfg Config, template *cell.Row) (CleanupResult, error) {
	var result CleanupResult

	// Scan: collect empty-row IDs and measure the trailing empty run.
	var emptyIDs []cell.RowID
	total := 0
	trailingRun := 0

	stream := e.store.Stream(rowstore.StreamOptions{BatchSize: cleanupBatchSize})
	for {
		batch, err := stream.Next(ctx)
		if err != nil {
			return result, NewCancelledError(err)
		}
		if batch == nil {
			break
		}
		for _, row := range batch {
			total++
			if row.IsEmpty() {
				emptyIDs = append(emptyIDs, row.ID)
				trailingRun++
			} else {
				trailingRun = 0
			}
		}
	}

	// Plan: the canonical end-state carries needEmpty empty rows at the
	// end of the grid - the backfill that lifts the count to the
	// minimum, or the single guaranteed trailing row when the minimum is
	// already met by value rows.
	valueCount := total - len(emptyIDs)
	needEmpty := 0
	if cfg.MinimumRows > 0 && valueCount < cfg.MinimumRows {
		needEmpty = cfg.MinimumRows - valueCount
	}
	if cfg.AlwaysKeepLastEmpty && needEmpty == 0 {
		needEmpty = 1
	}

	// Commit: retain as much of the trailing empty run as the plan
	// needs. Removing those rows only to append fresh ones would churn
	// identities and break idempotence; every other empty row goes.
	retain := trailingRun
	if retain > needEmpty {
		retain = needEmpty
	}
	result.EmptyRowsRemoved = e.store.RemoveByIDs(emptyIDs[:len(emptyIDs)-retain]...)

	if err := ctx.Err(); err != nil {
		return result, NewCancelledError(err)
	}

	columns := e.templateColumns(template)
	for i := retain; i < needEmpty; i++ {
		e.store.AppendRange([]*cell.Row{cell.NewRowFromColumns(columns)})
		result.EmptyRowsCreated++
	}

	result.FinalCount = e.store.Count(false)
	if result.EmptyRowsRemoved > 0 || result.EmptyRowsCreated > 0 {
		slog.Debug("cleanup normalized store",
			"empty_removed", result.EmptyRowsRemoved,
			"empty_created", result.EmptyRowsCreated,
			"final_count", result.FinalCount)
	}
	return result, nil
}

// appendTrailingEmptyIfNeeded appends one empty row unless the current
// trailing row is already empty. Returns the number of rows created
// (0 or 1).
func (e *Engine) appendTrailingEmptyIfNeeded(template *cell.Row) int {
	count := e.store.Count(false)
	if count > 0 {
		if last, ok := e.store.GetAt(count - 1); ok && last.IsEmpty() {
			return 0
		}
	}
	e.store.AppendRange([]*cell.Row{cell.NewRowFromColumns(e.templateColumns(template))})
	return 1
}

// templateColumns derives the column shape for created empty rows:
// the template's columns when given, else the store's first row's.
// The identity field is metadata, never a column, so nothing is
// excluded here.
func (e *Engine) templateColumns(template *cell.Row) []string {
	if template != nil {
		return template.Columns()
	}
	if row, ok := e.store.GetAt(0); ok {
		return row.Columns()
	}
	return nil
}
