// Package harness runs declarative row-engine scenarios: a YAML file
// names an initial grid, a sequence of smart operations, and the
// assertions that must hold afterwards. Scenarios execute against a
// store with a sequential ID generator, so a scenario's outcome is
// fully deterministic and can be snapshotted against golden files.
package harness

import (
	"context"
	"fmt"
	"sort"

	"github.com/roach88/gridstore/internal/cell"
	"github.com/roach88/gridstore/internal/rowstore"
	"github.com/roach88/gridstore/internal/smartops"
	"github.com/roach88/gridstore/internal/testutil"
)

// Outcome is the observable result of running a scenario: the final
// store and one trace line per executed step.
type Outcome struct {
	Scenario *Scenario
	Store    *rowstore.Store
	Trace    []string
}

// Run executes a scenario from scratch and returns its outcome.
// Execution stops at the first failing step.
func Run(ctx context.Context, sc *Scenario) (*Outcome, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	store := rowstore.New(rowstore.WithIDGenerator(testutil.NewSequentialIDGenerator("row")))
	eng, err := smartops.New(store)
	if err != nil {
		return nil, err
	}

	if len(sc.Initial) > 0 {
		initial, err := buildRows(sc.Initial)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: initial rows: %w", sc.Name, err)
		}
		store.AppendRange(initial)
	}

	out := &Outcome{Scenario: sc, Store: store}
	cfg := sc.Config.toConfig()

	for i, step := range sc.Steps {
		line, err := runStep(ctx, eng, cfg, i+1, step)
		if err != nil {
			return out, fmt.Errorf("scenario %q step %d: %w", sc.Name, i+1, err)
		}
		out.Trace = append(out.Trace, line)
	}
	return out, nil
}

func runStep(ctx context.Context, eng *smartops.Engine, cfg smartops.Config, n int, step Step) (string, error) {
	switch {
	case len(step.Add) > 0:
		rows, err := buildRows(step.Add)
		if err != nil {
			return "", err
		}
		r, err := eng.SmartAdd(ctx, rows, cfg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("step %d: add %d row(s) -> added=%d created=%d purged=%d final=%d",
			n, len(rows), r.RowsAdded, r.EmptyRowsCreated, r.EmptyRowsRemoved, r.FinalCount), nil

	case len(step.Delete) > 0:
		ids, err := resolvePositions(eng.Store(), step.Delete)
		if err != nil {
			return "", err
		}
		r, err := eng.SmartDelete(ctx, ids, cfg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("step %d: delete %v -> removed=%d blanked=%d created=%d purged=%d final=%d",
			n, step.Delete, r.RowsRemoved, r.RowsBlanked, r.EmptyRowsCreated, r.EmptyRowsRemoved, r.FinalCount), nil

	case step.AutoExpand:
		r, err := eng.AutoExpandEmptyRow(ctx, cfg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("step %d: auto-expand -> created=%d final=%d",
			n, r.EmptyRowsCreated, r.FinalCount), nil

	case step.Cleanup:
		r, err := eng.EnsureMinRowsAndLastEmpty(ctx, cfg, nil)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("step %d: cleanup -> created=%d purged=%d final=%d",
			n, r.EmptyRowsCreated, r.EmptyRowsRemoved, r.FinalCount), nil

	default:
		return "", fmt.Errorf("step has no action")
	}
}

// buildRows converts row specs into rows. Columns within a spec are
// applied in sorted order so map iteration never leaks into snapshots.
func buildRows(specs []RowSpec) ([]*cell.Row, error) {
	rows := make([]*cell.Row, 0, len(specs))
	for _, spec := range specs {
		row := cell.NewRow()
		columns := make([]string, 0, len(spec))
		for col := range spec {
			columns = append(columns, col)
		}
		sort.Strings(columns)
		for _, col := range columns {
			v, err := cell.FromAny(spec[col])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			row.Set(col, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// resolvePositions maps grid positions to row IDs before the step
// mutates anything, so a step's positions all refer to the same state.
func resolvePositions(store *rowstore.Store, positions []int) ([]cell.RowID, error) {
	all := store.All()
	ids := make([]cell.RowID, 0, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(all) {
			return nil, fmt.Errorf("position %d out of range (%d rows)", pos, len(all))
		}
		ids = append(ids, all[pos].ID)
	}
	return ids, nil
}
