package harness

import (
	"fmt"

	"github.com/roach88/gridstore/internal/cell"
	"github.com/roach88/gridstore/internal/rowstore"
)

// Assertion is one declarative check against the final grid.
//
// Types:
//
//	count          - exact final row count (count)
//	min_rows       - final row count is at least (count)
//	trailing_empty - the last row is fully empty
//	cell           - the cell at (row, column) equals (value)
type Assertion struct {
	Type   string `yaml:"type"`
	Count  int    `yaml:"count,omitempty"`
	Row    int    `yaml:"row,omitempty"`
	Column string `yaml:"column,omitempty"`
	Value  any    `yaml:"value,omitempty"`
}

// AssertionError reports a single failed assertion with both sides.
type AssertionError struct {
	Type     string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion %s: expected %v, got %v", e.Type, e.Expected, e.Actual)
}

func (a Assertion) validate() error {
	switch a.Type {
	case "count", "min_rows", "trailing_empty":
		return nil
	case "cell":
		if a.Column == "" {
			return fmt.Errorf("cell assertion needs a column")
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// Check evaluates the assertion against a store.
func (a Assertion) Check(store *rowstore.Store) error {
	switch a.Type {
	case "count":
		if got := store.Count(false); got != a.Count {
			return &AssertionError{Type: a.Type, Expected: a.Count, Actual: got}
		}
	case "min_rows":
		if got := store.Count(false); got < a.Count {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf(">=%d", a.Count), Actual: got}
		}
	case "trailing_empty":
		count := store.Count(false)
		last, ok := store.GetAt(count - 1)
		if !ok || !last.IsEmpty() {
			return &AssertionError{Type: a.Type, Expected: "empty trailing row", Actual: "non-empty"}
		}
	case "cell":
		row, ok := store.GetAt(a.Row)
		if !ok {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("row %d", a.Row), Actual: "absent"}
		}
		want, err := cell.FromAny(a.Value)
		if err != nil {
			return fmt.Errorf("cell assertion value: %w", err)
		}
		if got := row.Get(a.Column); !cell.Equal(got, want) {
			return &AssertionError{Type: a.Type, Expected: cell.Format(want), Actual: cell.Format(got)}
		}
	}
	return nil
}

// Verify evaluates the scenario's assertions against the final store,
// returning the first failure.
func (o *Outcome) Verify() error {
	for i, a := range o.Scenario.Assertions {
		if err := a.Check(o.Store); err != nil {
			return fmt.Errorf("scenario %q assertion %d: %w", o.Scenario.Name, i+1, err)
		}
	}
	return nil
}
