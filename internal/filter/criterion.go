// Package filter implements the grid's filtered view: a closed set of
// criterion operators, AND-combined matching over rows, and the cached
// index mapping filtered positions back to original positions.
package filter

import (
	"fmt"

	"github.com/roach88/gridstore/internal/cell"
)

// Operator identifies a criterion comparison. This is a closed set:
// anything outside the constants below fails Validate with an
// invalid-argument error. There is no runtime type inspection - each
// operator has fixed operand requirements.
type Operator string

const (
	// OpEquals / OpNotEquals compare for equality.
	// Text comparison is case-insensitive by default.
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not-equals"

	// OpContains / OpNotContains test case-insensitive substring presence.
	OpContains    Operator = "contains"
	OpNotContains Operator = "not-contains"

	// OpStartsWith / OpEndsWith test case-insensitive prefix/suffix.
	OpStartsWith Operator = "starts-with"
	OpEndsWith   Operator = "ends-with"

	// Ordering operators coerce number, then date, then
	// case-insensitive ordinal string.
	OpGreaterThan    Operator = "gt"
	OpGreaterOrEqual Operator = "ge"
	OpLessThan       Operator = "lt"
	OpLessOrEqual    Operator = "le"

	// OpBetween is an inclusive range test; the only operator using
	// the secondary operand.
	OpBetween Operator = "between"

	// Presence operators take no operand.
	OpIsNull     Operator = "is-null"
	OpIsNotNull  Operator = "is-not-null"
	OpIsEmpty    Operator = "is-empty"
	OpIsNotEmpty Operator = "is-not-empty"
)

// Criterion is one filter condition. A criteria list is AND-combined:
// a row matches when every criterion matches.
type Criterion struct {
	Column      string     // column name the criterion applies to
	Op          Operator   // comparison operator
	Operand     cell.Value // primary operand (nil for presence operators)
	OperandHigh cell.Value // upper bound, OpBetween only
}

// needsOperand reports whether the operator requires a primary operand.
func needsOperand(op Operator) bool {
	switch op {
	case OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty:
		return false
	default:
		return true
	}
}

// ValidateOperator checks that op is one of the closed operator set.
func ValidateOperator(op Operator) error {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpNotContains,
		OpStartsWith, OpEndsWith,
		OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual,
		OpBetween,
		OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty:
		return nil
	default:
		return fmt.Errorf("unsupported operator %q", op)
	}
}

// Validate checks the criterion is well-formed: a known operator, a
// non-empty column name, and the operand shape the operator requires.
func (c Criterion) Validate() error {
	if c.Column == "" {
		return fmt.Errorf("criterion requires a column name")
	}
	if err := ValidateOperator(c.Op); err != nil {
		return err
	}
	if needsOperand(c.Op) && c.Operand == nil {
		return fmt.Errorf("operator %q requires an operand", c.Op)
	}
	if c.Op == OpBetween && c.OperandHigh == nil {
		return fmt.Errorf("operator %q requires a secondary operand", c.Op)
	}
	return nil
}

// ValidateAll validates a criteria list, reporting the first problem
// with its position.
func ValidateAll(criteria []Criterion) error {
	for i, c := range criteria {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("criterion %d: %w", i, err)
		}
	}
	return nil
}
