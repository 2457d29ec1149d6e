package filter

import (
	"strings"

	"github.com/roach88/gridstore/internal/cell"
)

// MatchRow reports whether a row satisfies every criterion (AND
// semantics). An empty criteria list matches everything.
func MatchRow(row *cell.Row, criteria []Criterion) bool {
	for _, c := range criteria {
		if !matchOne(row.Get(c.Column), c) {
			return false
		}
	}
	return true
}

// matchOne evaluates a single criterion against a cell value.
//
// Unknown operators match nothing; Validate catches them before a
// criteria set becomes active, so this is a defensive dead end only.
func matchOne(v cell.Value, c Criterion) bool {
	switch c.Op {
	case OpEquals:
		return cell.Equal(v, c.Operand)
	case OpNotEquals:
		return !cell.Equal(v, c.Operand)

	case OpContains:
		return strings.Contains(foldOf(v), foldOf(c.Operand))
	case OpNotContains:
		return !strings.Contains(foldOf(v), foldOf(c.Operand))
	case OpStartsWith:
		return strings.HasPrefix(foldOf(v), foldOf(c.Operand))
	case OpEndsWith:
		return strings.HasSuffix(foldOf(v), foldOf(c.Operand))

	case OpGreaterThan:
		return ordered(v, c.Operand, func(cmp int) bool { return cmp > 0 })
	case OpGreaterOrEqual:
		return ordered(v, c.Operand, func(cmp int) bool { return cmp >= 0 })
	case OpLessThan:
		return ordered(v, c.Operand, func(cmp int) bool { return cmp < 0 })
	case OpLessOrEqual:
		return ordered(v, c.Operand, func(cmp int) bool { return cmp <= 0 })

	case OpBetween:
		return ordered(v, c.Operand, func(cmp int) bool { return cmp >= 0 }) &&
			ordered(v, c.OperandHigh, func(cmp int) bool { return cmp <= 0 })

	case OpIsNull:
		return isNull(v)
	case OpIsNotNull:
		return !isNull(v)
	case OpIsEmpty:
		return cell.IsBlank(v)
	case OpIsNotEmpty:
		return !cell.IsBlank(v)

	default:
		return false
	}
}

// ordered applies an ordering predicate; incomparable values never
// match ordering operators.
func ordered(v, operand cell.Value, pred func(int) bool) bool {
	if cell.IsBlank(v) {
		return false
	}
	cmp, ok := cell.Compare(v, operand)
	if !ok {
		return false
	}
	return pred(cmp)
}

// isNull distinguishes strict null from blank text: OpIsNull matches
// only Null cells, OpIsEmpty matches both.
func isNull(v cell.Value) bool {
	switch v.(type) {
	case nil, cell.Null:
		return true
	default:
		return false
	}
}

// foldOf renders a value for case-insensitive substring operators.
func foldOf(v cell.Value) string {
	return cell.FoldString(cell.Format(v))
}
