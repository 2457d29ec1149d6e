package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/gridstore/internal/cell"
)

// ParseExpression parses a criteria expression into a criteria list.
//
// Grammar (one comparison per clause, clauses joined by AND):
//
//	x == 2 AND name contains 'widget' AND price >= 10
//	note is-empty AND updated < 2024-06-01
//
// Supported comparison tokens: == (or =), !=, >, >=, <, <=, plus the
// word operators contains, not-contains, starts-with, ends-with, and
// the operand-less is-null, is-not-null, is-empty, is-not-empty.
//
// Literals: single- or double-quoted strings, numbers, true/false,
// dates (RFC 3339 or 2006-01-02); anything else is taken as text.
//
// This is intentionally a small hand parser: the CLI needs one
// comparison shape per clause, nothing more.
func ParseExpression(expr string) ([]Criterion, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	var criteria []Criterion
	for _, clause := range splitByAnd(expr) {
		c, err := parseClause(clause)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	if err := ValidateAll(criteria); err != nil {
		return nil, err
	}
	return criteria, nil
}

// splitByAnd splits an expression by the AND keyword (case insensitive).
func splitByAnd(expr string) []string {
	var parts []string
	remaining := expr
	for {
		idx := strings.Index(strings.ToLower(remaining), " and ")
		if idx == -1 {
			parts = append(parts, strings.TrimSpace(remaining))
			return parts
		}
		parts = append(parts, strings.TrimSpace(remaining[:idx]))
		remaining = remaining[idx+len(" and "):]
	}
}

// symbolOps maps comparison tokens to operators. Two-character tokens
// are listed first so ">=" is not read as ">" followed by "=".
var symbolOps = []struct {
	token string
	op    Operator
}{
	{"==", OpEquals},
	{"!=", OpNotEquals},
	{">=", OpGreaterOrEqual},
	{"<=", OpLessOrEqual},
	{">", OpGreaterThan},
	{"<", OpLessThan},
	{"=", OpEquals},
}

// wordOps are operators written as words between column and literal.
var wordOps = map[string]Operator{
	"contains":     OpContains,
	"not-contains": OpNotContains,
	"starts-with":  OpStartsWith,
	"ends-with":    OpEndsWith,
}

// unaryOps are operand-less operators written after the column.
var unaryOps = map[string]Operator{
	"is-null":      OpIsNull,
	"is-not-null":  OpIsNotNull,
	"is-empty":     OpIsEmpty,
	"is-not-empty": OpIsNotEmpty,
}

// parseClause parses a single comparison clause.
func parseClause(clause string) (Criterion, error) {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return Criterion{}, fmt.Errorf("empty filter clause")
	}

	// Operand-less form: "column is-empty"
	if fields := strings.Fields(clause); len(fields) == 2 {
		if op, ok := unaryOps[strings.ToLower(fields[1])]; ok {
			return Criterion{Column: fields[0], Op: op}, nil
		}
	}

	// Word-operator form: "column contains literal"
	if fields := strings.Fields(clause); len(fields) >= 3 {
		if op, ok := wordOps[strings.ToLower(fields[1])]; ok {
			literal := strings.TrimSpace(strings.Join(fields[2:], " "))
			operand, err := parseLiteral(literal)
			if err != nil {
				return Criterion{}, err
			}
			return Criterion{Column: fields[0], Op: op, Operand: operand}, nil
		}
	}

	// Symbol-operator form: "column >= literal"
	for _, s := range symbolOps {
		idx := strings.Index(clause, s.token)
		if idx <= 0 {
			continue
		}
		// "=" inside "!=" was already tried as "!=".
		if s.token == "=" && clause[idx-1] == '!' {
			continue
		}
		column := strings.TrimSpace(clause[:idx])
		literal := strings.TrimSpace(clause[idx+len(s.token):])
		if column == "" || literal == "" {
			return Criterion{}, fmt.Errorf("malformed clause %q", clause)
		}
		operand, err := parseLiteral(literal)
		if err != nil {
			return Criterion{}, err
		}
		return Criterion{Column: column, Op: s.op, Operand: operand}, nil
	}

	return Criterion{}, fmt.Errorf("no operator found in clause %q", clause)
}

// parseLiteral decodes a literal token into a cell value.
func parseLiteral(literal string) (cell.Value, error) {
	if len(literal) >= 2 {
		if (literal[0] == '\'' && literal[len(literal)-1] == '\'') ||
			(literal[0] == '"' && literal[len(literal)-1] == '"') {
			return cell.Text(literal[1 : len(literal)-1]), nil
		}
	}
	if literal == "true" {
		return cell.Bool(true), nil
	}
	if literal == "false" {
		return cell.Bool(false), nil
	}
	if n, err := strconv.ParseFloat(literal, 64); err == nil {
		return cell.Number(n), nil
	}
	// Dates and plain words both route through FromAny.
	return cell.FromAny(literal)
}
