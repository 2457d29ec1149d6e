package cell

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is a sealed interface representing the scalar kinds a grid cell
// can hold. Only Null, Text, Number, Bool, and Date implement it.
//
// The marker method pattern prevents external implementations and enables
// exhaustive type switches at comparison and coercion sites. There is no
// reflection anywhere in value handling.
type Value interface {
	cellValue() // Sealed - only these types implement it
}

// Null represents an absent cell value.
// Using an explicit type (instead of a nil interface) keeps type switches
// total: a cell is never a nil Value.
type Null struct{}

func (Null) cellValue() {}

// Text represents a string cell value.
type Text string

func (Text) cellValue() {}

// Number represents a numeric cell value.
// Always float64; grids carry user-entered numbers, not exact decimals.
type Number float64

func (Number) cellValue() {}

// Bool represents a boolean cell value.
type Bool bool

func (Bool) cellValue() {}

// Date represents a calendar/timestamp cell value.
type Date time.Time

func (Date) cellValue() {}

// DateLayouts are the accepted textual date formats, tried in order.
var DateLayouts = []string{time.RFC3339, "2006-01-02"}

// IsBlank reports whether v carries no content: Null, or Text that is
// empty after trimming whitespace. Numbers, bools and dates are never
// blank, even zero-valued ones.
func IsBlank(v Value) bool {
	switch val := v.(type) {
	case nil:
		return true
	case Null:
		return true
	case Text:
		return strings.TrimSpace(string(val)) == ""
	default:
		return false
	}
}

// FromAny converts a decoded YAML/JSON scalar into a Value.
//
// Accepted inputs:
//   - nil            -> Null
//   - bool           -> Bool
//   - int/int64/uint -> Number
//   - float64        -> Number
//   - time.Time      -> Date (yaml.v3 decodes ISO timestamps natively)
//   - string         -> Date when it parses as one of DateLayouts,
//     otherwise Text
//
// Anything else (nested sequences, mappings) is rejected: cells are
// scalars only.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	case float64:
		return Number(val), nil
	case time.Time:
		return Date(val), nil
	case string:
		for _, layout := range DateLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				return Date(t), nil
			}
		}
		return Text(val), nil
	default:
		return nil, fmt.Errorf("unsupported cell value type: %T", v)
	}
}

// ToAny converts a Value back to a plain Go scalar for serialization.
func ToAny(v Value) any {
	switch val := v.(type) {
	case Null:
		return nil
	case Text:
		return string(val)
	case Number:
		return float64(val)
	case Bool:
		return bool(val)
	case Date:
		return time.Time(val)
	default:
		return nil
	}
}

// Format renders a Value as a display string. Null renders as the empty
// string; dates use RFC 3339; numbers use the shortest representation
// that round-trips.
func Format(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case Null:
		return ""
	case Text:
		return string(val)
	case Number:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(val))
	case Date:
		return time.Time(val).Format(time.RFC3339)
	default:
		return ""
	}
}
