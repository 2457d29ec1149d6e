package cell

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// FoldString canonicalizes a string for case-insensitive comparison:
// NFC normalization followed by Unicode case folding.
//
// NFC first, so that composed and decomposed forms of the same character
// fold identically.
func FoldString(s string) string {
	return foldCaser.String(norm.NFC.String(s))
}

// Equal reports whether two values are equal under grid semantics.
//
// Text comparison is case-insensitive (FoldString). Numbers compare
// numerically, dates by instant, bools by value. Null equals only Null.
// A Text value that parses as a number or date compares against Number
// and Date values through the same coercion used by Compare.
func Equal(a, b Value) bool {
	if IsBlank(a) && IsBlank(b) {
		return true
	}
	if c, ok := Compare(a, b); ok {
		return c == 0
	}
	return false
}

// Compare orders two values, coercing in the order: number, then date,
// then case-insensitive ordinal string. Returns ok=false when neither
// side can be interpreted in a common domain (e.g. Bool vs Date).
//
// Blank values sort before everything else and equal to each other, so
// ordering operators behave predictably on sparse columns.
func Compare(a, b Value) (int, bool) {
	ab, bb := IsBlank(a), IsBlank(b)
	if ab || bb {
		switch {
		case ab && bb:
			return 0, true
		case ab:
			return -1, true
		default:
			return 1, true
		}
	}

	if an, ok := asNumber(a); ok {
		if bn, ok := asNumber(b); ok {
			switch {
			case an < bn:
				return -1, true
			case an > bn:
				return 1, true
			default:
				return 0, true
			}
		}
	}

	if ad, ok := asDate(a); ok {
		if bd, ok := asDate(b); ok {
			switch {
			case ad.Before(bd):
				return -1, true
			case ad.After(bd):
				return 1, true
			default:
				return 0, true
			}
		}
	}

	if aBool, aok := a.(Bool); aok {
		if bBool, bok := b.(Bool); bok {
			switch {
			case aBool == bBool:
				return 0, true
			case bool(bBool):
				return -1, true
			default:
				return 1, true
			}
		}
	}

	as, aok := asString(a)
	bs, bok := asString(b)
	if aok && bok {
		return strings.Compare(FoldString(as), FoldString(bs)), true
	}

	return 0, false
}

// asNumber coerces a value to float64. Text coerces when it parses as a
// float; bools and dates do not coerce to numbers.
func asNumber(v Value) (float64, bool) {
	switch val := v.(type) {
	case Number:
		return float64(val), true
	case Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asDate coerces a value to a time. Text coerces via DateLayouts.
func asDate(v Value) (time.Time, bool) {
	switch val := v.(type) {
	case Date:
		return time.Time(val), true
	case Text:
		for _, layout := range DateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(string(val))); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// asString coerces a value to its textual form for ordinal comparison.
// Everything except Null has one.
func asString(v Value) (string, bool) {
	switch v.(type) {
	case nil, Null:
		return "", false
	default:
		return Format(v), true
	}
}
