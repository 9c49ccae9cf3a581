package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/randalmurphal/rulekit/pkg/rulekit/diag"
)

// ParseNumber converts a numeric literal as written in rule source: optional
// sign, leading zeros ignored, comma decimal separator. A literal with no
// fractional part yields an Int, otherwise a Float. "007" is Int(7) and
// "0,5" is Float(0.5).
func ParseNumber(literal string) (Value, error) {
	sign := ""
	digits := literal
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return Int(0), nil
	}

	f, err := strconv.ParseFloat(sign+strings.Replace(digits, ",", ".", 1), 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: invalid number literal %q", diag.ErrTypeMismatch, literal)
	}
	return normalize(f), nil
}

// normalize returns f as an Int when it is integral and fits in int64.
func normalize(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f))
	}
	return Float(f)
}

// ToNumber coerces v for arithmetic. Null is 0, bools are 1 or 0, strings
// must hold a number (integer text, or decimal text with '.' or ','); the
// empty string is 0.
func ToNumber(v Value) (Value, error) {
	switch v.kind {
	case KindInt, KindFloat:
		return v, nil
	case KindNull:
		return Int(0), nil
	case KindBool:
		if v.b {
			return Int(1), nil
		}
		return Int(0), nil
	case KindString:
		n, ok := parseNumericString(v.s)
		if !ok {
			return Value{}, fmt.Errorf("%w: %q is not numeric", diag.ErrTypeMismatch, v.s)
		}
		return n, nil
	default:
		return Value{}, fmt.Errorf("%w: %s is not numeric", diag.ErrTypeMismatch, v.kind)
	}
}

// IsNumeric reports whether v is a number or a string ToNumber accepts.
func IsNumeric(v Value) bool {
	switch v.kind {
	case KindInt, KindFloat:
		return true
	case KindString:
		_, ok := parseNumericString(v.s)
		return ok
	default:
		return false
	}
}

func parseNumericString(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Int(0), true
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), true
	}
	if strings.ContainsAny(s, "xXpP_") {
		return Value{}, false
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, false
	}
	return Float(f), true
}

// Compare orders a and b, returning -1, 0 or +1. Numbers compare
// numerically, strings byte-wise, bools as false < true. A number and a
// numeric string compare numerically. Other mixes and nulls are
// diag.ErrTypeMismatch.
func Compare(a, b Value) (int, error) {
	switch {
	case a.kind == KindString && b.kind == KindString:
		return strings.Compare(a.s, b.s), nil
	case a.kind == KindBool && b.kind == KindBool:
		return compareBool(a.b, b.b), nil
	case a.IsNumber() && b.IsNumber():
		return compareNumbers(a, b), nil
	case a.IsNumber() && b.kind == KindString, a.kind == KindString && b.IsNumber():
		an, errA := ToNumber(a)
		bn, errB := ToNumber(b)
		if errA != nil || errB != nil {
			return 0, mismatch(a, b)
		}
		return compareNumbers(an, bn), nil
	default:
		return 0, mismatch(a, b)
	}
}

func mismatch(a, b Value) error {
	return fmt.Errorf("%w: cannot order %#v and %#v", diag.ErrTypeMismatch, a, b)
}

func compareNumbers(a, b Value) int {
	if a.kind == KindInt && b.kind == KindInt {
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		default:
			return 0
		}
	}
	af, bf := a.AsFloat(), b.AsFloat()
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
