package interp

import (
	"math"

	"github.com/randalmurphal/rulekit/pkg/rulekit/diag"
	"github.com/randalmurphal/rulekit/pkg/rulekit/value"
)

// BinaryFunc applies a binary operator to two evaluated operands.
type BinaryFunc func(left, right value.Value) (value.Value, error)

var binaryFuncs = map[string]BinaryFunc{
	"or":  logicalOr,
	"OR":  logicalOr,
	"||":  logicalOr,
	"and": logicalAnd,
	"AND": logicalAnd,
	"&&":  logicalAnd,
	"=":   compareEquals,
	"!=":  compareNotEquals,
	"<":   ordering(func(c int) bool { return c < 0 }),
	">":   ordering(func(c int) bool { return c > 0 }),
	"<=":  ordering(func(c int) bool { return c <= 0 }),
	">=":  ordering(func(c int) bool { return c >= 0 }),
	"+":   arithmetic(addInt, func(a, b float64) float64 { return a + b }),
	"-":   arithmetic(subInt, func(a, b float64) float64 { return a - b }),
	"*":   arithmetic(mulInt, func(a, b float64) float64 { return a * b }),
	"/":   divide,
}

// Apply applies the binary operator op to already evaluated operands.
func Apply(op string, left, right value.Value) (value.Value, error) {
	fn, ok := binaryFuncs[op]
	if !ok {
		return value.Value{}, diag.NewEvalError(op, diag.ErrUnknownOperator, "")
	}
	v, err := fn(left, right)
	if err != nil {
		return value.Value{}, diag.NewEvalError(op, err, "")
	}
	return v, nil
}

// logicalOr is true when either operand is truthy.
func logicalOr(left, right value.Value) (value.Value, error) {
	return value.Bool(left.Truthy() || right.Truthy()), nil
}

// logicalAnd is true when both operands are truthy.
func logicalAnd(left, right value.Value) (value.Value, error) {
	return value.Bool(left.Truthy() && right.Truthy()), nil
}

// compareEquals is strict identity; Int and Float compare numerically.
func compareEquals(left, right value.Value) (value.Value, error) {
	if left.IsNull() || right.IsNull() {
		return value.Bool(false), nil
	}
	return value.Bool(left.Equal(right)), nil
}

func compareNotEquals(left, right value.Value) (value.Value, error) {
	if left.IsNull() || right.IsNull() {
		return value.Bool(false), nil
	}
	return value.Bool(!left.Equal(right)), nil
}

// ordering builds <, >, <= and >= from the sign of value.Compare.
func ordering(accept func(int) bool) BinaryFunc {
	return func(left, right value.Value) (value.Value, error) {
		if left.IsNull() || right.IsNull() {
			return value.Bool(false), nil
		}
		c, err := value.Compare(left, right)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(accept(c)), nil
	}
}

// arithmetic coerces both operands to numbers and applies intOp when both
// are Int, falling back to floatOp when either is Float or intOp overflows.
func arithmetic(intOp func(a, b int64) (int64, bool), floatOp func(a, b float64) float64) BinaryFunc {
	return func(left, right value.Value) (value.Value, error) {
		l, r, err := numbers(left, right)
		if err != nil {
			return value.Value{}, err
		}
		if l.Kind() == value.KindInt && r.Kind() == value.KindInt {
			if n, ok := intOp(l.AsInt(), r.AsInt()); ok {
				return value.Int(n), nil
			}
		}
		return value.Float(floatOp(l.AsFloat(), r.AsFloat())), nil
	}
}

// divide yields an Int only for exact Int division.
func divide(left, right value.Value) (value.Value, error) {
	l, r, err := numbers(left, right)
	if err != nil {
		return value.Value{}, err
	}
	if r.AsFloat() == 0 {
		return value.Value{}, diag.ErrDivisionByZero
	}
	if l.Kind() == value.KindInt && r.Kind() == value.KindInt {
		a, b := l.AsInt(), r.AsInt()
		if a%b == 0 && !(a == math.MinInt64 && b == -1) {
			return value.Int(a / b), nil
		}
	}
	return value.Float(l.AsFloat() / r.AsFloat()), nil
}

func numbers(left, right value.Value) (value.Value, value.Value, error) {
	l, err := value.ToNumber(left)
	if err != nil {
		return value.Value{}, value.Value{}, err
	}
	r, err := value.ToNumber(right)
	if err != nil {
		return value.Value{}, value.Value{}, err
	}
	return l, r, nil
}

func addInt(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, false
	}
	return c, true
}

func subInt(a, b int64) (int64, bool) {
	c := a - b
	if (c < a) != (b > 0) {
		return 0, false
	}
	return c, true
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || c/b != a {
		return 0, false
	}
	return c, true
}
