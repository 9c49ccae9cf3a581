package interp_test

import (
	"testing"

	"github.com/randalmurphal/rulekit/pkg/rulekit/ast"
	"github.com/randalmurphal/rulekit/pkg/rulekit/interp"
	"github.com/randalmurphal/rulekit/pkg/rulekit/value"
	"pgregory.net/rapid"
)

func constant() *rapid.Generator[any] {
	return rapid.OneOf(
		rapid.Just[any](nil),
		rapid.Map(rapid.Bool(), func(b bool) any { return b }),
		rapid.Map(rapid.Int64Range(-1000, 1000), func(i int64) any { return i }),
		rapid.Map(rapid.Float64Range(-1000, 1000), func(f float64) any { return f }),
		rapid.Map(rapid.SampledFrom([]string{"", "a", "b", "10", "2,5"}), func(s string) any { return s }),
	)
}

// Commutative operators give the same result whichever operand comes first.
func TestProperty_CommutativeOperators(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		op := rapid.SampledFrom([]string{"and", "AND", "&&", "or", "OR", "||", "=", "!=", "+", "*"}).Draw(t, "op")
		vars := interp.Vars{
			"a": constant().Draw(t, "a"),
			"b": constant().Draw(t, "b"),
		}

		ab, errAB := interp.Evaluate(&ast.Binary{Operator: op, Left: &ast.Name{Identifier: "a"}, Right: &ast.Name{Identifier: "b"}}, vars)
		ba, errBA := interp.Evaluate(&ast.Binary{Operator: op, Left: &ast.Name{Identifier: "b"}, Right: &ast.Name{Identifier: "a"}}, vars)

		if (errAB == nil) != (errBA == nil) {
			t.Fatalf("%v %s %v: errors differ: %v / %v", vars["a"], op, vars["b"], errAB, errBA)
		}
		if errAB == nil && !ab.Equal(ba) {
			t.Fatalf("%v %s %v: %#v != %#v", vars["a"], op, vars["b"], ab, ba)
		}
	})
}

// Ordering operators mirror each other when the operands are swapped.
func TestProperty_OrderingMirrors(t *testing.T) {
	mirror := map[string]string{"<": ">", ">": "<", "<=": ">=", ">=": "<="}

	rapid.Check(t, func(t *rapid.T) {
		op := rapid.SampledFrom([]string{"<", ">", "<=", ">="}).Draw(t, "op")
		a := value.Int(rapid.Int64().Draw(t, "a"))
		b := value.Float(rapid.Float64Range(-1e6, 1e6).Draw(t, "b"))

		got, err := interp.Apply(op, a, b)
		if err != nil {
			t.Fatal(err)
		}
		swapped, err := interp.Apply(mirror[op], b, a)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(swapped) {
			t.Fatalf("%#v %s %#v = %#v, mirrored %#v", a, op, b, got, swapped)
		}
	})
}

// Int addition and subtraction agree with float arithmetic within range.
func TestProperty_IntArithmetic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(-1<<40, 1<<40).Draw(t, "a")
		b := rapid.Int64Range(-1<<40, 1<<40).Draw(t, "b")

		sum, err := interp.Apply("+", value.Int(a), value.Int(b))
		if err != nil {
			t.Fatal(err)
		}
		if sum != value.Int(a+b) {
			t.Fatalf("%d + %d = %#v", a, b, sum)
		}

		back, err := interp.Apply("-", sum, value.Int(b))
		if err != nil {
			t.Fatal(err)
		}
		if back != value.Int(a) {
			t.Fatalf("(%d + %d) - %d = %#v", a, b, b, back)
		}
	})
}
