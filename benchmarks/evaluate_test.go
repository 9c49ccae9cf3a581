package benchmarks

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/randalmurphal/rulekit/pkg/rulekit"
	"github.com/randalmurphal/rulekit/pkg/rulekit/lexer"
	"github.com/randalmurphal/rulekit/pkg/rulekit/parser"
	"github.com/randalmurphal/rulekit/pkg/rulekit/ruleset"
	"github.com/randalmurphal/rulekit/pkg/rulekit/store"
)

const expression = `total > 100 and country = "NL" ? total * 0,9 : (total + shipping) / 2`

var env = rulekit.Vars{"total": 250, "country": "NL", "shipping": 4.95}

// longExpression chains n additions so the parser works on a deep tree.
func longExpression(n int) string {
	parts := make([]string, n)
	for i := range n {
		parts[i] = fmt.Sprintf("v%d", i)
	}
	return strings.Join(parts, " + ")
}

// BenchmarkTokenize measures lexing alone.
func BenchmarkTokenize(b *testing.B) {
	for b.Loop() {
		if _, err := lexer.Collect(expression); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParse measures lexing and parsing.
func BenchmarkParse(b *testing.B) {
	for b.Loop() {
		if _, err := parser.ParseString(expression); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParse_Long measures parsing a long operator chain.
func BenchmarkParse_Long(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		src := longExpression(n)
		b.Run(fmt.Sprintf("terms=%d", n), func(b *testing.B) {
			for b.Loop() {
				if _, err := parser.ParseString(src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEvaluate_Uncached measures compiling on every call.
func BenchmarkEvaluate_Uncached(b *testing.B) {
	engine := rulekit.New()
	ctx := context.Background()

	for b.Loop() {
		if _, err := engine.Evaluate(ctx, expression, env); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEvaluate_Cached measures evaluation through the program cache.
func BenchmarkEvaluate_Cached(b *testing.B) {
	engine := rulekit.New(rulekit.WithProgramCache(16))
	ctx := context.Background()

	for b.Loop() {
		if _, err := engine.Evaluate(ctx, expression, env); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkProgram_Evaluate measures evaluating a compiled program.
func BenchmarkProgram_Evaluate(b *testing.B) {
	prog, err := rulekit.New().Compile(context.Background(), expression)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	for b.Loop() {
		if _, err := prog.Evaluate(ctx, env); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkProgram_EvaluateParallel measures concurrent evaluation of one
// shared program.
func BenchmarkProgram_EvaluateParallel(b *testing.B) {
	prog, err := rulekit.New().Compile(context.Background(), expression)
	if err != nil {
		b.Fatal(err)
	}

	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := prog.Evaluate(ctx, env); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkRuleset_Evaluate measures evaluating a set of rules.
func BenchmarkRuleset_Evaluate(b *testing.B) {
	rules := make([]ruleset.Rule, 50)
	for i := range rules {
		rules[i] = ruleset.Rule{
			Name:       fmt.Sprintf("rule_%d", i),
			Expression: fmt.Sprintf("total > %d and country = \"NL\"", i*10),
		}
	}
	rs, err := ruleset.New("bench", rules)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	for b.Loop() {
		rs.Evaluate(ctx, env)
	}
}

// BenchmarkSQLiteStore_Save measures upserting stored rules.
func BenchmarkSQLiteStore_Save(b *testing.B) {
	s, err := store.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	i := 0
	for b.Loop() {
		entry := store.Entry{Name: fmt.Sprintf("rule_%d", i%100), Expression: expression}
		if err := s.Save("bench", entry); err != nil {
			b.Fatal(err)
		}
		i++
	}
}

// BenchmarkSQLiteStore_List measures listing a stored set.
func BenchmarkSQLiteStore_List(b *testing.B) {
	s, err := store.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	for i := range 100 {
		if err := s.Save("bench", store.Entry{Name: fmt.Sprintf("rule_%d", i), Expression: expression}); err != nil {
			b.Fatal(err)
		}
	}

	for b.Loop() {
		if _, err := s.List("bench"); err != nil {
			b.Fatal(err)
		}
	}
}
