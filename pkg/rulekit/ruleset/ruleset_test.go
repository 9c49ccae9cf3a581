package ruleset_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/rulekit/pkg/rulekit"
	"github.com/randalmurphal/rulekit/pkg/rulekit/ruleset"
	"github.com/randalmurphal/rulekit/pkg/rulekit/store"
	"github.com/randalmurphal/rulekit/pkg/rulekit/value"
)

const pricingYAML = `
name: pricing
constants:
  threshold: 100
  tier: silver
rules:
  - name: big_order
    expression: total >= threshold
    description: order above threshold
  - name: vip
    expression: tier = "gold" or total > threshold * 10
    message: ${tier} customer spent ${total}
  - id: fixed-id
    name: discount
    expression: 'total >= threshold ? total / 10 : 0'
`

const pricingJSON = `{
  "name": "pricing",
  "constants": {"threshold": 100, "tier": "silver"},
  "rules": [
    {"name": "big_order", "expression": "total >= threshold", "description": "order above threshold"},
    {"name": "vip", "expression": "tier = \"gold\" or total > threshold * 10"},
    {"id": "fixed-id", "name": "discount", "expression": "total >= threshold ? total / 10 : 0"}
  ]
}`

const pricingTOML = `
name = "pricing"

[constants]
threshold = 100
tier = "silver"

[[rules]]
name = "big_order"
expression = "total >= threshold"
description = "order above threshold"

[[rules]]
name = "vip"
expression = 'tier = "gold" or total > threshold * 10'

[[rules]]
id = "fixed-id"
name = "discount"
expression = "total >= threshold ? total / 10 : 0"
`

func TestParse_Formats(t *testing.T) {
	tests := []struct {
		format ruleset.Format
		data   string
	}{
		{ruleset.FormatYAML, pricingYAML},
		{ruleset.FormatJSON, pricingJSON},
		{ruleset.FormatTOML, pricingTOML},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			rs, err := ruleset.Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)

			assert.Equal(t, "pricing", rs.Name())
			assert.Equal(t, 3, rs.Len())

			rules := rs.Rules()
			assert.Equal(t, "big_order", rules[0].Name)
			assert.Equal(t, "order above threshold", rules[0].Description)
			assert.Equal(t, "fixed-id", rules[2].ID)
			_, err = uuid.Parse(rules[0].ID)
			assert.NoError(t, err)

			results := rs.Evaluate(context.Background(), rulekit.Vars{"total": 250})
			require.Len(t, results, 3)
			for _, r := range results {
				require.NoError(t, r.Err, r.Rule.Name)
			}
			assert.True(t, results[0].Matched())
			assert.False(t, results[1].Matched())
			assert.Equal(t, value.Int(25), results[2].Value)
		})
	}
}

func TestEvaluate_EnvOverridesConstants(t *testing.T) {
	rs, err := ruleset.Parse([]byte(pricingYAML), ruleset.FormatYAML)
	require.NoError(t, err)

	names, err := rs.Matching(context.Background(), rulekit.Vars{"total": 50, "tier": "gold"})
	require.NoError(t, err)
	assert.Equal(t, []string{"vip"}, names)

	results := rs.Evaluate(context.Background(), rulekit.Vars{"total": 50, "tier": "gold"})
	assert.Equal(t, "gold customer spent 50", results[1].Message)
}

func TestEvaluate_Message(t *testing.T) {
	rs, err := ruleset.New("messages", []ruleset.Rule{
		{Name: "discount", Expression: "total / 10", Message: "${value} off order ${id} (${missing})"},
		{Name: "never", Expression: "total < 0", Message: "unreachable"},
	}, ruleset.WithConstants(map[string]any{"id": "A-7"}))
	require.NoError(t, err)

	results := rs.Evaluate(context.Background(), rulekit.Vars{"total": 250})
	assert.Equal(t, "25 off order A-7 (${missing})", results[0].Message)
	assert.Empty(t, results[1].Message)
}

func TestEvaluate_FailingRuleDoesNotStopOthers(t *testing.T) {
	rs, err := ruleset.New("mixed", []ruleset.Rule{
		{Name: "ok", Expression: "1 = 1"},
		{Name: "broken", Expression: "1 / zero"},
		{Name: "also_ok", Expression: "2 > 1"},
	})
	require.NoError(t, err)

	results := rs.Evaluate(context.Background(), nil)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, rulekit.ErrDivisionByZero)
	assert.False(t, results[1].Matched())
	assert.NoError(t, results[2].Err)

	var ruleErr *ruleset.RuleError
	require.ErrorAs(t, results[1].Err, &ruleErr)
	assert.Equal(t, "broken", ruleErr.Rule)

	names, err := rs.Matching(context.Background(), nil)
	assert.ErrorIs(t, err, rulekit.ErrDivisionByZero)
	assert.Equal(t, []string{"ok", "also_ok"}, names)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		rules   []ruleset.Rule
		wantErr error
	}{
		{"empty name", []ruleset.Rule{{Expression: "1"}}, ruleset.ErrInvalidRule},
		{"empty expression", []ruleset.Rule{{Name: "a"}}, ruleset.ErrInvalidRule},
		{"duplicate", []ruleset.Rule{{Name: "a", Expression: "1"}, {Name: "a", Expression: "2"}}, ruleset.ErrDuplicateRule},
		{"syntax error", []ruleset.Rule{{Name: "a", Expression: "(1"}}, rulekit.ErrUnmatchedParenthesis},
		{"lexical error", []ruleset.Rule{{Name: "a", Expression: "1 # 2"}}, rulekit.ErrUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ruleset.New("set", tt.rules)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEvaluateRule(t *testing.T) {
	rs, err := ruleset.New("set", []ruleset.Rule{{Name: "double", Expression: "x * 2"}},
		ruleset.WithConstants(map[string]any{"x": 4}))
	require.NoError(t, err)

	r, err := rs.EvaluateRule(context.Background(), "double", nil)
	require.NoError(t, err)
	assert.Equal(t, value.Int(8), r.Value)

	_, err = rs.EvaluateRule(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ruleset.ErrRuleNotFound)

	got, ok := rs.Get("double")
	assert.True(t, ok)
	assert.Equal(t, "x * 2", got.Expression)
	_, ok = rs.Get("missing")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "orders.toml")
	content := "[[rules]]\nname = \"positive\"\nexpression = \"amount > 0\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rs, err := ruleset.Load(path, ruleset.WithConstants(map[string]any{"amount": 3}))
	require.NoError(t, err)
	assert.Equal(t, "orders", rs.Name())

	names, err := rs.Matching(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"positive"}, names)
}

func TestLoad_CallerConstantsWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pricingYAML), 0o600))

	rs, err := ruleset.Load(path, ruleset.WithConstants(map[string]any{"threshold": 10}))
	require.NoError(t, err)
	assert.Equal(t, 10, rs.Constants().Int("threshold", 0))
	assert.Equal(t, "silver", rs.Constants().String("tier", ""))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ruleset.Load(filepath.Join(dir, "rules.ini"))
	assert.Error(t, err)

	_, err = ruleset.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = ruleset.Parse([]byte(`{"rules": [], "bogus": 1}`), ruleset.FormatJSON)
	assert.Error(t, err)

	_, err = ruleset.Parse([]byte("bogus = 1\n"), ruleset.FormatTOML)
	assert.Error(t, err)

	_, err = ruleset.Parse([]byte("rules: [\n"), ruleset.FormatYAML)
	assert.Error(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	rs, err := ruleset.Parse([]byte(pricingYAML), ruleset.FormatYAML)
	require.NoError(t, err)

	s := store.NewMemoryStore()
	defer s.Close()
	require.NoError(t, s.Save("pricing", store.Entry{Name: "stale", Expression: "0"}))

	require.NoError(t, rs.Save(s))

	loaded, err := ruleset.FromStore(s, "pricing",
		ruleset.WithConstants(rs.Constants().Raw()))
	require.NoError(t, err)
	assert.Equal(t, rs.Rules(), loaded.Rules())

	names, err := loaded.Matching(context.Background(), rulekit.Vars{"total": 150})
	require.NoError(t, err)
	assert.Equal(t, []string{"big_order", "discount"}, names)
}

func TestMarshal_RoundTrip(t *testing.T) {
	rs, err := ruleset.Parse([]byte(pricingYAML), ruleset.FormatYAML)
	require.NoError(t, err)

	for _, format := range []ruleset.Format{ruleset.FormatYAML, ruleset.FormatJSON, ruleset.FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := rs.Marshal(format)
			require.NoError(t, err)

			back, err := ruleset.Parse(data, format)
			require.NoError(t, err)
			assert.Equal(t, rs.Name(), back.Name())
			assert.Equal(t, rs.Rules(), back.Rules())
			assert.Equal(t, "silver", back.Constants().String("tier", ""))
		})
	}
}

func TestWithLoggerAndEngine(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := rulekit.New(rulekit.WithProgramCache(0))

	rs, err := ruleset.New("logged", []ruleset.Rule{
		{Name: "bad", Expression: `"a" < 1`},
	}, ruleset.WithLogger(logger), ruleset.WithEngine(engine), ruleset.WithTracing(false))
	require.NoError(t, err)
	assert.Equal(t, 1, engine.CachedPrograms())

	rs.Evaluate(context.Background(), nil)
	assert.Contains(t, buf.String(), "ruleset loaded")
	assert.Contains(t, buf.String(), "rule failed")
	assert.Contains(t, buf.String(), "rule=bad")
}
