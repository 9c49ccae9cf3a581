package ruleset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/rulekit/pkg/rulekit"
	"github.com/randalmurphal/rulekit/pkg/rulekit/config"
	"github.com/randalmurphal/rulekit/pkg/rulekit/interp"
	"github.com/randalmurphal/rulekit/pkg/rulekit/message"
	"github.com/randalmurphal/rulekit/pkg/rulekit/observability"
	"github.com/randalmurphal/rulekit/pkg/rulekit/value"
)

// Sentinel errors for ruleset construction.
var (
	// ErrInvalidRule indicates a rule with an empty name or expression.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrDuplicateRule indicates two rules sharing a name.
	ErrDuplicateRule = errors.New("duplicate rule name")

	// ErrRuleNotFound indicates a lookup of a rule the set does not hold.
	ErrRuleNotFound = errors.New("rule not found")
)

// Rule is one named expression.
type Rule struct {
	ID          string `yaml:"id,omitempty" json:"id,omitempty" toml:"id,omitempty"`
	Name        string `yaml:"name" json:"name" toml:"name"`
	Expression  string `yaml:"expression" json:"expression" toml:"expression"`
	Description string `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`

	// Message is rendered when the rule matches. ${name} placeholders are
	// filled from the evaluation environment; ${value} is the rule's result.
	Message string `yaml:"message,omitempty" json:"message,omitempty" toml:"message,omitempty"`
}

// RuleError wraps a failure with the rule that caused it.
type RuleError struct {
	Rule string
	Err  error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RuleError) Unwrap() error {
	return e.Err
}

// Result is the outcome of evaluating one rule.
type Result struct {
	Rule  Rule
	Value value.Value
	Err   error

	// Message is the rendered Rule.Message, set only when the rule matched.
	Message string
}

// Matched reports whether the rule evaluated without error to a truthy value.
func (r Result) Matched() bool {
	return r.Err == nil && r.Value.Truthy()
}

type compiledRule struct {
	Rule
	program *rulekit.Program
}

// Ruleset is an immutable, compiled collection of rules. It is safe for
// concurrent use.
type Ruleset struct {
	name      string
	rules     []compiledRule
	constants config.Config
	cfg       setConfig
}

// New validates and compiles rules into a Ruleset. Rules without an ID get
// a new UUID.
func New(name string, rules []Rule, opts ...Option) (*Ruleset, error) {
	cfg := defaultSetConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rs := &Ruleset{
		name:      name,
		rules:     make([]compiledRule, 0, len(rules)),
		constants: config.New(cfg.constants),
		cfg:       cfg,
	}

	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Name == "" || r.Expression == "" {
			return nil, &RuleError{Rule: r.Name, Err: ErrInvalidRule}
		}
		if seen[r.Name] {
			return nil, &RuleError{Rule: r.Name, Err: ErrDuplicateRule}
		}
		seen[r.Name] = true

		if r.ID == "" {
			r.ID = uuid.NewString()
		}

		prog, err := cfg.engine.Compile(context.Background(), r.Expression)
		if err != nil {
			return nil, &RuleError{Rule: r.Name, Err: err}
		}
		rs.rules = append(rs.rules, compiledRule{Rule: r, program: prog})
	}

	observability.LogRulesetLoaded(cfg.logger, name, len(rs.rules))
	return rs, nil
}

// Name returns the ruleset name.
func (rs *Ruleset) Name() string { return rs.name }

// Len returns the number of rules.
func (rs *Ruleset) Len() int { return len(rs.rules) }

// Constants returns the constants shared by every rule.
func (rs *Ruleset) Constants() config.Config { return rs.constants }

// Rules returns the rules in evaluation order.
func (rs *Ruleset) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.Rule
	}
	return out
}

// Get returns the rule with the given name.
func (rs *Ruleset) Get(name string) (Rule, bool) {
	for _, r := range rs.rules {
		if r.Name == name {
			return r.Rule, true
		}
	}
	return Rule{}, false
}

// Evaluate runs every rule against env layered over the ruleset's
// constants; names bound in env win. Results are in rule order.
func (rs *Ruleset) Evaluate(ctx context.Context, env interp.Env) []Result {
	scope := interp.Chain(env, rs.constants)

	results := make([]Result, len(rs.rules))
	for i, r := range rs.rules {
		results[i] = rs.evaluateRule(ctx, r, scope)
	}
	return results
}

// EvaluateRule runs the named rule only.
func (rs *Ruleset) EvaluateRule(ctx context.Context, name string, env interp.Env) (Result, error) {
	for _, r := range rs.rules {
		if r.Name == name {
			return rs.evaluateRule(ctx, r, interp.Chain(env, rs.constants)), nil
		}
	}
	return Result{}, &RuleError{Rule: name, Err: ErrRuleNotFound}
}

func (rs *Ruleset) evaluateRule(ctx context.Context, r compiledRule, env interp.Env) Result {
	ctx, span := rs.cfg.spans.StartRuleSpan(ctx, rs.name, r.Name)
	v, err := r.program.Evaluate(ctx, env)
	if err != nil {
		err = &RuleError{Rule: r.Name, Err: err}
	}
	rs.cfg.spans.EndSpanWithError(span, err)

	if err != nil && rs.cfg.logger != nil {
		observability.EnrichLogger(rs.cfg.logger, rs.name, r.Name).Warn("rule failed",
			slog.String("error", err.Error()))
	}

	res := Result{Rule: r.Rule, Value: v, Err: err}
	if r.Message != "" && res.Matched() {
		res.Message = message.Render(r.Message, interp.Chain(interp.Vars{"value": v}, env))
	}
	return res
}

// Matching returns the names of rules that evaluate to a truthy value.
// Failing rules are skipped and reported together in the error.
func (rs *Ruleset) Matching(ctx context.Context, env interp.Env) ([]string, error) {
	var names []string
	var errs []error
	for _, r := range rs.Evaluate(ctx, env) {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		if r.Value.Truthy() {
			names = append(names, r.Rule.Name)
		}
	}
	return names, errors.Join(errs...)
}
