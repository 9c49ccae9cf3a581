// Package message renders rule messages: text with ${name} placeholders
// filled from the environment a rule was evaluated against.
//
//	msg := message.Render("order ${id} ships free", rulekit.Vars{"id": 42})
//	// msg: "order 42 ships free"
//
// Values are formatted the way the engine prints them, so ${total} of an
// Int(7) renders as "7" and a float keeps its shortest form. Placeholders
// with no binding are kept as written unless a Renderer says otherwise.
//
// Renderer is safe for concurrent use after construction.
package message

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/randalmurphal/rulekit/pkg/rulekit/interp"
	"github.com/randalmurphal/rulekit/pkg/rulekit/value"
)

// placeholder matches ${name}; names follow identifier rules.
var placeholder = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// MissingAction specifies how to handle placeholders with no binding.
type MissingAction int

const (
	// MissingKeep leaves the placeholder as written. This is the default.
	MissingKeep MissingAction = iota

	// MissingEmpty replaces the placeholder with an empty string.
	MissingEmpty

	// MissingError fails the render with an UndefinedNameError.
	MissingError
)

// UndefinedNameError lists placeholders that had no binding.
type UndefinedNameError struct {
	Names []string
}

// Error implements the error interface.
func (e *UndefinedNameError) Error() string {
	return "undefined name: " + strings.Join(e.Names, ", ")
}

// Renderer fills placeholders from an environment.
type Renderer struct {
	missing MissingAction
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMissingAction sets how unbound placeholders are handled.
func WithMissingAction(action MissingAction) Option {
	return func(r *Renderer) {
		r.missing = action
	}
}

// NewRenderer creates a Renderer. The default keeps unbound placeholders.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{missing: MissingKeep}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render replaces every ${name} in text with the binding env holds for
// name. A nil env binds nothing.
func (r *Renderer) Render(text string, env interp.Env) (string, error) {
	if text == "" || !strings.Contains(text, "${") {
		return text, nil
	}

	var missing []string
	out := placeholder.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-1]
		if env != nil {
			if x, ok := env.Lookup(name); ok {
				return format(x)
			}
		}

		switch r.missing {
		case MissingEmpty:
			return ""
		case MissingError:
			missing = append(missing, name)
			return match
		default:
			return match
		}
	})

	if len(missing) > 0 {
		return out, &UndefinedNameError{Names: missing}
	}
	return out, nil
}

// Placeholders returns the distinct names referenced by text in
// first-use order.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

var defaultRenderer = NewRenderer()

// Render fills placeholders with the default renderer, keeping unbound
// ones as written.
func Render(text string, env interp.Env) string {
	// MissingKeep never fails.
	out, _ := defaultRenderer.Render(text, env)
	return out
}

func format(x any) string {
	v, err := value.FromAny(x)
	if err != nil {
		return fmt.Sprint(x)
	}
	if v.IsNull() {
		return ""
	}
	return v.String()
}
