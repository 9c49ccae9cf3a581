package diag

import "errors"

// Category groups errors by the stage that produced them.
type Category int

const (
	// CategoryUnknown is any error not produced by the engine.
	CategoryUnknown Category = iota

	// CategoryLexical indicates the input could not be tokenized.
	CategoryLexical

	// CategorySyntax indicates the tokens do not form one expression.
	CategorySyntax

	// CategoryEvaluation indicates a well-formed tree failed to evaluate.
	CategoryEvaluation
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLexical:
		return "lexical"
	case CategorySyntax:
		return "syntax"
	case CategoryEvaluation:
		return "evaluation"
	default:
		return "unknown"
	}
}

var (
	syntaxSentinels = []error{
		ErrUnexpectedEndOfInput,
		ErrUnexpectedToken,
		ErrUnmatchedParenthesis,
		ErrMissingTernaryElse,
	}
	evalSentinels = []error{
		ErrUnknownOperator,
		ErrUnknownNodeType,
		ErrTypeMismatch,
		ErrDivisionByZero,
	}
)

// Categorize determines which stage an error came from.
// A nil error is CategoryUnknown.
func Categorize(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	if errors.Is(err, ErrUnexpectedCharacter) {
		return CategoryLexical
	}

	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return CategorySyntax
	}
	for _, s := range syntaxSentinels {
		if errors.Is(err, s) {
			return CategorySyntax
		}
	}

	var evalErr *EvalError
	if errors.As(err, &evalErr) {
		return CategoryEvaluation
	}
	for _, s := range evalSentinels {
		if errors.Is(err, s) {
			return CategoryEvaluation
		}
	}

	return CategoryUnknown
}
