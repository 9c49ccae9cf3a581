package main

import (
	"github.com/randalmurphal/rulekit/pkg/rulekit"
)

// Process exit codes.
const (
	exitOK         = 0
	exitUsage      = 1
	exitLexical    = 2
	exitSyntax     = 3
	exitEvaluation = 4
)

// exitCode maps err to a process exit code by the stage that produced it.
// Errors from outside the expression pipeline (flags, files, stores) are
// usage errors.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	switch rulekit.CategoryOf(err) {
	case rulekit.CategoryLexical:
		return exitLexical
	case rulekit.CategorySyntax:
		return exitSyntax
	case rulekit.CategoryEvaluation:
		return exitEvaluation
	default:
		return exitUsage
	}
}
