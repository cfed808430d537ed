// Package internal provides the lint engine behind the totality command.
//
// Key components:
//
// Engine: loads packages with golang.org/x/tools/go/packages, runs every
// enabled LintRule over them and filters the issues through nolint
// directives and ignored paths.
//
// LintRule: a rule checks a type-checked Package and returns issues. The
// totality-check rule wraps the analyzer of package totality.
//
// Watch: re-lints a package whenever one of its Go files is written.
//
// SourceCode: the lines of a source file, used to render issues.
//
// Usage:
//
//	engine, err := internal.NewEngine(".", nil)
//	if err != nil {
//	    // handle error
//	}
//	issues, err := engine.Run("./pkg/colors")
package internal
