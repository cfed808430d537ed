package internal

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"github.com/gnolang/totality/internal/totality"
	tt "github.com/gnolang/totality/internal/types"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Package is a type-checked set of source files.
type Package struct {
	Fset  *token.FileSet
	Files []*ast.File
	Types *types.Package
	Info  *types.Info
}

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given package and returns a slice of Issues.
	Check(pkg *Package) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	Severity() tt.Severity
	SetSeverity(tt.Severity)
}

const TotalityCheck = "totality-check"

// TotalityRule reports switch statements and if chains that do not exhaust
// the values of an enum.
type TotalityRule struct {
	analyzer *analysis.Analyzer
	severity tt.Severity
}

// NewTotalityRule builds the rule from its configuration. The data keys
// "switch" and "if-chain" select the constructs to check.
func NewTotalityRule(cfg tt.ConfigRule) LintRule {
	opts := totality.Options{
		Switches: cfg.Bool("switch", totality.DefaultOptions.Switches),
		IfChains: cfg.Bool("if-chain", totality.DefaultOptions.IfChains),
	}
	return &TotalityRule{
		analyzer: totality.NewAnalyzer(opts),
		severity: cfg.Severity,
	}
}

func (r *TotalityRule) Check(pkg *Package) ([]tt.Issue, error) {
	diags, err := runAnalyzer(r.analyzer, pkg)
	if err != nil {
		return nil, err
	}

	issues := make([]tt.Issue, 0, len(diags))
	for _, d := range diags {
		start := pkg.Fset.Position(d.Pos)
		issues = append(issues, tt.Issue{
			Rule:     r.Name(),
			Category: d.Category,
			Filename: start.Filename,
			Message:  d.Message,
			Note:     relatedNote(pkg.Fset, d.Related),
			Start:    start,
			End:      pkg.Fset.Position(d.End),
			Severity: r.severity,
		})
	}
	return issues, nil
}

func (r *TotalityRule) Name() string { return TotalityCheck }

func (r *TotalityRule) Severity() tt.Severity { return r.severity }

func (r *TotalityRule) SetSeverity(severity tt.Severity) { r.severity = severity }

// runAnalyzer runs a over pkg. Only analyzers whose sole prerequisite is
// the inspect pass are supported.
func runAnalyzer(a *analysis.Analyzer, pkg *Package) ([]analysis.Diagnostic, error) {
	for _, req := range a.Requires {
		if req != inspect.Analyzer {
			return nil, fmt.Errorf("analyzer %s: unsupported prerequisite %s", a.Name, req.Name)
		}
	}

	var diagnostics []analysis.Diagnostic
	pass := &analysis.Pass{
		Analyzer:  a,
		Fset:      pkg.Fset,
		Files:     pkg.Files,
		Pkg:       pkg.Types,
		TypesInfo: pkg.Info,
		ResultOf: map[*analysis.Analyzer]interface{}{
			inspect.Analyzer: inspector.New(pkg.Files),
		},
		Report: func(d analysis.Diagnostic) {
			diagnostics = append(diagnostics, d)
		},
	}

	if _, err := a.Run(pass); err != nil {
		return nil, fmt.Errorf("analyzer %s: %w", a.Name, err)
	}
	return diagnostics, nil
}

func relatedNote(fset *token.FileSet, related []analysis.RelatedInformation) string {
	if len(related) == 0 {
		return ""
	}
	parts := make([]string, len(related))
	for i, r := range related {
		pos := fset.Position(r.Pos)
		if pos.IsValid() {
			parts[i] = fmt.Sprintf("%s (%s:%d)", r.Message, pos.Filename, pos.Line)
		} else {
			parts[i] = r.Message
		}
	}
	return strings.Join(parts, "; ")
}
