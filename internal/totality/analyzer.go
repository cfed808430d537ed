package totality

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const Doc = `check that switch statements and if/else if chains exhaust an enum

The totality analysis reports switch statements without a default clause, and
if/else if chains without a final else, whose discriminant is of a defined
type with declared constants (an enum) but which do not handle every constant
value of that type.`

// Options selects the constructs the analyzer inspects.
type Options struct {
	Switches bool
	IfChains bool
}

// DefaultOptions inspects both switch statements and if chains.
var DefaultOptions = Options{Switches: true, IfChains: true}

// Analyzer is the totality analyzer with the default options.
var Analyzer = NewAnalyzer(DefaultOptions)

// NewAnalyzer returns an analyzer configured with opts. The options are
// also exposed as the -switch and -ifchain flags.
func NewAnalyzer(opts Options) *analysis.Analyzer {
	c := &checker{opts: opts}
	a := &analysis.Analyzer{
		Name:     "totality",
		Doc:      Doc,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
		Run:      c.run,
	}
	a.Flags.BoolVar(&c.opts.Switches, "switch", opts.Switches, "check switch statements")
	a.Flags.BoolVar(&c.opts.IfChains, "ifchain", opts.IfChains, "check if/else if chains")
	return a
}

type checker struct {
	opts Options
}

func (c *checker) run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	oracle := NewTypesOracle(pass.Pkg, pass.TypesInfo)

	nodeFilter := []ast.Node{
		(*ast.SwitchStmt)(nil),
		(*ast.IfStmt)(nil),
	}

	// else-if links of chains already judged as a whole
	covered := make(map[*ast.IfStmt]bool)

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var (
			m  Match
			ok bool
		)
		switch n := n.(type) {
		case *ast.SwitchStmt:
			if !c.opts.Switches {
				return
			}
			m, ok = MatchSwitch(oracle, n)
		case *ast.IfStmt:
			if !c.opts.IfChains || covered[n] {
				return
			}
			m, ok = MatchIfChain(oracle, n)
			if ok {
				for _, tail := range elseIfs(n) {
					covered[tail] = true
				}
			}
		}
		if !ok {
			return
		}
		if f, failed := newFinding(n, m); failed {
			pass.Report(diagnostic(f))
		}
	})

	return nil, nil
}

func diagnostic(f Finding) analysis.Diagnostic {
	d := analysis.Diagnostic{
		Pos:      f.Node.Pos(),
		End:      headerEnd(f.Node),
		Category: "totality",
		Message:  f.Message(),
	}
	for _, lit := range f.Unmatched() {
		if lit.Name == "" || !lit.Pos.IsValid() {
			continue
		}
		d.Related = append(d.Related, analysis.RelatedInformation{
			Pos:     lit.Pos,
			End:     lit.Pos + token.Pos(len(lit.Name)),
			Message: lit.Name + " not matched",
		})
	}
	return d
}

// headerEnd is the end of the construct's header, so that a diagnostic
// covers "switch x" rather than the whole body.
func headerEnd(n ast.Node) token.Pos {
	switch n := n.(type) {
	case *ast.SwitchStmt:
		return n.Body.Lbrace
	case *ast.IfStmt:
		return n.Body.Lbrace
	}
	return n.End()
}
