package totality

import (
	"go/ast"
	"strings"
)

const messagePrefix = "Match not exhaustive, values not matched: "

// Missing returns the distinct values of domain with no equal counterpart in
// handled, in domain order. Handled values outside the domain are ignored.
func Missing(domain, handled []Value) []Value {
	var missing []Value
	for _, v := range domain {
		if !contains(handled, v) && !contains(missing, v) {
			missing = append(missing, v)
		}
	}
	return missing
}

// Message formats the diagnostic for a non-exhaustive construct.
func Message(missing []Value) string {
	parts := make([]string, len(missing))
	for i, v := range missing {
		parts[i] = v.String()
	}
	return messagePrefix + strings.Join(parts, ", ")
}

// Finding is an analyzable construct that does not handle every value.
type Finding struct {
	Node    ast.Node
	Match   Match
	Missing []Value
}

// Unmatched returns the domain members whose value is missing. Aliases of
// the same value are all returned.
func (f Finding) Unmatched() []*Literal {
	var lits []*Literal
	for _, lit := range f.Match.Domain {
		if contains(f.Missing, lit.Value) {
			lits = append(lits, lit)
		}
	}
	return lits
}

func (f Finding) Message() string {
	return Message(f.Missing)
}

// Check analyses a single switch or if statement. It reports false when the
// construct is not analyzable or handles every value.
func Check(o Oracle, n ast.Node) (Finding, bool) {
	var (
		m  Match
		ok bool
	)
	switch n := n.(type) {
	case *ast.SwitchStmt:
		m, ok = MatchSwitch(o, n)
	case *ast.IfStmt:
		m, ok = MatchIfChain(o, n)
	}
	if !ok {
		return Finding{}, false
	}
	return newFinding(n, m)
}

func newFinding(n ast.Node, m Match) (Finding, bool) {
	missing := m.Missing()
	if len(missing) == 0 {
		return Finding{}, false
	}
	return Finding{Node: n, Match: m, Missing: missing}, true
}

func domainValues(domain []*Literal) []Value {
	values := make([]Value, len(domain))
	for i, lit := range domain {
		values[i] = lit.Value
	}
	return values
}
