package totality

import (
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/ast/astutil"
)

// Match is a recognised construct: its discriminant, the closed union the
// discriminant admits, and the values the construct handles explicitly.
type Match struct {
	Discriminant ast.Expr
	Domain       []*Literal
	Handled      []Value
}

// Missing returns the domain values no clause handles, in declaration order.
func (m Match) Missing() []Value {
	return Missing(domainValues(m.Domain), m.Handled)
}

// MatchSwitch recognises a tagged switch without a default clause over a
// closed union. Case expressions that are not literals contribute nothing.
func MatchSwitch(o Oracle, s *ast.SwitchStmt) (Match, bool) {
	if s == nil || s.Tag == nil || s.Body == nil || hasDefault(s) {
		return Match{}, false
	}
	domain, ok := closedUnion(o.TypeOf(s.Tag))
	if !ok {
		return Match{}, false
	}

	var handled []Value
	for _, stmt := range s.Body.List {
		cc, ok := stmt.(*ast.CaseClause)
		if !ok {
			return Match{}, false
		}
		for _, e := range cc.List {
			if v, ok := LiteralValueOf(o.TypeOf(e)); ok {
				handled = append(handled, v)
			}
		}
	}

	return Match{Discriminant: s.Tag, Domain: domain, Handled: handled}, true
}

func hasDefault(s *ast.SwitchStmt) bool {
	for _, stmt := range s.Body.List {
		if cc, ok := stmt.(*ast.CaseClause); ok && cc.List == nil {
			return true
		}
	}
	return false
}

// MatchIfChain recognises an if / else if chain without a terminal else,
// where every condition is a disjunction of equality comparisons between the
// same discriminant and literal values.
func MatchIfChain(o Oracle, s *ast.IfStmt) (Match, bool) {
	if s == nil {
		return Match{}, false
	}
	c := chain{oracle: o}
	for cur := s; cur != nil; {
		if cur != s && cur.Init != nil {
			// may shadow or reassign the discriminant
			return Match{}, false
		}
		if !c.condition(cur.Cond) {
			return Match{}, false
		}
		switch next := cur.Else.(type) {
		case nil:
			cur = nil
		case *ast.IfStmt:
			cur = next
		default:
			return Match{}, false
		}
	}
	if c.discriminant == nil {
		return Match{}, false
	}

	domain, ok := closedUnion(o.TypeOf(c.discriminant))
	if !ok {
		return Match{}, false
	}
	return Match{Discriminant: c.discriminant, Domain: domain, Handled: c.handled}, true
}

// chain accumulates the state of one if / else if walk.
type chain struct {
	oracle       Oracle
	discriminant ast.Expr
	handled      []Value
}

func (c *chain) condition(e ast.Expr) bool {
	bin, ok := astutil.Unparen(e).(*ast.BinaryExpr)
	if !ok {
		return false
	}
	switch bin.Op {
	case token.LOR:
		return c.condition(bin.X) && c.condition(bin.Y)
	case token.EQL:
		return c.equality(bin.X, bin.Y)
	default:
		return false
	}
}

func (c *chain) equality(lhs, rhs ast.Expr) bool {
	if !isSimple(lhs) || !isSimple(rhs) {
		return false
	}
	if c.discriminant == nil {
		c.discriminant = lhs
	} else if !equalExprs(lhs, c.discriminant) {
		return false
	}
	v, ok := LiteralValueOf(c.oracle.TypeOf(rhs))
	if !ok {
		return false
	}
	c.handled = append(c.handled, v)
	return true
}

// elseIfs returns the if statements linked into s's else chain, s excluded.
func elseIfs(s *ast.IfStmt) []*ast.IfStmt {
	var tail []*ast.IfStmt
	for next, ok := s.Else.(*ast.IfStmt); ok; next, ok = next.Else.(*ast.IfStmt) {
		tail = append(tail, next)
	}
	return tail
}
