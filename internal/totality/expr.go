package totality

import (
	"go/ast"
	"go/token"
	"go/types"
)

// isSimple reports whether evaluating e has no observable side effects, so
// that repeating it once per comparison is safe.
func isSimple(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ident, *ast.BasicLit:
		return true
	case *ast.SelectorExpr:
		return isSimple(e.X)
	case *ast.UnaryExpr:
		switch e.Op {
		case token.ADD, token.SUB:
			return isSimple(e.X)
		}
		return false
	default:
		return false
	}
}

// equalExprs compares expressions by their printed form. It is textual, not
// semantic: x.y and (x).y differ.
func equalExprs(a, b ast.Expr) bool {
	return types.ExprString(a) == types.ExprString(b)
}
