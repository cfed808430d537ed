package nolint

import (
	"errors"
	"go/ast"
	"go/token"
	"strings"
)

const directive = "//nolint"

var errNotDirective = errors.New("not a nolint directive")

// Manager records nolint scopes per file and answers whether an issue is
// suppressed.
type Manager struct {
	scopes map[string][]scope
}

// scope is a line range where the listed rules, or all rules when the list
// is empty, are suppressed.
type scope struct {
	rules map[string]struct{}
	start int
	end   int
}

// ParseComments collects the nolint directives of the given files.
//
// A directive before the package clause covers the whole file. A directive
// trailing a statement covers that statement. A directive on its own line
// covers the statement or function declaration that starts on the next line,
// and otherwise only its own line.
func ParseComments(fset *token.FileSet, files ...*ast.File) *Manager {
	m := &Manager{scopes: make(map[string][]scope)}
	for _, f := range files {
		filename := fset.Position(f.Package).Filename
		stmts := statementsByLine(fset, f)
		for _, cg := range f.Comments {
			for _, c := range cg.List {
				s, err := parseDirective(fset, f, c, stmts)
				if err != nil {
					continue
				}
				m.scopes[filename] = append(m.scopes[filename], s)
			}
		}
	}
	return m
}

func parseDirective(fset *token.FileSet, f *ast.File, c *ast.Comment, stmts map[int]ast.Stmt) (scope, error) {
	rest, ok := strings.CutPrefix(c.Text, directive)
	if !ok {
		return scope{}, errNotDirective
	}
	if rest != "" && rest[0] != ':' {
		// e.g. //nolintfoo
		return scope{}, errNotDirective
	}
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	if strings.HasPrefix(c.Text, directive+":") && rest == "" {
		return scope{}, errors.New("nolint directive lists no rules")
	}

	s := scope{rules: ruleNames(rest)}
	line := fset.Position(c.Slash).Line

	if line < fset.Position(f.Package).Line {
		s.start = 1
		s.end = fset.Position(f.End()).Line
		return s, nil
	}

	if stmt, ok := stmts[line]; ok && c.Slash > stmt.Pos() {
		s.start = line
		s.end = fset.Position(stmt.End()).Line
		return s, nil
	}

	if stmt, ok := stmts[line+1]; ok {
		s.start = line
		s.end = fset.Position(stmt.End()).Line
		return s, nil
	}

	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if ok && fset.Position(fn.Pos()).Line == line+1 {
			s.start = line
			s.end = fset.Position(fn.End()).Line
			return s, nil
		}
	}

	s.start, s.end = line, line
	return s, nil
}

func ruleNames(list string) map[string]struct{} {
	rules := make(map[string]struct{})
	for _, r := range strings.Split(list, ",") {
		if r = strings.TrimSpace(r); r != "" {
			rules[r] = struct{}{}
		}
	}
	return rules
}

// statementsByLine maps each line to the first statement starting on it.
func statementsByLine(fset *token.FileSet, f *ast.File) map[int]ast.Stmt {
	stmts := make(map[int]ast.Stmt)
	ast.Inspect(f, func(n ast.Node) bool {
		if stmt, ok := n.(ast.Stmt); ok {
			line := fset.Position(stmt.Pos()).Line
			if _, exists := stmts[line]; !exists {
				stmts[line] = stmt
			}
		}
		return true
	})
	return stmts
}

// IsNolint reports whether an issue of rule at pos is suppressed.
func (m *Manager) IsNolint(pos token.Position, rule string) bool {
	if m == nil {
		return false
	}
	for _, s := range m.scopes[pos.Filename] {
		if pos.Line < s.start || pos.Line > s.end {
			continue
		}
		if len(s.rules) == 0 {
			return true
		}
		if _, ok := s.rules[rule]; ok {
			return true
		}
	}
	return false
}
