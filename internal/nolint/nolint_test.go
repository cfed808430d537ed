package nolint

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Manager {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "kind.go", src, parser.ParseComments)
	require.NoError(t, err)
	return ParseComments(fset, f)
}

func at(line int) token.Position {
	return token.Position{Filename: "kind.go", Line: line, Column: 1}
}

func TestRuleNames(t *testing.T) {
	t.Parallel()
	rules := ruleNames(" totality-check, other ,")
	assert.Len(t, rules, 2)
	assert.Contains(t, rules, "totality-check")
	assert.Contains(t, rules, "other")
	assert.Empty(t, ruleNames(""))
}

func TestStatementScopes(t *testing.T) {
	t.Parallel()
	m := parse(t, `package kind

type Kind int

func describe(k Kind) {
	//nolint:totality-check
	switch k {
	case 0:
	}
	switch k {
	}
	switch k { //nolint
	}
	//nolint:other
	switch k {
	}
}
`)

	tests := []struct {
		rule string
		line int
		want bool
	}{
		{"totality-check", 7, true},
		{"totality-check", 9, true},
		{"totality-check", 10, false},
		{"totality-check", 12, true},
		{"anything", 12, true},
		{"totality-check", 15, false},
		{"other", 15, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.IsNolint(at(tt.line), tt.rule), "line %d rule %s", tt.line, tt.rule)
	}
}

func TestFileScope(t *testing.T) {
	t.Parallel()
	m := parse(t, `//nolint:totality-check
package kind

func f(k int) {
	switch k {
	}
}
`)
	assert.True(t, m.IsNolint(at(5), "totality-check"))
	assert.False(t, m.IsNolint(at(5), "other"))
	assert.False(t, m.IsNolint(token.Position{Filename: "other.go", Line: 5}, "totality-check"))
}

func TestFunctionScope(t *testing.T) {
	t.Parallel()
	m := parse(t, `package kind

//nolint
func f(k int) {
	switch k {
	}
}

func g(k int) {
	switch k {
	}
}
`)
	assert.True(t, m.IsNolint(at(5), "totality-check"))
	assert.False(t, m.IsNolint(at(10), "totality-check"))
}

func TestInvalidDirectives(t *testing.T) {
	t.Parallel()
	m := parse(t, `package kind

func f(k int) {
	//nolint:
	switch k {
	}
	//nolintplease
	switch k {
	}
}
`)
	assert.False(t, m.IsNolint(at(5), "totality-check"))
	assert.False(t, m.IsNolint(at(8), "totality-check"))
}

func TestNilManager(t *testing.T) {
	t.Parallel()
	var m *Manager
	assert.False(t, m.IsNolint(at(1), "totality-check"))
}
