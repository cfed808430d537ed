package totality

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prelude = `package p

type Color int

const (
	Red Color = iota
	Green
	Blue
)

type Kind string

const (
	KindA Kind = "a"
	KindB Kind = "b"
	KindC Kind = "c"
)

type Temp int

const (
	Cold Temp = -1
	Warm Temp = 1
)

type Ratio float64

const (
	Half  Ratio = 0.5
	Whole Ratio = 1
)

type Power bool

const (
	On  Power = true
	Off Power = false
)

type Level int

const (
	Low     Level = 1
	Minimum       = Low
	High    Level = 2
)

type Plain int

type Step int

const (
	StepA Step = iota + 1
	StepB
	StepC
)

type Mode uint32

const (
	ModeDir Mode = 1 << (31 - iota)
	ModeLink
	ModePipe

	ModeType      = ModeDir | ModeLink | ModePipe
	ModePerm Mode = 0o777
)

type Share float64

const (
	OneThird  Share = 1.0 / 3
	TwoThirds Share = 2.0 / 3
)

type holder struct{ c Color }

func id(c Color) Color { return c }

`

type typechecked struct {
	file   *ast.File
	oracle *TypesOracle
}

func typecheck(t *testing.T, body string) typechecked {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "p.go", prelude+body, 0)
	require.NoError(t, err)

	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	pkg, err := (&types.Config{}).Check("p", fset, []*ast.File{f}, info)
	require.NoError(t, err)

	return typechecked{file: f, oracle: NewTypesOracle(pkg, info)}
}

// firstConstruct returns the first switch or if statement inside the
// function named "f".
func (tc typechecked) firstConstruct(t *testing.T) ast.Node {
	t.Helper()
	var found ast.Node
	for _, decl := range tc.file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != "f" {
			continue
		}
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			if found != nil {
				return false
			}
			switch n.(type) {
			case *ast.SwitchStmt, *ast.IfStmt:
				found = n
				return false
			}
			return true
		})
	}
	require.NotNil(t, found, "no construct in f")
	return found
}

func TestCheck(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
		want string // empty when nothing is reported
	}{
		{
			name: "switch missing one value",
			body: `func f(c Color) {
	switch c {
	case Red:
	case Green:
	}
}`,
			want: "Match not exhaustive, values not matched: 2",
		},
		{
			name: "bit flags are not an enum",
			body: `func f(m Mode) {
	switch m & ModeType {
	case ModeDir:
	case ModeLink:
	}
}`,
		},
		{
			name: "dense values are an enum even when one is the union of others",
			body: `func f(s Step) {
	switch s {
	case StepA, StepB:
	}
}`,
			want: "Match not exhaustive, values not matched: 3",
		},
		{
			name: "float values print in full",
			body: `func f(s Share) {
	switch s {
	case TwoThirds:
	}
}`,
			want: "Match not exhaustive, values not matched: 0.3333333333333333",
		},
		{
			name: "switch covers every value in any order",
			body: `func f(c Color) {
	switch c {
	case Blue, Red:
	case Green:
	}
}`,
		},
		{
			name: "switch with default is never reported",
			body: `func f(c Color) {
	switch c {
	case Red:
	default:
	}
}`,
		},
		{
			name: "missing values follow declaration order",
			body: `func f(c Color) {
	switch c {
	case Green:
	}
}`,
			want: "Match not exhaustive, values not matched: 0, 2",
		},
		{
			name: "string enum with untyped literals",
			body: `func f(k Kind) {
	switch k {
	case "a", KindB:
	}
}`,
			want: "Match not exhaustive, values not matched: c",
		},
		{
			name: "non-literal case contributes nothing",
			body: `func f(c, other Color) {
	switch c {
	case Red, other:
	}
}`,
			want: "Match not exhaustive, values not matched: 1, 2",
		},
		{
			name: "over-coverage is not an error",
			body: `func f(c Color) {
	switch c {
	case Red, Green, Blue, 7:
	}
}`,
		},
		{
			name: "tagless switch",
			body: `func f(c Color) {
	switch {
	case c == Red:
	}
}`,
		},
		{
			name: "switch on a plain type",
			body: `func f(p Plain) {
	switch p {
	case 1:
	}
}`,
		},
		{
			name: "switch on a string",
			body: `func f(s string) {
	switch s {
	case "a":
	}
}`,
		},
		{
			name: "switch on a constant",
			body: `func f() {
	switch Red {
	case Green:
	}
}`,
		},
		{
			name: "float enum",
			body: `func f(r Ratio) {
	switch r {
	case 1:
	}
}`,
			want: "Match not exhaustive, values not matched: 0.5",
		},
		{
			name: "bool enum",
			body: `func f(p Power) {
	switch p {
	case On:
	}
}`,
			want: "Match not exhaustive, values not matched: false",
		},
		{
			name: "aliased constants count once",
			body: `func f(l Level) {
	switch l {
	case High:
	}
}`,
			want: "Match not exhaustive, values not matched: 1",
		},
		{
			name: "if chain missing one value",
			body: `func f(c Color) {
	if c == Red {
	} else if c == Green {
	}
}`,
			want: "Match not exhaustive, values not matched: 2",
		},
		{
			name: "disjunction counts every comparison",
			body: `func f(c Color) {
	if c == Red || c == Green {
	} else if c == Blue {
	}
}`,
		},
		{
			name: "parenthesised disjuncts",
			body: `func f(c Color) {
	if (c == Red) || (c == Green) {
	}
}`,
			want: "Match not exhaustive, values not matched: 2",
		},
		{
			name: "two discriminants",
			body: `func f(c, d Color) {
	if c == Red {
	} else if d == Green {
	}
}`,
		},
		{
			name: "terminal else",
			body: `func f(c Color) {
	if c == Red {
	} else {
	}
}`,
		},
		{
			name: "terminal else after else if",
			body: `func f(c Color) {
	if c == Red {
	} else if c == Green {
	} else {
	}
}`,
		},
		{
			name: "conjunction",
			body: `func f(c Color) {
	if c == Red && c == Green {
	}
}`,
		},
		{
			name: "inequality",
			body: `func f(c Color) {
	if c != Red {
	}
}`,
		},
		{
			name: "negation",
			body: `func f(c Color, ok bool) {
	if !ok {
	}
}`,
		},
		{
			name: "call operand",
			body: `func f(c Color) {
	if id(c) == Red {
	}
}`,
		},
		{
			name: "non-literal right operand",
			body: `func f(c, d Color) {
	if c == Red {
	} else if c == d {
	}
}`,
		},
		{
			name: "selector discriminant",
			body: `func f(h holder) {
	if h.c == Red {
	} else if h.c == Green {
	}
}`,
			want: "Match not exhaustive, values not matched: 2",
		},
		{
			name: "unary minus literal",
			body: `func f(t Temp) {
	if t == -1 {
	}
}`,
			want: "Match not exhaustive, values not matched: 1",
		},
		{
			name: "init on the head",
			body: `func f(c Color) {
	if d := c; d == Red {
	} else if d == Green {
	}
}`,
			want: "Match not exhaustive, values not matched: 2",
		},
		{
			name: "init on an else if",
			body: `func f(c Color) {
	if c == Red {
	} else if d := c; d == Green {
	}
}`,
		},
		{
			name: "if on a string",
			body: `func f(s string) {
	if s == "a" {
	}
}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tc := typecheck(t, tt.body)
			f, ok := Check(tc.oracle, tc.firstConstruct(t))
			if tt.want == "" {
				assert.False(t, ok, "unexpected report: %s", f.Message())
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, f.Message())
		})
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	t.Parallel()
	tc := typecheck(t, `func f(c Color) {
	switch c {
	case Blue:
	}
}`)
	n := tc.firstConstruct(t)

	first, ok := Check(tc.oracle, n)
	require.True(t, ok)
	second, ok := Check(tc.oracle, n)
	require.True(t, ok)

	assert.Equal(t, first.Message(), second.Message())
	assert.Equal(t, first.Missing, second.Missing)
}

func TestFindingUnmatched(t *testing.T) {
	t.Parallel()
	tc := typecheck(t, `func f(l Level) {
	switch l {
	case High:
	}
}`)
	f, ok := Check(tc.oracle, tc.firstConstruct(t))
	require.True(t, ok)

	var names []string
	for _, lit := range f.Unmatched() {
		names = append(names, lit.Name)
	}
	assert.Equal(t, []string{"Low", "Minimum"}, names)
}

func TestMatchIfChainHandledValues(t *testing.T) {
	t.Parallel()
	tc := typecheck(t, `func f(k Kind) {
	if k == KindC || k == "a" {
	} else if k == KindC {
	}
}`)
	ifStmt, ok := tc.firstConstruct(t).(*ast.IfStmt)
	require.True(t, ok)

	m, ok := MatchIfChain(tc.oracle, ifStmt)
	require.True(t, ok)
	assert.Equal(t, "k", types.ExprString(m.Discriminant))

	var handled []string
	for _, v := range m.Handled {
		handled = append(handled, v.String())
	}
	assert.Equal(t, []string{"c", "a", "c"}, handled)
	missing := m.Missing()
	require.Len(t, missing, 1)
	assert.Equal(t, "b", missing[0].String())
}

// fakeOracle classifies expressions by their printed form.
type fakeOracle map[string]Type

func (o fakeOracle) TypeOf(e ast.Expr) Type {
	if t, ok := o[types.ExprString(e)]; ok {
		return t
	}
	return Other{}
}

func parseFunc(t *testing.T, src string) ast.Node {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "x.go", "package x\n"+src, 0)
	require.NoError(t, err)
	fn := f.Decls[0].(*ast.FuncDecl)
	require.NotEmpty(t, fn.Body.List)
	return fn.Body.List[0]
}

func TestCheckWithOpenUnion(t *testing.T) {
	t.Parallel()
	a := lit(stringValue("a"))
	oracle := fakeOracle{
		"x":   &Union{Members: []Type{Other{}, a}},
		`"a"`: a,
	}

	sw := parseFunc(t, `func f() {
	switch x {
	case "a":
	}
}`)
	_, ok := Check(oracle, sw)
	assert.False(t, ok)

	chain := parseFunc(t, `func f() {
	if x == "a" {
	}
}`)
	_, ok = Check(oracle, chain)
	assert.False(t, ok)
}

func TestCheckWithClosedUnion(t *testing.T) {
	t.Parallel()
	a, b, c := lit(stringValue("a")), lit(stringValue("b")), lit(stringValue("c"))
	oracle := fakeOracle{
		"x":      &Union{Members: []Type{a, b, c}},
		"y":      &Union{Members: []Type{a, b, c}},
		"this.v": &Union{Members: []Type{a, b, c}},
		`"a"`:    a,
		`"b"`:    b,
		`"c"`:    c,
	}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "switch",
			src: `func f() {
	switch x {
	case "a", "b":
	}
}`,
			want: "Match not exhaustive, values not matched: c",
		},
		{
			name: "chain",
			src: `func f() {
	if x == "a" {
	} else if x == "b" {
	}
}`,
			want: "Match not exhaustive, values not matched: c",
		},
		{
			name: "chain over a selector",
			src: `func f() {
	if this.v == "c" {
	}
}`,
			want: "Match not exhaustive, values not matched: a, b",
		},
		{
			name: "mixed bases",
			src: `func f() {
	if x == "a" {
	} else if y == "b" {
	}
}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, ok := Check(oracle, parseFunc(t, tt.src))
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, f.Message())
		})
	}
}

func TestCheckIgnoresOtherNodes(t *testing.T) {
	t.Parallel()
	n := parseFunc(t, `func f() {
	for {
	}
}`)
	_, ok := Check(fakeOracle{}, n)
	assert.False(t, ok)
}
