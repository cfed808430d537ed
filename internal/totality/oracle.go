package totality

import (
	"go/ast"
	"go/constant"
	"go/types"
	"sort"

	"golang.org/x/tools/go/types/typeutil"
)

// Oracle resolves the type of an expression.
type Oracle interface {
	TypeOf(e ast.Expr) Type
}

// TypesOracle is an Oracle over the results of go/types.
//
// A constant expression is a Literal. An expression whose type is a defined
// type with a basic underlying type is a Union of the constants of exactly
// that type declared in its package, in declaration order. Everything else
// is Other. Unions are computed once per type; a TypesOracle is not safe
// for concurrent use.
type TypesOracle struct {
	info  *types.Info
	pkg   *types.Package
	enums typeutil.Map // types.Type -> Type
}

// NewTypesOracle returns an oracle for expressions of pkg. info must record
// Types; pkg decides which unexported constants are visible.
func NewTypesOracle(pkg *types.Package, info *types.Info) *TypesOracle {
	return &TypesOracle{info: info, pkg: pkg}
}

func (o *TypesOracle) TypeOf(e ast.Expr) Type {
	if o.info == nil || e == nil {
		return Other{}
	}
	if tv, ok := o.info.Types[e]; ok && tv.Value != nil {
		v, ok := ValueOf(tv.Value)
		if !ok {
			return Other{}
		}
		return &Literal{Value: v}
	}
	t := o.info.TypeOf(e)
	if t == nil {
		return Other{}
	}
	return o.enum(t)
}

func (o *TypesOracle) enum(t types.Type) Type {
	t = types.Unalias(t)
	if cached := o.enums.At(t); cached != nil {
		return cached.(Type)
	}
	u := o.union(t)
	o.enums.Set(t, u)
	return u
}

func (o *TypesOracle) union(t types.Type) Type {
	named, ok := t.(*types.Named)
	if !ok {
		return Other{}
	}
	basic, ok := named.Underlying().(*types.Basic)
	if !ok || basic.Info()&(types.IsString|types.IsNumeric|types.IsBoolean) == 0 {
		return Other{}
	}
	obj := named.Obj()
	if obj.Pkg() == nil {
		return Other{}
	}

	var consts []*types.Const
	scope := obj.Pkg().Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !types.Identical(c.Type(), named) {
			continue
		}
		if obj.Pkg() != o.pkg && !c.Exported() {
			continue
		}
		consts = append(consts, c)
	}
	if len(consts) == 0 {
		return Other{}
	}
	sort.SliceStable(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })

	members := make([]Type, 0, len(consts))
	for _, c := range consts {
		v, ok := ValueOf(c.Val())
		if !ok {
			return Other{}
		}
		members = append(members, &Literal{Value: v, Name: c.Name(), Pos: c.Pos()})
	}
	if isFlagSet(consts) {
		return Other{}
	}
	return &Union{Members: members}
}

// isFlagSet reports whether consts look like bit flags rather than an
// enumeration: their values are sparse, and one of them is the union of two
// or more of the others, as fs.ModeType is of fs.ModeDir, fs.ModeSymlink and
// the rest. Dense values such as 1, 2, 3 remain an enumeration.
func isFlagSet(consts []*types.Const) bool {
	seen := make(map[uint64]bool, len(consts))
	var bits []uint64
	for _, c := range consts {
		if c.Val().Kind() != constant.Int {
			return false
		}
		u, exact := constant.Uint64Val(c.Val())
		if !exact {
			return false
		}
		if !seen[u] {
			seen[u] = true
			bits = append(bits, u)
		}
	}
	if len(bits) < 3 {
		return false
	}

	sort.Slice(bits, func(i, j int) bool { return bits[i] < bits[j] })
	if bits[len(bits)-1]-bits[0] == uint64(len(bits)-1) {
		return false
	}

	for _, v := range bits {
		if v == 0 {
			continue
		}
		var union uint64
		parts := 0
		for _, u := range bits {
			if u != 0 && u != v && u&^v == 0 {
				union |= u
				parts++
			}
		}
		if parts >= 2 && union == v {
			return true
		}
	}
	return false
}
