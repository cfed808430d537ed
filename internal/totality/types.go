package totality

import "go/token"

// Type is the classification of a resolved type. It is one of *Literal,
// *Union or Other.
type Type interface {
	isType()
}

// Literal is a type inhabited by exactly one value. Name and Pos are set when
// the literal comes from a named constant declaration.
type Literal struct {
	Value Value
	Name  string
	Pos   token.Pos
}

// Union is a union of member types, in declaration order.
type Union struct {
	Members []Type
}

// Other is any type the engine does not reason about.
type Other struct{}

func (*Literal) isType() {}
func (*Union) isType()   {}
func (Other) isType()    {}

// LiteralValueOf returns the value of a literal type.
func LiteralValueOf(t Type) (Value, bool) {
	lit, ok := t.(*Literal)
	if !ok {
		return Value{}, false
	}
	return lit.Value, true
}

// ClosedUnionValuesOf returns the distinct member values of a union whose
// members are all literals, in declaration order. A union with any
// non-literal member is not closed.
func ClosedUnionValuesOf(t Type) ([]Value, bool) {
	lits, ok := closedUnion(t)
	if !ok {
		return nil, false
	}
	values := make([]Value, 0, len(lits))
	for _, lit := range lits {
		if !contains(values, lit.Value) {
			values = append(values, lit.Value)
		}
	}
	return values, true
}

func closedUnion(t Type) ([]*Literal, bool) {
	u, ok := t.(*Union)
	if !ok || len(u.Members) == 0 {
		return nil, false
	}
	lits := make([]*Literal, 0, len(u.Members))
	for _, m := range u.Members {
		lit, ok := m.(*Literal)
		if !ok {
			return nil, false
		}
		lits = append(lits, lit)
	}
	return lits, true
}
