package totality

import (
	"go/constant"
	"go/token"
	"strconv"
)

// Value is the literal value of a constant expression. It is the unit of
// comparison throughout the package.
type Value struct {
	c constant.Value
}

// ValueOf wraps a constant. Unknown constants are not values.
func ValueOf(c constant.Value) (Value, bool) {
	if c == nil {
		return Value{}, false
	}
	switch c.Kind() {
	case constant.String, constant.Int, constant.Float, constant.Complex, constant.Bool:
		return Value{c: c}, true
	default:
		return Value{}, false
	}
}

// Equal reports whether v and o denote the same literal. Values of different
// families (string, boolean, numeric) are never equal.
func (v Value) Equal(o Value) bool {
	if v.c == nil || o.c == nil {
		return false
	}
	switch {
	case v.c.Kind() == constant.String && o.c.Kind() == constant.String:
		return constant.StringVal(v.c) == constant.StringVal(o.c)
	case v.c.Kind() == constant.Bool && o.c.Kind() == constant.Bool:
		return constant.BoolVal(v.c) == constant.BoolVal(o.c)
	case isNumeric(v.c) && isNumeric(o.c):
		return constant.Compare(v.c, token.EQL, o.c)
	}
	return false
}

// String renders the value as written in a diagnostic: strings unquoted,
// numbers as numbers in their shortest exact-enough form.
func (v Value) String() string {
	if v.c == nil {
		return ""
	}
	switch v.c.Kind() {
	case constant.String:
		return constant.StringVal(v.c)
	case constant.Int:
		return v.c.ExactString()
	case constant.Float:
		f, _ := constant.Float64Val(v.c)
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return v.c.String()
	}
}

func isNumeric(c constant.Value) bool {
	switch c.Kind() {
	case constant.Int, constant.Float, constant.Complex:
		return true
	}
	return false
}

func contains(vs []Value, v Value) bool {
	for _, w := range vs {
		if w.Equal(v) {
			return true
		}
	}
	return false
}
