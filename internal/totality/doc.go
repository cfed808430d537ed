// Package totality checks that conditional constructs exhaust the values of
// an enum-like type.
//
// A construct is analyzable when its shape and types fall inside a small,
// well understood subset:
//
//	switch c {            // c has a closed literal union type
//	case Red, Green:
//	}
//
//	if c == Red || c == Green {
//	} else if c == Blue {
//	}
//
// Anything outside that subset is skipped silently. An analyzable construct
// that leaves some values unhandled is reported as
//
//	Match not exhaustive, values not matched: v1, v2
//
// The engine is made of pure functions over an Oracle that classifies the
// type of any expression as a *Literal, a *Union or Other. TypesOracle does
// this for go/types, treating a defined type with declared constants as the
// union of those constants. Traversal belongs to Analyzer, which plugs into
// golang.org/x/tools/go/analysis.
package totality
