// Package typesystem defines the Type handle and the Oracle interface the
// core consumes (spec.md §6), adapted from the teacher's internal/typesystem
// package. The teacher's Type is a full Hindley-Milner representation (TVar,
// TCon, TApp with Subst/unify); the core here only ever needs an opaque,
// comparable handle plus subtype/intersect, so matchc keeps the teacher's
// TCon/TApp shape for concrete types but drops unification — the core never
// infers types, it only asks the oracle about ones the surface syntax names.
package typesystem

import "fmt"

// Type is an opaque, comparable type handle returned by an Oracle.
type Type interface {
	String() string
	typeNode()
}

// TCon is a nullary concrete type, e.g. "Int", "Point", or a protobuf
// message's fully-qualified name — mirrors the teacher's typesystem.TCon.
type TCon struct {
	Name string
}

func (t TCon) String() string { return t.Name }
func (TCon) typeNode()        {}

// TApp is a type constructor applied to arguments, e.g. "Option[Int]" or
// "List[Point]" — mirrors the teacher's typesystem.TApp, trimmed to the
// fields the oracle and C5's type-test refinement need.
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	s := t.Constructor.String() + "["
	for i, a := range t.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + "]"
}
func (TApp) typeNode() {}

// Any is the "unknown type" sentinel the oracle returns from FieldType when
// a field's declared type isn't known (spec.md §6: "Any when unknown").
var Any Type = TCon{Name: "Any"}

// Equal is structural equality ignoring nothing — Type handles returned by
// an Oracle are expected to be canonical (the same type resolves to an
// identical handle every time), so equality is just a deep compare.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case TCon:
		bv, ok := b.(TCon)
		return ok && av.Name == bv.Name
	case TApp:
		bv, ok := b.(TApp)
		if !ok || len(av.Args) != len(bv.Args) || !Equal(av.Constructor, bv.Constructor) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	default:
		return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
	}
}

// Oracle is the type-introspection collaborator consumed by the binder
// (spec.md §6). It is the only way the core learns anything about user
// types: field names/order, field types, and subtype/intersection facts
// used by C5's type-test refinement.
type Oracle interface {
	// ResolveType maps a type-expression AST (see internal/ast.TypeExpr) to
	// a Type handle. loc is attached to the error on failure.
	ResolveType(expr interface{}, loc fmt.Stringer) (Type, error)

	// FieldNames returns the positional-binding field order for a type,
	// or (nil, false) if the type has no known fields (not a record/ADT
	// variant with fields).
	FieldNames(t Type) ([]string, bool)

	// FieldType returns the declared type of a named field, or Any when
	// unknown.
	FieldType(t Type, field string) Type

	// Subtype reports whether a is a subtype of (or equal to) b.
	Subtype(a, b Type) bool

	// Intersect returns the most precise common supertype-free
	// intersection of a and b, or nil if the intersection is empty.
	Intersect(a, b Type) Type
}
