package native_test

import (
	"testing"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/config"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/oracle/native"
	"github.com/funvibe/matchc/internal/token"
	"github.com/funvibe/matchc/internal/typesystem"
)

type Point struct {
	X int
	Y int
}

func tok(line int) token.Token { return token.Token{File: "t.mx", Line: line} }

func TestResolveRegisteredType(t *testing.T) {
	o := native.New()
	o.Register("Point", Point{})

	te := &ast.TypeExpr{Tok: tok(1), Name: "Point"}
	typ, err := o.ResolveType(te, te.Tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ.String() != "Point" {
		t.Fatalf("expected Point, got %s", typ.String())
	}

	names, ok := o.FieldNames(typ)
	if !ok {
		t.Fatalf("expected Point to have known fields")
	}
	if len(names) != 2 || names[0] != "X" || names[1] != "Y" {
		t.Fatalf("expected [X Y] in declaration order, got %v", names)
	}
}

func TestResolveUnknownTypeReturnsUnresolvedTypeError(t *testing.T) {
	o := native.New()
	te := &ast.TypeExpr{Tok: tok(1), Name: "Nope"}
	_, err := o.ResolveType(te, te.Tok)
	if err == nil {
		t.Fatalf("expected an error for an unregistered type")
	}
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok || de.Code != diagnostics.ErrUnresolvedType {
		t.Fatalf("expected ErrUnresolvedType, got %v", err)
	}
}

func TestBuiltinADTsResolveWithoutRegistration(t *testing.T) {
	o := native.New()
	te := &ast.TypeExpr{Tok: tok(1), Name: config.OptionTypeName}
	typ, err := o.ResolveType(te, te.Tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ.String() != config.OptionTypeName {
		t.Fatalf("expected %s, got %s", config.OptionTypeName, typ.String())
	}
}

func TestConstructorSubtypeOfParentADT(t *testing.T) {
	o := native.New()
	some := typesystem.TCon{Name: config.SomeCtorName}
	option := typesystem.TCon{Name: config.OptionTypeName}
	if !o.Subtype(some, option) {
		t.Fatalf("expected Some to be a subtype of Option")
	}
	if o.Subtype(option, some) {
		t.Fatalf("Option must not be a subtype of Some")
	}
	if got := o.Intersect(some, option); got == nil || got.String() != config.SomeCtorName {
		t.Fatalf("expected Intersect(Some, Option) to be Some, got %v", got)
	}
}

func TestFieldTypeFallsBackToAnyForUnregisteredFieldType(t *testing.T) {
	o := native.New()
	o.Register("Point", Point{})
	typ, _ := o.ResolveType(&ast.TypeExpr{Tok: tok(1), Name: "Point"}, tok(1))
	ft := o.FieldType(typ, "X")
	if ft.String() != typesystem.Any.String() {
		t.Fatalf("expected X's type to fall back to Any since int isn't registered, got %v", ft)
	}
}
