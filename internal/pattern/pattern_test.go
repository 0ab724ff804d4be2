package pattern

import (
	"testing"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/token"
	"github.com/funvibe/matchc/internal/typesystem"
)

func tok(line int) token.Token {
	return token.Token{File: "t.mx", Line: line, Column: 1}
}

func TestEqualValueTestEqualityIgnoresToken(t *testing.T) {
	lit := &ast.Literal{Value: 3}
	a := EqualValueTest(tok(1), "t0", lit, NewBindings())
	b := EqualValueTest(tok(99), "t0", lit, NewBindings())
	if !a.Equal(b) {
		t.Fatalf("expected patterns differing only in token to be equal")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("expected equal patterns to hash equal")
	}
}

func TestEqualValueTestInequality(t *testing.T) {
	a := EqualValueTest(tok(1), "t0", &ast.Literal{Value: 3}, NewBindings())
	b := EqualValueTest(tok(1), "t0", &ast.Literal{Value: 4}, NewBindings())
	if a.Equal(b) {
		t.Fatalf("expected different literal values to compare unequal")
	}
}

func TestAndOrStructuralEquality(t *testing.T) {
	p1 := EqualValueTest(tok(1), "t0", &ast.Literal{Value: 1}, NewBindings())
	p2 := TypeTest(tok(1), "t0", typesystem.TCon{Name: "Int"})

	a1 := And(tok(1), p1, p2)
	a2 := And(tok(2), p1, p2)
	if !a1.Equal(a2) {
		t.Fatalf("expected And nodes with equal subs to be equal")
	}

	o1 := Or(tok(1), p1, p2)
	if a1.Equal(o1) {
		t.Fatalf("And and Or over the same subs must not compare equal")
	}
}

func TestIsIrrefutable(t *testing.T) {
	if !IsIrrefutable(True(tok(1))) {
		t.Fatalf("True must be irrefutable")
	}
	if IsIrrefutable(False(tok(1))) {
		t.Fatalf("False must not be irrefutable")
	}
	wc := True(tok(1))
	eq := EqualValueTest(tok(1), "t0", &ast.Literal{Value: 1}, NewBindings())
	if IsIrrefutable(And(tok(1), wc, eq)) {
		t.Fatalf("And with a refutable sub must not be irrefutable")
	}
	if !IsIrrefutable(Or(tok(1), eq, wc)) {
		t.Fatalf("Or with an irrefutable sub must be irrefutable")
	}
}

func TestBindingsEqualityIsSetWise(t *testing.T) {
	a := NewBindings().With("x", "t1").With("y", "t2")
	b := NewBindings().With("y", "t2").With("x", "t1")
	if !a.Equal(b) {
		t.Fatalf("bindings with the same entries in different insertion order must be equal")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("bindings hash must not depend on insertion order")
	}
}

func TestFetchFieldKeySharesAcrossIdenticalAccesses(t *testing.T) {
	f1 := FetchField(tok(1), "t0", "x", typesystem.Any, "t1")
	f2 := FetchField(tok(2), "t0", "x", typesystem.Any, "t1")
	k1, ok1 := FetchKeyOf(f1)
	k2, ok2 := FetchKeyOf(f2)
	if !ok1 || !ok2 || k1 != k2 {
		t.Fatalf("identical field fetches must share a FetchKey, got %v/%v vs %v/%v", k1, ok1, k2, ok2)
	}
	if !f1.Equal(f2) {
		t.Fatalf("identical field fetches (ignoring token) must compare equal")
	}
}

func TestAsTypeTestNarrowing(t *testing.T) {
	tt := TypeTest(tok(1), "t0", typesystem.TCon{Name: "Point"})
	input, typ, ok := AsTypeTest(tt)
	if !ok || input != "t0" || typ.String() != "Point" {
		t.Fatalf("AsTypeTest failed to narrow: %v %v %v", input, typ, ok)
	}
	_, _, ok = AsTypeTest(True(tok(1)))
	if ok {
		t.Fatalf("AsTypeTest must reject a non-TypeTest pattern")
	}
}
