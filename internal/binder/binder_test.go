package binder_test

import (
	"fmt"
	"testing"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/binder"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/pattern"
	"github.com/funvibe/matchc/internal/token"
	"github.com/funvibe/matchc/internal/typesystem"
)

func tok(line int) token.Token { return token.Token{File: "t.mx", Line: line} }

// fakeOracle is a minimal typesystem.Oracle for tests: one constructor,
// "Point", with fields x and y, both Any.
type fakeOracle struct{}

func (fakeOracle) ResolveType(expr interface{}, loc fmt.Stringer) (typesystem.Type, error) {
	if te, ok := expr.(*ast.TypeExpr); ok {
		return typesystem.TCon{Name: te.Name}, nil
	}
	return typesystem.Any, nil
}
func (fakeOracle) FieldNames(t typesystem.Type) ([]string, bool) {
	if t.String() == "Point" {
		return []string{"x", "y"}, true
	}
	return nil, false
}
func (fakeOracle) FieldType(t typesystem.Type, field string) typesystem.Type { return typesystem.Any }
func (fakeOracle) Subtype(a, b typesystem.Type) bool                        { return typesystem.Equal(a, b) }
func (fakeOracle) Intersect(a, b typesystem.Type) typesystem.Type {
	if typesystem.Equal(a, b) {
		return a
	}
	return nil
}

func TestBindIdentifierPatternBindsWholeValue(t *testing.T) {
	b := binder.New(fakeOracle{}, &diagnostics.Bag{})
	arms := []*ast.MatchArm{
		{Tok: tok(1), Pattern: &ast.IdentifierPattern{Tok: tok(1), Name: "v"}, Result: &ast.Identifier{Name: "v"}},
	}
	out, err := b.BindArms("t0", arms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 arm, got %d", len(out))
	}
	if !pattern.IsTrue(out[0].Pattern) {
		t.Fatalf("a bare identifier pattern must lower to True, got kind %v", out[0].Pattern.Kind())
	}
	tmp, ok := out[0].Bindings.Get("v")
	if !ok || tmp != "t0" {
		t.Fatalf("expected v bound to t0, got %v/%v", tmp, ok)
	}
}

func TestBindConstructorPatternPositional(t *testing.T) {
	b := binder.New(fakeOracle{}, &diagnostics.Bag{})
	arms := []*ast.MatchArm{
		{
			Tok: tok(1),
			Pattern: &ast.ConstructorPattern{
				Tok:  tok(1),
				Name: "Point",
				Args: []ast.CtorArg{
					{Pattern: &ast.IdentifierPattern{Tok: tok(1), Name: "px"}},
					{Pattern: &ast.IdentifierPattern{Tok: tok(1), Name: "py"}},
				},
			},
			Result: &ast.Identifier{Name: "px"},
		},
	}
	out, err := b.BindArms("t0", arms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out[0].Bindings.Get("px"); !ok {
		t.Fatalf("expected px to be bound")
	}
	if _, ok := out[0].Bindings.Get("py"); !ok {
		t.Fatalf("expected py to be bound")
	}
}

func TestBindConstructorPatternRejectsMixedFieldStyle(t *testing.T) {
	b := binder.New(fakeOracle{}, &diagnostics.Bag{})
	arms := []*ast.MatchArm{
		{
			Tok: tok(1),
			Pattern: &ast.ConstructorPattern{
				Tok:  tok(1),
				Name: "Point",
				Args: []ast.CtorArg{
					{Pattern: &ast.IdentifierPattern{Tok: tok(1), Name: "px"}},
					{Name: "y", Pattern: &ast.IdentifierPattern{Tok: tok(1), Name: "py"}},
				},
			},
			Result: &ast.Identifier{Name: "px"},
		},
	}
	_, err := b.BindArms("t0", arms)
	if err == nil {
		t.Fatalf("expected a MixedFieldStyle error")
	}
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok || de.Code != diagnostics.ErrMixedFieldStyle {
		t.Fatalf("expected ErrMixedFieldStyle, got %v", err)
	}
}

func TestBindOrPatternRequiresSameBindingsOnBothSides(t *testing.T) {
	b := binder.New(fakeOracle{}, &diagnostics.Bag{})
	arms := []*ast.MatchArm{
		{
			Tok: tok(1),
			Pattern: &ast.OrPattern{
				Tok:   tok(1),
				Left:  &ast.IdentifierPattern{Tok: tok(1), Name: "v"},
				Right: &ast.WildcardPattern{Tok: tok(1)},
			},
			Result: &ast.Identifier{Name: "v"},
		},
	}
	_, err := b.BindArms("t0", arms)
	if err == nil {
		t.Fatalf("expected an error when or-pattern branches bind different names")
	}
}

func TestBindOrPatternPhiMergesSharedTemp(t *testing.T) {
	b := binder.New(fakeOracle{}, &diagnostics.Bag{})
	arms := []*ast.MatchArm{
		{
			Tok: tok(1),
			Pattern: &ast.OrPattern{
				Tok:   tok(1),
				Left:  &ast.IdentifierPattern{Tok: tok(1), Name: "v"},
				Right: &ast.IdentifierPattern{Tok: tok(1), Name: "v"},
			},
			Result: &ast.Identifier{Name: "v"},
		},
	}
	out, err := b.BindArms("t0", arms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out[0].Bindings.Get("v"); !ok {
		t.Fatalf("expected v to be bound via phi merge")
	}
	if out[0].Pattern.Kind() != pattern.KOr {
		t.Fatalf("expected top-level pattern to remain an Or, got %v", out[0].Pattern.Kind())
	}
}

func TestBindRepeatedIdentifierRetestsEquality(t *testing.T) {
	b := binder.New(fakeOracle{}, &diagnostics.Bag{})
	arms := []*ast.MatchArm{
		{
			Tok: tok(1),
			Pattern: &ast.TuplePattern{
				Tok: tok(1),
				Elements: []ast.Pattern{
					&ast.IdentifierPattern{Tok: tok(1), Name: "x"},
					&ast.IdentifierPattern{Tok: tok(1), Name: "x"},
				},
			},
			Result: &ast.Identifier{Name: "x"},
		},
	}
	out, err := b.BindArms("t0", arms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A repeated identifier only emits an EqualValueTest for the second
	// occurrence; the first position and the tuple's own fetches sit
	// alongside it under an And, so search the whole tree for it.
	found := false
	walkAnd(out[0].Pattern, func(p pattern.Pattern) {
		if p.Kind() == pattern.KEqualValueTest {
			found = true
		}
	})
	if !found {
		t.Fatalf("expected (x, x) to lower to an EqualValueTest re-checking x, got kind %v", out[0].Pattern.Kind())
	}
}

func walkAnd(p pattern.Pattern, visit func(pattern.Pattern)) {
	visit(p)
	if subs, ok := pattern.AsAnd(p); ok {
		for _, sub := range subs {
			walkAnd(sub, visit)
		}
	}
}

func TestBindRewritesBoundIdentifierInResultToTempRef(t *testing.T) {
	b := binder.New(fakeOracle{}, &diagnostics.Bag{})
	arms := []*ast.MatchArm{
		{
			Tok:     tok(1),
			Pattern: &ast.IdentifierPattern{Tok: tok(1), Name: "v"},
			Result:  &ast.Identifier{Name: "v"},
		},
	}
	out, err := b.BindArms("t0", arms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref, ok := out[0].Result.(*ast.TempRef)
	if !ok {
		t.Fatalf("expected Result to be rewritten to *ast.TempRef, got %T", out[0].Result)
	}
	if ref.Temp != "t0" {
		t.Fatalf("expected TempRef to name the bound temp t0, got %q", ref.Temp)
	}
}

func TestBindGuardRewritesBoundIdentifierToTempRef(t *testing.T) {
	b := binder.New(fakeOracle{}, &diagnostics.Bag{})
	arms := []*ast.MatchArm{
		{
			Tok:     tok(1),
			Pattern: &ast.IdentifierPattern{Tok: tok(1), Name: "v"},
			Guard:   &ast.Identifier{Name: "v"},
			Result:  &ast.Literal{Value: true},
		},
	}
	out, err := b.BindArms("t0", arms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var foundFetch bool
	walkAnd(out[0].Pattern, func(p pattern.Pattern) {
		if p.Kind() != pattern.KFetchExpression {
			return
		}
		_, expr, _, _, _, _, ok := pattern.AsFetchExpression(p)
		if !ok {
			return
		}
		if ref, ok := expr.(*ast.TempRef); ok && ref.Temp == "t0" {
			foundFetch = true
		}
	})
	if !foundFetch {
		t.Fatalf("expected guard's fetch expression to reference t0 via *ast.TempRef")
	}
}

func TestBindPinPatternRequiresPriorBinding(t *testing.T) {
	b := binder.New(fakeOracle{}, &diagnostics.Bag{})
	arms := []*ast.MatchArm{
		{Tok: tok(1), Pattern: &ast.PinPattern{Tok: tok(1), Name: "undefined"}, Result: &ast.Literal{Value: 1}},
	}
	_, err := b.BindArms("t0", arms)
	if err == nil {
		t.Fatalf("expected an error pinning a name never bound in this arm")
	}
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok || de.Code != diagnostics.ErrUndefinedVariable {
		t.Fatalf("expected ErrUndefinedVariable, got %v", err)
	}
}
