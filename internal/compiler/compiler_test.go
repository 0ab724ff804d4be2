package compiler_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/compiler"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/token"
	"github.com/funvibe/matchc/internal/typesystem"
)

func tok(line int) token.Token { return token.Token{File: "t.mx", Line: line} }

type fakeOracle struct{}

func (fakeOracle) ResolveType(expr interface{}, loc fmt.Stringer) (typesystem.Type, error) {
	return typesystem.Any, nil
}
func (fakeOracle) FieldNames(t typesystem.Type) ([]string, bool)       { return nil, false }
func (fakeOracle) FieldType(t typesystem.Type, field string) typesystem.Type { return typesystem.Any }
func (fakeOracle) Subtype(a, b typesystem.Type) bool                  { return typesystem.Equal(a, b) }
func (fakeOracle) Intersect(a, b typesystem.Type) typesystem.Type {
	if typesystem.Equal(a, b) {
		return a
	}
	return nil
}

func twoArms() []*ast.MatchArm {
	return []*ast.MatchArm{
		{
			Tok:     tok(1),
			Pattern: &ast.LiteralPattern{Tok: tok(1), Value: &ast.Literal{Value: 1}},
			Result:  &ast.Literal{Value: "one"},
		},
		{
			Tok:     tok(2),
			Pattern: &ast.WildcardPattern{Tok: tok(2)},
			Result:  &ast.Literal{Value: "other"},
		},
	}
}

func TestCompileMatchEmitsTwoArmFunction(t *testing.T) {
	out, err := compiler.CompileMatch(fakeOracle{}, "matchcCompiled0", "any",
		&ast.Identifier{Name: "scrutinee"}, twoArms())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.Source, "func matchcCompiled0() any") {
		t.Fatalf("expected the generated function signature, got:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "matchcEqual(t0, 1)") {
		t.Fatalf("expected a test against the literal arm, got:\n%s", out.Source)
	}
}

func TestCompileMatchWarnsOnUnreachableArm(t *testing.T) {
	arms := []*ast.MatchArm{
		{Tok: tok(1), Pattern: &ast.WildcardPattern{Tok: tok(1)}, Result: &ast.Literal{Value: "a"}},
		{Tok: tok(2), Pattern: &ast.LiteralPattern{Tok: tok(2), Value: &ast.Literal{Value: 1}}, Result: &ast.Literal{Value: "b"}},
	}
	out, err := compiler.CompileMatch(fakeOracle{}, "matchcCompiled0", "any",
		&ast.Identifier{Name: "scrutinee"}, arms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Warnings) != 1 || out.Warnings[0].Code != diagnostics.WarnUnreachableArm {
		t.Fatalf("expected one WarnUnreachableArm, got %v", out.Warnings)
	}
}

func TestCompileIsMatchReturnsBool(t *testing.T) {
	out, err := compiler.CompileIsMatch(fakeOracle{}, "matchcIsMatch0",
		&ast.Identifier{Name: "scrutinee"}, &ast.LiteralPattern{Tok: tok(1), Value: &ast.Literal{Value: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.Source, "func matchcIsMatch0() bool") {
		t.Fatalf("expected a bool-returning function, got:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "matchcResult = false") {
		t.Fatalf("expected the no-match path to return false rather than panic, got:\n%s", out.Source)
	}
}

func TestCompileMatchReferenceRendersArmByArm(t *testing.T) {
	out, err := compiler.CompileMatchReference(fakeOracle{}, "matchcRef0", "any",
		&ast.Identifier{Name: "scrutinee"}, twoArms())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(out.Source, "func() bool {") != 2 {
		t.Fatalf("expected one independent closure per arm, got:\n%s", out.Source)
	}
}
