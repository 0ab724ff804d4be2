package matchspec_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/matchspec"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "status.matchc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadSimpleLiteralAndWildcardArms(t *testing.T) {
	path := write(t, `
package: generated
matches:
  - func: matchcStatus
    result_type: string
    scrutinee: {kind: ident, name: status}
    arms:
      - pattern: {kind: literal, value: {kind: literal, value: 200}}
        result: {kind: literal, value: ok}
      - pattern: {kind: wildcard}
        result: {kind: literal, value: error}
`)

	doc, err := matchspec.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Package != "generated" {
		t.Fatalf("package = %q, want generated", doc.Package)
	}
	if len(doc.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(doc.Matches))
	}

	m := doc.Matches[0]
	if m.FuncName != "matchcStatus" || m.ResultType != "string" {
		t.Fatalf("unexpected match header: %+v", m)
	}
	if _, ok := m.Scrutinee.(*ast.Identifier); !ok {
		t.Fatalf("scrutinee = %T, want *ast.Identifier", m.Scrutinee)
	}
	if len(m.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(m.Arms))
	}
	if _, ok := m.Arms[1].Pattern.(*ast.WildcardPattern); !ok {
		t.Fatalf("arm 1 pattern = %T, want *ast.WildcardPattern", m.Arms[1].Pattern)
	}
}

func TestLoadConstructorPatternWithNamedArgs(t *testing.T) {
	path := write(t, `
matches:
  - func: matchcPoint
    result_type: int
    scrutinee: {kind: ident, name: p}
    arms:
      - pattern:
          kind: ctor
          name: Point
          args:
            - name: x
              pattern: {kind: ident, name: x}
            - name: y
              pattern: {kind: wildcard}
        result: {kind: ident, name: x}
`)

	doc, err := matchspec.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctor, ok := doc.Matches[0].Arms[0].Pattern.(*ast.ConstructorPattern)
	if !ok {
		t.Fatalf("pattern = %T, want *ast.ConstructorPattern", doc.Matches[0].Arms[0].Pattern)
	}
	if ctor.Name != "Point" || len(ctor.Args) != 2 {
		t.Fatalf("unexpected constructor pattern: %+v", ctor)
	}
	if ctor.Args[0].Name != "x" {
		t.Fatalf("arg 0 name = %q, want x", ctor.Args[0].Name)
	}
}

func TestLoadGuardedArmWithBinaryExpr(t *testing.T) {
	path := write(t, `
matches:
  - func: matchcGuarded
    result_type: bool
    scrutinee: {kind: ident, name: n}
    arms:
      - pattern: {kind: ident, name: v}
        guard:
          kind: binary
          op: "&&"
          left: {kind: ident, name: v}
          right: {kind: ident, name: v}
        result: {kind: literal, value: true}
`)

	doc, err := matchspec.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	guard, ok := doc.Matches[0].Arms[0].Guard.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("guard = %T, want *ast.BinaryExpr", doc.Matches[0].Arms[0].Guard)
	}
	if guard.Op != "&&" {
		t.Fatalf("op = %q, want &&", guard.Op)
	}
}

func TestLoadUnknownPatternKindErrors(t *testing.T) {
	path := write(t, `
matches:
  - func: matchcBad
    result_type: string
    scrutinee: {kind: ident, name: x}
    arms:
      - pattern: {kind: bogus}
        result: {kind: literal, value: x}
`)
	if _, err := matchspec.Load(path); err == nil {
		t.Fatalf("expected an error for an unknown pattern kind")
	}
}
