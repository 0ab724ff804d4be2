package emit_test

import (
	"strings"
	"testing"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/automaton"
	"github.com/funvibe/matchc/internal/emit"
	"github.com/funvibe/matchc/internal/pattern"
	"github.com/funvibe/matchc/internal/token"
)

func tok(line int) token.Token { return token.Token{File: "t.mx", Line: line} }

// TestEmitSimpleTwoWayTest builds a two-node automaton by hand (one test,
// a success, and a failure) and checks the emitted source contains the
// expected control flow: a conditional goto to the failure path and a
// straight-line fall-through to the success assignment.
func TestEmitSimpleTwoWayTest(t *testing.T) {
	successArm := automaton.NewArm(0, pattern.True(tok(1)), pattern.NewBindings(), &ast.Literal{Value: "yes"})
	successNode := &automaton.Node{Action: automaton.ActionSuccess, SuccessArm: successArm}
	failureNode := &automaton.Node{Action: automaton.ActionFailure, FailureScrutinee: &ast.Identifier{Name: "scrutinee"}}

	testPattern := pattern.EqualValueTest(tok(1), "t0", &ast.Literal{Value: 1}, pattern.NewBindings())
	root := &automaton.Node{
		Action:      automaton.ActionTest,
		TestPattern: testPattern,
		TrueNext:    successNode,
		FalseNext:   failureNode,
	}

	result := emit.Emit(root, emit.Options{
		FuncName:      "matchcCompiled0",
		ResultType:    "any",
		ScrutineeDecl: "t0 := scrutinee",
	})

	src := result.Source
	if !strings.Contains(src, "t0 := scrutinee") {
		t.Fatalf("expected scrutinee assignment in emitted source, got:\n%s", src)
	}
	if !strings.Contains(src, "matchcEqual(t0, 1)") {
		t.Fatalf("expected a call to matchcEqual for the test, got:\n%s", src)
	}
	if !strings.Contains(src, "goto matchcDone") {
		t.Fatalf("expected a goto to the completion label, got:\n%s", src)
	}
	if !strings.Contains(src, "panic(matchcFailure{") {
		t.Fatalf("expected the failure node to panic with matchcFailure, got:\n%s", src)
	}
}

func TestFileWrapsPreambleAndPackage(t *testing.T) {
	r := &emit.Result{Source: "func matchcCompiled0() any {\n\treturn nil\n}\n"}
	out := emit.File("mypkg", r)
	if !strings.Contains(out, "package mypkg") {
		t.Fatalf("expected package clause, got:\n%s", out)
	}
	if !strings.Contains(out, "matchcrt") {
		t.Fatalf("expected runtime import alias in preamble, got:\n%s", out)
	}
	if !strings.Contains(out, "matchcCompiled0") {
		t.Fatalf("expected the function body to be included, got:\n%s", out)
	}
}
