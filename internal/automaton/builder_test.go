package automaton_test

import (
	"testing"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/automaton"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/minimize"
	"github.com/funvibe/matchc/internal/pattern"
	"github.com/funvibe/matchc/internal/token"
)

func tok(line int) token.Token { return token.Token{File: "t.mx", Line: line} }

func lit(v int) pattern.Pattern {
	return pattern.EqualValueTest(tok(1), "t0", &ast.Literal{Value: v}, pattern.NewBindings())
}

// TestBuildThreeArmMatch exercises spec.md §4.3's worklist construction
// over `match t0 { 1 => "a", 2 => "b", _ => "c" }` and checks that it
// terminates with every node reaching an action.
func TestBuildThreeArmMatch(t *testing.T) {
	arms := []*automaton.Arm{
		automaton.NewArm(0, lit(1), pattern.NewBindings(), &ast.Literal{Value: "a"}),
		automaton.NewArm(1, lit(2), pattern.NewBindings(), &ast.Literal{Value: "b"}),
		automaton.NewArm(2, pattern.True(tok(1)), pattern.NewBindings(), &ast.Literal{Value: "c"}),
	}
	b := automaton.NewBuilder(nil, &diagnostics.Bag{})
	root := b.Build(&ast.Identifier{Name: "scrutinee"}, arms)

	if root.Action != automaton.ActionTest {
		t.Fatalf("expected root to be a test node, got %v", root.Action)
	}
	if !b.Reached(0) || !b.Reached(1) || !b.Reached(2) {
		t.Fatalf("all three arms should be reachable: %v %v %v", b.Reached(0), b.Reached(1), b.Reached(2))
	}

	var walk func(n *automaton.Node)
	seen := map[*automaton.Node]bool{}
	walk = func(n *automaton.Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		if n.Action == automaton.ActionNone {
			t.Fatalf("node left with ActionNone after Build")
		}
		for _, s := range n.Successors() {
			walk(s)
		}
	}
	walk(root)
}

// TestMinimizeKeepsFailureBranch checks that a single-literal-arm automaton
// is a test node whose non-matching branch fails, and that minimization
// leaves that false branch a failure node.
func TestMinimizeKeepsFailureBranch(t *testing.T) {
	arms := []*automaton.Arm{
		automaton.NewArm(0, lit(1), pattern.NewBindings(), &ast.Literal{Value: "a"}),
	}
	b := automaton.NewBuilder(nil, &diagnostics.Bag{})
	root := b.Build(&ast.Identifier{Name: "scrutinee"}, arms)
	if root.Action != automaton.ActionTest {
		t.Fatalf("expected a test node for the single-literal-arm case, got %v", root.Action)
	}
	if root.FalseNext.Action != automaton.ActionFailure {
		t.Fatalf("expected the non-matching branch to fail, got %v", root.FalseNext.Action)
	}

	min := minimize.Minimize(root)
	if min.FalseNext.Action != automaton.ActionFailure {
		t.Fatalf("minimized false-branch should still be a failure node")
	}
}
