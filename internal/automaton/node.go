// Package automaton is C3 (automaton node) and C4 (automaton builder) of
// spec.md §2. There is no teacher equivalent of the node/builder shape
// itself — funxy's vm.compileMatchExpression (internal/vm/compiler_expressions.go)
// compiles match arms straight to bytecode, arm by arm, with no
// intermediate shared graph — but its emitJump/patchJump/OP_JUMP_IF_FALSE
// structure is exactly the shape C7's emitter later walks (see
// internal/emit), so this package builds the graph that the teacher's
// compiler would have built if it deduplicated.
package automaton

import (
	"fmt"
	"hash/fnv"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/pattern"
	"github.com/google/uuid"
)

// Arm is spec.md §3's "Partial arm result": (arm-index, bound-pattern,
// variable-bindings, result-expression). Equality is by arm-index, the
// bound pattern, and the bindings; the hash is cached.
type Arm struct {
	Index    int
	Pattern  pattern.Pattern
	Bindings pattern.Bindings
	Guard    ast.Expression // already folded into Pattern as a WhereTest; kept for diagnostics
	Result   ast.Expression

	hashOnce bool
	hashVal  uint64
}

func NewArm(index int, p pattern.Pattern, b pattern.Bindings, result ast.Expression) *Arm {
	return &Arm{Index: index, Pattern: p, Bindings: b, Result: result}
}

func (a *Arm) Equal(o *Arm) bool {
	return a.Index == o.Index && a.Pattern.Equal(o.Pattern) && a.Bindings.Equal(o.Bindings)
}

func (a *Arm) Hash() uint64 {
	if !a.hashOnce {
		h := fnv.New64a()
		fmt.Fprintf(h, "%d:%d:%d", a.Index, a.Pattern.Hash(), a.Bindings.Hash())
		a.hashVal = h.Sum64()
		a.hashOnce = true
	}
	return a.hashVal
}

// ActionKind tags the chosen next action of a Node (spec.md I2).
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSuccess
	ActionFetch
	ActionTest
	ActionFailure
)

// Node is an automaton node: the surviving partial arms in priority order,
// plus (once selectAction has run) a chosen action and its successors.
// Identity during construction is by the arm list (interned by Builder);
// see internal/minimize for the post-construction (action, successors)
// identity used by C6.
type Node struct {
	ID   uuid.UUID // debug id; plays no role in interning
	Arms []*Arm

	Action ActionKind

	// valid when Action == ActionSuccess
	SuccessArm *Arm

	// valid when Action == ActionFetch
	FetchPattern pattern.Pattern
	Next         *Node

	// valid when Action == ActionTest
	TestPattern pattern.Pattern
	TrueNext    *Node
	FalseNext   *Node

	// valid when Action == ActionFailure
	FailureScrutinee ast.Expression

	// Label is set by the minimizer when a node is reached by ≥2 distinct
	// predecessors (spec.md I4); the emitter uses it to decide whether a
	// goto is needed.
	Label string
}

// Successors returns the node's 0/1/2 successor nodes, in evaluation
// order, skipping nils.
func (n *Node) Successors() []*Node {
	switch n.Action {
	case ActionFetch:
		if n.Next != nil {
			return []*Node{n.Next}
		}
	case ActionTest:
		var out []*Node
		if n.TrueNext != nil {
			out = append(out, n.TrueNext)
		}
		if n.FalseNext != nil {
			out = append(out, n.FalseNext)
		}
		return out
	}
	return nil
}

// armsKey is the construction-time interning key for a node: the ordered
// list of (arm-index, pattern-hash, bindings-hash) triples (spec.md I3:
// "Arm lists are always sorted by original arm-index ascending").
func armsKey(arms []*Arm) string {
	h := fnv.New64a()
	for _, a := range arms {
		fmt.Fprintf(h, "%d:%d;", a.Index, a.Hash())
	}
	return string(h.Sum(nil))
}
