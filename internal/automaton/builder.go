package automaton

import (
	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/pattern"
	"github.com/funvibe/matchc/internal/simplify"
	"github.com/funvibe/matchc/internal/typesystem"
	"github.com/google/uuid"
)

// Builder constructs the reachable decision automaton from an ordered list
// of bound arms, per spec.md §4.3. It memoizes node construction by arm
// list so that "two nodes with equal arm lists are the same node
// (pointer-equal after interning)".
type Builder struct {
	oracle    typesystem.Oracle
	scrutinee ast.Expression
	interned  map[string]*Node
	reached   map[int]bool
	bag       *diagnostics.Bag
}

func NewBuilder(oracle typesystem.Oracle, bag *diagnostics.Bag) *Builder {
	return &Builder{
		oracle:   oracle,
		interned: make(map[string]*Node),
		reached:  make(map[int]bool),
		bag:      bag,
	}
}

// Build constructs the automaton whose root node is seeded with the given
// arms, evaluating scrutinee exactly once (spec.md P8) to produce the value
// every arm's pattern tests against. It returns the entry node; after
// Build returns, every reachable node has Action != ActionNone (spec.md
// §4.3: "processes a worklist... until no node has None action").
//
// Callers use Reached to find arm indices selectAction never chose as a
// success action and report them as unreachable (spec.md P5/S6) — Build
// itself has no arm-token information to attach to a warning.
func (b *Builder) Build(scrutinee ast.Expression, arms []*Arm) *Node {
	b.scrutinee = scrutinee
	entry := b.intern(truncateIrrefutable(arms))

	queue := []*Node{entry}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Action != ActionNone {
			continue
		}
		b.selectAction(n)
		queue = append(queue, n.Successors()...)
	}
	return entry
}

// intern returns the existing node for this arm list if one was already
// constructed, or creates a fresh ActionNone node and registers it.
func (b *Builder) intern(arms []*Arm) *Node {
	key := armsKey(arms)
	if n, ok := b.interned[key]; ok {
		return n
	}
	n := &Node{ID: uuid.New(), Arms: arms}
	b.interned[key] = n
	return n
}

// selectAction implements spec.md §4.3's action-selection procedure for a
// single node.
func (b *Builder) selectAction(n *Node) {
	if len(n.Arms) == 0 {
		n.Action = ActionFailure
		n.FailureScrutinee = b.scrutinee
		return
	}

	first := n.Arms[0]
	leaf := leftmostLeaf(first.Pattern)
	if pattern.IsTrue(leaf) {
		n.Action = ActionSuccess
		n.SuccessArm = first
		b.reached[first.Index] = true
		return
	}

	if pattern.IsFetch(leaf.Kind()) {
		n.Action = ActionFetch
		n.FetchPattern = leaf
		n.Next = b.intern(b.rewriteFetch(n.Arms, leaf))
		return
	}

	n.Action = ActionTest
	n.TestPattern = leaf
	n.TrueNext = b.intern(b.rewriteTest(n.Arms, leaf, true))
	n.FalseNext = b.intern(b.rewriteTest(n.Arms, leaf, false))
}

// leftmostLeaf walks to the leftmost leaf of p: And recurses into its first
// subpattern that is not trivially True, Or into subpattern 1; any fetch or
// test leaf is the action (spec.md §4.3). It returns True only when that
// whole leftmost path is trivially True, i.e. the pattern already matches.
func leftmostLeaf(p pattern.Pattern) pattern.Pattern {
	if subs, ok := pattern.AsAnd(p); ok {
		for _, s := range subs {
			if leaf := leftmostLeaf(s); !pattern.IsTrue(leaf) {
				return leaf
			}
		}
		return pattern.True(p.Token())
	}
	if subs, ok := pattern.AsOr(p); ok {
		return leftmostLeaf(subs[0])
	}
	return p
}

// rewriteFetch rewrites every arm with fetch f replaced by True everywhere
// (C5's remove-fetch), dropping arms that become False and truncating the
// list after any arm that becomes irrefutable (spec.md I3).
func (b *Builder) rewriteFetch(arms []*Arm, f pattern.Pattern) []*Arm {
	out := make([]*Arm, 0, len(arms))
	for _, a := range arms {
		np := simplify.RemoveFetch(f, a.Pattern)
		if pattern.IsFalse(np) {
			continue
		}
		out = append(out, &Arm{Index: a.Index, Pattern: np, Bindings: a.Bindings, Result: a.Result})
		if pattern.IsTrue(np) {
			break
		}
	}
	return out
}

// rewriteTest rewrites every arm with test t replaced by True (sense) or
// False (!sense), dropping False arms and truncating after any irrefutable
// arm, per spec.md §4.3's "Successors" / I3.
func (b *Builder) rewriteTest(arms []*Arm, t pattern.Pattern, sense bool) []*Arm {
	out := make([]*Arm, 0, len(arms))
	for _, a := range arms {
		np := simplify.Test(t, sense, a.Pattern, b.oracle)
		if pattern.IsFalse(np) {
			continue
		}
		out = append(out, &Arm{Index: a.Index, Pattern: np, Bindings: a.Bindings, Result: a.Result})
		if pattern.IsTrue(np) {
			break
		}
	}
	return out
}

// truncateIrrefutable enforces spec.md I3 on the arm list the binder hands
// to Build: no arm whose pattern is False, and nothing past the first
// irrefutable arm.
func truncateIrrefutable(arms []*Arm) []*Arm {
	out := make([]*Arm, 0, len(arms))
	for _, a := range arms {
		if pattern.IsFalse(a.Pattern) {
			continue
		}
		out = append(out, a)
		if pattern.IsIrrefutable(a.Pattern) {
			break
		}
	}
	return out
}

// Reached reports whether arm index idx was ever selected as a success
// action during Build — arms never reached are unreachable (spec.md P5).
func (b *Builder) Reached(idx int) bool {
	return b.reached[idx]
}
