// Package minimize is C6 of spec.md §2: bottom-up deduplication of
// behaviorally equivalent automaton nodes. Grounded the same way as
// internal/automaton — there is no teacher file that deduplicates a
// decision graph, so this is built directly from spec.md §4.5's two-line
// description, using arena-style node construction (never copying a tree
// by value) per spec.md §9's "Cyclic or shared references" guidance.
package minimize

import (
	"fmt"

	"github.com/funvibe/matchc/internal/automaton"
	"github.com/google/uuid"
)

type minimizer struct {
	visited  map[*automaton.Node]*automaton.Node
	interned map[string]*automaton.Node
	preds    map[*automaton.Node]int
}

// Minimize performs the bottom-up, post-order merge described in spec.md
// §4.5: successors are deduplicated before a node is interned by
// (action, successors); when interning discovers a prior equal node, the
// prior node is retained and (here, in a follow-up pass) marked as needing
// a label, since a node reached by ≥2 distinct predecessors cannot be
// reached purely by fall-through (spec.md I4).
func Minimize(root *automaton.Node) *automaton.Node {
	m := &minimizer{
		visited:  make(map[*automaton.Node]*automaton.Node),
		interned: make(map[string]*automaton.Node),
		preds:    make(map[*automaton.Node]int),
	}
	out := m.visit(root)
	m.labelSharedNodes(out)
	return out
}

func (m *minimizer) visit(n *automaton.Node) *automaton.Node {
	if mv, ok := m.visited[n]; ok {
		return mv
	}
	var mn *automaton.Node
	switch n.Action {
	case automaton.ActionSuccess:
		mn = m.intern(&automaton.Node{
			ID:         uuid.New(),
			Action:     automaton.ActionSuccess,
			SuccessArm: n.SuccessArm,
		})
	case automaton.ActionFailure:
		mn = m.intern(&automaton.Node{
			ID:               uuid.New(),
			Action:           automaton.ActionFailure,
			FailureScrutinee: n.FailureScrutinee,
		})
	case automaton.ActionFetch:
		next := m.visit(n.Next)
		mn = m.intern(&automaton.Node{
			ID:           uuid.New(),
			Action:       automaton.ActionFetch,
			FetchPattern: n.FetchPattern,
			Next:         next,
		})
		m.preds[next]++
	case automaton.ActionTest:
		tnext := m.visit(n.TrueNext)
		fnext := m.visit(n.FalseNext)
		mn = m.intern(&automaton.Node{
			ID:          uuid.New(),
			Action:      automaton.ActionTest,
			TestPattern: n.TestPattern,
			TrueNext:    tnext,
			FalseNext:   fnext,
		})
		m.preds[tnext]++
		m.preds[fnext]++
	default:
		// ActionNone should not survive C4's worklist; treat defensively
		// as a failure node so minimization never panics on malformed input.
		mn = m.intern(&automaton.Node{ID: uuid.New(), Action: automaton.ActionFailure})
	}
	m.visited[n] = mn
	return mn
}

// intern looks up candidate's structural key; on a hit, the earlier node
// is returned (and will accumulate a second predecessor, handled by
// labelSharedNodes), on a miss candidate itself becomes the canonical node.
func (m *minimizer) intern(candidate *automaton.Node) *automaton.Node {
	key := minKey(candidate)
	if existing, ok := m.interned[key]; ok {
		return existing
	}
	m.interned[key] = candidate
	return candidate
}

func minKey(n *automaton.Node) string {
	switch n.Action {
	case automaton.ActionSuccess:
		return fmt.Sprintf("success:%d", n.SuccessArm.Hash())
	case automaton.ActionFailure:
		return "failure"
	case automaton.ActionFetch:
		return fmt.Sprintf("fetch:%d:%p", n.FetchPattern.Hash(), n.Next)
	case automaton.ActionTest:
		return fmt.Sprintf("test:%d:%p:%p", n.TestPattern.Hash(), n.TrueNext, n.FalseNext)
	default:
		return fmt.Sprintf("none:%p", n)
	}
}

// labelSharedNodes walks the already-minimized DAG from root, counting how
// many distinct predecessors point at each node, and stamps a Label on any
// node with ≥2 (spec.md I4). The entry node itself never needs a label: the
// emitter always starts emission there.
func (m *minimizer) labelSharedNodes(root *automaton.Node) *automaton.Node {
	seen := make(map[*automaton.Node]bool)
	order := []*automaton.Node{}
	m.preds = make(map[*automaton.Node]int)
	var walk func(n *automaton.Node)
	walk = func(n *automaton.Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		order = append(order, n)
		for _, s := range n.Successors() {
			m.preds[s]++
			walk(s)
		}
	}
	walk(root)

	label := 0
	for _, n := range order {
		if n == root {
			continue
		}
		if m.preds[n] >= 2 {
			n.Label = fmt.Sprintf("L%d", label)
			label++
		}
	}
	return root
}
