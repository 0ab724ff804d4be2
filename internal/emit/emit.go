package emit

import (
	"fmt"
	"strings"

	"github.com/funvibe/matchc/internal/automaton"
	"github.com/funvibe/matchc/internal/diagnostics"
)

// Result is everything Emit produces for one compiled match expression.
type Result struct {
	Source   string
	Warnings []*diagnostics.Warning
}

// Options configures the shape of the emitted function (spec.md §6's three
// entry points differ only in this, not in the DAG they walk).
type Options struct {
	FuncName   string // e.g. "matchcCompiled0"
	ResultType string // host type of the arms' result expressions; "any" if unknown
	ScrutineeDecl string // e.g. "t0 := scrutinee" — the one-time scrutinee evaluation (spec.md P8)
	// BoolMode, when true, emits compile_is_match's shape: every success arm
	// returns true and the failure node returns false, instead of evaluating
	// arm results.
	BoolMode bool
}

// Emit walks the minimized automaton root in depth-first order (spec.md
// §4.6), placing each node exactly once, and returns the Go function body
// implementing it. It is the direct descendant of
// internal/vm/compiler_expressions.go's compileMatchExpression, except it
// emits text instead of bytecode, and walks a shared DAG instead of a tree
// so a node with multiple predecessors is emitted once and jumped to.
func Emit(root *automaton.Node, opts Options) *Result {
	e := &emitter{opts: opts, assigned: make(map[*automaton.Node]string)}
	order := e.walkOrder(root)

	var body []string
	body = append(body, opts.ScrutineeDecl)

	for i, n := range order {
		if label, ok := e.labelIfAssigned(n); ok {
			body = append(body, label+":")
		}
		body = append(body, e.emitNode(n, i, order)...)
	}

	body = append(body, "matchcDone:")
	body = append(body, "return matchcResult")

	return &Result{Source: e.render(body), Warnings: e.warnings}
}

type emitter struct {
	opts     Options
	assigned map[*automaton.Node]string
	counter  int
	warnings []*diagnostics.Warning
}

// walkOrder produces a depth-first, each-node-once traversal of the
// minimized DAG, fetch/true-branch first so that the common case (the
// chain of tests and fetches a single arm needs) is emitted as straight
// falling-through code, matching spec.md §4.6 rule 2.
func (e *emitter) walkOrder(root *automaton.Node) []*automaton.Node {
	seen := make(map[*automaton.Node]bool)
	var order []*automaton.Node
	var walk func(n *automaton.Node)
	walk = func(n *automaton.Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		order = append(order, n)
		switch n.Action {
		case automaton.ActionFetch:
			walk(n.Next)
		case automaton.ActionTest:
			walk(n.TrueNext)
			walk(n.FalseNext)
		}
	}
	walk(root)
	return order
}

// labelIfAssigned returns the node's label if one has already been handed
// out (by the minimizer, for a shared node, or lazily by labelFor below),
// so the caller can print a label line before the node's statements.
func (e *emitter) labelIfAssigned(n *automaton.Node) (string, bool) {
	if l, ok := e.assigned[n]; ok {
		return l, true
	}
	if n.Label != "" {
		e.assigned[n] = n.Label
		return n.Label, true
	}
	return "", false
}

// labelFor returns n's label, assigning a fresh one on first use. Called
// only when a jump (not a fall-through) targets n — spec.md §4.6's "emit a
// label only where fall-through is impossible".
func (e *emitter) labelFor(n *automaton.Node) string {
	if l, ok := e.assigned[n]; ok {
		return l
	}
	label := n.Label
	if label == "" {
		label = fmt.Sprintf("matchcL%d", e.counter)
		e.counter++
	}
	e.assigned[n] = label
	return label
}

// fallsThroughTo reports whether n is emitted immediately after position i
// in order, i.e. reaching n needs no goto.
func (e *emitter) fallsThroughTo(i int, order []*automaton.Node, n *automaton.Node) bool {
	return i+1 < len(order) && order[i+1] == n
}

func (e *emitter) emitNode(n *automaton.Node, i int, order []*automaton.Node) []string {
	switch n.Action {
	case automaton.ActionSuccess:
		return e.emitSuccess(n)
	case automaton.ActionFetch:
		return e.emitFetch(n, i, order)
	case automaton.ActionTest:
		return e.emitTest(n, i, order)
	case automaton.ActionFailure:
		return e.emitFailure(n)
	default:
		return []string{fmt.Sprintf("panic(%q) // unreachable: ActionNone survived minimization", "matchc: internal error")}
	}
}

func (e *emitter) emitSuccess(n *automaton.Node) []string {
	arm := n.SuccessArm
	var lines []string
	for _, entry := range arm.Bindings.Entries() {
		lines = append(lines, fmt.Sprintf("_ = %s // binds pattern variable %s", entry.Temp, entry.Name))
	}
	if e.opts.BoolMode {
		lines = append(lines, "matchcResult = true")
	} else {
		lines = append(lines, fmt.Sprintf("matchcResult = %s", RenderExpr(arm.Result)))
	}
	lines = append(lines, "goto matchcDone")
	return lines
}

func (e *emitter) emitFetch(n *automaton.Node, i int, order []*automaton.Node) []string {
	lines := []string{renderFetch(n.FetchPattern)}
	if !e.fallsThroughTo(i, order, n.Next) {
		lines = append(lines, fmt.Sprintf("goto %s", e.labelFor(n.Next)))
	}
	return lines
}

func (e *emitter) emitTest(n *automaton.Node, i int, order []*automaton.Node) []string {
	cond := renderTest(n.TestPattern)
	falseFallsThrough := e.fallsThroughTo(i, order, n.FalseNext)
	trueFallsThrough := e.fallsThroughTo(i, order, n.TrueNext)

	var lines []string
	switch {
	case trueFallsThrough:
		lines = append(lines, fmt.Sprintf("if !(%s) { goto %s }", cond, e.labelFor(n.FalseNext)))
	case falseFallsThrough:
		lines = append(lines, fmt.Sprintf("if %s { goto %s }", cond, e.labelFor(n.TrueNext)))
	default:
		lines = append(lines, fmt.Sprintf("if %s { goto %s }", cond, e.labelFor(n.TrueNext)))
		lines = append(lines, fmt.Sprintf("goto %s", e.labelFor(n.FalseNext)))
	}
	return lines
}

func (e *emitter) emitFailure(n *automaton.Node) []string {
	if e.opts.BoolMode {
		return []string{"matchcResult = false", "goto matchcDone"}
	}
	return []string{fmt.Sprintf("panic(matchcFailure{Scrutinee: %s})", RenderExpr(n.FailureScrutinee))}
}

func (e *emitter) render(body []string) string {
	resultType := e.opts.ResultType
	if e.opts.BoolMode {
		resultType = "bool"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "func %s() %s {\n", e.opts.FuncName, resultType)
	fmt.Fprintf(&b, "\tvar matchcResult %s\n", resultType)
	for _, line := range body {
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			b.WriteString(line)
			b.WriteString("\n")
			continue
		}
		b.WriteString("\t")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}
