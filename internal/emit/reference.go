package emit

import (
	"fmt"
	"strings"

	"github.com/funvibe/matchc/internal/automaton"
	"github.com/funvibe/matchc/internal/pattern"
)

// Reference renders compile_match_reference (spec.md §6): the brute-force
// oracle used to cross-check the deduplicating compiler (P1). It walks
// each arm's bound pattern independently, arm by arm, with no automaton
// and no node sharing — grounded on the teacher's
// internal/evaluator/expressions_control.go's evalMatchExpression, which
// likewise tries each arm in turn against the live scrutinee value rather
// than building any shared decision structure.
func Reference(arms []*automaton.Arm, scrutineeRef string, opts Options) *Result {
	resultType := opts.ResultType
	if opts.BoolMode {
		resultType = "bool"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "func %s() %s {\n", opts.FuncName, resultType)
	fmt.Fprintf(&b, "\tvar matchcResult %s\n", resultType)
	fmt.Fprintf(&b, "\t%s\n", opts.ScrutineeDecl)

	for _, arm := range arms {
		fmt.Fprintf(&b, "\tif func() bool {\n")
		for _, line := range renderSequential(arm.Pattern) {
			fmt.Fprintf(&b, "\t\t%s\n", line)
		}
		b.WriteString("\t\treturn true\n")
		b.WriteString("\t}() {\n")
		for _, entry := range arm.Bindings.Entries() {
			fmt.Fprintf(&b, "\t\t_ = %s // binds pattern variable %s\n", entry.Temp, entry.Name)
		}
		if opts.BoolMode {
			b.WriteString("\t\tmatchcResult = true\n")
		} else {
			fmt.Fprintf(&b, "\t\tmatchcResult = %s\n", RenderExpr(arm.Result))
		}
		b.WriteString("\t\treturn matchcResult\n")
		b.WriteString("\t}\n")
	}

	if opts.BoolMode {
		b.WriteString("\treturn false\n")
	} else {
		fmt.Fprintf(&b, "\tpanic(matchcFailure{Scrutinee: %s})\n", scrutineeRef)
	}
	b.WriteString("}\n")

	return &Result{Source: b.String()}
}

// renderSequential walks one arm's bound pattern tree, producing Go
// statements that `return false` as soon as any conjunct fails: a fetch
// leaf always succeeds (just an assignment), a test leaf guards with
// `if !(...) { return false }`, And sequences its subs, and Or tries its
// left branch and falls back to its right inside a nested closure so
// each branch's fetch temporaries live in their own scope.
func renderSequential(p pattern.Pattern) []string {
	switch {
	case pattern.IsTrue(p):
		return nil
	case pattern.IsFalse(p):
		return []string{"return false"}
	}
	if subs, ok := pattern.AsAnd(p); ok {
		var out []string
		for _, s := range subs {
			out = append(out, renderSequential(s)...)
		}
		return out
	}
	if subs, ok := pattern.AsOr(p); ok {
		var out []string
		out = append(out, "if !func() bool {")
		for _, line := range renderOrBranch(subs[0]) {
			out = append(out, "\t"+line)
		}
		out = append(out, "}() {")
		out = append(out, "\tif !func() bool {")
		for _, line := range renderOrBranch(subs[1]) {
			out = append(out, "\t\t"+line)
		}
		out = append(out, "\t}() {")
		out = append(out, "\t\treturn false")
		out = append(out, "\t}")
		out = append(out, "}")
		return out
	}
	if pattern.IsFetch(p.Kind()) {
		return []string{renderFetch(p)}
	}
	return []string{fmt.Sprintf("if !(%s) { return false }", renderTest(p))}
}

func renderOrBranch(p pattern.Pattern) []string {
	return append(renderSequential(p), "return true")
}
