// Package emit is C7 of spec.md §2: lays out the minimized automaton as
// straight-line code with labeled jumps, inserting labels only where
// fall-through is impossible. Grounded on two teacher files: the shape of
// the jumps/labels comes from internal/vm/compiler_expressions.go's
// compileMatchExpression (emitJump/patchJump around OP_JUMP_IF_FALSE), and
// the "produce Go source as text" approach comes from internal/ext/codegen.go's
// CodeGenerator, which renders Go source with text/template instead of
// building go/ast nodes by hand.
package emit

import (
	"fmt"
	"strings"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/pattern"
)

// RenderExpr renders a host ast.Expression as Go source text. The core
// never evaluates these expressions, only reproduces them verbatim (with
// pattern-variable references already rewritten to temporaries by the
// binder) in the emitted function body.
func RenderExpr(e ast.Expression) string {
	switch v := e.(type) {
	case nil:
		return "nil"
	case *ast.Identifier:
		return v.Name
	case *ast.Literal:
		return renderLiteral(v.Value)
	case *ast.TempRef:
		return string(v.Temp)
	case *ast.Call:
		return renderCall(v)
	case *ast.TupleExpr:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			parts[i] = RenderExpr(el)
		}
		return fmt.Sprintf("matchcTuple(%s)", strings.Join(parts, ", "))
	case *ast.SequenceExpr:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			parts[i] = RenderExpr(el)
		}
		return fmt.Sprintf("[]any{%s}", strings.Join(parts, ", "))
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", RenderExpr(v.Left), renderBinOp(v.Op), RenderExpr(v.Right))
	case *ast.UnaryNotExpr:
		return fmt.Sprintf("!(%s)", RenderExpr(v.Operand))
	case *ast.Interpolation:
		return RenderExpr(v.Expr)
	case *ast.MatchFail:
		return "goto matchcNextArm"
	case *ast.MatchReturn:
		return fmt.Sprintf("goto matchcDone /* value: %s */", RenderExpr(v.Value))
	default:
		return fmt.Sprintf("/* unrenderable expression %T */", e)
	}
}

func renderBinOp(op string) string {
	switch op {
	case "&&", "&":
		return "&&"
	case "||", "|":
		return "||"
	default:
		return op
	}
}

func renderLiteral(v interface{}) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case bool, int, int64, float64:
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%#v", val)
	}
}

func renderCall(c *ast.Call) string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		if a.Name != "" {
			parts[i] = fmt.Sprintf("%s: %s", a.Name, RenderExpr(a.Value))
		} else {
			parts[i] = RenderExpr(a.Value)
		}
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}

// renderFetch renders a fetch pattern's Go assignment statement (spec.md
// §4.6 rule 4: "emit the fetch's assignment statement").
func renderFetch(p pattern.Pattern) string {
	switch p.Kind() {
	case pattern.KFetchField:
		input, field, _, result, _ := pattern.AsFetchField(p)
		return fmt.Sprintf("%s := %s.%s", result, input, field)
	case pattern.KFetchIndex:
		input, index, _, result, _ := pattern.AsFetchIndex(p)
		if index < 0 {
			return fmt.Sprintf("%s := matchcIndexFromEnd(%s, %d)", result, input, -index)
		}
		return fmt.Sprintf("%s := %s[%d]", result, input, index-1)
	case pattern.KFetchRange:
		input, first, fromEnd, _, result, _ := pattern.AsFetchRange(p)
		if fromEnd {
			return fmt.Sprintf("%s := matchcSliceFromEnd(%s, %d)", result, input, first)
		}
		return fmt.Sprintf("%s := %s[%d:]", result, input, first-1)
	case pattern.KFetchLength:
		input, _, result, _ := pattern.AsFetchLength(p)
		return fmt.Sprintf("%s := matchcLen(%s)", result, input)
	case pattern.KFetchExpression:
		input, expr, _, _, _, result, _ := pattern.AsFetchExpression(p)
		_ = input
		return fmt.Sprintf("%s := %s", result, RenderExpr(expr))
	default:
		return fmt.Sprintf("/* unrenderable fetch %v */", p.Kind())
	}
}

// renderTest renders a test pattern as a Go boolean expression (spec.md
// §4.6 rule 5: "if not <test>: goto <false-successor-label>").
func renderTest(p pattern.Pattern) string {
	switch p.Kind() {
	case pattern.KEqualValueTest:
		input, value, _, _ := pattern.AsEqualValueTest(p)
		return fmt.Sprintf("matchcEqual(%s, %s)", input, RenderExpr(value))
	case pattern.KTypeTest:
		input, typ, _ := pattern.AsTypeTest(p)
		return fmt.Sprintf("matchcIsType[%s](%s)", typ.String(), input)
	case pattern.KRelationalTest:
		input, op, value, _ := pattern.AsRelationalTest(p)
		return fmt.Sprintf("%s %s %d", input, op.String(), value)
	case pattern.KWhereTest:
		t, inverted, _ := pattern.AsWhereTest(p)
		if inverted {
			return fmt.Sprintf("!%s", t)
		}
		return string(t)
	default:
		return fmt.Sprintf("/* unrenderable test %v */", p.Kind())
	}
}
