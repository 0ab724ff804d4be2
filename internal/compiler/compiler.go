// Package compiler wires together C1-C7 (internal/binder through
// internal/emit) behind spec.md §6's four public entry points:
// compile_match, compile_is_match, compile_assignment, plus the brute-force
// compile_match_reference used for the P1 cross-check (see reference.go).
// There is no single teacher file that plays this role since the teacher
// never separates "build a shared decision graph" from "emit code for it" —
// internal/vm/compiler_expressions.go's compileMatchExpression does both in
// one pass per arm. This package is the seam the teacher's design doesn't
// have.
package compiler

import (
	"fmt"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/automaton"
	"github.com/funvibe/matchc/internal/binder"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/emit"
	"github.com/funvibe/matchc/internal/minimize"
	"github.com/funvibe/matchc/internal/pattern"
	"github.com/funvibe/matchc/internal/typesystem"
)

// scrutineeTemp is the one dedicated input temporary every compilation
// binds the scrutinee to (spec.md §4.1, P8: evaluated exactly once).
const scrutineeTemp pattern.Temp = "t0"

// Output is what every entry point below returns: the emitted Go source
// for one function, plus any warnings accumulated along the way
// (currently only WarnUnreachableArm).
type Output struct {
	Source   string
	Warnings []*diagnostics.Warning
}

// compile runs the shared C2-C7 pipeline: bind arms against the oracle,
// build the automaton, minimize it, and emit Go source for it.
func compile(oracle typesystem.Oracle, scrutinee ast.Expression, arms []*ast.MatchArm, opts emit.Options) (*Output, error) {
	bag := &diagnostics.Bag{}

	b := binder.New(oracle, bag)
	boundArms, err := b.BindArms(scrutineeTemp, arms)
	if err != nil {
		return nil, err
	}

	bu := automaton.NewBuilder(oracle, bag)
	root := bu.Build(scrutinee, boundArms)

	for i, arm := range arms {
		if !bu.Reached(i) {
			bag.Warn(diagnostics.NewWarning(diagnostics.WarnUnreachableArm, arm.Tok,
				"arm %d is unreachable: an earlier arm already matches everything this one does", i))
		}
	}

	min := minimize.Minimize(root)

	opts.ScrutineeDecl = fmt.Sprintf("%s := %s", scrutineeTemp, emit.RenderExpr(scrutinee))
	result := emit.Emit(min, opts)
	warnings := append(append([]*diagnostics.Warning{}, bag.Warnings...), result.Warnings...)

	return &Output{Source: result.Source, Warnings: warnings}, nil
}

// CompileMatch implements spec.md §6's compile_match: the production,
// deduplicating compiler for a `match scrutinee { arm, ... }` expression
// that evaluates to the chosen arm's result.
func CompileMatch(oracle typesystem.Oracle, funcName, resultType string, scrutinee ast.Expression, arms []*ast.MatchArm) (*Output, error) {
	return compile(oracle, scrutinee, arms, emit.Options{FuncName: funcName, ResultType: resultType})
}

// CompileIsMatch implements spec.md §6's compile_is_match: a single
// pattern (not an arms block) compiled to a boolean-returning function.
// It reuses CompileMatch's pipeline with one synthetic arm (pattern =>
// true); BoolMode turns the automaton's ordinary no-match failure node
// into a plain `false` return instead of a MatchFailure panic, so no
// second wildcard arm is needed to cover the non-matching case.
func CompileIsMatch(oracle typesystem.Oracle, funcName string, scrutinee ast.Expression, pat ast.Pattern) (*Output, error) {
	arms := []*ast.MatchArm{
		{Tok: pat.GetToken(), Pattern: pat, Result: &ast.Literal{Value: true}},
	}
	return compile(oracle, scrutinee, arms, emit.Options{FuncName: funcName, ResultType: "bool", BoolMode: true})
}

// CompileAssignment implements spec.md §6's compile_assignment: the unary
// form that binds pat's variables against value or raises a match failure
// — the same single-arm automaton as CompileIsMatch, but in value mode so
// a non-match falls through to emitFailure's panic instead of returning
// false. The result expression is the value itself (a successful
// assignment "succeeds with the value").
func CompileAssignment(oracle typesystem.Oracle, funcName, resultType string, value ast.Expression, pat ast.Pattern) (*Output, error) {
	arms := []*ast.MatchArm{
		{Tok: pat.GetToken(), Pattern: pat, Result: &ast.TempRef{Temp: string(scrutineeTemp)}},
	}
	return compile(oracle, value, arms, emit.Options{FuncName: funcName, ResultType: resultType})
}
