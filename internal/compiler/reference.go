package compiler

import (
	"fmt"

	"github.com/funvibe/matchc/internal/ast"
	"github.com/funvibe/matchc/internal/binder"
	"github.com/funvibe/matchc/internal/diagnostics"
	"github.com/funvibe/matchc/internal/emit"
	"github.com/funvibe/matchc/internal/typesystem"
)

// CompileMatchReference implements spec.md §6's compile_match_reference:
// the brute-force oracle (arm-by-arm if/else), a reference for P1
// (semantic equivalence) against CompileMatch's deduplicating output. It
// shares the binder stage with CompileMatch — the same bound-pattern
// algebra is the ground truth both compilers render from — but renders
// arm by arm via emit.Reference instead of building and minimizing an
// automaton.
func CompileMatchReference(oracle typesystem.Oracle, funcName, resultType string, scrutinee ast.Expression, arms []*ast.MatchArm) (*Output, error) {
	bag := &diagnostics.Bag{}

	b := binder.New(oracle, bag)
	boundArms, err := b.BindArms(scrutineeTemp, arms)
	if err != nil {
		return nil, err
	}

	opts := emit.Options{FuncName: funcName, ResultType: resultType}
	opts.ScrutineeDecl = fmt.Sprintf("%s := %s", scrutineeTemp, emit.RenderExpr(scrutinee))
	result := emit.Reference(boundArms, string(scrutineeTemp), opts)

	return &Output{Source: result.Source, Warnings: append([]*diagnostics.Warning{}, bag.Warnings...)}, nil
}
