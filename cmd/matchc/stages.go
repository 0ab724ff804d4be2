package main

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/matchc/internal/compiler"
	"github.com/funvibe/matchc/internal/matchspec"
	"github.com/funvibe/matchc/internal/pipeline"
	"github.com/funvibe/matchc/internal/typesystem"
)

// loadStage decodes the .matchc.yaml file named by the context's FilePath.
type loadStage struct{}

func (loadStage) Process(ctx *pipeline.Context) *pipeline.Context {
	doc, err := matchspec.Load(ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Doc = doc
	return ctx
}

// compileStage runs every declared match expression in the loaded document
// through internal/compiler, one compile_match call per match expression
// (each call still single-threaded internally), fanning out across match
// expressions with an errgroup.Group the way a build tool would split work
// across independent compilation units.
type compileStage struct {
	oracle typesystem.Oracle
}

func (s compileStage) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Doc == nil {
		return ctx
	}

	results := make([]*compiler.Output, len(ctx.Doc.Matches))
	var g errgroup.Group
	for i, m := range ctx.Doc.Matches {
		i, m := i, m
		g.Go(func() error {
			var out *compiler.Output
			var err error
			if m.BoolMode {
				if len(m.Arms) != 1 {
					return fmt.Errorf("match %q: bool_mode requires exactly one arm", m.FuncName)
				}
				out, err = compiler.CompileIsMatch(s.oracle, m.FuncName, m.Scrutinee, m.Arms[0].Pattern)
			} else {
				out, err = compiler.CompileMatch(s.oracle, m.FuncName, m.ResultType, m.Scrutinee, m.Arms)
			}
			if err != nil {
				return fmt.Errorf("match %q: %w", m.FuncName, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Results = results
	return ctx
}
