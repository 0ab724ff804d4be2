// Package pipeline sequences cmd/matchc's per-file work (load the match
// spec, compile every declared match expression) the same way the teacher
// strings its load/parse/analyze stages together: each stage receives and
// returns the same context, so a later stage can see an earlier stage's
// errors without them being fatal to the run.
package pipeline

import (
	"github.com/funvibe/matchc/internal/compiler"
	"github.com/funvibe/matchc/internal/matchspec"
)

// Context carries one source file's state through the pipeline.
type Context struct {
	FilePath string
	Doc      *matchspec.Document
	Results  []*compiler.Output
	Errors   []error
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs a fixed sequence of stages over a Context.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, continuing even after a stage reports
// errors so later stages (and the caller) see the full picture.
func (p *Pipeline) Run(initial *Context) *Context {
	ctx := initial
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
