// Package pipeline runs the compiler stages in sequence, threading a
// shared PipelineContext through each.
package pipeline

import (
	"github.com/goxlang/goxc/internal/ast"
	"github.com/goxlang/goxc/internal/ir"
	"github.com/goxlang/goxc/internal/token"
)

// PipelineContext carries every stage's input and output. Later
// stages read fields an earlier stage populated; a stage appends to
// Errors rather than aborting, so the CLI can report every diagnostic
// gathered before the run stopped (lexer/parser/checker errors are
// still fatal-on-first-occurrence within their own stage, per the
// fail-fast rule — Errors here accumulates at most one entry per
// stage boundary).
type PipelineContext struct {
	Source   string
	FilePath string

	Tokens []token.Token
	AST    *ast.Program
	Module *ir.Module

	Errors []error
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline is an ordered sequence of stages.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline running processors in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage, stopping early once a stage has recorded
// an error (a later stage would only operate on a malformed AST/IR).
func (p *Pipeline) Run(initial *PipelineContext) *PipelineContext {
	ctx := initial
	for _, proc := range p.processors {
		ctx = proc.Process(ctx)
		if len(ctx.Errors) > 0 {
			break
		}
	}
	return ctx
}
