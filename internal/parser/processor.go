package parser

import "github.com/goxlang/goxc/internal/pipeline"

// Processor runs parsing as a pipeline stage.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	prog, err := Parse(ctx.Tokens)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.AST = prog
	return ctx
}
