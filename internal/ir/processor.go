package ir

import "github.com/goxlang/goxc/internal/pipeline"

// Processor runs IR generation as a pipeline stage.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.Module = Generate(ctx.AST)
	return ctx
}
