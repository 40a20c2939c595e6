package checker

import "github.com/goxlang/goxc/internal/pipeline"

// Processor runs semantic checking as a pipeline stage.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if err := Check(ctx.AST); err != nil {
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
