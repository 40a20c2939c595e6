package lexer

import "github.com/goxlang/goxc/internal/pipeline"

// Processor runs tokenization as a pipeline stage.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	toks, err := Tokenize(ctx.Source)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Tokens = toks
	return ctx
}
