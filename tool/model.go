package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/flowgraph/core"
	"github.com/hupe1980/flowgraph/model"
)

// NewModelSummarizeTool builds a summarization step backed by an LLM. It
// reads state["text"] (falling back to "current_summary" when refining an
// earlier draft) and writes the completion to "current_summary" along with
// its length. It is a drop-in alternative to the mock merge/refine pipeline
// for graphs that want real summaries.
func NewModelSummarizeTool(m model.Model) *FunctionTool {
	name := "model_summarize"
	return NewFunctionTool(
		name,
		fmt.Sprintf("Summarize the input text using %s", m.Info().Name),
		func(ctx context.Context, state core.State) (core.State, error) {
			input, _ := state["text"].(string)
			if input == "" {
				input, _ = state["current_summary"].(string)
			}
			if input == "" {
				return nil, NewToolError(name, "state has neither text nor current_summary", "MISSING_INPUT")
			}

			resp, err := m.Complete(ctx, model.Request{
				Instructions: "Summarize the user's text in a single short paragraph.",
				Prompt:       input,
			})
			if err != nil {
				return nil, NewToolError(name, err.Error(), "MODEL_ERROR")
			}

			return core.State{
				"current_summary": resp.Text,
				"summary_length":  len(resp.Text),
			}, nil
		},
	)
}
