package tool

import (
	"context"
	"errors"

	"github.com/hupe1980/flowgraph/core"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a
// Tool. It normalizes error handling so callers receive a *ToolError with a
// consistent code:
//
//	EXECUTION_ERROR -> the function returned an ordinary error
//	(custom codes preserved if the function returns *ToolError directly)
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use by multiple goroutines.
type FunctionTool struct {
	name        string
	description string
	fn          func(ctx context.Context, state core.State) (core.State, error)
}

// NewFunctionTool constructs a FunctionTool.
//
// Example:
//
//	counter := tool.NewFunctionTool(
//	    "count_words",
//	    "Count the words of the input text",
//	    func(ctx context.Context, state core.State) (core.State, error) {
//	        text, _ := state["text"].(string)
//	        return core.State{"word_count": len(strings.Fields(text))}, nil
//	    },
//	)
func NewFunctionTool(
	name, description string,
	fn func(ctx context.Context, state core.State) (core.State, error),
) *FunctionTool {
	return &FunctionTool{name: name, description: description, fn: fn}
}

// Name returns the unique tool name matched against graph node names.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description of the step.
func (t *FunctionTool) Description() string { return t.description }

// Call invokes the wrapped function, wrapping ordinary errors into
// *ToolError so failures carry the tool name downstream.
func (t *FunctionTool) Call(ctx context.Context, state core.State) (core.State, error) {
	partial, err := t.fn(ctx, state)
	if err != nil {
		var te *ToolError
		if errors.As(err, &te) {
			return nil, te
		}
		return nil, NewToolError(t.name, err.Error(), "EXECUTION_ERROR")
	}
	return partial, nil
}
