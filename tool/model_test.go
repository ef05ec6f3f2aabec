package tool

import (
	"context"
	"testing"

	"github.com/hupe1980/flowgraph/core"
	"github.com/hupe1980/flowgraph/model"
	"github.com/stretchr/testify/assert"
)

func TestModelSummarizeTool(t *testing.T) {
	mock := model.NewMockModel("test-model")
	mock.AddResponse("a long text", "a summary")

	summarize := NewModelSummarizeTool(mock)
	assert.Equal(t, "model_summarize", summarize.Name())

	out, err := summarize.Call(context.Background(), core.State{"text": "a long text"})
	assert.NoError(t, err)
	assert.Equal(t, "a summary", out["current_summary"])
	assert.Equal(t, len("a summary"), out["summary_length"])
}

func TestModelSummarizeTool_FallsBackToCurrentSummary(t *testing.T) {
	mock := model.NewMockModel("test-model")
	mock.AddResponse("earlier draft", "tighter draft")

	summarize := NewModelSummarizeTool(mock)

	out, err := summarize.Call(context.Background(), core.State{"current_summary": "earlier draft"})
	assert.NoError(t, err)
	assert.Equal(t, "tighter draft", out["current_summary"])
}

func TestModelSummarizeTool_MissingInput(t *testing.T) {
	summarize := NewModelSummarizeTool(model.NewMockModel("test-model"))

	_, err := summarize.Call(context.Background(), core.State{})
	var toolErr *ToolError
	assert.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "MISSING_INPUT", toolErr.Code)
}
