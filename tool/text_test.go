package tool

import (
	"context"
	"testing"

	"github.com/hupe1980/flowgraph/core"
	"github.com/stretchr/testify/assert"
)

func TestSplitTextTool(t *testing.T) {
	split := NewSplitTextTool()

	out, err := split.Call(context.Background(), core.State{
		"text": "First sentence. Second sentence.  Third.",
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"First sentence", "Second sentence", "Third"}, out["chunks"])
}

func TestSplitTextTool_EmptyText(t *testing.T) {
	split := NewSplitTextTool()

	out, err := split.Call(context.Background(), core.State{})
	assert.NoError(t, err)
	assert.Empty(t, out["chunks"])
}

func TestSummarizeChunksTool(t *testing.T) {
	summarize := NewSummarizeChunksTool()

	out, err := summarize.Call(context.Background(), core.State{
		"chunks": []string{"one two three four five", "short"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"one two three...", "short..."}, out["chunk_summaries"])
}

func TestMergeSummariesTool(t *testing.T) {
	merge := NewMergeSummariesTool()

	out, err := merge.Call(context.Background(), core.State{
		"chunk_summaries": []string{"aa...", "bb..."},
	})
	assert.NoError(t, err)
	assert.Equal(t, "aa... bb...", out["current_summary"])
	assert.Equal(t, len("aa... bb..."), out["summary_length"])
}

func TestRefineSummaryTool_Continue(t *testing.T) {
	refine := NewRefineSummaryTool(10)

	out, err := refine.Call(context.Background(), core.State{
		"current_summary": "this is a rather long summary text",
	})
	assert.NoError(t, err)
	assert.Equal(t, "this is a rather long summary", out["current_summary"])
	assert.Equal(t, "continue", out["status"])
}

func TestRefineSummaryTool_Stop(t *testing.T) {
	refine := NewRefineSummaryTool(50)

	out, err := refine.Call(context.Background(), core.State{
		"current_summary": "short summary here",
	})
	assert.NoError(t, err)
	assert.Equal(t, "short summary", out["current_summary"])
	assert.Equal(t, "stop", out["status"])
}

func TestRefineSummaryTool_EmptySummaryStops(t *testing.T) {
	refine := NewRefineSummaryTool(50)

	out, err := refine.Call(context.Background(), core.State{})
	assert.NoError(t, err)
	assert.Equal(t, "", out["current_summary"])
	assert.Equal(t, "stop", out["status"])
}

func TestRegisterTextTools(t *testing.T) {
	reg := NewRegistry()
	RegisterTextTools(reg)

	assert.ElementsMatch(t,
		[]string{"split_text", "summarize_chunks", "merge_summaries", "refine_summary"},
		reg.Names(),
	)
}
