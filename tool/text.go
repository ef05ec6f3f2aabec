package tool

import (
	"context"
	"strings"

	"github.com/hupe1980/flowgraph/core"
)

// The built-in text tools implement the iterative summarization pipeline
// used by the demo graph: split raw text into chunks, mock-summarize each
// chunk, merge the summaries, then refine the merged summary until it fits
// a length budget. The refine step writes the "status" condition key
// ("continue" or "stop") that drives the demo graph's loop edge.

// DefaultRefineTarget is the summary length at which refinement stops.
const DefaultRefineTarget = 50

// NewSplitTextTool splits state["text"] into sentence chunks stored under
// "chunks".
func NewSplitTextTool() *FunctionTool {
	return NewFunctionTool(
		"split_text",
		"Split raw text into sentence chunks",
		func(_ context.Context, state core.State) (core.State, error) {
			raw, _ := state["text"].(string)
			var chunks []string
			for _, s := range strings.Split(raw, ".") {
				if s = strings.TrimSpace(s); s != "" {
					chunks = append(chunks, s)
				}
			}
			return core.State{"chunks": chunks}, nil
		},
	)
}

// NewSummarizeChunksTool produces a short summary per chunk (first three
// words), stored under "chunk_summaries".
func NewSummarizeChunksTool() *FunctionTool {
	return NewFunctionTool(
		"summarize_chunks",
		"Summarize each chunk down to its leading words",
		func(_ context.Context, state core.State) (core.State, error) {
			chunks, _ := state["chunks"].([]string)
			summaries := make([]string, 0, len(chunks))
			for _, chunk := range chunks {
				words := strings.Fields(chunk)
				if len(words) > 3 {
					words = words[:3]
				}
				summaries = append(summaries, strings.Join(words, " ")+"...")
			}
			return core.State{"chunk_summaries": summaries}, nil
		},
	)
}

// NewMergeSummariesTool joins the chunk summaries into one draft under
// "current_summary" and records its length.
func NewMergeSummariesTool() *FunctionTool {
	return NewFunctionTool(
		"merge_summaries",
		"Combine chunk summaries into a single draft",
		func(_ context.Context, state core.State) (core.State, error) {
			summaries, _ := state["chunk_summaries"].([]string)
			merged := strings.Join(summaries, " ")
			return core.State{
				"current_summary": merged,
				"summary_length":  len(merged),
			}, nil
		},
	)
}

// NewRefineSummaryTool shortens "current_summary" by one word per pass and
// sets "status" to "continue" while it still exceeds target characters,
// "stop" once it fits. A target of 0 or less uses DefaultRefineTarget.
func NewRefineSummaryTool(target int) *FunctionTool {
	if target <= 0 {
		target = DefaultRefineTarget
	}
	return NewFunctionTool(
		"refine_summary",
		"Iteratively shorten the summary until it fits the length budget",
		func(_ context.Context, state core.State) (core.State, error) {
			current, _ := state["current_summary"].(string)
			words := strings.Fields(current)
			if len(words) > 0 {
				words = words[:len(words)-1]
			}
			refined := strings.Join(words, " ")

			status := "stop"
			if len(refined) > target {
				status = "continue"
			}

			return core.State{
				"current_summary": refined,
				"summary_length":  len(refined),
				"status":          status,
			}, nil
		},
	)
}

// RegisterTextTools registers the full summarization pipeline on a registry.
func RegisterTextTools(reg *Registry) {
	reg.Register(NewSplitTextTool())
	reg.Register(NewSummarizeChunksTool())
	reg.Register(NewMergeSummariesTool())
	reg.Register(NewRefineSummaryTool(DefaultRefineTarget))
}
