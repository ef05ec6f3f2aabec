package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/flowgraph/core"
	"github.com/hupe1980/flowgraph/graph"
	"github.com/hupe1980/flowgraph/tool"
	"github.com/stretchr/testify/assert"
)

func newRegistry(tools ...tool.Tool) *tool.Registry {
	reg := tool.NewRegistry()
	for _, t := range tools {
		reg.Register(t)
	}
	return reg
}

func noopTool(name string) tool.Tool {
	return tool.NewFunctionTool(name, "test tool", func(_ context.Context, _ core.State) (core.State, error) {
		return nil, nil
	})
}

func TestRun_LinearGraph(t *testing.T) {
	def, err := graph.New([]string{"a", "b", "c"}, "a", []graph.Edge{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
	})
	assert.NoError(t, err)

	reg := newRegistry(noopTool("a"), noopTool("b"), noopTool("c"))

	eng := New()
	res, err := eng.Run(context.Background(), def, reg, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.History)
	assert.Equal(t, []string{
		"Step 1: Executing 'a'",
		"Step 2: Executing 'b'",
		"Step 3: Executing 'c'",
		"Execution finished",
	}, res.Logs)
}

func TestRun_StateThreadedThroughNodes(t *testing.T) {
	def, err := graph.New([]string{"produce", "consume"}, "produce", []graph.Edge{
		{Source: "produce", Target: "consume"},
	})
	assert.NoError(t, err)

	reg := newRegistry(
		tool.NewFunctionTool("produce", "", func(_ context.Context, _ core.State) (core.State, error) {
			return core.State{"value": 21}, nil
		}),
		tool.NewFunctionTool("consume", "", func(_ context.Context, state core.State) (core.State, error) {
			v := state["value"].(int)
			return core.State{"doubled": v * 2}, nil
		}),
	)

	eng := New()
	res, err := eng.Run(context.Background(), def, reg, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, 42, res.State["doubled"])
	assert.Equal(t, 21, res.State["value"])
}

func TestRun_InitialStateIsolated(t *testing.T) {
	def, err := graph.New([]string{"a"}, "a", nil)
	assert.NoError(t, err)

	reg := newRegistry(tool.NewFunctionTool("a", "", func(_ context.Context, _ core.State) (core.State, error) {
		return core.State{"added": true}, nil
	}))

	initial := core.State{"text": "hello"}
	eng := New()
	res, err := eng.Run(context.Background(), def, reg, initial, nil)
	assert.NoError(t, err)
	assert.Equal(t, true, res.State["added"])
	assert.NotContains(t, initial, "added")
}

func TestRun_ConditionalLoopFlips(t *testing.T) {
	def, err := graph.New([]string{"work"}, "work", []graph.Edge{
		{Source: "work", Condition: "status", Mapping: map[string]string{
			"continue": "work",
			"stop":     graph.End,
		}},
	})
	assert.NoError(t, err)

	// Flips status to stop on the third invocation.
	count := 0
	reg := newRegistry(tool.NewFunctionTool("work", "", func(_ context.Context, _ core.State) (core.State, error) {
		count++
		status := "continue"
		if count >= 3 {
			status = "stop"
		}
		return core.State{"status": status}, nil
	}))

	eng := New()
	res, err := eng.Run(context.Background(), def, reg, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"work", "work", "work"}, res.History)
}

func TestRun_TwoNodeCycle(t *testing.T) {
	def, err := graph.New([]string{"a", "b"}, "a", []graph.Edge{
		{Source: "a", Target: "b"},
		{Source: "b", Condition: "again", Mapping: map[string]string{
			"yes": "a",
			"no":  graph.End,
		}},
	})
	assert.NoError(t, err)

	visits := 0
	reg := newRegistry(
		noopTool("a"),
		tool.NewFunctionTool("b", "", func(_ context.Context, _ core.State) (core.State, error) {
			visits++
			again := "yes"
			if visits >= 2 {
				again = "no"
			}
			return core.State{"again": again}, nil
		}),
	)

	eng := New()
	res, err := eng.Run(context.Background(), def, reg, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a", "b"}, res.History)
}

func TestRun_LoopLimit(t *testing.T) {
	def, err := graph.New([]string{"spin"}, "spin", []graph.Edge{
		{Source: "spin", Condition: "status", Mapping: map[string]string{"continue": "spin"}},
	})
	assert.NoError(t, err)

	reg := newRegistry(tool.NewFunctionTool("spin", "", func(_ context.Context, _ core.State) (core.State, error) {
		return core.State{"status": "continue"}, nil
	}))

	eng := New(func(o *Options) {
		o.Config.MaxIterations = 7
	})
	res, err := eng.Run(context.Background(), def, reg, nil, nil)

	var limitErr *core.LoopLimitError
	assert.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 7, limitErr.Limit)
	assert.Len(t, res.History, 7)
	assert.Len(t, res.Logs, 7)
}

func TestRun_UnknownNode(t *testing.T) {
	def, err := graph.New([]string{"known", "missing"}, "known", []graph.Edge{
		{Source: "known", Target: "missing"},
	})
	assert.NoError(t, err)

	reg := newRegistry(noopTool("known"))

	eng := New()
	res, err := eng.Run(context.Background(), def, reg, nil, nil)

	var unknownErr *core.UnknownNodeError
	assert.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "missing", unknownErr.Node)
	// History covers only the nodes that actually executed.
	assert.Equal(t, []string{"known"}, res.History)
}

func TestRun_ToolErrorHaltsBeforeRecordingStep(t *testing.T) {
	def, err := graph.New([]string{"a", "b"}, "a", []graph.Edge{
		{Source: "a", Target: "b"},
	})
	assert.NoError(t, err)

	reg := newRegistry(
		noopTool("a"),
		tool.NewFunctionTool("b", "", func(_ context.Context, _ core.State) (core.State, error) {
			return nil, fmt.Errorf("boom")
		}),
	)

	eng := New()
	res, err := eng.Run(context.Background(), def, reg, nil, nil)

	var toolErr *tool.ToolError
	assert.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "b", toolErr.Tool)
	assert.Equal(t, []string{"a"}, res.History)
	assert.Equal(t, []string{"Step 1: Executing 'a'"}, res.Logs)
}

func TestRun_ConditionalResolutionFailure(t *testing.T) {
	def, err := graph.New([]string{"a", "b"}, "a", []graph.Edge{
		{Source: "a", Condition: "status", Mapping: map[string]string{"go": "b"}},
	})
	assert.NoError(t, err)

	reg := newRegistry(noopTool("a"), noopTool("b"))

	eng := New()
	res, err := eng.Run(context.Background(), def, reg, nil, nil)

	var missErr *core.MissingStateKeyError
	assert.ErrorAs(t, err, &missErr)
	// The node itself executed before resolution failed.
	assert.Equal(t, []string{"a"}, res.History)
}

func TestRun_SinkReceivesLinesInOrder(t *testing.T) {
	def, err := graph.New([]string{"a", "b"}, "a", []graph.Edge{
		{Source: "a", Target: "b"},
	})
	assert.NoError(t, err)

	reg := newRegistry(noopTool("a"), noopTool("b"))

	var streamed []string
	sink := core.FuncSink(func(line string) { streamed = append(streamed, line) })

	eng := New()
	res, err := eng.Run(context.Background(), def, reg, nil, sink)
	assert.NoError(t, err)
	// Streaming and batch consumers see the identical sequence.
	assert.Equal(t, res.Logs, streamed)
}

func TestNew_Defaults(t *testing.T) {
	eng := New()
	assert.Equal(t, DefaultConfig.MaxIterations, eng.MaxIterations())

	eng = New(func(o *Options) {
		o.Config.MaxIterations = -1
		o.Logger = nil
	})
	assert.Equal(t, DefaultConfig.MaxIterations, eng.MaxIterations())
}
