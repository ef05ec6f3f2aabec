package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/flowgraph/core"
	"github.com/stretchr/testify/assert"
)

// -------------------- FunctionTool Tests --------------------

func TestFunctionTool_Success(t *testing.T) {
	double := NewFunctionTool("double", "Doubles a number", func(_ context.Context, state core.State) (core.State, error) {
		v := state["value"].(int)
		return core.State{"value": v * 2}, nil
	})

	assert.Equal(t, "double", double.Name())
	assert.Equal(t, "Doubles a number", double.Description())

	out, err := double.Call(context.Background(), core.State{"value": 21})
	assert.NoError(t, err)
	assert.Equal(t, 42, out["value"])
}

func TestFunctionTool_WrapsPlainError(t *testing.T) {
	failing := NewFunctionTool("failing", "", func(_ context.Context, _ core.State) (core.State, error) {
		return nil, errors.New("boom")
	})

	_, err := failing.Call(context.Background(), core.State{})
	var toolErr *ToolError
	assert.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "failing", toolErr.Tool)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "boom")
}

func TestFunctionTool_PreservesToolError(t *testing.T) {
	failing := NewFunctionTool("failing", "", func(_ context.Context, _ core.State) (core.State, error) {
		return nil, NewToolError("failing", "missing input", "MISSING_INPUT")
	})

	_, err := failing.Call(context.Background(), core.State{})
	var toolErr *ToolError
	assert.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "MISSING_INPUT", toolErr.Code)
}

// -------------------- Registry Tests --------------------

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Lookup("missing")
	assert.False(t, ok)

	reg.Register(NewFunctionTool("a", "", func(_ context.Context, _ core.State) (core.State, error) {
		return nil, nil
	}))
	reg.Register(NewFunctionTool("b", "", func(_ context.Context, _ core.State) (core.State, error) {
		return nil, nil
	}))

	got, ok := reg.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "a", got.Name())

	assert.ElementsMatch(t, []string{"a", "b"}, reg.Names())
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewFunctionTool("a", "first", func(_ context.Context, _ core.State) (core.State, error) {
		return nil, nil
	}))
	reg.Register(NewFunctionTool("a", "second", func(_ context.Context, _ core.State) (core.State, error) {
		return nil, nil
	}))

	got, ok := reg.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "second", got.Description())
}
