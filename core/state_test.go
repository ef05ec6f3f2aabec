package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_Merge(t *testing.T) {
	state := State{"a": 1, "b": "keep"}
	state.Merge(State{"a": 2, "c": []string{"x"}})

	assert.Equal(t, 2, state["a"])
	assert.Equal(t, "keep", state["b"])
	assert.Equal(t, []string{"x"}, state["c"])
}

func TestState_MergeReplacesNestedWholesale(t *testing.T) {
	state := State{"nested": map[string]any{"keep": true, "old": 1}}
	state.Merge(State{"nested": map[string]any{"new": 2}})

	nested := state["nested"].(map[string]any)
	assert.Equal(t, 2, nested["new"])
	assert.NotContains(t, nested, "keep")
}

func TestState_Clone(t *testing.T) {
	state := State{"a": 1}
	clone := state.Clone()
	clone["a"] = 2
	clone["b"] = 3

	assert.Equal(t, 1, state["a"])
	assert.NotContains(t, state, "b")
}

func TestState_CloneNil(t *testing.T) {
	var state State
	clone := state.Clone()
	assert.NotNil(t, clone)
	assert.Empty(t, clone)
}

func TestState_StringValue(t *testing.T) {
	state := State{"s": "hello", "n": 42}

	v, present, isStr := state.StringValue("s")
	assert.Equal(t, "hello", v)
	assert.True(t, present)
	assert.True(t, isStr)

	_, present, isStr = state.StringValue("n")
	assert.True(t, present)
	assert.False(t, isStr)

	_, present, _ = state.StringValue("missing")
	assert.False(t, present)
}
