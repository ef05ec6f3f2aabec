package graph

import (
	"testing"

	"github.com/hupe1980/flowgraph/core"
	"github.com/stretchr/testify/assert"
)

func TestNew_Valid(t *testing.T) {
	def, err := New(
		[]string{"a", "b", "c"},
		"a",
		[]Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Condition: "status", Mapping: map[string]string{"continue": "a", "stop": End}},
		},
	)
	assert.NoError(t, err)
	assert.Equal(t, "a", def.Start())
	assert.True(t, def.HasNode("c"))
	assert.False(t, def.HasNode("d"))
	assert.ElementsMatch(t, []string{"a", "b", "c"}, def.Nodes())

	e, ok := def.Edge("b")
	assert.True(t, ok)
	assert.True(t, e.IsConditional())

	_, ok = def.Edge("c")
	assert.False(t, ok)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		start string
		edges []Edge
	}{
		{"no nodes", nil, "a", nil},
		{"empty node name", []string{"a", ""}, "a", nil},
		{"reserved node name", []string{"a", End}, "a", nil},
		{"undeclared start", []string{"a"}, "b", nil},
		{"undeclared edge source", []string{"a"}, "a", []Edge{{Source: "x", Target: "a"}}},
		{"undeclared edge target", []string{"a"}, "a", []Edge{{Source: "a", Target: "x"}}},
		{"both linear and conditional", []string{"a", "b"}, "a", []Edge{
			{Source: "a", Target: "b", Condition: "k", Mapping: map[string]string{"v": "b"}},
		}},
		{"neither linear nor conditional", []string{"a"}, "a", []Edge{{Source: "a"}}},
		{"empty mapping", []string{"a"}, "a", []Edge{{Source: "a", Condition: "k"}}},
		{"undeclared mapping target", []string{"a"}, "a", []Edge{
			{Source: "a", Condition: "k", Mapping: map[string]string{"v": "x"}},
		}},
		{"duplicate edge source", []string{"a", "b"}, "a", []Edge{
			{Source: "a", Target: "b"},
			{Source: "a", Target: "b"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := New(tt.nodes, tt.start, tt.edges)
			assert.Nil(t, def)
			var vErr *core.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestNew_MappingTargetEndAllowed(t *testing.T) {
	_, err := New([]string{"a"}, "a", []Edge{
		{Source: "a", Condition: "status", Mapping: map[string]string{"stop": End}},
	})
	assert.NoError(t, err)
}

func TestNext_Linear(t *testing.T) {
	def, err := New([]string{"a", "b"}, "a", []Edge{{Source: "a", Target: "b"}})
	assert.NoError(t, err)

	next, err := def.Next("a", core.State{})
	assert.NoError(t, err)
	assert.Equal(t, "b", next)
}

func TestNext_NoEdgeIsTerminal(t *testing.T) {
	def, err := New([]string{"a"}, "a", nil)
	assert.NoError(t, err)

	next, err := def.Next("a", core.State{})
	assert.NoError(t, err)
	assert.Equal(t, End, next)
}

func TestNext_Conditional(t *testing.T) {
	def, err := New([]string{"a", "b"}, "a", []Edge{
		{Source: "a", Condition: "status", Mapping: map[string]string{"continue": "b", "stop": End}},
	})
	assert.NoError(t, err)

	next, err := def.Next("a", core.State{"status": "continue"})
	assert.NoError(t, err)
	assert.Equal(t, "b", next)

	next, err = def.Next("a", core.State{"status": "stop"})
	assert.NoError(t, err)
	assert.Equal(t, End, next)
}

func TestNext_MissingConditionKey(t *testing.T) {
	def, err := New([]string{"a", "b"}, "a", []Edge{
		{Source: "a", Condition: "status", Mapping: map[string]string{"continue": "b"}},
	})
	assert.NoError(t, err)

	_, err = def.Next("a", core.State{})
	var missErr *core.MissingStateKeyError
	assert.ErrorAs(t, err, &missErr)
	assert.Equal(t, "status", missErr.Key)
	assert.Empty(t, missErr.Type)
}

func TestNext_NonStringConditionValue(t *testing.T) {
	def, err := New([]string{"a", "b"}, "a", []Edge{
		{Source: "a", Condition: "status", Mapping: map[string]string{"1": "b"}},
	})
	assert.NoError(t, err)

	_, err = def.Next("a", core.State{"status": 1})
	var missErr *core.MissingStateKeyError
	assert.ErrorAs(t, err, &missErr)
	assert.Equal(t, "int", missErr.Type)
}

func TestNext_UnmappedValue(t *testing.T) {
	def, err := New([]string{"a", "b"}, "a", []Edge{
		{Source: "a", Condition: "status", Mapping: map[string]string{"continue": "b"}},
	})
	assert.NoError(t, err)

	_, err = def.Next("a", core.State{"status": "done"})
	var unmappedErr *core.UnmappedTransitionError
	assert.ErrorAs(t, err, &unmappedErr)
	assert.Equal(t, "done", unmappedErr.Value)
}

func TestDefinition_Immutable(t *testing.T) {
	nodes := []string{"a", "b"}
	mapping := map[string]string{"continue": "b"}
	def, err := New(nodes, "a", []Edge{{Source: "a", Condition: "status", Mapping: mapping}})
	assert.NoError(t, err)

	// Mutating the caller's inputs must not affect the definition.
	mapping["continue"] = "x"
	next, err := def.Next("a", core.State{"status": "continue"})
	assert.NoError(t, err)
	assert.Equal(t, "b", next)

	// Mutating a returned edge must not affect the definition either.
	e, _ := def.Edge("a")
	e.Mapping["continue"] = "y"
	next, err = def.Next("a", core.State{"status": "continue"})
	assert.NoError(t, err)
	assert.Equal(t, "b", next)
}
