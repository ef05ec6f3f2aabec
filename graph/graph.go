// Package graph provides the immutable graph definition executed by the
// engine: a set of named nodes, a start node, and per-node transition rules
// that are either unconditional or conditional on runtime state. Cycles are
// legal and expected; termination is the engine's concern.
package graph

import (
	"errors"
	"fmt"

	"github.com/hupe1980/flowgraph/core"
)

// End is the explicit terminal marker. A conditional mapping entry pointing
// at End stops traversal; Next also returns End for nodes with no outgoing
// edge (implicit terminal, matching dead-end nodes being valid).
const End = "__end__"

// ErrNotFound is returned by Store lookups for unknown graph ids.
var ErrNotFound = errors.New("graph not found")

// Edge declares the single outgoing transition rule of a source node.
//
// Exactly one of the two forms must be used:
//   - Linear: Target set, Condition/Mapping empty. Always taken.
//   - Conditional: Condition names a state key whose string value is looked
//     up in Mapping to pick the target node (or End).
type Edge struct {
	Source    string            `json:"source"`
	Target    string            `json:"target,omitempty"`
	Condition string            `json:"condition,omitempty"`
	Mapping   map[string]string `json:"mapping,omitempty"`
}

// IsConditional reports whether the edge branches on state.
func (e Edge) IsConditional() bool { return e.Condition != "" }

// Definition is an immutable graph description: node set, start node and one
// edge per source node. Construct via New, which validates the shape; the
// zero value is not usable.
type Definition struct {
	nodes map[string]struct{}
	start string
	edges map[string]Edge
}

// New validates and constructs a Definition. It fails with a
// *core.ValidationError if the start node is undeclared, any edge references
// an undeclared node (source, linear target, or non-End mapping target), a
// source node declares more than one edge, or an edge is neither cleanly
// linear nor cleanly conditional. Inputs are copied; the caller may reuse
// its slices and maps.
func New(nodes []string, start string, edges []Edge) (*Definition, error) {
	if len(nodes) == 0 {
		return nil, core.NewValidationError("nodes", "graph declares no nodes")
	}

	nodeSet := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n == "" {
			return nil, core.NewValidationError("nodes", "node name must not be empty")
		}
		if n == End {
			return nil, core.NewValidationError("nodes", fmt.Sprintf("%q is reserved as the terminal marker", End))
		}
		nodeSet[n] = struct{}{}
	}

	if _, ok := nodeSet[start]; !ok {
		return nil, core.NewValidationError("start", fmt.Sprintf("start node %q is not a declared node", start))
	}

	edgeMap := make(map[string]Edge, len(edges))
	for _, e := range edges {
		if err := validateEdge(e, nodeSet); err != nil {
			return nil, err
		}
		if _, dup := edgeMap[e.Source]; dup {
			return nil, core.NewValidationError("edges", fmt.Sprintf("node %q declares more than one edge", e.Source))
		}
		edgeMap[e.Source] = cloneEdge(e)
	}

	return &Definition{nodes: nodeSet, start: start, edges: edgeMap}, nil
}

func validateEdge(e Edge, nodeSet map[string]struct{}) error {
	if _, ok := nodeSet[e.Source]; !ok {
		return core.NewValidationError("edges", fmt.Sprintf("edge source %q is not a declared node", e.Source))
	}

	linear := e.Target != ""
	conditional := e.IsConditional()

	switch {
	case linear && conditional:
		return core.NewValidationError("edges", fmt.Sprintf("edge from %q is both linear and conditional", e.Source))
	case !linear && !conditional:
		return core.NewValidationError("edges", fmt.Sprintf("edge from %q has neither a target nor a condition", e.Source))
	case linear:
		if _, ok := nodeSet[e.Target]; !ok {
			return core.NewValidationError("edges", fmt.Sprintf("edge target %q is not a declared node", e.Target))
		}
	default:
		if len(e.Mapping) == 0 {
			return core.NewValidationError("edges", fmt.Sprintf("conditional edge from %q has an empty mapping", e.Source))
		}
		for value, target := range e.Mapping {
			if target == End {
				continue
			}
			if _, ok := nodeSet[target]; !ok {
				return core.NewValidationError("edges",
					fmt.Sprintf("mapping %q=%q from %q targets an undeclared node", e.Condition, value, e.Source))
			}
		}
	}

	return nil
}

func cloneEdge(e Edge) Edge {
	if e.Mapping == nil {
		return e
	}
	m := make(map[string]string, len(e.Mapping))
	for k, v := range e.Mapping {
		m[k] = v
	}
	e.Mapping = m
	return e
}

// Start returns the entry node.
func (d *Definition) Start() string { return d.start }

// Nodes returns the declared node names in unspecified order.
func (d *Definition) Nodes() []string {
	names := make([]string, 0, len(d.nodes))
	for n := range d.nodes {
		names = append(names, n)
	}
	return names
}

// HasNode reports whether name is a declared node.
func (d *Definition) HasNode(name string) bool {
	_, ok := d.nodes[name]
	return ok
}

// Edge returns the outgoing edge of a node, if declared.
func (d *Definition) Edge(source string) (Edge, bool) {
	e, ok := d.edges[source]
	if ok {
		e = cloneEdge(e)
	}
	return e, ok
}

// Next resolves the node following current given the run's state. It returns
// End when traversal should stop: the node declares no outgoing edge, or a
// conditional mapping selected the terminal marker.
//
// Conditional resolution fails with *core.MissingStateKeyError when the
// condition key is absent (or holds a non-string value) and with
// *core.UnmappedTransitionError when the value has no mapping entry.
func (d *Definition) Next(current string, state core.State) (string, error) {
	e, ok := d.edges[current]
	if !ok {
		return End, nil
	}

	if !e.IsConditional() {
		return e.Target, nil
	}

	value, present, isString := state.StringValue(e.Condition)
	if !present {
		return "", &core.MissingStateKeyError{Node: current, Key: e.Condition}
	}
	if !isString {
		return "", &core.MissingStateKeyError{Node: current, Key: e.Condition, Type: fmt.Sprintf("%T", state[e.Condition])}
	}

	target, mapped := e.Mapping[value]
	if !mapped {
		return "", &core.UnmappedTransitionError{Node: current, Key: e.Condition, Value: value}
	}

	return target, nil
}

// Store persists graph definitions keyed by id. Implementations must be safe
// for concurrent use; definitions are immutable so no cloning is needed on
// read.
type Store interface {
	// Put stores a definition under id, overwriting any previous one.
	Put(id string, def *Definition) error

	// Get returns the definition, or ErrNotFound.
	Get(id string) (*Definition, error)

	// List returns the stored graph ids in unspecified order.
	List() ([]string, error)
}
