// Package tool implements the pluggable step functions executed at graph
// nodes and the thread-safe registry that resolves node names to them. A
// tool reads the run's current state and returns a partial state the engine
// merges in; tools may be non-deterministic but must keep key types stable
// across invocations so merges stay coherent.
package tool

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/flowgraph/core"
)

// Tool is a single executable step. Implementations should be safe for
// concurrent use: the same tool instance may serve many runs at once, each
// with its own isolated state.
type Tool interface {
	// Name returns the unique identifier matched against graph node names.
	Name() string

	// Description returns a human-readable summary of what the step does.
	Description() string

	// Call executes the step against the current state and returns a
	// partial state to merge. The returned map may be nil when the step
	// has nothing to contribute. Call must not mutate its input.
	Call(ctx context.Context, state core.State) (core.State, error)
}

// ToolError represents a failure inside a tool invocation.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// Registry resolves node names to tools. It is safe for concurrent use;
// registration is expected to complete before runs start, but late
// registration is allowed and replaces silently.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its name, replacing any previous registration.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Lookup returns the tool registered under name. The boolean reports whether
// it exists; the engine turns a miss into an UnknownNodeError.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	return names
}
