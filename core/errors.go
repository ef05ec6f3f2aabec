package core

import "fmt"

// ValidationError reports a malformed graph at construction time: an
// undeclared start node, an edge referencing an undeclared node, or a source
// node with more than one edge declaration. No partial graph is ever stored
// when construction fails.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("graph validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UnknownNodeError reports that the tool registry has no callable for a node
// the traversal reached. The run fails at that node; it is never silently
// skipped.
type UnknownNodeError struct {
	Node string `json:"node"`
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("no tool registered for node %q", e.Node)
}

// MissingStateKeyError reports that a conditional edge could not read its
// condition value: the key is absent from state, or present with a
// non-string value. Type is empty when the key was absent.
type MissingStateKeyError struct {
	Node string `json:"node"`
	Key  string `json:"key"`
	Type string `json:"type,omitempty"`
}

func (e *MissingStateKeyError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("condition key %q at node %q holds a %s, not a string", e.Key, e.Node, e.Type)
	}
	return fmt.Sprintf("condition key %q missing from state at node %q", e.Key, e.Node)
}

// UnmappedTransitionError reports a condition value that is present in state
// but has no entry in the conditional edge's mapping.
type UnmappedTransitionError struct {
	Node  string `json:"node"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (e *UnmappedTransitionError) Error() string {
	return fmt.Sprintf("no transition mapped for %s=%q at node %q", e.Key, e.Value, e.Node)
}

// LoopLimitError reports that traversal exhausted the iteration guard
// without reaching a terminal. Conditional targets are arbitrary runtime
// functions of state and cannot be proven to terminate, so the guard is a
// required safety net, not an optimization.
type LoopLimitError struct {
	Limit int `json:"limit"`
}

func (e *LoopLimitError) Error() string {
	return fmt.Sprintf("loop limit exceeded after %d iterations without reaching a terminal", e.Limit)
}
