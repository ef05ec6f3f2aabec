package core

// State is the open, string-keyed bag of values threaded through every node
// invocation of a run. Values may be numbers, strings, slices or nested maps;
// the engine never inspects them except on the conditional-edge read path.
//
// State is not safe for concurrent mutation. Within a run, node execution is
// strictly sequential, so no locking is needed; across runs every run owns an
// isolated State, so no sharing occurs.
type State map[string]any

// Merge applies a partial state returned by a node, shallowly: new keys are
// added and existing keys are overwritten (last writer wins). Nested values
// are replaced wholesale, never deep-merged.
func (s State) Merge(partial State) {
	for k, v := range partial {
		s[k] = v
	}
}

// Clone returns a top-level copy of the state. Nested values are shared;
// callers that need divergence must copy them explicitly. Used to isolate a
// run's working state from the caller's initial map and to snapshot state
// into run records.
func (s State) Clone() State {
	clone := make(State, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// StringValue returns the value under key if present and a string. The second
// return reports presence, the third reports that the value was a string.
// Conditional edge resolution uses this to fail explicitly on absent or
// non-string condition values instead of silently coercing.
func (s State) StringValue(key string) (string, bool, bool) {
	raw, ok := s[key]
	if !ok {
		return "", false, false
	}
	str, isStr := raw.(string)
	return str, true, isStr
}
