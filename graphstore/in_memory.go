// Package graphstore provides the volatile graph.Store implementation used
// by default. Definitions are immutable after construction, so the store
// hands out the stored pointers directly.
package graphstore

import (
	"sync"

	"github.com/hupe1980/flowgraph/graph"
)

// InMemoryStore is a process-local graph.Store backed by a map. It is safe
// for concurrent access and best suited for tests or ephemeral servers.
type InMemoryStore struct {
	mu     sync.RWMutex
	graphs map[string]*graph.Definition
}

// NewInMemoryStore constructs an empty in-memory graph store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{graphs: make(map[string]*graph.Definition)}
}

// Put stores a definition under id, overwriting any previous one.
func (s *InMemoryStore) Put(id string, def *graph.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[id] = def
	return nil
}

// Get returns the definition stored under id.
func (s *InMemoryStore) Get(id string) (*graph.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.graphs[id]
	if !ok {
		return nil, graph.ErrNotFound
	}
	return def, nil
}

// List returns the stored graph ids in unspecified order.
func (s *InMemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.graphs))
	for id := range s.graphs {
		ids = append(ids, id)
	}
	return ids, nil
}
