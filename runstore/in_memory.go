// Package runstore provides the volatile core.RunStore implementation used
// by default. Records are cloned on every read so pollers never observe a
// record mid-mutation while an execution is writing to it.
package runstore

import (
	"fmt"
	"sync"

	"github.com/hupe1980/flowgraph/core"
)

// InMemoryStore is a process-local core.RunStore backed by a map guarded by
// a single RWMutex. Records are kept for the lifetime of the process; there
// is no eviction.
type InMemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*core.RunRecord
}

// NewInMemoryStore constructs an empty in-memory run store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{runs: make(map[string]*core.RunRecord)}
}

// Create stores a new record, rejecting duplicate ids.
func (s *InMemoryStore) Create(rec *core.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[rec.ID]; exists {
		return fmt.Errorf("run %s already exists", rec.ID)
	}
	s.runs[rec.ID] = rec.Clone()
	return nil
}

// Get returns a snapshot of the record stored under id.
func (s *InMemoryStore) Get(id string) (*core.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[id]
	if !ok {
		return nil, core.ErrRunNotFound
	}
	return rec.Clone(), nil
}

// List returns snapshots of all records in unspecified order.
func (s *InMemoryStore) List() ([]*core.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]*core.RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		recs = append(recs, rec.Clone())
	}
	return recs, nil
}

// Update applies fn to the stored record under the write lock, making
// multi-field transitions atomic with respect to concurrent Gets.
func (s *InMemoryStore) Update(id string, fn func(rec *core.RunRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.runs[id]
	if !ok {
		return core.ErrRunNotFound
	}
	fn(rec)
	return nil
}
