package core

import "errors"

// ErrRunNotFound is returned by RunStore lookups for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// RunStore persists run records keyed by run id. Implementations must be
// safe for concurrent use: executions mutate records through Update while
// pollers read snapshots through Get. Get and List return clones so readers
// never observe a record mid-mutation.
//
// The interface is deliberately a small key-value surface so the in-memory
// implementation can later be swapped for an external store without touching
// traversal logic.
type RunStore interface {
	// Create stores a new record. It fails if the id is already taken.
	Create(rec *RunRecord) error

	// Get returns a snapshot of the record, or ErrRunNotFound.
	Get(id string) (*RunRecord, error)

	// List returns snapshots of all records in unspecified order.
	List() ([]*RunRecord, error)

	// Update applies fn to the stored record under the store's lock,
	// making multi-field transitions (status + state + history) atomic
	// with respect to concurrent Gets. Returns ErrRunNotFound for
	// unknown ids.
	Update(id string, fn func(rec *RunRecord)) error
}
