package core

import "time"

// Status is the lifecycle state of a run.
//
// Transitions:
//
//	queued → running → completed
//	                 ↘ failed
//
// A record never leaves a terminal status and is never deleted for the
// lifetime of the process.
type Status string

const (
	// StatusQueued means the run is recorded but no node has executed yet.
	StatusQueued Status = "queued"
	// StatusRunning means the engine is traversing the graph.
	StatusRunning Status = "running"
	// StatusCompleted means traversal reached a terminal naturally.
	StatusCompleted Status = "completed"
	// StatusFailed means an execution-time error halted traversal.
	StatusFailed Status = "failed"
)

// IsTerminal reports whether the status is final. Terminal records need no
// further synchronization to read.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// RunRecord tracks one execution of a graph: its status, the latest state
// snapshot, the ordered history of executed node names (duplicates expected
// under loops), the ordered log lines, and an error message when failed.
//
// Records are mutated in place as execution proceeds and read concurrently by
// pollers, so access goes through a RunStore which hands out clones.
type RunRecord struct {
	ID       string     `json:"id"`
	GraphID  string     `json:"graph_id"`
	Status   Status     `json:"status"`
	State    State      `json:"state,omitempty"`
	History  []string   `json:"history,omitempty"`
	Logs     []string   `json:"logs,omitempty"`
	Error    string     `json:"error,omitempty"`
	Created  time.Time  `json:"created"`
	Started  *time.Time `json:"started,omitempty"`
	Finished *time.Time `json:"finished,omitempty"`
}

// NewRunRecord creates a queued record for a submitted run.
func NewRunRecord(id, graphID string, initial State) *RunRecord {
	return &RunRecord{
		ID:      id,
		GraphID: graphID,
		Status:  StatusQueued,
		State:   initial.Clone(),
		Created: time.Now().UTC(),
	}
}

// MarkRunning transitions the record to running.
func (r *RunRecord) MarkRunning() {
	now := time.Now().UTC()
	r.Status = StatusRunning
	r.Started = &now
}

// MarkCompleted transitions the record to completed with its final state,
// history and logs.
func (r *RunRecord) MarkCompleted(final State, history, logs []string) {
	now := time.Now().UTC()
	r.Status = StatusCompleted
	r.State = final
	r.History = history
	r.Logs = logs
	r.Finished = &now
}

// MarkFailed transitions the record to failed, keeping whatever state,
// history and logs accumulated before the failing step.
func (r *RunRecord) MarkFailed(errMsg string, partial State, history, logs []string) {
	now := time.Now().UTC()
	r.Status = StatusFailed
	r.Error = errMsg
	r.State = partial
	r.History = history
	r.Logs = logs
	r.Finished = &now
}

// Duration returns how long the run executed, or 0 if it has not finished.
func (r *RunRecord) Duration() time.Duration {
	if r.Started == nil || r.Finished == nil {
		return 0
	}
	return r.Finished.Sub(*r.Started)
}

// Clone returns a deep copy safe for independent reads while the original is
// still being mutated by an in-progress execution.
func (r *RunRecord) Clone() *RunRecord {
	clone := *r
	clone.State = r.State.Clone()
	clone.History = make([]string, len(r.History))
	copy(clone.History, r.History)
	clone.Logs = make([]string, len(r.Logs))
	copy(clone.Logs, r.Logs)
	if r.Started != nil {
		t := *r.Started
		clone.Started = &t
	}
	if r.Finished != nil {
		t := *r.Finished
		clone.Finished = &t
	}
	return &clone
}
