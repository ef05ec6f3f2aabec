package server

import (
	"time"

	"github.com/hupe1980/flowgraph/core"
	"github.com/hupe1980/flowgraph/graph"
)

// EdgeRequest is the wire form of a single edge. Exactly one of Target or
// the Condition/Mapping pair must be set.
type EdgeRequest struct {
	Source    string            `json:"source"`
	Target    string            `json:"target,omitempty"`
	Condition string            `json:"condition,omitempty"`
	Mapping   map[string]string `json:"mapping,omitempty"`
}

// CreateGraphRequest is the body of POST /api/v1/graphs.
type CreateGraphRequest struct {
	Nodes     []string      `json:"nodes"`
	StartNode string        `json:"start_node"`
	Edges     []EdgeRequest `json:"edges"`
}

// Definition converts the request into a validated graph definition.
func (req *CreateGraphRequest) Definition() (*graph.Definition, error) {
	edges := make([]graph.Edge, len(req.Edges))
	for i, e := range req.Edges {
		edges[i] = graph.Edge{
			Source:    e.Source,
			Target:    e.Target,
			Condition: e.Condition,
			Mapping:   e.Mapping,
		}
	}
	return graph.New(req.Nodes, req.StartNode, edges)
}

// CreateGraphResponse is the body returned by POST /api/v1/graphs.
type CreateGraphResponse struct {
	GraphID string `json:"graph_id"`
	Message string `json:"message"`
}

// CreateRunRequest is the body of POST /api/v1/graphs/{id}/runs.
type CreateRunRequest struct {
	InitialState map[string]any `json:"initial_state"`
}

// CreateRunResponse is the body returned by POST /api/v1/graphs/{id}/runs.
type CreateRunResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// RunResponse is the wire form of a run record.
type RunResponse struct {
	ID       string         `json:"id"`
	GraphID  string         `json:"graph_id"`
	Status   string         `json:"status"`
	State    map[string]any `json:"state"`
	History  []string       `json:"history"`
	Logs     []string       `json:"logs"`
	Error    string         `json:"error,omitempty"`
	Created  time.Time      `json:"created"`
	Started  *time.Time     `json:"started,omitempty"`
	Finished *time.Time     `json:"finished,omitempty"`
}

// RunFromRecord converts a run record into its wire form.
func RunFromRecord(rec *core.RunRecord) RunResponse {
	return RunResponse{
		ID:       rec.ID,
		GraphID:  rec.GraphID,
		Status:   string(rec.Status),
		State:    rec.State,
		History:  rec.History,
		Logs:     rec.Logs,
		Error:    rec.Error,
		Created:  rec.Created,
		Started:  rec.Started,
		Finished: rec.Finished,
	}
}
