package server

import (
	"encoding/json"
	"net/http"

	"github.com/hupe1980/flowgraph/logging"
	"github.com/hupe1980/flowgraph/runner"
	"github.com/hupe1980/flowgraph/tool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler bundles the API's dependencies.
type Handler struct {
	runner   *runner.Runner
	registry *tool.Registry
	logger   logging.Logger
}

// NewHandler creates a Handler serving runs from r with tools from registry.
func NewHandler(r *runner.Runner, registry *tool.Registry, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Handler{runner: r, registry: registry, logger: logger}
}

// RegisterRoutes registers all API routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Graphs
	mux.Handle("POST /api/v1/graphs", chain(http.HandlerFunc(h.CreateGraph)))
	mux.Handle("GET /api/v1/graphs", chain(http.HandlerFunc(h.ListGraphs)))
	mux.Handle("GET /api/v1/graphs/{id}/stream", chain(http.HandlerFunc(h.StreamGraphRun)))

	// Runs
	mux.Handle("POST /api/v1/graphs/{id}/runs", chain(http.HandlerFunc(h.CreateRun)))
	mux.Handle("GET /api/v1/runs", chain(http.HandlerFunc(h.ListRuns)))
	mux.Handle("GET /api/v1/runs/{id}", chain(http.HandlerFunc(h.GetRun)))
	mux.Handle("GET /api/v1/runs/{id}/stream", chain(http.HandlerFunc(h.StreamRun)))

	// Operational
	mux.Handle("GET /healthz", http.HandlerFunc(h.Health))
	mux.Handle("GET /metrics", promhttp.Handler())
}

// CreateGraph validates and stores a graph definition.
// POST /api/v1/graphs
func (h *Handler) CreateGraph(w http.ResponseWriter, r *http.Request) {
	var req CreateGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	// Every node must resolve to a registered tool before the graph is
	// accepted, so a run can never start with an unknown node.
	for _, node := range req.Nodes {
		if _, ok := h.registry.Lookup(node); !ok {
			BadRequest(w, "tool "+node+" not found")
			return
		}
	}

	def, err := req.Definition()
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	id, err := h.runner.CreateGraph(def)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, CreateGraphResponse{GraphID: id, Message: "Graph created"})
}

// ListGraphs returns the ids of all stored graphs.
// GET /api/v1/graphs
func (h *Handler) ListGraphs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.runner.ListGraphs()
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}
	List(w, ids, len(ids))
}

// CreateRun submits a run for the graph and executes it in the background.
// POST /api/v1/graphs/{id}/runs
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("id")

	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	runID, err := h.runner.Start(r.Context(), graphID, req.InitialState)
	if HandleStoreError(w, h.logger, err, "graph not found") {
		return
	}

	JSON(w, http.StatusAccepted, DataResponse{Data: CreateRunResponse{RunID: runID, Status: "queued"}})
}

// GetRun returns the current snapshot of a run.
// GET /api/v1/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := h.runner.Get(r.PathValue("id"))
	if HandleStoreError(w, h.logger, err, "run not found") {
		return
	}
	Success(w, RunFromRecord(rec))
}

// ListRuns returns snapshots of all runs.
// GET /api/v1/runs
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	recs, err := h.runner.ListRuns()
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	result := make([]RunResponse, len(recs))
	for i, rec := range recs {
		result[i] = RunFromRecord(rec)
	}

	List(w, result, len(result))
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
