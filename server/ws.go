package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/hupe1980/flowgraph/core"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API carries no credentials, so cross-origin reads are harmless.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamRun streams the log lines of an existing run over a websocket,
// one text message per line, and closes once the run is terminal. For an
// already finished run the stored log history is replayed. The final run
// snapshot is sent as a JSON text message before closing.
// GET /api/v1/runs/{id}/stream
func (h *Handler) StreamRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")

	lines, err := h.runner.Subscribe(runID)
	if HandleStoreError(w, h.logger, err, "run not found") {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if err := h.forward(conn, lines); err != nil {
		return
	}

	h.sendFinalSnapshot(conn, runID)
}

// StreamGraphRun starts a fresh run for the graph and streams its log
// lines live. The client sends one JSON message with the initial state,
// then receives a text message per log line, a completion marker, and the
// final run snapshot.
// GET /api/v1/graphs/{id}/stream
func (h *Handler) StreamGraphRun(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("id")

	if _, err := h.runner.GetGraph(graphID); err != nil {
		HandleStoreError(w, h.logger, err, "graph not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var req CreateRunRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("Error: invalid initial state"))
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf("--- Connected to Graph %s ---", graphID))); err != nil {
		return
	}

	runID, err := h.runner.Start(r.Context(), graphID, req.InitialState)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf("Error: %s", err)))
		return
	}

	lines, err := h.runner.Subscribe(runID)
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(fmt.Sprintf("Error: %s", err)))
		return
	}

	if err := h.forward(conn, lines); err != nil {
		return
	}

	h.sendFinalSnapshot(conn, runID)
}

// forward writes every line to the connection until lines is closed.
func (h *Handler) forward(conn *websocket.Conn, lines <-chan string) error {
	for line := range lines {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return err
		}
	}
	return nil
}

// sendFinalSnapshot sends the completion marker and the terminal run
// record as a JSON text message.
func (h *Handler) sendFinalSnapshot(conn *websocket.Conn, runID string) {
	rec, err := h.runner.Get(runID)
	if err != nil {
		return
	}

	marker := "--- Run Complete ---"
	if rec.Status == core.StatusFailed {
		marker = "--- Run Failed ---"
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(marker)); err != nil {
		return
	}

	payload, err := json.Marshal(RunFromRecord(rec))
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
