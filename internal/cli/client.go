package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Response types mirror the API wire format. The CLI deliberately does not
// import the server package.

// GraphCreated is the API response to creating a graph.
type GraphCreated struct {
	GraphID string `json:"graph_id"`
	Message string `json:"message"`
}

// RunCreated is the API response to starting a run.
type RunCreated struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// Run is a run record as returned by the API.
type Run struct {
	ID       string         `json:"id"`
	GraphID  string         `json:"graph_id"`
	Status   string         `json:"status"`
	State    map[string]any `json:"state"`
	History  []string       `json:"history"`
	Logs     []string       `json:"logs"`
	Error    string         `json:"error,omitempty"`
	Created  string         `json:"created"`
	Started  string         `json:"started,omitempty"`
	Finished string         `json:"finished,omitempty"`
}

// GraphSpec is the request body for creating a graph.
type GraphSpec struct {
	Nodes     []string    `json:"nodes"`
	StartNode string      `json:"start_node"`
	Edges     []GraphEdge `json:"edges"`
}

// GraphEdge is one edge in a GraphSpec.
type GraphEdge struct {
	Source    string            `json:"source"`
	Target    string            `json:"target,omitempty"`
	Condition string            `json:"condition,omitempty"`
	Mapping   map[string]string `json:"mapping,omitempty"`
}

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is the HTTP client for the flowgraph API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateGraph registers a graph definition.
func (c *Client) CreateGraph(spec GraphSpec) (*GraphCreated, error) {
	var created GraphCreated
	err := c.post("/api/v1/graphs", spec, &created)
	return &created, err
}

// ListGraphs returns all graph ids.
func (c *Client) ListGraphs() ([]string, error) {
	var ids []string
	err := c.list("/api/v1/graphs", nil, &ids)
	return ids, err
}

// StartRun submits a run for the graph.
func (c *Client) StartRun(graphID string, initialState map[string]any) (*RunCreated, error) {
	body := map[string]any{"initial_state": initialState}
	var created RunCreated
	err := c.post("/api/v1/graphs/"+graphID+"/runs", body, &created)
	return &created, err
}

// ListRuns returns all runs.
func (c *Client) ListRuns() ([]Run, error) {
	var runs []Run
	err := c.list("/api/v1/runs", nil, &runs)
	return runs, err
}

// GetRun returns a run by id.
func (c *Client) GetRun(id string) (*Run, error) {
	var run Run
	err := c.get("/api/v1/runs/"+id, &run)
	return &run, err
}

// WatchRun streams log lines of a run over the websocket endpoint, calling
// fn for every received text message until the server closes the stream.
func (c *Client) WatchRun(id string, fn func(line string)) error {
	wsURL, err := c.websocketURL("/api/v1/runs/" + id + "/stream")
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				return nil
			}
			if strings.Contains(err.Error(), "use of closed") || err == io.EOF {
				return nil
			}
			return err
		}
		fn(string(msg))
	}
}

func (c *Client) websocketURL(path string) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	return u.String(), nil
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
