// Package flowgraph provides a high-level façade over the graph engine and
// run lifecycle services. Most applications interact with this package by:
//  1. Creating a FlowGraph via New() (optionally overriding default in-memory stores)
//  2. Registering tools and graph definitions
//  3. Starting runs (Start) or driving them explicitly (Submit + Execute),
//     observing progress via Get and Subscribe
//
// The façade delegates traversal to engine.Engine and lifecycle tracking to
// runner.Runner while keeping setup ergonomics concise. All defaults are
// safe for local development and testing; production deployments typically
// supply a structured logger and tuned engine limits.
package flowgraph

import (
	"context"

	"github.com/hupe1980/flowgraph/core"
	"github.com/hupe1980/flowgraph/engine"
	"github.com/hupe1980/flowgraph/graph"
	"github.com/hupe1980/flowgraph/graphstore"
	"github.com/hupe1980/flowgraph/logging"
	"github.com/hupe1980/flowgraph/runner"
	"github.com/hupe1980/flowgraph/runstore"
	"github.com/hupe1980/flowgraph/tool"
)

// Options configures the FlowGraph instance.
type Options struct {
	// Engine configuration (iteration guard)
	EngineConfig engine.Config

	// SubscriberBuffer sets the per-subscriber log line buffer. Slow
	// subscribers beyond this lag lose lines rather than stalling runs.
	SubscriberBuffer int

	// Stores (defaults to in-memory implementations if not provided)
	GraphStore graph.Store
	RunStore   core.RunStore

	// Registry holds the executable tools (defaults to an empty registry)
	Registry *tool.Registry

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// FlowGraph is the high-level façade aggregating the runner and its stores.
type FlowGraph struct {
	opts     Options
	registry *tool.Registry
	runner   *runner.Runner
}

// New creates a new FlowGraph instance with optional overrides. Any unset
// store is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *FlowGraph {
	opts := Options{
		EngineConfig:     engine.DefaultConfig,
		SubscriberBuffer: 64,
		GraphStore:       graphstore.NewInMemoryStore(),
		RunStore:         runstore.NewInMemoryStore(),
		Registry:         tool.NewRegistry(),
		Logger:           logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Registry == nil {
		opts.Registry = tool.NewRegistry()
	}

	r := runner.New(opts.Registry, func(o *runner.Options) {
		o.EngineConfig = opts.EngineConfig
		o.SubscriberBuffer = opts.SubscriberBuffer
		o.GraphStore = opts.GraphStore
		o.RunStore = opts.RunStore
		o.Logger = opts.Logger
	})

	return &FlowGraph{opts: opts, registry: opts.Registry, runner: r}
}

// Registry returns the tool registry for registering additional tools.
func (f *FlowGraph) Registry() *tool.Registry { return f.registry }

// Runner returns the underlying run lifecycle manager.
func (f *FlowGraph) Runner() *runner.Runner { return f.runner }

// RegisterTool adds a tool to the registry.
func (f *FlowGraph) RegisterTool(t tool.Tool) { f.registry.Register(t) }

// CreateGraph stores a validated definition and returns its id.
func (f *FlowGraph) CreateGraph(def *graph.Definition) (string, error) {
	return f.runner.CreateGraph(def)
}

// RegisterGraph stores a definition under a caller-chosen id.
func (f *FlowGraph) RegisterGraph(id string, def *graph.Definition) error {
	return f.runner.RegisterGraph(id, def)
}

// Start submits a run and executes it in the background, returning the run
// id immediately.
func (f *FlowGraph) Start(ctx context.Context, graphID string, initialState core.State) (string, error) {
	return f.runner.Start(ctx, graphID, initialState)
}

// Submit allocates a queued run without executing it.
func (f *FlowGraph) Submit(graphID string, initialState core.State) (string, error) {
	return f.runner.Submit(graphID, initialState)
}

// Execute drives a queued run to its terminal status, blocking until done.
func (f *FlowGraph) Execute(ctx context.Context, runID string) error {
	return f.runner.Execute(ctx, runID)
}

// Get returns a snapshot of a run record.
func (f *FlowGraph) Get(runID string) (*core.RunRecord, error) {
	return f.runner.Get(runID)
}

// Subscribe returns a channel of log lines for a run, closed once the run
// is terminal.
func (f *FlowGraph) Subscribe(runID string) (<-chan string, error) {
	return f.runner.Subscribe(runID)
}
