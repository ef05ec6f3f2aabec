// Package runner coordinates run lifecycles across concurrently executing
// runs: it stores graph definitions, allocates run records, drives the
// engine with a log sink that feeds both the record's log history and any
// live subscribers, and finalizes records when traversal ends.
package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/flowgraph/core"
	"github.com/hupe1980/flowgraph/engine"
	"github.com/hupe1980/flowgraph/graph"
	"github.com/hupe1980/flowgraph/graphstore"
	"github.com/hupe1980/flowgraph/logging"
	"github.com/hupe1980/flowgraph/runstore"
	"github.com/hupe1980/flowgraph/telemetry"
	"github.com/hupe1980/flowgraph/tool"
)

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// EngineConfig tunes traversal (iteration guard). Defaults to
	// engine.DefaultConfig.
	EngineConfig engine.Config

	// SubscriberBuffer sets the bounded per-subscriber line buffer. When a
	// subscriber falls behind by more than this many lines, further lines
	// are dropped for that subscriber only; the run is never stalled.
	SubscriberBuffer int

	// GraphStore persists graph definitions. Defaults to in-memory.
	GraphStore graph.Store

	// RunStore persists run records. Defaults to in-memory.
	RunStore core.RunStore

	// Logger provides structured logging. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Runner tracks the lifecycle of every run in the process: queued records,
// in-flight executions, terminal outcomes, and the live log subscribers of
// each run. Public methods are safe for concurrent use; each run executes
// against its own isolated state, so runs never contend except on the
// internal stores.
type Runner struct {
	engine   *engine.Engine
	registry *tool.Registry
	graphs   graph.Store
	runs     core.RunStore
	logger   logging.Logger

	subBuffer   int
	mu          sync.Mutex
	subscribers map[string][]*core.ChannelSink
}

// New constructs a Runner executing tools from registry, with optional
// overrides.
func New(registry *tool.Registry, optFns ...func(o *Options)) *Runner {
	opts := Options{
		EngineConfig:     engine.DefaultConfig,
		SubscriberBuffer: 64,
		GraphStore:       graphstore.NewInMemoryStore(),
		RunStore:         runstore.NewInMemoryStore(),
		Logger:           logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.SubscriberBuffer <= 0 {
		opts.SubscriberBuffer = 64
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Runner{
		engine: engine.New(func(o *engine.Options) {
			o.Config = opts.EngineConfig
			o.Logger = opts.Logger
		}),
		registry:    registry,
		graphs:      opts.GraphStore,
		runs:        opts.RunStore,
		logger:      opts.Logger,
		subBuffer:   opts.SubscriberBuffer,
		subscribers: make(map[string][]*core.ChannelSink),
	}
}

// MaxIterations returns the engine's iteration guard.
func (r *Runner) MaxIterations() int { return r.engine.MaxIterations() }

// CreateGraph stores a validated definition under a fresh id.
func (r *Runner) CreateGraph(def *graph.Definition) (string, error) {
	id := uuid.NewString()
	if err := r.graphs.Put(id, def); err != nil {
		return "", fmt.Errorf("failed to store graph: %w", err)
	}
	r.logger.Info("runner.graph.created graph_id=%s nodes=%d", id, len(def.Nodes()))
	return id, nil
}

// RegisterGraph stores a definition under a caller-chosen id, overwriting
// any previous definition. Useful for preloading well-known graphs.
func (r *Runner) RegisterGraph(id string, def *graph.Definition) error {
	return r.graphs.Put(id, def)
}

// GetGraph returns a stored definition, or graph.ErrNotFound.
func (r *Runner) GetGraph(id string) (*graph.Definition, error) {
	return r.graphs.Get(id)
}

// ListGraphs returns the stored graph ids.
func (r *Runner) ListGraphs() ([]string, error) {
	return r.graphs.List()
}

// Submit allocates a queued run record for graphID and returns its run id
// immediately; no node executes until Execute is called.
func (r *Runner) Submit(graphID string, initialState core.State) (string, error) {
	if _, err := r.graphs.Get(graphID); err != nil {
		return "", err
	}

	rec := core.NewRunRecord(uuid.NewString(), graphID, initialState)
	if err := r.runs.Create(rec); err != nil {
		return "", fmt.Errorf("failed to store run record: %w", err)
	}

	telemetry.RunsSubmitted.Inc()
	r.logger.Info("runner.run.submitted run_id=%s graph_id=%s", rec.ID, graphID)

	return rec.ID, nil
}

// Execute drives a previously submitted run to its terminal status. It
// blocks until traversal ends; callers wanting fire-and-forget semantics
// use Start.
//
// Execution-time failures (unknown node, tool error, unresolvable
// transition, loop limit) do not surface as a returned error: they are
// recorded as status=failed on the run record, observable via Get and the
// log stream. The returned error covers infrastructure problems only: an
// unknown run id, a vanished graph, or a run that is not in the queued
// state.
func (r *Runner) Execute(ctx context.Context, runID string) error {
	rec, err := r.runs.Get(runID)
	if err != nil {
		return err
	}

	def, err := r.graphs.Get(rec.GraphID)
	if err != nil {
		return fmt.Errorf("graph %s for run %s: %w", rec.GraphID, runID, err)
	}

	// The queued check and the running transition happen inside one Update
	// so only a single Execute can claim the run; concurrent calls observe
	// the claimed status and back off.
	prev := rec.Status
	if err := r.runs.Update(runID, func(rec *core.RunRecord) {
		prev = rec.Status
		if prev == core.StatusQueued {
			rec.MarkRunning()
		}
	}); err != nil {
		return err
	}
	if prev != core.StatusQueued {
		return fmt.Errorf("run %s is %s, not %s", runID, prev, core.StatusQueued)
	}

	logger := r.logger
	if fl, ok := r.logger.(*logging.FlowLogger); ok {
		logger = fl.WithRun(rec.GraphID, runID)
	}
	logger.Info("runner.run.started run_id=%s", runID)

	// One sink serves both consumers: every line lands in the record's
	// log history and is fanned out to live subscribers in the same
	// synchronous call. Both happen under mu so a concurrent Subscribe
	// sees each line exactly once, via replay or via fanout, never both.
	sink := core.FuncSink(func(line string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		_ = r.runs.Update(runID, func(rec *core.RunRecord) {
			rec.Logs = append(rec.Logs, line)
		})
		for _, sub := range r.subscribers[runID] {
			sub.Emit(line)
		}
	})

	res, runErr := r.engine.Run(ctx, def, r.registry, rec.State, sink)

	telemetry.StepsExecuted.Add(float64(len(res.History)))

	if runErr != nil {
		sink.Emit(fmt.Sprintf("Execution failed: %s", runErr))
	}

	finalize := func(rec *core.RunRecord) {
		if runErr != nil {
			rec.MarkFailed(runErr.Error(), res.State, res.History, append(res.Logs, fmt.Sprintf("Execution failed: %s", runErr)))
			return
		}
		rec.MarkCompleted(res.State, res.History, res.Logs)
	}
	if err := r.runs.Update(runID, finalize); err != nil {
		return err
	}

	if final, err := r.runs.Get(runID); err == nil {
		telemetry.RunDuration.Observe(final.Duration().Seconds())
	}
	if runErr != nil {
		telemetry.RunsFailed.Inc()
		logger.Warn("runner.run.failed run_id=%s err=%v", runID, runErr)
	} else {
		telemetry.RunsCompleted.Inc()
		logger.Info("runner.run.completed run_id=%s steps=%d", runID, len(res.History))
	}

	r.closeSubscribers(runID)

	return nil
}

// Start submits a run and executes it in the background, returning the run
// id immediately. The execution is detached from ctx's cancellation: once
// started, a run always reaches completed or failed.
func (r *Runner) Start(ctx context.Context, graphID string, initialState core.State) (string, error) {
	runID, err := r.Submit(graphID, initialState)
	if err != nil {
		return "", err
	}

	go func() {
		if err := r.Execute(context.WithoutCancel(ctx), runID); err != nil {
			r.logger.Error("runner.run.execute run_id=%s err=%v", runID, err)
		}
	}()

	return runID, nil
}

// Get returns a snapshot of the run record, safe to call concurrently with
// an in-progress Execute. It never errors because a run failed; failure is
// data on the record.
func (r *Runner) Get(runID string) (*core.RunRecord, error) {
	return r.runs.Get(runID)
}

// ListRuns returns snapshots of all run records.
func (r *Runner) ListRuns() ([]*core.RunRecord, error) {
	return r.runs.List()
}

// Subscribe returns a channel of log lines for the run, delivered in real
// time until the run reaches a terminal status, after which the channel is
// closed. Lines produced before subscribing are replayed first. Subscribing
// to an already finished run replays its log history and closes
// immediately. A slow consumer loses lines beyond its bounded buffer; it
// never stalls the run.
func (r *Runner) Subscribe(runID string) (<-chan string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.runs.Get(runID)
	if err != nil {
		return nil, err
	}

	sink := core.NewChannelSink(r.subBuffer + len(rec.Logs))
	for _, line := range rec.Logs {
		sink.Emit(line)
	}

	if rec.Status.IsTerminal() {
		sink.Close()
		return sink.Lines(), nil
	}

	r.subscribers[runID] = append(r.subscribers[runID], sink)

	return sink.Lines(), nil
}

func (r *Runner) closeSubscribers(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sink := range r.subscribers[runID] {
		sink.Close()
	}
	delete(r.subscribers, runID)
}
