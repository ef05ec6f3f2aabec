// Package engine implements graph traversal: resolve the node's tool,
// invoke it, merge the returned partial state, log the step, and resolve
// the next node, until a terminal is reached or the iteration guard trips.
//
// Node execution within a run is strictly sequential. State is shared and
// mutated in place and each node's input is the previous node's output, so
// there is nothing to parallelize inside one traversal; concurrency exists
// only across runs, each with its own isolated state.
package engine

import (
	"context"
	"fmt"

	"github.com/hupe1980/flowgraph/core"
	"github.com/hupe1980/flowgraph/graph"
	"github.com/hupe1980/flowgraph/logging"
	"github.com/hupe1980/flowgraph/tool"
)

// Config defines tuning parameters for traversal behavior.
type Config struct {
	// MaxIterations caps the number of node invocations in one run.
	// Conditional targets are arbitrary runtime functions of state and
	// cannot be proven to terminate, so exhausting the cap fails the run
	// with a LoopLimitError. Set to 0 to use the default.
	MaxIterations int
}

// DefaultConfig provides the default traversal limits.
var DefaultConfig = Config{
	MaxIterations: 50,
}

// Options configures an Engine instance.
type Options struct {
	// Config contains traversal parameters. Defaults to DefaultConfig.
	Config Config

	// Logger provides structured logging. Defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// Engine drives graph traversal. It is stateless between runs and safe for
// concurrent use: any number of runs may execute through one Engine at once,
// each against its own state, history and logs.
type Engine struct {
	config Config
	logger logging.Logger
}

// New creates an Engine with optional overrides.
//
// Example:
//
//	eng := engine.New(func(o *engine.Options) {
//	    o.Config.MaxIterations = 200
//	    o.Logger = myLogger
//	})
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Config.MaxIterations <= 0 {
		opts.Config.MaxIterations = DefaultConfig.MaxIterations
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Engine{config: opts.Config, logger: opts.Logger}
}

// MaxIterations returns the configured iteration guard.
func (e *Engine) MaxIterations() int { return e.config.MaxIterations }

// Result carries the outcome of a traversal: the final (or last good)
// state, the ordered history of executed node names, and the collected log
// lines. On failure the result reflects everything up to but excluding the
// failing step.
type Result struct {
	State   core.State
	History []string
	Logs    []string
}

// Run traverses the graph from its start node against a copy of
// initialState. Exactly one of two outcomes occurs: a nil error with the
// completed result, or a non-nil error (UnknownNodeError, *tool.ToolError,
// MissingStateKeyError, UnmappedTransitionError, LoopLimitError) with the
// partial result accumulated before the failure. Run never panics and the
// error never reflects a crashed process; a failed run is a normal,
// observable outcome for the caller to record.
//
// Each executed step appends one history entry and one log line; the log
// line is handed to sink synchronously before the next node resolves. Sink
// may be nil for fire-and-forget batch execution; the collected logs are
// returned either way, which is what lets the same traversal serve batch
// and streaming consumers.
//
// ctx is forwarded to tool invocations for their own I/O; the traversal
// loop itself does not abort on ctx cancellation. Once started, a run
// always reaches a completed or failed outcome.
func (e *Engine) Run(
	ctx context.Context,
	def *graph.Definition,
	registry *tool.Registry,
	initialState core.State,
	sink core.LogSink,
) (*Result, error) {
	state := initialState.Clone()
	if state == nil {
		state = core.State{}
	}

	res := &Result{State: state}

	emit := func(line string) {
		res.Logs = append(res.Logs, line)
		if sink != nil {
			sink.Emit(line)
		}
	}

	current := def.Start()

	for len(res.History) < e.config.MaxIterations {
		t, ok := registry.Lookup(current)
		if !ok {
			e.logger.Warn("engine.run.unknown_node node=%s", current)
			return res, &core.UnknownNodeError{Node: current}
		}

		partial, err := t.Call(ctx, state)
		if err != nil {
			e.logger.Warn("engine.run.tool_failed node=%s err=%v", current, err)
			return res, err
		}
		state.Merge(partial)

		res.History = append(res.History, current)
		emit(fmt.Sprintf("Step %d: Executing '%s'", len(res.History), current))
		e.logger.Debug("engine.run.step n=%d node=%s", len(res.History), current)

		next, err := def.Next(current, state)
		if err != nil {
			e.logger.Warn("engine.run.resolve_failed node=%s err=%v", current, err)
			return res, err
		}
		if next == graph.End {
			emit("Execution finished")
			e.logger.Debug("engine.run.completed steps=%d", len(res.History))
			return res, nil
		}
		current = next
	}

	err := &core.LoopLimitError{Limit: e.config.MaxIterations}
	e.logger.Warn("engine.run.loop_limit limit=%d", e.config.MaxIterations)
	return res, err
}
