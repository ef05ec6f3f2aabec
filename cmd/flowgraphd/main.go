// Command flowgraphd runs the graph execution daemon: it loads the
// configuration, registers the built-in text tools, preloads the demo
// summarization graph and serves the HTTP and websocket APIs until
// interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/flowgraph"
	"github.com/hupe1980/flowgraph/config"
	"github.com/hupe1980/flowgraph/engine"
	"github.com/hupe1980/flowgraph/graph"
	"github.com/hupe1980/flowgraph/logging"
	"github.com/hupe1980/flowgraph/model"
	"github.com/hupe1980/flowgraph/model/anthropic"
	"github.com/hupe1980/flowgraph/model/openai"
	"github.com/hupe1980/flowgraph/server"
	"github.com/hupe1980/flowgraph/tool"
)

const demoGraphID = "demo-summary"

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.ParseLevel(cfg.Log.Level),
		Format:    cfg.Log.Format,
		Output:    os.Stdout,
		Component: "flowgraphd",
	})
	logger.Info("starting flowgraphd addr=%s", cfg.Server.Addr)

	registry := tool.NewRegistry()
	tool.RegisterTextTools(registry)

	if cfg.Model.Provider != "" {
		m, err := buildModel(cfg)
		if err != nil {
			logger.Error("failed to build model: %v", err)
			os.Exit(1)
		}
		registry.Register(tool.NewModelSummarizeTool(m))
		logger.Info("model tool registered provider=%s model=%s", cfg.Model.Provider, m.Info().Name)
	}

	fg := flowgraph.New(func(o *flowgraph.Options) {
		o.EngineConfig = engine.Config{MaxIterations: cfg.Engine.MaxIterations}
		o.SubscriberBuffer = cfg.Engine.SubscriberBuffer
		o.Registry = registry
		o.Logger = logger
	})

	if err := preloadDemoGraph(fg); err != nil {
		logger.Error("failed to preload demo graph: %v", err)
		os.Exit(1)
	}
	logger.Info("demo graph ready graph_id=%s", demoGraphID)

	srv := server.New(fg.Runner(), registry, func(o *server.Options) {
		o.Addr = cfg.Server.Addr
		o.Logger = logger
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server error: %v", err)
		os.Exit(1)
	}

	logger.Info("stopped")
}

func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Model.Provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
			o.APIKey = cfg.Model.APIKey
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}

// preloadDemoGraph registers the summarization pipeline: split, summarize,
// merge, then refine in a loop until the refine step flips status to stop.
func preloadDemoGraph(fg *flowgraph.FlowGraph) error {
	def, err := graph.New(
		[]string{"split_text", "summarize_chunks", "merge_summaries", "refine_summary"},
		"split_text",
		[]graph.Edge{
			{Source: "split_text", Target: "summarize_chunks"},
			{Source: "summarize_chunks", Target: "merge_summaries"},
			{Source: "merge_summaries", Target: "refine_summary"},
			{Source: "refine_summary", Condition: "status", Mapping: map[string]string{
				"continue": "refine_summary",
				"stop":     graph.End,
			}},
		},
	)
	if err != nil {
		return err
	}

	return fg.RegisterGraph(demoGraphID, def)
}
