// Package config loads daemon configuration from defaults, an optional
// YAML file, and FLOWGRAPH_-prefixed environment variables, in that order
// of precedence (later sources override earlier ones).
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	Engine EngineConfig `koanf:"engine"`
	Model  ModelConfig  `koanf:"model"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type EngineConfig struct {
	MaxIterations    int `koanf:"max_iterations"`
	SubscriberBuffer int `koanf:"subscriber_buffer"`
}

type ModelConfig struct {
	Provider string `koanf:"provider"` // "", openai, anthropic
	Name     string `koanf:"name"`
	APIKey   string `koanf:"api_key"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("server.addr", ":8080")
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("engine.max_iterations", 50)
	k.Set("engine.subscriber_buffer", 64)
	k.Set("model.provider", "")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (FLOWGRAPH_ENGINE_MAX_ITERATIONS -> engine.max_iterations).
	// Only the first underscore separates the section from the key; the
	// remainder stays verbatim because key names themselves contain
	// underscores.
	if err := k.Load(env.Provider("FLOWGRAPH_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "FLOWGRAPH_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
