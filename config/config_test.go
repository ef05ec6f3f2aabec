package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	assert.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 50, cfg.Engine.MaxIterations)
	assert.Equal(t, 64, cfg.Engine.SubscriberBuffer)
	assert.Equal(t, "", cfg.Model.Provider)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlCfg := `
server:
  addr: ":9090"
log:
  level: debug
engine:
  max_iterations: 100
model:
  provider: openai
  name: gpt-4o
`
	assert.NoError(t, os.WriteFile(path, []byte(yamlCfg), 0o600))

	cfg, err := Load(path)
	assert.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 100, cfg.Engine.MaxIterations)
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	// Untouched keys keep their defaults.
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 64, cfg.Engine.SubscriberBuffer)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("FLOWGRAPH_SERVER_ADDR", ":7070")
	t.Setenv("FLOWGRAPH_LOG_LEVEL", "warn")
	t.Setenv("FLOWGRAPH_ENGINE_MAX_ITERATIONS", "123")
	t.Setenv("FLOWGRAPH_MODEL_API_KEY", "sk-test")

	cfg, err := Load("")
	assert.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	// Keys with underscores in their own name still resolve; only the
	// section separator becomes a dot.
	assert.Equal(t, 123, cfg.Engine.MaxIterations)
	assert.Equal(t, "sk-test", cfg.Model.APIKey)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o600))

	t.Setenv("FLOWGRAPH_SERVER_ADDR", ":6060")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Server.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
