package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("mock-1")
	m.AddResponse("hello", "world")

	resp, err := m.Complete(context.Background(), Request{Prompt: "hello"})
	assert.NoError(t, err)
	assert.Equal(t, "world", resp.Text)
}

func TestMockModel_EchoFallback(t *testing.T) {
	m := NewMockModel("mock-1")

	resp, err := m.Complete(context.Background(), Request{Prompt: "unknown"})
	assert.NoError(t, err)
	assert.Equal(t, "Mock response to: unknown", resp.Text)
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("mock-1")
	info := m.Info()
	assert.Equal(t, "mock-1", info.Name)
	assert.Equal(t, "mock", info.Provider)
}
