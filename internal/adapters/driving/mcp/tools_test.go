package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

func newTestServer(t *testing.T, registry *mockSessionRegistry) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Sessions: registry})
	require.NoError(t, err)
	return server
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the reply", func(t *testing.T) {
		registry := newMockSessionRegistry(map[string]string{"what is a stack": "A LIFO list."})
		server := newTestServer(t, registry)

		result, output, err := server.handleAsk(ctx, nil, AskInput{Question: "  what is a stack "})

		require.NoError(t, err)
		assert.Equal(t, "A LIFO list.", output.Reply)
		assert.Equal(t, "default", output.Subject)
		assert.False(t, output.Switched)
		require.NotNil(t, result)
		require.Len(t, result.Content, 1)
		assert.Equal(t, "A LIFO list.", result.Content[0].(*mcp.TextContent).Text)
	})

	t.Run("reports subject switches", func(t *testing.T) {
		server := newTestServer(t, newMockSessionRegistry(nil))

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "switch java"})

		require.NoError(t, err)
		assert.True(t, output.Switched)
		assert.Equal(t, "java", output.Subject)
		assert.Equal(t, domain.SwitchConfirmation("java"), output.Reply)
	})

	t.Run("switching to the active subject is a switch", func(t *testing.T) {
		server := newTestServer(t, newMockSessionRegistry(nil))

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "switch default"})

		require.NoError(t, err)
		assert.True(t, output.Switched)
		assert.Equal(t, "default", output.Subject)
		assert.Equal(t, domain.SwitchConfirmation(domain.DefaultSubject), output.Reply)
	})

	t.Run("session persists across calls", func(t *testing.T) {
		registry := newMockSessionRegistry(nil)
		server := newTestServer(t, registry)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "switch dbms"})
		require.NoError(t, err)
		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "anything"})
		require.NoError(t, err)

		assert.Equal(t, "dbms", output.Subject)
		assert.False(t, output.Switched)
		assert.Equal(t, []string{""}, registry.started)
	})

	t.Run("empty question is rejected", func(t *testing.T) {
		registry := newMockSessionRegistry(nil)
		server := newTestServer(t, registry)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "   "})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, registry.started, "no session for rejected input")
	})

	t.Run("registry failure", func(t *testing.T) {
		registry := newMockSessionRegistry(nil)
		registry.err = errors.New("disk gone")
		server := newTestServer(t, registry)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "hello"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk gone")
	})
}

func TestServer_handleReset(t *testing.T) {
	ctx := context.Background()
	registry := newMockSessionRegistry(nil)
	server := newTestServer(t, registry)

	_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "switch ai"})
	require.NoError(t, err)

	_, output, err := server.handleReset(ctx, nil, ResetInput{})

	require.NoError(t, err)
	assert.Equal(t, "default", output.Subject)
	assert.Equal(t, []string{""}, registry.closed)
	assert.Equal(t, 1, registry.Len())
}

func TestSessionID(t *testing.T) {
	assert.Empty(t, sessionID(nil))
	assert.Empty(t, sessionID(&mcp.CallToolRequest{}))
}
