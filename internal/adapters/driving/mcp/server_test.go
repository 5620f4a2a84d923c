package mcp

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil session registry returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingSessionRegistry)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Sessions: newMockSessionRegistry(nil)})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil session registry returns error", func(t *testing.T) {
		assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingSessionRegistry)
	})

	t.Run("sessions only is valid", func(t *testing.T) {
		assert.NoError(t, (&Ports{Sessions: newMockSessionRegistry(nil)}).Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Sessions:  newMockSessionRegistry(nil),
			Knowledge: &mockKnowledgeService{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_HTTPSessionsEnd(t *testing.T) {
	registry := newMockSessionRegistry(map[string]string{"hello": "Hi!"})
	server := newTestServer(t, registry)

	httpServer := httptest.NewServer(server.httpHandler())
	defer httpServer.Close()

	ctx := context.Background()
	const clients = 5

	for i := 0; i < clients; i++ {
		client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
		cs, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: httpServer.URL}, nil)
		require.NoError(t, err)

		result, err := cs.CallTool(ctx, &mcp.CallToolParams{
			Name:      "ask",
			Arguments: map[string]any{"question": "hello"},
		})
		require.NoError(t, err)
		require.False(t, result.IsError)

		require.NoError(t, cs.Close())
	}

	assert.Eventually(t, func() bool {
		return registry.Len() == 0 && len(registry.closedIDs()) == clients
	}, 5*time.Second, 10*time.Millisecond, "conversations of ended clients are dropped")
	assert.Len(t, registry.started, clients)
}
