package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tutorbot/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// idleSessionTimeout closes HTTP sessions whose client went away without
// ending them.
const idleSessionTimeout = 30 * time.Minute

// Server is the MCP server for tutorbot.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

const instructions = `Call "ask" with a study question to get the best matching answer.
Naming a subject (for example "java" or "dbms") switches the knowledge base
for your session. Call "reset" to return to the default subject.`

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Title:   "Study assistant",
		Name:    "tutorbot",
		Version: Version,
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(impl, &mcp.ServerOptions{
		Instructions:       instructions,
		InitializedHandler: s.forgetOnClose,
	})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// Each HTTP client gets its own session and therefore its own subject.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.httpHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	logger.Info("MCP server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// httpHandler serves the streamable HTTP transport.
func (s *Server) httpHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{SessionTimeout: idleSessionTimeout})
}

// forgetOnClose drops a client's conversation once its MCP session ends.
func (s *Server) forgetOnClose(_ context.Context, req *mcp.InitializedRequest) {
	if req == nil || req.Session == nil {
		return
	}
	session := req.Session
	id := session.ID()

	go func() {
		_ = session.Wait()
		s.ports.Sessions.Close(id)
		logger.Debug("MCP session %q ended (%d live)", id, s.ports.Sessions.Len())
	}()
}
