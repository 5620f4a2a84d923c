package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer, or a subject name to switch to"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Reply    string `json:"reply"`
	Subject  string `json:"subject"`
	Switched bool   `json:"switched"`
}

// ResetInput is the input schema for the reset tool.
type ResetInput struct{}

// ResetOutput is the output schema for the reset tool.
type ResetOutput struct {
	Subject string `json:"subject"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ask",
		Description: "Answer a study question from the active subject's knowledge base. " +
			"Mentioning a subject name switches the session to that subject.",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset",
		Description: "Forget this session's subject and start again on the default subject",
	}, s.handleReset)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, AskOutput{}, fmt.Errorf("question: %w", domain.ErrInvalidInput)
	}

	conv, err := s.ports.Sessions.Get(ctx, sessionID(req))
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("starting session: %w", err)
	}

	before := conv.Session().Switches
	reply := conv.Ask(ctx, question)
	after := conv.Session()

	return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: reply}},
		}, AskOutput{
			Reply:    reply,
			Subject:  after.Subject.String(),
			Switched: after.Switches != before,
		}, nil
}

// handleReset handles the reset tool invocation.
func (s *Server) handleReset(
	ctx context.Context,
	req *mcp.CallToolRequest,
	_ ResetInput,
) (*mcp.CallToolResult, ResetOutput, error) {
	id := sessionID(req)
	s.ports.Sessions.Close(id)

	conv, err := s.ports.Sessions.Get(ctx, id)
	if err != nil {
		return nil, ResetOutput{}, fmt.Errorf("starting session: %w", err)
	}
	return nil, ResetOutput{Subject: conv.Subject().String()}, nil
}

// sessionID identifies the calling client. Stdio has a single client and
// no session ID, so it maps to the empty key.
func sessionID(req *mcp.CallToolRequest) string {
	if req == nil || req.Session == nil {
		return ""
	}
	return req.Session.ID()
}
