package mcp

import (
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Sessions keeps one conversation per connected client.
	Sessions driving.SessionRegistry

	// Knowledge exposes the subject catalog. Optional: without it the
	// resources are empty.
	Knowledge driving.KnowledgeService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Sessions == nil {
		return ErrMissingSessionRegistry
	}
	return nil
}
