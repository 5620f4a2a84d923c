// Package mcp provides an MCP (Model Context Protocol) server adapter for tutorbot.
// It lets AI assistants ask the retrieval engine questions and browse the
// subject knowledge bases.
package mcp

import "errors"

// ErrMissingSessionRegistry is returned when the session registry is not provided.
var ErrMissingSessionRegistry = errors.New("mcp: session registry is required")
