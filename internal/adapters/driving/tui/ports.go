// Package tui provides the chat window of tutorbot.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Conversation is the session the chat window talks to.
	Conversation driving.Conversation

	// Voice transcribes recorded questions and speaks replies. Optional.
	Voice driving.VoiceService

	// Knowledge lists subjects for the subjects view. Optional.
	Knowledge driving.KnowledgeService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Conversation == nil {
		return ErrMissingConversation
	}
	return nil
}
