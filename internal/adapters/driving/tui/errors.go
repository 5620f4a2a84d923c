package tui

import "errors"

// ErrMissingConversation is returned when the conversation is not provided.
var ErrMissingConversation = errors.New("tui: conversation is required")
