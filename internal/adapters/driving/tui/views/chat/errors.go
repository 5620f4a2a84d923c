package chat

import "errors"

// ErrNoConversation is returned when the view has no session to talk to.
var ErrNoConversation = errors.New("no conversation configured")
