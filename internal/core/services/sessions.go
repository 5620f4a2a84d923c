package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// Ensure SessionRegistry implements the interface.
var _ driving.SessionRegistry = (*SessionRegistry)(nil)

// SessionRegistry gives every session ID its own conversation, so
// concurrent clients never share a subject or knowledge base.
type SessionRegistry struct {
	mu            sync.Mutex
	engine        driving.RetrievalEngine
	conversations map[string]*Conversation
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(engine driving.RetrievalEngine) *SessionRegistry {
	return &SessionRegistry{
		engine:        engine,
		conversations: make(map[string]*Conversation),
	}
}

// Get returns the conversation for id, starting one on first use.
// A corrupt default knowledge base is logged and the conversation starts
// without knowledge.
func (r *SessionRegistry) Get(ctx context.Context, id string) (driving.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conv, ok := r.conversations[id]; ok {
		return conv, nil
	}

	conv, err := StartConversation(ctx, r.engine, id)
	if err != nil {
		if !errors.Is(err, domain.ErrKnowledgeBaseCorrupt) {
			return nil, err
		}
		logger.Warn("Session %q started without knowledge: %v", id, err)
	}

	r.conversations[id] = conv
	logger.Debug("Session %q started (%d live)", id, len(r.conversations))
	return conv, nil
}

// Close forgets the conversation for id.
func (r *SessionRegistry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conversations, id)
}

// Len returns the number of live conversations.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conversations)
}
