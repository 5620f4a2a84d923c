package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// Ensure Conversation implements the interface.
var _ driving.Conversation = (*Conversation)(nil)

// Conversation binds one session to a retrieval engine for single-user
// adapters. Turns are serialised.
type Conversation struct {
	mu      sync.Mutex
	engine  driving.RetrievalEngine
	session domain.Session
}

// StartConversation starts a conversation on the default subject.
// An empty id is replaced by a random UUID.
//
// When the default knowledge base is corrupt the conversation is still
// returned (with no knowledge) alongside the error.
func StartConversation(ctx context.Context, engine driving.RetrievalEngine, id string) (*Conversation, error) {
	if id == "" {
		id = uuid.NewString()
	}

	session, err := engine.Start(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrKnowledgeBaseCorrupt) {
		return nil, err
	}

	return &Conversation{
		engine:  engine,
		session: session,
	}, err
}

// ID returns the session identifier.
func (c *Conversation) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID
}

// Ask submits one turn and returns the reply.
func (c *Conversation) Ask(ctx context.Context, input string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, reply := c.engine.Answer(ctx, c.session, input)
	if next.Subject != c.session.Subject {
		logger.Debug("Conversation %s now on %s", c.session.ID, next.Subject)
	}
	c.session = next
	return reply
}

// Subject returns the active subject.
func (c *Conversation) Subject() domain.Subject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Subject
}

// Session returns a snapshot of the current session.
func (c *Conversation) Session() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}
