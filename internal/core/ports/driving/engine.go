package driving

import (
	"context"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

// RetrievalEngine resolves one user input to one reply.
//
// The engine is stateless: the caller owns the session and passes it in on
// every turn, receiving the (possibly switched) session back.
type RetrievalEngine interface {
	// Start creates a session with the default subject's knowledge loaded.
	Start(ctx context.Context, id string) (domain.Session, error)

	// Answer routes the input to a subject switch or to the best matching
	// answer. It never fails: anticipated conditions map to fixed replies.
	Answer(ctx context.Context, session domain.Session, input string) (domain.Session, string)
}

// Conversation is a single user's chat session bound to an engine.
// Turns are serialised; one input is fully resolved before the next.
type Conversation interface {
	// ID returns the session identifier.
	ID() string

	// Ask submits one turn and returns the reply.
	Ask(ctx context.Context, input string) string

	// Subject returns the active subject.
	Subject() domain.Subject

	// Session returns a snapshot of the current session.
	Session() domain.Session
}

// SessionRegistry keeps independent conversations keyed by session ID.
type SessionRegistry interface {
	// Get returns the conversation for id, starting one if needed.
	Get(ctx context.Context, id string) (Conversation, error)

	// Close forgets the conversation for id.
	Close(id string)

	// Len returns the number of live conversations.
	Len() int
}

// Explanation describes how an input would be resolved.
type Explanation struct {
	// Subject is the switch target, or the session subject when matching.
	Subject domain.Subject

	// Switch is true if the input names a subject.
	Switch bool

	// Question is the best matching question phrasing.
	Question string

	// RecordIndex is the position of the matched record.
	RecordIndex int

	// Score is the cosine similarity of the matched question.
	Score float64
}

// AnswerExplainer reports how an input would be resolved without
// changing the session.
type AnswerExplainer interface {
	// Explain returns the routing or matching decision for input.
	Explain(ctx context.Context, session domain.Session, input string) (Explanation, error)
}
