package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// Ensure RetrievalEngine implements the interfaces.
var (
	_ driving.RetrievalEngine = (*RetrievalEngine)(nil)
	_ driving.AnswerExplainer = (*RetrievalEngine)(nil)
)

// RetrievalEngine turns one user input into one reply by composing the
// subject router, the knowledge store and the similarity matcher.
//
// The engine holds no conversation state. Callers pass the session in and
// keep the session returned by Answer.
type RetrievalEngine struct {
	store   driven.KnowledgeStore
	router  *SubjectRouter
	matcher *Matcher
}

// NewRetrievalEngine creates a new retrieval engine.
func NewRetrievalEngine(store driven.KnowledgeStore, router *SubjectRouter, matcher *Matcher) *RetrievalEngine {
	return &RetrievalEngine{
		store:   store,
		router:  router,
		matcher: matcher,
	}
}

// Start creates a session with the default subject loaded.
//
// A missing default resource yields an empty knowledge base. A corrupt one
// returns a usable session with an empty knowledge base together with an
// error wrapping domain.ErrKnowledgeBaseCorrupt, so callers can report it
// and carry on.
func (e *RetrievalEngine) Start(ctx context.Context, id string) (domain.Session, error) {
	subject := e.router.Catalog().Default()
	logger.Debug("Starting session %q on subject %s", id, subject)

	kb, err := e.store.Load(ctx, subject)
	if err != nil {
		session := domain.NewSession(id, domain.EmptyKnowledgeBase(subject))
		if errors.Is(err, domain.ErrKnowledgeBaseCorrupt) {
			logger.Warn("Default subject %s is corrupt: %v", subject, err)
			return session, err
		}
		return domain.Session{}, fmt.Errorf("load default subject: %w", err)
	}

	kb.Subject = subject
	return domain.NewSession(id, kb), nil
}

// Answer resolves one input against the session.
//
// A subject named in the input switches the session (reloading it even if
// already active) and returns a confirmation without matching. Otherwise
// the best matching record's answer is returned. Anticipated failures map
// to fixed replies and leave the session untouched.
func (e *RetrievalEngine) Answer(
	ctx context.Context, session domain.Session, input string,
) (next domain.Session, reply string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Answer panicked: %v", r)
			next = session
			reply = domain.FallbackMessage
		}
	}()

	logger.Section("Answer")
	logger.Debug("Session %q, subject %s, input %q", session.ID, session.Subject, input)

	if subject, ok := e.router.Route(input); ok {
		logger.Info("Subject switch requested: %s", subject)
		return e.switchSubject(ctx, session, subject)
	}

	record, err := e.matcher.BestMatch(input, session.Knowledge)
	switch {
	case errors.Is(err, domain.ErrNoKnowledge):
		logger.Debug("No knowledge for subject %s", session.Subject)
		return session, domain.NoInformationMessage
	case err != nil:
		logger.Warn("Matching failed: %v", err)
		return session, domain.FallbackMessage
	}

	return session, record.Answer
}

// switchSubject reloads the subject and replaces the session's subject and
// knowledge base together.
func (e *RetrievalEngine) switchSubject(
	ctx context.Context, session domain.Session, subject domain.Subject,
) (domain.Session, string) {
	loaded := logger.Timed("load " + subject.String())
	kb, err := e.store.Load(ctx, subject)
	loaded()
	if err != nil {
		if errors.Is(err, domain.ErrKnowledgeBaseCorrupt) {
			logger.Warn("Knowledge base for %s is corrupt: %v", subject, err)
			return session, domain.CorruptKnowledgeMessage(subject)
		}
		logger.Warn("Loading %s failed: %v", subject, err)
		return session, domain.FallbackMessage
	}

	kb.Subject = subject
	logger.Info("Switched to %s (%d records)", subject, kb.Len())
	return session.WithKnowledge(kb), domain.SwitchConfirmation(subject)
}

// Explain reports the decision Answer would take for input. Nothing is
// loaded on a switch; matching errors are returned as is.
func (e *RetrievalEngine) Explain(
	_ context.Context, session domain.Session, input string,
) (driving.Explanation, error) {
	if subject, ok := e.router.Route(input); ok {
		return driving.Explanation{Subject: subject, Switch: true}, nil
	}

	match, err := e.matcher.Match(input, session.Knowledge)
	if err != nil {
		return driving.Explanation{Subject: session.Subject}, err
	}

	return driving.Explanation{
		Subject:     session.Subject,
		Question:    match.Question,
		RecordIndex: match.RecordIndex,
		Score:       match.Score,
	}, nil
}
