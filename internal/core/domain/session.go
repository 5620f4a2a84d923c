package domain

// Session is the per-user conversation state: the active subject and the
// knowledge base loaded for it. Both fields are always replaced together.
type Session struct {
	// ID identifies the session (e.g. an MCP client session).
	ID string

	// Subject is the active subject.
	Subject Subject

	// Knowledge is the knowledge base loaded for Subject.
	Knowledge KnowledgeBase

	// Switches counts completed subject switches, including switches to
	// the subject already active.
	Switches int
}

// NewSession creates a session whose subject is taken from the base.
func NewSession(id string, kb KnowledgeBase) Session {
	return Session{
		ID:        id,
		Subject:   kb.Subject,
		Knowledge: kb,
	}
}

// WithKnowledge returns a copy of the session switched to the base's subject.
func (s Session) WithKnowledge(kb KnowledgeBase) Session {
	s.Subject = kb.Subject
	s.Knowledge = kb
	s.Switches++
	return s
}
