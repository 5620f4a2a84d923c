package mcp

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
)

// mockConversation answers from a fixed table and switches on "switch <subject>".
type mockConversation struct {
	id       string
	subject  domain.Subject
	switches int
	replies  map[string]string
	asked    []string
}

func (m *mockConversation) ID() string { return m.id }

func (m *mockConversation) Ask(_ context.Context, input string) string {
	m.asked = append(m.asked, input)
	if name, ok := strings.CutPrefix(input, "switch "); ok {
		m.subject = domain.Subject(name)
		m.switches++
		return domain.SwitchConfirmation(m.subject)
	}
	return m.replies[input]
}

func (m *mockConversation) Subject() domain.Subject { return m.subject }

func (m *mockConversation) Session() domain.Session {
	return domain.Session{ID: m.id, Subject: m.subject, Switches: m.switches}
}

// mockSessionRegistry is a mock implementation of driving.SessionRegistry.
type mockSessionRegistry struct {
	mu      sync.Mutex
	convs   map[string]*mockConversation
	replies map[string]string
	started []string
	closed  []string
	err     error
}

func newMockSessionRegistry(replies map[string]string) *mockSessionRegistry {
	return &mockSessionRegistry{
		convs:   make(map[string]*mockConversation),
		replies: replies,
	}
}

func (m *mockSessionRegistry) Get(_ context.Context, id string) (driving.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if conv, ok := m.convs[id]; ok {
		return conv, nil
	}
	conv := &mockConversation{id: id, subject: domain.DefaultSubject, replies: m.replies}
	m.convs[id] = conv
	m.started = append(m.started, id)
	return conv, nil
}

func (m *mockSessionRegistry) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.convs, id)
	m.closed = append(m.closed, id)
}

func (m *mockSessionRegistry) closedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.closed...)
}

func (m *mockSessionRegistry) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.convs)
}

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct {
	summaries []driving.SubjectSummary
	bases     map[domain.Subject]domain.KnowledgeBase
	err       error
}

func (m *mockKnowledgeService) Catalog() domain.SubjectCatalog {
	return domain.DefaultSubjectCatalog()
}

func (m *mockKnowledgeService) List(_ context.Context) ([]driving.SubjectSummary, error) {
	return m.summaries, m.err
}

func (m *mockKnowledgeService) Get(_ context.Context, subject domain.Subject) (domain.KnowledgeBase, error) {
	if m.err != nil {
		return domain.KnowledgeBase{}, m.err
	}
	kb, ok := m.bases[subject]
	if !ok {
		return domain.KnowledgeBase{}, domain.ErrUnknownSubject
	}
	return kb, nil
}

func (m *mockKnowledgeService) Import(_ context.Context, _ domain.Subject, _ io.Reader) (int, error) {
	return 0, m.err
}
