package tui

import (
	"context"
	"io"
	"strings"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
)

// mockConversation switches on a bare subject name and echoes otherwise.
type mockConversation struct {
	subject domain.Subject
	asked   []string
}

func (m *mockConversation) ID() string { return "tui" }

func (m *mockConversation) Ask(_ context.Context, input string) string {
	m.asked = append(m.asked, input)
	if domain.DefaultSubjectCatalog().Contains(domain.Subject(strings.ToLower(input))) {
		m.subject = domain.Subject(strings.ToLower(input))
		return domain.SwitchConfirmation(m.subject)
	}
	return "answer to " + input
}

func (m *mockConversation) Subject() domain.Subject { return m.subject }

func (m *mockConversation) Session() domain.Session {
	return domain.Session{ID: "tui", Subject: m.subject}
}

// mockKnowledgeService implements driving.KnowledgeService.
type mockKnowledgeService struct {
	summaries []driving.SubjectSummary
}

func (m *mockKnowledgeService) Catalog() domain.SubjectCatalog {
	return domain.DefaultSubjectCatalog()
}

func (m *mockKnowledgeService) List(_ context.Context) ([]driving.SubjectSummary, error) {
	return m.summaries, nil
}

func (m *mockKnowledgeService) Get(_ context.Context, subject domain.Subject) (domain.KnowledgeBase, error) {
	return domain.KnowledgeBase{Subject: subject}, nil
}

func (m *mockKnowledgeService) Import(_ context.Context, _ domain.Subject, _ io.Reader) (int, error) {
	return 0, nil
}

func testPorts() (*Ports, *mockConversation) {
	conv := &mockConversation{subject: domain.DefaultSubject}
	return &Ports{
		Conversation: conv,
		Knowledge: &mockKnowledgeService{summaries: []driving.SubjectSummary{
			{Subject: domain.DefaultSubject, IsDefault: true, Records: 2, Questions: 4},
			{Subject: "java", Records: 3, Questions: 6},
		}},
	}, conv
}
