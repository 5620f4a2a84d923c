package services

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

// mockKnowledgeStore serves fixed knowledge bases and records every load.
type mockKnowledgeStore struct {
	mu      sync.Mutex
	bases   map[domain.Subject][]domain.KnowledgeRecord
	errs    map[domain.Subject]error
	loads   []domain.Subject
	panicOn domain.Subject
}

func newMockKnowledgeStore() *mockKnowledgeStore {
	return &mockKnowledgeStore{
		bases: make(map[domain.Subject][]domain.KnowledgeRecord),
		errs:  make(map[domain.Subject]error),
	}
}

func (m *mockKnowledgeStore) with(subject domain.Subject, records ...domain.KnowledgeRecord) *mockKnowledgeStore {
	m.bases[subject] = records
	return m
}

func (m *mockKnowledgeStore) failing(subject domain.Subject, err error) *mockKnowledgeStore {
	m.errs[subject] = err
	return m
}

func (m *mockKnowledgeStore) Load(_ context.Context, subject domain.Subject) (domain.KnowledgeBase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loads = append(m.loads, subject)
	if subject == m.panicOn {
		panic("load exploded")
	}
	if err, ok := m.errs[subject]; ok {
		return domain.KnowledgeBase{}, err
	}
	records := make([]domain.KnowledgeRecord, len(m.bases[subject]))
	copy(records, m.bases[subject])
	return domain.KnowledgeBase{Subject: subject, Records: records}, nil
}

func (m *mockKnowledgeStore) Subjects(_ context.Context) ([]domain.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subjects := make([]domain.Subject, 0, len(m.bases))
	for s := range m.bases {
		subjects = append(subjects, s)
	}
	return subjects, nil
}

func (m *mockKnowledgeStore) loadCount(subject domain.Subject) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, s := range m.loads {
		if s == subject {
			n++
		}
	}
	return n
}

// mockKnowledgeWriter captures replaced knowledge bases.
type mockKnowledgeWriter struct {
	replaced []domain.KnowledgeBase
	err      error
}

func (m *mockKnowledgeWriter) Replace(_ context.Context, kb domain.KnowledgeBase) error {
	if m.err != nil {
		return m.err
	}
	m.replaced = append(m.replaced, kb)
	return nil
}

// mockRecognizer returns a fixed transcript or error.
type mockRecognizer struct {
	text     string
	err      error
	filename string
	audio    []byte
}

func (m *mockRecognizer) Transcribe(_ context.Context, audio io.Reader, filename string) (string, error) {
	m.filename = filename
	if audio != nil {
		m.audio, _ = io.ReadAll(audio)
	}
	return m.text, m.err
}

// mockSynthesizer records spoken text.
type mockSynthesizer struct {
	spoken []string
	err    error
}

func (m *mockSynthesizer) Speak(_ context.Context, text string) error {
	if m.err != nil {
		return m.err
	}
	m.spoken = append(m.spoken, text)
	return nil
}

func record(answer string, questions ...string) domain.KnowledgeRecord {
	return domain.KnowledgeRecord{Questions: questions, Answer: answer}
}

// newTestEngine wires an engine over the store with the default catalog.
func newTestEngine(store *mockKnowledgeStore) *RetrievalEngine {
	matcher, _ := NewMatcher()
	return NewRetrievalEngine(store, NewSubjectRouter(domain.DefaultSubjectCatalog()), matcher)
}
