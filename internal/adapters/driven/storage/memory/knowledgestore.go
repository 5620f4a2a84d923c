package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
)

// Ensure KnowledgeStore implements the interfaces.
var (
	_ driven.KnowledgeStore  = (*KnowledgeStore)(nil)
	_ driven.KnowledgeWriter = (*KnowledgeStore)(nil)
)

// KnowledgeStore is an in-memory implementation of driven.KnowledgeStore.
type KnowledgeStore struct {
	mu      sync.RWMutex
	records map[domain.Subject][]domain.KnowledgeRecord
}

// NewKnowledgeStore creates a new in-memory knowledge store.
func NewKnowledgeStore() *KnowledgeStore {
	return &KnowledgeStore{
		records: make(map[domain.Subject][]domain.KnowledgeRecord),
	}
}

// Load returns a copy of the subject's records.
// Unknown subjects yield an empty knowledge base.
func (s *KnowledgeStore) Load(_ context.Context, subject domain.Subject) (domain.KnowledgeBase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.records[subject]
	if !ok {
		return domain.EmptyKnowledgeBase(subject), nil
	}
	return domain.KnowledgeBase{Subject: subject, Records: cloneRecords(records)}, nil
}

// Subjects lists subjects holding records, sorted by name.
func (s *KnowledgeStore) Subjects(_ context.Context) ([]domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := make([]domain.Subject, 0, len(s.records))
	for subject := range s.records {
		subjects = append(subjects, subject)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i] < subjects[j] })
	return subjects, nil
}

// Replace stores kb's records in place of the subject's current ones.
func (s *KnowledgeStore) Replace(_ context.Context, kb domain.KnowledgeBase) error {
	if err := domain.ValidateRecords(kb.Records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[kb.Subject] = cloneRecords(kb.Records)
	return nil
}

// cloneRecords deep-copies records so callers never share question slices.
func cloneRecords(records []domain.KnowledgeRecord) []domain.KnowledgeRecord {
	out := make([]domain.KnowledgeRecord, len(records))
	for i, r := range records {
		out[i] = domain.KnowledgeRecord{
			Questions: append([]string(nil), r.Questions...),
			Answer:    r.Answer,
		}
	}
	return out
}
