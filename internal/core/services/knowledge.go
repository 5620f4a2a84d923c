package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// KnowledgeService exposes the subject catalog and manages knowledge import.
type KnowledgeService struct {
	catalog domain.SubjectCatalog
	store   driven.KnowledgeStore
	writer  driven.KnowledgeWriter
}

// NewKnowledgeService creates a new knowledge service.
// The writer parameter is optional (can be nil); without it the store is
// read only and Import fails.
func NewKnowledgeService(
	catalog domain.SubjectCatalog,
	store driven.KnowledgeStore,
	writer driven.KnowledgeWriter,
) *KnowledgeService {
	return &KnowledgeService{
		catalog: catalog,
		store:   store,
		writer:  writer,
	}
}

// Catalog returns the configured subject catalog.
func (s *KnowledgeService) Catalog() domain.SubjectCatalog {
	return s.catalog
}

// List summarises every subject in the catalog, default first.
// A corrupt knowledge base is flagged and listing carries on; any other
// load failure aborts.
func (s *KnowledgeService) List(ctx context.Context) ([]driving.SubjectSummary, error) {
	subjects := s.catalog.All()
	summaries := make([]driving.SubjectSummary, 0, len(subjects))

	for _, subject := range subjects {
		summary := driving.SubjectSummary{
			Subject:   subject,
			IsDefault: subject == s.catalog.Default(),
		}

		kb, err := s.store.Load(ctx, subject)
		switch {
		case errors.Is(err, domain.ErrKnowledgeBaseCorrupt):
			logger.Warn("Knowledge base for %s is corrupt: %v", subject, err)
			summary.Corrupt = true
		case err != nil:
			return nil, fmt.Errorf("load %s: %w", subject, err)
		default:
			summary.Records = kb.Len()
			summary.Questions = kb.QuestionCount()
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Get loads one subject's knowledge base.
func (s *KnowledgeService) Get(ctx context.Context, subject domain.Subject) (domain.KnowledgeBase, error) {
	if !s.catalog.Contains(subject) {
		return domain.KnowledgeBase{}, fmt.Errorf("%s: %w", subject, domain.ErrUnknownSubject)
	}

	kb, err := s.store.Load(ctx, subject)
	if err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("load %s: %w", subject, err)
	}
	kb.Subject = subject
	return kb, nil
}

// Import reads a JSON record list and replaces the subject's records.
func (s *KnowledgeService) Import(ctx context.Context, subject domain.Subject, r io.Reader) (int, error) {
	if s.writer == nil {
		return 0, fmt.Errorf("knowledge store is read only: %w", domain.ErrUnsupportedType)
	}
	if !s.catalog.Contains(subject) {
		return 0, fmt.Errorf("%s: %w", subject, domain.ErrUnknownSubject)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read records: %w", err)
	}

	// Same decoding as the stores' Load, so trailing content is refused.
	var records []domain.KnowledgeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("decode records: %w: %w", domain.ErrKnowledgeBaseCorrupt, err)
	}
	if err := domain.ValidateRecords(records); err != nil {
		return 0, err
	}

	kb := domain.KnowledgeBase{Subject: subject, Records: records}
	if err := s.writer.Replace(ctx, kb); err != nil {
		return 0, fmt.Errorf("replace %s: %w", subject, err)
	}

	logger.Info("Imported %d records into %s", len(records), subject)
	return len(records), nil
}
