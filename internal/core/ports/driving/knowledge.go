package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

// SubjectSummary describes one subject of the catalog.
type SubjectSummary struct {
	// Subject is the subject identifier.
	Subject domain.Subject

	// IsDefault is true for the subject loaded at start.
	IsDefault bool

	// Records is the number of knowledge records.
	Records int

	// Questions is the number of question phrasings.
	Questions int

	// Corrupt is true when the subject's knowledge base could not be
	// parsed. Records and Questions are zero.
	Corrupt bool
}

// KnowledgeService exposes the subject catalog and its knowledge bases.
type KnowledgeService interface {
	// Catalog returns the configured subject catalog.
	Catalog() domain.SubjectCatalog

	// List summarises every subject in the catalog. Corrupt knowledge
	// bases are flagged in their summary rather than failing the list.
	List(ctx context.Context) ([]SubjectSummary, error)

	// Get loads one subject's knowledge base.
	Get(ctx context.Context, subject domain.Subject) (domain.KnowledgeBase, error)

	// Import reads a JSON record list and replaces the subject's records.
	// Returns the number of records imported.
	Import(ctx context.Context, subject domain.Subject, r io.Reader) (int, error)
}
