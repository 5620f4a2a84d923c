package driven

import (
	"context"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

// KnowledgeStore loads subject knowledge bases.
//
// A subject with no backing resource yields an empty knowledge base and a nil
// error. A resource that exists but cannot be parsed yields an error wrapping
// domain.ErrKnowledgeBaseCorrupt. Implementations must not cache: every call
// re-reads the resource.
type KnowledgeStore interface {
	// Load reads the knowledge base for a subject.
	Load(ctx context.Context, subject domain.Subject) (domain.KnowledgeBase, error)

	// Subjects lists subjects that currently have a backing resource.
	Subjects(ctx context.Context) ([]domain.Subject, error)
}

// KnowledgeWriter replaces a subject's knowledge base wholesale.
type KnowledgeWriter interface {
	// Replace stores kb as the complete record set for kb.Subject.
	Replace(ctx context.Context, kb domain.KnowledgeBase) error
}
