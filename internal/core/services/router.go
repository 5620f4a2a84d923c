package services

import (
	"strings"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

// SubjectRouter detects requests to change subject.
//
// The first switchable subject (in catalog order) whose name appears in the
// input wins, even when a later subject is also present or longer. The
// router only reports the switch; it never loads or mutates anything.
type SubjectRouter struct {
	catalog domain.SubjectCatalog
}

// NewSubjectRouter creates a router over the catalog's switchable subjects.
func NewSubjectRouter(catalog domain.SubjectCatalog) *SubjectRouter {
	return &SubjectRouter{catalog: catalog}
}

// Catalog returns the subject catalog the router scans.
func (r *SubjectRouter) Catalog() domain.SubjectCatalog {
	return r.catalog
}

// Route returns the subject named in the input, if any.
// Matching is a case-insensitive substring test.
func (r *SubjectRouter) Route(input string) (domain.Subject, bool) {
	folded := foldCase(input)
	for _, subject := range r.catalog.Switchable() {
		if strings.Contains(folded, foldCase(subject.String())) {
			return subject, true
		}
	}
	return "", false
}
