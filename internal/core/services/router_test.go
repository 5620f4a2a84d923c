package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

func TestSubjectRouter_Route(t *testing.T) {
	router := NewSubjectRouter(domain.DefaultSubjectCatalog())

	tests := []struct {
		name     string
		input    string
		want     domain.Subject
		switched bool
	}{
		{"exact", "python", "python", true},
		{"embedded", "switch to python please", "python", true},
		{"upper case", "I want JAVA", "java", true},
		{"inside a word", "javascript", "java", true},
		{"first in catalog order wins", "ai or daa", "daa", true},
		{"catalog order beats input order", "dbms then java", "java", true},
		{"default is never a target", "back to default", "", false},
		{"no subject", "what is recursion", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := router.Route(tt.input)
			assert.Equal(t, tt.switched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubjectRouter_CustomCatalog(t *testing.T) {
	catalog := domain.NewSubjectCatalog("general", []domain.Subject{"os", "networks"})
	router := NewSubjectRouter(catalog)

	got, ok := router.Route("tell me about Networks")
	assert.True(t, ok)
	assert.Equal(t, domain.Subject("networks"), got)

	_, ok = router.Route("general knowledge")
	assert.False(t, ok)

	assert.Equal(t, catalog, router.Catalog())
}
