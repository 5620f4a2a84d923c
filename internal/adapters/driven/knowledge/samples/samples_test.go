package samples

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutorbot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

func TestSubjects_CoverBuiltInCatalog(t *testing.T) {
	subjects := Subjects()

	for _, s := range domain.DefaultSubjectCatalog().All() {
		assert.Contains(t, subjects, s)
	}
}

func TestLoad_EverySampleIsValid(t *testing.T) {
	for _, subject := range Subjects() {
		t.Run(subject.String(), func(t *testing.T) {
			kb, err := Load(subject)
			require.NoError(t, err)
			assert.Equal(t, subject, kb.Subject)
			assert.False(t, kb.IsEmpty())
			assert.NoError(t, domain.ValidateRecords(kb.Records))
			for _, r := range kb.Records {
				assert.NotEmpty(t, r.Answer)
			}
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("astrology")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSeed(t *testing.T) {
	store := memory.NewKnowledgeStore()

	n, err := Seed(context.Background(), store)

	require.NoError(t, err)
	assert.Equal(t, len(Subjects()), n)

	kb, err := store.Load(context.Background(), "python")
	require.NoError(t, err)
	assert.False(t, kb.IsEmpty())
}
