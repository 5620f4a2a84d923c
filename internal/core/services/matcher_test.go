package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

func algorithmsBase() domain.KnowledgeBase {
	return domain.KnowledgeBase{
		Subject: "daa",
		Records: []domain.KnowledgeRecord{
			record("Divide the problem, solve parts, combine.", "what is divide and conquer", "explain divide and conquer"),
			record("Store subproblem results.", "what is dynamic programming", "define memoization"),
			record("Pick the locally best choice.", "what is a greedy algorithm"),
		},
	}
}

func TestMatcher_BestMatch(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)

	got, err := m.BestMatch("tell me about memoization", algorithmsBase())

	require.NoError(t, err)
	assert.Equal(t, "Store subproblem results.", got.Answer)
}

func TestMatcher_BestMatch_DecomposedAccent(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)
	kb := domain.KnowledgeBase{
		Subject: "default",
		Records: []domain.KnowledgeRecord{
			record("Tea.", "what is a teapot"),
			record("Coffee.", "what is a cafe"),
		},
	}

	got, err := m.BestMatch("cafe\u0301 please", kb)

	require.NoError(t, err)
	assert.Equal(t, "Coffee.", got.Answer)
}

func TestMatcher_BestMatch_EmptyBase(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)

	_, err = m.BestMatch("anything", domain.EmptyKnowledgeBase("daa"))

	assert.ErrorIs(t, err, domain.ErrNoKnowledge)
}

func TestMatcher_Match_Details(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)

	match, err := m.Match("explain divide and conquer", algorithmsBase())

	require.NoError(t, err)
	assert.Equal(t, 0, match.RecordIndex)
	assert.Equal(t, 1, match.QuestionIndex)
	assert.Equal(t, "explain divide and conquer", match.Question)
	assert.InDelta(t, 1.0, match.Score, 1e-9)
}

func TestMatcher_Match_QuestionIndexSpansRecords(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)

	match, err := m.Match("greedy algorithm", algorithmsBase())

	require.NoError(t, err)
	assert.Equal(t, 2, match.RecordIndex)
	assert.Equal(t, 4, match.QuestionIndex)
}

func TestMatcher_Match_ZeroOverlapReturnsFirst(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)

	match, err := m.Match("zzz qqq", algorithmsBase())

	require.NoError(t, err)
	assert.Equal(t, 0, match.RecordIndex)
	assert.Equal(t, 0, match.QuestionIndex)
	assert.Equal(t, 0.0, match.Score)
}

func TestMatcher_Match_RecordsWithoutQuestions(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)

	kb := domain.KnowledgeBase{Subject: "ai", Records: []domain.KnowledgeRecord{{Answer: "orphan"}}}
	_, err = m.Match("hello", kb)

	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestMatcher_NoCacheByDefault(t *testing.T) {
	m, err := NewMatcher()
	require.NoError(t, err)

	_, err = m.BestMatch("greedy", algorithmsBase())
	require.NoError(t, err)

	assert.Equal(t, 0, m.CachedSpaces())
}

func TestMatcher_WithSpaceCache(t *testing.T) {
	m, err := NewMatcher(WithSpaceCache(2))
	require.NoError(t, err)

	kb := algorithmsBase()
	first, err := m.Match("greedy", kb)
	require.NoError(t, err)
	second, err := m.Match("greedy", kb)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, m.CachedSpaces())

	// An edited dataset gets its own fingerprint.
	kb.Records = append(kb.Records, record("Explore every option.", "what is backtracking"))
	got, err := m.BestMatch("backtracking", kb)
	require.NoError(t, err)
	assert.Equal(t, "Explore every option.", got.Answer)
	assert.Equal(t, 2, m.CachedSpaces())

	// Capacity is bounded.
	other := domain.KnowledgeBase{Subject: "ai", Records: []domain.KnowledgeRecord{record("x", "neural network")}}
	_, err = m.BestMatch("network", other)
	require.NoError(t, err)
	assert.Equal(t, 2, m.CachedSpaces())
}

func TestSpaceKey(t *testing.T) {
	a := spaceKey("daa", []string{"ab", "c"})
	b := spaceKey("daa", []string{"a", "bc"})
	c := spaceKey("ai", []string{"ab", "c"})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, spaceKey("daa", []string{"ab", "c"}))
}
