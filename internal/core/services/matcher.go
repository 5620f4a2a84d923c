package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// DefaultSpaceCacheSize is the number of fitted spaces kept when caching
// is enabled.
const DefaultSpaceCacheSize = 16

// Match describes the winning question of a similarity search.
type Match struct {
	// Record is the record owning the winning question.
	Record domain.KnowledgeRecord

	// RecordIndex is the record's position in the knowledge base.
	RecordIndex int

	// QuestionIndex is the winning position in the flattened question list.
	QuestionIndex int

	// Question is the winning paraphrase.
	Question string

	// Score is the cosine similarity of the winning question.
	Score float64
}

// flattened is a knowledge base unrolled into parallel question/owner slices.
type flattened struct {
	questions []string
	owners    []int
}

func flatten(kb domain.KnowledgeBase) flattened {
	f := flattened{
		questions: make([]string, 0, kb.QuestionCount()),
		owners:    make([]int, 0, kb.QuestionCount()),
	}
	for i := range kb.Records {
		for _, q := range kb.Records[i].Questions {
			f.questions = append(f.questions, q)
			f.owners = append(f.owners, i)
		}
	}
	return f
}

// Matcher selects the knowledge record whose question best matches a query.
//
// By default the vector space is fitted afresh from the knowledge base on
// every query, so a switched knowledge base takes effect immediately.
// WithSpaceCache keeps fitted spaces keyed by subject and question
// fingerprint instead.
type Matcher struct {
	cacheMu sync.Mutex
	cache   *lru.Cache[string, *VectorSpace]
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher) error

// WithSpaceCache enables an LRU cache of fitted vector spaces.
func WithSpaceCache(size int) MatcherOption {
	return func(m *Matcher) error {
		if size <= 0 {
			size = DefaultSpaceCacheSize
		}
		cache, err := lru.New[string, *VectorSpace](size)
		if err != nil {
			return fmt.Errorf("create space cache: %w", err)
		}
		m.cache = cache
		return nil
	}
}

// NewMatcher creates a new similarity matcher.
func NewMatcher(opts ...MatcherOption) (*Matcher, error) {
	m := &Matcher{}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// BestMatch returns the record that best answers the query.
// It fails with domain.ErrNoKnowledge when kb has no records.
func (m *Matcher) BestMatch(query string, kb domain.KnowledgeBase) (domain.KnowledgeRecord, error) {
	match, err := m.Match(query, kb)
	if err != nil {
		return domain.KnowledgeRecord{}, err
	}
	return match.Record, nil
}

// Match is BestMatch with the winning question and score attached.
//
// A query sharing no terms with any question scores zero everywhere and
// resolves to the first question, like any other tie.
func (m *Matcher) Match(query string, kb domain.KnowledgeBase) (Match, error) {
	if kb.IsEmpty() {
		return Match{}, domain.ErrNoKnowledge
	}

	flat := flatten(kb)
	if len(flat.questions) == 0 {
		return Match{}, fmt.Errorf("subject %s: %w", kb.Subject, ErrEmptyVocabulary)
	}

	space, err := m.space(kb.Subject, flat)
	if err != nil {
		return Match{}, fmt.Errorf("fit vector space for %s: %w", kb.Subject, err)
	}
	logger.Debug("Vector space: %d questions, %d terms", space.Len(), space.VocabularySize())

	scores := space.Similarities(query)
	best := argmax(scores)
	owner := flat.owners[best]

	logger.Debug("Best question #%d %q (record %d, score %.4f)", best, flat.questions[best], owner, scores[best])

	return Match{
		Record:        kb.Records[owner],
		RecordIndex:   owner,
		QuestionIndex: best,
		Question:      flat.questions[best],
		Score:         scores[best],
	}, nil
}

// space returns a fitted vector space, from the cache when enabled.
func (m *Matcher) space(subject domain.Subject, flat flattened) (*VectorSpace, error) {
	defer logger.Timed("fit vector space")()

	if m.cache == nil {
		return FitVectorSpace(flat.questions)
	}

	key := spaceKey(subject, flat.questions)

	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()

	if space, ok := m.cache.Get(key); ok {
		logger.Debug("Vector space cache hit for %s", subject)
		return space, nil
	}

	space, err := FitVectorSpace(flat.questions)
	if err != nil {
		return nil, err
	}
	m.cache.Add(key, space)
	return space, nil
}

// spaceKey fingerprints a subject's question list so an edited dataset
// never reuses a stale space.
func spaceKey(subject domain.Subject, questions []string) string {
	h := sha256.New()
	for _, q := range questions {
		h.Write([]byte(q))
		h.Write([]byte{0})
	}
	return subject.String() + ":" + hex.EncodeToString(h.Sum(nil))
}

// CachedSpaces returns the number of cached vector spaces.
func (m *Matcher) CachedSpaces() int {
	if m.cache == nil {
		return 0
	}
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	return m.cache.Len()
}
