package services

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyVocabulary is returned when no document yields a single term,
// so no vector space can be fitted.
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain no terms")

// termWeight is one non-zero component of a document vector.
type termWeight struct {
	index  int
	weight float64
}

// sparseVector holds non-zero components in ascending term order, so
// every sum over it runs in the same order and scores are reproducible.
type sparseVector []termWeight

// VectorSpace is a TF-IDF term space fitted on a fixed set of documents.
//
// Weights follow the smoothed formulation: idf(t) = ln((1+n)/(1+df(t))) + 1,
// raw term counts as tf, and every vector L2-normalised.
type VectorSpace struct {
	vocabulary map[string]int
	idf        []float64
	documents  []sparseVector
}

// FitVectorSpace builds the vocabulary and document vectors for docs.
func FitVectorSpace(docs []string) (*VectorSpace, error) {
	tokenized := make([][]string, len(docs))
	terms := make(map[string]struct{})
	for i, doc := range docs {
		tokenized[i] = tokenize(doc)
		for _, term := range tokenized[i] {
			terms[term] = struct{}{}
		}
	}

	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}

	// Sorted vocabulary keeps term indices stable across runs.
	sorted := make([]string, 0, len(terms))
	for term := range terms {
		sorted = append(sorted, term)
	}
	sort.Strings(sorted)

	vocabulary := make(map[string]int, len(sorted))
	for i, term := range sorted {
		vocabulary[term] = i
	}

	df := make([]int, len(sorted))
	for _, doc := range tokenized {
		seen := make(map[int]bool)
		for _, term := range doc {
			idx := vocabulary[term]
			if !seen[idx] {
				seen[idx] = true
				df[idx]++
			}
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(sorted))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vs := &VectorSpace{
		vocabulary: vocabulary,
		idf:        idf,
		documents:  make([]sparseVector, len(docs)),
	}
	for i, doc := range tokenized {
		vs.documents[i] = vs.weigh(doc)
	}

	return vs, nil
}

// weigh turns a term list into a normalised TF-IDF vector.
// Terms outside the vocabulary contribute nothing.
func (vs *VectorSpace) weigh(terms []string) sparseVector {
	counts := make(map[int]int)
	for _, term := range terms {
		if idx, ok := vs.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	vec := make(sparseVector, 0, len(counts))
	for idx, tf := range counts {
		vec = append(vec, termWeight{index: idx, weight: float64(tf) * vs.idf[idx]})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].index < vec[j].index })

	normalise(vec)
	return vec
}

// Transform projects text into the fitted space.
func (vs *VectorSpace) Transform(text string) sparseVector {
	return vs.weigh(tokenize(text))
}

// Similarities returns the cosine similarity between the text and every
// fitted document, in document order.
func (vs *VectorSpace) Similarities(text string) []float64 {
	query := vs.Transform(text)
	scores := make([]float64, len(vs.documents))
	for i, doc := range vs.documents {
		scores[i] = cosineSimilarity(query, doc)
	}
	return scores
}

// VocabularySize returns the number of distinct terms.
func (vs *VectorSpace) VocabularySize() int {
	return len(vs.vocabulary)
}

// Len returns the number of fitted documents.
func (vs *VectorSpace) Len() int {
	return len(vs.documents)
}

func normalise(vec sparseVector) {
	norm := vec.norm()
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i].weight /= norm
	}
}

func (v sparseVector) norm() float64 {
	var sum float64
	for _, c := range v {
		sum += c.weight * c.weight
	}
	return math.Sqrt(sum)
}

// cosineSimilarity returns 0 when either vector has zero length.
func cosineSimilarity(a, b sparseVector) float64 {
	normA, normB := a.norm(), b.norm()
	if normA == 0 || normB == 0 {
		return 0
	}

	var dot float64
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i].index == b[j].index:
			dot += a[i].weight * b[j].weight
			i++
			j++
		case a[i].index < b[j].index:
			i++
		default:
			j++
		}
	}
	return dot / (normA * normB)
}

// argmax returns the index of the first maximum. Ties keep the earliest
// index. An empty slice yields -1.
func argmax(scores []float64) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}
