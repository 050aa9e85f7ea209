package textsim

import (
	"math"
	"slices"
)

// Vector is a sparse TF-IDF vector with terms in ascending order.
// Keeping terms sorted makes dot products and norms independent of map
// iteration order, so similarities are bit-for-bit reproducible.
type Vector struct {
	terms   []string
	weights []float64
	norm    float64
}

// Len returns the number of distinct terms.
func (v Vector) Len() int {
	return len(v.terms)
}

// IsZero reports whether the vector has no weight.
func (v Vector) IsZero() bool {
	return v.norm == 0
}

// Model holds document frequencies fitted on one corpus snapshot.
// It is read-only after Fit and safe for concurrent use.
type Model struct {
	analyzer Analyzer
	docs     int
	df       map[string]int
}

// Fit computes document frequencies over documents and returns the model
// together with the TF-IDF vector of every document, in input order.
func Fit(analyzer Analyzer, documents []string) (*Model, []Vector) {
	m := &Model{
		analyzer: analyzer,
		docs:     len(documents),
		df:       make(map[string]int),
	}

	counts := make([]map[string]int, len(documents))
	for i, doc := range documents {
		counts[i] = termCounts(analyzer.Terms(doc))
		for term := range counts[i] {
			m.df[term]++
		}
	}

	vectors := make([]Vector, len(documents))
	for i := range counts {
		vectors[i] = m.weigh(counts[i])
	}
	return m, vectors
}

// Documents returns the number of documents the model was fitted on.
func (m *Model) Documents() int {
	return m.docs
}

// IDF returns the smoothed inverse document frequency of an analyzed term.
// Terms unseen in the corpus get the maximum weight.
func (m *Model) IDF(term string) float64 {
	return math.Log(float64(1+m.docs)/float64(1+m.df[term])) + 1
}

// Vectorize analyzes text and weighs it with the fitted frequencies.
func (m *Model) Vectorize(text string) Vector {
	return m.weigh(termCounts(m.analyzer.Terms(text)))
}

// Similarity returns the cosine similarity of two texts.
func (m *Model) Similarity(a, b string) float64 {
	return Cosine(m.Vectorize(a), m.Vectorize(b))
}

func (m *Model) weigh(counts map[string]int) Vector {
	if len(counts) == 0 {
		return Vector{}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	slices.Sort(terms)

	weights := make([]float64, len(terms))
	var sum float64
	for i, term := range terms {
		w := float64(counts[term]) * m.IDF(term)
		weights[i] = w
		sum += w * w
	}

	return Vector{terms: terms, weights: weights, norm: sum}
}

// Cosine returns the cosine of the angle between two vectors, in [0,1].
// It is 0 when either vector is empty.
func Cosine(a, b Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}

	var dot float64
	i, j := 0, 0
	for i < len(a.terms) && j < len(b.terms) {
		switch {
		case a.terms[i] == b.terms[j]:
			dot += a.weights[i] * b.weights[j]
			i++
			j++
		case a.terms[i] < b.terms[j]:
			i++
		default:
			j++
		}
	}

	// norm holds squared norms; sqrt(x*x) == x keeps self similarity at exactly 1.
	sim := dot / math.Sqrt(a.norm*b.norm)
	return min(max(sim, 0), 1)
}

func termCounts(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}
