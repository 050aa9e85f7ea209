package textsim

import (
	"strings"
	"testing"
)

// wordAnalyzer splits on whitespace so model tests do not depend on stemming.
type wordAnalyzer struct{}

func (wordAnalyzer) Terms(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

var testCorpus = []string{
	"editor save dialog closes",
	"workbench window layout",
	"editor toolbar layout",
}

func TestFit_DocumentFrequencies(t *testing.T) {
	m, vectors := Fit(wordAnalyzer{}, testCorpus)

	if m.Documents() != 3 {
		t.Errorf("Documents() = %d, want 3", m.Documents())
	}
	if len(vectors) != 3 {
		t.Fatalf("Expected 3 vectors, got %d", len(vectors))
	}
	if vectors[0].Len() != 4 {
		t.Errorf("vectors[0].Len() = %d, want 4", vectors[0].Len())
	}

	// "editor" appears in 2 documents, "dialog" in 1
	if m.IDF("editor") >= m.IDF("dialog") {
		t.Errorf("Expected rarer term to weigh more: editor=%f dialog=%f", m.IDF("editor"), m.IDF("dialog"))
	}
	if m.IDF("unseen") <= m.IDF("dialog") {
		t.Errorf("Expected unseen term to weigh the most: unseen=%f dialog=%f", m.IDF("unseen"), m.IDF("dialog"))
	}
}

func TestSimilarity_Properties(t *testing.T) {
	m, _ := Fit(wordAnalyzer{}, testCorpus)

	texts := []string{
		"editor save dialog",
		"workbench layout broken",
		"toolbar",
		"nothing in common here",
	}

	for _, a := range texts {
		if got := m.Similarity(a, a); got != 1 {
			t.Errorf("Similarity(%q, itself) = %v, want 1", a, got)
		}
		if got := m.Similarity(a, ""); got != 0 {
			t.Errorf("Similarity(%q, \"\") = %v, want 0", a, got)
		}
		if got := m.Similarity("", a); got != 0 {
			t.Errorf("Similarity(\"\", %q) = %v, want 0", a, got)
		}
		for _, b := range texts {
			ab := m.Similarity(a, b)
			ba := m.Similarity(b, a)
			if ab != ba {
				t.Errorf("Similarity not symmetric for %q/%q: %v != %v", a, b, ab, ba)
			}
			if ab < 0 || ab > 1 {
				t.Errorf("Similarity(%q, %q) = %v out of range", a, b, ab)
			}
		}
	}
}

func TestSimilarity_MoreOverlapScoresHigher(t *testing.T) {
	m, vectors := Fit(wordAnalyzer{}, testCorpus)

	report := m.Vectorize("editor save dialog closes unexpectedly")
	first := Cosine(report, vectors[0])
	second := Cosine(report, vectors[1])
	third := Cosine(report, vectors[2])

	if first <= third {
		t.Errorf("Expected doc 0 (%v) to beat doc 2 (%v)", first, third)
	}
	if third <= second {
		t.Errorf("Expected doc 2 (%v) to beat doc 1 (%v)", third, second)
	}
	if second != 0 {
		t.Errorf("Expected no overlap with doc 1, got %v", second)
	}
}

func TestSimilarity_WithBleveAnalyzer(t *testing.T) {
	a, err := NewBleveAnalyzer()
	if err != nil {
		t.Fatalf("NewBleveAnalyzer failed: %v", err)
	}
	m, _ := Fit(a, []string{
		"public class EditorManager { void saveEditor() {} }",
		"public class LayoutHelper { void computeLayout() {} }",
	})

	report := "Saving an editor fails in the editor manager"
	if m.Similarity(report, "class EditorManager") <= m.Similarity(report, "class LayoutHelper") {
		t.Error("Expected the editor manager to be more similar")
	}
}

func TestCosine_ZeroVector(t *testing.T) {
	m, vectors := Fit(wordAnalyzer{}, testCorpus)

	if Cosine(Vector{}, vectors[0]) != 0 {
		t.Error("Expected 0 for empty vector")
	}
	if !m.Vectorize("").IsZero() {
		t.Error("Expected empty text to vectorize to zero")
	}
}
