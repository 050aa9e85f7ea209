package features

import (
	"cmp"
	"errors"
	"slices"

	"github.com/sha1n/bugloc/internal/corpus"
	"github.com/sha1n/bugloc/internal/domain"
	"github.com/sha1n/bugloc/internal/reports"
	"github.com/sha1n/bugloc/internal/textsim"
)

// DefaultNegativeSamples is the number of wrong files sampled per report.
const DefaultNegativeSamples = 50

// ErrInvalidReport indicates a report that cannot be assembled at all.
var ErrInvalidReport = errors.New("invalid bug report")

// Candidate is a corpus file scored against a report.
type Candidate struct {
	Path      string  `json:"path"`
	RVSM      float64 `json:"rvsm_similarity"`
	ClassName float64 `json:"classname_similarity"`
}

// Assembly is the outcome of assembling one report.
type Assembly struct {
	ReportID  string
	Rows      []domain.FeatureRow
	Positives int

	// Missing lists fixed files absent from the corpus snapshot.
	Missing []string
}

// Extractor computes feature rows against one corpus snapshot and report
// history. All state is built in NewExtractor; Assemble only reads it, so a
// single Extractor serves every worker of a run.
type Extractor struct {
	corpus       *corpus.Index
	history      *reports.History
	model        *textsim.Model
	budget       int
	fileVectors  map[string]textsim.Vector
	classVectors map[string]textsim.Vector
}

// NewExtractor fits the similarity model on the corpus and precomputes the
// file text and class name vectors.
func NewExtractor(idx *corpus.Index, history *reports.History, analyzer textsim.Analyzer, budget int) *Extractor {
	if budget <= 0 {
		budget = DefaultNegativeSamples
	}

	model, vectors := textsim.Fit(analyzer, idx.Texts())
	e := &Extractor{
		corpus:       idx,
		history:      history,
		model:        model,
		budget:       budget,
		fileVectors:  make(map[string]textsim.Vector, idx.Len()),
		classVectors: make(map[string]textsim.Vector, idx.Len()),
	}
	for i, path := range idx.Paths() {
		f, _ := idx.Get(path)
		e.fileVectors[path] = vectors[i]
		e.classVectors[path] = model.Vectorize(corpus.ClassCorpus(f.Extension(), f.Text))
	}
	return e
}

// Model returns the fitted similarity model.
func (e *Extractor) Model() *textsim.Model {
	return e.model
}

// SampleWrongFiles ranks every corpus file outside trueFiles by rVSM
// similarity to reportText and returns the most similar ones, up to the
// sampling budget. Ties keep ascending path order.
func (e *Extractor) SampleWrongFiles(trueFiles map[string]struct{}, reportText string) []Candidate {
	return e.sample(trueFiles, e.model.Vectorize(reportText), e.budget)
}

// Rank scores the whole corpus against reportText and returns the top limit
// files.
func (e *Extractor) Rank(reportText string, limit int) []Candidate {
	return e.sample(nil, e.model.Vectorize(reportText), limit)
}

func (e *Extractor) sample(exclude map[string]struct{}, reportVector textsim.Vector, limit int) []Candidate {
	candidates := make([]Candidate, 0, e.corpus.Len())
	for _, path := range e.corpus.Paths() {
		if _, ok := exclude[path]; ok {
			continue
		}
		candidates = append(candidates, Candidate{
			Path: path,
			RVSM: textsim.Cosine(reportVector, e.fileVectors[path]),
		})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.RVSM, a.RVSM)
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	for i := range candidates {
		candidates[i].ClassName = textsim.Cosine(reportVector, e.classVectors[candidates[i].Path])
	}
	return candidates
}

// Assemble produces the labeled rows of one report: a positive row for every
// distinct fixed file found in the corpus, then a negative row for every sampled wrong
// file. Negative rows carry the collaborative filter, recency and frequency
// values of the last positive file; those three are report level values.
func (e *Extractor) Assemble(report *domain.BugReport) (Assembly, error) {
	if report == nil || report.ID == "" {
		return Assembly{}, ErrInvalidReport
	}

	result := Assembly{ReportID: report.ID}
	reportVector := e.model.Vectorize(report.RawText)

	var shared domain.Features
	fixed := make(map[string]struct{}, len(report.FixedFiles))
	for _, path := range report.FixedFiles {
		path = domain.NormalizePath(path)
		if _, dup := fixed[path]; dup || path == "" {
			continue
		}
		fixed[path] = struct{}{}

		if !e.corpus.Contains(path) {
			result.Missing = append(result.Missing, path)
			continue
		}

		prior := e.history.Before(path, report.ReportTime)
		var mostRecent *domain.BugReport
		if len(prior) > 0 {
			mostRecent = prior[len(prior)-1]
		}

		f := domain.Features{
			RVSM:         textsim.Cosine(reportVector, e.fileVectors[path]),
			CollabFilter: textsim.Cosine(reportVector, e.model.Vectorize(e.history.CollaborativeText(path, report.ReportTime))),
			ClassName:    textsim.Cosine(reportVector, e.classVectors[path]),
			Recency:      reports.Recency(report, mostRecent),
			Frequency:    len(prior),
		}
		shared = f

		result.Rows = append(result.Rows, domain.FeatureRow{
			ReportID: report.ID,
			FilePath: path,
			Features: f,
			Label:    1,
		})
		result.Positives++
	}

	if result.Positives == 0 {
		return result, nil
	}

	for _, c := range e.sample(fixed, reportVector, e.budget) {
		result.Rows = append(result.Rows, domain.FeatureRow{
			ReportID: report.ID,
			FilePath: c.Path,
			Features: domain.Features{
				RVSM:         c.RVSM,
				CollabFilter: shared.CollabFilter,
				ClassName:    c.ClassName,
				Recency:      shared.Recency,
				Frequency:    shared.Frequency,
			},
			Label: 0,
		})
	}
	return result, nil
}
