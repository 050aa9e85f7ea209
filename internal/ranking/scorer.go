package ranking

import (
	"math"

	"github.com/sha1n/bugloc/internal/domain"
)

// Scorer assigns a relevance score to a candidate file. Higher is more
// likely to be fixed by the report.
type Scorer interface {
	Predict(f domain.Features) float64
}

// Trainer fits a Scorer on labeled rows.
type Trainer interface {
	Fit(rows []domain.FeatureRow) (Scorer, error)
}

// RVSMScorer ranks by textual similarity alone.
type RVSMScorer struct{}

// Predict returns the rVSM similarity.
func (RVSMScorer) Predict(f domain.Features) float64 {
	return f.RVSM
}

// FeatureCount is the width of the vector a LinearScorer reads.
const FeatureCount = 5

// Vector maps features to the inputs of a linear model. A file without
// recency contributes zero for that input; frequency is log scaled.
func Vector(f domain.Features) [FeatureCount]float64 {
	var recency float64
	if f.Recency.Valid {
		recency = f.Recency.Value
	}
	return [FeatureCount]float64{
		f.RVSM,
		f.CollabFilter,
		f.ClassName,
		recency,
		math.Log1p(float64(f.Frequency)),
	}
}

// LinearScorer is a logistic model over Vector.
type LinearScorer struct {
	Weights [FeatureCount]float64 `json:"weights" yaml:"weights"`
	Bias    float64               `json:"bias" yaml:"bias"`
}

// Predict returns the probability the candidate is a fixed file.
func (s LinearScorer) Predict(f domain.Features) float64 {
	return sigmoid(s.logit(Vector(f)))
}

func (s LinearScorer) logit(x [FeatureCount]float64) float64 {
	z := s.Bias
	for i, w := range s.Weights {
		z += w * x[i]
	}
	return z
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
