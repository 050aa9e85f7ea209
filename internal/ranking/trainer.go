package ranking

import (
	"fmt"
	"log/slog"

	"github.com/sha1n/bugloc/internal/domain"
)

// Logistic trainer defaults.
const (
	DefaultEpochs       = 200
	DefaultLearningRate = 0.1
)

// LogisticTrainer fits a LinearScorer with full batch gradient descent on
// the log loss. Positives are weighted by the negative to positive ratio so
// the sampled negatives do not drown them.
type LogisticTrainer struct {
	Epochs       int
	LearningRate float64
}

// NewLogisticTrainer returns a trainer, substituting defaults for
// non-positive values.
func NewLogisticTrainer(epochs int, learningRate float64) *LogisticTrainer {
	if epochs <= 0 {
		epochs = DefaultEpochs
	}
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	return &LogisticTrainer{Epochs: epochs, LearningRate: learningRate}
}

// Fit trains on rows. Both labels must be present.
func (t *LogisticTrainer) Fit(rows []domain.FeatureRow) (Scorer, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	xs := make([][FeatureCount]float64, len(rows))
	var positives int
	for i, r := range rows {
		xs[i] = Vector(r.Features)
		if r.Positive() {
			positives++
		}
	}
	negatives := len(rows) - positives
	if positives == 0 || negatives == 0 {
		return nil, fmt.Errorf("training needs both labels: %d positive, %d negative rows", positives, negatives)
	}
	positiveWeight := float64(negatives) / float64(positives)
	total := 2 * float64(negatives)

	var model LinearScorer
	for range t.Epochs {
		var grad [FeatureCount]float64
		var gradBias float64
		for i, r := range rows {
			weight, y := 1.0, 0.0
			if r.Positive() {
				weight, y = positiveWeight, 1.0
			}
			diff := weight * (sigmoid(model.logit(xs[i])) - y)
			for j := range grad {
				grad[j] += diff * xs[i][j]
			}
			gradBias += diff
		}
		for j := range model.Weights {
			model.Weights[j] -= t.LearningRate * grad[j] / total
		}
		model.Bias -= t.LearningRate * gradBias / total
	}

	slog.Debug("Trained logistic scorer", "rows", len(rows), "positives", positives,
		"epochs", t.Epochs, "weights", model.Weights, "bias", model.Bias)
	return model, nil
}
