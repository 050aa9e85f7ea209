package ranking

import (
	"cmp"
	"errors"
	"math"
	"slices"

	"github.com/sha1n/bugloc/internal/domain"
)

// MaxK is the largest cutoff accuracy is reported for.
const MaxK = 20

// ErrNoRows indicates there was nothing to train on or evaluate.
var ErrNoRows = errors.New("no feature rows")

// Accuracy is the top-k accuracy at one cutoff.
type Accuracy struct {
	K         int     `json:"k" yaml:"k"`
	Successes int     `json:"successes" yaml:"successes"`
	Value     float64 `json:"accuracy" yaml:"accuracy"`
}

// Evaluation is the result of ranking every report's rows.
type Evaluation struct {
	Reports     int        `json:"reports" yaml:"reports"`
	Evaluated   int        `json:"evaluated" yaml:"evaluated"`
	NoPositives int        `json:"no_positives" yaml:"no_positives"`
	Accuracy    []Accuracy `json:"accuracy" yaml:"accuracy"`
}

// At returns the accuracy at k, or 0 outside 1..MaxK.
func (e Evaluation) At(k int) float64 {
	if k < 1 || k > len(e.Accuracy) {
		return 0
	}
	return e.Accuracy[k-1].Value
}

// Evaluate groups rows by report, orders each group by score and computes
// top-k accuracy for k = 1..MaxK. Equal scores keep row order. Reports
// without a positive row are not part of the denominator.
func Evaluate(scorer Scorer, rows []domain.FeatureRow) (Evaluation, error) {
	if len(rows) == 0 {
		return Evaluation{}, ErrNoRows
	}

	type scored struct {
		score    float64
		positive bool
	}
	groups := make(map[string][]scored)
	order := reportOrder(rows)
	for _, r := range rows {
		groups[r.ReportID] = append(groups[r.ReportID], scored{score: scorer.Predict(r.Features), positive: r.Positive()})
	}

	eval := Evaluation{Reports: len(order)}
	successes := make([]int, MaxK)
	for _, id := range order {
		group := groups[id]
		// Rank of the best placed positive; successes at every k >= rank.
		slices.SortStableFunc(group, func(a, b scored) int {
			return cmp.Compare(b.score, a.score)
		})
		rank := slices.IndexFunc(group, func(s scored) bool { return s.positive })
		if rank < 0 {
			eval.NoPositives++
			continue
		}
		eval.Evaluated++
		for k := rank + 1; k <= MaxK; k++ {
			successes[k-1]++
		}
	}

	eval.Accuracy = make([]Accuracy, MaxK)
	for i, s := range successes {
		a := Accuracy{K: i + 1, Successes: s}
		if eval.Evaluated > 0 {
			a.Value = float64(s) / float64(eval.Evaluated)
		}
		eval.Accuracy[i] = a
	}
	return eval, nil
}

// Round3 rounds to three decimals for display.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
