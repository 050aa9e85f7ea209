package ranking

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sha1n/bugloc/internal/domain"
)

// ErrTooFewReports indicates a table that cannot be split into non-empty
// train and test sides.
var ErrTooFewReports = errors.New("at least two reports are required to split")

// SplitByReport partitions rows into train and test sets so that every row
// of a report lands on the same side. The same seed gives the same split.
// Both sides hold at least one report.
func SplitByReport(rows []domain.FeatureRow, testFraction float64, seed uint64) (train, test []domain.FeatureRow, err error) {
	ids := reportOrder(rows)
	if len(ids) < 2 {
		return nil, nil, fmt.Errorf("%w: table has %d", ErrTooFewReports, len(ids))
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	n := int(float64(len(ids))*testFraction + 0.5)
	n = min(max(n, 1), len(ids)-1)

	held := make(map[string]struct{}, n)
	for _, id := range ids[:n] {
		held[id] = struct{}{}
	}
	for _, r := range rows {
		if _, ok := held[r.ReportID]; ok {
			test = append(test, r)
		} else {
			train = append(train, r)
		}
	}
	return train, test, nil
}

func reportOrder(rows []domain.FeatureRow) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, r := range rows {
		if _, ok := seen[r.ReportID]; ok {
			continue
		}
		seen[r.ReportID] = struct{}{}
		ids = append(ids, r.ReportID)
	}
	return ids
}
