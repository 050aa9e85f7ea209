package reports

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/sha1n/bugloc/internal/domain"
)

// History indexes bug reports by the files their fixes touched. It is built
// once per run and read concurrently afterwards.
type History struct {
	reports []*domain.BugReport
	byFile  map[string][]*domain.BugReport
}

// NewHistory orders reports by report time (archive order breaks ties) and
// indexes them per fixed file.
func NewHistory(reports []*domain.BugReport) *History {
	ordered := slices.Clone(reports)
	slices.SortStableFunc(ordered, func(a, b *domain.BugReport) int {
		return a.ReportTime.Compare(b.ReportTime)
	})

	byFile := make(map[string][]*domain.BugReport)
	for _, r := range ordered {
		for _, f := range r.FixedFiles {
			byFile[f] = append(byFile[f], r)
		}
	}

	return &History{
		reports: ordered,
		byFile:  byFile,
	}
}

// Reports returns all reports ordered by report time.
func (h *History) Reports() []*domain.BugReport {
	return h.reports
}

// Len returns the number of reports.
func (h *History) Len() int {
	return len(h.reports)
}

// Before returns the reports that fixed path and were reported strictly
// before asOf, in ascending report time.
func (h *History) Before(path string, asOf time.Time) []*domain.BugReport {
	fixes := h.byFile[path]
	n := sort.Search(len(fixes), func(i int) bool {
		return !fixes[i].ReportTime.Before(asOf)
	})
	return fixes[:n:n]
}

// MostRecent returns the last report that fixed path before asOf.
func (h *History) MostRecent(path string, asOf time.Time) (*domain.BugReport, bool) {
	prior := h.Before(path, asOf)
	if len(prior) == 0 {
		return nil, false
	}
	return prior[len(prior)-1], true
}

// Frequency returns the number of fixes to path before asOf.
func (h *History) Frequency(path string, asOf time.Time) int {
	return len(h.Before(path, asOf))
}

// CollaborativeText concatenates the raw text of the reports that fixed path
// before asOf.
func (h *History) CollaborativeText(path string, asOf time.Time) string {
	prior := h.Before(path, asOf)
	texts := make([]string, len(prior))
	for i, r := range prior {
		texts[i] = r.RawText
	}
	return strings.Join(texts, " ")
}

// Recency decays with the number of calendar months between a report and the
// most recent prior fix: 1 / (months + 1). Without a prior fix there is no
// signal.
func Recency(report, prior *domain.BugReport) domain.Recency {
	if report == nil || prior == nil {
		return domain.NoRecency
	}
	return domain.RecencyOf(1 / float64(MonthsBetween(report.ReportTime, prior.ReportTime)+1))
}

// MonthsBetween returns the absolute calendar month difference of a and b.
// Days within the month are ignored.
func MonthsBetween(a, b time.Time) int {
	a, b = a.UTC(), b.UTC()
	months := (a.Year()-b.Year())*12 + int(a.Month()) - int(b.Month())
	if months < 0 {
		return -months
	}
	return months
}
