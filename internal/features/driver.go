package features

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/sha1n/bugloc/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Assembler produces the rows of a single report.
type Assembler interface {
	Assemble(report *domain.BugReport) (Assembly, error)
}

// Summary counts what an extraction run produced and skipped.
type Summary struct {
	Reports           int           `json:"reports"`
	Extracted         int           `json:"extracted"`
	NoPositives       int           `json:"no_positives"`
	Failed            int           `json:"failed"`
	MissingCandidates int           `json:"missing_candidates"`
	Rows              int           `json:"rows"`
	PositiveRows      int           `json:"positive_rows"`
	NegativeRows      int           `json:"negative_rows"`
	Duration          time.Duration `json:"duration"`
}

// Failure records a report whose extraction failed.
type Failure struct {
	ReportID string `json:"report_id"`
	Error    string `json:"error"`
}

// Result is the joined output of an extraction run.
type Result struct {
	Rows     []domain.FeatureRow
	Summary  Summary
	Failures []Failure
}

// DefaultWorkers leaves one CPU of headroom.
func DefaultWorkers() int {
	return max(1, runtime.GOMAXPROCS(0)-1)
}

// Driver fans report assembly out over a bounded worker pool.
type Driver struct {
	assembler Assembler
	workers   int
	metrics   *Metrics
}

// NewDriver creates a driver. A non-positive workers value uses DefaultWorkers;
// metrics may be nil.
func NewDriver(assembler Assembler, workers int, metrics *Metrics) *Driver {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &Driver{
		assembler: assembler,
		workers:   workers,
		metrics:   metrics,
	}
}

// Workers returns the pool size used by Run.
func (d *Driver) Workers() int {
	return d.workers
}

type outcome struct {
	assembly Assembly
	err      error
}

// Run assembles every report and returns once all of them are done. Rows
// keep report order, and row order within a report. A report that fails
// contributes no rows and is counted; it never stops the run.
func (d *Driver) Run(reports []*domain.BugReport) Result {
	start := time.Now()
	outcomes := make([]outcome, len(reports))

	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, report := range reports {
		g.Go(func() error {
			outcomes[i] = d.extract(report)
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Summary: Summary{Reports: len(reports)}}
	for i, o := range outcomes {
		result.Summary.MissingCandidates += len(o.assembly.Missing)
		switch {
		case o.err != nil:
			result.Summary.Failed++
			result.Failures = append(result.Failures, Failure{ReportID: reportID(reports[i]), Error: o.err.Error()})
		case o.assembly.Positives == 0:
			result.Summary.NoPositives++
		default:
			result.Summary.Extracted++
			result.Summary.PositiveRows += o.assembly.Positives
			result.Summary.NegativeRows += len(o.assembly.Rows) - o.assembly.Positives
			result.Rows = append(result.Rows, o.assembly.Rows...)
		}
	}
	result.Summary.Rows = len(result.Rows)
	result.Summary.Duration = time.Since(start)

	return result
}

func (d *Driver) extract(report *domain.BugReport) (o outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: fmt.Errorf("panic: %v", r)}
		}

		label := OutcomeExtracted
		switch {
		case o.err != nil:
			label = OutcomeFailed
			slog.Warn("Report extraction failed", "report_id", reportID(report), "error", o.err)
		case o.assembly.Positives == 0:
			label = OutcomeNoPositives
			slog.Debug("Report has no positives in corpus", "report_id", reportID(report),
				"missing", len(o.assembly.Missing))
		}
		d.metrics.observe(label, o.assembly, time.Since(start).Seconds())
	}()

	a, err := d.assembler.Assemble(report)
	if err != nil {
		return outcome{err: err}
	}
	return outcome{assembly: a}
}

func reportID(r *domain.BugReport) string {
	if r == nil {
		return ""
	}
	return r.ID
}
