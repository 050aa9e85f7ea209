package features

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sha1n/bugloc/internal/domain"
)

// stubAssembler returns canned assemblies by report id.
type stubAssembler struct {
	calls atomic.Int32
}

func (s *stubAssembler) Assemble(r *domain.BugReport) (Assembly, error) {
	s.calls.Add(1)
	switch r.ID {
	case "bad":
		return Assembly{}, errors.New("corrupt report")
	case "boom":
		panic("unexpected nil")
	case "empty":
		return Assembly{ReportID: r.ID, Missing: []string{"Gone.java"}}, nil
	}
	return Assembly{
		ReportID:  r.ID,
		Positives: 1,
		Rows: []domain.FeatureRow{
			{ReportID: r.ID, FilePath: "A.java", Label: 1},
			{ReportID: r.ID, FilePath: "B.java", Label: 0},
			{ReportID: r.ID, FilePath: "C.java", Label: 0},
		},
	}, nil
}

func reportsWithIDs(ids ...string) []*domain.BugReport {
	out := make([]*domain.BugReport, len(ids))
	for i, id := range ids {
		out[i] = &domain.BugReport{ID: id}
	}
	return out
}

func TestDriver_Run_CountsOutcomes(t *testing.T) {
	stub := &stubAssembler{}
	d := NewDriver(stub, 3, NewMetrics())

	res := d.Run(reportsWithIDs("1", "bad", "2", "boom", "empty", "3"))

	if int(stub.calls.Load()) != 6 {
		t.Errorf("Assembler called %d times, want 6", stub.calls.Load())
	}
	s := res.Summary
	if s.Reports != 6 || s.Extracted != 3 || s.Failed != 2 || s.NoPositives != 1 {
		t.Errorf("Unexpected summary: %+v", s)
	}
	if s.MissingCandidates != 1 {
		t.Errorf("MissingCandidates = %d, want 1", s.MissingCandidates)
	}
	if s.Rows != 9 || s.PositiveRows != 3 || s.NegativeRows != 6 {
		t.Errorf("Unexpected row counts: %+v", s)
	}
	if len(res.Failures) != 2 {
		t.Fatalf("Expected 2 failures, got %d", len(res.Failures))
	}
	if res.Failures[0].ReportID != "bad" || res.Failures[1].ReportID != "boom" {
		t.Errorf("Failures = %+v", res.Failures)
	}
	if !strings.Contains(res.Failures[1].Error, "panic") {
		t.Errorf("Expected recovered panic, got %q", res.Failures[1].Error)
	}
}

func TestDriver_Run_PreservesReportOrder(t *testing.T) {
	ids := make([]string, 40)
	for i := range ids {
		ids[i] = fmt.Sprintf("r%02d", i)
	}
	d := NewDriver(&stubAssembler{}, 8, nil)

	res := d.Run(reportsWithIDs(ids...))

	if len(res.Rows) != 3*len(ids) {
		t.Fatalf("Expected %d rows, got %d", 3*len(ids), len(res.Rows))
	}
	for i, row := range res.Rows {
		if row.ReportID != ids[i/3] {
			t.Fatalf("Row %d belongs to %s, want %s", i, row.ReportID, ids[i/3])
		}
	}
}

func TestDriver_Run_Empty(t *testing.T) {
	res := NewDriver(&stubAssembler{}, 0, nil).Run(nil)
	if res.Summary.Reports != 0 || len(res.Rows) != 0 {
		t.Errorf("Expected empty result, got %+v", res.Summary)
	}
}

func TestNewDriver_DefaultWorkers(t *testing.T) {
	d := NewDriver(&stubAssembler{}, 0, nil)
	if d.Workers() != DefaultWorkers() {
		t.Errorf("Workers() = %d, want %d", d.Workers(), DefaultWorkers())
	}
	if w := NewDriver(&stubAssembler{}, 3, nil).Workers(); w != 3 {
		t.Errorf("Workers() = %d, want 3", w)
	}
	if DefaultWorkers() < 1 {
		t.Errorf("DefaultWorkers() = %d, want at least 1", DefaultWorkers())
	}
}

func TestDriver_Run_WithExtractor(t *testing.T) {
	first := bugReport("1", at(2014, 1, 10), "editor save crash", "A.java")
	second := bugReport("2", at(2014, 2, 10), "socket timeout", "Missing.java")
	e := newTestExtractor(t, map[string]string{
		"A.java": "editor save dialog",
		"B.java": "network socket timeout",
		"C.java": "layout",
	}, 1, first, second)

	res := NewDriver(e, 2, nil).Run([]*domain.BugReport{first, second})

	if res.Summary.Extracted != 1 || res.Summary.NoPositives != 1 {
		t.Errorf("Unexpected summary: %+v", res.Summary)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("Expected 1 positive and 1 negative row, got %d", len(res.Rows))
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	NewDriver(&stubAssembler{}, 2, m).Run(reportsWithIDs("1", "bad", "empty"))

	path := filepath.Join(t.TempDir(), "bugloc.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read metrics: %v", err)
	}

	for _, want := range []string{
		`bugloc_reports_total{outcome="extracted"} 1`,
		`bugloc_reports_total{outcome="failed"} 1`,
		`bugloc_reports_total{outcome="no_positives"} 1`,
		`bugloc_feature_rows_total{label="0"} 2`,
		`bugloc_feature_rows_total{label="1"} 1`,
		`bugloc_missing_candidates_total 1`,
		`bugloc_report_extraction_seconds_count 3`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Metrics output missing %q:\n%s", want, data)
		}
	}
}
