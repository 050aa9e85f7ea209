package app

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sha1n/bugloc/internal/config"
	"github.com/sha1n/bugloc/internal/features"
	"github.com/sha1n/bugloc/internal/ranking"
	"gopkg.in/yaml.v3"
)

// EvaluationReport is the printable result of an evaluate run.
type EvaluationReport struct {
	Features   string                `yaml:"features"`
	Scorer     string                `yaml:"scorer"`
	TrainRows  int                   `yaml:"train_rows"`
	TestRows   int                   `yaml:"test_rows"`
	Evaluation ranking.Evaluation    `yaml:"evaluation"`
	Model      *ranking.LinearScorer `yaml:"model,omitempty"`
}

// RenderSummary writes the extraction summary table.
func RenderSummary(w io.Writer, s features.Summary) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Extraction", "Count"})
	tbl.AppendRows([]table.Row{
		{"Reports", humanize.Comma(int64(s.Reports))},
		{"Extracted", humanize.Comma(int64(s.Extracted))},
		{"No positives", humanize.Comma(int64(s.NoPositives))},
		{"Failed", humanize.Comma(int64(s.Failed))},
		{"Missing candidates", humanize.Comma(int64(s.MissingCandidates))},
		{"Positive rows", humanize.Comma(int64(s.PositiveRows))},
		{"Negative rows", humanize.Comma(int64(s.NegativeRows))},
	})
	tbl.AppendFooter(table.Row{"Rows", humanize.Comma(int64(s.Rows))})

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

// RenderEvaluation writes the evaluation as a table or as YAML.
func RenderEvaluation(w io.Writer, r EvaluationReport, format string) error {
	if format == config.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(roundedReport(r)); err != nil {
			return fmt.Errorf("failed to encode evaluation: %w", err)
		}
		return enc.Close()
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(fmt.Sprintf("%s scorer, %s test reports (%s rows)", r.Scorer,
		humanize.Comma(int64(r.Evaluation.Evaluated)), humanize.Comma(int64(r.TestRows))))
	tbl.AppendHeader(table.Row{"Top-k", "Hits", "Accuracy"})
	for _, a := range r.Evaluation.Accuracy {
		tbl.AppendRow(table.Row{a.K, a.Successes, fmt.Sprintf("%.3f", ranking.Round3(a.Value))})
	}
	if r.Evaluation.NoPositives > 0 {
		tbl.AppendFooter(table.Row{"Skipped", r.Evaluation.NoPositives, "no positive rows"})
	}

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

func roundedReport(r EvaluationReport) EvaluationReport {
	acc := make([]ranking.Accuracy, len(r.Evaluation.Accuracy))
	for i, a := range r.Evaluation.Accuracy {
		a.Value = ranking.Round3(a.Value)
		acc[i] = a
	}
	r.Evaluation.Accuracy = acc
	return r
}
