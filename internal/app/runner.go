package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sha1n/bugloc/internal/config"
	"github.com/sha1n/bugloc/internal/corpus"
	"github.com/sha1n/bugloc/internal/features"
	mcputil "github.com/sha1n/bugloc/internal/mcp"
	"github.com/sha1n/bugloc/internal/ranking"
	"github.com/sha1n/bugloc/internal/textsim"
	"github.com/spf13/pflag"
)

// RunParams contains dependencies for the run functions
type RunParams struct {
	LoadSettings      func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings     func(*config.Settings, string) error
	LoadSnapshot      SnapshotLoader
	NewAnalyzer       func() (textsim.Analyzer, error)
	Output            io.Writer     // Optional: defaults to stdout
	LogOutput         io.Writer     // Optional: defaults to stderr
	CustomIOTransport mcp.Transport // Optional: for testing with custom IO
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:  config.LoadSettingsWithFlags,
		ValidSettings: config.ValidateSettings,
		LoadSnapshot:  NewSnapshotLoader(corpus.NewGitClient()),
		NewAnalyzer:   NewBleveAnalyzer,
	}
}

// NewBleveAnalyzer creates the production text analyzer.
func NewBleveAnalyzer() (textsim.Analyzer, error) {
	a, err := textsim.NewBleveAnalyzer()
	if err != nil {
		return nil, err
	}
	return a, nil
}

// setup loads and validates settings and installs the logger
func setup(params RunParams, flags *pflag.FlagSet, command, version string) (*config.Settings, error) {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if err := params.ValidSettings(settings, command); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Always log to stderr; stdout carries command output and MCP traffic
	logOutput := params.LogOutput
	if logOutput == nil {
		logOutput = os.Stderr
	}
	slog.SetDefault(config.NewLogger(logOutput, settings.LogLevel))

	slog.Info("Starting bugloc", "command", command, "version", version)
	config.Log(settings, command)
	return settings, nil
}

func (p RunParams) output() io.Writer {
	if p.Output == nil {
		return os.Stdout
	}
	return p.Output
}

// RunExtract builds the feature table
func RunExtract(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := setup(params, flags, config.CommandExtract, version)
	if err != nil {
		return err
	}

	// Held for the whole run so a concurrent run fails before doing any work
	lock := features.NewTableLock(settings.Extraction.Output)
	if err := lock.TryLock(); err != nil {
		return fmt.Errorf("failed to lock feature table: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	manifest := features.NewRunManifest(time.Now())
	snapshot, err := params.LoadSnapshot(ctx, settings)
	if err != nil {
		return err
	}

	analyzer, err := params.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	fitStart := time.Now()
	extractor := features.NewExtractor(snapshot.Corpus, snapshot.History, analyzer, settings.Extraction.NegativeSamples)
	slog.Info("Similarity model fitted", "documents", extractor.Model().Documents(), "duration", time.Since(fitStart))

	metrics := features.NewMetrics()
	driver := features.NewDriver(extractor, settings.Extraction.Workers, metrics)
	result := driver.Run(snapshot.Reports)
	slog.Info("Extraction finished",
		"reports", result.Summary.Reports,
		"extracted", result.Summary.Extracted,
		"no_positives", result.Summary.NoPositives,
		"failed", result.Summary.Failed,
		"missing_candidates", result.Summary.MissingCandidates,
		"rows", result.Summary.Rows,
		"duration", result.Summary.Duration)

	if err := lock.Save(result.Rows); err != nil {
		return fmt.Errorf("failed to write feature table: %w", err)
	}
	slog.Info("Feature table written", "path", settings.Extraction.Output)

	manifest.FinishedAt = time.Now().UTC()
	manifest.Dataset = settings.Dataset
	manifest.CorpusDir = settings.Corpus.Dir
	manifest.Commit = snapshot.Commit
	manifest.ReportsPath = settings.Reports.Path
	manifest.Output = settings.Extraction.Output
	manifest.NegativeSamples = settings.Extraction.NegativeSamples
	manifest.Workers = driver.Workers()
	manifest.CorpusFiles = snapshot.Corpus.Len()
	manifest.Summary = result.Summary
	manifest.Failures = result.Failures
	if err := manifest.Save(settings.Extraction.Manifest); err != nil {
		return fmt.Errorf("failed to write run manifest: %w", err)
	}

	if settings.Extraction.MetricsFile != "" {
		if err := metrics.WriteTextfile(settings.Extraction.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return RenderSummary(params.output(), result.Summary)
}

// RunEvaluate ranks held out reports of a feature table
func RunEvaluate(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := setup(params, flags, config.CommandEvaluate, version)
	if err != nil {
		return err
	}
	ev := settings.Evaluation

	rows, err := features.LoadTable(ev.Features)
	if err != nil {
		return err
	}
	train, test, err := ranking.SplitByReport(rows, ev.TestFraction, ev.Seed)
	if err != nil {
		return fmt.Errorf("failed to split feature table: %w", err)
	}
	slog.Info("Feature table split", "rows", len(rows), "train_rows", len(train), "test_rows", len(test))

	report := EvaluationReport{
		Features:  ev.Features,
		Scorer:    ev.Scorer,
		TrainRows: len(train),
		TestRows:  len(test),
	}

	var scorer ranking.Scorer = ranking.RVSMScorer{}
	if ev.Scorer == config.ScorerLogistic {
		trained, err := ranking.NewLogisticTrainer(ev.Epochs, ev.LearningRate).Fit(train)
		if err != nil {
			return fmt.Errorf("failed to train scorer: %w", err)
		}
		if model, ok := trained.(ranking.LinearScorer); ok {
			report.Model = &model
		}
		scorer = trained
	}

	eval, err := ranking.Evaluate(scorer, test)
	if err != nil {
		return fmt.Errorf("failed to evaluate: %w", err)
	}
	report.Evaluation = eval
	slog.Info("Evaluation finished", "reports", eval.Reports, "evaluated", eval.Evaluated,
		"top1", ranking.Round3(eval.At(1)), "top10", ranking.Round3(eval.At(10)))

	return RenderEvaluation(params.output(), report, ev.Format)
}

// RunServe serves the snapshot tools over MCP
func RunServe(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := setup(params, flags, config.CommandServe, version)
	if err != nil {
		return err
	}

	snapshot, err := params.LoadSnapshot(ctx, settings)
	if err != nil {
		return err
	}
	analyzer, err := params.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}
	extractor := features.NewExtractor(snapshot.Corpus, snapshot.History, analyzer, settings.Extraction.NegativeSamples)

	server := mcputil.CreateServer(mcputil.ServerConfig{
		Name:       "bugloc",
		Version:    version,
		Ranker:     extractor,
		History:    snapshot.History,
		Files:      snapshot.Corpus,
		MaxResults: settings.Serve.MaxResults,
	})

	// Use custom transport if provided (for testing), otherwise use stdio
	transport := params.CustomIOTransport
	if transport == nil {
		transport = &mcp.StdioTransport{}
	}
	slog.Info("Serving MCP over stdio", "files", snapshot.Corpus.Len(), "reports", snapshot.History.Len())
	return server.Run(ctx, transport)
}
