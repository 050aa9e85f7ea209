package config

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// ParseLogLevel maps a level name to a slog level, defaulting to info.
func ParseLogLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a text logger writing to w at the given level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLogLevel(level)}))
}

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings, command string) {
	LogWithLogger(s, command, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, command string, logger *slog.Logger) {
	ctx := context.Background()
	logger.InfoContext(ctx, "Config: log_level", "value", s.LogLevel)
	if s.Dataset != "" {
		logger.InfoContext(ctx, "Config: dataset", "value", s.Dataset)
	}

	if command == CommandExtract || command == CommandServe {
		logger.InfoContext(ctx, "Config: corpus.dir", "value", s.Corpus.Dir)
		if s.Corpus.RepoURL != "" {
			logger.InfoContext(ctx, "Config: corpus.repo_url", "value", s.Corpus.RepoURL)
		}
		if s.Corpus.RepoDir != s.Corpus.Dir {
			logger.InfoContext(ctx, "Config: corpus.repo_dir", "value", s.Corpus.RepoDir)
		}
		if s.Corpus.Commit != "" {
			logger.InfoContext(ctx, "Config: corpus.commit", "value", s.Corpus.Commit)
		}
		logger.InfoContext(ctx, "Config: corpus.languages", "value", s.Corpus.Languages)
		logger.InfoContext(ctx, "Config: corpus.max_file_size", "value", s.Corpus.MaxFileSize)
		logger.InfoContext(ctx, "Config: reports.path", "value", s.Reports.Path)
		if s.Reports.PathPrefix != "" {
			logger.InfoContext(ctx, "Config: reports.path_prefix", "value", s.Reports.PathPrefix)
		}
		logger.InfoContext(ctx, "Config: reports.extensions", "value", s.Reports.Extensions)
	}

	switch command {
	case CommandExtract:
		logger.InfoContext(ctx, "Config: extraction.negative_samples", "value", s.Extraction.NegativeSamples)
		logger.InfoContext(ctx, "Config: extraction.workers", "value", s.Extraction.Workers)
		logger.InfoContext(ctx, "Config: extraction.output", "value", s.Extraction.Output)
		logger.InfoContext(ctx, "Config: extraction.manifest", "value", s.Extraction.Manifest)
		if s.Extraction.MetricsFile != "" {
			logger.InfoContext(ctx, "Config: extraction.metrics_file", "value", s.Extraction.MetricsFile)
		}
	case CommandEvaluate:
		logger.InfoContext(ctx, "Config: evaluation.features", "value", s.Evaluation.Features)
		logger.InfoContext(ctx, "Config: evaluation.scorer", "value", s.Evaluation.Scorer)
		logger.InfoContext(ctx, "Config: evaluation.test_fraction", "value", s.Evaluation.TestFraction)
		logger.InfoContext(ctx, "Config: evaluation.seed", "value", s.Evaluation.Seed)
		if s.Evaluation.Scorer == ScorerLogistic {
			logger.InfoContext(ctx, "Config: evaluation.epochs", "value", s.Evaluation.Epochs)
			logger.InfoContext(ctx, "Config: evaluation.learning_rate", "value", s.Evaluation.LearningRate)
		}
	case CommandServe:
		logger.InfoContext(ctx, "Config: serve.max_results", "value", s.Serve.MaxResults)
	}
}

// SettingsLogValue returns a slog.Value for Settings
func SettingsLogValue(s Settings) slog.Value {
	return slog.GroupValue(
		slog.String("dataset", s.Dataset),
		slog.String("corpus_dir", s.Corpus.Dir),
		slog.String("reports", s.Reports.Path),
		slog.String("output", s.Extraction.Output),
		slog.Int("negative_samples", s.Extraction.NegativeSamples),
	)
}
