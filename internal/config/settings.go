package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Command names settings are validated for.
const (
	CommandExtract  = "extract"
	CommandEvaluate = "evaluate"
	CommandServe    = "serve"
)

// Scorer and output format names.
const (
	ScorerRVSM     = "rvsm"
	ScorerLogistic = "logistic"

	FormatTable = "table"
	FormatYAML  = "yaml"
)

// CorpusSettings configuration for the source snapshot
type CorpusSettings struct {
	Dir         string   `mapstructure:"dir"`
	RepoDir     string   `mapstructure:"repo_dir"`
	RepoURL     string   `mapstructure:"repo_url"`
	Commit      string   `mapstructure:"commit"`
	Languages   []string `mapstructure:"languages"`
	MaxFileSize int64    `mapstructure:"max_file_size"`
}

// ReportsSettings configuration for the bug report archive
type ReportsSettings struct {
	Path       string   `mapstructure:"path"`
	PathPrefix string   `mapstructure:"path_prefix"`
	Extensions []string `mapstructure:"extensions"`
}

// ExtractionSettings configuration for feature extraction
type ExtractionSettings struct {
	NegativeSamples int    `mapstructure:"negative_samples"`
	Workers         int    `mapstructure:"workers"`
	Output          string `mapstructure:"output"`
	Manifest        string `mapstructure:"manifest"`
	MetricsFile     string `mapstructure:"metrics_file"`
}

// EvaluationSettings configuration for ranking evaluation
type EvaluationSettings struct {
	Features     string  `mapstructure:"features"`
	Scorer       string  `mapstructure:"scorer"`
	TestFraction float64 `mapstructure:"test_fraction"`
	Seed         uint64  `mapstructure:"seed"`
	Epochs       int     `mapstructure:"epochs"`
	LearningRate float64 `mapstructure:"learning_rate"`
	Format       string  `mapstructure:"format"`
}

// ServeSettings configuration for the MCP server
type ServeSettings struct {
	MaxResults int `mapstructure:"max_results"`
}

// Settings application settings
type Settings struct {
	LogLevel   string             `mapstructure:"log_level"`
	DataDir    string             `mapstructure:"data_dir"`
	Dataset    string             `mapstructure:"dataset"`
	Corpus     CorpusSettings     `mapstructure:"corpus"`
	Reports    ReportsSettings    `mapstructure:"reports"`
	Extraction ExtractionSettings `mapstructure:"extraction"`
	Evaluation EvaluationSettings `mapstructure:"evaluation"`
	Serve      ServeSettings      `mapstructure:"serve"`
}

// flagBindings maps settings keys to CLI flag names.
var flagBindings = map[string]string{
	"log_level":                   "log-level",
	"data_dir":                    "data-dir",
	"dataset":                     "dataset",
	"corpus.dir":                  "corpus-dir",
	"corpus.repo_url":             "repo-url",
	"corpus.commit":               "commit",
	"corpus.languages":            "languages",
	"corpus.max_file_size":        "max-file-size",
	"reports.path":                "reports",
	"reports.path_prefix":         "path-prefix",
	"reports.extensions":          "extensions",
	"extraction.negative_samples": "negative-samples",
	"extraction.workers":          "workers",
	"extraction.output":           "output",
	"extraction.manifest":         "manifest",
	"extraction.metrics_file":     "metrics-file",
	"evaluation.features":         "features",
	"evaluation.scorer":           "scorer",
	"evaluation.test_fraction":    "test-fraction",
	"evaluation.seed":             "seed",
	"evaluation.epochs":           "epochs",
	"evaluation.learning_rate":    "learning-rate",
	"evaluation.format":           "format",
	"serve.max_results":           "max-results",
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > config file > .env file > defaults.
// The config file is only read when the "config" flag names one.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("dataset", "")

	v.SetDefault("corpus.dir", "")
	v.SetDefault("corpus.repo_dir", "")
	v.SetDefault("corpus.repo_url", "")
	v.SetDefault("corpus.commit", "")
	v.SetDefault("corpus.languages", []string{"Java"})
	v.SetDefault("corpus.max_file_size", int64(1024*1024)) // 1MB

	v.SetDefault("reports.path", "")
	v.SetDefault("reports.path_prefix", "")
	v.SetDefault("reports.extensions", []string{".java"})

	v.SetDefault("extraction.negative_samples", 50)
	v.SetDefault("extraction.workers", 0)
	v.SetDefault("extraction.output", "")
	v.SetDefault("extraction.manifest", "")
	v.SetDefault("extraction.metrics_file", "")

	v.SetDefault("evaluation.features", "")
	v.SetDefault("evaluation.scorer", ScorerRVSM)
	v.SetDefault("evaluation.test_fraction", 0.2)
	v.SetDefault("evaluation.seed", 42)
	v.SetDefault("evaluation.epochs", 200)
	v.SetDefault("evaluation.learning_rate", 0.1)
	v.SetDefault("evaluation.format", FormatTable)

	v.SetDefault("serve.max_results", 20)

	// Environment variables; defaults above make every key visible to
	// AutomaticEnv, so BUGLOC_EXTRACTION_WORKERS maps to extraction.workers.
	v.SetEnvPrefix("BUGLOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFile string
	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
		configFile, _ = flags.GetString("config")
	}

	// .env sits below the config file, so it is merged first.
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	if configFile != "" {
		v.SetConfigFile(expandHomeDir(configFile))
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(configFile), "."))
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Comma separated lists from env vars arrive as a single element
	settings.Corpus.Languages = splitList(settings.Corpus.Languages)
	settings.Reports.Extensions = splitList(settings.Reports.Extensions)

	settings.DataDir = expandHomeDir(settings.DataDir)
	settings.Corpus.Dir = expandHomeDir(settings.Corpus.Dir)
	settings.Corpus.RepoDir = expandHomeDir(settings.Corpus.RepoDir)
	settings.Reports.Path = expandHomeDir(settings.Reports.Path)
	settings.Extraction.Output = expandHomeDir(settings.Extraction.Output)
	settings.Evaluation.Features = expandHomeDir(settings.Evaluation.Features)

	applyDataset(&settings)
	settings.Evaluation.Scorer = strings.ToLower(settings.Evaluation.Scorer)
	settings.Evaluation.Format = strings.ToLower(settings.Evaluation.Format)

	if settings.Corpus.RepoDir == "" {
		settings.Corpus.RepoDir = settings.Corpus.Dir
	}
	if settings.Evaluation.Features == "" {
		settings.Evaluation.Features = settings.Extraction.Output
	}
	if settings.Extraction.Manifest == "" && settings.Extraction.Output != "" {
		settings.Extraction.Manifest = settings.Extraction.Output + ".manifest.json"
	}

	return &settings, nil
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// splitList flattens comma separated entries, trims spaces and drops empty values
func splitList(s []string) []string {
	var result []string
	for _, entry := range s {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

// ValidateSettings checks the settings the given command depends on.
func ValidateSettings(s *Settings, command string) error {
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "":
		// valid
	default:
		return errors.New("log-level must be one of debug, info, warn, error, got: " + s.LogLevel)
	}

	if s.Dataset != "" {
		if _, ok := LookupDataset(s.Dataset); !ok {
			return fmt.Errorf("unknown dataset %q, expected one of %s", s.Dataset, strings.Join(DatasetNames(), ", "))
		}
	}

	switch command {
	case CommandExtract:
		if err := validateCorpusSettings(&s.Corpus); err != nil {
			return err
		}
		if s.Reports.Path == "" {
			return errors.New("reports path cannot be empty (reports or dataset)")
		}
		return validateExtractionSettings(&s.Extraction)
	case CommandEvaluate:
		return validateEvaluationSettings(&s.Evaluation)
	case CommandServe:
		if err := validateCorpusSettings(&s.Corpus); err != nil {
			return err
		}
		if s.Reports.Path == "" {
			return errors.New("reports path cannot be empty (reports or dataset)")
		}
		if s.Serve.MaxResults <= 0 {
			return errors.New("max-results must be positive")
		}
		return nil
	default:
		return errors.New("unknown command: " + command)
	}
}

// validateCorpusSettings validates the corpus configuration
func validateCorpusSettings(c *CorpusSettings) error {
	if c.Dir == "" {
		return errors.New("corpus dir cannot be empty (corpus-dir or dataset)")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("max-file-size must be positive")
	}
	return nil
}

// validateExtractionSettings validates the extraction configuration
func validateExtractionSettings(e *ExtractionSettings) error {
	if e.NegativeSamples <= 0 {
		return errors.New("negative-samples must be positive")
	}
	if e.Workers < 0 {
		return errors.New("workers cannot be negative")
	}
	if e.Output == "" {
		return errors.New("output cannot be empty (output or dataset)")
	}
	return nil
}

// validateEvaluationSettings validates the evaluation configuration
func validateEvaluationSettings(e *EvaluationSettings) error {
	if e.Features == "" {
		return errors.New("features table cannot be empty (features, output or dataset)")
	}
	switch e.Scorer {
	case ScorerRVSM, ScorerLogistic:
		// valid
	default:
		return errors.New("scorer must be 'rvsm' or 'logistic', got: " + e.Scorer)
	}
	if e.TestFraction <= 0 || e.TestFraction >= 1 {
		return fmt.Errorf("test-fraction must be between 0 and 1, got: %v", e.TestFraction)
	}
	if e.Epochs <= 0 {
		return errors.New("epochs must be positive")
	}
	if e.LearningRate <= 0 {
		return errors.New("learning-rate must be positive")
	}
	switch e.Format {
	case FormatTable, FormatYAML:
		// valid
	default:
		return errors.New("format must be 'table' or 'yaml', got: " + e.Format)
	}
	return nil
}
