package app

import "github.com/spf13/pflag"

// RegisterGlobalFlags registers flags shared by every command
func RegisterGlobalFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "Config file (yaml, toml or json)")
	flags.StringP("log-level", "l", "", "Log level: debug, info, warn or error")
	flags.String("data-dir", "", "Directory dataset presets resolve paths against")
	flags.StringP("dataset", "d", "", "Dataset preset: aspectj, eclipse, swt or tomcat")
}

// RegisterSnapshotFlags registers flags that locate the corpus and report archive
func RegisterSnapshotFlags(flags *pflag.FlagSet) {
	flags.String("corpus-dir", "", "Source tree to extract features from")
	flags.String("repo-dir", "", "Git checkout containing the corpus (defaults to corpus-dir)")
	flags.String("repo-url", "", "Repository to clone when the checkout does not exist")
	flags.String("commit", "", "Commit to check out before loading the corpus")
	flags.StringSlice("languages", nil, "Languages to keep (comma-separated)")
	flags.Int64("max-file-size", 0, "Skip source files larger than this many bytes")
	flags.StringP("reports", "r", "", "Tab separated bug report archive")
	flags.String("path-prefix", "", "Prefix stripped from fixed file paths")
	flags.StringSlice("extensions", nil, "Fixed file extensions to keep (comma-separated)")
}

// RegisterExtractFlags registers the extract command flags
func RegisterExtractFlags(flags *pflag.FlagSet) {
	RegisterSnapshotFlags(flags)
	flags.IntP("negative-samples", "n", 0, "Wrong files sampled per report")
	flags.IntP("workers", "w", 0, "Parallel workers (0 uses CPUs - 1)")
	flags.StringP("output", "o", "", "Feature table to write (.gz compresses)")
	flags.String("manifest", "", "Run manifest path (defaults to <output>.manifest.json)")
	flags.String("metrics-file", "", "Write Prometheus metrics to this textfile")
}

// RegisterEvaluateFlags registers the evaluate command flags
func RegisterEvaluateFlags(flags *pflag.FlagSet) {
	flags.StringP("features", "f", "", "Feature table to evaluate (defaults to the extract output)")
	flags.StringP("scorer", "s", "", "Scorer: rvsm or logistic")
	flags.Float64("test-fraction", 0, "Fraction of reports held out for testing")
	flags.Uint64("seed", 0, "Seed for the train/test split")
	flags.Int("epochs", 0, "Training epochs for the logistic scorer")
	flags.Float64("learning-rate", 0, "Learning rate for the logistic scorer")
	flags.String("format", "", "Output format: table or yaml")
}

// RegisterServeFlags registers the serve command flags
func RegisterServeFlags(flags *pflag.FlagSet) {
	RegisterSnapshotFlags(flags)
	flags.Int("max-results", 0, "Maximum files returned by rank_files")
}
