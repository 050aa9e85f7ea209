package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sha1n/bugloc/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is injected at build time
	Version = "dev"
	// Build is injected at build time
	Build = "unknown"
	// ProgramName is injected at build time
	ProgramName = "bugloc"
)

func main() {
	runMain(os.Args, os.Exit)
}

func runMain(args []string, exit func(int)) {
	if err := Execute(Version, Build, ProgramName, args[1:]); err != nil {
		exit(1)
	}
}

type runFunc func(context.Context, app.RunParams, *pflag.FlagSet, string) error

// Execute is the entry point for the CLI, extracted for testing
func Execute(version, build, programName string, args []string) error {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Bug localization feature pipeline",
		Long:         "Extracts ranking features for (bug report, source file) pairs and evaluates bug localization scorers",
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate(`{{.Version}}
`)
	app.RegisterGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newCommand("extract", "Extract the feature table from a source snapshot and report archive",
			app.RegisterExtractFlags, app.RunExtract, version),
		newCommand("evaluate", "Train and evaluate a scorer on a feature table",
			app.RegisterEvaluateFlags, app.RunEvaluate, version),
		newCommand("serve", "Serve file ranking and history tools over MCP stdio",
			app.RegisterServeFlags, app.RunServe, version),
	)

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func newCommand(use, short string, register func(*pflag.FlagSet), run runFunc, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, app.DefaultRunParams(), cmd.Flags(), version)
		},
	}
	register(cmd.Flags())
	return cmd
}
