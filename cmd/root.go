// Package cmd implements the dxr CLI commands.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/eykd/docxref/internal/config"
	"github.com/eykd/docxref/internal/report"
)

// NewRootCmd creates the root dxr command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dxr",
		Short:         "dxr - find and fix depth errors in relative documentation links",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	root.PersistentFlags().String("config", "", "project directory containing "+config.FileName+" (default: current directory)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().BoolP("quiet", "q", false, "log only errors to stderr")

	pio := newDefaultProjectIO()
	root.AddCommand(NewAnalyzeCmd(pio, openSQLiteHistory))
	root.AddCommand(NewFixCmd(pio))
	root.AddCommand(NewClassifyCmd(pio))
	root.AddCommand(NewValidateCmd(pio))
	root.AddCommand(NewHistoryCmd(pio, openSQLiteHistory))
	root.AddCommand(NewInitCmd(newDefaultInitIO()))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// newLogger builds the stderr logger for cmd from the global verbosity flags.
// Flags that are not defined (a subcommand run on its own) read as false.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// printDiagnostics writes each diagnostic to stderr in human-readable form.
func printDiagnostics(cmd *cobra.Command, diags []Diagnostic) {
	for _, d := range diags {
		if d.Path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s (%s)\n", d.Severity, report.Sanitize(d.Path), d.Message, d.Code)
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s (%s)\n", d.Severity, d.Message, d.Code)
	}
}
