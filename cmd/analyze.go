package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/docxref/internal/report"
	"github.com/eykd/docxref/internal/xref"
)

// NewAnalyzeCmd creates the analyze subcommand.
func NewAnalyzeCmd(pio ProjectIO, openHistory HistoryOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "analyze",
		Short:        "Report relative links whose depth does not match their document",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			outPath, _ := cmd.Flags().GetString("out")
			noHistory, _ := cmd.Flags().GetBool("no-history")
			failOnViolations, _ := cmd.Flags().GetBool("fail-on-violations")

			log := newLogger(cmd)
			p, err := loadProject(cmd, pio, log)
			if err != nil {
				return err
			}
			rep, err := p.analyze(cmd.Context(), pio, log)
			if err != nil {
				return fmt.Errorf("analyzing documents: %w", err)
			}
			diags := p.diags
			outPath = projectPath(p.dir, outPath)

			var w io.Writer = cmd.OutOrStdout()
			var buf bytes.Buffer
			if outPath != "" {
				w = &buf
			}
			if jsonMode {
				err = report.WriteJSON(w, rep)
			} else {
				err = report.WriteText(w, rep, report.TextOptions{
					Color:       outPath == "" && colorEnabled(w),
					Suggestions: true,
				})
			}
			if err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			if outPath != "" {
				if err := pio.WriteFileAtomic(outPath, buf.Bytes()); err != nil {
					diags = append(diags, Diagnostic{Severity: SeverityError, Code: CodeWrite, Message: err.Error(), Path: outPath})
				} else {
					log.Info("report written", "path", outPath)
				}
			}

			if path := projectPath(p.dir, p.cfg.HistoryDB); path != "" && !noHistory {
				if runID, err := recordRun(cmd, openHistory, path, rep); err != nil {
					diags = append(diags, Diagnostic{Severity: SeverityWarning, Code: CodeHistory, Message: err.Error(), Path: path})
				} else {
					log.Info("run recorded", "run_id", runID)
				}
			}

			printDiagnostics(cmd, diags)
			if hasDiagnosticError(diags) {
				return fmt.Errorf("analysis completed with errors")
			}
			if failOnViolations && len(rep.Violations) > 0 {
				return fmt.Errorf("%d link depth violations found", len(rep.Violations))
			}
			return nil
		},
	}

	cmd.Flags().String("docs", "", "documentation directory (overrides docs_dir)")
	cmd.Flags().Bool("json", false, "write the report as JSON")
	cmd.Flags().String("out", "", "write the report to this file, relative to the project directory")
	cmd.Flags().Bool("no-history", false, "do not record this run in the history database")
	cmd.Flags().Bool("fail-on-violations", false, "exit non-zero when any violation is found")

	return cmd
}

// recordRun stores rep in the history database at path.
func recordRun(cmd *cobra.Command, open HistoryOpener, path string, rep *xref.Report) (string, error) {
	st, err := open(path)
	if err != nil {
		return "", fmt.Errorf("opening run history: %w", err)
	}
	defer st.Close()
	runID, err := st.RecordRun(cmd.Context(), rep)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return runID, nil
}
