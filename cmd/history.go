package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eykd/docxref/internal/report"
	"github.com/eykd/docxref/internal/store"
	"github.com/eykd/docxref/internal/xref"
)

// HistoryStore records and lists analysis runs.
type HistoryStore interface {
	RecordRun(ctx context.Context, rep *xref.Report) (string, error)
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
	RunViolations(ctx context.Context, runID string) ([]store.ViolationRow, error)
	Close() error
}

// HistoryOpener opens the run history database at path.
type HistoryOpener func(path string) (HistoryStore, error)

func openSQLiteHistory(path string) (HistoryStore, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// projectPath resolves a configured or flag-given path against the project
// directory. Absolute and empty paths are returned unchanged; an empty
// history path means history is disabled.
func projectPath(dir, configured string) string {
	if configured == "" || filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(dir, configured)
}

// NewHistoryCmd creates the history subcommand.
func NewHistoryCmd(pio ProjectIO, open HistoryOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "history",
		Short:        "List recorded analysis runs, or the violations of one run",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			runID, _ := cmd.Flags().GetString("run")
			jsonMode, _ := cmd.Flags().GetBool("json")

			dir, cfg, err := loadConfig(cmd, pio)
			if err != nil {
				return err
			}
			path := projectPath(dir, cfg.HistoryDB)
			if path == "" {
				return codedErrorf(CodeHistoryErr, "run history is disabled (history_db is empty)")
			}
			st, err := open(path)
			if err != nil {
				return codedErrorf(CodeHistoryErr, "opening run history: %w", err)
			}
			defer st.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if runID != "" {
				rows, err := st.RunViolations(ctx, runID)
				if err != nil {
					return codedErrorf(CodeHistoryErr, "reading run %s: %w", runID, err)
				}
				if jsonMode {
					return encodeJSON(out, rows)
				}
				for _, r := range rows {
					status := ""
					if !r.Exists {
						status = " (target missing)"
					}
					fmt.Fprintf(out, "%s:%d:%d %s %s -> %s [sev %d]%s\n",
						report.Sanitize(r.Source), r.Line, r.Column, r.Category,
						report.Sanitize(r.CurrentPath), report.Sanitize(r.CorrectedPath), r.Severity, status)
				}
				return nil
			}

			runs, err := st.ListRuns(ctx, limit)
			if err != nil {
				return codedErrorf(CodeHistoryErr, "listing runs: %w", err)
			}
			if jsonMode {
				return encodeJSON(out, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no recorded runs")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tCREATED\tFILES\tLINKS\tVIOLATIONS\tRESOLVABLE\tTOP")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					r.RunID, r.CreatedAt, r.TotalFiles, r.TotalLinks, r.Violations, r.Resolvable, r.TopCategory)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int("limit", 10, "maximum number of runs to list (0 lists all)")
	cmd.Flags().String("run", "", "show the violations recorded for this run ID")
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
