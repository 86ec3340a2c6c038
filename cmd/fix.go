package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/docxref/internal/markdown"
	"github.com/eykd/docxref/internal/report"
	"github.com/eykd/docxref/internal/xref"
)

// fixEntry is one link correction.
type fixEntry struct {
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	Category xref.Category `json:"category"`
	Old      string        `json:"old"`
	New      string        `json:"new"`
	Exists   bool          `json:"exists"`
}

// fileFix is the set of corrections for one document.
type fileFix struct {
	Path  string     `json:"path"`
	Fixes []fixEntry `json:"fixes"`
}

// fixOutput is the JSON output schema for the fix command.
type fixOutput struct {
	DryRun      bool         `json:"dryRun"`
	Changed     bool         `json:"changed"`
	Applied     int          `json:"applied"`
	Skipped     int          `json:"skipped"`
	Files       []fileFix    `json:"files"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NewFixCmd creates the fix subcommand.
func NewFixCmd(pio ProjectIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "fix",
		Short:        "Rewrite relative links to their depth-corrected targets",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			onlyExisting, _ := cmd.Flags().GetBool("only-existing")
			jsonMode, _ := cmd.Flags().GetBool("json")

			log := newLogger(cmd)
			p, err := loadProject(cmd, pio, log)
			if err != nil {
				return err
			}
			rep, err := p.analyze(cmd.Context(), pio, log)
			if err != nil {
				return fmt.Errorf("analyzing documents: %w", err)
			}

			out := fixOutput{DryRun: dryRun, Files: []fileFix{}, Diagnostics: p.diags}
			byPath := groupViolations(rep.Violations)
			for _, doc := range p.docs {
				vs := byPath[doc.Path]
				if len(vs) == 0 {
					continue
				}
				edits, entries, skipped := planEdits(doc, vs, onlyExisting)
				out.Skipped += skipped
				if len(edits) == 0 {
					continue
				}
				content, err := markdown.Rewrite(doc.Source, edits)
				if err != nil {
					out.Diagnostics = append(out.Diagnostics, Diagnostic{
						Severity: SeverityWarning, Code: CodeEditRejected, Message: err.Error(), Path: doc.Path,
					})
					out.Skipped += len(edits)
					continue
				}
				if !dryRun {
					if err := pio.WriteFileAtomic(filepath.Join(p.dir, doc.Path), content); err != nil {
						out.Diagnostics = append(out.Diagnostics, Diagnostic{
							Severity: SeverityError, Code: CodeWrite, Message: err.Error(), Path: doc.Path,
						})
						continue
					}
					log.Debug("document rewritten", "path", doc.Path, "fixes", len(edits))
				}
				out.Files = append(out.Files, fileFix{Path: doc.Path, Fixes: entries})
				out.Applied += len(entries)
			}
			out.Changed = !dryRun && out.Applied > 0

			if jsonMode {
				if err := encodeJSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			} else {
				writeFixText(cmd, out)
				printDiagnostics(cmd, out.Diagnostics)
			}
			if hasDiagnosticError(out.Diagnostics) {
				return fmt.Errorf("fix completed with errors")
			}
			return nil
		},
	}

	cmd.Flags().String("docs", "", "documentation directory (overrides docs_dir)")
	cmd.Flags().Bool("dry-run", false, "show the corrections without writing files")
	cmd.Flags().Bool("only-existing", false, "apply only corrections whose target file exists")
	cmd.Flags().Bool("json", false, "output the corrections as JSON")

	return cmd
}

func groupViolations(vs []xref.Violation) map[string][]xref.Violation {
	out := make(map[string][]xref.Violation)
	for _, v := range vs {
		out[v.Link.Source.Path] = append(out[v.Link.Source.Path], v)
	}
	return out
}

type linkPos struct{ line, column int }

// planEdits maps each violation back to the link it came from and builds the
// rewrite for it. Violations whose target is missing are skipped when
// onlyExisting is set.
func planEdits(doc projectDoc, vs []xref.Violation, onlyExisting bool) ([]markdown.Edit, []fixEntry, int) {
	links := make(map[linkPos]markdown.Link, len(doc.Source.Links))
	for _, l := range doc.Source.Links {
		links[linkPos{l.Line, l.Column}] = l
	}

	var edits []markdown.Edit
	var entries []fixEntry
	skipped := 0
	for _, v := range vs {
		exists := v.Validation != nil && v.Validation.Exists
		l, ok := links[linkPos{v.Link.Position.Line, v.Link.Position.Column}]
		if !ok || l.URL != v.CurrentPath || (onlyExisting && !exists) {
			skipped++
			continue
		}
		edits = append(edits, markdown.Edit{Line: l.Line, URLColumn: l.URLColumn, Old: l.URL, New: v.CorrectedPath})
		entries = append(entries, fixEntry{
			Line:     l.Line,
			Column:   l.Column,
			Category: v.Category,
			Old:      v.CurrentPath,
			New:      v.CorrectedPath,
			Exists:   exists,
		})
	}
	return edits, entries, skipped
}

func writeFixText(cmd *cobra.Command, out fixOutput) {
	w := cmd.OutOrStdout()
	verb := "fixed"
	if out.DryRun {
		verb = "would fix"
	}
	for _, f := range out.Files {
		for _, e := range f.Fixes {
			fmt.Fprintf(w, "%s %s:%d:%d %s -> %s\n", verb, report.Sanitize(f.Path), e.Line, e.Column,
				report.Sanitize(e.Old), report.Sanitize(e.New))
		}
	}
	summary := "fixed"
	if out.DryRun {
		summary = "would be fixed"
	}
	fmt.Fprintf(w, "%d links %s in %d files, %d skipped\n", out.Applied, summary, len(out.Files), out.Skipped)
}
