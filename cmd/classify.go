package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/docxref/internal/report"
	"github.com/eykd/docxref/internal/xref"
)

// classifyOutput is the JSON output schema for the classify command.
type classifyOutput struct {
	URL       string        `json:"url"`
	Eligible  bool          `json:"eligible"`
	Category  xref.Category `json:"category"`
	Source    string        `json:"source,omitempty"`
	Depth     int           `json:"depth"`
	Corrected string        `json:"corrected"`
	Changed   bool          `json:"changed"`
	FixType   xref.FixType  `json:"fixType,omitempty"`
	Severity  int           `json:"severity,omitempty"`
}

// NewClassifyCmd creates the classify subcommand.
func NewClassifyCmd(pio ProjectIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "classify <url>",
		Short:        "Show the category of a link and its corrected form",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			jsonMode, _ := cmd.Flags().GetBool("json")

			_, cfg, err := loadConfig(cmd, pio)
			if err != nil {
				return err
			}

			url := args[0]
			doc := xref.NewDocument(source, cfg.RootMarker)
			rec := xref.CorrectOne(xref.Item{URL: url, Source: doc})
			out := classifyOutput{
				URL:       url,
				Eligible:  xref.IsEligible(url),
				Category:  rec.Category,
				Source:    source,
				Depth:     doc.Depth,
				Corrected: rec.Corrected,
				Changed:   rec.Solved,
			}
			if rec.Solved {
				out.FixType = xref.FixTypeOf(url, rec.Corrected)
				out.Severity = xref.Severity(rec.Category, doc.Depth)
			}

			if jsonMode {
				return encodeJSON(cmd.OutOrStdout(), out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "category: %s\n", out.Category)
			if !out.Eligible {
				fmt.Fprintln(w, "not a relative link; left unchanged")
				return nil
			}
			fmt.Fprintf(w, "depth: %d\n", out.Depth)
			if out.Changed {
				fmt.Fprintf(w, "corrected: %s (%s, severity %d)\n", report.Sanitize(out.Corrected), out.FixType, out.Severity)
			} else {
				fmt.Fprintf(w, "corrected: %s (unchanged)\n", report.Sanitize(out.Corrected))
			}
			return nil
		},
	}

	cmd.Flags().String("source", "", "path of the document containing the link")
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}
