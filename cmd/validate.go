package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/docxref/internal/report"
	"github.com/eykd/docxref/internal/xref"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd(pio ProjectIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "validate <path>",
		Short:        "Check whether a relative path resolves to a file, with suggestions",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, _ := cmd.Flags().GetString("base")
			jsonMode, _ := cmd.Flags().GetBool("json")

			v, err := xref.NewValidator(pio, 0)
			if err != nil {
				return err
			}
			res := v.Validate(args[0], base)

			if jsonMode {
				return encodeJSON(cmd.OutOrStdout(), res)
			}
			w := cmd.OutOrStdout()
			if res.Exists {
				fmt.Fprintf(w, "exists: %s [%.2f]\n", report.Sanitize(res.Path), res.Confidence)
				return nil
			}
			fmt.Fprintf(w, "missing: %s [%.2f]\n", report.Sanitize(res.Path), res.Confidence)
			for _, s := range res.Suggestions[min(1, len(res.Suggestions)):] {
				mark := ""
				if s.Exists {
					mark = " (exists)"
				}
				fmt.Fprintf(w, "  try %s [%.2f]%s\n", report.Sanitize(s.Candidate), s.Confidence, mark)
			}
			return nil
		},
	}

	cmd.Flags().String("base", ".", "directory the path is relative to")
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}
