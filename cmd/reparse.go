package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reparseCmd = &cobra.Command{
	Use:   "reparse",
	Short: "Extract the sheet again from the text of the last imported PDF",
	Long: `Reparse runs the text extractor over the text cached by the last PDF import
and replaces the stored sheet with the result. Edits made since then are lost.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		res, err := current.importer.Reparse(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", labelStyle.Render("missing fields:"), len(res.Missing))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reparseCmd)
}
