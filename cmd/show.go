package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/render"
	"github.com/gaurav-prasanna/sheetpipe/core/repository"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

var (
	flagShowFormat string
	flagShowStatus bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored sheet",
	Long: `Show prints the stored sheet to stdout as Markdown (default), JSON or YAML.

Examples:
  sheetpipe show
  sheetpipe show --format json
  sheetpipe show --status`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVar(&flagShowFormat, "format", "markdown", "Output format: markdown, json or yaml")
	showCmd.Flags().BoolVar(&flagShowStatus, "status", false, "Print the repository state instead of the sheet")
}

func runShow(cmd *cobra.Command, _ []string) error {
	snap := current.repo.Current()
	out := cmd.OutOrStdout()

	if flagShowStatus {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("state:"), snap.State)
		if snap.State != repository.StateEmpty {
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("id:"), snap.ID)
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("revision:"), snap.Revision)
		}
		return nil
	}

	if strings.EqualFold(flagShowFormat, "pdf") {
		return core.Errorf(core.KindInvalidInput, "PDF output is binary; use sheetpipe export --pdf")
	}
	r, err := render.ForFormat(flagShowFormat)
	if err != nil {
		return err
	}
	cs, err := loadedSheet(snap)
	if err != nil {
		return err
	}
	data, err := r.Render(cs)
	if err != nil {
		current.broker.Error("Could not render the sheet")
		return err
	}
	_, err = out.Write(data)
	return err
}

// loadedSheet returns the snapshot's record or an error when nothing is
// loaded.
func loadedSheet(snap repository.Snapshot) (sheet.CharacterSheet, error) {
	cs, ok := snap.Sheet()
	if !ok {
		return sheet.CharacterSheet{}, core.Errorf(core.KindInvalidInput, "no sheet loaded; run sheetpipe import first")
	}
	return cs, nil
}
