package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/sheetpipe/core/render"
)

var flagWorkers int

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "Dry-run extraction over PDFs or saved pages without importing",
	Long: `Inspect extracts every file in parallel and reports the character found and
how many fields fell back to defaults. The stored sheet is not changed.

Examples:
  sheetpipe inspect sheets/*.pdf --workers 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Files processed at once (default $SHEETPIPE_INSPECT_WORKERS)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	workers := flagWorkers
	if workers <= 0 {
		workers = current.cfg.InspectWorkers
	}

	reports, err := current.importer.Inspect(cmd.Context(), args, workers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, rep := range reports {
		if rep.Err != nil {
			failed++
			fmt.Fprintf(out, "%s %s: %v\n", errorStyle.Render("✗"), rep.Path, rep.Err)
			continue
		}
		fmt.Fprintf(out, "%s %s: %s (%d missing)\n", successStyle.Render("✓"), rep.Path, render.DisplayName(rep.Sheet), len(rep.Missing))
	}
	if failed > 0 {
		fmt.Fprintf(out, "\n%d/%d files failed\n", failed, len(reports))
	}
	return nil
}
