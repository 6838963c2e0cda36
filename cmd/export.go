package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/output"
	"github.com/gaurav-prasanna/sheetpipe/core/render"
)

// Output format flags.
var (
	flagPDF      bool
	flagMarkdown bool
	flagJSON     bool
	flagYAML     bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored sheet to a file",
	Long: `Export renders the stored sheet in the chosen format and writes it to
<name>-sheet.<ext> in the output directory.

Examples:
  sheetpipe export --pdf
  sheetpipe export --json --output_dir ./out`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	exportCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	exportCmd.Flags().BoolVar(&flagJSON, "json", false, "Output JSON (re-importable)")
	exportCmd.Flags().BoolVar(&flagYAML, "yaml", false, "Output YAML")
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := exportFormat()
	if err != nil {
		return err
	}
	renderer, err := render.ForFormat(format)
	if err != nil {
		return err
	}

	cs, err := loadedSheet(current.repo.Current())
	if err != nil {
		return err
	}

	data, err := renderer.Render(cs)
	if err != nil {
		current.logger.Error("render export", "format", format, "err", err)
		current.broker.Error(fmt.Sprintf("Could not export %s", format))
		return err
	}

	writer, err := output.New(current.cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	name := ""
	if cs.Info.Name != nil {
		name = *cs.Info.Name
	}
	path, err := writer.WriteSheet(name, data, renderer.Extension())
	if err != nil {
		return err
	}
	current.broker.Success(fmt.Sprintf("Exported %s", render.DisplayName(cs)))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	return nil
}

// exportFormat checks that exactly one output format is chosen.
func exportFormat() (string, error) {
	var chosen []string
	if flagPDF {
		chosen = append(chosen, "pdf")
	}
	if flagMarkdown {
		chosen = append(chosen, "markdown")
	}
	if flagJSON {
		chosen = append(chosen, "json")
	}
	if flagYAML {
		chosen = append(chosen, "yaml")
	}

	switch len(chosen) {
	case 0:
		return "", core.Errorf(core.KindInvalidInput, "exactly one output format is required: --pdf, --markdown, --json or --yaml")
	case 1:
		return chosen[0], nil
	}
	return "", core.Errorf(core.KindInvalidInput, "only one output format allowed per run (got %d)", len(chosen))
}
