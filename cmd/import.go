package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/ingest"
)

var flagShowMissing bool

var importCmd = &cobra.Command{
	Use:   "import <file|url>",
	Short: "Import a character sheet PDF, profile page or JSON export",
	Long: `Import replaces the stored sheet with the one read from the source.

Local files are handled by extension: .json is a sheet export, .html/.htm a
saved profile page and anything else a PDF. An http(s) URL is fetched as a
character profile page. Use "-" to read a JSON export from stdin.

Examples:
  sheetpipe import elara.pdf
  sheetpipe import https://www.dndbeyond.com/characters/12345
  sheetpipe import - < elara-sheet.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&flagShowMissing, "missing", false, "List fields that were not found")
}

func runImport(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx := cmd.Context()

	var (
		res ingest.Result
		err error
	)
	switch {
	case source == "-":
		data, readErr := io.ReadAll(io.LimitReader(cmd.InOrStdin(), current.cfg.MaxUploadBytes+1))
		if readErr != nil {
			return fmt.Errorf("reading stdin: %w", readErr)
		}
		res, err = current.importer.ImportJSON(ctx, data)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		res, err = current.importer.ImportURL(ctx, source)
	default:
		res, err = current.importer.ImportFile(ctx, source)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("id:"), res.Snapshot.ID)
	fmt.Fprintf(out, "%s %d\n", labelStyle.Render("missing fields:"), len(res.Missing))
	if flagShowMissing {
		for _, path := range res.Missing {
			fmt.Fprintln(out, "  - "+path)
		}
	}
	return nil
}

// readInput reads path, or stdin when path is "-" or empty. Input longer
// than limit bytes is rejected.
func readInput(cmd *cobra.Command, path string, limit int64) ([]byte, error) {
	if path == "" || path == "-" {
		return readLimited(cmd.InOrStdin(), limit)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f, limit)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, core.Errorf(core.KindInvalidInput, "input exceeds the %d byte limit", limit)
	}
	return data, nil
}
