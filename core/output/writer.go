// Package output handles file naming and writing for exported sheets.
// Filenames are derived from the character name (e.g. Elara_Moonwhisper-sheet.pdf).
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fallbackName is used when the character has no usable name.
const fallbackName = "character"

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteSheet writes data as "<name>-sheet<ext>" and returns the path.
func (w *Writer) WriteSheet(name string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, SheetFilename(name, ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// SheetFilename returns the export filename for a character name.
func SheetFilename(name, ext string) string {
	base := strings.Trim(sanitize(strings.TrimSpace(name)), "_")
	if base == "" {
		base = fallbackName
	}
	return base + "-sheet" + ext
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
