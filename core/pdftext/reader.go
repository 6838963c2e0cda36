// Package pdftext implements the TextReader interface on top of
// ledongthuc/pdf. Pages are read in order and joined with blank lines.
//
// Lines are rebuilt from the text positions on each page, so labels placed
// with Td or Tm keep their own line.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader extracts the plain text layer of a PDF.
type Reader struct{}

// New creates a Reader.
func New() *Reader {
	return &Reader{}
}

// ReadText returns the text of every readable page. Pages that fail to
// decode are skipped; a document that cannot be opened at all is an error.
func (r *Reader) ReadText(ctx context.Context, content []byte) (text string, err error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF content")
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := pageLines(page)
		if err != nil {
			continue // skip unreadable pages
		}
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

// pageLines joins the texts of each row, one line per row, top to bottom.
// Pages without positioned rows fall back to the plain text layer.
func pageLines(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			var sb strings.Builder
			for _, t := range row.Content {
				sb.WriteString(t.S)
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, "\n"), nil
		}
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
