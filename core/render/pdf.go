package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// PDFRenderer lays the Markdown rendition of a sheet out on A4 pages.
type PDFRenderer struct {
	// Compress toggles stream compression. Uncompressed output keeps the
	// text searchable in the raw bytes.
	Compress bool
}

// NewPDFRenderer creates a PDFRenderer with compression on.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Compress: true}
}

// Render draws the sheet and returns the PDF bytes.
func (r *PDFRenderer) Render(cs sheet.CharacterSheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	name := DisplayName(cs)
	pdf.SetTitle(name+" Sheet", true)
	pdf.SetSubject(subject(cs.Info), true)
	pdf.SetCreator("sheetpipe", true)
	pdf.AddPage()

	lines := strings.Split(sheetMarkdown(cs), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(2)
			continue
		}

		if strings.HasPrefix(line, "#") {
			level := 0
			for _, ch := range line {
				if ch != '#' {
					break
				}
				level++
			}
			renderHeading(pdf, tr(strings.TrimSpace(strings.TrimLeft(line, "# "))), level)
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- "):
			pdf.SetFont("Helvetica", "", 10)
			text := cleanInlineMarkdown(trimmed[2:])
			pdf.MultiCell(0, 5, tr("- "+text), "", "L", false)
		case strings.HasPrefix(trimmed, "> "):
			// Item descriptions.
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(90, 90, 90)
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(0, 4.5, tr(cleanInlineMarkdown(trimmed[2:])), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		default:
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(0, 4.5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, core.Wrap(core.KindSerialization, "writing PDF", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func subject(info sheet.CharacterInfo) string {
	var parts []string
	if info.Level != nil {
		parts = append(parts, fmt.Sprintf("Level %d", *info.Level))
	}
	if info.Class != nil {
		parts = append(parts, *info.Class)
	}
	if len(parts) == 0 {
		return "Character Sheet"
	}
	return strings.Join(parts, " ")
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 14, 3: 12}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, cleanInlineMarkdown(text), "", "L", false)
	if level == 2 {
		x, y := pdf.GetX(), pdf.GetY()
		pdf.SetDrawColor(180, 180, 180)
		pdf.Line(x, y, 195, y)
	}
	pdf.Ln(2)
}

var (
	reItalic = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	reCode   = regexp.MustCompile("`([^`]+)`")
	reLink   = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// cleanInlineMarkdown strips inline Markdown formatting. Item descriptions
// come from HTML conversion and may carry emphasis or links.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = reItalic.ReplaceAllString(text, " $1 ")
	text = reCode.ReplaceAllString(text, "$1")
	text = reLink.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
