// Package render provides output renderers for character sheets.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/sheetpipe/core"
)

// Formats lists the names accepted by ForFormat.
var Formats = []string{"json", "pdf", "yaml", "markdown"}

// ForFormat returns the renderer for a format name.
func ForFormat(name string) (core.Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return NewJSONRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	case "yaml", "yml":
		return NewYAMLRenderer(), nil
	case "markdown", "md":
		return NewMarkdownRenderer(), nil
	}
	return nil, core.Errorf(core.KindInvalidInput, "unknown format %q (want one of %s)", name, strings.Join(Formats, ", "))
}

func signed(n int) string {
	return fmt.Sprintf("%+d", n)
}
