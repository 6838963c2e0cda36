// The JSON export is the canonical interchange format. Keys are stable,
// indentation is two spaces and the output decodes straight back into a
// PartialSheet.

package render

import (
	"encoding/json"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// JSONRenderer produces the JSON export.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the sheet. Non-finite numbers fail with a serialization
// error.
func (r *JSONRenderer) Render(cs sheet.CharacterSheet) ([]byte, error) {
	data, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return nil, core.Wrap(core.KindSerialization, "marshaling JSON", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
