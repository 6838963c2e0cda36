package render

import (
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// YAMLRenderer produces a YAML export with the same keys as the JSON one.
type YAMLRenderer struct{}

// NewYAMLRenderer creates a YAMLRenderer.
func NewYAMLRenderer() *YAMLRenderer {
	return &YAMLRenderer{}
}

// Render marshals the sheet as YAML.
func (r *YAMLRenderer) Render(cs sheet.CharacterSheet) ([]byte, error) {
	data, err := yaml.Marshal(cs)
	if err != nil {
		return nil, core.Wrap(core.KindSerialization, "marshaling YAML", err)
	}
	return data, nil
}

// Extension returns the file extension for YAML output.
func (r *YAMLRenderer) Extension() string {
	return ".yaml"
}
