// Package store implements the SheetStore interface.
//
// Values are JSON documents under two fixed keys: the canonical record and
// the most recent raw text dump. SQLiteStore survives restarts; MemoryStore
// backs tests and one-shot runs.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// Fixed storage keys.
const (
	KeyCurrentSheet = "currentSheet"
	KeyRawText      = "rawText"
)

func encodeSheet(cs sheet.CharacterSheet) ([]byte, error) {
	data, err := json.Marshal(cs)
	if err != nil {
		return nil, core.Wrap(core.KindSerialization, "encode sheet", err)
	}
	return data, nil
}

func decodeSheet(data []byte) (*sheet.CharacterSheet, error) {
	var cs sheet.CharacterSheet
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, core.Wrap(core.KindSerialization, "decode sheet", err)
	}
	return &cs, nil
}

func encodeText(text string) ([]byte, error) {
	data, err := json.Marshal(text)
	if err != nil {
		return nil, core.Wrap(core.KindSerialization, "encode raw text", err)
	}
	return data, nil
}

func decodeText(data []byte) (string, error) {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return "", core.Wrap(core.KindSerialization, "decode raw text", err)
	}
	return text, nil
}

func writeErr(op string, err error) error {
	return core.Wrap(core.KindSerialization, fmt.Sprintf("%s failed", op), err)
}
