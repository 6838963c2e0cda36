// Package core defines the pipeline interfaces for sheetpipe.
// Each stage of the pipeline is a clean, testable interface:
// read/fetch → extract → normalize → repository → store/render.
package core

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// TextReader turns PDF bytes into flat text.
type TextReader interface {
	ReadText(ctx context.Context, data []byte) (string, error)
}

// TextExtractor scans flat text for sheet fields. It never fails.
type TextExtractor interface {
	Extract(rawText string) sheet.PartialSheet
}

// DocumentExtractor walks a parsed markup tree for sheet fields. It never
// fails and never mutates doc.
type DocumentExtractor interface {
	Extract(doc *goquery.Document) sheet.PartialSheet
}

// Normalizer merges a partial sheet over the canonical defaults.
type Normalizer interface {
	Normalize(partial sheet.PartialSheet) sheet.CharacterSheet
}

// SheetStore is the durable key-value cache for the current sheet.
// Load returns (nil, nil) when nothing is stored.
type SheetStore interface {
	Save(ctx context.Context, cs sheet.CharacterSheet) error
	Load(ctx context.Context) (*sheet.CharacterSheet, error)
	Clear(ctx context.Context) error

	// SaveRawText and LoadRawText hold the most recent extracted text for
	// deferred re-parsing. The value is advisory.
	SaveRawText(ctx context.Context, text string) error
	LoadRawText(ctx context.Context) (string, bool, error)
}

// Renderer converts a sheet into a final output format.
type Renderer interface {
	Render(cs sheet.CharacterSheet) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".json", ".pdf").
	Extension() string
}
