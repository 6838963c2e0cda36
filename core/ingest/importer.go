// Package ingest orchestrates imports: validate the source, acquire its
// content, extract, normalize and hand the record to the repository.
//
// Every outcome is also published to the notification broker. Validation and
// acquisition failures abort before the repository is touched.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/extract"
	"github.com/gaurav-prasanna/sheetpipe/core/fetch"
	"github.com/gaurav-prasanna/sheetpipe/core/normalize"
	"github.com/gaurav-prasanna/sheetpipe/core/notify"
	"github.com/gaurav-prasanna/sheetpipe/core/pdftext"
	"github.com/gaurav-prasanna/sheetpipe/core/repository"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// DefaultMaxUploadBytes is the PDF size limit.
const DefaultMaxUploadBytes = 10 << 20

// Options wires the importer's collaborators. Nil fields get the package
// defaults.
type Options struct {
	Reader         core.TextReader
	Fetcher        core.Fetcher
	Text           core.TextExtractor
	Document       core.DocumentExtractor
	Normalizer     core.Normalizer
	Store          core.SheetStore
	Broker         *notify.Broker
	Logger         *slog.Logger
	MaxUploadBytes int64
}

// Importer feeds sources into a repository.
type Importer struct {
	repo       *repository.Repository
	reader     core.TextReader
	fetcher    core.Fetcher
	text       core.TextExtractor
	document   core.DocumentExtractor
	normalizer core.Normalizer
	store      core.SheetStore
	broker     *notify.Broker
	logger     *slog.Logger
	maxBytes   int64
}

// Result describes a finished import.
type Result struct {
	Snapshot repository.Snapshot
	// Missing lists fields the extractor could not find. They hold defaults.
	Missing []string
}

// New creates an Importer for repo.
func New(repo *repository.Repository, opts Options) *Importer {
	im := &Importer{
		repo:       repo,
		reader:     opts.Reader,
		fetcher:    opts.Fetcher,
		text:       opts.Text,
		document:   opts.Document,
		normalizer: opts.Normalizer,
		store:      opts.Store,
		broker:     opts.Broker,
		logger:     opts.Logger,
		maxBytes:   opts.MaxUploadBytes,
	}
	if im.logger == nil {
		im.logger = slog.Default()
	}
	if im.reader == nil {
		im.reader = pdftext.New()
	}
	if im.fetcher == nil {
		im.fetcher = fetch.New()
	}
	if im.text == nil {
		im.text = extract.NewPattern()
	}
	if im.document == nil {
		im.document = extract.NewDocument()
	}
	if im.normalizer == nil {
		im.normalizer = normalize.New()
	}
	if im.broker == nil {
		im.broker = notify.New(nil, im.logger)
	}
	if im.maxBytes <= 0 {
		im.maxBytes = DefaultMaxUploadBytes
	}
	return im
}

// ImportPDF validates and imports an uploaded PDF. contentType may be empty.
func (im *Importer) ImportPDF(ctx context.Context, filename, contentType string, data []byte) (Result, error) {
	if err := ValidatePDF(filename, contentType, data, im.maxBytes); err != nil {
		return Result{}, im.fail(err)
	}
	text, err := im.readText(ctx, filename, data)
	if err != nil {
		return Result{}, im.fail(err)
	}
	if im.store != nil {
		if err := im.store.SaveRawText(ctx, text); err != nil {
			// Advisory only; the import continues.
			im.logger.Warn("save raw text", "file", filename, "err", err)
		}
	}
	return im.finish(ctx, filename, im.text.Extract(text)), nil
}

// ImportFile reads a local file and imports it by extension: .json as an
// export, .html/.htm as a profile page, anything else as a PDF.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	data, err := im.readFile(path)
	if err != nil {
		return Result{}, im.fail(err)
	}
	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return im.importJSON(ctx, name, data)
	case ".html", ".htm":
		partial, err := im.extractPage(string(data))
		if err != nil {
			return Result{}, im.fail(err)
		}
		return im.finish(ctx, name, partial), nil
	}
	return im.ImportPDF(ctx, name, "", data)
}

// ImportURL fetches a character profile page and imports it.
func (im *Importer) ImportURL(ctx context.Context, rawURL string) (Result, error) {
	pageURL, id, err := fetch.ParseCharacterURL(rawURL)
	if err != nil {
		return Result{}, im.fail(core.Wrap(core.KindInvalidInput, "invalid character URL", err))
	}
	im.logger.Info("fetching character", "url", pageURL, "character_id", id)

	res, err := im.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return Result{}, im.fail(core.Wrap(core.KindSourceFetch, "could not fetch character "+id, err))
	}
	partial, err := im.extractPage(res.HTML)
	if err != nil {
		return Result{}, im.fail(err)
	}
	return im.finish(ctx, "character "+id, partial), nil
}

// ImportJSON re-imports a JSON export.
func (im *Importer) ImportJSON(ctx context.Context, data []byte) (Result, error) {
	return im.importJSON(ctx, "JSON export", data)
}

func (im *Importer) importJSON(ctx context.Context, source string, data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, im.fail(core.Errorf(core.KindInvalidInput, "%s is empty", source))
	}
	if int64(len(data)) > im.maxBytes {
		return Result{}, im.fail(core.Errorf(core.KindInvalidInput, "%s exceeds the %d byte limit", source, im.maxBytes))
	}
	var partial sheet.PartialSheet
	if err := json.Unmarshal(data, &partial); err != nil {
		return Result{}, im.fail(core.Wrap(core.KindInvalidInput, source+" is not a sheet export", err))
	}
	return im.finish(ctx, source, partial), nil
}

// Reparse runs the pattern extractor again over the stored raw text.
func (im *Importer) Reparse(ctx context.Context) (Result, error) {
	if im.store == nil {
		return Result{}, im.fail(core.Errorf(core.KindInvalidInput, "no store configured"))
	}
	text, ok, err := im.store.LoadRawText(ctx)
	if err != nil {
		return Result{}, im.fail(err)
	}
	if !ok {
		return Result{}, im.fail(core.Errorf(core.KindInvalidInput, "no extracted text to re-parse; import a PDF first"))
	}
	return im.finish(ctx, "stored text", im.text.Extract(text)), nil
}

// finish normalizes, imports and reports the outcome.
func (im *Importer) finish(ctx context.Context, source string, partial sheet.PartialSheet) Result {
	cs := im.normalizer.Normalize(partial)
	snap := im.repo.Import(ctx, cs)
	res := Result{Snapshot: snap, Missing: partial.Missing}

	name := source
	if cs.Info.Name != nil {
		name = *cs.Info.Name
	}
	im.logger.Info("import finished", "source", source, "id", snap.ID, "missing", len(partial.Missing))

	switch {
	case snap.SaveFailed:
		// The repository already reported the save failure.
	case len(partial.Missing) > 0:
		im.broker.Warning(fmt.Sprintf("Imported %s; %d fields were not found and use defaults", name, len(partial.Missing)))
	default:
		im.broker.Success(fmt.Sprintf("Imported %s", name))
	}
	return res
}

func (im *Importer) readText(ctx context.Context, filename string, data []byte) (string, error) {
	text, err := im.reader.ReadText(ctx, data)
	if err != nil {
		return "", core.Wrap(core.KindSourceFetch, "could not read "+filename, err)
	}
	return text, nil
}

func (im *Importer) extractPage(html string) (sheet.PartialSheet, error) {
	doc, err := extract.ParseDocument(strings.NewReader(html))
	if err != nil {
		return sheet.PartialSheet{}, core.Wrap(core.KindSourceFetch, "could not parse character page", err)
	}
	return im.document.Extract(doc), nil
}

// readFile checks the size before reading so oversize files are never
// loaded.
func (im *Importer) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, core.Wrap(core.KindSourceFetch, "could not open "+path, err)
	}
	if info.IsDir() {
		return nil, core.Errorf(core.KindInvalidInput, "%s is a directory", path)
	}
	if info.Size() > im.maxBytes {
		return nil, core.Errorf(core.KindInvalidInput, "%s is %d bytes, over the %d byte limit", filepath.Base(path), info.Size(), im.maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.Wrap(core.KindSourceFetch, "could not read "+path, err)
	}
	return data, nil
}

func (im *Importer) fail(err error) error {
	im.logger.Warn("import failed", "err", err)
	im.broker.Error(err.Error())
	return err
}

// ValidatePDF accepts non-empty data within max bytes that is a PDF by
// extension, declared MIME type or content sniffing.
func ValidatePDF(filename, contentType string, data []byte, max int64) error {
	if len(data) == 0 {
		return core.Errorf(core.KindInvalidInput, "%s is empty", displayName(filename))
	}
	if max > 0 && int64(len(data)) > max {
		return core.Errorf(core.KindInvalidInput, "%s is %d bytes, over the %d byte limit", displayName(filename), len(data), max)
	}
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "application/pdf" {
		return nil
	}
	if http.DetectContentType(data) == "application/pdf" {
		return nil
	}
	return core.Errorf(core.KindInvalidInput, "%s is not a PDF", displayName(filename))
}

func displayName(filename string) string {
	if filename == "" {
		return "upload"
	}
	return filename
}
