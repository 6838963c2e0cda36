package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// Report is the dry-run outcome for one file.
type Report struct {
	Path    string
	Sheet   sheet.CharacterSheet
	Missing []string
	Err     error
}

// Inspect extracts and normalizes every path without importing anything.
// At most limit files are processed at once. Per-file failures are recorded
// in the reports; the returned error is only set when ctx is cancelled.
func (im *Importer) Inspect(ctx context.Context, paths []string, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 1
	}
	reports := make([]Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = im.inspectOne(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}

func (im *Importer) inspectOne(ctx context.Context, path string) Report {
	rep := Report{Path: path}
	data, err := im.readFile(path)
	if err != nil {
		rep.Err = err
		return rep
	}

	var partial sheet.PartialSheet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		partial, err = im.extractPage(string(data))
	default:
		if err = ValidatePDF(filepath.Base(path), "", data, im.maxBytes); err != nil {
			break
		}
		var text string
		if text, err = im.readText(ctx, filepath.Base(path), data); err == nil {
			partial = im.text.Extract(text)
		}
	}
	if err != nil {
		rep.Err = err
		return rep
	}

	rep.Sheet = im.normalizer.Normalize(partial)
	rep.Missing = partial.Missing
	im.logger.Debug("inspected", "path", path, "missing", len(partial.Missing))
	return rep
}
