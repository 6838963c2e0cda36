package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/notify"
	"github.com/gaurav-prasanna/sheetpipe/core/repository"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
	"github.com/gaurav-prasanna/sheetpipe/core/store"
	"github.com/google/go-cmp/cmp"
)

const pdfText = `Character Name: Mirela Voss
Class: Wizard
Level: 5
Intelligence 18 (+4)
Arcana (+7)
GP: 50
GP: 12
`

const profilePage = `<html><body><div class="character-sheet">
<h1 class="character-name">Thrain</h1>
<div class="ability-box" data-ability="strength"><span class="ability-score">16</span><span class="ability-modifier">+3</span></div>
<div class="item-box"><span class="item-name">Longsword</span></div>
</div></body></html>`

type fakeReader struct {
	text  string
	err   error
	calls int
}

func (f *fakeReader) ReadText(context.Context, []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type harness struct {
	im     *Importer
	repo   *repository.Repository
	store  *store.MemoryStore
	broker *notify.Broker
	reader *fakeReader
}

func newHarness(t *testing.T, maxBytes int64) *harness {
	t.Helper()
	h := &harness{
		store:  store.NewMemory(),
		broker: notify.New(nil, nil),
		reader: &fakeReader{text: pdfText},
	}
	h.repo = repository.New(nil, h.store, h.broker, nil)
	h.im = New(h.repo, Options{
		Reader:         h.reader,
		Store:          h.store,
		Broker:         h.broker,
		MaxUploadBytes: maxBytes,
	})
	return h
}

func (h *harness) notification(t *testing.T) notify.Notification {
	t.Helper()
	n, ok := h.broker.Current()
	if !ok {
		t.Fatal("expected a notification")
	}
	return n
}

func TestValidatePDF(t *testing.T) {
	pdfBytes := []byte("%PDF-1.7\n...")
	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		max         int64
		wantErr     bool
	}{
		{"extension", "sheet.PDF", "", []byte("anything"), 100, false},
		{"declared mime", "upload", "application/pdf; charset=binary", []byte("anything"), 100, false},
		{"sniffed", "upload.bin", "application/octet-stream", pdfBytes, 100, false},
		{"empty", "sheet.pdf", "application/pdf", nil, 100, true},
		{"oversize", "sheet.pdf", "", make([]byte, 101), 100, true},
		{"not a pdf", "notes.txt", "text/plain", []byte("Character Name: X"), 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePDF(tt.filename, tt.contentType, tt.data, tt.max)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestImportPDF(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)

	res, err := h.im.ImportPDF(ctx, "mirela.pdf", "application/pdf", []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	cs, ok := res.Snapshot.Sheet()
	if !ok {
		t.Fatal("expected a sheet")
	}
	if *cs.Info.Name != "Mirela Voss" || cs.Abilities.Intelligence.Score != 18 || cs.Inventory.Currency.Gold != 12 {
		t.Fatalf("unexpected sheet: info=%+v int=%+v purse=%+v", cs.Info, cs.Abilities.Intelligence, cs.Inventory.Currency)
	}
	if len(res.Missing) == 0 {
		t.Fatal("expected missing fields for a sparse dump")
	}
	if n := h.notification(t); n.Kind != notify.KindWarning || !strings.Contains(n.Message, "Mirela Voss") {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if text, ok, _ := h.store.LoadRawText(ctx); !ok || text != pdfText {
		t.Fatalf("expected raw text stored, got %q", text)
	}
	if stored, _ := h.store.Load(ctx); stored == nil {
		t.Fatal("expected sheet persisted")
	}
}

func TestImportPDFRejectsInvalidInput(t *testing.T) {
	h := newHarness(t, 0)

	_, err := h.im.ImportPDF(context.Background(), "notes.txt", "text/plain", []byte("hello"))
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if h.reader.calls != 0 {
		t.Fatal("rejected input reached the reader")
	}
	if h.repo.State() != repository.StateEmpty {
		t.Fatalf("expected empty repository, got %s", h.repo.State())
	}
	if n := h.notification(t); n.Kind != notify.KindError {
		t.Fatalf("expected error notification, got %+v", n)
	}
}

func TestReadFailureLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)
	first, err := h.im.ImportPDF(ctx, "a.pdf", "", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("first import: %v", err)
	}

	h.reader.err = errors.New("xref table broken")
	_, err = h.im.ImportPDF(ctx, "b.pdf", "", []byte("%PDF-"))
	if !errors.Is(err, core.ErrSourceFetch) {
		t.Fatalf("expected ErrSourceFetch, got %v", err)
	}
	if cur := h.repo.Current(); cur.ID != first.Snapshot.ID || cur.Revision != first.Snapshot.Revision {
		t.Fatalf("failed import changed the record: %+v -> %+v", first.Snapshot, cur)
	}
}

func TestImportURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/characters/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(profilePage))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	h := newHarness(t, 0)

	res, err := h.im.ImportURL(ctx, srv.URL+"/characters/42")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	cs, _ := res.Snapshot.Sheet()
	if *cs.Info.Name != "Thrain" || cs.Abilities.Strength.Score != 16 || cs.Inventory.Items[0].Type != sheet.ItemWeapon {
		t.Fatalf("unexpected sheet: %+v", cs)
	}

	_, err = h.im.ImportURL(ctx, srv.URL+"/characters/43")
	if !errors.Is(err, core.ErrSourceFetch) {
		t.Fatalf("expected ErrSourceFetch for 404, got %v", err)
	}
	if h.repo.Current().ID != res.Snapshot.ID {
		t.Fatal("failed fetch replaced the record")
	}

	if _, err := h.im.ImportURL(ctx, srv.URL+"/monsters/1"); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestImportJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)
	first, err := h.im.ImportPDF(ctx, "a.pdf", "", []byte("%PDF-"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want, _ := first.Snapshot.Sheet()
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	h.repo.Clear(ctx)
	res, err := h.im.ImportJSON(ctx, data)
	if err != nil {
		t.Fatalf("import json: %v", err)
	}
	got, _ := res.Snapshot.Sheet()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	if n := h.notification(t); n.Kind != notify.KindSuccess {
		t.Fatalf("expected success for a complete export, got %+v", n)
	}

	if _, err := h.im.ImportJSON(ctx, []byte("{broken")); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReparse(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, 0)

	if _, err := h.im.Reparse(ctx); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without raw text, got %v", err)
	}

	if _, err := h.im.ImportPDF(ctx, "a.pdf", "", []byte("%PDF-")); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := h.store.SaveRawText(ctx, "Character Name: Edited\n"); err != nil {
		t.Fatalf("save raw text: %v", err)
	}
	res, err := h.im.Reparse(ctx)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if cs, _ := res.Snapshot.Sheet(); *cs.Info.Name != "Edited" {
		t.Fatalf("expected re-parsed name, got %v", cs.Info.Name)
	}
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	h := newHarness(t, 64)

	big := filepath.Join(dir, "big.pdf")
	if err := os.WriteFile(big, make([]byte, 65), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := h.im.ImportFile(ctx, big); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversize file, got %v", err)
	}
	if h.reader.calls != 0 {
		t.Fatal("oversize file reached the reader")
	}

	if _, err := h.im.ImportFile(ctx, filepath.Join(dir, "absent.pdf")); !errors.Is(err, core.ErrSourceFetch) {
		t.Fatalf("expected ErrSourceFetch for missing file, got %v", err)
	}

	small := filepath.Join(dir, "mirela.pdf")
	if err := os.WriteFile(small, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := h.im.ImportFile(ctx, small)
	if err != nil {
		t.Fatalf("import file: %v", err)
	}
	if cs, _ := res.Snapshot.Sheet(); *cs.Info.Name != "Mirela Voss" {
		t.Fatalf("unexpected name %v", cs.Info.Name)
	}
}

func TestInspectDoesNotImport(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	paths := []string{
		write("mirela.pdf", "%PDF-1.4"),
		write("thrain.html", profilePage),
		write("notes.txt", "just some notes"),
		filepath.Join(dir, "missing.pdf"),
	}

	h := newHarness(t, 0)
	reports, err := h.im.Inspect(context.Background(), paths, 2)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(reports) != len(paths) {
		t.Fatalf("expected %d reports, got %d", len(paths), len(reports))
	}
	if r := reports[0]; r.Err != nil || *r.Sheet.Info.Name != "Mirela Voss" {
		t.Fatalf("unexpected pdf report: %+v", r)
	}
	if r := reports[1]; r.Err != nil || *r.Sheet.Info.Name != "Thrain" {
		t.Fatalf("unexpected html report: %+v", r)
	}
	if !errors.Is(reports[2].Err, core.ErrInvalidInput) {
		t.Fatalf("expected invalid input for notes.txt, got %v", reports[2].Err)
	}
	if !errors.Is(reports[3].Err, core.ErrSourceFetch) {
		t.Fatalf("expected source fetch error for missing file, got %v", reports[3].Err)
	}
	if h.repo.State() != repository.StateEmpty {
		t.Fatal("inspect mutated the repository")
	}
}
