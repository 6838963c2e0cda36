// Package repository owns the current character sheet.
//
// The Repository is a small state machine (Empty, Loaded, Editing) guarded by
// a mutex. Every transition that changes the canonical record re-normalizes
// it, writes it to the SheetStore and publishes a Snapshot. Nothing outside
// this package holds a pointer into the canonical record: stages and
// snapshots are deep copies.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/normalize"
	"github.com/gaurav-prasanna/sheetpipe/core/notify"
	"github.com/gaurav-prasanna/sheetpipe/core/pubsub"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// State is the repository lifecycle state.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateEditing:
		return "editing"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Snapshot is a point-in-time view of the repository. ID changes on every
// import; Revision increases on every transition, so a caller holding an
// older snapshot can tell it is stale.
type Snapshot struct {
	ID       string
	Revision uint64
	State    State
	// Editing is the section under edit when State is StateEditing.
	Editing sheet.SectionID
	// SaveFailed reports that the transition producing this snapshot could
	// not be persisted. The in-memory record is still authoritative.
	SaveFailed bool

	record *sheet.CharacterSheet
}

// Sheet returns a copy of the record, or false when the repository is empty.
func (s Snapshot) Sheet() (sheet.CharacterSheet, bool) {
	if s.record == nil {
		return sheet.CharacterSheet{}, false
	}
	var out sheet.CharacterSheet
	if err := deepcopy.Copy(&out, s.record); err != nil {
		return normalize.New().Normalize(s.record.Partial()), true
	}
	return out, true
}

// Repository is the single writer of the current sheet.
type Repository struct {
	mu         sync.Mutex
	normalizer core.Normalizer
	store      core.SheetStore
	broker     *notify.Broker
	logger     *slog.Logger
	topic      *pubsub.Topic[Snapshot]

	current    *sheet.CharacterSheet
	id         string
	revision   uint64
	stage      *Stage
	saveFailed bool
}

// New creates an empty Repository. A nil normalizer uses the default one, a
// nil store disables persistence, a nil broker gets a private one and a nil
// logger uses slog.Default().
func New(normalizer core.Normalizer, store core.SheetStore, broker *notify.Broker, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	if normalizer == nil {
		normalizer = normalize.New()
	}
	if broker == nil {
		broker = notify.New(nil, logger)
	}
	r := &Repository{
		normalizer: normalizer,
		store:      store,
		broker:     broker,
		logger:     logger,
		topic:      pubsub.New[Snapshot](),
	}
	r.topic.Publish(r.snapshotLocked())
	return r
}

// Restore loads the persisted record, if any. It is meant to run once at
// startup; a load failure is notified and leaves the repository empty.
func (r *Repository) Restore(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store == nil {
		return r.snapshotLocked(), nil
	}
	stored, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Error("restore sheet", "err", err)
		r.broker.Error("Could not restore the saved sheet")
		return r.snapshotLocked(), err
	}
	if stored == nil {
		return r.snapshotLocked(), nil
	}

	cs := r.normalizer.Normalize(stored.Partial())
	r.current = &cs
	r.id = uuid.NewString()
	r.revision++
	r.stage = nil
	r.saveFailed = false
	r.logger.Info("sheet restored", "id", r.id)
	r.publishLocked()
	return r.snapshotLocked(), nil
}

// Import replaces the canonical record wholesale. An active edit stage is
// discarded.
func (r *Repository) Import(ctx context.Context, cs sheet.CharacterSheet) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage != nil {
		r.logger.Warn("import discarded active edit", "section", r.stage.section)
		r.stage = nil
	}
	next := r.clone(cs)
	r.current = &next
	r.id = uuid.NewString()
	r.revision++
	r.persistLocked(ctx)
	r.logger.Info("sheet imported", "id", r.id, "revision", r.revision)
	r.publishLocked()
	return r.snapshotLocked()
}

// BeginEdit opens a stage for section. Starting a new edit while one is
// active discards the earlier stage.
func (r *Repository) BeginEdit(section sheet.SectionID) (*Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !section.Valid() {
		return nil, core.Errorf(core.KindInvalidInput, "unknown section %q", section)
	}
	if r.current == nil {
		return nil, core.Errorf(core.KindEditWithoutSheet, "cannot edit %s: no sheet loaded", section)
	}
	if r.stage != nil {
		r.logger.Warn("discarding active edit", "section", r.stage.section, "new_section", section)
	}

	r.stage = &Stage{section: section, record: r.clone(*r.current)}
	r.revision++
	r.publishLocked()
	return r.stage, nil
}

// CommitEdit merges the active stage's section into the canonical record.
func (r *Repository) CommitEdit(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commitLocked(ctx, r.stage)
}

// Commit merges st, failing with ErrNoActiveEdit if st was superseded,
// cancelled or already committed.
func (r *Repository) Commit(ctx context.Context, st *Stage) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commitLocked(ctx, st)
}

func (r *Repository) commitLocked(ctx context.Context, st *Stage) (Snapshot, error) {
	if st == nil || st != r.stage || r.current == nil {
		return r.snapshotLocked(), core.Errorf(core.KindNoActiveEdit, "no active edit session")
	}

	next := r.clone(*r.current)
	var err error
	switch p := st.Payload().(type) {
	case InfoEdit:
		err = deepcopy.Copy(&next.Info, p.Info)
	case AbilitiesEdit:
		err = deepcopy.Copy(&next.Abilities, p.Abilities)
	case SkillsEdit:
		err = deepcopy.Copy(&next.Skills, p.Skills)
	case SpellsEdit:
		err = deepcopy.Copy(&next.Spellcasting, p.Spellcasting)
	case InventoryEdit:
		err = deepcopy.Copy(&next.Inventory, p.Inventory)
	default:
		err = fmt.Errorf("unsupported section %q", st.section)
	}
	if err != nil {
		return r.snapshotLocked(), fmt.Errorf("merging %s: %w", st.section, err)
	}

	cs := r.normalizer.Normalize(next.Partial())
	r.current = &cs
	r.stage = nil
	r.revision++
	r.persistLocked(ctx)
	r.logger.Info("edit committed", "section", st.section, "revision", r.revision)
	r.publishLocked()
	return r.snapshotLocked(), nil
}

// CancelEdit drops the active stage. It is a no-op when nothing is staged.
func (r *Repository) CancelEdit() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stage != nil {
		r.logger.Debug("edit cancelled", "section", r.stage.section)
		r.stage = nil
		r.revision++
		r.publishLocked()
	}
	return r.snapshotLocked()
}

// Clear drops the record and purges the store.
func (r *Repository) Clear(ctx context.Context) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = nil
	r.stage = nil
	r.id = ""
	r.revision++
	r.saveFailed = false
	if r.store != nil {
		if err := r.store.Clear(ctx); err != nil {
			r.saveFailed = true
			r.logger.Error("clear store", "err", err)
			r.broker.Error(fmt.Sprintf("Could not clear saved sheet: %v", err))
		}
	}
	r.logger.Info("sheet cleared")
	r.publishLocked()
	return r.snapshotLocked()
}

// MoveSection moves the section at display position from to position to and
// renumbers every section's order.
func (r *Repository) MoveSection(ctx context.Context, from, to int) (Snapshot, error) {
	return r.updateLayout(ctx, func(l *sheet.Layout) error {
		n := len(l.Sections)
		if from < 0 || from >= n || to < 0 || to >= n {
			return core.Errorf(core.KindInvalidInput, "section position out of range: %d -> %d (have %d)", from, to, n)
		}
		moved := l.Sections[from]
		rest := append(append([]sheet.Section(nil), l.Sections[:from]...), l.Sections[from+1:]...)
		l.Sections = append(append(append([]sheet.Section(nil), rest[:to]...), moved), rest[to:]...)
		for i := range l.Sections {
			l.Sections[i].Order = i + 1
		}
		return nil
	})
}

// SetSectionVisible shows or hides a section.
func (r *Repository) SetSectionVisible(ctx context.Context, id sheet.SectionID, visible bool) (Snapshot, error) {
	return r.updateSection(ctx, id, func(s *sheet.Section) { s.Visible = visible })
}

// SetSectionCollapsed collapses or expands a section.
func (r *Repository) SetSectionCollapsed(ctx context.Context, id sheet.SectionID, collapsed bool) (Snapshot, error) {
	return r.updateSection(ctx, id, func(s *sheet.Section) { s.Collapsed = collapsed })
}

// SetTheme switches the display theme.
func (r *Repository) SetTheme(ctx context.Context, theme sheet.Theme) (Snapshot, error) {
	return r.updateLayout(ctx, func(l *sheet.Layout) error {
		if !theme.Valid() {
			return core.Errorf(core.KindInvalidInput, "unknown theme %q", theme)
		}
		l.Theme = theme
		return nil
	})
}

func (r *Repository) updateSection(ctx context.Context, id sheet.SectionID, fn func(*sheet.Section)) (Snapshot, error) {
	return r.updateLayout(ctx, func(l *sheet.Layout) error {
		i := l.Section(id)
		if i < 0 {
			return core.Errorf(core.KindInvalidInput, "unknown section %q", id)
		}
		fn(&l.Sections[i])
		return nil
	})
}

// updateLayout applies fn to a copy of the layout. An active edit stage is
// kept: it only ever merges its own section back.
func (r *Repository) updateLayout(ctx context.Context, fn func(*sheet.Layout) error) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return r.snapshotLocked(), core.Errorf(core.KindEditWithoutSheet, "cannot change layout: no sheet loaded")
	}
	next := r.clone(*r.current)
	if err := fn(&next.Layout); err != nil {
		return r.snapshotLocked(), err
	}

	cs := r.normalizer.Normalize(next.Partial())
	r.current = &cs
	r.revision++
	r.persistLocked(ctx)
	r.publishLocked()
	return r.snapshotLocked(), nil
}

// Current returns the latest snapshot.
func (r *Repository) Current() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// State returns the lifecycle state.
func (r *Repository) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

// Subscribe returns a channel that immediately holds the current snapshot
// and then every later one. See pubsub.Topic.
func (r *Repository) Subscribe() (<-chan Snapshot, func()) {
	return r.topic.Subscribe()
}

// Close closes every snapshot subscription. The record itself is kept.
func (r *Repository) Close() {
	r.topic.Close()
}

func (r *Repository) stateLocked() State {
	switch {
	case r.current == nil:
		return StateEmpty
	case r.stage != nil:
		return StateEditing
	}
	return StateLoaded
}

func (r *Repository) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:         r.id,
		Revision:   r.revision,
		State:      r.stateLocked(),
		SaveFailed: r.saveFailed,
	}
	if r.stage != nil {
		snap.Editing = r.stage.section
	}
	if r.current != nil {
		cs := r.clone(*r.current)
		snap.record = &cs
	}
	return snap
}

func (r *Repository) publishLocked() {
	r.topic.Publish(r.snapshotLocked())
}

// persistLocked writes the current record. Failures are logged and
// notified; the in-memory record is kept either way.
func (r *Repository) persistLocked(ctx context.Context) {
	r.saveFailed = false
	if r.store == nil || r.current == nil {
		return
	}
	if err := r.store.Save(ctx, *r.current); err != nil {
		r.saveFailed = true
		r.logger.Error("persist sheet", "id", r.id, "err", err)
		r.broker.Error(fmt.Sprintf("Could not save sheet: %v", err))
	}
}

// clone deep-copies cs, falling back to a normalizing copy.
func (r *Repository) clone(cs sheet.CharacterSheet) sheet.CharacterSheet {
	var out sheet.CharacterSheet
	if err := deepcopy.Copy(&out, &cs); err != nil {
		r.logger.Warn("deep copy failed, copying through normalizer", "err", err)
		return r.normalizer.Normalize(cs.Partial())
	}
	return out
}
