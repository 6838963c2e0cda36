// Package normalize implements the Normalizer interface.
// It merges extractor output over the canonical default record, field by
// field, so the sheet invariants hold no matter how sparse the input was.
package normalize

import (
	"sort"
	"strings"

	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// SheetNormalizer overlays partial sheets onto the defaults.
type SheetNormalizer struct{}

// New creates a SheetNormalizer.
func New() *SheetNormalizer {
	return &SheetNormalizer{}
}

// Normalize returns a canonical record built from the defaults and every
// field present in partial. The result shares no memory with partial.
func (n *SheetNormalizer) Normalize(partial sheet.PartialSheet) sheet.CharacterSheet {
	cs := Defaults()

	cs.Info = normalizeInfo(partial.Info)

	for key, pa := range partial.Abilities {
		a := cs.Abilities.Get(key)
		if a == nil {
			continue // unknown ability key
		}
		if pa.Score != nil {
			a.Score = *pa.Score
		}
		if pa.Modifier != nil {
			a.Modifier = *pa.Modifier
		}
		if pa.SavingThrowProficient != nil {
			a.SavingThrowProficient = *pa.SavingThrowProficient
		}
	}

	for key, ps := range partial.Skills {
		s := cs.Skills.Get(key)
		if s == nil {
			continue
		}
		if ps.Proficient != nil {
			s.Proficient = *ps.Proficient
		}
		if ps.Expertise != nil {
			s.Expertise = *ps.Expertise
		}
		if ps.Modifier != nil {
			s.Modifier = *ps.Modifier
		}
	}

	cs.Spellcasting = normalizeSpells(partial.Spellcasting)
	cs.Inventory = normalizeInventory(partial.Inventory)

	if partial.Layout != nil {
		cs.Layout = normalizeLayout(*partial.Layout)
	}
	return cs
}

func normalizeInfo(in sheet.CharacterInfo) sheet.CharacterInfo {
	out := sheet.CloneInfo(in)
	if out.HitPoints != nil {
		hp := out.HitPoints
		if hp.Temporary < 0 {
			hp.Temporary = 0
		}
	}
	return out
}

func normalizeSpells(in sheet.PartialSpells) sheet.SpellState {
	out := sheet.SpellState{
		Slots:  make([]sheet.SpellSlot, 0, len(in.Slots)),
		Spells: sheet.CloneSpells(in.Spells),
	}
	if in.Class != nil {
		out.Class = sheet.Ptr(*in.Class)
	}
	if in.Ability != nil {
		out.Ability = sheet.Ptr(*in.Ability)
	}
	if in.SaveDC != nil {
		out.SaveDC = sheet.Ptr(*in.SaveDC)
	}
	if in.AttackBonus != nil {
		out.AttackBonus = sheet.Ptr(*in.AttackBonus)
	}
	for _, slot := range in.Slots {
		out.Slots = append(out.Slots, ClampSlot(slot))
	}
	if out.Spells == nil {
		out.Spells = []sheet.Spell{}
	}
	return out
}

// ClampSlot enforces level >= 1, non-negative counts and current <= maximum.
func ClampSlot(slot sheet.SpellSlot) sheet.SpellSlot {
	if slot.Level < 1 {
		slot.Level = 1
	}
	if slot.Maximum < 0 {
		slot.Maximum = 0
	}
	if slot.Current < 0 {
		slot.Current = 0
	}
	if slot.Current > slot.Maximum {
		slot.Current = slot.Maximum
	}
	return slot
}

func normalizeInventory(in sheet.PartialInventory) sheet.Inventory {
	out := sheet.Inventory{Items: sheet.CloneItems(in.Items)}
	if out.Items == nil {
		out.Items = []sheet.Item{}
	}
	for i := range out.Items {
		it := &out.Items[i]
		it.Name = strings.TrimSpace(it.Name)
		if it.Quantity < 0 {
			it.Quantity = 0
		}
		if !it.Type.Valid() {
			it.Type = sheet.ItemOther
		}
	}
	for d, amount := range in.Currency {
		p := out.Currency.Get(d)
		if p == nil {
			continue
		}
		if amount < 0 {
			amount = 0
		}
		*p = amount
	}
	return out
}

func normalizeLayout(in sheet.PartialLayout) sheet.Layout {
	layout := DefaultLayout()
	if in.Theme != nil && in.Theme.Valid() {
		layout.Theme = *in.Theme
	}

	seen := make(map[sheet.SectionID]bool, len(in.Sections))
	for _, ps := range in.Sections {
		idx := layout.Section(ps.ID)
		if idx < 0 || seen[ps.ID] {
			continue // unknown or duplicate id
		}
		seen[ps.ID] = true
		s := &layout.Sections[idx]
		if ps.Title != nil {
			s.Title = *ps.Title
		}
		if ps.Order != nil {
			s.Order = *ps.Order
		}
		if ps.Visible != nil {
			s.Visible = *ps.Visible
		}
		if ps.Collapsed != nil {
			s.Collapsed = *ps.Collapsed
		}
	}

	sort.SliceStable(layout.Sections, func(i, j int) bool {
		return layout.Sections[i].Order < layout.Sections[j].Order
	})
	return layout
}
