package normalize

import "github.com/gaurav-prasanna/sheetpipe/core/sheet"

// Default ability values.
const (
	DefaultScore    = 10
	DefaultModifier = 0
)

// Defaults returns the canonical default record: every ability at 10/+0,
// every skill untrained, empty lists, an empty purse and the five-section
// default layout.
func Defaults() sheet.CharacterSheet {
	var cs sheet.CharacterSheet
	for _, k := range sheet.AbilityKeys {
		*cs.Abilities.Get(k) = sheet.Ability{Score: DefaultScore, Modifier: DefaultModifier}
	}
	cs.Spellcasting.Slots = []sheet.SpellSlot{}
	cs.Spellcasting.Spells = []sheet.Spell{}
	cs.Inventory.Items = []sheet.Item{}
	cs.Layout = DefaultLayout()
	return cs
}

// DefaultLayout returns the fixed five-section layout in default order.
func DefaultLayout() sheet.Layout {
	sections := make([]sheet.Section, len(sheet.SectionIDs))
	for i, id := range sheet.SectionIDs {
		sections[i] = sheet.Section{
			ID:      id,
			Title:   id.Title(),
			Order:   i + 1,
			Visible: true,
		}
	}
	return sheet.Layout{Sections: sections, Theme: sheet.ThemeLight}
}
