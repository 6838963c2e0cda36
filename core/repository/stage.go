package repository

import "github.com/gaurav-prasanna/sheetpipe/core/sheet"

// Payload is the typed view of a staged section. The concrete types are
// InfoEdit, AbilitiesEdit, SkillsEdit, SpellsEdit and InventoryEdit.
type Payload interface {
	Section() sheet.SectionID
	payload()
}

// InfoEdit exposes the staged character info.
type InfoEdit struct{ Info *sheet.CharacterInfo }

// AbilitiesEdit exposes the staged ability scores.
type AbilitiesEdit struct{ Abilities *sheet.AbilitySet }

// SkillsEdit exposes the staged skills.
type SkillsEdit struct{ Skills *sheet.SkillSet }

// SpellsEdit exposes the staged spellcasting state.
type SpellsEdit struct{ Spellcasting *sheet.SpellState }

// InventoryEdit exposes the staged inventory.
type InventoryEdit struct{ Inventory *sheet.Inventory }

func (InfoEdit) Section() sheet.SectionID      { return sheet.SectionCharacterInfo }
func (AbilitiesEdit) Section() sheet.SectionID { return sheet.SectionAbilities }
func (SkillsEdit) Section() sheet.SectionID    { return sheet.SectionSkills }
func (SpellsEdit) Section() sheet.SectionID    { return sheet.SectionSpells }
func (InventoryEdit) Section() sheet.SectionID { return sheet.SectionInventory }

func (InfoEdit) payload()      {}
func (AbilitiesEdit) payload() {}
func (SkillsEdit) payload()    {}
func (SpellsEdit) payload()    {}
func (InventoryEdit) payload() {}

// Stage is a private deep copy of the canonical record opened for editing
// one section. Mutations are invisible to the repository until committed.
// Only the most recently opened Stage can be committed.
type Stage struct {
	section sheet.SectionID
	record  sheet.CharacterSheet
}

// Section returns the section being edited.
func (s *Stage) Section() sheet.SectionID {
	return s.section
}

// Record returns the whole staged copy. Only the edited section is merged
// back on commit.
func (s *Stage) Record() *sheet.CharacterSheet {
	return &s.record
}

// Payload returns the typed view of the edited section, pointing into the
// staged copy.
func (s *Stage) Payload() Payload {
	switch s.section {
	case sheet.SectionCharacterInfo:
		return InfoEdit{Info: &s.record.Info}
	case sheet.SectionAbilities:
		return AbilitiesEdit{Abilities: &s.record.Abilities}
	case sheet.SectionSkills:
		return SkillsEdit{Skills: &s.record.Skills}
	case sheet.SectionSpells:
		return SpellsEdit{Spellcasting: &s.record.Spellcasting}
	case sheet.SectionInventory:
		return InventoryEdit{Inventory: &s.record.Inventory}
	}
	return nil
}
