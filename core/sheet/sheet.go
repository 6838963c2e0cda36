// Package sheet defines the canonical character sheet record and the partial
// record produced by extractors.
//
// The canonical record uses fixed-arity structs for abilities, skills and
// currency so a missing key cannot be represented. Optional scalars are
// pointers: absence means "unknown", never zero.
package sheet

// CharacterSheet is the root aggregate owned by the repository.
type CharacterSheet struct {
	Info         CharacterInfo `json:"info" yaml:"info"`
	Abilities    AbilitySet    `json:"abilities" yaml:"abilities"`
	Skills       SkillSet      `json:"skills" yaml:"skills"`
	Spellcasting SpellState    `json:"spellcasting" yaml:"spellcasting"`
	Inventory    Inventory     `json:"inventory" yaml:"inventory"`
	Layout       Layout        `json:"layout" yaml:"layout"`
}

// CharacterInfo holds identity and combat fields. Every field is optional.
type CharacterInfo struct {
	Name       *string    `json:"name,omitempty" yaml:"name,omitempty"`
	Class      *string    `json:"class,omitempty" yaml:"class,omitempty"`
	Level      *int       `json:"level,omitempty" yaml:"level,omitempty"`
	Race       *string    `json:"race,omitempty" yaml:"race,omitempty"`
	Background *string    `json:"background,omitempty" yaml:"background,omitempty"`
	Alignment  *string    `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	Experience *int       `json:"experience,omitempty" yaml:"experience,omitempty"`
	ArmorClass *int       `json:"armorClass,omitempty" yaml:"armorClass,omitempty"`
	Initiative *int       `json:"initiative,omitempty" yaml:"initiative,omitempty"`
	Speed      *int       `json:"speed,omitempty" yaml:"speed,omitempty"`
	HitPoints  *HitPoints `json:"hitPoints,omitempty" yaml:"hitPoints,omitempty"`
}

// HitPoints is the current/maximum/temporary hit point triple.
type HitPoints struct {
	Current   int `json:"current" yaml:"current"`
	Maximum   int `json:"maximum" yaml:"maximum"`
	Temporary int `json:"temporary" yaml:"temporary"`
}

// Ability is one of the six ability scores.
type Ability struct {
	Score                 int  `json:"score" yaml:"score"`
	Modifier              int  `json:"modifier" yaml:"modifier"`
	SavingThrowProficient bool `json:"savingThrowProficient" yaml:"savingThrowProficient"`
}

// AbilitySet always carries all six abilities.
type AbilitySet struct {
	Strength     Ability `json:"strength" yaml:"strength"`
	Dexterity    Ability `json:"dexterity" yaml:"dexterity"`
	Constitution Ability `json:"constitution" yaml:"constitution"`
	Intelligence Ability `json:"intelligence" yaml:"intelligence"`
	Wisdom       Ability `json:"wisdom" yaml:"wisdom"`
	Charisma     Ability `json:"charisma" yaml:"charisma"`
}

// Get returns a pointer to the ability for key, or nil for an unknown key.
func (a *AbilitySet) Get(key AbilityKey) *Ability {
	switch key {
	case Strength:
		return &a.Strength
	case Dexterity:
		return &a.Dexterity
	case Constitution:
		return &a.Constitution
	case Intelligence:
		return &a.Intelligence
	case Wisdom:
		return &a.Wisdom
	case Charisma:
		return &a.Charisma
	}
	return nil
}

// Skill is one of the eighteen skills.
type Skill struct {
	Proficient bool `json:"proficient" yaml:"proficient"`
	Expertise  bool `json:"expertise" yaml:"expertise"`
	Modifier   int  `json:"modifier" yaml:"modifier"`
}

// SkillSet always carries all eighteen skills.
type SkillSet struct {
	Acrobatics     Skill `json:"acrobatics" yaml:"acrobatics"`
	AnimalHandling Skill `json:"animalHandling" yaml:"animalHandling"`
	Arcana         Skill `json:"arcana" yaml:"arcana"`
	Athletics      Skill `json:"athletics" yaml:"athletics"`
	Deception      Skill `json:"deception" yaml:"deception"`
	History        Skill `json:"history" yaml:"history"`
	Insight        Skill `json:"insight" yaml:"insight"`
	Intimidation   Skill `json:"intimidation" yaml:"intimidation"`
	Investigation  Skill `json:"investigation" yaml:"investigation"`
	Medicine       Skill `json:"medicine" yaml:"medicine"`
	Nature         Skill `json:"nature" yaml:"nature"`
	Perception     Skill `json:"perception" yaml:"perception"`
	Performance    Skill `json:"performance" yaml:"performance"`
	Persuasion     Skill `json:"persuasion" yaml:"persuasion"`
	Religion       Skill `json:"religion" yaml:"religion"`
	SleightOfHand  Skill `json:"sleightOfHand" yaml:"sleightOfHand"`
	Stealth        Skill `json:"stealth" yaml:"stealth"`
	Survival       Skill `json:"survival" yaml:"survival"`
}

// Get returns a pointer to the skill for key, or nil for an unknown key.
func (s *SkillSet) Get(key SkillKey) *Skill {
	switch key {
	case Acrobatics:
		return &s.Acrobatics
	case AnimalHandling:
		return &s.AnimalHandling
	case Arcana:
		return &s.Arcana
	case Athletics:
		return &s.Athletics
	case Deception:
		return &s.Deception
	case History:
		return &s.History
	case Insight:
		return &s.Insight
	case Intimidation:
		return &s.Intimidation
	case Investigation:
		return &s.Investigation
	case Medicine:
		return &s.Medicine
	case Nature:
		return &s.Nature
	case Perception:
		return &s.Perception
	case Performance:
		return &s.Performance
	case Persuasion:
		return &s.Persuasion
	case Religion:
		return &s.Religion
	case SleightOfHand:
		return &s.SleightOfHand
	case Stealth:
		return &s.Stealth
	case Survival:
		return &s.Survival
	}
	return nil
}

// SpellState is the spellcasting section.
type SpellState struct {
	Class       *string     `json:"spellcastingClass,omitempty" yaml:"spellcastingClass,omitempty"`
	Ability     *string     `json:"spellcastingAbility,omitempty" yaml:"spellcastingAbility,omitempty"`
	SaveDC      *int        `json:"spellSaveDC,omitempty" yaml:"spellSaveDC,omitempty"`
	AttackBonus *int        `json:"spellAttackBonus,omitempty" yaml:"spellAttackBonus,omitempty"`
	Slots       []SpellSlot `json:"spellSlots" yaml:"spellSlots"`
	Spells      []Spell     `json:"spells" yaml:"spells"`
}

// SpellSlot tracks slots for one spell level. Current never exceeds Maximum.
type SpellSlot struct {
	Level   int `json:"level" yaml:"level"`
	Current int `json:"current" yaml:"current"`
	Maximum int `json:"maximum" yaml:"maximum"`
}

// Spell is a known or prepared spell.
type Spell struct {
	Name        string          `json:"name" yaml:"name"`
	Level       int             `json:"level" yaml:"level"`
	School      string          `json:"school" yaml:"school"`
	CastingTime string          `json:"castingTime" yaml:"castingTime"`
	Range       string          `json:"range" yaml:"range"`
	Components  SpellComponents `json:"components" yaml:"components"`
	Duration    string          `json:"duration" yaml:"duration"`
	Description string          `json:"description" yaml:"description"`
	Prepared    bool            `json:"prepared" yaml:"prepared"`
}

// SpellComponents lists verbal/somatic/material requirements.
type SpellComponents struct {
	Verbal   bool    `json:"verbal" yaml:"verbal"`
	Somatic  bool    `json:"somatic" yaml:"somatic"`
	Material *string `json:"material,omitempty" yaml:"material,omitempty"`
}

// ItemType classifies inventory items.
type ItemType string

const (
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemEquipment  ItemType = "equipment"
	ItemConsumable ItemType = "consumable"
	ItemOther      ItemType = "other"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemWeapon, ItemArmor, ItemEquipment, ItemConsumable, ItemOther:
		return true
	}
	return false
}

// Item is one inventory entry.
type Item struct {
	Name        string   `json:"name" yaml:"name"`
	Quantity    int      `json:"quantity" yaml:"quantity"`
	Weight      *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Description *string  `json:"description,omitempty" yaml:"description,omitempty"`
	Equipped    *bool    `json:"equipped,omitempty" yaml:"equipped,omitempty"`
	Type        ItemType `json:"type" yaml:"type"`
}

// Currency always carries all five denominations.
type Currency struct {
	Copper   int `json:"copper" yaml:"copper"`
	Silver   int `json:"silver" yaml:"silver"`
	Electrum int `json:"electrum" yaml:"electrum"`
	Gold     int `json:"gold" yaml:"gold"`
	Platinum int `json:"platinum" yaml:"platinum"`
}

// Get returns a pointer to the amount for d, or nil for an unknown denomination.
func (c *Currency) Get(d Denomination) *int {
	switch d {
	case Copper:
		return &c.Copper
	case Silver:
		return &c.Silver
	case Electrum:
		return &c.Electrum
	case Gold:
		return &c.Gold
	case Platinum:
		return &c.Platinum
	}
	return nil
}

// Inventory is the items list plus purse.
type Inventory struct {
	Items    []Item   `json:"items" yaml:"items"`
	Currency Currency `json:"currency" yaml:"currency"`
}

// Theme is the display theme tag.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Section is one display grouping.
type Section struct {
	ID        SectionID `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Order     int       `json:"order" yaml:"order"`
	Visible   bool      `json:"visible" yaml:"visible"`
	Collapsed bool      `json:"collapsed" yaml:"collapsed"`
}

// Layout orders the sections for display.
type Layout struct {
	Sections []Section `json:"sections" yaml:"sections"`
	Theme    Theme     `json:"theme" yaml:"theme"`
}

// Section returns the index of the section with id, or -1.
func (l *Layout) Section(id SectionID) int {
	for i := range l.Sections {
		if l.Sections[i].ID == id {
			return i
		}
	}
	return -1
}
