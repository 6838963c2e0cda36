package sheet

import "strings"

// AbilityKey names one of the six abilities.
type AbilityKey string

const (
	Strength     AbilityKey = "strength"
	Dexterity    AbilityKey = "dexterity"
	Constitution AbilityKey = "constitution"
	Intelligence AbilityKey = "intelligence"
	Wisdom       AbilityKey = "wisdom"
	Charisma     AbilityKey = "charisma"
)

// AbilityKeys lists the abilities in sheet order.
var AbilityKeys = []AbilityKey{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// AbilityFromName maps a case-insensitive ability name to its key.
func AbilityFromName(name string) (AbilityKey, bool) {
	key := AbilityKey(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range AbilityKeys {
		if k == key {
			return k, true
		}
	}
	return "", false
}

// SkillKey names one of the eighteen skills.
type SkillKey string

const (
	Acrobatics     SkillKey = "acrobatics"
	AnimalHandling SkillKey = "animalHandling"
	Arcana         SkillKey = "arcana"
	Athletics      SkillKey = "athletics"
	Deception      SkillKey = "deception"
	History        SkillKey = "history"
	Insight        SkillKey = "insight"
	Intimidation   SkillKey = "intimidation"
	Investigation  SkillKey = "investigation"
	Medicine       SkillKey = "medicine"
	Nature         SkillKey = "nature"
	Perception     SkillKey = "perception"
	Performance    SkillKey = "performance"
	Persuasion     SkillKey = "persuasion"
	Religion       SkillKey = "religion"
	SleightOfHand  SkillKey = "sleightOfHand"
	Stealth        SkillKey = "stealth"
	Survival       SkillKey = "survival"
)

// SkillKeys lists the skills in sheet order.
var SkillKeys = []SkillKey{
	Acrobatics, AnimalHandling, Arcana, Athletics, Deception, History,
	Insight, Intimidation, Investigation, Medicine, Nature, Perception,
	Performance, Persuasion, Religion, SleightOfHand, Stealth, Survival,
}

// skillLabels maps lower-cased, single-spaced labels to keys.
var skillLabels = map[string]SkillKey{
	"acrobatics":      Acrobatics,
	"animal handling": AnimalHandling,
	"arcana":          Arcana,
	"athletics":       Athletics,
	"deception":       Deception,
	"history":         History,
	"insight":         Insight,
	"intimidation":    Intimidation,
	"investigation":   Investigation,
	"medicine":        Medicine,
	"nature":          Nature,
	"perception":      Perception,
	"performance":     Performance,
	"persuasion":      Persuasion,
	"religion":        Religion,
	"sleight of hand": SleightOfHand,
	"stealth":         Stealth,
	"survival":        Survival,
}

// SkillKeyFromLabel normalizes a free-text label ("Animal Handling",
// "SLEIGHT  OF hand") to a skill key.
func SkillKeyFromLabel(label string) (SkillKey, bool) {
	norm := strings.ToLower(strings.Join(strings.Fields(label), " "))
	key, ok := skillLabels[norm]
	return key, ok
}

// SkillLabel returns the display label for key.
func SkillLabel(key SkillKey) string {
	for label, k := range skillLabels {
		if k == key {
			words := strings.Fields(label)
			for i, w := range words {
				if w == "of" {
					continue
				}
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
			return strings.Join(words, " ")
		}
	}
	return string(key)
}

// Denomination names one of the five coins.
type Denomination string

const (
	Copper   Denomination = "copper"
	Silver   Denomination = "silver"
	Electrum Denomination = "electrum"
	Gold     Denomination = "gold"
	Platinum Denomination = "platinum"
)

// Denominations lists the coins from least to most valuable.
var Denominations = []Denomination{Copper, Silver, Electrum, Gold, Platinum}

var coinCodes = map[string]Denomination{
	"cp": Copper,
	"sp": Silver,
	"ep": Electrum,
	"gp": Gold,
	"pp": Platinum,
}

// DenominationFromCode maps a case-insensitive coin code (CP, sp, ...) to its
// denomination.
func DenominationFromCode(code string) (Denomination, bool) {
	d, ok := coinCodes[strings.ToLower(strings.TrimSpace(code))]
	return d, ok
}

// Code returns the two-letter coin code for d.
func (d Denomination) Code() string {
	for code, v := range coinCodes {
		if v == d {
			return strings.ToUpper(code)
		}
	}
	return ""
}

// SectionID names one of the five display sections. It is also the edit
// granularity.
type SectionID string

const (
	SectionCharacterInfo SectionID = "characterInfo"
	SectionAbilities     SectionID = "abilities"
	SectionSkills        SectionID = "skills"
	SectionSpells        SectionID = "spells"
	SectionInventory     SectionID = "inventory"
)

// SectionIDs lists the sections in default order.
var SectionIDs = []SectionID{SectionCharacterInfo, SectionAbilities, SectionSkills, SectionSpells, SectionInventory}

// Valid reports whether id is one of the five sections.
func (id SectionID) Valid() bool {
	for _, s := range SectionIDs {
		if s == id {
			return true
		}
	}
	return false
}

// Title returns the default title of the section.
func (id SectionID) Title() string {
	switch id {
	case SectionCharacterInfo:
		return "Character Info"
	case SectionAbilities:
		return "Abilities"
	case SectionSkills:
		return "Skills"
	case SectionSpells:
		return "Spells"
	case SectionInventory:
		return "Inventory"
	}
	return string(id)
}
