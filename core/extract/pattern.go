package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// Single-shot info labels. Values stop at the end of the line.
var (
	reCharacterName = regexp.MustCompile(`(?i)Character[ \t]+Name:[ \t]*([^\n]+)`)
	reClass         = regexp.MustCompile(`(?i)((?:Spellcasting|Armor)[ \t]+)?\bClass:[ \t]*([^\n]+)`)
	reLevel         = regexp.MustCompile(`(?i)\bLevel:[ \t]*(\d+)`)
	reRace          = regexp.MustCompile(`(?i)\bRace:[ \t]*([^\n]+)`)
	reBackground    = regexp.MustCompile(`(?i)\bBackground:[ \t]*([^\n]+)`)
	reAlignment     = regexp.MustCompile(`(?i)\bAlignment:[ \t]*([^\n]+)`)
	reExperience    = regexp.MustCompile(`(?i)Experience[ \t]+Points:[ \t]*(\d+)`)
	reArmorClass    = regexp.MustCompile(`(?i)Armor[ \t]+Class:[ \t]*(\d+)`)
	reInitiative    = regexp.MustCompile(`(?i)\bInitiative:[ \t]*([+-]?\d+)`)
	reSpeed         = regexp.MustCompile(`(?i)\bSpeed:[ \t]*(\d+)`)
	reHitPoints     = regexp.MustCompile(`(?i)Hit[ \t]+Points:[ \t]*(\d+)\s*/\s*(\d+)`)
	reTempHitPoints = regexp.MustCompile(`(?i)Temporary[ \t]+Hit[ \t]+Points:[ \t]*(\d+)`)

	reSpellClass   = regexp.MustCompile(`(?i)Spellcasting[ \t]+Class:[ \t]*([^\n]+)`)
	reSpellAbility = regexp.MustCompile(`(?i)Spellcasting[ \t]+Ability:[ \t]*([^\n]+)`)
	reSpellSaveDC  = regexp.MustCompile(`(?i)Spell[ \t]+Save[ \t]+DC:[ \t]*(\d+)`)
	reSpellAttack  = regexp.MustCompile(`(?i)Spell[ \t]+Attack[ \t]+Bonus:[ \t]*([+-]?\d+)`)
)

// Repeating patterns. Every match is applied in text order.
var (
	reAbility     = regexp.MustCompile(`(?i)\b(Strength|Dexterity|Constitution|Intelligence|Wisdom|Charisma)\s*(\d+)\s*\(\s*([+-]?\d+)\s*\)`)
	reSavingThrow = regexp.MustCompile(`(?i)\b(Strength|Dexterity|Constitution|Intelligence|Wisdom|Charisma)\s+Saving\s+Throw`)
	reSkill       = regexp.MustCompile(`(?i)\b(Acrobatics|Animal\s+Handling|Arcana|Athletics|Deception|History|Insight|Intimidation|Investigation|Medicine|Nature|Perception|Performance|Persuasion|Religion|Sleight\s+of\s+Hand|Stealth|Survival)\s*\(\s*([+-]?\d+)\s*\)`)
	reSpellSlot   = regexp.MustCompile(`(?i)Level\s+(\d+)\s+Slots:\s*(\d+)\s*/\s*(\d+)`)
	reSpell       = regexp.MustCompile(`(?i)([A-Za-z][A-Za-z' \-]*?)[ \t]*\((\d+)(?:st|nd|rd|th)?[ \t-]*level[ \t]+([A-Za-z]+)\)`)
	reCurrency    = regexp.MustCompile(`(?i)\b(CP|SP|EP|GP|PP):\s*(\d+)`)
	reItem        = regexp.MustCompile(`([A-Za-z][A-Za-z' \-]*?)[ \t]*\((\d+)\)`)
)

// PatternExtractor scans flat text (typically a PDF text dump) with labeled
// patterns. It is permissive: text in a foreign format yields an almost
// empty partial sheet, never an error.
type PatternExtractor struct{}

// NewPattern creates a PatternExtractor.
func NewPattern() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract returns every field it could match in rawText.
func (e *PatternExtractor) Extract(rawText string) sheet.PartialSheet {
	var p sheet.PartialSheet
	var missing []string

	extractInfo(rawText, &p.Info, &missing)
	extractAbilities(rawText, &p, &missing)
	extractSkills(rawText, &p)
	extractSpells(rawText, &p.Spellcasting, &missing)
	extractInventory(rawText, &p)

	p.Missing = missing
	return p
}

func extractInfo(text string, info *sheet.CharacterInfo, missing *[]string) {
	info.Name = matchString(text, reCharacterName)
	info.Class = matchClass(text)
	info.Level = matchInt(text, reLevel)
	info.Race = matchString(text, reRace)
	info.Background = matchString(text, reBackground)
	info.Alignment = matchString(text, reAlignment)
	info.Experience = matchInt(text, reExperience)
	info.ArmorClass = matchInt(text, reArmorClass)
	info.Initiative = matchInt(text, reInitiative)
	info.Speed = matchInt(text, reSpeed)

	if m := reHitPoints.FindStringSubmatch(text); m != nil {
		cur, ok1 := atoi(m[1])
		max, ok2 := atoi(m[2])
		if ok1 && ok2 {
			info.HitPoints = &sheet.HitPoints{Current: cur, Maximum: max}
			if temp := matchInt(text, reTempHitPoints); temp != nil {
				info.HitPoints.Temporary = *temp
			}
		}
	}

	*missing = append(*missing, missingInfo(*info)...)
}

// matchClass returns the first "Class:" label that is not part of
// "Spellcasting Class:" or "Armor Class:".
func matchClass(text string) *string {
	for _, m := range reClass.FindAllStringSubmatch(text, -1) {
		if m[1] != "" {
			continue
		}
		if v := strings.TrimSpace(m[2]); v != "" {
			return &v
		}
	}
	return nil
}

func extractAbilities(text string, p *sheet.PartialSheet, missing *[]string) {
	found := make(map[sheet.AbilityKey]bool)

	// Last match for a given ability wins.
	for _, m := range reAbility.FindAllStringSubmatch(text, -1) {
		key, ok := sheet.AbilityFromName(m[1])
		if !ok {
			continue
		}
		score, ok1 := atoi(m[2])
		mod, ok2 := atoi(m[3])
		if !ok1 || !ok2 {
			continue
		}
		found[key] = true
		p.SetAbility(key, func(a *sheet.PartialAbility) {
			a.Score = &score
			a.Modifier = &mod
		})
	}

	// Saving throw proficiency is only ever set, never unset.
	for _, m := range reSavingThrow.FindAllStringSubmatch(text, -1) {
		key, ok := sheet.AbilityFromName(m[1])
		if !ok {
			continue
		}
		p.SetAbility(key, func(a *sheet.PartialAbility) {
			a.SavingThrowProficient = sheet.Ptr(true)
		})
	}

	for _, key := range sheet.AbilityKeys {
		if !found[key] {
			*missing = append(*missing, "abilities."+string(key))
		}
	}
}

func extractSkills(text string, p *sheet.PartialSheet) {
	for _, m := range reSkill.FindAllStringSubmatch(text, -1) {
		key, ok := sheet.SkillKeyFromLabel(m[1])
		if !ok {
			continue
		}
		mod, ok := atoi(m[2])
		if !ok {
			continue
		}
		// Expertise cannot be inferred from text.
		p.SetSkill(key, func(s *sheet.PartialSkill) {
			s.Modifier = &mod
			s.Proficient = sheet.Ptr(true)
		})
	}
}

func extractSpells(text string, spells *sheet.PartialSpells, missing *[]string) {
	spells.Class = matchString(text, reSpellClass)
	spells.Ability = matchString(text, reSpellAbility)
	spells.SaveDC = matchInt(text, reSpellSaveDC)
	spells.AttackBonus = matchInt(text, reSpellAttack)

	if spells.Class == nil {
		*missing = append(*missing, "spellcasting.spellcastingClass")
	}
	if spells.Ability == nil {
		*missing = append(*missing, "spellcasting.spellcastingAbility")
	}
	if spells.SaveDC == nil {
		*missing = append(*missing, "spellcasting.spellSaveDC")
	}
	if spells.AttackBonus == nil {
		*missing = append(*missing, "spellcasting.spellAttackBonus")
	}

	for _, m := range reSpellSlot.FindAllStringSubmatch(text, -1) {
		level, ok1 := atoi(m[1])
		cur, ok2 := atoi(m[2])
		max, ok3 := atoi(m[3])
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		spells.Slots = append(spells.Slots, sheet.SpellSlot{Level: level, Current: cur, Maximum: max})
	}

	for _, m := range reSpell.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		level, ok := atoi(m[2])
		if name == "" || !ok {
			continue
		}
		spells.Spells = append(spells.Spells, sheet.Spell{
			Name:     name,
			Level:    level,
			School:   strings.TrimSpace(m[3]),
			Prepared: true,
		})
	}
}

func extractInventory(text string, p *sheet.PartialSheet) {
	// Last match per coin wins.
	for _, m := range reCurrency.FindAllStringSubmatch(text, -1) {
		d, ok := sheet.DenominationFromCode(m[1])
		if !ok {
			continue
		}
		amount, ok := atoi(m[2])
		if !ok {
			continue
		}
		p.SetCoin(d, amount)
	}

	for _, m := range reItem.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		// "Stealth (4)" is an unsigned skill line, not an item.
		if _, isSkill := sheet.SkillKeyFromLabel(name); isSkill {
			continue
		}
		qty, ok := atoi(m[2])
		if !ok {
			continue
		}
		p.Inventory.Items = append(p.Inventory.Items, sheet.Item{
			Name:     name,
			Quantity: qty,
			Type:     sheet.ItemOther,
		})
	}
}

func matchString(text string, re *regexp.Regexp) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return &v
}

func matchInt(text string, re *regexp.Regexp) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, ok := atoi(m[1])
	if !ok {
		return nil
	}
	return &n
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func missingInfo(info sheet.CharacterInfo) []string {
	var out []string
	check := func(present bool, field string) {
		if !present {
			out = append(out, "info."+field)
		}
	}
	check(info.Name != nil, "name")
	check(info.Class != nil, "class")
	check(info.Level != nil, "level")
	check(info.Race != nil, "race")
	check(info.Background != nil, "background")
	check(info.Alignment != nil, "alignment")
	check(info.Experience != nil, "experience")
	check(info.ArmorClass != nil, "armorClass")
	check(info.Initiative != nil, "initiative")
	check(info.Speed != nil, "speed")
	check(info.HitPoints != nil, "hitPoints")
	return out
}
