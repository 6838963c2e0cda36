package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// MarkdownRenderer writes the sheet as a Markdown document. Lines use the
// same labels the pattern extractor reads, so a text dump of the export
// imports again.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the Markdown document.
func (r *MarkdownRenderer) Render(cs sheet.CharacterSheet) ([]byte, error) {
	return []byte(sheetMarkdown(cs)), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// title upper-cases the first letter of each word. Casers hold state, so
// each call gets its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// DisplayName returns the character name or a placeholder.
func DisplayName(cs sheet.CharacterSheet) string {
	if cs.Info.Name != nil && strings.TrimSpace(*cs.Info.Name) != "" {
		return *cs.Info.Name
	}
	return "Unnamed Character"
}

// sheetMarkdown renders every visible section in layout order.
func sheetMarkdown(cs sheet.CharacterSheet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", DisplayName(cs))

	for _, sec := range cs.Layout.Sections {
		if !sec.Visible {
			continue
		}
		lines := sectionLines(cs, sec.ID)
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", sec.Title)
		for _, l := range lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sectionLines(cs sheet.CharacterSheet, id sheet.SectionID) []string {
	switch id {
	case sheet.SectionCharacterInfo:
		return infoLines(cs.Info)
	case sheet.SectionAbilities:
		return abilityLines(cs.Abilities)
	case sheet.SectionSkills:
		return skillLines(cs.Skills)
	case sheet.SectionSpells:
		return spellLines(cs.Spellcasting)
	case sheet.SectionInventory:
		return inventoryLines(cs.Inventory)
	}
	return nil
}

func infoLines(info sheet.CharacterInfo) []string {
	var out []string
	str := func(label string, v *string) {
		if v != nil {
			out = append(out, fmt.Sprintf("- %s: %s", label, *v))
		}
	}
	num := func(label string, v *int, sign bool) {
		if v == nil {
			return
		}
		s := strconv.Itoa(*v)
		if sign {
			s = signed(*v)
		}
		out = append(out, fmt.Sprintf("- %s: %s", label, s))
	}

	str("Character Name", info.Name)
	str("Class", info.Class)
	num("Level", info.Level, false)
	str("Race", info.Race)
	str("Background", info.Background)
	str("Alignment", info.Alignment)
	num("Experience Points", info.Experience, false)
	num("Armor Class", info.ArmorClass, false)
	num("Initiative", info.Initiative, true)
	num("Speed", info.Speed, false)
	if hp := info.HitPoints; hp != nil {
		out = append(out, fmt.Sprintf("- Hit Points: %d/%d", hp.Current, hp.Maximum))
		if hp.Temporary > 0 {
			out = append(out, fmt.Sprintf("- Temporary Hit Points: %d", hp.Temporary))
		}
	}
	return out
}

func abilityLines(set sheet.AbilitySet) []string {
	var out []string
	for _, key := range sheet.AbilityKeys {
		a := set.Get(key)
		name := title(string(key))
		out = append(out, fmt.Sprintf("- %s %d (%s)", name, a.Score, signed(a.Modifier)))
		if a.SavingThrowProficient {
			out = append(out, fmt.Sprintf("- %s Saving Throw", name))
		}
	}
	return out
}

// skillLines lists trained skills as "Label (+n)" and the rest as
// "Label: +n" so only trained skills read back as proficient.
func skillLines(set sheet.SkillSet) []string {
	var out []string
	for _, key := range sheet.SkillKeys {
		s := set.Get(key)
		label := sheet.SkillLabel(key)
		switch {
		case s.Expertise:
			out = append(out, fmt.Sprintf("- %s (%s) expertise", label, signed(s.Modifier)))
		case s.Proficient:
			out = append(out, fmt.Sprintf("- %s (%s) proficient", label, signed(s.Modifier)))
		default:
			out = append(out, fmt.Sprintf("- %s: %s", label, signed(s.Modifier)))
		}
	}
	return out
}

func spellLines(sp sheet.SpellState) []string {
	var out []string
	if sp.Class != nil {
		out = append(out, "- Spellcasting Class: "+*sp.Class)
	}
	if sp.Ability != nil {
		out = append(out, "- Spellcasting Ability: "+*sp.Ability)
	}
	if sp.SaveDC != nil {
		out = append(out, fmt.Sprintf("- Spell Save DC: %d", *sp.SaveDC))
	}
	if sp.AttackBonus != nil {
		out = append(out, "- Spell Attack Bonus: "+signed(*sp.AttackBonus))
	}
	for _, slot := range sp.Slots {
		out = append(out, fmt.Sprintf("- Level %d Slots: %d/%d", slot.Level, slot.Current, slot.Maximum))
	}
	for _, s := range sp.Spells {
		line := fmt.Sprintf("- %s (%d level %s)", s.Name, s.Level, title(s.School))
		if !s.Prepared {
			line += " not prepared"
		}
		out = append(out, line)
		if meta := spellMeta(s); meta != "" {
			out = append(out, "  "+meta)
		}
	}
	return out
}

func spellMeta(s sheet.Spell) string {
	var parts []string
	if s.CastingTime != "" {
		parts = append(parts, "Casting Time "+s.CastingTime)
	}
	if s.Range != "" {
		parts = append(parts, "Range "+s.Range)
	}
	var comps []string
	if s.Components.Verbal {
		comps = append(comps, "V")
	}
	if s.Components.Somatic {
		comps = append(comps, "S")
	}
	if s.Components.Material != nil {
		comps = append(comps, "M "+*s.Components.Material)
	}
	if len(comps) > 0 {
		parts = append(parts, "Components "+strings.Join(comps, ", "))
	}
	if s.Duration != "" {
		parts = append(parts, "Duration "+s.Duration)
	}
	return strings.Join(parts, "; ")
}

func inventoryLines(inv sheet.Inventory) []string {
	var out []string
	for _, d := range sheet.Denominations {
		out = append(out, fmt.Sprintf("- %s: %d", d.Code(), *inv.Currency.Get(d)))
	}
	for _, it := range inv.Items {
		details := []string{title(string(it.Type))}
		if it.Weight != nil {
			details = append(details, strconv.FormatFloat(*it.Weight, 'f', -1, 64)+" lb")
		}
		if it.Equipped != nil && *it.Equipped {
			details = append(details, "equipped")
		}
		out = append(out, fmt.Sprintf("- %s (%d) %s", it.Name, it.Quantity, strings.Join(details, ", ")))
		if it.Description != nil {
			for _, l := range strings.Split(*it.Description, "\n") {
				if strings.TrimSpace(l) != "" {
					out = append(out, "  > "+l)
				}
			}
		}
	}
	return out
}
