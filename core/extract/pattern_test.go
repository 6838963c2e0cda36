package extract

import (
	"slices"
	"testing"

	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
	"github.com/google/go-cmp/cmp"
)

const sampleText = `Character Name: Mirela Voss
Class: Wizard
Level: 5
Race: High Elf
Background: Sage
Alignment: Neutral Good
Experience Points: 6500
Armor Class: 12
Initiative: +2
Speed: 30
Hit Points: 22/27

Strength 8 (-1)
Dexterity 14 (+2)
Intelligence 18 (+4)
Intelligence Saving Throw
Wisdom Saving Throw

Arcana (+7)
Animal Handling (+1)
Sleight of Hand (-1)

Spellcasting Class: Wizard
Spellcasting Ability: Intelligence
Spell Save DC: 15
Spell Attack Bonus: +7
Level 1 Slots: 3/4
Level 3 Slots: 2/2
Magic Missile (1 level Evocation)
Fireball (3 level Evocation)

GP: 50
SP: 7
Rope (2)
Torch (5)
GP: 12
`

func TestPatternExtractInfo(t *testing.T) {
	p := NewPattern().Extract(sampleText)

	want := sheet.CharacterInfo{
		Name:       sheet.Ptr("Mirela Voss"),
		Class:      sheet.Ptr("Wizard"),
		Level:      sheet.Ptr(5),
		Race:       sheet.Ptr("High Elf"),
		Background: sheet.Ptr("Sage"),
		Alignment:  sheet.Ptr("Neutral Good"),
		Experience: sheet.Ptr(6500),
		ArmorClass: sheet.Ptr(12),
		Initiative: sheet.Ptr(2),
		Speed:      sheet.Ptr(30),
		HitPoints:  &sheet.HitPoints{Current: 22, Maximum: 27},
	}
	if diff := cmp.Diff(want, p.Info); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternClassIgnoresOtherClassLabels(t *testing.T) {
	p := NewPattern().Extract("Armor Class: 15\nSpellcasting Class: Cleric\nClass: Paladin\n")
	if p.Info.Class == nil || *p.Info.Class != "Paladin" {
		t.Fatalf("expected Paladin, got %v", p.Info.Class)
	}
	if p.Info.ArmorClass == nil || *p.Info.ArmorClass != 15 {
		t.Fatalf("expected armor class 15, got %v", p.Info.ArmorClass)
	}
}

func TestPatternTemporaryHitPoints(t *testing.T) {
	p := NewPattern().Extract("Hit Points: 9/12\nTemporary Hit Points: 4\n")
	want := &sheet.HitPoints{Current: 9, Maximum: 12, Temporary: 4}
	if diff := cmp.Diff(want, p.Info.HitPoints); diff != "" {
		t.Fatalf("hit points mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternAbilityAndSavingThrow(t *testing.T) {
	p := NewPattern().Extract("Strength 16 (+3)\nStrength Saving Throw")
	got := p.Abilities[sheet.Strength]
	want := sheet.PartialAbility{
		Score:                 sheet.Ptr(16),
		Modifier:              sheet.Ptr(3),
		SavingThrowProficient: sheet.Ptr(true),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("strength mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternAbilities(t *testing.T) {
	p := NewPattern().Extract(sampleText)

	if a := p.Abilities[sheet.Strength]; *a.Score != 8 || *a.Modifier != -1 || a.SavingThrowProficient != nil {
		t.Fatalf("unexpected strength: %+v", a)
	}
	if a := p.Abilities[sheet.Wisdom]; a.Score != nil || a.SavingThrowProficient == nil || !*a.SavingThrowProficient {
		t.Fatalf("expected wisdom save only, got %+v", a)
	}
	if _, ok := p.Abilities[sheet.Charisma]; ok {
		t.Fatal("charisma should be absent")
	}
	if !slices.Contains(p.Missing, "abilities.charisma") || slices.Contains(p.Missing, "abilities.strength") {
		t.Fatalf("unexpected missing list: %v", p.Missing)
	}
}

func TestPatternSkills(t *testing.T) {
	p := NewPattern().Extract(sampleText)

	want := map[sheet.SkillKey]sheet.PartialSkill{
		sheet.Arcana:         {Proficient: sheet.Ptr(true), Modifier: sheet.Ptr(7)},
		sheet.AnimalHandling: {Proficient: sheet.Ptr(true), Modifier: sheet.Ptr(1)},
		sheet.SleightOfHand:  {Proficient: sheet.Ptr(true), Modifier: sheet.Ptr(-1)},
	}
	if diff := cmp.Diff(want, p.Skills); diff != "" {
		t.Fatalf("skills mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternSpells(t *testing.T) {
	p := NewPattern().Extract(sampleText)
	sp := p.Spellcasting

	if *sp.Class != "Wizard" || *sp.Ability != "Intelligence" || *sp.SaveDC != 15 || *sp.AttackBonus != 7 {
		t.Fatalf("unexpected spellcasting metadata: %+v", sp)
	}
	wantSlots := []sheet.SpellSlot{{Level: 1, Current: 3, Maximum: 4}, {Level: 3, Current: 2, Maximum: 2}}
	if diff := cmp.Diff(wantSlots, sp.Slots); diff != "" {
		t.Fatalf("slots mismatch (-want +got):\n%s", diff)
	}
	wantSpells := []sheet.Spell{
		{Name: "Magic Missile", Level: 1, School: "Evocation", Prepared: true},
		{Name: "Fireball", Level: 3, School: "Evocation", Prepared: true},
	}
	if diff := cmp.Diff(wantSpells, sp.Spells); diff != "" {
		t.Fatalf("spells mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternCurrencyLastMatchWins(t *testing.T) {
	p := NewPattern().Extract("GP: 50\nSP: 7\nGP: 12")
	want := map[sheet.Denomination]int{sheet.Gold: 12, sheet.Silver: 7}
	if diff := cmp.Diff(want, p.Inventory.Currency); diff != "" {
		t.Fatalf("currency mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternItems(t *testing.T) {
	p := NewPattern().Extract(sampleText)
	want := []sheet.Item{
		{Name: "Rope", Quantity: 2, Type: sheet.ItemOther},
		{Name: "Torch", Quantity: 5, Type: sheet.ItemOther},
	}
	if diff := cmp.Diff(want, p.Inventory.Items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternUnsignedSkillIsNotAnItem(t *testing.T) {
	p := NewPattern().Extract("Stealth (4)\nBedroll (1)")
	if len(p.Inventory.Items) != 1 || p.Inventory.Items[0].Name != "Bedroll" {
		t.Fatalf("unexpected items: %+v", p.Inventory.Items)
	}
	if s := p.Skills[sheet.Stealth]; s.Modifier == nil || *s.Modifier != 4 {
		t.Fatalf("expected stealth +4, got %+v", s)
	}
}

func TestPatternForeignTextYieldsEmptyPartial(t *testing.T) {
	p := NewPattern().Extract("Quarterly revenue grew across every region.")
	if p.Info.Name != nil || len(p.Abilities) != 0 || len(p.Skills) != 0 || len(p.Inventory.Items) != 0 {
		t.Fatalf("expected empty partial, got %+v", p)
	}
	if len(p.Missing) == 0 {
		t.Fatal("expected missing fields to be reported")
	}
}
