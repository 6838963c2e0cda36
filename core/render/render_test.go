package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/sheetpipe/core"
	"github.com/gaurav-prasanna/sheetpipe/core/extract"
	"github.com/gaurav-prasanna/sheetpipe/core/normalize"
	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

func sampleSheet() sheet.CharacterSheet {
	cs := normalize.Defaults()
	cs.Info = sheet.CharacterInfo{
		Name:       sheet.Ptr("Elara Moonwhisper"),
		Class:      sheet.Ptr("Wizard"),
		Level:      sheet.Ptr(5),
		Race:       sheet.Ptr("High Elf"),
		Alignment:  sheet.Ptr("Neutral Good"),
		ArmorClass: sheet.Ptr(12),
		Initiative: sheet.Ptr(-1),
		Speed:      sheet.Ptr(30),
		HitPoints:  &sheet.HitPoints{Current: 22, Maximum: 27, Temporary: 3},
	}
	cs.Abilities.Intelligence = sheet.Ability{Score: 18, Modifier: 4, SavingThrowProficient: true}
	cs.Abilities.Dexterity = sheet.Ability{Score: 8, Modifier: -1}
	cs.Skills.Arcana = sheet.Skill{Proficient: true, Modifier: 7}
	cs.Skills.History = sheet.Skill{Proficient: true, Expertise: true, Modifier: 10}
	cs.Skills.Stealth = sheet.Skill{Modifier: -1}
	cs.Spellcasting = sheet.SpellState{
		Class:       sheet.Ptr("Wizard"),
		Ability:     sheet.Ptr("Intelligence"),
		SaveDC:      sheet.Ptr(15),
		AttackBonus: sheet.Ptr(7),
		Slots:       []sheet.SpellSlot{{Level: 1, Current: 3, Maximum: 4}, {Level: 2, Current: 1, Maximum: 3}},
		Spells: []sheet.Spell{{
			Name:        "Magic Missile",
			Level:       1,
			School:      "evocation",
			CastingTime: "1 action",
			Range:       "120 feet",
			Components:  sheet.SpellComponents{Verbal: true, Somatic: true},
			Duration:    "Instantaneous",
			Prepared:    true,
		}},
	}
	cs.Inventory = sheet.Inventory{
		Items: []sheet.Item{
			{Name: "Quarterstaff", Quantity: 1, Weight: sheet.Ptr(4.0), Equipped: sheet.Ptr(true), Type: sheet.ItemWeapon},
			{Name: "Potion of Healing", Quantity: 2, Description: sheet.Ptr("Heals **2d4 + 2**."), Type: sheet.ItemConsumable},
		},
		Currency: sheet.Currency{Gold: 12, Silver: 4},
	}
	return cs
}

func TestMarkdownReadsBackThroughPatternExtractor(t *testing.T) {
	cs := sampleSheet()
	data, err := NewMarkdownRenderer().Render(cs)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := normalize.New().Normalize(extract.NewPattern().Extract(string(data)))

	if diff := cmp.Diff(cs.Info, got.Info); diff != "" {
		t.Errorf("info mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(cs.Abilities, got.Abilities); diff != "" {
		t.Errorf("abilities mismatch (-want +got):\n%s", diff)
	}
	if !got.Skills.Arcana.Proficient || got.Skills.Arcana.Modifier != 7 {
		t.Errorf("arcana = %+v", got.Skills.Arcana)
	}
	if !got.Skills.History.Proficient || got.Skills.History.Modifier != 10 {
		t.Errorf("history = %+v", got.Skills.History)
	}
	if got.Skills.Stealth.Proficient {
		t.Errorf("untrained stealth read back as proficient")
	}
	if diff := cmp.Diff(cs.Spellcasting.Slots, got.Spellcasting.Slots); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
	if len(got.Spellcasting.Spells) != 1 || got.Spellcasting.Spells[0].Name != "Magic Missile" {
		t.Errorf("spells = %+v", got.Spellcasting.Spells)
	}
	if got.Inventory.Currency != cs.Inventory.Currency {
		t.Errorf("currency = %+v, want %+v", got.Inventory.Currency, cs.Inventory.Currency)
	}

	var items []string
	for _, it := range got.Inventory.Items {
		items = append(items, it.Name)
	}
	if diff := cmp.Diff([]string{"Quarterstaff", "Potion of Healing"}, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownFollowsLayout(t *testing.T) {
	cs := sampleSheet()
	// Inventory first, skills hidden.
	cs.Layout.Sections = []sheet.Section{
		{ID: sheet.SectionInventory, Title: "Gear", Order: 1, Visible: true},
		{ID: sheet.SectionCharacterInfo, Title: "Character Info", Order: 2, Visible: true},
		{ID: sheet.SectionSkills, Title: "Skills", Order: 3, Visible: false},
	}

	data, err := NewMarkdownRenderer().Render(cs)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	md := string(data)

	gear := strings.Index(md, "## Gear")
	info := strings.Index(md, "## Character Info")
	if gear < 0 || info < 0 || gear > info {
		t.Errorf("sections out of order:\n%s", md)
	}
	if strings.Contains(md, "## Skills") || strings.Contains(md, "Arcana") {
		t.Errorf("hidden section rendered:\n%s", md)
	}
}

func TestMarkdownUnnamed(t *testing.T) {
	data, err := NewMarkdownRenderer().Render(normalize.Defaults())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Unnamed Character\n") {
		t.Errorf("heading = %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestJSONRoundTripIsStable(t *testing.T) {
	cs := sampleSheet()
	r := NewJSONRenderer()

	first, err := r.Render(cs)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var partial sheet.PartialSheet
	if err := json.Unmarshal(first, &partial); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	second, err := r.Render(normalize.New().Normalize(partial))
	if err != nil {
		t.Fatalf("Render again: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("export changed after re-import:\n%s", cmp.Diff(string(first), string(second)))
	}
}

func TestJSONRejectsNaN(t *testing.T) {
	cs := sampleSheet()
	cs.Inventory.Items[0].Weight = sheet.Ptr(math.NaN())

	_, err := NewJSONRenderer().Render(cs)
	if !errors.Is(err, core.ErrSerialization) {
		t.Fatalf("err = %v, want serialization error", err)
	}
}

func TestYAMLUsesExportKeys(t *testing.T) {
	data, err := NewYAMLRenderer().Render(sampleSheet())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"info", "abilities", "skills", "spellcasting", "inventory", "layout"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
	spells, _ := doc["spellcasting"].(map[string]any)
	if spells["spellSaveDC"] != 15 {
		t.Errorf("spellSaveDC = %v", spells["spellSaveDC"])
	}
}

func TestPDFRender(t *testing.T) {
	r := &PDFRenderer{}
	data, err := r.Render(sampleSheet())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("not a PDF: %q", data[:min(len(data), 16)])
	}
	for _, want := range []string{"Character Name: Elara Moonwhisper", "Level 1 Slots: 3/4", "GP: 12"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("PDF does not contain %q", want)
		}
	}
	if r.Extension() != ".pdf" {
		t.Errorf("Extension = %q", r.Extension())
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		name string
		ext  string
	}{
		{"json", ".json"},
		{"PDF", ".pdf"},
		{"yml", ".yaml"},
		{"markdown", ".md"},
		{" md ", ".md"},
	}
	for _, tt := range tests {
		r, err := ForFormat(tt.name)
		if err != nil {
			t.Errorf("ForFormat(%q): %v", tt.name, err)
			continue
		}
		if r.Extension() != tt.ext {
			t.Errorf("ForFormat(%q).Extension() = %q, want %q", tt.name, r.Extension(), tt.ext)
		}
	}

	if _, err := ForFormat("docx"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("ForFormat(docx) err = %v, want invalid input", err)
	}
}
