// Package extract implements the TextExtractor and DocumentExtractor
// interfaces.
//
// PatternExtractor scans flat text for labeled values. DocumentExtractor reads
// a parsed character page by CSS class. Both return a PartialSheet and never
// fail: anything they cannot find is left nil and listed in Missing.
package extract

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/sheetpipe/core/sheet"
)

// Repeating boxes are matched with precompiled selectors.
var (
	matchSkillBox    = cascadia.MustCompile(".skill-box")
	matchSpellBox    = cascadia.MustCompile(".spell-box")
	matchSpellSlot   = cascadia.MustCompile(".spell-slot[data-level]")
	matchItemBox     = cascadia.MustCompile(".item-box")
	matchCurrencyBox = cascadia.MustCompile(".currency-box[data-currency]")
)

var reDecimal = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// itemKeywords classifies items by name or type label. Earlier rows win.
var itemKeywords = []struct {
	typ   sheet.ItemType
	words []string
}{
	{sheet.ItemWeapon, []string{"weapon", "sword", "axe", "bow", "dagger", "mace", "spear", "hammer", "staff", "rapier"}},
	{sheet.ItemArmor, []string{"armor", "armour", "shield", "mail", "plate"}},
	{sheet.ItemConsumable, []string{"potion", "scroll"}},
	{sheet.ItemEquipment, []string{"gear", "tool"}},
}

// ParseDocument parses a character page into a goquery document.
func ParseDocument(r io.Reader) (*goquery.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// DocumentExtractor reads character pages structured with per-field CSS
// classes (.ability-box, .skill-box, .item-box, ...). It never modifies the
// document.
type DocumentExtractor struct{}

// NewDocument creates a DocumentExtractor.
func NewDocument() *DocumentExtractor {
	return &DocumentExtractor{}
}

// Extract returns every field found under the page's content container.
func (e *DocumentExtractor) Extract(doc *goquery.Document) sheet.PartialSheet {
	var p sheet.PartialSheet
	if doc == nil {
		return p
	}
	root := contentRoot(doc)
	var missing []string

	p.Info = documentInfo(root)
	missing = append(missing, missingInfo(p.Info)...)
	missing = append(missing, documentAbilities(root, &p)...)
	documentSkills(root, &p)
	p.Spellcasting = documentSpells(root)
	documentInventory(root, &p)

	p.Missing = missing
	return p
}

// contentRoot picks the narrowest container that holds the sheet, in
// priority order.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{".character-sheet", "main", "article", "body"} {
		if s := doc.Find(sel); s.Length() > 0 {
			return s.First()
		}
	}
	return doc.Selection
}

func documentInfo(root *goquery.Selection) sheet.CharacterInfo {
	var info sheet.CharacterInfo
	info.Name = textField(root, ".character-name")
	info.Class = textField(root, ".character-class")
	info.Level = intField(root, ".character-level")
	info.Race = textField(root, ".character-race")
	info.Background = textField(root, ".character-background")
	info.Alignment = textField(root, ".character-alignment")
	info.Experience = intField(root, ".character-experience")
	info.ArmorClass = intField(root, ".armor-class .value")
	info.Initiative = intField(root, ".initiative .value")
	info.Speed = intField(root, ".speed .value")

	cur := intField(root, ".hit-points .current")
	max := intField(root, ".hit-points .max")
	if cur != nil && max != nil {
		hp := &sheet.HitPoints{Current: *cur, Maximum: *max}
		if temp := intField(root, ".hit-points .temp"); temp != nil {
			hp.Temporary = *temp
		}
		info.HitPoints = hp
	}
	return info
}

func documentAbilities(root *goquery.Selection, p *sheet.PartialSheet) []string {
	var missing []string
	for _, key := range sheet.AbilityKeys {
		box := root.Find(fmt.Sprintf(`.ability-box[data-ability="%s"]`, key)).First()
		save := root.Find(fmt.Sprintf(`.saving-throw[data-ability="%s"]`, key))
		if box.Length() == 0 && save.Length() == 0 {
			missing = append(missing, "abilities."+string(key))
			continue
		}
		p.SetAbility(key, func(a *sheet.PartialAbility) {
			if box.Length() > 0 {
				a.Score = sheet.Ptr(parseNumber(box.Find(".ability-score").First().Text(), 10))
				a.Modifier = sheet.Ptr(parseNumber(box.Find(".ability-modifier").First().Text(), 0))
			}
			if save.Length() > 0 {
				a.SavingThrowProficient = sheet.Ptr(save.HasClass("active"))
			}
		})
	}
	return missing
}

func documentSkills(root *goquery.Selection, p *sheet.PartialSheet) {
	root.FindMatcher(matchSkillBox).Each(func(_ int, box *goquery.Selection) {
		key, ok := sheet.SkillKeyFromLabel(box.Find(".skill-name").First().Text())
		if !ok {
			return
		}
		p.SetSkill(key, func(s *sheet.PartialSkill) {
			s.Proficient = sheet.Ptr(box.Find(".skill-proficiency").HasClass("active"))
			s.Expertise = sheet.Ptr(box.Find(".skill-expertise").HasClass("active"))
			s.Modifier = sheet.Ptr(parseNumber(box.Find(".skill-modifier").First().Text(), 0))
		})
	})
}

func documentSpells(root *goquery.Selection) sheet.PartialSpells {
	var out sheet.PartialSpells
	out.Class = textField(root, ".spellcasting-class")
	out.Ability = textField(root, ".spellcasting-ability")
	out.SaveDC = intField(root, ".spell-save-dc")
	out.AttackBonus = intField(root, ".spell-attack-bonus")

	root.FindMatcher(matchSpellSlot).Each(func(_ int, s *goquery.Selection) {
		level, err := strconv.Atoi(strings.TrimSpace(s.AttrOr("data-level", "")))
		if err != nil {
			return
		}
		out.Slots = append(out.Slots, sheet.SpellSlot{
			Level:   level,
			Current: parseNumber(s.Find(".slot-current").First().Text(), 0),
			Maximum: parseNumber(s.Find(".slot-max").First().Text(), 0),
		})
	})

	root.FindMatcher(matchSpellBox).Each(func(_ int, s *goquery.Selection) {
		name := cleanText(s.Find(".spell-name").First().Text())
		if name == "" {
			return
		}
		spell := sheet.Spell{
			Name:        name,
			Level:       parseNumber(s.Find(".spell-level").First().Text(), 0),
			School:      cleanText(s.Find(".spell-school").First().Text()),
			CastingTime: cleanText(s.Find(".spell-casting-time").First().Text()),
			Range:       cleanText(s.Find(".spell-range").First().Text()),
			Duration:    cleanText(s.Find(".spell-duration").First().Text()),
			Components:  parseComponents(s.Find(".spell-components").First().Text()),
			Prepared:    s.Find(".spell-prepared").HasClass("active"),
		}
		if m := textField(s, ".spell-material"); m != nil {
			spell.Components.Material = m
		}
		if d := markdownField(s, ".spell-description"); d != nil {
			spell.Description = *d
		}
		out.Spells = append(out.Spells, spell)
	})
	return out
}

func documentInventory(root *goquery.Selection, p *sheet.PartialSheet) {
	root.FindMatcher(matchItemBox).Each(func(_ int, s *goquery.Selection) {
		name := cleanText(s.Find(".item-name").First().Text())
		if name == "" {
			return
		}
		item := sheet.Item{
			Name:        name,
			Quantity:    parseNumber(s.Find(".item-quantity").First().Text(), 1),
			Weight:      floatField(s, ".item-weight"),
			Description: markdownField(s, ".item-description"),
			Type:        classifyItem(cleanText(s.Find(".item-type").First().Text()) + " " + name),
		}
		if eq := s.Find(".item-equipped"); eq.Length() > 0 {
			item.Equipped = sheet.Ptr(eq.HasClass("active"))
		}
		p.Inventory.Items = append(p.Inventory.Items, item)
	})

	root.FindMatcher(matchCurrencyBox).Each(func(_ int, s *goquery.Selection) {
		d, ok := sheet.DenominationFromCode(s.AttrOr("data-currency", ""))
		if !ok {
			return
		}
		if v := intField(s, ".currency-value"); v != nil {
			p.SetCoin(d, *v)
		}
	})
}

// classifyItem maps free text to an item type by keyword.
func classifyItem(text string) sheet.ItemType {
	lower := strings.ToLower(text)
	for _, row := range itemKeywords {
		for _, w := range row.words {
			if strings.Contains(lower, w) {
				return row.typ
			}
		}
	}
	return sheet.ItemOther
}

// parseComponents reads a "V, S, M (a pinch of salt)" style list.
func parseComponents(text string) sheet.SpellComponents {
	var c sheet.SpellComponents
	head := text
	if i := strings.Index(head, "("); i >= 0 {
		head = head[:i]
	}
	for _, tok := range strings.FieldsFunc(strings.ToUpper(head), func(r rune) bool {
		return r < 'A' || r > 'Z'
	}) {
		switch tok {
		case "V":
			c.Verbal = true
		case "S":
			c.Somatic = true
		}
	}
	return c
}

func textField(root *goquery.Selection, sel string) *string {
	s := root.Find(sel).First()
	if s.Length() == 0 {
		return nil
	}
	v := cleanText(s.Text())
	if v == "" {
		return nil
	}
	return &v
}

func intField(root *goquery.Selection, sel string) *int {
	s := root.Find(sel).First()
	if s.Length() == 0 {
		return nil
	}
	n, ok := parseSigned(s.Text())
	if !ok {
		return nil
	}
	return &n
}

func floatField(root *goquery.Selection, sel string) *float64 {
	s := root.Find(sel).First()
	if s.Length() == 0 {
		return nil
	}
	m := reDecimal.FindString(s.Text())
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &f
}

// markdownField converts the inner HTML of sel to Markdown, falling back to
// its plain text.
func markdownField(root *goquery.Selection, sel string) *string {
	s := root.Find(sel).First()
	if s.Length() == 0 {
		return nil
	}
	var out string
	inner, err := s.Html()
	if err == nil {
		out, err = htmltomarkdown.ConvertString(inner)
	}
	if err != nil {
		out = s.Text()
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}
	return &out
}

// parseNumber reads a signed integer such as "+3", "−1" or "16 ft.",
// returning fallback when none is present.
func parseNumber(text string, fallback int) int {
	if n, ok := parseSigned(text); ok {
		return n
	}
	return fallback
}

func parseSigned(text string) (int, bool) {
	text = strings.ReplaceAll(text, "−", "-")
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
