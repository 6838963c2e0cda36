package sheet

// PartialSheet is extractor output before defaults are applied. Any subset
// of fields may be present; nil pointers and absent map keys mean "not
// found". It decodes directly from the JSON export of a CharacterSheet.
type PartialSheet struct {
	Info         CharacterInfo                 `json:"info"`
	Abilities    map[AbilityKey]PartialAbility `json:"abilities,omitempty"`
	Skills       map[SkillKey]PartialSkill     `json:"skills,omitempty"`
	Spellcasting PartialSpells                 `json:"spellcasting"`
	Inventory    PartialInventory              `json:"inventory"`
	Layout       *PartialLayout                `json:"layout,omitempty"`

	// Missing lists dotted paths of fields the extractor looked for and
	// could not find. It is informational only.
	Missing []string `json:"-"`
}

// PartialAbility carries whichever ability fields were found.
type PartialAbility struct {
	Score                 *int  `json:"score,omitempty"`
	Modifier              *int  `json:"modifier,omitempty"`
	SavingThrowProficient *bool `json:"savingThrowProficient,omitempty"`
}

// PartialSkill carries whichever skill fields were found.
type PartialSkill struct {
	Proficient *bool `json:"proficient,omitempty"`
	Expertise  *bool `json:"expertise,omitempty"`
	Modifier   *int  `json:"modifier,omitempty"`
}

// PartialSpells carries spellcasting metadata and any slots/spells found.
type PartialSpells struct {
	Class       *string     `json:"spellcastingClass,omitempty"`
	Ability     *string     `json:"spellcastingAbility,omitempty"`
	SaveDC      *int        `json:"spellSaveDC,omitempty"`
	AttackBonus *int        `json:"spellAttackBonus,omitempty"`
	Slots       []SpellSlot `json:"spellSlots,omitempty"`
	Spells      []Spell     `json:"spells,omitempty"`
}

// PartialInventory carries items and whichever coins were found.
type PartialInventory struct {
	Items    []Item               `json:"items,omitempty"`
	Currency map[Denomination]int `json:"currency,omitempty"`
}

// PartialLayout carries layout overrides.
type PartialLayout struct {
	Sections []PartialSection `json:"sections,omitempty"`
	Theme    *Theme           `json:"theme,omitempty"`
}

// PartialSection overrides a default section by id.
type PartialSection struct {
	ID        SectionID `json:"id"`
	Title     *string   `json:"title,omitempty"`
	Order     *int      `json:"order,omitempty"`
	Visible   *bool     `json:"visible,omitempty"`
	Collapsed *bool     `json:"collapsed,omitempty"`
}

// SetAbility merges fields into the partial ability for key.
func (p *PartialSheet) SetAbility(key AbilityKey, fn func(*PartialAbility)) {
	if p.Abilities == nil {
		p.Abilities = make(map[AbilityKey]PartialAbility)
	}
	a := p.Abilities[key]
	fn(&a)
	p.Abilities[key] = a
}

// SetSkill merges fields into the partial skill for key.
func (p *PartialSheet) SetSkill(key SkillKey, fn func(*PartialSkill)) {
	if p.Skills == nil {
		p.Skills = make(map[SkillKey]PartialSkill)
	}
	s := p.Skills[key]
	fn(&s)
	p.Skills[key] = s
}

// SetCoin records an amount for d, replacing any earlier value.
func (p *PartialSheet) SetCoin(d Denomination, amount int) {
	if p.Inventory.Currency == nil {
		p.Inventory.Currency = make(map[Denomination]int)
	}
	p.Inventory.Currency[d] = amount
}

// Partial lifts a canonical record into a fully populated PartialSheet. The
// result shares no memory with cs.
func (cs CharacterSheet) Partial() PartialSheet {
	p := PartialSheet{
		Info:      cloneInfo(cs.Info),
		Abilities: make(map[AbilityKey]PartialAbility, len(AbilityKeys)),
		Skills:    make(map[SkillKey]PartialSkill, len(SkillKeys)),
		Spellcasting: PartialSpells{
			Class:       clonePtr(cs.Spellcasting.Class),
			Ability:     clonePtr(cs.Spellcasting.Ability),
			SaveDC:      clonePtr(cs.Spellcasting.SaveDC),
			AttackBonus: clonePtr(cs.Spellcasting.AttackBonus),
			Slots:       append([]SpellSlot(nil), cs.Spellcasting.Slots...),
			Spells:      CloneSpells(cs.Spellcasting.Spells),
		},
		Inventory: PartialInventory{
			Items:    CloneItems(cs.Inventory.Items),
			Currency: make(map[Denomination]int, len(Denominations)),
		},
	}
	for _, k := range AbilityKeys {
		a := cs.Abilities.Get(k)
		p.Abilities[k] = PartialAbility{
			Score:                 Ptr(a.Score),
			Modifier:              Ptr(a.Modifier),
			SavingThrowProficient: Ptr(a.SavingThrowProficient),
		}
	}
	for _, k := range SkillKeys {
		s := cs.Skills.Get(k)
		p.Skills[k] = PartialSkill{
			Proficient: Ptr(s.Proficient),
			Expertise:  Ptr(s.Expertise),
			Modifier:   Ptr(s.Modifier),
		}
	}
	for _, d := range Denominations {
		p.Inventory.Currency[d] = *cs.Inventory.Currency.Get(d)
	}
	layout := &PartialLayout{Theme: Ptr(cs.Layout.Theme)}
	for _, s := range cs.Layout.Sections {
		layout.Sections = append(layout.Sections, PartialSection{
			ID:        s.ID,
			Title:     Ptr(s.Title),
			Order:     Ptr(s.Order),
			Visible:   Ptr(s.Visible),
			Collapsed: Ptr(s.Collapsed),
		})
	}
	p.Layout = layout
	return p
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInfo(in CharacterInfo) CharacterInfo {
	return CharacterInfo{
		Name:       clonePtr(in.Name),
		Class:      clonePtr(in.Class),
		Level:      clonePtr(in.Level),
		Race:       clonePtr(in.Race),
		Background: clonePtr(in.Background),
		Alignment:  clonePtr(in.Alignment),
		Experience: clonePtr(in.Experience),
		ArmorClass: clonePtr(in.ArmorClass),
		Initiative: clonePtr(in.Initiative),
		Speed:      clonePtr(in.Speed),
		HitPoints:  clonePtr(in.HitPoints),
	}
}

// CloneInfo returns a copy of in with freshly allocated pointers.
func CloneInfo(in CharacterInfo) CharacterInfo {
	return cloneInfo(in)
}

// CloneItems copies items including their optional pointer fields.
func CloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		it.Weight = clonePtr(it.Weight)
		it.Description = clonePtr(it.Description)
		it.Equipped = clonePtr(it.Equipped)
		out[i] = it
	}
	return out
}

// CloneSpells copies spells including the optional material component.
func CloneSpells(spells []Spell) []Spell {
	if spells == nil {
		return nil
	}
	out := make([]Spell, len(spells))
	for i, s := range spells {
		s.Components.Material = clonePtr(s.Components.Material)
		out[i] = s
	}
	return out
}
