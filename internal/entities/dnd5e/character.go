// Package dnd5e implements the D&D 5e progression entities
package dnd5e

// Character is the persisted snapshot a level-up is computed against.
// NOTE: This is a data-only struct. Rule lookups live in internal/rules and all
// level-up math in internal/progression; a snapshot only changes through ApplyDelta
// or a ledger write.
type Character struct {
	ID               string         `json:"id"`
	PlayerID         string         `json:"player_id"`
	Name             string         `json:"name"`
	ClassID          string         `json:"class_id"`
	Level            int            `json:"level"`
	AbilityScores    AbilityScores  `json:"ability_scores"`
	MaxHP            int            `json:"max_hp"`
	CurrentHP        int            `json:"current_hp"`
	HitDiceRemaining int            `json:"hit_dice_remaining"`
	Resources        []ResourcePool `json:"resources,omitempty"`
	SpellSlots       SpellSlotTable `json:"spell_slots,omitempty"`
	KnownSpells      []KnownSpell   `json:"known_spells,omitempty"`
	SubclassID       string         `json:"subclass_id,omitempty"`
	FightingStyles   []string       `json:"fighting_styles,omitempty"`
	Invocations      []string       `json:"invocations,omitempty"`
	PactBoonID       string         `json:"pact_boon_id,omitempty"`

	// Version is the optimistic concurrency counter, bumped on every committed write
	Version   int64 `json:"version"`
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// AbilityScores holds the six core ability scores
type AbilityScores struct {
	Strength     int `json:"str" yaml:"str"`
	Dexterity    int `json:"dex" yaml:"dex"`
	Constitution int `json:"con" yaml:"con"`
	Intelligence int `json:"int" yaml:"int"`
	Wisdom       int `json:"wis" yaml:"wis"`
	Charisma     int `json:"cha" yaml:"cha"`
}

// Get returns the score for an ability identifier
func (a AbilityScores) Get(ability string) (int, bool) {
	switch ability {
	case AbilityStrength:
		return a.Strength, true
	case AbilityDexterity:
		return a.Dexterity, true
	case AbilityConstitution:
		return a.Constitution, true
	case AbilityIntelligence:
		return a.Intelligence, true
	case AbilityWisdom:
		return a.Wisdom, true
	case AbilityCharisma:
		return a.Charisma, true
	default:
		return 0, false
	}
}

// With returns a copy with one ability replaced. Unknown abilities are ignored.
func (a AbilityScores) With(ability string, score int) AbilityScores {
	switch ability {
	case AbilityStrength:
		a.Strength = score
	case AbilityDexterity:
		a.Dexterity = score
	case AbilityConstitution:
		a.Constitution = score
	case AbilityIntelligence:
		a.Intelligence = score
	case AbilityWisdom:
		a.Wisdom = score
	case AbilityCharisma:
		a.Charisma = score
	}
	return a
}

// Modifier returns floor((score-10)/2) for the ability, or 0 for an unknown ability
func (a AbilityScores) Modifier(ability string) int {
	score, ok := a.Get(ability)
	if !ok {
		return 0
	}
	return AbilityModifier(score)
}

// AbilityModifier rounds toward negative infinity, so 9 is -1 and 8 is -1
func AbilityModifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// KnownSpell is a spell on the character's list. Level 0 is a cantrip.
type KnownSpell struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
}

// IsCantrip reports whether the spell is level 0
func (s KnownSpell) IsCantrip() bool {
	return s.Level == 0
}

// ProficiencyBonus returns the proficiency bonus for a character level
func ProficiencyBonus(level int) int {
	if level < 1 {
		level = 1
	}
	return 2 + (level-1)/4
}

// KnowsSpell reports whether the spell id is already on the character's list
func (c *Character) KnowsSpell(spellID string) bool {
	for _, s := range c.KnownSpells {
		if s.ID == spellID {
			return true
		}
	}
	return false
}

// HasInvocation reports whether the invocation was already taken
func (c *Character) HasInvocation(id string) bool {
	for _, inv := range c.Invocations {
		if inv == id {
			return true
		}
	}
	return false
}

// FindResource returns a pointer into the character's pool slice, or nil
func (c *Character) FindResource(poolID string) *ResourcePool {
	for i := range c.Resources {
		if c.Resources[i].ID == poolID {
			return &c.Resources[i]
		}
	}
	return nil
}

// Clone returns a deep copy so callers can derive a new snapshot without aliasing
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Resources = append([]ResourcePool(nil), c.Resources...)
	out.KnownSpells = append([]KnownSpell(nil), c.KnownSpells...)
	out.FightingStyles = append([]string(nil), c.FightingStyles...)
	out.Invocations = append([]string(nil), c.Invocations...)
	out.SpellSlots = c.SpellSlots.Clone()
	return &out
}
