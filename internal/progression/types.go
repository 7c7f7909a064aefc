// Package progression holds the types shared by the level-up calculator,
// the choice validator and the level-up wizard
package progression

import (
	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
)

// HPChoice is how the player wants this level's hit points determined.
// Roll is only read when Method is roll and must come from a real die roll.
type HPChoice struct {
	Method dnd5e.HPMethod `json:"method"`
	Roll   int            `json:"roll,omitempty"`
}

// Choices is everything the player picks for one level-up
type Choices struct {
	HP       HPChoice                 `json:"hp"`
	ASI      []dnd5e.ASIChoice        `json:"asi,omitempty"`
	Features []dnd5e.FeatureSelection `json:"features,omitempty"`
	// Spells holds new spells known, or spellbook additions for a wizard
	Spells   []dnd5e.KnownSpell `json:"spells,omitempty"`
	Cantrips []dnd5e.KnownSpell `json:"cantrips,omitempty"`
}

// Selection returns the selection recorded for a feature, if any
func (c *Choices) Selection(featureID string) (dnd5e.FeatureSelection, bool) {
	for _, s := range c.Features {
		if s.FeatureID == featureID {
			return s, true
		}
	}
	return dnd5e.FeatureSelection{}, false
}

// Plan is what a level-up will ask of the player, computed before any choice is made
type Plan struct {
	CharacterID string `json:"character_id"`
	ClassID     string `json:"class_id"`
	FromLevel   int    `json:"from_level"`
	ToLevel     int    `json:"to_level"`

	HitDie      int `json:"hit_die"`
	AverageHP   int `json:"average_hp"`
	ConModifier int `json:"con_modifier"`

	NewFeatures []dnd5e.ClassFeature `json:"new_features,omitempty"`
	// PendingChoices are the new features that need a selection, ASI excluded
	PendingChoices  []dnd5e.ClassFeature `json:"pending_choices,omitempty"`
	ASIPending      bool                 `json:"asi_pending"`
	InvocationCount int                  `json:"invocation_count,omitempty"`

	SpellsToLearn      int `json:"spells_to_learn,omitempty"`
	SpellbookAdditions int `json:"spellbook_additions,omitempty"`
	CantripsToLearn    int `json:"cantrips_to_learn,omitempty"`
	MaxSpellLevel      int `json:"max_spell_level,omitempty"`
	PreparedSpellCount int `json:"prepared_spell_count,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// SpellPicks is the number of leveled spells the player must choose
func (p *Plan) SpellPicks() int {
	return p.SpellsToLearn + p.SpellbookAdditions
}

// NeedsSpellChoices reports whether any spell or cantrip must be picked
func (p *Plan) NeedsSpellChoices() bool {
	return p.SpellPicks() > 0 || p.CantripsToLearn > 0
}

// NeedsFeatureChoices reports whether any feature selection or ASI is pending
func (p *Plan) NeedsFeatureChoices() bool {
	return p.ASIPending || len(p.PendingChoices) > 0
}

// RequiredSelections is how many options must be picked for a pending feature
func (p *Plan) RequiredSelections(f dnd5e.ClassFeature) int {
	if f.ChoiceType == dnd5e.ChoiceTypeInvocation {
		return p.InvocationCount
	}
	return 1
}
