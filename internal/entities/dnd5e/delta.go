package dnd5e

import (
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// HPGain breaks down the hit points a level-up adds
type HPGain struct {
	Method      HPMethod `json:"method"`
	Roll        int      `json:"roll,omitempty"`
	ConModifier int      `json:"con_modifier"`
	// LevelGain is die result + CON modifier, floored at 1
	LevelGain int `json:"level_gain"`
	// RetroactiveCon is the extra HP from a CON modifier increase, applied to every level
	RetroactiveCon int `json:"retroactive_con,omitempty"`
	Total          int `json:"total"`
}

// CharacterDelta is the complete, atomic description of one level-up.
// It is computed against a specific snapshot version and only applies to it.
type CharacterDelta struct {
	CharacterID string `json:"character_id"`
	BaseVersion int64  `json:"base_version"`
	ClassID     string `json:"class_id"`
	FromLevel   int    `json:"from_level"`
	ToLevel     int    `json:"to_level"`

	HitDie   int    `json:"hit_die"`
	HP       HPGain `json:"hp"`
	NewMaxHP int    `json:"new_max_hp"`

	ASIChoices    []ASIChoice    `json:"asi_choices,omitempty"`
	AbilityScores *AbilityScores `json:"ability_scores,omitempty"`

	NewFeatures   []ClassFeature `json:"new_features,omitempty"`
	SubclassID    string         `json:"subclass_id,omitempty"`
	FightingStyle string         `json:"fighting_style,omitempty"`
	Invocations   []string       `json:"invocations,omitempty"`
	PactBoonID    string         `json:"pact_boon_id,omitempty"`

	SpellSlotChanges   []SpellSlotChange `json:"spell_slot_changes,omitempty"`
	SpellSlots         SpellSlotTable    `json:"spell_slots,omitempty"`
	SpellsLearned      []KnownSpell      `json:"spells_learned,omitempty"`
	CantripsLearned    []KnownSpell      `json:"cantrips_learned,omitempty"`
	PreparedSpellCount int               `json:"prepared_spell_count,omitempty"`

	ProficiencyBonusFrom int `json:"proficiency_bonus_from"`
	ProficiencyBonusTo   int `json:"proficiency_bonus_to"`

	Resources []ResourcePool `json:"resources,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// ApplyDelta returns the snapshot that results from committing the delta.
// The input is not modified. A delta computed against a different version or
// level is rejected with a commit conflict rather than merged.
func ApplyDelta(character *Character, delta *CharacterDelta) (*Character, error) {
	if character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if delta == nil {
		return nil, errors.InvalidArgument("delta is required")
	}
	if delta.CharacterID != character.ID {
		return nil, errors.InvalidArgumentf("delta for character %s cannot apply to %s",
			delta.CharacterID, character.ID)
	}
	if delta.BaseVersion != character.Version || delta.FromLevel != character.Level {
		return nil, errors.CommitConflict(character.ID, delta.BaseVersion, character.Version).
			WithMeta("delta_from_level", delta.FromLevel).
			WithMeta("character_level", character.Level)
	}

	next := character.Clone()
	next.Level = delta.ToLevel

	gained := delta.NewMaxHP - character.MaxHP
	next.MaxHP = delta.NewMaxHP
	next.CurrentHP = clamp(character.CurrentHP+gained, 0, next.MaxHP)
	next.HitDiceRemaining = clamp(character.HitDiceRemaining+1, 0, next.Level)

	if delta.AbilityScores != nil {
		next.AbilityScores = *delta.AbilityScores
	}
	if delta.SubclassID != "" {
		next.SubclassID = delta.SubclassID
	}
	if delta.FightingStyle != "" {
		next.FightingStyles = append(next.FightingStyles, delta.FightingStyle)
	}
	if delta.PactBoonID != "" {
		next.PactBoonID = delta.PactBoonID
	}
	next.Invocations = append(next.Invocations, delta.Invocations...)
	next.KnownSpells = append(next.KnownSpells, delta.CantripsLearned...)
	next.KnownSpells = append(next.KnownSpells, delta.SpellsLearned...)
	next.SpellSlots = delta.SpellSlots.Clone()
	next.Resources = append([]ResourcePool(nil), delta.Resources...)
	next.Version = character.Version + 1

	return next, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
