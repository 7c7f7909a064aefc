// Package validator checks level-up choices against the rules. Every function is
// pure: inputs are never modified and failures come back as named rule violations.
package validator

import (
	"sort"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/progression"
)

// Rule names carried in errors.MetaRule
const (
	RuleASITotal            = "asi_total"
	RuleASIBonus            = "asi_bonus"
	RuleASIDuplicateAbility = "asi_duplicate_ability"
	RuleASIUnknownAbility   = "asi_unknown_ability"
	RuleASIScoreCap         = "asi_score_cap"
	RuleASINotAllowed       = "asi_not_allowed"
	RuleSelectionCount      = "selection_count"
	RuleSelectionNotAllowed = "selection_not_allowed"
	RuleSelectionDuplicate  = "selection_duplicate"
	RuleSelectionKnown      = "selection_already_known"
	RuleSpellCount          = "spell_count"
	RuleCantripCount        = "cantrip_count"
	RuleSpellLevel          = "spell_level"
	RuleSpellDuplicate      = "spell_duplicate"
	RuleSpellKnown          = "spell_already_known"
	RuleMissingChoice       = "missing_choice"
	RuleHPMethod            = "hp_method"
	RuleHPRollRange         = "hp_roll_range"
)

const asiTotalPoints = 2

// ValidateHP checks the hit point method and, for rolls, that the result fits the die
func ValidateHP(plan *progression.Plan, hp progression.HPChoice) error {
	switch hp.Method {
	case dnd5e.HPMethodAverage:
		return nil
	case dnd5e.HPMethodRoll:
		if hp.Roll < 1 || hp.Roll > plan.HitDie {
			return errors.Validationf(RuleHPRollRange, "hit die roll %d is outside 1-%d", hp.Roll, plan.HitDie)
		}
		return nil
	default:
		return errors.Validationf(RuleHPMethod, "hp method must be %q or %q", dnd5e.HPMethodAverage, dnd5e.HPMethodRoll)
	}
}

// ValidateASI checks an ability score improvement: +2 to one ability or +1 to two
// different abilities, with no resulting score above 20
func ValidateASI(scores dnd5e.AbilityScores, choices []dnd5e.ASIChoice) error {
	if len(choices) == 0 {
		return errors.Validation(RuleMissingChoice, "ability score improvement requires a choice")
	}

	seen := make(map[string]bool, len(choices))
	total := 0
	for _, c := range choices {
		if _, ok := scores.Get(c.Ability); !ok {
			return errors.Validationf(RuleASIUnknownAbility, "unknown ability %q", c.Ability).
				WithMeta(errors.MetaAbilities, []string{c.Ability})
		}
		if c.Bonus != 1 && c.Bonus != 2 {
			return errors.Validationf(RuleASIBonus, "bonus for %s must be 1 or 2, got %d", c.Ability, c.Bonus).
				WithMeta(errors.MetaAbilities, []string{c.Ability})
		}
		if seen[c.Ability] {
			return errors.Validationf(RuleASIDuplicateAbility, "cannot improve %s twice; use a single +2", c.Ability).
				WithMeta(errors.MetaAbilities, []string{c.Ability})
		}
		seen[c.Ability] = true
		total += c.Bonus
	}
	if total != asiTotalPoints {
		return errors.Validationf(RuleASITotal, "ability score improvement must total %d, got %d", asiTotalPoints, total)
	}

	var over []string
	for _, c := range choices {
		current, _ := scores.Get(c.Ability)
		if current+c.Bonus > dnd5e.MaxAbilityScore {
			over = append(over, c.Ability)
		}
	}
	if len(over) > 0 {
		sort.Strings(over)
		return errors.Validationf(RuleASIScoreCap, "improvement would raise %v above %d", over, dnd5e.MaxAbilityScore).
			WithMeta(errors.MetaAbilities, over)
	}

	return nil
}

// ApplyASI returns the scores after an improvement. Callers validate first.
func ApplyASI(scores dnd5e.AbilityScores, choices []dnd5e.ASIChoice) dnd5e.AbilityScores {
	for _, c := range choices {
		current, ok := scores.Get(c.Ability)
		if !ok {
			continue
		}
		scores = scores.With(c.Ability, current+c.Bonus)
	}
	return scores
}

// ValidateSelection checks the picks for one choice-bearing feature
func ValidateSelection(character *dnd5e.Character, feature dnd5e.ClassFeature, selections []string, required int) error {
	featureErr := func(rule, format string, args ...interface{}) error {
		return errors.Validationf(rule, format, args...).WithMeta(errors.MetaFeatureID, feature.ID)
	}

	if len(selections) != required {
		return featureErr(RuleSelectionCount, "%s requires exactly %d selection(s), got %d",
			feature.Name, required, len(selections))
	}

	seen := make(map[string]bool, len(selections))
	for _, sel := range selections {
		if seen[sel] {
			return featureErr(RuleSelectionDuplicate, "%s selected more than once for %s", sel, feature.Name)
		}
		seen[sel] = true

		if !feature.HasOption(sel) {
			return featureErr(RuleSelectionNotAllowed, "%s is not an option for %s", sel, feature.Name)
		}
		if alreadyHas(character, feature.ChoiceType, sel) {
			return featureErr(RuleSelectionKnown, "%s is already known", sel)
		}
	}

	return nil
}

func alreadyHas(character *dnd5e.Character, t dnd5e.ChoiceType, id string) bool {
	if character == nil {
		return false
	}
	switch t {
	case dnd5e.ChoiceTypeInvocation:
		return character.HasInvocation(id)
	case dnd5e.ChoiceTypeFightingStyle:
		for _, fs := range character.FightingStyles {
			if fs == id {
				return true
			}
		}
	}
	return false
}

// ValidateFeatureChoices checks every pending feature has a valid selection, the
// ASI is valid when one is due, and nothing was selected for a feature not on offer
func ValidateFeatureChoices(character *dnd5e.Character, plan *progression.Plan, choices *progression.Choices) error {
	pending := make(map[string]bool, len(plan.PendingChoices))
	for _, f := range plan.PendingChoices {
		pending[f.ID] = true
		sel, ok := choices.Selection(f.ID)
		if !ok {
			return errors.Validationf(RuleMissingChoice, "%s requires a selection", f.Name).
				WithMeta(errors.MetaFeatureID, f.ID)
		}
		if err := ValidateSelection(character, f, sel.Selections, plan.RequiredSelections(f)); err != nil {
			return err
		}
	}

	for _, sel := range choices.Features {
		if !pending[sel.FeatureID] {
			return errors.Validationf(RuleSelectionNotAllowed, "feature %s does not take a selection at level %d",
				sel.FeatureID, plan.ToLevel).WithMeta(errors.MetaFeatureID, sel.FeatureID)
		}
	}

	if plan.ASIPending {
		return ValidateASI(character.AbilityScores, choices.ASI)
	}
	if len(choices.ASI) > 0 {
		return errors.Validationf(RuleASINotAllowed, "level %d does not grant an ability score improvement", plan.ToLevel)
	}
	return nil
}

// ValidateSpells checks spell and cantrip picks against the plan's exact counts
func ValidateSpells(character *dnd5e.Character, plan *progression.Plan, spells, cantrips []dnd5e.KnownSpell) error {
	if len(spells) != plan.SpellPicks() {
		return errors.Validationf(RuleSpellCount, "exactly %d spell(s) must be chosen, got %d", plan.SpellPicks(), len(spells))
	}
	if len(cantrips) != plan.CantripsToLearn {
		return errors.Validationf(RuleCantripCount, "exactly %d cantrip(s) must be chosen, got %d", plan.CantripsToLearn, len(cantrips))
	}

	seen := make(map[string]bool, len(spells)+len(cantrips))
	check := func(s dnd5e.KnownSpell, minLevel, maxLevel int) error {
		if s.ID == "" {
			return errors.Validation(RuleMissingChoice, "spell id is required")
		}
		if s.Level < minLevel || s.Level > maxLevel {
			return errors.Validationf(RuleSpellLevel, "%s is level %d; allowed %d-%d", s.ID, s.Level, minLevel, maxLevel)
		}
		if seen[s.ID] {
			return errors.Validationf(RuleSpellDuplicate, "%s chosen more than once", s.ID)
		}
		seen[s.ID] = true
		if character != nil && character.KnowsSpell(s.ID) {
			return errors.Validationf(RuleSpellKnown, "%s is already known", s.ID)
		}
		return nil
	}

	for _, s := range cantrips {
		if err := check(s, 0, 0); err != nil {
			return err
		}
	}
	for _, s := range spells {
		if err := check(s, 1, plan.MaxSpellLevel); err != nil {
			return err
		}
	}
	return nil
}

// Validate runs every check a level-up needs, in wizard order
func Validate(character *dnd5e.Character, plan *progression.Plan, choices *progression.Choices) error {
	if character == nil || plan == nil || choices == nil {
		return errors.InvalidArgument("character, plan and choices are required")
	}
	if err := ValidateHP(plan, choices.HP); err != nil {
		return err
	}
	if err := ValidateFeatureChoices(character, plan, choices); err != nil {
		return err
	}
	return ValidateSpells(character, plan, choices.Spells, choices.Cantrips)
}
