// Package calculator computes level-up deltas. Calculation is pure: the snapshot is
// never modified and the only randomness, hit die rolls, happens in RollHitDie
// before the roll is handed back in as a choice.
package calculator

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/progression"
	"github.com/KirkDiggler/rpg-progression/internal/progression/validator"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

// Config holds the dependencies for the calculator
type Config struct {
	Rules  *rules.Registry
	Roller dice.Roller
	Logger *zap.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Rules == nil {
		vb.RequiredField("Rules")
	}

	return vb.Build()
}

// Calculator turns a snapshot plus choices into a CharacterDelta
type Calculator struct {
	rules  *rules.Registry
	roller dice.Roller
	logger *zap.Logger
}

// New creates a calculator with the provided dependencies
func New(cfg *Config) (*Calculator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Calculator{
		rules:  cfg.Rules,
		roller: roller,
		logger: logger,
	}, nil
}

// AverageHP is the fixed hit point value for a die: half rounded up, plus one
func AverageHP(hitDie int) int {
	return (hitDie+1)/2 + 1
}

func checkTarget(character *dnd5e.Character, targetLevel int) error {
	if character == nil {
		return errors.InvalidArgument("character is required")
	}
	if character.Level < dnd5e.MinLevel || character.Level > dnd5e.MaxLevel {
		return errors.FailedPreconditionf("character level %d is outside %d-%d",
			character.Level, dnd5e.MinLevel, dnd5e.MaxLevel)
	}
	if character.Level >= dnd5e.MaxLevel {
		return errors.FailedPreconditionf("character is already level %d", dnd5e.MaxLevel)
	}
	if targetLevel != character.Level+1 {
		return errors.FailedPreconditionf("target level must be %d, got %d", character.Level+1, targetLevel)
	}
	return nil
}

// Plan previews what leveling to targetLevel will require of the player
func (c *Calculator) Plan(character *dnd5e.Character, targetLevel int) (*progression.Plan, error) {
	if err := checkTarget(character, targetLevel); err != nil {
		return nil, err
	}

	profile, warning := c.rules.Lookup(character.ClassID)

	plan := &progression.Plan{
		CharacterID: character.ID,
		ClassID:     profile.ID,
		FromLevel:   character.Level,
		ToLevel:     targetLevel,
		HitDie:      profile.HitDie,
		AverageHP:   AverageHP(profile.HitDie),
		ConModifier: character.AbilityScores.Modifier(dnd5e.AbilityConstitution),
		NewFeatures: profile.FeaturesAtLevel(targetLevel),
		ASIPending:  profile.IsASILevel(targetLevel),

		InvocationCount:    profile.InvocationsGainedAt(targetLevel),
		SpellsToLearn:      atLeastZero(profile.SpellsKnownAt(targetLevel) - profile.SpellsKnownAt(character.Level)),
		CantripsToLearn:    atLeastZero(profile.CantripsKnownAt(targetLevel) - profile.CantripsKnownAt(character.Level)),
		MaxSpellLevel:      profile.MaxSpellLevel(targetLevel),
		PreparedSpellCount: profile.PreparedCount(targetLevel, character.AbilityScores),
	}
	if profile.SpellbookPerLevel > 0 {
		plan.SpellbookAdditions = profile.SpellbookPerLevel
	}

	for _, f := range plan.NewFeatures {
		if f.RequiresChoice && f.ChoiceType != dnd5e.ChoiceTypeAbilityScoreImprovement {
			plan.PendingChoices = append(plan.PendingChoices, f)
		}
	}
	if warning != nil {
		plan.Warnings = append(plan.Warnings, errors.GetMessage(warning))
	}

	return plan, nil
}

// Calculate validates the choices and returns the delta for one level-up.
// Nothing is applied; the caller commits the delta through persistence.
func (c *Calculator) Calculate(character *dnd5e.Character, targetLevel int, choices *progression.Choices) (*dnd5e.CharacterDelta, error) {
	plan, err := c.Plan(character, targetLevel)
	if err != nil {
		return nil, err
	}
	if choices == nil {
		return nil, errors.InvalidArgument("choices are required")
	}
	if err := validator.Validate(character, plan, choices); err != nil {
		return nil, err
	}

	scores := character.AbilityScores
	if plan.ASIPending {
		scores = validator.ApplyASI(scores, choices.ASI)
	}

	delta := &dnd5e.CharacterDelta{
		CharacterID:          character.ID,
		BaseVersion:          character.Version,
		ClassID:              plan.ClassID,
		FromLevel:            character.Level,
		ToLevel:              targetLevel,
		HitDie:               plan.HitDie,
		HP:                   hpGain(plan, choices.HP, character.AbilityScores, scores, targetLevel),
		NewFeatures:          plan.NewFeatures,
		SpellsLearned:        append([]dnd5e.KnownSpell(nil), choices.Spells...),
		CantripsLearned:      append([]dnd5e.KnownSpell(nil), choices.Cantrips...),
		ProficiencyBonusFrom: dnd5e.ProficiencyBonus(character.Level),
		ProficiencyBonusTo:   dnd5e.ProficiencyBonus(targetLevel),
		Warnings:             plan.Warnings,
	}
	delta.NewMaxHP = character.MaxHP + delta.HP.Total

	if plan.ASIPending {
		delta.ASIChoices = append([]dnd5e.ASIChoice(nil), choices.ASI...)
		delta.AbilityScores = &scores
	}

	for _, f := range plan.PendingChoices {
		sel, _ := choices.Selection(f.ID)
		switch f.ChoiceType {
		case dnd5e.ChoiceTypeSubclass:
			delta.SubclassID = sel.Selections[0]
		case dnd5e.ChoiceTypeFightingStyle:
			delta.FightingStyle = sel.Selections[0]
		case dnd5e.ChoiceTypePactBoon:
			delta.PactBoonID = sel.Selections[0]
		case dnd5e.ChoiceTypeInvocation:
			delta.Invocations = append(delta.Invocations, sel.Selections...)
		}
	}

	profile, _ := c.rules.Lookup(character.ClassID)
	delta.SpellSlots = profile.SpellSlots(targetLevel)
	delta.SpellSlotChanges = SlotChanges(profile.SpellSlots(character.Level), delta.SpellSlots)
	delta.PreparedSpellCount = profile.PreparedCount(targetLevel, scores)
	delta.Resources = RebuildResources(character.Resources, profile.ResourceTemplate(targetLevel, scores))

	c.logger.Debug("computed level-up delta",
		zap.String("character_id", character.ID),
		zap.String("class_id", plan.ClassID),
		zap.Int("from_level", delta.FromLevel),
		zap.Int("to_level", delta.ToLevel),
		zap.Int("hp_gain", delta.HP.Total),
		zap.Int("new_features", len(delta.NewFeatures)),
		zap.Strings("warnings", delta.Warnings))

	return delta, nil
}

// RollHitDie rolls the character's class hit die for the roll HP method
func (c *Calculator) RollHitDie(character *dnd5e.Character) (int, error) {
	if character == nil {
		return 0, errors.InvalidArgument("character is required")
	}
	profile, _ := c.rules.Lookup(character.ClassID)
	roll, err := c.roller.Roll(profile.HitDie)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to roll d%d", profile.HitDie)
	}
	return roll, nil
}

// hpGain uses the pre-improvement CON modifier for the level's die and then adds
// the modifier increase, if any, once for every level including the new one
func hpGain(plan *progression.Plan, choice progression.HPChoice, before, after dnd5e.AbilityScores, targetLevel int) dnd5e.HPGain {
	gain := dnd5e.HPGain{
		Method:      choice.Method,
		ConModifier: before.Modifier(dnd5e.AbilityConstitution),
	}

	base := plan.AverageHP
	if choice.Method == dnd5e.HPMethodRoll {
		gain.Roll = choice.Roll
		base = choice.Roll
	}
	gain.LevelGain = base + gain.ConModifier
	if gain.LevelGain < 1 {
		gain.LevelGain = 1
	}

	if diff := after.Modifier(dnd5e.AbilityConstitution) - gain.ConModifier; diff > 0 {
		gain.RetroactiveCon = diff * targetLevel
	}
	gain.Total = gain.LevelGain + gain.RetroactiveCon
	return gain
}

// SlotChanges lists every spell level whose slot count is non-zero before or after.
// A change is New when the count went up, including from zero.
func SlotChanges(before, after dnd5e.SpellSlotTable) []dnd5e.SpellSlotChange {
	var changes []dnd5e.SpellSlotChange
	for lvl := 1; lvl <= 9; lvl++ {
		prev, cur := before[lvl], after[lvl]
		if prev == 0 && cur == 0 {
			continue
		}
		changes = append(changes, dnd5e.SpellSlotChange{
			SpellLevel: lvl,
			Previous:   prev,
			Current:    cur,
			New:        cur > prev,
		})
	}
	return changes
}

// RebuildResources merges the new level's template into the existing pools.
// Pools keep their spent uses: new_current = old_current + (new_max - old_max),
// clamped to [0, new_max]. New pools start full; pools turned passive drop to 0/0.
// Existing pools the template does not mention are kept as they are.
func RebuildResources(existing, template []dnd5e.ResourcePool) []dnd5e.ResourcePool {
	old := make(map[string]dnd5e.ResourcePool, len(existing))
	for _, p := range existing {
		old[p.ID] = p
	}

	out := make([]dnd5e.ResourcePool, 0, len(template)+len(existing))
	inTemplate := make(map[string]bool, len(template))
	for _, t := range template {
		inTemplate[t.ID] = true
		prev, ok := old[t.ID]
		switch {
		case t.IsPassive():
			t.Max, t.Current = 0, 0
		case !ok || prev.IsPassive():
			t.Current = t.Max
		default:
			t.Current = clamp(prev.Current+(t.Max-prev.Max), 0, t.Max)
		}
		out = append(out, t)
	}

	for _, p := range existing {
		if !inTemplate[p.ID] {
			out = append(out, p)
		}
	}
	return out
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

func atLeastZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
