package rules

import (
	"fmt"
	"sort"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// SlotProgression selects the spell-slot table a class uses
type SlotProgression string

// Slot progressions
const (
	SlotProgressionNone SlotProgression = "none"
	SlotProgressionFull SlotProgression = "full"
	SlotProgressionHalf SlotProgression = "half"
	SlotProgressionPact SlotProgression = "pact"
)

// PreparedFormula computes how many spells a prepared caster readies:
// ability modifier + level (half level when HalfLevel), minimum 1.
type PreparedFormula struct {
	Ability   string `yaml:"ability"`
	HalfLevel bool   `yaml:"half_level"`
	// FromLevel is the first level the class prepares spells
	FromLevel int `yaml:"from_level"`
}

// ClassProfile is everything the rule tables know about one class.
// Profiles are values; the registry swaps whole profiles rather than patching them.
type ClassProfile struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	HitDie int    `yaml:"hit_die"`

	Features []dnd5e.ClassFeature `yaml:"features"`

	SlotProgression SlotProgression `yaml:"slot_progression"`
	// SpellsKnownTable is indexed by level-1; nil for classes that prepare instead
	SpellsKnownTable []int `yaml:"spells_known"`
	// CantripSteps lists cantrips known from each listed level onward
	CantripSteps []dnd5e.LevelValue `yaml:"cantrips_known"`
	Prepared     *PreparedFormula   `yaml:"prepared"`
	// SpellbookPerLevel is how many spells a wizard copies into the book on level-up
	SpellbookPerLevel int `yaml:"spellbook_per_level"`

	ASILevels []int `yaml:"asi_levels"`
	// FirstInvocationLevel is 0 for classes without invocations
	FirstInvocationLevel int `yaml:"first_invocation_level"`
}

// Validate checks the profile is internally consistent
func (p *ClassProfile) Validate() error {
	vb := errors.NewValidationBuilder()

	if p.ID == "" {
		vb.RequiredField("id")
	}
	switch p.HitDie {
	case 6, 8, 10, 12:
	default:
		vb.Fieldf("hit_die", "must be one of 6, 8, 10, 12, got %d", p.HitDie)
	}
	switch p.SlotProgression {
	case "", SlotProgressionNone, SlotProgressionFull, SlotProgressionHalf, SlotProgressionPact:
	default:
		vb.Fieldf("slot_progression", "unknown progression %q", p.SlotProgression)
	}
	if p.SpellsKnownTable != nil && len(p.SpellsKnownTable) != dnd5e.MaxLevel {
		vb.Fieldf("spells_known", "must have %d entries, got %d", dnd5e.MaxLevel, len(p.SpellsKnownTable))
	}
	for _, lvl := range p.ASILevels {
		errors.ValidateRange("asi_levels", lvl, dnd5e.MinLevel, dnd5e.MaxLevel, vb)
	}

	seen := make(map[string]bool, len(p.Features))
	for _, f := range p.Features {
		field := fmt.Sprintf("features[%s]", f.ID)
		if f.ID == "" {
			vb.RequiredField("features.id")
			continue
		}
		if seen[f.ID] {
			vb.Field(field, "duplicate feature id")
		}
		seen[f.ID] = true
		errors.ValidateRange(field+".level", f.Level, dnd5e.MinLevel, dnd5e.MaxLevel, vb)
		if f.RequiresChoice && f.ChoiceType != dnd5e.ChoiceTypeAbilityScoreImprovement && len(f.Options) == 0 {
			vb.Field(field+".options", "choice features need at least one option")
		}
		if f.Grant != nil && f.Grant.PoolID == "" {
			vb.RequiredField(field + ".grant.pool_id")
		}
	}

	return vb.Build()
}

// normalized returns a copy with a canonical id, ASI features filled in from
// ASILevels and features ordered by level
func (p ClassProfile) normalized() *ClassProfile {
	p.ID = NormalizeClassID(p.ID)
	if p.SlotProgression == "" {
		p.SlotProgression = SlotProgressionNone
	}
	if p.ASILevels == nil {
		p.ASILevels = append([]int(nil), StandardASILevels...)
	}

	features := append([]dnd5e.ClassFeature(nil), p.Features...)
	existing := make(map[string]bool, len(features))
	for _, f := range features {
		existing[f.ID] = true
	}
	for _, lvl := range p.ASILevels {
		id := fmt.Sprintf("asi_%d", lvl)
		if existing[id] {
			continue
		}
		features = append(features, dnd5e.ClassFeature{
			ID:             id,
			Name:           "Ability Score Improvement",
			Level:          lvl,
			RequiresChoice: true,
			ChoiceType:     dnd5e.ChoiceTypeAbilityScoreImprovement,
		})
	}
	sort.SliceStable(features, func(i, j int) bool {
		return features[i].Level < features[j].Level
	})
	p.Features = features

	return &p
}

// FeaturesAtLevel returns the features unlocked exactly at level
func (p *ClassProfile) FeaturesAtLevel(level int) []dnd5e.ClassFeature {
	var out []dnd5e.ClassFeature
	for _, f := range p.Features {
		if f.Level == level {
			out = append(out, f)
		}
	}
	return out
}

// FeaturesThrough returns every feature unlocked at or below level
func (p *ClassProfile) FeaturesThrough(level int) []dnd5e.ClassFeature {
	var out []dnd5e.ClassFeature
	for _, f := range p.Features {
		if f.Level <= level {
			out = append(out, f)
		}
	}
	return out
}

// IsASILevel reports whether level grants an ability score improvement
func (p *ClassProfile) IsASILevel(level int) bool {
	for _, l := range p.ASILevels {
		if l == level {
			return true
		}
	}
	return false
}

// SpellSlots returns the slot table at level, or nil before the first slot
func (p *ClassProfile) SpellSlots(level int) dnd5e.SpellSlotTable {
	if level < dnd5e.MinLevel || level > dnd5e.MaxLevel {
		return nil
	}
	switch p.SlotProgression {
	case SlotProgressionFull:
		return fullCasterSlots(level)
	case SlotProgressionHalf:
		if level < 2 {
			return nil
		}
		return fullCasterSlots((level + 1) / 2)
	case SlotProgressionPact:
		return pactSlots(level)
	default:
		return nil
	}
}

// MaxSpellLevel is the highest spell level the class can cast at level
func (p *ClassProfile) MaxSpellLevel(level int) int {
	return p.SpellSlots(level).MaxLevel()
}

// SpellsKnownAt returns the fixed spells-known count, or 0 for prepared casters
func (p *ClassProfile) SpellsKnownAt(level int) int {
	if p.SpellsKnownTable == nil || level < dnd5e.MinLevel || level > dnd5e.MaxLevel {
		return 0
	}
	return p.SpellsKnownTable[level-1]
}

// CantripsKnownAt returns how many cantrips the class knows at level
func (p *ClassProfile) CantripsKnownAt(level int) int {
	return stepValue(p.CantripSteps, level, 0)
}

// PreparedCount returns how many spells a prepared caster readies, recomputed
// from the current scores every call. Non-preparing classes return 0.
func (p *ClassProfile) PreparedCount(level int, scores dnd5e.AbilityScores) int {
	if p.Prepared == nil || level < p.Prepared.FromLevel {
		return 0
	}
	casterLevel := level
	if p.Prepared.HalfLevel {
		casterLevel = level / 2
	}
	n := scores.Modifier(p.Prepared.Ability) + casterLevel
	if n < 1 {
		return 1
	}
	return n
}

// InvocationsGainedAt returns how many invocations the class picks at level:
// two at the first invocation level, one at each later invocation feature.
func (p *ClassProfile) InvocationsGainedAt(level int) int {
	if p.FirstInvocationLevel == 0 {
		return 0
	}
	hasFeature := false
	for _, f := range p.FeaturesAtLevel(level) {
		if f.ChoiceType == dnd5e.ChoiceTypeInvocation {
			hasFeature = true
			break
		}
	}
	switch {
	case !hasFeature:
		return 0
	case level == p.FirstInvocationLevel:
		return 2
	default:
		return 1
	}
}

// ResourceTemplate builds every pool unlocked at or below level, full.
// Grants are applied in level order so a later grant for the same pool wins.
func (p *ClassProfile) ResourceTemplate(level int, scores dnd5e.AbilityScores) []dnd5e.ResourcePool {
	var pools []dnd5e.ResourcePool
	index := make(map[string]int)

	for _, f := range p.FeaturesThrough(level) {
		if f.Grant == nil {
			continue
		}
		pool := resolveGrant(f.Grant, p.ID, level, scores)
		if i, ok := index[pool.ID]; ok {
			pools[i] = pool
			continue
		}
		index[pool.ID] = len(pools)
		pools = append(pools, pool)
	}

	return pools
}
