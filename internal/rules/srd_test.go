package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

func newRegistry(t *testing.T) *rules.Registry {
	t.Helper()
	r, err := rules.NewRegistry(nil)
	require.NoError(t, err)
	return r
}

func TestSRD_FeatureIDsUniquePerClass(t *testing.T) {
	r := newRegistry(t)
	for _, class := range r.Classes() {
		seen := map[string]int{}
		for level := 1; level <= dnd5e.MaxLevel; level++ {
			for _, f := range r.FeaturesAtLevel(class, level) {
				assert.Equal(t, level, f.Level, "%s %s", class, f.ID)
				if prev, dup := seen[f.ID]; dup {
					t.Errorf("%s: feature %s at level %d already unlocked at %d", class, f.ID, level, prev)
				}
				seen[f.ID] = level
			}
		}
	}
}

func TestSRD_ChoiceFeaturesHaveOptions(t *testing.T) {
	r := newRegistry(t)
	for _, class := range r.Classes() {
		profile, err := r.Lookup(class)
		require.NoError(t, err)
		for _, f := range profile.FeaturesThrough(dnd5e.MaxLevel) {
			if f.RequiresChoice && f.ChoiceType != dnd5e.ChoiceTypeAbilityScoreImprovement {
				assert.NotEmpty(t, f.Options, "%s %s", class, f.ID)
			}
		}
	}
}

func TestProperty_MaxSpellLevelNeverDecreases(t *testing.T) {
	r := newRegistry(t)
	classes := r.Classes()
	rapid.Check(t, func(rt *rapid.T) {
		class := rapid.SampledFrom(classes).Draw(rt, "class")
		level := rapid.IntRange(1, dnd5e.MaxLevel-1).Draw(rt, "level")

		if r.MaxSpellLevel(class, level+1) < r.MaxSpellLevel(class, level) {
			rt.Fatalf("%s: max spell level dropped from %d to %d at level %d",
				class, r.MaxSpellLevel(class, level), r.MaxSpellLevel(class, level+1), level+1)
		}
	})
}

func TestProperty_TemplatePoolsStartFull(t *testing.T) {
	r := newRegistry(t)
	classes := r.Classes()
	rapid.Check(t, func(rt *rapid.T) {
		class := rapid.SampledFrom(classes).Draw(rt, "class")
		level := rapid.IntRange(1, dnd5e.MaxLevel).Draw(rt, "level")
		scores := dnd5e.AbilityScores{
			Strength:     rapid.IntRange(1, 20).Draw(rt, "str"),
			Dexterity:    rapid.IntRange(1, 20).Draw(rt, "dex"),
			Constitution: rapid.IntRange(1, 20).Draw(rt, "con"),
			Intelligence: rapid.IntRange(1, 20).Draw(rt, "int"),
			Wisdom:       rapid.IntRange(1, 20).Draw(rt, "wis"),
			Charisma:     rapid.IntRange(1, 20).Draw(rt, "cha"),
		}

		ids := map[string]bool{}
		for _, pool := range r.ResourceTemplate(class, level, scores) {
			if ids[pool.ID] {
				rt.Fatalf("%s level %d: pool %s appears twice", class, level, pool.ID)
			}
			ids[pool.ID] = true
			if pool.Current != pool.Max || pool.Max < 0 {
				rt.Fatalf("%s level %d: pool %s is %d/%d", class, level, pool.ID, pool.Current, pool.Max)
			}
			if pool.IsPassive() && pool.Max != 0 {
				rt.Fatalf("%s level %d: passive pool %s has max %d", class, level, pool.ID, pool.Max)
			}
		}
	})
}

func TestProperty_PreparedCountAtLeastOne(t *testing.T) {
	r := newRegistry(t)
	rapid.Check(t, func(rt *rapid.T) {
		class := rapid.SampledFrom([]string{"cleric", "druid", "wizard"}).Draw(rt, "class")
		level := rapid.IntRange(1, dnd5e.MaxLevel).Draw(rt, "level")
		score := rapid.IntRange(1, 20).Draw(rt, "score")
		scores := dnd5e.AbilityScores{Wisdom: score, Intelligence: score}

		if got := r.PreparedSpells(class, level, scores); got < 1 {
			rt.Fatalf("%s level %d score %d prepared %d", class, level, score, got)
		}
	})
}
