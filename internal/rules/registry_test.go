package rules_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

type RegistryTestSuite struct {
	suite.Suite
	registry *rules.Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) SetupTest() {
	r, err := rules.NewRegistry(&rules.Config{Logger: zaptest.NewLogger(s.T())})
	s.Require().NoError(err)
	s.registry = r
}

func (s *RegistryTestSuite) TestNormalizeClassID() {
	for _, in := range []string{"CLASS_FIGHTER", "Fighter", " fighter ", "class_fighter"} {
		s.Assert().Equal(dnd5e.ClassFighter, rules.NormalizeClassID(in), in)
	}
	s.Assert().Equal("blood_hunter", rules.NormalizeClassID("Blood-Hunter"))
}

func (s *RegistryTestSuite) TestClassesLoaded() {
	s.Assert().Equal([]string{
		"barbarian", "bard", "cleric", "druid", "fighter", "monk",
		"paladin", "ranger", "rogue", "sorcerer", "warlock", "wizard",
	}, s.registry.Classes())
}

func (s *RegistryTestSuite) TestHitDie() {
	testCases := map[string]int{
		"CLASS_BARBARIAN": 12,
		"fighter":         10,
		"Paladin":         10,
		"ranger":          10,
		"bard":            8,
		"cleric":          8,
		"rogue":           8,
		"warlock":         8,
		"sorcerer":        6,
		"wizard":          6,
	}
	for class, die := range testCases {
		s.Assert().Equal(die, s.registry.HitDie(class), class)
	}
}

func (s *RegistryTestSuite) TestUnknownClassFallsBack() {
	profile, warning := s.registry.Lookup("artificer")

	s.Require().NotNil(profile)
	s.Require().Error(warning)
	s.Assert().True(errors.IsFailedPrecondition(warning))
	s.Assert().Equal("artificer", errors.GetMeta(warning)[errors.MetaClassID])

	s.Assert().Equal(rules.BaselineHitDie, profile.HitDie)
	s.Assert().Empty(profile.FeaturesThrough(20))
	s.Assert().Nil(profile.SpellSlots(20))
	s.Assert().False(s.registry.Has("artificer"))
}

func (s *RegistryTestSuite) TestASILevels() {
	for _, lvl := range []int{4, 6, 8, 12, 14, 16, 19} {
		s.Assert().True(s.registry.IsASILevel("fighter", lvl), "fighter %d", lvl)
	}
	s.Assert().True(s.registry.IsASILevel("rogue", 10))
	s.Assert().False(s.registry.IsASILevel("rogue", 6))
	s.Assert().False(s.registry.IsASILevel("wizard", 6))
	s.Assert().True(s.registry.IsASILevel("wizard", 19))

	features := s.registry.FeaturesAtLevel("fighter", 6)
	s.Require().Len(features, 1)
	s.Assert().Equal("asi_6", features[0].ID)
	s.Assert().Equal(dnd5e.ChoiceTypeAbilityScoreImprovement, features[0].ChoiceType)
}

func (s *RegistryTestSuite) TestSpellSlotTables() {
	s.Run("full caster", func() {
		s.Assert().Equal(dnd5e.SpellSlotTable{1: 2}, s.registry.SpellSlotTable("wizard", 1))
		s.Assert().Equal(dnd5e.SpellSlotTable{1: 4, 2: 3, 3: 2}, s.registry.SpellSlotTable("cleric", 5))
		s.Assert().Equal(9, s.registry.MaxSpellLevel("wizard", 17))
	})

	s.Run("half caster starts at 2", func() {
		s.Assert().Nil(s.registry.SpellSlotTable("paladin", 1))
		s.Assert().Equal(dnd5e.SpellSlotTable{1: 2}, s.registry.SpellSlotTable("paladin", 2))
		s.Assert().Equal(dnd5e.SpellSlotTable{1: 4, 2: 2}, s.registry.SpellSlotTable("ranger", 5))
		s.Assert().Equal(5, s.registry.MaxSpellLevel("paladin", 17))
	})

	s.Run("pact magic", func() {
		s.Assert().Equal(dnd5e.SpellSlotTable{1: 1}, s.registry.SpellSlotTable("warlock", 1))
		s.Assert().Equal(dnd5e.SpellSlotTable{1: 2}, s.registry.SpellSlotTable("warlock", 2))
		s.Assert().Equal(dnd5e.SpellSlotTable{2: 2}, s.registry.SpellSlotTable("warlock", 3))
		s.Assert().Equal(dnd5e.SpellSlotTable{5: 3}, s.registry.SpellSlotTable("warlock", 11))
		s.Assert().Equal(dnd5e.SpellSlotTable{5: 4}, s.registry.SpellSlotTable("warlock", 17))
	})

	s.Run("non caster", func() {
		s.Assert().Nil(s.registry.SpellSlotTable("barbarian", 20))
		s.Assert().Equal(0, s.registry.MaxSpellLevel("barbarian", 20))
	})
}

func (s *RegistryTestSuite) TestSpellAndCantripCounts() {
	s.Assert().Equal(4, s.registry.SpellsKnown("bard", 1))
	s.Assert().Equal(22, s.registry.SpellsKnown("bard", 20))
	s.Assert().Equal(0, s.registry.SpellsKnown("ranger", 1))
	s.Assert().Equal(2, s.registry.SpellsKnown("ranger", 2))
	s.Assert().Equal(0, s.registry.SpellsKnown("wizard", 5))

	s.Assert().Equal(3, s.registry.CantripsKnown("wizard", 3))
	s.Assert().Equal(4, s.registry.CantripsKnown("wizard", 4))
	s.Assert().Equal(6, s.registry.CantripsKnown("sorcerer", 10))
	s.Assert().Equal(0, s.registry.CantripsKnown("paladin", 10))

	s.Assert().Equal(2, s.registry.SpellbookAdditions("wizard"))
	s.Assert().Equal(0, s.registry.SpellbookAdditions("cleric"))
}

func (s *RegistryTestSuite) TestPreparedSpells() {
	wis16 := dnd5e.AbilityScores{Wisdom: 16}
	s.Assert().Equal(6, s.registry.PreparedSpells("cleric", 3, wis16))

	cha8 := dnd5e.AbilityScores{Charisma: 8}
	s.Assert().Equal(0, s.registry.PreparedSpells("paladin", 1, cha8))
	s.Assert().Equal(1, s.registry.PreparedSpells("paladin", 3, cha8), "minimum of one")
	s.Assert().Equal(0, s.registry.PreparedSpells("sorcerer", 3, cha8))
}

func (s *RegistryTestSuite) TestInvocations() {
	profile, err := s.registry.Lookup("warlock")
	s.Require().NoError(err)

	s.Assert().Equal(2, s.registry.FirstInvocationLevel("warlock"))
	s.Assert().Equal(2, profile.InvocationsGainedAt(2))
	s.Assert().Equal(0, profile.InvocationsGainedAt(3))
	s.Assert().Equal(1, profile.InvocationsGainedAt(5))
	s.Assert().Equal(0, s.registry.FirstInvocationLevel("wizard"))
}

func (s *RegistryTestSuite) TestResourceTemplate() {
	find := func(pools []dnd5e.ResourcePool, id string) *dnd5e.ResourcePool {
		for i := range pools {
			if pools[i].ID == id {
				return &pools[i]
			}
		}
		return nil
	}

	s.Run("rage scales then becomes passive", func() {
		rage := find(s.registry.ResourceTemplate("barbarian", 6, dnd5e.AbilityScores{}), "rage")
		s.Require().NotNil(rage)
		s.Assert().Equal(4, rage.Max)
		s.Assert().Equal(4, rage.Current)
		s.Assert().Equal(dnd5e.RechargeLongRest, rage.Recharge)

		rage = find(s.registry.ResourceTemplate("barbarian", 20, dnd5e.AbilityScores{}), "rage")
		s.Require().NotNil(rage)
		s.Assert().True(rage.IsPassive())
		s.Assert().Equal(0, rage.Max)
	})

	s.Run("bardic inspiration switches recharge at 5", func() {
		cha16 := dnd5e.AbilityScores{Charisma: 16}
		bi := find(s.registry.ResourceTemplate("bard", 4, cha16), "bardic_inspiration")
		s.Require().NotNil(bi)
		s.Assert().Equal(3, bi.Max)
		s.Assert().Equal(dnd5e.RechargeLongRest, bi.Recharge)

		bi = find(s.registry.ResourceTemplate("bard", 5, cha16), "bardic_inspiration")
		s.Assert().Equal(dnd5e.RechargeShortRest, bi.Recharge)

		low := find(s.registry.ResourceTemplate("bard", 1, dnd5e.AbilityScores{Charisma: 8}), "bardic_inspiration")
		s.Assert().Equal(1, low.Max, "minimum of one")
	})

	s.Run("paladin pools", func() {
		pools := s.registry.ResourceTemplate("paladin", 4, dnd5e.AbilityScores{Charisma: 14})
		s.Assert().Equal(20, find(pools, "lay_on_hands").Max)
		s.Assert().Equal(3, find(pools, "divine_sense").Max)
		s.Assert().Equal(1, find(pools, "channel_divinity").Max)
		s.Assert().Nil(find(pools, "cleansing_touch"))
	})

	s.Run("scaling steps", func() {
		s.Assert().Equal(2, find(s.registry.ResourceTemplate("cleric", 6, dnd5e.AbilityScores{}), "channel_divinity").Max)
		s.Assert().Equal(2, find(s.registry.ResourceTemplate("fighter", 17, dnd5e.AbilityScores{}), "action_surge").Max)
		s.Assert().Equal(3, find(s.registry.ResourceTemplate("fighter", 17, dnd5e.AbilityScores{}), "indomitable").Max)
		s.Assert().Equal(7, find(s.registry.ResourceTemplate("monk", 7, dnd5e.AbilityScores{}), "ki").Max)
		s.Assert().Equal(4, find(s.registry.ResourceTemplate("warlock", 17, dnd5e.AbilityScores{}), "pact_slots").Max)
	})

	s.Run("no pools before unlock", func() {
		s.Assert().Empty(s.registry.ResourceTemplate("monk", 1, dnd5e.AbilityScores{}))
		s.Assert().Empty(s.registry.ResourceTemplate("artificer", 10, dnd5e.AbilityScores{}))
	})
}

func (s *RegistryTestSuite) TestRegisterRejectsInvalidProfiles() {
	testCases := []struct {
		name    string
		profile *rules.ClassProfile
	}{
		{name: "nil", profile: nil},
		{name: "bad hit die", profile: &rules.ClassProfile{ID: "x", HitDie: 7}},
		{name: "duplicate feature", profile: &rules.ClassProfile{ID: "x", HitDie: 8, Features: []dnd5e.ClassFeature{
			{ID: "a", Level: 1}, {ID: "a", Level: 2},
		}}},
		{name: "choice without options", profile: &rules.ClassProfile{ID: "x", HitDie: 8, Features: []dnd5e.ClassFeature{
			{ID: "style", Level: 2, RequiresChoice: true, ChoiceType: dnd5e.ChoiceTypeFightingStyle},
		}}},
		{name: "short spells known table", profile: &rules.ClassProfile{ID: "x", HitDie: 8, SpellsKnownTable: []int{1, 2}}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := s.registry.Register(tc.profile)
			s.Require().Error(err)
			s.Assert().True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *RegistryTestSuite) TestRegisterReplacesProfile() {
	err := s.registry.Register(&rules.ClassProfile{ID: "CLASS_FIGHTER", Name: "Fighter", HitDie: 12})
	s.Require().NoError(err)

	s.Assert().Equal(12, s.registry.HitDie("fighter"))
	s.Assert().True(s.registry.IsASILevel("fighter", 4), "standard ASI levels fill in when omitted")
	s.Assert().False(s.registry.IsASILevel("fighter", 6))
}
