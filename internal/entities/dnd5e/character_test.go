package dnd5e_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

type CharacterTestSuite struct {
	suite.Suite
}

func TestCharacterSuite(t *testing.T) {
	suite.Run(t, new(CharacterTestSuite))
}

func (s *CharacterTestSuite) TestAbilityModifier() {
	testCases := []struct {
		score    int
		expected int
	}{
		{1, -5},
		{8, -1},
		{9, -1},
		{10, 0},
		{11, 0},
		{14, 2},
		{15, 2},
		{20, 5},
	}

	for _, tc := range testCases {
		s.Assert().Equal(tc.expected, dnd5e.AbilityModifier(tc.score), "score %d", tc.score)
	}
}

func (s *CharacterTestSuite) TestAbilityScoresGetWith() {
	scores := dnd5e.AbilityScores{Strength: 15, Constitution: 14}

	updated := scores.With(dnd5e.AbilityConstitution, 16)
	con, ok := updated.Get(dnd5e.AbilityConstitution)
	s.Require().True(ok)
	s.Assert().Equal(16, con)
	s.Assert().Equal(14, scores.Constitution, "With must not modify the receiver")
	s.Assert().Equal(3, updated.Modifier(dnd5e.AbilityConstitution))

	_, ok = scores.Get("luck")
	s.Assert().False(ok)
	s.Assert().Equal(0, scores.Modifier("luck"))
}

func (s *CharacterTestSuite) TestProficiencyBonus() {
	s.Assert().Equal(2, dnd5e.ProficiencyBonus(1))
	s.Assert().Equal(2, dnd5e.ProficiencyBonus(4))
	s.Assert().Equal(3, dnd5e.ProficiencyBonus(5))
	s.Assert().Equal(4, dnd5e.ProficiencyBonus(9))
	s.Assert().Equal(6, dnd5e.ProficiencyBonus(20))
}

func (s *CharacterTestSuite) TestCloneDoesNotAlias() {
	original := &dnd5e.Character{
		ID:          "char-1",
		Resources:   []dnd5e.ResourcePool{{ID: "rage", Max: 2, Current: 2}},
		SpellSlots:  dnd5e.SpellSlotTable{1: 2},
		Invocations: []string{"agonizing_blast"},
	}

	clone := original.Clone()
	clone.Resources[0].Current = 0
	clone.SpellSlots[1] = 4
	clone.Invocations[0] = "other"

	s.Assert().Equal(2, original.Resources[0].Current)
	s.Assert().Equal(2, original.SpellSlots[1])
	s.Assert().Equal("agonizing_blast", original.Invocations[0])
}

func (s *CharacterTestSuite) TestRefillsOn() {
	short := dnd5e.ResourcePool{Recharge: dnd5e.RechargeShortRest}
	long := dnd5e.ResourcePool{Recharge: dnd5e.RechargeLongRest}
	passive := dnd5e.ResourcePool{Recharge: dnd5e.RechargePassive}

	s.Assert().True(short.RefillsOn(dnd5e.RestShort))
	s.Assert().True(short.RefillsOn(dnd5e.RestLong))
	s.Assert().False(long.RefillsOn(dnd5e.RestShort))
	s.Assert().True(long.RefillsOn(dnd5e.RestLong))
	s.Assert().False(passive.RefillsOn(dnd5e.RestLong))
	s.Assert().True(passive.IsPassive())
}

func (s *CharacterTestSuite) TestApplyDelta() {
	base := &dnd5e.Character{
		ID:               "char-1",
		ClassID:          dnd5e.ClassWarlock,
		Level:            1,
		MaxHP:            9,
		CurrentHP:        4,
		HitDiceRemaining: 1,
		Version:          7,
		Resources:        []dnd5e.ResourcePool{{ID: "pact_slots", Max: 1, Current: 0}},
	}
	delta := &dnd5e.CharacterDelta{
		CharacterID:   "char-1",
		BaseVersion:   7,
		FromLevel:     1,
		ToLevel:       2,
		NewMaxHP:      15,
		Invocations:   []string{"agonizing_blast", "devils_sight"},
		SpellSlots:    dnd5e.SpellSlotTable{1: 2},
		SpellsLearned: []dnd5e.KnownSpell{{ID: "hex", Level: 1}},
		Resources:     []dnd5e.ResourcePool{{ID: "pact_slots", Max: 2, Current: 1}},
	}

	s.Run("applies every field and bumps the version", func() {
		next, err := dnd5e.ApplyDelta(base, delta)
		s.Require().NoError(err)

		s.Assert().Equal(2, next.Level)
		s.Assert().Equal(15, next.MaxHP)
		s.Assert().Equal(10, next.CurrentHP)
		s.Assert().Equal(2, next.HitDiceRemaining)
		s.Assert().Equal([]string{"agonizing_blast", "devils_sight"}, next.Invocations)
		s.Assert().True(next.KnowsSpell("hex"))
		s.Assert().Equal(1, next.FindResource("pact_slots").Current)
		s.Assert().Equal(int64(8), next.Version)

		s.Assert().Equal(1, base.Level, "input snapshot must not change")
		s.Assert().Equal(int64(7), base.Version)
	})

	s.Run("stale version is a commit conflict", func() {
		stale := *delta
		stale.BaseVersion = 6

		_, err := dnd5e.ApplyDelta(base, &stale)
		s.Require().Error(err)
		s.Assert().True(errors.IsCommitConflict(err))
	})

	s.Run("level mismatch is a commit conflict", func() {
		wrongLevel := *delta
		wrongLevel.FromLevel = 2

		_, err := dnd5e.ApplyDelta(base, &wrongLevel)
		s.Assert().True(errors.IsCommitConflict(err))
	})

	s.Run("other character is rejected", func() {
		other := *delta
		other.CharacterID = "char-2"

		_, err := dnd5e.ApplyDelta(base, &other)
		s.Assert().True(errors.IsInvalidArgument(err))
	})
}
