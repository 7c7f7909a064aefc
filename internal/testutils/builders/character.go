// Package builders provides test data builders for creating test fixtures
package builders

import (
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

// CharacterBuilder provides a fluent interface for building test Character snapshots
type CharacterBuilder struct {
	character *dnd5e.Character
}

// NewCharacterBuilder creates a level 1 fighter with average scores
func NewCharacterBuilder() *CharacterBuilder {
	now := time.Now().Unix()
	return &CharacterBuilder{
		character: &dnd5e.Character{
			ID:       "char-test-123",
			PlayerID: "player-test-123",
			Name:     "Test Character",
			ClassID:  dnd5e.ClassFighter,
			Level:    1,
			AbilityScores: dnd5e.AbilityScores{
				Strength:     10,
				Dexterity:    10,
				Constitution: 10,
				Intelligence: 10,
				Wisdom:       10,
				Charisma:     10,
			},
			MaxHP:            10,
			CurrentHP:        10,
			HitDiceRemaining: 1,
			Version:          1,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.character.ID = id
	return b
}

// WithPlayerID sets the player ID
func (b *CharacterBuilder) WithPlayerID(playerID string) *CharacterBuilder {
	b.character.PlayerID = playerID
	return b
}

// WithClass sets the class
func (b *CharacterBuilder) WithClass(classID string) *CharacterBuilder {
	b.character.ClassID = classID
	return b
}

// WithLevel sets the level and gives the character one hit die per level
func (b *CharacterBuilder) WithLevel(level int) *CharacterBuilder {
	b.character.Level = level
	b.character.HitDiceRemaining = level
	return b
}

// WithAbility sets a single ability score
func (b *CharacterBuilder) WithAbility(ability string, score int) *CharacterBuilder {
	b.character.AbilityScores = b.character.AbilityScores.With(ability, score)
	return b
}

// WithAbilityScores replaces all six scores
func (b *CharacterBuilder) WithAbilityScores(scores dnd5e.AbilityScores) *CharacterBuilder {
	b.character.AbilityScores = scores
	return b
}

// WithHP sets max and current hit points
func (b *CharacterBuilder) WithHP(maxHP, currentHP int) *CharacterBuilder {
	b.character.MaxHP = maxHP
	b.character.CurrentHP = currentHP
	return b
}

// WithHitDice sets the hit dice remaining
func (b *CharacterBuilder) WithHitDice(remaining int) *CharacterBuilder {
	b.character.HitDiceRemaining = remaining
	return b
}

// WithPool adds or replaces a resource pool
func (b *CharacterBuilder) WithPool(pool dnd5e.ResourcePool) *CharacterBuilder {
	if existing := b.character.FindResource(pool.ID); existing != nil {
		*existing = pool
		return b
	}
	b.character.Resources = append(b.character.Resources, pool)
	return b
}

// WithTemplateResources fills the pools and slots the rule tables give the
// character's class at its current level, all full
func (b *CharacterBuilder) WithTemplateResources(registry *rules.Registry) *CharacterBuilder {
	c := b.character
	c.Resources = registry.ResourceTemplate(c.ClassID, c.Level, c.AbilityScores)
	c.SpellSlots = registry.SpellSlotTable(c.ClassID, c.Level)
	return b
}

// WithKnownSpells adds spells to the known list
func (b *CharacterBuilder) WithKnownSpells(spells ...dnd5e.KnownSpell) *CharacterBuilder {
	b.character.KnownSpells = append(b.character.KnownSpells, spells...)
	return b
}

// WithInvocations adds known invocations
func (b *CharacterBuilder) WithInvocations(ids ...string) *CharacterBuilder {
	b.character.Invocations = append(b.character.Invocations, ids...)
	return b
}

// WithFightingStyles adds known fighting styles
func (b *CharacterBuilder) WithFightingStyles(ids ...string) *CharacterBuilder {
	b.character.FightingStyles = append(b.character.FightingStyles, ids...)
	return b
}

// WithVersion sets the optimistic concurrency version
func (b *CharacterBuilder) WithVersion(version int64) *CharacterBuilder {
	b.character.Version = version
	return b
}

// Build returns a copy of the built character
func (b *CharacterBuilder) Build() *dnd5e.Character {
	return b.character.Clone()
}
