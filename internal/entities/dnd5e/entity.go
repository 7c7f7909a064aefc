package dnd5e

import "github.com/KirkDiggler/rpg-toolkit/core"

// CharacterEntity wraps Character to implement core.Entity so a snapshot can be
// the source of rpg-toolkit events
type CharacterEntity struct {
	*Character
}

// GetID returns the character's ID
func (c *CharacterEntity) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *CharacterEntity) GetType() string {
	return EntityTypeCharacter
}

// AsEntity wraps the character for use with rpg-toolkit
func (c *Character) AsEntity() *CharacterEntity {
	return &CharacterEntity{Character: c}
}

// Compile-time check that the wrapper implements core.Entity
var _ core.Entity = (*CharacterEntity)(nil)
