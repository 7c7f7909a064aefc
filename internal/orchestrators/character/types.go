package character

import (
	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
)

// CreateCharacterInput defines the request for adding a character to the roster
type CreateCharacterInput struct {
	// ID is generated when empty
	ID            string
	PlayerID      string
	Name          string
	ClassID       string
	Level         int // defaults to 1
	AbilityScores dnd5e.AbilityScores
	// MaxHP is derived from the class hit die when zero
	MaxHP       int
	KnownSpells []dnd5e.KnownSpell
	SubclassID  string
}

// CreateCharacterOutput defines the response for creating a character
type CreateCharacterOutput struct {
	Character *dnd5e.Character
	// Warnings carries non-fatal notices such as an unknown class
	Warnings []string
}

// GetCharacterInput defines the request for getting a character
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput defines the response for getting a character
type GetCharacterOutput struct {
	Character *dnd5e.Character
}

// ListCharactersInput defines the request for a player's roster
type ListCharactersInput struct {
	PlayerID string
}

// ListCharactersOutput defines the response for a player's roster
type ListCharactersOutput struct {
	Characters []*dnd5e.Character
}

// DeleteCharacterInput defines the request for deleting a character
type DeleteCharacterInput struct {
	CharacterID string
}

// DeleteCharacterOutput defines the response for deleting a character
type DeleteCharacterOutput struct {
	Message string
}
