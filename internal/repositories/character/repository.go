// Package character provides the interface for character persistence
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/KirkDiggler/rpg-progression/internal/repositories/character Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// Repository defines the interface for character persistence. Every write is
// guarded by the character's Version: a write computed against an older
// snapshot fails with errors.CommitConflict and stores nothing.
type Repository interface {
	// Create stores a new character at version 1
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if character with same ID exists
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a character by ID
	// Returns errors.InvalidArgument for empty/invalid IDs
	// Returns errors.NotFound if character doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// CommitDelta applies a level-up delta as one unit
	// Returns errors.InvalidArgument for a nil delta
	// Returns errors.NotFound if character doesn't exist
	// Returns errors.CommitConflict if the delta was computed from a stale snapshot
	// Returns errors.Internal for storage failures
	CommitDelta(ctx context.Context, input CommitDeltaInput) (*CommitDeltaOutput, error)

	// SaveResources stores the ledger-owned fields (pools, current HP, hit dice)
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if character doesn't exist
	// Returns errors.CommitConflict if input.Character.Version is not the stored version
	// Returns errors.Internal for storage failures
	SaveResources(ctx context.Context, input SaveResourcesInput) (*SaveResourcesOutput, error)

	// Delete deletes a character by ID
	// Returns errors.InvalidArgument for empty/invalid IDs
	// Returns errors.NotFound if character doesn't exist
	// Returns errors.Internal for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByPlayerID retrieves all characters for a player
	// Returns errors.InvalidArgument for empty/invalid player IDs
	// Returns errors.Internal for storage failures
	ListByPlayerID(ctx context.Context, input ListByPlayerIDInput) (*ListByPlayerIDOutput, error)
}

// CreateInput defines the input for creating a character
type CreateInput struct {
	Character *dnd5e.Character
}

// CreateOutput defines the output for creating a character
type CreateOutput struct {
	Character *dnd5e.Character
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *dnd5e.Character
}

// CommitDeltaInput defines the input for committing a level-up
type CommitDeltaInput struct {
	Delta *dnd5e.CharacterDelta
}

// CommitDeltaOutput holds the new authoritative snapshot
type CommitDeltaOutput struct {
	Character *dnd5e.Character
}

// SaveResourcesInput carries a snapshot whose Version is the version it was read at
type SaveResourcesInput struct {
	Character *dnd5e.Character
}

// SaveResourcesOutput holds the stored snapshot with its new version
type SaveResourcesOutput struct {
	Character *dnd5e.Character
}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct {
	// Empty for now, can be extended later
}

// ListByPlayerIDInput defines the input for listing characters by player
type ListByPlayerIDInput struct {
	PlayerID string
}

// ListByPlayerIDOutput defines the output for listing characters by player
type ListByPlayerIDOutput struct {
	Characters []*dnd5e.Character
}

const (
	errCharacterNil     = "character cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"
	errPlayerIDEmpty    = "player ID cannot be empty"
	errDeltaNil         = "delta cannot be nil"
)

func validateCharacter(c *dnd5e.Character) error {
	if c == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	if c.ID == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}
	return nil
}

// prepareCreate returns the copy that Create stores
func prepareCreate(c *dnd5e.Character, now int64) *dnd5e.Character {
	stored := c.Clone()
	stored.Version = 1
	if stored.CreatedAt == 0 {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	return stored
}

// applyResources copies the ledger-owned fields of update onto current.
// update.Version must match the stored version.
func applyResources(current, update *dnd5e.Character, now int64) (*dnd5e.Character, error) {
	if update.Version != current.Version {
		return nil, errors.CommitConflict(current.ID, update.Version, current.Version)
	}

	next := current.Clone()
	next.Resources = append([]dnd5e.ResourcePool(nil), update.Resources...)
	next.CurrentHP = update.CurrentHP
	next.HitDiceRemaining = update.HitDiceRemaining
	next.Version = current.Version + 1
	next.UpdatedAt = now
	return next, nil
}

// applyDelta commits a delta on top of the stored snapshot
func applyDelta(current *dnd5e.Character, delta *dnd5e.CharacterDelta, now int64) (*dnd5e.Character, error) {
	next, err := dnd5e.ApplyDelta(current, delta)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = now
	return next, nil
}
