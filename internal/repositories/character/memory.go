package character

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
)

// MemoryConfig contains configuration for the in-memory character repository
type MemoryConfig struct {
	Clock clock.Clock
}

// InMemoryRepository implements Repository using in-memory storage.
// Snapshots are cloned on the way in and out.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*dnd5e.Character
	clock clock.Clock
}

// NewInMemory creates a new in-memory repository
func NewInMemory(cfg *MemoryConfig) *InMemoryRepository {
	c := clock.New()
	if cfg != nil && cfg.Clock != nil {
		c = cfg.Clock
	}
	return &InMemoryRepository{
		store: make(map[string]*dnd5e.Character),
		clock: c,
	}
}

// Create stores a new character
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.Character.ID]; exists {
		return nil, errors.AlreadyExistsf("character with ID %s already exists", input.Character.ID)
	}

	stored := prepareCreate(input.Character, r.clock.Now().Unix())
	r.store[stored.ID] = stored

	return &CreateOutput{Character: stored.Clone()}, nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}

	return &GetOutput{Character: c.Clone()}, nil
}

// CommitDelta applies a level-up delta under the write lock
func (r *InMemoryRepository) CommitDelta(_ context.Context, input CommitDeltaInput) (*CommitDeltaOutput, error) {
	if input.Delta == nil {
		return nil, errors.InvalidArgument(errDeltaNil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.store[input.Delta.CharacterID]
	if !exists {
		return nil, errors.NotFoundf("character with ID %s not found", input.Delta.CharacterID)
	}

	next, err := applyDelta(current, input.Delta, r.clock.Now().Unix())
	if err != nil {
		return nil, err
	}
	r.store[next.ID] = next

	return &CommitDeltaOutput{Character: next.Clone()}, nil
}

// SaveResources stores pools, HP and hit dice if the version still matches
func (r *InMemoryRepository) SaveResources(_ context.Context, input SaveResourcesInput) (*SaveResourcesOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.store[input.Character.ID]
	if !exists {
		return nil, errors.NotFoundf("character with ID %s not found", input.Character.ID)
	}

	next, err := applyResources(current, input.Character, r.clock.Now().Unix())
	if err != nil {
		return nil, err
	}
	r.store[next.ID] = next

	return &SaveResourcesOutput{Character: next.Clone()}, nil
}

// Delete removes a character
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.ID]; !exists {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}
	delete(r.store, input.ID)

	return &DeleteOutput{}, nil
}

// ListByPlayerID returns a player's characters ordered by ID
func (r *InMemoryRepository) ListByPlayerID(_ context.Context, input ListByPlayerIDInput) (*ListByPlayerIDOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	characters := make([]*dnd5e.Character, 0)
	for _, c := range r.store {
		if c.PlayerID == input.PlayerID {
			characters = append(characters, c.Clone())
		}
	}
	sort.Slice(characters, func(i, j int) bool { return characters[i].ID < characters[j].ID })

	return &ListByPlayerIDOutput{Characters: characters}, nil
}
