package resources

import (
	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/ledger"
)

// ListResourcesInput defines the request for listing a character's pools
type ListResourcesInput struct {
	CharacterID string
}

// ListResourcesOutput defines the response for listing a character's pools
type ListResourcesOutput struct {
	Pools            []dnd5e.ResourcePool
	CurrentHP        int
	MaxHP            int
	HitDiceRemaining int
}

// SpendInput defines the request for spending one use of a pool
type SpendInput struct {
	CharacterID string
	PoolID      string
}

// SpendOutput defines the response for spending a pool
type SpendOutput struct {
	Pool dnd5e.ResourcePool
}

// RecoverInput defines the request for restoring uses to a pool
type RecoverInput struct {
	CharacterID string
	PoolID      string
	// Amount defaults to 1
	Amount int
}

// RecoverOutput defines the response for restoring a pool
type RecoverOutput struct {
	Pool dnd5e.ResourcePool
}

// RestInput defines the request for a short or long rest
type RestInput struct {
	CharacterID string
	Kind        dnd5e.RestKind
}

// RestOutput defines the response for a rest
type RestOutput struct {
	Result *ledger.RestResult
}

// SpendHitDiceInput defines the request for healing with hit dice
type SpendHitDiceInput struct {
	CharacterID string
	Count       int
	// Rolls are optional; the server rolls when empty
	Rolls []int
}

// SpendHitDiceOutput defines the response for hit dice healing
type SpendHitDiceOutput struct {
	Result *ledger.HitDiceResult
}
