package v1alpha1

import (
	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/ledger"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/progression"
	levelup "github.com/KirkDiggler/rpg-progression/internal/progression"
)

// StartProgressionRequest opens a level-up session
type StartProgressionRequest struct {
	CharacterID string `json:"character_id"`
}

// SessionRequest addresses an open level-up session
type SessionRequest struct {
	SessionID string `json:"session_id"`
}

// SubmitHPChoiceRequest picks how this level's HP is gained. A roll method
// without a roll asks the server to roll.
type SubmitHPChoiceRequest struct {
	SessionID string         `json:"session_id"`
	Method    dnd5e.HPMethod `json:"method"`
	Roll      int            `json:"roll,omitempty"`
}

// SubmitFeatureChoicesRequest carries feature selections and the ASI
type SubmitFeatureChoicesRequest struct {
	SessionID string                   `json:"session_id"`
	Features  []dnd5e.FeatureSelection `json:"features,omitempty"`
	ASI       []dnd5e.ASIChoice        `json:"asi,omitempty"`
}

// SubmitSpellChoicesRequest carries new spells and cantrips
type SubmitSpellChoicesRequest struct {
	SessionID string             `json:"session_id"`
	Spells    []dnd5e.KnownSpell `json:"spells,omitempty"`
	Cantrips  []dnd5e.KnownSpell `json:"cantrips,omitempty"`
}

// PreviewProgressionRequest plans a level-up for an unsaved character
type PreviewProgressionRequest struct {
	Character *dnd5e.Character `json:"character"`
	Choices   *levelup.Choices `json:"choices,omitempty"`
}

// SessionResponse returns a session, with the server's roll when it rolled
type SessionResponse struct {
	Session *progression.Session `json:"session"`
	Roll    int                  `json:"roll,omitempty"`
}

// ConfirmResponse returns the applied delta and the new snapshot
type ConfirmResponse struct {
	Session   *progression.Session  `json:"session"`
	Delta     *dnd5e.CharacterDelta `json:"delta"`
	Character *dnd5e.Character      `json:"character"`
}

// PreviewProgressionResponse returns the plan and, with choices, the delta
type PreviewProgressionResponse struct {
	Plan  *levelup.Plan         `json:"plan"`
	Delta *dnd5e.CharacterDelta `json:"delta,omitempty"`
}

// CharacterRequest addresses a stored character
type CharacterRequest struct {
	CharacterID string `json:"character_id"`
}

// PoolRequest spends or recovers a resource pool. Amount is only read by recover.
type PoolRequest struct {
	CharacterID string `json:"character_id"`
	PoolID      string `json:"pool_id"`
	Amount      int    `json:"amount,omitempty"`
}

// RestRequest takes a short or long rest
type RestRequest struct {
	CharacterID string         `json:"character_id"`
	Kind        dnd5e.RestKind `json:"kind"`
}

// SpendHitDiceRequest heals with hit dice. Rolls are made by the server when empty.
type SpendHitDiceRequest struct {
	CharacterID string `json:"character_id"`
	Count       int    `json:"count"`
	Rolls       []int  `json:"rolls,omitempty"`
}

// ResourcesResponse lists pools and hit point state
type ResourcesResponse struct {
	Pools            []dnd5e.ResourcePool `json:"pools"`
	CurrentHP        int                  `json:"current_hp"`
	MaxHP            int                  `json:"max_hp"`
	HitDiceRemaining int                  `json:"hit_dice_remaining"`
}

// PoolResponse returns one pool after a change
type PoolResponse struct {
	Pool dnd5e.ResourcePool `json:"pool"`
}

// RestResponse returns the outcome of a rest
type RestResponse struct {
	Result *ledger.RestResult `json:"result"`
}

// SpendHitDiceResponse returns the outcome of a hit dice spend
type SpendHitDiceResponse struct {
	Result *ledger.HitDiceResult `json:"result"`
}

// CreateCharacterRequest adds a character to the roster
type CreateCharacterRequest struct {
	ID            string              `json:"id,omitempty"`
	PlayerID      string              `json:"player_id"`
	Name          string              `json:"name"`
	ClassID       string              `json:"class_id"`
	Level         int                 `json:"level,omitempty"`
	AbilityScores dnd5e.AbilityScores `json:"ability_scores"`
	MaxHP         int                 `json:"max_hp,omitempty"`
	KnownSpells   []dnd5e.KnownSpell  `json:"known_spells,omitempty"`
	SubclassID    string              `json:"subclass_id,omitempty"`
}

// ListCharactersRequest lists a player's roster
type ListCharactersRequest struct {
	PlayerID string `json:"player_id"`
}

// CharacterResponse returns one character
type CharacterResponse struct {
	Character *dnd5e.Character `json:"character"`
	Warnings  []string         `json:"warnings,omitempty"`
}

// CharactersResponse returns a roster
type CharactersResponse struct {
	Characters []*dnd5e.Character `json:"characters"`
}

// MessageResponse acknowledges a request with no other result
type MessageResponse struct {
	Message string `json:"message,omitempty"`
}
