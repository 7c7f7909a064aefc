package progression

import (
	"time"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	levelup "github.com/KirkDiggler/rpg-progression/internal/progression"
	"github.com/KirkDiggler/rpg-progression/internal/progression/wizard"
)

// Session is a level-up in progress as seen by callers
type Session struct {
	ID          string       `json:"id"`
	CharacterID string       `json:"character_id"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Progress    *wizard.View `json:"progress"`
}

// StartProgressionInput defines the request for starting a level-up
type StartProgressionInput struct {
	CharacterID string
}

// StartProgressionOutput defines the response for starting a level-up
type StartProgressionOutput struct {
	Session *Session
}

// GetProgressionInput defines the request for getting a level-up session
type GetProgressionInput struct {
	SessionID string
}

// GetProgressionOutput defines the response for getting a level-up session
type GetProgressionOutput struct {
	Session *Session
}

// SubmitHPChoiceInput defines the request for choosing how HP is gained.
// With Method roll and Roll 0 the server rolls the hit die.
type SubmitHPChoiceInput struct {
	SessionID string
	Method    dnd5e.HPMethod
	Roll      int
}

// SubmitHPChoiceOutput defines the response for an HP choice
type SubmitHPChoiceOutput struct {
	Session *Session
	// Roll is set when the server rolled the hit die
	Roll int
}

// SubmitFeatureChoicesInput defines the request for feature selections and the ASI
type SubmitFeatureChoicesInput struct {
	SessionID string
	Features  []dnd5e.FeatureSelection
	ASI       []dnd5e.ASIChoice
}

// SubmitFeatureChoicesOutput defines the response for feature selections
type SubmitFeatureChoicesOutput struct {
	Session *Session
}

// SubmitSpellChoicesInput defines the request for new spells and cantrips
type SubmitSpellChoicesInput struct {
	SessionID string
	Spells    []dnd5e.KnownSpell
	Cantrips  []dnd5e.KnownSpell
}

// SubmitSpellChoicesOutput defines the response for spell choices
type SubmitSpellChoicesOutput struct {
	Session *Session
}

// BackInput defines the request for returning to the previous step
type BackInput struct {
	SessionID string
}

// BackOutput defines the response for returning to the previous step
type BackOutput struct {
	Session *Session
}

// ConfirmInput defines the request for applying the level-up
type ConfirmInput struct {
	SessionID string
}

// ConfirmOutput defines the response for an applied level-up
type ConfirmOutput struct {
	Session   *Session
	Delta     *dnd5e.CharacterDelta
	Character *dnd5e.Character
}

// CancelProgressionInput defines the request for abandoning a level-up
type CancelProgressionInput struct {
	SessionID string
}

// CancelProgressionOutput defines the response for abandoning a level-up
type CancelProgressionOutput struct{}

// PreviewInput defines the request for planning a level-up of an unsaved character
type PreviewInput struct {
	Character *dnd5e.Character
	// Choices, when set, are validated and turned into a delta
	Choices *levelup.Choices
}

// PreviewOutput defines the response for a preview
type PreviewOutput struct {
	Plan  *levelup.Plan
	Delta *dnd5e.CharacterDelta
}
