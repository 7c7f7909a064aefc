// Package character implements the roster orchestrator: adding finished
// characters at a starting level and reading them back for progression.
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/KirkDiggler/rpg-progression/internal/orchestrators/character Service

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-progression/internal/progression/calculator"
	characterrepo "github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

// Service defines the interface for roster operations
type Service interface {
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)
	DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error)
}

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	Rules         *rules.Registry
	IDGenerator   idgen.Generator
	Clock         clock.Clock
	Logger        *zap.Logger

	// EventBus is optional; deletions are published on it
	EventBus events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Rules == nil {
		vb.RequiredField("Rules")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Orchestrator implements the Service interface
type Orchestrator struct {
	characterRepo characterrepo.Repository
	rules         *rules.Registry
	idGenerator   idgen.Generator
	clock         clock.Clock
	logger        *zap.Logger
	eventBus      events.EventBus
}

// Ensure Orchestrator implements the Service interface
var _ Service = (*Orchestrator)(nil)

// New creates a new character orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		characterRepo: cfg.CharacterRepo,
		rules:         cfg.Rules,
		idGenerator:   cfg.IDGenerator,
		clock:         clk,
		logger:        logger,
		eventBus:      cfg.EventBus,
	}, nil
}

// CreateCharacter builds a snapshot at the requested level from the rule tables
// and stores it. Pools, spell slots and hit dice start full.
func (o *Orchestrator) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	level := input.Level
	if level == 0 {
		level = 1
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("playerID", input.PlayerID, vb)
	errors.ValidateRequired("name", input.Name, vb)
	errors.ValidateRequired("classID", input.ClassID, vb)
	errors.ValidateRange("level", level, 1, dnd5e.MaxLevel, vb)
	for _, ability := range dnd5e.Abilities {
		score, _ := input.AbilityScores.Get(ability)
		errors.ValidateRange(ability, score, dnd5e.MinAbilityScore, dnd5e.MaxAbilityScore, vb)
	}
	if input.MaxHP < 0 {
		vb.Fieldf("maxHP", "must not be negative, got %d", input.MaxHP)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	var warnings []string
	classID := rules.NormalizeClassID(input.ClassID)
	if _, err := o.rules.Lookup(classID); err != nil {
		warnings = append(warnings, err.Error())
	}

	maxHP := input.MaxHP
	if maxHP == 0 {
		maxHP = StartingMaxHP(o.rules.HitDie(classID), level, input.AbilityScores.Modifier(dnd5e.AbilityConstitution))
	}

	id := input.ID
	if id == "" {
		id = o.idGenerator.Generate()
	}

	now := o.clock.Now().Unix()
	created, err := o.characterRepo.Create(ctx, characterrepo.CreateInput{Character: &dnd5e.Character{
		ID:               id,
		PlayerID:         input.PlayerID,
		Name:             input.Name,
		ClassID:          classID,
		Level:            level,
		AbilityScores:    input.AbilityScores,
		MaxHP:            maxHP,
		CurrentHP:        maxHP,
		HitDiceRemaining: level,
		Resources:        o.rules.ResourceTemplate(classID, level, input.AbilityScores),
		SpellSlots:       o.rules.SpellSlotTable(classID, level),
		KnownSpells:      append([]dnd5e.KnownSpell(nil), input.KnownSpells...),
		SubclassID:       input.SubclassID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create character %s", id)
	}

	o.logger.Info("character created",
		zap.String("character_id", created.Character.ID),
		zap.String("player_id", created.Character.PlayerID),
		zap.String("class_id", classID),
		zap.Int("level", level),
		zap.Int("max_hp", maxHP))

	return &CreateCharacterOutput{
		Character: created.Character,
		Warnings:  warnings,
	}, nil
}

// GetCharacter retrieves a character by ID
func (o *Orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get character")
	}

	return &GetCharacterOutput{
		Character: out.Character,
	}, nil
}

// ListCharacters lists a player's characters
func (o *Orchestrator) ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	out, err := o.characterRepo.ListByPlayerID(ctx, characterrepo.ListByPlayerIDInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}

	return &ListCharactersOutput{
		Characters: out.Characters,
	}, nil
}

// DeleteCharacter removes a character from the roster
func (o *Orchestrator) DeleteCharacter(ctx context.Context, input *DeleteCharacterInput) (*DeleteCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	if _, err := o.characterRepo.Delete(ctx, characterrepo.DeleteInput{ID: input.CharacterID}); err != nil {
		return nil, errors.Wrap(err, "failed to delete character")
	}

	if o.eventBus != nil {
		deleted := &dnd5e.Character{ID: input.CharacterID}
		if err := o.eventBus.Publish(ctx, events.NewGameEvent(dnd5e.EventCharacterDeleted, deleted.AsEntity(), nil)); err != nil {
			o.logger.Warn("failed to publish character deletion",
				zap.String("character_id", input.CharacterID),
				zap.Error(err))
		}
	}

	return &DeleteCharacterOutput{
		Message: fmt.Sprintf("Character %s deleted successfully", input.CharacterID),
	}, nil
}

// StartingMaxHP is the full die plus CON at level 1 and the average roll plus
// CON for every later level, each level gaining at least 1
func StartingMaxHP(hitDie, level, conModifier int) int {
	total := max(hitDie+conModifier, 1)
	for l := 2; l <= level; l++ {
		total += max(calculator.AverageHP(hitDie)+conModifier, 1)
	}
	return total
}
