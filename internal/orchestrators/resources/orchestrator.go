// Package resources implements the resource orchestrator: spending and
// recovering pools, resting and hit dice healing for stored characters.
package resources

//go:generate mockgen -destination=mock/mock_service.go -package=resourcesmock github.com/KirkDiggler/rpg-progression/internal/orchestrators/resources Service

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/ledger"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

// Service defines the interface for resource operations
type Service interface {
	ListResources(ctx context.Context, input *ListResourcesInput) (*ListResourcesOutput, error)
	Spend(ctx context.Context, input *SpendInput) (*SpendOutput, error)
	Recover(ctx context.Context, input *RecoverInput) (*RecoverOutput, error)
	Rest(ctx context.Context, input *RestInput) (*RestOutput, error)
	SpendHitDice(ctx context.Context, input *SpendHitDiceInput) (*SpendHitDiceOutput, error)
}

// Config holds the dependencies for the resource orchestrator
type Config struct {
	CharacterRepo character.Repository
	Rules         *rules.Registry
	Roller        dice.Roller
	// EventBus is optional. When set, cached ledgers are dropped on
	// progression.applied and spends and rests are published.
	EventBus events.EventBus
	Logger   *zap.Logger
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

	return vb.Build()
}

type orchestrator struct {
	characterRepo character.Repository
	rules         *rules.Registry
	roller        dice.Roller
	eventBus      events.EventBus
	logger        *zap.Logger

	mu      sync.Mutex
	ledgers map[string]*ledger.Ledger
}

// NewOrchestrator creates a new resource orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &orchestrator{
		characterRepo: cfg.CharacterRepo,
		rules:         cfg.Rules,
		roller:        cfg.Roller,
		eventBus:      cfg.EventBus,
		logger:        logger,
		ledgers:       make(map[string]*ledger.Ledger),
	}

	if o.eventBus != nil {
		o.eventBus.SubscribeFunc(dnd5e.EventProgressionApplied, 0, o.onCharacterChanged)
		o.eventBus.SubscribeFunc(dnd5e.EventCharacterDeleted, 0, o.onCharacterChanged)
	}

	return o, nil
}

// onCharacterChanged drops the cached ledger of a character that leveled up or
// was deleted
func (o *orchestrator) onCharacterChanged(_ context.Context, e events.Event) error {
	if e.Source() == nil {
		return nil
	}
	o.evict(e.Source().GetID())
	return nil
}

func (o *orchestrator) evict(characterID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.ledgers[characterID]; ok {
		delete(o.ledgers, characterID)
		o.logger.Debug("dropped cached ledger", zap.String("character_id", characterID))
	}
}

// ledgerFor returns the cached ledger for a character, loading it on first use
func (o *orchestrator) ledgerFor(ctx context.Context, characterID string) (*ledger.Ledger, error) {
	if characterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	o.mu.Lock()
	l, ok := o.ledgers[characterID]
	o.mu.Unlock()
	if ok {
		return l, nil
	}

	loaded, err := o.characterRepo.Get(ctx, character.GetInput{ID: characterID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load character %s", characterID)
	}

	l, err = ledger.New(&ledger.Config{
		Character: loaded.Character,
		Rules:     o.rules,
		Store:     o.characterRepo,
		Roller:    o.roller,
		Logger:    o.logger,
	})
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	// another request may have loaded it first; keep one ledger per character
	if existing, ok := o.ledgers[characterID]; ok {
		return existing, nil
	}
	o.ledgers[characterID] = l
	return l, nil
}

// done drops the cached ledger when a write lost a version race or hit a
// missing character or pool, so the next call starts from the stored state
func (o *orchestrator) done(characterID string, err error) error {
	if errors.IsCommitConflict(err) || errors.IsNotFound(err) {
		o.evict(characterID)
	}
	return err
}

func (o *orchestrator) publish(ctx context.Context, eventType string, c *dnd5e.Character) {
	if o.eventBus == nil {
		return
	}
	if err := o.eventBus.Publish(ctx, events.NewGameEvent(eventType, c.AsEntity(), nil)); err != nil {
		o.logger.Warn("failed to publish resource event",
			zap.String("event_type", eventType),
			zap.String("character_id", c.ID),
			zap.Error(err))
	}
}

// ListResources returns a character's pools and hit point state
func (o *orchestrator) ListResources(ctx context.Context, input *ListResourcesInput) (*ListResourcesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	l, err := o.ledgerFor(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	snapshot := l.Snapshot()
	return &ListResourcesOutput{
		Pools:            snapshot.Resources,
		CurrentHP:        snapshot.CurrentHP,
		MaxHP:            snapshot.MaxHP,
		HitDiceRemaining: snapshot.HitDiceRemaining,
	}, nil
}

// Spend uses one charge of a pool
func (o *orchestrator) Spend(ctx context.Context, input *SpendInput) (*SpendOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PoolID == "" {
		return nil, errors.InvalidArgument("pool ID is required")
	}
	l, err := o.ledgerFor(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	pool, err := l.Spend(ctx, input.PoolID)
	if err != nil {
		return nil, o.done(input.CharacterID, err)
	}

	o.publish(ctx, dnd5e.EventResourceSpent, l.Snapshot())
	return &SpendOutput{Pool: pool}, nil
}

// Recover restores uses to a pool
func (o *orchestrator) Recover(ctx context.Context, input *RecoverInput) (*RecoverOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PoolID == "" {
		return nil, errors.InvalidArgument("pool ID is required")
	}
	l, err := o.ledgerFor(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	pool, err := l.Recover(ctx, input.PoolID, input.Amount)
	if err != nil {
		return nil, o.done(input.CharacterID, err)
	}
	return &RecoverOutput{Pool: pool}, nil
}

// Rest takes a short or long rest
func (o *orchestrator) Rest(ctx context.Context, input *RestInput) (*RestOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	l, err := o.ledgerFor(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	result, err := l.Rest(ctx, input.Kind)
	if err != nil {
		return nil, o.done(input.CharacterID, err)
	}

	o.publish(ctx, dnd5e.EventRestCompleted, result.Character)
	return &RestOutput{Result: result}, nil
}

// SpendHitDice heals with hit dice during a short rest
func (o *orchestrator) SpendHitDice(ctx context.Context, input *SpendHitDiceInput) (*SpendHitDiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	l, err := o.ledgerFor(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	result, err := l.SpendHitDice(ctx, input.Count, input.Rolls)
	if err != nil {
		return nil, o.done(input.CharacterID, err)
	}
	return &SpendHitDiceOutput{Result: result}, nil
}
