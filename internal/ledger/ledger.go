// Package ledger owns the live resource pools of one character: limited-use
// feature counters, current hit points and hit dice. Every operation on a
// ledger is serialized, and when a Store is attached the new state is written
// with a version check before it becomes visible, so a failed write changes nothing.
package ledger

//go:generate mockgen -destination=mock/mock_store.go -package=ledgermock github.com/KirkDiggler/rpg-progression/internal/ledger Store

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

// Store persists ledger state. character.Repository satisfies it.
type Store interface {
	SaveResources(ctx context.Context, input character.SaveResourcesInput) (*character.SaveResourcesOutput, error)
}

// Config holds the dependencies for a ledger
type Config struct {
	Character *dnd5e.Character
	Rules     *rules.Registry
	// Store is optional; without it the ledger is purely in memory
	Store  Store
	Roller dice.Roller
	Logger *zap.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Character == nil {
		vb.RequiredField("Character")
	} else if c.Character.ID == "" {
		vb.RequiredField("Character.ID")
	}
	if c.Rules == nil {
		vb.RequiredField("Rules")
	}

	return vb.Build()
}

// Ledger is the resource state of one character
type Ledger struct {
	mu        sync.Mutex
	character *dnd5e.Character

	rules  *rules.Registry
	store  Store
	roller dice.Roller
	logger *zap.Logger
}

// New creates a ledger over a copy of the character snapshot
func New(cfg *Config) (*Ledger, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Ledger{
		character: cfg.Character.Clone(),
		rules:     cfg.Rules,
		store:     cfg.Store,
		roller:    roller,
		logger:    logger.With(zap.String("character_id", cfg.Character.ID)),
	}, nil
}

// CharacterID returns the id of the character this ledger tracks
func (l *Ledger) CharacterID() string {
	return l.character.ID
}

// Snapshot returns a copy of the current state
func (l *Ledger) Snapshot() *dnd5e.Character {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.character.Clone()
}

// Pools returns a copy of every pool
func (l *Ledger) Pools() []dnd5e.ResourcePool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]dnd5e.ResourcePool(nil), l.character.Resources...)
}

// Pool returns one pool by id
func (l *Ledger) Pool(poolID string) (dnd5e.ResourcePool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := findPool(l.character, poolID)
	if err != nil {
		return dnd5e.ResourcePool{}, err
	}
	return *p, nil
}

// mutate runs fn against a copy of the state under the lock. The copy is
// committed only if fn reports a change and, when a store is attached, the
// versioned write succeeds.
func (l *Ledger) mutate(ctx context.Context, fn func(next *dnd5e.Character) (bool, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.character.Clone()
	changed, err := fn(next)
	if err != nil || !changed {
		return err
	}

	if l.store != nil {
		out, err := l.store.SaveResources(ctx, character.SaveResourcesInput{Character: next})
		if err != nil {
			return err
		}
		next = out.Character
	}

	l.character = next
	return nil
}

func findPool(c *dnd5e.Character, poolID string) (*dnd5e.ResourcePool, error) {
	p := c.FindResource(poolID)
	if p == nil {
		return nil, errors.NotFoundf("pool %s not found", poolID).WithMeta(errors.MetaPoolID, poolID)
	}
	return p, nil
}

// Spend uses one charge of a pool. Passive pools carry no counter and always
// succeed without a write. A pool at zero fails with PoolExhausted and is left as is.
func (l *Ledger) Spend(ctx context.Context, poolID string) (dnd5e.ResourcePool, error) {
	var spent dnd5e.ResourcePool

	err := l.mutate(ctx, func(next *dnd5e.Character) (bool, error) {
		p, err := findPool(next, poolID)
		if err != nil {
			return false, err
		}
		if p.IsPassive() {
			spent = *p
			return false, nil
		}
		if p.Current <= 0 {
			return false, errors.PoolExhausted(poolID)
		}
		p.Current--
		spent = *p
		return true, nil
	})
	if err != nil {
		return dnd5e.ResourcePool{}, err
	}

	l.logger.Debug("spent resource",
		zap.String("pool_id", poolID),
		zap.Int("current", spent.Current),
		zap.Int("max", spent.Max))

	return spent, nil
}

// Recover restores amount charges to a pool, clamped to its max.
// Zero means one; negative amounts are rejected.
func (l *Ledger) Recover(ctx context.Context, poolID string, amount int) (dnd5e.ResourcePool, error) {
	if amount == 0 {
		amount = 1
	}
	if amount < 0 {
		return dnd5e.ResourcePool{}, errors.InvalidArgumentf("recover amount must be positive, got %d", amount)
	}

	var recovered dnd5e.ResourcePool
	err := l.mutate(ctx, func(next *dnd5e.Character) (bool, error) {
		p, err := findPool(next, poolID)
		if err != nil {
			return false, err
		}
		if p.IsPassive() || p.Current >= p.Max {
			recovered = *p
			return false, nil
		}
		p.Current = min(p.Current+amount, p.Max)
		recovered = *p
		return true, nil
	})
	if err != nil {
		return dnd5e.ResourcePool{}, err
	}
	return recovered, nil
}
