// Package rules holds the class rule tables progression is computed from
package rules

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// BaselineHitDie is used for classes missing from the tables
const BaselineHitDie = 8

// Config holds the dependencies for the registry
type Config struct {
	Logger *zap.Logger
	// SkipSRD starts the registry empty instead of with the twelve SRD classes
	SkipSRD bool
}

// Registry maps normalized class identifiers to their profiles. It is safe for
// concurrent use; Register replaces whole profiles.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*ClassProfile
	logger   *zap.Logger
	warned   sync.Map
}

// NewRegistry creates a registry, loaded with the SRD classes unless SkipSRD is set
func NewRegistry(cfg *Config) (*Registry, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		profiles: make(map[string]*ClassProfile),
		logger:   logger,
	}

	if !cfg.SkipSRD {
		for _, p := range SRDProfiles() {
			if err := r.Register(p); err != nil {
				return nil, errors.Wrapf(err, "invalid built-in profile %s", p.ID)
			}
		}
	}

	return r, nil
}

// NormalizeClassID maps "CLASS_FIGHTER", "Fighter" and " fighter " to "fighter"
func NormalizeClassID(classID string) string {
	id := strings.ToLower(strings.TrimSpace(classID))
	id = strings.TrimPrefix(id, "class_")
	id = strings.NewReplacer(" ", "_", "-", "_").Replace(id)
	return id
}

// Register validates a profile and stores it under its normalized id,
// replacing any existing profile for that class
func (r *Registry) Register(profile *ClassProfile) error {
	if profile == nil {
		return errors.InvalidArgument("profile is required")
	}
	if err := profile.Validate(); err != nil {
		return errors.Wrapf(err, "invalid profile %s", profile.ID)
	}

	p := profile.normalized()
	// ASI features are generated, so re-check for collisions with authored ids
	if err := p.Validate(); err != nil {
		return errors.Wrapf(err, "invalid profile %s", profile.ID)
	}

	r.mu.Lock()
	_, replaced := r.profiles[p.ID]
	r.profiles[p.ID] = p
	r.mu.Unlock()

	r.logger.Debug("registered class profile",
		zap.String("class_id", p.ID),
		zap.Bool("replaced", replaced),
		zap.Int("features", len(p.Features)))

	return nil
}

// Lookup returns the profile for a class. Unknown classes get the baseline
// non-caster profile (d8, no features, no slots) and an UnknownClass warning;
// the warning is informational and the profile is always usable.
func (r *Registry) Lookup(classID string) (*ClassProfile, error) {
	id := NormalizeClassID(classID)

	r.mu.RLock()
	p, ok := r.profiles[id]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	if _, seen := r.warned.LoadOrStore(id, true); !seen {
		r.logger.Warn("class not in rule tables, using baseline profile",
			zap.String("class_id", classID),
			zap.Int("hit_die", BaselineHitDie))
	}

	return baselineProfile(id), errors.UnknownClass(classID)
}

// profile is Lookup without the warning, for the table accessors below
func (r *Registry) profile(classID string) *ClassProfile {
	p, _ := r.Lookup(classID)
	return p
}

// Has reports whether the class is registered
func (r *Registry) Has(classID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.profiles[NormalizeClassID(classID)]
	return ok
}

// Classes returns the registered class ids in sorted order
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HitDie returns the class hit die size
func (r *Registry) HitDie(classID string) int {
	return r.profile(classID).HitDie
}

// FeaturesAtLevel returns the features unlocked exactly at level, in table order
func (r *Registry) FeaturesAtLevel(classID string, level int) []dnd5e.ClassFeature {
	return r.profile(classID).FeaturesAtLevel(level)
}

// SpellSlotTable returns the class slot table at level, nil for non-casters
func (r *Registry) SpellSlotTable(classID string, level int) dnd5e.SpellSlotTable {
	return r.profile(classID).SpellSlots(level)
}

// ResourceTemplate returns every pool the class has at level, all full
func (r *Registry) ResourceTemplate(classID string, level int, scores dnd5e.AbilityScores) []dnd5e.ResourcePool {
	return r.profile(classID).ResourceTemplate(level, scores)
}

// SpellsKnown returns the fixed spells-known count at level
func (r *Registry) SpellsKnown(classID string, level int) int {
	return r.profile(classID).SpellsKnownAt(level)
}

// CantripsKnown returns the cantrips-known count at level
func (r *Registry) CantripsKnown(classID string, level int) int {
	return r.profile(classID).CantripsKnownAt(level)
}

// PreparedSpells returns the prepared-spell count for current scores
func (r *Registry) PreparedSpells(classID string, level int, scores dnd5e.AbilityScores) int {
	return r.profile(classID).PreparedCount(level, scores)
}

// SpellbookAdditions returns spells a wizard adds to the book per level
func (r *Registry) SpellbookAdditions(classID string) int {
	return r.profile(classID).SpellbookPerLevel
}

// IsASILevel reports whether the class improves ability scores at level
func (r *Registry) IsASILevel(classID string, level int) bool {
	return r.profile(classID).IsASILevel(level)
}

// FirstInvocationLevel returns the level invocations start, 0 for none
func (r *Registry) FirstInvocationLevel(classID string) int {
	return r.profile(classID).FirstInvocationLevel
}

// MaxSpellLevel returns the highest castable spell level at level
func (r *Registry) MaxSpellLevel(classID string, level int) int {
	return r.profile(classID).MaxSpellLevel(level)
}

func baselineProfile(id string) *ClassProfile {
	return &ClassProfile{
		ID:              id,
		Name:            id,
		HitDie:          BaselineHitDie,
		SlotProgression: SlotProgressionNone,
		ASILevels:       []int{},
	}
}
