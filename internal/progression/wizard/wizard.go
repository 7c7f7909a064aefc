// Package wizard walks a player through one level-up: hit points, feature
// choices, spell picks, then confirmation. The flow is a fixed list of steps;
// each step says whether it applies to this level-up and what must hold before
// the wizard may move past it.
package wizard

//go:generate mockgen -destination=mock/mock_committer.go -package=wizardmock github.com/KirkDiggler/rpg-progression/internal/progression/wizard Committer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/progression"
	"github.com/KirkDiggler/rpg-progression/internal/progression/calculator"
	"github.com/KirkDiggler/rpg-progression/internal/progression/validator"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/character"
)

// State is a wizard step
type State string

const (
	StateCollectingHP             State = "collecting_hp"
	StateCollectingFeatureChoices State = "collecting_feature_choices"
	StateCollectingSpellChoices   State = "collecting_spell_choices"
	StateConfirming               State = "confirming"
	StateApplied                  State = "applied"
)

// Predicates named by blocked forward transitions
const (
	PredicateHPSelected          = "hp_selected"
	PredicateFeatureChoicesValid = "feature_choices_valid"
	PredicateSpellCountExact     = "spell_count_exact"
)

// Committer persists a computed delta. character.Repository satisfies it.
type Committer interface {
	CommitDelta(ctx context.Context, input character.CommitDeltaInput) (*character.CommitDeltaOutput, error)
}

// Config holds the dependencies for a wizard
type Config struct {
	// Character is the snapshot the level-up is computed against
	Character  *dnd5e.Character
	Calculator *calculator.Calculator
	Committer  Committer
	Logger     *zap.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Character == nil {
		vb.RequiredField("Character")
	}
	if c.Calculator == nil {
		vb.RequiredField("Calculator")
	}
	if c.Committer == nil {
		vb.RequiredField("Committer")
	}

	return vb.Build()
}

type step struct {
	state        State
	predicate    string
	isApplicable func(ctx context.Context) bool
	validate     func(ctx context.Context) error
}

// Wizard is one character's level-up in progress
type Wizard struct {
	mu sync.Mutex

	character  *dnd5e.Character
	plan       *progression.Plan
	calculator *calculator.Calculator
	committer  Committer
	logger     *zap.Logger

	steps   []step
	current int
	choices progression.Choices
	hpSet   bool
	stale   bool

	delta *dnd5e.CharacterDelta
}

// View is a read-only copy of the wizard's progress
type View struct {
	State   State                 `json:"state"`
	Steps   []State               `json:"steps"`
	Plan    *progression.Plan     `json:"plan"`
	Choices progression.Choices   `json:"choices"`
	Stale   bool                  `json:"stale"`
	Delta   *dnd5e.CharacterDelta `json:"delta,omitempty"`
}

// Result is the outcome of a confirmed level-up
type Result struct {
	Delta     *dnd5e.CharacterDelta
	Character *dnd5e.Character
}

// New plans the next level for the character and starts at the first step
func New(ctx context.Context, cfg *Config) (*Wizard, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	snapshot := cfg.Character.Clone()
	plan, err := cfg.Calculator.Plan(snapshot, snapshot.Level+1)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Wizard{
		character:  snapshot,
		plan:       plan,
		calculator: cfg.Calculator,
		committer:  cfg.Committer,
		logger: logger.With(
			zap.String("character_id", snapshot.ID),
			zap.Int("to_level", plan.ToLevel)),
	}
	w.steps = []step{
		{
			state:        StateCollectingHP,
			predicate:    PredicateHPSelected,
			isApplicable: always,
			validate:     w.validateHP,
		},
		{
			state:        StateCollectingFeatureChoices,
			predicate:    PredicateFeatureChoicesValid,
			isApplicable: func(context.Context) bool { return w.plan.NeedsFeatureChoices() },
			validate:     w.validateFeatures,
		},
		{
			state:        StateCollectingSpellChoices,
			predicate:    PredicateSpellCountExact,
			isApplicable: func(context.Context) bool { return w.plan.NeedsSpellChoices() },
			validate:     w.validateSpells,
		},
		{
			state:        StateConfirming,
			isApplicable: always,
		},
		{
			state:        StateApplied,
			isApplicable: always,
		},
	}

	w.logger.Debug("level-up started",
		zap.Bool("feature_step", plan.NeedsFeatureChoices()),
		zap.Bool("spell_step", plan.NeedsSpellChoices()))

	return w, nil
}

func always(context.Context) bool { return true }

func (w *Wizard) validateHP(context.Context) error {
	if !w.hpSet {
		return errors.Validation(validator.RuleMissingChoice, "hit point method has not been chosen")
	}
	return validator.ValidateHP(w.plan, w.choices.HP)
}

func (w *Wizard) validateFeatures(context.Context) error {
	return validator.ValidateFeatureChoices(w.character, w.plan, &w.choices)
}

func (w *Wizard) validateSpells(context.Context) error {
	return validator.ValidateSpells(w.character, w.plan, w.choices.Spells, w.choices.Cantrips)
}

// State returns the current step
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.current].state
}

// Plan returns what this level-up asks of the player
func (w *Wizard) Plan() *progression.Plan {
	return w.plan
}

// CharacterID returns the id of the character being leveled
func (w *Wizard) CharacterID() string {
	return w.character.ID
}

// View returns a copy of the wizard's progress
func (w *Wizard) View(ctx context.Context) *View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := &View{
		State:   w.steps[w.current].state,
		Plan:    w.plan,
		Choices: cloneChoices(w.choices),
		Stale:   w.stale,
		Delta:   w.delta,
	}
	for _, s := range w.steps {
		if s.isApplicable(ctx) {
			v.Steps = append(v.Steps, s.state)
		}
	}
	return v
}

func cloneChoices(c progression.Choices) progression.Choices {
	out := progression.Choices{
		HP:       c.HP,
		ASI:      append([]dnd5e.ASIChoice(nil), c.ASI...),
		Spells:   append([]dnd5e.KnownSpell(nil), c.Spells...),
		Cantrips: append([]dnd5e.KnownSpell(nil), c.Cantrips...),
	}
	for _, f := range c.Features {
		out.Features = append(out.Features, dnd5e.FeatureSelection{
			FeatureID:  f.FeatureID,
			Selections: append([]string(nil), f.Selections...),
		})
	}
	return out
}

func (w *Wizard) checkOpen() error {
	if w.stale {
		return errors.FailedPrecondition("level-up is stale; reload the character and start again")
	}
	if w.steps[w.current].state == StateApplied {
		return errors.FailedPrecondition("level-up has already been applied")
	}
	return nil
}

func (w *Wizard) checkState(want State) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if got := w.steps[w.current].state; got != want {
		return errors.FailedPreconditionf("expected state %s, wizard is in %s", want, got)
	}
	return nil
}

// Next moves forward to the nearest applicable step once the current one is satisfied
func (w *Wizard) Next(ctx context.Context) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.next(ctx); err != nil {
		return w.steps[w.current].state, err
	}
	return w.steps[w.current].state, nil
}

func (w *Wizard) next(ctx context.Context) error {
	if err := w.checkOpen(); err != nil {
		return err
	}

	cur := w.steps[w.current]
	if cur.state == StateConfirming {
		return errors.FailedPrecondition("confirm the level-up to apply it")
	}
	if cur.validate != nil {
		if err := cur.validate(ctx); err != nil {
			return errors.TransitionBlocked(cur.predicate, err)
		}
	}

	for i := w.current + 1; i < len(w.steps); i++ {
		if w.steps[i].isApplicable(ctx) {
			if w.steps[i].state == StateConfirming {
				delta, err := w.calculator.Calculate(w.character, w.plan.ToLevel, &w.choices)
				if err != nil {
					return err
				}
				w.delta = delta
			}
			w.logger.Debug("advanced",
				zap.String("from", string(cur.state)),
				zap.String("to", string(w.steps[i].state)))
			w.current = i
			return nil
		}
	}
	return errors.Newf(errors.CodeInternal, "no step after %s", cur.state)
}

// Back returns to the nearest earlier applicable step. Recorded choices are kept.
func (w *Wizard) Back(ctx context.Context) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkOpen(); err != nil {
		return w.steps[w.current].state, err
	}

	for i := w.current - 1; i >= 0; i-- {
		if w.steps[i].isApplicable(ctx) {
			w.current = i
			w.delta = nil
			return w.steps[i].state, nil
		}
	}
	return w.steps[w.current].state, errors.FailedPrecondition("already at the first step")
}

// SubmitHPChoice records how hit points are determined and advances.
// An invalid choice is not recorded.
func (w *Wizard) SubmitHPChoice(ctx context.Context, choice progression.HPChoice) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkState(StateCollectingHP); err != nil {
		return w.steps[w.current].state, err
	}
	if err := validator.ValidateHP(w.plan, choice); err != nil {
		return w.steps[w.current].state, err
	}

	w.choices.HP = choice
	w.hpSet = true
	return w.advance(ctx)
}

// RollHP rolls the class hit die and submits the result as the HP choice
func (w *Wizard) RollHP(ctx context.Context) (int, State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkState(StateCollectingHP); err != nil {
		return 0, w.steps[w.current].state, err
	}

	roll, err := w.calculator.RollHitDie(w.character)
	if err != nil {
		return 0, w.steps[w.current].state, err
	}

	w.choices.HP = progression.HPChoice{Method: dnd5e.HPMethodRoll, Roll: roll}
	w.hpSet = true
	state, err := w.advance(ctx)
	return roll, state, err
}

// SubmitFeatureChoices records feature selections and the ASI, then advances.
// An invalid set is not recorded.
func (w *Wizard) SubmitFeatureChoices(ctx context.Context, features []dnd5e.FeatureSelection, asi []dnd5e.ASIChoice) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkState(StateCollectingFeatureChoices); err != nil {
		return w.steps[w.current].state, err
	}

	candidate := cloneChoices(progression.Choices{Features: features, ASI: asi})
	if err := validator.ValidateFeatureChoices(w.character, w.plan, &candidate); err != nil {
		return w.steps[w.current].state, err
	}

	w.choices.Features = candidate.Features
	w.choices.ASI = candidate.ASI
	return w.advance(ctx)
}

// SubmitSpellChoices records the new spells and cantrips, then advances.
// An invalid set is not recorded.
func (w *Wizard) SubmitSpellChoices(ctx context.Context, spells, cantrips []dnd5e.KnownSpell) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkState(StateCollectingSpellChoices); err != nil {
		return w.steps[w.current].state, err
	}
	if err := validator.ValidateSpells(w.character, w.plan, spells, cantrips); err != nil {
		return w.steps[w.current].state, err
	}

	w.choices.Spells = append([]dnd5e.KnownSpell(nil), spells...)
	w.choices.Cantrips = append([]dnd5e.KnownSpell(nil), cantrips...)
	return w.advance(ctx)
}

func (w *Wizard) advance(ctx context.Context) (State, error) {
	err := w.next(ctx)
	return w.steps[w.current].state, err
}

// Preview returns the delta built on entering confirming. It is the exact
// delta Confirm commits.
func (w *Wizard) Preview(_ context.Context) (*dnd5e.CharacterDelta, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkState(StateConfirming); err != nil {
		return nil, err
	}
	return w.delta, nil
}

// Confirm commits the pending delta and moves to applied. On any failure the
// wizard stays in confirming and is marked stale.
func (w *Wizard) Confirm(ctx context.Context) (*Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkState(StateConfirming); err != nil {
		return nil, err
	}
	delta := w.delta
	if delta == nil {
		return nil, errors.Internal("no pending delta in confirming")
	}

	out, err := w.committer.CommitDelta(ctx, character.CommitDeltaInput{Delta: delta})
	if err != nil {
		w.stale = true
		w.logger.Warn("level-up commit failed", zap.Error(err))
		return nil, err
	}

	w.current = len(w.steps) - 1

	w.logger.Info("level-up applied",
		zap.Int("hp_gain", delta.HP.Total),
		zap.Int("new_max_hp", delta.NewMaxHP),
		zap.Int64("version", out.Character.Version))

	return &Result{Delta: delta, Character: out.Character.Clone()}, nil
}

// IsStale reports whether a failed commit invalidated this wizard
func (w *Wizard) IsStale() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stale
}
