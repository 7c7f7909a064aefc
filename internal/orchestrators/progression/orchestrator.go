// Package progression implements the level-up orchestrator. It keeps one
// wizard per session in process and publishes progression.applied once a
// level-up is committed.
package progression

//go:generate mockgen -destination=mock/mock_service.go -package=progressionmock github.com/KirkDiggler/rpg-progression/internal/orchestrators/progression Service

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/clients/external"
	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/idgen"
	levelup "github.com/KirkDiggler/rpg-progression/internal/progression"
	"github.com/KirkDiggler/rpg-progression/internal/progression/calculator"
	"github.com/KirkDiggler/rpg-progression/internal/progression/wizard"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/character"
)

// DefaultSessionTTL is how long an untouched level-up session lives
const DefaultSessionTTL = 30 * time.Minute

// RuleSpellNotOnList names the violation for a spell outside the class list
const RuleSpellNotOnList = "spell_not_on_class_list"

// Service defines the interface for level-up operations
type Service interface {
	StartProgression(ctx context.Context, input *StartProgressionInput) (*StartProgressionOutput, error)
	GetProgression(ctx context.Context, input *GetProgressionInput) (*GetProgressionOutput, error)
	SubmitHPChoice(ctx context.Context, input *SubmitHPChoiceInput) (*SubmitHPChoiceOutput, error)
	SubmitFeatureChoices(ctx context.Context, input *SubmitFeatureChoicesInput) (*SubmitFeatureChoicesOutput, error)
	SubmitSpellChoices(ctx context.Context, input *SubmitSpellChoicesInput) (*SubmitSpellChoicesOutput, error)
	Back(ctx context.Context, input *BackInput) (*BackOutput, error)
	Confirm(ctx context.Context, input *ConfirmInput) (*ConfirmOutput, error)
	CancelProgression(ctx context.Context, input *CancelProgressionInput) (*CancelProgressionOutput, error)

	// Preview plans a level-up for a character that is not stored
	Preview(ctx context.Context, input *PreviewInput) (*PreviewOutput, error)
}

// Config holds the dependencies for the progression orchestrator
type Config struct {
	CharacterRepo character.Repository
	Calculator    *calculator.Calculator
	IDGenerator   idgen.Generator
	// Clock defaults to the real clock
	Clock clock.Clock
	// EventBus is optional; without it nothing is published
	EventBus events.EventBus
	// SpellCatalog is optional. When set, submitted spells must be on the
	// class spell list it reports.
	SpellCatalog external.Client
	SessionTTL   time.Duration
	Logger       *zap.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Calculator == nil {
		vb.RequiredField("Calculator")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.SessionTTL < 0 {
		vb.Fieldf("SessionTTL", "must not be negative, got %s", c.SessionTTL)
	}

	return vb.Build()
}

type session struct {
	id          string
	characterID string
	classID     string
	wizard      *wizard.Wizard
	expiresAt   time.Time
}

type orchestrator struct {
	characterRepo character.Repository
	calculator    *calculator.Calculator
	idGen         idgen.Generator
	clock         clock.Clock
	eventBus      events.EventBus
	spells        external.Client
	ttl           time.Duration
	logger        *zap.Logger

	mu          sync.Mutex
	sessions    map[string]*session
	byCharacter map[string]string
}

// NewOrchestrator creates a new progression orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
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
	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		calculator:    cfg.Calculator,
		idGen:         cfg.IDGenerator,
		clock:         clk,
		eventBus:      cfg.EventBus,
		spells:        cfg.SpellCatalog,
		ttl:           ttl,
		logger:        logger,
		sessions:      make(map[string]*session),
		byCharacter:   make(map[string]string),
	}, nil
}

func (o *orchestrator) toSession(ctx context.Context, s *session) *Session {
	o.mu.Lock()
	expiresAt := s.expiresAt
	o.mu.Unlock()

	return &Session{
		ID:          s.id,
		CharacterID: s.characterID,
		ExpiresAt:   expiresAt,
		Progress:    s.wizard.View(ctx),
	}
}

// evictExpiredLocked drops every session past its expiry. Callers hold o.mu.
func (o *orchestrator) evictExpiredLocked(now time.Time) {
	for id, s := range o.sessions {
		if now.After(s.expiresAt) {
			o.removeLocked(id)
		}
	}
}

func (o *orchestrator) removeLocked(sessionID string) {
	s, ok := o.sessions[sessionID]
	if !ok {
		return
	}
	delete(o.sessions, sessionID)
	if o.byCharacter[s.characterID] == sessionID {
		delete(o.byCharacter, s.characterID)
	}
}

// lookup returns a live session and pushes its expiry forward
func (o *orchestrator) lookup(sessionID string) (*session, error) {
	if sessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clock.Now()
	s, ok := o.sessions[sessionID]
	if !ok {
		return nil, errors.NotFoundf("progression session %s not found", sessionID)
	}
	if now.After(s.expiresAt) {
		o.removeLocked(sessionID)
		return nil, errors.NotFoundf("progression session %s expired", sessionID)
	}
	s.expiresAt = now.Add(o.ttl)
	return s, nil
}

// StartProgression loads the character and opens a level-up session for its next
// level. An earlier session for the same character is replaced.
func (o *orchestrator) StartProgression(ctx context.Context, input *StartProgressionInput) (*StartProgressionOutput, error) {
	if input == nil || input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	loaded, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load character %s", input.CharacterID)
	}

	w, err := wizard.New(ctx, &wizard.Config{
		Character:  loaded.Character,
		Calculator: o.calculator,
		Committer:  o.characterRepo,
		Logger:     o.logger,
	})
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	now := o.clock.Now()
	o.evictExpiredLocked(now)
	if previous, ok := o.byCharacter[input.CharacterID]; ok {
		o.logger.Debug("replacing progression session",
			zap.String("character_id", input.CharacterID),
			zap.String("session_id", previous))
		o.removeLocked(previous)
	}
	s := &session{
		id:          o.idGen.Generate(),
		characterID: input.CharacterID,
		classID:     loaded.Character.ClassID,
		wizard:      w,
		expiresAt:   now.Add(o.ttl),
	}
	o.sessions[s.id] = s
	o.byCharacter[s.characterID] = s.id
	o.mu.Unlock()

	o.logger.Info("progression started",
		zap.String("session_id", s.id),
		zap.String("character_id", s.characterID),
		zap.Int("to_level", w.Plan().ToLevel))

	return &StartProgressionOutput{Session: o.toSession(ctx, s)}, nil
}

// GetProgression returns a session's current state
func (o *orchestrator) GetProgression(ctx context.Context, input *GetProgressionInput) (*GetProgressionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}
	return &GetProgressionOutput{Session: o.toSession(ctx, s)}, nil
}

// SubmitHPChoice records the HP method; a roll without a value is rolled here
func (o *orchestrator) SubmitHPChoice(ctx context.Context, input *SubmitHPChoiceInput) (*SubmitHPChoiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	out := &SubmitHPChoiceOutput{}
	if input.Method == dnd5e.HPMethodRoll && input.Roll == 0 {
		out.Roll, _, err = s.wizard.RollHP(ctx)
	} else {
		_, err = s.wizard.SubmitHPChoice(ctx, hpChoice(input))
	}
	if err != nil {
		return nil, err
	}

	out.Session = o.toSession(ctx, s)
	return out, nil
}

// SubmitFeatureChoices records feature selections and the ASI
func (o *orchestrator) SubmitFeatureChoices(ctx context.Context, input *SubmitFeatureChoicesInput) (*SubmitFeatureChoicesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.wizard.SubmitFeatureChoices(ctx, input.Features, input.ASI); err != nil {
		return nil, err
	}
	return &SubmitFeatureChoicesOutput{Session: o.toSession(ctx, s)}, nil
}

// SubmitSpellChoices records new spells and cantrips
func (o *orchestrator) SubmitSpellChoices(ctx context.Context, input *SubmitSpellChoicesInput) (*SubmitSpellChoicesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}
	if err := o.checkSpellList(ctx, s.classID, append(append([]dnd5e.KnownSpell(nil), input.Spells...), input.Cantrips...)); err != nil {
		return nil, err
	}
	if _, err := s.wizard.SubmitSpellChoices(ctx, input.Spells, input.Cantrips); err != nil {
		return nil, err
	}
	return &SubmitSpellChoicesOutput{Session: o.toSession(ctx, s)}, nil
}

// Back returns to the previous applicable step
func (o *orchestrator) Back(ctx context.Context, input *BackInput) (*BackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.wizard.Back(ctx); err != nil {
		return nil, err
	}
	return &BackOutput{Session: o.toSession(ctx, s)}, nil
}

// Confirm commits the level-up and announces it on the event bus
func (o *orchestrator) Confirm(ctx context.Context, input *ConfirmInput) (*ConfirmOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	s, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.wizard.Confirm(ctx)
	if err != nil {
		return nil, err
	}

	o.publish(ctx, result.Character)

	return &ConfirmOutput{
		Session:   o.toSession(ctx, s),
		Delta:     result.Delta,
		Character: result.Character,
	}, nil
}

// publish announces an applied level-up. The commit already happened, so a
// failing subscriber is logged rather than returned.
func (o *orchestrator) publish(ctx context.Context, c *dnd5e.Character) {
	if o.eventBus == nil {
		return
	}
	event := events.NewGameEvent(dnd5e.EventProgressionApplied, c.AsEntity(), nil)
	if err := o.eventBus.Publish(ctx, event); err != nil {
		o.logger.Warn("failed to publish progression event",
			zap.String("character_id", c.ID),
			zap.Error(err))
	}
}

// CancelProgression discards a session
func (o *orchestrator) CancelProgression(_ context.Context, input *CancelProgressionInput) (*CancelProgressionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.sessions[input.SessionID]; !ok {
		return nil, errors.NotFoundf("progression session %s not found", input.SessionID)
	}
	o.removeLocked(input.SessionID)
	return &CancelProgressionOutput{}, nil
}

// Preview plans the next level and, when choices are given, computes the delta
func (o *orchestrator) Preview(_ context.Context, input *PreviewInput) (*PreviewOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	target := input.Character.Level + 1
	plan, err := o.calculator.Plan(input.Character, target)
	if err != nil {
		return nil, err
	}

	out := &PreviewOutput{Plan: plan}
	if input.Choices != nil {
		out.Delta, err = o.calculator.Calculate(input.Character, target, input.Choices)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// checkSpellList rejects spells the catalog does not list for the class at the
// spell's level. An unreachable catalog is logged and the check skipped; the
// rule tables still bound counts and levels.
func (o *orchestrator) checkSpellList(ctx context.Context, classID string, spells []dnd5e.KnownSpell) error {
	if o.spells == nil || len(spells) == 0 {
		return nil
	}

	lists := make(map[int]map[string]bool)
	for _, spell := range spells {
		if spell.Level < 0 || spell.Level > 9 {
			// out of range levels are the validator's to report
			continue
		}
		allowed, ok := lists[spell.Level]
		if !ok {
			refs, err := o.spells.ListClassSpells(ctx, &external.ListSpellsInput{ClassID: classID, Level: spell.Level})
			if err != nil {
				o.logger.Warn("spell catalog unavailable, skipping spell list check",
					zap.String("class_id", classID),
					zap.Int("level", spell.Level),
					zap.Error(err))
				return nil
			}
			allowed = make(map[string]bool, len(refs))
			for _, ref := range refs {
				allowed[ref.ID] = true
			}
			lists[spell.Level] = allowed
		}
		// an empty list means the catalog has no list for the class
		if len(allowed) > 0 && !allowed[spell.ID] {
			return errors.Validationf(RuleSpellNotOnList,
				"spell %s is not on the %s list at level %d", spell.ID, classID, spell.Level).
				WithMeta(errors.MetaSpellID, spell.ID)
		}
	}
	return nil
}

func hpChoice(input *SubmitHPChoiceInput) levelup.HPChoice {
	return levelup.HPChoice{Method: input.Method, Roll: input.Roll}
}
