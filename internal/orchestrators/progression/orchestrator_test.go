package progression_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/KirkDiggler/rpg-progression/internal/clients/external"
	externalmock "github.com/KirkDiggler/rpg-progression/internal/clients/external/mock"
	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/progression"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/idgen"
	levelup "github.com/KirkDiggler/rpg-progression/internal/progression"
	"github.com/KirkDiggler/rpg-progression/internal/progression/calculator"
	"github.com/KirkDiggler/rpg-progression/internal/progression/wizard"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	charactermock "github.com/KirkDiggler/rpg-progression/internal/repositories/character/mock"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
	"github.com/KirkDiggler/rpg-progression/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-progression/internal/testutils/mocks"
)

var testNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

type fourRoller struct{}

func (fourRoller) Roll(int) (int, error) { return 4, nil }

func (fourRoller) RollN(count, _ int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = 4
	}
	return out, nil
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctx      context.Context
	clock    *clock.Manual
	repo     *character.InMemoryRepository
	registry *rules.Registry
	calc     *calculator.Calculator
	bus      events.EventBus
	svc      progression.Service

	mu      sync.Mutex
	applied []string
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewManual(testNow)
	s.repo = character.NewInMemory(&character.MemoryConfig{Clock: s.clock})
	s.applied = nil

	var err error
	s.registry, err = rules.NewRegistry(nil)
	s.Require().NoError(err)

	s.calc, err = calculator.New(&calculator.Config{Rules: s.registry, Roller: fourRoller{}})
	s.Require().NoError(err)

	s.bus = events.NewBus()
	s.bus.SubscribeFunc(dnd5e.EventProgressionApplied, 0, func(_ context.Context, e events.Event) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.applied = append(s.applied, e.Source().GetID())
		return nil
	})

	s.svc, err = progression.NewOrchestrator(&progression.Config{
		CharacterRepo: s.repo,
		Calculator:    s.calc,
		IDGenerator:   idgen.NewSequential("levelup"),
		Clock:         s.clock,
		EventBus:      s.bus,
		SessionTTL:    10 * time.Minute,
		Logger:        zaptest.NewLogger(s.T()),
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) store(c *dnd5e.Character) *dnd5e.Character {
	out, err := s.repo.Create(s.ctx, character.CreateInput{Character: c})
	s.Require().NoError(err)
	return out.Character
}

func (s *OrchestratorTestSuite) start(characterID string) *progression.Session {
	out, err := s.svc.StartProgression(s.ctx, &progression.StartProgressionInput{CharacterID: characterID})
	s.Require().NoError(err)
	return out.Session
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := progression.NewOrchestrator(nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = progression.NewOrchestrator(&progression.Config{
		CharacterRepo: s.repo,
		Calculator:    s.calc,
		IDGenerator:   idgen.NewSequential("x"),
		SessionTTL:    -time.Second,
	})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestClericLevelUp() {
	cleric := s.store(builders.NewCharacterBuilder().
		WithID("char-cleric").
		WithClass(dnd5e.ClassCleric).
		WithAbility(dnd5e.AbilityConstitution, 14).
		WithAbility(dnd5e.AbilityWisdom, 16).
		WithHP(10, 10).
		WithTemplateResources(s.registry).
		Build())

	session := s.start(cleric.ID)
	s.Assert().Equal("levelup_1", session.ID)
	s.Assert().Equal(testNow.Add(10*time.Minute), session.ExpiresAt)
	s.Assert().Equal(wizard.StateCollectingHP, session.Progress.State)
	s.Assert().Equal(2, session.Progress.Plan.ToLevel)

	hp, err := s.svc.SubmitHPChoice(s.ctx, &progression.SubmitHPChoiceInput{
		SessionID: session.ID,
		Method:    dnd5e.HPMethodRoll,
	})
	s.Require().NoError(err)
	s.Assert().Equal(4, hp.Roll, "server rolls when no value is given")
	s.Assert().Equal(wizard.StateConfirming, hp.Session.Progress.State)

	confirmed, err := s.svc.Confirm(s.ctx, &progression.ConfirmInput{SessionID: session.ID})
	s.Require().NoError(err)
	s.Assert().Equal(6, confirmed.Delta.HP.Total)
	s.Assert().Equal(2, confirmed.Character.Level)
	s.Assert().Equal(16, confirmed.Character.MaxHP)
	s.Assert().Equal(wizard.StateApplied, confirmed.Session.Progress.State)

	s.Assert().Equal([]string{cleric.ID}, s.applied)

	stored, err := s.repo.Get(s.ctx, character.GetInput{ID: cleric.ID})
	s.Require().NoError(err)
	s.Assert().Equal(2, stored.Character.Level)
	s.Assert().Equal(1, stored.Character.FindResource("channel_divinity").Max)
}

func (s *OrchestratorTestSuite) TestWarlockChoicesThroughService() {
	warlock := s.store(builders.NewCharacterBuilder().
		WithClass(dnd5e.ClassWarlock).
		WithAbility(dnd5e.AbilityCharisma, 16).
		WithTemplateResources(s.registry).
		Build())
	session := s.start(warlock.ID)

	_, err := s.svc.SubmitHPChoice(s.ctx, &progression.SubmitHPChoiceInput{
		SessionID: session.ID,
		Method:    dnd5e.HPMethodAverage,
	})
	s.Require().NoError(err)

	_, err = s.svc.SubmitFeatureChoices(s.ctx, &progression.SubmitFeatureChoicesInput{
		SessionID: session.ID,
		Features: []dnd5e.FeatureSelection{
			{FeatureID: "eldritch_invocations_2", Selections: []string{"agonizing_blast", "agonizing_blast"}},
		},
	})
	s.Require().Error(err)
	s.Assert().True(errors.IsValidation(err))

	features, err := s.svc.SubmitFeatureChoices(s.ctx, &progression.SubmitFeatureChoicesInput{
		SessionID: session.ID,
		Features: []dnd5e.FeatureSelection{
			{FeatureID: "eldritch_invocations_2", Selections: []string{"agonizing_blast", "mask_of_many_faces"}},
		},
	})
	s.Require().NoError(err)
	s.Assert().Equal(wizard.StateCollectingSpellChoices, features.Session.Progress.State)

	back, err := s.svc.Back(s.ctx, &progression.BackInput{SessionID: session.ID})
	s.Require().NoError(err)
	s.Assert().Equal(wizard.StateCollectingFeatureChoices, back.Session.Progress.State)
	s.Assert().Len(back.Session.Progress.Choices.Features, 1)

	_, err = s.svc.SubmitFeatureChoices(s.ctx, &progression.SubmitFeatureChoicesInput{
		SessionID: session.ID,
		Features:  back.Session.Progress.Choices.Features,
	})
	s.Require().NoError(err)

	spells, err := s.svc.SubmitSpellChoices(s.ctx, &progression.SubmitSpellChoicesInput{
		SessionID: session.ID,
		Spells:    []dnd5e.KnownSpell{{ID: "hex", Level: 1}},
	})
	s.Require().NoError(err)
	s.Assert().Equal(wizard.StateConfirming, spells.Session.Progress.State)

	confirmed, err := s.svc.Confirm(s.ctx, &progression.ConfirmInput{SessionID: session.ID})
	s.Require().NoError(err)
	s.Assert().True(confirmed.Character.HasInvocation("mask_of_many_faces"))
}

func (s *OrchestratorTestSuite) TestSessionExpiry() {
	fighter := s.store(builders.NewCharacterBuilder().Build())
	session := s.start(fighter.ID)

	s.clock.Advance(9 * time.Minute)
	got, err := s.svc.GetProgression(s.ctx, &progression.GetProgressionInput{SessionID: session.ID})
	s.Require().NoError(err)
	s.Assert().Equal(testNow.Add(19*time.Minute), got.Session.ExpiresAt, "access extends the session")

	s.clock.Advance(10*time.Minute + time.Second)
	_, err = s.svc.GetProgression(s.ctx, &progression.GetProgressionInput{SessionID: session.ID})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestRestartReplacesSession() {
	fighter := s.store(builders.NewCharacterBuilder().Build())
	first := s.start(fighter.ID)
	second := s.start(fighter.ID)
	s.Assert().NotEqual(first.ID, second.ID)

	_, err := s.svc.GetProgression(s.ctx, &progression.GetProgressionInput{SessionID: first.ID})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.svc.CancelProgression(s.ctx, &progression.CancelProgressionInput{SessionID: second.ID})
	s.Require().NoError(err)
	_, err = s.svc.CancelProgression(s.ctx, &progression.CancelProgressionInput{SessionID: second.ID})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestConflictLeavesSessionStale() {
	fighter := s.store(builders.NewCharacterBuilder().WithHP(10, 10).Build())
	session := s.start(fighter.ID)

	_, err := s.svc.SubmitHPChoice(s.ctx, &progression.SubmitHPChoiceInput{
		SessionID: session.ID,
		Method:    dnd5e.HPMethodAverage,
	})
	s.Require().NoError(err)

	// someone else writes the character after the session loaded it
	changed := fighter.Clone()
	changed.CurrentHP = 3
	_, err = s.repo.SaveResources(s.ctx, character.SaveResourcesInput{Character: changed})
	s.Require().NoError(err)

	_, err = s.svc.Confirm(s.ctx, &progression.ConfirmInput{SessionID: session.ID})
	s.Require().Error(err)
	s.Assert().True(errors.IsCommitConflict(err))
	s.Assert().Empty(s.applied)

	got, err := s.svc.GetProgression(s.ctx, &progression.GetProgressionInput{SessionID: session.ID})
	s.Require().NoError(err)
	s.Assert().True(got.Session.Progress.Stale)
	s.Assert().Equal(wizard.StateConfirming, got.Session.Progress.State)

	restarted := s.start(fighter.ID)
	_, err = s.svc.SubmitHPChoice(s.ctx, &progression.SubmitHPChoiceInput{
		SessionID: restarted.ID,
		Method:    dnd5e.HPMethodAverage,
	})
	s.Require().NoError(err)
	confirmed, err := s.svc.Confirm(s.ctx, &progression.ConfirmInput{SessionID: restarted.ID})
	s.Require().NoError(err)
	s.Assert().Equal(9, confirmed.Character.CurrentHP)
}

func (s *OrchestratorTestSuite) TestStartErrors() {
	_, err := s.svc.StartProgression(s.ctx, &progression.StartProgressionInput{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.svc.StartProgression(s.ctx, &progression.StartProgressionInput{CharacterID: "missing"})
	s.Assert().True(errors.IsNotFound(err))

	capped := s.store(builders.NewCharacterBuilder().WithLevel(dnd5e.MaxLevel).Build())
	_, err = s.svc.StartProgression(s.ctx, &progression.StartProgressionInput{CharacterID: capped.ID})
	s.Assert().True(errors.IsFailedPrecondition(err))

	_, err = s.svc.GetProgression(s.ctx, &progression.GetProgressionInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestStartWrapsRepositoryFailure() {
	ctrl := gomock.NewController(s.T())
	repo := charactermock.NewMockRepository(ctrl)
	svc, err := progression.NewOrchestrator(&progression.Config{
		CharacterRepo: repo,
		Calculator:    s.calc,
		IDGenerator:   idgen.NewSequential("x"),
	})
	s.Require().NoError(err)

	repo.EXPECT().
		Get(gomock.Any(), character.GetInput{ID: "char-1"}).
		Return(nil, errors.Internal("connection refused"))

	_, err = svc.StartProgression(s.ctx, &progression.StartProgressionInput{CharacterID: "char-1"})
	s.Require().Error(err)
	s.Assert().True(errors.IsInternal(err))
	s.Assert().Contains(err.Error(), "char-1")
}

func (s *OrchestratorTestSuite) TestPreview() {
	paladin := builders.NewCharacterBuilder().
		WithClass(dnd5e.ClassPaladin).
		WithLevel(4).
		WithHP(36, 36).
		WithTemplateResources(s.registry).
		Build()

	out, err := s.svc.Preview(s.ctx, &progression.PreviewInput{Character: paladin})
	s.Require().NoError(err)
	s.Assert().Equal(5, out.Plan.ToLevel)
	s.Assert().Nil(out.Delta)

	out, err = s.svc.Preview(s.ctx, &progression.PreviewInput{
		Character: paladin,
		Choices:   &levelup.Choices{HP: levelup.HPChoice{Method: dnd5e.HPMethodAverage}},
	})
	s.Require().NoError(err)
	s.Require().NotNil(out.Delta)
	s.Assert().Equal(3, out.Delta.ProficiencyBonusTo)

	_, err = s.svc.Preview(s.ctx, &progression.PreviewInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

// warlockAtSpells stores a level 1 warlock and walks a session to the spell step
func (s *OrchestratorTestSuite) warlockAtSpells(svc progression.Service) *progression.Session {
	warlock := s.store(builders.NewCharacterBuilder().
		WithID("char-warlock").
		WithClass(dnd5e.ClassWarlock).
		WithAbility(dnd5e.AbilityCharisma, 16).
		WithTemplateResources(s.registry).
		Build())

	started, err := svc.StartProgression(s.ctx, &progression.StartProgressionInput{CharacterID: warlock.ID})
	s.Require().NoError(err)
	_, err = svc.SubmitHPChoice(s.ctx, &progression.SubmitHPChoiceInput{
		SessionID: started.Session.ID,
		Method:    dnd5e.HPMethodAverage,
	})
	s.Require().NoError(err)
	out, err := svc.SubmitFeatureChoices(s.ctx, &progression.SubmitFeatureChoicesInput{
		SessionID: started.Session.ID,
		Features: []dnd5e.FeatureSelection{
			{FeatureID: "eldritch_invocations_2", Selections: []string{"agonizing_blast", "mask_of_many_faces"}},
		},
	})
	s.Require().NoError(err)
	s.Require().Equal(wizard.StateCollectingSpellChoices, out.Session.Progress.State)
	return out.Session
}

func (s *OrchestratorTestSuite) catalogService(catalog external.Client) progression.Service {
	svc, err := progression.NewOrchestrator(&progression.Config{
		CharacterRepo: s.repo,
		Calculator:    s.calc,
		IDGenerator:   idgen.NewSequential("catalog"),
		Clock:         s.clock,
		SpellCatalog:  catalog,
		Logger:        zaptest.NewLogger(s.T()),
	})
	s.Require().NoError(err)
	return svc
}

func (s *OrchestratorTestSuite) TestSpellCatalogRejectsOffListSpell() {
	ctrl := gomock.NewController(s.T())
	catalog := externalmock.NewMockClient(ctrl)
	svc := s.catalogService(catalog)
	session := s.warlockAtSpells(svc)

	mocks.ExpectClassSpellList(catalog, dnd5e.ClassWarlock, 1, "hex", "witch_bolt").Times(2)

	_, err := svc.SubmitSpellChoices(s.ctx, &progression.SubmitSpellChoicesInput{
		SessionID: session.ID,
		Spells:    []dnd5e.KnownSpell{{ID: "cure_wounds", Level: 1}},
	})
	s.Require().Error(err)
	s.Assert().Equal(progression.RuleSpellNotOnList, errors.GetRule(err))
	s.Assert().Equal("cure_wounds", errors.GetMeta(err)[errors.MetaSpellID])

	out, err := svc.SubmitSpellChoices(s.ctx, &progression.SubmitSpellChoicesInput{
		SessionID: session.ID,
		Spells:    []dnd5e.KnownSpell{{ID: "hex", Level: 1}},
	})
	s.Require().NoError(err)
	s.Assert().Equal(wizard.StateConfirming, out.Session.Progress.State)
}

func (s *OrchestratorTestSuite) TestSpellCatalogOutageSkipsCheck() {
	ctrl := gomock.NewController(s.T())
	catalog := externalmock.NewMockClient(ctrl)
	svc := s.catalogService(catalog)
	session := s.warlockAtSpells(svc)

	mocks.ExpectCatalogOutage(catalog)

	out, err := svc.SubmitSpellChoices(s.ctx, &progression.SubmitSpellChoicesInput{
		SessionID: session.ID,
		Spells:    []dnd5e.KnownSpell{{ID: "hex", Level: 1}},
	})
	s.Require().NoError(err)
	s.Assert().Equal(wizard.StateConfirming, out.Session.Progress.State)
}
