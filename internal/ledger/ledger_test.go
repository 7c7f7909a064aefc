package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/ledger"
	ledgermock "github.com/KirkDiggler/rpg-progression/internal/ledger/mock"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
	"github.com/KirkDiggler/rpg-progression/internal/testutils/builders"
)

type fixedRoller struct {
	value int
	calls int
}

func (r *fixedRoller) Roll(_ int) (int, error) {
	r.calls++
	return r.value, nil
}

func (r *fixedRoller) RollN(count, _ int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		r.calls++
		out[i] = r.value
	}
	return out, nil
}

var (
	secondWind = dnd5e.ResourcePool{ID: "second_wind", Name: "Second Wind", Max: 1, Current: 1, Recharge: dnd5e.RechargeShortRest}
	ki         = dnd5e.ResourcePool{ID: "ki", Name: "Ki", Max: 4, Current: 0, Recharge: dnd5e.RechargeShortRest}
	rage       = dnd5e.ResourcePool{ID: "rage", Name: "Rage", Max: 3, Current: 0, Recharge: dnd5e.RechargeLongRest}
	unlimited  = dnd5e.ResourcePool{ID: "unlimited_rage", Name: "Rage", Recharge: dnd5e.RechargePassive}
)

type LedgerTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *ledgermock.MockStore
	registry *rules.Registry
	roller   *fixedRoller
	ctx      context.Context
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = ledgermock.NewMockStore(s.ctrl)
	s.roller = &fixedRoller{value: 1}
	s.ctx = context.Background()

	var err error
	s.registry, err = rules.NewRegistry(nil)
	s.Require().NoError(err)
}

func (s *LedgerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *LedgerTestSuite) newLedger(c *dnd5e.Character, store ledger.Store) *ledger.Ledger {
	l, err := ledger.New(&ledger.Config{
		Character: c,
		Rules:     s.registry,
		Store:     store,
		Roller:    s.roller,
		Logger:    zaptest.NewLogger(s.T()),
	})
	s.Require().NoError(err)
	return l
}

func (s *LedgerTestSuite) TestNewValidation() {
	_, err := ledger.New(nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = ledger.New(&ledger.Config{Rules: s.registry})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = ledger.New(&ledger.Config{Character: &dnd5e.Character{}, Rules: s.registry})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *LedgerTestSuite) TestLedgerCopiesCharacter() {
	c := builders.NewCharacterBuilder().WithPool(secondWind).Build()
	l := s.newLedger(c, nil)

	c.Resources[0].Current = 0
	pool, err := l.Pool("second_wind")
	s.Require().NoError(err)
	s.Assert().Equal(1, pool.Current)
}

func (s *LedgerTestSuite) TestSpend() {
	l := s.newLedger(builders.NewCharacterBuilder().WithPool(secondWind).WithPool(ki).Build(), nil)

	pool, err := l.Spend(s.ctx, "second_wind")
	s.Require().NoError(err)
	s.Assert().Equal(0, pool.Current)

	s.Run("exhausted pool fails and stays at zero", func() {
		_, err := l.Spend(s.ctx, "second_wind")
		s.Require().Error(err)
		s.Assert().True(errors.IsPoolExhausted(err))
		s.Assert().Equal("second_wind", errors.GetMeta(err)[errors.MetaPoolID])

		pool, err := l.Pool("second_wind")
		s.Require().NoError(err)
		s.Assert().Equal(0, pool.Current)
	})

	s.Run("pool at zero from the start", func() {
		_, err := l.Spend(s.ctx, "ki")
		s.Assert().True(errors.IsPoolExhausted(err))
	})

	s.Run("unknown pool", func() {
		_, err := l.Spend(s.ctx, "bardic_inspiration")
		s.Assert().True(errors.IsNotFound(err))
	})
}

func (s *LedgerTestSuite) TestSpendPassiveDoesNotWrite() {
	// the mock has no expectations, so any store call fails the test
	l := s.newLedger(builders.NewCharacterBuilder().WithPool(unlimited).Build(), s.store)

	for i := 0; i < 3; i++ {
		pool, err := l.Spend(s.ctx, "unlimited_rage")
		s.Require().NoError(err)
		s.Assert().True(pool.IsPassive())
		s.Assert().Equal(0, pool.Current)
	}
}

func (s *LedgerTestSuite) TestRecover() {
	l := s.newLedger(builders.NewCharacterBuilder().WithPool(ki).WithPool(unlimited).Build(), nil)

	pool, err := l.Recover(s.ctx, "ki", 0)
	s.Require().NoError(err)
	s.Assert().Equal(1, pool.Current, "zero recovers one")

	pool, err = l.Recover(s.ctx, "ki", 10)
	s.Require().NoError(err)
	s.Assert().Equal(4, pool.Current, "clamped to max")

	_, err = l.Recover(s.ctx, "ki", -1)
	s.Assert().True(errors.IsInvalidArgument(err))

	pool, err = l.Recover(s.ctx, "unlimited_rage", 2)
	s.Require().NoError(err)
	s.Assert().Equal(0, pool.Current)

	_, err = l.Recover(s.ctx, "missing", 1)
	s.Assert().True(errors.IsNotFound(err))
}

func (s *LedgerTestSuite) TestShortRest() {
	spentWind := secondWind
	spentWind.Current = 0
	l := s.newLedger(builders.NewCharacterBuilder().
		WithLevel(4).
		WithHP(30, 12).
		WithHitDice(1).
		WithPool(spentWind).
		WithPool(rage).
		Build(), nil)

	result, err := l.Rest(s.ctx, dnd5e.RestShort)
	s.Require().NoError(err)
	s.Require().Len(result.Refilled, 1)
	s.Assert().Equal("second_wind", result.Refilled[0].ID)
	s.Assert().Equal(0, result.HPRestored)
	s.Assert().Equal(0, result.HitDiceRegained)

	s.Assert().Equal(1, result.Character.FindResource("second_wind").Current)
	s.Assert().Equal(0, result.Character.FindResource("rage").Current, "long rest pools wait for a long rest")
	s.Assert().Equal(12, result.Character.CurrentHP)
}

func (s *LedgerTestSuite) TestLongRest() {
	l := s.newLedger(builders.NewCharacterBuilder().
		WithLevel(5).
		WithHP(44, 7).
		WithHitDice(1).
		WithPool(ki).
		WithPool(rage).
		WithPool(unlimited).
		Build(), nil)

	result, err := l.Rest(s.ctx, dnd5e.RestLong)
	s.Require().NoError(err)
	s.Assert().Len(result.Refilled, 2)
	s.Assert().Equal(37, result.HPRestored)
	s.Assert().Equal(2, result.HitDiceRegained)

	c := result.Character
	s.Assert().Equal(44, c.CurrentHP)
	s.Assert().Equal(3, c.HitDiceRemaining)
	s.Assert().Equal(4, c.FindResource("ki").Current)
	s.Assert().Equal(3, c.FindResource("rage").Current)
	s.Assert().Equal(unlimited, *c.FindResource("unlimited_rage"))

	s.Run("hit dice never exceed level", func() {
		result, err := l.Rest(s.ctx, dnd5e.RestLong)
		s.Require().NoError(err)
		s.Assert().Equal(2, result.HitDiceRegained)
		s.Assert().Equal(5, result.Character.HitDiceRemaining)

		result, err = l.Rest(s.ctx, dnd5e.RestLong)
		s.Require().NoError(err)
		s.Assert().Equal(0, result.HitDiceRegained)
		s.Assert().Empty(result.Refilled)
	})
}

func (s *LedgerTestSuite) TestLongRestRegainsAtLeastOneHitDie() {
	l := s.newLedger(builders.NewCharacterBuilder().WithHitDice(0).Build(), nil)

	result, err := l.Rest(s.ctx, dnd5e.RestLong)
	s.Require().NoError(err)
	s.Assert().Equal(1, result.HitDiceRegained)
}

func (s *LedgerTestSuite) TestRestRejectsUnknownKind() {
	l := s.newLedger(builders.NewCharacterBuilder().Build(), nil)

	_, err := l.Rest(s.ctx, dnd5e.RestKind("nap"))
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *LedgerTestSuite) TestConcurrentSpendOfSingleUsePool() {
	l := s.newLedger(builders.NewCharacterBuilder().WithPool(secondWind).Build(), nil)

	const spenders = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		exhausted int
	)
	for i := 0; i < spenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Spend(s.ctx, "second_wind")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.IsPoolExhausted(err):
				exhausted++
			}
		}()
	}
	wg.Wait()

	s.Assert().Equal(1, succeeded)
	s.Assert().Equal(spenders-1, exhausted)

	pool, err := l.Pool("second_wind")
	s.Require().NoError(err)
	s.Assert().Equal(0, pool.Current)
}

func (s *LedgerTestSuite) TestStoreFailureLeavesStateUnchanged() {
	c := builders.NewCharacterBuilder().WithPool(secondWind).WithVersion(3).Build()
	l := s.newLedger(c, s.store)

	s.store.EXPECT().
		SaveResources(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input character.SaveResourcesInput) (*character.SaveResourcesOutput, error) {
			s.Assert().Equal(0, input.Character.FindResource("second_wind").Current)
			s.Assert().Equal(int64(3), input.Character.Version)
			return nil, errors.CommitConflict(c.ID, 3, 4)
		})

	_, err := l.Spend(s.ctx, "second_wind")
	s.Require().Error(err)
	s.Assert().True(errors.IsCommitConflict(err))

	snapshot := l.Snapshot()
	s.Assert().Equal(1, snapshot.FindResource("second_wind").Current)
	s.Assert().Equal(int64(3), snapshot.Version)
}

func (s *LedgerTestSuite) TestPersistsThroughRepository() {
	repo := character.NewInMemory(&character.MemoryConfig{
		Clock: clock.NewManual(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)),
	})
	created, err := repo.Create(s.ctx, character.CreateInput{
		Character: builders.NewCharacterBuilder().WithPool(secondWind).Build(),
	})
	s.Require().NoError(err)

	first := s.newLedger(created.Character, repo)
	stale := s.newLedger(created.Character, repo)

	_, err = first.Spend(s.ctx, "second_wind")
	s.Require().NoError(err)
	s.Assert().Equal(created.Character.Version+1, first.Snapshot().Version)

	got, err := repo.Get(s.ctx, character.GetInput{ID: created.Character.ID})
	s.Require().NoError(err)
	s.Assert().Equal(0, got.Character.FindResource("second_wind").Current)

	_, err = stale.Spend(s.ctx, "second_wind")
	s.Require().Error(err)
	s.Assert().True(errors.IsCommitConflict(err))

	pool, err := stale.Pool("second_wind")
	s.Require().NoError(err)
	s.Assert().Equal(1, pool.Current, "a rejected write is not applied locally")
}

func (s *LedgerTestSuite) TestSpendHitDice() {
	newFighter := func() *ledger.Ledger {
		return s.newLedger(builders.NewCharacterBuilder().
			WithLevel(3).
			WithAbility(dnd5e.AbilityConstitution, 14).
			WithHP(30, 10).
			Build(), nil)
	}

	s.Run("supplied rolls add the CON modifier per die", func() {
		l := newFighter()
		result, err := l.SpendHitDice(s.ctx, 2, []int{4, 1})
		s.Require().NoError(err)
		s.Assert().Equal([]int{4, 1}, result.Rolls)
		s.Assert().Equal(9, result.Healed)
		s.Assert().Equal(19, result.Character.CurrentHP)
		s.Assert().Equal(1, result.Character.HitDiceRemaining)
		s.Assert().Zero(s.roller.calls)
	})

	s.Run("rolled dice are capped at max HP", func() {
		s.roller.value = 10
		l := newFighter()
		result, err := l.SpendHitDice(s.ctx, 3, nil)
		s.Require().NoError(err)
		s.Assert().Equal([]int{10, 10, 10}, result.Rolls)
		s.Assert().Equal(20, result.Healed)
		s.Assert().Equal(30, result.Character.CurrentHP)
		s.Assert().Equal(0, result.Character.HitDiceRemaining)
	})

	s.Run("invalid requests", func() {
		l := newFighter()

		_, err := l.SpendHitDice(s.ctx, 0, nil)
		s.Assert().True(errors.IsInvalidArgument(err))

		_, err = l.SpendHitDice(s.ctx, 2, []int{3})
		s.Assert().True(errors.IsInvalidArgument(err))

		_, err = l.SpendHitDice(s.ctx, 1, []int{11})
		s.Assert().True(errors.IsInvalidArgument(err), "fighters roll a d10")

		_, err = l.SpendHitDice(s.ctx, 4, nil)
		s.Assert().True(errors.IsFailedPrecondition(err))

		s.Assert().Equal(3, l.Snapshot().HitDiceRemaining)
	})
}

func (s *LedgerTestSuite) TestSpendHitDiceHealsAtLeastOnePerDie() {
	l := s.newLedger(builders.NewCharacterBuilder().
		WithLevel(2).
		WithAbility(dnd5e.AbilityConstitution, 3).
		WithHP(12, 2).
		Build(), nil)

	result, err := l.SpendHitDice(s.ctx, 2, []int{1, 2})
	s.Require().NoError(err)
	s.Assert().Equal(2, result.Healed)
	s.Assert().Equal(4, result.Character.CurrentHP)
}
