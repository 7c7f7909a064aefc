package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
)

// RestResult describes what a rest restored
type RestResult struct {
	Kind dnd5e.RestKind `json:"kind"`
	// Refilled lists the pools that were below max, as they are after the rest
	Refilled        []dnd5e.ResourcePool `json:"refilled"`
	HPRestored      int                  `json:"hp_restored"`
	HitDiceRegained int                  `json:"hit_dice_regained"`
	Character       *dnd5e.Character     `json:"character"`
}

// HitDiceResult describes a short-rest hit dice spend
type HitDiceResult struct {
	Rolls     []int            `json:"rolls"`
	Healed    int              `json:"healed"`
	Character *dnd5e.Character `json:"character"`
}

// Rest refills every pool whose recharge policy matches the rest: short-rest
// pools on either rest, long-rest pools on a long rest only. A long rest also
// restores HP to max and regains half the character's hit dice (minimum one).
// Passive pools are untouched.
func (l *Ledger) Rest(ctx context.Context, kind dnd5e.RestKind) (*RestResult, error) {
	if kind != dnd5e.RestShort && kind != dnd5e.RestLong {
		return nil, errors.InvalidArgumentf("rest kind must be %q or %q, got %q", dnd5e.RestShort, dnd5e.RestLong, kind)
	}

	result := &RestResult{Kind: kind}
	err := l.mutate(ctx, func(next *dnd5e.Character) (bool, error) {
		for i := range next.Resources {
			p := &next.Resources[i]
			if !p.RefillsOn(kind) || p.Current >= p.Max {
				continue
			}
			p.Current = p.Max
			result.Refilled = append(result.Refilled, *p)
		}

		if kind == dnd5e.RestLong {
			result.HPRestored = max(next.MaxHP-next.CurrentHP, 0)
			next.CurrentHP = max(next.CurrentHP, next.MaxHP)

			regain := max(next.Level/2, 1)
			before := next.HitDiceRemaining
			next.HitDiceRemaining = min(next.HitDiceRemaining+regain, next.Level)
			result.HitDiceRegained = next.HitDiceRemaining - before
		}

		return len(result.Refilled) > 0 || result.HPRestored > 0 || result.HitDiceRegained > 0, nil
	})
	if err != nil {
		return nil, err
	}

	result.Character = l.Snapshot()

	l.logger.Info("rest completed",
		zap.String("kind", string(kind)),
		zap.Int("pools_refilled", len(result.Refilled)),
		zap.Int("hp_restored", result.HPRestored),
		zap.Int("hit_dice_regained", result.HitDiceRegained))

	return result, nil
}

// SpendHitDice spends count hit dice to heal during a short rest. Each die
// heals its roll plus the CON modifier, at least 1, and total HP never exceeds
// max. Rolls may be supplied (one per die, each within the die) or are rolled.
func (l *Ledger) SpendHitDice(ctx context.Context, count int, rolls []int) (*HitDiceResult, error) {
	if count < 1 {
		return nil, errors.InvalidArgumentf("hit dice count must be at least 1, got %d", count)
	}
	if len(rolls) > 0 && len(rolls) != count {
		return nil, errors.InvalidArgumentf("got %d rolls for %d hit dice", len(rolls), count)
	}

	snapshot := l.Snapshot()
	die := l.rules.HitDie(snapshot.ClassID)
	for _, r := range rolls {
		if r < 1 || r > die {
			return nil, errors.InvalidArgumentf("hit die roll %d is outside 1-%d", r, die)
		}
	}

	result := &HitDiceResult{}
	err := l.mutate(ctx, func(next *dnd5e.Character) (bool, error) {
		if next.HitDiceRemaining < count {
			return false, errors.FailedPreconditionf("only %d hit dice remaining, cannot spend %d",
				next.HitDiceRemaining, count)
		}

		result.Rolls = append([]int(nil), rolls...)
		if len(result.Rolls) == 0 {
			for i := 0; i < count; i++ {
				r, err := l.roller.Roll(die)
				if err != nil {
					return false, errors.Wrapf(err, "failed to roll d%d", die)
				}
				result.Rolls = append(result.Rolls, r)
			}
		}

		con := next.AbilityScores.Modifier(dnd5e.AbilityConstitution)
		healing := 0
		for _, r := range result.Rolls {
			healing += max(r+con, 1)
		}

		before := next.CurrentHP
		next.CurrentHP = min(next.CurrentHP+healing, next.MaxHP)
		next.HitDiceRemaining -= count
		result.Healed = next.CurrentHP - before
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	result.Character = l.Snapshot()

	l.logger.Debug("spent hit dice",
		zap.Int("count", count),
		zap.Ints("rolls", result.Rolls),
		zap.Int("healed", result.Healed))

	return result, nil
}
