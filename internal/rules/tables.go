package rules

import (
	"sort"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
)

// StandardASILevels are the ability score improvement levels shared by every class
var StandardASILevels = []int{4, 8, 12, 16, 19}

// fullCasterTable rows are character levels 1-20, columns spell levels 1-9
var fullCasterTable = [20][9]int{
	{2, 0, 0, 0, 0, 0, 0, 0, 0},
	{3, 0, 0, 0, 0, 0, 0, 0, 0},
	{4, 2, 0, 0, 0, 0, 0, 0, 0},
	{4, 3, 0, 0, 0, 0, 0, 0, 0},
	{4, 3, 2, 0, 0, 0, 0, 0, 0},
	{4, 3, 3, 0, 0, 0, 0, 0, 0},
	{4, 3, 3, 1, 0, 0, 0, 0, 0},
	{4, 3, 3, 2, 0, 0, 0, 0, 0},
	{4, 3, 3, 3, 1, 0, 0, 0, 0},
	{4, 3, 3, 3, 2, 0, 0, 0, 0},
	{4, 3, 3, 3, 2, 1, 0, 0, 0},
	{4, 3, 3, 3, 2, 1, 0, 0, 0},
	{4, 3, 3, 3, 2, 1, 1, 0, 0},
	{4, 3, 3, 3, 2, 1, 1, 0, 0},
	{4, 3, 3, 3, 2, 1, 1, 1, 0},
	{4, 3, 3, 3, 2, 1, 1, 1, 0},
	{4, 3, 3, 3, 2, 1, 1, 1, 1},
	{4, 3, 3, 3, 3, 1, 1, 1, 1},
	{4, 3, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 3, 2, 2, 1, 1},
}

// pact magic: slot count and the single slot level, by character level
var (
	pactSlotCount = []dnd5e.LevelValue{{Level: 1, Value: 1}, {Level: 2, Value: 2}, {Level: 11, Value: 3}, {Level: 17, Value: 4}}
	pactSlotLevel = []dnd5e.LevelValue{{Level: 1, Value: 1}, {Level: 3, Value: 2}, {Level: 5, Value: 3}, {Level: 7, Value: 4}, {Level: 9, Value: 5}}
)

func fullCasterSlots(level int) dnd5e.SpellSlotTable {
	if level < 1 || level > len(fullCasterTable) {
		return nil
	}
	table := dnd5e.SpellSlotTable{}
	for i, n := range fullCasterTable[level-1] {
		if n > 0 {
			table[i+1] = n
		}
	}
	return table
}

func pactSlots(level int) dnd5e.SpellSlotTable {
	count := stepValue(pactSlotCount, level, 0)
	if count == 0 {
		return nil
	}
	return dnd5e.SpellSlotTable{stepValue(pactSlotLevel, level, 1): count}
}

// stepValue returns the value of the highest step at or below level
func stepValue(steps []dnd5e.LevelValue, level, fallback int) int {
	sorted := append([]dnd5e.LevelValue(nil), steps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	v := fallback
	for _, s := range sorted {
		if s.Level > level {
			break
		}
		v = s.Value
	}
	return v
}

// resolveGrant evaluates a grant's formula and recharge policy at level.
// A grant that has turned passive yields an uncounted pool.
func resolveGrant(g *dnd5e.ResourceGrant, classID string, level int, scores dnd5e.AbilityScores) dnd5e.ResourcePool {
	pool := dnd5e.ResourcePool{
		ID:       g.PoolID,
		Name:     g.Name,
		ClassID:  classID,
		Recharge: g.Recharge,
	}

	steps := append([]dnd5e.RechargeStep(nil), g.RechargeSteps...)
	sort.Slice(steps, func(i, j int) bool { return steps[i].Level < steps[j].Level })
	for _, s := range steps {
		if s.Level > level {
			break
		}
		pool.Recharge = s.Recharge
	}
	if pool.Recharge == dnd5e.RechargePassive {
		return pool
	}

	f := g.Max
	n := stepValue(f.Steps, level, f.Base) + f.PerLevel*level
	if f.Ability != "" {
		n += scores.Modifier(f.Ability)
	}
	if n < f.Minimum {
		n = f.Minimum
	}
	if n < 0 {
		n = 0
	}
	pool.Max = n
	pool.Current = n
	return pool
}
