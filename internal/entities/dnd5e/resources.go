package dnd5e

// ResourcePool is a limited-use counter such as rage or ki. A passive pool has
// Max 0 and is never decremented.
type ResourcePool struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	ClassID  string       `json:"class_id"`
	Max      int          `json:"max"`
	Current  int          `json:"current"`
	Recharge RechargeKind `json:"recharge"`
}

// IsPassive reports whether the pool is unlimited
func (p ResourcePool) IsPassive() bool {
	return p.Recharge == RechargePassive
}

// RefillsOn reports whether a rest of the given kind restores this pool.
// Long rests restore both short- and long-rest pools.
func (p ResourcePool) RefillsOn(kind RestKind) bool {
	switch p.Recharge {
	case RechargeShortRest:
		return kind == RestShort || kind == RestLong
	case RechargeLongRest:
		return kind == RestLong
	default:
		return false
	}
}

// SpellSlotTable maps spell level (1-9) to slot count
type SpellSlotTable map[int]int

// Clone copies the table
func (t SpellSlotTable) Clone() SpellSlotTable {
	if t == nil {
		return nil
	}
	out := make(SpellSlotTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// MaxLevel returns the highest spell level with at least one slot
func (t SpellSlotTable) MaxLevel() int {
	highest := 0
	for lvl, n := range t {
		if n > 0 && lvl > highest {
			highest = lvl
		}
	}
	return highest
}

// SpellSlotChange is one spell level's slot count before and after a level-up.
// New is set when the count rose, including 0 to non-zero.
type SpellSlotChange struct {
	SpellLevel int  `json:"spell_level"`
	Previous   int  `json:"previous"`
	Current    int  `json:"current"`
	New        bool `json:"new"`
}
