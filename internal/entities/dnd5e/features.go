package dnd5e

// ClassFeature is a feature a class unlocks at a level. Ids are unique within a class.
type ClassFeature struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Level          int            `json:"level" yaml:"level"`
	RequiresChoice bool           `json:"requires_choice,omitempty" yaml:"requires_choice"`
	ChoiceType     ChoiceType     `json:"choice_type,omitempty" yaml:"choice_type"`
	Options        []string       `json:"options,omitempty" yaml:"options"`
	Grant          *ResourceGrant `json:"grant,omitempty" yaml:"grant"`
}

// HasOption reports whether id is in the feature's allowed set
func (f ClassFeature) HasOption(id string) bool {
	for _, o := range f.Options {
		if o == id {
			return true
		}
	}
	return false
}

// ResourceGrant describes the pool a feature creates or rescales
type ResourceGrant struct {
	PoolID   string       `json:"pool_id" yaml:"pool_id"`
	Name     string       `json:"name" yaml:"name"`
	Max      MaxFormula   `json:"max" yaml:"max"`
	Recharge RechargeKind `json:"recharge" yaml:"recharge"`

	// RechargeSteps switch the recharge policy from a level onward (e.g. to
	// short_rest at 5, or to passive when a pool becomes unlimited)
	RechargeSteps []RechargeStep `json:"recharge_steps,omitempty" yaml:"recharge_steps"`
}

// RechargeStep overrides the grant's recharge from Level onward
type RechargeStep struct {
	Level    int          `json:"level" yaml:"level"`
	Recharge RechargeKind `json:"recharge" yaml:"recharge"`
}

// MaxFormula computes a pool maximum:
// step value (or Base) + PerLevel*level + ability modifier, floored at Minimum.
type MaxFormula struct {
	Base     int          `json:"base,omitempty" yaml:"base"`
	PerLevel int          `json:"per_level,omitempty" yaml:"per_level"`
	Ability  string       `json:"ability,omitempty" yaml:"ability"`
	Minimum  int          `json:"minimum,omitempty" yaml:"minimum"`
	Steps    []LevelValue `json:"steps,omitempty" yaml:"steps"`
}

// LevelValue is one row of a level-indexed table
type LevelValue struct {
	Level int `json:"level" yaml:"level"`
	Value int `json:"value" yaml:"value"`
}

// ASIChoice is one ability bump of an ability score improvement
type ASIChoice struct {
	Ability string `json:"ability"`
	Bonus   int    `json:"bonus"`
}

// FeatureSelection records the option picked for a choice-bearing feature.
// Invocation features take several ids in Selections; the rest take one.
type FeatureSelection struct {
	FeatureID  string   `json:"feature_id"`
	Selections []string `json:"selections"`
}
