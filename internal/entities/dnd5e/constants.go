package dnd5e

// Class identifiers in normalized form. Inputs such as "CLASS_FIGHTER" or "Fighter"
// normalize to these values.
const (
	ClassBarbarian = "barbarian"
	ClassBard      = "bard"
	ClassCleric    = "cleric"
	ClassDruid     = "druid"
	ClassFighter   = "fighter"
	ClassMonk      = "monk"
	ClassPaladin   = "paladin"
	ClassRanger    = "ranger"
	ClassRogue     = "rogue"
	ClassSorcerer  = "sorcerer"
	ClassWarlock   = "warlock"
	ClassWizard    = "wizard"
)

// Ability constants
const (
	AbilityStrength     = "str"
	AbilityDexterity    = "dex"
	AbilityConstitution = "con"
	AbilityIntelligence = "int"
	AbilityWisdom       = "wis"
	AbilityCharisma     = "cha"
)

// Abilities lists the six ability identifiers in sheet order
var Abilities = []string{
	AbilityStrength,
	AbilityDexterity,
	AbilityConstitution,
	AbilityIntelligence,
	AbilityWisdom,
	AbilityCharisma,
}

// Ability score bounds
const (
	MinAbilityScore = 1
	MaxAbilityScore = 20
)

// Level bounds
const (
	MinLevel = 1
	MaxLevel = 20
)

// ChoiceType identifies what a feature asks the player to pick
type ChoiceType string

// Choice types
const (
	ChoiceTypeNone                    ChoiceType = "none"
	ChoiceTypeFightingStyle           ChoiceType = "fighting_style"
	ChoiceTypeSubclass                ChoiceType = "subclass"
	ChoiceTypeInvocation              ChoiceType = "invocation"
	ChoiceTypePactBoon                ChoiceType = "pact_boon"
	ChoiceTypeAbilityScoreImprovement ChoiceType = "ability_score_improvement"
)

// RechargeKind is when a resource pool refills
type RechargeKind string

// Recharge kinds
const (
	RechargeShortRest RechargeKind = "short_rest"
	RechargeLongRest  RechargeKind = "long_rest"
	RechargePassive   RechargeKind = "passive"
)

// RestKind is the kind of rest a character takes
type RestKind string

// Rest kinds
const (
	RestShort RestKind = "short"
	RestLong  RestKind = "long"
)

// HPMethod is how a level's hit point gain was determined
type HPMethod string

// HP methods
const (
	HPMethodAverage HPMethod = "average"
	HPMethodRoll    HPMethod = "roll"
)

// Entity type used when characters act as event sources
const EntityTypeCharacter = "character"

// Event types published on the rpg-toolkit bus. The source entity is the character.
const (
	EventProgressionApplied = "progression.applied"
	EventCharacterDeleted   = "character.deleted"
	EventResourceSpent      = "resource.spent"
	EventRestCompleted      = "rest.completed"
)
