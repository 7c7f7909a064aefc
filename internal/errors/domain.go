package errors

import "fmt"

// Meta keys attached by the progression constructors
const (
	MetaRule      = "rule"
	MetaPoolID    = "pool_id"
	MetaClassID   = "class_id"
	MetaCharacter = "character_id"
	MetaExpected  = "expected_version"
	MetaActual    = "actual_version"
	MetaAbilities = "abilities"
	MetaFeatureID = "feature_id"
	MetaPredicate = "predicate"
	MetaSpellID   = "spell_id"
)

// Validation creates a choice-validation error naming the violated rule.
func Validation(rule, message string) *Error {
	return New(CodeInvalidArgument, message).WithMeta(MetaRule, rule)
}

// Validationf creates a choice-validation error with a formatted message.
func Validationf(rule, format string, args ...interface{}) *Error {
	return Validation(rule, fmt.Sprintf(format, args...))
}

// PoolExhausted reports a spend against a pool with no uses left.
func PoolExhausted(poolID string) *Error {
	return Newf(CodeResourceExhausted, "resource pool %s has no uses remaining", poolID).
		WithMeta(MetaPoolID, poolID)
}

// UnknownClass describes a class identifier missing from the rule tables. It is reported
// as a warning alongside the baseline fallback profile, never returned as a failure.
func UnknownClass(classID string) *Error {
	return Newf(CodeFailedPrecondition,
		"class %q is not in the rule tables; using baseline non-caster profile (d8, no features, no slots)",
		classID).WithMeta(MetaClassID, classID)
}

// CommitConflict reports that persistence rejected a delta computed against a stale snapshot.
func CommitConflict(characterID string, expected, actual int64) *Error {
	return Newf(CodeAborted,
		"character %s changed since the delta was computed (expected version %d, found %d); reload and recompute",
		characterID, expected, actual).
		WithMeta(MetaCharacter, characterID).
		WithMeta(MetaExpected, expected).
		WithMeta(MetaActual, actual)
}

// TransitionBlocked reports a forward wizard transition whose predicate does not hold.
func TransitionBlocked(predicate string, cause error) *Error {
	e := Newf(CodeFailedPrecondition, "cannot advance: %s not satisfied", predicate).
		WithMeta(MetaPredicate, predicate)
	e.Cause = cause
	return e
}

// IsValidation checks if an error is a choice-validation error
func IsValidation(err error) bool {
	return GetCode(err) == CodeInvalidArgument && GetRule(err) != ""
}

// IsPoolExhausted checks if an error is a pool-exhausted error
func IsPoolExhausted(err error) bool {
	return GetCode(err) == CodeResourceExhausted
}

// IsCommitConflict checks if an error is a commit conflict
func IsCommitConflict(err error) bool {
	return GetCode(err) == CodeAborted
}

// GetRule returns the violated rule name recorded on a validation error.
func GetRule(err error) string {
	rule, _ := GetMeta(err)[MetaRule].(string)
	return rule
}
