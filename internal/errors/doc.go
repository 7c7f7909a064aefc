// Package errors provides the structured error type used across rpg-progression.
//
// Every error carries a Code, a user-facing Message, an optional Cause and a Meta map.
// Codes map one-to-one onto gRPC status codes so handlers can convert with ToGRPCError.
//
// # Progression taxonomy
//
// The advancement rules surface four kinds of failure, each with a constructor and a
// predicate:
//
//	errors.Validation(rule, msg)        // INVALID_ARGUMENT, Meta["rule"] names the violated rule
//	errors.PoolExhausted(poolID)        // RESOURCE_EXHAUSTED, spend attempted at zero
//	errors.UnknownClass(classID)        // FAILED_PRECONDITION, used as a warning value only
//	errors.CommitConflict(id, exp, got) // ABORTED, persistence rejected a stale delta
//
// Validation and PoolExhausted are recoverable and re-presented to the player. A
// CommitConflict means the caller must reload the character and recompute; deltas are
// never merged blindly.
//
// # Wrapping
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load character")
//	}
//
// Wrap keeps the code of a wrapped *Error so IsNotFound and friends still work up the stack.
//
// # Config validation
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Repository == nil {
//	    vb.RequiredField("Repository")
//	}
//	return vb.Build()
package errors
