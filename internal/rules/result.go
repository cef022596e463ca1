// Package rules is the authoritative rule engine: validation, execution,
// the skill effect table, turn/round scheduling, and game-over detection.
// Every exported entry point is a pure function over model.GameState —
// Validate never mutates, Apply always returns a new GameState. The only
// external input besides (state, action) is a deterministic *rand.Rand
// owned by the caller (the match orchestrator), matching the module's
// per-match seeded-RNG design.
package rules

import "tactics-arena/internal/model"

// Result is the validator's verdict: OK, or Invalid with a reason drawn
// from the closed ErrorKind set plus a human-readable detail for the
// wire-level validation_error message.
type Result struct {
	OK     bool
	Kind   model.ErrorKind
	Detail string
}

// Valid is the OK verdict.
func Valid() Result { return Result{OK: true} }

// Invalid builds a rejection verdict.
func Invalid(kind model.ErrorKind, detail string) Result {
	return Result{OK: false, Kind: kind, Detail: detail}
}

// Error implements the error interface so a Result can be returned or
// wrapped anywhere ordinary Go error handling is expected.
func (r Result) Error() string {
	if r.OK {
		return ""
	}
	if r.Detail == "" {
		return string(r.Kind)
	}
	return string(r.Kind) + ": " + r.Detail
}
