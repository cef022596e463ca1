package rules

import (
	"math/rand"

	"tactics-arena/internal/model"
)

// Apply executes a validated action against state and returns the
// resulting state. Callers must run Validate first — Apply trusts its
// input completely and never rolls back (spec.md §4.2). rng is the
// match's per-match seeded source, owned by the caller, consumed in a
// fixed deterministic order by AoE/multi-target effects.
func Apply(state model.GameState, playerID model.PlayerID, action model.Action, rng *rand.Rand) model.GameState {
	s := state.Clone()
	s.Sequence++

	switch action.Type {
	case model.ActionMove:
		applyMove(&s, playerID, action, rng)
	case model.ActionAttack:
		applyAttack(&s, playerID, action, rng)
	case model.ActionMoveAndAttack:
		applyMoveAndAttack(&s, playerID, action, rng)
	case model.ActionUseSkill:
		applyUseSkill(&s, playerID, action, rng)
	case model.ActionEndTurn:
		applyEndTurnAction(&s, playerID, action, rng)
	case model.ActionDeathChoice:
		applyDeathChoiceAction(&s, action, rng)
	}

	checkGameOver(&s, playerID)
	return s
}

// finishAction marks one action slot spent for unitID and hands the turn
// to whoever should act next, per the exhaustion rule in spec.md §4.5.
// It is the shared tail of every acting-unit action (not END_TURN's
// legacy all-units form, which has its own bookkeeping). A death choice
// raised by this same action interrupts that handoff: turn/round
// advancement waits until applyDeathChoiceAction resolves it.
func finishAction(s *model.GameState, unitID string, actingPlayer model.PlayerID, rng *rand.Rand) {
	if u, ok := s.UnitByID(unitID); ok {
		u.ActionsUsed++
		setUnit(s, u)
	}
	if s.PendingDeathChoice != nil {
		return
	}
	advanceTurn(s, actingPlayer, rng)
}
