package rules

import (
	"math/rand"

	"tactics-arena/internal/model"
)

// applyMoveAndAttack composes a move then an attack under one action slot.
// The validator already confirmed a reachable cell exists; the executor
// recomputes the same deterministic choice (shortest path, lexicographic
// tie-break) rather than trusting anything the client sent for the
// intermediate cell.
func applyMoveAndAttack(s *model.GameState, playerID model.PlayerID, action model.Action, rng *rand.Rand) {
	u, ok := s.UnitByID(action.ActingUnitID)
	if !ok {
		return
	}
	tgt, ok := resolveAttackTarget(*s, u, action)
	if !ok || tgt.Unit == nil {
		return
	}
	eff, _ := s.EffectiveUnit(u.ID)

	cell, found := bestMoveAndAttackCell(*s, u, eff, tgt.Position)
	if !found {
		return
	}
	u.Position = cell
	setUnit(s, u)
	triggerBuffTile(s, u.ID, cell)

	// Re-read the acting unit's effective stats: the intervening move may
	// have triggered a buff tile that changes its effective attack.
	eff, _ = s.EffectiveUnit(u.ID)
	damage := eff.Attack + consumeBonusAttackCharge(s, u.ID)
	runDamagePipeline(s, u.ID, tgt.Unit.ID, damage, false)
	maybeRaiseDeathChoice(s, tgt.Unit.ID, playerID)

	finishAction(s, u.ID, playerID, rng)
}
