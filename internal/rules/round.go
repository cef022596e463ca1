package rules

import (
	"math/rand"

	"tactics-arena/internal/model"
)

// roundEightPressure is the round from which every alive unit additionally
// loses 1 hp at round end (spec.md §4.5 step 4).
const roundEightPressure = 8

// advanceTurn implements the exhaustion rule: turn passes to the opponent
// if they have any alive unit with actionsUsed == 0; otherwise it stays
// with the current side until they too run out, at which point the round
// ends. actingPlayer is whoever just finished an action (or, for a
// DEATH_CHOICE resolution, the player whose attack raised the interrupt).
func advanceTurn(s *model.GameState, actingPlayer model.PlayerID, rng *rand.Rand) {
	opponent := actingPlayer.Opponent()
	switch {
	case s.HasUnactedUnits(opponent):
		s.CurrentPlayer = opponent
	case s.HasUnactedUnits(actingPlayer):
		s.CurrentPlayer = actingPlayer
	default:
		endRound(s)
		s.CurrentPlayer = model.P1
	}
	checkGameOver(s, actingPlayer)
	if !s.GameOver {
		resolvePreparedActions(s, rng)
	}
}

// endRound runs the fixed ten-step round-end bookkeeping from spec.md
// §4.5. Game-over is re-checked by the caller (advanceTurn) once this
// returns, matching step 10.
func endRound(s *model.GameState) {
	tickBuffDurations(s)
	tickBleed(s)
	tickMinionDecay(s)
	if s.CurrentRound >= roundEightPressure {
		tickRoundEightPressure(s)
	}
	tickTemporaryUnits(s)
	tickSkillCooldowns(s)
	expireBuffTiles(s)
	resetActionsUsed(s)
	s.CurrentRound++
}

func tickBuffDurations(s *model.GameState) {
	for id, list := range s.UnitBuffs {
		var out []model.BuffInstance
		for _, b := range list {
			b.Duration--
			if b.Duration > 0 {
				out = append(out, b)
			}
		}
		s.UnitBuffs[id] = out
	}
}

func tickBleed(s *model.GameState) {
	for _, u := range s.Units {
		if u.Alive && s.HasFlag(u.ID, func(f model.BuffFlags) bool { return f.BleedBuff }) {
			applyDirectDamage(s, u.ID, 1)
		}
	}
}

func tickMinionDecay(s *model.GameState) {
	for _, u := range s.Units {
		if u.Alive && u.Category == model.CategoryMinion {
			applyDirectDamage(s, u.ID, 1)
		}
	}
}

func tickRoundEightPressure(s *model.GameState) {
	for _, u := range s.Units {
		if u.Alive {
			applyDirectDamage(s, u.ID, 1)
		}
	}
}

func tickTemporaryUnits(s *model.GameState) {
	for i, u := range s.Units {
		if !u.Alive || !u.Temporary {
			continue
		}
		u.TemporaryDuration--
		if u.TemporaryDuration <= 0 {
			u.Alive = false
			u.HP = 0
		}
		s.Units[i] = u
	}
}

func tickSkillCooldowns(s *model.GameState) {
	for i, u := range s.Units {
		if u.SkillCooldown > 0 {
			s.Units[i].SkillCooldown--
		}
	}
}

func expireBuffTiles(s *model.GameState) {
	var out []model.BuffTile
	for _, t := range s.BuffTiles {
		t.Duration--
		if t.Duration > 0 {
			out = append(out, t)
		}
	}
	s.BuffTiles = out
}

func resetActionsUsed(s *model.GameState) {
	for i, u := range s.Units {
		if u.Alive {
			s.Units[i].ActionsUsed = 0
		}
	}
	s.TurnEnded = map[model.PlayerID]bool{}
}

// resolvePreparedActions auto-executes any stored preparingAction for a
// unit now belonging to the current player, per the SLOW-skill deferral
// in spec.md §4.2/§4.5. It runs the skill's effect directly — the action
// slot was already spent the round it was queued — and clears the
// preparing state of each unit it runs. With a nil rng it does nothing,
// and any preparing state is left in place.
func resolvePreparedActions(s *model.GameState, rng *rand.Rand) {
	if rng == nil {
		return
	}
	for _, u := range s.Units {
		if !u.Alive || u.Owner != s.CurrentPlayer || !u.Preparing || u.PreparingAction == nil {
			continue
		}
		stored := *u.PreparingAction
		u.Preparing = false
		u.PreparingAction = nil
		setUnit(s, u)
		executeSkillEffect(s, rng, u.ID, stored)
	}
}
