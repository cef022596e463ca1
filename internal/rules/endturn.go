package rules

import (
	"math/rand"

	"tactics-arena/internal/model"
)

// applyEndTurnAction exhausts either a single named unit or, in the
// legacy all-units form, every alive unacted unit the player owns, then
// advances the turn per spec.md §4.2/§4.5.
func applyEndTurnAction(s *model.GameState, playerID model.PlayerID, action model.Action, rng *rand.Rand) {
	if action.ActingUnitID != "" {
		if u, ok := s.UnitByID(action.ActingUnitID); ok {
			u.ActionsUsed = maxActions(*s, u)
			setUnit(s, u)
		}
	} else {
		if s.TurnEnded == nil {
			s.TurnEnded = map[model.PlayerID]bool{}
		}
		s.TurnEnded[playerID] = true
		for i, u := range s.Units {
			if u.Alive && u.Owner == playerID && u.ActionsUsed < maxActions(*s, u) {
				s.Units[i].ActionsUsed = maxActions(*s, u)
			}
		}
	}
	advanceTurn(s, playerID, rng)
}
