package rules

import (
	"fmt"
	"math/rand"

	"tactics-arena/internal/model"
)

// applyDeathChoiceAction replaces the dead minion's cell with either a new
// obstacle or a new buff tile (type drawn from the RNG), clears the
// interrupt, then advances the turn as if the interrupted action had just
// completed (spec.md §4.2).
func applyDeathChoiceAction(s *model.GameState, action model.Action, rng *rand.Rand) {
	dc := s.PendingDeathChoice
	if dc == nil {
		return
	}
	pos := dc.Position

	removeObstacleAt(s, pos)
	removeBuffTileAtPos(s, pos)

	switch action.DeathChoice {
	case model.ChoiceSpawnObstacle:
		s.Obstacles = append(s.Obstacles, model.Obstacle{
			ID:       fmt.Sprintf("obstacle-%d-%d-%d", pos.X, pos.Y, len(s.Obstacles)),
			Position: pos,
			HP:       model.ObstacleHP,
		})
	case model.ChoiceSpawnBuffTile:
		buffType := model.AllBuffTypes[rng.Intn(len(model.AllBuffTypes))]
		s.BuffTiles = append(s.BuffTiles, model.BuffTile{
			ID:       fmt.Sprintf("tile-%d-%d-%d", pos.X, pos.Y, len(s.BuffTiles)),
			Position: pos,
			BuffType: buffType,
			Duration: tileDuration,
		})
	}

	// Only an attack on an enemy minion raises the interrupt, so the player
	// whose action was interrupted is always the owner's opponent.
	owner := dc.OwnerID
	s.PendingDeathChoice = nil
	advanceTurn(s, owner.Opponent(), rng)
}

// tileDuration is how long a death-choice-spawned buff tile stays on the
// board before expiring unstepped. spec.md leaves this unspecified;
// buffs.DefaultDuration's 2 rounds is reused here for consistency.
const tileDuration = 2

func removeObstacleAt(s *model.GameState, pos model.Position) {
	out := s.Obstacles[:0]
	for _, o := range s.Obstacles {
		if o.Position != pos {
			out = append(out, o)
		}
	}
	s.Obstacles = out
}

func removeBuffTileAtPos(s *model.GameState, pos model.Position) {
	out := s.BuffTiles[:0]
	for _, t := range s.BuffTiles {
		if t.Position != pos {
			out = append(out, t)
		}
	}
	s.BuffTiles = out
}
