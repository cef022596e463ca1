package rules

import (
	"math/rand"

	"tactics-arena/internal/buffs"
	"tactics-arena/internal/model"
)

// applyMove relocates the acting unit and triggers any buff tile it lands
// on, per spec.md §4.2.
func applyMove(s *model.GameState, playerID model.PlayerID, action model.Action, rng *rand.Rand) {
	u, ok := s.UnitByID(action.ActingUnitID)
	if !ok {
		return
	}
	target, ok := action.TargetPosition()
	if !ok {
		return
	}
	u.Position = target
	setUnit(s, u)

	triggerBuffTile(s, u.ID, target)

	finishAction(s, u.ID, playerID, rng)
}

// triggerBuffTile applies a tile's buff and instant HP bonus to the unit
// that just stepped on it, then consumes the tile.
func triggerBuffTile(s *model.GameState, unitID string, pos model.Position) {
	tile, ok := s.BuffTileAt(pos)
	if !ok {
		return
	}
	inst := buffs.NewWithHP(tile.BuffType, "", buffs.DefaultDuration, buffs.TileInstantHP)
	applyBuff(s, unitID, inst)
	removeBuffTile(s, tile.ID)
}
