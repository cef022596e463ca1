package rules

import (
	"math/rand"

	"tactics-arena/internal/model"
)

// execEndure: Self — add 3 shield, remove BLEED.
func execEndure(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	u, ok := s.UnitByID(casterID)
	if !ok {
		return
	}
	u.Shield += 3
	setUnit(s, u)
	removeBuffOfType(s, casterID, model.BuffBleed)
}

// execHeroicLeap: single empty tile (range 3) — teleport caster, then 2
// damage to every enemy adjacent to the landing cell.
func execHeroicLeap(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	target, ok := action.TargetPosition()
	if !ok {
		return
	}
	u, ok := s.UnitByID(casterID)
	if !ok {
		return
	}
	if _, occupied := s.UnitAt(target); occupied {
		return
	}
	if obs, present := s.ObstacleAt(target); present && !obs.Destroyed() {
		return
	}
	u.Position = target
	setUnit(s, u)
	triggerBuffTile(s, casterID, target)

	for _, enemy := range sortedAliveUnits(*s, func(c model.Unit) bool {
		return c.Owner != u.Owner && model.Adjacent(c.Position, target)
	}) {
		runDamagePipeline(s, casterID, enemy.ID, 2, false)
	}
}

// execShockwave: area around self (adjacent) — 1 damage to each adjacent
// enemy, then push each 1 cell directly away (blocked if the destination
// is occupied).
func execShockwave(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	u, ok := s.UnitByID(casterID)
	if !ok {
		return
	}
	targets := sortedAliveUnits(*s, func(c model.Unit) bool {
		return c.Owner != u.Owner && model.Adjacent(c.Position, u.Position)
	})
	for _, t := range targets {
		runDamagePipeline(s, casterID, t.ID, 1, false)
		pushAwayFrom(s, u.Position, t.ID)
	}
}

// pushAwayFrom moves unit away by one cell along the vector from origin,
// if that cell is in bounds and unoccupied; otherwise the unit stays put.
func pushAwayFrom(s *model.GameState, origin model.Position, unitID string) {
	u, ok := s.UnitByID(unitID)
	if !ok || !u.Alive {
		return
	}
	dx := sign(u.Position.X - origin.X)
	dy := sign(u.Position.Y - origin.Y)
	dest := model.Position{X: u.Position.X + dx, Y: u.Position.Y + dy}
	if !dest.InBounds() {
		return
	}
	if _, occupied := s.UnitAt(dest); occupied {
		return
	}
	if obs, present := s.ObstacleAt(dest); present && !obs.Destroyed() {
		return
	}
	u.Position = dest
	setUnit(s, u)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
