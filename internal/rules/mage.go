package rules

import (
	"fmt"
	"math/rand"

	"tactics-arena/internal/buffs"
	"tactics-arena/internal/model"
)

const beaconKey = "beacon"

// execElementalBlast: single enemy (range 3) — 3 damage, 50% chance of a
// random debuff (BLEED, SLOW, or WEAKNESS).
func execElementalBlast(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	if action.SkillTargetUnitID == "" {
		return
	}
	runDamagePipeline(s, casterID, action.SkillTargetUnitID, 3, false)
	if rng.Float64() < 0.5 {
		applyDebuffIfAlive(s, action.SkillTargetUnitID, casterID, randomDebuffType(rng))
	}
}

// execWildMagic: all enemies — 1 damage each; independently, 33% chance
// per target of a random debuff.
func execWildMagic(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	u, ok := s.UnitByID(casterID)
	if !ok {
		return
	}
	for _, t := range sortedAliveUnits(*s, func(c model.Unit) bool { return c.Owner != u.Owner }) {
		runDamagePipeline(s, casterID, t.ID, 1, false)
		if rng.Float64() < 0.33 {
			applyDebuffIfAlive(s, t.ID, casterID, randomDebuffType(rng))
		}
	}
}

// execWarpBeacon: first cast on a tile plants a beacon recorded in the
// caster's skillState; every subsequent cast teleports the caster there,
// leaving the beacon in place.
func execWarpBeacon(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	target, ok := action.TargetPosition()
	if !ok {
		return
	}
	u, ok := s.UnitByID(casterID)
	if !ok {
		return
	}
	if pos, has := beaconPosition(u); has {
		if _, occupied := s.UnitAt(pos); occupied {
			return
		}
		if obs, present := s.ObstacleAt(pos); present && !obs.Destroyed() {
			return
		}
		u.Position = pos
		setUnit(s, u)
		triggerBuffTile(s, casterID, pos)
		return
	}
	if u.SkillState == nil {
		u.SkillState = map[string]string{}
	}
	u.SkillState[beaconKey] = fmt.Sprintf("%d,%d", target.X, target.Y)
	setUnit(s, u)
}

func beaconPosition(u model.Unit) (model.Position, bool) {
	raw, ok := u.SkillState[beaconKey]
	if !ok {
		return model.Position{}, false
	}
	var x, y int
	if _, err := fmt.Sscanf(raw, "%d,%d", &x, &y); err != nil {
		return model.Position{}, false
	}
	return model.Position{X: x, Y: y}, true
}

// applyDebuffIfAlive applies a fresh instance of a canonical debuff type
// to a still-living target.
func applyDebuffIfAlive(s *model.GameState, targetID, sourceID string, t model.BuffType) {
	if u, ok := s.UnitByID(targetID); ok && u.Alive {
		applyBuff(s, targetID, buffs.New(t, sourceID, buffs.DefaultDuration))
	}
}
