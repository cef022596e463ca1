package rules

import (
	"fmt"
	"math/rand"

	"tactics-arena/internal/buffs"
	"tactics-arena/internal/model"
)

// execSmokeBomb: single tile (range 2) — teleport, gain INVISIBLE for 1
// round (broken by this unit's next attack or skill cast), apply BLIND
// for 1 round to each enemy adjacent to the landing cell.
func execSmokeBomb(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
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

	applyBuff(s, casterID, buffs.Invisible(casterID, 1))

	for _, enemy := range sortedAliveUnits(*s, func(c model.Unit) bool {
		return c.Owner != u.Owner && model.Adjacent(c.Position, target)
	}) {
		applyBuff(s, enemy.ID, buffs.Blind(casterID, 1))
	}
}

// execDeathMark: single enemy (range 3) — apply DEATH_MARK, duration 2,
// source = caster.
func execDeathMark(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	if action.SkillTargetUnitID == "" {
		return
	}
	applyBuff(s, action.SkillTargetUnitID, buffs.DeathMark(casterID, 2))
}

// execShadowClone: single empty tile (range 2) — spawn a temporary
// 1hp/1atk minion for the caster's side at target, lasting 2 rounds.
func execShadowClone(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
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
	clone := model.Unit{
		ID:                fmt.Sprintf("clone-%s-%d", casterID, len(s.Units)),
		Name:              "Shadow Clone",
		Owner:             u.Owner,
		HP:                1,
		MaxHP:             1,
		Attack:            1,
		MoveRange:         1,
		AttackRange:       1,
		Position:          target,
		Alive:             true,
		Category:          model.CategoryMinion,
		MinionType:        model.MinionAssassin,
		Temporary:         true,
		TemporaryDuration: 2,
	}
	s.Units = append(s.Units, clone)
}
