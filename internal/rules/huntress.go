package rules

import (
	"math/rand"

	"tactics-arena/internal/buffs"
	"tactics-arena/internal/model"
)

// execSpiritHawk: single enemy (range 4) — 2 damage, ignoring Guardian
// redirection.
func execSpiritHawk(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	if action.SkillTargetUnitID == "" {
		return
	}
	runDamagePipeline(s, casterID, action.SkillTargetUnitID, 2, true)
}

// execNaturesPower: self — gain LIFE; the next 2 attacks deal +2 damage.
func execNaturesPower(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	u, ok := s.UnitByID(casterID)
	if !ok {
		return
	}
	applyBuff(s, casterID, buffs.New(model.BuffLife, casterID, buffs.DefaultDuration))
	u.BonusAttackDamage = 2
	u.BonusAttackCharges = 2
	setUnit(s, u)
}

// execSpectralBlades: a 5-cell line from the caster toward the given
// target cell — 1 damage to every enemy on the line, piercing through
// units; allies are never hit.
func execSpectralBlades(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	u, ok := s.UnitByID(casterID)
	if !ok {
		return
	}
	aim, ok := action.TargetPosition()
	if !ok {
		return
	}
	dx := sign(aim.X - u.Position.X)
	dy := sign(aim.Y - u.Position.Y)
	if dx == 0 && dy == 0 {
		return
	}

	const lineLength = 5
	cell := u.Position
	var onLine []model.Position
	for i := 0; i < lineLength; i++ {
		cell = model.Position{X: cell.X + dx, Y: cell.Y + dy}
		if !cell.InBounds() {
			break
		}
		onLine = append(onLine, cell)
	}

	for _, pos := range onLine {
		if t, present := s.UnitAt(pos); present && t.Owner != u.Owner {
			runDamagePipeline(s, casterID, t.ID, 1, false)
		}
	}
}
