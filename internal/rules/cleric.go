package rules

import (
	"math/rand"

	"tactics-arena/internal/buffs"
	"tactics-arena/internal/model"
)

// execTrinity: single ally — heal 3 hp (capped), remove one debuff if
// any, apply LIFE (flag only).
func execTrinity(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	if action.SkillTargetUnitID == "" {
		return
	}
	target := action.SkillTargetUnitID
	heal(s, target, 3)
	removeOneDebuff(s, target)
	applyBuff(s, target, buffs.New(model.BuffLife, casterID, buffs.DefaultDuration))
}

// execPowerOfMany: all allies — heal 1 hp each, +1 attack for 1 round.
func execPowerOfMany(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	u, ok := s.UnitByID(casterID)
	if !ok {
		return
	}
	for _, ally := range sortedAliveUnits(*s, func(c model.Unit) bool { return c.Owner == u.Owner }) {
		heal(s, ally.ID, 1)
		applyBuff(s, ally.ID, model.BuffInstance{
			BuffID:       "POWER_OF_MANY_ATK",
			SourceUnitID: casterID,
			Type:         "POWER_OF_MANY_ATK",
			Duration:     1,
			Modifiers:    model.BuffModifier{BonusAttack: 1},
		})
	}
}

// execAscendedForm: self — INVULNERABLE for 1 round; healing received by
// the caster is doubled this round; caster cannot attack this round.
//
// The doubled-healing and no-attack restrictions are carried as the same
// ASCENDED_FORM tag for the remaining duration; the heal helper in
// state_helpers.go and validateActingUnitAction consult it.
func execAscendedForm(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	applyBuff(s, casterID, buffs.Invulnerable(casterID, 1))
	applyBuff(s, casterID, model.BuffInstance{
		BuffID:       ascendedFormTag,
		SourceUnitID: casterID,
		Type:         ascendedFormTag,
		Duration:     1,
	})
}
