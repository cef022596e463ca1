package rules

import (
	"math/rand"

	"tactics-arena/internal/buffs"
	"tactics-arena/internal/model"
)

// execElementalStrike: single enemy — 3 damage, apply the player-chosen
// debuff (BLEED, SLOW, or WEAKNESS).
func execElementalStrike(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	if action.SkillTargetUnitID == "" {
		return
	}
	runDamagePipeline(s, casterID, action.SkillTargetUnitID, 3, false)
	t := action.SkillChosenBuffType
	if t != model.BuffBleed && t != model.BuffSlow && t != model.BuffWeakness {
		t = model.BuffBleed
	}
	applyDebuffIfAlive(s, action.SkillTargetUnitID, casterID, t)
}

// execFeint: self — apply FEINT for 1 round: the next incoming enemy
// attack is nullified and counter-hits for 2 (see runDamagePipeline).
func execFeint(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	applyBuff(s, casterID, buffs.Feint(casterID, 1))
}

// execChallenge: single enemy (range 2) — ties the target to the caster
// for 2 rounds: the target's attacks against non-caster allies are
// halved and trigger the caster's counter-attack (see runDamagePipeline's
// challenge step, which reads this tag off the attacker).
func execChallenge(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	if action.SkillTargetUnitID == "" {
		return
	}
	applyBuff(s, action.SkillTargetUnitID, buffs.Challenge(casterID, 2))
}
