package rules

import (
	"math/rand"

	"tactics-arena/internal/buffs"
	"tactics-arena/internal/model"
	"tactics-arena/internal/skills"
)

// applyUseSkill resolves a USE_SKILL action: either defers it (the caster
// is SLOW) or runs the skill's effect immediately, then always sets
// skillCooldown and spends the action slot (spec.md §4.2).
func applyUseSkill(s *model.GameState, playerID model.PlayerID, action model.Action, rng *rand.Rand) {
	u, ok := s.UnitByID(action.ActingUnitID)
	if !ok {
		return
	}

	removeTaggedBuff(s, u.ID, buffs.TagInvisible)

	u.SkillCooldown = skills.Cooldown
	setUnit(s, u)

	if s.HasFlag(u.ID, func(f model.BuffFlags) bool { return f.SlowBuff }) {
		stored := action
		u, _ = s.UnitByID(u.ID)
		u.Preparing = true
		u.PreparingAction = &stored
		setUnit(s, u)
		finishAction(s, u.ID, playerID, rng)
		return
	}

	executeSkillEffect(s, rng, u.ID, action)
	finishAction(s, u.ID, playerID, rng)
}

// skillExecutor is the signature every one of the eighteen effect
// functions implements: (state, rng, caster id, the USE_SKILL action).
type skillExecutor func(s *model.GameState, rng *rand.Rand, casterID string, action model.Action)

// dispatch is the tagged dispatch table keyed by skill id (spec.md §4.4),
// populated by the six per-class skill files.
var dispatch = map[string]skillExecutor{
	skills.SkillEndure:         execEndure,
	skills.SkillHeroicLeap:     execHeroicLeap,
	skills.SkillShockwave:      execShockwave,
	skills.SkillElementalBlast: execElementalBlast,
	skills.SkillWildMagic:      execWildMagic,
	skills.SkillWarpBeacon:     execWarpBeacon,
	skills.SkillSmokeBomb:      execSmokeBomb,
	skills.SkillDeathMark:      execDeathMark,
	skills.SkillShadowClone:    execShadowClone,
	skills.SkillTrinity:        execTrinity,
	skills.SkillPowerOfMany:    execPowerOfMany,
	skills.SkillAscendedForm:   execAscendedForm,
	skills.SkillSpiritHawk:     execSpiritHawk,
	skills.SkillNaturesPower:   execNaturesPower,
	skills.SkillSpectralBlades: execSpectralBlades,
	skills.SkillElementalStrike: execElementalStrike,
	skills.SkillFeint:          execFeint,
	skills.SkillChallenge:      execChallenge,
}

// executeSkillEffect runs the effect for the caster's selected skill.
func executeSkillEffect(s *model.GameState, rng *rand.Rand, casterID string, action model.Action) {
	u, ok := s.UnitByID(casterID)
	if !ok {
		return
	}
	fn, ok := dispatch[u.SelectedSkillID]
	if !ok {
		return
	}
	fn(s, rng, casterID, action)
}

// sortedAliveUnits returns every alive unit matching pick, ordered
// ascending by id, so AoE/multi-target effects consume rng in a fixed
// deterministic order (spec.md §4.4).
func sortedAliveUnits(s model.GameState, pick func(model.Unit) bool) []model.Unit {
	var out []model.Unit
	for _, u := range s.Units {
		if u.Alive && pick(u) {
			out = append(out, u)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ID < out[j-1].ID; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// randomDebuffType draws one of the three debuffs usable by player/RNG
// choice effects (BLEED, SLOW, WEAKNESS).
func randomDebuffType(rng *rand.Rand) model.BuffType {
	options := []model.BuffType{model.BuffBleed, model.BuffSlow, model.BuffWeakness}
	return options[rng.Intn(len(options))]
}
