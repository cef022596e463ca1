package rules

import (
	"math/rand"

	"tactics-arena/internal/buffs"
	"tactics-arena/internal/model"
)

// applyAttack resolves an ATTACK action: damage pipeline against a unit,
// or flat obstacle damage, then spends the action slot.
func applyAttack(s *model.GameState, playerID model.PlayerID, action model.Action, rng *rand.Rand) {
	u, ok := s.UnitByID(action.ActingUnitID)
	if !ok {
		return
	}
	tgt, ok := resolveAttackTarget(*s, u, action)
	if !ok {
		return
	}
	removeTaggedBuff(s, u.ID, buffs.TagInvisible)

	eff, _ := s.EffectiveUnit(u.ID)

	if tgt.Obstacle != nil {
		applyObstacleDamage(s, eff, *tgt.Obstacle)
	} else if tgt.Unit != nil {
		damage := eff.Attack + consumeBonusAttackCharge(s, u.ID)
		runDamagePipeline(s, u.ID, tgt.Unit.ID, damage, false)
		maybeRaiseDeathChoice(s, tgt.Unit.ID, playerID)
	}

	finishAction(s, u.ID, playerID, rng)
}

// consumeBonusAttackCharge spends one of a unit's remaining bonus-damage
// attack charges (Huntress's Nature's Power), returning the bonus to
// add to this attack's raw damage.
func consumeBonusAttackCharge(s *model.GameState, unitID string) int {
	u, ok := s.UnitByID(unitID)
	if !ok || u.BonusAttackCharges <= 0 {
		return 0
	}
	bonus := u.BonusAttackDamage
	u.BonusAttackCharges--
	if u.BonusAttackCharges == 0 {
		u.BonusAttackDamage = 0
	}
	setUnit(s, u)
	return bonus
}

// applyObstacleDamage applies flat attack damage to an obstacle; a
// POWER-buffed attacker destroys it outright regardless of attack value
// (spec.md §4.3).
func applyObstacleDamage(s *model.GameState, attacker model.Unit, obs model.Obstacle) {
	idx := -1
	for i, o := range s.Obstacles {
		if o.ID == obs.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	if attacker.ID != "" && hasPower(s, attacker.ID) {
		s.Obstacles[idx].HP = 0
		return
	}
	s.Obstacles[idx].HP -= attacker.Attack
	if s.Obstacles[idx].HP < 0 {
		s.Obstacles[idx].HP = 0
	}
}

func hasPower(s *model.GameState, unitID string) bool {
	return s.HasFlag(unitID, func(f model.BuffFlags) bool { return f.PowerBuff })
}

// runDamagePipeline applies the fixed seven-step order from spec.md §4.3
// against a single unit target. ignoreGuardian skips step 3 (used by
// Spirit Hawk, which explicitly ignores Guardian redirection). It
// returns the damage actually applied to HP/shield and whether the final
// target died.
func runDamagePipeline(s *model.GameState, sourceID, targetID string, rawDamage int, ignoreGuardian bool) (int, bool) {
	target, ok := s.UnitByID(targetID)
	if !ok || !target.Alive {
		return 0, false
	}

	// 1. Invulnerability.
	if s.HasFlag(targetID, func(f model.BuffFlags) bool { return f.InvulnerableBuff }) {
		return 0, false
	}

	source, hasSource := s.UnitByID(sourceID)
	fromEnemy := hasSource && source.Owner != target.Owner

	// 2. Feint.
	if fromEnemy && s.HasFlag(targetID, func(f model.BuffFlags) bool { return f.FeintBuff }) {
		removeTaggedBuff(s, targetID, buffs.TagFeint)
		applyDirectDamage(s, sourceID, 2)
		return 0, false
	}

	// 3. Guardian redirection.
	if !ignoreGuardian && !isTank(target) {
		if guardian, ok := findAdjacentGuardian(*s, target); ok {
			targetID = guardian.ID
			target = guardian
		}
	}

	damage := rawDamage

	// 4. Challenge / Taunt: the attacker (source), not the target, carries
	// the CHALLENGE tag when it was marked by an allied Duelist.
	if hasSource {
		if duelistID, tied := challengeHolder(*s, sourceID); tied {
			duelist, ok := s.UnitByID(duelistID)
			if ok && duelist.Alive && targetID != duelistID && target.Owner == duelist.Owner {
				damage = damage / 2
				applyDirectDamage(s, sourceID, 2)
			}
		}
	}

	// 6. Death-mark bonus (checked before HP application, which is step 7).
	marked, markSource := deathMarkSource(*s, targetID, sourceID)
	if marked {
		damage += 2
	}

	// 5 + 7: shield absorption then HP.
	dealt, died := applyDirectDamage(s, targetID, damage)

	if marked && died {
		heal(s, markSource, 2)
	}

	return dealt, died
}

// applyDirectDamage is the shield+HP-only tail of the pipeline, also used
// by counter-attacks (feint, challenge) which bypass steps 1-4/6.
func applyDirectDamage(s *model.GameState, targetID string, amount int) (int, bool) {
	u, ok := s.UnitByID(targetID)
	if !ok || !u.Alive {
		return 0, false
	}
	remaining := amount
	if u.Shield > 0 {
		if u.Shield >= remaining {
			u.Shield -= remaining
			remaining = 0
		} else {
			remaining -= u.Shield
			u.Shield = 0
		}
	}
	u.HP -= remaining
	setUnit(s, u)
	kill(s, targetID)
	after, _ := s.UnitByID(targetID)
	return amount, !after.Alive
}

func isTank(u model.Unit) bool {
	return u.Category == model.CategoryMinion && u.MinionType == model.MinionTank
}

// findAdjacentGuardian returns the living allied TANK adjacent to target,
// if any (a TANK never protects itself).
func findAdjacentGuardian(s model.GameState, target model.Unit) (model.Unit, bool) {
	for _, t := range s.Units {
		if !t.Alive || t.ID == target.ID || t.Owner != target.Owner {
			continue
		}
		if !isTank(t) {
			continue
		}
		if model.Adjacent(t.Position, target.Position) {
			return t, true
		}
	}
	return model.Unit{}, false
}

// challengeHolder reports whether unitID is tied by an active CHALLENGE
// tag and, if so, the id of the Duelist who applied it.
func challengeHolder(s model.GameState, unitID string) (string, bool) {
	for _, b := range s.UnitBuffs[unitID] {
		if b.Flags.ChallengeBuff {
			return b.SourceUnitID, true
		}
	}
	return "", false
}

// deathMarkSource reports whether targetID holds a DEATH_MARK applied by
// sourceID, and if so returns that source id.
func deathMarkSource(s model.GameState, targetID, sourceID string) (bool, string) {
	for _, b := range s.UnitBuffs[targetID] {
		if b.Flags.DeathMarkBuff && b.SourceUnitID == sourceID {
			return true, b.SourceUnitID
		}
	}
	return false, ""
}

// maybeRaiseDeathChoice opens a pendingDeathChoice interrupt, owned by the
// dead minion's owner, when the unit named by diedUnitID is a minion (never
// a hero) that is now dead, unless one is already pending. Only that unit
// is checked: a Guardian TANK that died taking a redirected hit does not
// raise the interrupt.
func maybeRaiseDeathChoice(s *model.GameState, diedUnitID string, actingPlayer model.PlayerID) {
	if s.PendingDeathChoice != nil {
		return
	}
	u, ok := s.UnitByID(diedUnitID)
	if !ok || u.Alive || u.Category != model.CategoryMinion {
		return
	}
	s.PendingDeathChoice = &model.DeathChoice{
		OwnerID:  u.Owner,
		Position: u.Position,
		UnitID:   u.ID,
	}
}
