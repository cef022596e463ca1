package rules

import "tactics-arena/internal/model"

// setUnit replaces the unit with the same id in s.Units. No-op if the id
// is not present.
func setUnit(s *model.GameState, u model.Unit) {
	if idx := s.UnitIndex(u.ID); idx >= 0 {
		s.Units[idx] = u
	}
}

// applyBuff appends a buff to a unit, refreshing duration in place if the
// unit already holds one of the same type (buffs never stack, per
// spec.md §3). Any InstantHPBonus on the buff is granted immediately,
// capped at the unit's (possibly buffed) max HP.
func applyBuff(s *model.GameState, unitID string, buff model.BuffInstance) {
	if s.UnitBuffs == nil {
		s.UnitBuffs = map[string][]model.BuffInstance{}
	}
	list := s.UnitBuffs[unitID]
	replaced := false
	for i, b := range list {
		if b.Type == buff.Type {
			list[i] = buff
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, buff)
	}
	s.UnitBuffs[unitID] = list

	if buff.InstantHPBonus != 0 {
		if u, ok := s.UnitByID(unitID); ok {
			u.HP += buff.InstantHPBonus
			if u.HP > u.MaxHP {
				u.HP = u.MaxHP
			}
			setUnit(s, u)
		}
	}
}

// removeBuffOfType strips a single buff type from a unit, if present.
func removeBuffOfType(s *model.GameState, unitID string, t model.BuffType) {
	list := s.UnitBuffs[unitID]
	out := list[:0]
	for _, b := range list {
		if b.Type != t {
			out = append(out, b)
		}
	}
	s.UnitBuffs[unitID] = out
}

// genericDebuffTypes are the canonical buff types treated as "a debuff"
// by effects like Trinity's "remove one debuff if any."
var genericDebuffTypes = map[model.BuffType]bool{
	model.BuffBleed:    true,
	model.BuffSlow:     true,
	model.BuffWeakness: true,
}

// removeOneDebuff strips the first generic debuff found on a unit, if
// any, and reports whether one was removed.
func removeOneDebuff(s *model.GameState, unitID string) bool {
	list := s.UnitBuffs[unitID]
	for i, b := range list {
		if genericDebuffTypes[b.Type] {
			s.UnitBuffs[unitID] = append(append([]model.BuffInstance{}, list[:i]...), list[i+1:]...)
			return true
		}
	}
	return false
}

// ascendedFormTag marks the Cleric's Ascended Form effect: doubled
// incoming healing and no attacking, for its single round of duration.
const ascendedFormTag = "ASCENDED_FORM"

// heal raises a unit's HP by amount, capped at MaxHP, returning the
// applied (possibly clamped) amount. A unit under Ascended Form receives
// double healing this round.
func heal(s *model.GameState, unitID string, amount int) int {
	u, ok := s.UnitByID(unitID)
	if !ok || !u.Alive {
		return 0
	}
	for _, b := range s.UnitBuffs[unitID] {
		if b.Type == ascendedFormTag {
			amount *= 2
			break
		}
	}
	before := u.HP
	u.HP += amount
	if u.HP > u.MaxHP {
		u.HP = u.MaxHP
	}
	setUnit(s, u)
	return u.HP - before
}

// removeTaggedBuff strips a single tagged (non-canonical) buff, matched by
// its BuffType/BuffID string tag (e.g. buffs.TagFeint), from a unit.
func removeTaggedBuff(s *model.GameState, unitID, tag string) {
	removeBuffOfType(s, unitID, model.BuffType(tag))
}

// removeBuffTile deletes a tile (by id) from s.BuffTiles, used once a tile
// has triggered and granted its effect.
func removeBuffTile(s *model.GameState, tileID string) {
	out := s.BuffTiles[:0]
	for _, t := range s.BuffTiles {
		if t.ID != tileID {
			out = append(out, t)
		}
	}
	s.BuffTiles = out
}

// kill marks a unit dead if its HP has dropped to or below zero. It does
// not itself check game-over or death choices; callers do that after
// the damage pipeline finishes.
func kill(s *model.GameState, unitID string) {
	u, ok := s.UnitByID(unitID)
	if !ok {
		return
	}
	if u.HP <= 0 && u.Alive {
		u.HP = 0
		u.Alive = false
		setUnit(s, u)
	}
}
