// Package buffs is the factory for the six canonical status effects
// (model.BuffType). Buff tiles draw one of these six when triggered; a
// handful of skill effects apply a subset of the same six types directly.
// Stat deltas and behavioral flags for a given type are defined once here
// so the tile-trigger path (internal/rules) and the skill-effect path
// (internal/rules skill executor) never drift apart.
package buffs

import "tactics-arena/internal/model"

// DefaultDuration is how long a freshly applied buff lasts, in rounds,
// when the granting effect does not specify its own duration. spec.md
// leaves the applied-buff duration unspecified for buff-tile triggers; 2
// rounds matches the duration used explicitly elsewhere in the ruleset
// (Death Mark, Challenge) and is recorded here as the single place that
// default lives.
const DefaultDuration = 2

// TileInstantHP is the one-time HP bonus a buff tile grants alongside its
// buff when stepped on. spec.md §4.2 states an "instant HP bonus" is
// granted but does not give a magnitude; 1 is the assumption recorded
// here as the single place that default lives.
const TileInstantHP = 1

// New builds a BuffInstance of the given canonical type. sourceUnitID may
// be empty (buff tiles have no casting unit). duration is in rounds.
func New(buffType model.BuffType, sourceUnitID string, duration int) model.BuffInstance {
	inst := model.BuffInstance{
		BuffID:       string(buffType),
		SourceUnitID: sourceUnitID,
		Type:         buffType,
		Duration:     duration,
		Stackable:    false,
	}

	switch buffType {
	case model.BuffPower:
		inst.Flags.PowerBuff = true
	case model.BuffSpeed:
		inst.Flags.SpeedBuff = true
	case model.BuffSlow:
		inst.Flags.SlowBuff = true
	case model.BuffBleed:
		inst.Flags.BleedBuff = true
	case model.BuffWeakness:
		inst.Modifiers.BonusAttack = -1
	case model.BuffLife:
		inst.Flags.LifeBuff = true
	}

	return inst
}

// NewWithHP builds a buff instance that also grants an instant, one-time
// HP bonus when applied (used by buff-tile triggers: "instant HP bonus
// granted" per spec.md §4.2).
func NewWithHP(buffType model.BuffType, sourceUnitID string, duration, instantHP int) model.BuffInstance {
	inst := New(buffType, sourceUnitID, duration)
	inst.InstantHPBonus = instantHP
	return inst
}

// NewTagged builds a buff instance carrying only a single named flag, for
// the handful of skill effects (invisibility, blind, death mark, feint,
// challenge, invulnerability) that are not one of the six canonical
// BuffType values but still ride the same BuffInstance/duration/flags
// machinery. typeTag is used as both BuffID and Type so the wire protocol
// always has a stable string to key off of.
func NewTagged(typeTag string, sourceUnitID string, duration int, set func(*model.BuffFlags)) model.BuffInstance {
	inst := model.BuffInstance{
		BuffID:       typeTag,
		SourceUnitID: sourceUnitID,
		Type:         model.BuffType(typeTag),
		Duration:     duration,
	}
	set(&inst.Flags)
	return inst
}

// Tag* are the stable BuffType/BuffID strings for the non-canonical
// tagged effects, exported so internal/rules can look up or strip a
// specific tagged buff without re-typing the literal.
const (
	TagInvisible    = "INVISIBLE"
	TagBlind        = "BLIND"
	TagDeathMark    = "DEATH_MARK"
	TagFeint        = "FEINT"
	TagChallenge    = "CHALLENGE"
	TagInvulnerable = "INVULNERABLE"
)

// Invisible, Blind, DeathMark, Feint, Challenge, Invulnerable are the
// named constructors for the non-canonical tagged effects used by the
// skill executor (see internal/rules).
func Invisible(sourceUnitID string, duration int) model.BuffInstance {
	return NewTagged(TagInvisible, sourceUnitID, duration, func(f *model.BuffFlags) {})
}

func Blind(sourceUnitID string, duration int) model.BuffInstance {
	return NewTagged(TagBlind, sourceUnitID, duration, func(f *model.BuffFlags) { f.BlindBuff = true })
}

func DeathMark(sourceUnitID string, duration int) model.BuffInstance {
	return NewTagged(TagDeathMark, sourceUnitID, duration, func(f *model.BuffFlags) { f.DeathMarkBuff = true })
}

func Feint(sourceUnitID string, duration int) model.BuffInstance {
	return NewTagged(TagFeint, sourceUnitID, duration, func(f *model.BuffFlags) { f.FeintBuff = true })
}

func Challenge(sourceUnitID string, duration int) model.BuffInstance {
	return NewTagged(TagChallenge, sourceUnitID, duration, func(f *model.BuffFlags) { f.ChallengeBuff = true })
}

func Invulnerable(sourceUnitID string, duration int) model.BuffInstance {
	return NewTagged(TagInvulnerable, sourceUnitID, duration, func(f *model.BuffFlags) { f.InvulnerableBuff = true })
}
