package model

// BuffModifier holds the additive stat bonuses (or penalties, via negative
// values) a buff contributes while active.
type BuffModifier struct {
	BonusHP          int `json:"bonusHp"`
	BonusAttack      int `json:"bonusAttack"`
	BonusMoveRange   int `json:"bonusMoveRange"`
	BonusAttackRange int `json:"bonusAttackRange"`
}

// BuffFlags holds the behavioral switches a buff or skill effect can set.
// Most buffs set exactly one of these; combinations are possible (e.g. a
// future buff could be both rooted and silenced) so they are independent
// booleans rather than a single enum.
type BuffFlags struct {
	Stunned       bool `json:"stunned"`
	Rooted        bool `json:"rooted"`
	Poison        bool `json:"poison"`
	Silenced      bool `json:"silenced"`
	Taunted       bool `json:"taunted"`
	PowerBuff     bool `json:"powerBuff"`
	SpeedBuff     bool `json:"speedBuff"`
	SlowBuff      bool `json:"slowBuff"`
	BleedBuff     bool `json:"bleedBuff"`
	LifeBuff      bool `json:"lifeBuff"`
	BlindBuff     bool `json:"blindBuff"`
	DeathMarkBuff bool `json:"deathMarkBuff"`
	FeintBuff     bool `json:"feintBuff"`
	ChallengeBuff bool `json:"challengeBuff"`
	InvulnerableBuff bool `json:"invulnerableBuff"`
}

// BuffInstance is one applied status effect. SourceUnitID is carried as a
// stable id (never a pointer) per the module's cyclic-reference design
// note, so buffs remain safely snapshottable.
type BuffInstance struct {
	BuffID         string       `json:"buffId"`
	SourceUnitID   string       `json:"sourceUnitId,omitempty"`
	Type           BuffType     `json:"type"`
	Duration       int          `json:"duration"`
	Stackable      bool         `json:"stackable"`
	Modifiers      BuffModifier `json:"modifiers"`
	Flags          BuffFlags    `json:"flags"`
	InstantHPBonus int          `json:"instantHpBonus"`
}

// Clone returns a copy; BuffInstance has no reference fields but Clone is
// provided for symmetry with Unit.Clone and to keep call sites uniform.
func (b BuffInstance) Clone() BuffInstance { return b }
