package rules

import (
	"tactics-arena/internal/model"
	"tactics-arena/internal/skills"
)

// maxActions returns how many actions a unit may take in a round: two for
// a SPEED holder, one otherwise.
func maxActions(state model.GameState, u model.Unit) int {
	if state.HasFlag(u.ID, func(f model.BuffFlags) bool { return f.SpeedBuff }) {
		return 2
	}
	return 1
}

// Validate checks a single action against the current state. It never
// mutates state. playerID is the submitting peer's seat, carried
// separately from the action payload per the wire protocol (spec.md §6).
func Validate(state model.GameState, playerID model.PlayerID, action model.Action) Result {
	if state.PendingDeathChoice != nil {
		if action.Type != model.ActionDeathChoice {
			return Invalid(model.ErrPendingDeathChoice, "a death choice is pending")
		}
		if playerID != state.PendingDeathChoice.OwnerID {
			return Invalid(model.ErrPendingDeathChoice, "death choice belongs to the other player")
		}
		return validateDeathChoiceAction(action)
	}

	if action.Type == model.ActionDeathChoice {
		return Invalid(model.ErrBadShape, "no death choice is pending")
	}

	if playerID != state.CurrentPlayer {
		return Invalid(model.ErrNotYourTurn, "")
	}

	switch action.Type {
	case model.ActionEndTurn:
		return validateEndTurn(state, playerID, action)
	case model.ActionMove:
		return validateActingUnitAction(state, playerID, action, validateMoveSpecific)
	case model.ActionAttack:
		return validateActingUnitAction(state, playerID, action, validateAttackSpecific)
	case model.ActionMoveAndAttack:
		return validateActingUnitAction(state, playerID, action, validateMoveAndAttackSpecific)
	case model.ActionUseSkill:
		return validateActingUnitAction(state, playerID, action, validateUseSkillSpecific)
	default:
		return Invalid(model.ErrBadShape, "unknown action type")
	}
}

// validateActingUnitAction resolves and checks the common acting-unit
// preconditions (existence, ownership, exhaustion, status), then delegates
// to a type-specific check.
func validateActingUnitAction(state model.GameState, playerID model.PlayerID, action model.Action, specific func(model.GameState, model.Unit, model.Action) Result) Result {
	if action.ActingUnitID == "" {
		return Invalid(model.ErrBadShape, "actingUnitId is required")
	}
	u, ok := state.UnitByID(action.ActingUnitID)
	if !ok {
		return Invalid(model.ErrNoSuchUnit, action.ActingUnitID)
	}
	if !u.Alive {
		return Invalid(model.ErrUnitDead, u.ID)
	}
	if u.Owner != playerID {
		return Invalid(model.ErrWrongOwner, u.ID)
	}
	if u.ActionsUsed >= maxActions(state, u) {
		return Invalid(model.ErrUnitExhausted, u.ID)
	}

	stunned := state.HasFlag(u.ID, func(f model.BuffFlags) bool { return f.Stunned })
	rooted := state.HasFlag(u.ID, func(f model.BuffFlags) bool { return f.Rooted })
	blind := state.HasFlag(u.ID, func(f model.BuffFlags) bool { return f.BlindBuff })
	silenced := state.HasFlag(u.ID, func(f model.BuffFlags) bool { return f.Silenced })
	ascended := hasAscendedForm(state, u.ID)

	switch action.Type {
	case model.ActionMove:
		if rooted || stunned {
			return Invalid(model.ErrStatusForbids, "rooted or stunned")
		}
	case model.ActionAttack, model.ActionMoveAndAttack:
		if stunned || blind {
			return Invalid(model.ErrStatusForbids, "stunned or blind")
		}
		if ascended {
			return Invalid(model.ErrStatusForbids, "ascended form forbids attacking")
		}
	case model.ActionUseSkill:
		if silenced {
			return Invalid(model.ErrStatusForbids, "silenced")
		}
	}

	return specific(state, u, action)
}

// hasAscendedForm reports whether a unit is under the Cleric's Ascended
// Form effect this round (see execAscendedForm in cleric.go).
func hasAscendedForm(state model.GameState, unitID string) bool {
	for _, b := range state.UnitBuffs[unitID] {
		if b.Type == ascendedFormTag {
			return true
		}
	}
	return false
}

func validateMoveSpecific(state model.GameState, u model.Unit, action model.Action) Result {
	target, ok := action.TargetPosition()
	if !ok || !target.InBounds() {
		return Invalid(model.ErrBadShape, "targetX/targetY required and in bounds")
	}
	if _, occupied := state.UnitAt(target); occupied {
		return Invalid(model.ErrOccupied, "")
	}
	if obs, present := state.ObstacleAt(target); present && !obs.Destroyed() {
		return Invalid(model.ErrOccupied, "obstacle")
	}
	eff, _ := state.EffectiveUnit(u.ID)
	if model.ChebyshevDistance(u.Position, target) > eff.MoveRange {
		return Invalid(model.ErrOutOfRange, "")
	}
	return Valid()
}

func validateAttackSpecific(state model.GameState, u model.Unit, action model.Action) Result {
	tgt, ok := resolveAttackTarget(state, u, action)
	if !ok {
		return Invalid(model.ErrTargetInvalid, "")
	}
	if tgt.Unit != nil && tgt.Unit.Owner == u.Owner {
		return Invalid(model.ErrTargetInvalid, "cannot attack an ally")
	}
	eff, _ := state.EffectiveUnit(u.ID)
	if model.ChebyshevDistance(u.Position, tgt.Position) > eff.AttackRange {
		return Invalid(model.ErrOutOfRange, "")
	}
	return Valid()
}

// attackTarget names what an ATTACK or MOVE_AND_ATTACK resolves to: either
// a living unit (the validator rejects allies) or an obstacle, never both.
type attackTarget struct {
	Unit     *model.Unit
	Obstacle *model.Obstacle
	Position model.Position
}

// resolveAttackTarget finds the unit or obstacle named by the action,
// preferring an explicit target unit id, falling back to the
// (targetX,targetY) cell.
func resolveAttackTarget(state model.GameState, u model.Unit, action model.Action) (attackTarget, bool) {
	if action.TargetUnitID != "" {
		tu, ok := state.UnitByID(action.TargetUnitID)
		if !ok || !tu.Alive {
			return attackTarget{}, false
		}
		return attackTarget{Unit: &tu, Position: tu.Position}, true
	}
	pos, ok := action.TargetPosition()
	if !ok {
		return attackTarget{}, false
	}
	if tu, present := state.UnitAt(pos); present {
		return attackTarget{Unit: &tu, Position: pos}, true
	}
	if obs, present := state.ObstacleAt(pos); present {
		return attackTarget{Obstacle: &obs, Position: pos}, true
	}
	return attackTarget{}, false
}

func validateMoveAndAttackSpecific(state model.GameState, u model.Unit, action model.Action) Result {
	if state.HasFlag(u.ID, func(f model.BuffFlags) bool { return f.PowerBuff }) {
		return Invalid(model.ErrStatusForbids, "POWER forbids MOVE_AND_ATTACK")
	}
	tgt, ok := resolveAttackTarget(state, u, action)
	if !ok || tgt.Unit == nil {
		return Invalid(model.ErrTargetInvalid, "")
	}
	if tgt.Unit.Owner == u.Owner {
		return Invalid(model.ErrTargetInvalid, "cannot attack an ally")
	}
	eff, _ := state.EffectiveUnit(u.ID)
	if _, found := bestMoveAndAttackCell(state, u, eff, tgt.Position); !found {
		return Invalid(model.ErrOutOfRange, "no reachable cell within attack range")
	}
	return Valid()
}

func validateUseSkillSpecific(state model.GameState, u model.Unit, action model.Action) Result {
	if !u.IsHero() {
		return Invalid(model.ErrWrongSkillTarget, "only heroes have skills")
	}
	if u.SkillCooldown > 0 {
		return Invalid(model.ErrSkillOnCooldown, "")
	}
	def, ok := skills.Get(u.SelectedSkillID)
	if !ok {
		return Invalid(model.ErrBadShape, "no skill selected")
	}
	return validateSkillTargeting(state, u, def, action)
}

func validateSkillTargeting(state model.GameState, u model.Unit, def skills.Def, action model.Action) Result {
	switch def.TargetType {
	case model.TargetSelf, model.TargetAreaAroundSelf, model.TargetAllEnemies, model.TargetAllAllies, model.TargetLine:
		return Valid()
	case model.TargetSingleEnemy, model.TargetAreaAroundTarget:
		tu, ok := state.UnitByID(action.SkillTargetUnitID)
		if !ok || !tu.Alive {
			return Invalid(model.ErrWrongSkillTarget, "")
		}
		if tu.Owner == u.Owner {
			return Invalid(model.ErrWrongSkillTarget, "target must be an enemy")
		}
		if model.ChebyshevDistance(u.Position, tu.Position) > def.Range {
			return Invalid(model.ErrOutOfRange, "")
		}
		return Valid()
	case model.TargetSingleAlly:
		tu, ok := state.UnitByID(action.SkillTargetUnitID)
		if !ok || !tu.Alive {
			return Invalid(model.ErrWrongSkillTarget, "")
		}
		if tu.Owner != u.Owner {
			return Invalid(model.ErrWrongSkillTarget, "target must be an ally")
		}
		if model.ChebyshevDistance(u.Position, tu.Position) > def.Range {
			return Invalid(model.ErrOutOfRange, "")
		}
		return Valid()
	case model.TargetSingleTile:
		pos, ok := action.TargetPosition()
		if !ok || !pos.InBounds() {
			return Invalid(model.ErrBadShape, "")
		}
		if model.ChebyshevDistance(u.Position, pos) > def.Range {
			return Invalid(model.ErrOutOfRange, "")
		}
		if _, occupied := state.UnitAt(pos); occupied {
			return Invalid(model.ErrOccupied, "")
		}
		if obs, present := state.ObstacleAt(pos); present && !obs.Destroyed() {
			return Invalid(model.ErrOccupied, "obstacle")
		}
		return Valid()
	default:
		return Invalid(model.ErrBadShape, "unsupported target type")
	}
}

func validateEndTurn(state model.GameState, playerID model.PlayerID, action model.Action) Result {
	if action.ActingUnitID == "" {
		return Valid() // legacy form: always valid on the player's turn
	}
	u, ok := state.UnitByID(action.ActingUnitID)
	if !ok {
		return Invalid(model.ErrNoSuchUnit, action.ActingUnitID)
	}
	if !u.Alive {
		return Invalid(model.ErrUnitDead, u.ID)
	}
	if u.Owner != playerID {
		return Invalid(model.ErrWrongOwner, u.ID)
	}
	if u.ActionsUsed >= maxActions(state, u) {
		return Invalid(model.ErrUnitExhausted, u.ID)
	}
	return Valid()
}

func validateDeathChoiceAction(action model.Action) Result {
	switch action.DeathChoice {
	case model.ChoiceSpawnObstacle, model.ChoiceSpawnBuffTile:
		return Valid()
	default:
		return Invalid(model.ErrInvalidDeathChoice, "must be SPAWN_OBSTACLE or SPAWN_BUFF_TILE")
	}
}
