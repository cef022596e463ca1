package model

// GameState is the complete, immutable snapshot of one match's battle
// phase. Every operation in internal/rules takes a GameState and an
// Action and returns a new GameState; nothing here is ever mutated after
// construction by a caller outside the package itself.
type GameState struct {
	MatchID  string `json:"matchId"`
	Sequence uint64 `json:"sequence"`

	Board         Board                     `json:"board"`
	Units         []Unit                    `json:"units"`
	CurrentPlayer PlayerID                  `json:"currentPlayer"`
	GameOver      bool                      `json:"gameOver"`
	Winner        *PlayerID                 `json:"winner"`
	UnitBuffs     map[string][]BuffInstance `json:"unitBuffs"`
	BuffTiles     []BuffTile                `json:"buffTiles"`
	Obstacles     []Obstacle                `json:"obstacles"`
	CurrentRound  int                       `json:"currentRound"`

	PendingDeathChoice *DeathChoice `json:"pendingDeathChoice,omitempty"`

	// TurnEnded tracks the legacy "player ended turn" flags referenced by
	// spec.md §3. Populated by the END_TURN legacy (all-unacted-units) form
	// and cleared at round end alongside ActionsUsed.
	TurnEnded map[PlayerID]bool `json:"turnEnded"`
}

// Clone returns a deep copy: new slices and maps, new Unit/BuffInstance
// values throughout, so mutating the clone never touches the original.
func (s GameState) Clone() GameState {
	out := s
	out.Units = make([]Unit, len(s.Units))
	for i, u := range s.Units {
		out.Units[i] = u.Clone()
	}
	if s.Winner != nil {
		w := *s.Winner
		out.Winner = &w
	}
	if s.UnitBuffs != nil {
		out.UnitBuffs = make(map[string][]BuffInstance, len(s.UnitBuffs))
		for id, buffs := range s.UnitBuffs {
			cp := make([]BuffInstance, len(buffs))
			copy(cp, buffs)
			out.UnitBuffs[id] = cp
		}
	}
	out.BuffTiles = append([]BuffTile(nil), s.BuffTiles...)
	out.Obstacles = append([]Obstacle(nil), s.Obstacles...)
	if s.PendingDeathChoice != nil {
		dc := *s.PendingDeathChoice
		out.PendingDeathChoice = &dc
	}
	if s.TurnEnded != nil {
		out.TurnEnded = make(map[PlayerID]bool, len(s.TurnEnded))
		for k, v := range s.TurnEnded {
			out.TurnEnded[k] = v
		}
	}
	return out
}

// UnitByID returns the unit with the given id and whether it was found.
func (s GameState) UnitByID(id string) (Unit, bool) {
	for _, u := range s.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// UnitIndex returns the slice index of the unit with the given id, or -1.
func (s GameState) UnitIndex(id string) int {
	for i, u := range s.Units {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// UnitAt returns the living unit occupying a position, if any.
func (s GameState) UnitAt(pos Position) (Unit, bool) {
	for _, u := range s.Units {
		if u.Alive && u.Position == pos {
			return u, true
		}
	}
	return Unit{}, false
}

// ObstacleAt returns the obstacle at a position; destroyed obstacles are
// skipped.
func (s GameState) ObstacleAt(pos Position) (Obstacle, bool) {
	for _, o := range s.Obstacles {
		if o.Position == pos && !o.Destroyed() {
			return o, true
		}
	}
	return Obstacle{}, false
}

// ObstacleIndex returns the slice index of the obstacle at a position, or -1.
func (s GameState) ObstacleIndex(pos Position) int {
	for i, o := range s.Obstacles {
		if o.Position == pos {
			return i
		}
	}
	return -1
}

// BuffTileAt returns the unexpired, untriggered tile at a position.
func (s GameState) BuffTileAt(pos Position) (BuffTile, bool) {
	for _, t := range s.BuffTiles {
		if t.Position == pos && !t.Triggered && !t.Expired() {
			return t, true
		}
	}
	return BuffTile{}, false
}

// BuffsFor returns the buff instances applied to a unit.
func (s GameState) BuffsFor(unitID string) []BuffInstance {
	return s.UnitBuffs[unitID]
}

// HasFlag reports whether any of a unit's active buffs sets the given
// flag-selector predicate.
func (s GameState) HasFlag(unitID string, pick func(BuffFlags) bool) bool {
	for _, b := range s.UnitBuffs[unitID] {
		if pick(b.Flags) {
			return true
		}
	}
	return false
}

// EffectiveUnit returns the unit's stats with all active buff modifiers
// folded in (move range, attack range, attack, max hp bonus). HP itself is
// never modified by buffs except via InstantHPBonus applied at the moment
// a buff lands (see internal/rules), so current HP is returned unchanged.
func (s GameState) EffectiveUnit(unitID string) (Unit, bool) {
	u, ok := s.UnitByID(unitID)
	if !ok {
		return Unit{}, false
	}
	for _, b := range s.UnitBuffs[unitID] {
		u.MoveRange += b.Modifiers.BonusMoveRange
		u.AttackRange += b.Modifiers.BonusAttackRange
		u.Attack += b.Modifiers.BonusAttack
		u.MaxHP += b.Modifiers.BonusHP
	}
	return u, true
}

// AliveUnitsFor returns the living units owned by a player, in slice order.
func (s GameState) AliveUnitsFor(owner PlayerID) []Unit {
	var out []Unit
	for _, u := range s.Units {
		if u.Alive && u.Owner == owner {
			out = append(out, u)
		}
	}
	return out
}

// HasUnactedUnits reports whether a player has any living unit with
// ActionsUsed == 0.
func (s GameState) HasUnactedUnits(owner PlayerID) bool {
	for _, u := range s.Units {
		if u.Alive && u.Owner == owner && u.ActionsUsed == 0 {
			return true
		}
	}
	return false
}

// LivingHero returns the (at most one) living hero for a player.
func (s GameState) LivingHero(owner PlayerID) (Unit, bool) {
	for _, u := range s.Units {
		if u.Alive && u.Owner == owner && u.Category == CategoryHero {
			return u, true
		}
	}
	return Unit{}, false
}

// AnyHeroesExist reports whether any hero unit exists in the match at all
// (dead or alive), used by the legacy empty-hero game-over fallback.
func (s GameState) AnyHeroesExist() bool {
	for _, u := range s.Units {
		if u.Category == CategoryHero {
			return true
		}
	}
	return false
}
