// Package draft implements the per-match hero-pick phase that precedes
// battle: each player is assigned a hero class, picks two minions and a
// skill, and once both sides are complete the setup service produces the
// initial model.GameState (spec.md §4.7).
package draft

import (
	"fmt"
	"math/rand"

	"tactics-arena/internal/model"
	"tactics-arena/internal/skills"
)

// State is one player's in-progress draft selections.
type State struct {
	PlayerID        model.PlayerID  `json:"playerId"`
	HeroClass       model.HeroClass `json:"heroClass"`
	SelectedMinions []model.MinionType `json:"selectedMinions"`
	SelectedSkillID string          `json:"selectedSkillId,omitempty"`
}

// Complete reports whether this player has picked two minions and a
// skill belonging to their hero class.
func (s State) Complete() bool {
	return len(s.SelectedMinions) == 2 && s.SelectedSkillID != ""
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.SelectedMinions = append([]model.MinionType(nil), s.SelectedMinions...)
	return out
}

// Result pairs both players' completed draft states.
type Result struct {
	P1 State
	P2 State
}

// Ready reports whether both sides have finished drafting.
func (r Result) Ready() bool {
	return r.P1.Complete() && r.P2.Complete()
}

// New starts a fresh draft for a player, with the hero class fixed per
// spec.md §4.7 ("heroClass (given)").
func New(player model.PlayerID, class model.HeroClass) State {
	return State{PlayerID: player, HeroClass: class}
}

// PickMinion records a minion selection, ignoring a third or later pick.
func PickMinion(s State, minion model.MinionType) State {
	if len(s.SelectedMinions) >= 2 {
		return s
	}
	s.SelectedMinions = append(append([]model.MinionType(nil), s.SelectedMinions...), minion)
	return s
}

// PickSkill records a skill selection if it belongs to the player's
// class; otherwise the state is returned unchanged.
func PickSkill(s State, skillID string) State {
	def, ok := skills.Get(skillID)
	if !ok || def.Class != s.HeroClass {
		return s
	}
	s.SelectedSkillID = skillID
	return s
}

// AutoPick draws a uniformly random valid selection for whatever this
// player's draft slot is still missing, mirroring the auto-pick-on-timeout
// behavior the draft timer triggers (spec.md §4.8, SPEC_FULL.md §4.7).
func AutoPick(s State, rng *rand.Rand) State {
	for len(s.SelectedMinions) < 2 {
		s = PickMinion(s, model.AllMinionTypes[rng.Intn(len(model.AllMinionTypes))])
	}
	if s.SelectedSkillID == "" {
		choices := skills.ForClass(s.HeroClass)
		s = PickSkill(s, choices[rng.Intn(len(choices))])
	}
	return s
}

// Engine tracks both players' draft state for one match and produces the
// starting GameState once both are complete.
type Engine struct {
	MatchID string
	P1      State
	P2      State
}

// NewEngine starts a draft with both hero classes already assigned — the
// draft wire message (draft_pick) only carries minion/skill picks.
func NewEngine(matchID string, p1Class, p2Class model.HeroClass) *Engine {
	return &Engine{
		MatchID: matchID,
		P1:      New(model.P1, p1Class),
		P2:      New(model.P2, p2Class),
	}
}

// Apply routes one player's pick into their draft slot.
func (e *Engine) Apply(player model.PlayerID, pickType, value string) {
	var s *State
	if player == model.P1 {
		s = &e.P1
	} else {
		s = &e.P2
	}
	switch pickType {
	case "minion":
		*s = PickMinion(*s, model.MinionType(value))
	case "skill":
		*s = PickSkill(*s, value)
	}
}

// Tick is invoked by the orchestrator's draft timer; any player slot
// still incomplete is finished with a random valid pick.
func (e *Engine) Tick(rng *rand.Rand) {
	if !e.P1.Complete() {
		e.P1 = AutoPick(e.P1, rng)
	}
	if !e.P2.Complete() {
		e.P2 = AutoPick(e.P2, rng)
	}
}

// Ready reports whether both players have finished drafting.
func (e *Engine) Ready() bool {
	return Result{P1: e.P1, P2: e.P2}.Ready()
}

// Result returns both sides' completed draft state.
func (e *Engine) Result() Result {
	return Result{P1: e.P1, P2: e.P2}
}

// Start positions, fixed per spec.md §4.7.
var (
	p1HeroStart    = model.Position{X: 2, Y: 0}
	p1MinionStarts = []model.Position{{X: 0, Y: 0}, {X: 4, Y: 0}}
	p2HeroStart    = model.Position{X: 2, Y: 4}
	p2MinionStarts = []model.Position{{X: 0, Y: 4}, {X: 4, Y: 4}}
)

// stats is one row of the fixed stat table from spec.md §4.7.
type stats struct{ hp, attack, moveRange, attackRange int }

var (
	heroStats     = stats{hp: 5, attack: 1, moveRange: 1, attackRange: 1}
	tankStats     = stats{hp: 5, attack: 1, moveRange: 1, attackRange: 1}
	archerStats   = stats{hp: 3, attack: 1, moveRange: 1, attackRange: 3}
	assassinStats = stats{hp: 2, attack: 2, moveRange: 4, attackRange: 1}
)

func minionStats(t model.MinionType) stats {
	switch t {
	case model.MinionTank:
		return tankStats
	case model.MinionArcher:
		return archerStats
	case model.MinionAssassin:
		return assassinStats
	default:
		return tankStats
	}
}

// BuildInitialState assembles the starting battle GameState from a
// completed draft result, per spec.md §4.7: current round 1, P1 to act.
func BuildInitialState(matchID string, result Result) model.GameState {
	state := model.GameState{
		MatchID:       matchID,
		Board:         model.NewBoard(),
		CurrentPlayer: model.P1,
		CurrentRound:  1,
		UnitBuffs:     map[string][]model.BuffInstance{},
		TurnEnded:     map[model.PlayerID]bool{},
	}

	state.Units = append(state.Units, buildSide(model.P1, result.P1, p1HeroStart, p1MinionStarts)...)
	state.Units = append(state.Units, buildSide(model.P2, result.P2, p2HeroStart, p2MinionStarts)...)

	return state
}

func buildSide(owner model.PlayerID, d State, heroPos model.Position, minionPos []model.Position) []model.Unit {
	var units []model.Unit

	h := heroStats
	units = append(units, model.Unit{
		ID:              fmt.Sprintf("%s-hero", owner),
		Name:            string(d.HeroClass),
		Owner:           owner,
		HP:              h.hp,
		MaxHP:           h.hp,
		Attack:          h.attack,
		MoveRange:       h.moveRange,
		AttackRange:     h.attackRange,
		Position:        heroPos,
		Alive:           true,
		Category:        model.CategoryHero,
		HeroClass:       d.HeroClass,
		SelectedSkillID: d.SelectedSkillID,
	})

	for i, mt := range d.SelectedMinions {
		if i >= len(minionPos) {
			break
		}
		st := minionStats(mt)
		units = append(units, model.Unit{
			ID:          fmt.Sprintf("%s-minion-%d", owner, i+1),
			Name:        string(mt),
			Owner:       owner,
			HP:          st.hp,
			MaxHP:       st.hp,
			Attack:      st.attack,
			MoveRange:   st.moveRange,
			AttackRange: st.attackRange,
			Position:    minionPos[i],
			Alive:       true,
			Category:    model.CategoryMinion,
			MinionType:  mt,
		})
	}

	return units
}
