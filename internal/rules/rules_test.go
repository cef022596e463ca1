package rules

import (
	"math/rand"
	"testing"

	"tactics-arena/internal/model"
	"tactics-arena/internal/skills"
)

func twoHeroState() model.GameState {
	return model.GameState{
		MatchID:       "t1",
		Board:         model.NewBoard(),
		CurrentPlayer: model.P1,
		CurrentRound:  1,
		UnitBuffs:     map[string][]model.BuffInstance{},
		TurnEnded:     map[model.PlayerID]bool{},
		Units: []model.Unit{
			{ID: "p1-hero", Owner: model.P1, HP: 5, MaxHP: 5, Attack: 1, MoveRange: 1, AttackRange: 1,
				Position: model.Position{X: 2, Y: 1}, Alive: true, Category: model.CategoryHero},
			{ID: "p2-hero", Owner: model.P2, HP: 1, MaxHP: 5, Attack: 1, MoveRange: 1, AttackRange: 1,
				Position: model.Position{X: 2, Y: 2}, Alive: true, Category: model.CategoryHero},
		},
	}
}

func TestMovePassesTurnToOpponent(t *testing.T) {
	s := twoHeroState()
	action := model.Action{Type: model.ActionMove, ActingUnitID: "p1-hero",
		TargetX: intPtr(1), TargetY: intPtr(1)}

	if res := Validate(s, model.P1, action); !res.OK {
		t.Fatalf("expected valid move, got %v", res)
	}

	next := Apply(s, model.P1, action, rand.New(rand.NewSource(1)))

	u, _ := next.UnitByID("p1-hero")
	if u.Position != (model.Position{X: 1, Y: 1}) {
		t.Fatalf("expected hero to move, got %+v", u.Position)
	}
	if u.ActionsUsed != 1 {
		t.Fatalf("expected one action spent, got %d", u.ActionsUsed)
	}
	if next.CurrentPlayer != model.P2 {
		t.Fatalf("expected turn to pass to P2, got %v", next.CurrentPlayer)
	}
}

func TestAttackKillsAndDeclaresGameOver(t *testing.T) {
	s := twoHeroState()
	action := model.Action{Type: model.ActionAttack, ActingUnitID: "p1-hero", TargetUnitID: "p2-hero"}

	if res := Validate(s, model.P1, action); !res.OK {
		t.Fatalf("expected valid attack, got %v", res)
	}

	next := Apply(s, model.P1, action, rand.New(rand.NewSource(1)))

	p2, _ := next.UnitByID("p2-hero")
	if p2.Alive {
		t.Fatalf("expected p2 hero to die to a 1-damage hit on 1 hp")
	}
	if !next.GameOver {
		t.Fatalf("expected game over once the only enemy hero dies")
	}
	if next.Winner == nil || *next.Winner != model.P1 {
		t.Fatalf("expected P1 to be declared winner, got %v", next.Winner)
	}
}

func TestValidateRejectsActionOutOfTurn(t *testing.T) {
	s := twoHeroState()
	action := model.Action{Type: model.ActionAttack, ActingUnitID: "p2-hero", TargetUnitID: "p1-hero"}

	res := Validate(s, model.P2, action)
	if res.OK {
		t.Fatalf("expected P2 acting on P1's turn to be rejected")
	}
	if res.Kind != model.ErrNotYourTurn {
		t.Fatalf("expected ErrNotYourTurn, got %v", res.Kind)
	}
}

func TestValidateRejectsOutOfRangeMove(t *testing.T) {
	s := twoHeroState()
	action := model.Action{Type: model.ActionMove, ActingUnitID: "p1-hero",
		TargetX: intPtr(2), TargetY: intPtr(4)}

	res := Validate(s, model.P1, action)
	if res.OK {
		t.Fatalf("expected a 3-cell move beyond moveRange 1 to be rejected")
	}
	if res.Kind != model.ErrOutOfRange {
		t.Fatalf("expected ErrOutOfRange, got %v", res.Kind)
	}
}

func TestEndTurnEndsRoundOnceBothSidesExhausted(t *testing.T) {
	s := twoHeroState()
	s.Units[0].ActionsUsed = 1 // p1-hero already acted
	s.Units[1].ActionsUsed = 1 // p2-hero already acted
	s.CurrentPlayer = model.P1

	next := Apply(s, model.P1, model.Action{Type: model.ActionEndTurn}, rand.New(rand.NewSource(1)))

	if next.CurrentRound != 2 {
		t.Fatalf("expected round to advance once both sides are exhausted, got %d", next.CurrentRound)
	}
	u, _ := next.UnitByID("p1-hero")
	if u.ActionsUsed != 0 {
		t.Fatalf("expected actionsUsed reset at round end, got %d", u.ActionsUsed)
	}
}

// TestAttackOnMinionRaisesDeathChoiceAndInterruptsTurnPassing exercises the
// death-choice interrupt path: a kill that would otherwise exhaust both
// sides and end the round must instead stall on PendingDeathChoice until
// the owner resolves it, and the round/turn bookkeeping must fire exactly
// once, from the resolution, not twice.
func TestAttackOnMinionRaisesDeathChoiceAndInterruptsTurnPassing(t *testing.T) {
	s := model.GameState{
		MatchID:       "t1",
		Board:         model.NewBoard(),
		CurrentPlayer: model.P1,
		CurrentRound:  1,
		UnitBuffs:     map[string][]model.BuffInstance{},
		TurnEnded:     map[model.PlayerID]bool{},
		Units: []model.Unit{
			{ID: "p1-hero", Owner: model.P1, HP: 5, MaxHP: 5, Attack: 5, MoveRange: 1, AttackRange: 1,
				Position: model.Position{X: 0, Y: 0}, Alive: true, Category: model.CategoryHero, ActionsUsed: 0},
			{ID: "p2-hero", Owner: model.P2, HP: 5, MaxHP: 5, Attack: 1, MoveRange: 1, AttackRange: 1,
				Position: model.Position{X: 5, Y: 5}, Alive: true, Category: model.CategoryHero, ActionsUsed: 1},
			{ID: "p1-minion", Owner: model.P1, HP: 1, MaxHP: 1, Attack: 1, MoveRange: 1, AttackRange: 1,
				Position: model.Position{X: 1, Y: 0}, Alive: true, Category: model.CategoryMinion, MinionType: model.MinionArcher, ActionsUsed: 1},
			{ID: "p2-minion", Owner: model.P2, HP: 1, MaxHP: 1, Attack: 1, MoveRange: 1, AttackRange: 1,
				Position: model.Position{X: 0, Y: 1}, Alive: true, Category: model.CategoryMinion, MinionType: model.MinionArcher, ActionsUsed: 1},
		},
	}

	action := model.Action{Type: model.ActionAttack, ActingUnitID: "p1-hero", TargetUnitID: "p2-minion"}
	if res := Validate(s, model.P1, action); !res.OK {
		t.Fatalf("expected the attack to validate, got %v", res)
	}
	rng := rand.New(rand.NewSource(1))
	next := Apply(s, model.P1, action, rng)

	if next.PendingDeathChoice == nil {
		t.Fatalf("expected a pending death choice after the minion died")
	}
	if next.PendingDeathChoice.OwnerID != model.P2 {
		t.Fatalf("expected the death choice to belong to the minion's owner P2, got %v", next.PendingDeathChoice.OwnerID)
	}
	if next.CurrentRound != 1 {
		t.Fatalf("expected round end to be held back while a death choice is pending, got round %d", next.CurrentRound)
	}
	if next.CurrentPlayer != model.P1 {
		t.Fatalf("expected turn handoff to be held back while a death choice is pending, got %v", next.CurrentPlayer)
	}
	if u, _ := next.UnitByID("p1-minion"); u.ActionsUsed != 1 {
		t.Fatalf("expected actionsUsed reset to be held back, got %d", u.ActionsUsed)
	}

	resolve := model.Action{Type: model.ActionDeathChoice, DeathChoice: model.ChoiceSpawnObstacle}
	if res := Validate(next, model.P1, resolve); res.OK {
		t.Fatalf("expected P1 (non-owner) resolving the choice to be rejected")
	}
	if res := Validate(next, model.P2, resolve); !res.OK {
		t.Fatalf("expected the owner P2 to be able to resolve the choice, got %v", res)
	}

	resolved := Apply(next, model.P2, resolve, rng)
	if resolved.PendingDeathChoice != nil {
		t.Fatalf("expected the death choice to be cleared once resolved")
	}
	if resolved.CurrentRound != 2 {
		t.Fatalf("expected the round-end bookkeeping to fire exactly once after resolution, got round %d", resolved.CurrentRound)
	}
	foundObstacle := false
	for _, o := range resolved.Obstacles {
		if o.Position == (model.Position{X: 0, Y: 1}) {
			foundObstacle = true
		}
	}
	if !foundObstacle {
		t.Fatalf("expected an obstacle spawned at the dead minion's position")
	}
}

// TestSimultaneousDeathDeclaresActingPlayerWinner covers spec.md §8's
// simultaneous-death tie-break: if the acting player's attack kills the
// only enemy hero while the acting player's own hero is already dead
// (e.g. from a prior bleed tick in the same resolution), the active
// player is declared the winner rather than leaving the match undecided.
func TestSimultaneousDeathDeclaresActingPlayerWinner(t *testing.T) {
	s := twoHeroState()
	s.Units[0].HP = 0
	s.Units[0].Alive = false
	action := model.Action{Type: model.ActionAttack, ActingUnitID: "p1-hero", TargetUnitID: "p2-hero"}

	next := Apply(s, model.P1, action, rand.New(rand.NewSource(1)))

	if !next.GameOver {
		t.Fatalf("expected game over once both heroes are dead")
	}
	if next.Winner == nil || *next.Winner != model.P1 {
		t.Fatalf("expected the acting player P1 to win the simultaneous-death tie-break, got %v", next.Winner)
	}
}

// TestGuardianRedirectsDamageFromAdjacentAlly covers the TANK redirection
// step of the damage pipeline: an attack aimed at a non-TANK ally of an
// adjacent living TANK lands on the TANK instead.
func TestGuardianRedirectsDamageFromAdjacentAlly(t *testing.T) {
	s := model.GameState{
		MatchID:       "t1",
		Board:         model.NewBoard(),
		CurrentPlayer: model.P1,
		CurrentRound:  1,
		UnitBuffs:     map[string][]model.BuffInstance{},
		TurnEnded:     map[model.PlayerID]bool{},
		Units: []model.Unit{
			{ID: "p1-hero", Owner: model.P1, HP: 5, MaxHP: 5, Attack: 1, MoveRange: 1, AttackRange: 1,
				Position: model.Position{X: 0, Y: 0}, Alive: true, Category: model.CategoryHero},
			{ID: "p2-hero", Owner: model.P2, HP: 5, MaxHP: 5, Attack: 1, MoveRange: 1, AttackRange: 1,
				Position: model.Position{X: 5, Y: 5}, Alive: true, Category: model.CategoryHero},
			{ID: "p2-squishy", Owner: model.P2, HP: 3, MaxHP: 3, Attack: 1, MoveRange: 1, AttackRange: 1,
				Position: model.Position{X: 1, Y: 0}, Alive: true, Category: model.CategoryMinion, MinionType: model.MinionArcher},
			{ID: "p2-guardian", Owner: model.P2, HP: 3, MaxHP: 3, Attack: 1, MoveRange: 1, AttackRange: 1,
				Position: model.Position{X: 2, Y: 0}, Alive: true, Category: model.CategoryMinion, MinionType: model.MinionTank},
		},
	}
	action := model.Action{Type: model.ActionAttack, ActingUnitID: "p1-hero", TargetUnitID: "p2-squishy"}

	next := Apply(s, model.P1, action, rand.New(rand.NewSource(1)))

	squishy, _ := next.UnitByID("p2-squishy")
	guardian, _ := next.UnitByID("p2-guardian")
	if squishy.HP != 3 {
		t.Fatalf("expected the guarded unit to take no damage, got hp %d", squishy.HP)
	}
	if guardian.HP != 2 {
		t.Fatalf("expected the adjacent TANK to absorb the hit, got hp %d", guardian.HP)
	}
}

// TestRoundEightPressureTicksAtRoundEightEndNotSeven covers the off-by-one
// regression in the round-8 pressure tick: every alive unit should lose an
// extra 1 hp at the end of round 8, not round 7.
func TestRoundEightPressureTicksAtRoundEightEndNotSeven(t *testing.T) {
	base := func(round int) model.GameState {
		s := twoHeroState()
		s.Units[0].HP = 5
		s.Units[1].HP = 5
		s.Units[0].ActionsUsed = 1
		s.Units[1].ActionsUsed = 1
		s.CurrentRound = round
		s.CurrentPlayer = model.P1
		return s
	}

	endedSeven := Apply(base(7), model.P1, model.Action{Type: model.ActionEndTurn}, rand.New(rand.NewSource(1)))
	if endedSeven.CurrentRound != 8 {
		t.Fatalf("expected round 7 to end into round 8, got %d", endedSeven.CurrentRound)
	}
	if u, _ := endedSeven.UnitByID("p1-hero"); u.HP != 5 {
		t.Fatalf("expected no pressure tick at round 7 end, got hp %d", u.HP)
	}

	endedEight := Apply(base(8), model.P1, model.Action{Type: model.ActionEndTurn}, rand.New(rand.NewSource(1)))
	if endedEight.CurrentRound != 9 {
		t.Fatalf("expected round 8 to end into round 9, got %d", endedEight.CurrentRound)
	}
	if u, _ := endedEight.UnitByID("p1-hero"); u.HP != 4 {
		t.Fatalf("expected the round-8 pressure tick to cost 1 hp, got hp %d", u.HP)
	}
}

// TestWarpBeaconPlantsThenRoundTripsCaster covers Warp Beacon's two-cast
// behavior: the first cast plants a beacon without moving the caster, the
// second teleports the caster there and leaves the beacon behind for a
// third cast to return from.
func TestWarpBeaconPlantsThenRoundTripsCaster(t *testing.T) {
	s := twoHeroState()
	s.Units[0].SelectedSkillID = skills.SkillWarpBeacon
	origin := s.Units[0].Position
	beacon := model.Position{X: 0, Y: 0}

	plant := model.Action{Type: model.ActionUseSkill, ActingUnitID: "p1-hero",
		TargetX: intPtr(beacon.X), TargetY: intPtr(beacon.Y)}
	if res := Validate(s, model.P1, plant); !res.OK {
		t.Fatalf("expected the planting cast to validate, got %v", res)
	}
	afterPlant := Apply(s, model.P1, plant, rand.New(rand.NewSource(1)))
	if u, _ := afterPlant.UnitByID("p1-hero"); u.Position != origin {
		t.Fatalf("expected the planting cast to leave the caster in place, got %+v", u.Position)
	}

	afterPlant.CurrentPlayer = model.P1
	if u, ok := afterPlant.UnitByID("p1-hero"); ok {
		u.SkillCooldown = 0
		u.ActionsUsed = 0
		setUnit(&afterPlant, u)
	}

	teleport := model.Action{Type: model.ActionUseSkill, ActingUnitID: "p1-hero",
		TargetX: intPtr(beacon.X), TargetY: intPtr(beacon.Y)}
	afterTeleport := Apply(afterPlant, model.P1, teleport, rand.New(rand.NewSource(1)))
	if u, _ := afterTeleport.UnitByID("p1-hero"); u.Position != beacon {
		t.Fatalf("expected the second cast to teleport the caster to the beacon, got %+v", u.Position)
	}
}

func intPtr(v int) *int { return &v }
