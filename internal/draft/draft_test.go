package draft

import (
	"math/rand"
	"testing"

	"tactics-arena/internal/model"
	"tactics-arena/internal/skills"
)

func TestPickMinionIgnoresThirdPick(t *testing.T) {
	s := New(model.P1, model.ClassWarrior)
	s = PickMinion(s, model.MinionTank)
	s = PickMinion(s, model.MinionArcher)
	s = PickMinion(s, model.MinionAssassin)

	if len(s.SelectedMinions) != 2 {
		t.Fatalf("expected 2 minions, got %d", len(s.SelectedMinions))
	}
	if s.SelectedMinions[1] != model.MinionArcher {
		t.Fatalf("third pick should not have overwritten the second slot")
	}
}

func TestPickSkillRejectsWrongClass(t *testing.T) {
	s := New(model.P1, model.ClassWarrior)
	s = PickSkill(s, "elemental_blast")

	if s.SelectedSkillID != "" {
		t.Fatalf("mage skill should be rejected for a warrior")
	}

	s = PickSkill(s, "shockwave")
	if s.SelectedSkillID != "shockwave" {
		t.Fatalf("expected shockwave to be accepted")
	}
}

func TestAutoPickCompletesState(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := New(model.P2, model.ClassCleric)
	s = AutoPick(s, rng)

	if !s.Complete() {
		t.Fatalf("expected AutoPick to produce a complete draft state")
	}
	def, ok := skills.Get(s.SelectedSkillID)
	if !ok {
		t.Fatalf("auto-picked skill id %q not found in catalog", s.SelectedSkillID)
	}
	if def.Class != model.ClassCleric {
		t.Fatalf("auto-picked skill belongs to wrong class: %v", def.Class)
	}
}

func TestEngineTickAutoCompletesIncompleteSlots(t *testing.T) {
	e := NewEngine("match-1", model.ClassRogue, model.ClassHuntress)
	e.Apply(model.P1, "minion", string(model.MinionAssassin))

	rng := rand.New(rand.NewSource(7))
	e.Tick(rng)

	if !e.Ready() {
		t.Fatalf("expected engine to be ready after Tick auto-completes both sides")
	}
}

func TestBuildInitialStatePlacesUnitsAtFixedPositions(t *testing.T) {
	p1 := New(model.P1, model.ClassWarrior)
	p1 = PickMinion(p1, model.MinionTank)
	p1 = PickMinion(p1, model.MinionArcher)
	p1 = PickSkill(p1, "shockwave")

	p2 := New(model.P2, model.ClassMage)
	p2 = PickMinion(p2, model.MinionAssassin)
	p2 = PickMinion(p2, model.MinionTank)
	p2 = PickSkill(p2, "wild_magic")

	state := BuildInitialState("match-1", Result{P1: p1, P2: p2})

	if state.CurrentRound != 1 || state.CurrentPlayer != model.P1 {
		t.Fatalf("expected round 1, P1 to act; got round %d player %v", state.CurrentRound, state.CurrentPlayer)
	}
	if len(state.Units) != 6 {
		t.Fatalf("expected 6 units (2 heroes + 4 minions), got %d", len(state.Units))
	}

	hero, ok := state.UnitByID("P1-hero")
	if !ok || hero.Position != (model.Position{X: 2, Y: 0}) {
		t.Fatalf("P1 hero not at expected start position: %+v", hero)
	}
	hero2, ok := state.UnitByID("P2-hero")
	if !ok || hero2.Position != (model.Position{X: 2, Y: 4}) {
		t.Fatalf("P2 hero not at expected start position: %+v", hero2)
	}
}
