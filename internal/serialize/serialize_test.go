package serialize

import (
	"encoding/json"
	"testing"

	"tactics-arena/internal/model"
)

func sampleState() model.GameState {
	winner := model.P1
	return model.GameState{
		MatchID: "m1",
		Board:   model.NewBoard(),
		Units: []model.Unit{
			{
				ID: "P1-hero", Owner: model.P1, HP: 4, MaxHP: 5, Attack: 1,
				MoveRange: 1, AttackRange: 1, Alive: true, Category: model.CategoryHero,
				HeroClass: model.ClassWarrior, SelectedSkillID: "shockwave",
				Position: model.Position{X: 2, Y: 0},
			},
		},
		CurrentPlayer: model.P2,
		GameOver:      true,
		Winner:        &winner,
		UnitBuffs: map[string][]model.BuffInstance{
			"P1-hero": {{BuffID: "POWER", Type: model.BuffPower, Duration: 2}},
		},
		BuffTiles: []model.BuffTile{
			{ID: "tile-1", Position: model.Position{X: 1, Y: 1}, BuffType: model.BuffLife, Duration: 2},
		},
		Obstacles: []model.Obstacle{
			{ID: "obstacle-1", Position: model.Position{X: 3, Y: 3}, HP: 3},
		},
		CurrentRound: 4,
		PendingDeathChoice: &model.DeathChoice{
			OwnerID: model.P2, Position: model.Position{X: 0, Y: 4}, UnitID: "P2-minion-1",
		},
		TurnEnded: map[model.PlayerID]bool{model.P1: true},
	}
}

// marshaledEqual compares two states by the JSON they produce, sidestepping
// nil-vs-empty-slice/map distinctions that reflect.DeepEqual would flag but
// that are not observable over the wire.
func marshaledEqual(t *testing.T, a, b model.GameState) bool {
	t.Helper()
	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal a: %v", err)
	}
	jb, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal b: %v", err)
	}
	return string(ja) == string(jb)
}

func TestRoundtripViaMap(t *testing.T) {
	s := sampleState()

	m, err := ToMap(s)
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	back, err := FromMap(m)
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}

	if !marshaledEqual(t, s, back) {
		t.Fatalf("roundtrip via map changed the state:\noriginal: %+v\nback:     %+v", s, back)
	}
}

func TestRoundtripViaBytes(t *testing.T) {
	s := sampleState()

	raw, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if !marshaledEqual(t, s, back) {
		t.Fatalf("roundtrip via bytes changed the state")
	}
	if back.Winner == nil || *back.Winner != model.P1 {
		t.Fatalf("winner not preserved: %+v", back.Winner)
	}
	if back.PendingDeathChoice == nil || back.PendingDeathChoice.UnitID != "P2-minion-1" {
		t.Fatalf("pending death choice not preserved: %+v", back.PendingDeathChoice)
	}
}
