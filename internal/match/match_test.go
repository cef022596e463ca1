package match

import (
	"sync"
	"testing"
	"time"

	"tactics-arena/internal/config"
	"tactics-arena/internal/model"
)

// fakePeer collects every envelope sent to it, for assertions in tests.
type fakePeer struct {
	id string
	mu sync.Mutex
	out [][]byte
}

func newFakePeer(id string) *fakePeer { return &fakePeer{id: id} }

func (p *fakePeer) Send(envelope []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = append(p.out, envelope)
	return nil
}

func (p *fakePeer) ConnectionID() string { return p.id }

func (p *fakePeer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.out)
}

func testConfig() config.AppConfig {
	cfg := config.Load()
	cfg.Timers.Disabled = true
	cfg.Limits.MailboxBuffer = 16
	return cfg
}

func TestJoinAssignsSeatsInOrder(t *testing.T) {
	m := NewMatch("m1", testConfig())
	defer m.Teardown()

	p1 := newFakePeer("c1")
	p2 := newFakePeer("c2")

	seat1, err := m.Join(p1)
	if err != nil || seat1 != model.P1 {
		t.Fatalf("expected P1, got %v err %v", seat1, err)
	}
	seat2, err := m.Join(p2)
	if err != nil || seat2 != model.P2 {
		t.Fatalf("expected P2, got %v err %v", seat2, err)
	}

	p3 := newFakePeer("c3")
	if _, err := m.Join(p3); err == nil {
		t.Fatalf("expected a third join to be rejected")
	}
}

func TestDraftCompletionStartsBattle(t *testing.T) {
	m := NewMatch("m2", testConfig())
	defer m.Teardown()

	p1, p2 := newFakePeer("c1"), newFakePeer("c2")
	m.Join(p1)
	m.Join(p2)

	m.DraftPick(model.P1, "minion", "TANK")
	m.DraftPick(model.P1, "minion", "ARCHER")
	m.DraftPick(model.P2, "minion", "TANK")
	m.DraftPick(model.P2, "minion", "ASSASSIN")

	// Block until the mailbox has drained the picks above.
	waitForMailbox(t, m)

	m.mu.RLock()
	class1, class2 := m.draft.P1.HeroClass, m.draft.P2.HeroClass
	m.mu.RUnlock()

	m.DraftPick(model.P1, "skill", firstSkillFor(class1))
	m.DraftPick(model.P2, "skill", firstSkillFor(class2))
	waitForMailbox(t, m)

	m.mu.RLock()
	phase := m.phase
	m.mu.RUnlock()
	if phase != PhaseBattle {
		t.Fatalf("expected battle to begin once draft completes, phase=%v", phase)
	}
	if p1.count() == 0 || p2.count() == 0 {
		t.Fatalf("expected both peers to receive broadcasts")
	}
}

func TestSubmitInvalidActionNotifiesOnlySubmitter(t *testing.T) {
	m := completedDraftMatch(t)
	defer m.Teardown()

	m.mu.RLock()
	p1 := m.peers[model.P1].(*fakePeer)
	p2 := m.peers[model.P2].(*fakePeer)
	m.mu.RUnlock()

	before1, before2 := p1.count(), p2.count()

	// P2 acting out of turn is invalid (P1 starts).
	m.Submit(model.P2, model.Action{Type: model.ActionEndTurn, ActingUnitID: "P2-hero"})
	waitForMailbox(t, m)

	if p2.count() != before2+1 {
		t.Fatalf("expected exactly one validation_error to the offending peer")
	}
	if p1.count() != before1 {
		t.Fatalf("expected no broadcast to the other peer on an invalid action")
	}
}

func TestOnDisconnectNotifiesRemainingPeer(t *testing.T) {
	m := completedDraftMatch(t)
	defer m.Teardown()

	m.mu.RLock()
	p2 := m.peers[model.P2].(*fakePeer)
	m.mu.RUnlock()

	before := p2.count()
	m.OnDisconnect(model.P1)
	waitForMailbox(t, m)

	if p2.count() != before+1 {
		t.Fatalf("expected remaining peer to receive player_disconnected")
	}
	if m.BothDisconnected() {
		t.Fatalf("only P1 disconnected; P2 still holds its seat")
	}
}

// TestDeathChoiceDefaultsToSpawnObstacleOnTimeout covers spec.md §4.8's
// death-choice timeout default: if the owning player never resolves a
// pending choice, onDeathChoiceTimeout must apply SPAWN_OBSTACLE on their
// behalf rather than leaving the match stalled.
func TestDeathChoiceDefaultsToSpawnObstacleOnTimeout(t *testing.T) {
	m := completedDraftMatch(t)
	defer m.Teardown()

	pos := model.Position{X: 0, Y: 0}
	m.mu.Lock()
	state := m.state
	state.PendingDeathChoice = &model.DeathChoice{
		OwnerID:  model.P2,
		Position: pos,
		UnitID:   "dead-minion",
	}
	m.state = state
	m.mu.Unlock()

	m.onDeathChoiceTimeout()
	waitForMailbox(t, m)

	m.mu.RLock()
	next := m.state
	m.mu.RUnlock()

	if next.PendingDeathChoice != nil {
		t.Fatalf("expected the timeout default to clear the pending death choice")
	}
	found := false
	for _, o := range next.Obstacles {
		if o.Position == pos {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the timeout default to spawn an obstacle at the dead minion's position")
	}
}

func waitForMailbox(t *testing.T, m *Match) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := m.mailbox.Stats()
		if s.Enqueued == s.Processed {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("mailbox did not drain in time")
}

func firstSkillFor(class model.HeroClass) string {
	switch class {
	case model.ClassWarrior:
		return "endure"
	case model.ClassMage:
		return "elemental_blast"
	case model.ClassRogue:
		return "smoke_bomb"
	case model.ClassCleric:
		return "trinity"
	case model.ClassHuntress:
		return "spirit_hawk"
	default:
		return "elemental_strike"
	}
}

func completedDraftMatch(t *testing.T) *Match {
	t.Helper()
	m := NewMatch("m3", testConfig())
	m.Join(newFakePeer("c1"))
	m.Join(newFakePeer("c2"))

	m.mu.RLock()
	class1, class2 := m.draft.P1.HeroClass, m.draft.P2.HeroClass
	m.mu.RUnlock()

	m.DraftPick(model.P1, "minion", "TANK")
	m.DraftPick(model.P1, "minion", "ARCHER")
	m.DraftPick(model.P1, "skill", firstSkillFor(class1))
	m.DraftPick(model.P2, "minion", "TANK")
	m.DraftPick(model.P2, "minion", "ASSASSIN")
	m.DraftPick(model.P2, "skill", firstSkillFor(class2))
	waitForMailbox(t, m)

	m.mu.RLock()
	phase := m.phase
	m.mu.RUnlock()
	if phase != PhaseBattle {
		t.Fatalf("setup failed to reach battle phase, got %v", phase)
	}
	return m
}
