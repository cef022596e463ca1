package match

import (
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"sync"
	"time"

	"tactics-arena/internal/config"
	"tactics-arena/internal/draft"
	"tactics-arena/internal/model"
	"tactics-arena/internal/protocol"
	"tactics-arena/internal/rules"
	"tactics-arena/internal/serialize"
)

// Phase is which stage of a match's lifecycle is active.
type Phase string

const (
	PhaseWaiting Phase = "WAITING" // one peer joined, waiting for the second
	PhaseDraft   Phase = "DRAFT"
	PhaseBattle  Phase = "BATTLE"
	PhaseOver    Phase = "OVER"
)

// Match owns one game's entire authoritative lifecycle: draft, battle,
// timers, and the two peer handles, per spec.md §4.8. All mutation of
// Match fields happens on the mailbox's single worker goroutine; fields
// are read from other goroutines only through the thread-safe accessors
// below.
type Match struct {
	ID  string
	cfg config.AppConfig

	mailbox *Mailbox
	timers  *TimerSet
	rng     *rand.Rand

	mu    sync.RWMutex
	phase Phase
	peers map[model.PlayerID]Peer
	draft *draft.Engine
	state model.GameState

	disconnectedAt map[model.PlayerID]time.Time
	lastActivity   time.Time
}

// NewMatch constructs a match in the WAITING phase. Each side's hero class
// is drawn at random from model.AllHeroClasses with the match RNG, which is
// seeded from RNG_SEED when set and otherwise from a hash of the match id,
// so the same matchId always yields the same classes.
func NewMatch(id string, cfg config.AppConfig) *Match {
	seed := cfg.RNG.Seed
	if !cfg.RNG.FromSeed {
		seed = seedFromMatchID(id)
	}

	m := &Match{
		ID:             id,
		cfg:            cfg,
		mailbox:        NewMailbox(cfg.Limits.MailboxBuffer),
		timers:         &TimerSet{},
		rng:            rand.New(rand.NewSource(seed)),
		phase:          PhaseWaiting,
		peers:          make(map[model.PlayerID]Peer),
		disconnectedAt: make(map[model.PlayerID]time.Time),
		lastActivity:   time.Now(),
	}
	m.draft = draft.NewEngine(id, pickHeroClass(m.rng), pickHeroClass(m.rng))
	m.mailbox.Start()
	return m
}

func seedFromMatchID(id string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return int64(h.Sum64())
}

func pickHeroClass(rng *rand.Rand) model.HeroClass {
	return model.AllHeroClasses[rng.Intn(len(model.AllHeroClasses))]
}

// Teardown stops the match's mailbox and cancels its timer.
func (m *Match) Teardown() {
	m.timers.Cancel()
	m.mailbox.Stop()
}

// LastActivity reports when the match last processed an event, used by
// the registry's grace-period eviction sweep.
func (m *Match) LastActivity() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastActivity
}

// BothDisconnected reports whether every seat that has ever joined is
// currently marked disconnected.
func (m *Match) BothDisconnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.peers) == 0 {
		return false
	}
	for seat := range m.peers {
		if _, gone := m.disconnectedAt[seat]; !gone {
			return false
		}
	}
	return true
}

func (m *Match) touch() {
	m.mu.Lock()
	m.lastActivity = time.Now()
	m.mu.Unlock()
}

// Join assigns the first joiner P1 and the second P2, per spec.md §4.8.
// A join attempt when both seats are taken returns an error; a peer that
// already holds a seat is not recognised and is given the free seat, if
// any. Synchronous: the websocket handler needs the
// assigned seat immediately to reply with match_joined.
func (m *Match) Join(peer Peer) (model.PlayerID, error) {
	type result struct {
		seat model.PlayerID
		err  error
	}
	done := make(chan result, 1)

	m.mailbox.Enqueue(mailboxAction, func() {
		m.touch()
		m.mu.Lock()
		var seat model.PlayerID
		switch {
		case m.peers[model.P1] == nil:
			seat = model.P1
		case m.peers[model.P2] == nil:
			seat = model.P2
		default:
			m.mu.Unlock()
			done <- result{err: fmt.Errorf("match %s: already has two players", m.ID)}
			return
		}
		m.peers[seat] = peer
		delete(m.disconnectedAt, seat)
		ready := len(m.peers) == 2
		m.mu.Unlock()

		m.sendJoined(peer, seat)
		if ready {
			m.broadcastAll(protocol.TypeGameReady, protocol.GameReadyPayload{})
			m.startDraftTimer()
		}
		done <- result{seat: seat}
	})

	r := <-done
	return r.seat, r.err
}

func (m *Match) sendJoined(peer Peer, seat model.PlayerID) {
	m.mu.RLock()
	var statePayload interface{}
	if m.phase == PhaseBattle || m.phase == PhaseOver {
		stateMap, _ := serialize.ToMap(m.state)
		statePayload = stateMap
	}
	m.mu.RUnlock()

	raw, err := protocol.Encode(protocol.TypeMatchJoined, protocol.MatchJoinedPayload{
		MatchID: m.ID, PlayerID: seat, State: statePayload,
	})
	if err != nil {
		log.Printf("match %s: encode match_joined: %v", m.ID, err)
		return
	}
	_ = peer.Send(raw)
}

// DraftPick routes one player's minion/skill selection into the draft
// engine. Once both sides are complete, battle begins immediately.
func (m *Match) DraftPick(playerID model.PlayerID, pickType, value string) {
	m.mailbox.Enqueue(mailboxDraftPick, func() {
		m.touch()
		m.mu.Lock()
		if m.phase != PhaseDraft && m.phase != PhaseWaiting {
			m.mu.Unlock()
			return
		}
		if m.phase == PhaseWaiting {
			m.phase = PhaseDraft
		}
		m.draft.Apply(playerID, pickType, value)
		ready := m.draft.Ready()
		draftResult := m.draft.Result()
		m.mu.Unlock()

		m.broadcastAll(protocol.TypeDraftUpdate, protocol.DraftUpdatePayload{DraftState: draftResult})
		if ready {
			m.beginBattle(draftResult)
		} else {
			m.startDraftTimer()
		}
	})
}

func (m *Match) startDraftTimer() {
	if m.cfg.Timers.Disabled {
		return
	}
	m.timers.Start(TimerDraft, time.Duration(m.cfg.Timers.DraftTimeoutMS)*time.Millisecond, func() {
		m.mailbox.Enqueue(mailboxTimer, m.onDraftTimeout)
	})
}

func (m *Match) onDraftTimeout() {
	m.touch()
	m.mu.Lock()
	if m.phase == PhaseBattle || m.phase == PhaseOver {
		m.mu.Unlock()
		return
	}
	m.draft.Tick(m.rng)
	ready := m.draft.Ready()
	draftResult := m.draft.Result()
	m.mu.Unlock()

	m.broadcastAll(protocol.TypeDraftUpdate, protocol.DraftUpdatePayload{DraftState: draftResult})
	if ready {
		m.beginBattle(draftResult)
	} else {
		m.startDraftTimer()
	}
}

func (m *Match) beginBattle(result draft.Result) {
	m.mu.Lock()
	m.phase = PhaseBattle
	m.state = draft.BuildInitialState(m.ID, result)
	m.mu.Unlock()

	m.broadcastState(nil)
	m.startActionTimer()
}

// Submit validates and applies an action on behalf of playerID. Invalid
// actions are reported only to the submitting peer via validation_error
// and never mutate state (spec.md §4.8).
func (m *Match) Submit(playerID model.PlayerID, action model.Action) {
	m.mailbox.Enqueue(mailboxAction, func() {
		m.touch()
		m.mu.Lock()
		if m.phase != PhaseBattle {
			m.mu.Unlock()
			return
		}
		peer := m.peers[playerID]
		state := m.state
		m.mu.Unlock()

		result := rules.Validate(state, playerID, action)
		if !result.OK {
			m.sendValidationError(peer, result.Error())
			return
		}

		next := rules.Apply(state, playerID, action, m.rng)
		if next.Sequence != state.Sequence+1 {
			log.Printf("match %s: out-of-order apply: had sequence %d, got %d", m.ID, state.Sequence, next.Sequence)
		}

		m.mu.Lock()
		m.state = next
		over := next.GameOver
		m.mu.Unlock()

		if over {
			m.timers.Cancel()
			m.broadcastGameOver()
			m.mu.Lock()
			m.phase = PhaseOver
			m.mu.Unlock()
			return
		}

		m.broadcastState(nil)
		m.rescheduleTimers(next)
	})
}

// DeathChoice resolves a pending death-choice interrupt.
func (m *Match) DeathChoice(playerID model.PlayerID, choice model.DeathChoiceKind) {
	m.Submit(playerID, model.Action{Type: model.ActionDeathChoice, DeathChoice: choice})
}

func (m *Match) rescheduleTimers(state model.GameState) {
	if m.cfg.Timers.Disabled {
		return
	}
	if state.PendingDeathChoice != nil {
		m.timers.Start(TimerDeathChoice, time.Duration(m.cfg.Timers.DeathChoiceTimeoutMS)*time.Millisecond, func() {
			m.mailbox.Enqueue(mailboxTimer, m.onDeathChoiceTimeout)
		})
		return
	}
	m.startActionTimer()
}

func (m *Match) startActionTimer() {
	if m.cfg.Timers.Disabled {
		return
	}
	m.timers.Start(TimerAction, time.Duration(m.cfg.Timers.ActionTimeoutMS)*time.Millisecond, func() {
		m.mailbox.Enqueue(mailboxTimer, m.onActionTimeout)
	})
}

// onActionTimeout applies the expiry penalty spec.md §4.8 describes: the
// current player's acting hero loses 1 hp and an auto END_TURN is
// applied as if submitted by that player.
func (m *Match) onActionTimeout() {
	m.touch()
	m.mu.Lock()
	if m.phase != PhaseBattle {
		m.mu.Unlock()
		return
	}
	state := m.state
	current := state.CurrentPlayer
	m.mu.Unlock()

	if hero, ok := state.LivingHero(current); ok {
		penalized := state.Clone()
		if u, found := penalized.UnitByID(hero.ID); found {
			u.HP--
			if u.HP <= 0 {
				u.HP = 0
				u.Alive = false
			}
			for i := range penalized.Units {
				if penalized.Units[i].ID == u.ID {
					penalized.Units[i] = u
				}
			}
		}
		state = penalized
	}

	next := rules.Apply(state, current, model.Action{Type: model.ActionEndTurn}, m.rng)

	m.mu.Lock()
	m.state = next
	over := next.GameOver
	m.mu.Unlock()

	if over {
		m.timers.Cancel()
		m.broadcastGameOver()
		m.mu.Lock()
		m.phase = PhaseOver
		m.mu.Unlock()
		return
	}
	m.broadcastState(nil)
	m.rescheduleTimers(next)
}

// onDeathChoiceTimeout defaults to SPAWN_OBSTACLE per spec.md §4.8.
func (m *Match) onDeathChoiceTimeout() {
	m.mu.RLock()
	state := m.state
	m.mu.RUnlock()
	if state.PendingDeathChoice == nil {
		return
	}
	m.Submit(state.PendingDeathChoice.OwnerID, model.Action{Type: model.ActionDeathChoice, DeathChoice: model.ChoiceSpawnObstacle})
}

// OnDisconnect marks a seat disconnected and notifies the remaining peer,
// per spec.md §4.8: the match is preserved for reconnection rather than
// torn down immediately.
func (m *Match) OnDisconnect(playerID model.PlayerID) {
	m.mailbox.Enqueue(mailboxDisconnect, func() {
		m.touch()
		m.mu.Lock()
		m.disconnectedAt[playerID] = time.Now()
		delete(m.peers, playerID)
		other := m.peers[playerID.Opponent()]
		m.mu.Unlock()

		if other != nil {
			raw, err := protocol.Encode(protocol.TypePlayerDisconnected, protocol.PlayerDisconnectedPayload{PlayerID: playerID})
			if err == nil {
				_ = other.Send(raw)
			}
		}
	})
}

func (m *Match) sendValidationError(peer Peer, message string) {
	if peer == nil {
		return
	}
	raw, err := protocol.Encode(protocol.TypeValidationError, protocol.ValidationErrorPayload{Message: message})
	if err != nil {
		return
	}
	_ = peer.Send(raw)
}

func (m *Match) broadcastState(extra *protocol.TimerInfo) {
	m.mu.RLock()
	state := m.state
	peers := m.snapshotPeers()
	m.mu.RUnlock()

	stateMap, err := serialize.ToMap(state)
	if err != nil {
		log.Printf("match %s: serialize state: %v", m.ID, err)
		return
	}

	timer := extra
	if timer == nil {
		if kind, startedAt, timeoutMS, active := m.timers.Info(); active {
			timer = &protocol.TimerInfo{
				ActionStartTime: startedAt.UnixMilli(),
				TimeoutMS:       timeoutMS,
				TimerType:       string(kind),
			}
		}
	}

	raw, err := protocol.Encode(protocol.TypeStateUpdate, protocol.StateUpdatePayload{
		State: stateMap, Timer: timer, CurrentPlayer: state.CurrentPlayer,
	})
	if err != nil {
		log.Printf("match %s: encode state_update: %v", m.ID, err)
		return
	}
	for _, p := range peers {
		_ = p.Send(raw)
	}
}

func (m *Match) broadcastGameOver() {
	m.mu.RLock()
	state := m.state
	peers := m.snapshotPeers()
	m.mu.RUnlock()

	stateMap, _ := serialize.ToMap(state)
	raw, err := protocol.Encode(protocol.TypeGameOver, protocol.GameOverPayload{Winner: state.Winner, State: stateMap})
	if err != nil {
		log.Printf("match %s: encode game_over: %v", m.ID, err)
		return
	}
	for _, p := range peers {
		_ = p.Send(raw)
	}
}

func (m *Match) broadcastAll(t protocol.MessageType, payload interface{}) {
	m.mu.RLock()
	peers := m.snapshotPeers()
	m.mu.RUnlock()

	raw, err := protocol.Encode(t, payload)
	if err != nil {
		log.Printf("match %s: encode %s: %v", m.ID, t, err)
		return
	}
	for _, p := range peers {
		_ = p.Send(raw)
	}
}

// snapshotPeers must be called with m.mu held (read or write).
func (m *Match) snapshotPeers() []Peer {
	out := make([]Peer, 0, len(m.peers))
	for _, p := range m.peers {
		out = append(out, p)
	}
	return out
}
