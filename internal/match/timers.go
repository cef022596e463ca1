package match

import (
	"sync"
	"time"
)

// TimerKind names which of the three orchestrator timers is running.
type TimerKind string

const (
	TimerAction      TimerKind = "ACTION"
	TimerDeathChoice TimerKind = "DEATH_CHOICE"
	TimerDraft       TimerKind = "DRAFT"
)

// TimerSet tracks the single currently-active timer for a match (at most
// one of {action, death-choice, draft} is ever live at once, since those
// phases are mutually exclusive) and guarantees a canceled timer can
// never fire a stale callback — spec.md §5's cancellation requirement.
type TimerSet struct {
	mu       sync.Mutex
	kind     TimerKind
	timer    *time.Timer
	startedAt time.Time
	timeoutMS int
	generation uint64
}

// Start cancels any running timer and starts a new one. fn is invoked on
// the mailbox's own goroutine path by the caller (the orchestrator passes
// a closure that enqueues onto the mailbox, keeping the single-writer
// guarantee intact) only if the timer has not been canceled or
// superseded by a later Start/Cancel in the meantime.
func (t *TimerSet) Start(kind TimerKind, d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.generation++
	gen := t.generation
	t.kind = kind
	t.startedAt = time.Now()
	t.timeoutMS = int(d / time.Millisecond)

	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		current := t.generation
		if current == gen {
			t.timer = nil
		}
		t.mu.Unlock()
		if current != gen {
			return // superseded or canceled; never fire a stale callback
		}
		fn()
	})
}

// Cancel stops the active timer, if any, and ensures its callback (even
// if already fired into the runtime's internal queue) is a no-op.
func (t *TimerSet) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.generation++
	t.kind = ""
}

// Info reports the active timer for inclusion in a state_update message,
// and whether one is running at all.
func (t *TimerSet) Info() (kind TimerKind, startedAt time.Time, timeoutMS int, active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.kind, t.startedAt, t.timeoutMS, t.timer != nil
}
