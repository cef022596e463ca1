package match

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"tactics-arena/internal/config"
)

// Registry is the process-wide keyed store of live matches, grounded on
// the teacher's kick.ProfileURLCache: a sync.Map for lock-free concurrent
// reads plus atomic counters for observability, generalized here from
// "cache a profile URL" to "own a running match" — including the same
// background-sweep-with-stopChan idiom the teacher's chat.CommandQueue
// uses for its worker lifecycle, repurposed to evict matches whose peers
// have both been gone longer than the grace period (spec.md §5).
type Registry struct {
	matches sync.Map // map[string]*Match
	cfg     config.AppConfig

	stopChan chan struct{}
	wg       sync.WaitGroup

	created  atomic.Uint64
	evicted  atomic.Uint64
}

// NewRegistry constructs an empty registry and starts its eviction sweep.
func NewRegistry(cfg config.AppConfig) *Registry {
	r := &Registry{cfg: cfg, stopChan: make(chan struct{})}
	r.wg.Add(1)
	go r.sweepLoop()
	return r
}

// Stop halts the eviction sweep and tears down every live match.
func (r *Registry) Stop() {
	close(r.stopChan)
	r.wg.Wait()
	r.matches.Range(func(_, v interface{}) bool {
		v.(*Match).Teardown()
		return true
	})
}

// GetOrCreate returns the match for matchID, creating it if absent.
func (r *Registry) GetOrCreate(matchID string) *Match {
	if m, ok := r.matches.Load(matchID); ok {
		return m.(*Match)
	}
	m := NewMatch(matchID, r.cfg)
	actual, loaded := r.matches.LoadOrStore(matchID, m)
	if loaded {
		m.Teardown()
		return actual.(*Match)
	}
	r.created.Add(1)
	return m
}

// Get returns the match for matchID, if any.
func (r *Registry) Get(matchID string) (*Match, bool) {
	m, ok := r.matches.Load(matchID)
	if !ok {
		return nil, false
	}
	return m.(*Match), true
}

// Remove evicts a match immediately, tearing it down.
func (r *Registry) Remove(matchID string) {
	if m, ok := r.matches.LoadAndDelete(matchID); ok {
		m.(*Match).Teardown()
		r.evicted.Add(1)
	}
}

func (r *Registry) sweepLoop() {
	defer r.wg.Done()
	grace := time.Duration(r.cfg.Limits.MatchGraceMS) * time.Millisecond
	if grace <= 0 {
		grace = 30 * time.Second
	}
	ticker := time.NewTicker(grace / 2)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.sweepOnce(grace)
		}
	}
}

func (r *Registry) sweepOnce(grace time.Duration) {
	var toEvict []string
	r.matches.Range(func(k, v interface{}) bool {
		m := v.(*Match)
		if m.BothDisconnected() && time.Since(m.LastActivity()) > grace {
			toEvict = append(toEvict, k.(string))
		}
		return true
	})
	for _, id := range toEvict {
		log.Printf("match %s: evicted after grace period with both peers disconnected", id)
		r.Remove(id)
	}
}

// Stats reports registry-wide counters.
type Stats struct {
	Created uint64
	Evicted uint64
	Live    int
}

func (r *Registry) Stats() Stats {
	live := 0
	r.matches.Range(func(_, _ interface{}) bool { live++; return true })
	return Stats{Created: r.created.Load(), Evicted: r.evicted.Load(), Live: live}
}
