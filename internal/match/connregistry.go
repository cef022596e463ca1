package match

import (
	"sync"

	"tactics-arena/internal/model"
)

// connEntry is what a connection id resolves to: which match and seat it
// occupies, so a websocket close handler can route onDisconnect without
// the transport layer needing to know about match internals.
type connEntry struct {
	MatchID  string
	PlayerID model.PlayerID
}

// ConnRegistry is the keyed store of connectionId → (matchId, seat)
// described in spec.md §5. A plain mutex-guarded map suffices here —
// registrations are infrequent (one per join) relative to the
// high-frequency per-match mailbox traffic that justified sync.Map in
// Registry.
type ConnRegistry struct {
	mu      sync.RWMutex
	entries map[string]connEntry
}

// NewConnRegistry constructs an empty connection registry.
func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{entries: make(map[string]connEntry)}
}

// Register associates a connection id with the match/seat it joined.
func (c *ConnRegistry) Register(connID, matchID string, seat model.PlayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[connID] = connEntry{MatchID: matchID, PlayerID: seat}
}

// Lookup resolves a connection id back to its match/seat.
func (c *ConnRegistry) Lookup(connID string) (matchID string, seat model.PlayerID, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, found := c.entries[connID]
	return e.MatchID, e.PlayerID, found
}

// Unregister clears a connection id's entry, done before broadcasting
// player_disconnected so the cleared reference can never be addressed
// again (spec.md §5's disconnect-clears-before-broadcast requirement).
func (c *ConnRegistry) Unregister(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, connID)
}
