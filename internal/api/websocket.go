package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"tactics-arena/internal/match"
	"tactics-arena/internal/model"
	"tactics-arena/internal/protocol"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed.
	MaxWSConnectionsTotal = 2000

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP.
	MaxWSConnectionsPerIP = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("websocket: connection rejected from origin %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

var connIDCounter atomic.Uint64

// wsPeer adapts a *websocket.Conn to match.Peer. gorilla/websocket
// forbids concurrent writers on one connection, so every Send goes
// through a mutex. The orchestrator calls Send only from its single
// mailbox worker; the lock keeps writes serialized regardless of caller.
type wsPeer struct {
	conn *websocket.Conn
	id   string
	mu   sync.Mutex
}

func newWSPeer(conn *websocket.Conn) *wsPeer {
	return &wsPeer{conn: conn, id: fmt.Sprintf("conn-%d", connIDCounter.Add(1))}
}

func (p *wsPeer) Send(envelope []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	IncrementWSMessages()
	return p.conn.WriteMessage(websocket.TextMessage, envelope)
}

func (p *wsPeer) ConnectionID() string { return p.id }

// WebSocketHub owns the match registry and connection registry and
// exposes the single /ws upgrade endpoint, generalized from the
// teacher's broadcast-to-everyone hub into a per-match, per-seat
// addressed hub: each connection is routed to exactly one match/seat
// pair rather than every connected client receiving every broadcast.
type WebSocketHub struct {
	registry     *match.Registry
	connRegistry *match.ConnRegistry
	wsLimiter    *WebSocketRateLimiter

	mu       sync.RWMutex
	active   map[string]*wsPeer
}

// NewWebSocketHub constructs a hub bound to the given match registry.
func NewWebSocketHub(registry *match.Registry) *WebSocketHub {
	return &WebSocketHub{
		registry:     registry,
		connRegistry: match.NewConnRegistry(),
		wsLimiter:    NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
		active:       make(map[string]*wsPeer),
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.active)
}

// HandleWebSocket upgrades the connection, joins the requested match,
// and then reads protocol envelopes for the lifetime of the socket.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	h.mu.RLock()
	total := len(h.active)
	h.mu.RUnlock()
	if total >= MaxWSConnectionsTotal {
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.wsLimiter.Allow(ip) {
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		h.wsLimiter.Release(ip)
		http.Error(w, "matchId is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.wsLimiter.Release(ip)
		log.Printf("websocket: upgrade error: %v", err)
		return
	}

	peer := newWSPeer(conn)
	h.mu.Lock()
	h.active[peer.id] = peer
	h.mu.Unlock()
	UpdateWSConnections(h.ClientCount())

	m := h.registry.GetOrCreate(matchID)
	seat, err := m.Join(peer)
	if err != nil {
		log.Printf("websocket: join rejected for match %s: %v", matchID, err)
		conn.Close()
		h.cleanup(peer, ip)
		return
	}
	h.connRegistry.Register(peer.id, matchID, seat)

	defer func() {
		h.connRegistry.Unregister(peer.id)
		m.OnDisconnect(seat)
		conn.Close()
		h.cleanup(peer, ip)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.dispatch(m, seat, raw)
	}
}

func (h *WebSocketHub) cleanup(peer *wsPeer, ip string) {
	h.mu.Lock()
	delete(h.active, peer.id)
	h.mu.Unlock()
	h.wsLimiter.Release(ip)
	UpdateWSConnections(h.ClientCount())
}

func (h *WebSocketHub) dispatch(m *match.Match, seat model.PlayerID, raw []byte) {
	env, err := protocol.DecodeEnvelope(raw)
	if err != nil {
		return
	}

	switch env.Type {
	case protocol.TypeAction:
		var p protocol.ActionPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		m.Submit(seat, p.Action)
	case protocol.TypeDraftPick:
		var p protocol.DraftPickPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		m.DraftPick(seat, p.PickType, p.Value)
	case protocol.TypeDeathChoice:
		var p protocol.DeathChoicePayload
		if json.Unmarshal(env.Payload, &p) != nil {
			return
		}
		m.DeathChoice(seat, p.Choice)
	}
}
