// Package match implements the per-match orchestrator: join/submit/
// disconnect handling, timer scheduling, and the single-writer mailbox
// serialization described in spec.md §4.8/§5. It is transport-agnostic —
// internal/api wires a *websocket.Conn into the Peer interface.
package match

// Peer is a thin handle over one player's connection, addressed by the
// orchestrator to deliver protocol envelopes. internal/api implements
// this over a *websocket.Conn; tests implement it with a fake that records
// every sent envelope.
type Peer interface {
	Send(envelope []byte) error
	ConnectionID() string
}
