package comm

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Peer wraps one live WebSocket connection occupying a session slot.
// Writes are serialized: gorilla connections do not support concurrent
// writers, and AI turn results arrive from a different goroutine than the
// connection's read loop.
type Peer struct {
	conn *websocket.Conn

	mu        sync.Mutex
	closeOnce sync.Once
}

func newPeer(conn *websocket.Conn) *Peer {
	return &Peer{conn: conn}
}

// envelope is the wire form of every outbound frame.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Send writes one typed frame to the peer. A write failure means the
// transport is gone; callers treat it as a disconnect of this peer.
func (p *Peer) Send(typ string, data any) error {
	b, err := json.Marshal(envelope{Type: typ, Data: data})
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, b)
}

// SendError reports a protocol or processing error to this peer only.
func (p *Peer) SendError(message string) error {
	return p.Send(TypeError, errorData{Message: message})
}

// CloseWith sends a final typed frame with a human-readable reason and
// closes the transport. Safe to call on an already dead connection.
func (p *Peer) CloseWith(typ, message string) {
	_ = p.Send(typ, errorData{Message: message})
	p.Close()
}

// Close closes the underlying connection. Idempotent.
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		_ = p.conn.Close()
	})
}
