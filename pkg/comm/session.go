package comm

import (
	"sync"
	"sync/atomic"
)

// ConnRole is the slot a connection occupies within a session.
type ConnRole string

const (
	RoleBot          ConnRole = "bot"
	RoleControlPanel ConnRole = "controlPanel"
)

// ParseConnRole maps the role query token to a ConnRole.
func ParseConnRole(s string) (ConnRole, bool) {
	switch ConnRole(s) {
	case RoleBot:
		return RoleBot, true
	case RoleControlPanel:
		return RoleControlPanel, true
	}
	return "", false
}

// Session is the live aggregate for one ongoing communication: the current
// configuration, the ordered chat history, the two connection slots, and the
// single-flight busy flag. Sessions are constructed and destroyed only by
// the Registry.
type Session struct {
	publicID string

	mu      sync.Mutex
	config  *CommConfig
	history []ChatMessage
	bot     *Peer
	panel   *Peer

	busy atomic.Bool
}

func newSession(cfg *CommConfig, history []ChatMessage) *Session {
	return &Session{
		publicID: cfg.PublicID,
		config:   cfg,
		history:  history,
	}
}

// PublicID returns the externally visible session identifier.
func (s *Session) PublicID() string { return s.publicID }

// Config returns a snapshot of the current configuration.
func (s *Session) Config() *CommConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.Clone()
}

func (s *Session) setConfig(cfg *CommConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

// History returns a copy of the chat history in insertion order.
func (s *Session) History() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) appendHistory(msgs ...ChatMessage) {
	s.mu.Lock()
	s.history = append(s.history, msgs...)
	s.mu.Unlock()
}

// bind installs p as the occupant of the role slot and returns the previous
// occupant, if any. The new connection always wins the slot.
func (s *Session) bind(role ConnRole, p *Peer) (prev *Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch role {
	case RoleBot:
		prev = s.bot
		s.bot = p
	case RoleControlPanel:
		prev = s.panel
		s.panel = p
	}
	return prev
}

// clearSlot empties the role slot iff p is still its occupant. A connection
// that was superseded must not clear its successor on disconnect.
func (s *Session) clearSlot(role ConnRole, p *Peer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch role {
	case RoleBot:
		if s.bot == p {
			s.bot = nil
			return true
		}
	case RoleControlPanel:
		if s.panel == p {
			s.panel = nil
			return true
		}
	}
	return false
}

// peer returns the current occupant of the role slot, or nil.
func (s *Session) peer(role ConnRole) *Peer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if role == RoleBot {
		return s.bot
	}
	return s.panel
}

// BotConnected reports whether a bot currently occupies its slot.
func (s *Session) BotConnected() bool {
	return s.peer(RoleBot) != nil
}

// idle reports whether both slots are empty.
func (s *Session) idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bot == nil && s.panel == nil
}

// TryAcquire atomically claims the single-flight processing slot.
// It returns false without side effects if a request is already in flight.
// At most one AI-processing invocation runs per session; concurrent
// attempts are rejected, never queued.
func (s *Session) TryAcquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

// Release frees the single-flight slot. Callers must guarantee it runs on
// every exit path of the processing invocation, failures included.
func (s *Session) Release() {
	s.busy.Store(false)
}

// Busy reports whether an AI-processing invocation is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}
