package comm

import (
	"context"
	"fmt"
	"sync"
)

// Registry is the process-wide table of live sessions keyed by public ID.
// It is the sole owner of session lifetime: entries are created on the
// first connection referencing an unseen public ID (hydrated from the
// Store) and removed when both slots empty out after a disconnect.
type Registry struct {
	store  Store
	logger Logger

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewRegistry creates an empty registry backed by the given store.
// If logger is nil, DefaultLogger() is used.
func NewRegistry(store Store, logger Logger) *Registry {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &Registry{
		store:    store,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Resolve returns the live session for publicID, hydrating it from the
// store on first reference. Returns ErrNotFound if no stored configuration
// matches. Resolve and EvictIfIdle are atomic with respect to each other:
// two connections racing on the same unseen ID get the same session.
func (r *Registry) Resolve(ctx context.Context, publicID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("comm: registry closed")
	}
	if sess, ok := r.sessions[publicID]; ok {
		return sess, nil
	}

	cfg, err := r.store.LoadConfig(ctx, publicID)
	if err != nil {
		return nil, err
	}
	history, err := r.store.LoadHistory(ctx, cfg.ID)
	if err != nil {
		return nil, fmt.Errorf("comm: load history for %s: %w", publicID, err)
	}

	sess := newSession(cfg, history)
	r.sessions[publicID] = sess
	r.logger.InfoPrintf("hydrated communication %s", publicID)
	return sess, nil
}

// Bind installs p in the role slot of sess while holding the registry
// lock, so slot occupancy and registry membership stay consistent. If the
// session was evicted between Resolve and Bind it is re-inserted; if a
// newer session was hydrated for the same public ID in that window, the
// peer binds into the newer one. Returns the session actually bound and
// the evicted previous occupant, if any.
func (r *Registry) Bind(sess *Session, role ConnRole, p *Peer) (*Session, *Peer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, nil, fmt.Errorf("comm: registry closed")
	}
	if cur, ok := r.sessions[sess.publicID]; ok {
		sess = cur
	} else {
		r.sessions[sess.publicID] = sess
	}
	prev := sess.bind(role, p)
	return sess, prev, nil
}

// EvictIfIdle removes the session iff both its slots are empty. Called
// after every disconnect.
func (r *Registry) EvictIfIdle(publicID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[publicID]
	if !ok || !sess.idle() {
		return
	}
	delete(r.sessions, publicID)
	r.logger.InfoPrintf("evicted idle communication %s", publicID)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Has reports whether a session for publicID is currently live.
func (r *Registry) Has(publicID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[publicID]
	return ok
}

// Close tears down the registry: every connected peer is notified with
// CLOSE_CONNECTION and closed, and all sessions are dropped. Subsequent
// Resolve calls fail.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.closed = true
	r.mu.Unlock()

	for id, sess := range sessions {
		for _, role := range []ConnRole{RoleBot, RoleControlPanel} {
			if p := sess.peer(role); p != nil {
				p.CloseWith(TypeCloseConnection, "Server shutting down.")
			}
		}
		r.logger.InfoPrintf("dropped communication %s on shutdown", id)
	}
}
