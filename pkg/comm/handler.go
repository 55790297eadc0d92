package comm

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
)

// WSPath is the route the hub serves. The trailing segment is the public
// communication ID; the role is selected with the "role" query parameter.
const WSPath = "/api/ws/communication/{publicID}"

// Hub accepts WebSocket connections, binds each to a session role slot, and
// routes frames between the two peers of a session.
type Hub struct {
	registry *Registry
	store    Store
	pipeline *Pipeline
	logger   Logger
	upgrader websocket.Upgrader
}

// HubConfig wires the hub's collaborators.
type HubConfig struct {
	Store       Store
	Transcriber Transcriber
	Synthesizer Synthesizer
	Completer   Completer

	// Logger is used for logging. If nil, DefaultLogger() is used.
	Logger Logger
}

// NewHub creates a hub with an empty session registry.
func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = DefaultLogger()
	}
	return &Hub{
		registry: NewRegistry(cfg.Store, logger),
		store:    cfg.Store,
		pipeline: NewPipeline(PipelineConfig{
			Store:       cfg.Store,
			Transcriber: cfg.Transcriber,
			Synthesizer: cfg.Synthesizer,
			Completer:   cfg.Completer,
			Logger:      logger,
		}),
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Registry returns the hub's session registry.
func (h *Hub) Registry() *Registry { return h.registry }

// Handler returns the HTTP handler serving WSPath.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+WSPath, h.handleWS)
	return mux
}

// Close tears down all live sessions and notifies connected peers.
func (h *Hub) Close() {
	h.registry.Close()
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.DebugPrintf("upgrade failed: %v", err)
		return
	}
	peer := newPeer(conn)

	publicID := r.PathValue("publicID")
	sess, err := h.registry.Resolve(r.Context(), publicID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			peer.CloseWith(TypeInvalidCommID, "Invalid communication id")
			return
		}
		h.logger.ErrorPrintf("resolve %s: %v", publicID, err)
		peer.CloseWith(TypeError, "Failed to load communication.")
		return
	}

	role, ok := ParseConnRole(r.URL.Query().Get("role"))
	if !ok {
		peer.CloseWith(TypeCloseConnection, "Role must be one of [bot, controlPanel]")
		h.registry.EvictIfIdle(publicID)
		return
	}

	sess, ok = h.bindPeer(sess, role, peer)
	if !ok {
		return
	}
	h.readLoop(sess, role, peer)

	// Transport closed: clear only this connection's slot. A superseded
	// peer finds its slot already taken and clears nothing.
	if sess.clearSlot(role, peer) {
		h.logger.DebugPrintf("%s disconnected from %s", role, publicID)
	}
	h.registry.EvictIfIdle(publicID)
}

// bindPeer installs the connection in its role slot through the registry,
// evicting any previous occupant, and sends the post-binding notices. The
// returned session is the one the peer actually joined, which may differ
// from the resolved one if it was evicted or replaced in between.
func (h *Hub) bindPeer(sess *Session, role ConnRole, peer *Peer) (*Session, bool) {
	sess, prev, err := h.registry.Bind(sess, role, peer)
	if err != nil {
		peer.CloseWith(TypeCloseConnection, "Server shutting down.")
		return nil, false
	}
	if prev != nil {
		switch role {
		case RoleBot:
			prev.CloseWith(TypeNewBotDetected, "New bot connection detected.")
		case RoleControlPanel:
			prev.CloseWith(TypeNewControlPanelDetected, "New control panel detected.")
		}
	}

	_ = peer.Send(TypeConnectionSuccessful, errorData{Message: "Connected as " + string(role)})
	_ = peer.Send(TypeSystemConfig, configData{Config: sess.Config()})

	switch role {
	case RoleControlPanel:
		_ = peer.Send(TypeIsBotConnected, valueData{Value: sess.BotConnected()})
	case RoleBot:
		if panel := sess.peer(RoleControlPanel); panel != nil {
			_ = panel.Send(TypeIsBotConnected, valueData{Value: true})
		}
	}
	return sess, true
}
