package comm

import (
	"context"
	"errors"
)

const (
	msgInvalidType     = "Invalid Message Type"
	msgNoControlPanel  = "No control panel connected to handle AI input."
	msgRequestInFlight = "Request already in progress!"
)

// readLoop receives frames from one connection in arrival order until the
// transport closes. Frames are dispatched per the connection's role; a
// malformed or wrongly scoped frame earns the sender a single ERROR frame
// and advances no session state.
func (h *Hub) readLoop(sess *Session, role ConnRole, peer *Peer) {
	for {
		_, data, err := peer.conn.ReadMessage()
		if err != nil {
			return
		}
		switch role {
		case RoleBot:
			h.handleBot(sess, peer, data)
		case RoleControlPanel:
			h.handlePanel(sess, peer, data)
		}
	}
}

// handleBot routes one frame from the bot client. Raw user input always
// flows bot -> control panel for human-in-the-loop triage.
func (h *Hub) handleBot(sess *Session, peer *Peer, data []byte) {
	msg, err := ParseBotMessage(data)
	if err != nil {
		_ = peer.SendError(msgInvalidType)
		return
	}

	panel := sess.peer(RoleControlPanel)
	switch m := msg.(type) {
	case *BotSendAudio:
		if panel == nil {
			_ = peer.SendError(msgNoControlPanel)
			return
		}
		_ = panel.Send(TypeUserInput, map[string]any{"audio": m.Audio})

	case *BotSendText:
		if panel == nil {
			_ = peer.SendError(msgNoControlPanel)
			return
		}
		_ = panel.Send(TypeUserInput, map[string]any{"text": m.Text})
	}
}

// handlePanel routes one frame from the control panel client. AI-processed
// responses always flow control panel -> bot: the panel decides whether and
// when to invoke the model.
func (h *Hub) handlePanel(sess *Session, peer *Peer, data []byte) {
	msg, err := ParsePanelMessage(data)
	if err != nil {
		_ = peer.SendError(msgInvalidType)
		return
	}

	switch m := msg.(type) {
	case *PanelUpdateConfig:
		h.updateConfig(sess, peer, m.Config)

	case *PanelPing:
		_ = peer.Send(TypePingState, pingStateData{IsBotConnected: sess.BotConnected()})

	case *PanelSendAudio:
		h.startTurn(sess, peer, func(ctx context.Context) (*TurnResult, error) {
			return h.pipeline.AudioTurn(ctx, sess, m.Audio)
		})

	case *PanelSendText:
		h.startTurn(sess, peer, func(ctx context.Context) (*TurnResult, error) {
			return h.pipeline.TextTurn(ctx, sess, m.Text)
		})
	}
}

// updateConfig merges a partial configuration over the current one,
// persists it, and broadcasts the new snapshot to both peers.
func (h *Hub) updateConfig(sess *Session, peer *Peer, patch ConfigPatch) {
	merged := sess.Config().Merge(patch)
	if err := merged.Validate(); err != nil {
		_ = peer.SendError(err.Error())
		return
	}
	if err := h.store.SaveConfig(context.Background(), merged); err != nil {
		h.logger.ErrorPrintf("save config %s: %v", sess.PublicID(), err)
		_ = peer.SendError("Failed to persist configuration.")
		return
	}
	sess.setConfig(merged)

	snapshot := configData{Config: merged.Clone()}
	if bot := sess.peer(RoleBot); bot != nil {
		_ = bot.Send(TypeSystemConfig, snapshot)
	}
	_ = peer.Send(TypeSystemConfig, snapshot)
}

// startTurn claims the session's single-flight slot and runs one
// AI-processing turn on its own goroutine so frame I/O keeps flowing for
// both peers. The slot is released on every exit path, panics included. A
// concurrent attempt is rejected with an ERROR to the requester.
func (h *Hub) startTurn(sess *Session, requester *Peer, turn func(context.Context) (*TurnResult, error)) {
	if !sess.TryAcquire() {
		_ = requester.SendError(msgRequestInFlight)
		return
	}

	go func() {
		defer sess.Release()
		defer func() {
			if r := recover(); r != nil {
				h.logger.ErrorPrintf("turn panic in %s: %v", sess.PublicID(), r)
				_ = requester.SendError("Failed to process request.")
			}
		}()

		result, err := turn(context.Background())
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				h.logger.ErrorPrintf("turn failed in %s: %v", sess.PublicID(), err)
			}
			_ = requester.SendError("Failed to process request.")
			return
		}

		// Deliver to the bot only if one is still connected. A send to a
		// peer that vanished mid-turn fails silently; the result is simply
		// discarded.
		if bot := sess.peer(RoleBot); bot != nil {
			_ = bot.Send(TypeAudioResponse, result)
		}
	}()
}
