package comm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Outbound frame types common to both roles.
const (
	TypeConnectionSuccessful = "CONNECTION_SUCCESSFUL"
	TypeCloseConnection      = "CLOSE_CONNECTION"
	TypeInvalidCommID        = "INVALID_COMMUNICATION_ID"
	TypeError                = "ERROR"
	TypeSystemConfig         = "SYSTEM_CONFIG"
)

// Outbound frame types for the bot client.
const (
	TypeNewBotDetected = "NEW_BOT_DETECTED"
	TypeAudioResponse  = "AUDIO_RESPONSE"
)

// Outbound frame types for the control panel client.
const (
	TypeNewControlPanelDetected = "NEW_CONTROL_PANEL_DETECTED"
	TypeIsBotConnected          = "IS_BOT_CONNECTED"
	TypePingState               = "PING_STATE"
	TypeUserInput               = "USER_INPUT"
)

// Inbound frame types.
const (
	typeSendAudio    = "SEND_AUDIO"
	typeSendText     = "SEND_TEXT"
	typeUpdateConfig = "UPDATE_CONFIG"
	typePing         = "PING"
)

// ErrUnknownMessage is returned by the parse functions when a frame's type
// is missing, malformed, or not in the sender role's message set.
var ErrUnknownMessage = errors.New("comm: unknown message type")

// frame is the wire envelope for every inbound message.
type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Ensure all message types implement their role interface.
var (
	_ BotMessage = (*BotSendAudio)(nil)
	_ BotMessage = (*BotSendText)(nil)

	_ PanelMessage = (*PanelUpdateConfig)(nil)
	_ PanelMessage = (*PanelPing)(nil)
	_ PanelMessage = (*PanelSendAudio)(nil)
	_ PanelMessage = (*PanelSendText)(nil)
)

// BotMessage is a message the bot client may send.
type BotMessage interface {
	isBotMessage()
}

// BotSendAudio carries raw base64 audio recorded by the bot for the control
// panel to triage.
type BotSendAudio struct {
	Audio string `json:"audio"`
}

func (*BotSendAudio) isBotMessage() {}

// BotSendText carries raw text typed at the bot for the control panel to
// triage.
type BotSendText struct {
	Text string `json:"text"`
}

func (*BotSendText) isBotMessage() {}

// ParseBotMessage decodes one inbound frame from the bot client.
// Returns ErrUnknownMessage for frames outside the bot's message set.
func ParseBotMessage(b []byte) (BotMessage, error) {
	var f frame
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMessage, err)
	}

	var msg BotMessage
	switch f.Type {
	case typeSendAudio:
		msg = new(BotSendAudio)
	case typeSendText:
		msg = new(BotSendText)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, f.Type)
	}

	if len(f.Data) > 0 {
		if err := json.Unmarshal(f.Data, msg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownMessage, err)
		}
	}
	return msg, nil
}

// PanelMessage is a message the control panel client may send.
type PanelMessage interface {
	isPanelMessage()
}

// PanelUpdateConfig merges a partial configuration over the current one.
type PanelUpdateConfig struct {
	Config ConfigPatch `json:"config"`
}

func (*PanelUpdateConfig) isPanelMessage() {}

// PanelPing queries the current bot connectivity.
type PanelPing struct{}

func (*PanelPing) isPanelMessage() {}

// PanelSendAudio requests AI processing of an audio payload.
type PanelSendAudio struct {
	Audio string `json:"audio"`
}

func (*PanelSendAudio) isPanelMessage() {}

// PanelSendText requests AI processing of a text payload.
type PanelSendText struct {
	Text string `json:"text"`
}

func (*PanelSendText) isPanelMessage() {}

// ParsePanelMessage decodes one inbound frame from the control panel client.
// Returns ErrUnknownMessage for frames outside the panel's message set.
func ParsePanelMessage(b []byte) (PanelMessage, error) {
	var f frame
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMessage, err)
	}

	var msg PanelMessage
	switch f.Type {
	case typeUpdateConfig:
		msg = new(PanelUpdateConfig)
	case typePing:
		msg = new(PanelPing)
	case typeSendAudio:
		msg = new(PanelSendAudio)
	case typeSendText:
		msg = new(PanelSendText)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, f.Type)
	}

	if len(f.Data) > 0 {
		if err := json.Unmarshal(f.Data, msg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownMessage, err)
		}
	}
	return msg, nil
}

// errorData is the payload of ERROR and close-reason frames.
type errorData struct {
	Message string `json:"message"`
}

// configData is the payload of SYSTEM_CONFIG frames.
type configData struct {
	Config *CommConfig `json:"config"`
}

// valueData is the payload of IS_BOT_CONNECTED frames.
type valueData struct {
	Value bool `json:"value"`
}

// pingStateData is the payload of PING_STATE frames.
type pingStateData struct {
	IsBotConnected bool `json:"is_bot_connected"`
}
