package websocket

import "encoding/json"

// Event names on the realtime channel. Incoming events carry a payload in
// Data; outgoing events reuse the same envelope.
const (
	EventSendMessage      = "send_message"
	EventSendGroupMessage = "send_group_message"
	EventTyping           = "typing"

	EventNewMessage      = "new_message"
	EventNewGroupMessage = "new_group_message"
	EventSuccessMessage  = "success_message"
	EventOfflineUser     = "offline_user"
	EventError           = "error"
)

// Envelope is the wire format of every frame on the channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type DirectMessagePayload struct {
	Content string `json:"content"`
	SendTo  string `json:"sendTo"`
}

type GroupMessagePayload struct {
	Content string `json:"content"`
	GroupID string `json:"groupId"`
}

type TypingPayload struct {
	SendTo string `json:"sendTo"`
	UserID string `json:"userId,omitempty"`
}

// Marshal builds an outgoing frame. Marshalling of our own payload types
// cannot fail, so errors are swallowed into an empty frame.
func Marshal(event string, data interface{}) []byte {
	raw, _ := json.Marshal(data)
	frame, _ := json.Marshal(Envelope{Event: event, Data: raw})
	return frame
}
