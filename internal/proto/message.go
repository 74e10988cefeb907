package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin         = "join_room"
	InboundTypeMsg          = "msg"
	InboundTypeKeepAliveAck = "keep_alive_ack"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventReceiveMsg = "receive_msg"
	EventKeepAlive  = "keep_alive"
)

// JoinData requests to subscribe to a room.
type JoinData struct {
	Room string `json:"room"`
}

// MsgData is a chat message submitted over the socket. It carries the
// same fields as the REST message body plus the room id.
type MsgData struct {
	Room        string `json:"room"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Avatar      string `json:"avatar"`
	MessageType string `json:"messageType"`
	Text        string `json:"text,omitempty"`
	TeamID      string `json:"teamId,omitempty"`
	TeamName    string `json:"teamName,omitempty"`
	TeamAvatar  string `json:"teamAvatar,omitempty"`
	// TS is an optional client timestamp in unix milliseconds, honored
	// under the broadcast-first durability mode.
	TS int64 `json:"ts,omitempty"`
}

// KeepAliveData is the payload of both the server keep_alive signal and
// the client keep_alive_ack.
type KeepAliveData struct {
	TS int64 `json:"ts"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// MessagePayload is the message shape exposed on the wire, identical
// for live delivery and history entries. ID is empty for live delivery
// under the broadcast-first mode, where the message is not yet
// persisted.
type MessagePayload struct {
	ID          string    `json:"id,omitempty"`
	RoomID      string    `json:"roomId"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Avatar      string    `json:"avatar"`
	MessageType string    `json:"messageType"`
	Text        string    `json:"text,omitempty"`
	TeamID      string    `json:"teamId,omitempty"`
	TeamName    string    `json:"teamName,omitempty"`
	TeamAvatar  string    `json:"teamAvatar,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
