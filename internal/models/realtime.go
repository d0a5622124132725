package models

import (
	"encoding/json"
	"time"
)

// Realtime event names, shared by the gateway and its clients.
const (
	EventJoinMatch     = "joinMatch"
	EventLeaveMatch    = "leaveMatch"
	EventPresenceSync  = "presence:sync"
	EventPresenceState = "presence:state"
	EventTypingStart   = "typing:start"
	EventTypingStop    = "typing:stop"
	EventMessageSend   = "message:send"
	EventMessageNew    = "message:new"
	EventDelivered     = "message:delivered"
	EventSeen          = "message:seen"
	EventMessageDelete = "message:delete"
	EventMessageGone   = "message:deleted"
	EventUserOnline    = "user:online"
	EventUserOffline   = "user:offline"
	EventInboxUpdate   = "inbox:update"
	EventMatchUnlocked = "match:unlocked"
	EventAck           = "ack"
)

// Event is the wire envelope for every realtime frame, both directions.
// Data is kept raw on the way in so each handler decodes its own payload.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendPayload is the client payload for message:send.
type SendPayload struct {
	AckID    string `json:"ackId,omitempty"`
	MatchID  string `json:"matchId"`
	Content  string `json:"content,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	ClientID string `json:"clientId,omitempty"`
}

// MatchPayload covers the events addressed to a match as a whole:
// joinMatch, leaveMatch, message:seen, typing:*, presence:sync.
type MatchPayload struct {
	AckID   string `json:"ackId,omitempty"`
	MatchID string `json:"matchId"`
}

// MessagePayload covers the events addressed to a single message.
type MessagePayload struct {
	AckID     string `json:"ackId,omitempty"`
	MessageID string `json:"messageId"`
	MatchID   string `json:"matchId,omitempty"`
}

// Ack is the direct reply to a client event that carried an ackId.
type Ack struct {
	AckID   string      `json:"ackId,omitempty"`
	OK      bool        `json:"ok"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message interface{} `json:"message,omitempty"`
}

// PresenceState answers a presence:sync request, privately.
type PresenceState struct {
	MatchID    string     `json:"matchId"`
	UserID     string     `json:"userId"`
	Online     bool       `json:"online"`
	LastSeenAt *time.Time `json:"lastSeenAt"`
}

// InboxItem is one row of the inbox: a match, its counterpart and the most
// recent message if any.
type InboxItem struct {
	MatchID     string      `json:"matchId"`
	User        UserSummary `json:"user"`
	LastMessage *Message    `json:"lastMessage"`
	Unlocked    bool        `json:"unlocked"`
	LastSeen    *time.Time  `json:"lastSeen"`
}
