package chathub

import (
	"encoding/json"
	"log"

	"pairlink/backend/internal/metrics"
	"pairlink/backend/internal/models"
	"pairlink/backend/internal/storage"
	apperrors "pairlink/backend/pkg/errors"
)

// HandleEvent dispatches one decoded client event. It runs on the
// connection's read pump, so store transactions triggered here complete
// even if the client disconnects before the reply; only the direct ack is
// lost, the room broadcast still goes out.
func (m *Manager) HandleEvent(client Client, evt models.Event) {
	switch evt.Event {
	case models.EventJoinMatch:
		m.handleJoin(client, evt.Data)
	case models.EventLeaveMatch:
		m.handleLeave(client, evt.Data)
	case models.EventMessageSend:
		m.handleSend(client, evt.Data)
	case models.EventDelivered:
		m.handleDelivered(client, evt.Data)
	case models.EventSeen:
		m.handleSeen(client, evt.Data)
	case models.EventMessageDelete:
		m.handleDelete(client, evt.Data)
	case models.EventTypingStart, models.EventTypingStop:
		m.handleTyping(client, evt.Event, evt.Data)
	case models.EventPresenceSync:
		m.handlePresenceSync(client, evt.Data)
	default:
		log.Printf("Unknown event %q from client %s", evt.Event, client.GetConnID())
	}
}

// ack answers the calling connection directly. Failures carry the error
// code so clients can distinguish the paywall from a generic error.
func (m *Manager) ack(client Client, ackID string, result interface{}, err error) {
	if err != nil {
		m.send(client, models.EventAck, models.Ack{
			AckID: ackID,
			OK:    false,
			Code:  string(apperrors.CodeOf(err)),
			Error: err.Error(),
		})
		return
	}
	m.send(client, models.EventAck, models.Ack{AckID: ackID, OK: true, Message: result})
}

func (m *Manager) handleJoin(client Client, data json.RawMessage) {
	var p models.MatchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	// Membership is explicit and participant-gated: no join, no
	// room-scoped events.
	if _, err := m.Chat.GetMatch(p.MatchID, client.GetUserID()); err != nil {
		m.ack(client, p.AckID, nil, err)
		return
	}

	m.joinRoom(client, RoomName(p.MatchID))
	m.ack(client, p.AckID, map[string]interface{}{"matchId": p.MatchID}, nil)
}

func (m *Manager) handleLeave(client Client, data json.RawMessage) {
	var p models.MatchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	m.leaveRoom(client, RoomName(p.MatchID))
}

func (m *Manager) handleSend(client Client, data json.RawMessage) {
	var p models.SendPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	msg, err := m.Chat.Send(client.GetUserID(), p.MatchID, storage.MessageInput{
		Content:  p.Content,
		ImageURL: p.ImageURL,
		ClientID: p.ClientID,
	})
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.CodePaymentRequired {
			metrics.MessagesTotal.WithLabelValues("blocked").Inc()
		} else {
			metrics.MessagesTotal.WithLabelValues("failed").Inc()
		}
		m.ack(client, p.AckID, nil, err)
		return
	}
	metrics.MessagesTotal.WithLabelValues("sent").Inc()

	// Room members get the full message, correlation id included, so the
	// sending client can reconcile its optimistic copy. Devices that are
	// not viewing the thread learn about it through the global channel.
	m.Broadcast(RoomName(msg.MatchID), models.EventMessageNew, msg)
	m.Broadcast("", models.EventInboxUpdate, map[string]interface{}{
		"matchId": msg.MatchID,
		"message": msg,
	})

	m.ack(client, p.AckID, msg, nil)
}

func (m *Manager) handleDelivered(client Client, data json.RawMessage) {
	var p models.MessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	msg, err := m.Chat.MarkDelivered(p.MessageID)
	if err != nil {
		m.ack(client, p.AckID, nil, err)
		return
	}

	m.Broadcast(RoomName(msg.MatchID), models.EventDelivered, map[string]interface{}{
		"messageId":   msg.ID,
		"matchId":     msg.MatchID,
		"deliveredAt": msg.DeliveredAt,
	})
}

func (m *Manager) handleSeen(client Client, data json.RawMessage) {
	var p models.MatchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	userID := client.GetUserID()
	if err := m.Chat.MarkSeen(p.MatchID, userID); err != nil {
		m.ack(client, p.AckID, nil, err)
		return
	}

	m.Broadcast(RoomName(p.MatchID), models.EventSeen, map[string]interface{}{
		"matchId": p.MatchID,
		"seenBy":  userID,
	})
}

func (m *Manager) handleDelete(client Client, data json.RawMessage) {
	var p models.MessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	msg, err := m.Chat.Delete(p.MessageID, client.GetUserID())
	if err != nil {
		m.ack(client, p.AckID, nil, err)
		return
	}
	metrics.MessagesTotal.WithLabelValues("deleted").Inc()

	m.Broadcast(RoomName(msg.MatchID), models.EventMessageGone, map[string]interface{}{
		"messageId": msg.ID,
		"matchId":   msg.MatchID,
	})
	m.ack(client, p.AckID, map[string]interface{}{"messageId": msg.ID}, nil)
}

// handleTyping relays a transient indicator to the room, excluding the
// sender. Nothing is persisted.
func (m *Manager) handleTyping(client Client, event string, data json.RawMessage) {
	var p models.MatchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	m.BroadcastExcluding(RoomName(p.MatchID), event, map[string]interface{}{
		"matchId": p.MatchID,
		"userId":  client.GetUserID(),
	}, client.GetConnID())
}

// handlePresenceSync answers privately with the counterpart's state: the
// in-memory tracker decides online, the persisted flag supplies the
// last-seen fallback for offline users.
func (m *Manager) handlePresenceSync(client Client, data json.RawMessage) {
	var p models.MatchPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	userID := client.GetUserID()
	match, err := m.Chat.GetMatch(p.MatchID, userID)
	if err != nil {
		m.ack(client, p.AckID, nil, err)
		return
	}

	otherID := match.Counterpart(userID)
	state := models.PresenceState{
		MatchID: p.MatchID,
		UserID:  otherID,
		Online:  m.Presence.Online(otherID),
	}
	if !state.Online {
		if other, err := m.Storage.GetUserByID(otherID); err == nil {
			state.LastSeenAt = other.LastSeenAt
		}
	}

	m.send(client, models.EventPresenceState, state)
}
