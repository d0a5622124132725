// Package chathub is the realtime gateway: it owns the connection
// registry, one broadcast room per match, the global inbox channel, and
// the dispatch of client events into the chat service.
package chathub

import (
	"encoding/json"
	"log"
	"time"

	"pairlink/backend/internal/chat"
	"pairlink/backend/internal/metrics"
	"pairlink/backend/internal/models"
	"pairlink/backend/internal/presence"
	"pairlink/backend/internal/storage"
)

// Manager keeps the connection and room registries and runs the delivery
// loop. Registry mutations go through the Run goroutine via the register
// and unregister channels; event handling runs on each connection's read
// pump and reaches clients only through their send channels.
type Manager struct {
	clients map[string]Client            // connID -> client
	rooms   map[string]map[string]Client // room name -> connID -> client

	RegisterCh   chan Client
	UnregisterCh chan Client
	roomOpCh     chan roomOp
	pubSubCh     chan storage.RoomEvent

	Storage  storage.Storage
	Chat     *chat.Service
	Presence *presence.Tracker
}

type roomOp struct {
	client Client
	room   string
	join   bool
	done   chan struct{}
}

// NewManager wires the hub with its collaborators. The presence tracker
// is injected, never package state, so a shared implementation can
// replace it without touching the hub.
func NewManager(s storage.Storage, chatSvc *chat.Service, tracker *presence.Tracker) *Manager {
	return &Manager{
		clients:      make(map[string]Client),
		rooms:        make(map[string]map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		roomOpCh:     make(chan roomOp),
		pubSubCh:     make(chan storage.RoomEvent, 64),
		Storage:      s,
		Chat:         chatSvc,
		Presence:     tracker,
	}
}

// RoomName derives the broadcast group name for a match.
func RoomName(matchID string) string {
	return "match:" + matchID
}

// Run is the hub's main loop. It serializes every mutation of the client
// and room maps, so handlers never touch them directly.
func (m *Manager) Run() {
	m.startPubSubListener()

	for {
		select {
		case client := <-m.RegisterCh:
			m.register(client)

		case client := <-m.UnregisterCh:
			m.unregister(client)

		case op := <-m.roomOpCh:
			m.applyRoomOp(op)

		case evt := <-m.pubSubCh:
			m.deliver(evt)
		}
	}
}

func (m *Manager) register(client Client) {
	m.clients[client.GetConnID()] = client
	metrics.ConnectionsTotal.Inc()

	userID := client.GetUserID()
	if m.Presence.Add(userID, client.GetConnID()) {
		// First concurrent connection: the user just came online. The
		// persisted flag is a best-effort mirror; a write failure must not
		// hold back the broadcast.
		metrics.OnlineUsers.Inc()
		if err := m.Storage.SetUserOnline(userID); err != nil {
			log.Printf("ERROR: Failed to persist online flag for %s: %v", userID, err)
		}
		m.Broadcast("", models.EventUserOnline, map[string]interface{}{
			"userId": userID,
		})
	}
}

func (m *Manager) unregister(client Client) {
	connID := client.GetConnID()
	if _, ok := m.clients[connID]; !ok {
		return
	}
	delete(m.clients, connID)
	for _, members := range m.rooms {
		delete(members, connID)
	}
	metrics.ConnectionsTotal.Dec()

	userID := client.GetUserID()
	if m.Presence.Remove(userID, connID) {
		// Last connection closed: the user went offline, whatever the
		// disconnect reason was.
		metrics.OnlineUsers.Dec()
		lastSeen := time.Now()
		if err := m.Storage.SetUserOffline(userID, lastSeen); err != nil {
			log.Printf("ERROR: Failed to persist offline flag for %s: %v", userID, err)
		}
		m.Broadcast("", models.EventUserOffline, map[string]interface{}{
			"userId":     userID,
			"lastSeenAt": lastSeen,
		})
	}

	client.Close()
}

func (m *Manager) applyRoomOp(op roomOp) {
	connID := op.client.GetConnID()
	if op.join {
		members, ok := m.rooms[op.room]
		if !ok {
			members = make(map[string]Client)
			m.rooms[op.room] = members
		}
		members[connID] = op.client
		metrics.RoomJoins.Inc()
	} else {
		if members, ok := m.rooms[op.room]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(m.rooms, op.room)
			}
		}
	}
	if op.done != nil {
		close(op.done)
	}
}

// joinRoom adds the client to a room and returns once the membership is
// visible, so the join ack is truthful.
func (m *Manager) joinRoom(client Client, room string) {
	done := make(chan struct{})
	m.roomOpCh <- roomOp{client: client, room: room, join: true, done: done}
	<-done
}

func (m *Manager) leaveRoom(client Client, room string) {
	done := make(chan struct{})
	m.roomOpCh <- roomOp{client: client, room: room, join: false, done: done}
	<-done
}

// Broadcast publishes an event to a room, or to every connected client
// when room is empty. Delivery goes through the shared Redis channel so
// sibling processes fan out too; if the publish fails the event is still
// delivered to the local clients.
func (m *Manager) Broadcast(room, event string, payload interface{}) {
	m.BroadcastExcluding(room, event, payload, "")
}

// BroadcastExcluding is Broadcast with one connection left out, used by
// the typing relay so senders do not see their own indicator.
func (m *Manager) BroadcastExcluding(room, event string, payload interface{}, excludeConnID string) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error encoding %s payload: %v", event, err)
		return
	}
	evt := storage.RoomEvent{
		Room:    room,
		Exclude: excludeConnID,
		Event:   models.Event{Event: event, Data: data},
	}

	if err := m.Storage.PublishEvent(evt); err != nil {
		log.Printf("ERROR: Failed to publish %s to Redis: %v", event, err)
		// Local fallback so single-process deployments stay alive without
		// Redis. Non-blocking: the delivery loop may be the caller.
		select {
		case m.pubSubCh <- evt:
		default:
			log.Printf("WARNING: Dropping %s broadcast, delivery queue full", event)
		}
	}
}

// deliver pushes a broadcast event into the send channel of every
// targeted local client. Slow clients are dropped rather than allowed to
// stall the loop.
func (m *Manager) deliver(evt storage.RoomEvent) {
	targets := m.clients
	if evt.Room != "" {
		targets = m.rooms[evt.Room]
	}

	for connID, client := range targets {
		if connID == evt.Exclude {
			continue
		}
		select {
		case client.GetSendChannel() <- evt.Event:
		default:
			log.Printf("WARNING: Dropping slow client %s", connID)
			go func(c Client) { m.UnregisterCh <- c }(client)
		}
	}
}

// send pushes an event to a single client, bypassing the broadcast path.
// Used for acks and private replies.
func (m *Manager) send(client Client, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error encoding %s payload: %v", event, err)
		return
	}
	select {
	case client.GetSendChannel() <- models.Event{Event: event, Data: data}:
	default:
		log.Printf("WARNING: Dropping %s for slow client %s", event, client.GetConnID())
	}
}

// HandleMatchUnlocked is invoked by the messaging bridge when the payment
// service approves a match. The room learns immediately that the paywall
// is gone.
func (m *Manager) HandleMatchUnlocked(matchID string) {
	m.Broadcast(RoomName(matchID), models.EventMatchUnlocked, map[string]interface{}{
		"matchId": matchID,
	})
}
