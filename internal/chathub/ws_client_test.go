package chathub_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pairlink/backend/internal/chathub"
	"pairlink/backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newServerConn upgrades a loopback connection and returns the server
// side, the way the ws endpoint hands connections to the hub.
func newServerConn(t *testing.T) *websocket.Conn {
	t.Helper()

	upgraded := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var up websocket.Upgrader
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		upgraded <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	dialed, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { dialed.Close() })

	select {
	case conn := <-upgraded:
		t.Cleanup(func() { conn.Close() })
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for upgrade")
		return nil
	}
}

// Close must leave the Send channel writable: the read pump can still be
// handling an inbound event when the hub drops the client, and a late ack
// or broadcast going into a closed channel would panic the whole process.
func TestWebSocketClient_CloseKeepsSendWritable(t *testing.T) {
	hub, _ := newTestHub(t)
	client := chathub.NewWebSocketClient("conn1", "user_A", newServerConn(t), hub)

	client.Close()
	client.Close() // idempotent

	assert.NotPanics(t, func() {
		select {
		case client.GetSendChannel() <- models.Event{Event: models.EventAck}:
		default:
		}
	})
}

// A slow client gets dropped, and events it had in flight when the drop
// happened are discarded, not delivered into a dead connection and not
// fatal to the hub. Other clients keep receiving.
func TestSlowClientDropDoesNotStopTheHub(t *testing.T) {
	hub, storageMock := newTestHub(t)

	match := &models.Match{ID: "m1", UserAID: "user_A", UserBID: "user_B"}
	storageMock.On("SetUserOnline", mock.Anything).Return(nil)
	storageMock.On("SetUserOffline", "user_A", mock.Anything).Return(nil).Once()
	storageMock.On("GetMatchByID", "m1").Return(match, nil)

	stalled := newStalledClient("conn1", "user_A")
	healthy := newFakeClient("conn2", "user_B")

	// The stalled client's user:online broadcast cannot be delivered to
	// itself, which trips the drop and unregisters it.
	hub.RegisterCh <- stalled
	select {
	case <-stalled.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the slow client to be dropped")
	}

	register(t, hub, healthy, true)

	// An event the dropped client's read pump was still handling: the ack
	// goes nowhere, and nothing may panic.
	assert.NotPanics(t, func() {
		data := []byte(`{"ackId":"a1","matchId":"m1"}`)
		hub.HandleEvent(stalled, models.Event{Event: models.EventJoinMatch, Data: data})
	})

	// The hub is still alive and delivering.
	join(t, hub, healthy, "m1")
	hub.HandleMatchUnlocked("m1")
	evt := waitFor(t, healthy, models.EventMatchUnlocked)
	assert.Equal(t, "m1", decodePayload(t, evt)["matchId"])

	storageMock.AssertExpectations(t)
}
