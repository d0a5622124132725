package chathub_test

import (
	"sync"
	"time"

	"pairlink/backend/internal/models"
	"pairlink/backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStorage implements storage.Storage with testify/mock. It does not
// implement the Redis subscription, so the hub under test delivers
// through the local fallback path.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUserByID(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SetUserOnline(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) SetUserOffline(userID string, lastSeen time.Time) error {
	args := m.Called(userID, lastSeen)
	return args.Error(0)
}

func (m *MockStorage) GetMatchByID(matchID string) (*models.Match, error) {
	args := m.Called(matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockStorage) FindMatchByUsers(userID, otherID string) (*models.Match, error) {
	args := m.Called(userID, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockStorage) CreateMatch(match *models.Match) error {
	args := m.Called(match)
	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	return args.Error(0)
}

// CreateMessage runs the caller's check against the match the expectation
// returns, mirroring the real store's transaction shape.
func (m *MockStorage) CreateMessage(matchID, senderID string, in storage.MessageInput, check func(*models.Match) error) (*models.Message, error) {
	args := m.Called(matchID, senderID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	match := args.Get(0).(*models.Match)
	if check != nil {
		if err := check(match); err != nil {
			return nil, err
		}
	}

	msg := &models.Message{
		ID:        uuid.New().String(),
		MatchID:   matchID,
		SenderID:  senderID,
		State:     models.MessageActive,
		CreatedAt: time.Now(),
	}
	if in.Content != "" {
		msg.Content = &in.Content
	}
	if in.ImageURL != "" {
		msg.ImageURL = &in.ImageURL
	}
	if in.ClientID != "" {
		msg.ClientID = &in.ClientID
	}
	return msg, args.Error(1)
}

func (m *MockStorage) MarkDelivered(messageID string) (*models.Message, error) {
	args := m.Called(messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) MarkSeen(matchID, viewerID string) error {
	args := m.Called(matchID, viewerID)
	return args.Error(0)
}

func (m *MockStorage) SoftDeleteMessage(messageID, requesterID string) (*models.Message, error) {
	args := m.Called(messageID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) ListMessages(matchID string) ([]models.Message, error) {
	args := m.Called(matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) ListInbox(userID string) ([]models.InboxItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InboxItem), args.Error(1)
}

func (m *MockStorage) PublishEvent(evt storage.RoomEvent) error {
	args := m.Called(evt)
	return args.Error(0)
}

// fakeClient is an in-memory hub connection. Outbound events accumulate
// in its buffered send channel for the test to read.
type fakeClient struct {
	connID    string
	userID    string
	send      chan models.Event
	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeClient(connID, userID string) *fakeClient {
	return &fakeClient{
		connID: connID,
		userID: userID,
		send:   make(chan models.Event, 64),
		closed: make(chan struct{}),
	}
}

// newStalledClient has no send buffer and no reader, so the first
// delivery attempt trips the hub's slow-client drop.
func newStalledClient(connID, userID string) *fakeClient {
	return &fakeClient{
		connID: connID,
		userID: userID,
		send:   make(chan models.Event),
		closed: make(chan struct{}),
	}
}

func (c *fakeClient) GetConnID() string { return c.connID }

func (c *fakeClient) GetUserID() string { return c.userID }

func (c *fakeClient) GetSendChannel() chan<- models.Event { return c.send }

func (c *fakeClient) Run() {}

func (c *fakeClient) Close() {
	c.closeOnce.Do(func() { close(c.closed) })
}
