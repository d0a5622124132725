package chat_test

import (
	"time"

	"pairlink/backend/internal/models"
	"pairlink/backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStorage implements storage.Storage with testify/mock so tests can
// set expectations per call.
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

// CreateMessage mirrors the real store's transaction shape: the match the
// expectation returns is handed to the caller's check, and the message is
// only "created" when the check passes.
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
