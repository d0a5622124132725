package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"pairlink/backend/internal/models"
	apperrors "pairlink/backend/pkg/errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// EventsChannel is the Redis pub/sub channel every gateway process
// subscribes to. All room and global broadcasts travel through it, which
// keeps delivery identical whether one process or many are running.
const EventsChannel = "chat:events"

// RoomEvent is the pub/sub envelope: an event addressed to one match room,
// or to the global channel when Room is empty.
type RoomEvent struct {
	Room string `json:"room,omitempty"`
	// Exclude names a connection that must not receive the event, used by
	// the typing relay to skip the sender.
	Exclude string       `json:"exclude,omitempty"`
	Event   models.Event `json:"event"`
}

// MessageInput carries the optional fields of a new message.
type MessageInput struct {
	Content  string
	ImageURL string
	ClientID string
}

type Storage interface {
	// Users
	GetUserByID(userID string) (*models.User, error)
	SetUserOnline(userID string) error
	SetUserOffline(userID string, lastSeen time.Time) error

	// Matches
	GetMatchByID(matchID string) (*models.Match, error)
	FindMatchByUsers(userID, otherID string) (*models.Match, error)
	CreateMatch(match *models.Match) error

	// Messages
	CreateMessage(matchID, senderID string, in MessageInput, check func(*models.Match) error) (*models.Message, error)
	MarkDelivered(messageID string) (*models.Message, error)
	MarkSeen(matchID, viewerID string) error
	SoftDeleteMessage(messageID, requesterID string) (*models.Message, error)
	ListMessages(matchID string) ([]models.Message, error)
	ListInbox(userID string) ([]models.InboxItem, error)

	// Events
	PublishEvent(evt RoomEvent) error
}

// Service is the GORM/Redis implementation of Storage.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

func (s *Service) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserOnline flips the persisted online mirror on the 0->1 presence
// transition and clears the stale last-seen timestamp.
func (s *Service) SetUserOnline(userID string) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_online":    true,
			"last_seen_at": nil,
		}).Error
}

// SetUserOffline flips the mirror off and records when the user's last
// connection closed.
func (s *Service) SetUserOffline(userID string, lastSeen time.Time) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_online":    false,
			"last_seen_at": lastSeen,
		}).Error
}

func (s *Service) GetMatchByID(matchID string) (*models.Match, error) {
	var match models.Match
	err := s.DB.First(&match, "id = ?", matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrMatchNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get match %s: %v", matchID, err)
		return nil, err
	}
	return &match, nil
}

// FindMatchByUsers looks up the match for an unordered user pair. Both slot
// orderings are checked; returns ErrMatchNotFound when the pair has never
// matched.
func (s *Service) FindMatchByUsers(userID, otherID string) (*models.Match, error) {
	var match models.Match
	err := s.DB.
		Where("(user_a_id = ? AND user_b_id = ?) OR (user_a_id = ? AND user_b_id = ?)",
			userID, otherID, otherID, userID).
		First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Service) CreateMatch(match *models.Match) error {
	if err := s.DB.Create(match).Error; err != nil {
		log.Printf("ERROR: Failed to create match %s/%s: %v", match.UserAID, match.UserBID, err)
		return err
	}
	return nil
}

// PublishEvent pushes a broadcast onto the shared Redis channel.
func (s *Service) PublishEvent(evt RoomEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, EventsChannel, payload).Err()
}

// SubscribeEvents subscribes to the shared broadcast channel.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, EventsChannel)
}
