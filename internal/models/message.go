package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message lifecycle states. A tombstoned message keeps its ID and match
// linkage but carries no content; the explicit state makes
// "tombstoned with content" unrepresentable in the write path.
const (
	MessageActive     = "active"
	MessageTombstoned = "tombstoned"
)

// Message belongs to exactly one Match. Delivered/seen timestamps are set
// at most once and never move backwards; deletion is a soft tombstone
// restricted to the original sender.
type Message struct {
	ID       string `gorm:"primaryKey" json:"id"`
	MatchID  string `gorm:"type:uuid;not null;index:idx_match_created" json:"matchId"`
	SenderID string `gorm:"not null;index" json:"senderId"`

	Content  *string `json:"content"`
	ImageURL *string `json:"imageUrl"`

	// ClientID is the client-generated correlation id, echoed back in the
	// room broadcast so the sender can reconcile its optimistic copy.
	ClientID *string `gorm:"index" json:"clientId"`

	State string `gorm:"not null;default:active" json:"state"`

	CreatedAt   time.Time  `gorm:"index:idx_match_created" json:"createdAt"`
	DeliveredAt *time.Time `json:"deliveredAt"`
	SeenAt      *time.Time `json:"seenAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

// BeforeCreate generates a UUID for the message if the ID is not set yet.
func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// Tombstoned reports whether the message has been soft-deleted.
func (m *Message) Tombstoned() bool {
	return m.State == MessageTombstoned
}
