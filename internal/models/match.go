package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Match pairs exactly two users who are eligible to chat. A match between
// any unordered pair of users is unique; lookups must check both slot
// orderings. Unlocked flips false->true exactly once, driven by the payment
// service; this core never mutates Price or Unlocked itself.
type Match struct {
	ID      string `gorm:"primaryKey" json:"id"`
	UserAID string `gorm:"not null;index:idx_match_pair" json:"userAId"`
	UserBID string `gorm:"not null;index:idx_match_pair" json:"userBId"`

	Unlocked bool `gorm:"not null;default:false" json:"unlocked"`
	Price    int  `json:"price"`

	// Per-slot last-seen timestamps, updated when the corresponding
	// participant marks the match seen.
	LastSeenUserA *time.Time `json:"lastSeenUserA"`
	LastSeenUserB *time.Time `json:"lastSeenUserB"`

	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate generates a UUID for the match if the ID is not set yet.
func (m *Match) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// HasParticipant reports whether userID occupies either slot of the match.
func (m *Match) HasParticipant(userID string) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// Counterpart returns the other participant's ID. The caller must have
// verified participation first.
func (m *Match) Counterpart(userID string) string {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// LastSeenFor returns the viewer's own last-seen timestamp for the match.
func (m *Match) LastSeenFor(userID string) *time.Time {
	if m.UserAID == userID {
		return m.LastSeenUserA
	}
	return m.LastSeenUserB
}
