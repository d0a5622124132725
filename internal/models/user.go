package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the chat-visible slice of a user account. Registration and
// profile editing live in a separate service; this core only reads the
// identity fields and maintains the online mirror.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex" json:"username"`
	Gender       string `json:"gender"`
	ProfilePhoto string `json:"profilePhoto"`

	// IsOnline and LastSeenAt mirror the in-memory presence registry for
	// clients that only poll over HTTP. Best-effort: never used for
	// access-control decisions.
	IsOnline   bool       `json:"isOnline"`
	LastSeenAt *time.Time `json:"lastSeenAt"`
}

// BeforeCreate generates a UUID for the user if the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// UserSummary is the counterpart projection returned in inbox rows.
type UserSummary struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	ProfilePhoto string `json:"profilePhoto"`
}

// Summary returns the inbox projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, ProfilePhoto: u.ProfilePhoto}
}
