package storage

import (
	"errors"
	"log"
	"time"

	"pairlink/backend/internal/models"
	apperrors "pairlink/backend/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateMessage persists a new message. The match is re-read under a row
// lock and the caller's check runs inside the same transaction as the
// insert, so a concurrent unlock or participant change cannot race the
// write: "read match, validate, write message" is one atomic unit.
func (s *Service) CreateMessage(matchID, senderID string, in MessageInput, check func(*models.Match) error) (*models.Message, error) {
	var msg models.Message

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var match models.Match
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&match, "id = ?", matchID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMatchNotFound
		}
		if err != nil {
			return err
		}

		if check != nil {
			if err := check(&match); err != nil {
				return err
			}
		}

		msg = models.Message{
			MatchID:  matchID,
			SenderID: senderID,
			State:    models.MessageActive,
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

		return tx.Create(&msg).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkDelivered stamps the delivery time once. An already-delivered
// message is left untouched so the timestamp can never regress.
func (s *Service) MarkDelivered(messageID string) (*models.Message, error) {
	res := s.DB.Model(&models.Message{}).
		Where("id = ? AND delivered_at IS NULL", messageID).
		Update("delivered_at", time.Now())
	if res.Error != nil {
		return nil, res.Error
	}

	var msg models.Message
	err := s.DB.First(&msg, "id = ?", messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkSeen stamps every unseen message authored by the viewer's
// counterpart and updates the viewer's last-seen slot on the match, all in
// one transaction. Messages already seen keep their original timestamp.
func (s *Service) MarkSeen(matchID, viewerID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var match models.Match
		err := tx.First(&match, "id = ?", matchID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMatchNotFound
		}
		if err != nil {
			return err
		}

		now := time.Now()

		if err := tx.Model(&models.Message{}).
			Where("match_id = ? AND sender_id <> ? AND seen_at IS NULL", matchID, viewerID).
			Update("seen_at", now).Error; err != nil {
			return err
		}

		seenColumn := "last_seen_user_b"
		if match.UserAID == viewerID {
			seenColumn = "last_seen_user_a"
		}
		return tx.Model(&models.Match{}).
			Where("id = ?", matchID).
			Update(seenColumn, now).Error
	})
}

// SoftDeleteMessage tombstones a message: content and image are cleared,
// the deletion time and state are set, the row and its ordering position
// survive. Only the original sender may delete; deleting a tombstone fails
// with not-found rather than succeeding silently.
func (s *Service) SoftDeleteMessage(messageID, requesterID string) (*models.Message, error) {
	var msg models.Message

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&msg, "id = ?", messageID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMessageNotFound
		}
		if err != nil {
			return err
		}

		if msg.Tombstoned() {
			return apperrors.ErrMessageNotFound
		}
		if msg.SenderID != requesterID {
			return apperrors.ErrDeleteForbidden
		}

		now := time.Now()
		msg.Content = nil
		msg.ImageURL = nil
		msg.DeletedAt = &now
		msg.State = models.MessageTombstoned

		return tx.Model(&models.Message{}).
			Where("id = ?", messageID).
			Updates(map[string]interface{}{
				"content":    nil,
				"image_url":  nil,
				"deleted_at": now,
				"state":      models.MessageTombstoned,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns the full history for a match, oldest first.
func (s *Service) ListMessages(matchID string) ([]models.Message, error) {
	var history []models.Message
	if err := s.DB.Where("match_id = ?", matchID).
		Order("created_at asc").
		Find(&history).Error; err != nil {
		log.Printf("ERROR: Failed to get chat history for match %s: %v", matchID, err)
		return nil, err
	}
	return history, nil
}

// ListInbox builds one row per match the user participates in, each with
// the counterpart's summary and the most recent message if any.
func (s *Service) ListInbox(userID string) ([]models.InboxItem, error) {
	var matches []models.Match
	if err := s.DB.
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at desc").
		Find(&matches).Error; err != nil {
		log.Printf("ERROR: Failed to list matches for user %s: %v", userID, err)
		return nil, err
	}

	items := make([]models.InboxItem, 0, len(matches))
	for _, m := range matches {
		item := models.InboxItem{
			MatchID:  m.ID,
			Unlocked: m.Unlocked,
			LastSeen: m.LastSeenFor(userID),
		}

		var other models.User
		if err := s.DB.First(&other, "id = ?", m.Counterpart(userID)).Error; err == nil {
			item.User = other.Summary()
		}

		var last models.Message
		err := s.DB.Where("match_id = ?", m.ID).
			Order("created_at desc").
			First(&last).Error
		if err == nil {
			item.LastMessage = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		items = append(items, item)
	}
	return items, nil
}
