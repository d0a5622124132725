package chat

import (
	"pairlink/backend/internal/models"
	apperrors "pairlink/backend/pkg/errors"
)

// AssertParticipant checks that userID occupies one of the match's two
// slots. Pure check against already-loaded match data; every
// message-affecting operation runs it before touching rows.
func AssertParticipant(match *models.Match, userID string) error {
	if !match.HasParticipant(userID) {
		return apperrors.ErrAccessDenied
	}
	return nil
}

// AssertUnlocked checks that the paywall has been lifted for the match.
func AssertUnlocked(match *models.Match) error {
	if !match.Unlocked {
		return apperrors.ErrChatLocked
	}
	return nil
}
