// Package chat is the single business-logic surface for message
// operations. Both the realtime gateway and the HTTP endpoints call
// through here, so the paywall and access rules cannot drift between
// transports.
package chat

import (
	"log"

	"pairlink/backend/internal/models"
	"pairlink/backend/internal/policy"
	"pairlink/backend/internal/storage"
	apperrors "pairlink/backend/pkg/errors"
)

// Chat prices in kobo-free naira, decided at match creation by requester
// gender. The payment service owns everything after that.
const (
	priceMaleRequester    = 2500
	priceDefaultRequester = 1500
)

type Service struct {
	storage storage.Storage
	filter  *policy.Filter
}

func NewService(s storage.Storage, f *policy.Filter) *Service {
	return &Service{storage: s, filter: f}
}

// Send validates access and content policy, then persists the message.
// Participant and paywall checks run inside the store's transaction
// against the freshly locked match row, so an unlock racing this send is
// serialized, not lost. A blocked message fails with ErrChatLocked so
// callers can surface "payment required" instead of a generic error.
func (s *Service) Send(senderID, matchID string, in storage.MessageInput) (*models.Message, error) {
	return s.storage.CreateMessage(matchID, senderID, in, func(match *models.Match) error {
		if err := AssertParticipant(match, senderID); err != nil {
			return err
		}
		if category, hit := s.filter.Match(in.Content); hit {
			if err := AssertUnlocked(match); err != nil {
				log.Printf("WARNING: Blocked %s content in locked match %s", category, matchID)
				return err
			}
		}
		return nil
	})
}

// MarkDelivered stamps a message as delivered. Safe to call more than
// once; the timestamp never moves backwards.
func (s *Service) MarkDelivered(messageID string) (*models.Message, error) {
	return s.storage.MarkDelivered(messageID)
}

// MarkSeen marks every counterpart message in the match as seen by
// viewerID and advances the viewer's last-seen slot.
func (s *Service) MarkSeen(matchID, viewerID string) error {
	match, err := s.storage.GetMatchByID(matchID)
	if err != nil {
		return err
	}
	if err := AssertParticipant(match, viewerID); err != nil {
		return err
	}
	return s.storage.MarkSeen(matchID, viewerID)
}

// Delete tombstones a message. Only the original sender may delete.
func (s *Service) Delete(messageID, requesterID string) (*models.Message, error) {
	return s.storage.SoftDeleteMessage(messageID, requesterID)
}

// Inbox returns one row per match the user participates in.
func (s *Service) Inbox(userID string) ([]models.InboxItem, error) {
	return s.storage.ListInbox(userID)
}

// History returns the ordered message history of a match, participants
// only.
func (s *Service) History(matchID, userID string) ([]models.Message, error) {
	match, err := s.storage.GetMatchByID(matchID)
	if err != nil {
		return nil, err
	}
	if err := AssertParticipant(match, userID); err != nil {
		return nil, err
	}
	return s.storage.ListMessages(matchID)
}

// GetMatch loads a match for a participant. Used by the gateway for
// presence snapshots and room joins.
func (s *Service) GetMatch(matchID, userID string) (*models.Match, error) {
	match, err := s.storage.GetMatchByID(matchID)
	if err != nil {
		return nil, err
	}
	if err := AssertParticipant(match, userID); err != nil {
		return nil, err
	}
	return match, nil
}

// StartChat finds or creates the match between the requester and another
// user. The pair is unordered: an existing match is returned whichever
// slot the requester happens to occupy. New matches start locked, priced
// by requester gender.
func (s *Service) StartChat(requesterID, otherID string) (*models.Match, error) {
	if requesterID == otherID {
		return nil, apperrors.ErrSelfMatch
	}

	match, err := s.storage.FindMatchByUsers(requesterID, otherID)
	if err == nil {
		return match, nil
	}
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		return nil, err
	}

	requester, err := s.storage.GetUserByID(requesterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.storage.GetUserByID(otherID); err != nil {
		return nil, err
	}

	price := priceDefaultRequester
	if requester.Gender == "MALE" {
		price = priceMaleRequester
	}

	match = &models.Match{
		UserAID:  requesterID,
		UserBID:  otherID,
		Unlocked: false,
		Price:    price,
	}
	if err := s.storage.CreateMatch(match); err != nil {
		return nil, err
	}
	return match, nil
}
