package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pairlink/backend/internal/chathub"
	"pairlink/backend/internal/models"
	"pairlink/backend/internal/storage"
)

// sendMessageInput is the POST /chat/:matchId body. The image, if any,
// has already been uploaded by the media service; only its URL travels
// here.
type sendMessageInput struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
	ClientID string `json:"clientId"`
}

// GetInbox lists one row per match for the caller.
func (h *Handler) GetInbox(c *gin.Context) {
	items, err := h.Chat.Inbox(identity(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetHistory returns the ordered message history of a match,
// participants only.
func (h *Handler) GetHistory(c *gin.Context) {
	history, err := h.Chat.History(c.Param("matchId"), identity(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// SendMessage is the HTTP mirror of the realtime send. It makes the same
// service call and the same broadcasts, so clients without a socket still
// reach every connected device.
func (h *Handler) SendMessage(c *gin.Context) {
	matchID := c.Param("matchId")

	var input sendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	msg, err := h.Chat.Send(identity(c).UserID, matchID, storage.MessageInput{
		Content:  input.Content,
		ImageURL: input.ImageURL,
		ClientID: input.ClientID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Broadcast(chathub.RoomName(matchID), models.EventMessageNew, msg)
	h.Hub.Broadcast("", models.EventInboxUpdate, gin.H{
		"matchId": matchID,
		"message": msg,
	})

	c.JSON(http.StatusOK, msg)
}

// MarkSeen marks the whole match seen for the caller.
func (h *Handler) MarkSeen(c *gin.Context) {
	matchID := c.Param("matchId")
	userID := identity(c).UserID

	if err := h.Chat.MarkSeen(matchID, userID); err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Broadcast(chathub.RoomName(matchID), models.EventSeen, gin.H{
		"matchId": matchID,
		"seenBy":  userID,
	})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteMessage tombstones a message the caller sent.
func (h *Handler) DeleteMessage(c *gin.Context) {
	msg, err := h.Chat.Delete(c.Param("messageId"), identity(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Broadcast(chathub.RoomName(msg.MatchID), models.EventMessageGone, gin.H{
		"messageId": msg.ID,
		"matchId":   msg.MatchID,
	})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// StartChat finds or creates the match with another user.
func (h *Handler) StartChat(c *gin.Context) {
	match, err := h.Chat.StartChat(identity(c).UserID, c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matchId": match.ID})
}
