package handler

import (
	"github.com/gin-gonic/gin"

	"pairlink/backend/internal/auth"
	"pairlink/backend/internal/chat"
	"pairlink/backend/internal/chathub"
	apperrors "pairlink/backend/pkg/errors"
)

// Handler holds the shared dependencies of the HTTP layer.
type Handler struct {
	Chat *chat.Service
	Hub  *chathub.Manager
	JWT  *auth.JWTManager
}

func NewHandler(chatSvc *chat.Service, hub *chathub.Manager, jwtManager *auth.JWTManager) *Handler {
	return &Handler{Chat: chatSvc, Hub: hub, JWT: jwtManager}
}

// Routes mounts every endpoint of the chat core.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/ws", h.ServeWebSocket)

	chatGroup := r.Group("/chat", h.AuthRequired())
	{
		chatGroup.GET("/inbox", h.GetInbox)
		chatGroup.POST("/start/:userId", h.StartChat)
		chatGroup.GET("/:matchId", h.GetHistory)
		chatGroup.POST("/:matchId", h.SendMessage)
		chatGroup.POST("/:matchId/seen", h.MarkSeen)
		chatGroup.DELETE("/message/:messageId", h.DeleteMessage)
	}
}

// respondError translates a service error into the HTTP shape clients
// key off: the status from the taxonomy plus the machine-readable code.
func respondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	c.JSON(apperrors.HTTPStatus(code), gin.H{
		"code":    code,
		"message": err.Error(),
	})
}
