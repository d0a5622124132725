package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pairlink/backend/internal/auth"
)

const identityKey = "identity"

// AuthRequired verifies the bearer credential on every request: the
// Authorization header first, then the httpOnly cookie. Requests without
// a valid token never reach a handler.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		id, err := h.JWT.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// identity returns the verified identity the middleware attached.
func identity(c *gin.Context) *auth.Identity {
	id, _ := c.Get(identityKey)
	return id.(*auth.Identity)
}
