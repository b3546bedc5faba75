package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/stridebound/stridebound/internal/platform/errors"
)

// userIDKey is the gin context key holding the authenticated user id.
const userIDKey = "httpapi.user_id"

// TokenVerifier validates a bearer token and returns the subject user id.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// RequireSession returns middleware enforcing a valid bearer session token.
func RequireSession(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			Error(c, apperrors.New(apperrors.CodeAccountSessionInvalid, "session verifier is not configured"))
			c.Abort()
			return
		}
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			Error(c, apperrors.New(apperrors.CodeAccountSessionInvalid, "bearer token is required"))
			c.Abort()
			return
		}
		userID, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			Error(c, err)
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// SessionUserID returns the authenticated user id set by RequireSession.
func SessionUserID(c *gin.Context) string {
	value, ok := c.Get(userIDKey)
	if !ok {
		return ""
	}
	userID, _ := value.(string)
	return userID
}
