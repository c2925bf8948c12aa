package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ronnysenna/envio-massa-sub000/internal/db"
	"github.com/ronnysenna/envio-massa-sub000/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrNoUser is returned by CurrentUserID when no authenticated user is set
// on the request context.
var ErrNoUser = errors.New("no authenticated user in context")

const userIDKey = "auth_user_id"

// SessionCookieName is the cookie the frontend stores the session token in.
// The Authorization header takes precedence when both are present.
const SessionCookieName = "session_token"

// SessionValidator resolves a session token to its session record
type SessionValidator interface {
	GetByToken(ctx context.Context, token string) (*repository.Session, error)
}

// SessionMiddleware resolves the current user from a Bearer token or the
// session cookie and aborts with 401 before any handler work otherwise.
func SessionMiddleware(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c, "MISSING_SESSION", "Authentication required. Provide Authorization: Bearer <token> or the session cookie")
			return
		}

		session, err := sessions.GetByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				abortUnauthorized(c, "INVALID_SESSION", "Session is invalid or expired")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Failed to validate session",
				},
			})
			return
		}

		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID from the Gin context
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, ErrNoUser
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoUser
	}
	return id, nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
