package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	UserIDHeader     = "X-User-ID"
	userIDContextKey = "user_id"
	userIDSessionKey = "user_id"
)

// IdentityMiddleware resolves the caller's external user id. A value in the
// X-User-ID header wins and is remembered in the cookie session; later
// requests without the header fall back to the session.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		if header := strings.TrimSpace(c.GetHeader(UserIDHeader)); header != "" {
			if current, _ := session.Get(userIDSessionKey).(string); current != header {
				session.Set(userIDSessionKey, header)
				if err := session.Save(); err != nil {
					LoggerFromContext(c).Warn("Failed to persist identity in session", "error", err)
				}
			}
			c.Set(userIDContextKey, header)
			c.Next()
			return
		}

		if stored, ok := session.Get(userIDSessionKey).(string); ok && stored != "" {
			c.Set(userIDContextKey, stored)
		}
		c.Next()
	}
}

// UserIDFromContext returns the identity resolved by IdentityMiddleware.
func UserIDFromContext(c *gin.Context) (string, bool) {
	id := c.GetString(userIDContextKey)
	return id, id != ""
}
