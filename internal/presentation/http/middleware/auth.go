package middleware

import (
	"net/http"
	"strings"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/user"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/security"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// RequireSession validates the bearer token and stores the decoded session
// on the gin context.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := security.ValidateJWT(token, config.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		session := security.SessionFromClaims(claims)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireAdvisor rejects sessions that do not belong to an advisor account.
// Must run after RequireSession.
func RequireAdvisor() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, exists := GetSession(c)
		if !exists || session.Role != user.RoleAdvisor {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "advisor access required"})
			return
		}
		c.Next()
	}
}

// GetSession retrieves the authenticated session from the gin context.
func GetSession(c *gin.Context) (*security.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*security.Session)
	return session, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// SSE and websocket clients cannot set headers, allow a query token.
	return c.Query("token")
}
