package middleware

import (
	"net/http"
	"strings"

	"bitebase/internal/auth"
	"bitebase/internal/logging"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
	ctxUserRole  = "userRole"
)

func AuthMiddleware() gin.HandlerFunc {
	logger := logging.For("auth")

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
			return
		}

		logger.Debug().
			Str("user_id", claims.UserID).
			Str("role", claims.Role).
			Msg("authenticated")

		// Attach user info to request context
		SetUser(c, claims.UserID, claims.Email, claims.Role)
		c.Next()
	}
}

// SetUser stores the caller identity on the gin context.
func SetUser(c *gin.Context, userID, email, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxUserEmail, email)
	c.Set(ctxUserRole, role)
}

// UserID returns the authenticated caller, if any.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ctxUserID)
	return id, id != ""
}

func Role(c *gin.Context) string {
	return c.GetString(ctxUserRole)
}
