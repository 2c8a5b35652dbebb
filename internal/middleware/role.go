package middleware

import (
	"net/http"
	"slices"

	"bitebase/internal/logging"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through when the authenticated caller holds
// one of allowedRoles. It must run after AuthMiddleware.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	logger := logging.For("auth")

	return func(c *gin.Context) {
		role := Role(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role missing"})
			return
		}

		if !slices.Contains(allowedRoles, role) {
			userID, _ := UserID(c)
			logger.Debug().
				Str("user_id", userID).
				Str("role", role).
				Str("path", c.FullPath()).
				Msg("role not allowed")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
