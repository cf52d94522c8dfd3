package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/lineup-api/internal/response"
)

// CronAuth guards the scheduled-import endpoint with a shared secret.
// The comparison is constant-time; an empty configured secret disables
// the endpoint entirely.
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			response.ForbiddenError(c, "cron endpoint is not configured")
			c.Abort()
			return
		}

		provided := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			response.UnauthorizedError(c, "invalid cron secret")
			c.Abort()
			return
		}

		c.Next()
	}
}
