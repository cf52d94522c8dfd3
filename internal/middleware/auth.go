package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/lineup-api/internal/auth"
	"github.com/gravadigital/lineup-api/internal/domain/user"
	"github.com/gravadigital/lineup-api/internal/response"
)

const (
	// ClaimsKey is the context key the validated token claims live under
	ClaimsKey = "auth_claims"
)

// RequireAuth validates the Bearer token and stores its claims on the
// request context
func RequireAuth(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.UnauthorizedError(c, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := issuer.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.UnauthorizedError(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role
func RequireAdmin() gin.HandlerFunc {
	return requireRole(string(user.RoleAdmin))
}

// RequireDJ rejects requests whose token does not carry the dj role
func RequireDJ() gin.HandlerFunc {
	return requireRole(string(user.RoleDJ))
}

func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Role != role {
			response.ForbiddenError(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetClaims returns the validated claims set by RequireAuth, or nil
func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
