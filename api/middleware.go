package api

import (
	"net/http"

	"github.com/Domenick1991/travelbook/internal/auth"
	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"
	tokenKey    = "token"
)

// RequireAuth verifies the bearer token and, when roles are given, checks the
// caller holds one of them. The identity and raw token are stored on the
// context for the handlers.
func RequireAuth(tokens *auth.TokenManager, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		identity, err := tokens.Resolve(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if identity.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		c.Set(identityKey, identity)
		c.Set(tokenKey, header)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
