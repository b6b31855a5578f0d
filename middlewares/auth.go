package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"

	"pos-api/models"
	"pos-api/utils"
)

const accessTokenCookie = "accessToken"

// AuthMiddleware resolves the caller from a bearer token or the access
// token cookie and stores the identity on the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw, _ = c.Cookie(accessTokenCookie)
		}
		if raw == "" {
			AbortWithError(c, models.ErrUnauthorized)
			return
		}

		identity, err := utils.ParseToken(secret, raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(utils.IdentityKey, identity)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw, _ = c.Cookie(accessTokenCookie)
		}
		if raw != "" {
			if identity, err := utils.ParseToken(secret, raw); err == nil {
				c.Set(utils.IdentityKey, identity)
			}
		}
		c.Next()
	}
}

func RoleMiddleware(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := utils.GetIdentity(c)
		if !ok {
			AbortWithError(c, models.ErrUnauthorized)
			return
		}
		for _, r := range roles {
			if identity.Role == r {
				c.Next()
				return
			}
		}
		AbortWithError(c, models.ErrForbidden)
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
