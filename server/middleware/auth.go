package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/healthymeal/backend/errors"
)

// UserIDKey is the Gin context key holding the authenticated user's id.
const UserIDKey = "user_id"

// AuthConfig configures the bearer token authentication middleware.
type AuthConfig struct {
	// TokenValidator validates a token string and returns the user id it
	// belongs to.
	TokenValidator func(token string) (string, error)
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
}

// Auth returns a Gin middleware that validates Bearer tokens using the
// configured TokenValidator. The resolved user id is stored in the Gin
// context under UserIDKey.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format.")
			return
		}

		userID, err := cfg.TokenValidator(parts[1])
		if err != nil || userID == "" {
			abortUnauthorized(c, "Invalid token.")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id from the Gin context.
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	appErr := errors.Unauthorized(message)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
