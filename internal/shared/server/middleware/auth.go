package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"curriculum-backend/internal/shared/auth"
	"curriculum-backend/internal/shared/server/respond"
)

const (
	accountIDKey      = "accountId"
	accountEmailKey   = "accountEmail"
	accountNameKey    = "accountName"
	accountPictureKey = "accountPicture"
)

// publicPrefixes are reachable without a bearer token. The webhook carries
// its own Stripe signature check instead.
var publicPrefixes = []string{
	"/api/v1/auth/google/",
	"/api/v1/webhook",
	"/api/v1/health",
	"/api/v1/metrics",
}

// Auth validates JWTs and stores the caller identity in context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(accountIDKey, claims.Sub)
		if claims.Email != "" {
			c.Set(accountEmailKey, claims.Email)
		}
		if claims.Name != "" {
			c.Set(accountNameKey, claims.Name)
		}
		if claims.Picture != "" {
			c.Set(accountPictureKey, claims.Picture)
		}
		c.Next()
	}
}

// AccountIDFromContext fetches the account ID set by the auth middleware.
func AccountIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(accountIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// AccountEmailFromContext fetches the account email set by the auth middleware.
func AccountEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(accountEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}

// AccountNameFromContext fetches the account name set by the auth middleware.
func AccountNameFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(accountNameKey)
	if name, ok := val.(string); ok {
		return name
	}
	return ""
}
