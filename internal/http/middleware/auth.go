// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements API-key authentication. Every assistance route runs
// on behalf of exactly one user, resolved from the presented key.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-codementor-backend/internal/repo"
)

// userIDKey is the Gin context key holding the authenticated user's ID.
const userIDKey = "userID"

// APIKeyAuth resolves the caller from an API key and stores its user ID in
// the Gin context under "userID".
//
// Accepted forms, in order:
//   - Authorization: Bearer <key>
//   - Authorization: <key>
//   - X-API-Key: <key>
//
// A missing or unknown key aborts with 401; a lookup failure aborts with
// 500. Both use the standard error envelope.
func APIKeyAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := extractAPIKey(c.Request)
		if key == "" {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "missing api key")
			return
		}

		u, err := repo.GetUserByAPIKey(c.Request.Context(), db, key)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			LoggerFrom(c).Warn().
				Str("key_prefix", maskKey(key)).
				Str("remote_addr", c.ClientIP()).
				Msg("invalid api key attempt")
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "invalid api key")
			return
		case err != nil:
			LoggerFrom(c).Error().Err(err).
				Str("key_prefix", maskKey(key)).
				Msg("api key lookup failed")
			abortAuth(c, http.StatusInternalServerError, "internal", "authentication error")
			return
		}

		c.Set(userIDKey, u.ID)
		scoped := LoggerFrom(c).With().Str("user_id", u.ID).Logger()
		attachLogger(c, &scoped)
		c.Next()
	}
}

// extractAPIKey returns the presented key, or "" when none was sent.
func extractAPIKey(r *http.Request) string {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return h
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// maskKey returns the first 8 bytes of key for logging.
func maskKey(key string) string {
	if len(key) < 8 {
		return "***"
	}
	return key[:8] + "..."
}

func abortAuth(c *gin.Context, status int, code, msg string) {
	rid, _ := c.Get(requestIDKey)
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": asString(rid),
		"code":       code,
		"message":    msg,
	})
}
