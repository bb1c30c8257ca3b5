// internal/interfaces/http/handlers/session.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/config"
)

// getOrCreateSessionID gets the visitor session ID from the cookie or
// creates a new one. The session cookie is HTTP-only and lives as long as
// the configured session TTL.
func getOrCreateSessionID(c *gin.Context, cfg *config.Config) string {
	sessionID, err := c.Cookie(cfg.Session.CookieName)
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		c.SetCookie(cfg.Session.CookieName, sessionID, int(cfg.Session.TTL.Seconds()), "/", "", false, true)
	}

	return sessionID
}
