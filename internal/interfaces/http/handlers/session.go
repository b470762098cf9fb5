// internal/interfaces/http/handlers/session.go
package handlers

import (
	"github.com/bayt-organic/storefront/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sessionCookie identifies the anonymous cart of a browser
type sessionCookie struct {
	name   string
	maxAge int
	secure bool
}

func newSessionCookie(cfg *config.Config) sessionCookie {
	return sessionCookie{
		name:   cfg.Cart.CookieName,
		maxAge: int(cfg.Cart.AnonymousTTL.Seconds()),
		secure: cfg.IsProduction(),
	}
}

// get returns the session id, or "" when the browser has none
func (s sessionCookie) get(c *gin.Context) string {
	sessionID, err := c.Cookie(s.name)
	if err != nil {
		return ""
	}
	return sessionID
}

// getOrCreate returns the session id, issuing a new cookie when needed
func (s sessionCookie) getOrCreate(c *gin.Context) string {
	if sessionID := s.get(c); sessionID != "" {
		return sessionID
	}

	sessionID := uuid.NewString()
	c.SetCookie(s.name, sessionID, s.maxAge, "/", "", s.secure, true)
	return sessionID
}
