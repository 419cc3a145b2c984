package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName = "sessionKey"

	// Ten years. The cookie is effectively non-expiring client-side; real
	// expiry is enforced server-side by the session store.
	sessionCookieMaxAge = 10 * 365 * 24 * 60 * 60
)

// CookieConfig carries the environment-dependent cookie attributes.
type CookieConfig struct {
	Domain string
	Secure bool
}

func setSessionCookie(c *gin.Context, cfg CookieConfig, key string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, key, sessionCookieMaxAge, "/", cfg.Domain, cfg.Secure, true)
}

func clearSessionCookie(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", cfg.Domain, cfg.Secure, true)
}
