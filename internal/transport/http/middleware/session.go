package middleware

import (
	"context"

	"github.com/coinflipper/login-service/internal/identity"
	"github.com/gin-gonic/gin"
)

const sessionCookieName = "sessionKey"

// SessionResolver is the subset of SessionUsecase this middleware needs.
// Defined here (point of use) so tests can inject a fake.
type SessionResolver interface {
	Resolve(ctx context.Context, key string) identity.Identity
}

// AttachSession resolves the session cookie into a request identity and
// threads it through the request context. It never blocks a request: no
// cookie, an unknown key, or a store failure all continue as logged out.
func AttachSession(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(sessionCookieName)
		if err != nil {
			key = ""
		}

		id := resolver.Resolve(c.Request.Context(), key)
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
