package middleware

import (
	"net/http"

	"github.com/coinflipper/login-service/internal/identity"
	"github.com/gin-gonic/gin"
)

const errForbidden = "Forbidden"

// RequireLogin passes requests with a raw authenticated identity and sends
// everyone else to the login page. Runs after AttachSession.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identity.FromContext(c.Request.Context()).LoggedIn() {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin checks the admin flag on the raw identity — never the
// effective one. An admin pretending to be a regular user keeps admin
// access, and a regular user can never pretend their way into it.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identity.FromContext(c.Request.Context()).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errForbidden})
			return
		}
		c.Next()
	}
}
