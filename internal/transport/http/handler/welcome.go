package handler

import (
	"net/http"

	"github.com/coinflipper/login-service/internal/identity"
	"github.com/gin-gonic/gin"
)

// GET /
// Reports who the request is acting as. The effective user is what
// content sees; whether pretending is active is surfaced so the banner
// layer can show it.
func Welcome(c *gin.Context) {
	id := identity.FromContext(c.Request.Context())
	if !id.LoggedIn() {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}

	resp := gin.H{
		"loggedIn": true,
		"user":     toUserResponse(id.EffectiveUser),
	}
	if id.Session != nil && id.Session.PretendUser != nil {
		resp["pretending"] = true
	}
	if len(id.PretendingSessions) > 0 {
		pretending := make([]sessionResponse, 0, len(id.PretendingSessions))
		for _, s := range id.PretendingSessions {
			pretending = append(pretending, toSessionResponse(s))
		}
		resp["pretendingSessions"] = pretending
	}
	c.JSON(http.StatusOK, resp)
}
