package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "Coinflipper-Api-Key"

// RequireAPIKey guards the programmatic user endpoints with a shared
// secret supplied via header or form field.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader(apiKeyHeader)
		if supplied == "" {
			supplied = c.PostForm("apiKey")
		}

		if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authorization key provided."})
			return
		}
		c.Next()
	}
}
