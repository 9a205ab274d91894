package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidateAPIKey guards admin routes. Browsers can't set headers on websocket
// upgrades, so the key is also read from the api_key query parameter.
func ValidateAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-API-KEY")
		if provided == "" {
			provided = c.Query("api_key")
		}
		if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			return
		}
		c.Next()
	}
}
