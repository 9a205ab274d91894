package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
)

// ValidateToken accepts "Bearer <jwt>" or a bare token in the Authorization
// header, rejects revoked tokens, and stores the claims on the context.
func ValidateToken(tokens *auth.TokenManager, denylist auth.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if denylist != nil {
			revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Printf("❌ Revocation check failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate token"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
				return
			}
		}

		c.Set(auth.CtxUserID, claims.UserID)
		c.Set(auth.CtxRole, claims.Role)
		c.Set(auth.CtxClaims, claims)
		c.Next()
	}
}

// RequireRole must run after ValidateToken.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(auth.CtxRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}
