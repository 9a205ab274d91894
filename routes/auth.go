package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	if d.RateLimiter != nil {
		authGroup.Use(d.RateLimiter.Middleware())
	}
	{
		authGroup.POST("/register", auth.Register(d.DB, d.Tokens))
		authGroup.POST("/login", auth.Login(d.DB, d.Tokens))
		authGroup.POST("/logout", d.requireToken(), auth.Logout(d.Denylist))

		if d.Verifier != nil {
			authGroup.POST("/google", auth.GoogleLogin(d.DB, d.Tokens, d.Verifier))
		}
	}
}
