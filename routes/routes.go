package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
	"github.com/ManishKrBarman/LokRise-sub002/cart"
	"github.com/ManishKrBarman/LokRise-sub002/config"
	orderControllers "github.com/ManishKrBarman/LokRise-sub002/controllers/order"
	"github.com/ManishKrBarman/LokRise-sub002/middleware"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	DB          *gorm.DB
	Config      config.Config
	Tokens      *auth.TokenManager
	Denylist    auth.Denylist
	Verifier    auth.IDTokenVerifier // nil disables Google sign-in
	Hub         *orderControllers.Hub
	Pricing     cart.Pricing
	RateLimiter *middleware.RateLimiter
}

func (d Deps) requireToken() gin.HandlerFunc {
	return middleware.ValidateToken(d.Tokens, d.Denylist)
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Public auth routes (rate limited)
	SetupAuthRoutes(r, d)

	// 2️⃣ Public catalogue
	SetupCatalogueRoutes(r, d)

	// 3️⃣ User routes (JWT-protected)
	SetupUserRoutes(r, d)

	// 4️⃣ Seller routes (JWT + seller role)
	SetupSellerRoutes(r, d)

	// order routes
	SetupOrderRoutes(r, d)

	// UPI payment routes
	SetupPaymentRoutes(r, d)

	// 5️⃣ Admin routes (API-Key-protected)
	SetupAdminRoutes(r, d)

	// static pages and 404
	SetupPageRoutes(r)
}
