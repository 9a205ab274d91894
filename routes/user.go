package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/ManishKrBarman/LokRise-sub002/controllers/cart"
	productcontroller "github.com/ManishKrBarman/LokRise-sub002/controllers/product"
	userControllers "github.com/ManishKrBarman/LokRise-sub002/controllers/user"
	"github.com/ManishKrBarman/LokRise-sub002/middleware"
	"github.com/ManishKrBarman/LokRise-sub002/models"
)

// SetupCatalogueRoutes registers the public product and category listings.
func SetupCatalogueRoutes(r *gin.Engine, d Deps) {
	r.GET("/products", productcontroller.GetProducts(d.DB))
	r.GET("/products/:id", productcontroller.GetProductByID(d.DB))
	r.GET("/categories", productcontroller.GetAllCategories(d.DB))
	r.GET("/categories/:id", productcontroller.GetCategoryByID(d.DB))
}

// SetupUserRoutes registers all “/user/*” endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(d.requireToken())
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(d.DB))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateUser(d.DB)) // PUT /user/

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(d.DB, d.Pricing))               // GET /user/cart
			cartGroup.POST("/", cartControllers.AddCartItem(d.DB, d.Pricing))              // POST /user/cart
			cartGroup.PUT("/:product_id", cartControllers.UpdateCartItem(d.DB, d.Pricing)) // PUT /user/cart/:product_id
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(d.DB))         // DELETE /user/cart/:product_id
			cartGroup.DELETE("/", cartControllers.ClearUserCart(d.DB))                     // DELETE /user/cart
		}
	}
}

// SetupSellerRoutes registers “/seller/*”. Admin tokens pass the role check too.
func SetupSellerRoutes(r *gin.Engine, d Deps) {
	seller := r.Group("/seller")
	seller.Use(d.requireToken(), middleware.RequireRole(string(models.AccountSeller), string(models.AccountAdmin)))
	{
		seller.GET("/products", productcontroller.GetSellerProducts(d.DB))
		seller.GET("/products/:id", productcontroller.GetSellerProduct(d.DB))
		seller.POST("/products", productcontroller.CreateProduct(d.DB, d.Config.UploadsDir))
		seller.PUT("/products/:id", productcontroller.UpdateProduct(d.DB, d.Config.UploadsDir))
		seller.DELETE("/products/:id", productcontroller.DeleteProduct(d.DB))
	}
}
