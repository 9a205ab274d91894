package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/ManishKrBarman/LokRise-sub002/controllers/cart"
	orderControllers "github.com/ManishKrBarman/LokRise-sub002/controllers/order"
	productcontroller "github.com/ManishKrBarman/LokRise-sub002/controllers/product"
	userControllers "github.com/ManishKrBarman/LokRise-sub002/controllers/user"
	"github.com/ManishKrBarman/LokRise-sub002/middleware"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.Config.AdminAPIKey))
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(d.DB))
		adminGroup.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(d.DB, d.Pricing))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productcontroller.GetProducts(d.DB))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.DB))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.DB))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(d.DB, d.Config.UploadsDir))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(d.DB))
		}

		// ─────────── Orders ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(d.DB))
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler(d.Hub))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.DB))
			orderAdmin.PUT("/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(d.DB))
			orderAdmin.DELETE("/:orderID", orderControllers.DeleteOrderHandler(d.DB))
		}
	}
}
