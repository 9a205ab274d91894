package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/ManishKrBarman/LokRise-sub002/controllers/order"
	paymentControllers "github.com/ManishKrBarman/LokRise-sub002/controllers/payment"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	orders.Use(d.requireToken())
	{
		// Create a new order from the caller's cart
		orders.POST("/place", orderControllers.PlaceOrderHandler(d.DB, d.Pricing, d.Hub))

		// Caller's own orders
		orders.GET("/", orderControllers.GetUserOrdersHandler(d.DB))
		orders.GET("/:ref", orderControllers.GetUserOrderHandler(d.DB))
	}
}

func SetupPaymentRoutes(r *gin.Engine, d Deps) {
	upi := paymentControllers.UPISettings{
		VPA:       d.Config.UPIVPA,
		PayeeName: d.Config.UPIPayeeName,
		Currency:  d.Config.Currency,
	}

	payment := r.Group("/payment")
	{
		payment.POST("/payment", paymentControllers.CreatePayment(d.DB, upi))
		payment.GET("/:ref", paymentControllers.GetPayment(d.DB))
	}
}
