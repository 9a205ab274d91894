package orderControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
	"github.com/ManishKrBarman/LokRise-sub002/cart"
	"github.com/ManishKrBarman/LokRise-sub002/checkout"
	"github.com/ManishKrBarman/LokRise-sub002/models"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductUnavailable = errors.New("product no longer available")
	ErrPaymentMethod      = errors.New("payment_method must be upi or cod")
)

// -------- Request Structs --------
type PlaceOrderRequest struct {
	Shipping      models.ShippingAddress `json:"shipping"`
	PaymentMethod string                 `json:"payment_method"` // "upi" (default) or "cod"
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// -------- Helpers --------

// Example: 20250908130500-<uuid4>
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

func paymentMethod(m string) (string, error) {
	switch m = strings.ToLower(strings.TrimSpace(m)); m {
	case "":
		return "upi", nil
	case "upi", "cod":
		return m, nil
	default:
		return "", ErrPaymentMethod
	}
}

// -------- Core Logic --------

// PlaceOrder turns the user's cart into an order. Products are locked while
// stock is checked; courses carry no stock. Prices are taken from the product
// rows, not the cart snapshot.
func PlaceOrder(db *gorm.DB, pricing cart.Pricing, userID string, req PlaceOrderRequest) (*models.Order, error) {
	if err := checkout.ShippingDetails(req.Shipping).Validate(); err != nil {
		return nil, err
	}
	method, err := paymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		var userCart models.Cart
		if err := tx.Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("id") }).
			Where("user_id = ?", userID).First(&userCart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(userCart.Items) == 0 {
			return ErrEmptyCart
		}

		store := cart.New(pricing)
		orderItems := make([]models.OrderItem, 0, len(userCart.Items))
		for _, item := range userCart.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrProductUnavailable, item.ProductName)
				}
				return err
			}

			if product.Type != models.ProductTypeCourse {
				if product.Stock < item.Quantity {
					return fmt.Errorf("%w for product: %s", ErrInsufficientStock, product.Name)
				}
				if err := tx.Model(&product).Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
					return err
				}
			}

			if err := store.AddItem(product.CartProduct(), item.Quantity); err != nil {
				return err
			}
			orderItems = append(orderItems, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.FirstImage(),
				ProductType:  product.Type,
				Price:        product.Price,
				Quantity:     item.Quantity,
			})
		}

		totals := store.Totals()
		order = models.Order{
			OrderRef:      generateOrderRef(),
			UserID:        userID,
			Items:         orderItems,
			Shipping:      req.Shipping,
			Subtotal:      totals.Subtotal.InexactFloat64(),
			Tax:           totals.Tax.InexactFloat64(),
			ShippingCost:  totals.Shipping.InexactFloat64(),
			TotalAmount:   totals.Total.InexactFloat64(),
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: method,
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("cart_id = ?", userCart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// POST /orders/place
func PlaceOrderHandler(db *gorm.DB, pricing cart.Pricing, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		order, err := PlaceOrder(db, pricing, c.GetString(auth.CtxUserID), req)
		switch {
		case err == nil:
		case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrProductUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrPaymentMethod),
			errors.Is(err, checkout.ErrInvalidShipping):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		default:
			log.Printf("❌ place order failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		log.Printf("🧾 order %s placed by %s (total %.2f)", order.OrderRef, order.UserID, order.TotalAmount)
		if hub != nil {
			hub.Broadcast(order)
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Order placed successfully",
			"order":   order,
		})
	}
}

// GET /orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders := []models.Order{}
		if err := db.
			Where("user_id = ?", c.GetString(auth.CtxUserID)).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:ref
// Users only see their own orders.
func GetUserOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := db.Preload("Items").
			Where("order_ref = ? AND user_id = ?", c.Param("ref"), c.GetString(auth.CtxUserID)).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
// Optional ?status= filter.
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items").Order("created_at DESC")
		if s := c.Query("status"); s != "" {
			status, err := models.ParseOrderStatus(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			query = query.Where("status = ?", status)
		}

		orders := []models.Order{}
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// updateOrderColumn sets one column on the order named by :orderID.
func updateOrderColumn(c *gin.Context, db *gorm.DB, column string, value any, message string) {
	res := db.Model(&models.Order{}).Where("id = ?", c.Param("orderID")).Update(column, value)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update " + strings.ReplaceAll(column, "_", " ")})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updateOrderColumn(c, db, "status", newStatus, "Order status updated successfully")
	}
}

// PUT /admin/orders/:orderID/payment-status
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updateOrderColumn(c, db, "payment_status", newStatus, "Payment status updated successfully")
	}
}

// DELETE /admin/orders/:orderID
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			res := tx.Where("id = ?", orderID).Delete(&models.Order{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
