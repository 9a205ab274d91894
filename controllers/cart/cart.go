package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
	"github.com/ManishKrBarman/LokRise-sub002/cart"
	"github.com/ManishKrBarman/LokRise-sub002/models"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type cartResponse struct {
	Items  []models.CartItem `json:"items"`
	Totals cart.Totals       `json:"totals"`
}

func currentUserID(c *gin.Context) (string, bool) {
	id := c.GetString(auth.CtxUserID)
	return id, id != ""
}

// loadCart returns the user's cart with items, creating it on first use.
func loadCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var userCart models.Cart
	err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Where("user_id = ?", userID).First(&userCart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		userCart = models.Cart{UserID: userID}
		if err := db.Create(&userCart).Error; err != nil {
			return nil, err
		}
		return &userCart, nil
	}
	if err != nil {
		return nil, err
	}
	return &userCart, nil
}

func respondCart(c *gin.Context, status int, db *gorm.DB, userID string, pricing cart.Pricing) {
	userCart, err := loadCart(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(status, newCartResponse(userCart, pricing))
}

func newCartResponse(userCart *models.Cart, pricing cart.Pricing) cartResponse {
	items := userCart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return cartResponse{Items: items, Totals: userCart.Store(pricing).Totals()}
}

// GET /user/cart
func GetUserCart(db *gorm.DB, pricing cart.Pricing) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		respondCart(c, http.StatusOK, db, userID, pricing)
	}
}

// POST /user/cart
// Adding a product already in the cart increments its quantity.
func AddCartItem(db *gorm.DB, pricing cart.Pricing) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate product"
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusBadRequest
				errMsg = "Product does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}

		userCart, err := loadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User cart not found"})
			return
		}

		item := models.CartItem{
			CartID:       userCart.CartID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.FirstImage(),
			ProductType:  product.Type,
			Price:        product.Price,
			Quantity:     input.Quantity,
			AddedAt:      time.Now(),
		}
		// merge into the existing row for this product, if any
		err = db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: append(
				clause.AssignmentColumns([]string{"product_name", "product_image", "product_type", "price", "added_at"}),
				clause.Assignment{Column: clause.Column{Name: "quantity"}, Value: gorm.Expr("cart_items.quantity + excluded.quantity")},
			),
		}).Create(&item).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		var stored models.CartItem
		if err := db.Where("cart_id = ? AND product_id = ?", userCart.CartID, product.ID).First(&stored).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}
		status := http.StatusOK
		if stored.Quantity == input.Quantity {
			status = http.StatusCreated
		}

		respondCart(c, status, db, userID, pricing)
	}
}

// PUT /user/cart/:product_id
func UpdateCartItem(db *gorm.DB, pricing cart.Pricing) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}

		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": cart.ErrInvalidQuantity.Error()})
			return
		}

		userCart, err := loadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User cart not found"})
			return
		}

		result := db.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", userCart.CartID, productID).
			Updates(map[string]interface{}{"quantity": input.Quantity, "added_at": time.Now()})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		respondCart(c, http.StatusOK, db, userID, pricing)
	}
}

// DELETE /user/cart/:product_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}

		var userCart models.Cart
		if err := db.Where("user_id = ?", userID).First(&userCart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
			return
		}

		result := db.Where("cart_id = ? AND product_id = ?", userCart.CartID, productID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var userCart models.Cart
		if err := db.Where("user_id = ?", userID).First(&userCart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user cart"})
			return
		}

		if err := db.Where("cart_id = ?", userCart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(db *gorm.DB, pricing cart.Pricing) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		var userCart models.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&userCart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, newCartResponse(&userCart, pricing))
	}
}
