package userControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
	"github.com/ManishKrBarman/LokRise-sub002/models"
)

type UpdateUserInput struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *models.Address `json:"address"`
}

// GET /user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(auth.CtxUserID)
		var user models.User

		if err := db.Preload("Cart.Items").First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
// Optional ?role=buyer|seller|admin.
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// public fields only
		query := db.Select("id", "email", "name", "account_type", "provider", "created_at").Order("created_at desc")
		if role := c.Query("role"); role != "" {
			switch models.AccountType(role) {
			case models.AccountBuyer, models.AccountSeller, models.AccountAdmin:
				query = query.Where("account_type = ?", role)
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
				return
			}
		}

		users := []models.User{}
		if err := query.Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// PUT /user
// Also the target of the checkout "save this address" option.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(auth.CtxUserID)
		var user models.User

		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			updates["name"] = name
		}
		if input.Phone != nil {
			updates["phone"] = strings.TrimSpace(*input.Phone)
		}
		if input.Address != nil {
			updates["street"] = input.Address.Street
			updates["city"] = input.Address.City
			updates["state"] = input.Address.State
			updates["postal_code"] = input.Address.PostalCode
			updates["country"] = input.Address.Country
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
		}

		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
