package auth

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/models"
)

// Keys the token middleware stores on the gin context.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxClaims = "claims"
)

var passwordCost = bcrypt.DefaultCost

type RegisterInput struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Email       string `json:"email" form:"email" binding:"required"`
	Password    string `json:"password" form:"password" binding:"required,min=6"`
	Phone       string `json:"phone" form:"phone"`
	AccountType string `json:"account_type" form:"account_type"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type emailField struct {
	Email string `binding:"required,email"`
}

// validEmail runs gin's email rule on an already normalized address.
func validEmail(email string) bool {
	return binding.Validator.ValidateStruct(emailField{Email: email}) == nil
}

// isFormPost is true for submissions from the static HTML forms.
func isFormPost(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == gin.MIMEPOSTForm || ct == gin.MIMEMultipartPOSTForm
}

// POST /auth/register
func Register(db *gorm.DB, tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		fail := func(status int, msg string) {
			if isFormPost(c) {
				c.Redirect(http.StatusSeeOther, "/register?error="+url.QueryEscape(msg))
				return
			}
			c.JSON(status, gin.H{"error": msg})
		}

		var input RegisterInput
		if err := c.ShouldBind(&input); err != nil {
			fail(http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		accountType, ok := models.ParseAccountType(input.AccountType)
		if !ok {
			fail(http.StatusBadRequest, "Invalid account type")
			return
		}
		email := normalizeEmail(input.Email)
		if !validEmail(email) {
			fail(http.StatusBadRequest, "Invalid email address")
			return
		}

		var existing models.User
		err := db.Where("email = ?", email).First(&existing).Error
		if err == nil {
			fail(http.StatusConflict, "Email already registered")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			fail(http.StatusInternalServerError, "Database error")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), passwordCost)
		if err != nil {
			fail(http.StatusInternalServerError, "Failed to secure password")
			return
		}

		user := models.User{
			Email:        email,
			Name:         strings.TrimSpace(input.Name),
			Phone:        strings.TrimSpace(input.Phone),
			PasswordHash: string(hash),
			AccountType:  accountType,
			Provider:     "password",
			Cart:         &models.Cart{},
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", email, err)
			fail(http.StatusInternalServerError, "Failed to create user")
			return
		}
		log.Printf("👤 Registered %s (%s)", user.Email, user.AccountType)

		if isFormPost(c) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}

		token, _, err := tokens.Issue(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}
		user.Cart = nil
		c.JSON(http.StatusCreated, gin.H{
			"message": "Registration successful",
			"token":   token,
			"user":    user,
		})
	}
}

// POST /auth/login
func Login(db *gorm.DB, tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		email := normalizeEmail(input.Email)
		if !validEmail(email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}

		var user models.User
		err := db.Where("email = ?", email).First(&user).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if err != nil || user.PasswordHash == "" ||
			bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		token, _, err := tokens.Issue(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   token,
			"user":    user,
		})
	}
}

// POST /auth/logout
func Logout(denylist Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxClaims)
		claims, _ := v.(*Claims)
		if !ok || claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var until = claims.ExpiresAt
		if until == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
			return
		}
		if err := denylist.Revoke(c.Request.Context(), claims.ID, until.Time); err != nil {
			log.Printf("❌ Failed to revoke token for %s: %v", claims.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
