package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/models"
)

// GoogleIdentity is what a verified Google ID token tells us about the user.
type GoogleIdentity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

// FirebaseVerifier checks Google ID tokens through Firebase Auth.
type FirebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

// NewFirebaseVerifier initializes Firebase from the service account JSON blob.
func NewFirebaseVerifier(ctx context.Context, credentialsJSON, projectID string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID},
		option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client, projectID: projectID}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (GoogleIdentity, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return GoogleIdentity{}, err
	}
	if token.Audience != v.projectID {
		return GoogleIdentity{}, errors.New("invalid token audience")
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return GoogleIdentity{}, errors.New("token has no email")
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	return GoogleIdentity{UID: token.UID, Email: email, Name: name, Picture: picture}, nil
}

// POST /auth/google
func GoogleLogin(db *gorm.DB, tokens *TokenManager, verifier IDTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			log.Printf("❌ ID token verification failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google ID token"})
			return
		}

		var user models.User
		err = db.Where("email = ?", normalizeEmail(id.Email)).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				ID:          id.UID,
				Email:       normalizeEmail(id.Email),
				Name:        id.Name,
				AccountType: models.AccountBuyer,
				Provider:    "google",
				Cart:        &models.Cart{},
			}
			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
			user.Cart = nil
		case err == nil:
			if id.Name != "" && id.Name != user.Name {
				db.Model(&user).Update("name", id.Name)
			}
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
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
