// Package testutil holds helpers shared by handler tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManishKrBarman/LokRise-sub002/models"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the shared-cache database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// SeedProduct inserts a product and returns it.
func SeedProduct(t testing.TB, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Name:   name,
		Price:  price,
		Stock:  stock,
		Type:   models.ProductTypeCourse,
		Images: []string{"/uploads/" + name + ".png"},
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// SeedUser inserts a user with an empty cart.
func SeedUser(t testing.TB, db *gorm.DB, email string, role models.AccountType) models.User {
	t.Helper()
	u := models.User{
		Email:       email,
		Name:        "Test User",
		AccountType: role,
		Provider:    "password",
		Cart:        &models.Cart{},
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}
