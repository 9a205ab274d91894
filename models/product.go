package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/cart"
)

const (
	ProductTypeCourse  = "course"
	ProductTypeProduct = "product"
)

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Images      []string       `gorm:"serializer:json;type:text" json:"images"`
	Type        string         `gorm:"type:VARCHAR(20);default:'product'" json:"type"`
	SellerID    string         `gorm:"index" json:"seller_id"`
	Stock       int            `json:"stock"`
	Categories  []Category     `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CartProduct is the slice of the product a cart entry carries.
func (p Product) CartProduct() cart.Product {
	return cart.Product{
		ID:     strconv.FormatUint(uint64(p.ID), 10),
		Name:   p.Name,
		Price:  decimal.NewFromFloat(p.Price),
		Images: p.Images,
		Type:   p.Type,
	}
}

func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func ValidProductType(t string) bool {
	return t == ProductTypeCourse || t == ProductTypeProduct
}
