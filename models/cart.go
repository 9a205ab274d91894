package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ManishKrBarman/LokRise-sub002/cart"
)

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"`                                 // one cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // cascade delete items with the cart
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem snapshots the product fields at the time it was added. A cart holds
// at most one row per product.
type CartItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CartID       uint      `gorm:"uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID    uint      `gorm:"uniqueIndex:idx_cart_product" json:"product_id"`
	ProductName  string    `json:"product_name"`
	ProductImage string    `json:"product_image"`
	ProductType  string    `json:"product_type"`
	Price        float64   `json:"price"`
	Quantity     int       `json:"quantity"`
	AddedAt      time.Time `json:"added_at"`
}

func (i CartItem) Entry() cart.Item {
	var images []string
	if i.ProductImage != "" {
		images = []string{i.ProductImage}
	}
	return cart.Item{
		Product: cart.Product{
			ID:     strconv.FormatUint(uint64(i.ProductID), 10),
			Name:   i.ProductName,
			Price:  decimal.NewFromFloat(i.Price),
			Images: images,
			Type:   i.ProductType,
		},
		Quantity: i.Quantity,
	}
}

// Store loads the persisted items into a cart store for totals.
func (c Cart) Store(p cart.Pricing) *cart.Store {
	s := cart.New(p)
	items := make([]cart.Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, it.Entry())
	}
	s.Restore(items)
	return s
}
