package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending     OrderStatus = "pending"       // placed, awaiting confirmation
	OrderStatusConfirmed   OrderStatus = "confirmed"     // confirmed by seller
	OrderStatusReadyToShip OrderStatus = "ready_to_ship" // packed
	OrderStatusShipped     OrderStatus = "shipped"       // out for delivery
	OrderStatusDelivered   OrderStatus = "delivered"
	OrderStatusReturned    OrderStatus = "returned"
	OrderStatusCancelled   OrderStatus = "cancelled" // cancelled before shipping

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var (
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderRef      string          `gorm:"uniqueIndex" json:"order_ref"`
	UserID        string          `gorm:"index;not null" json:"user_id"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Shipping      ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping"`
	Subtotal      float64         `json:"subtotal"`
	Tax           float64         `json:"tax"`
	ShippingCost  float64         `json:"shipping_cost"`
	TotalAmount   float64         `json:"total_amount"`
	Status        OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod string          `json:"payment_method"` // "upi", "cod"
	CreatedAt     time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	ProductType  string  `json:"product_type"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
}

// ShippingAddress is the contact/address record an order ships to.
type ShippingAddress struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(strings.ToLower(s)); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusReadyToShip, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusReturned, OrderStatusCancelled:
		return st, nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(strings.ToLower(s)); st {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return st, nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}
