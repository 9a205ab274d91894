package models

import (
	"log"
	"time"

	"gorm.io/gorm"
)

// Payment is a UPI payment intent handed to the buyer as a link and QR code.
type Payment struct {
	ID        uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Ref       string        `gorm:"uniqueIndex;not null" json:"ref"`
	OrderRef  string        `gorm:"index" json:"order_ref,omitempty"`
	Amount    float64       `gorm:"not null" json:"amount"`
	Currency  string        `json:"currency"`
	UPILink   string        `gorm:"type:text" json:"upi_link"`
	Status    PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func SavePayment(db *gorm.DB, p *Payment) error {
	if err := db.Create(p).Error; err != nil {
		return err
	}
	log.Printf("💳 Payment intent %s saved: %.2f %s", p.Ref, p.Amount, p.Currency)
	return nil
}

func GetPaymentByRef(db *gorm.DB, ref string) (*Payment, error) {
	var p Payment
	if err := db.Where("ref = ?", ref).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
