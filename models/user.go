package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountType string

const (
	AccountBuyer  AccountType = "buyer"
	AccountSeller AccountType = "seller"
	AccountAdmin  AccountType = "admin"
)

type User struct {
	ID           string      `gorm:"primaryKey" json:"id"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone"`
	PasswordHash string      `json:"-"`
	AccountType  AccountType `gorm:"type:VARCHAR(20);default:'buyer'" json:"account_type"`
	Provider     string      `json:"provider"` // "password" or "google"
	Address      Address     `gorm:"embedded" json:"address"`
	Cart         *Cart       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Address model embedded in User
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.AccountType == "" {
		u.AccountType = AccountBuyer
	}
	return nil
}

// ParseAccountType maps a requested account type onto the ones a user may pick
// for themselves. Admins are never self-assigned.
func ParseAccountType(s string) (AccountType, bool) {
	switch AccountType(s) {
	case "", AccountBuyer:
		return AccountBuyer, true
	case AccountSeller:
		return AccountSeller, true
	default:
		return "", false
	}
}
