package models

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"uniqueIndex;not null" json:"name"`
	Image    string    `json:"image"`
	Products []Product `gorm:"many2many:product_categories" json:"products,omitempty"`
}
