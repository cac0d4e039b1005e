package models

import "time"

// ShippingAddress is captured once per order at checkout and never edited
// afterwards, so historical orders keep the address they shipped to.
type ShippingAddress struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id"`
	FullName   string    `gorm:"size:100;not null" json:"full_name"`
	Phone      string    `gorm:"size:20;not null" json:"phone"`
	Address    string    `gorm:"size:255;not null" json:"address"`
	City       string    `gorm:"size:100;not null" json:"city"`
	Province   string    `gorm:"size:100;not null" json:"province"`
	PostalCode string    `gorm:"size:10;not null" json:"postal_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
