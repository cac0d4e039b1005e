package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (fulfillment state)
	OrderStatusPending   OrderStatus = "pending"   // placed, awaiting payment
	OrderStatusPaid      OrderStatus = "paid"      // payment settled
	OrderStatusShipped   OrderStatus = "shipped"   // handed to the courier
	OrderStatusCompleted OrderStatus = "completed" // received by the customer
	OrderStatusCancelled OrderStatus = "cancelled" // abandoned or rejected

	// Payment statuses (settlement state, set by the gateway callback)
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusChallenge PaymentStatus = "challenge" // flagged by fraud detection
	PaymentStatusDenied    PaymentStatus = "denied"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

// ParseOrderStatus maps a request string onto the status enum. Any status may
// follow any other; only unknown values are rejected.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(status)) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusPaid:
		return OrderStatusPaid, nil
	case OrderStatusShipped:
		return OrderStatusShipped, nil
	case OrderStatusCompleted:
		return OrderStatusCompleted, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

type Order struct {
	ID                uint                 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            *uint                `gorm:"index" json:"user_id"`
	User              *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ShippingAddressID uint                 `gorm:"not null" json:"shipping_address_id"`
	ShippingAddress   *ShippingAddress     `gorm:"foreignKey:ShippingAddressID" json:"shipping_address,omitempty"`
	TotalAmount       decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	PaymentMethod     string               `gorm:"default:'bank_transfer'" json:"payment_method"`
	Status            OrderStatus          `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus     PaymentStatus        `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	OrderNumber       string               `gorm:"uniqueIndex;not null" json:"order_number"`
	TransactionID     string               `json:"transaction_id"`
	Items             []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	StatusHistories   []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_histories,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price"` // unit price captured at order time
}

// OrderStatusHistory is an append-only log: one row per admin status
// transition, read back in changed_at ascending order.
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint        `gorm:"index;not null" json:"order_id"`
	Status    OrderStatus `gorm:"type:VARCHAR(20);not null" json:"status"`
	ChangedAt time.Time   `gorm:"not null" json:"changed_at"`
}
