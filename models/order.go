package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

const CurrencyINR = "INR"

// forward progression; cancelled and refunded sit outside it
var orderStatusRank = map[OrderStatus]int{
	OrderStatusCreated:   0,
	OrderStatusPaid:      1,
	OrderStatusFulfilled: 2,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPaid, OrderStatusFulfilled, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// Terminal statuses accept no further transition.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// CanTransitionTo reports whether an order may move from s to next. Progress is forward
// only along created → paid → fulfilled; cancel and refund are allowed from any
// non-terminal status. Staying put is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next.Terminal() {
		return true
	}
	return orderStatusRank[next] > orderStatusRank[s]
}

// ShippingAddress is stored as jsonb on the order.
type ShippingAddress struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// Order is an immutable record of a purchase attempt. Totals are written once at
// assembly; only Status changes afterwards.
type Order struct {
	ID              uuid.UUID                           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID                           `gorm:"type:uuid;not null;index" json:"user_id"`
	Status          OrderStatus                         `gorm:"type:varchar(20);not null;index" json:"status"`
	Currency        string                              `gorm:"type:varchar(3);not null" json:"currency"`
	SubtotalINR     int64                               `gorm:"not null" json:"subtotal_inr"`
	ShippingINR     int64                               `gorm:"not null" json:"shipping_inr"`
	TotalINR        int64                               `gorm:"not null" json:"total_inr"`
	ShippingAddress datatypes.JSONType[ShippingAddress] `gorm:"type:jsonb;not null" json:"shipping_address"`
	Items           []OrderItem                         `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time                           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                           `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderItem freezes the unit price at the moment the order was assembled.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;check:order_item_quantity,quantity >= 1" json:"quantity"`
	PriceINR  int64     `gorm:"not null" json:"price_inr"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
