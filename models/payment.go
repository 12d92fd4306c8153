package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusCreated        PaymentStatus = "created"
	PaymentStatusRequiresAction PaymentStatus = "requires_action"
	PaymentStatusSucceeded      PaymentStatus = "succeeded"
	PaymentStatusFailed         PaymentStatus = "failed"
	PaymentStatusRefunded       PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusCreated, PaymentStatusRequiresAction, PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Terminal payments are not reconciled again by provider webhooks. A failed payment is
// not terminal: Stripe returns the intent to requires_payment_method and the shopper can
// still complete it.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSucceeded || s == PaymentStatusRefunded
}

// Payment is one attempt to collect funds for an order. An order may have several.
type Payment struct {
	ID                uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"order_id"`
	UserID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	Provider          string            `gorm:"type:varchar(40);not null" json:"provider"`
	Status            PaymentStatus     `gorm:"type:varchar(20);not null" json:"status"`
	AmountINR         int64             `gorm:"not null" json:"amount_inr"`
	ProviderReference *string           `gorm:"type:varchar(255);index" json:"provider_reference"`
	Meta              datatypes.JSONMap `gorm:"type:jsonb" json:"meta"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}
