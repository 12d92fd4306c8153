package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EventName string

const (
	EventPageView          EventName = "page_view"
	EventAddToCart         EventName = "add_to_cart"
	EventCheckoutStarted   EventName = "checkout_started"
	EventCheckoutCompleted EventName = "checkout_completed"
	EventCheckoutAbandoned EventName = "checkout_abandoned"
	EventPaymentSuccess    EventName = "payment_success"
	EventPaymentFailure    EventName = "payment_failure"
	EventUserSignup        EventName = "user_signup"
)

// EventNames is the closed set accepted by the analytics pipeline.
var EventNames = []EventName{
	EventPageView,
	EventAddToCart,
	EventCheckoutStarted,
	EventCheckoutCompleted,
	EventCheckoutAbandoned,
	EventPaymentSuccess,
	EventPaymentFailure,
	EventUserSignup,
}

func (n EventName) Valid() bool {
	for _, known := range EventNames {
		if n == known {
			return true
		}
	}
	return false
}

const (
	MaxEventPathLength     = 2048
	MaxEventReferrerLength = 2048
)

// AnalyticsEvent rows are append-only.
type AnalyticsEvent struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventName EventName         `gorm:"type:varchar(40);not null;index:idx_analytics_events_name_created" json:"event_name"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"user_id"`
	SessionID string            `gorm:"type:varchar(64);not null;index" json:"session_id"`
	Path      string            `gorm:"type:varchar(2048);not null" json:"path"`
	Referrer  *string           `gorm:"type:varchar(2048)" json:"referrer"`
	Meta      datatypes.JSONMap `gorm:"type:jsonb" json:"meta"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index:idx_analytics_events_name_created" json:"created_at"`
}

// DailyEventCount is one (day, event) aggregate row.
type DailyEventCount struct {
	Day       string    `json:"day"`
	EventName EventName `json:"event_name"`
	Count     int64     `json:"count"`
}
