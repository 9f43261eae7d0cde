package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment statuses recorded against the Stripe intent. "succeeded" and
// "failed" are terminal; webhook replays never move a payment out of them.
const (
	PaymentIntentPending   = "pending"
	PaymentIntentSucceeded = "succeeded"
	PaymentIntentFailed    = "failed"
)

// Payment tracks one Stripe PaymentIntent for one order. The webhook keys on
// StripeIntentID, which makes status updates idempotent.
type Payment struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount             int64          `gorm:"not null" json:"amount"` // smallest currency unit
	Currency           string         `gorm:"type:varchar(10);not null" json:"currency"`
	Status             string         `gorm:"type:varchar(20);not null" json:"status"`
	StripeIntentID     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"stripe_intent_id"`
	StripeEventPayload *string        `gorm:"type:jsonb" json:"-"` // last webhook payload, for audit
	SucceededAt        *time.Time     `json:"succeeded_at,omitempty"`
	FailedAt           *time.Time     `json:"failed_at,omitempty"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}
