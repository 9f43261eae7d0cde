package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouponType represents the type of discount a coupon provides.
type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

// Coupon is a discount code. Codes are stored upper-cased; UsedCount is only
// ever advanced by the guarded UPDATE in the repository, so it can never
// exceed UsageLimit.
type Coupon struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Type        CouponType `gorm:"type:varchar(20);not null" json:"type"`
	Value       float64    `gorm:"not null" json:"value"`
	MinPurchase float64    `gorm:"not null;default:0" json:"min_purchase"`
	UsageLimit  int        `gorm:"not null;default:0" json:"usage_limit"` // 0 = unlimited
	UsedCount   int        `gorm:"not null;default:0" json:"used_count"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Active      bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateCouponRequest is the admin payload for creating a coupon.
type CreateCouponRequest struct {
	Code        string     `json:"code" binding:"required,min=3,max=64"`
	Type        CouponType `json:"type" binding:"required,oneof=percentage fixed"`
	Value       float64    `json:"value" binding:"required,gt=0"`
	MinPurchase float64    `json:"min_purchase" binding:"gte=0"`
	UsageLimit  int        `json:"usage_limit" binding:"gte=0"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// ValidateCouponRequest is the payload for pricing a coupon against a cart.
type ValidateCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
}

// ValidateCouponResponse reports whether the code applies and for how much.
type ValidateCouponResponse struct {
	Valid    bool       `json:"valid"`
	Code     string     `json:"code"`
	Type     CouponType `json:"type,omitempty"`
	Discount float64    `json:"discount"`
	Message  string     `json:"message,omitempty"`
}
