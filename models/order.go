package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order statuses. An order moves pending → processing → shipped → delivered →
// completed, or gets cancelled. Item snapshots never change after creation;
// only the status fields do.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses carried on the order itself.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Address is a postal address snapshot embedded into orders. Copied, not
// referenced, so later profile edits never alter historical orders.
type Address struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// Order is a persisted checkout. Monetary fields are all in the store
// currency; Total = Subtotal - Discount + Shipping + Tax.
type Order struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber   string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_number"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerName  string     `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string     `gorm:"type:varchar(255);not null" json:"customer_email"`
	ShippingAddr  datatypes.JSON `gorm:"type:jsonb;not null" json:"shipping_address"`
	BillingAddr   datatypes.JSON `gorm:"type:jsonb;not null" json:"billing_address"`
	Subtotal      float64    `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Discount      float64    `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	CouponCode    string     `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`
	Shipping      float64    `gorm:"type:decimal(10,2);not null;default:0" json:"shipping"`
	Tax           float64    `gorm:"type:decimal(10,2);not null;default:0" json:"tax"`
	Total         float64    `gorm:"type:decimal(10,2);not null" json:"total"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentStatus string     `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Items         []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a frozen copy of what was bought: product id, name, unit price
// and variant taken at order time, immune to later catalog edits.
type OrderItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID   *uuid.UUID `gorm:"type:uuid" json:"variant_id,omitempty"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	SKU         string     `gorm:"type:varchar(64)" json:"sku,omitempty"`
	UnitPrice   float64    `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int        `gorm:"not null" json:"quantity"`
	VariantInfo datatypes.JSON `gorm:"type:jsonb" json:"variant_info,omitempty"`
}

// CreateOrderRequest is the checkout payload. Billing defaults to shipping
// when omitted.
type CreateOrderRequest struct {
	CustomerName  string   `json:"customer_name" binding:"required"`
	CustomerEmail string   `json:"customer_email" binding:"required,email"`
	ShippingAddr  Address  `json:"shipping_address" binding:"required"`
	BillingAddr   *Address `json:"billing_address"`
	CouponCode    string   `json:"coupon_code"`
	Items         []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItem references a product (optionally a variant) and a quantity.
type CreateOrderItem struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// UpdateOrderStatusRequest is the admin payload for moving an order along its
// lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered completed cancelled"`
}

// CreateOrderResponse returns the persisted order plus the Stripe client
// secret the storefront uses to collect payment.
type CreateOrderResponse struct {
	Order        *Order `json:"order"`
	ClientSecret string `json:"client_secret,omitempty"`
}
