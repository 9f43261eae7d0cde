package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line in a server-held cart. Only the reference and the
// quantity are stored; prices are re-read from the catalog on every view so
// the cart always reflects current pricing.
type CartItem struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
}

// Cart is the server-owned cart entity, keyed by user and stored in Redis.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItemRequest adds or updates one cart line.
type CartItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// CartView is the enriched cart returned to the storefront: current names and
// prices joined in from the catalog, plus the derived subtotal.
type CartView struct {
	Items    []CartViewItem `json:"items"`
	Subtotal float64        `json:"subtotal"`
}

// CartViewItem is one enriched cart line.
type CartViewItem struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Slug      string     `json:"slug"`
	Name      string     `json:"name"`
	SKU       string     `json:"sku,omitempty"`
	UnitPrice float64    `json:"unit_price"`
	Quantity  int        `json:"quantity"`
	LineTotal float64    `json:"line_total"`
	InStock   bool       `json:"in_stock"`
}
