package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product is a catalog entry. Slug is the public identifier used by the
// storefront; stock is decremented inside the order-creation transaction.
type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug        string         `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	SalePrice   *float64       `gorm:"type:decimal(10,2)" json:"sale_price,omitempty"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	Category    string         `gorm:"type:varchar(100);index" json:"category"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	Active      bool           `gorm:"not null;default:true;index" json:"active"`
	Featured    bool           `gorm:"not null;default:false" json:"featured"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectivePrice returns the price actually charged at checkout: the sale
// price when one is set, the regular price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil && *p.SalePrice > 0 {
		return *p.SalePrice
	}
	return p.Price
}

// ProductVariant is a purchasable configuration of a product (e.g. size M).
// SKU is unique across the whole catalog; Price, when set, overrides the
// parent product's price.
type ProductVariant struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	SKU        string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"sku"`
	Price      *float64          `gorm:"type:decimal(10,2)" json:"price,omitempty"`
	Stock      int               `gorm:"not null;default:0" json:"stock"`
	Attributes datatypes.JSONMap `gorm:"type:jsonb" json:"attributes"`
	Active     bool              `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

// CreateProductRequest is the admin payload for creating a product.
type CreateProductRequest struct {
	Slug        string   `json:"slug" binding:"required,min=2,max=160"`
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	SalePrice   *float64 `json:"sale_price" binding:"omitempty,gt=0"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Active      *bool    `json:"active"`
	Featured    bool     `json:"featured"`
	Tags        []string `json:"tags"`
}

// UpdateProductRequest is the admin payload for editing a product. Pointer
// fields distinguish "not sent" from zero values.
type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	SalePrice   *float64 `json:"sale_price"`
	Images      []string `json:"images"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Active      *bool    `json:"active"`
	Featured    *bool    `json:"featured"`
	Tags        []string `json:"tags"`
}

// CreateVariantRequest is the admin payload for adding a variant.
type CreateVariantRequest struct {
	SKU        string                 `json:"sku" binding:"required,min=2,max=64"`
	Price      *float64               `json:"price" binding:"omitempty,gt=0"`
	Stock      int                    `json:"stock" binding:"gte=0"`
	Attributes map[string]interface{} `json:"attributes"`
	Active     *bool                  `json:"active"`
}

// UpdateVariantRequest is the admin payload for editing a variant. Pointer
// fields distinguish "not sent" from zero values.
type UpdateVariantRequest struct {
	Price      *float64               `json:"price" binding:"omitempty,gt=0"`
	Stock      *int                   `json:"stock" binding:"omitempty,gte=0"`
	Attributes map[string]interface{} `json:"attributes"`
	Active     *bool                  `json:"active"`
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category   string
	Search     string
	Featured   *bool
	ActiveOnly bool
}
