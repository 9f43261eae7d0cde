package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront-backend/models"
	"storefront-backend/repository"
)

// CartService manages the server-owned cart and produces the enriched view
// the storefront renders. Prices in the view always come from the current
// catalog; the cart itself stores only references and quantities.
type CartService struct {
	carts    *repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts *repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

// GetCart returns the enriched cart for a user. Lines whose product has been
// removed from the catalog are dropped from the view.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.CartView, *ServiceError) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}

	view := &models.CartView{Items: []models.CartViewItem{}}
	if cart == nil {
		return view, nil
	}

	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil || !product.Active {
			continue
		}

		unitPrice := product.EffectivePrice()
		sku := ""
		stock := product.Stock
		if item.VariantID != nil {
			variant, err := s.products.FindVariantByID(ctx, *item.VariantID)
			if err != nil || variant.ProductID != product.ID || !variant.Active {
				continue
			}
			if variant.Price != nil {
				unitPrice = *variant.Price
			}
			sku = variant.SKU
			stock = variant.Stock
		}

		line := models.CartViewItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Slug:      product.Slug,
			Name:      product.Name,
			SKU:       sku,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
			LineTotal: round2(unitPrice * float64(item.Quantity)),
			InStock:   stock >= item.Quantity,
		}
		view.Items = append(view.Items, line)
		view.Subtotal += line.LineTotal
	}
	view.Subtotal = round2(view.Subtotal)
	return view, nil
}

// SetItem adds a line or replaces the quantity of an existing one.
func (s *CartService) SetItem(ctx context.Context, userID string, req *models.CartItemRequest) *ServiceError {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil || !product.Active {
		return &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	stock := product.Stock
	if req.VariantID != nil {
		variant, err := s.products.FindVariantByID(ctx, *req.VariantID)
		if err != nil || variant.ProductID != product.ID || !variant.Active {
			return &ServiceError{StatusCode: 404, Message: "Variant not found for product"}
		}
		stock = variant.Stock
	}
	if stock < req.Quantity {
		return &ServiceError{StatusCode: 409, Message: "Not enough stock"}
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID}
	}

	replaced := false
	for i, item := range cart.Items {
		if item.ProductID == req.ProductID && uuidPtrEqual(item.VariantID, req.VariantID) {
			cart.Items[i].Quantity = req.Quantity
			replaced = true
			break
		}
	}
	if !replaced {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: req.ProductID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
		})
	}

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}
	return nil
}

// RemoveItem drops every line for the given product.
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID uuid.UUID) *ServiceError {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil {
		return nil
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to save cart"}
	}
	return nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) *ServiceError {
	if err := s.carts.DeleteCart(ctx, userID); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to clear cart"}
	}
	return nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
