package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/sender"
)

// PricingConfig carries the commerce constants used by the assembler.
// Shipping is a flat fee waived at or above FreeShippingMin; tax applies to
// the post-discount subtotal.
type PricingConfig struct {
	ShippingFlatFee float64
	FreeShippingMin float64
	TaxRate         float64
	Currency        string
}

// paymentIntentCreator is the slice of StripeService the assembler needs.
type paymentIntentCreator interface {
	CreatePaymentIntent(amount int64, currency string, metadata map[string]string) (id, clientSecret string, err error)
}

// idempotencyStore maps checkout idempotency keys to order ids.
type idempotencyStore interface {
	GetIdempotency(ctx context.Context, key string) (string, error)
	SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error
	DeleteCart(ctx context.Context, userID string) error
}

// OrderService assembles and manages orders.
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	paymentRepo repository.PaymentRepository
	coupons     CouponService
	stripe      paymentIntentCreator
	carts       idempotencyStore
	mailer      sender.Sender
	pricing     PricingConfig
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	paymentRepo repository.PaymentRepository,
	coupons CouponService,
	stripe paymentIntentCreator,
	carts idempotencyStore,
	mailer sender.Sender,
	pricing PricingConfig,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		paymentRepo: paymentRepo,
		coupons:     coupons,
		stripe:      stripe,
		carts:       carts,
		mailer:      mailer,
		pricing:     pricing,
		logger:      logger,
	}
}

// CreateOrder runs the checkout: snapshot prices into line items, apply the
// coupon, add shipping and tax, persist order + stock decrement + coupon
// redemption in one transaction, then open a Stripe intent for the total.
// When idemKey is non-empty and already seen, the previously created order is
// returned instead of a duplicate.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest, idemKey string) (*models.CreateOrderResponse, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}

	if idemKey != "" {
		if orderID, err := s.carts.GetIdempotency(ctx, idemKey); err == nil && orderID != "" {
			// A stale or garbled stored value falls through to a fresh checkout.
			if orderUUID, err := uuid.Parse(orderID); err == nil {
				if existing, err := s.orderRepo.FindByID(ctx, orderUUID); err == nil {
					return &models.CreateOrderResponse{Order: existing}, nil
				}
			}
		}
	}

	items, subtotal, svcErr := s.snapshotItems(ctx, req.Items)
	if svcErr != nil {
		return nil, svcErr
	}

	var discount float64
	couponCode := strings.ToUpper(strings.TrimSpace(req.CouponCode))
	if couponCode != "" {
		quote, svcErr := s.coupons.Quote(ctx, couponCode, subtotal)
		if svcErr != nil {
			return nil, svcErr
		}
		if !quote.Valid {
			return nil, &ServiceError{StatusCode: 400, Message: quote.Message}
		}
		discount = quote.Discount
	}

	shipping := s.pricing.ShippingFlatFee
	if subtotal >= s.pricing.FreeShippingMin {
		shipping = 0
	}
	tax := round2((subtotal - discount) * s.pricing.TaxRate)
	total := round2(subtotal - discount + shipping + tax)

	billing := req.ShippingAddr
	if req.BillingAddr != nil {
		billing = *req.BillingAddr
	}
	shippingJSON, _ := json.Marshal(req.ShippingAddr)
	billingJSON, _ := json.Marshal(billing)

	order := &models.Order{
		UserID:        userUUID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		ShippingAddr:  shippingJSON,
		BillingAddr:   billingJSON,
		Subtotal:      round2(subtotal),
		Discount:      discount,
		CouponCode:    couponCode,
		Shipping:      shipping,
		Tax:           tax,
		Total:         total,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Items:         items,
	}

	// Retry on the rare order-number collision.
	for attempt := 0; attempt < 3; attempt++ {
		order.OrderNumber = generateOrderNumber()
		err = s.orderRepo.CreateWithStock(ctx, order, couponCode)
		if err == nil {
			break
		}
		if !strings.Contains(err.Error(), "duplicate") && !strings.Contains(err.Error(), "unique") {
			break
		}
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, &ServiceError{StatusCode: 409, Message: "Insufficient stock for one or more items"}
		case errors.Is(err, repository.ErrCouponExhausted):
			return nil, &ServiceError{StatusCode: 409, Message: "Coupon usage limit reached"}
		default:
			s.logger.Error("Failed to create order", zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to create order"}
		}
	}

	amountCents := int64(math.Round(total * 100))
	intentID, clientSecret, err := s.stripe.CreatePaymentIntent(amountCents, s.pricing.Currency, map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"user_id":      userID,
	})
	if err != nil {
		s.logger.Error("Failed to create payment intent",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return nil, &ServiceError{StatusCode: 502, Message: "Failed to initialize payment"}
	}

	payment := &models.Payment{
		OrderID:        order.ID,
		UserID:         userUUID,
		Amount:         amountCents,
		Currency:       s.pricing.Currency,
		Status:         models.PaymentIntentPending,
		StripeIntentID: intentID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		s.logger.Error("Failed to persist payment", zap.String("intent_id", intentID), zap.Error(err))
	}

	if idemKey != "" {
		if err := s.carts.SetIdempotency(ctx, idemKey, order.ID.String(), 24*time.Hour); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}
	if err := s.carts.DeleteCart(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout", zap.String("user_id", userID), zap.Error(err))
	}

	s.sendConfirmation(ctx, order)

	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
		zap.Int("items", len(order.Items)),
	)

	return &models.CreateOrderResponse{Order: order, ClientSecret: clientSecret}, nil
}

// snapshotItems freezes current catalog prices and names into line items and
// returns the derived subtotal.
func (s *OrderService) snapshotItems(ctx context.Context, reqItems []models.CreateOrderItem) ([]models.OrderItem, float64, *ServiceError) {
	items := make([]models.OrderItem, 0, len(reqItems))
	var subtotal float64

	for _, ri := range reqItems {
		product, err := s.productRepo.FindByID(ctx, ri.ProductID)
		if err != nil {
			return nil, 0, &ServiceError{StatusCode: 404, Message: fmt.Sprintf("Product %s not found", ri.ProductID)}
		}
		if !product.Active {
			return nil, 0, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Product %s is not available", product.Slug)}
		}

		unitPrice := product.EffectivePrice()
		item := models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  ri.Quantity,
		}

		if ri.VariantID != nil {
			variant, err := s.productRepo.FindVariantByID(ctx, *ri.VariantID)
			if err != nil || variant.ProductID != product.ID {
				return nil, 0, &ServiceError{StatusCode: 404, Message: "Variant not found for product"}
			}
			if !variant.Active {
				return nil, 0, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Variant %s is not available", variant.SKU)}
			}
			if variant.Price != nil {
				unitPrice = *variant.Price
			}
			item.VariantID = &variant.ID
			item.SKU = variant.SKU
			if len(variant.Attributes) > 0 {
				if info, err := json.Marshal(variant.Attributes); err == nil {
					item.VariantInfo = info
				}
			}
		}

		item.UnitPrice = unitPrice
		items = append(items, item)
		subtotal += unitPrice * float64(ri.Quantity)
	}

	return items, round2(subtotal), nil
}

// GetUserOrders retrieves paginated orders for one user.
func (s *OrderService) GetUserOrders(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}
	orders, total, err := s.orderRepo.FindByUserID(ctx, userUUID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return orders, total, nil
}

// GetOrder retrieves one order belonging to the given user.
func (s *OrderService) GetOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}
	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return order, nil
}

// ListAllOrders retrieves paginated orders across all users (admin).
func (s *OrderService) ListAllOrders(ctx context.Context, status string, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orderRepo.FindAll(ctx, status, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	return orders, total, nil
}

// validStatusTransitions maps each order status to where it may move next.
var validStatusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCompleted},
	models.OrderStatusDelivered:  {models.OrderStatusCompleted},
}

// UpdateStatus moves an order along its lifecycle (admin action).
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) *ServiceError {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return &ServiceError{StatusCode: 404, Message: "Order not found"}
	}

	allowed := false
	for _, next := range validStatusTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return &ServiceError{
			StatusCode: 400,
			Message:    fmt.Sprintf("Cannot move order from %s to %s", order.Status, status),
		}
	}

	updates := map[string]interface{}{"status": status}
	now := time.Now()
	switch status {
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = &now
	case models.OrderStatusCompleted:
		updates["completed_at"] = &now
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, updates); err != nil {
		s.logger.Error("Failed to update order status", zap.String("order_id", orderID.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}

	s.logger.Info("Order status updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", order.Status),
		zap.String("to", status),
	)
	return nil
}

// CancelOrder lets a customer cancel their own order while it is still
// pending.
func (s *OrderService) CancelOrder(ctx context.Context, userID string, orderID uuid.UUID) *ServiceError {
	order, svcErr := s.GetOrder(ctx, userID, orderID)
	if svcErr != nil {
		return svcErr
	}
	if order.Status != models.OrderStatusPending {
		return &ServiceError{StatusCode: 400, Message: "Only pending orders can be cancelled"}
	}

	now := time.Now()
	if err := s.orderRepo.UpdateStatus(ctx, orderID, map[string]interface{}{
		"status":       models.OrderStatusCancelled,
		"cancelled_at": &now,
	}); err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to cancel order"}
	}
	return nil
}

func (s *OrderService) sendConfirmation(ctx context.Context, order *models.Order) {
	if s.mailer == nil {
		return
	}
	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thanks for your order <strong>%s</strong>.</p><p>Total: %.2f</p>",
		order.CustomerName, order.OrderNumber, order.Total,
	)
	if _, err := s.mailer.SendEmail(ctx, order.CustomerEmail, subject, body); err != nil {
		s.logger.Warn("Order confirmation email failed",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
}

// orderNumberCharset avoids ambiguous characters in human-readable numbers.
const orderNumberCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// generateOrderNumber builds a human-readable unique-enough order number,
// e.g. ORD-20260829-K7M2QX. The unique index catches collisions.
func generateOrderNumber() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = orderNumberCharset[int(buf[i])%len(orderNumberCharset)]
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), string(buf))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
