package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/sender"
	"storefront-backend/services"
)

// --- Mock order repository ---

type mockOrderRepo struct {
	orders    map[uuid.UUID]*models.Order
	createErr error
	redeemed  []string
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepo) CreateWithStock(_ context.Context, order *models.Order, couponCode string) error {
	if m.createErr != nil {
		return m.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if couponCode != "" {
		m.redeemed = append(m.redeemed, couponCode)
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, id, userID uuid.UUID) (*models.Order, error) {
	if o, ok := m.orders[id]; ok && o.UserID == userID {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var result []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, *o)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, status string, _, _ int) ([]models.Order, int64, error) {
	var result []models.Order
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			result = append(result, *o)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockOrderRepo) FindInPeriod(_ context.Context, from, to time.Time) ([]models.Order, error) {
	var result []models.Order
	for _, o := range m.orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	o, ok := m.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if s, ok := updates["status"].(string); ok {
		o.Status = s
	}
	if s, ok := updates["payment_status"].(string); ok {
		o.PaymentStatus = s
	}
	return nil
}

// --- Mock product repository ---

type mockProductRepo struct {
	products map[uuid.UUID]*models.Product
	variants map[uuid.UUID]*models.ProductVariant
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products: make(map[uuid.UUID]*models.Product),
		variants: make(map[uuid.UUID]*models.ProductVariant),
	}
}

func (m *mockProductRepo) add(p *models.Product) *models.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.products[p.ID] = p
	return p
}

func (m *mockProductRepo) Create(_ context.Context, p *models.Product) error {
	m.add(p)
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, p *models.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	for _, p := range m.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) FindAll(_ context.Context, filter models.ProductFilter, _, _ int) ([]models.Product, int64, error) {
	var result []models.Product
	for _, p := range m.products {
		if filter.ActiveOnly && !p.Active {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (m *mockProductRepo) FindLowStock(_ context.Context, threshold int) ([]models.Product, error) {
	var result []models.Product
	for _, p := range m.products {
		if p.Active && p.Stock <= threshold {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockProductRepo) CreateVariant(_ context.Context, v *models.ProductVariant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.variants[v.ID] = v
	return nil
}

func (m *mockProductRepo) UpdateVariant(_ context.Context, v *models.ProductVariant) error {
	m.variants[v.ID] = v
	return nil
}

func (m *mockProductRepo) DeleteVariant(_ context.Context, id uuid.UUID) error {
	if _, ok := m.variants[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.variants, id)
	return nil
}

func (m *mockProductRepo) FindVariantByID(_ context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	if v, ok := m.variants[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// --- Mock payment repository ---

type mockPaymentRepo struct {
	payments map[string]*models.Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*models.Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, p *models.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.payments[p.StripeIntentID] = p
	return nil
}

func (m *mockPaymentRepo) FindByIntentID(_ context.Context, intentID string) (*models.Payment, error) {
	if p, ok := m.payments[intentID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) UpdateStatus(_ context.Context, intentID string, updates map[string]interface{}) error {
	p, ok := m.payments[intentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if s, ok := updates["status"].(string); ok {
		p.Status = s
	}
	return nil
}

// --- Stripe, idempotency and mail stubs ---

type stubStripe struct {
	amounts []int64
	err     error
}

func (s *stubStripe) CreatePaymentIntent(amount int64, _ string, _ map[string]string) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	s.amounts = append(s.amounts, amount)
	return fmt.Sprintf("pi_test_%d", len(s.amounts)), "cs_test_secret", nil
}

type stubIdemStore struct {
	keys         map[string]string
	cartsCleared []string
}

func newStubIdemStore() *stubIdemStore {
	return &stubIdemStore{keys: make(map[string]string)}
}

func (s *stubIdemStore) GetIdempotency(_ context.Context, key string) (string, error) {
	return s.keys[key], nil
}

func (s *stubIdemStore) SetIdempotency(_ context.Context, key, orderID string, _ time.Duration) error {
	s.keys[key] = orderID
	return nil
}

func (s *stubIdemStore) DeleteCart(_ context.Context, userID string) error {
	s.cartsCleared = append(s.cartsCleared, userID)
	return nil
}

type stubMailer struct {
	sent []string
}

func (s *stubMailer) SendEmail(_ context.Context, to, _, _ string) (sender.SendResult, error) {
	s.sent = append(s.sent, to)
	return sender.SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

// --- Fixture ---

type orderFixture struct {
	orders   *mockOrderRepo
	products *mockProductRepo
	payments *mockPaymentRepo
	coupons  *mockCouponRepo
	stripe   *stubStripe
	idem     *stubIdemStore
	mailer   *stubMailer
	svc      *services.OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:   newMockOrderRepo(),
		products: newMockProductRepo(),
		payments: newMockPaymentRepo(),
		coupons:  newMockCouponRepo(),
		stripe:   &stubStripe{},
		idem:     newStubIdemStore(),
		mailer:   &stubMailer{},
	}
	logger, _ := zap.NewDevelopment()
	f.svc = services.NewOrderService(
		f.orders, f.products, f.payments,
		services.NewCouponService(f.coupons, logger),
		f.stripe, f.idem, f.mailer,
		services.PricingConfig{
			ShippingFlatFee: 10.00,
			FreeShippingMin: 50.00,
			TaxRate:         0.08,
			Currency:        "usd",
		},
		logger,
	)
	return f
}

func checkoutRequest(items ...models.CreateOrderItem) *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		ShippingAddr: models.Address{
			Name: "Ada Lovelace", Street1: "1 Analytical Way",
			City: "London", State: "LDN", PostalCode: "N1", Country: "GB",
		},
		Items: items,
	}
}

// --- Tests ---

func TestService_CreateOrder_WorkedExample(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "candle", Name: "Candle", Price: 20.00, Stock: 10, Active: true})
	f.coupons.coupons["WELCOME10"] = activeCoupon("WELCOME10", models.CouponTypePercentage, 10, 0, 0, 0)

	req := checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 2})
	req.CouponCode = "welcome10"

	userID := uuid.New().String()
	resp, svcErr := f.svc.CreateOrder(context.Background(), userID, req, "")
	assert.Nil(t, svcErr)
	assert.NotNil(t, resp.Order)

	// subtotal 40 → 10% off 4, shipping 10 (below 50), tax on 36 = 2.88
	assert.Equal(t, 40.00, resp.Order.Subtotal)
	assert.Equal(t, 4.00, resp.Order.Discount)
	assert.Equal(t, 10.00, resp.Order.Shipping)
	assert.Equal(t, 2.88, resp.Order.Tax)
	assert.Equal(t, 48.88, resp.Order.Total)
	assert.Equal(t, "WELCOME10", resp.Order.CouponCode)

	assert.Equal(t, []int64{4888}, f.stripe.amounts) // cents
	assert.Equal(t, "cs_test_secret", resp.ClientSecret)
	assert.Equal(t, []string{"WELCOME10"}, f.orders.redeemed)
	assert.Equal(t, []string{userID}, f.idem.cartsCleared)
	assert.Equal(t, []string{"ada@example.com"}, f.mailer.sent)
	assert.Contains(t, resp.Order.OrderNumber, "ORD-")
}

func TestService_CreateOrder_FreeShippingAtThreshold(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "kit", Name: "Kit", Price: 50.00, Stock: 3, Active: true})

	resp, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(),
		checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 1}), "")
	assert.Nil(t, svcErr)
	assert.Equal(t, 0.00, resp.Order.Shipping) // exactly at the minimum qualifies
	assert.Equal(t, 4.00, resp.Order.Tax)
	assert.Equal(t, 54.00, resp.Order.Total)
}

func TestService_CreateOrder_SalePriceSnapshot(t *testing.T) {
	f := newOrderFixture()
	sale := 15.00
	p := f.products.add(&models.Product{Slug: "mug", Name: "Mug", Price: 25.00, SalePrice: &sale, Stock: 5, Active: true})

	resp, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(),
		checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 1}), "")
	assert.Nil(t, svcErr)
	assert.Equal(t, 15.00, resp.Order.Items[0].UnitPrice)
	assert.Equal(t, 15.00, resp.Order.Subtotal)
}

func TestService_CreateOrder_VariantPriceOverride(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "tee", Name: "Tee", Price: 20.00, Stock: 5, Active: true})
	override := 22.00
	variant := &models.ProductVariant{ProductID: p.ID, SKU: "TEE-XL", Price: &override, Stock: 5, Active: true}
	_ = f.products.CreateVariant(context.Background(), variant)

	resp, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(),
		checkoutRequest(models.CreateOrderItem{ProductID: p.ID, VariantID: &variant.ID, Quantity: 1}), "")
	assert.Nil(t, svcErr)
	assert.Equal(t, 22.00, resp.Order.Items[0].UnitPrice)
	assert.Equal(t, "TEE-XL", resp.Order.Items[0].SKU)
}

func TestService_CreateOrder_InactiveProductRejected(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "retired", Name: "Retired", Price: 10.00, Stock: 5, Active: false})

	_, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(),
		checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 1}), "")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestService_CreateOrder_InsufficientStock(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "rare", Name: "Rare", Price: 10.00, Stock: 1, Active: true})
	f.orders.createErr = repository.ErrInsufficientStock

	_, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(),
		checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 2}), "")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Empty(t, f.stripe.amounts) // no intent for a failed order
}

func TestService_CreateOrder_CouponExhausted(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "soap", Name: "Soap", Price: 10.00, Stock: 10, Active: true})
	f.coupons.coupons["LAST1"] = activeCoupon("LAST1", models.CouponTypeFixed, 2, 0, 10, 3)
	f.orders.createErr = repository.ErrCouponExhausted

	req := checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 1})
	req.CouponCode = "LAST1"

	_, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(), req, "")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestService_CreateOrder_InvalidCouponRejected(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "soap", Name: "Soap", Price: 10.00, Stock: 10, Active: true})

	req := checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 1})
	req.CouponCode = "NOSUCH"

	_, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(), req, "")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestService_CreateOrder_StripeFailure(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "soap", Name: "Soap", Price: 10.00, Stock: 10, Active: true})
	f.stripe.err = errors.New("stripe is down")

	_, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(),
		checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 1}), "")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
}

func TestService_CreateOrder_IdempotentRetry(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "soap", Name: "Soap", Price: 10.00, Stock: 10, Active: true})
	userID := uuid.New().String()
	req := checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 1})

	first, svcErr := f.svc.CreateOrder(context.Background(), userID, req, "key-123")
	assert.Nil(t, svcErr)

	second, svcErr := f.svc.CreateOrder(context.Background(), userID, req, "key-123")
	assert.Nil(t, svcErr)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Empty(t, second.ClientSecret)          // no fresh intent on replay
	assert.Equal(t, 1, len(f.stripe.amounts))     // stripe called once
	assert.Equal(t, 1, len(f.orders.orders))      // one order persisted
}

func TestService_CreateOrder_GarbledIdempotencyValue(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "soap", Name: "Soap", Price: 10.00, Stock: 10, Active: true})
	f.idem.keys["key-123"] = "not-a-uuid"

	// A corrupted stored mapping must fall through to a normal checkout, not
	// crash the request.
	resp, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(),
		checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 1}), "key-123")
	assert.Nil(t, svcErr)
	assert.NotNil(t, resp.Order)
	assert.NotEmpty(t, resp.ClientSecret)
	assert.Equal(t, resp.Order.ID.String(), f.idem.keys["key-123"]) // mapping repaired
}

func TestService_CreateOrder_StoredDiscountMatchesTotals(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "mug", Name: "Mug", Price: 19.99, Stock: 5, Active: true})
	f.coupons.coupons["SAVE15"] = activeCoupon("SAVE15", models.CouponTypePercentage, 15, 0, 0, 0)

	req := checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 1})
	req.CouponCode = "SAVE15"

	resp, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(), req, "")
	assert.Nil(t, svcErr)

	// 15% of 19.99 rounds to 3.00 once, and that cent value feeds tax and
	// total: tax = (19.99 - 3.00) * 0.08 = 1.36, total = 28.35.
	order := resp.Order
	assert.Equal(t, 19.99, order.Subtotal)
	assert.Equal(t, 3.00, order.Discount)
	assert.Equal(t, 10.00, order.Shipping)
	assert.Equal(t, 1.36, order.Tax)
	assert.Equal(t, 28.35, order.Total)
	assert.InDelta(t, order.Subtotal-order.Discount+order.Shipping+order.Tax, order.Total, 0.0001)
	assert.Equal(t, []int64{2835}, f.stripe.amounts)
}

func TestService_CreateOrder_BillingDefaultsToShipping(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&models.Product{Slug: "soap", Name: "Soap", Price: 10.00, Stock: 10, Active: true})

	resp, svcErr := f.svc.CreateOrder(context.Background(), uuid.New().String(),
		checkoutRequest(models.CreateOrderItem{ProductID: p.ID, Quantity: 1}), "")
	assert.Nil(t, svcErr)

	var shipping, billing models.Address
	assert.NoError(t, json.Unmarshal(resp.Order.ShippingAddr, &shipping))
	assert.NoError(t, json.Unmarshal(resp.Order.BillingAddr, &billing))
	assert.Equal(t, shipping, billing)
}

func TestService_UpdateStatus_ValidTransition(t *testing.T) {
	f := newOrderFixture()
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: models.OrderStatusPending}
	f.orders.orders[order.ID] = order

	svcErr := f.svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusProcessing)
	assert.Nil(t, svcErr)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
}

func TestService_UpdateStatus_InvalidTransition(t *testing.T) {
	f := newOrderFixture()
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: models.OrderStatusCompleted}
	f.orders.orders[order.ID] = order

	svcErr := f.svc.UpdateStatus(context.Background(), order.ID, models.OrderStatusPending)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestService_CancelOrder_PendingOnly(t *testing.T) {
	f := newOrderFixture()
	userID := uuid.New()
	pending := &models.Order{ID: uuid.New(), UserID: userID, Status: models.OrderStatusPending}
	shipped := &models.Order{ID: uuid.New(), UserID: userID, Status: models.OrderStatusShipped}
	f.orders.orders[pending.ID] = pending
	f.orders.orders[shipped.ID] = shipped

	assert.Nil(t, f.svc.CancelOrder(context.Background(), userID.String(), pending.ID))
	assert.Equal(t, models.OrderStatusCancelled, pending.Status)

	svcErr := f.svc.CancelOrder(context.Background(), userID.String(), shipped.ID)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestService_GetOrder_ScopedToOwner(t *testing.T) {
	f := newOrderFixture()
	owner := uuid.New()
	order := &models.Order{ID: uuid.New(), UserID: owner, Status: models.OrderStatusPending}
	f.orders.orders[order.ID] = order

	got, svcErr := f.svc.GetOrder(context.Background(), owner.String(), order.ID)
	assert.Nil(t, svcErr)
	assert.Equal(t, order.ID, got.ID)

	_, svcErr = f.svc.GetOrder(context.Background(), uuid.New().String(), order.ID)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
