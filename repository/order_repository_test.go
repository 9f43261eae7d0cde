package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"storefront-backend/models"
	"storefront-backend/repository"
)

func pendingOrder(items ...models.OrderItem) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-20260829-TEST01",
		UserID:        uuid.New(),
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		ShippingAddr:  []byte(`{}`),
		BillingAddr:   []byte(`{}`),
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Items:         items,
	}
}

func TestCreateWithStock_InsufficientStockRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	productID := uuid.New()
	order := pendingOrder(models.OrderItem{ProductID: productID, Name: "Candle", UnitPrice: 20, Quantity: 2})

	// The guarded decrement matches nothing when stock < quantity, and the
	// whole transaction rolls back.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=stock - $1`)).
		WithArgs(2, productID, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CreateWithStock(context.Background(), order, "")
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithStock_CouponExhaustedRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	productID := uuid.New()
	order := pendingOrder(models.OrderItem{ProductID: productID, Name: "Candle", UnitPrice: 20, Quantity: 1})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=stock - $1`)).
		WithArgs(1, productID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coupons" SET "used_count"=used_count + 1`)).
		WithArgs("MAXED", true).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CreateWithStock(context.Background(), order, "MAXED")
	assert.ErrorIs(t, err, repository.ErrCouponExhausted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithStock_VariantDecrementedBeforeProduct(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	productID, variantID := uuid.New(), uuid.New()
	order := pendingOrder(models.OrderItem{
		ProductID: productID, VariantID: &variantID, Name: "Tee XL", SKU: "TEE-XL", UnitPrice: 22, Quantity: 1,
	})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product_variants" SET "stock"=stock - $1`)).
		WithArgs(1, variantID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET "stock"=stock - $1`)).
		WithArgs(1, productID, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CreateWithStock(context.Background(), order, "")
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NoMatchingOrder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), id, map[string]interface{}{"status": models.OrderStatusProcessing})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
