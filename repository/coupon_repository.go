package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"storefront-backend/models"
)

// ErrCouponExhausted is returned when a guarded redemption finds the usage
// cap already reached.
var ErrCouponExhausted = errors.New("coupon usage limit reached")

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Coupon, int64, error)
	Redeem(ctx context.Context, code string) error
	Deactivate(ctx context.Context, code string) error
}

// GormCouponRepository implements CouponRepository using GORM.
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository.
func NewGormCouponRepository(db *gorm.DB) CouponRepository {
	return &GormCouponRepository{db: db}
}

// Create inserts a new coupon.
func (r *GormCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// FindByCode retrieves an active coupon by its upper-cased code.
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ? AND active = ?", strings.ToUpper(code), true).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Redeem advances used_count with the cap check folded into the UPDATE, so
// two concurrent redemptions near the limit cannot both pass. A zero
// usage_limit means unlimited.
func (r *GormCouponRepository) Redeem(ctx context.Context, code string) error {
	return redeemCoupon(r.db.WithContext(ctx), code)
}

// redeemCoupon folds the usage-cap check into the UPDATE's WHERE clause so
// concurrent redemptions cannot run past the limit. The checkout transaction
// shares this through its tx handle.
func redeemCoupon(tx *gorm.DB, code string) error {
	res := tx.Model(&models.Coupon{}).
		Where("code = ? AND active = ? AND (usage_limit = 0 OR used_count < usage_limit)",
			strings.ToUpper(code), true).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}

// Deactivate sets active = false on a coupon.
func (r *GormCouponRepository) Deactivate(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("code = ?", strings.ToUpper(code)).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindAll retrieves paginated coupons, newest first.
func (r *GormCouponRepository) FindAll(ctx context.Context, page, limit int) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Coupon{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}
