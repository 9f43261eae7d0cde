package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront-backend/models"
	"storefront-backend/repository"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// CouponService defines the interface for coupon business logic.
type CouponService interface {
	CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError)
	// Quote prices a code against a subtotal without consuming a use.
	// Redemption happens atomically inside the checkout transaction.
	Quote(ctx context.Context, code string, subtotal float64) (*models.ValidateCouponResponse, *ServiceError)
	GetCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError)
	DeactivateCoupon(ctx context.Context, code string) *ServiceError
	ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *ServiceError)
}

type couponServiceImpl struct {
	repo   repository.CouponRepository
	logger *zap.Logger
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repository.CouponRepository, logger *zap.Logger) CouponService {
	return &couponServiceImpl{repo: repo, logger: logger}
}

// CreateCoupon creates a new coupon with an upper-cased code.
func (s *couponServiceImpl) CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError) {
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, &ServiceError{StatusCode: 400, Message: "Expiry date must be in the future"}
	}
	if req.Type == models.CouponTypePercentage && req.Value > 100 {
		return nil, &ServiceError{StatusCode: 400, Message: "Percentage discount cannot exceed 100"}
	}

	coupon := &models.Coupon{
		Code:        strings.ToUpper(req.Code),
		Type:        req.Type,
		Value:       req.Value,
		MinPurchase: req.MinPurchase,
		UsageLimit:  req.UsageLimit,
		ExpiresAt:   req.ExpiresAt,
		Active:      true,
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Coupon code already exists"}
		}
		s.logger.Error("Failed to create coupon", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create coupon"}
	}

	s.logger.Info("Coupon created", zap.String("code", coupon.Code), zap.String("type", string(coupon.Type)))
	return coupon, nil
}

// Quote applies the rejection rules in order (exists+active, expiry, usage
// cap, minimum purchase) and computes the discount. The discount never
// exceeds the subtotal.
func (s *couponServiceImpl) Quote(ctx context.Context, code string, subtotal float64) (*models.ValidateCouponResponse, *ServiceError) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return &models.ValidateCouponResponse{
			Valid:   false,
			Code:    strings.ToUpper(code),
			Message: "Coupon not found or inactive",
		}, nil
	}

	if coupon.ExpiresAt != nil && time.Now().After(*coupon.ExpiresAt) {
		return &models.ValidateCouponResponse{
			Valid:   false,
			Code:    coupon.Code,
			Message: "Coupon has expired",
		}, nil
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return &models.ValidateCouponResponse{
			Valid:   false,
			Code:    coupon.Code,
			Message: "Coupon usage limit reached",
		}, nil
	}

	if subtotal < coupon.MinPurchase {
		return &models.ValidateCouponResponse{
			Valid:   false,
			Code:    coupon.Code,
			Message: fmt.Sprintf("Minimum purchase of %.2f required", coupon.MinPurchase),
		}, nil
	}

	var discount float64
	switch coupon.Type {
	case models.CouponTypePercentage:
		discount = subtotal * (coupon.Value / 100)
	case models.CouponTypeFixed:
		discount = coupon.Value
	default:
		return nil, &ServiceError{StatusCode: 500, Message: "Unknown coupon type"}
	}
	if discount > subtotal {
		discount = subtotal
	}

	return &models.ValidateCouponResponse{
		Valid: true,
		Code:  coupon.Code,
		Type:  coupon.Type,
		// Rounded here so every consumer works with the same cent value.
		Discount: round2(discount),
		Message:  "Coupon applies",
	}, nil
}

// GetCoupon retrieves a coupon by code.
func (s *couponServiceImpl) GetCoupon(ctx context.Context, code string) (*models.Coupon, *ServiceError) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Coupon not found"}
	}
	return coupon, nil
}

// DeactivateCoupon deactivates a coupon by code.
func (s *couponServiceImpl) DeactivateCoupon(ctx context.Context, code string) *ServiceError {
	if err := s.repo.Deactivate(ctx, code); err != nil {
		if err.Error() == "record not found" {
			return &ServiceError{StatusCode: 404, Message: "Coupon not found"}
		}
		s.logger.Error("Failed to deactivate coupon", zap.String("code", code), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to deactivate coupon"}
	}
	s.logger.Info("Coupon deactivated", zap.String("code", code))
	return nil
}

// ListCoupons returns paginated coupons.
func (s *couponServiceImpl) ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, *ServiceError) {
	coupons, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list coupons", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to list coupons"}
	}
	return coupons, total, nil
}
