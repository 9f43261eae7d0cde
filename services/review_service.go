package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront-backend/models"
	"storefront-backend/repository"
)

// ReviewService handles review submission and admin moderation. Reviews
// start unapproved; approve and reject are explicit admin actions, reject
// moving an approved review back to pending.
type ReviewService struct {
	content  repository.ContentRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(content repository.ContentRepository, products repository.ProductRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{content: content, products: products, logger: logger}
}

// Submit creates a review for a product, one per (product, user).
func (s *ReviewService) Submit(ctx context.Context, userID, authorName, productSlug string, req *models.CreateReviewRequest) (*models.Review, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}

	product, err := s.products.FindBySlug(ctx, productSlug)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}

	review := &models.Review{
		ProductID: product.ID,
		UserID:    userUUID,
		Author:    authorName,
		Rating:    req.Rating,
		Title:     req.Title,
		Body:      req.Body,
		Approved:  false,
	}
	if err := s.content.CreateReview(ctx, review); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "You have already reviewed this product"}
		}
		s.logger.Error("Failed to create review", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to submit review"}
	}
	return review, nil
}

// ListForProduct returns the approved reviews shown on a product page.
func (s *ReviewService) ListForProduct(ctx context.Context, productSlug string) ([]models.Review, *ServiceError) {
	product, err := s.products.FindBySlug(ctx, productSlug)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}
	reviews, err := s.content.FindReviewsByProduct(ctx, product.ID, true)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch reviews"}
	}
	return reviews, nil
}

// ListAll returns paginated reviews for the moderation queue (admin).
func (s *ReviewService) ListAll(ctx context.Context, page, limit int) ([]models.Review, int64, *ServiceError) {
	reviews, total, err := s.content.FindReviews(ctx, page, limit)
	if err != nil {
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch reviews"}
	}
	return reviews, total, nil
}

// Get returns a single review regardless of approval state.
func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*models.Review, *ServiceError) {
	review, err := s.content.FindReviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Review not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load review"}
	}
	return review, nil
}

// Approve publishes a review (admin).
func (s *ReviewService) Approve(ctx context.Context, id uuid.UUID) *ServiceError {
	return s.setApproval(ctx, id, true)
}

// Reject moves a review back to pending (admin).
func (s *ReviewService) Reject(ctx context.Context, id uuid.UUID) *ServiceError {
	return s.setApproval(ctx, id, false)
}

func (s *ReviewService) setApproval(ctx context.Context, id uuid.UUID, approved bool) *ServiceError {
	if err := s.content.SetReviewApproval(ctx, id, approved); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Review not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to update review"}
	}
	return nil
}

// Delete removes a review entirely (admin).
func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.content.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Review not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to delete review"}
	}
	return nil
}
