package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/models"
)

// ContentRepository covers the CMS-style records: blog posts, banners,
// reviews, newsletter subscribers and contact messages.
type ContentRepository interface {
	CreatePost(ctx context.Context, post *models.BlogPost) error
	UpdatePost(ctx context.Context, post *models.BlogPost) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	FindPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error)
	FindPosts(ctx context.Context, publishedOnly bool, page, limit int) ([]models.BlogPost, int64, error)

	CreateBanner(ctx context.Context, banner *models.Banner) error
	UpdateBanner(ctx context.Context, banner *models.Banner) error
	DeleteBanner(ctx context.Context, id uuid.UUID) error
	FindBannerByID(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	FindBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error)

	CreateReview(ctx context.Context, review *models.Review) error
	FindReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindReviewsByProduct(ctx context.Context, productID uuid.UUID, approvedOnly bool) ([]models.Review, error)
	FindReviews(ctx context.Context, page, limit int) ([]models.Review, int64, error)
	SetReviewApproval(ctx context.Context, id uuid.UUID, approved bool) error
	DeleteReview(ctx context.Context, id uuid.UUID) error

	UpsertSubscriber(ctx context.Context, email string) error
	DeactivateSubscriber(ctx context.Context, email string) error
	FindSubscribers(ctx context.Context, page, limit int) ([]models.NewsletterSubscriber, int64, error)

	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
	FindContactMessages(ctx context.Context, page, limit int) ([]models.ContactMessage, int64, error)
}

// GormContentRepository implements ContentRepository using GORM.
type GormContentRepository struct {
	db *gorm.DB
}

// NewGormContentRepository creates a new GormContentRepository.
func NewGormContentRepository(db *gorm.DB) ContentRepository {
	return &GormContentRepository{db: db}
}

// --- Blog posts ---

func (r *GormContentRepository) CreatePost(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *GormContentRepository) UpdatePost(ctx context.Context, post *models.BlogPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *GormContentRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.BlogPost{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormContentRepository) FindPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	var post models.BlogPost
	query := r.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if err := query.First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormContentRepository) FindPosts(ctx context.Context, publishedOnly bool, page, limit int) ([]models.BlogPost, int64, error) {
	var posts []models.BlogPost
	var total int64

	query := r.db.WithContext(ctx).Model(&models.BlogPost{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// --- Banners ---

func (r *GormContentRepository) CreateBanner(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *GormContentRepository) UpdateBanner(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Save(banner).Error
}

func (r *GormContentRepository) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Banner{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormContentRepository) FindBannerByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *GormContentRepository) FindBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	var banners []models.Banner
	query := r.db.WithContext(ctx).Order("position ASC, created_at DESC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

// --- Reviews ---

func (r *GormContentRepository) CreateReview(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *GormContentRepository) FindReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormContentRepository) FindReviewsByProduct(ctx context.Context, productID uuid.UUID, approvedOnly bool) ([]models.Review, error) {
	var reviews []models.Review
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}
	if err := query.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormContentRepository) FindReviews(ctx context.Context, page, limit int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Review{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *GormContentRepository) SetReviewApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormContentRepository) DeleteReview(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- Newsletter ---

// UpsertSubscriber re-activates a previously unsubscribed email instead of
// failing on the unique index.
func (r *GormContentRepository) UpsertSubscriber(ctx context.Context, email string) error {
	email = strings.ToLower(email)
	var existing models.NewsletterSubscriber
	err := r.db.WithContext(ctx).First(&existing, "email = ?", email).Error
	if err == nil {
		return r.db.WithContext(ctx).
			Model(&existing).
			Updates(map[string]interface{}{"active": true, "unsubscribed_at": nil}).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(&models.NewsletterSubscriber{Email: email}).Error
}

func (r *GormContentRepository) DeactivateSubscriber(ctx context.Context, email string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.NewsletterSubscriber{}).
		Where("email = ?", strings.ToLower(email)).
		Updates(map[string]interface{}{"active": false, "unsubscribed_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormContentRepository) FindSubscribers(ctx context.Context, page, limit int) ([]models.NewsletterSubscriber, int64, error) {
	var subs []models.NewsletterSubscriber
	var total int64

	query := r.db.WithContext(ctx).Model(&models.NewsletterSubscriber{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("subscribed_at DESC").
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// --- Contact messages ---

func (r *GormContentRepository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *GormContentRepository) FindContactMessages(ctx context.Context, page, limit int) ([]models.ContactMessage, int64, error) {
	var msgs []models.ContactMessage
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}
