package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront-backend/models"
	"storefront-backend/services"
)

// --- Mock content repository ---

type mockContentRepo struct {
	posts       map[string]*models.BlogPost
	banners     map[uuid.UUID]*models.Banner
	reviews     map[uuid.UUID]*models.Review
	subscribers map[string]*models.NewsletterSubscriber
	messages    []*models.ContactMessage
}

func newMockContentRepo() *mockContentRepo {
	return &mockContentRepo{
		posts:       make(map[string]*models.BlogPost),
		banners:     make(map[uuid.UUID]*models.Banner),
		reviews:     make(map[uuid.UUID]*models.Review),
		subscribers: make(map[string]*models.NewsletterSubscriber),
	}
}

func (m *mockContentRepo) CreatePost(_ context.Context, post *models.BlogPost) error {
	if _, exists := m.posts[post.Slug]; exists {
		return &mockDuplicateError{}
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	m.posts[post.Slug] = post
	return nil
}

func (m *mockContentRepo) UpdatePost(_ context.Context, post *models.BlogPost) error {
	m.posts[post.Slug] = post
	return nil
}

func (m *mockContentRepo) DeletePost(_ context.Context, id uuid.UUID) error {
	for slug, p := range m.posts {
		if p.ID == id {
			delete(m.posts, slug)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockContentRepo) FindPostBySlug(_ context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	p, ok := m.posts[slug]
	if !ok || (publishedOnly && !p.Published) {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockContentRepo) FindPosts(_ context.Context, publishedOnly bool, _, _ int) ([]models.BlogPost, int64, error) {
	var result []models.BlogPost
	for _, p := range m.posts {
		if publishedOnly && !p.Published {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (m *mockContentRepo) CreateBanner(_ context.Context, banner *models.Banner) error {
	if banner.ID == uuid.Nil {
		banner.ID = uuid.New()
	}
	m.banners[banner.ID] = banner
	return nil
}

func (m *mockContentRepo) UpdateBanner(_ context.Context, banner *models.Banner) error {
	m.banners[banner.ID] = banner
	return nil
}

func (m *mockContentRepo) DeleteBanner(_ context.Context, id uuid.UUID) error {
	if _, ok := m.banners[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.banners, id)
	return nil
}

func (m *mockContentRepo) FindBannerByID(_ context.Context, id uuid.UUID) (*models.Banner, error) {
	if b, ok := m.banners[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContentRepo) FindBanners(_ context.Context, activeOnly bool) ([]models.Banner, error) {
	var result []models.Banner
	for _, b := range m.banners {
		if activeOnly && !b.Active {
			continue
		}
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockContentRepo) CreateReview(_ context.Context, review *models.Review) error {
	for _, r := range m.reviews {
		if r.ProductID == review.ProductID && r.UserID == review.UserID {
			return &mockDuplicateError{}
		}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	m.reviews[review.ID] = review
	return nil
}

func (m *mockContentRepo) FindReviewByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	if r, ok := m.reviews[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockContentRepo) FindReviewsByProduct(_ context.Context, productID uuid.UUID, approvedOnly bool) ([]models.Review, error) {
	var result []models.Review
	for _, r := range m.reviews {
		if r.ProductID != productID {
			continue
		}
		if approvedOnly && !r.Approved {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockContentRepo) FindReviews(_ context.Context, _, _ int) ([]models.Review, int64, error) {
	var result []models.Review
	for _, r := range m.reviews {
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

func (m *mockContentRepo) SetReviewApproval(_ context.Context, id uuid.UUID, approved bool) error {
	r, ok := m.reviews[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Approved = approved
	return nil
}

func (m *mockContentRepo) DeleteReview(_ context.Context, id uuid.UUID) error {
	if _, ok := m.reviews[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockContentRepo) UpsertSubscriber(_ context.Context, email string) error {
	email = strings.ToLower(email)
	if s, ok := m.subscribers[email]; ok {
		s.Active = true
		s.UnsubscribedAt = nil
		return nil
	}
	m.subscribers[email] = &models.NewsletterSubscriber{ID: uuid.New(), Email: email, Active: true}
	return nil
}

func (m *mockContentRepo) DeactivateSubscriber(_ context.Context, email string) error {
	s, ok := m.subscribers[strings.ToLower(email)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	s.Active = false
	s.UnsubscribedAt = &now
	return nil
}

func (m *mockContentRepo) FindSubscribers(_ context.Context, _, _ int) ([]models.NewsletterSubscriber, int64, error) {
	var result []models.NewsletterSubscriber
	for _, s := range m.subscribers {
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (m *mockContentRepo) CreateContactMessage(_ context.Context, msg *models.ContactMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockContentRepo) FindContactMessages(_ context.Context, _, _ int) ([]models.ContactMessage, int64, error) {
	var result []models.ContactMessage
	for _, msg := range m.messages {
		result = append(result, *msg)
	}
	return result, int64(len(result)), nil
}

// --- Helpers ---

func newReviewFixture() (*mockContentRepo, *mockProductRepo, *services.ReviewService) {
	content := newMockContentRepo()
	products := newMockProductRepo()
	logger, _ := zap.NewDevelopment()
	return content, products, services.NewReviewService(content, products, logger)
}

// --- Tests ---

func TestService_SubmitReview_StartsPending(t *testing.T) {
	content, products, svc := newReviewFixture()
	products.add(&models.Product{Slug: "candle", Name: "Candle", Price: 20, Active: true})

	review, svcErr := svc.Submit(context.Background(), uuid.New().String(), "Ada",
		"candle", &models.CreateReviewRequest{Rating: 5, Title: "Lovely"})
	assert.Nil(t, svcErr)
	assert.False(t, review.Approved) // moderation gate
	assert.Equal(t, "Ada", review.Author)
	assert.Len(t, content.reviews, 1)
}

func TestService_SubmitReview_OnePerProductUser(t *testing.T) {
	_, products, svc := newReviewFixture()
	products.add(&models.Product{Slug: "candle", Name: "Candle", Price: 20, Active: true})

	userID := uuid.New().String()
	_, svcErr := svc.Submit(context.Background(), userID, "Ada",
		"candle", &models.CreateReviewRequest{Rating: 5})
	assert.Nil(t, svcErr)

	_, svcErr = svc.Submit(context.Background(), userID, "Ada",
		"candle", &models.CreateReviewRequest{Rating: 1})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestService_SubmitReview_UnknownProduct(t *testing.T) {
	_, _, svc := newReviewFixture()

	_, svcErr := svc.Submit(context.Background(), uuid.New().String(), "Ada",
		"missing", &models.CreateReviewRequest{Rating: 4})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestService_ListForProduct_ApprovedOnly(t *testing.T) {
	_, products, svc := newReviewFixture()
	products.add(&models.Product{Slug: "candle", Name: "Candle", Price: 20, Active: true})

	var approvedID uuid.UUID
	for i := 0; i < 3; i++ {
		review, svcErr := svc.Submit(context.Background(), uuid.New().String(), fmt.Sprintf("User %d", i),
			"candle", &models.CreateReviewRequest{Rating: 4})
		assert.Nil(t, svcErr)
		if i == 0 {
			approvedID = review.ID
		}
	}
	assert.Nil(t, svc.Approve(context.Background(), approvedID))

	visible, svcErr := svc.ListForProduct(context.Background(), "candle")
	assert.Nil(t, svcErr)
	assert.Len(t, visible, 1)
	assert.Equal(t, approvedID, visible[0].ID)
}

func TestService_RejectReview_BackToPending(t *testing.T) {
	content, products, svc := newReviewFixture()
	products.add(&models.Product{Slug: "candle", Name: "Candle", Price: 20, Active: true})

	review, _ := svc.Submit(context.Background(), uuid.New().String(), "Ada",
		"candle", &models.CreateReviewRequest{Rating: 2})
	assert.Nil(t, svc.Approve(context.Background(), review.ID))
	assert.True(t, content.reviews[review.ID].Approved)

	assert.Nil(t, svc.Reject(context.Background(), review.ID))
	assert.False(t, content.reviews[review.ID].Approved)
}

func TestService_GetReview(t *testing.T) {
	_, products, svc := newReviewFixture()
	products.add(&models.Product{Slug: "candle", Name: "Candle", Price: 20, Active: true})

	created, svcErr := svc.Submit(context.Background(), uuid.New().String(), "Ada",
		"candle", &models.CreateReviewRequest{Rating: 4, Title: "Nice"})
	assert.Nil(t, svcErr)

	found, svcErr := svc.Get(context.Background(), created.ID)
	assert.Nil(t, svcErr)
	assert.Equal(t, created.ID, found.ID)

	_, svcErr = svc.Get(context.Background(), uuid.New())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestService_ModerateMissingReview(t *testing.T) {
	_, _, svc := newReviewFixture()

	svcErr := svc.Approve(context.Background(), uuid.New())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)

	svcErr = svc.Delete(context.Background(), uuid.New())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
