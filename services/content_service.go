package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/sender"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// ContentService covers blog posts, banners, newsletter and the contact
// form.
type ContentService struct {
	repo       repository.ContentRepository
	mailer     sender.Sender
	adminEmail string
	logger     *zap.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(repo repository.ContentRepository, mailer sender.Sender, adminEmail string, logger *zap.Logger) *ContentService {
	return &ContentService{repo: repo, mailer: mailer, adminEmail: adminEmail, logger: logger}
}

// --- Blog ---

// CreatePost creates a blog post (admin).
func (s *ContentService) CreatePost(ctx context.Context, req *models.CreateBlogPostRequest) (*models.BlogPost, *ServiceError) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, &ServiceError{StatusCode: 400, Message: "Slug must be lowercase letters, digits and hyphens"}
	}

	post := &models.BlogPost{
		Slug:       slug,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Published:  req.Published,
	}
	if req.Published {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Slug already in use"}
		}
		s.logger.Error("Failed to create post", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create post"}
	}
	return post, nil
}

// UpdatePost applies a partial edit to a post (admin).
func (s *ContentService) UpdatePost(ctx context.Context, slug string, req *models.UpdateBlogPostRequest) (*models.BlogPost, *ServiceError) {
	post, err := s.repo.FindPostBySlug(ctx, slug, false)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Post not found"}
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.CoverImage != nil {
		post.CoverImage = *req.CoverImage
	}
	if req.Tags != nil {
		post.Tags = req.Tags
	}
	if req.Published != nil {
		if *req.Published && !post.Published {
			now := time.Now()
			post.PublishedAt = &now
		}
		post.Published = *req.Published
	}

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		s.logger.Error("Failed to update post", zap.String("slug", slug), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update post"}
	}
	return post, nil
}

// DeletePost removes a post (admin).
func (s *ContentService) DeletePost(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Post not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to delete post"}
	}
	return nil
}

// GetPost returns one post; unpublished posts only when includeDrafts is
// set (admin).
func (s *ContentService) GetPost(ctx context.Context, slug string, includeDrafts bool) (*models.BlogPost, *ServiceError) {
	post, err := s.repo.FindPostBySlug(ctx, slug, !includeDrafts)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Post not found"}
	}
	return post, nil
}

// ListPosts returns a paginated listing; published only unless includeDrafts.
func (s *ContentService) ListPosts(ctx context.Context, includeDrafts bool, page, limit int) ([]models.BlogPost, int64, *ServiceError) {
	posts, total, err := s.repo.FindPosts(ctx, !includeDrafts, page, limit)
	if err != nil {
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch posts"}
	}
	return posts, total, nil
}

// --- Banners ---

// CreateBanner creates a storefront banner (admin).
func (s *ContentService) CreateBanner(ctx context.Context, req *models.CreateBannerRequest) (*models.Banner, *ServiceError) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	banner := &models.Banner{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		Active:   active,
	}
	if err := s.repo.CreateBanner(ctx, banner); err != nil {
		s.logger.Error("Failed to create banner", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create banner"}
	}
	return banner, nil
}

// UpdateBanner replaces banner fields (admin).
func (s *ContentService) UpdateBanner(ctx context.Context, id uuid.UUID, req *models.CreateBannerRequest) (*models.Banner, *ServiceError) {
	banner, err := s.repo.FindBannerByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Banner not found"}
	}

	banner.Title = req.Title
	banner.Subtitle = req.Subtitle
	banner.ImageURL = req.ImageURL
	banner.LinkURL = req.LinkURL
	banner.Position = req.Position
	if req.Active != nil {
		banner.Active = *req.Active
	}

	if err := s.repo.UpdateBanner(ctx, banner); err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update banner"}
	}
	return banner, nil
}

// DeleteBanner removes a banner (admin).
func (s *ContentService) DeleteBanner(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.DeleteBanner(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Banner not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to delete banner"}
	}
	return nil
}

// ListBanners returns banners, active-only for the storefront.
func (s *ContentService) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, *ServiceError) {
	banners, err := s.repo.FindBanners(ctx, activeOnly)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch banners"}
	}
	return banners, nil
}

// --- Newsletter ---

// Subscribe adds (or re-activates) a newsletter subscriber.
func (s *ContentService) Subscribe(ctx context.Context, email string) *ServiceError {
	if err := s.repo.UpsertSubscriber(ctx, email); err != nil {
		s.logger.Error("Failed to subscribe", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to subscribe"}
	}
	return nil
}

// Unsubscribe deactivates a subscriber.
func (s *ContentService) Unsubscribe(ctx context.Context, email string) *ServiceError {
	if err := s.repo.DeactivateSubscriber(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Email not subscribed"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to unsubscribe"}
	}
	return nil
}

// ListSubscribers returns paginated subscribers (admin).
func (s *ContentService) ListSubscribers(ctx context.Context, page, limit int) ([]models.NewsletterSubscriber, int64, *ServiceError) {
	subs, total, err := s.repo.FindSubscribers(ctx, page, limit)
	if err != nil {
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch subscribers"}
	}
	return subs, total, nil
}

// --- Contact ---

// SubmitContact stores a contact message and notifies the shop inbox,
// best-effort.
func (s *ContentService) SubmitContact(ctx context.Context, req *models.ContactRequest) *ServiceError {
	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: htmlTagPattern.ReplaceAllString(req.Message, ""),
	}
	if err := s.repo.CreateContactMessage(ctx, msg); err != nil {
		s.logger.Error("Failed to store contact message", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to submit message"}
	}

	if s.mailer != nil && s.adminEmail != "" {
		subject := "New contact message"
		if req.Subject != "" {
			subject = "Contact: " + req.Subject
		}
		body := fmt.Sprintf("<p>From: %s (%s)</p><p>%s</p>", msg.Name, msg.Email, msg.Message)
		if _, err := s.mailer.SendEmail(ctx, s.adminEmail, subject, body); err != nil {
			s.logger.Warn("Contact notification email failed", zap.Error(err))
		}
	}
	return nil
}

// ListContactMessages returns paginated messages (admin).
func (s *ContentService) ListContactMessages(ctx context.Context, page, limit int) ([]models.ContactMessage, int64, *ServiceError) {
	msgs, total, err := s.repo.FindContactMessages(ctx, page, limit)
	if err != nil {
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch messages"}
	}
	return msgs, total, nil
}
