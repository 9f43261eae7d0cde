package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// BlogPost is a CMS article. Only published posts are visible on the public
// listing.
type BlogPost struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug        string         `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Excerpt     string         `gorm:"type:text" json:"excerpt"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	CoverImage  string         `gorm:"type:varchar(1024)" json:"cover_image,omitempty"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Published   bool           `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Banner is a storefront hero/promo banner.
type Banner struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Subtitle  string    `gorm:"type:varchar(512)" json:"subtitle,omitempty"`
	ImageURL  string    `gorm:"type:varchar(1024);not null" json:"image_url"`
	LinkURL   string    `gorm:"type:varchar(1024)" json:"link_url,omitempty"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Review is a customer product review. Approved defaults to false; only an
// admin flips it, and only approved reviews appear on product pages. One
// review per (product, user).
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_reviews_product_user,unique" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_reviews_product_user,unique" json:"user_id"`
	Author    string    `gorm:"type:varchar(255);not null" json:"author"`
	Rating    int       `gorm:"not null" json:"rating"`
	Title     string    `gorm:"type:varchar(255)" json:"title,omitempty"`
	Body      string    `gorm:"type:text" json:"body,omitempty"`
	Approved  bool      `gorm:"not null;default:false;index" json:"approved"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewsletterSubscriber is a mailing-list entry. Email is unique;
// unsubscribing flips Active rather than deleting the row.
type NewsletterSubscriber struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Active         bool       `gorm:"not null;default:true" json:"active"`
	SubscribedAt   time.Time  `gorm:"autoCreateTime" json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
}

// ContactMessage is a submission from the contact form.
type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Subject   string    `gorm:"type:varchar(255)" json:"subject,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CreateBlogPostRequest is the admin payload for creating a post.
type CreateBlogPostRequest struct {
	Slug       string   `json:"slug" binding:"required,min=2,max=160"`
	Title      string   `json:"title" binding:"required,max=255"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content" binding:"required"`
	CoverImage string   `json:"cover_image"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

// UpdateBlogPostRequest is the admin payload for editing a post.
type UpdateBlogPostRequest struct {
	Title      *string  `json:"title" binding:"omitempty,max=255"`
	Excerpt    *string  `json:"excerpt"`
	Content    *string  `json:"content"`
	CoverImage *string  `json:"cover_image"`
	Tags       []string `json:"tags"`
	Published  *bool    `json:"published"`
}

// CreateBannerRequest is the admin payload for creating a banner.
type CreateBannerRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"image_url" binding:"required"`
	LinkURL  string `json:"link_url"`
	Position int    `json:"position" binding:"gte=0"`
	Active   *bool  `json:"active"`
}

// CreateReviewRequest is the customer payload for submitting a review.
type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Title  string `json:"title" binding:"max=255"`
	Body   string `json:"body"`
}

// SubscribeRequest is the newsletter opt-in/opt-out payload.
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ContactRequest is the contact form payload.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}
