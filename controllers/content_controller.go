package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/models"
	"storefront-backend/services"
)

// ContentController exposes the blog, banners, newsletter and contact form.
type ContentController struct {
	content *services.ContentService
}

// NewContentController creates a new ContentController.
func NewContentController(content *services.ContentService) *ContentController {
	return &ContentController{content: content}
}

// --- Blog ---

// ListPosts handles GET /blog (published) and GET /admin/blog (all).
func (ctrl *ContentController) ListPosts(includeDrafts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePaginationParams(c)

		posts, total, svcErr := ctrl.content.ListPosts(c.Request.Context(), includeDrafts, page, limit)
		if svcErr != nil {
			c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"posts": posts,
			"total": total,
			"page":  page,
			"limit": limit,
		})
	}
}

// GetPost handles GET /blog/:slug.
func (ctrl *ContentController) GetPost(includeDrafts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, svcErr := ctrl.content.GetPost(c.Request.Context(), c.Param("slug"), includeDrafts)
		if svcErr != nil {
			c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// CreatePost handles POST /admin/blog.
func (ctrl *ContentController) CreatePost(c *gin.Context) {
	var req models.CreateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	post, svcErr := ctrl.content.CreatePost(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PATCH /admin/blog/:slug.
func (ctrl *ContentController) UpdatePost(c *gin.Context) {
	var req models.UpdateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	post, svcErr := ctrl.content.UpdatePost(c.Request.Context(), c.Param("slug"), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /admin/blog/:id.
func (ctrl *ContentController) DeletePost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	if svcErr := ctrl.content.DeletePost(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// --- Banners ---

// ListBanners handles GET /banners (active) and GET /admin/banners (all).
func (ctrl *ContentController) ListBanners(activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		banners, svcErr := ctrl.content.ListBanners(c.Request.Context(), activeOnly)
		if svcErr != nil {
			c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{"banners": banners})
	}
}

// CreateBanner handles POST /admin/banners.
func (ctrl *ContentController) CreateBanner(c *gin.Context) {
	var req models.CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	banner, svcErr := ctrl.content.CreateBanner(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, banner)
}

// UpdateBanner handles PUT /admin/banners/:id.
func (ctrl *ContentController) UpdateBanner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid banner ID format"})
		return
	}

	var req models.CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	banner, svcErr := ctrl.content.UpdateBanner(c.Request.Context(), id, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, banner)
}

// DeleteBanner handles DELETE /admin/banners/:id.
func (ctrl *ContentController) DeleteBanner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid banner ID format"})
		return
	}

	if svcErr := ctrl.content.DeleteBanner(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Banner deleted"})
}

// --- Newsletter ---

// Subscribe handles POST /newsletter/subscribe.
func (ctrl *ContentController) Subscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if svcErr := ctrl.content.Subscribe(c.Request.Context(), req.Email); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscribed"})
}

// Unsubscribe handles POST /newsletter/unsubscribe.
func (ctrl *ContentController) Unsubscribe(c *gin.Context) {
	var req models.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if svcErr := ctrl.content.Unsubscribe(c.Request.Context(), req.Email); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed"})
}

// ListSubscribers handles GET /admin/newsletter.
func (ctrl *ContentController) ListSubscribers(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	subs, total, svcErr := ctrl.content.ListSubscribers(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subscribers": subs,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

// --- Contact ---

// SubmitContact handles POST /contact.
func (ctrl *ContentController) SubmitContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if svcErr := ctrl.content.SubmitContact(c.Request.Context(), &req); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message received"})
}

// ListContactMessages handles GET /admin/contact.
func (ctrl *ContentController) ListContactMessages(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	msgs, total, svcErr := ctrl.content.ListContactMessages(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": msgs,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}
