package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/services"
)

// ReviewController exposes review submission and the admin moderation queue.
type ReviewController struct {
	reviews *services.ReviewService
	users   repository.UserRepository
}

// NewReviewController creates a new ReviewController.
func NewReviewController(reviews *services.ReviewService, users repository.UserRepository) *ReviewController {
	return &ReviewController{reviews: reviews, users: users}
}

// Submit handles POST /products/:slug/reviews.
func (ctrl *ReviewController) Submit(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	author := "Anonymous"
	if userUUID, err := uuid.Parse(userID); err == nil {
		if user, err := ctrl.users.FindByID(c.Request.Context(), userUUID); err == nil {
			author = user.Name
		}
	}

	review, svcErr := ctrl.reviews.Submit(c.Request.Context(), userID, author, c.Param("slug"), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListAll handles GET /admin/reviews.
func (ctrl *ReviewController) ListAll(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	reviews, total, svcErr := ctrl.reviews.ListAll(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// Get handles GET /admin/reviews/:id.
func (ctrl *ReviewController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID format"})
		return
	}

	review, svcErr := ctrl.reviews.Get(c.Request.Context(), id)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, review)
}

// Approve handles POST /admin/reviews/:id/approve.
func (ctrl *ReviewController) Approve(c *gin.Context) {
	ctrl.moderate(c, true)
}

// Reject handles POST /admin/reviews/:id/reject.
func (ctrl *ReviewController) Reject(c *gin.Context) {
	ctrl.moderate(c, false)
}

func (ctrl *ReviewController) moderate(c *gin.Context, approve bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID format"})
		return
	}

	var svcErr *services.ServiceError
	if approve {
		svcErr = ctrl.reviews.Approve(c.Request.Context(), id)
	} else {
		svcErr = ctrl.reviews.Reject(c.Request.Context(), id)
	}
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated"})
}

// Delete handles DELETE /admin/reviews/:id.
func (ctrl *ReviewController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID format"})
		return
	}

	if svcErr := ctrl.reviews.Delete(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
