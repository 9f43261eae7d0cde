package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/models"
	"storefront-backend/services"
)

// CouponController exposes coupon validation for shoppers and coupon
// management for admins.
type CouponController struct {
	coupons services.CouponService
}

// NewCouponController creates a new CouponController.
func NewCouponController(coupons services.CouponService) *CouponController {
	return &CouponController{coupons: coupons}
}

// Validate handles POST /coupons/validate. It only prices the code against
// the given subtotal; nothing is consumed until checkout.
func (ctrl *CouponController) Validate(c *gin.Context) {
	var req models.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	resp, svcErr := ctrl.coupons.Quote(c.Request.Context(), req.Code, req.Subtotal)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create handles POST /admin/coupons.
func (ctrl *CouponController) Create(c *gin.Context) {
	var req models.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	coupon, svcErr := ctrl.coupons.CreateCoupon(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

// List handles GET /admin/coupons.
func (ctrl *CouponController) List(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	coupons, total, svcErr := ctrl.coupons.ListCoupons(c.Request.Context(), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"coupons": coupons,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// Get handles GET /admin/coupons/:code.
func (ctrl *CouponController) Get(c *gin.Context) {
	coupon, svcErr := ctrl.coupons.GetCoupon(c.Request.Context(), c.Param("code"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// Deactivate handles DELETE /admin/coupons/:code.
func (ctrl *CouponController) Deactivate(c *gin.Context) {
	if svcErr := ctrl.coupons.DeactivateCoupon(c.Request.Context(), c.Param("code")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deactivated"})
}
