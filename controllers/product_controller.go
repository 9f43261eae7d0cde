package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-backend/models"
	"storefront-backend/services"
)

// ProductController exposes the catalog: public browsing plus admin CRUD.
type ProductController struct {
	products *services.ProductService
	reviews  *services.ReviewService
}

// NewProductController creates a new ProductController.
func NewProductController(products *services.ProductService, reviews *services.ReviewService) *ProductController {
	return &ProductController{products: products, reviews: reviews}
}

// List handles GET /products. Storefront listings only show active products;
// admins pass ?include_inactive=true to see everything.
func (ctrl *ProductController) List(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	filter := models.ProductFilter{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		ActiveOnly: c.Query("include_inactive") != "true",
	}
	if f := c.Query("featured"); f == "true" {
		featured := true
		filter.Featured = &featured
	}

	products, total, svcErr := ctrl.products.List(c.Request.Context(), filter, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetBySlug handles GET /products/:slug.
func (ctrl *ProductController) GetBySlug(c *gin.Context) {
	product, svcErr := ctrl.products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create handles POST /admin/products.
func (ctrl *ProductController) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	product, svcErr := ctrl.products.CreateProduct(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update handles PATCH /admin/products/:id.
func (ctrl *ProductController) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	product, svcErr := ctrl.products.UpdateProduct(c.Request.Context(), id, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /admin/products/:id.
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	if svcErr := ctrl.products.DeleteProduct(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// AddVariant handles POST /admin/products/:id/variants.
func (ctrl *ProductController) AddVariant(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req models.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	variant, svcErr := ctrl.products.AddVariant(c.Request.Context(), productID, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, variant)
}

// UpdateVariant handles PATCH /admin/variants/:variantId.
func (ctrl *ProductController) UpdateVariant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid variant ID format"})
		return
	}

	var req models.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	variant, svcErr := ctrl.products.UpdateVariant(c.Request.Context(), id, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, variant)
}

// DeleteVariant handles DELETE /admin/variants/:variantId.
func (ctrl *ProductController) DeleteVariant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid variant ID format"})
		return
	}

	if svcErr := ctrl.products.DeleteVariant(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Variant deleted"})
}

// ListReviews handles GET /products/:slug/reviews (approved reviews only).
func (ctrl *ProductController) ListReviews(c *gin.Context) {
	reviews, svcErr := ctrl.reviews.ListForProduct(c.Request.Context(), c.Param("slug"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
