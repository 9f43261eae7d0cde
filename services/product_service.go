package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"storefront-backend/models"
	"storefront-backend/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ProductService manages the catalog.
type ProductService struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// CreateProduct creates a catalog entry (admin).
func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, &ServiceError{StatusCode: 400, Message: "Slug must be lowercase letters, digits and hyphens"}
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	product := &models.Product{
		Slug:        slug,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Images:      req.Images,
		Category:    req.Category,
		Stock:       req.Stock,
		Active:      active,
		Featured:    req.Featured,
		Tags:        req.Tags,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Slug already in use"}
		}
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create product"}
	}

	s.logger.Info("Product created", zap.String("slug", product.Slug))
	return product, nil
}

// UpdateProduct applies a partial edit to a product (admin).
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.SalePrice != nil {
		if *req.SalePrice <= 0 {
			product.SalePrice = nil
		} else {
			product.SalePrice = req.SalePrice
		}
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}

	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.String("id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}
	return product, nil
}

// DeleteProduct soft-deletes a product (admin).
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to delete product"}
	}
	return nil
}

// GetBySlug returns one product with its active variants.
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, *ServiceError) {
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}
	return product, nil
}

// List returns a filtered, paginated catalog listing.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter, page, limit int) ([]models.Product, int64, *ServiceError) {
	products, total, err := s.repo.FindAll(ctx, filter, page, limit)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch products"}
	}
	return products, total, nil
}

// AddVariant attaches a variant to a product (admin). SKUs are unique across
// the catalog.
func (s *ProductService) AddVariant(ctx context.Context, productID uuid.UUID, req *models.CreateVariantRequest) (*models.ProductVariant, *ServiceError) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	variant := &models.ProductVariant{
		ProductID:  productID,
		SKU:        strings.ToUpper(strings.TrimSpace(req.SKU)),
		Price:      req.Price,
		Stock:      req.Stock,
		Attributes: datatypes.JSONMap(req.Attributes),
		Active:     active,
	}

	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "SKU already in use"}
		}
		s.logger.Error("Failed to create variant", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create variant"}
	}
	return variant, nil
}

// UpdateVariant edits price, stock, attributes or active flag of a variant.
func (s *ProductService) UpdateVariant(ctx context.Context, id uuid.UUID, req *models.UpdateVariantRequest) (*models.ProductVariant, *ServiceError) {
	variant, err := s.repo.FindVariantByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Variant not found"}
	}

	if req.Price != nil {
		variant.Price = req.Price
	}
	if req.Stock != nil {
		variant.Stock = *req.Stock
	}
	if req.Attributes != nil {
		variant.Attributes = datatypes.JSONMap(req.Attributes)
	}
	if req.Active != nil {
		variant.Active = *req.Active
	}

	if err := s.repo.UpdateVariant(ctx, variant); err != nil {
		s.logger.Error("Failed to update variant", zap.String("variant_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update variant"}
	}
	return variant, nil
}

// DeleteVariant removes a variant (admin).
func (s *ProductService) DeleteVariant(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.DeleteVariant(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Variant not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to delete variant"}
	}
	return nil
}
