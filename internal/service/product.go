package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/ProductReviewGo/internal/cache"
	"github.com/utafrali/ProductReviewGo/internal/domain"
	"github.com/utafrali/ProductReviewGo/internal/event"
	"github.com/utafrali/ProductReviewGo/internal/repository"
	apperrors "github.com/utafrali/ProductReviewGo/pkg/errors"
	"github.com/utafrali/ProductReviewGo/pkg/slug"
)

// ProductService implements the business logic for catalog operations.
// The cache is optional; a nil cache means every read hits the database.
type ProductService struct {
	repo     repository.ProductRepository
	cache    *cache.ProductCache
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	repo repository.ProductRepository,
	productCache *cache.ProductCache,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:     repo,
		cache:    productCache,
		producer: producer,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Stock       int
	ImageURL    string
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	PriceCents  *int64
	Stock       *int
	ImageURL    *string
}

// CreateProduct creates a new product with the given input.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if !domain.IsValidCategory(input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("category must be one of: %s", strings.Join(domain.ValidCategories(), ", ")))
	}
	if input.PriceCents <= 0 {
		return nil, apperrors.InvalidInput("price must be positive")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug.Generate(input.Name),
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// GetProduct retrieves a product by ID or slug. UUID-shaped identifiers are
// looked up by ID, everything else by slug.
func (s *ProductService) GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	if _, err := uuid.Parse(idOrSlug); err == nil {
		return s.getByID(ctx, idOrSlug)
	}
	return s.getBySlug(ctx, idOrSlug)
}

func (s *ProductService) getByID(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		product, err := s.cache.GetByID(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "product cache read failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	s.cacheProduct(ctx, product)
	return product, nil
}

func (s *ProductService) getBySlug(ctx context.Context, productSlug string) (*domain.Product, error) {
	if s.cache != nil {
		product, err := s.cache.GetBySlug(ctx, productSlug)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "product cache read failed",
				slog.String("slug", productSlug),
				slog.String("error", err.Error()),
			)
		}
	}

	product, err := s.repo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, fmt.Errorf("get product by slug: %w", err)
	}

	s.cacheProduct(ctx, product)
	return product, nil
}

// ListProducts returns all products matching the filter.
func (s *ProductService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.Category != "" && !domain.IsValidCategory(filter.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("category must be one of: %s", strings.Join(domain.ValidCategories(), ", ")))
	}
	if !domain.IsValidSortBy(filter.SortBy) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("sort must be one of: %s", strings.Join(domain.ValidSortByValues(), ", ")))
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return products, nil
}

// UpdateProduct applies a partial update to a product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
		product.Slug = slug.Generate(product.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		if !domain.IsValidCategory(*input.Category) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("category must be one of: %s", strings.Join(domain.ValidCategories(), ", ")))
		}
		product.Category = *input.Category
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, apperrors.InvalidInput("price must be positive")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperrors.InvalidInput("stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateProduct(ctx, product.ID)

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidateProduct(ctx, id)

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// cacheProduct writes a product into the cache, logging failures.
func (s *ProductService) cacheProduct(ctx context.Context, product *domain.Product) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, product); err != nil {
		s.logger.WarnContext(ctx, "product cache write failed",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}
}

// invalidateProduct drops a product's cache entry, logging failures.
func (s *ProductService) invalidateProduct(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "product cache invalidation failed",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}
}
