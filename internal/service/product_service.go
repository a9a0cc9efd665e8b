package service

import (
	"context"
	"fmt"

	"quickcart/internal/model"
	"quickcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	pageSize    int
	logger      zerolog.Logger
}

// NewProductService creates a new product service. A non-positive pageSize
// falls back to model.DefaultPageSize.
func NewProductService(productRepo repository.ProductRepository, pageSize int, logger zerolog.Logger) ProductService {
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	return &productService{
		productRepo: productRepo,
		pageSize:    pageSize,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// ListActive returns one page of the active catalogue.
func (s *productService) ListActive(ctx context.Context, page, pageSize int) (*model.ProductPage, error) {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	total, err := s.productRepo.CountActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count active products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	page = model.ClampPage(page, model.PageCount(total, pageSize))
	offset := (page - 1) * pageSize

	products, err := s.productRepo.ListActive(ctx, pageSize, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("page", page).
			Int("page_size", pageSize).
			Msg("failed to list active products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("page", page).
		Int("total", total).
		Msg("retrieved products")

	return model.NewProductPage(products, page, pageSize, total), nil
}

// GetBySlug retrieves an active product by slug.
func (s *productService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	if slug == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("failed to get product by slug")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil || !product.IsActive {
		s.logger.Debug().Str("slug", slug).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// ListAll retrieves every product, active or not.
func (s *productService) ListAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list all products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// SetActive enables or disables a product.
func (s *productService) SetActive(ctx context.Context, id uuid.UUID, isActive bool) (*model.Product, error) {
	product, err := s.productRepo.SetActive(ctx, id, isActive)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if product == nil {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().
		Str("product_id", id.String()).
		Bool("is_active", isActive).
		Msg("product availability changed")

	return product, nil
}

// Delete removes a product. Cart lines and order lines pointing at it go too,
// so order history loses those lines; deactivate instead to keep them.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")

	return nil
}
