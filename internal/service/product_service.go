package service

import (
	"context"
	"fmt"

	"green-grocer/internal/cache"
	"green-grocer/internal/model"
	"green-grocer/internal/money"
	"green-grocer/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	cache       *cache.ProductCache
	logger      zerolog.Logger
}

// NewProductService creates a new product service. The cache may be nil, in
// which case every read goes to the database.
func NewProductService(productRepo repository.ProductRepository, productCache *cache.ProductCache, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		cache:       productCache,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves active products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID, cache-aside. The cache only
// serves display reads; checkout re-reads rows inside its transaction.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	if cached := s.cache.Get(ctx, id); cached != nil {
		s.logger.Debug().Str("product_id", id).Msg("product served from cache")
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	s.cache.Set(ctx, product)

	return product, nil
}

// GetEffectivePrice returns the price actually charged for a product.
func (s *productService) GetEffectivePrice(product *model.Product) money.Money {
	if product == nil {
		return money.Zero()
	}

	price := product.EffectivePrice()
	if !price.Valid() {
		s.logger.Warn().
			Str("product_id", product.ID).
			Str("raw_price", product.Price).
			Msg("product has no valid price")
	}

	return price
}

// IsInStock reports whether the product exists, is active and has at least
// the requested quantity on hand.
func (s *productService) IsInStock(ctx context.Context, id string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check stock: %w", err)
	}

	if product == nil || !product.IsActive() {
		return false, nil
	}

	return product.StockQuantity >= quantity, nil
}
