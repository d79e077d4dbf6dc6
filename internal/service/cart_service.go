package service

import (
	"context"
	"fmt"

	"green-grocer/internal/model"
	"green-grocer/internal/money"
	"green-grocer/internal/pricing"
	"green-grocer/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	policy      pricing.Policy
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	policy pricing.Policy,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		policy:      policy,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// AddItem adds a quantity of a product to the user's cart, stacking onto any
// existing line. The stock check covers the resulting absolute quantity.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, productID string, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to load product")
		return fmt.Errorf("failed to add item: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}
	if !product.IsActive() {
		s.logger.Warn().Str("product_id", productID).Msg("attempt to add inactive product")
		return model.ErrProductInactive
	}

	current, err := s.currentQuantity(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	newQuantity := current + quantity
	if product.StockQuantity < newQuantity {
		s.logger.Warn().
			Str("product_id", productID).
			Int("requested", newQuantity).
			Int("stock", product.StockQuantity).
			Msg("insufficient stock for cart add")
		return model.NewOutOfStockError(product.Name)
	}

	if err := s.cartRepo.UpsertLine(ctx, userID, productID, newQuantity); err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("product_id", productID).
		Int("quantity", newQuantity).
		Msg("cart line upserted")

	return nil
}

// UpdateQuantity sets the absolute quantity of a cart line. A quantity of
// zero or less removes the line. The stock check covers the new absolute
// quantity, not the delta.
func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to load product")
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}
	if !product.IsActive() {
		return model.ErrProductInactive
	}

	if product.StockQuantity < quantity {
		s.logger.Warn().
			Str("product_id", productID).
			Int("requested", quantity).
			Int("stock", product.StockQuantity).
			Msg("insufficient stock for quantity update")
		return model.NewOutOfStockError(product.Name)
	}

	if err := s.cartRepo.UpsertLine(ctx, userID, productID, quantity); err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}

	return nil
}

// RemoveItem removes a product from the cart.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) error {
	if err := s.cartRepo.RemoveLine(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// GetItems returns the cart lines enriched with live product fields. Prices
// come from the current product records, never from anything stored on the
// line. Lines whose product has vanished are skipped.
func (s *cartService) GetItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	lines, products, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]model.CartItem, 0, len(lines))
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			s.logger.Warn().
				Str("user_id", userID.String()).
				Str("product_id", line.ProductID).
				Msg("cart line references missing product, skipping")
			continue
		}
		items = append(items, model.NewCartItem(line, product))
	}

	return items, nil
}

// GetTotal returns the cart subtotal derived from live product prices.
// Invalid or zero effective prices contribute zero here; checkout treats
// them as a hard error instead.
func (s *cartService) GetTotal(ctx context.Context, userID uuid.UUID) (money.Money, error) {
	lines, products, err := s.loadCart(ctx, userID)
	if err != nil {
		return money.Zero(), err
	}

	total := money.FromDecimal(decimal.Zero)
	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			continue
		}

		price := product.EffectivePrice()
		if !price.Valid() {
			continue
		}

		total = total.Add(price.MulInt(line.Quantity))
	}

	return total, nil
}

// GetSummary returns the cart with its estimated price breakdown, using the
// same pricing policy checkout applies authoritatively.
func (s *cartService) GetSummary(ctx context.Context, userID uuid.UUID) (*model.CartSummary, error) {
	items, err := s.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	subtotal, err := s.GetTotal(ctx, userID)
	if err != nil {
		return nil, err
	}

	quote := s.policy.QuoteFor(subtotal)

	return &model.CartSummary{
		Items:    items,
		Subtotal: quote.Subtotal.Amount(),
		Tax:      quote.Tax.Amount(),
		Shipping: quote.Shipping.Amount(),
		Total:    quote.Total.Amount(),
	}, nil
}

// loadCart fetches the user's lines and the current records of every
// product they reference.
func (s *cartService) loadCart(ctx context.Context, userID uuid.UUID) ([]model.CartLine, map[string]*model.Product, error) {
	lines, err := s.cartRepo.GetLines(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load cart lines")
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if len(lines) == 0 {
		return nil, map[string]*model.Product{}, nil
	}

	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load cart products")
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}

	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	return lines, byID, nil
}

// currentQuantity returns the quantity already in the cart for a product.
func (s *cartService) currentQuantity(ctx context.Context, userID uuid.UUID, productID string) (int, error) {
	lines, err := s.cartRepo.GetLines(ctx, userID)
	if err != nil {
		return 0, err
	}

	for _, line := range lines {
		if line.ProductID == productID {
			return line.Quantity, nil
		}
	}
	return 0, nil
}
