package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"green-grocer/internal/cache"
	"green-grocer/internal/model"
	"green-grocer/internal/money"
	"green-grocer/internal/pricing"
	"green-grocer/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	cache       *cache.ProductCache
	policy      pricing.Policy
	logger      zerolog.Logger
}

// NewOrderService creates a new order service. The cache may be nil.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	productCache *cache.ProductCache,
	policy pricing.Policy,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		cache:       productCache,
		policy:      policy,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder converts the user's cart into a persisted order atomically.
// Everything runs inside one transaction: the cart read, the locked product
// reads, all validation, the order and item inserts, the stock decrements
// and the cart clear. Any failure rolls the whole transaction back, leaving
// the cart and stock untouched.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, model.ErrPersistenceFailure
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Read the cart inside the transaction so a concurrent checkout for
	// the same user cannot order the same lines twice.
	lines, err := s.cartRepo.GetLinesTx(ctx, tx, userID)
	if err != nil {
		return nil, model.ErrPersistenceFailure
	}
	if len(lines) == 0 {
		err = model.ErrEmptyCart
		return nil, err
	}

	ids := make([]string, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	// Lock the product rows. Stock checks and decrements below run
	// against these fresh values, not anything cached earlier.
	products, err := s.productRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, model.ErrPersistenceFailure
	}

	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	// Validate every line before writing anything: prices first (money is
	// about to be committed, so an invalid price is a hard stop here even
	// though cart display tolerates it), then stock.
	subtotal := money.FromDecimal(decimal.Zero)
	unitPrices := make(map[string]money.Money, len(lines))
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			s.logger.Warn().
				Str("user_id", userID.String()).
				Str("product_id", line.ProductID).
				Msg("cart line references missing product")
			err = model.ErrReferentialIntegrity
			return nil, err
		}

		price := product.EffectivePrice()
		if !price.Valid() {
			s.logger.Warn().
				Str("product_id", product.ID).
				Str("raw_price", product.Price).
				Msg("rejecting checkout: invalid effective price")
			err = model.ErrInvalidPrice
			return nil, err
		}

		if !product.IsActive() || product.StockQuantity < line.Quantity {
			s.logger.Warn().
				Str("product_id", product.ID).
				Int("requested", line.Quantity).
				Int("stock", product.StockQuantity).
				Msg("rejecting checkout: insufficient stock")
			err = model.NewOutOfStockError(product.Name)
			return nil, err
		}

		unitPrices[line.ProductID] = price
		subtotal = subtotal.Add(price.MulInt(line.Quantity))
	}

	if !subtotal.Valid() || subtotal.IsZero() {
		err = model.ErrInvalidTotal
		return nil, err
	}

	quote := s.policy.QuoteFor(subtotal)

	billing := req.ShippingAddress
	if req.BillingAddress != nil && *req.BillingAddress != "" {
		billing = *req.BillingAddress
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		OrderNumber:     newOrderNumber(now),
		Subtotal:        quote.Subtotal.Amount(),
		Tax:             quote.Tax.Amount(),
		Shipping:        quote.Shipping.Amount(),
		Total:           quote.Total.Amount(),
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		PaymentMethod:   req.PaymentMethod,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to create order")
		err = classifyPersistenceError(err)
		return nil, err
	}

	// Snapshot each line: name, image and price as charged now, decoupled
	// from later product edits.
	items := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		product := byID[line.ProductID]
		price := unitPrices[line.ProductID]
		items[i] = model.OrderItem{
			ID:           uuid.New(),
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			ProductName:  product.Name,
			ProductImage: product.ImageURL,
			Quantity:     line.Quantity,
			UnitPrice:    price.Amount(),
			Subtotal:     price.MulInt(line.Quantity).Amount(),
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		err = classifyPersistenceError(err)
		return nil, err
	}

	// Decrement stock exactly once per line. The guard in AdjustStock is a
	// second defence; the locked read above already proved sufficiency.
	for _, line := range lines {
		if err = s.productRepo.AdjustStock(ctx, tx, line.ProductID, -line.Quantity); err != nil {
			if errors.Is(err, repository.ErrStockConflict) {
				err = model.NewOutOfStockError(byID[line.ProductID].Name)
			} else {
				err = model.ErrPersistenceFailure
			}
			return nil, err
		}
	}

	// The cart is only cleared on confirmed success; on any failure the
	// rollback restores it along with everything else.
	if err = s.cartRepo.ClearTx(ctx, tx, userID); err != nil {
		err = model.ErrPersistenceFailure
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		err = model.ErrPersistenceFailure
		return nil, err
	}

	s.cache.Invalidate(ctx, ids...)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("user_id", userID.String()).
		Str("total", order.Total).
		Int("item_count", len(items)).
		Msg("order created successfully")

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// GetByID retrieves an order with its items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// GetByUser retrieves a user's orders, newest first.
func (s *orderService) GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.GetByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get user orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus applies an admin status transition. Moving to delivered also
// forces the payment status to paid, in the same statement.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	current, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if current == nil {
		return model.ErrOrderNotFound
	}

	if !model.CanTransition(current.Status, status) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(current.Status)).
			Str("to", string(status)).
			Msg("rejected status transition")
		return model.ErrInvalidStatus
	}

	var paymentStatus *model.PaymentStatus
	if status == model.OrderStatusDelivered {
		paid := model.PaymentStatusPaid
		paymentStatus = &paid
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, orderID, current.Status, status, paymentStatus)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if !updated {
		// The order moved on between our read and our write.
		return model.ErrInvalidStatus
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", string(current.Status)).
		Str("to", string(status)).
		Msg("order status updated")

	return nil
}

// UpdatePaymentStatus sets an order's payment status.
func (s *orderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status model.PaymentStatus) error {
	updated, err := s.orderRepo.UpdatePaymentStatus(ctx, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if !updated {
		return model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("payment_status", string(status)).
		Msg("payment status updated")

	return nil
}

// newOrderNumber generates a human-readable, time-based order number with a
// random suffix. Collisions surface as DUPLICATE_ORDER_NUMBER rather than
// being silently ignored.
func newOrderNumber(now time.Time) string {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		// Fall back to the nanosecond clock; uniqueness is still enforced
		// by the database constraint.
		return fmt.Sprintf("GG-%s-%06d", now.UTC().Format("20060102150405"), now.Nanosecond()%1000000)
	}
	return fmt.Sprintf("GG-%s-%s", now.UTC().Format("20060102150405"), hex.EncodeToString(suffix))
}

// classifyPersistenceError maps repository sentinels onto the checkout
// error taxonomy.
func classifyPersistenceError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateOrderNumber):
		return model.ErrDuplicateOrderNumber
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return model.ErrReferentialIntegrity
	default:
		return model.ErrPersistenceFailure
	}
}

// validateCheckoutRequest checks the request fields before any data access.
func validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "checkout request is required")
	}
	if req.ShippingAddress == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "shipping address is required")
	}
	if req.PaymentMethod == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "payment method is required")
	}
	return nil
}
