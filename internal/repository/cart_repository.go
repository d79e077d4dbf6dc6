package repository

import (
	"context"
	"fmt"

	"green-grocer/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

const cartLinesQuery = `
	SELECT user_id, product_id, quantity, created_at, updated_at
	FROM cart_lines
	WHERE user_id = $1
	ORDER BY created_at
`

// GetLines retrieves all cart lines for a user.
func (r *cartRepository) GetLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	rows, err := r.pool.Query(ctx, cartLinesQuery, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	return scanCartLines(rows)
}

// GetLinesTx retrieves all cart lines for a user within a transaction, with
// the rows locked. A concurrent checkout for the same user blocks here and
// then sees the cleared cart instead of ordering the same lines twice.
func (r *cartRepository) GetLinesTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartLine, error) {
	query := `
		SELECT user_id, product_id, quantity, created_at, updated_at
		FROM cart_lines
		WHERE user_id = $1
		ORDER BY product_id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart lines in tx")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	return scanCartLines(rows)
}

// UpsertLine creates or replaces the line for (user, product) with the given
// absolute quantity. The caller has already applied the stock check to this
// quantity.
func (r *cartRepository) UpsertLine(ctx context.Context, userID uuid.UUID, productID string, quantity int) error {
	query := `
		INSERT INTO cart_lines (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, userID, productID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID).
			Msg("failed to upsert cart line")
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}

	return nil
}

// RemoveLine deletes the line for (user, product) if present.
func (r *cartRepository) RemoveLine(ctx context.Context, userID uuid.UUID, productID string) error {
	query := `DELETE FROM cart_lines WHERE user_id = $1 AND product_id = $2`

	_, err := r.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID).
			Msg("failed to remove cart line")
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	return nil
}

// Clear deletes all cart lines for a user.
func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM cart_lines WHERE user_id = $1`

	_, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// ClearTx deletes all cart lines for a user within a transaction.
func (r *cartRepository) ClearTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	query := `DELETE FROM cart_lines WHERE user_id = $1`

	_, err := tx.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart in tx")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

func scanCartLines(rows pgx.Rows) ([]model.CartLine, error) {
	var lines []model.CartLine
	for rows.Next() {
		var line model.CartLine
		err := rows.Scan(&line.UserID, &line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}
