package repository

import (
	"context"
	"fmt"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository using PostgreSQL.
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

// GetByUser retrieves a user's cart with its items.
func (r *cartRepository) GetByUser(ctx context.Context, userID string) (*model.Cart, error) {
	cartQuery := `
		SELECT id, user_id, total_price, total_items, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID, &cart.UserID, &cart.TotalPrice, &cart.TotalItems,
		&cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT id, cart_id, product_id, quantity, color, size
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.Color, &item.Size); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// Create inserts an empty cart for the user.
func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, total_price, total_items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		cart.ID, cart.UserID, cart.TotalPrice, cart.TotalItems,
		cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", cart.UserID).Msg("failed to create cart")
		return fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Debug().Str("cart_id", cart.ID.String()).Str("user_id", cart.UserID).Msg("cart created")
	return nil
}

// UpsertItem inserts a line or increments the quantity of the matching
// product+color+size line.
func (r *cartRepository) UpsertItem(ctx context.Context, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, color, size)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_id, color, size)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.CartID, item.ProductID, item.Quantity, item.Color, item.Size,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("cart_id", item.CartID.String()).
			Str("product_id", item.ProductID).
			Msg("failed to upsert cart item")
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return nil
}

// SetItemQuantity replaces the quantity of every line for the product.
func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID string, quantity int) (bool, error) {
	query := `
		UPDATE cart_items
		SET quantity = $3
		WHERE cart_id = $1 AND product_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, cartID, productID, quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("cart_id", cartID.String()).
			Str("product_id", productID).
			Msg("failed to update cart item quantity")
		return false, fmt.Errorf("failed to update cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RemoveItem deletes every line for the product.
func (r *cartRepository) RemoveItem(ctx context.Context, cartID uuid.UUID, productID string) (bool, error) {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	tag, err := r.pool.Exec(ctx, query, cartID, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("cart_id", cartID.String()).
			Str("product_id", productID).
			Msg("failed to remove cart item")
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ClearItems deletes all lines of a cart.
func (r *cartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart items")
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	return nil
}

// UpdateTotals persists the derived totals.
func (r *cartRepository) UpdateTotals(ctx context.Context, cartID uuid.UUID, totalPrice float64, totalItems int) error {
	query := `
		UPDATE carts
		SET total_price = $2, total_items = $3, updated_at = now()
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, cartID, totalPrice, totalItems); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to update cart totals")
		return fmt.Errorf("failed to update cart totals: %w", err)
	}
	return nil
}

// DeleteByUser removes the user's cart within the provided transaction.
// Cart items go with it via ON DELETE CASCADE.
func (r *cartRepository) DeleteByUser(ctx context.Context, tx pgx.Tx, userID string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Str("user_id", userID).Msg("no cart to delete")
	}
	return nil
}
