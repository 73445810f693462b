package repository

import (
	"context"
	"fmt"

	"swiftcart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements ProductRepository using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, description, price, image, quantity, sold, active, created_at, updated_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image,
		&p.Quantity, &p.Sold, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY name`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ApplyDelta atomically adjusts a product's quantity and sold counters. The
// arithmetic happens in a single UPDATE so two concurrent confirmations
// serialise at the product row instead of racing a read-modify-write in
// application code. Counters are clamped at zero; a clamp means the ledger
// drifted and is logged as an anomaly.
func (r *productRepository) ApplyDelta(ctx context.Context, tx pgx.Tx, productID string, qtyDelta, soldDelta int) (*model.Product, error) {
	query := `
		UPDATE products
		SET quantity   = GREATEST(quantity + $2, 0),
		    sold       = GREATEST(sold + $3, 0),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns

	var before struct{ qty, sold int }
	if err := tx.QueryRow(ctx, `SELECT quantity, sold FROM products WHERE id = $1 FOR UPDATE`, productID).
		Scan(&before.qty, &before.sold); err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Warn().Str("product_id", productID).Msg("inventory delta for missing product")
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product row: %w", err)
	}

	var p model.Product
	if err := scanProduct(tx.QueryRow(ctx, query, productID, qtyDelta, soldDelta), &p); err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to apply inventory delta")
		return nil, fmt.Errorf("failed to apply inventory delta: %w", err)
	}

	if before.qty+qtyDelta < 0 || before.sold+soldDelta < 0 {
		r.logger.Warn().
			Str("product_id", productID).
			Int("quantity_before", before.qty).
			Int("sold_before", before.sold).
			Int("qty_delta", qtyDelta).
			Int("sold_delta", soldDelta).
			Msg("inventory delta clamped at zero")
	}

	r.logger.Debug().
		Str("product_id", productID).
		Int("quantity", p.Quantity).
		Int("sold", p.Sold).
		Msg("inventory delta applied")

	return &p, nil
}
