package repository

import (
	"context"
	"fmt"
	"time"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements OrderRepository using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const orderColumns = `
	id, user_id, status, payment_method,
	ship_name, ship_address, ship_address2, ship_city, ship_state,
	ship_postal_code, ship_country, ship_phone, ship_email,
	items_price, tax_price, shipping_price, discount_amount, total,
	payment_id, payment_status, payment_update_time,
	is_paid, paid_at, is_delivered, delivered_at,
	tracking_number, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var payID, payStatus *string
	var payTime *time.Time

	err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.PaymentMethod,
		&o.ShippingAddress.Name, &o.ShippingAddress.Address, &o.ShippingAddress.Address2,
		&o.ShippingAddress.City, &o.ShippingAddress.State, &o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country, &o.ShippingAddress.Phone, &o.ShippingAddress.Email,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.DiscountAmount, &o.Total,
		&payID, &payStatus, &payTime,
		&o.IsPaid, &o.PaidAt, &o.IsDelivered, &o.DeliveredAt,
		&o.TrackingNumber, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if payID != nil || payStatus != nil {
		o.PaymentResult = &model.PaymentResult{}
		if payID != nil {
			o.PaymentResult.ID = *payID
		}
		if payStatus != nil {
			o.PaymentResult.Status = *payStatus
		}
		if payTime != nil {
			o.PaymentResult.UpdateTime = *payTime
		}
	}

	return &o, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, user_id, status, payment_method,
			ship_name, ship_address, ship_address2, ship_city, ship_state,
			ship_postal_code, ship_country, ship_phone, ship_email,
			items_price, tax_price, shipping_price, discount_amount, total,
			is_paid, is_delivered, tracking_number, notes, created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24
		)
	`

	a := order.ShippingAddress
	_, err := tx.Exec(ctx, query,
		order.ID, order.UserID, order.Status, order.PaymentMethod,
		a.Name, a.Address, a.Address2, a.City, a.State,
		a.PostalCode, a.Country, a.Phone, a.Email,
		order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.DiscountAmount, order.Total,
		order.IsPaid, order.IsDelivered, order.TrackingNumber, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().Str("order_id", order.ID.String()).Msg("order created successfully")
	return nil
}

// CreateItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, unit_price, quantity, image, color, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID, item.OrderID, item.ProductID, item.Name,
			item.UnitPrice, item.Quantity, item.Image, item.Color, item.Size,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(items)).Msg("order items created successfully")
	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.itemsFor(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// GetByPaymentID retrieves an order by its stored gateway transaction id.
func (r *orderRepository) GetByPaymentID(ctx context.Context, paymentID string) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_id = $1`, paymentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("payment_id", paymentID).Msg("failed to query order by payment id")
		return nil, fmt.Errorf("failed to query order by payment id: %w", err)
	}

	items, err := r.itemsFor(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// ListByUser retrieves a user's orders, newest first, without items.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// SetStatus unconditionally updates the order status.
func (r *orderRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to set order status")
		return fmt.Errorf("failed to set order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	r.logger.Debug().Str("order_id", id.String()).Str("status", string(status)).Msg("order status set")
	return nil
}

// MarkPaid is the idempotency guard of the confirmation bundle: the UPDATE
// only matches while is_paid is false, so a second confirmation affects zero
// rows and the caller turns it into a no-op.
func (r *orderRepository) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, result model.PaymentResult, paidAt time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET is_paid = TRUE,
		    paid_at = $2,
		    status = $3,
		    payment_id = $4,
		    payment_status = $5,
		    payment_update_time = $6,
		    updated_at = now()
		WHERE id = $1 AND is_paid = FALSE
	`

	tag, err := tx.Exec(ctx, query, id, paidAt, model.StatusProcessing,
		result.ID, result.Status, result.UpdateTime)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order paid")
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// TransitionStatus is a compare-and-swap on the status column. Zero rows
// means another request already moved the order on.
func (r *orderRepository) TransitionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	query := `UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`

	tag, err := tx.Exec(ctx, query, id, from, to)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("failed to transition order status")
		return false, fmt.Errorf("failed to transition order status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdateFulfillment persists operator-editable fields.
func (r *orderRepository) UpdateFulfillment(ctx context.Context, id uuid.UUID, tracking, notes *string, isDelivered *bool, deliveredAt *time.Time) error {
	query := `
		UPDATE orders
		SET tracking_number = COALESCE($2, tracking_number),
		    notes           = COALESCE($3, notes),
		    is_delivered    = COALESCE($4, is_delivered),
		    delivered_at    = COALESCE($5, delivered_at),
		    updated_at      = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, tracking, notes, isDelivered, deliveredAt)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order fulfillment")
		return fmt.Errorf("failed to update order fulfillment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) itemsFor(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, unit_price, quantity, image, color, size
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.UnitPrice, &item.Quantity, &item.Image, &item.Color, &item.Size); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
