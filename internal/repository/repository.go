package repository

import (
	"context"
	"time"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines product reads plus the inventory ledger.
type ProductRepository interface {
	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// GetAll retrieves products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// ApplyDelta atomically adjusts a product's quantity and sold counters
	// inside the provided transaction. Quantity and sold are clamped at
	// zero; clamping is logged as an anomaly. A missing product is an
	// error and fails the surrounding transaction.
	ApplyDelta(ctx context.Context, tx pgx.Tx, productID string, qtyDelta, soldDelta int) (*model.Product, error)
}

// CartRepository defines cart persistence. Carts are single-owner, one per
// user.
type CartRepository interface {
	// GetByUser retrieves a user's cart with its items. Returns nil when
	// the user has no cart yet.
	GetByUser(ctx context.Context, userID string) (*model.Cart, error)

	// Create inserts an empty cart for the user.
	Create(ctx context.Context, cart *model.Cart) error

	// UpsertItem inserts a cart line or increments the quantity of an
	// existing line with the same product, color and size.
	UpsertItem(ctx context.Context, item *model.CartItem) error

	// SetItemQuantity replaces a line's quantity. Returns false when no
	// matching line exists.
	SetItemQuantity(ctx context.Context, cartID uuid.UUID, productID string, quantity int) (bool, error)

	// RemoveItem deletes a cart line. Returns false when no matching line
	// exists.
	RemoveItem(ctx context.Context, cartID uuid.UUID, productID string) (bool, error)

	// ClearItems deletes all lines of a cart.
	ClearItems(ctx context.Context, cartID uuid.UUID) error

	// UpdateTotals persists the derived total price and item count.
	UpdateTotals(ctx context.Context, cartID uuid.UUID, totalPrice float64, totalItems int) error

	// DeleteByUser removes the user's cart and its items inside the
	// provided transaction. Part of the payment-confirmation bundle.
	DeleteByUser(ctx context.Context, tx pgx.Tx, userID string) error
}

// OrderRepository defines order persistence and the guarded status updates
// the state machine relies on.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateItems inserts the order's line-item snapshots within the
	// provided transaction.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByPaymentID retrieves an order by its stored gateway transaction
	// id. Fallback correlation strategy for webhooks.
	GetByPaymentID(ctx context.Context, paymentID string) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// SetStatus unconditionally updates the order status. Used for the
	// Initialized<->Pending intention hop, which has no inventory effects.
	SetStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error

	// MarkPaid flips the order to paid/Processing only if it is not paid
	// yet, recording the gateway result. Returns false when the guard
	// failed (already paid), in which case the caller treats the
	// confirmation as an idempotent no-op.
	MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, result model.PaymentResult, paidAt time.Time) (bool, error)

	// TransitionStatus moves the order from exactly the observed status to
	// a new one. Returns false when the order no longer has the expected
	// status, preventing double-application of inventory reversals.
	TransitionStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) (bool, error)

	// UpdateFulfillment persists operator-editable fields.
	UpdateFulfillment(ctx context.Context, id uuid.UUID, tracking, notes *string, isDelivered *bool, deliveredAt *time.Time) error
}

// AddressRepository defines address-book persistence.
type AddressRepository interface {
	// GetByID retrieves an address owned by the given user. Returns nil
	// when absent or owned by someone else.
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*model.Address, error)

	// GetDefault retrieves the user's default address of the given type,
	// treating "both" addresses as matching either type. Returns nil when
	// the user has none.
	GetDefault(ctx context.Context, userID string, addrType model.AddressType) (*model.Address, error)

	// List retrieves all of the user's addresses.
	List(ctx context.Context, userID string) ([]model.Address, error)

	// Create inserts an address. When it is flagged default, all other
	// defaults of overlapping type are unset in the same transaction.
	Create(ctx context.Context, address *model.Address) error

	// SetDefault makes the address the user's sole default for its type,
	// unsetting overlapping defaults in the same transaction. Returns the
	// updated address, or nil when it does not exist or is not owned by
	// the user.
	SetDefault(ctx context.Context, id uuid.UUID, userID string) (*model.Address, error)
}
