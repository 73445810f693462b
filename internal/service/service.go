package service

import (
	"context"
	"net/url"

	"swiftcart/internal/model"

	"github.com/google/uuid"
)

// ProductService defines read operations for catalog browsing.
type ProductService interface {
	// GetAll retrieves products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService defines the actor's cart operations. Totals are recomputed
// from live product prices on every mutation.
type CartService interface {
	// Get returns the actor's cart, creating an empty one on first use.
	Get(ctx context.Context, actor model.Actor) (*model.Cart, error)

	// AddItem adds a product to the cart, merging with an existing line
	// of the same product, color and size.
	AddItem(ctx context.Context, actor model.Actor, req *model.AddCartItemRequest) (*model.Cart, error)

	// UpdateItem replaces a line's quantity; zero removes the line.
	UpdateItem(ctx context.Context, actor model.Actor, productID string, req *model.UpdateCartItemRequest) (*model.Cart, error)

	// RemoveItem deletes a line from the cart.
	RemoveItem(ctx context.Context, actor model.Actor, productID string) (*model.Cart, error)

	// Clear removes every line from the cart.
	Clear(ctx context.Context, actor model.Actor) (*model.Cart, error)
}

// CheckoutService coordinates cart-to-order conversion and the payment
// flow against the gateway.
type CheckoutService interface {
	// CreateOrder converts the actor's cart into an Initialized order,
	// snapshotting prices and validating stock without decrementing it.
	CreateOrder(ctx context.Context, actor model.Actor, req *model.CreateOrderRequest) (*model.Order, error)

	// CreatePaymentIntention registers a gateway intention for the order
	// and moves it to Pending. A gateway failure reverts the order to
	// Initialized.
	CreatePaymentIntention(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.PaymentIntentResponse, error)

	// ConfirmPayment is the synchronous confirmation path. A confirmed
	// result applies the atomic bundle: mark paid, decrement inventory,
	// delete the cart. Confirming an already-paid order is a success
	// no-op.
	ConfirmPayment(ctx context.Context, actor model.Actor, req *model.ConfirmPaymentRequest) (*model.Order, error)

	// RedirectTarget returns the landing URL for the hosted-checkout
	// redirect.
	RedirectTarget(ctx context.Context, orderID string, success bool) string
}

// WebhookService reconciles out-of-band gateway callbacks against order
// and inventory state. All errors are logged, never returned to the
// gateway: the acknowledgment has already been sent.
type WebhookService interface {
	ProcessCallback(ctx context.Context, query url.Values, body []byte)
}

// OrderService defines order reads and operator-driven lifecycle updates.
type OrderService interface {
	// GetByID retrieves an order, enforcing ownership unless the actor
	// is an admin.
	GetByID(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves the actor's orders, newest first.
	ListByUser(ctx context.Context, actor model.Actor) ([]model.Order, error)

	// Update applies operator changes. Moving a paid order to Cancelled
	// or Refunded credits inventory back exactly once.
	Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateOrderRequest) (*model.Order, error)
}

// AddressService defines the address-book operations checkout depends on.
type AddressService interface {
	// Create stores a new address; a default one displaces overlapping
	// defaults atomically.
	Create(ctx context.Context, actor model.Actor, req *model.CreateAddressRequest) (*model.Address, error)

	// List retrieves the actor's addresses.
	List(ctx context.Context, actor model.Actor) ([]model.Address, error)

	// SetDefault makes an address the sole default for its type.
	SetDefault(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Address, error)
}
