package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the actor's pending selection, one per user. TotalPrice and
// TotalItems are derived from current product prices on every mutation,
// never snapshotted; prices freeze only when the cart becomes an order.
type Cart struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     string     `json:"userId" db:"user_id"`
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"totalPrice" db:"total_price"`
	TotalItems int        `json:"totalItems" db:"total_items"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItem is a weak reference into the product catalog. Product holds the
// live product for display and is nil when the product no longer resolves;
// such items are skipped when computing totals and converting to an order.
type CartItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	CartID    uuid.UUID `json:"-" db:"cart_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Color     string    `json:"color,omitempty" db:"color"`
	Size      string    `json:"size,omitempty" db:"size"`
	Product   *Product  `json:"product,omitempty"`
}

// AddCartItemRequest adds a product to the cart. An existing line with the
// same product, color and size has its quantity incremented instead of a
// duplicate line being created.
type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// UpdateCartItemRequest replaces a line's quantity; zero removes the line.
type UpdateCartItemRequest struct {
	Quantity int    `json:"quantity"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
}
