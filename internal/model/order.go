package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the order state machine position.
type OrderStatus string

// Order lifecycle states. Initialized -> Pending -> Processing ->
// {Shipped -> Delivered} | Cancelled | Completed, with Refunded reachable
// from any paid state.
const (
	StatusInitialized OrderStatus = "Initialized" // created, no payment attempt yet
	StatusPending     OrderStatus = "Pending"     // intention dispatched to the gateway
	StatusProcessing  OrderStatus = "Processing"  // capture confirmed, inventory decremented
	StatusShipped     OrderStatus = "Shipped"
	StatusDelivered   OrderStatus = "Delivered"
	StatusCancelled   OrderStatus = "Cancelled"
	StatusCompleted   OrderStatus = "Completed"
	StatusRefunded    OrderStatus = "Refunded"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusInitialized, StatusPending, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusCompleted, StatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether no further status transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusRefunded || s == StatusCompleted
}

// AddressSnapshot is the shipping address frozen into an order at creation.
type AddressSnapshot struct {
	Name       string `json:"name" db:"ship_name"`
	Address    string `json:"address" db:"ship_address"`
	Address2   string `json:"address2,omitempty" db:"ship_address2"`
	City       string `json:"city" db:"ship_city"`
	State      string `json:"state" db:"ship_state"`
	PostalCode string `json:"postalCode" db:"ship_postal_code"`
	Country    string `json:"country" db:"ship_country"`
	Phone      string `json:"phone" db:"ship_phone"`
	Email      string `json:"email,omitempty" db:"ship_email"`
}

// Complete reports whether all fields required for checkout are present.
func (a AddressSnapshot) Complete() bool {
	return a.Name != "" && a.Address != "" && a.City != "" && a.State != "" &&
		a.PostalCode != "" && a.Country != "" && a.Phone != ""
}

// PaymentResult is the opaque gateway outcome recorded on the order.
type PaymentResult struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	UpdateTime time.Time `json:"updateTime"`
}

// Order is the unit of transactional consistency for checkout. Total is
// computed once at creation (items + tax + shipping - discount) and never
// recomputed afterwards.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          *string         `json:"userId,omitempty" db:"user_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress AddressSnapshot `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	ItemsPrice      float64         `json:"itemsPrice" db:"items_price"`
	TaxPrice        float64         `json:"taxPrice" db:"tax_price"`
	ShippingPrice   float64         `json:"shippingPrice" db:"shipping_price"`
	DiscountAmount  float64         `json:"discountAmount" db:"discount_amount"`
	Total           float64         `json:"total" db:"total"`
	Status          OrderStatus     `json:"status" db:"status"`
	TrackingNumber  string          `json:"trackingNumber,omitempty" db:"tracking_number"`
	Notes           string          `json:"notes,omitempty" db:"notes"`
	IsPaid          bool            `json:"isPaid" db:"is_paid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" db:"paid_at"`
	IsDelivered     bool            `json:"isDelivered" db:"is_delivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" db:"delivered_at"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is an immutable snapshot of a product line captured at order
// creation, so later product edits never change a placed order.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	UnitPrice float64   `json:"price" db:"unit_price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Image     string    `json:"image,omitempty" db:"image"`
	Color     string    `json:"color,omitempty" db:"color"`
	Size      string    `json:"size,omitempty" db:"size"`
}

// CreateOrderRequest is the checkout order-creation payload. Exactly one of
// AddressID, ShippingAddress, or a stored default address supplies the
// shipping target.
type CreateOrderRequest struct {
	AddressID       *uuid.UUID       `json:"addressId,omitempty"`
	ShippingAddress *AddressSnapshot `json:"shippingAddress,omitempty"`
	PaymentMethod   string           `json:"paymentMethod"`
	DiscountCode    *string          `json:"discountCode,omitempty"`
	ShippingPrice   float64          `json:"shippingPrice,omitempty"`
	TaxPrice        float64          `json:"taxPrice,omitempty"`
}

// PaymentIntentRequest asks for a gateway payment intention for an order.
type PaymentIntentRequest struct {
	OrderID uuid.UUID `json:"orderId"`
}

// PaymentIntentResponse carries the handle the client needs to reach the
// hosted checkout page.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	IntentionID  string `json:"intentionId"`
	CheckoutURL  string `json:"checkoutUrl"`
}

// ConfirmPaymentRequest is the synchronous confirmation payload, used when
// the client itself relays the gateway result.
type ConfirmPaymentRequest struct {
	OrderID       uuid.UUID      `json:"orderId"`
	TransactionID string         `json:"transactionId,omitempty"`
	CallbackData  map[string]any `json:"callbackData,omitempty"`
}

// UpdateOrderRequest is the operator-driven order mutation payload.
type UpdateOrderRequest struct {
	Status         *OrderStatus `json:"status,omitempty"`
	TrackingNumber *string      `json:"trackingNumber,omitempty"`
	Notes          *string      `json:"notes,omitempty"`
	IsDelivered    *bool        `json:"isDelivered,omitempty"`
}
