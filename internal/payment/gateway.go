package payment

import (
	"context"
	"strings"
)

// Gateway is the payment-gateway boundary. Implementations translate an
// order into a gateway payment intention and hand back the redirect handle
// the customer needs to pay.
type Gateway interface {
	// CreateIntention registers a payment intention with the gateway and
	// returns its id and client secret.
	CreateIntention(ctx context.Context, req IntentionRequest) (*Intention, error)

	// CheckoutURL builds the hosted-checkout redirect URL for a client
	// secret returned by CreateIntention.
	CheckoutURL(clientSecret string) string
}

// IntentionRequest carries everything the gateway needs. All monetary
// amounts are in minor currency units.
type IntentionRequest struct {
	AmountCents   int64
	Currency      string
	Items         []IntentionItem
	Billing       BillingData
	OrderID       string // internal order id, echoed back in callbacks
	UserID        string
	ShippingCents int64
	TaxCents      int64
}

// IntentionItem is one gateway-facing line item, amount in minor units.
type IntentionItem struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// Intention is the gateway-side payment request object.
type Intention struct {
	ID           string
	ClientSecret string
}

// BillingData is the gateway's billing block. The gateway rejects empty
// fields, so absent values are filled with "NA" the way its docs prescribe.
type BillingData struct {
	Apartment   string `json:"apartment"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Street      string `json:"street"`
	Building    string `json:"building"`
	PhoneNumber string `json:"phone_number"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Email       string `json:"email"`
	Floor       string `json:"floor"`
	State       string `json:"state"`
}

// FormatBilling maps an order's shipping snapshot onto the gateway's
// billing block, splitting the single name field and placeholding fields
// the snapshot does not carry.
func FormatBilling(name, street, apartment, city, state, country, phone, email string) BillingData {
	first, last := splitName(name)
	return BillingData{
		Apartment:   orNA(apartment),
		FirstName:   orNA(first),
		LastName:    orNA(last),
		Street:      orNA(street),
		Building:    "NA",
		PhoneNumber: orNA(phone),
		City:        orNA(city),
		Country:     orNA(country),
		Email:       orDefault(email, "customer@example.com"),
		Floor:       "NA",
		State:       orNA(state),
	}
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func orNA(s string) string {
	return orDefault(s, "NA")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
