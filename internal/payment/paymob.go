package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"swiftcart/internal/config"
	"swiftcart/internal/model"

	"github.com/rs/zerolog"
)

// paymobGateway implements Gateway against Paymob's unified intention API.
type paymobGateway struct {
	baseURL    string
	secretKey  string
	publicKey  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewPaymobGateway creates a Paymob-backed gateway from configuration.
func NewPaymobGateway(cfg config.GatewayConfig, logger zerolog.Logger) Gateway {
	return &paymobGateway{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		publicKey: cfg.PublicKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger.With().Str("component", "paymob-gateway").Logger(),
	}
}

// intentionPayload is the wire shape of POST /v1/intention/.
type intentionPayload struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Items       []IntentionItem   `json:"items"`
	BillingData BillingData       `json:"billing_data"`
	Customer    intentionCustomer `json:"customer"`
	Extras      map[string]string `json:"extras"`
}

type intentionCustomer struct {
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Email     string            `json:"email"`
	Extras    map[string]string `json:"extras"`
}

type intentionResponse struct {
	ID           json.Number `json:"id"`
	ClientSecret string      `json:"client_secret"`
}

type intentionErrorResponse struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// CreateIntention registers a payment intention. Shipping and tax are
// appended as synthetic line items because the gateway requires the item
// amounts to sum to the intention amount.
func (g *paymobGateway) CreateIntention(ctx context.Context, req IntentionRequest) (*Intention, error) {
	items := make([]IntentionItem, 0, len(req.Items)+2)
	items = append(items, req.Items...)

	if req.ShippingCents > 0 {
		items = append(items, IntentionItem{
			Name:        "Shipping Fee",
			AmountCents: req.ShippingCents,
			Description: "Shipping and handling fee",
			Quantity:    1,
		})
	}
	if req.TaxCents > 0 {
		items = append(items, IntentionItem{
			Name:        "Tax",
			AmountCents: req.TaxCents,
			Description: "Tax amount",
			Quantity:    1,
		})
	}

	var itemTotal int64
	for _, item := range items {
		itemTotal += item.AmountCents * int64(item.Quantity)
	}

	amount := req.AmountCents
	if amount != itemTotal {
		g.logger.Warn().
			Int64("amount", amount).
			Int64("item_total", itemTotal).
			Str("order_id", req.OrderID).
			Msg("intention amount does not match item total, using item total")
		amount = itemTotal
	}

	// The correlation extras are the only trustworthy way to map a gateway
	// callback back to an order.
	extras := map[string]string{
		"orderId": req.OrderID,
		"userId":  req.UserID,
	}

	payload := intentionPayload{
		Amount:      amount,
		Currency:    req.Currency,
		Items:       items,
		BillingData: req.Billing,
		Customer: intentionCustomer{
			FirstName: req.Billing.FirstName,
			LastName:  req.Billing.LastName,
			Email:     req.Billing.Email,
			Extras:    extras,
		},
		Extras: extras,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &model.GatewayError{Message: "failed to encode intention request", Err: err}
	}

	endpoint := g.baseURL + "/v1/intention/"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &model.GatewayError{Message: "failed to build intention request", Err: err}
	}
	httpReq.Header.Set("Authorization", "Token "+g.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	g.logger.Debug().
		Str("order_id", req.OrderID).
		Int64("amount_cents", amount).
		Str("currency", req.Currency).
		Msg("creating payment intention")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		g.logger.Error().Err(err).Str("order_id", req.OrderID).Msg("intention request failed")
		return nil, &model.GatewayError{Message: "Payment processing error", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &model.GatewayError{Message: "failed to read intention response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gwErr intentionErrorResponse
		detail := "Failed to create payment intention"
		if json.Unmarshal(respBody, &gwErr) == nil {
			if gwErr.Detail != "" {
				detail = gwErr.Detail
			} else if gwErr.Message != "" {
				detail = gwErr.Message
			}
		}
		g.logger.Error().
			Int("status", resp.StatusCode).
			Str("order_id", req.OrderID).
			Str("detail", detail).
			Msg("gateway rejected intention")
		return nil, &model.GatewayError{Message: detail}
	}

	var intention intentionResponse
	if err := json.Unmarshal(respBody, &intention); err != nil {
		return nil, &model.GatewayError{Message: "failed to decode intention response", Err: err}
	}
	if intention.ClientSecret == "" {
		return nil, &model.GatewayError{Message: "intention response missing client secret"}
	}

	g.logger.Info().
		Str("order_id", req.OrderID).
		Str("intention_id", intention.ID.String()).
		Msg("payment intention created")

	return &Intention{
		ID:           intention.ID.String(),
		ClientSecret: intention.ClientSecret,
	}, nil
}

// CheckoutURL builds the hosted unified-checkout redirect URL.
func (g *paymobGateway) CheckoutURL(clientSecret string) string {
	if g.publicKey == "" {
		g.logger.Warn().Msg("gateway public key is not configured")
	}
	return g.baseURL + "/unifiedcheckout/?publicKey=" + url.QueryEscape(g.publicKey) +
		"&clientSecret=" + url.QueryEscape(clientSecret)
}

// CentsFromAmount converts a major-unit amount to minor units.
func CentsFromAmount(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// AmountFromCents converts minor units back to a major-unit amount.
func AmountFromCents(cents int64) float64 {
	return float64(cents) / 100
}
