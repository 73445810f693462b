package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"swiftcart/internal/model"
	"swiftcart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout-related HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// CreateOrder handles POST /api/checkout/orders requests.
func (h *CheckoutHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
		return
	}

	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// CreateIntention handles POST /api/checkout/orders/{id}/intention requests.
func (h *CheckoutHandler) CreateIntention(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
		return
	}

	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/checkout/orders/"), "/intention")
	orderID, err := uuid.Parse(idStr)
	if err != nil {
		writeBadRequest(w, model.ErrCodeValidation, "invalid order ID format", h.logger)
		return
	}

	intent, err := h.service.CreatePaymentIntention(r.Context(), actor, orderID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, intent)
}

// ConfirmPayment handles POST /api/checkout/confirm requests.
func (h *CheckoutHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
		return
	}

	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	var req model.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.OrderID == uuid.Nil {
		writeBadRequest(w, model.ErrCodeValidation, "orderId is required", h.logger)
		return
	}

	order, err := h.service.ConfirmPayment(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Redirect handles GET /api/checkout/redirect requests: the browser lands
// here after the hosted checkout and is forwarded to the storefront result
// page. The authoritative payment state comes from the webhook, never from
// this redirect.
func (h *CheckoutHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
		return
	}

	query := r.URL.Query()
	success := query.Get("success") == "true" &&
		query.Get("is_voided") != "true" && query.Get("is_refunded") != "true"
	orderID := query.Get("merchant_order_id")

	target := h.service.RedirectTarget(r.Context(), orderID, success)

	h.logger.Info().
		Str("order_id", orderID).
		Bool("success", success).
		Str("target", target).
		Msg("checkout redirect")

	http.Redirect(w, r, target, http.StatusFound)
}
