package handler

import (
	"net/http"

	"swiftcart/internal/model"
	"swiftcart/internal/payment"

	"github.com/rs/zerolog"
)

// PaymentHandler exposes the configured payment-method registry.
type PaymentHandler struct {
	registry *payment.Registry
	logger   zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(registry *payment.Registry, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		registry: registry,
		logger:   logger.With().Str("handler", "payment").Logger(),
	}
}

// Methods handles GET /api/payment/methods requests.
func (h *PaymentHandler) Methods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"methods": h.registry.List(),
	})
}
