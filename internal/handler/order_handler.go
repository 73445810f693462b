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

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
		return
	}

	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.service.ListByUser(r.Context(), actor)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

// ByID handles GET and PUT /api/orders/{id} requests.
func (h *OrderHandler) ByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	orderID, err := uuid.Parse(idStr)
	if err != nil {
		writeBadRequest(w, model.ErrCodeValidation, "invalid order ID format", h.logger)
		return
	}

	switch r.Method {
	case http.MethodGet:
		order, err := h.service.GetByID(r.Context(), actor, orderID)
		if err != nil {
			writeError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, order)

	case http.MethodPut:
		var req model.UpdateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}
		order, err := h.service.Update(r.Context(), actor, orderID, &req)
		if err != nil {
			writeError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, order)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
	}
}
