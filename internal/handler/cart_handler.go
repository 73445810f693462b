package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"swiftcart/internal/model"
	"swiftcart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Cart handles GET and DELETE /api/cart requests.
func (h *CartHandler) Cart(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	var (
		cart *model.Cart
		err  error
	)
	switch r.Method {
	case http.MethodGet:
		cart, err = h.service.Get(r.Context(), actor)
	case http.MethodDelete:
		cart, err = h.service.Clear(r.Context(), actor)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
		return
	}

	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
		return
	}

	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.ProductID == "" {
		writeBadRequest(w, model.ErrCodeValidation, "productId is required", h.logger)
		return
	}

	cart, err := h.service.AddItem(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Item handles PUT and DELETE /api/cart/items/{productId} requests.
func (h *CartHandler) Item(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	productID := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if productID == "" || strings.Contains(productID, "/") {
		writeBadRequest(w, model.ErrCodeValidation, "product ID is required", h.logger)
		return
	}

	var (
		cart *model.Cart
		err  error
	)
	switch r.Method {
	case http.MethodPut:
		var req model.UpdateCartItemRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}
		cart, err = h.service.UpdateItem(r.Context(), actor, productID, &req)
	case http.MethodDelete:
		cart, err = h.service.RemoveItem(r.Context(), actor, productID)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
		return
	}

	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
