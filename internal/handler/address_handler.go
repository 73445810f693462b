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

// AddressHandler handles address-book HTTP requests.
type AddressHandler struct {
	service service.AddressService
	logger  zerolog.Logger
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(service service.AddressService, logger zerolog.Logger) *AddressHandler {
	return &AddressHandler{
		service: service,
		logger:  logger.With().Str("handler", "address").Logger(),
	}
}

// Addresses handles GET and POST /api/addresses requests.
func (h *AddressHandler) Addresses(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		addresses, err := h.service.List(r.Context(), actor)
		if err != nil {
			writeError(w, err, h.logger)
			return
		}
		if addresses == nil {
			addresses = []model.Address{}
		}
		writeJSON(w, http.StatusOK, addresses)

	case http.MethodPost:
		var req model.CreateAddressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
			return
		}
		address, err := h.service.Create(r.Context(), actor, &req)
		if err != nil {
			writeError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusCreated, address)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
	}
}

// SetDefault handles PUT /api/addresses/{id}/default requests.
func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: model.ErrCodeValidation, Message: "method not allowed"})
		return
	}

	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/addresses/"), "/default")
	addressID, err := uuid.Parse(idStr)
	if err != nil {
		writeBadRequest(w, model.ErrCodeValidation, "invalid address ID format", h.logger)
		return
	}

	address, err := h.service.SetDefault(r.Context(), actor, addressID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, address)
}
