package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"swiftcart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError translates a service error into the standard error envelope.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status, body := mapError(err)

	evt := logger.Warn()
	if status >= http.StatusInternalServerError {
		evt = logger.Error().Err(err)
	}
	evt.Str("code", body.Error).Int("status", status).Str("message", body.Message).Msg("handler error")

	writeJSON(w, status, body)
}

// writeBadRequest writes a plain validation error without a service error.
func writeBadRequest(w http.ResponseWriter, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Str("message", message).Msg("handler error")
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: code, Message: message})
}

// mapError maps the error taxonomy onto HTTP statuses: validation, stock and
// gateway problems are client-visible 400s, ownership 403, lookups 404, and
// anything unrecognized stays an opaque 500.
func mapError(err error) (int, model.ErrorResponse) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		body := model.ErrorResponse{
			Error:   domainErr.Code,
			Message: domainErr.Message,
			Field:   domainErr.Field,
		}
		switch domainErr.Code {
		case model.ErrCodeNotFound:
			return http.StatusNotFound, body
		case model.ErrCodeForbidden:
			return http.StatusForbidden, body
		case model.ErrCodeAlreadyPaid:
			return http.StatusConflict, body
		case model.ErrCodeUnauthorised:
			return http.StatusUnauthorized, body
		default:
			return http.StatusBadRequest, body
		}
	}

	var stockErr *model.InsufficientStockError
	if errors.As(err, &stockErr) {
		available := stockErr.Available
		return http.StatusBadRequest, model.ErrorResponse{
			Error:     model.ErrCodeInsufficientStock,
			Message:   stockErr.Error(),
			Field:     "quantity",
			Available: &available,
		}
	}

	var gatewayErr *model.GatewayError
	if errors.As(err, &gatewayErr) {
		return http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeGateway,
			Message: gatewayErr.Message,
		}
	}

	return http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "internal server error",
	}
}

// actorFromRequest reads the caller identity forwarded by the API gateway.
// The API-key middleware has already authenticated the caller; these headers
// only say who the authenticated caller is acting as.
func actorFromRequest(r *http.Request) (model.Actor, bool) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return model.Actor{}, false
	}
	return model.Actor{ID: id, Role: r.Header.Get("X-User-Role")}, true
}

// requireActor extracts the actor or writes a 401.
func requireActor(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (model.Actor, bool) {
	actor, ok := actorFromRequest(r)
	if !ok {
		logger.Warn().Str("path", r.URL.Path).Msg("missing user identity")
		writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{
			Error:   model.ErrCodeUnauthorised,
			Message: "X-User-ID header is required",
		})
		return model.Actor{}, false
	}
	return actor, true
}
