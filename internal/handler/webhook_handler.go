package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"swiftcart/internal/service"

	"github.com/rs/zerolog"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// WebhookHandler receives gateway payment callbacks.
type WebhookHandler struct {
	service service.WebhookService
	logger  zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(service service.WebhookService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger.With().Str("handler", "webhook").Logger(),
	}
}

// Handle handles POST /api/payment/webhook requests. The gateway is
// acknowledged immediately and unconditionally; reconciliation runs
// detached so a slow database never causes gateway retries.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read webhook body")
		body = nil
	}
	query := r.URL.Query()

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		h.service.ProcessCallback(ctx, query, body)
	}()
}
