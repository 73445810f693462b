package service

import (
	"context"
	"net/url"

	"swiftcart/internal/events"
	"swiftcart/internal/model"
	"swiftcart/internal/payment"
	"swiftcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// webhookService reconciles out-of-band gateway callbacks. The HTTP handler
// has already acknowledged the gateway by the time ProcessCallback runs, so
// every failure here is logged for manual reconciliation, never returned.
type webhookService struct {
	orderRepo repository.OrderRepository
	settler   *settler
	logger    zerolog.Logger
}

// NewWebhookService creates the webhook reconciler.
func NewWebhookService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) WebhookService {
	logger = logger.With().Str("component", "webhook-service").Logger()
	return &webhookService{
		orderRepo: orderRepo,
		settler: &settler{
			orderRepo:   orderRepo,
			productRepo: productRepo,
			cartRepo:    cartRepo,
			publisher:   publisher,
			logger:      logger,
		},
		logger: logger,
	}
}

func (s *webhookService) ProcessCallback(ctx context.Context, query url.Values, body []byte) {
	result, err := payment.ParseCallback(query, body)
	if err != nil {
		s.logger.Error().Err(err).
			Int("body_bytes", len(body)).
			Msg("callback rejected")
		return
	}

	order, err := s.locateOrder(ctx, result)
	if err != nil {
		s.logger.Error().Err(err).
			Str("order_id", result.OrderID).
			Str("transaction_id", result.TransactionID).
			Msg("failed to locate order for callback")
		return
	}
	if order == nil {
		s.logger.Warn().
			Str("order_id", result.OrderID).
			Str("transaction_id", result.TransactionID).
			Str("order_id_source", result.OrderIDSource).
			Msg("callback references unknown order")
		return
	}

	log := s.logger.With().
		Str("order_id", order.ID.String()).
		Str("transaction_id", result.TransactionID).
		Str("status", string(result.Status)).
		Str("order_id_source", result.OrderIDSource).
		Logger()

	switch result.Status {
	case payment.StatusConfirmed:
		paymentResult := model.PaymentResult{
			ID:         result.TransactionID,
			Status:     string(result.Status),
			UpdateTime: result.UpdateTime,
		}
		applied, err := s.settler.settle(ctx, order, paymentResult)
		if err != nil {
			log.Error().Err(err).Msg("failed to settle webhook confirmation")
			return
		}
		if !applied {
			log.Info().Msg("webhook confirmation was a duplicate")
			return
		}
		log.Info().Msg("webhook confirmation settled")

	case payment.StatusRefunded:
		if !order.IsPaid {
			log.Warn().Msg("refund callback for unpaid order, ignoring")
			return
		}
		if order.Status == model.StatusRefunded {
			log.Info().Msg("refund callback was a duplicate")
			return
		}
		if _, err := s.settler.reverse(ctx, order, model.StatusRefunded); err != nil {
			log.Error().Err(err).Msg("failed to apply refund reversal")
			return
		}
		log.Info().Msg("webhook refund applied")

	case payment.StatusPending:
		log.Info().Msg("payment still pending at gateway")

	case payment.StatusFailed:
		// A declined or failed attempt cancels the order. The order was
		// never paid here, so the reversal carries no inventory credit.
		if order.IsPaid {
			log.Warn().Str("raw_status", result.RawStatus).Msg("failure callback for paid order, ignoring")
			return
		}
		if order.Status.Terminal() {
			log.Info().Msg("failure callback for settled order, ignoring")
			return
		}
		if _, err := s.settler.reverse(ctx, order, model.StatusCancelled); err != nil {
			log.Error().Err(err).Msg("failed to cancel order after payment failure")
			return
		}
		log.Info().Str("raw_status", result.RawStatus).Msg("payment attempt failed, order cancelled")

	default:
		log.Warn().Str("raw_status", result.RawStatus).Msg("unrecognized callback status")
	}
}

// locateOrder resolves the callback to an order, preferring the echoed
// internal order id and falling back to the stored gateway transaction id.
func (s *webhookService) locateOrder(ctx context.Context, result *payment.CallbackResult) (*model.Order, error) {
	if result.OrderID != "" {
		id, err := uuid.Parse(result.OrderID)
		if err != nil {
			s.logger.Warn().
				Str("order_id", result.OrderID).
				Str("order_id_source", result.OrderIDSource).
				Msg("callback order id is not a valid uuid")
		} else {
			order, err := s.orderRepo.GetByID(ctx, id)
			if err != nil || order != nil {
				return order, err
			}
		}
	}

	if result.TransactionID != "" {
		return s.orderRepo.GetByPaymentID(ctx, result.TransactionID)
	}

	return nil, nil
}
