package service

import (
	"context"
	"time"

	"swiftcart/internal/events"
	"swiftcart/internal/model"
	"swiftcart/internal/repository"

	"github.com/rs/zerolog"
)

// settler applies the payment-confirmation bundle shared by the
// synchronous confirmation path and the webhook reconciler: mark the order
// paid, decrement inventory per line item, and delete the owner's cart —
// all inside one transaction, guarded so gateway retries and double-clicks
// cannot duplicate financial effects.
type settler struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	publisher   events.Publisher
	logger      zerolog.Logger
}

// settle runs the bundle for a confirmed payment. It returns applied=false
// when the already-paid guard rejected the update, which callers treat as
// an idempotent success. On any error the transaction aborts and no effect
// is applied.
func (s *settler) settle(ctx context.Context, order *model.Order, result model.PaymentResult) (applied bool, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback settlement transaction")
			}
		}
	}()

	paidAt := time.Now()
	applied, err = s.orderRepo.MarkPaid(ctx, tx, order.ID, result, paidAt)
	if err != nil {
		return false, err
	}
	if !applied {
		// Already paid: roll back the empty transaction and report a no-op.
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback no-op settlement")
		}
		s.logger.Info().
			Str("order_id", order.ID.String()).
			Msg("order already paid, skipping settlement")
		return false, nil
	}

	for _, item := range order.Items {
		if _, err = s.productRepo.ApplyDelta(ctx, tx, item.ProductID, -item.Quantity, item.Quantity); err != nil {
			s.logger.Error().Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", item.ProductID).
				Msg("inventory decrement failed, aborting settlement")
			return false, err
		}
	}

	if order.UserID != nil {
		if err = s.cartRepo.DeleteByUser(ctx, tx, *order.UserID); err != nil {
			return false, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit settlement")
		return false, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("payment_id", result.ID).
		Int("items", len(order.Items)).
		Msg("payment settled")

	s.publish(ctx, events.OrderPaid, order, model.StatusProcessing)
	return true, nil
}

// reverse credits inventory back for an order whose payment effects were
// applied, as part of a Cancelled or Refunded transition. The status CAS
// guarantees the reversal runs at most once per order.
func (s *settler) reverse(ctx context.Context, order *model.Order, to model.OrderStatus) (applied bool, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback reversal transaction")
			}
		}
	}()

	applied, err = s.orderRepo.TransitionStatus(ctx, tx, order.ID, order.Status, to)
	if err != nil {
		return false, err
	}
	if !applied {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback no-op reversal")
		}
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("from", string(order.Status)).
			Str("to", string(to)).
			Msg("status moved concurrently, reversal skipped")
		return false, nil
	}

	if order.IsPaid {
		for _, item := range order.Items {
			if _, err = s.productRepo.ApplyDelta(ctx, tx, item.ProductID, item.Quantity, -item.Quantity); err != nil {
				s.logger.Error().Err(err).
					Str("order_id", order.ID.String()).
					Str("product_id", item.ProductID).
					Msg("inventory credit failed, aborting reversal")
				return false, err
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit reversal")
		return false, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("status", string(to)).
		Bool("inventory_credited", order.IsPaid).
		Msg("order reversed")

	switch to {
	case model.StatusCancelled:
		s.publish(ctx, events.OrderCancelled, order, to)
	case model.StatusRefunded:
		s.publish(ctx, events.OrderRefunded, order, to)
	}
	return true, nil
}

// publish emits a lifecycle event best-effort, after commit.
func (s *settler) publish(ctx context.Context, key string, order *model.Order, status model.OrderStatus) {
	event := events.OrderEvent{
		OrderID:    order.ID.String(),
		Status:     string(status),
		Total:      order.Total,
		OccurredAt: time.Now().UTC(),
	}
	if order.UserID != nil {
		event.UserID = *order.UserID
	}

	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.Warn().Err(err).
			Str("routing_key", key).
			Str("order_id", order.ID.String()).
			Msg("failed to publish order event")
	}
}
