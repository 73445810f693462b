package service

import (
	"context"
	"fmt"
	"time"

	"swiftcart/internal/events"
	"swiftcart/internal/model"
	"swiftcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements order reads and operator-driven lifecycle updates.
type orderService struct {
	orderRepo repository.OrderRepository
	settler   *settler
	logger    zerolog.Logger
}

// NewOrderService creates the order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	logger = logger.With().Str("component", "order-service").Logger()
	return &orderService{
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

func (s *orderService) GetByID(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if !actor.IsAdmin() && (order.UserID == nil || *order.UserID != actor.ID) {
		return nil, model.ErrNotOrderOwner
	}
	return order, nil
}

func (s *orderService) ListByUser(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Update applies operator changes: fulfillment fields freely, status moves
// through transition validation. Cancelling or refunding a paid order
// credits inventory back exactly once via the status compare-and-swap.
func (s *orderService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateOrderRequest) (*model.Order, error) {
	order, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if err := s.applyStatusChange(ctx, actor, order, *req.Status); err != nil {
			return nil, err
		}
	}

	if req.TrackingNumber != nil || req.Notes != nil || req.IsDelivered != nil {
		if !actor.IsAdmin() {
			return nil, model.ErrNotOrderOwner
		}
		var deliveredAt *time.Time
		if req.IsDelivered != nil && *req.IsDelivered {
			now := time.Now()
			deliveredAt = &now
		}
		if err := s.orderRepo.UpdateFulfillment(ctx, id, req.TrackingNumber, req.Notes, req.IsDelivered, deliveredAt); err != nil {
			return nil, fmt.Errorf("failed to update order: %w", err)
		}
	}

	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) applyStatusChange(ctx context.Context, actor model.Actor, order *model.Order, to model.OrderStatus) error {
	if !to.Valid() {
		return model.ErrInvalidStatus
	}
	if to == order.Status {
		return nil
	}
	if order.Status.Terminal() {
		return model.NewDomainError(model.ErrCodeValidation,
			fmt.Sprintf("Order is already %s", order.Status))
	}

	switch to {
	case model.StatusCancelled:
		// Owners may cancel their own unshipped orders; everything else is
		// operator territory.
		if !actor.IsAdmin() {
			if order.Status == model.StatusShipped || order.Status == model.StatusDelivered {
				return model.NewDomainError(model.ErrCodeValidation, "Shipped orders cannot be cancelled")
			}
		}
	case model.StatusRefunded:
		if !actor.IsAdmin() {
			return model.ErrNotOrderOwner
		}
		if !order.IsPaid {
			return model.NewDomainError(model.ErrCodeValidation, "Only paid orders can be refunded")
		}
	default:
		if !actor.IsAdmin() {
			return model.ErrNotOrderOwner
		}
	}

	if to == model.StatusCancelled || to == model.StatusRefunded {
		applied, err := s.settler.reverse(ctx, order, to)
		if err != nil {
			return fmt.Errorf("failed to apply status change: %w", err)
		}
		if !applied {
			return model.NewDomainError(model.ErrCodeValidation, "Order status changed concurrently, retry")
		}
		return nil
	}

	if err := s.orderRepo.SetStatus(ctx, order.ID, to); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("from", string(order.Status)).
		Str("to", string(to)).
		Msg("order status updated")
	return nil
}
