package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"swiftcart/internal/config"
	"swiftcart/internal/discount"
	"swiftcart/internal/events"
	"swiftcart/internal/model"
	"swiftcart/internal/payment"
	"swiftcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService orchestrates cart-to-order conversion, gateway intention
// creation and the synchronous payment-confirmation path.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	gateway     payment.Gateway
	registry    *payment.Registry
	discounts   discount.Validator
	gatewayCfg  config.GatewayConfig
	settler     *settler
	logger      zerolog.Logger
}

// NewCheckoutService creates the checkout orchestrator.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	gateway payment.Gateway,
	registry *payment.Registry,
	discounts discount.Validator,
	publisher events.Publisher,
	gatewayCfg config.GatewayConfig,
	logger zerolog.Logger,
) CheckoutService {
	logger = logger.With().Str("component", "checkout-service").Logger()
	return &checkoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		gateway:     gateway,
		registry:    registry,
		discounts:   discounts,
		gatewayCfg:  gatewayCfg,
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

// CreateOrder converts the actor's cart into an Initialized order. Prices,
// names and images are snapshotted from the live catalog; stock is validated
// but not decremented, so abandoned orders never hold inventory.
func (s *checkoutService) CreateOrder(ctx context.Context, actor model.Actor, req *model.CreateOrderRequest) (*model.Order, error) {
	method, ok := s.registry.Get(req.PaymentMethod)
	if !ok {
		return nil, model.ErrInvalidPaymentMethod
	}

	shipping, err := s.resolveShippingAddress(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, model.ErrCartEmpty
	}

	items, itemsPrice, err := s.buildOrderItems(ctx, cart)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, model.ErrCartEmpty
	}

	var discountAmount float64
	if req.DiscountCode != nil && *req.DiscountCode != "" {
		pct, err := s.discounts.PercentOff(ctx, strings.ToUpper(strings.TrimSpace(*req.DiscountCode)))
		if err != nil {
			return nil, err
		}
		discountAmount = roundToCents(itemsPrice * pct / 100)
	}

	if req.ShippingPrice < 0 || req.TaxPrice < 0 {
		return nil, model.NewValidationError("shippingPrice", "Shipping and tax must not be negative")
	}

	total := roundToCents(itemsPrice + req.TaxPrice + req.ShippingPrice - discountAmount)
	if total < 0 {
		total = 0
	}

	userID := actor.ID
	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          &userID,
		Items:           items,
		ShippingAddress: *shipping,
		PaymentMethod:   method.ID,
		ItemsPrice:      roundToCents(itemsPrice),
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		DiscountAmount:  discountAmount,
		Total:           total,
		Status:          model.StatusInitialized,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err := s.orderRepo.CreateItems(ctx, tx, order.Items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", actor.ID).
		Str("payment_method", method.ID).
		Float64("total", order.Total).
		Int("items", len(order.Items)).
		Msg("order created")

	return order, nil
}

// resolveShippingAddress picks the shipping target: an explicit address-book
// id, an inline snapshot, or the stored default, in that order.
func (s *checkoutService) resolveShippingAddress(ctx context.Context, actor model.Actor, req *model.CreateOrderRequest) (*model.AddressSnapshot, error) {
	if req.AddressID != nil {
		addr, err := s.addressRepo.GetByID(ctx, *req.AddressID, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load address: %w", err)
		}
		if addr == nil {
			return nil, model.ErrAddressNotFound
		}
		snap := addr.Snapshot()
		return &snap, nil
	}

	if req.ShippingAddress != nil {
		if !req.ShippingAddress.Complete() {
			return nil, model.ErrIncompleteAddress
		}
		return req.ShippingAddress, nil
	}

	addr, err := s.addressRepo.GetDefault(ctx, actor.ID, model.AddressShipping)
	if err != nil {
		return nil, fmt.Errorf("failed to load default address: %w", err)
	}
	if addr == nil {
		return nil, model.ErrIncompleteAddress
	}
	snap := addr.Snapshot()
	return &snap, nil
}

// buildOrderItems re-fetches every cart line's product and freezes name,
// price and image into order-item snapshots. A missing or inactive product,
// or one that cannot cover the requested quantity, fails the whole order.
func (s *checkoutService) buildOrderItems(ctx context.Context, cart *model.Cart) ([]model.OrderItem, float64, error) {
	items := make([]model.OrderItem, 0, len(cart.Items))
	var itemsPrice float64

	for _, line := range cart.Items {
		if line.Quantity <= 0 {
			continue
		}

		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load product %s: %w", line.ProductID, err)
		}
		if product == nil || !product.Active {
			return nil, 0, model.ErrProductNotFound
		}
		if product.Quantity < line.Quantity {
			return nil, 0, &model.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Quantity,
			}
		}

		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			Image:     product.Image,
			Color:     line.Color,
			Size:      line.Size,
		})
		itemsPrice += product.Price * float64(line.Quantity)
	}

	return items, itemsPrice, nil
}

// CreatePaymentIntention registers a gateway intention for an Initialized or
// Pending order. The order moves to Pending before the gateway call; a
// gateway failure reverts it so the customer can retry.
func (s *checkoutService) CreatePaymentIntention(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.PaymentIntentResponse, error) {
	order, err := s.loadOwnedOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if order.IsPaid {
		return nil, model.NewDomainError(model.ErrCodeAlreadyPaid, "Order is already paid")
	}
	if order.Status != model.StatusInitialized && order.Status != model.StatusPending {
		return nil, model.ErrInvalidStatus
	}

	method, ok := s.registry.Get(order.PaymentMethod)
	if !ok || method.Processor != payment.ProcessorGateway {
		return nil, model.ErrInvalidPaymentMethod
	}

	if err := s.orderRepo.SetStatus(ctx, order.ID, model.StatusPending); err != nil {
		return nil, fmt.Errorf("failed to mark order pending: %w", err)
	}

	intentionReq := payment.IntentionRequest{
		AmountCents:   payment.CentsFromAmount(order.Total),
		Currency:      s.gatewayCfg.Currency,
		Items:         intentionItems(order.Items),
		Billing:       billingFromSnapshot(order.ShippingAddress),
		OrderID:       order.ID.String(),
		UserID:        actor.ID,
		ShippingCents: payment.CentsFromAmount(order.ShippingPrice),
		TaxCents:      payment.CentsFromAmount(order.TaxPrice),
	}

	intention, err := s.gateway.CreateIntention(ctx, intentionReq)
	if err != nil {
		// Never leave the order stuck in Pending on a gateway failure.
		if revertErr := s.orderRepo.SetStatus(ctx, order.ID, model.StatusInitialized); revertErr != nil {
			s.logger.Error().Err(revertErr).
				Str("order_id", order.ID.String()).
				Msg("failed to revert order to Initialized after gateway failure")
		}
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("intention_id", intention.ID).
		Msg("payment intention created")

	return &model.PaymentIntentResponse{
		ClientSecret: intention.ClientSecret,
		IntentionID:  intention.ID,
		CheckoutURL:  s.gateway.CheckoutURL(intention.ClientSecret),
	}, nil
}

// ConfirmPayment is the synchronous confirmation path: the client relays the
// gateway result it received on redirect. Confirming an already-paid order
// returns the order unchanged.
func (s *checkoutService) ConfirmPayment(ctx context.Context, actor model.Actor, req *model.ConfirmPaymentRequest) (*model.Order, error) {
	order, err := s.loadOwnedOrder(ctx, actor, req.OrderID)
	if err != nil {
		return nil, err
	}

	if order.IsPaid {
		s.logger.Info().
			Str("order_id", order.ID.String()).
			Msg("duplicate confirmation for paid order")
		return order, nil
	}

	result, err := s.normalizeConfirmation(order, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.settler.settle(ctx, order, *result); err != nil {
		return nil, fmt.Errorf("failed to settle payment: %w", err)
	}

	return s.orderRepo.GetByID(ctx, order.ID)
}

// normalizeConfirmation extracts the gateway outcome from the relayed
// callback data. Manual methods (cash on delivery) confirm without one.
func (s *checkoutService) normalizeConfirmation(order *model.Order, req *model.ConfirmPaymentRequest) (*model.PaymentResult, error) {
	method, _ := s.registry.Get(order.PaymentMethod)
	if method.Processor == payment.ProcessorManual {
		return &model.PaymentResult{
			ID:         req.TransactionID,
			Status:     string(payment.StatusConfirmed),
			UpdateTime: time.Now().UTC(),
		}, nil
	}

	status := payment.StatusUnknown
	transactionID := req.TransactionID
	if req.CallbackData != nil {
		if raw, ok := req.CallbackData["success"]; ok {
			switch v := raw.(type) {
			case bool:
				if v {
					status = payment.StatusConfirmed
				} else {
					status = payment.StatusFailed
				}
			case string:
				if v == "true" {
					status = payment.StatusConfirmed
				} else {
					status = payment.StatusFailed
				}
			}
		}
		if raw, ok := req.CallbackData["status"].(string); ok && status == payment.StatusUnknown {
			status = payment.NormalizeStatus(raw)
		}
		if raw, ok := req.CallbackData["id"].(string); ok && transactionID == "" {
			transactionID = raw
		}
	}

	if status != payment.StatusConfirmed {
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("status", string(status)).
			Msg("confirmation relayed a non-successful payment")
		return nil, model.ErrPaymentNotConfirmed
	}

	return &model.PaymentResult{
		ID:         transactionID,
		Status:     string(status),
		UpdateTime: time.Now().UTC(),
	}, nil
}

// RedirectTarget builds the landing URL for the hosted-checkout redirect.
func (s *checkoutService) RedirectTarget(ctx context.Context, orderID string, success bool) string {
	base := s.gatewayCfg.SuccessURL
	if !success {
		base = s.gatewayCfg.FailureURL
	}
	if orderID == "" {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "orderId=" + orderID
}

func (s *checkoutService) loadOwnedOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
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

func intentionItems(items []model.OrderItem) []payment.IntentionItem {
	out := make([]payment.IntentionItem, 0, len(items))
	for _, item := range items {
		out = append(out, payment.IntentionItem{
			Name:        item.Name,
			AmountCents: payment.CentsFromAmount(item.UnitPrice),
			Description: item.Name,
			Quantity:    item.Quantity,
		})
	}
	return out
}

func billingFromSnapshot(addr model.AddressSnapshot) payment.BillingData {
	street := addr.Address
	return payment.FormatBilling(addr.Name, street, addr.Address2, addr.City, addr.State, addr.Country, addr.Phone, addr.Email)
}

func roundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
