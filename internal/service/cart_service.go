package service

import (
	"context"
	"fmt"
	"time"

	"swiftcart/internal/model"
	"swiftcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements cart operations. Items hold weak references into
// the catalog: lines whose product no longer resolves are kept but excluded
// from totals, and checkout rejects them later.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates the cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("component", "cart-service").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context, actor model.Actor) (*model.Cart, error) {
	cart, err := s.loadOrCreate(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, cart)
}

func (s *cartService) AddItem(ctx context.Context, actor model.Actor, req *model.AddCartItemRequest) (*model.Cart, error) {
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil || !product.Active {
		return nil, model.ErrProductNotFound
	}
	if product.Quantity < req.Quantity {
		return nil, &model.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Quantity,
		}
	}

	cart, err := s.loadOrCreate(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	item := &model.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Color:     req.Color,
		Size:      req.Size,
	}
	if err := s.cartRepo.UpsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.reload(ctx, actor.ID)
}

func (s *cartService) UpdateItem(ctx context.Context, actor model.Actor, productID string, req *model.UpdateCartItemRequest) (*model.Cart, error) {
	if req.Quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	if req.Quantity == 0 {
		found, err := s.cartRepo.RemoveItem(ctx, cart.ID, productID)
		if err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		if !found {
			return nil, model.ErrProductNotFound
		}
		return s.reload(ctx, actor.ID)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product != nil && product.Quantity < req.Quantity {
		return nil, &model.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Quantity,
		}
	}

	found, err := s.cartRepo.SetItemQuantity(ctx, cart.ID, productID, req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	return s.reload(ctx, actor.ID)
}

func (s *cartService) RemoveItem(ctx context.Context, actor model.Actor, productID string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	found, err := s.cartRepo.RemoveItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	return s.reload(ctx, actor.ID)
}

func (s *cartService) Clear(ctx context.Context, actor model.Actor) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	if err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	return s.reload(ctx, actor.ID)
}

func (s *cartService) loadOrCreate(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart != nil {
		return cart, nil
	}

	now := time.Now()
	cart = &model.Cart{ID: uuid.New(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return cart, nil
}

func (s *cartService) reload(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}
	return s.hydrate(ctx, cart)
}

// hydrate attaches live products to cart lines and recomputes totals from
// current prices, skipping lines whose product has disappeared. The derived
// totals are persisted so the stored row never drifts far from reality.
func (s *cartService) hydrate(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	if len(cart.Items) == 0 {
		if cart.TotalPrice != 0 || cart.TotalItems != 0 {
			cart.TotalPrice = 0
			cart.TotalItems = 0
			if err := s.cartRepo.UpdateTotals(ctx, cart.ID, 0, 0); err != nil {
				return nil, fmt.Errorf("failed to update cart totals: %w", err)
			}
		}
		return cart, nil
	}

	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}
	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var totalPrice float64
	var totalItems int
	for i := range cart.Items {
		product, ok := byID[cart.Items[i].ProductID]
		if !ok {
			s.logger.Debug().
				Str("cart_id", cart.ID.String()).
				Str("product_id", cart.Items[i].ProductID).
				Msg("cart line references missing product")
			continue
		}
		cart.Items[i].Product = product
		totalPrice += product.Price * float64(cart.Items[i].Quantity)
		totalItems += cart.Items[i].Quantity
	}
	totalPrice = roundToCents(totalPrice)

	if totalPrice != cart.TotalPrice || totalItems != cart.TotalItems {
		cart.TotalPrice = totalPrice
		cart.TotalItems = totalItems
		if err := s.cartRepo.UpdateTotals(ctx, cart.ID, totalPrice, totalItems); err != nil {
			return nil, fmt.Errorf("failed to update cart totals: %w", err)
		}
	}

	return cart, nil
}
