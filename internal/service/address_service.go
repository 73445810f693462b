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

// addressService implements the address-book operations checkout depends on.
type addressService struct {
	addressRepo repository.AddressRepository
	logger      zerolog.Logger
}

// NewAddressService creates the address service.
func NewAddressService(addressRepo repository.AddressRepository, logger zerolog.Logger) AddressService {
	return &addressService{
		addressRepo: addressRepo,
		logger:      logger.With().Str("component", "address-service").Logger(),
	}
}

func (s *addressService) Create(ctx context.Context, actor model.Actor, req *model.CreateAddressRequest) (*model.Address, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	address := &model.Address{
		ID:           uuid.New(),
		UserID:       actor.ID,
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Phone:        req.Phone,
		Type:         req.Type,
		IsDefault:    req.IsDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	s.logger.Info().
		Str("address_id", address.ID.String()).
		Str("user_id", actor.ID).
		Str("type", string(address.Type)).
		Bool("is_default", address.IsDefault).
		Msg("address created")

	return address, nil
}

func (s *addressService) List(ctx context.Context, actor model.Actor) ([]model.Address, error) {
	addresses, err := s.addressRepo.List(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

func (s *addressService) SetDefault(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Address, error) {
	address, err := s.addressRepo.SetDefault(ctx, id, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to set default address: %w", err)
	}
	if address == nil {
		return nil, model.ErrAddressNotFound
	}
	return address, nil
}
