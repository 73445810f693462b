package discount

import (
	"context"
	"fmt"

	"swiftcart/internal/model"

	"github.com/rs/zerolog"
)

// Validator resolves discount codes to their percent-off value.
type Validator interface {
	// PercentOff returns the discount percentage for a code, or
	// model.ErrInvalidDiscountCode when the code is unknown.
	PercentOff(ctx context.Context, code string) (float64, error)
}

// validator implements Validator over a Set loaded at startup. The set is
// read-only after initialization, so lookups need no locking.
type validator struct {
	set    Set
	logger zerolog.Logger
}

// NewValidator creates a validator by loading the discount source once.
func NewValidator(ctx context.Context, source string, loader Loader, logger zerolog.Logger) (Validator, error) {
	logger = logger.With().Str("component", "discount-validator").Logger()

	set, err := loader.Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load discount codes: %w", err)
	}

	logger.Info().Int("codes", set.Size()).Msg("discount validator initialised")

	return &validator{set: set, logger: logger}, nil
}

// NewStaticValidator wraps an in-memory set; used when discounts are
// disabled or in tests.
func NewStaticValidator(set Set, logger zerolog.Logger) Validator {
	return &validator{
		set:    set,
		logger: logger.With().Str("component", "discount-validator").Logger(),
	}
}

func (v *validator) PercentOff(ctx context.Context, code string) (float64, error) {
	if code == "" {
		return 0, model.ErrInvalidDiscountCode
	}

	pct, ok := v.set.Lookup(code)
	if !ok {
		v.logger.Debug().Str("code", code).Msg("unknown discount code")
		return 0, model.ErrInvalidDiscountCode
	}

	return pct, nil
}

// Disabled returns a validator that rejects every code.
func Disabled(logger zerolog.Logger) Validator {
	return NewStaticValidator(NewMapSet(0), logger)
}
