package discount

import (
	"context"
	"testing"

	"swiftcart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_PercentOff(t *testing.T) {
	set := NewMapSet(2)
	set.Add("WELCOME10", 10)
	set.Add("VIP25", 25)
	v := NewStaticValidator(set, zerolog.Nop())

	pct, err := v.PercentOff(context.Background(), "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, 10.0, pct)

	pct, err = v.PercentOff(context.Background(), "VIP25")
	require.NoError(t, err)
	assert.Equal(t, 25.0, pct)
}

func TestValidator_UnknownCode(t *testing.T) {
	v := NewStaticValidator(NewMapSet(0), zerolog.Nop())

	_, err := v.PercentOff(context.Background(), "NOPE")
	assert.ErrorIs(t, err, model.ErrInvalidDiscountCode)
}

func TestValidator_EmptyCode(t *testing.T) {
	v := NewStaticValidator(NewMapSet(0), zerolog.Nop())

	_, err := v.PercentOff(context.Background(), "")
	assert.ErrorIs(t, err, model.ErrInvalidDiscountCode)
}

func TestDisabled_RejectsEverything(t *testing.T) {
	v := Disabled(zerolog.Nop())

	_, err := v.PercentOff(context.Background(), "WELCOME10")
	assert.ErrorIs(t, err, model.ErrInvalidDiscountCode)
}
