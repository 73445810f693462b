package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBilling(t *testing.T) {
	billing := FormatBilling(
		"Jane Van Der Berg", "1 Main St", "Apt 4", "Cairo", "Cairo", "EG",
		"+201000000000", "jane@example.com",
	)

	assert.Equal(t, "Jane", billing.FirstName)
	assert.Equal(t, "Van Der Berg", billing.LastName)
	assert.Equal(t, "1 Main St", billing.Street)
	assert.Equal(t, "Apt 4", billing.Apartment)
	assert.Equal(t, "jane@example.com", billing.Email)
	// Fields the snapshot never carries are placeholdered
	assert.Equal(t, "NA", billing.Building)
	assert.Equal(t, "NA", billing.Floor)
}

func TestFormatBilling_MissingFieldsPlaceholdered(t *testing.T) {
	billing := FormatBilling("Cher", "", "", "", "", "", "", "")

	assert.Equal(t, "Cher", billing.FirstName)
	assert.Equal(t, "NA", billing.LastName)
	assert.Equal(t, "NA", billing.Street)
	assert.Equal(t, "NA", billing.City)
	assert.Equal(t, "customer@example.com", billing.Email)
}

func TestCentsFromAmount(t *testing.T) {
	assert.Equal(t, int64(1050), CentsFromAmount(10.50))
	assert.Equal(t, int64(0), CentsFromAmount(0))
	// 19.99 is not exactly representable; rounding must not truncate
	assert.Equal(t, int64(1999), CentsFromAmount(19.99))
	assert.Equal(t, int64(10), CentsFromAmount(0.1))
}

func TestAmountFromCents(t *testing.T) {
	assert.Equal(t, 10.50, AmountFromCents(1050))
	assert.Equal(t, 19.99, AmountFromCents(1999))
}
