package payment

import (
	"testing"

	"swiftcart/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_KnownMethodsGetMetadata(t *testing.T) {
	registry, err := NewRegistry([]config.MethodSpec{
		{ID: "credit_card", Processor: ProcessorGateway},
		{ID: "cash_on_delivery", Processor: ProcessorManual},
	})
	require.NoError(t, err)

	methods := registry.List()
	require.Len(t, methods, 2)
	assert.Equal(t, "Credit Card", methods[0].Name)
	assert.Equal(t, ProcessorGateway, methods[0].Processor)
	assert.Equal(t, "Cash on Delivery", methods[1].Name)
	assert.Equal(t, ProcessorManual, methods[1].Processor)
}

func TestNewRegistry_UnknownMethodTitleized(t *testing.T) {
	registry, err := NewRegistry([]config.MethodSpec{
		{ID: "bank_transfer", Processor: ProcessorManual},
	})
	require.NoError(t, err)

	method, ok := registry.Get("bank_transfer")
	require.True(t, ok)
	assert.Equal(t, "Bank Transfer", method.Name)
}

func TestNewRegistry_RejectsUnknownProcessor(t *testing.T) {
	_, err := NewRegistry([]config.MethodSpec{
		{ID: "crypto", Processor: "blockchain"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported payment processor")
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]config.MethodSpec{
		{ID: "credit_card", Processor: ProcessorGateway},
		{ID: "credit_card", Processor: ProcessorManual},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistry_RejectsEmpty(t *testing.T) {
	_, err := NewRegistry(nil)
	require.Error(t, err)
}

func TestRegistry_GetUnknown(t *testing.T) {
	registry, err := NewRegistry([]config.MethodSpec{
		{ID: "credit_card", Processor: ProcessorGateway},
	})
	require.NoError(t, err)

	_, ok := registry.Get("carrier_pigeon")
	assert.False(t, ok)
}
