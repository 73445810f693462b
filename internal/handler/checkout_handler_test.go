package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateOrder(ctx context.Context, actor model.Actor, req *model.CreateOrderRequest) (*model.Order, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockCheckoutService) CreatePaymentIntention(ctx context.Context, actor model.Actor, orderID uuid.UUID) (*model.PaymentIntentResponse, error) {
	args := m.Called(ctx, actor, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentIntentResponse), args.Error(1)
}

func (m *MockCheckoutService) ConfirmPayment(ctx context.Context, actor model.Actor, req *model.ConfirmPaymentRequest) (*model.Order, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockCheckoutService) RedirectTarget(ctx context.Context, orderID string, success bool) string {
	args := m.Called(ctx, orderID, success)
	return args.String(0)
}

func authenticatedRequest(method, path string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("X-User-Role", "customer")
	return req
}

func TestCheckoutHandler_CreateOrder_Success(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())

	userID := "user-1"
	svc.On("CreateOrder", mock.Anything, model.Actor{ID: "user-1", Role: "customer"}, mock.AnythingOfType("*model.CreateOrderRequest")).
		Return(&model.Order{ID: uuid.New(), UserID: &userID, Status: model.StatusInitialized}, nil)

	body := []byte(`{"paymentMethod":"credit_card","shippingAddress":{
		"name":"Jane","address":"1 Main St","city":"Cairo","state":"Cairo",
		"postalCode":"11511","country":"EG","phone":"+20100"}}`)
	w := httptest.NewRecorder()

	h.CreateOrder(w, authenticatedRequest(http.MethodPost, "/api/checkout/orders", body))

	assert.Equal(t, http.StatusCreated, w.Code)

	var order model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&order))
	assert.Equal(t, model.StatusInitialized, order.Status)
}

func TestCheckoutHandler_CreateOrder_MissingIdentity(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/orders", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()

	h.CreateOrder(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutHandler_CreateOrder_InvalidJSON(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())

	w := httptest.NewRecorder()
	h.CreateOrder(w, authenticatedRequest(http.MethodPost, "/api/checkout/orders", []byte(`{bad`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeInvalidJSON, resp.Error)
}

func TestCheckoutHandler_CreateOrder_StockErrorCarriesAvailable(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())

	svc.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &model.InsufficientStockError{ProductID: "P001", ProductName: "Widget", Available: 2})

	w := httptest.NewRecorder()
	h.CreateOrder(w, authenticatedRequest(http.MethodPost, "/api/checkout/orders", []byte(`{"paymentMethod":"credit_card"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeInsufficientStock, resp.Error)
	require.NotNil(t, resp.Available)
	assert.Equal(t, 2, *resp.Available)
}

func TestCheckoutHandler_CreateOrder_EmptyCartMapsToBadRequest(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())

	svc.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, model.ErrCartEmpty)

	w := httptest.NewRecorder()
	h.CreateOrder(w, authenticatedRequest(http.MethodPost, "/api/checkout/orders", []byte(`{"paymentMethod":"credit_card"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_CreateIntention_Success(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())
	orderID := uuid.New()

	svc.On("CreatePaymentIntention", mock.Anything, mock.Anything, orderID).
		Return(&model.PaymentIntentResponse{
			ClientSecret: "csk_abc",
			IntentionID:  "int_1",
			CheckoutURL:  "https://pay.example/unifiedcheckout/?clientSecret=csk_abc",
		}, nil)

	w := httptest.NewRecorder()
	h.CreateIntention(w, authenticatedRequest(http.MethodPost, "/api/checkout/orders/"+orderID.String()+"/intention", nil))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp model.PaymentIntentResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "csk_abc", resp.ClientSecret)
}

func TestCheckoutHandler_CreateIntention_GatewayErrorIsClientVisible(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())
	orderID := uuid.New()

	svc.On("CreatePaymentIntention", mock.Anything, mock.Anything, orderID).
		Return(nil, &model.GatewayError{Message: "gateway returned status 503"})

	w := httptest.NewRecorder()
	h.CreateIntention(w, authenticatedRequest(http.MethodPost, "/api/checkout/orders/"+orderID.String()+"/intention", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeGateway, resp.Error)
}

func TestCheckoutHandler_CreateIntention_BadOrderID(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())

	w := httptest.NewRecorder()
	h.CreateIntention(w, authenticatedRequest(http.MethodPost, "/api/checkout/orders/not-a-uuid/intention", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_ConfirmPayment_NotOwnerMapsToForbidden(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())
	orderID := uuid.New()

	svc.On("ConfirmPayment", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, model.ErrNotOrderOwner)

	body := []byte(`{"orderId":"` + orderID.String() + `"}`)
	w := httptest.NewRecorder()
	h.ConfirmPayment(w, authenticatedRequest(http.MethodPost, "/api/checkout/confirm", body))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCheckoutHandler_ConfirmPayment_MissingOrderID(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())

	w := httptest.NewRecorder()
	h.ConfirmPayment(w, authenticatedRequest(http.MethodPost, "/api/checkout/confirm", []byte(`{}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutHandler_Redirect(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())

	svc.On("RedirectTarget", mock.Anything, "order-1", true).Return("/payment-success?orderId=order-1")

	req := httptest.NewRequest(http.MethodGet, "/api/checkout/redirect?success=true&merchant_order_id=order-1", nil)
	w := httptest.NewRecorder()

	h.Redirect(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/payment-success?orderId=order-1", w.Header().Get("Location"))
}

func TestCheckoutHandler_Redirect_VoidedCountsAsFailure(t *testing.T) {
	svc := new(MockCheckoutService)
	h := NewCheckoutHandler(svc, zerolog.Nop())

	svc.On("RedirectTarget", mock.Anything, "order-1", false).Return("/payment-failed?orderId=order-1")

	req := httptest.NewRequest(http.MethodGet, "/api/checkout/redirect?success=true&is_voided=true&merchant_order_id=order-1", nil)
	w := httptest.NewRecorder()

	h.Redirect(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/payment-failed?orderId=order-1", w.Header().Get("Location"))
}
