package service

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newWebhookService(t *testing.T) (WebhookService, *checkoutMocks) {
	t.Helper()

	m := &checkoutMocks{
		orderRepo:   new(MockOrderRepository),
		productRepo: new(MockProductRepository),
		cartRepo:    new(MockCartRepository),
		publisher:   new(MockPublisher),
	}
	svc := NewWebhookService(m.orderRepo, m.productRepo, m.cartRepo, m.publisher, zerolog.Nop())
	return svc, m
}

func successBody(orderID uuid.UUID, txnID int) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"TRANSACTION","obj":{"id":%d,"success":true,"payment_key_claims":{"extra":{"orderId":%q}}}}`,
		txnID, orderID.String(),
	))
}

func TestWebhookService_ConfirmedCallbackSettles(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()
	orderID := uuid.New()
	userID := "user-1"

	order := &model.Order{
		ID: orderID, UserID: &userID, Status: model.StatusPending,
		Items: []model.OrderItem{{ProductID: "P001", Quantity: 2}},
	}

	tx := new(MockTx)
	tx.On("Commit", ctx).Return(nil)
	m.orderRepo.On("GetByID", ctx, orderID).Return(order, nil)
	m.orderRepo.On("BeginTx", ctx).Return(tx, nil)
	m.orderRepo.On("MarkPaid", ctx, tx, orderID, mock.AnythingOfType("model.PaymentResult"), mock.AnythingOfType("time.Time")).
		Return(true, nil)
	m.productRepo.On("ApplyDelta", ctx, tx, "P001", -2, 2).
		Return(&model.Product{ID: "P001"}, nil)
	m.cartRepo.On("DeleteByUser", ctx, tx, "user-1").Return(nil)
	m.publisher.On("Publish", mock.Anything, "order.paid", mock.AnythingOfType("events.OrderEvent")).Return(nil)

	svc.ProcessCallback(ctx, url.Values{}, successBody(orderID, 991))

	assert.True(t, tx.committed)
	m.orderRepo.AssertExpectations(t)
	m.productRepo.AssertExpectations(t)
	m.cartRepo.AssertExpectations(t)
}

func TestWebhookService_DuplicateCallbackIsNoOp(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()
	orderID := uuid.New()
	userID := "user-1"

	order := &model.Order{
		ID: orderID, UserID: &userID, Status: model.StatusProcessing, IsPaid: true,
		Items: []model.OrderItem{{ProductID: "P001", Quantity: 2}},
	}

	tx := new(MockTx)
	tx.On("Rollback", ctx).Return(nil)
	m.orderRepo.On("GetByID", ctx, orderID).Return(order, nil)
	m.orderRepo.On("BeginTx", ctx).Return(tx, nil)
	// The already-paid guard rejects the update
	m.orderRepo.On("MarkPaid", ctx, tx, orderID, mock.AnythingOfType("model.PaymentResult"), mock.AnythingOfType("time.Time")).
		Return(false, nil)

	svc.ProcessCallback(ctx, url.Values{}, successBody(orderID, 991))

	assert.True(t, tx.rolledBack)
	// Inventory must not be touched twice
	m.productRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.cartRepo.AssertNotCalled(t, "DeleteByUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookService_RefundCallbackReverses(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()
	orderID := uuid.New()
	userID := "user-1"

	order := &model.Order{
		ID: orderID, UserID: &userID, Status: model.StatusProcessing, IsPaid: true,
		Items: []model.OrderItem{{ProductID: "P001", Quantity: 2}},
	}

	tx := new(MockTx)
	tx.On("Commit", ctx).Return(nil)
	m.orderRepo.On("GetByID", ctx, orderID).Return(order, nil)
	m.orderRepo.On("BeginTx", ctx).Return(tx, nil)
	m.orderRepo.On("TransitionStatus", ctx, tx, orderID, model.StatusProcessing, model.StatusRefunded).
		Return(true, nil)
	m.productRepo.On("ApplyDelta", ctx, tx, "P001", 2, -2).
		Return(&model.Product{ID: "P001"}, nil)
	m.publisher.On("Publish", mock.Anything, "order.refunded", mock.AnythingOfType("events.OrderEvent")).Return(nil)

	body := []byte(fmt.Sprintf(
		`{"obj":{"id":991,"success":true,"is_refunded":true,"payment_key_claims":{"extra":{"orderId":%q}}}}`,
		orderID.String(),
	))
	svc.ProcessCallback(ctx, url.Values{}, body)

	assert.True(t, tx.committed)
	m.productRepo.AssertExpectations(t)
}

func TestWebhookService_RefundForUnpaidOrderIgnored(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()
	orderID := uuid.New()
	userID := "user-1"

	m.orderRepo.On("GetByID", ctx, orderID).Return(&model.Order{
		ID: orderID, UserID: &userID, Status: model.StatusPending,
	}, nil)

	body := []byte(fmt.Sprintf(
		`{"obj":{"id":991,"success":true,"is_refunded":true,"payment_key_claims":{"extra":{"orderId":%q}}}}`,
		orderID.String(),
	))
	svc.ProcessCallback(ctx, url.Values{}, body)

	m.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestWebhookService_FailedCallbackCancelsOrder(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()
	orderID := uuid.New()
	userID := "user-1"

	order := &model.Order{
		ID: orderID, UserID: &userID, Status: model.StatusPending,
		Items: []model.OrderItem{{ProductID: "P001", Quantity: 2}},
	}

	tx := new(MockTx)
	tx.On("Commit", ctx).Return(nil)
	m.orderRepo.On("GetByID", ctx, orderID).Return(order, nil)
	m.orderRepo.On("BeginTx", ctx).Return(tx, nil)
	m.orderRepo.On("TransitionStatus", ctx, tx, orderID, model.StatusPending, model.StatusCancelled).
		Return(true, nil)
	m.publisher.On("Publish", mock.Anything, "order.cancelled", mock.AnythingOfType("events.OrderEvent")).Return(nil)

	body := []byte(fmt.Sprintf(
		`{"obj":{"id":991,"success":false,"payment_key_claims":{"extra":{"orderId":%q}}}}`,
		orderID.String(),
	))
	svc.ProcessCallback(ctx, url.Values{}, body)

	assert.True(t, tx.committed)
	// The order was never paid, so no inventory credit is applied
	m.productRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookService_FailedCallbackForPaidOrderIgnored(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()
	orderID := uuid.New()
	userID := "user-1"

	m.orderRepo.On("GetByID", ctx, orderID).Return(&model.Order{
		ID: orderID, UserID: &userID, Status: model.StatusProcessing, IsPaid: true,
	}, nil)

	body := []byte(fmt.Sprintf(
		`{"obj":{"id":991,"success":false,"payment_key_claims":{"extra":{"orderId":%q}}}}`,
		orderID.String(),
	))
	svc.ProcessCallback(ctx, url.Values{}, body)

	m.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestWebhookService_FallsBackToPaymentIDLookup(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()
	orderID := uuid.New()
	userID := "user-1"

	order := &model.Order{
		ID: orderID, UserID: &userID, Status: model.StatusPending,
		Items: []model.OrderItem{{ProductID: "P001", Quantity: 1}},
	}

	tx := new(MockTx)
	tx.On("Commit", ctx).Return(nil)
	m.orderRepo.On("GetByPaymentID", ctx, "991").Return(order, nil)
	m.orderRepo.On("BeginTx", ctx).Return(tx, nil)
	m.orderRepo.On("MarkPaid", ctx, tx, orderID, mock.AnythingOfType("model.PaymentResult"), mock.AnythingOfType("time.Time")).
		Return(true, nil)
	m.productRepo.On("ApplyDelta", ctx, tx, "P001", -1, 1).
		Return(&model.Product{ID: "P001"}, nil)
	m.cartRepo.On("DeleteByUser", ctx, tx, "user-1").Return(nil)
	m.publisher.On("Publish", mock.Anything, "order.paid", mock.AnythingOfType("events.OrderEvent")).Return(nil)

	// Body carries no order id at all, only the transaction id
	body := []byte(`{"obj":{"id":991,"success":true}}`)
	svc.ProcessCallback(ctx, url.Values{}, body)

	assert.True(t, tx.committed)
	m.orderRepo.AssertCalled(t, "GetByPaymentID", ctx, "991")
}

func TestWebhookService_UnknownOrderLoggedNotFatal(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()
	orderID := uuid.New()

	m.orderRepo.On("GetByID", ctx, orderID).Return(nil, nil)
	m.orderRepo.On("GetByPaymentID", ctx, "991").Return(nil, nil)

	svc.ProcessCallback(ctx, url.Values{}, successBody(orderID, 991))

	m.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestWebhookService_AmbiguousCallbackRejected(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()
	orderID := uuid.New()

	// Body says success, query says failure: refuse to guess
	query := url.Values{"success": {"false"}}
	svc.ProcessCallback(ctx, query, successBody(orderID, 991))

	m.orderRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	m.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}
