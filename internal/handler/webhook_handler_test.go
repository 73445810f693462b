package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingWebhookService captures ProcessCallback invocations.
type recordingWebhookService struct {
	mu     sync.Mutex
	called chan struct{}
	query  url.Values
	body   []byte
}

func newRecordingWebhookService() *recordingWebhookService {
	return &recordingWebhookService{called: make(chan struct{}, 1)}
}

func (s *recordingWebhookService) ProcessCallback(ctx context.Context, query url.Values, body []byte) {
	s.mu.Lock()
	s.query = query
	s.body = body
	s.mu.Unlock()
	s.called <- struct{}{}
}

func TestWebhookHandler_AlwaysAcknowledges(t *testing.T) {
	svc := newRecordingWebhookService()
	h := NewWebhookHandler(svc, zerolog.Nop())

	body := []byte(`{"obj":{"id":1,"success":true,"order":{"merchant_order_id":"o1"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook?hmac=abc", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Handle(w, req)

	// The gateway gets its ack regardless of processing outcome
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]bool
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp["received"])

	// Processing happens detached from the request
	select {
	case <-svc.called:
	case <-time.After(2 * time.Second):
		t.Fatal("ProcessCallback was never invoked")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, "abc", svc.query.Get("hmac"))
	assert.JSONEq(t, string(body), string(svc.body))
}

func TestWebhookHandler_AcknowledgesGarbageBody(t *testing.T) {
	svc := newRecordingWebhookService()
	h := NewWebhookHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", bytes.NewReader([]byte(`{{{`)))
	w := httptest.NewRecorder()

	h.Handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookHandler_RejectsNonPost(t *testing.T) {
	svc := newRecordingWebhookService()
	h := NewWebhookHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/payment/webhook", nil)
	w := httptest.NewRecorder()

	h.Handle(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
