package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"artmarket-app/config"
	"artmarket-app/internal/domain/orders"
	"artmarket-app/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSettler struct {
	gotInvoice string
	gotStatus  orders.Status
	calls      int
}

func (s *stubSettler) SettleInvoice(_ context.Context, invoiceNumber string, to orders.Status) (int64, error) {
	s.calls++
	s.gotInvoice = invoiceNumber
	s.gotStatus = to
	return 1, nil
}

func webhookRouter(settler *stubSettler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(payment.NewClient(payment.Config{}), settler)
	r.POST("/api/payments/webhook", h.Webhook)
	return r
}

func postWebhook(r *gin.Engine, token string, payload map[string]string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Callback-Token", token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsBadToken(t *testing.T) {
	config.PAYMENT_CALLBACK_TOKEN = "cb-secret"
	settler := &stubSettler{}
	r := webhookRouter(settler)

	w := postWebhook(r, "wrong", map[string]string{"invoiceNumber": "INV-1", "paymentStatus": "PAID"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postWebhook(r, "", map[string]string{"invoiceNumber": "INV-1", "paymentStatus": "PAID"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Zero(t, settler.calls)
}

func TestWebhookCompletesPaidInvoice(t *testing.T) {
	config.PAYMENT_CALLBACK_TOKEN = "cb-secret"
	settler := &stubSettler{}
	r := webhookRouter(settler)

	w := postWebhook(r, "cb-secret", map[string]string{"invoiceNumber": "INV-1", "paymentStatus": "PAID"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "INV-1", settler.gotInvoice)
	assert.Equal(t, orders.StatusCompleted, settler.gotStatus)
}

func TestWebhookFailsExpiredInvoice(t *testing.T) {
	config.PAYMENT_CALLBACK_TOKEN = "cb-secret"
	settler := &stubSettler{}
	r := webhookRouter(settler)

	w := postWebhook(r, "cb-secret", map[string]string{"invoiceNumber": "INV-2", "paymentStatus": "EXPIRED"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orders.StatusFailed, settler.gotStatus)
}

func TestWebhookIgnoresUnknownStatus(t *testing.T) {
	config.PAYMENT_CALLBACK_TOKEN = "cb-secret"
	settler := &stubSettler{}
	r := webhookRouter(settler)

	w := postWebhook(r, "cb-secret", map[string]string{"invoiceNumber": "INV-3", "paymentStatus": "PROCESSING"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, settler.calls)
	assert.JSONEq(t, `{"status":"ignored"}`, w.Body.String())
}
