package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"shopapi/models"
)

func webhookRequest(t *testing.T, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/webhook/paystack", bytes.NewReader(body))
	if signature != "" {
		c.Request.Header.Set("x-paystack-signature", signature)
	}

	PaystackWebhook(c)
	return w
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackWebhookRejectsBadSignature(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")

	body := []byte(`{"event":"charge.success","data":{"reference":"SHP-0000000001"}}`)

	t.Run("missing signature", func(t *testing.T) {
		w := webhookRequest(t, body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"status":false}`, w.Body.String())
	})

	t.Run("signature under the wrong secret", func(t *testing.T) {
		w := webhookRequest(t, body, sign(body, "some-other-secret"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"status":false}`, w.Body.String())
	})

	t.Run("tampered body", func(t *testing.T) {
		w := webhookRequest(t, []byte(`{"event":"charge.success","data":{"reference":"SHP-9999999999"}}`), sign(body, "sk_test_secret"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaystackWebhookAcknowledgesUnknownEvents(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_secret")

	body := []byte(`{"event":"transfer.success","data":{"reference":"TRF-123"}}`)
	w := webhookRequest(t, body, sign(body, "sk_test_secret"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":true}`, w.Body.String())
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusCompleted, true},
		{models.OrderStatusDelivered, models.OrderStatusProcessing, false},
		{models.OrderStatusCompleted, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, canTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
