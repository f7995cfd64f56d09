package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(600000), MinorUnits(6000))
	assert.Equal(t, int64(199999), MinorUnits(1999.99))
	assert.Equal(t, int64(0), MinorUnits(0))
	// Rounding guards against float drift on two-decimal amounts.
	assert.Equal(t, int64(1010), MinorUnits(10.10))
}

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidSignature(t *testing.T) {
	secret := "sk_test_abc123"
	body := []byte(`{"event":"charge.success","data":{"reference":"SHP-0000000001"}}`)

	assert.True(t, ValidSignature(body, signBody(body, secret), secret))
	assert.False(t, ValidSignature(body, signBody(body, "wrong-secret"), secret))
	assert.False(t, ValidSignature(body, "", secret))
	assert.False(t, ValidSignature([]byte("tampered"), signBody(body, secret), secret))
}

func TestInitialize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		require.Equal(t, "Bearer sk_test_abc123", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "buyer@example.com", payload["email"])
		assert.Equal(t, float64(600000), payload["amount"], "amount must be sent in kobo")
		assert.Equal(t, "SHP-0000000001", payload["reference"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.paystack.com/abc",
				"access_code":       "abc",
				"reference":         "SHP-0000000001",
			},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_abc123", server.URL)
	resp, err := client.Initialize(context.Background(), InitializeRequest{
		Email:     "buyer@example.com",
		Amount:    6000,
		Reference: "SHP-0000000001",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", resp.Data.AuthorizationURL)
	assert.Equal(t, "abc", resp.Data.AccessCode)
}

func TestInitializeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_bad", server.URL)
	_, err := client.Initialize(context.Background(), InitializeRequest{
		Email:     "buyer@example.com",
		Amount:    6000,
		Reference: "SHP-0000000002",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/SHP-0000000001", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"id":               12345,
				"status":           "success",
				"reference":        "SHP-0000000001",
				"amount":           600000,
				"gateway_response": "Successful",
			},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_abc123", server.URL)
	resp, err := client.Verify(context.Background(), "SHP-0000000001")
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Data.Status)
	assert.Equal(t, int64(600000), resp.Data.Amount)
}

func TestVerifyFailedCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"status":           "failed",
				"reference":        "SHP-0000000003",
				"gateway_response": "Declined",
			},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_abc123", server.URL)
	resp, err := client.Verify(context.Background(), "SHP-0000000003")
	require.NoError(t, err, "a settled-but-declined charge is not a transport error")
	assert.Equal(t, "failed", resp.Data.Status)
}
