// Package payment wraps the Paystack hosted-checkout API: transaction
// initialization, verification by reference, and webhook signature checks.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

const ProviderName = "paystack"

type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		secretKey:  secretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type InitializeRequest struct {
	Email       string
	Amount      float64 // major units (naira); converted to kobo on the wire
	Reference   string
	CallbackURL string
	Metadata    map[string]interface{}
}

type InitializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type VerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID              int64                  `json:"id"`
		Status          string                 `json:"status"`
		Reference       string                 `json:"reference"`
		Amount          int64                  `json:"amount"`
		GatewayResponse string                 `json:"gateway_response"`
		PaidAt          string                 `json:"paid_at"`
		Channel         string                 `json:"channel"`
		Currency        string                 `json:"currency"`
		Customer        map[string]interface{} `json:"customer"`
	} `json:"data"`
}

// MinorUnits converts a naira amount to integer kobo for the gateway.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Initialize creates a hosted-checkout transaction and returns the
// authorization URL the customer is redirected to.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	payload := map[string]interface{}{
		"email":     req.Email,
		"amount":    MinorUnits(req.Amount),
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}
	if req.Metadata != nil {
		payload["metadata"] = req.Metadata
	}

	var out InitializeResponse
	if err := c.post(ctx, "/transaction/initialize", payload, &out); err != nil {
		return nil, err
	}
	if !out.Status || out.Data.AuthorizationURL == "" {
		return &out, fmt.Errorf("paystack initialize failed: %s", out.Message)
	}
	return &out, nil
}

// Verify fetches the settled state of a transaction by reference.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("paystack verify: decoding response: %w", err)
	}
	if !out.Status {
		return &out, fmt.Errorf("paystack verify failed: %s", out.Message)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("paystack %s: decoding response: %w", path, err)
	}
	return nil
}

// ValidSignature verifies the x-paystack-signature header: hex HMAC-SHA-512 of
// the raw webhook body under the secret key.
func ValidSignature(body []byte, signature, secretKey string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookEvent is the subset of the webhook payload reconciliation needs.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		ID              int64  `json:"id"`
		Reference       string `json:"reference"`
		Status          string `json:"status"`
		Amount          int64  `json:"amount"`
		GatewayResponse string `json:"gateway_response"`
	} `json:"data"`
}

const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)
