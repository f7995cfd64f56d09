package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopapi/config"
	"shopapi/payment"
)

// PaystackWebhook receives gateway-pushed payment events. Delivery is
// at-least-once and may race the verify poll; both funnel into the same
// guarded transitions in reconcile.go. Unknown references and duplicate
// events are acknowledged with 200 so the gateway stops retrying.
func PaystackWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false})
		return
	}

	signature := c.GetHeader("x-paystack-signature")
	if !payment.ValidSignature(body, signature, config.GetEnv("PAYSTACK_SECRET_KEY", "")) {
		logger.Warn().Msg("Rejected webhook with invalid signature")
		c.JSON(http.StatusBadRequest, gin.H{"status": false})
		return
	}

	var event payment.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch event.Event {
	case payment.EventChargeSuccess:
		order, err := findOrderByReference(ctx, event.Data.Reference)
		if err != nil {
			logger.Warn().Str("reference", event.Data.Reference).Msg("Webhook for unknown order reference")
			break
		}
		if _, err := applyPaymentSuccess(ctx, &order, event.Data); err != nil {
			logger.Error().Err(err).Str("reference", event.Data.Reference).Msg("Webhook success transition failed")
			c.JSON(http.StatusInternalServerError, gin.H{"status": false})
			return
		}

	case payment.EventChargeFailed:
		order, err := findOrderByReference(ctx, event.Data.Reference)
		if err != nil {
			logger.Warn().Str("reference", event.Data.Reference).Msg("Webhook for unknown order reference")
			break
		}
		if err := applyPaymentFailure(ctx, &order, event.Data.GatewayResponse, event.Data); err != nil {
			logger.Error().Err(err).Str("reference", event.Data.Reference).Msg("Webhook failure transition failed")
			c.JSON(http.StatusInternalServerError, gin.H{"status": false})
			return
		}

	default:
		// Other event types are acknowledged and ignored.
	}

	c.JSON(http.StatusOK, gin.H{"status": true})
}
