package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shopapi/apperrors"
	"shopapi/database"
	"shopapi/models"
	"shopapi/notify"
)

// Payment reconciliation. Two entry points converge here: the client-polled
// verify endpoint and the gateway webhook. Either can arrive first, duplicated,
// or concurrently, so the success transition is a conditional update filtered
// on paymentStatus=pending. Only the call that wins that update decrements
// stock and sends notifications; every other delivery is a no-op that still
// reports success.

func findOrderByReference(ctx context.Context, reference string) (models.Order, error) {
	var order models.Order
	err := database.OrderCollection.FindOne(ctx, bson.M{"paymentDetails.reference": reference}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Order{}, apperrors.NotFound("No order found for reference " + reference)
		}
		return models.Order{}, err
	}
	return order, nil
}

// pendingSettlementFilter is the check-and-set condition both settlement paths
// update through: only an order still pending may transition. This filter is
// what makes a duplicate webhook or verify delivery a no-op.
func pendingSettlementFilter(orderID primitive.ObjectID) bson.M {
	return bson.M{"_id": orderID, "paymentStatus": models.PaymentStatusPending}
}

// settlementApplied reports whether this call won the conditional update and
// therefore owns the side effects (stock decrement, notifications).
func settlementApplied(result *mongo.UpdateResult) bool {
	return result.MatchedCount > 0
}

// applyPaymentSuccess performs the pending -> completed transition. Returns
// true when this call won the transition and applied the side effects.
func applyPaymentSuccess(ctx context.Context, order *models.Order, gatewayPayload interface{}) (bool, error) {
	result, err := database.OrderCollection.UpdateOne(ctx,
		pendingSettlementFilter(order.ID),
		bson.M{"$set": bson.M{
			"paymentStatus":                 models.PaymentStatusCompleted,
			"status":                        models.OrderStatusProcessing,
			"paymentDetails.gatewayPayload": gatewayPayload,
			"updatedAt":                     time.Now(),
		}},
	)
	if err != nil {
		return false, err
	}
	if !settlementApplied(result) {
		// Already settled by the other reconciliation path.
		return false, nil
	}

	order.PaymentStatus = models.PaymentStatusCompleted
	order.Status = models.OrderStatusProcessing

	decrementStock(ctx, order.Items)

	confirmed := *order
	go notify.Default().OrderConfirmation(&confirmed)
	go notify.Default().AdminNewOrder(&confirmed)

	return true, nil
}

// applyPaymentFailure marks a still-pending order failed. Settled orders are
// left alone so a late failure event never clobbers a completed payment.
func applyPaymentFailure(ctx context.Context, order *models.Order, reason string, gatewayPayload interface{}) error {
	result, err := database.OrderCollection.UpdateOne(ctx,
		pendingSettlementFilter(order.ID),
		bson.M{"$set": bson.M{
			"paymentStatus":                 models.PaymentStatusFailed,
			"paymentDetails.gatewayPayload": gatewayPayload,
			"updatedAt":                     time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if !settlementApplied(result) {
		return nil
	}

	order.PaymentStatus = models.PaymentStatusFailed

	failed := *order
	go notify.Default().AdminPaymentFailed(&failed, reason)

	return nil
}

// decrementStock applies one order's worth of inventory decrement, per item
// against the named variant's stock or the product's base stock. The $gte
// filter keeps the counter from going negative; an oversold counter is clamped
// to zero instead. Failures are logged and skipped: payment is already settled
// and inventory here is advisory, not authoritative.
func decrementStock(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		field := "stock"
		if item.VariantKey != "" {
			field = "variants." + item.VariantKey + ".stock"
		}

		result, err := database.ProductCollection.UpdateOne(ctx,
			bson.M{"_id": item.ProductID, field: bson.M{"$gte": item.Quantity}},
			bson.M{"$inc": bson.M{field: -item.Quantity}},
		)
		if err != nil {
			logger.Error().Err(err).Str("productId", item.ProductID.Hex()).Msg("Stock decrement failed")
			continue
		}
		if result.MatchedCount == 0 {
			// Less stock on record than was sold; floor at zero. The $exists
			// check keeps this from recreating a variant entry the admin
			// removed between checkout and settlement.
			_, err = database.ProductCollection.UpdateOne(ctx,
				bson.M{"_id": item.ProductID, field: bson.M{"$exists": true}},
				bson.M{"$set": bson.M{field: 0}},
			)
			if err != nil {
				logger.Error().Err(err).Str("productId", item.ProductID.Hex()).Msg("Stock floor update failed")
			}
		}

		checkLowStock(ctx, item)
	}
}

func checkLowStock(ctx context.Context, item models.OrderItem) {
	var product models.Product
	if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product); err != nil {
		return
	}

	threshold := product.LowStockThreshold
	if threshold == 0 {
		threshold = 5
	}

	remaining := product.Stock
	if item.VariantKey != "" {
		if v, ok := product.Variants[item.VariantKey]; ok {
			remaining = v.Stock
		}
	}

	if remaining <= threshold {
		go notify.Default().AdminLowStock(product.Name, item.VariantKey, remaining)
	}
}

// VerifyPayment is the client-polled reconciliation path: the frontend calls it
// after the customer returns from the hosted payment page.
func VerifyPayment(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		apperrors.Respond(c, apperrors.Validation("Payment reference is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	verifyResp, err := paystackClient().Verify(ctx, reference)
	if err != nil {
		apperrors.Respond(c, apperrors.PaymentGateway("Could not verify payment", err))
		return
	}

	order, err := findOrderByReference(ctx, reference)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if verifyResp.Data.Status == "success" {
		if _, err := applyPaymentSuccess(ctx, &order, verifyResp.Data); err != nil {
			apperrors.Respond(c, err)
			return
		}
	} else {
		if err := applyPaymentFailure(ctx, &order, verifyResp.Data.GatewayResponse, verifyResp.Data); err != nil {
			apperrors.Respond(c, err)
			return
		}
	}

	// Re-read so the response reflects whatever transition actually stuck,
	// including one applied earlier by the webhook.
	current, err := findOrderByReference(ctx, reference)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"paymentStatus": current.PaymentStatus,
		"orderStatus":   current.Status,
		"order":         current,
	}})
}
