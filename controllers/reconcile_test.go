package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shopapi/models"
)

func TestPendingSettlementFilter(t *testing.T) {
	orderID := primitive.NewObjectID()
	filter := pendingSettlementFilter(orderID)

	assert.Equal(t, orderID, filter["_id"])
	assert.Equal(t, models.PaymentStatusPending, filter["paymentStatus"],
		"settlement must be conditional on the order still being pending")
}

func TestSettlementApplied(t *testing.T) {
	assert.True(t, settlementApplied(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}))
	assert.False(t, settlementApplied(&mongo.UpdateResult{}),
		"a settlement that matched nothing owns no side effects")
}

// settledOrderDoc mimics the store's check-and-set: the update matches only
// when the document satisfies the filter's paymentStatus condition.
type settledOrderDoc struct {
	paymentStatus string
}

func (d *settledOrderDoc) conditionalUpdate(filter bson.M, newStatus string) *mongo.UpdateResult {
	if d.paymentStatus != filter["paymentStatus"] {
		return &mongo.UpdateResult{}
	}
	d.paymentStatus = newStatus
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}
}

func TestDuplicateSuccessDeliveriesDecrementOnce(t *testing.T) {
	orderID := primitive.NewObjectID()
	doc := &settledOrderDoc{paymentStatus: models.PaymentStatusPending}
	stock := 10
	quantity := 2

	// Webhook and verify race to the same conditional update; each decrements
	// only when it won.
	for delivery := 0; delivery < 2; delivery++ {
		result := doc.conditionalUpdate(pendingSettlementFilter(orderID), models.PaymentStatusCompleted)
		if settlementApplied(result) {
			stock -= quantity
		}
	}

	assert.Equal(t, models.PaymentStatusCompleted, doc.paymentStatus)
	assert.Equal(t, 8, stock, "stock must be decremented exactly once")
}

func TestSettlementGuardTable(t *testing.T) {
	orderID := primitive.NewObjectID()
	tests := []struct {
		name    string
		current string
		applies bool
	}{
		{"pending order settles", models.PaymentStatusPending, true},
		{"completed order is terminal", models.PaymentStatusCompleted, false},
		{"failed order does not settle", models.PaymentStatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &settledOrderDoc{paymentStatus: tt.current}
			result := doc.conditionalUpdate(pendingSettlementFilter(orderID), models.PaymentStatusCompleted)
			require.Equal(t, tt.applies, settlementApplied(result))
			if !tt.applies {
				assert.Equal(t, tt.current, doc.paymentStatus, "a losing delivery must not touch the order")
			}
		})
	}
}
