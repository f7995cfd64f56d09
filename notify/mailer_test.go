package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shopapi/models"
)

func TestOrderSummary(t *testing.T) {
	order := &models.Order{
		OrderNumber: "ORD-1-0001",
		Items: []models.OrderItem{
			{Name: "Mug", Quantity: 2, Price: 2000},
			{Name: "Ankara Shirt", Quantity: 1, Price: 5500, Color: "Red", Size: "M"},
		},
		ProductAmount: 9500,
		ShippingCost:  2000,
		TotalAmount:   11500,
	}

	summary := orderSummary(order)
	assert.Contains(t, summary, "2x Mug - NGN 4000.00")
	assert.Contains(t, summary, "1x Ankara Shirt (Red/M) - NGN 5500.00")
	assert.Contains(t, summary, "Subtotal: NGN 9500.00")
	assert.Contains(t, summary, "Shipping: NGN 2000.00")
	assert.Contains(t, summary, "Total: NGN 11500.00")
}

func TestSendWithoutRecipientIsNoop(t *testing.T) {
	m := &Mailer{}
	// Admin email unset: admin notifications silently drop.
	m.AdminNewOrder(&models.Order{OrderNumber: "ORD-1-0002"})
}
