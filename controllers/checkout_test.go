package controllers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopapi/apperrors"
	"shopapi/models"
	"shopapi/shipping"
)

func fixtureProducts() (map[string]models.Product, models.Product, models.Product) {
	plain := models.Product{
		ID:    primitive.NewObjectID(),
		Name:  "Mug",
		Price: 2000,
		Stock: 10,
	}
	shirt := models.Product{
		ID:    primitive.NewObjectID(),
		Name:  "Ankara Shirt",
		Price: 5000,
		Stock: 20,
		Variants: map[string]models.Variant{
			models.VariantKey("Red", "M"): {Color: "Red", Size: "M", Price: 5500, Stock: 2, SKU: "ANK-RED-M"},
		},
	}
	products := map[string]models.Product{
		plain.ID.Hex(): plain,
		shirt.ID.Hex(): shirt,
	}
	return products, plain, shirt
}

func TestBuildOrderItems(t *testing.T) {
	products, plain, shirt := fixtureProducts()

	t.Run("captures price and variant at build time", func(t *testing.T) {
		items, err := buildOrderItems(products, []checkoutItemRequest{
			{ProductID: plain.ID.Hex(), Quantity: 2},
			{ProductID: shirt.ID.Hex(), Quantity: 1, Color: "Red", Size: "M"},
		})
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, 2000.0, items[0].Price)
		assert.Empty(t, items[0].VariantKey)

		assert.Equal(t, 5500.0, items[1].Price, "variant price wins over base price")
		assert.Equal(t, "Red:M", items[1].VariantKey)
		assert.Equal(t, "ANK-RED-M", items[1].SKU)
	})

	t.Run("stock violation aborts with no items", func(t *testing.T) {
		items, err := buildOrderItems(products, []checkoutItemRequest{
			{ProductID: plain.ID.Hex(), Quantity: 1},
			{ProductID: shirt.ID.Hex(), Quantity: 3, Color: "Red", Size: "M"},
		})
		require.Error(t, err)
		assert.Nil(t, items, "all-or-nothing: no partial item list")

		var validationErr *apperrors.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Contains(t, validationErr.Message, "Ankara Shirt")
		assert.Contains(t, validationErr.Message, "Red:M")
	})

	t.Run("missing variant is a not-found error naming the variant", func(t *testing.T) {
		_, err := buildOrderItems(products, []checkoutItemRequest{
			{ProductID: shirt.ID.Hex(), Quantity: 1, Color: "Green", Size: "XL"},
		})
		require.Error(t, err)

		var notFoundErr *apperrors.NotFoundError
		require.True(t, errors.As(err, &notFoundErr))
		assert.Contains(t, notFoundErr.Message, "Green:XL")
	})

	t.Run("unknown product is a not-found error", func(t *testing.T) {
		_, err := buildOrderItems(products, []checkoutItemRequest{
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 1},
		})
		var notFoundErr *apperrors.NotFoundError
		require.True(t, errors.As(err, &notFoundErr))
	})
}

func TestOrderTotals(t *testing.T) {
	products, plain, _ := fixtureProducts()

	// Guest checkout scenario: one item, price 2000, qty 2, interstate
	// shipping at 2000.
	items, err := buildOrderItems(products, []checkoutItemRequest{
		{ProductID: plain.ID.Hex(), Quantity: 2},
	})
	require.NoError(t, err)

	subtotal := productAmount(items)
	assert.Equal(t, 4000.0, subtotal)

	delivery := shipping.Quote{Method: "South West", Cost: 2000}
	assert.Equal(t, 6000.0, orderTotal(subtotal, delivery))

	pickup := shipping.Quote{Method: "Store Pickup", IsPickup: true}
	assert.Equal(t, 4000.0, orderTotal(subtotal, pickup), "pickup never adds shipping")

	free := shipping.Quote{Method: "South West", Cost: 0}
	assert.Equal(t, 4000.0, orderTotal(subtotal, free))
}

func TestProductAmount(t *testing.T) {
	assert.Equal(t, 0.0, productAmount(nil))
	assert.Equal(t, 17000.0, productAmount([]models.OrderItem{
		{Price: 5500, Quantity: 2},
		{Price: 2000, Quantity: 3},
	}))
}
