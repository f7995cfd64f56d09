package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopapi/apperrors"
	"shopapi/models"
)

func TestNormalizeVariants(t *testing.T) {
	t.Run("rekeys by color and size", func(t *testing.T) {
		in := map[string]models.Variant{
			"whatever": {Color: "Red", Size: "M", Price: 5500, Stock: 3},
		}
		out, err := normalizeVariants(in)
		require.NoError(t, err)
		require.Contains(t, out, models.VariantKey("Red", "M"))
		assert.Equal(t, 5500.0, out["Red:M"].Price)
	})

	t.Run("rejects attributes unusable in a field path", func(t *testing.T) {
		for _, v := range []models.Variant{
			{Color: "Red", Size: "7.5"},
			{Color: "Red:Dark", Size: "M"},
			{Color: "$set", Size: "M"},
		} {
			_, err := normalizeVariants(map[string]models.Variant{"k": v})
			require.Error(t, err)
			var verr *apperrors.ValidationError
			assert.ErrorAs(t, err, &verr)
		}
	})

	t.Run("empty map passes through", func(t *testing.T) {
		out, err := normalizeVariants(nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestPurchasableFilter(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	filter := purchasableFilter(ids)

	assert.Equal(t, true, filter["isActive"], "checkout must not load deactivated products")
	assert.Equal(t, bson.M{"$in": ids}, filter["_id"])
}
