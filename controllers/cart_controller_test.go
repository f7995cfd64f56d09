package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartRemovalFilter(t *testing.T) {
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	t.Run("variant scoped", func(t *testing.T) {
		filter := cartRemovalFilter(userID, productID, "Red", "M")
		assert.Equal(t, bson.M{
			"userId":    userID,
			"productId": productID,
			"color":     "Red",
			"size":      "M",
		}, filter, "removal with a variant given must not touch other variant lines")
	})

	t.Run("size only", func(t *testing.T) {
		filter := cartRemovalFilter(userID, productID, "", "M")
		assert.Equal(t, "M", filter["size"])
		assert.Equal(t, "", filter["color"])
	})

	t.Run("whole product", func(t *testing.T) {
		filter := cartRemovalFilter(userID, productID, "", "")
		assert.Equal(t, bson.M{"userId": userID, "productId": productID}, filter)
	})
}
