package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopapi/apperrors"
	"shopapi/database"
	"shopapi/models"
)

func GetOrders(c *gin.Context) {
	userId, _ := c.Get("userId")
	objUserID, _ := primitive.ObjectIDFromHex(userId.(string))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.OrderCollection.Find(ctx, bson.M{"userId": objUserID}, opts)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

func GetOrderByID(c *gin.Context) {
	userId, _ := c.Get("userId")
	objUserID, _ := primitive.ObjectIDFromHex(userId.(string))

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid order ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.Order
	err = database.OrderCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order)
	if err != nil {
		apperrors.Respond(c, apperrors.NotFound("Order not found"))
		return
	}

	if order.UserID != objUserID {
		apperrors.Respond(c, apperrors.Authorization("You do not have access to this order"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

func CancelOrder(c *gin.Context) {
	userId, _ := c.Get("userId")
	objUserID, err := primitive.ObjectIDFromHex(userId.(string))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid userId"))
		return
	}

	orderObjID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid orderId"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Only unpaid pending orders are customer-cancellable.
	filter := bson.M{
		"_id":           orderObjID,
		"userId":        objUserID,
		"status":        models.OrderStatusPending,
		"paymentStatus": bson.M{"$ne": models.PaymentStatusCompleted},
	}
	update := bson.M{
		"$set": bson.M{"status": models.OrderStatusCancelled, "updatedAt": time.Now()},
	}

	result, err := database.OrderCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if result.MatchedCount == 0 {
		apperrors.Respond(c, apperrors.Validation("Order not found or cannot be cancelled"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled"})
}
