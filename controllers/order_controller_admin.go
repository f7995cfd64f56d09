package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopapi/apperrors"
	"shopapi/database"
	"shopapi/models"
	"shopapi/notify"
)

// validStatusTransitions is the order lifecycle; delivered, completed and
// cancelled are terminal.
var validStatusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCompleted},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

func canTransition(from, to string) bool {
	for _, s := range validStatusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func GetOrdersAdmin(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
		filter["paymentStatus"] = paymentStatus
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(orders), "data": orders})
}

func GetOrderByIDAdmin(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

func UpdateOrderStatus(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid order ID"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	if _, known := validStatusTransitions[body.Status]; !known {
		apperrors.Respond(c, apperrors.Validation("Invalid status value"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var existingOrder models.Order
	err = database.OrderCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existingOrder)
	if err != nil {
		apperrors.Respond(c, apperrors.NotFound("Order not found"))
		return
	}

	if !canTransition(existingOrder.Status, body.Status) {
		apperrors.Respond(c, apperrors.Validation(
			fmt.Sprintf("Cannot change status from %s to %s", existingOrder.Status, body.Status)))
		return
	}

	update := bson.M{"$set": bson.M{
		"status":    body.Status,
		"updatedAt": time.Now(),
	}}
	if body.Status == models.OrderStatusDelivered {
		update["$set"].(bson.M)["trackingInfo.deliveredAt"] = time.Now()
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updatedOrder models.Order
	err = database.OrderCollection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&updatedOrder)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	notified := updatedOrder
	switch body.Status {
	case models.OrderStatusDelivered:
		go notify.Default().OrderDelivered(&notified)
	default:
		go notify.Default().OrderStatusChanged(&notified)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order status updated", "data": updatedOrder})
}

// SetTrackingInfo records courier details and marks the order shipped.
func SetTrackingInfo(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid order ID"))
		return
	}

	var body struct {
		Courier        string `json:"courier" binding:"required"`
		TrackingNumber string `json:"trackingNumber" binding:"required"`
		TrackingURL    string `json:"trackingUrl"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Courier and tracking number are required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"_id": objID, "status": models.OrderStatusProcessing}
	update := bson.M{"$set": bson.M{
		"status": models.OrderStatusShipped,
		"trackingInfo": models.TrackingInfo{
			Courier:        body.Courier,
			TrackingNumber: body.TrackingNumber,
			TrackingURL:    body.TrackingURL,
			ShippedAt:      &now,
		},
		"updatedAt": now,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updatedOrder models.Order
	err = database.OrderCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updatedOrder)
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Order not found or not ready to ship"))
		return
	}

	notified := updatedOrder
	go notify.Default().OrderShipped(&notified)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tracking info set", "data": updatedOrder})
}

func CancelOrderAdmin(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid order ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": objID, "status": bson.M{"$in": []string{
		models.OrderStatusPending, models.OrderStatusProcessing,
	}}}
	update := bson.M{"$set": bson.M{"status": models.OrderStatusCancelled, "updatedAt": time.Now()}}

	result, err := database.OrderCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if result.MatchedCount == 0 {
		apperrors.Respond(c, apperrors.Validation("Order cannot be cancelled"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled"})
}
