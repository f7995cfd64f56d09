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
	"shopapi/shipping"
)

func CreateZone(c *gin.Context) {
	var zone models.Zone
	if err := c.ShouldBindJSON(&zone); err != nil {
		apperrors.Respond(c, apperrors.Validation("Zone name and type are required"))
		return
	}

	switch zone.Type {
	case models.ZoneTypeAbuja, models.ZoneTypeInterstate, models.ZoneTypePickup:
	default:
		apperrors.Respond(c, apperrors.Validation("Invalid zone type"))
		return
	}

	zone.ID = primitive.NewObjectID()
	zone.IsActive = true
	zone.CreatedAt = time.Now()
	zone.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := database.ZoneCollection.InsertOne(ctx, zone)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Zone created", "data": zone})
}

// GetZones lists shipping zones, optionally filtered to those serving a state.
func GetZones(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if state := c.Query("state"); state != "" {
		zones, err := shipping.ZonesForState(ctx, state)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": zones})
		return
	}

	cursor, err := database.ZoneCollection.Find(ctx, bson.M{})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	zones := []models.Zone{}
	if err := cursor.All(ctx, &zones); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": zones})
}

func UpdateZone(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid zone ID"))
		return
	}

	var body struct {
		Name              *string   `json:"name"`
		Price             *float64  `json:"price"`
		EstimatedDelivery *string   `json:"estimatedDelivery"`
		Carrier           *string   `json:"carrier"`
		Areas             *[]string `json:"areas"`
		IsActive          *bool     `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	update := bson.M{}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Price != nil {
		update["price"] = *body.Price
	}
	if body.EstimatedDelivery != nil {
		update["estimatedDelivery"] = *body.EstimatedDelivery
	}
	if body.Carrier != nil {
		update["carrier"] = *body.Carrier
	}
	if body.Areas != nil {
		update["areas"] = *body.Areas
	}
	if body.IsActive != nil {
		update["isActive"] = *body.IsActive
	}
	update["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updatedZone models.Zone
	err = database.ZoneCollection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": update}, opts).Decode(&updatedZone)
	if err != nil {
		apperrors.Respond(c, apperrors.NotFound("Zone not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updatedZone})
}

func DeleteZone(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid zone ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.ZoneCollection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if result.DeletedCount == 0 {
		apperrors.Respond(c, apperrors.NotFound("Zone not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Zone deleted", "id": objID.Hex()})
}

func GetStoreSettings(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	settings, err := shipping.EnsureSettings(ctx)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": settings})
}

func UpdateStoreSettings(c *gin.Context) {
	var body struct {
		FreeDeliveryThreshold *float64 `json:"freeDeliveryThreshold"`
		Currency              *string  `json:"currency"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := shipping.EnsureSettings(ctx); err != nil {
		apperrors.Respond(c, err)
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if body.FreeDeliveryThreshold != nil {
		update["freeDeliveryThreshold"] = *body.FreeDeliveryThreshold
	}
	if body.Currency != nil {
		update["currency"] = *body.Currency
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var settings models.StoreSettings
	err := database.SettingsCollection.FindOneAndUpdate(ctx, bson.M{}, bson.M{"$set": update}, opts).Decode(&settings)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": settings})
}

func GetPickupConfig(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := shipping.EnsurePickupConfig(ctx)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": cfg})
}

func UpdatePickupConfig(c *gin.Context) {
	var body struct {
		StoreAddress       *string `json:"storeAddress"`
		PickupInstructions *string `json:"pickupInstructions"`
		PrepTime           *string `json:"prepTime"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := shipping.EnsurePickupConfig(ctx); err != nil {
		apperrors.Respond(c, err)
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if body.StoreAddress != nil {
		update["storeAddress"] = *body.StoreAddress
	}
	if body.PickupInstructions != nil {
		update["pickupInstructions"] = *body.PickupInstructions
	}
	if body.PrepTime != nil {
		update["prepTime"] = *body.PrepTime
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var cfg models.PickupConfig
	err := database.PickupConfigCollection.FindOneAndUpdate(ctx, bson.M{}, bson.M{"$set": update}, opts).Decode(&cfg)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": cfg})
}
