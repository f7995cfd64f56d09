package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopapi/apperrors"
	"shopapi/database"
	"shopapi/models"
)

func GetProductsPublic(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"isActive": true}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}

	cursor, err := database.ProductCollection.Find(ctx, filter)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
}

func GetProductByID(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid product ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	err = database.ProductCollection.FindOne(ctx, bson.M{"_id": objID, "isActive": true}).Decode(&product)
	if err != nil {
		apperrors.Respond(c, apperrors.NotFound("Product not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}
