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

// normalizeVariants rekeys a submitted variant map with VariantKey so lookups
// always hit, and rejects color/size values that cannot form a key. The key is
// later embedded in Mongo field paths for stock updates, so a dot or dollar
// sign in it would address the wrong field.
func normalizeVariants(in map[string]models.Variant) (map[string]models.Variant, error) {
	if len(in) == 0 {
		return in, nil
	}
	normalized := make(map[string]models.Variant, len(in))
	for _, v := range in {
		if !models.ValidVariantAttr(v.Color) || !models.ValidVariantAttr(v.Size) {
			return nil, apperrors.Validation("Variant color and size must not contain '.', ':' or '$'")
		}
		normalized[models.VariantKey(v.Color, v.Size)] = v
	}
	return normalized, nil
}

func CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		apperrors.Respond(c, apperrors.Validation("Name and price are required"))
		return
	}

	variants, err := normalizeVariants(product.Variants)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	product.Variants = variants

	product.ID = primitive.NewObjectID()
	product.IsActive = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := database.ProductCollection.InsertOne(ctx, product); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product created", "data": product})
}

func GetProductsAdmin(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.ProductCollection.Find(ctx, bson.M{})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(products), "data": products})
}

// GetLowStockProducts lists products whose base or any variant stock is at or
// below the low-stock threshold.
func GetLowStockProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.ProductCollection.Find(ctx, bson.M{})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		apperrors.Respond(c, err)
		return
	}

	low := []gin.H{}
	for _, p := range products {
		threshold := p.LowStockThreshold
		if threshold == 0 {
			threshold = 5
		}

		if len(p.Variants) == 0 {
			if p.Stock <= threshold {
				low = append(low, gin.H{"productId": p.ID.Hex(), "name": p.Name, "stock": p.Stock})
			}
			continue
		}
		for key, v := range p.Variants {
			if v.Stock <= threshold {
				low = append(low, gin.H{"productId": p.ID.Hex(), "name": p.Name, "variant": key, "stock": v.Stock})
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(low), "data": low})
}

func UpdateProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid product ID"))
		return
	}

	var body struct {
		Name        *string                    `json:"name"`
		Description *string                    `json:"description"`
		Price       *float64                   `json:"price"`
		Stock       *int                       `json:"stock"`
		Category    *string                    `json:"category"`
		IsActive    *bool                      `json:"isActive"`
		Variants    *map[string]models.Variant `json:"variants"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	update := bson.M{}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Description != nil {
		update["description"] = *body.Description
	}
	if body.Price != nil {
		update["price"] = *body.Price
	}
	if body.Stock != nil {
		update["stock"] = *body.Stock
	}
	if body.Category != nil {
		update["category"] = *body.Category
	}
	if body.IsActive != nil {
		update["isActive"] = *body.IsActive
	}
	if body.Variants != nil {
		normalized, err := normalizeVariants(*body.Variants)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		update["variants"] = normalized
	}
	update["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updatedProduct models.Product
	err = database.ProductCollection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": update}, opts).Decode(&updatedProduct)
	if err != nil {
		apperrors.Respond(c, apperrors.NotFound("Product not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updatedProduct})
}

func DeleteProduct(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid product ID"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Soft delete: orders keep referencing the product document.
	result, err := database.ProductCollection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if result.MatchedCount == 0 {
		apperrors.Respond(c, apperrors.NotFound("Product not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deactivated", "id": objID.Hex()})
}
