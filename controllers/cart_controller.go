package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shopapi/apperrors"
	"shopapi/database"
	"shopapi/models"
)

func AddToCart(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
		Color     string `json:"color"`
		Size      string `json:"size"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request"))
		return
	}

	userId, _ := c.Get("userId")
	objUserID, _ := primitive.ObjectIDFromHex(userId.(string))
	objProductID, err := primitive.ObjectIDFromHex(body.ProductID)
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid productId"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	err = database.ProductCollection.FindOne(ctx, bson.M{"_id": objProductID, "isActive": true}).Decode(&product)
	if err != nil {
		apperrors.Respond(c, apperrors.NotFound("Product not found"))
		return
	}

	variant, ok := product.ResolveVariant(body.Color, body.Size)
	if !ok {
		apperrors.Respond(c, apperrors.NotFound("Variant "+variant.Key+" not available for "+product.Name))
		return
	}

	if body.Quantity > variant.Stock {
		apperrors.Respond(c, apperrors.Validation("Quantity exceeds available stock"))
		return
	}

	filter := bson.M{
		"userId":    objUserID,
		"productId": objProductID,
		"color":     body.Color,
		"size":      body.Size,
	}

	var existing models.CartItem
	err = database.CartCollection.FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		// Same product + variant already in the cart: bump the quantity.
		newQty := existing.Quantity + body.Quantity
		if newQty > variant.Stock {
			apperrors.Respond(c, apperrors.Validation("Quantity exceeds available stock"))
			return
		}
		_, err = database.CartCollection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"quantity": newQty}})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated", "data": gin.H{
			"productId": objProductID,
			"quantity":  newQty,
			"subtotal":  float64(newQty) * variant.Price,
		}})
		return
	}
	if err != mongo.ErrNoDocuments {
		apperrors.Respond(c, err)
		return
	}

	cartItem := models.CartItem{
		ID:        primitive.NewObjectID(),
		UserID:    objUserID,
		ProductID: objProductID,
		Quantity:  body.Quantity,
		Color:     body.Color,
		Size:      body.Size,
		UnitPrice: variant.Price,
		CreatedAt: time.Now(),
	}

	_, err = database.CartCollection.InsertOne(ctx, cartItem)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added to cart", "data": gin.H{
		"cartId":    cartItem.ID,
		"productId": cartItem.ProductID,
		"quantity":  cartItem.Quantity,
		"color":     cartItem.Color,
		"size":      cartItem.Size,
		"product": gin.H{
			"name":  product.Name,
			"price": variant.Price,
			"stock": variant.Stock,
		},
		"subtotal": float64(cartItem.Quantity) * variant.Price,
	}})
}

func GetCart(c *gin.Context) {
	userId, _ := c.Get("userId")
	objUserID, _ := primitive.ObjectIDFromHex(userId.(string))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.CartCollection.Find(ctx, bson.M{"userId": objUserID})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var cartItems []models.CartItem
	if err := cursor.All(ctx, &cartItems); err != nil {
		apperrors.Respond(c, err)
		return
	}

	items := []gin.H{}
	var total float64
	for _, item := range cartItems {
		var product models.Product
		err := database.ProductCollection.FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product)
		if err != nil {
			continue
		}

		lineTotal := float64(item.Quantity) * item.UnitPrice
		total += lineTotal
		items = append(items, gin.H{
			"productId":   item.ProductID,
			"productName": product.Name,
			"quantity":    item.Quantity,
			"color":       item.Color,
			"size":        item.Size,
			"price":       item.UnitPrice,
			"total":       lineTotal,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"items": items, "total": total}})
}

func UpdateCart(c *gin.Context) {
	userIDHex := c.MustGet("userId").(string)
	userID, _ := primitive.ObjectIDFromHex(userIDHex)

	productObjID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid productId"))
		return
	}

	var body struct {
		Quantity int    `json:"quantity"`
		Color    string `json:"color"`
		Size     string `json:"size"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Quantity < 0 {
		apperrors.Respond(c, apperrors.Validation("Invalid quantity"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "productId": productObjID, "color": body.Color, "size": body.Size}

	var cartItem models.CartItem
	err = database.CartCollection.FindOne(ctx, filter).Decode(&cartItem)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apperrors.Respond(c, apperrors.NotFound("Product not found in cart"))
		} else {
			apperrors.Respond(c, err)
		}
		return
	}

	var product models.Product
	if err := database.ProductCollection.FindOne(ctx, bson.M{"_id": productObjID}).Decode(&product); err != nil {
		apperrors.Respond(c, apperrors.NotFound("Product not found"))
		return
	}

	if body.Quantity == 0 {
		if _, err := database.CartCollection.DeleteOne(ctx, filter); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product removed from cart"})
		return
	}

	variant, ok := product.ResolveVariant(body.Color, body.Size)
	if !ok {
		apperrors.Respond(c, apperrors.NotFound("Variant "+variant.Key+" not available for "+product.Name))
		return
	}
	if body.Quantity > variant.Stock {
		apperrors.Respond(c, apperrors.Validation("Quantity exceeds available stock"))
		return
	}

	_, err = database.CartCollection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"quantity": body.Quantity}})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated", "data": gin.H{
		"productId": productObjID,
		"quantity":  body.Quantity,
		"subtotal":  float64(body.Quantity) * cartItem.UnitPrice,
	}})
}

// cartRemovalFilter scopes a removal. With color or size given only that
// variant line goes; with neither, every line of the product goes.
func cartRemovalFilter(userID, productID primitive.ObjectID, color, size string) bson.M {
	filter := bson.M{"userId": userID, "productId": productID}
	if color != "" || size != "" {
		filter["color"] = color
		filter["size"] = size
	}
	return filter
}

func RemoveFromCart(c *gin.Context) {
	userIDHex := c.MustGet("userId").(string)
	userID, _ := primitive.ObjectIDFromHex(userIDHex)

	productObjID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid productId"))
		return
	}

	color := c.Query("color")
	size := c.Query("size")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.CartCollection.DeleteMany(ctx, cartRemovalFilter(userID, productObjID, color, size))
	if err != nil || result.DeletedCount == 0 {
		apperrors.Respond(c, apperrors.NotFound("Product not found in cart"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product removed from cart", "data": gin.H{
		"productId": productObjID.Hex(),
		"color":     color,
		"size":      size,
	}})
}
