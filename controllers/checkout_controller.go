package controllers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopapi/apperrors"
	"shopapi/config"
	"shopapi/database"
	"shopapi/models"
	"shopapi/payment"
	"shopapi/shipping"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var (
	gateway     *payment.Client
	gatewayOnce sync.Once
)

func paystackClient() *payment.Client {
	gatewayOnce.Do(func() {
		// PAYSTACK_SECRET_KEY is validated at startup in main.
		gateway = payment.NewClient(
			config.GetEnv("PAYSTACK_SECRET_KEY", ""),
			config.GetEnv("PAYSTACK_BASE_URL", ""),
		)
	})
	return gateway
}

type checkoutItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type shippingAddressRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// buildOrderItems resolves each requested item against its product: variant
// lookup, then stock check. All-or-nothing; the first violation aborts with no
// items returned and nothing mutated.
func buildOrderItems(products map[string]models.Product, reqs []checkoutItemRequest) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(reqs))
	for _, req := range reqs {
		product, ok := products[req.ProductID]
		if !ok {
			return nil, apperrors.NotFound("Product not found: " + req.ProductID)
		}

		variant, ok := product.ResolveVariant(req.Color, req.Size)
		if !ok {
			return nil, apperrors.NotFound(
				fmt.Sprintf("Variant %s not available for %s", variant.Key, product.Name))
		}

		if req.Quantity < 1 {
			return nil, apperrors.Validation("Quantity must be at least 1 for " + product.Name)
		}
		if req.Quantity > variant.Stock {
			label := product.Name
			if variant.Key != "" {
				label = fmt.Sprintf("%s [%s]", product.Name, variant.Key)
			}
			return nil, apperrors.Validation(
				fmt.Sprintf("Not enough stock for %s, available: %d", label, variant.Stock))
		}

		items = append(items, models.OrderItem{
			ProductID:  product.ID,
			Name:       product.Name,
			Quantity:   req.Quantity,
			Price:      variant.Price,
			Color:      req.Color,
			Size:       req.Size,
			VariantKey: variant.Key,
			SKU:        variant.SKU,
			Image:      variant.Image,
		})
	}
	return items, nil
}

func productAmount(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func orderTotal(productAmt float64, quote shipping.Quote) float64 {
	if quote.IsPickup {
		return productAmt
	}
	return productAmt + quote.Cost
}

// purchasableFilter selects the requested products, excluding deactivated
// ones. A product soft-deleted after it entered a cart drops out of the result
// map and fails the order item build as not found.
func purchasableFilter(ids []primitive.ObjectID) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}, "isActive": true}
}

func loadProducts(ctx context.Context, reqs []checkoutItemRequest) (map[string]models.Product, error) {
	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, req := range reqs {
		oid, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			return nil, apperrors.Validation("Invalid productId: " + req.ProductID)
		}
		ids = append(ids, oid)
	}

	cursor, err := database.ProductCollection.Find(ctx, purchasableFilter(ids))
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}
	return byID, nil
}

type checkoutResult struct {
	AuthorizationURL string
	Reference        string
	OrderID          string
	OrderNumber      string
}

// placeOrder runs the shared tail of both checkout flows: shipping resolution,
// order persistence, gateway initialization, payment handle persistence. The
// order row survives gateway failure (paymentStatus=failed) for support
// traceability.
func placeOrder(ctx context.Context, user models.User, items []models.OrderItem,
	address *models.ShippingAddress, shipQuery shipping.Query) (*checkoutResult, error) {

	productAmt := productAmount(items)
	shipQuery.OrderSubtotal = productAmt

	quote, err := shipping.Resolve(ctx, shipQuery)
	if err != nil {
		return nil, err
	}

	if quote.IsPickup {
		address = nil
	}

	now := time.Now()
	order := models.Order{
		ID:              primitive.NewObjectID(),
		OrderNumber:     models.NewOrderNumber(),
		UserID:          user.ID,
		Email:           user.Email,
		Items:           items,
		ProductAmount:   productAmt,
		ShippingCost:    quote.Cost,
		TotalAmount:     orderTotal(productAmt, quote),
		ShippingAddress: address,
		Shipping: models.ShippingInfo{
			ZoneID:             quote.ZoneID,
			Method:             quote.Method,
			Cost:               quote.Cost,
			EstimatedDelivery:  quote.EstimatedDelivery,
			Carrier:            quote.Carrier,
			IsPickup:           quote.IsPickup,
			StoreAddress:       quote.StoreAddress,
			PickupInstructions: quote.PickupInstructions,
		},
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := database.OrderCollection.InsertOne(ctx, order); err != nil {
		return nil, err
	}

	reference := models.NewPaymentReference()
	callbackURL := strings.TrimRight(config.GetEnv("FRONTEND_URL", ""), "/") +
		"/checkout/confirm?orderId=" + order.ID.Hex()

	initResp, err := paystackClient().Initialize(ctx, payment.InitializeRequest{
		Email:       user.Email,
		Amount:      order.TotalAmount,
		Reference:   reference,
		CallbackURL: callbackURL,
		Metadata: map[string]interface{}{
			"order_id":     order.ID.Hex(),
			"order_number": order.OrderNumber,
		},
	})
	if err != nil {
		logger.Error().Err(err).Str("orderNumber", order.OrderNumber).Msg("Payment initialization failed")
		_, _ = database.OrderCollection.UpdateOne(ctx,
			bson.M{"_id": order.ID},
			bson.M{"$set": bson.M{"paymentStatus": models.PaymentStatusFailed, "updatedAt": time.Now()}},
		)
		return nil, apperrors.PaymentGateway("Could not initialize payment, please try again", err)
	}

	_, err = database.OrderCollection.UpdateOne(ctx,
		bson.M{"_id": order.ID},
		bson.M{"$set": bson.M{
			"paymentDetails.reference":        reference,
			"paymentDetails.authorizationUrl": initResp.Data.AuthorizationURL,
			"paymentDetails.accessCode":       initResp.Data.AccessCode,
			"paymentDetails.provider":         payment.ProviderName,
			"updatedAt":                       time.Now(),
		}},
	)
	if err != nil {
		return nil, err
	}

	return &checkoutResult{
		AuthorizationURL: initResp.Data.AuthorizationURL,
		Reference:        reference,
		OrderID:          order.ID.Hex(),
		OrderNumber:      order.OrderNumber,
	}, nil
}

func GuestCheckout(c *gin.Context) {
	var body struct {
		Items    []checkoutItemRequest `json:"items" binding:"required,min=1"`
		Customer struct {
			Name  string `json:"name" binding:"required"`
			Email string `json:"email" binding:"required,email"`
			Phone string `json:"phone"`
		} `json:"customer" binding:"required"`
		ShippingAddress *shippingAddressRequest `json:"shippingAddress"`
		ZoneID          string                  `json:"zoneId"`
		IsPickup        bool                    `json:"isPickup"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Missing required checkout fields"))
		return
	}

	if !body.IsPickup && body.ShippingAddress == nil {
		apperrors.Respond(c, apperrors.Validation("Shipping address is required for delivery orders"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := loadProducts(ctx, body.Items)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	items, err := buildOrderItems(products, body.Items)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	user, err := findOrCreateGuestUser(ctx, body.Customer.Name, body.Customer.Email, body.Customer.Phone)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var address *models.ShippingAddress
	state := ""
	if body.ShippingAddress != nil {
		address = &models.ShippingAddress{
			FullName: body.ShippingAddress.FullName,
			Phone:    body.ShippingAddress.Phone,
			Street:   body.ShippingAddress.Street,
			City:     body.ShippingAddress.City,
			State:    body.ShippingAddress.State,
		}
		state = body.ShippingAddress.State
	}

	result, err := placeOrder(ctx, user, items, address, shipping.Query{
		ZoneID:   body.ZoneID,
		State:    state,
		IsPickup: body.IsPickup,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"authorization_url": result.AuthorizationURL,
		"reference":         result.Reference,
		"order_id":          result.OrderID,
		"order_number":      result.OrderNumber,
	}})
}

func UserCheckout(c *gin.Context) {
	userId, _ := c.Get("userId")
	objUserID, err := primitive.ObjectIDFromHex(userId.(string))
	if err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid user id"))
		return
	}

	var body struct {
		ShippingAddress *shippingAddressRequest `json:"shippingAddress"`
		ZoneID          string                  `json:"zoneId"`
		IsPickup        bool                    `json:"isPickup"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Invalid request body"))
		return
	}

	if !body.IsPickup && body.ShippingAddress == nil {
		apperrors.Respond(c, apperrors.Validation("Shipping address is required for delivery orders"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var user models.User
	if err := database.UserCollection.FindOne(ctx, bson.M{"_id": objUserID}).Decode(&user); err != nil {
		apperrors.Respond(c, apperrors.NotFound("User not found"))
		return
	}

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
	if len(cartItems) == 0 {
		apperrors.Respond(c, apperrors.Validation("Your cart is empty"))
		return
	}

	reqs := make([]checkoutItemRequest, 0, len(cartItems))
	for _, item := range cartItems {
		reqs = append(reqs, checkoutItemRequest{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
			Color:     item.Color,
			Size:      item.Size,
		})
	}

	products, err := loadProducts(ctx, reqs)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	items, err := buildOrderItems(products, reqs)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var address *models.ShippingAddress
	state := ""
	if body.ShippingAddress != nil {
		address = &models.ShippingAddress{
			FullName: body.ShippingAddress.FullName,
			Phone:    body.ShippingAddress.Phone,
			Street:   body.ShippingAddress.Street,
			City:     body.ShippingAddress.City,
			State:    body.ShippingAddress.State,
		}
		state = body.ShippingAddress.State
	}

	result, err := placeOrder(ctx, user, items, address, shipping.Query{
		ZoneID:   body.ZoneID,
		State:    state,
		IsPickup: body.IsPickup,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	// Clear the cart only after the order is safely persisted.
	if _, err := database.CartCollection.DeleteMany(ctx, bson.M{"userId": objUserID}); err != nil {
		logger.Error().Err(err).Str("orderNumber", result.OrderNumber).Msg("Failed to clear cart after checkout")
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"authorization_url": result.AuthorizationURL,
		"reference":         result.Reference,
		"order_id":          result.OrderID,
		"order_number":      result.OrderNumber,
	}})
}

func GetShippingMethods(c *gin.Context) {
	state := c.Query("state")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zones, err := shipping.ZonesForState(ctx, state)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	methods := []gin.H{}
	for _, z := range zones {
		methods = append(methods, gin.H{
			"zoneId":            z.ID.Hex(),
			"name":              z.Name,
			"type":              z.Type,
			"price":             z.Price,
			"carrier":           z.Carrier,
			"estimatedDelivery": z.EstimatedDelivery,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": methods})
}

// Static coupon table; codes are seasonal and not persisted.
var coupons = map[string]float64{
	"WELCOME10": 0.10,
	"SHIP5":     0.05,
}

func ValidateCoupon(c *gin.Context) {
	var body struct {
		Code     string  `json:"code" binding:"required"`
		Subtotal float64 `json:"subtotal"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.Validation("Coupon code is required"))
		return
	}

	rate, ok := coupons[strings.ToUpper(strings.TrimSpace(body.Code))]
	if !ok {
		apperrors.Respond(c, apperrors.NotFound("Invalid coupon code"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"code":     strings.ToUpper(strings.TrimSpace(body.Code)),
		"rate":     rate,
		"discount": body.Subtotal * rate,
	}})
}
