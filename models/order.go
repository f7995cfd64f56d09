package models

import (
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Delivered, completed and cancelled are terminal.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type OrderItem struct {
	ProductID  primitive.ObjectID `bson:"productId" json:"productId"`
	Name       string             `bson:"name" json:"name"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Price      float64            `bson:"price" json:"price"`
	Color      string             `bson:"color,omitempty" json:"color,omitempty"`
	Size       string             `bson:"size,omitempty" json:"size,omitempty"`
	VariantKey string             `bson:"variantKey,omitempty" json:"variantKey,omitempty"`
	SKU        string             `bson:"sku,omitempty" json:"sku,omitempty"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
}

type ShippingAddress struct {
	FullName string `bson:"fullName" json:"fullName"`
	Phone    string `bson:"phone" json:"phone"`
	Street   string `bson:"street" json:"street"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state" json:"state"`
}

// ShippingInfo is snapshotted at order creation so later zone edits never change
// what a historical order was charged.
type ShippingInfo struct {
	ZoneID             primitive.ObjectID `bson:"zoneId,omitempty" json:"zoneId,omitempty"`
	Method             string             `bson:"method" json:"method"`
	Cost               float64            `bson:"cost" json:"cost"`
	EstimatedDelivery  string             `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	Carrier            string             `bson:"carrier,omitempty" json:"carrier,omitempty"`
	IsPickup           bool               `bson:"isPickup" json:"isPickup"`
	StoreAddress       string             `bson:"storeAddress,omitempty" json:"storeAddress,omitempty"`
	PickupInstructions string             `bson:"pickupInstructions,omitempty" json:"pickupInstructions,omitempty"`
}

type PaymentDetails struct {
	Reference        string      `bson:"reference,omitempty" json:"reference,omitempty"`
	AuthorizationURL string      `bson:"authorizationUrl,omitempty" json:"authorizationUrl,omitempty"`
	AccessCode       string      `bson:"accessCode,omitempty" json:"accessCode,omitempty"`
	Provider         string      `bson:"provider,omitempty" json:"provider,omitempty"`
	GatewayPayload   interface{} `bson:"gatewayPayload,omitempty" json:"gatewayPayload,omitempty"`
}

type TrackingInfo struct {
	Courier        string     `bson:"courier,omitempty" json:"courier,omitempty"`
	TrackingNumber string     `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	TrackingURL    string     `bson:"trackingUrl,omitempty" json:"trackingUrl,omitempty"`
	ShippedAt      *time.Time `bson:"shippedAt,omitempty" json:"shippedAt,omitempty"`
	DeliveredAt    *time.Time `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Email           string             `bson:"email" json:"email"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ProductAmount   float64            `bson:"productAmount" json:"productAmount"`
	ShippingCost    float64            `bson:"shippingCost" json:"shippingCost"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	ShippingAddress *ShippingAddress   `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	Shipping        ShippingInfo       `bson:"shipping" json:"shipping"`
	Status          string             `bson:"status" json:"status"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentDetails  PaymentDetails     `bson:"paymentDetails" json:"paymentDetails"`
	TrackingInfo    *TrackingInfo      `bson:"trackingInfo,omitempty" json:"trackingInfo,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewOrderNumber builds the human-facing order identifier. Uniqueness is enforced
// by the orderNumber index; the timestamp plus random suffix makes collisions rare
// enough that a retry on duplicate-key has never been needed.
func NewOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

// NewPaymentReference builds the reference sent to the payment gateway.
func NewPaymentReference() string {
	return fmt.Sprintf("SHP-%010d", rand.Int63n(1e10))
}
