package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ZoneTypeAbuja      = "abuja"
	ZoneTypeInterstate = "interstate"
	ZoneTypePickup     = "pickup"
)

// Zone is a flat-priced shipping rule covering a set of states.
type Zone struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name" binding:"required"`
	Type              string             `bson:"type" json:"type" binding:"required"`
	Price             float64            `bson:"price" json:"price"`
	EstimatedDelivery string             `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	Carrier           string             `bson:"carrier,omitempty" json:"carrier,omitempty"`
	Areas             []string           `bson:"areas,omitempty" json:"areas,omitempty"`
	IsActive          bool               `bson:"isActive" json:"isActive"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PickupConfig is a singleton document describing in-store collection.
type PickupConfig struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StoreAddress       string             `bson:"storeAddress" json:"storeAddress"`
	PickupInstructions string             `bson:"pickupInstructions" json:"pickupInstructions"`
	PrepTime           string             `bson:"prepTime" json:"prepTime"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// StoreSettings is a singleton document for storewide commerce settings.
type StoreSettings struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FreeDeliveryThreshold float64            `bson:"freeDeliveryThreshold" json:"freeDeliveryThreshold"`
	Currency              string             `bson:"currency" json:"currency"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const DefaultFreeDeliveryThreshold = 10000
