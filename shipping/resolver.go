// Package shipping resolves a delivery quote for a destination: pickup first,
// then an explicitly chosen zone, then a state lookup across active zones, with
// the storewide free-delivery threshold applied after resolution.
package shipping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopapi/apperrors"
	"shopapi/database"
	"shopapi/models"
)

// Query is the shipping selection made at checkout. ZoneID wins over State when
// both are present; IsPickup wins over everything.
type Query struct {
	ZoneID        string
	State         string
	IsPickup      bool
	OrderSubtotal float64
}

// Quote is the resolved shipping snapshot embedded into the order.
type Quote struct {
	ZoneID             primitive.ObjectID
	Method             string
	Cost               float64
	EstimatedDelivery  string
	Carrier            string
	IsPickup           bool
	StoreAddress       string
	PickupInstructions string
}

const nationwide = "nationwide"

// stateIsAbuja matches the FCT / Abuja aliases customers type interchangeably.
func stateIsAbuja(state string) bool {
	s := strings.ToLower(strings.TrimSpace(state))
	return s == "fct" || strings.Contains(s, "abuja")
}

// zoneCoversState reports whether an interstate zone's areas include the state,
// treating "nationwide" / "all states" entries as a wildcard.
func zoneCoversState(zone models.Zone, state string) bool {
	target := strings.ToLower(strings.TrimSpace(state))
	targetAbuja := stateIsAbuja(state)
	for _, area := range zone.Areas {
		a := strings.ToLower(strings.TrimSpace(area))
		if a == target || a == nationwide || a == "all states" {
			return true
		}
		// An "FCT" area serves an "Abuja" destination and vice versa.
		if targetAbuja && stateIsAbuja(area) {
			return true
		}
	}
	return false
}

// matchZone picks the first active zone serving the state: the Abuja zone for
// FCT destinations, otherwise an interstate zone listing the state, otherwise
// any zone covering nationwide.
func matchZone(zones []models.Zone, state string) (models.Zone, bool) {
	if stateIsAbuja(state) {
		for _, z := range zones {
			if z.IsActive && z.Type == models.ZoneTypeAbuja {
				return z, true
			}
		}
	}

	for _, z := range zones {
		if z.IsActive && z.Type == models.ZoneTypeInterstate && zoneCoversState(z, state) {
			return z, true
		}
	}
	return models.Zone{}, false
}

// applyFreeDelivery forces cost to zero once the subtotal reaches the threshold.
// Applied after zone resolution so the zone's nominal price never masks it.
func applyFreeDelivery(cost, subtotal, threshold float64) float64 {
	if threshold > 0 && subtotal >= threshold {
		return 0
	}
	return cost
}

func quoteFromZone(zone models.Zone) Quote {
	return Quote{
		ZoneID:            zone.ID,
		Method:            zone.Name,
		Cost:              zone.Price,
		EstimatedDelivery: zone.EstimatedDelivery,
		Carrier:           zone.Carrier,
	}
}

// Resolve returns the shipping quote for a checkout selection. An explicit zone
// that does not exist or cannot serve the destination state is an error; a state
// no active zone covers is a NotFoundError so checkout fails loudly instead of
// quoting zero shipping against an incomplete zone table.
func Resolve(ctx context.Context, q Query) (Quote, error) {
	if q.IsPickup {
		cfg, err := EnsurePickupConfig(ctx)
		if err != nil {
			return Quote{}, err
		}
		quote := Quote{
			Method:             "Store Pickup",
			Cost:               0,
			EstimatedDelivery:  cfg.PrepTime,
			IsPickup:           true,
			StoreAddress:       cfg.StoreAddress,
			PickupInstructions: cfg.PickupInstructions,
		}
		return quote, nil
	}

	var zone models.Zone
	if q.ZoneID != "" {
		objID, err := primitive.ObjectIDFromHex(q.ZoneID)
		if err != nil {
			return Quote{}, apperrors.Validation("Invalid shipping zone id")
		}
		err = database.ZoneCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&zone)
		if err != nil {
			return Quote{}, apperrors.NotFound("Shipping zone not found")
		}
		if zone.Type == models.ZoneTypePickup {
			return Resolve(ctx, Query{IsPickup: true, OrderSubtotal: q.OrderSubtotal})
		}
		if zone.Type == models.ZoneTypeInterstate && q.State != "" && !zoneCoversState(zone, q.State) {
			return Quote{}, apperrors.Validation(
				fmt.Sprintf("Zone %s does not deliver to %s", zone.Name, q.State))
		}
	} else {
		if q.State == "" {
			return Quote{}, apperrors.Validation("Shipping state or zone is required")
		}
		zones, err := loadActiveZones(ctx)
		if err != nil {
			return Quote{}, err
		}
		matched, ok := matchZone(zones, q.State)
		if !ok {
			return Quote{}, apperrors.NotFound(
				fmt.Sprintf("No shipping zone covers %s", q.State))
		}
		zone = matched
	}

	quote := quoteFromZone(zone)

	threshold, err := freeDeliveryThreshold(ctx)
	if err != nil {
		return Quote{}, err
	}
	quote.Cost = applyFreeDelivery(quote.Cost, q.OrderSubtotal, threshold)

	return quote, nil
}

// ZonesForState lists the active zones able to serve a state, for the
// shipping-methods browse endpoint. Unlike Resolve this returns an empty list
// when nothing matches.
func ZonesForState(ctx context.Context, state string) ([]models.Zone, error) {
	zones, err := loadActiveZones(ctx)
	if err != nil {
		return nil, err
	}
	if state == "" {
		return zones, nil
	}

	matched := []models.Zone{}
	for _, z := range zones {
		switch z.Type {
		case models.ZoneTypeAbuja:
			if stateIsAbuja(state) {
				matched = append(matched, z)
			}
		case models.ZoneTypeInterstate:
			if zoneCoversState(z, state) {
				matched = append(matched, z)
			}
		case models.ZoneTypePickup:
			matched = append(matched, z)
		}
	}
	return matched, nil
}

func loadActiveZones(ctx context.Context) ([]models.Zone, error) {
	cursor, err := database.ZoneCollection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	var zones []models.Zone
	if err := cursor.All(ctx, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

func freeDeliveryThreshold(ctx context.Context) (float64, error) {
	settings, err := EnsureSettings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.FreeDeliveryThreshold, nil
}

// EnsurePickupConfig returns the singleton pickup configuration, creating it
// with defaults on first read. The upsert keeps concurrent first reads from
// inserting twice.
func EnsurePickupConfig(ctx context.Context) (models.PickupConfig, error) {
	var cfg models.PickupConfig
	err := database.PickupConfigCollection.FindOne(ctx, bson.M{}).Decode(&cfg)
	if err == nil {
		return cfg, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.PickupConfig{}, err
	}

	cfg = models.PickupConfig{
		ID:                 primitive.NewObjectID(),
		StoreAddress:       "12 Adeola Odeku Street, Victoria Island, Lagos",
		PickupInstructions: "Bring a valid ID and your order number",
		PrepTime:           "Ready within 24 hours",
		UpdatedAt:          time.Now(),
	}
	_, err = database.PickupConfigCollection.UpdateOne(ctx,
		bson.M{},
		bson.M{"$setOnInsert": cfg},
		mongoUpsert(),
	)
	if err != nil {
		return models.PickupConfig{}, err
	}

	// Re-read so a concurrent insert wins consistently.
	if err := database.PickupConfigCollection.FindOne(ctx, bson.M{}).Decode(&cfg); err != nil {
		return models.PickupConfig{}, err
	}
	return cfg, nil
}

// EnsureSettings returns the singleton store settings, creating defaults on
// first read.
func EnsureSettings(ctx context.Context) (models.StoreSettings, error) {
	var settings models.StoreSettings
	err := database.SettingsCollection.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == nil {
		return settings, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.StoreSettings{}, err
	}

	settings = models.StoreSettings{
		ID:                    primitive.NewObjectID(),
		FreeDeliveryThreshold: models.DefaultFreeDeliveryThreshold,
		Currency:              "NGN",
		UpdatedAt:             time.Now(),
	}
	_, err = database.SettingsCollection.UpdateOne(ctx,
		bson.M{},
		bson.M{"$setOnInsert": settings},
		mongoUpsert(),
	)
	if err != nil {
		return models.StoreSettings{}, err
	}

	if err := database.SettingsCollection.FindOne(ctx, bson.M{}).Decode(&settings); err != nil {
		return models.StoreSettings{}, err
	}
	return settings, nil
}

func mongoUpsert() *options.UpdateOptions {
	return options.Update().SetUpsert(true)
}
