package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopapi/models"
)

func TestStateIsAbuja(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{"FCT", true},
		{"fct", true},
		{"Abuja", true},
		{"ABUJA", true},
		{"Abuja Municipal", true},
		{" fct ", true},
		{"Lagos", false},
		{"Kano", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stateIsAbuja(tt.state), "state %q", tt.state)
	}
}

func TestZoneCoversState(t *testing.T) {
	zone := models.Zone{
		Type:  models.ZoneTypeInterstate,
		Areas: []string{"Lagos", "Ogun"},
	}

	assert.True(t, zoneCoversState(zone, "Lagos"))
	assert.True(t, zoneCoversState(zone, "lagos"))
	assert.True(t, zoneCoversState(zone, " Ogun "))
	assert.False(t, zoneCoversState(zone, "Kano"))

	fctZone := models.Zone{Areas: []string{"FCT"}}
	assert.True(t, zoneCoversState(fctZone, "Abuja"), "FCT area must serve an Abuja destination")
	assert.True(t, zoneCoversState(fctZone, "fct"))

	nationwideZone := models.Zone{Areas: []string{"Nationwide"}}
	assert.True(t, zoneCoversState(nationwideZone, "Kano"))

	allStatesZone := models.Zone{Areas: []string{"All States"}}
	assert.True(t, zoneCoversState(allStatesZone, "Rivers"))
}

func TestMatchZone(t *testing.T) {
	abujaZone := models.Zone{
		ID:       primitive.NewObjectID(),
		Name:     "Abuja Delivery",
		Type:     models.ZoneTypeAbuja,
		Price:    1500,
		IsActive: true,
	}
	lagosZone := models.Zone{
		ID:       primitive.NewObjectID(),
		Name:     "South West",
		Type:     models.ZoneTypeInterstate,
		Price:    2000,
		Areas:    []string{"Lagos", "Ogun"},
		IsActive: true,
	}
	fallbackZone := models.Zone{
		ID:       primitive.NewObjectID(),
		Name:     "Rest of Nigeria",
		Type:     models.ZoneTypeInterstate,
		Price:    3500,
		Areas:    []string{"nationwide"},
		IsActive: true,
	}
	inactiveZone := models.Zone{
		ID:    primitive.NewObjectID(),
		Name:  "Old Lagos",
		Type:  models.ZoneTypeInterstate,
		Areas: []string{"Lagos"},
	}

	zones := []models.Zone{inactiveZone, abujaZone, lagosZone, fallbackZone}

	tests := []struct {
		name     string
		state    string
		wantZone string
		wantOK   bool
	}{
		{"named state matches its zone", "Lagos", "South West", true},
		{"abuja alias picks the abuja zone", "Abuja", "Abuja Delivery", true},
		{"fct alias picks the abuja zone", "FCT", "Abuja Delivery", true},
		{"uncovered state falls back to nationwide", "Kano", "Rest of Nigeria", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, ok := matchZone(zones, tt.state)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantZone, zone.Name)
		})
	}

	t.Run("no zones at all", func(t *testing.T) {
		_, ok := matchZone([]models.Zone{inactiveZone}, "Lagos")
		assert.False(t, ok, "inactive zones must not match")
	})
}

func TestApplyFreeDelivery(t *testing.T) {
	tests := []struct {
		name      string
		cost      float64
		subtotal  float64
		threshold float64
		want      float64
	}{
		{"below threshold keeps zone price", 2000, 9999, 10000, 2000},
		{"exactly at threshold is free", 2000, 10000, 10000, 0},
		{"above threshold is free", 3500, 25000, 10000, 0},
		{"zero threshold disables the override", 2000, 50000, 0, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyFreeDelivery(tt.cost, tt.subtotal, tt.threshold))
		})
	}
}

func TestQuoteFromZone(t *testing.T) {
	zone := models.Zone{
		ID:                primitive.NewObjectID(),
		Name:              "South West",
		Type:              models.ZoneTypeInterstate,
		Price:             2000,
		Carrier:           "GIG Logistics",
		EstimatedDelivery: "2-4 business days",
	}

	quote := quoteFromZone(zone)
	assert.Equal(t, zone.ID, quote.ZoneID)
	assert.Equal(t, "South West", quote.Method)
	assert.Equal(t, 2000.0, quote.Cost)
	assert.Equal(t, "GIG Logistics", quote.Carrier)
	assert.Equal(t, "2-4 business days", quote.EstimatedDelivery)
	assert.False(t, quote.IsPickup)
}
