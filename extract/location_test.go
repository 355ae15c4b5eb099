package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	node := map[string]any{
		"info": map[string]any{
			"latitude":   40.1,
			"longitude":  -74.2,
			"address":    "1 Main St",
			"city":       "Trenton",
			"postalCode": "08601",
			"country":    "US",
		},
	}

	loc := Location(node)
	require.NotNil(t, loc.Latitude)
	require.NotNil(t, loc.Longitude)
	assert.InDelta(t, 40.1, *loc.Latitude, 1e-9)
	assert.InDelta(t, -74.2, *loc.Longitude, 1e-9)
	assert.Equal(t, "1 Main St", loc.Address)
	assert.Equal(t, "Trenton", loc.City)
	assert.Equal(t, "08601", loc.PostalCode)
	assert.Equal(t, "US", loc.Country)
	assert.Equal(t, "DEFAULT", loc.LocationType)
}

func TestLocationAliases(t *testing.T) {
	loc := Location(map[string]any{
		"latitude":      1.0,
		"longitude":     2.0,
		"streetAddress": "5 Side St",
		"town":          "Smallville",
		"zipCode":       "12345",
		"countryCode":   "GB",
		"type":          "PICKUP",
	})

	assert.Equal(t, "5 Side St", loc.Address)
	assert.Equal(t, "Smallville", loc.City)
	assert.Equal(t, "12345", loc.PostalCode)
	assert.Equal(t, "GB", loc.Country)
	assert.Equal(t, "PICKUP", loc.LocationType)
}

// Coordinates are only taken when they live together on one object;
// a latitude here and a longitude there must not be stitched into a
// fake position.
func TestLocationNeverMixesObjects(t *testing.T) {
	node := map[string]any{
		"a": map[string]any{"latitude": 40.1},
		"b": map[string]any{"longitude": -74.2},
	}

	loc := Location(node)
	assert.Nil(t, loc.Latitude)
	assert.Nil(t, loc.Longitude)
	assert.Equal(t, "DEFAULT", loc.LocationType)
}

func TestLocationRequiresNumericCoordinates(t *testing.T) {
	node := map[string]any{
		"latitude":  "40.1",
		"longitude": "-74.2",
	}

	loc := Location(node)
	assert.Nil(t, loc.Latitude)
	assert.Nil(t, loc.Longitude)
}

func TestLocationFirstCandidateWins(t *testing.T) {
	node := []any{
		map[string]any{"latitude": 1.0, "longitude": 1.0, "city": "First"},
		map[string]any{"latitude": 2.0, "longitude": 2.0, "city": "Second", "address": "richer"},
	}

	loc := Location(node)
	assert.Equal(t, "First", loc.City)
}

func TestLocationEmptyInput(t *testing.T) {
	loc := Location(map[string]any{})
	assert.Equal(t, "DEFAULT", loc.LocationType)
	assert.Empty(t, loc.Address)
	assert.Nil(t, loc.Latitude)
}
