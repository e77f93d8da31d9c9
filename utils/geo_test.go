package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinateValidate(t *testing.T) {
	assert.NoError(t, Coordinate{Lat: 17.38, Lng: 78.48}.Validate())
	assert.Error(t, Coordinate{Lat: 91, Lng: 0}.Validate())
	assert.Error(t, Coordinate{Lat: 0, Lng: -181}.Validate())
}

func TestDistanceKm(t *testing.T) {
	hyderabad := Coordinate{Lat: 17.385, Lng: 78.4867}
	assert.InDelta(t, 0, DistanceKm(hyderabad, hyderabad), 1e-9)

	// One degree of latitude is roughly 111 km.
	north := Coordinate{Lat: 18.385, Lng: 78.4867}
	assert.InDelta(t, 111.2, DistanceKm(hyderabad, north), 1.0)
}

func TestNearbyOrdersAndFilters(t *testing.T) {
	center := Coordinate{Lat: 17.385, Lng: 78.4867}
	places := []Placed{
		{Key: "far", Position: Coordinate{Lat: 19.0, Lng: 72.8}},
		{Key: "two", Position: Coordinate{Lat: 17.40, Lng: 78.50}},
		{Key: "one", Position: Coordinate{Lat: 17.386, Lng: 78.487}},
	}

	got := Nearby(center, 10, places)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "one", got[0].Key)
		assert.Equal(t, "two", got[1].Key)
		assert.Less(t, got[0].DistanceKm, got[1].DistanceKm)
	}
	assert.Empty(t, Nearby(center, 0, places))
}
