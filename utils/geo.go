package utils

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Coordinate represents a geographic coordinate with latitude and longitude
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate checks the coordinate is on the globe.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", c.Lng)
	}
	return nil
}

// Point returns the orb point, which is ordered lng, lat.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// DistanceKm is the great-circle distance between a and b.
func DistanceKm(a, b Coordinate) float64 {
	return geo.Distance(a.Point(), b.Point()) / 1000
}

// Placed is anything with a position and an identifier.
type Placed struct {
	Key      string
	Position Coordinate
}

// Match is a Placed within range of the search centre.
type Match struct {
	Key        string
	DistanceKm float64
}

// Nearby returns the places within radiusKm of center, nearest first. The
// bounding box drops far places before the exact distance is computed.
func Nearby(center Coordinate, radiusKm float64, places []Placed) []Match {
	if radiusKm <= 0 {
		return nil
	}
	bound := geo.NewBoundAroundPoint(center.Point(), radiusKm*1000)
	var out []Match
	for _, p := range places {
		if !bound.Contains(p.Position.Point()) {
			continue
		}
		d := DistanceKm(center, p.Position)
		if d <= radiusKm {
			out = append(out, Match{Key: p.Key, DistanceKm: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}
