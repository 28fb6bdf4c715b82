// Package geo provides the geographic primitives shared by the road,
// imagery and routing packages: WGS84 coordinates, degree-aligned bounding
// boxes and great-circle distance.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// LatLon is a WGS84 coordinate in decimal degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// String formats the coordinate as "lat,lon" with four decimal places,
// matching the precision used in generated artifact names.
func (c LatLon) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// ParseLatLon parses a "lat,lon" pair in decimal degrees.
func ParseLatLon(s string) (LatLon, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return LatLon{}, fmt.Errorf("geo: expected \"lat,lon\", got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return LatLon{}, fmt.Errorf("geo: bad latitude in %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return LatLon{}, fmt.Errorf("geo: bad longitude in %q: %w", s, err)
	}
	if lat < -90 || lat > 90 {
		return LatLon{}, fmt.Errorf("geo: latitude %v out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return LatLon{}, fmt.Errorf("geo: longitude %v out of range", lon)
	}
	return LatLon{Lat: lat, Lon: lon}, nil
}

// Haversine returns the great-circle distance between two coordinates
// in kilometers.
func Haversine(a, b LatLon) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Point represents a 2D point in planar (canvas or optical) coordinates.
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}
