package geo

import "math"

// BBox is a geographic bounding box in decimal degrees. MinLon/MinLat is
// the south-west corner, MaxLon/MaxLat the north-east corner.
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// NewBBox creates a bounding box from west, south, east, north edges.
func NewBBox(minLon, minLat, maxLon, maxLat float64) BBox {
	return BBox{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
}

// Around returns the square box extending delta degrees from center in
// every direction.
func Around(center LatLon, delta float64) BBox {
	return BBox{
		MinLon: center.Lon - delta,
		MinLat: center.Lat - delta,
		MaxLon: center.Lon + delta,
		MaxLat: center.Lat + delta,
	}
}

// Width returns the longitudinal extent in degrees.
func (b BBox) Width() float64 {
	return b.MaxLon - b.MinLon
}

// Height returns the latitudinal extent in degrees.
func (b BBox) Height() float64 {
	return b.MaxLat - b.MinLat
}

// Center returns the midpoint of the box.
func (b BBox) Center() LatLon {
	return LatLon{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// Contains checks if a coordinate lies inside the box, edges included.
func (b BBox) Contains(c LatLon) bool {
	return c.Lon >= b.MinLon && c.Lon <= b.MaxLon &&
		c.Lat >= b.MinLat && c.Lat <= b.MaxLat
}

// Intersects checks if two boxes overlap.
func (b BBox) Intersects(other BBox) bool {
	return !(b.MaxLon < other.MinLon ||
		b.MinLon > other.MaxLon ||
		b.MaxLat < other.MinLat ||
		b.MinLat > other.MaxLat)
}

// Union returns the smallest box covering both boxes.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		MinLon: math.Min(b.MinLon, other.MinLon),
		MinLat: math.Min(b.MinLat, other.MinLat),
		MaxLon: math.Max(b.MaxLon, other.MaxLon),
		MaxLat: math.Max(b.MaxLat, other.MaxLat),
	}
}

// Expand grows the box by a margin in degrees on all sides.
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		MinLon: b.MinLon - margin,
		MinLat: b.MinLat - margin,
		MaxLon: b.MaxLon + margin,
		MaxLat: b.MaxLat + margin,
	}
}

// ExtendTo grows the box to include the coordinate.
func (b BBox) ExtendTo(c LatLon) BBox {
	return BBox{
		MinLon: math.Min(b.MinLon, c.Lon),
		MinLat: math.Min(b.MinLat, c.Lat),
		MaxLon: math.Max(b.MaxLon, c.Lon),
		MaxLat: math.Max(b.MaxLat, c.Lat),
	}
}

// IsValid returns true if the box has positive extent on both axes.
func (b BBox) IsValid() bool {
	return b.Width() > 0 && b.Height() > 0
}
