// Package shapefile reads ESRI shapefile layers: geometry from the
// .shp file, attributes from the sibling .dbf table.
package shapefile

import (
	"fmt"
	"io"
	"sort"

	"github.com/rmonterde/fieldops/geo"
)

// ShapeType identifies the geometry type of a layer or record.
type ShapeType int32

const (
	// ShapeNull is an empty placeholder shape.
	ShapeNull ShapeType = 0
	// ShapePoint is a single coordinate.
	ShapePoint ShapeType = 1
	// ShapePolyline is a multi-part line.
	ShapePolyline ShapeType = 3
	// ShapePolygon is a multi-part ring, sharing the polyline layout.
	ShapePolygon ShapeType = 5
)

// String returns the shape type name.
func (s ShapeType) String() string {
	switch s {
	case ShapeNull:
		return "Null"
	case ShapePoint:
		return "Point"
	case ShapePolyline:
		return "PolyLine"
	case ShapePolygon:
		return "Polygon"
	default:
		return fmt.Sprintf("ShapeType(%d)", int32(s))
	}
}

// Polyline is a multi-part line geometry.
type Polyline struct {
	Bounds geo.BBox
	Parts  [][]geo.LatLon
}

// PointCount returns the total number of vertices across all parts.
func (p *Polyline) PointCount() int {
	n := 0
	for _, part := range p.Parts {
		n += len(part)
	}
	return n
}

// Record pairs one shape with its attribute row. Point carries the
// coordinate for point shapes; Line the geometry for line and polygon
// shapes.
type Record struct {
	Number int
	Type   ShapeType
	Point  geo.LatLon
	Line   *Polyline
	Attrs  map[string]string
}

// Attr returns the named attribute value, or "" when absent.
func (r Record) Attr(name string) string {
	return r.Attrs[name]
}

// Layer is a parsed shapefile layer. CRS holds the projection text
// from the .prj sidecar when one was read.
type Layer struct {
	Type    ShapeType
	Bounds  geo.BBox
	CRS     string
	Records []Record
}

// Open reads the whole layer at path (the .shp file) eagerly.
// Attributes are joined from the sibling .dbf table and the .prj
// sidecar supplies the CRS, when they exist. Use NewReader to stream
// records instead.
func Open(path string) (*Layer, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	layer := &Layer{Type: r.ShapeType(), Bounds: r.Bounds(), CRS: r.CRS()}
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		layer.Records = append(layer.Records, rec)
	}
	return layer, nil
}

// ReadLayer parses geometry from shp and, when dbf is non-nil, joins
// one attribute row per shape record.
func ReadLayer(shp io.Reader, dbf io.Reader) (*Layer, error) {
	shapeType, bounds, records, err := readSHP(shp)
	if err != nil {
		return nil, err
	}

	if dbf != nil {
		rows, err := readDBF(dbf)
		if err != nil {
			return nil, fmt.Errorf("attribute table: %w", err)
		}
		if len(rows) != len(records) {
			return nil, fmt.Errorf("attribute rows (%d) do not match shapes (%d)", len(rows), len(records))
		}
		for i := range records {
			records[i].Attrs = rows[i]
		}
	}

	return &Layer{Type: shapeType, Bounds: bounds, Records: records}, nil
}

// Len returns the number of records in the layer.
func (l *Layer) Len() int {
	return len(l.Records)
}

// Filter returns a new layer keeping records whose attribute matches
// one of the given values.
func (l *Layer) Filter(field string, values ...string) *Layer {
	keep := make(map[string]bool, len(values))
	for _, v := range values {
		keep[v] = true
	}

	out := &Layer{Type: l.Type, CRS: l.CRS}
	for _, rec := range l.Records {
		if keep[rec.Attr(field)] {
			out.Records = append(out.Records, rec)
		}
	}
	out.Bounds = recordBounds(out.Records)
	return out
}

// Clip returns a new layer keeping records whose geometry touches the
// box. Line records are kept when their bounding box intersects; point
// records when they fall inside.
func (l *Layer) Clip(b geo.BBox) *Layer {
	out := &Layer{Type: l.Type, CRS: l.CRS}
	for _, rec := range l.Records {
		switch {
		case rec.Line != nil && b.Intersects(rec.Line.Bounds):
			out.Records = append(out.Records, rec)
		case rec.Type == ShapePoint && b.Contains(rec.Point):
			out.Records = append(out.Records, rec)
		}
	}
	out.Bounds = recordBounds(out.Records)
	return out
}

// Classes returns the sorted distinct values of the named attribute.
func (l *Layer) Classes(field string) []string {
	seen := make(map[string]bool)
	for _, rec := range l.Records {
		if v := rec.Attr(field); v != "" {
			seen[v] = true
		}
	}
	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)
	return classes
}

// recordBounds unions the geometry extents of the records.
func recordBounds(records []Record) geo.BBox {
	var bounds geo.BBox
	first := true
	for _, rec := range records {
		var b geo.BBox
		switch {
		case rec.Line != nil:
			b = rec.Line.Bounds
		case rec.Type == ShapePoint:
			b = geo.Around(rec.Point, 0)
		default:
			continue
		}
		if first {
			bounds = b
			first = false
		} else {
			bounds = bounds.Union(b)
		}
	}
	return bounds
}
