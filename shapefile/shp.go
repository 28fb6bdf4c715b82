package shapefile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/rmonterde/fieldops/geo"
)

// fileCode opens every .shp and .shx file (big-endian).
const fileCode = 9994

// headerSize is the fixed size of the main file header in bytes.
const headerSize = 100

// maxRecordWords caps a single record's content length (in 16-bit
// words) so a corrupt header cannot trigger a huge allocation.
const maxRecordWords = 1 << 26

// readHeader parses the fixed 100 byte main file header.
func readHeader(r io.Reader) (ShapeType, geo.BBox, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return ShapeNull, geo.BBox{}, fmt.Errorf("reading header: %w", err)
	}

	if code := binary.BigEndian.Uint32(header[0:4]); code != fileCode {
		return ShapeNull, geo.BBox{}, fmt.Errorf("bad file code %d, want %d", code, fileCode)
	}

	shapeType := ShapeType(binary.LittleEndian.Uint32(header[32:36]))
	bounds := geo.NewBBox(
		readFloat(header[36:44]),
		readFloat(header[44:52]),
		readFloat(header[52:60]),
		readFloat(header[60:68]),
	)
	return shapeType, bounds, nil
}

// readSHP parses the geometry file: the 100 byte header, then records
// until EOF.
func readSHP(r io.Reader) (ShapeType, geo.BBox, []Record, error) {
	shapeType, bounds, err := readHeader(r)
	if err != nil {
		return ShapeNull, geo.BBox{}, nil, err
	}

	var records []Record
	for {
		rec, err := readRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return shapeType, bounds, nil, fmt.Errorf("record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}

	return shapeType, bounds, records, nil
}

func readFloat(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// readRecord parses one record: the big-endian record header, then the
// shape content. Returns io.EOF cleanly at end of file.
func readRecord(r io.Reader) (Record, error) {
	var head struct {
		Number        int32
		ContentLength int32 // in 16-bit words
	}
	if err := binary.Read(r, binary.BigEndian, &head); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("reading record header: %w", err)
	}
	if head.ContentLength < 2 || head.ContentLength > maxRecordWords {
		return Record{}, fmt.Errorf("implausible content length %d words", head.ContentLength)
	}

	content := make([]byte, int(head.ContentLength)*2)
	if _, err := io.ReadFull(r, content); err != nil {
		return Record{}, fmt.Errorf("reading record content: %w", err)
	}

	rec := Record{
		Number: int(head.Number),
		Type:   ShapeType(binary.LittleEndian.Uint32(content[0:4])),
	}

	rc := bytes.NewReader(content[4:])
	switch rec.Type {
	case ShapeNull:
		// Empty placeholder record.
	case ShapePoint:
		var pt struct{ X, Y float64 }
		if err := binary.Read(rc, binary.LittleEndian, &pt); err != nil {
			return Record{}, fmt.Errorf("reading point: %w", err)
		}
		rec.Point = geo.LatLon{Lat: pt.Y, Lon: pt.X}
	case ShapePolyline, ShapePolygon:
		line, err := readPolyline(rc)
		if err != nil {
			return Record{}, err
		}
		rec.Line = line
	default:
		return Record{}, fmt.Errorf("unsupported shape type %d", rec.Type)
	}

	return rec, nil
}

// readPolyline parses the shared PolyLine/Polygon layout: bounding box,
// part offsets, then the flat point array.
func readPolyline(r *bytes.Reader) (*Polyline, error) {
	var head struct {
		Box       [4]float64
		NumParts  int32
		NumPoints int32
	}
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return nil, fmt.Errorf("reading polyline header: %w", err)
	}
	if head.NumParts <= 0 || head.NumPoints < 0 {
		return nil, fmt.Errorf("implausible polyline counts: %d parts, %d points", head.NumParts, head.NumPoints)
	}
	if int64(head.NumParts)*4+int64(head.NumPoints)*16 > int64(r.Len()) {
		return nil, fmt.Errorf("polyline claims %d parts and %d points, only %d bytes remain",
			head.NumParts, head.NumPoints, r.Len())
	}

	offsets := make([]int32, head.NumParts)
	if err := binary.Read(r, binary.LittleEndian, &offsets); err != nil {
		return nil, fmt.Errorf("reading part offsets: %w", err)
	}

	points := make([][2]float64, head.NumPoints)
	if err := binary.Read(r, binary.LittleEndian, &points); err != nil {
		return nil, fmt.Errorf("reading points: %w", err)
	}

	line := &Polyline{
		Bounds: geo.NewBBox(head.Box[0], head.Box[1], head.Box[2], head.Box[3]),
		Parts:  make([][]geo.LatLon, 0, head.NumParts),
	}

	for i, start := range offsets {
		end := head.NumPoints
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if start < 0 || end < start || end > head.NumPoints {
			return nil, fmt.Errorf("part %d spans [%d,%d) outside %d points", i, start, end, head.NumPoints)
		}
		part := make([]geo.LatLon, 0, end-start)
		for _, p := range points[start:end] {
			part = append(part, geo.LatLon{Lat: p[1], Lon: p[0]})
		}
		line.Parts = append(line.Parts, part)
	}

	return line, nil
}
