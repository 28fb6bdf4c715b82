package shapefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmonterde/fieldops/geo"
)

// Reader streams records from a .shp file one at a time, so large
// layers can be filtered without holding every geometry in memory.
// Attributes are joined from the sibling .dbf table and the .prj
// sidecar, when present, supplies the CRS text.
type Reader struct {
	f      *os.File
	br     *bufio.Reader
	stype  ShapeType
	bounds geo.BBox
	crs    string
	attrs  []map[string]string
	read   int
}

// NewReader opens the layer at path (the .shp file) and validates its
// header. Close must be called when done.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	br := bufio.NewReader(f)
	stype, bounds, err := readHeader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	r := &Reader{f: f, br: br, stype: stype, bounds: bounds}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	if prj, err := os.ReadFile(base + ".prj"); err == nil {
		r.crs = strings.TrimSpace(string(prj))
	}
	if dbf, err := os.Open(base + ".dbf"); err == nil {
		rows, err := readDBF(bufio.NewReader(dbf))
		dbf.Close()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("attribute table: %w", err)
		}
		r.attrs = rows
	}

	return r, nil
}

// ShapeType returns the layer's declared geometry type.
func (r *Reader) ShapeType() ShapeType {
	return r.stype
}

// Bounds returns the extent declared in the file header.
func (r *Reader) Bounds() geo.BBox {
	return r.bounds
}

// CRS returns the projection text from the .prj sidecar, or "" when
// none was present.
func (r *Reader) CRS() string {
	return r.crs
}

// Next returns the next record, with its attribute row joined when the
// layer has a table. Null placeholder shapes are skipped. Returns
// io.EOF at a clean end of file; a shape count that disagrees with the
// attribute table is an error.
func (r *Reader) Next() (Record, error) {
	for {
		rec, err := readRecord(r.br)
		if err == io.EOF {
			if r.attrs != nil && r.read != len(r.attrs) {
				return Record{}, fmt.Errorf("attribute rows (%d) do not match shapes (%d)", len(r.attrs), r.read)
			}
			return Record{}, io.EOF
		}
		if err != nil {
			return Record{}, fmt.Errorf("record %d: %w", r.read+1, err)
		}
		if rec.Number != r.read+1 {
			return Record{}, fmt.Errorf("record numbered %d, want %d", rec.Number, r.read+1)
		}
		if r.attrs != nil {
			if r.read >= len(r.attrs) {
				return Record{}, fmt.Errorf("attribute rows (%d) do not match shapes (%d or more)", len(r.attrs), r.read+1)
			}
			rec.Attrs = r.attrs[r.read]
		}
		r.read++

		if rec.Type == ShapeNull {
			continue
		}
		return rec, nil
	}
}

// Close releases the underlying file. It is safe to call after a read
// error.
func (r *Reader) Close() error {
	return r.f.Close()
}
