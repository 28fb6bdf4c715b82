// Package format provides file format detection for toolkit artifacts.
package format

import (
	"archive/zip"
	"encoding/binary"
	"io"
	"path/filepath"
	"strings"
)

// shapefileCode is the big-endian file code opening .shp and .shx files.
const shapefileCode = 9994

// Format represents a recognized artifact format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// PNG indicates a PNG raster image.
	PNG
	// ZIP indicates a generic ZIP archive.
	ZIP
	// ShapefileArchive indicates a ZIP archive carrying shapefile layers.
	ShapefileArchive
	// SHP indicates a shapefile geometry file.
	SHP
	// SHX indicates a shapefile index file.
	SHX
	// DBF indicates a dBASE attribute table.
	DBF
	// PRJ indicates a projection definition file.
	PRJ
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case PNG:
		return "PNG"
	case ZIP:
		return "ZIP"
	case ShapefileArchive:
		return "ShapefileArchive"
	case SHP:
		return "SHP"
	case SHX:
		return "SHX"
	case DBF:
		return "DBF"
	case PRJ:
		return "PRJ"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case PNG:
		return ".png"
	case ZIP, ShapefileArchive:
		return ".zip"
	case SHP:
		return ".shp"
	case SHX:
		return ".shx"
	case DBF:
		return ".dbf"
	case PRJ:
		return ".prj"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return DOCX
	case ".png":
		return PNG
	case ".zip":
		return ZIP
	case ".shp":
		return SHP
	case ".shx":
		return SHX
	case ".dbf":
		return DBF
	case ".prj":
		return PRJ
	default:
		return Unknown
	}
}

// pngMagic is the eight byte PNG signature.
var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// DetectFromMagic checks leading bytes to determine format. ZIP-based
// formats need content inspection, so a bare ZIP signature maps to ZIP;
// use DetectFromReader to tell a DOCX or shapefile bundle apart. The
// shapefile index shares the geometry file's signature, so both map
// to SHP here.
func DetectFromMagic(data []byte) Format {
	if len(data) >= len(pngMagic) && string(data[:len(pngMagic)]) == string(pngMagic) {
		return PNG
	}
	if len(data) < 4 {
		return Unknown
	}

	if data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return ZIP
	}

	if binary.BigEndian.Uint32(data[:4]) == shapefileCode {
		return SHP
	}

	if looksLikeDBF(data) {
		return DBF
	}

	return Unknown
}

// looksLikeDBF checks for a plausible dBASE header: a known version
// byte and a header length that covers at least one field descriptor.
func looksLikeDBF(data []byte) bool {
	if len(data) < 32 {
		return false
	}
	switch data[0] {
	case 0x02, 0x03, 0x30, 0x83, 0x8B:
	default:
		return false
	}
	headerLen := binary.LittleEndian.Uint16(data[8:10])
	return headerLen >= 33
}

// DetectFromReader inspects content to determine format. Unlike
// DetectFromMagic it opens ZIP archives to distinguish DOCX packages
// from shapefile bundles.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if len(magic) >= 4 && magic[0] == 0x50 && magic[1] == 0x4B && magic[2] == 0x03 && magic[3] == 0x04 {
		return detectZIPFormat(r, size)
	}

	if f := DetectFromMagic(magic); f != Unknown {
		return f, nil
	}
	return Unknown, nil
}

// detectZIPFormat inspects a ZIP archive to tell OOXML packages and
// shapefile bundles apart.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			continue
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasSuffix(strings.ToLower(f.Name), ".shp"):
			return ShapefileArchive, nil
		}
	}

	return ZIP, nil
}
