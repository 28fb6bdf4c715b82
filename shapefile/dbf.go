package shapefile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// dbfField describes one column of the attribute table.
type dbfField struct {
	name   string
	typ    byte
	length int
}

// readDBF parses a dBASE attribute table into one map per active
// record. Deleted records are skipped; text is decoded per the header's
// language driver.
func readDBF(r io.Reader) ([]map[string]string, error) {
	header := make([]byte, 32)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	recordCount := int(binary.LittleEndian.Uint32(header[4:8]))
	headerSize := int(binary.LittleEndian.Uint16(header[8:10]))
	recordSize := int(binary.LittleEndian.Uint16(header[10:12]))
	languageDriver := header[29]

	if headerSize < 33 || (headerSize-33)%32 != 0 {
		return nil, fmt.Errorf("implausible header size %d", headerSize)
	}

	fields, err := readFieldDescriptors(r, (headerSize-33)/32)
	if err != nil {
		return nil, err
	}

	width := 1 // deletion flag
	for _, f := range fields {
		width += f.length
	}
	if width != recordSize {
		return nil, fmt.Errorf("field widths sum to %d, header says %d", width, recordSize)
	}

	decoder := decoderFor(languageDriver)

	records := make([]map[string]string, 0, recordCount)
	buf := make([]byte, recordSize)
	for i := 0; i < recordCount; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading record %d: %w", i+1, err)
		}
		if buf[0] == '*' {
			continue // deleted
		}

		attrs := make(map[string]string, len(fields))
		offset := 1
		for _, f := range fields {
			attrs[f.name] = decodeValue(buf[offset:offset+f.length], f.typ, decoder)
			offset += f.length
		}
		records = append(records, attrs)
	}

	return records, nil
}

// readFieldDescriptors parses n 32 byte descriptors followed by the
// 0x0D terminator.
func readFieldDescriptors(r io.Reader, n int) ([]dbfField, error) {
	fields := make([]dbfField, 0, n)
	desc := make([]byte, 32)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, desc); err != nil {
			return nil, fmt.Errorf("reading field descriptor %d: %w", i+1, err)
		}
		name := string(bytes.TrimRight(desc[0:11], "\x00"))
		fields = append(fields, dbfField{
			name:   name,
			typ:    desc[11],
			length: int(desc[16]),
		})
	}

	term := make([]byte, 1)
	if _, err := io.ReadFull(r, term); err != nil {
		return nil, fmt.Errorf("reading descriptor terminator: %w", err)
	}
	if term[0] != 0x0D {
		return nil, fmt.Errorf("bad descriptor terminator 0x%02X", term[0])
	}

	return fields, nil
}

// decoderFor maps the dBASE language driver byte to a character set
// decoder. Unknown drivers (including zero, the usual marker for UTF-8
// sidecar .cpg files) pass bytes through unchanged.
func decoderFor(languageDriver byte) *encoding.Decoder {
	switch languageDriver {
	case 0x01:
		return charmap.CodePage437.NewDecoder()
	case 0x02:
		return charmap.CodePage850.NewDecoder()
	case 0x03, 0x57:
		return charmap.Windows1252.NewDecoder()
	case 0x64:
		return charmap.CodePage852.NewDecoder()
	case 0x65:
		return charmap.CodePage866.NewDecoder()
	case 0xC8:
		return charmap.Windows1250.NewDecoder()
	case 0xC9:
		return charmap.Windows1251.NewDecoder()
	default:
		return nil
	}
}

// decodeValue trims padding and decodes the raw field bytes. Only
// character fields go through the code page decoder; numeric, logical
// and date fields are plain ASCII.
func decodeValue(raw []byte, typ byte, decoder *encoding.Decoder) string {
	trimmed := bytes.Trim(raw, " \x00")
	if len(trimmed) == 0 {
		return ""
	}
	if typ != 'C' || decoder == nil {
		return string(trimmed)
	}
	decoded, err := decoder.Bytes(trimmed)
	if err != nil {
		return string(trimmed)
	}
	return string(decoded)
}
