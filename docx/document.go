package docx

import "encoding/xml"

// XML namespaces used in DOCX packages
const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsCP      = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDCTerms = "http://purl.org/dc/terms/"
	nsXSI     = "http://www.w3.org/2001/XMLSchema-instance"
	nsCT      = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsEP      = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
)

// Relationship types referenced from the package parts.
const (
	relTypeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCore     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeApp      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeStyles   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
)

// documentXML represents the structure of word/document.xml. The w: prefixes
// are emitted literally; the root element declares the namespaces.
type documentXML struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	Body    bodyXML  `xml:"w:body"`
}

// blockXML is a block-level element in the document body. Paragraphs and
// tables implement it; encoding/xml picks each element's own XMLName when
// marshaling the slice, preserving flow order.
type blockXML interface {
	block()
}

// bodyXML represents the document body: blocks in flow order followed by
// the section properties.
type bodyXML struct {
	Blocks []blockXML
	SectPr sectPrXML `xml:"w:sectPr"`
}

// sectPrXML represents section properties (<w:sectPr>): page size and
// margins for a US Letter page with one-inch margins.
type sectPrXML struct {
	PageSize    pageSizeXML   `xml:"w:pgSz"`
	PageMargins pageMarginXML `xml:"w:pgMar"`
}

type pageSizeXML struct {
	W string `xml:"w:w,attr"`
	H string `xml:"w:h,attr"`
}

type pageMarginXML struct {
	Top    string `xml:"w:top,attr"`
	Right  string `xml:"w:right,attr"`
	Bottom string `xml:"w:bottom,attr"`
	Left   string `xml:"w:left,attr"`
	Header string `xml:"w:header,attr"`
	Footer string `xml:"w:footer,attr"`
}

// paragraphXML represents a paragraph element (<w:p>).
type paragraphXML struct {
	XMLName    xml.Name           `xml:"w:p"`
	Properties *paragraphPropsXML `xml:"w:pPr,omitempty"`
	Runs       []runXML
}

func (paragraphXML) block() {}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style         *styleRefXML      `xml:"w:pStyle,omitempty"`
	Justification *justificationXML `xml:"w:jc,omitempty"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"w:val,attr"`
}

// justificationXML represents text justification (left, center, right, both).
type justificationXML struct {
	Val string `xml:"w:val,attr"`
}

// runXML represents a text run (<w:r>). A run carries either text or a
// break; runs with both emit the break before the text.
type runXML struct {
	XMLName    xml.Name     `xml:"w:r"`
	Properties *runPropsXML `xml:"w:rPr,omitempty"`
	Break      *breakXML    `xml:"w:br,omitempty"`
	Text       *textXML     `xml:"w:t,omitempty"`
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Bold *boolXML `xml:"w:b,omitempty"`
	Size *sizeXML `xml:"w:sz,omitempty"`
}

// boolXML represents a boolean toggle property such as <w:b/>.
type boolXML struct{}

// sizeXML represents font size in half-points.
type sizeXML struct {
	Val string `xml:"w:val,attr"`
}

// textXML represents text content (<w:t>). Space is always preserved so
// leading and trailing spaces survive round trips.
type textXML struct {
	Space string `xml:"xml:space,attr"`
	Value string `xml:",chardata"`
}

// breakXML represents a break (<w:br>); Type "page" forces a page break.
type breakXML struct {
	Type string `xml:"w:type,attr,omitempty"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	XMLName    xml.Name      `xml:"w:tbl"`
	Properties tablePropsXML `xml:"w:tblPr"`
	Grid       tableGridXML  `xml:"w:tblGrid"`
	Rows       []tableRowXML `xml:"w:tr"`
}

func (tableXML) block() {}

// tablePropsXML represents table properties.
type tablePropsXML struct {
	Style   styleRefXML     `xml:"w:tblStyle"`
	Width   tableSizeXML    `xml:"w:tblW"`
	Borders tableBordersXML `xml:"w:tblBorders"`
}

// tableSizeXML represents table/cell width (dxa twips, pct or auto).
type tableSizeXML struct {
	W    string `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

// tableBordersXML represents the six table borders.
type tableBordersXML struct {
	Top     borderXML `xml:"w:top"`
	Left    borderXML `xml:"w:left"`
	Bottom  borderXML `xml:"w:bottom"`
	Right   borderXML `xml:"w:right"`
	InsideH borderXML `xml:"w:insideH"`
	InsideV borderXML `xml:"w:insideV"`
}

// borderXML represents a single border.
type borderXML struct {
	Val   string `xml:"w:val,attr"`
	Sz    string `xml:"w:sz,attr"`
	Space string `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

// tableGridXML represents the table grid definition.
type tableGridXML struct {
	Cols []gridColXML `xml:"w:gridCol"`
}

// gridColXML represents a grid column with its width in twips.
type gridColXML struct {
	W string `xml:"w:w,attr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Cells []tableCellXML `xml:"w:tc"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Properties cellPropsXML   `xml:"w:tcPr"`
	Paragraphs []paragraphXML `xml:"w:p"`
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	Width tableSizeXML `xml:"w:tcW"`
}

// relationshipsXML represents a .rels part.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single package relationship.
type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name             `xml:"Types"`
	Xmlns     string               `xml:"xmlns,attr"`
	Defaults  []contentTypeDefault `xml:"Default"`
	Overrides []contentTypeOvr     `xml:"Override"`
}

type contentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypeOvr struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// corePropertiesXML represents docProps/core.xml (Dublin Core metadata).
type corePropertiesXML struct {
	XMLName      xml.Name    `xml:"cp:coreProperties"`
	XmlnsCP      string      `xml:"xmlns:cp,attr"`
	XmlnsDC      string      `xml:"xmlns:dc,attr"`
	XmlnsDCTerms string      `xml:"xmlns:dcterms,attr"`
	XmlnsXSI     string      `xml:"xmlns:xsi,attr"`
	Title        string      `xml:"dc:title,omitempty"`
	Subject      string      `xml:"dc:subject,omitempty"`
	Creator      string      `xml:"dc:creator,omitempty"`
	Created      *w3cdtfXML  `xml:"dcterms:created,omitempty"`
	Modified     *w3cdtfXML  `xml:"dcterms:modified,omitempty"`
}

// w3cdtfXML represents a dcterms date with the required xsi:type.
type w3cdtfXML struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

// appPropertiesXML represents docProps/app.xml.
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Xmlns       string   `xml:"xmlns,attr"`
	Application string   `xml:"Application"`
}
