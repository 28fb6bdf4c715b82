package docx

import "encoding/xml"

// stylesXML represents the structure of word/styles.xml.
type stylesXML struct {
	XMLName     xml.Name       `xml:"w:styles"`
	XmlnsW      string         `xml:"xmlns:w,attr"`
	DocDefaults docDefaultsXML `xml:"w:docDefaults"`
	Styles      []styleDefXML  `xml:"w:style"`
}

// docDefaultsXML represents document default run properties.
type docDefaultsXML struct {
	RPrDefault rPrDefaultXML `xml:"w:rPrDefault"`
}

type rPrDefaultXML struct {
	RPr styleRunPropsXML `xml:"w:rPr"`
}

// styleDefXML represents a single style definition.
type styleDefXML struct {
	Type    string            `xml:"w:type,attr"`
	StyleID string            `xml:"w:styleId,attr"`
	Default string            `xml:"w:default,attr,omitempty"`
	Name    styleNameXML      `xml:"w:name"`
	BasedOn *basedOnXML       `xml:"w:basedOn,omitempty"`
	Next    *nextXML          `xml:"w:next,omitempty"`
	PPr     *stylParPropsXML  `xml:"w:pPr,omitempty"`
	RPr     *styleRunPropsXML `xml:"w:rPr,omitempty"`
	TblPr   *styleTblPropsXML `xml:"w:tblPr,omitempty"`
}

type styleNameXML struct {
	Val string `xml:"w:val,attr"`
}

type basedOnXML struct {
	Val string `xml:"w:val,attr"`
}

type nextXML struct {
	Val string `xml:"w:val,attr"`
}

// stylParPropsXML holds the paragraph properties a style declares.
type stylParPropsXML struct {
	KeepNext   *boolXML       `xml:"w:keepNext,omitempty"`
	Spacing    *spacingXML    `xml:"w:spacing,omitempty"`
	OutlineLvl *outlineLvlXML `xml:"w:outlineLvl,omitempty"`
}

type spacingXML struct {
	Before string `xml:"w:before,attr,omitempty"`
	After  string `xml:"w:after,attr,omitempty"`
}

type outlineLvlXML struct {
	Val string `xml:"w:val,attr"`
}

// styleRunPropsXML holds the run properties a style declares.
type styleRunPropsXML struct {
	Fonts *runFontsXML `xml:"w:rFonts,omitempty"`
	Bold  *boolXML     `xml:"w:b,omitempty"`
	Size  *sizeXML     `xml:"w:sz,omitempty"`
}

type runFontsXML struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
}

// styleTblPropsXML holds the table properties a table style declares.
type styleTblPropsXML struct {
	Borders tableBordersXML `xml:"w:tblBorders"`
}

// buildStyles declares the styles the writer references: Normal, Title,
// Heading1, Heading2 and the bordered TableGrid.
func buildStyles() *stylesXML {
	calibri := &runFontsXML{ASCII: "Calibri", HAnsi: "Calibri"}

	return &stylesXML{
		XmlnsW: nsW,
		DocDefaults: docDefaultsXML{
			RPrDefault: rPrDefaultXML{
				RPr: styleRunPropsXML{
					Fonts: calibri,
					Size:  &sizeXML{Val: "22"},
				},
			},
		},
		Styles: []styleDefXML{
			{
				Type:    "paragraph",
				StyleID: "Normal",
				Default: "1",
				Name:    styleNameXML{Val: "Normal"},
			},
			{
				Type:    "paragraph",
				StyleID: "Title",
				Name:    styleNameXML{Val: "Title"},
				BasedOn: &basedOnXML{Val: "Normal"},
				Next:    &nextXML{Val: "Normal"},
				PPr: &stylParPropsXML{
					Spacing: &spacingXML{After: "240"},
				},
				RPr: &styleRunPropsXML{Bold: &boolXML{}, Size: &sizeXML{Val: "28"}},
			},
			{
				Type:    "paragraph",
				StyleID: "Heading1",
				Name:    styleNameXML{Val: "heading 1"},
				BasedOn: &basedOnXML{Val: "Normal"},
				Next:    &nextXML{Val: "Normal"},
				PPr: &stylParPropsXML{
					KeepNext:   &boolXML{},
					Spacing:    &spacingXML{Before: "240", After: "120"},
					OutlineLvl: &outlineLvlXML{Val: "0"},
				},
				RPr: &styleRunPropsXML{Bold: &boolXML{}, Size: &sizeXML{Val: "24"}},
			},
			{
				Type:    "paragraph",
				StyleID: "Heading2",
				Name:    styleNameXML{Val: "heading 2"},
				BasedOn: &basedOnXML{Val: "Normal"},
				Next:    &nextXML{Val: "Normal"},
				PPr: &stylParPropsXML{
					KeepNext:   &boolXML{},
					Spacing:    &spacingXML{Before: "240", After: "120"},
					OutlineLvl: &outlineLvlXML{Val: "1"},
				},
				RPr: &styleRunPropsXML{Bold: &boolXML{}, Size: &sizeXML{Val: "24"}},
			},
			{
				Type:    "table",
				StyleID: "TableNormal",
				Default: "1",
				Name:    styleNameXML{Val: "Normal Table"},
			},
			{
				Type:    "table",
				StyleID: "TableGrid",
				Name:    styleNameXML{Val: "Table Grid"},
				BasedOn: &basedOnXML{Val: "TableNormal"},
				TblPr: &styleTblPropsXML{
					Borders: gridBorders(),
				},
			},
		},
	}
}
