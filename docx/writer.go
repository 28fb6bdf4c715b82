// Package docx provides DOCX (Office Open XML) document generation.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"github.com/rmonterde/fieldops/model"
)

// applicationName is recorded in docProps/app.xml.
const applicationName = "fieldops"

// Writer serializes a model.Document into a DOCX package.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write serializes the document as a complete DOCX package.
func (wr *Writer) Write(doc *model.Document) error {
	if doc == nil {
		return fmt.Errorf("docx: nil document")
	}

	zw := zip.NewWriter(wr.w)

	parts := []struct {
		name string
		body func() (any, error)
	}{
		{"[Content_Types].xml", func() (any, error) { return contentTypes(), nil }},
		{"_rels/.rels", func() (any, error) { return packageRels(), nil }},
		{"word/document.xml", func() (any, error) { return buildDocument(doc) }},
		{"word/_rels/document.xml.rels", func() (any, error) { return documentRels(), nil }},
		{"word/styles.xml", func() (any, error) { return buildStyles(), nil }},
		{"docProps/core.xml", func() (any, error) { return coreProperties(doc.Metadata), nil }},
		{"docProps/app.xml", func() (any, error) { return appProperties(), nil }},
	}

	for _, part := range parts {
		v, err := part.body()
		if err != nil {
			return fmt.Errorf("building %s: %w", part.name, err)
		}
		if err := writePart(zw, part.name, v); err != nil {
			return fmt.Errorf("writing %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

// Write serializes the document as a DOCX package to w.
func Write(w io.Writer, doc *model.Document) error {
	return NewWriter(w).Write(doc)
}

// WriteFile serializes the document to path, replacing any existing file
// atomically.
func WriteFile(path string, doc *model.Document) error {
	pf, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer pf.Cleanup()

	if err := Write(pf, doc); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}

// writePart marshals v into the archive under name, preceded by the XML
// declaration.
func writePart(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Flush()
}

// buildDocument converts the model document into the document.xml tree.
func buildDocument(doc *model.Document) (*documentXML, error) {
	body := bodyXML{
		SectPr: sectPrXML{
			// US Letter, one inch margins, in twips.
			PageSize: pageSizeXML{W: "12240", H: "15840"},
			PageMargins: pageMarginXML{
				Top: "1440", Right: "1440", Bottom: "1440", Left: "1440",
				Header: "720", Footer: "720",
			},
		},
	}

	for i, elem := range doc.Elements {
		switch e := elem.(type) {
		case *model.Heading:
			body.Blocks = append(body.Blocks, headingParagraph(e))
		case *model.Paragraph:
			body.Blocks = append(body.Blocks, textParagraph(e))
		case *model.Table:
			body.Blocks = append(body.Blocks, buildTable(e))
		case *model.PageBreak:
			body.Blocks = append(body.Blocks, pageBreakParagraph())
		default:
			return nil, fmt.Errorf("unsupported element %s at index %d", elem.Type(), i)
		}
	}

	return &documentXML{
		XmlnsW: nsW,
		XmlnsR: nsR,
		Body:   body,
	}, nil
}

// headingParagraph renders a heading: centered, bold, title or heading
// style depending on level.
func headingParagraph(h *model.Heading) paragraphXML {
	return paragraphXML{
		Properties: &paragraphPropsXML{
			Style:         &styleRefXML{Val: headingStyleID(h.Level)},
			Justification: &justificationXML{Val: "center"},
		},
		Runs: textRuns(h.Text, &runPropsXML{
			Bold: &boolXML{},
			Size: halfPoints(h.FontSize()),
		}),
	}
}

// headingStyleID maps a heading level to a declared style. Level 0 is the
// title; deeper levels share the Heading2 look.
func headingStyleID(level int) string {
	switch {
	case level <= 0:
		return "Title"
	case level == 1:
		return "Heading1"
	default:
		return "Heading2"
	}
}

// textParagraph renders a body paragraph with its run properties and
// alignment.
func textParagraph(p *model.Paragraph) paragraphXML {
	var props *runPropsXML
	if p.FontBold || p.FontSize > 0 {
		props = &runPropsXML{Size: halfPoints(p.FontSize)}
		if p.FontBold {
			props.Bold = &boolXML{}
		}
	}
	return paragraphXML{
		Properties: &paragraphPropsXML{
			Justification: &justificationXML{Val: alignmentValue(p.Alignment)},
		},
		Runs: textRuns(p.Text, props),
	}
}

// pageBreakParagraph renders an explicit page break.
func pageBreakParagraph() paragraphXML {
	return paragraphXML{
		Runs: []runXML{{Break: &breakXML{Type: "page"}}},
	}
}

// textRuns splits text on newlines into runs; every line after the first
// is preceded by a line break within the same paragraph.
func textRuns(text string, props *runPropsXML) []runXML {
	var runs []runXML
	for i, line := range strings.Split(text, "\n") {
		run := runXML{Properties: props}
		if i > 0 {
			run.Break = &breakXML{}
		}
		if line != "" {
			run.Text = &textXML{Space: "preserve", Value: line}
		}
		if run.Break != nil || run.Text != nil {
			runs = append(runs, run)
		}
	}
	return runs
}

// alignmentValue maps a model alignment to the OOXML jc value.
func alignmentValue(a model.Alignment) string {
	switch a {
	case model.AlignCenter:
		return "center"
	case model.AlignRight:
		return "right"
	case model.AlignJustify:
		return "both"
	default:
		return "left"
	}
}

// halfPoints converts a point size to the half-point string OOXML uses,
// or nil when the size is unset.
func halfPoints(points float64) *sizeXML {
	if points <= 0 {
		return nil
	}
	return &sizeXML{Val: fmt.Sprintf("%d", int(points*2))}
}

// contentTypes declares the package part content types.
func contentTypes() *contentTypesXML {
	return &contentTypesXML{
		Xmlns: nsCT,
		Defaults: []contentTypeDefault{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []contentTypeOvr{
			{PartName: "/word/document.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
			{PartName: "/word/styles.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
			{PartName: "/docProps/core.xml", ContentType: "application/vnd.openxmlformats-package.core-properties+xml"},
			{PartName: "/docProps/app.xml", ContentType: "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
		},
	}
}

// packageRels relates the package root to its parts.
func packageRels() *relationshipsXML {
	return &relationshipsXML{
		Xmlns: nsRels,
		Relationships: []relationshipXML{
			{ID: "rId1", Type: relTypeDocument, Target: "word/document.xml"},
			{ID: "rId2", Type: relTypeCore, Target: "docProps/core.xml"},
			{ID: "rId3", Type: relTypeApp, Target: "docProps/app.xml"},
		},
	}
}

// documentRels relates document.xml to its style part.
func documentRels() *relationshipsXML {
	return &relationshipsXML{
		Xmlns: nsRels,
		Relationships: []relationshipXML{
			{ID: "rId1", Type: relTypeStyles, Target: "styles.xml"},
		},
	}
}

// coreProperties builds docProps/core.xml from the document metadata.
func coreProperties(meta model.Metadata) *corePropertiesXML {
	props := &corePropertiesXML{
		XmlnsCP:      nsCP,
		XmlnsDC:      nsDC,
		XmlnsDCTerms: nsDCTerms,
		XmlnsXSI:     nsXSI,
		Title:        meta.Title,
		Subject:      meta.Subject,
		Creator:      meta.Author,
	}
	if !meta.Created.IsZero() {
		stamp := meta.Created.UTC().Format(time.RFC3339)
		props.Created = &w3cdtfXML{Type: "dcterms:W3CDTF", Value: stamp}
		props.Modified = &w3cdtfXML{Type: "dcterms:W3CDTF", Value: stamp}
	}
	return props
}

// appProperties builds docProps/app.xml.
func appProperties() *appPropertiesXML {
	return &appPropertiesXML{
		Xmlns:       nsEP,
		Application: applicationName,
	}
}
